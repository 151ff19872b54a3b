package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	commonErrors "github.com/fernhollow/storefront/internal/errors"
	"github.com/fernhollow/storefront/internal/repository"
	"github.com/fernhollow/storefront/order/pkg/request"
	userRequest "github.com/fernhollow/storefront/user/pkg/request"
)

func TestOrderMaterialization(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	c := context.Background()
	env := setup(t, c)
	defer env.teardown(t)

	user, err := env.queries.InsertUser(c, repository.InsertUserParams{
		Name:  "Test Shopper",
		Email: "shopper@example.com",
		Role:  "customer",
	})
	require.NoError(t, err)

	product, err := env.queries.InsertProduct(c, repository.InsertProductParams{
		Name:        "Widget",
		Description: "A widget",
		Price:       repository.NumericFromDecimal(decimal.RequireFromString("9.99")),
		Category:    "widgets",
		Images:      []byte(`["/widget.jpg"]`),
		Stock:       100,
		Featured:    false,
		Active:      true,
	})
	require.NoError(t, err)

	checkout := request.CreateOrder{
		ShippingAddress: userRequest.Address{
			Name:     "Test Shopper",
			Line1:    "1 High Street",
			City:     "London",
			Postcode: "N1 9GU",
			Country:  "GB",
		},
	}

	t.Run("creating an order with no cart is rejected", func(t *testing.T) {
		_, err := env.service.CreateOrder(c, user.ID, checkout)
		assert.ErrorIs(t, err, commonErrors.ErrEmptyCart)

		orders, err := env.queries.FindOrdersByUserId(c, user.ID)
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	cart, err := env.queries.InsertCart(c, user.ID)
	require.NoError(t, err)

	t.Run("creating an order from a cart with no items is rejected", func(t *testing.T) {
		_, err := env.service.CreateOrder(c, user.ID, checkout)
		assert.ErrorIs(t, err, commonErrors.ErrEmptyCart)

		orders, err := env.queries.FindOrdersByUserId(c, user.ID)
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	_, err = env.queries.InsertCartItems(c, []repository.InsertCartItemsParams{{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  2,
		Price:     repository.NumericFromDecimal(decimal.RequireFromString("9.99")),
	}})
	require.NoError(t, err)

	t.Run("payment intent failure cancels the order and keeps the cart", func(t *testing.T) {
		_, err := env.service.CreateOrder(c, user.ID, checkout)
		require.Error(t, err)

		orders, err := env.queries.FindOrdersByUserId(c, user.ID)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, repository.OrderStatusCancelled, orders[0].Status)
		assert.Equal(t, repository.PaymentStatusFailed, orders[0].PaymentStatus)

		items, err := env.queries.FindCartItems(c, cart.ID)
		require.NoError(t, err)
		assert.Len(t, items, 1, "cart must survive a failed checkout")
	})

	var order repository.Order

	t.Run("order items keep the captured price after a catalog price change", func(t *testing.T) {
		cartItems, err := env.queries.FindCartItems(c, cart.ID)
		require.NoError(t, err)
		require.Len(t, cartItems, 1)

		address, err := json.Marshal(checkout.ShippingAddress)
		require.NoError(t, err)

		var orderItems []repository.OrderItem
		order, orderItems, err = env.service.insertOrder(
			c,
			user.ID,
			decimal.RequireFromString("19.98"),
			address,
			cartItems,
		)
		require.NoError(t, err)
		require.Len(t, orderItems, 1)
		assert.Equal(t, repository.OrderStatusPending, order.Status)
		assert.Equal(t, repository.PaymentStatusPending, order.PaymentStatus)

		_, err = env.pool.Exec(c, "update products set price = 24.99 where id = $1", product.ID)
		require.NoError(t, err)

		again, err := env.queries.FindOrderItems(c, order.ID)
		require.NoError(t, err)
		require.Len(t, again, 1)
		assert.True(t,
			decimal.RequireFromString("9.99").Equal(repository.DecimalFromNumeric(again[0].Price)),
			"order line must keep the price captured at checkout")
		assert.True(t,
			decimal.RequireFromString("19.98").Equal(repository.DecimalFromNumeric(order.Total)))
	})

	t.Run("payment event re-delivery settles the order once and stays settled", func(t *testing.T) {
		err := env.queries.SetOrderPaymentIntent(c, repository.SetOrderPaymentIntentParams{
			PaymentIntentID: "pi_settled",
			ID:              order.ID,
		})
		require.NoError(t, err)

		event := stripe.Event{
			Type: stripe.EventTypePaymentIntentSucceeded,
			Data: &stripe.EventData{Raw: json.RawMessage(`{"id":"pi_settled"}`)},
		}

		require.NoError(t, env.service.ApplyPaymentEvent(c, event))
		settled, err := env.queries.FindOrderById(c, repository.FindOrderByIdParams{
			ID:     order.ID,
			UserID: user.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, repository.OrderStatusProcessing, settled.Status)
		assert.Equal(t, repository.PaymentStatusPaid, settled.PaymentStatus)

		require.NoError(t, env.service.ApplyPaymentEvent(c, event))
		settled, err = env.queries.FindOrderById(c, repository.FindOrderByIdParams{
			ID:     order.ID,
			UserID: user.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, repository.OrderStatusProcessing, settled.Status)
		assert.Equal(t, repository.PaymentStatusPaid, settled.PaymentStatus)
	})

	t.Run("event for an unknown payment intent is acknowledged", func(t *testing.T) {
		event := stripe.Event{
			Type: stripe.EventTypePaymentIntentSucceeded,
			Data: &stripe.EventData{Raw: json.RawMessage(`{"id":"pi_unknown"}`)},
		}
		assert.NoError(t, env.service.ApplyPaymentEvent(c, event))
	})
}
