package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernhollow/storefront/cart/pkg/request"
	commonErrors "github.com/fernhollow/storefront/internal/errors"
	"github.com/fernhollow/storefront/internal/repository"
)

func TestCartMutations(t *testing.T) {
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

	t.Run("adding item captures price and totals", func(t *testing.T) {
		cart, err := env.service.AddItem(c, user.ID, request.AddItem{
			ProductID: product.ID,
			Quantity:  2,
		})
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, product.ID, cart.Items[0].ProductID)
		assert.Equal(t, int32(2), cart.Items[0].Quantity)
		assert.True(t, decimal.RequireFromString("9.99").Equal(cart.Items[0].Price))
		assert.True(t, decimal.RequireFromString("19.98").Equal(cart.Total))
	})

	t.Run("re-adding merges quantity and keeps captured price", func(t *testing.T) {
		// Raise the catalog price; the line item must keep the price
		// captured at first add.
		_, err := env.pool.Exec(c, "update products set price = 14.99 where id = $1", product.ID)
		require.NoError(t, err)

		cart, err := env.service.AddItem(c, user.ID, request.AddItem{
			ProductID: product.ID,
			Quantity:  3,
		})
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, int32(5), cart.Items[0].Quantity)
		assert.True(t, decimal.RequireFromString("9.99").Equal(cart.Items[0].Price))
		assert.True(t, decimal.RequireFromString("49.95").Equal(cart.Total))
	})

	t.Run("updating quantity replaces it outright", func(t *testing.T) {
		cart, err := env.service.UpdateItem(c, user.ID, request.UpdateItem{
			ProductID: product.ID,
			Quantity:  1,
		})
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, int32(1), cart.Items[0].Quantity)
		assert.True(t, decimal.RequireFromString("9.99").Equal(cart.Total))
	})

	t.Run("negative quantity reports invalid quantity", func(t *testing.T) {
		_, err := env.service.UpdateItem(c, user.ID, request.UpdateItem{
			ProductID: product.ID,
			Quantity:  -1,
		})
		assert.ErrorIs(t, err, commonErrors.ErrInvalidQuantity)
	})

	t.Run("updating an absent product reports item not found", func(t *testing.T) {
		_, err := env.service.UpdateItem(c, user.ID, request.UpdateItem{
			ProductID: uuid.New(),
			Quantity:  1,
		})
		assert.ErrorIs(t, err, commonErrors.ErrItemNotFound)
	})

	t.Run("zero quantity removes the line", func(t *testing.T) {
		cart, err := env.service.UpdateItem(c, user.ID, request.UpdateItem{
			ProductID: product.ID,
			Quantity:  0,
		})
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
		assert.True(t, decimal.Zero.Equal(cart.Total))
	})

	t.Run("removing an absent product is a no-op", func(t *testing.T) {
		cart, err := env.service.RemoveItem(c, user.ID, request.RemoveItem{
			ProductID: uuid.New(),
		})
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
	})

	t.Run("adding an unknown product reports product not found", func(t *testing.T) {
		_, err := env.service.AddItem(c, user.ID, request.AddItem{
			ProductID: uuid.New(),
			Quantity:  1,
		})
		assert.ErrorIs(t, err, commonErrors.ErrProductNotFound)
	})
}
