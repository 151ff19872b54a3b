package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"

	"github.com/fernhollow/storefront/internal/cache"
	commonErrors "github.com/fernhollow/storefront/internal/errors"
	"github.com/fernhollow/storefront/internal/log"
	"github.com/fernhollow/storefront/internal/otel"
	"github.com/fernhollow/storefront/internal/payment"
	"github.com/fernhollow/storefront/internal/repository"
	"github.com/fernhollow/storefront/order/pkg/request"
	"github.com/fernhollow/storefront/order/pkg/response"
)

type OrderService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
	cache   *redis.Client
	payment *payment.Client
}

func NewOrderService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
	payment *payment.Client,
) OrderService {
	return OrderService{pool: pool, queries: queries, cache: cache, payment: payment}
}

// CreateOrder snapshots the cart into an immutable order, registers a
// payment intent for the total and clears the cart. Cart clearing is
// the last step so a payment failure never loses cart contents.
func (s OrderService) CreateOrder(
	c context.Context,
	userID uuid.UUID,
	param request.CreateOrder,
) (response.Checkout, error) {
	c, span := otel.Tracer.Start(c, "OrderService CreateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService CreateOrder").
		Str(log.KeyUserID, userID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	cart, err := s.queries.FindCartByUserId(c, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("failed finding cart with error=%w", commonErrors.ErrEmptyCart)
		} else {
			err = fmt.Errorf("failed finding cart with error=%w", err)
		}
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	logger = logger.With().Str(log.KeyCartID, cart.ID.String()).Logger()
	logger.Info().Msg("found cart")

	logger = logger.With().Str(log.KeyProcess, "finding cart items").Logger()
	logger.Info().Msg("finding cart items")
	items, err := s.queries.FindCartItems(c, cart.ID)
	if err != nil {
		err = fmt.Errorf("failed finding cart items with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	if len(items) == 0 {
		err = fmt.Errorf("failed creating order with error=%w", commonErrors.ErrEmptyCart)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	logger.Info().Msgf("found %d cart items", len(items))

	// The order total is the sum of the captured line prices; shipping
	// is a client-displayed cost and is not persisted on the order.
	total := decimal.Zero
	for _, item := range items {
		price := repository.DecimalFromNumeric(item.Price)
		total = total.Add(price.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	logger = logger.With().Str(log.KeyTotal, total.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, "marshaling shipping address").Logger()
	logger.Info().Msg("marshaling shipping address")
	shippingAddress, err := json.Marshal(param.ShippingAddress)
	if err != nil {
		err = fmt.Errorf("failed marshaling shipping address with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	logger.Info().Msg("marshaled shipping address")

	logger = logger.With().Str(log.KeyProcess, "inserting order").Logger()
	logger.Info().Msg("inserting order")
	order, orderItems, err := s.insertOrder(c, userID, total, shippingAddress, items)
	if err != nil {
		err = fmt.Errorf("failed inserting order with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	logger = logger.With().Str(log.KeyOrderID, order.ID.String()).Logger()
	logger.Info().Msg("inserted order")

	logger = logger.With().Str(log.KeyProcess, "creating payment intent").Logger()
	logger.Info().Msg("creating payment intent")
	c = logger.WithContext(c)
	intent, err := s.payment.CreateIntent(c, order.ID, userID, total)
	if err != nil {
		err = fmt.Errorf("failed creating payment intent with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())

		lg := logger.With().Str(log.KeyProcess, "cancelling order").Logger()
		lg.Info().Msg("cancelling order after payment intent failure")
		if _, cancelErr := s.queries.SetOrderStatus(c, repository.SetOrderStatusParams{
			ID:            order.ID,
			Status:        repository.OrderStatusCancelled,
			PaymentStatus: repository.PaymentStatusFailed,
		}); cancelErr != nil {
			cancelErr = fmt.Errorf("failed cancelling order with error=%w", cancelErr)
			commonErrors.HandleError(cancelErr, span)
			lg.Error().Err(cancelErr).Msg(cancelErr.Error())
		}
		lg.Info().Msg("cancelled order")

		return response.Checkout{}, err
	}
	logger = logger.With().Str(log.KeyPaymentIntentID, intent.ID).Logger()
	logger.Info().Msg("created payment intent")

	logger = logger.With().Str(log.KeyProcess, "persisting payment intent ref").Logger()
	logger.Info().Msg("persisting payment intent ref")
	err = s.queries.SetOrderPaymentIntent(c, repository.SetOrderPaymentIntentParams{
		PaymentIntentID: intent.ID,
		ID:              order.ID,
	})
	if err != nil {
		err = fmt.Errorf("failed persisting payment intent ref with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	order.PaymentIntentID = pgtype.Text{String: intent.ID, Valid: true}
	logger.Info().Msg("persisted payment intent ref")

	logger = logger.With().Str(log.KeyProcess, "clearing cart").Logger()
	logger.Info().Msg("clearing cart")
	if err := s.queries.ClearCart(c, cart.ID); err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	cacheKey := fmt.Sprintf(cache.KeyCartByUserId, userID.String())
	if err := s.cache.Del(c, cacheKey).Err(); err != nil {
		err = fmt.Errorf("failed deleting cart cache with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("cleared cart")

	if param.UseNewAddress {
		lg := logger.With().Str(log.KeyProcess, "appending shipping address").Logger()
		lg.Info().Msg("appending shipping address to saved addresses")
		if param.ShippingAddress.IsDefault {
			if err := s.queries.ClearDefaultAddresses(c, userID); err != nil {
				err = fmt.Errorf("failed clearing default addresses with error=%w", err)
				commonErrors.HandleError(err, span)
				lg.Error().Err(err).Msg(err.Error())
			}
		}
		err = s.queries.AppendUserAddress(c, repository.AppendUserAddressParams{
			UserID:  userID,
			Address: shippingAddress,
		})
		if err != nil {
			err = fmt.Errorf("failed appending shipping address with error=%w", err)
			commonErrors.HandleError(err, span)
			lg.Error().Err(err).Msg(err.Error())
		} else {
			lg.Info().Msg("appended shipping address")
		}
	}

	return response.Checkout{
		Order:        order.Response(orderItems),
		ClientSecret: intent.ClientSecret,
	}, nil
}

func (s OrderService) insertOrder(
	c context.Context,
	userID uuid.UUID,
	total decimal.Decimal,
	shippingAddress []byte,
	items []repository.CartItem,
) (repository.Order, []repository.OrderItem, error) {
	c, span := otel.Tracer.Start(c, "OrderService insertOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService insertOrder").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Info().Msg("initializing transaction")
	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.Order{}, nil, err
	}
	defer func() {
		rollbackErr := tx.Rollback(c)
		if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			rollbackErr = fmt.Errorf("failed rolling back transaction with error=%w", rollbackErr)
			commonErrors.HandleError(rollbackErr, span)
			logger.Error().Err(rollbackErr).Msg(rollbackErr.Error())
		}
	}()
	logger.Info().Msg("initialized transaction")

	queries := s.queries.WithTx(tx)

	logger = logger.With().Str(log.KeyProcess, "inserting order row").Logger()
	logger.Info().Msg("inserting order row")
	order, err := queries.InsertOrder(c, repository.InsertOrderParams{
		UserID:          userID,
		Total:           repository.NumericFromDecimal(total),
		ShippingAddress: shippingAddress,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting order row with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.Order{}, nil, err
	}
	logger = logger.With().Str(log.KeyOrderID, order.ID.String()).Logger()
	logger.Info().Msg("inserted order row")

	logger = logger.With().Str(log.KeyProcess, "inserting order items").Logger()
	logger.Info().Msg("inserting order items")
	args := make([]repository.InsertOrderItemsParams, len(items))
	for i, item := range items {
		args[i] = repository.InsertOrderItemsParams{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}
	inserted, err := queries.InsertOrderItems(c, args)
	if err != nil {
		err = fmt.Errorf("failed inserting order items with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.Order{}, nil, err
	}
	logger.Info().Msgf("inserted %d order items", inserted)

	orderItems, err := queries.FindOrderItems(c, order.ID)
	if err != nil {
		err = fmt.Errorf("failed finding order items with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.Order{}, nil, err
	}

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	if err := tx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.Order{}, nil, err
	}
	logger.Info().Msg("committed transaction")

	return order, orderItems, nil
}

// ApplyPaymentEvent settles the order referenced by a verified payment
// event. Unknown event types are acknowledged without effect, and
// re-delivery is safe since the transition is a plain field set.
func (s OrderService) ApplyPaymentEvent(c context.Context, event stripe.Event) error {
	c, span := otel.Tracer.Start(c, "OrderService ApplyPaymentEvent")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService ApplyPaymentEvent").
		Str(log.KeyStripeEvent, string(event.Type)).
		Logger()

	status, paymentStatus, handled := transitionForEvent(event.Type)
	if !handled {
		logger.Info().Msg("ignoring unhandled event type")
		return nil
	}

	logger = logger.With().Str(log.KeyProcess, "unmarshaling payment intent").Logger()
	logger.Info().Msg("unmarshaling payment intent")
	intent := stripe.PaymentIntent{}
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		err = fmt.Errorf("failed unmarshaling payment intent with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger = logger.With().
		Str(log.KeyPaymentIntentID, intent.ID).
		Str(log.KeyOrderStatus, string(status)).
		Str(log.KeyPaymentStatus, string(paymentStatus)).
		Logger()
	logger.Info().Msg("unmarshaled payment intent")

	logger = logger.With().Str(log.KeyProcess, "settling order").Logger()
	logger.Info().Msg("settling order")
	affected, err := s.queries.SetOrderStatusByPaymentIntent(
		c,
		repository.SetOrderStatusByPaymentIntentParams{
			PaymentIntentID: intent.ID,
			Status:          status,
			PaymentStatus:   paymentStatus,
		},
	)
	if err != nil {
		err = fmt.Errorf("failed settling order with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if affected == 0 {
		logger.Warn().Msg("no order matches payment intent")
		return nil
	}
	logger.Info().Msg("settled order")

	return nil
}

func (s OrderService) FindOrders(c context.Context, userID uuid.UUID) ([]response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindOrders").
		Str(log.KeyUserID, userID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding orders").Logger()
	logger.Info().Msg("finding orders")
	rows, err := s.queries.FindOrdersByUserId(c, userID)
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("found %d orders", len(rows))

	return s.ordersWithItems(c, rows)
}

func (s OrderService) FindAllOrders(c context.Context) ([]response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindAllOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindAllOrders").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding orders").Logger()
	logger.Info().Msg("finding orders")
	rows, err := s.queries.FindOrders(c)
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("found %d orders", len(rows))

	return s.ordersWithItems(c, rows)
}

func (s OrderService) ordersWithItems(
	c context.Context,
	rows []repository.Order,
) ([]response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService ordersWithItems")
	defer span.End()

	logger := zerolog.Ctx(c).With().Logger()

	orders := make([]response.Order, len(rows))
	for i, row := range rows {
		items, err := s.queries.FindOrderItems(c, row.ID)
		if err != nil {
			err = fmt.Errorf(
				"failed finding items for orderId=%s with error=%w",
				row.ID.String(),
				err,
			)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		orders[i] = row.Response(items)
	}
	return orders, nil
}

func (s OrderService) FindOrderById(
	c context.Context,
	userID uuid.UUID,
	orderID uuid.UUID,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrderById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindOrderById").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyOrderID, orderID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding order").Logger()
	logger.Info().Msg("finding order")
	order, err := s.queries.FindOrderById(c, repository.FindOrderByIdParams{
		ID:     orderID,
		UserID: userID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("failed finding order with error=%w", commonErrors.ErrOrderNotFound)
		} else {
			err = fmt.Errorf("failed finding order with error=%w", err)
		}
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("found order")

	items, err := s.queries.FindOrderItems(c, order.ID)
	if err != nil {
		err = fmt.Errorf("failed finding order items with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	return order.Response(items), nil
}

// UpdateOrder overwrites the order status directly; there is no
// transition validation, matching the admin surface this serves.
func (s OrderService) UpdateOrder(
	c context.Context,
	orderID uuid.UUID,
	param request.UpdateOrder,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService UpdateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService UpdateOrder").
		Str(log.KeyOrderID, orderID.String()).
		Str(log.KeyOrderStatus, param.Status).
		Logger()

	trackingCarrier := pgtype.Text{}
	trackingNumber := pgtype.Text{}
	if param.TrackingInfo != nil {
		trackingCarrier = pgtype.Text{String: param.TrackingInfo.Carrier, Valid: true}
		trackingNumber = pgtype.Text{String: param.TrackingInfo.TrackingNumber, Valid: true}
	}

	logger = logger.With().Str(log.KeyProcess, "updating order").Logger()
	logger.Info().Msg("updating order")
	order, err := s.queries.UpdateOrderStatus(c, repository.UpdateOrderStatusParams{
		ID:              orderID,
		Status:          repository.OrderStatus(param.Status),
		TrackingCarrier: trackingCarrier,
		TrackingNumber:  trackingNumber,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("failed updating order with error=%w", commonErrors.ErrOrderNotFound)
		} else {
			err = fmt.Errorf("failed updating order with error=%w", err)
		}
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("updated order")

	items, err := s.queries.FindOrderItems(c, order.ID)
	if err != nil {
		err = fmt.Errorf("failed finding order items with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	return order.Response(items), nil
}
