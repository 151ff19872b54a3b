package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fernhollow/storefront/cart/pkg/request"
	"github.com/fernhollow/storefront/cart/pkg/response"
	"github.com/fernhollow/storefront/internal/cache"
	commonErrors "github.com/fernhollow/storefront/internal/errors"
	"github.com/fernhollow/storefront/internal/log"
	"github.com/fernhollow/storefront/internal/otel"
	"github.com/fernhollow/storefront/internal/repository"
)

// maxMutationRetries bounds the optimistic retry loop when concurrent
// requests race on the same cart version.
const maxMutationRetries = 3

type CartService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
	cache   *redis.Client
}

func NewCartService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
) CartService {
	return CartService{pool: pool, queries: queries, cache: cache}
}

func (s CartService) FindCart(c context.Context, userID uuid.UUID) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService FindCart")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KeyCartByUserId, userID.String())

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService FindCart").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart in cache").Logger()
	logger.Info().Msg("finding cart in cache")
	jsonCache, err := s.cache.Get(c, cacheKey).Result()
	if err == nil {
		cached := response.Cart{}
		if err := json.Unmarshal([]byte(jsonCache), &cached); err == nil {
			logger.Info().Msg("found cart in cache")
			return cached, nil
		}
	}
	logger.Info().Msg("cart not in cache")

	logger = logger.With().Str(log.KeyProcess, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	c = logger.WithContext(c)
	cart, err := s.findOrCreateCart(c, userID)
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger = logger.With().Str(log.KeyCartID, cart.ID.String()).Logger()
	logger.Info().Msg("found cart")

	logger = logger.With().Str(log.KeyProcess, "finding cart items").Logger()
	logger.Info().Msg("finding cart items")
	items, err := s.queries.FindCartItemsWithProduct(c, cart.ID)
	if err != nil {
		err = fmt.Errorf("failed finding cart items with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msgf("found %d cart items", len(items))

	cartResponse := cart.Response(items)

	logger = logger.With().Str(log.KeyProcess, "inserting cart to cache").Logger()
	logger.Info().Msg("inserting cart to cache")
	if jsonCart, err := json.Marshal(cartResponse); err == nil {
		if err := s.cache.Set(c, cacheKey, jsonCart, cache.TTL).Err(); err != nil {
			err = fmt.Errorf("failed inserting cart to cache with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}
	logger.Info().Msg("inserted cart to cache")

	return cartResponse, nil
}

func (s CartService) AddItem(
	c context.Context,
	userID uuid.UUID,
	param request.AddItem,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddItem").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyProductID, param.ProductID.String()).
		Int32(log.KeyQuantity, param.Quantity).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding product").Logger()
	logger.Info().Msg("finding product")
	product, err := s.queries.FindProductById(c, param.ProductID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf(
				"failed finding productId=%s with error=%w",
				param.ProductID.String(),
				commonErrors.ErrProductNotFound,
			)
		} else {
			err = fmt.Errorf("failed finding productId=%s with error=%w", param.ProductID.String(), err)
		}
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	if !product.Active {
		err = fmt.Errorf(
			"failed adding productId=%s with error=%w",
			param.ProductID.String(),
			commonErrors.ErrProductNotFound,
		)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("found product")

	price := repository.DecimalFromNumeric(product.Price)

	logger = logger.With().Str(log.KeyProcess, "adding item to cart").Logger()
	logger.Info().Msg("adding item to cart")
	c = logger.WithContext(c)
	cart, err := s.mutate(c, userID, func(lines []cartLine) ([]cartLine, error) {
		return mergeItem(lines, param.ProductID, param.Quantity, price), nil
	})
	if err != nil {
		err = fmt.Errorf("failed adding item to cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("added item to cart")

	return cart, nil
}

func (s CartService) UpdateItem(
	c context.Context,
	userID uuid.UUID,
	param request.UpdateItem,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateItem").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyProductID, param.ProductID.String()).
		Int32(log.KeyQuantity, param.Quantity).
		Logger()

	if param.Quantity < 0 {
		err := fmt.Errorf(
			"failed updating cart item with error=%w",
			commonErrors.ErrInvalidQuantity,
		)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "updating cart item").Logger()
	logger.Info().Msg("updating cart item")
	c = logger.WithContext(c)
	cart, err := s.mutate(c, userID, func(lines []cartLine) ([]cartLine, error) {
		updated, found := setItemQuantity(lines, param.ProductID, param.Quantity)
		if !found {
			return nil, fmt.Errorf(
				"failed updating productId=%s with error=%w",
				param.ProductID.String(),
				commonErrors.ErrItemNotFound,
			)
		}
		return updated, nil
	})
	if err != nil {
		err = fmt.Errorf("failed updating cart item with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("updated cart item")

	return cart, nil
}

func (s CartService) RemoveItem(
	c context.Context,
	userID uuid.UUID,
	param request.RemoveItem,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveItem").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyProductID, param.ProductID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "removing cart item").Logger()
	logger.Info().Msg("removing cart item")
	c = logger.WithContext(c)
	cart, err := s.mutate(c, userID, func(lines []cartLine) ([]cartLine, error) {
		return removeItem(lines, param.ProductID), nil
	})
	if err != nil {
		err = fmt.Errorf("failed removing cart item with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("removed cart item")

	return cart, nil
}

func (s CartService) findOrCreateCart(
	c context.Context,
	userID uuid.UUID,
) (repository.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService findOrCreateCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService findOrCreateCart").
		Str(log.KeyUserID, userID.String()).
		Logger()

	cart, err := s.queries.FindCartByUserId(c, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("failed finding cart by userId=%s with error=%w", userID.String(), err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.Cart{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "inserting cart").Logger()
	logger.Info().Msg("inserting cart")
	cart, err = s.queries.InsertCart(c, userID)
	if err != nil {
		err = fmt.Errorf("failed inserting cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.Cart{}, err
	}
	logger.Info().Msg("inserted cart")

	return cart, nil
}

// mutate runs a read-modify-write cycle on the user's cart: load lines,
// apply fn, rewrite items and total under the cart's version guard.
// A version mismatch rolls back and retries against fresh state.
func (s CartService) mutate(
	c context.Context,
	userID uuid.UUID,
	fn func(lines []cartLine) ([]cartLine, error),
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService mutate")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService mutate").
		Str(log.KeyUserID, userID.String()).
		Logger()

	for attempt := 1; attempt <= maxMutationRetries; attempt++ {
		cart, err := s.findOrCreateCart(c, userID)
		if err != nil {
			err = fmt.Errorf("failed finding cart with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
		lg := logger.With().
			Str(log.KeyCartID, cart.ID.String()).
			Int("attempt", attempt).
			Logger()

		items, err := s.queries.FindCartItems(c, cart.ID)
		if err != nil {
			err = fmt.Errorf("failed finding cart items with error=%w", err)
			commonErrors.HandleError(err, span)
			lg.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
		lines := make([]cartLine, len(items))
		for i, item := range items {
			lines[i] = cartLine{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     repository.DecimalFromNumeric(item.Price),
			}
		}

		lines, err = fn(lines)
		if err != nil {
			commonErrors.HandleError(err, span)
			lg.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
		total := cartTotal(lines)

		conflicted, err := s.persistLines(c, cart, lines, total)
		if err != nil {
			err = fmt.Errorf("failed persisting cart with error=%w", err)
			commonErrors.HandleError(err, span)
			lg.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
		if conflicted {
			lg.Info().Msg("cart version conflict, retrying")
			continue
		}

		cacheKey := fmt.Sprintf(cache.KeyCartByUserId, userID.String())
		lg = lg.With().Str(log.KeyCacheKey, cacheKey).Logger()
		if err := s.cache.Del(c, cacheKey).Err(); err != nil {
			err = fmt.Errorf("failed deleting cart cache with error=%w", err)
			commonErrors.HandleError(err, span)
			lg.Error().Err(err).Msg(err.Error())
		}

		c = lg.WithContext(c)
		return s.FindCart(c, userID)
	}

	err := fmt.Errorf(
		"failed mutating cart after %d attempts with error=%w",
		maxMutationRetries,
		commonErrors.ErrCartConflict,
	)
	commonErrors.HandleError(err, span)
	logger.Error().Err(err).Msg(err.Error())
	return response.Cart{}, err
}

func (s CartService) persistLines(
	c context.Context,
	cart repository.Cart,
	lines []cartLine,
	total decimal.Decimal,
) (conflicted bool, err error) {
	c, span := otel.Tracer.Start(c, "CartService persistLines")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService persistLines").
		Str(log.KeyCartID, cart.ID.String()).
		Str(log.KeyTotal, total.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Info().Msg("initializing transaction")
	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return false, err
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

	logger = logger.With().Str(log.KeyProcess, "rewriting cart items").Logger()
	logger.Info().Msg("rewriting cart items")
	if err := queries.DeleteCartItems(c, cart.ID); err != nil {
		err = fmt.Errorf("failed deleting cart items with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return false, err
	}
	args := make([]repository.InsertCartItemsParams, len(lines))
	for i, line := range lines {
		args[i] = repository.InsertCartItemsParams{
			CartID:    cart.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     repository.NumericFromDecimal(line.Price),
		}
	}
	inserted, err := queries.InsertCartItems(c, args)
	if err != nil {
		err = fmt.Errorf("failed inserting cart items with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return false, err
	}
	logger.Info().Msgf("rewrote %d cart items", inserted)

	logger = logger.With().Str(log.KeyProcess, "updating cart totals").Logger()
	logger.Info().Msg("updating cart totals")
	affected, err := queries.UpdateCartTotals(c, repository.UpdateCartTotalsParams{
		Total:   repository.NumericFromDecimal(total),
		ID:      cart.ID,
		Version: cart.Version,
	})
	if err != nil {
		err = fmt.Errorf("failed updating cart totals with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return false, err
	}
	if affected == 0 {
		logger.Info().Msg("cart version changed, aborting")
		return true, nil
	}
	logger.Info().Msg("updated cart totals")

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	if err := tx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return false, err
	}
	logger.Info().Msg("committed transaction")

	return false, nil
}
