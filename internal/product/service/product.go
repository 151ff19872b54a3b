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

	"github.com/fernhollow/storefront/internal/cache"
	commonErrors "github.com/fernhollow/storefront/internal/errors"
	"github.com/fernhollow/storefront/internal/log"
	"github.com/fernhollow/storefront/internal/otel"
	"github.com/fernhollow/storefront/internal/repository"
	"github.com/fernhollow/storefront/product/pkg/request"
	"github.com/fernhollow/storefront/product/pkg/response"
)

type ProductService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
	cache   *redis.Client
}

func NewProductService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
) ProductService {
	return ProductService{pool: pool, queries: queries, cache: cache}
}

func (s ProductService) FindProductById(
	c context.Context,
	productID uuid.UUID,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductById")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KeyProduct, productID.String())

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProductById").
		Str(log.KeyProductID, productID.String()).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding product in cache").Logger()
	logger.Info().Msg("finding product in cache")
	jsonCache, err := s.cache.Get(c, cacheKey).Result()
	if err == nil {
		product := response.Product{}
		if err := json.Unmarshal([]byte(jsonCache), &product); err == nil {
			logger.Info().Msg("found product in cache")
			return product, nil
		}
	}
	logger.Info().Msg("product not in cache")

	logger = logger.With().Str(log.KeyProcess, "finding product in db").Logger()
	logger.Info().Msg("finding product in db")
	row, err := s.queries.FindProductById(c, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf(
				"failed finding productId=%s with error=%w",
				productID.String(),
				commonErrors.ErrProductNotFound,
			)
		} else {
			err = fmt.Errorf("failed finding productId=%s with error=%w", productID.String(), err)
		}
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	product := row.Response()
	logger = logger.With().Any(log.KeyProduct, product).Logger()
	logger.Info().Msg("found product in db")

	logger = logger.With().Str(log.KeyProcess, "inserting product to cache").Logger()
	logger.Info().Msg("inserting product to cache")
	if jsonProduct, err := json.Marshal(product); err == nil {
		if err := s.cache.Set(c, cacheKey, jsonProduct, cache.TTL).Err(); err != nil {
			err = fmt.Errorf("failed inserting product to cache with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}
	logger.Info().Msg("inserted product to cache")

	return product, nil
}

func (s ProductService) FindProducts(
	c context.Context,
	param request.FindProducts,
) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProducts")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KeyProductList, param.Category, param.FeaturedOnly)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProducts").
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding products in cache").Logger()
	logger.Info().Msg("finding products in cache")
	jsonCache, err := s.cache.Get(c, cacheKey).Result()
	if err == nil {
		products := []response.Product{}
		if err := json.Unmarshal([]byte(jsonCache), &products); err == nil {
			logger.Info().Msg("found products in cache")
			return products, nil
		}
	}
	logger.Info().Msg("products not in cache")

	logger = logger.With().Str(log.KeyProcess, "finding products in db").Logger()
	logger.Info().Msg("finding products in db")
	rows, err := s.queries.FindProducts(c, repository.FindProductsParams{
		Category:     param.Category,
		FeaturedOnly: param.FeaturedOnly,
	})
	if err != nil {
		err = fmt.Errorf("failed finding products with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	products := make([]response.Product, len(rows))
	for i, row := range rows {
		products[i] = row.Response()
	}
	logger.Info().Msgf("found %d products in db", len(products))

	logger = logger.With().Str(log.KeyProcess, "inserting products to cache").Logger()
	logger.Info().Msg("inserting products to cache")
	if jsonProducts, err := json.Marshal(products); err == nil {
		if err := s.cache.Set(c, cacheKey, jsonProducts, cache.TTL).Err(); err != nil {
			err = fmt.Errorf("failed inserting products to cache with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}
	logger.Info().Msg("inserted products to cache")

	return products, nil
}
