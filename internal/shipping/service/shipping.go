package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fernhollow/storefront/internal/cache"
	commonErrors "github.com/fernhollow/storefront/internal/errors"
	"github.com/fernhollow/storefront/internal/log"
	"github.com/fernhollow/storefront/internal/otel"
	"github.com/fernhollow/storefront/internal/repository"
	"github.com/fernhollow/storefront/shipping/pkg/request"
	"github.com/fernhollow/storefront/shipping/pkg/response"
)

type ShippingService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
	cache   *redis.Client
}

func NewShippingService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
) ShippingService {
	return ShippingService{pool: pool, queries: queries, cache: cache}
}

func (s ShippingService) FindConfig(c context.Context) (response.Config, error) {
	c, span := otel.Tracer.Start(c, "ShippingService FindConfig")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ShippingService FindConfig").
		Str(log.KeyCacheKey, cache.KeyShippingConfig).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding shipping config in cache").Logger()
	logger.Info().Msg("finding shipping config in cache")
	jsonCache, err := s.cache.Get(c, cache.KeyShippingConfig).Result()
	if err == nil {
		cfg := response.Config{}
		if err := json.Unmarshal([]byte(jsonCache), &cfg); err == nil {
			logger.Info().Msg("found shipping config in cache")
			return cfg, nil
		}
	}
	logger.Info().Msg("shipping config not in cache")

	logger = logger.With().Str(log.KeyProcess, "finding shipping config in db").Logger()
	logger.Info().Msg("finding shipping config in db")
	row, err := s.queries.FindShippingConfig(c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Info().Msg("shipping config absent, using defaults")
			return DefaultConfig(), nil
		}
		err = fmt.Errorf("failed finding shipping config with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Config{}, err
	}
	cfg := row.Response()
	logger = logger.With().Any(log.KeyShippingConfig, cfg).Logger()
	logger.Info().Msg("found shipping config in db")

	logger = logger.With().Str(log.KeyProcess, "inserting shipping config to cache").Logger()
	logger.Info().Msg("inserting shipping config to cache")
	if jsonCfg, err := json.Marshal(cfg); err == nil {
		if err := s.cache.Set(c, cache.KeyShippingConfig, jsonCfg, cache.TTL).Err(); err != nil {
			err = fmt.Errorf("failed inserting shipping config to cache with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}
	logger.Info().Msg("inserted shipping config to cache")

	return cfg, nil
}

func (s ShippingService) QuoteForSubtotal(
	c context.Context,
	subtotal decimal.Decimal,
) (response.Quote, error) {
	c, span := otel.Tracer.Start(c, "ShippingService QuoteForSubtotal")
	defer span.End()

	cfg, err := s.FindConfig(c)
	if err != nil {
		err = fmt.Errorf("failed finding shipping config with error=%w", err)
		commonErrors.HandleError(err, span)
		return response.Quote{}, err
	}
	return QuoteFor(cfg, subtotal), nil
}

func (s ShippingService) UpdateConfig(
	c context.Context,
	param request.UpdateConfig,
) (response.Config, error) {
	c, span := otel.Tracer.Start(c, "ShippingService UpdateConfig")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ShippingService UpdateConfig").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "upserting shipping config").Logger()
	logger.Info().Msg("upserting shipping config")
	row, err := s.queries.UpsertShippingConfig(c, repository.UpsertShippingConfigParams{
		FreeShippingThreshold: repository.NumericFromDecimal(param.FreeShippingThreshold),
		StandardShippingCost:  repository.NumericFromDecimal(param.StandardShippingCost),
		ExpressShippingCost:   repository.NumericFromDecimal(param.ExpressShippingCost),
		ShippingEnabled:       param.ShippingEnabled,
	})
	if err != nil {
		err = fmt.Errorf("failed upserting shipping config with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Config{}, err
	}
	cfg := row.Response()
	logger = logger.With().Any(log.KeyShippingConfig, cfg).Logger()
	logger.Info().Msg("upserted shipping config")

	logger = logger.With().Str(log.KeyProcess, "refreshing shipping config cache").Logger()
	logger.Info().Msg("refreshing shipping config cache")
	if jsonCfg, err := json.Marshal(cfg); err == nil {
		if err := s.cache.Set(c, cache.KeyShippingConfig, jsonCfg, cache.TTL).Err(); err != nil {
			err = fmt.Errorf("failed refreshing shipping config cache with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}
	logger.Info().Msg("refreshed shipping config cache")

	return cfg, nil
}
