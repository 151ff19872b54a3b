package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	commonErrors "github.com/fernhollow/storefront/internal/errors"
	"github.com/fernhollow/storefront/internal/log"
	"github.com/fernhollow/storefront/internal/otel"
	"github.com/fernhollow/storefront/internal/repository"
	"github.com/fernhollow/storefront/user/pkg/request"
)

type UserService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
}

func NewUserService(pool *pgxpool.Pool, queries *repository.Queries) UserService {
	return UserService{pool: pool, queries: queries}
}

func (s UserService) FindAddresses(
	c context.Context,
	userID uuid.UUID,
) ([]request.Address, error) {
	c, span := otel.Tracer.Start(c, "UserService FindAddresses")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService FindAddresses").
		Str(log.KeyUserID, userID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding addresses").Logger()
	logger.Info().Msg("finding addresses")
	raw, err := s.queries.FindUserAddresses(c, userID)
	if err != nil {
		err = fmt.Errorf("failed finding addresses with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("found addresses")

	addresses := []request.Address{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &addresses); err != nil {
			err = fmt.Errorf("failed unmarshaling addresses with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
	}
	return addresses, nil
}

// AddAddress appends to the saved address list; a new default address
// unsets every previous default first so exactly one remains.
func (s UserService) AddAddress(
	c context.Context,
	userID uuid.UUID,
	param request.Address,
) ([]request.Address, error) {
	c, span := otel.Tracer.Start(c, "UserService AddAddress")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService AddAddress").
		Str(log.KeyUserID, userID.String()).
		Logger()

	if param.IsDefault {
		logger = logger.With().Str(log.KeyProcess, "clearing default addresses").Logger()
		logger.Info().Msg("clearing default addresses")
		if err := s.queries.ClearDefaultAddresses(c, userID); err != nil {
			err = fmt.Errorf("failed clearing default addresses with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		logger.Info().Msg("cleared default addresses")
	}

	logger = logger.With().Str(log.KeyProcess, "appending address").Logger()
	logger.Info().Msg("appending address")
	address, err := json.Marshal(param)
	if err != nil {
		err = fmt.Errorf("failed marshaling address with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	err = s.queries.AppendUserAddress(c, repository.AppendUserAddressParams{
		UserID:  userID,
		Address: address,
	})
	if err != nil {
		err = fmt.Errorf("failed appending address with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("appended address")

	c = logger.WithContext(c)
	return s.FindAddresses(c, userID)
}
