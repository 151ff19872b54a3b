package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	commonErrors "github.com/fernhollow/storefront/internal/errors"
	commonHttp "github.com/fernhollow/storefront/internal/http"
	"github.com/fernhollow/storefront/internal/log"
	"github.com/fernhollow/storefront/internal/middleware"
	"github.com/fernhollow/storefront/internal/otel"
	"github.com/fernhollow/storefront/internal/shipping/service"
	"github.com/fernhollow/storefront/shipping/pkg/request"
)

type ShippingController struct {
	service *service.ShippingService
}

func AttachShippingController(router *mux.Router, svc *service.ShippingService) {
	controller := ShippingController{service: svc}

	public := router.PathPrefix("/shipping").Subrouter()
	public.HandleFunc("/config", controller.FindConfig).Methods(http.MethodGet)

	admin := router.PathPrefix("/admin/shipping").Subrouter()
	admin.Use(middleware.Auth, middleware.Admin)
	admin.HandleFunc("", controller.FindConfigAdmin).Methods(http.MethodGet)
	admin.HandleFunc("", controller.UpdateConfig).Methods(http.MethodPut)
}

func (t ShippingController) FindConfig(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ShippingController FindConfig")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ShippingController FindConfig").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding shipping config").Logger()
	logger.Info().Msg("finding shipping config")
	c = logger.WithContext(c)
	cfg, err := t.service.FindConfig(c)
	if err != nil {
		err = fmt.Errorf("failed finding shipping config with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("found shipping config")

	data := map[string]interface{}{"config": cfg}
	if raw := r.URL.Query().Get("subtotal"); raw != "" {
		subtotal, err := decimal.NewFromString(raw)
		if err != nil {
			err = fmt.Errorf("failed parsing subtotal=%s with error=%w", raw, err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
				"status":     "failed",
				"statusCode": http.StatusBadRequest,
				"message":    err.Error(),
			})
			return
		}
		data["quote"] = service.QuoteFor(cfg, subtotal)
	}

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "found shipping config",
		"data":       data,
	})
}

func (t ShippingController) FindConfigAdmin(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ShippingController FindConfigAdmin")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ShippingController FindConfigAdmin").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding shipping config").Logger()
	logger.Info().Msg("finding shipping config")
	c = logger.WithContext(c)
	cfg, err := t.service.FindConfig(c)
	if err != nil {
		err = fmt.Errorf("failed finding shipping config with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("found shipping config")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "found shipping config",
		"data":       map[string]interface{}{"config": cfg},
	})
}

func (t ShippingController) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ShippingController UpdateConfig")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ShippingController UpdateConfig").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.UpdateConfig{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating requestbody").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(log.KeyProcess, "updating shipping config").Logger()
	logger.Info().Msg("updating shipping config")
	c = logger.WithContext(c)
	cfg, err := t.service.UpdateConfig(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed updating shipping config with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("updated shipping config")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "updated shipping config",
		"data":       map[string]interface{}{"config": cfg},
	})
}
