package controller

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	commonErrors "github.com/fernhollow/storefront/internal/errors"
	commonHttp "github.com/fernhollow/storefront/internal/http"
	"github.com/fernhollow/storefront/internal/log"
	"github.com/fernhollow/storefront/internal/otel"
	"github.com/fernhollow/storefront/internal/payment"
	"github.com/fernhollow/storefront/internal/order/service"
)

// webhookBodyLimit caps the raw payload read for signature checking.
const webhookBodyLimit = 1 << 16

type WebhookController struct {
	service *service.OrderService
	payment *payment.Client
}

// AttachWebhookController registers the payment provider callback. The
// route is unauthenticated; the signature check is the auth.
func AttachWebhookController(
	router *mux.Router,
	svc *service.OrderService,
	payment *payment.Client,
) {
	controller := WebhookController{service: svc, payment: payment}

	router.HandleFunc("/payments/webhook", controller.HandleEvent).Methods(http.MethodPost)
}

func (t WebhookController) HandleEvent(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "WebhookController HandleEvent")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "WebhookController HandleEvent").
		Logger()

	// The raw body must be read before any decoding; the signature is
	// computed over the exact bytes the provider sent.
	logger = logger.With().Str(log.KeyProcess, "reading raw payload").Logger()
	logger.Info().Msg("reading raw payload")
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, webhookBodyLimit))
	if err != nil {
		err = fmt.Errorf("failed reading raw payload with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("read raw payload")

	logger = logger.With().Str(log.KeyProcess, "verifying event").Logger()
	logger.Info().Msg("verifying event")
	c = logger.WithContext(c)
	event, err := t.payment.VerifyEvent(c, payload, r.Header.Get(commonHttp.HeaderStripeSignature))
	if err != nil {
		err = fmt.Errorf("failed verifying event with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KeyStripeEvent, string(event.Type)).Logger()
	logger.Info().Msg("verified event")

	logger = logger.With().Str(log.KeyProcess, "applying payment event").Logger()
	logger.Info().Msg("applying payment event")
	c = logger.WithContext(c)
	if err := t.service.ApplyPaymentEvent(c, event); err != nil {
		err = fmt.Errorf("failed applying payment event with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("applied payment event")

	w.Header().Set(commonHttp.HeaderContentType, commonHttp.HeaderValueJson)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]bool{"received": true}); err != nil {
		err = fmt.Errorf("failed writing acknowledgement with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
}
