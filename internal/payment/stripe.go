package payment

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fernhollow/storefront/internal/config"
	"github.com/fernhollow/storefront/internal/errors"
	"github.com/fernhollow/storefront/internal/log"
	"github.com/fernhollow/storefront/internal/otel"
)

type Client struct {
	api           *client.API
	currency      string
	webhookSecret string
}

func NewClient(cfg config.Payment) *Client {
	httpClient := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	api := &client.API{}
	api.Init(cfg.SecretKey, stripe.NewBackends(httpClient))
	return &Client{
		api:           api,
		currency:      cfg.Currency,
		webhookSecret: cfg.WebhookSecret,
	}
}

// CreateIntent registers a payment intent for the order total. The
// amount is charged in the smallest currency unit, so the total is
// shifted by two places and rounded.
func (p *Client) CreateIntent(
	c context.Context,
	orderID uuid.UUID,
	userID uuid.UUID,
	total decimal.Decimal,
) (*stripe.PaymentIntent, error) {
	c, span := otel.Tracer.Start(c, "PaymentClient CreateIntent")
	defer span.End()

	amount := total.Shift(2).Round(0).IntPart()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PaymentClient CreateIntent").
		Str(log.KeyOrderID, orderID.String()).
		Int64(log.KeyPaymentAmount, amount).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "creating payment intent").Logger()
	logger.Info().Msg("creating payment intent")
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(p.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = c
	params.AddMetadata("orderId", orderID.String())
	params.AddMetadata("userId", userID.String())
	intent, err := p.api.PaymentIntents.New(params)
	if err != nil {
		err = fmt.Errorf("failed creating payment intent with error=%w", err)
		errors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger = logger.With().Str(log.KeyPaymentIntentID, intent.ID).Logger()
	logger.Info().Msg("created payment intent")

	return intent, nil
}

// VerifyEvent checks the webhook signature against the raw payload and
// returns the parsed event. The raw body must be read before any json
// decoding or the signature check fails.
func (p *Client) VerifyEvent(
	c context.Context,
	payload []byte,
	signature string,
) (stripe.Event, error) {
	_, span := otel.Tracer.Start(c, "PaymentClient VerifyEvent")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PaymentClient VerifyEvent").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "verifying webhook signature").Logger()
	logger.Info().Msg("verifying webhook signature")
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		err = fmt.Errorf("failed verifying webhook signature with error=%w", err)
		errors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return stripe.Event{}, err
	}
	logger = logger.With().Str(log.KeyStripeEvent, string(event.Type)).Logger()
	logger.Info().Msg("verified webhook signature")

	return event, nil
}
