package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v82"

	"github.com/fernhollow/storefront/internal/repository"
)

func TestTransitionForEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		eventType         stripe.EventType
		wantStatus        repository.OrderStatus
		wantPaymentStatus repository.PaymentStatus
		wantHandled       bool
	}{
		{
			name:              "succeeded intent moves order to processing and paid",
			eventType:         stripe.EventTypePaymentIntentSucceeded,
			wantStatus:        repository.OrderStatusProcessing,
			wantPaymentStatus: repository.PaymentStatusPaid,
			wantHandled:       true,
		},
		{
			name:              "failed intent cancels the order",
			eventType:         stripe.EventTypePaymentIntentPaymentFailed,
			wantStatus:        repository.OrderStatusCancelled,
			wantPaymentStatus: repository.PaymentStatusFailed,
			wantHandled:       true,
		},
		{
			name:        "created intent is ignored",
			eventType:   stripe.EventTypePaymentIntentCreated,
			wantHandled: false,
		},
		{
			name:        "unrelated event is ignored",
			eventType:   stripe.EventTypeChargeRefunded,
			wantHandled: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			status, paymentStatus, handled := transitionForEvent(tt.eventType)
			assert.Equal(t, tt.wantHandled, handled)
			if tt.wantHandled {
				assert.Equal(t, tt.wantStatus, status)
				assert.Equal(t, tt.wantPaymentStatus, paymentStatus)
			}
		})
	}
}

func TestTransitionForEventIdempotent(t *testing.T) {
	t.Parallel()

	// Re-delivery of the same event must map to the same pair; the
	// update is a plain field set so applying it twice is safe.
	first, firstPay, _ := transitionForEvent(stripe.EventTypePaymentIntentSucceeded)
	second, secondPay, _ := transitionForEvent(stripe.EventTypePaymentIntentSucceeded)
	assert.Equal(t, first, second)
	assert.Equal(t, firstPay, secondPay)
}
