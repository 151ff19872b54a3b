package service

import (
	"github.com/stripe/stripe-go/v82"

	"github.com/fernhollow/storefront/internal/repository"
)

// transitionForEvent maps a payment event onto the order and payment
// status pair it settles. The bool is false for event types the order
// pipeline does not react to.
func transitionForEvent(
	eventType stripe.EventType,
) (repository.OrderStatus, repository.PaymentStatus, bool) {
	switch eventType {
	case stripe.EventTypePaymentIntentSucceeded:
		return repository.OrderStatusProcessing, repository.PaymentStatusPaid, true
	case stripe.EventTypePaymentIntentPaymentFailed:
		return repository.OrderStatusCancelled, repository.PaymentStatusFailed, true
	default:
		return "", "", false
	}
}
