package http

const (
	HeaderContentType     = "Content-Type"
	HeaderValueJson       = "application/json"
	HeaderRequestID       = "X-Request-Id"
	HeaderStripeSignature = "Stripe-Signature"
)
