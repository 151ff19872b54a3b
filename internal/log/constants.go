package log

const (
	KeyAppName         = "app"
	KeyTag             = "tag"
	KeyProcess         = "process"
	KeyRequestID       = "requestId"
	KeyRequestBody     = "requestBody"
	KeyRequestHost     = "host"
	KeyRequestIp       = "requesterIP"
	KeyRequestMethod   = "requestMethod"
	KeyRequestURI      = "requestURI"
	KeyRequestURL      = "requestURL"
	KeyTraceID         = "traceId"
	KeySpanID          = "spanId"
	KeyConfig          = "config"
	KeyToken           = "token"
	KeyRole            = "role"
	KeyUserID          = "userId"
	KeyCartID          = "cartId"
	KeyCart            = "cart"
	KeyCartItems       = "cartItems"
	KeyOrderID         = "orderId"
	KeyOrder           = "order"
	KeyOrders          = "orders"
	KeyOrderItems      = "orderItems"
	KeyOrderStatus     = "orderStatus"
	KeyPaymentStatus   = "paymentStatus"
	KeyPaymentIntentID = "paymentIntentId"
	KeyPaymentAmount   = "paymentAmount"
	KeyStripeEvent     = "stripeEvent"
	KeyProductID       = "productId"
	KeyProduct         = "product"
	KeyQuantity        = "quantity"
	KeyPrice           = "price"
	KeyTotal           = "total"
	KeySubtotal        = "subtotal"
	KeyCacheKey        = "cacheKey"
	KeyShippingConfig  = "shippingConfig"
	KeyPathValues      = "pathValues"
	KeyDbURL           = "dbUrl"
)
