package cache

import "time"

const (
	KeyShippingConfig = "storefront:shipping:config"
	KeyProduct        = "storefront:products:%s"
	KeyProductList    = "storefront:products:category=%s:featured=%t"
	KeyCartByUserId   = "storefront:carts:user:%s"
)

const TTL = time.Hour
