package request

import "github.com/shopspring/decimal"

type UpdateConfig struct {
	FreeShippingThreshold decimal.Decimal `json:"freeShippingThreshold"`
	StandardShippingCost  decimal.Decimal `json:"standardShippingCost"`
	ExpressShippingCost   decimal.Decimal `json:"expressShippingCost"`
	ShippingEnabled       bool            `json:"shippingEnabled"`
}
