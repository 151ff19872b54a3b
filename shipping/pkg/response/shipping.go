package response

import (
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	FreeShippingThreshold decimal.Decimal `json:"freeShippingThreshold"`
	StandardShippingCost  decimal.Decimal `json:"standardShippingCost"`
	ExpressShippingCost   decimal.Decimal `json:"expressShippingCost"`
	ShippingEnabled       bool            `json:"shippingEnabled"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

type Quote struct {
	StandardCost   decimal.Decimal `json:"standardCost"`
	ExpressCost    decimal.Decimal `json:"expressCost"`
	IsFreeEligible bool            `json:"isFreeEligible"`
	FreeThreshold  decimal.Decimal `json:"freeThreshold"`
}
