package service

import (
	"github.com/shopspring/decimal"

	"github.com/fernhollow/storefront/shipping/pkg/response"
)

// QuoteFor applies the free-shipping rule to a subtotal. The threshold
// comparison is inclusive: a subtotal equal to the threshold ships free
// on both tiers.
func QuoteFor(cfg response.Config, subtotal decimal.Decimal) response.Quote {
	free := subtotal.GreaterThanOrEqual(cfg.FreeShippingThreshold)
	quote := response.Quote{
		StandardCost:   cfg.StandardShippingCost,
		ExpressCost:    cfg.ExpressShippingCost,
		IsFreeEligible: free,
		FreeThreshold:  cfg.FreeShippingThreshold,
	}
	if free {
		quote.StandardCost = decimal.Zero
		quote.ExpressCost = decimal.Zero
	}
	return quote
}

// DefaultConfig is served until an admin writes the first config row.
func DefaultConfig() response.Config {
	return response.Config{
		FreeShippingThreshold: decimal.NewFromInt(50),
		StandardShippingCost:  decimal.Zero,
		ExpressShippingCost:   decimal.RequireFromString("5.99"),
		ShippingEnabled:       true,
	}
}
