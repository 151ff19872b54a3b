package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fernhollow/storefront/shipping/pkg/response"
)

func TestQuoteFor(t *testing.T) {
	t.Parallel()

	cfg := response.Config{
		FreeShippingThreshold: decimal.NewFromInt(50),
		StandardShippingCost:  decimal.RequireFromString("3.99"),
		ExpressShippingCost:   decimal.RequireFromString("5.99"),
		ShippingEnabled:       true,
	}

	tests := []struct {
		name         string
		subtotal     decimal.Decimal
		wantStandard decimal.Decimal
		wantExpress  decimal.Decimal
		wantFree     bool
	}{
		{
			name:         "below threshold charges both tiers",
			subtotal:     decimal.RequireFromString("49.99"),
			wantStandard: decimal.RequireFromString("3.99"),
			wantExpress:  decimal.RequireFromString("5.99"),
			wantFree:     false,
		},
		{
			name:         "at threshold is free on both tiers",
			subtotal:     decimal.NewFromInt(50),
			wantStandard: decimal.Zero,
			wantExpress:  decimal.Zero,
			wantFree:     true,
		},
		{
			name:         "above threshold is free on both tiers",
			subtotal:     decimal.RequireFromString("120.50"),
			wantStandard: decimal.Zero,
			wantExpress:  decimal.Zero,
			wantFree:     true,
		},
		{
			name:         "zero subtotal charges both tiers",
			subtotal:     decimal.Zero,
			wantStandard: decimal.RequireFromString("3.99"),
			wantExpress:  decimal.RequireFromString("5.99"),
			wantFree:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			quote := QuoteFor(cfg, tt.subtotal)
			assert.True(t, tt.wantStandard.Equal(quote.StandardCost), "standard cost")
			assert.True(t, tt.wantExpress.Equal(quote.ExpressCost), "express cost")
			assert.Equal(t, tt.wantFree, quote.IsFreeEligible)
			assert.True(t, cfg.FreeShippingThreshold.Equal(quote.FreeThreshold))
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.True(t, decimal.NewFromInt(50).Equal(cfg.FreeShippingThreshold))
	assert.True(t, decimal.Zero.Equal(cfg.StandardShippingCost))
	assert.True(t, decimal.RequireFromString("5.99").Equal(cfg.ExpressShippingCost))
	assert.True(t, cfg.ShippingEnabled)
}
