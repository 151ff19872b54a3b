package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMergeItem(t *testing.T) {
	t.Parallel()

	productA := uuid.New()
	productB := uuid.New()

	t.Run("new product appended with captured price", func(t *testing.T) {
		t.Parallel()

		lines := mergeItem(nil, productA, 2, decimal.RequireFromString("9.99"))
		assert.Len(t, lines, 1)
		assert.Equal(t, productA, lines[0].ProductID)
		assert.Equal(t, int32(2), lines[0].Quantity)
		assert.True(t, decimal.RequireFromString("9.99").Equal(lines[0].Price))
	})

	t.Run("existing product adds quantity and keeps original price", func(t *testing.T) {
		t.Parallel()

		lines := []cartLine{
			{ProductID: productA, Quantity: 2, Price: decimal.RequireFromString("9.99")},
		}
		lines = mergeItem(lines, productA, 3, decimal.RequireFromString("14.99"))
		assert.Len(t, lines, 1)
		assert.Equal(t, int32(5), lines[0].Quantity)
		assert.True(t, decimal.RequireFromString("9.99").Equal(lines[0].Price),
			"price captured at first add must not refresh")
	})

	t.Run("second product appended after first", func(t *testing.T) {
		t.Parallel()

		lines := []cartLine{
			{ProductID: productA, Quantity: 1, Price: decimal.NewFromInt(5)},
		}
		lines = mergeItem(lines, productB, 1, decimal.NewFromInt(7))
		assert.Len(t, lines, 2)
		assert.Equal(t, productB, lines[1].ProductID)
	})
}

func TestSetItemQuantity(t *testing.T) {
	t.Parallel()

	productA := uuid.New()
	productB := uuid.New()

	t.Run("replaces quantity outright", func(t *testing.T) {
		t.Parallel()

		lines := []cartLine{
			{ProductID: productA, Quantity: 5, Price: decimal.NewFromInt(3)},
		}
		lines, found := setItemQuantity(lines, productA, 2)
		assert.True(t, found)
		assert.Equal(t, int32(2), lines[0].Quantity)
	})

	t.Run("zero quantity removes the line", func(t *testing.T) {
		t.Parallel()

		lines := []cartLine{
			{ProductID: productA, Quantity: 5, Price: decimal.NewFromInt(3)},
			{ProductID: productB, Quantity: 1, Price: decimal.NewFromInt(4)},
		}
		lines, found := setItemQuantity(lines, productA, 0)
		assert.True(t, found)
		assert.Len(t, lines, 1)
		assert.Equal(t, productB, lines[0].ProductID)
	})

	t.Run("absent product reports not found", func(t *testing.T) {
		t.Parallel()

		lines := []cartLine{
			{ProductID: productA, Quantity: 1, Price: decimal.NewFromInt(3)},
		}
		_, found := setItemQuantity(lines, productB, 2)
		assert.False(t, found)
	})
}

func TestRemoveItem(t *testing.T) {
	t.Parallel()

	productA := uuid.New()
	productB := uuid.New()

	t.Run("removes matching line", func(t *testing.T) {
		t.Parallel()

		lines := []cartLine{
			{ProductID: productA, Quantity: 1, Price: decimal.NewFromInt(3)},
			{ProductID: productB, Quantity: 2, Price: decimal.NewFromInt(4)},
		}
		lines = removeItem(lines, productA)
		assert.Len(t, lines, 1)
		assert.Equal(t, productB, lines[0].ProductID)
	})

	t.Run("absent product is a no-op", func(t *testing.T) {
		t.Parallel()

		lines := []cartLine{
			{ProductID: productA, Quantity: 1, Price: decimal.NewFromInt(3)},
		}
		lines = removeItem(lines, productB)
		assert.Len(t, lines, 1)
	})
}

func TestCartTotal(t *testing.T) {
	t.Parallel()

	t.Run("empty cart totals zero", func(t *testing.T) {
		t.Parallel()

		assert.True(t, decimal.Zero.Equal(cartTotal(nil)))
	})

	t.Run("sums price times quantity per line", func(t *testing.T) {
		t.Parallel()

		lines := []cartLine{
			{ProductID: uuid.New(), Quantity: 2, Price: decimal.RequireFromString("9.99")},
			{ProductID: uuid.New(), Quantity: 1, Price: decimal.RequireFromString("0.01")},
		}
		assert.True(t, decimal.RequireFromString("19.99").Equal(cartTotal(lines)))
	})
}
