package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type cartLine struct {
	ProductID uuid.UUID
	Quantity  int32
	Price     decimal.Decimal
}

// mergeItem adds quantity onto an existing line keeping the price
// captured when the product first entered the cart. A product not yet
// in the cart is appended with the price captured now.
func mergeItem(
	lines []cartLine,
	productID uuid.UUID,
	quantity int32,
	price decimal.Decimal,
) []cartLine {
	for i, line := range lines {
		if line.ProductID == productID {
			lines[i].Quantity += quantity
			return lines
		}
	}
	return append(lines, cartLine{ProductID: productID, Quantity: quantity, Price: price})
}

// setItemQuantity replaces the line quantity outright; zero removes the
// line. The bool reports whether the product was present at all.
func setItemQuantity(lines []cartLine, productID uuid.UUID, quantity int32) ([]cartLine, bool) {
	for i, line := range lines {
		if line.ProductID == productID {
			if quantity == 0 {
				return append(lines[:i], lines[i+1:]...), true
			}
			lines[i].Quantity = quantity
			return lines, true
		}
	}
	return lines, false
}

// removeItem filters out the matching line; removing an absent product
// is a no-op, not an error.
func removeItem(lines []cartLine, productID uuid.UUID) []cartLine {
	for i, line := range lines {
		if line.ProductID == productID {
			return append(lines[:i], lines[i+1:]...)
		}
	}
	return lines
}

func cartTotal(lines []cartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt32(line.Quantity)))
	}
	return total
}
