package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	productResponse "github.com/fernhollow/storefront/product/pkg/response"
)

type Cart struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type CartItem struct {
	ID        uuid.UUID               `json:"id"`
	ProductID uuid.UUID               `json:"productId"`
	Quantity  int32                   `json:"quantity"`
	Price     decimal.Decimal         `json:"price"`
	Name      string                  `json:"name"`
	Images    []productResponse.Image `json:"images"`
	Stock     int32                   `json:"stock"`
}
