package request

import "github.com/google/uuid"

type AddItem struct {
	ProductID uuid.UUID `validate:"required"       json:"productId"`
	Quantity  int32     `validate:"required,gte=1" json:"quantity"`
}

type UpdateItem struct {
	ProductID uuid.UUID `validate:"required" json:"productId"`
	Quantity  int32     `validate:"gte=0"    json:"quantity"`
}

type RemoveItem struct {
	ProductID uuid.UUID `validate:"required" json:"productId"`
}
