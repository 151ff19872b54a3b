package request

import (
	userRequest "github.com/fernhollow/storefront/user/pkg/request"
)

type CreateOrder struct {
	ShippingAddress userRequest.Address `validate:"required"       json:"shippingAddress"`
	UseNewAddress   bool                `json:"useNewAddress"`
}

type TrackingInfo struct {
	Carrier        string `validate:"required" json:"carrier"`
	TrackingNumber string `validate:"required" json:"trackingNumber"`
}

type UpdateOrder struct {
	Status       string        `validate:"required,oneof=pending processing shipped delivered cancelled" json:"status"`
	TrackingInfo *TrackingInfo `json:"trackingInfo,omitempty"`
}
