package repository

import (
	cartResponse "github.com/fernhollow/storefront/cart/pkg/response"
	orderResponse "github.com/fernhollow/storefront/order/pkg/response"
	productResponse "github.com/fernhollow/storefront/product/pkg/response"
	shippingResponse "github.com/fernhollow/storefront/shipping/pkg/response"
)

func (p Product) Response() productResponse.Product {
	return productResponse.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       DecimalFromNumeric(p.Price),
		Category:    p.Category,
		Images:      productResponse.NormalizeImages(p.Images, p.Name),
		Stock:       p.Stock,
		Featured:    p.Featured,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt.Time,
		UpdatedAt:   p.UpdatedAt.Time,
	}
}

func (f FindCartItemsWithProductRow) Response() cartResponse.CartItem {
	return cartResponse.CartItem{
		ID:        f.ID,
		ProductID: f.ProductID,
		Quantity:  f.Quantity,
		Price:     DecimalFromNumeric(f.Price),
		Name:      f.ProductName,
		Images:    productResponse.NormalizeImages(f.ProductImages, f.ProductName),
		Stock:     f.ProductStock,
	}
}

func (c Cart) Response(items []FindCartItemsWithProductRow) cartResponse.Cart {
	cartItems := make([]cartResponse.CartItem, len(items))
	for i, item := range items {
		cartItems[i] = item.Response()
	}
	return cartResponse.Cart{
		ID:        c.ID,
		UserID:    c.UserID,
		Items:     cartItems,
		Total:     DecimalFromNumeric(c.Total),
		CreatedAt: c.CreatedAt.Time,
		UpdatedAt: c.UpdatedAt.Time,
	}
}

func (o Order) Response(items []OrderItem) orderResponse.Order {
	orderItems := make([]orderResponse.OrderItem, len(items))
	for i, item := range items {
		orderItems[i] = orderResponse.OrderItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     DecimalFromNumeric(item.Price),
		}
	}
	resp := orderResponse.Order{
		ID:              o.ID,
		UserID:          o.UserID,
		Items:           orderItems,
		Total:           DecimalFromNumeric(o.Total),
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		ShippingAddress: o.ShippingAddress,
		PaymentIntentID: o.PaymentIntentID.String,
		CreatedAt:       o.CreatedAt.Time,
		UpdatedAt:       o.UpdatedAt.Time,
	}
	if o.TrackingCarrier.Valid || o.TrackingNumber.Valid {
		resp.TrackingInfo = &orderResponse.TrackingInfo{
			Carrier:        o.TrackingCarrier.String,
			TrackingNumber: o.TrackingNumber.String,
		}
	}
	return resp
}

func (s ShippingConfig) Response() shippingResponse.Config {
	return shippingResponse.Config{
		FreeShippingThreshold: DecimalFromNumeric(s.FreeShippingThreshold),
		StandardShippingCost:  DecimalFromNumeric(s.StandardShippingCost),
		ExpressShippingCost:   DecimalFromNumeric(s.ExpressShippingCost),
		ShippingEnabled:       s.ShippingEnabled,
		UpdatedAt:             s.UpdatedAt.Time,
	}
}
