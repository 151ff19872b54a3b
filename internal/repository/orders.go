package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertOrder = `
insert into orders (user_id, total, shipping_address)
values ($1, $2, $3)
returning id, user_id, total, status, payment_status, shipping_address, payment_intent_id,
    tracking_carrier, tracking_number, created_at, updated_at
`

type InsertOrderParams struct {
	UserID          uuid.UUID
	Total           pgtype.Numeric
	ShippingAddress []byte
}

func (q *Queries) InsertOrder(ctx context.Context, arg InsertOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, insertOrder, arg.UserID, arg.Total, arg.ShippingAddress)
	var i Order
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Total,
		&i.Status,
		&i.PaymentStatus,
		&i.ShippingAddress,
		&i.PaymentIntentID,
		&i.TrackingCarrier,
		&i.TrackingNumber,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertOrderItem = `
insert into order_items (order_id, product_id, quantity, price)
values ($1, $2, $3, $4)
`

type InsertOrderItemsParams struct {
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int32
	Price     pgtype.Numeric
}

func (q *Queries) InsertOrderItems(ctx context.Context, arg []InsertOrderItemsParams) (int64, error) {
	var inserted int64
	for _, item := range arg {
		tag, err := q.db.Exec(ctx, insertOrderItem,
			item.OrderID,
			item.ProductID,
			item.Quantity,
			item.Price,
		)
		if err != nil {
			return inserted, err
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

const setOrderPaymentIntent = `
update orders
set payment_intent_id = $1,
    updated_at        = now()
where id = $2
`

type SetOrderPaymentIntentParams struct {
	PaymentIntentID string
	ID              uuid.UUID
}

func (q *Queries) SetOrderPaymentIntent(ctx context.Context, arg SetOrderPaymentIntentParams) error {
	_, err := q.db.Exec(ctx, setOrderPaymentIntent, arg.PaymentIntentID, arg.ID)
	return err
}

const setOrderStatus = `
update orders
set status         = $2,
    payment_status = $3,
    updated_at     = now()
where id = $1
`

type SetOrderStatusParams struct {
	ID            uuid.UUID
	Status        OrderStatus
	PaymentStatus PaymentStatus
}

func (q *Queries) SetOrderStatus(ctx context.Context, arg SetOrderStatusParams) (int64, error) {
	tag, err := q.db.Exec(ctx, setOrderStatus, arg.ID, arg.Status, arg.PaymentStatus)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const setOrderStatusByPaymentIntent = `
update orders
set status         = $2,
    payment_status = $3,
    updated_at     = now()
where payment_intent_id = $1
`

type SetOrderStatusByPaymentIntentParams struct {
	PaymentIntentID string
	Status          OrderStatus
	PaymentStatus   PaymentStatus
}

func (q *Queries) SetOrderStatusByPaymentIntent(
	ctx context.Context,
	arg SetOrderStatusByPaymentIntentParams,
) (int64, error) {
	tag, err := q.db.Exec(ctx, setOrderStatusByPaymentIntent,
		arg.PaymentIntentID,
		arg.Status,
		arg.PaymentStatus,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const updateOrderStatus = `
update orders
set status           = $2,
    tracking_carrier = coalesce($3, tracking_carrier),
    tracking_number  = coalesce($4, tracking_number),
    updated_at       = now()
where id = $1
returning id, user_id, total, status, payment_status, shipping_address, payment_intent_id,
    tracking_carrier, tracking_number, created_at, updated_at
`

type UpdateOrderStatusParams struct {
	ID              uuid.UUID
	Status          OrderStatus
	TrackingCarrier pgtype.Text
	TrackingNumber  pgtype.Text
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	row := q.db.QueryRow(ctx, updateOrderStatus,
		arg.ID,
		arg.Status,
		arg.TrackingCarrier,
		arg.TrackingNumber,
	)
	var i Order
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Total,
		&i.Status,
		&i.PaymentStatus,
		&i.ShippingAddress,
		&i.PaymentIntentID,
		&i.TrackingCarrier,
		&i.TrackingNumber,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const findOrderById = `
select id, user_id, total, status, payment_status, shipping_address, payment_intent_id,
    tracking_carrier, tracking_number, created_at, updated_at
from orders
where id = $1
  and user_id = $2
`

type FindOrderByIdParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) FindOrderById(ctx context.Context, arg FindOrderByIdParams) (Order, error) {
	row := q.db.QueryRow(ctx, findOrderById, arg.ID, arg.UserID)
	var i Order
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Total,
		&i.Status,
		&i.PaymentStatus,
		&i.ShippingAddress,
		&i.PaymentIntentID,
		&i.TrackingCarrier,
		&i.TrackingNumber,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const findOrdersByUserId = `
select id, user_id, total, status, payment_status, shipping_address, payment_intent_id,
    tracking_carrier, tracking_number, created_at, updated_at
from orders
where user_id = $1
order by created_at desc
`

func (q *Queries) FindOrdersByUserId(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	rows, err := q.db.Query(ctx, findOrdersByUserId, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

const findOrders = `
select id, user_id, total, status, payment_status, shipping_address, payment_intent_id,
    tracking_carrier, tracking_number, created_at, updated_at
from orders
order by created_at desc
`

func (q *Queries) FindOrders(ctx context.Context) ([]Order, error) {
	rows, err := q.db.Query(ctx, findOrders)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func scanOrders(rows pgx.Rows) ([]Order, error) {
	items := []Order{}
	for rows.Next() {
		var i Order
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.Total,
			&i.Status,
			&i.PaymentStatus,
			&i.ShippingAddress,
			&i.PaymentIntentID,
			&i.TrackingCarrier,
			&i.TrackingNumber,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const findOrderItems = `
select id, order_id, product_id, quantity, price, created_at
from order_items
where order_id = $1
order by created_at
`

func (q *Queries) FindOrderItems(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, findOrderItems, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OrderItem{}
	for rows.Next() {
		var i OrderItem
		if err := rows.Scan(
			&i.ID,
			&i.OrderID,
			&i.ProductID,
			&i.Quantity,
			&i.Price,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
