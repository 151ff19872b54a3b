package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const findCartByUserId = `
select id, user_id, total, version, created_at, updated_at
from carts
where user_id = $1
`

func (q *Queries) FindCartByUserId(ctx context.Context, userID uuid.UUID) (Cart, error) {
	row := q.db.QueryRow(ctx, findCartByUserId, userID)
	var i Cart
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Total,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertCart = `
insert into carts (user_id)
values ($1)
returning id, user_id, total, version, created_at, updated_at
`

func (q *Queries) InsertCart(ctx context.Context, userID uuid.UUID) (Cart, error) {
	row := q.db.QueryRow(ctx, insertCart, userID)
	var i Cart
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Total,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const findCartItems = `
select id, cart_id, product_id, quantity, price, created_at, updated_at
from cart_items
where cart_id = $1
order by created_at
`

func (q *Queries) FindCartItems(ctx context.Context, cartID uuid.UUID) ([]CartItem, error) {
	rows, err := q.db.Query(ctx, findCartItems, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CartItem{}
	for rows.Next() {
		var i CartItem
		if err := rows.Scan(
			&i.ID,
			&i.CartID,
			&i.ProductID,
			&i.Quantity,
			&i.Price,
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

const findCartItemsWithProduct = `
select ci.id,
       ci.cart_id,
       ci.product_id,
       ci.quantity,
       ci.price,
       p.name         as product_name,
       p.price        as product_price,
       p.images       as product_images,
       p.stock        as product_stock,
       p.active       as product_active
from cart_items ci
         join products p on p.id = ci.product_id
where ci.cart_id = $1
order by ci.created_at
`

type FindCartItemsWithProductRow struct {
	ID            uuid.UUID
	CartID        uuid.UUID
	ProductID     uuid.UUID
	Quantity      int32
	Price         pgtype.Numeric
	ProductName   string
	ProductPrice  pgtype.Numeric
	ProductImages []byte
	ProductStock  int32
	ProductActive bool
}

func (q *Queries) FindCartItemsWithProduct(
	ctx context.Context,
	cartID uuid.UUID,
) ([]FindCartItemsWithProductRow, error) {
	rows, err := q.db.Query(ctx, findCartItemsWithProduct, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []FindCartItemsWithProductRow{}
	for rows.Next() {
		var i FindCartItemsWithProductRow
		if err := rows.Scan(
			&i.ID,
			&i.CartID,
			&i.ProductID,
			&i.Quantity,
			&i.Price,
			&i.ProductName,
			&i.ProductPrice,
			&i.ProductImages,
			&i.ProductStock,
			&i.ProductActive,
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

const deleteCartItems = `
delete
from cart_items
where cart_id = $1
`

func (q *Queries) DeleteCartItems(ctx context.Context, cartID uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteCartItems, cartID)
	return err
}

const insertCartItem = `
insert into cart_items (cart_id, product_id, quantity, price)
values ($1, $2, $3, $4)
`

type InsertCartItemsParams struct {
	CartID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int32
	Price     pgtype.Numeric
}

func (q *Queries) InsertCartItems(ctx context.Context, arg []InsertCartItemsParams) (int64, error) {
	var inserted int64
	for _, item := range arg {
		tag, err := q.db.Exec(ctx, insertCartItem,
			item.CartID,
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

const updateCartTotals = `
update carts
set total      = $1,
    version    = version + 1,
    updated_at = now()
where id = $2
  and version = $3
`

type UpdateCartTotalsParams struct {
	Total   pgtype.Numeric
	ID      uuid.UUID
	Version int64
}

// UpdateCartTotals bumps the cart version; a zero row count means the
// cart changed underneath the caller and the mutation must be retried.
func (q *Queries) UpdateCartTotals(ctx context.Context, arg UpdateCartTotalsParams) (int64, error) {
	tag, err := q.db.Exec(ctx, updateCartTotals, arg.Total, arg.ID, arg.Version)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const clearCartItems = `
delete
from cart_items
where cart_id = $1
`

const resetCartTotals = `
update carts
set total      = 0,
    version    = version + 1,
    updated_at = now()
where id = $1
`

func (q *Queries) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	if _, err := q.db.Exec(ctx, clearCartItems, cartID); err != nil {
		return err
	}
	_, err := q.db.Exec(ctx, resetCartTotals, cartID)
	return err
}
