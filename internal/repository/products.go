package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const findProductById = `
select id, name, description, price, category, images, stock, featured, active, created_at, updated_at
from products
where id = $1
`

func (q *Queries) FindProductById(ctx context.Context, id uuid.UUID) (Product, error) {
	row := q.db.QueryRow(ctx, findProductById, id)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Price,
		&i.Category,
		&i.Images,
		&i.Stock,
		&i.Featured,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const findProducts = `
select id, name, description, price, category, images, stock, featured, active, created_at, updated_at
from products
where active
  and ($1::text = '' or category = $1::text)
  and (not $2::boolean or featured)
order by created_at desc
`

type FindProductsParams struct {
	Category     string
	FeaturedOnly bool
}

func (q *Queries) FindProducts(ctx context.Context, arg FindProductsParams) ([]Product, error) {
	rows, err := q.db.Query(ctx, findProducts, arg.Category, arg.FeaturedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Product{}
	for rows.Next() {
		var i Product
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Description,
			&i.Price,
			&i.Category,
			&i.Images,
			&i.Stock,
			&i.Featured,
			&i.Active,
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

const insertProduct = `
insert into products (name, description, price, category, images, stock, featured, active)
values ($1, $2, $3, $4, $5, $6, $7, $8)
returning id, name, description, price, category, images, stock, featured, active, created_at, updated_at
`

type InsertProductParams struct {
	Name        string
	Description string
	Price       pgtype.Numeric
	Category    string
	Images      []byte
	Stock       int32
	Featured    bool
	Active      bool
}

func (q *Queries) InsertProduct(ctx context.Context, arg InsertProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, insertProduct,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.Category,
		arg.Images,
		arg.Stock,
		arg.Featured,
		arg.Active,
	)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Price,
		&i.Category,
		&i.Images,
		&i.Stock,
		&i.Featured,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
