package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const findShippingConfig = `
select id, free_shipping_threshold, standard_shipping_cost, express_shipping_cost,
    shipping_enabled, created_at, updated_at
from shipping_config
order by created_at
limit 1
`

func (q *Queries) FindShippingConfig(ctx context.Context) (ShippingConfig, error) {
	row := q.db.QueryRow(ctx, findShippingConfig)
	var i ShippingConfig
	err := row.Scan(
		&i.ID,
		&i.FreeShippingThreshold,
		&i.StandardShippingCost,
		&i.ExpressShippingCost,
		&i.ShippingEnabled,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertShippingConfig = `
insert into shipping_config (free_shipping_threshold, standard_shipping_cost, express_shipping_cost, shipping_enabled)
values ($1, $2, $3, $4)
returning id, free_shipping_threshold, standard_shipping_cost, express_shipping_cost,
    shipping_enabled, created_at, updated_at
`

const updateShippingConfig = `
update shipping_config
set free_shipping_threshold = $2,
    standard_shipping_cost  = $3,
    express_shipping_cost   = $4,
    shipping_enabled        = $5,
    updated_at              = now()
where id = $1
returning id, free_shipping_threshold, standard_shipping_cost, express_shipping_cost,
    shipping_enabled, created_at, updated_at
`

type UpsertShippingConfigParams struct {
	FreeShippingThreshold pgtype.Numeric
	StandardShippingCost  pgtype.Numeric
	ExpressShippingCost   pgtype.Numeric
	ShippingEnabled       bool
}

// UpsertShippingConfig keeps a single live row; the first write inserts
// it and every later write overwrites it in place.
func (q *Queries) UpsertShippingConfig(
	ctx context.Context,
	arg UpsertShippingConfigParams,
) (ShippingConfig, error) {
	existing, err := q.FindShippingConfig(ctx)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return ShippingConfig{}, err
		}
		return q.scanShippingConfig(q.db.QueryRow(ctx, insertShippingConfig,
			arg.FreeShippingThreshold,
			arg.StandardShippingCost,
			arg.ExpressShippingCost,
			arg.ShippingEnabled,
		))
	}
	return q.scanShippingConfig(q.db.QueryRow(ctx, updateShippingConfig,
		existing.ID,
		arg.FreeShippingThreshold,
		arg.StandardShippingCost,
		arg.ExpressShippingCost,
		arg.ShippingEnabled,
	))
}

func (q *Queries) scanShippingConfig(row pgx.Row) (ShippingConfig, error) {
	var i ShippingConfig
	err := row.Scan(
		&i.ID,
		&i.FreeShippingThreshold,
		&i.StandardShippingCost,
		&i.ExpressShippingCost,
		&i.ShippingEnabled,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
