package repository

import (
	"context"

	"github.com/google/uuid"
)

const findUserById = `
select id, name, email, role, addresses, created_at, updated_at
from users
where id = $1
`

func (q *Queries) FindUserById(ctx context.Context, id uuid.UUID) (User, error) {
	row := q.db.QueryRow(ctx, findUserById, id)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Role,
		&i.Addresses,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertUser = `
insert into users (name, email, role)
values ($1, $2, $3)
returning id, name, email, role, addresses, created_at, updated_at
`

type InsertUserParams struct {
	Name  string
	Email string
	Role  string
}

func (q *Queries) InsertUser(ctx context.Context, arg InsertUserParams) (User, error) {
	row := q.db.QueryRow(ctx, insertUser, arg.Name, arg.Email, arg.Role)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Role,
		&i.Addresses,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const findUserAddresses = `
select addresses
from users
where id = $1
`

func (q *Queries) FindUserAddresses(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	row := q.db.QueryRow(ctx, findUserAddresses, userID)
	var addresses []byte
	err := row.Scan(&addresses)
	return addresses, err
}

const appendUserAddress = `
update users
set addresses  = addresses || $2::jsonb,
    updated_at = now()
where id = $1
`

type AppendUserAddressParams struct {
	UserID  uuid.UUID
	Address []byte
}

func (q *Queries) AppendUserAddress(ctx context.Context, arg AppendUserAddressParams) error {
	_, err := q.db.Exec(ctx, appendUserAddress, arg.UserID, arg.Address)
	return err
}

const clearDefaultAddresses = `
update users
set addresses  = coalesce(
        (select jsonb_agg(addr || '{"isDefault": false}'::jsonb)
         from jsonb_array_elements(addresses) addr),
        '[]'::jsonb),
    updated_at = now()
where id = $1
`

// ClearDefaultAddresses unsets every saved address default so a newly
// appended default address stays the only one.
func (q *Queries) ClearDefaultAddresses(ctx context.Context, userID uuid.UUID) error {
	_, err := q.db.Exec(ctx, clearDefaultAddresses, userID)
	return err
}
