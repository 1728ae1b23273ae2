// Package store holds the typed entities and SQL queries for courts, users
// and reservations. Queries can be bound to a *sql.DB or a *sql.Tx so the
// same code runs inside or outside a transaction.
package store

import (
	"context"
	"database/sql"
	"errors"
)

// ErrContactTaken is returned when a user registration collides with an
// existing contact handle.
var ErrContactTaken = errors.New("contact already registered")

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns queries bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}
