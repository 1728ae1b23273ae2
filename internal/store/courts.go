package store

import (
	"context"
	"database/sql"
	"time"
)

type Court struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Location  string    `json:"location"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateCourtParams struct {
	Name     string
	Type     string
	Location string
}

func (q *Queries) CreateCourt(ctx context.Context, arg CreateCourtParams) (Court, error) {
	result, err := q.db.ExecContext(ctx, `
		INSERT INTO courts (name, type, location, active)
		VALUES (?, ?, ?, 1)`,
		arg.Name, arg.Type, arg.Location,
	)
	if err != nil {
		return Court{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Court{}, err
	}
	return q.GetCourt(ctx, id)
}

func (q *Queries) GetCourt(ctx context.Context, id int64) (Court, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, name, type, location, active, created_at
		FROM courts WHERE id = ?`, id,
	)
	return scanCourt(row)
}

// SetCourtActive moves a court in or out of the bookable pool. Inactive
// courts keep their reservation history but reject new bookings.
func (q *Queries) SetCourtActive(ctx context.Context, id int64, active bool) error {
	result, err := q.db.ExecContext(ctx, `UPDATE courts SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type ListActiveCourtsParams struct {
	Type     string // exact match, case-insensitive; empty matches all
	Location string // substring match, case-insensitive; empty matches all
	Offset   int64
	Limit    int64
}

// ListActiveCourts returns active courts only, with optional type and
// location filters and LIMIT/OFFSET pagination.
func (q *Queries) ListActiveCourts(ctx context.Context, arg ListActiveCourtsParams) ([]Court, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, name, type, location, active, created_at
		FROM courts
		WHERE active = 1
		  AND (? = '' OR lower(type) = lower(?))
		  AND (? = '' OR instr(lower(location), lower(?)) > 0)
		ORDER BY id
		LIMIT ? OFFSET ?`,
		arg.Type, arg.Type, arg.Location, arg.Location, arg.Limit, arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courts []Court
	for rows.Next() {
		var c Court
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.Location, &c.Active, &c.CreatedAt); err != nil {
			return nil, err
		}
		courts = append(courts, c)
	}
	return courts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourt(row rowScanner) (Court, error) {
	var c Court
	err := row.Scan(&c.ID, &c.Name, &c.Type, &c.Location, &c.Active, &c.CreatedAt)
	return c, err
}
