package store

import (
	"context"
	"database/sql"
	"time"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusCancelled = "cancelled"
)

// ValidStatus reports whether s is one of the reservation statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusCancelled
}

// Reservation holds a booking of a court for a half-open [StartTime, EndTime)
// window on a single date. Date is "YYYY-MM-DD", times are zero-padded
// "HH:MM" with no timezone, so both SQL and Go compare them correctly as
// strings.
type Reservation struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CourtID   int64     `json:"court_id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateReservationParams struct {
	UserID    int64
	CourtID   int64
	Date      string
	StartTime string
	EndTime   string
}

func (q *Queries) CreateReservation(ctx context.Context, arg CreateReservationParams) (Reservation, error) {
	result, err := q.db.ExecContext(ctx, `
		INSERT INTO reservations (user_id, court_id, date, start_time, end_time, status)
		VALUES (?, ?, ?, ?, ?, 'pending')`,
		arg.UserID, arg.CourtID, arg.Date, arg.StartTime, arg.EndTime,
	)
	if err != nil {
		return Reservation{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Reservation{}, err
	}
	return q.GetReservation(ctx, id)
}

func (q *Queries) GetReservation(ctx context.Context, id int64) (Reservation, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, user_id, court_id, date, start_time, end_time, status, created_at
		FROM reservations WHERE id = ?`, id,
	)
	return scanReservation(row)
}

// ListReservationsForUser returns every reservation owned by userID in
// creation order, regardless of status.
func (q *Queries) ListReservationsForUser(ctx context.Context, userID int64) ([]Reservation, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, user_id, court_id, date, start_time, end_time, status, created_at
		FROM reservations WHERE user_id = ? ORDER BY id`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []Reservation
	for rows.Next() {
		var r Reservation
		if err := rows.Scan(&r.ID, &r.UserID, &r.CourtID, &r.Date, &r.StartTime, &r.EndTime, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		reservations = append(reservations, r)
	}
	return reservations, rows.Err()
}

func (q *Queries) UpdateReservationStatus(ctx context.Context, id int64, status string) (Reservation, error) {
	result, err := q.db.ExecContext(ctx,
		`UPDATE reservations SET status = ? WHERE id = ?`, status, id,
	)
	if err != nil {
		return Reservation{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Reservation{}, err
	}
	if affected == 0 {
		return Reservation{}, sql.ErrNoRows
	}
	return q.GetReservation(ctx, id)
}

type CountOverlappingParams struct {
	CourtID   int64
	Date      string
	StartTime string
	EndTime   string
	ExcludeID int64 // 0 excludes nothing
	Statuses  []string
}

// CountOverlapping counts reservations on the same court and date, in one of
// the given statuses, whose [start_time, end_time) interval overlaps the
// candidate half-open interval: stored.start < candidate.end AND
// stored.end > candidate.start. Back-to-back intervals do not overlap.
func (q *Queries) CountOverlapping(ctx context.Context, arg CountOverlappingParams) (int64, error) {
	query := `
		SELECT COUNT(*) FROM reservations
		WHERE court_id = ? AND date = ?
		  AND start_time < ? AND end_time > ?
		  AND id != ?
		  AND status IN (`
	args := []any{arg.CourtID, arg.Date, arg.EndTime, arg.StartTime, arg.ExcludeID}
	for i, s := range arg.Statuses {
		if i > 0 {
			query += ", "
		}
		query += "?"
		args = append(args, s)
	}
	query += ")"

	var count int64
	err := q.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// OverlapPair is a pair of approved reservations occupying intersecting
// windows on the same court and date.
type OverlapPair struct {
	A Reservation
	B Reservation
}

// ListApprovedOverlaps returns every pair of approved reservations whose
// intervals overlap. Such pairs can only be produced by the administrative
// status override, which bypasses the availability check.
func (q *Queries) ListApprovedOverlaps(ctx context.Context) ([]OverlapPair, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT a.id, a.user_id, a.court_id, a.date, a.start_time, a.end_time, a.status, a.created_at,
		       b.id, b.user_id, b.court_id, b.date, b.start_time, b.end_time, b.status, b.created_at
		FROM reservations a
		JOIN reservations b
		  ON a.court_id = b.court_id AND a.date = b.date AND a.id < b.id
		WHERE a.status = 'approved' AND b.status = 'approved'
		  AND a.start_time < b.end_time AND a.end_time > b.start_time`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []OverlapPair
	for rows.Next() {
		var p OverlapPair
		if err := rows.Scan(
			&p.A.ID, &p.A.UserID, &p.A.CourtID, &p.A.Date, &p.A.StartTime, &p.A.EndTime, &p.A.Status, &p.A.CreatedAt,
			&p.B.ID, &p.B.UserID, &p.B.CourtID, &p.B.Date, &p.B.StartTime, &p.B.EndTime, &p.B.Status, &p.B.CreatedAt,
		); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

func scanReservation(row rowScanner) (Reservation, error) {
	var r Reservation
	err := row.Scan(&r.ID, &r.UserID, &r.CourtID, &r.Date, &r.StartTime, &r.EndTime, &r.Status, &r.CreatedAt)
	return r, err
}
