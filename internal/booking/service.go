// Package booking owns the reservation core: conflict detection over
// half-open time windows and the pending → approved/cancelled state machine.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/heiderrevelo333/pasion-deportiva/internal/db"
	"github.com/heiderrevelo333/pasion-deportiva/internal/store"
)

var (
	ErrValidation = errors.New("invalid reservation request")
	ErrConflict   = errors.New("time slot already reserved")
	ErrNotFound   = errors.New("reservation not found")
	ErrForbidden  = errors.New("operation not permitted")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// activeStatuses are the statuses that still occupy a time slot.
var activeStatuses = []string{store.StatusPending, store.StatusApproved}

// Service is the reservation lifecycle manager. All writes go through the
// shared database handle so the conflict check and the insert of Create can
// share one transaction.
type Service struct {
	db      *db.DB
	queries *store.Queries
}

func NewService(database *db.DB) *Service {
	return &Service{
		db:      database,
		queries: store.New(database.DB),
	}
}

// HasConflict reports whether the candidate [start, end) window on the given
// court and date overlaps any pending or approved reservation. excludeID > 0
// leaves that reservation out of the comparison, for re-validating an
// existing booking. Cancelled reservations never block.
func (s *Service) HasConflict(ctx context.Context, courtID int64, date, start, end string, excludeID int64) (bool, error) {
	return hasConflict(ctx, s.queries, courtID, date, start, end, excludeID)
}

func hasConflict(ctx context.Context, q *store.Queries, courtID int64, date, start, end string, excludeID int64) (bool, error) {
	count, err := q.CountOverlapping(ctx, store.CountOverlappingParams{
		CourtID:   courtID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		ExcludeID: excludeID,
		Statuses:  activeStatuses,
	})
	if err != nil {
		return false, fmt.Errorf("availability check failed: %w", err)
	}
	return count > 0, nil
}

// Create validates the requested window, checks availability and inserts the
// reservation with status pending. The check and the insert run in one
// immediate transaction, so two concurrent overlapping creates cannot both
// commit.
func (s *Service) Create(ctx context.Context, userID, courtID int64, date, start, end string) (store.Reservation, error) {
	date, start, end, err := canonicalWindow(date, start, end)
	if err != nil {
		return store.Reservation{}, err
	}

	court, err := s.queries.GetCourt(ctx, courtID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Reservation{}, fmt.Errorf("%w: court %d", ErrNotFound, courtID)
		}
		return store.Reservation{}, fmt.Errorf("loading court: %w", err)
	}
	if !court.Active {
		return store.Reservation{}, fmt.Errorf("%w: court is inactive", ErrValidation)
	}

	var created store.Reservation
	err = s.db.RunInTx(ctx, func(tx *sql.Tx) error {
		q := s.queries.WithTx(tx)

		conflict, err := hasConflict(ctx, q, courtID, date, start, end, 0)
		if err != nil {
			return err
		}
		if conflict {
			return ErrConflict
		}

		created, err = q.CreateReservation(ctx, store.CreateReservationParams{
			UserID:    userID,
			CourtID:   courtID,
			Date:      date,
			StartTime: start,
			EndTime:   end,
		})
		if err != nil {
			return fmt.Errorf("inserting reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return store.Reservation{}, err
	}

	log.Ctx(ctx).Info().
		Int64("reservation_id", created.ID).
		Int64("court_id", courtID).
		Str("date", date).
		Str("window", start+"-"+end).
		Msg("Reservation created")
	return created, nil
}

// CancelByOwner sets the reservation to cancelled on behalf of its owner.
// Cancelling an already-cancelled reservation succeeds, so the operation is
// safe to repeat.
func (s *Service) CancelByOwner(ctx context.Context, id, callerID int64) (store.Reservation, error) {
	reservation, err := s.queries.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Reservation{}, fmt.Errorf("%w: reservation %d", ErrNotFound, id)
		}
		return store.Reservation{}, fmt.Errorf("loading reservation: %w", err)
	}
	if reservation.UserID != callerID {
		return store.Reservation{}, fmt.Errorf("%w: only the owner may cancel", ErrForbidden)
	}
	if reservation.Status == store.StatusCancelled {
		return reservation, nil
	}

	updated, err := s.queries.UpdateReservationStatus(ctx, id, store.StatusCancelled)
	if err != nil {
		return store.Reservation{}, fmt.Errorf("cancelling reservation: %w", err)
	}

	log.Ctx(ctx).Info().Int64("reservation_id", id).Msg("Reservation cancelled by owner")
	return updated, nil
}

// AdminSetStatus overwrites the reservation status unconditionally. The
// availability check is deliberately not re-run here: administrators resolve
// disputes with full authority. When an approval leaves two approved
// reservations overlapping, the broken invariant is logged rather than
// silently allowed; the scheduler's audit job reports any that persist.
func (s *Service) AdminSetStatus(ctx context.Context, id int64, status string) (store.Reservation, error) {
	if !store.ValidStatus(status) {
		return store.Reservation{}, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	updated, err := s.queries.UpdateReservationStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Reservation{}, fmt.Errorf("%w: reservation %d", ErrNotFound, id)
		}
		return store.Reservation{}, fmt.Errorf("updating reservation status: %w", err)
	}

	if status == store.StatusApproved {
		s.warnOnApprovedOverlap(ctx, updated)
	}

	log.Ctx(ctx).Info().
		Int64("reservation_id", id).
		Str("status", status).
		Msg("Reservation status set by administrator")
	return updated, nil
}

// ListForUser returns the caller's reservations, any status, in creation
// order.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]store.Reservation, error) {
	reservations, err := s.queries.ListReservationsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}
	return reservations, nil
}

func (s *Service) warnOnApprovedOverlap(ctx context.Context, r store.Reservation) {
	count, err := s.queries.CountOverlapping(ctx, store.CountOverlappingParams{
		CourtID:   r.CourtID,
		Date:      r.Date,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		ExcludeID: r.ID,
		Statuses:  []string{store.StatusApproved},
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("reservation_id", r.ID).Msg("Overlap re-check after approval failed")
		return
	}
	if count > 0 {
		log.Ctx(ctx).Warn().
			Int64("reservation_id", r.ID).
			Int64("court_id", r.CourtID).
			Str("date", r.Date).
			Str("window", r.StartTime+"-"+r.EndTime).
			Int64("overlapping", count).
			Msg("Administrative approval created overlapping approved reservations")
	}
}

// canonicalWindow rejects malformed dates or times and windows where start is
// not strictly before end, and returns the zero-padded canonical forms. Both
// the overlap query and the stored columns compare these values as strings,
// so a window like "9:00" must be stored as "09:00" or it would never match
// its "09:00" equivalent.
func canonicalWindow(date, start, end string) (string, string, string, error) {
	dateT, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	startT, err := time.Parse(timeLayout, start)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: start time must be HH:MM", ErrValidation)
	}
	endT, err := time.Parse(timeLayout, end)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: end time must be HH:MM", ErrValidation)
	}
	if !startT.Before(endT) {
		return "", "", "", fmt.Errorf("%w: start time must be before end time", ErrValidation)
	}
	return dateT.Format(dateLayout), startT.Format(timeLayout), endT.Format(timeLayout), nil
}
