package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/heiderrevelo333/pasion-deportiva/internal/store"
)

const auditTimeout = 30 * time.Second

// RegisterOverlapAudit schedules a job that scans for pairs of approved
// reservations occupying intersecting windows on the same court and date.
// Such pairs only arise from administrative status overrides, which skip the
// availability check; the audit surfaces them instead of letting the broken
// invariant go unnoticed.
func RegisterOverlapAudit(s *Service, queries *store.Queries, cronExpr string) error {
	_, err := s.AddJob("approved-overlap-audit", cronExpr, func() {
		RunOverlapAudit(queries)
	})
	return err
}

// RunOverlapAudit performs one audit pass, logging every overlapping
// approved pair.
func RunOverlapAudit(queries *store.Queries) {
	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()

	pairs, err := queries.ListApprovedOverlaps(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Approved-overlap audit failed")
		return
	}

	for _, pair := range pairs {
		log.Warn().
			Int64("court_id", pair.A.CourtID).
			Str("date", pair.A.Date).
			Int64("reservation_a", pair.A.ID).
			Str("window_a", pair.A.StartTime+"-"+pair.A.EndTime).
			Int64("reservation_b", pair.B.ID).
			Str("window_b", pair.B.StartTime+"-"+pair.B.EndTime).
			Msg("Approved reservations overlap")
	}
	if len(pairs) == 0 {
		log.Debug().Msg("Approved-overlap audit found no overlaps")
	}
}
