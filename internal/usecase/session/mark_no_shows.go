package session

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
)

const noShowBatch = 100

// MarkNoShows closes sessions nobody started once their end plus grace has passed.
type MarkNoShows struct {
	repo       domain.Repository
	transition *Transition
	clock      domain.Clock
	grace      time.Duration
}

func NewMarkNoShows(
	repo domain.Repository,
	transition *Transition,
	clock domain.Clock,
	grace time.Duration,
) *MarkNoShows {
	return &MarkNoShows{
		repo:       repo,
		transition: transition,
		clock:      clock,
		grace:      grace,
	}
}

func (uc *MarkNoShows) Execute(ctx context.Context) (int, error) {
	cutoff := uc.clock.Now().Add(-uc.grace)

	marked := 0
	var afterID uint

	// Page past rows that fail so they cannot starve newer ones.
	for {
		overdue, err := uc.repo.ListOverdueSessions(ctx, cutoff, afterID, noShowBatch)
		if err != nil {
			return marked, err
		}

		for _, s := range overdue {
			afterID = s.ID
			if _, err := uc.transition.Execute(ctx, TransitionInput{
				SessionID: s.ID,
				Target:    string(domain.StatusNoShow),
				Actor:     domain.SystemActor,
			}); err != nil {
				log.Warn().Err(err).Uint("session_id", s.ID).Msg("no-show marking failed")
				continue
			}
			marked++
		}

		if len(overdue) < noShowBatch {
			return marked, nil
		}
	}
}
