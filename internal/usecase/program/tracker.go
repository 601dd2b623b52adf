package program

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Tracker keeps PatientProgram.ProgressPercentage in step with its sessions.
type Tracker struct {
	clock domain.Clock
}

func NewTracker(clock domain.Clock) *Tracker {
	return &Tracker{clock: clock}
}

// Recompute must be called with the repository of the transaction that
// changed the session, so progress commits together with it.
func (t *Tracker) Recompute(
	ctx context.Context,
	repo domain.Repository,
	patientProgramID uint,
) (*models.PatientProgram, error) {

	pp, err := repo.GetPatientProgramForUpdate(ctx, patientProgramID)
	if err != nil {
		return nil, err
	}

	completed, total, err := repo.CountProgramSessions(ctx, patientProgramID)
	if err != nil {
		return nil, err
	}

	domain.ApplyProgress(pp, completed, total, t.clock.Now())

	if err := repo.UpdatePatientProgram(ctx, pp); err != nil {
		return nil, err
	}

	return pp, nil
}

// RecomputeProgress runs a standalone recomputation in its own transaction.
type RecomputeProgress struct {
	repo    domain.Repository
	tracker *Tracker
}

func NewRecomputeProgress(repo domain.Repository, tracker *Tracker) *RecomputeProgress {
	return &RecomputeProgress{repo: repo, tracker: tracker}
}

func (uc *RecomputeProgress) Execute(
	ctx context.Context,
	patientProgramID uint,
) (*models.PatientProgram, error) {

	var pp *models.PatientProgram

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		pp, err = uc.tracker.Recompute(ctx, tx, patientProgramID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return pp, nil
}
