package program

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type ChangeStatus struct {
	repo  domain.Repository
	clock domain.Clock
}

func NewChangeStatus(repo domain.Repository, clock domain.Clock) *ChangeStatus {
	return &ChangeStatus{repo: repo, clock: clock}
}

func (uc *ChangeStatus) Execute(
	ctx context.Context,
	patientProgramID uint,
	target string,
	actor domain.Actor,
) (*models.PatientProgram, error) {

	to, err := domain.ParseProgramStatus(target)
	if err != nil {
		return nil, err
	}

	var pp *models.PatientProgram

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error

		pp, err = tx.GetPatientProgramForUpdate(ctx, patientProgramID)
		if err != nil {
			return err
		}

		patient, err := tx.GetPatient(ctx, pp.PatientID)
		if err != nil {
			return err
		}

		practitioner, err := tx.GetPractitioner(ctx, pp.PractitionerID)
		if err != nil {
			return err
		}

		switch actor.RelationTo(patient, practitioner) {
		case domain.RelationNone:
			return httperr.ErrAuthorization("forbidden")
		case domain.RelationPatient:
			if to != domain.ProgramCancelled {
				return httperr.ErrAuthorization("patient_may_only_cancel")
			}
		}

		if err := domain.CanTransitionProgram(domain.ProgramStatus(pp.Status), to); err != nil {
			return err
		}

		pp.Status = string(to)
		if to == domain.ProgramCompleted {
			now := uc.clock.Now()
			pp.CompletedAt = &now
		}

		return tx.UpdatePatientProgram(ctx, pp)
	})
	if err != nil {
		return nil, err
	}

	return pp, nil
}
