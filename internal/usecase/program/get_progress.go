package program

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

type ProgressView struct {
	PatientProgramID   uint    `json:"patient_program_id"`
	Status             string  `json:"status"`
	ProgressPercentage float64 `json:"progress_percentage"`
	CompletedSessions  int64   `json:"completed_sessions"`
	TotalSessions      int64   `json:"total_sessions"`
}

type GetProgress struct {
	repo domain.Repository
}

func NewGetProgress(repo domain.Repository) *GetProgress {
	return &GetProgress{repo: repo}
}

func (uc *GetProgress) Execute(
	ctx context.Context,
	patientProgramID uint,
	actor domain.Actor,
) (*ProgressView, error) {

	pp, err := uc.repo.GetPatientProgram(ctx, patientProgramID)
	if err != nil {
		return nil, err
	}

	patient, err := uc.repo.GetPatient(ctx, pp.PatientID)
	if err != nil {
		return nil, err
	}

	practitioner, err := uc.repo.GetPractitioner(ctx, pp.PractitionerID)
	if err != nil {
		return nil, err
	}

	if actor.RelationTo(patient, practitioner) == domain.RelationNone {
		return nil, httperr.ErrAuthorization("forbidden")
	}

	completed, total, err := uc.repo.CountProgramSessions(ctx, pp.ID)
	if err != nil {
		return nil, err
	}

	return &ProgressView{
		PatientProgramID:   pp.ID,
		Status:             pp.Status,
		ProgressPercentage: pp.ProgressPercentage,
		CompletedSessions:  completed,
		TotalSessions:      total,
	}, nil
}
