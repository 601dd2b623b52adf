package program

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type EnrollInput struct {
	PatientID          uint
	TreatmentProgramID uint
	PractitionerID     uint
	StartDate          string
	Notes              string

	Actor domain.Actor
}

type Enroll struct {
	repo domain.Repository
}

func NewEnroll(repo domain.Repository) *Enroll {
	return &Enroll{repo: repo}
}

func (uc *Enroll) Execute(
	ctx context.Context,
	in EnrollInput,
) (*models.PatientProgram, error) {

	start, err := domain.ParseDate(in.StartDate, timezone.Location(""))
	if err != nil {
		return nil, err
	}

	patient, err := uc.repo.GetPatient(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}

	practitioner, err := uc.repo.GetPractitioner(ctx, in.PractitionerID)
	if err != nil {
		return nil, err
	}

	switch in.Actor.RelationTo(patient, practitioner) {
	case domain.RelationPractitioner, domain.RelationAdmin:
	default:
		return nil, httperr.ErrAuthorization("forbidden")
	}

	template, err := uc.repo.GetTreatmentProgram(ctx, in.TreatmentProgramID)
	if err != nil {
		return nil, err
	}
	if !template.IsActive {
		return nil, httperr.ErrValidation("treatment_program_inactive")
	}

	end := start.AddDate(0, 0, 7*template.DurationWeeks)

	pp := &models.PatientProgram{
		PatientID:          patient.ID,
		TreatmentProgramID: template.ID,
		PractitionerID:     practitioner.ID,
		StartDate:          start,
		EndDate:            &end,
		Status:             string(domain.ProgramActive),
		Notes:              strings.TrimSpace(in.Notes),
	}

	if err := uc.repo.CreatePatientProgram(ctx, pp); err != nil {
		return nil, err
	}

	return pp, nil
}
