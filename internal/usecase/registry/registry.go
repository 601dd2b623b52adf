// Package registry holds the admin-side CRUD over patients, practitioners,
// treatments and treatment program templates.
package registry

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type Registry struct {
	repo domain.Repository
}

func New(repo domain.Repository) *Registry {
	return &Registry{repo: repo}
}

// ======================================================
// PATIENTS / PRACTITIONERS
// ======================================================

func (r *Registry) CreatePatient(ctx context.Context, p *models.Patient) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.UserID == 0 || p.Name == "" {
		return httperr.ErrValidation("invalid_patient")
	}
	return r.repo.CreatePatient(ctx, p)
}

func (r *Registry) CreatePractitioner(ctx context.Context, p *models.Practitioner) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.UserID == 0 || p.Name == "" {
		return httperr.ErrValidation("invalid_practitioner")
	}
	if p.ExperienceYears < 0 || p.ConsultationFee < 0 {
		return httperr.ErrValidation("invalid_practitioner")
	}
	return r.repo.CreatePractitioner(ctx, p)
}

func (r *Registry) SetAvailability(
	ctx context.Context,
	practitionerID uint,
	available bool,
) (*models.Practitioner, error) {

	p, err := r.repo.GetPractitioner(ctx, practitionerID)
	if err != nil {
		return nil, err
	}

	p.IsAvailable = available
	if err := r.repo.UpdatePractitioner(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ======================================================
// TREATMENTS
// ======================================================

func (r *Registry) CreateTreatment(ctx context.Context, t *models.TreatmentType) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return httperr.ErrValidation("invalid_treatment_name")
	}
	if err := domain.ValidateDuration(t.DurationMinutes); err != nil {
		return err
	}
	if t.Price < 0 {
		return httperr.ErrValidation("invalid_price")
	}
	return r.repo.CreateTreatment(ctx, t)
}

type TreatmentProgramInput struct {
	Name          string
	Description   string
	TotalSessions int
	DurationWeeks int
	TotalPrice    float64
	TreatmentIDs  []uint
	IsActive      *bool
}

func (r *Registry) CreateTreatmentProgram(
	ctx context.Context,
	in TreatmentProgramInput,
) (*models.TreatmentProgram, error) {

	p := &models.TreatmentProgram{
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		TotalSessions: in.TotalSessions,
		DurationWeeks: in.DurationWeeks,
		TotalPrice:    in.TotalPrice,
		IsActive:      true,
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}

	if err := validateProgram(p); err != nil {
		return nil, err
	}

	for i, id := range in.TreatmentIDs {
		if _, err := r.repo.GetTreatment(ctx, id); err != nil {
			return nil, err
		}
		p.Treatments = append(p.Treatments, models.ProgramTreatment{
			TreatmentID:  id,
			SessionOrder: i + 1,
		})
	}

	if err := r.repo.CreateTreatmentProgram(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

type TreatmentProgramPatch struct {
	Name          *string
	Description   *string
	TotalSessions *int
	DurationWeeks *int
	TotalPrice    *float64
	IsActive      *bool
}

// UpdateTreatmentProgram freezes everything but IsActive once any enrollment
// of the template has sessions.
func (r *Registry) UpdateTreatmentProgram(
	ctx context.Context,
	id uint,
	patch TreatmentProgramPatch,
) (*models.TreatmentProgram, error) {

	p, err := r.repo.GetTreatmentProgram(ctx, id)
	if err != nil {
		return nil, err
	}

	before := *p

	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.TotalSessions != nil {
		p.TotalSessions = *patch.TotalSessions
	}
	if patch.DurationWeeks != nil {
		p.DurationWeeks = *patch.DurationWeeks
	}
	if patch.TotalPrice != nil {
		p.TotalPrice = *patch.TotalPrice
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}

	frozenChanged := p.Name != before.Name ||
		p.Description != before.Description ||
		p.TotalSessions != before.TotalSessions ||
		p.DurationWeeks != before.DurationWeeks ||
		p.TotalPrice != before.TotalPrice

	if frozenChanged {
		linked, err := r.repo.CountSessionsForTreatmentProgram(ctx, id)
		if err != nil {
			return nil, err
		}
		if linked > 0 {
			return nil, httperr.ErrInvalidState("treatment_program_locked")
		}
	}

	if err := validateProgram(p); err != nil {
		return nil, err
	}

	if err := r.repo.UpdateTreatmentProgram(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func validateProgram(p *models.TreatmentProgram) error {
	switch {
	case p.Name == "":
		return httperr.ErrValidation("invalid_program_name")
	case p.TotalSessions <= 0:
		return httperr.ErrValidation("invalid_total_sessions")
	case p.DurationWeeks <= 0:
		return httperr.ErrValidation("invalid_duration_weeks")
	case p.TotalPrice < 0:
		return httperr.ErrValidation("invalid_price")
	}
	return nil
}
