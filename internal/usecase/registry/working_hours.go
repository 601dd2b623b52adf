package registry

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// GetWorkingHours returns the roster of the practitioner behind userID.
func (r *Registry) GetWorkingHours(
	ctx context.Context,
	userID uint,
) ([]models.PractitionerHours, error) {

	p, err := r.repo.GetPractitionerByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	hours, err := r.repo.ListPractitionerHours(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if hours == nil {
		hours = []models.PractitionerHours{}
	}
	return hours, nil
}

func (r *Registry) ReplaceWorkingHours(
	ctx context.Context,
	userID uint,
	hours []models.PractitionerHours,
) ([]models.PractitionerHours, error) {

	p, err := r.repo.GetPractitionerByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := map[int]bool{}
	for _, wh := range hours {
		if wh.Weekday < 0 || wh.Weekday > 6 || seen[wh.Weekday] {
			return nil, httperr.ErrValidation("invalid_weekday")
		}
		seen[wh.Weekday] = true

		if err := validateHours(wh); err != nil {
			return nil, err
		}
	}

	if err := r.repo.ReplacePractitionerHours(ctx, p.ID, hours); err != nil {
		return nil, err
	}

	return r.repo.ListPractitionerHours(ctx, p.ID)
}

func validateHours(wh models.PractitionerHours) error {
	if !wh.Active {
		return nil
	}

	start, err1 := time.Parse(domain.TimeLayout, wh.StartTime)
	end, err2 := time.Parse(domain.TimeLayout, wh.EndTime)
	if err1 != nil || err2 != nil || !start.Before(end) {
		return httperr.ErrValidation("invalid_working_hours")
	}

	if wh.BreakStart == "" && wh.BreakEnd == "" {
		return nil
	}

	bs, err1 := time.Parse(domain.TimeLayout, wh.BreakStart)
	be, err2 := time.Parse(domain.TimeLayout, wh.BreakEnd)
	if err1 != nil || err2 != nil || !bs.Before(be) || bs.Before(start) || be.After(end) {
		return httperr.ErrValidation("invalid_break")
	}
	return nil
}
