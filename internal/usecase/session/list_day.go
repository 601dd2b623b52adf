package session

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type ListDay struct {
	repo domain.Repository
}

func NewListDay(repo domain.Repository) *ListDay {
	return &ListDay{repo: repo}
}

func (uc *ListDay) Execute(
	ctx context.Context,
	practitionerID uint,
	date string,
) ([]models.Session, error) {

	day, err := domain.ParseDate(date, timezone.Location(""))
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.GetPractitioner(ctx, practitionerID); err != nil {
		return nil, err
	}

	sessions, err := uc.repo.ListSessionsForPeriod(
		ctx,
		practitionerID,
		day,
		day.AddDate(0, 0, 1),
	)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []models.Session{}
	}
	return sessions, nil
}
