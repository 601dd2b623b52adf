package session

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Get loads one session for a participant or an admin.
type Get struct {
	repo domain.Repository
}

func NewGet(repo domain.Repository) *Get {
	return &Get{repo: repo}
}

func (uc *Get) Execute(
	ctx context.Context,
	sessionID uint,
	actor domain.Actor,
) (*models.Session, error) {

	s, err := uc.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	patient, err := uc.repo.GetPatient(ctx, s.PatientID)
	if err != nil {
		return nil, err
	}

	practitioner, err := uc.repo.GetPractitioner(ctx, s.PractitionerID)
	if err != nil {
		return nil, err
	}

	if actor.RelationTo(patient, practitioner) == domain.RelationNone {
		return nil, httperr.ErrAuthorization("forbidden")
	}

	return s, nil
}
