package session

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AddNoteInput struct {
	SessionID uint
	Notes     string
	Actor     domain.Actor
}

// AddNote lets the assigned practitioner write to the activity trail while
// the session is running.
type AddNote struct {
	repo   domain.Repository
	logger *audit.Logger
}

func NewAddNote(repo domain.Repository, logger *audit.Logger) *AddNote {
	return &AddNote{repo: repo, logger: logger}
}

func (uc *AddNote) Execute(
	ctx context.Context,
	in AddNoteInput,
) (*models.SessionActivity, error) {

	notes := strings.TrimSpace(in.Notes)
	if notes == "" {
		return nil, httperr.ErrValidation("empty_notes")
	}

	s, err := uc.repo.GetSession(ctx, in.SessionID)
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

	if in.Actor.RelationTo(patient, practitioner) != domain.RelationPractitioner {
		return nil, httperr.ErrAuthorization("practitioner_only")
	}

	if domain.Status(s.Status) != domain.StatusInProgress {
		return nil, httperr.ErrInvalidState("session_not_in_progress")
	}

	a, err := uc.logger.Log(ctx, s.ID, in.Actor.UserID, audit.ActivityNotes, notes, nil)
	if err != nil {
		return nil, httperr.ErrInternal("activity_create_failed", err)
	}
	return a, nil
}
