package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/program"
)

// ======================================================
// INPUT
// ======================================================

type BookInput struct {
	PatientID        uint
	PractitionerID   uint
	TreatmentID      uint
	PatientProgramID *uint

	Date            string
	Time            string
	DurationMinutes int

	Notes                   string
	PreparationInstructions string

	Actor domain.Actor
}

// ======================================================
// USE CASE
// ======================================================

type Book struct {
	repo         domain.Repository
	tracker      *program.Tracker
	audit        *audit.Dispatcher
	notifier     domain.Notifier
	clock        domain.Clock
	reminderLead time.Duration
}

func NewBook(
	repo domain.Repository,
	tracker *program.Tracker,
	audit *audit.Dispatcher,
	notifier domain.Notifier,
	clock domain.Clock,
	reminderLead time.Duration,
) *Book {
	return &Book{
		repo:         repo,
		tracker:      tracker,
		audit:        audit,
		notifier:     notifier,
		clock:        clock,
		reminderLead: reminderLead,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *Book) Execute(
	ctx context.Context,
	in BookInput,
) (*models.Session, error) {

	// --------------------------------------------------
	// Interval
	// --------------------------------------------------
	if err := domain.ValidateDuration(in.DurationMinutes); err != nil {
		return nil, err
	}

	start, err := domain.ParseSlot(in.Date, in.Time, timezone.Location(""))
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	if start.Before(now) {
		return nil, httperr.ErrValidation("date_in_past")
	}

	iv := domain.NewInterval(start, in.DurationMinutes)

	// --------------------------------------------------
	// Participants
	// --------------------------------------------------
	patient, err := uc.repo.GetPatient(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}

	practitioner, err := uc.repo.GetPractitioner(ctx, in.PractitionerID)
	if err != nil {
		return nil, err
	}

	if in.Actor.RelationTo(patient, practitioner) == domain.RelationNone {
		return nil, httperr.ErrAuthorization("forbidden")
	}

	if !practitioner.IsAvailable {
		return nil, httperr.ErrValidation("practitioner_unavailable")
	}

	treatment, err := uc.repo.GetTreatment(ctx, in.TreatmentID)
	if err != nil {
		return nil, err
	}
	if !treatment.IsActive {
		return nil, httperr.ErrValidation("treatment_inactive")
	}

	if in.PatientProgramID != nil {
		pp, err := uc.repo.GetPatientProgram(ctx, *in.PatientProgramID)
		if err != nil {
			return nil, err
		}
		if pp.PatientID != patient.ID {
			return nil, httperr.ErrValidation("program_patient_mismatch")
		}
		if domain.ProgramStatus(pp.Status) != domain.ProgramActive {
			return nil, httperr.ErrInvalidState("program_not_active")
		}
	}

	// --------------------------------------------------
	// Check and write under the practitioner's day lock
	// --------------------------------------------------
	s := &models.Session{
		PatientID:               patient.ID,
		PractitionerID:          practitioner.ID,
		TreatmentID:             treatment.ID,
		PatientProgramID:        in.PatientProgramID,
		DurationMinutes:         in.DurationMinutes,
		Status:                  string(domain.InitialStatus()),
		Notes:                   strings.TrimSpace(in.Notes),
		PreparationInstructions: strings.TrimSpace(in.PreparationInstructions),
	}
	domain.MoveTo(s, iv.Start)

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := Reserve(ctx, tx, practitioner.ID, iv, 0); err != nil {
			return err
		}

		if err := tx.CreateSession(ctx, s); err != nil {
			return err
		}

		if s.PatientProgramID != nil {
			if _, err := uc.tracker.Recompute(ctx, tx, *s.PatientProgramID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// After commit
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		SessionID: s.ID,
		ActorID:   in.Actor.UserID,
		Activity:  audit.ActivityBooked,
		Metadata: map[string]any{
			"start":    s.StartTime,
			"duration": s.DurationMinutes,
		},
	})

	when := s.StartTime.Format("2006-01-02 15:04")

	notify(ctx, uc.notifier, patient.UserID,
		"Session booked",
		fmt.Sprintf("Your %s session with %s is booked for %s.", treatment.Name, practitioner.Name, when),
		models.NotificationInfo, models.PriorityMedium, nil,
	)

	remindAt := s.StartTime.Add(-uc.reminderLead)
	if remindAt.Before(now) {
		remindAt = now
	}
	notify(ctx, uc.notifier, patient.UserID,
		"Upcoming session",
		fmt.Sprintf("Reminder: %s with %s at %s.", treatment.Name, practitioner.Name, when),
		models.NotificationReminder, models.PriorityHigh, &remindAt,
	)

	return s, nil
}
