package scheduling

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type Clock interface {
	Now() time.Time
}

// Notifier is the notification sink collaborator.
type Notifier interface {
	Enqueue(
		ctx context.Context,
		userID uint,
		title string,
		message string,
		typ models.NotificationType,
		priority models.NotificationPriority,
		scheduledFor *time.Time,
	) error
}

type RegistryStore interface {
	CreatePatient(ctx context.Context, p *models.Patient) error
	GetPatient(ctx context.Context, id uint) (*models.Patient, error)

	CreatePractitioner(ctx context.Context, p *models.Practitioner) error
	GetPractitioner(ctx context.Context, id uint) (*models.Practitioner, error)
	GetPractitionerByUserID(ctx context.Context, userID uint) (*models.Practitioner, error)
	UpdatePractitioner(ctx context.Context, p *models.Practitioner) error

	ListPractitionerHours(ctx context.Context, practitionerID uint) ([]models.PractitionerHours, error)
	GetPractitionerHours(ctx context.Context, practitionerID uint, weekday int) (*models.PractitionerHours, error)
	ReplacePractitionerHours(ctx context.Context, practitionerID uint, hours []models.PractitionerHours) error

	CreateTreatment(ctx context.Context, t *models.TreatmentType) error
	GetTreatment(ctx context.Context, id uint) (*models.TreatmentType, error)

	CreateTreatmentProgram(ctx context.Context, p *models.TreatmentProgram) error
	GetTreatmentProgram(ctx context.Context, id uint) (*models.TreatmentProgram, error)
	UpdateTreatmentProgram(ctx context.Context, p *models.TreatmentProgram) error
	CountSessionsForTreatmentProgram(ctx context.Context, treatmentProgramID uint) (int64, error)
}

type ProgramStore interface {
	CreatePatientProgram(ctx context.Context, pp *models.PatientProgram) error
	GetPatientProgram(ctx context.Context, id uint) (*models.PatientProgram, error)
	GetPatientProgramForUpdate(ctx context.Context, id uint) (*models.PatientProgram, error)
	UpdatePatientProgram(ctx context.Context, pp *models.PatientProgram) error

	// CountProgramSessions counts every session ever linked to the enrollment
	// and how many of them are completed.
	CountProgramSessions(ctx context.Context, patientProgramID uint) (completed int64, total int64, err error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, s *models.Session) error
	GetSession(ctx context.Context, id uint) (*models.Session, error)
	GetSessionForUpdate(ctx context.Context, id uint) (*models.Session, error)
	UpdateSession(ctx context.Context, s *models.Session) error

	// ListActiveSessionsOverlapping returns active sessions of the practitioner
	// intersecting [start, end), skipping excludeID when non-zero.
	ListActiveSessionsOverlapping(
		ctx context.Context,
		practitionerID uint,
		start time.Time,
		end time.Time,
		excludeID uint,
	) ([]models.Session, error)

	ListSessionsForPeriod(
		ctx context.Context,
		practitionerID uint,
		start time.Time,
		end time.Time,
	) ([]models.Session, error)

	// ListOverdueSessions pages, by ascending id after afterID, through
	// scheduled/confirmed sessions that ended before the cutoff.
	ListOverdueSessions(ctx context.Context, endedBefore time.Time, afterID uint, limit int) ([]models.Session, error)
}

type RescheduleStore interface {
	CreateReschedule(ctx context.Context, r *models.SessionReschedule) error
	GetReschedule(ctx context.Context, id uint) (*models.SessionReschedule, error)
	GetRescheduleForUpdate(ctx context.Context, id uint) (*models.SessionReschedule, error)
	UpdateReschedule(ctx context.Context, r *models.SessionReschedule) error
	HasPendingReschedule(ctx context.Context, sessionID uint) (bool, error)
	// GetPendingRescheduleForUpdate returns NotFound when the session has no pending request.
	GetPendingRescheduleForUpdate(ctx context.Context, sessionID uint) (*models.SessionReschedule, error)
}

type Repository interface {
	RegistryStore
	ProgramStore
	SessionStore
	RescheduleStore

	// Transaction runs fn atomically; fn must only use the Repository it receives.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// LockPractitionerDays serialises writers touching the same practitioner
	// and calendar days until the surrounding transaction ends.
	LockPractitionerDays(ctx context.Context, practitionerID uint, days []time.Time) error
}
