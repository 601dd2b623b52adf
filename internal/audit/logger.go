package audit

import (
	"context"
	"encoding/json"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const (
	ActivityBooked               = "booked"
	ActivityConfirmed            = "confirmed"
	ActivityStarted              = "started"
	ActivityCompleted            = "completed"
	ActivityCancelled            = "cancelled"
	ActivityNoShow               = "no_show"
	ActivityNotes                = "notes"
	ActivityRescheduleRequested  = "reschedule_requested"
	ActivityRescheduled          = "rescheduled"
	ActivityRescheduleRejected   = "reschedule_rejected"
	ActivityRescheduleConflicted = "reschedule_conflicted"
)

type Store interface {
	CreateActivity(ctx context.Context, a *models.SessionActivity) error
	ListActivities(ctx context.Context, sessionID uint) ([]models.SessionActivity, error)
}

type Logger struct {
	store Store
}

func New(store Store) *Logger {
	return &Logger{store: store}
}

func (l *Logger) Log(
	ctx context.Context,
	sessionID uint,
	actorID uint,
	activity string,
	notes string,
	metadata any,
) (*models.SessionActivity, error) {

	var metaJSON string
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metaJSON = string(b)
		}
	}

	entry := models.SessionActivity{
		SessionID: sessionID,
		ActorID:   actorID,
		Activity:  activity,
		Notes:     notes,
		Metadata:  metaJSON,
	}

	if err := l.store.CreateActivity(ctx, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (l *Logger) List(ctx context.Context, sessionID uint) ([]models.SessionActivity, error) {
	return l.store.ListActivities(ctx, sessionID)
}
