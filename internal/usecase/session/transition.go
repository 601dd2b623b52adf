package session

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/program"
)

type TransitionInput struct {
	SessionID  uint
	Target     string
	Actor      domain.Actor
	Completion domain.Completion
}

type Transition struct {
	repo     domain.Repository
	tracker  *program.Tracker
	audit    *audit.Dispatcher
	notifier domain.Notifier
	clock    domain.Clock
}

func NewTransition(
	repo domain.Repository,
	tracker *program.Tracker,
	audit *audit.Dispatcher,
	notifier domain.Notifier,
	clock domain.Clock,
) *Transition {
	return &Transition{
		repo:     repo,
		tracker:  tracker,
		audit:    audit,
		notifier: notifier,
		clock:    clock,
	}
}

var activityFor = map[domain.Status]string{
	domain.StatusConfirmed:  audit.ActivityConfirmed,
	domain.StatusInProgress: audit.ActivityStarted,
	domain.StatusCompleted:  audit.ActivityCompleted,
	domain.StatusCancelled:  audit.ActivityCancelled,
	domain.StatusNoShow:     audit.ActivityNoShow,
}

func (uc *Transition) Execute(
	ctx context.Context,
	in TransitionInput,
) (*models.Session, error) {

	to, err := domain.ParseStatus(in.Target)
	if err != nil {
		return nil, err
	}

	var (
		s            *models.Session
		patient      *models.Patient
		practitioner *models.Practitioner
		relation     domain.Relation
		dropped      *models.SessionReschedule
	)

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error

		s, err = tx.GetSessionForUpdate(ctx, in.SessionID)
		if err != nil {
			return err
		}

		patient, err = tx.GetPatient(ctx, s.PatientID)
		if err != nil {
			return err
		}

		practitioner, err = tx.GetPractitioner(ctx, s.PractitionerID)
		if err != nil {
			return err
		}

		relation = in.Actor.RelationTo(patient, practitioner)
		if relation == domain.RelationNone {
			return httperr.ErrAuthorization("forbidden")
		}

		if err := domain.CanTransition(domain.Status(s.Status), to); err != nil {
			return err
		}

		if relation == domain.RelationPatient && to != domain.StatusCancelled {
			return httperr.ErrAuthorization("patient_may_only_cancel")
		}

		if err := domain.Transition(s, to, uc.clock.Now(), in.Completion); err != nil {
			return err
		}

		if err := tx.UpdateSession(ctx, s); err != nil {
			return err
		}

		if to.IsTerminal() {
			dropped, err = rejectPending(ctx, tx, s.ID, uc.clock.Now())
			if err != nil {
				return err
			}
		}

		if to.IsTerminal() && s.PatientProgramID != nil {
			if _, err := uc.tracker.Recompute(ctx, tx, *s.PatientProgramID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SessionID: s.ID,
		ActorID:   in.Actor.UserID,
		Activity:  activityFor[to],
		Notes:     s.PostSessionNotes,
	})

	if dropped != nil {
		uc.audit.Dispatch(audit.Event{
			SessionID: s.ID,
			ActorID:   in.Actor.UserID,
			Activity:  audit.ActivityRescheduleRejected,
			Metadata: map[string]any{
				"reschedule_id": dropped.ID,
				"reason":        "session_" + string(to),
			},
		})
	}

	recipient := patient.UserID
	if relation == domain.RelationPatient {
		recipient = practitioner.UserID
	}

	typ, priority := models.NotificationInfo, models.PriorityMedium
	if to == domain.StatusCancelled || to == domain.StatusNoShow {
		typ, priority = models.NotificationAlert, models.PriorityHigh
	}
	if to == domain.StatusCompleted {
		typ = models.NotificationFeedback
	}

	notify(ctx, uc.notifier, recipient,
		"Session "+string(to),
		fmt.Sprintf("Session on %s is now %s.", s.StartTime.Format("2006-01-02 15:04"), to),
		typ, priority, nil,
	)

	return s, nil
}

// rejectPending closes a reschedule request left open on a session that just
// reached a terminal status. It returns nil when there was none.
func rejectPending(
	ctx context.Context,
	tx domain.Repository,
	sessionID uint,
	now time.Time,
) (*models.SessionReschedule, error) {

	rs, err := tx.GetPendingRescheduleForUpdate(ctx, sessionID)
	if httperr.IsKind(err, httperr.KindNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rs.Status = string(domain.RescheduleRejected)
	rs.ResolvedAt = &now
	if err := tx.UpdateReschedule(ctx, rs); err != nil {
		return nil, err
	}
	return rs, nil
}
