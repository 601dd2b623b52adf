package reschedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/session"
)

type RequestInput struct {
	SessionID uint
	NewDate   string
	NewTime   string
	Reason    string
	Actor     domain.Actor
}

type Request struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier domain.Notifier
	clock    domain.Clock
}

func NewRequest(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier domain.Notifier,
	clock domain.Clock,
) *Request {
	return &Request{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		clock:    clock,
	}
}

func (uc *Request) Execute(
	ctx context.Context,
	in RequestInput,
) (*models.SessionReschedule, error) {

	newStart, err := domain.ParseSlot(in.NewDate, in.NewTime, timezone.Location(""))
	if err != nil {
		return nil, err
	}

	if newStart.Before(uc.clock.Now()) {
		return nil, httperr.ErrValidation("date_in_past")
	}

	var (
		rs           *models.SessionReschedule
		s            *models.Session
		practitioner *models.Practitioner
		patient      *models.Patient
		relation     domain.Relation
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

		if err := reschedulable(s); err != nil {
			return err
		}

		if newStart.Equal(s.StartTime) {
			return httperr.ErrValidation("same_slot")
		}

		pending, err := tx.HasPendingReschedule(ctx, s.ID)
		if err != nil {
			return err
		}
		if pending {
			return httperr.ErrConflict("reschedule_already_pending")
		}

		// Early answer only; approval checks again under the day lock.
		free, err := session.IsSlotFree(
			ctx,
			tx,
			s.PractitionerID,
			domain.NewInterval(newStart, s.DurationMinutes),
			s.ID,
		)
		if err != nil {
			return err
		}
		if !free {
			return httperr.ErrConflict("time_conflict")
		}

		rs = &models.SessionReschedule{
			SessionID:       s.ID,
			OriginalDate:    s.ScheduledDate,
			OriginalTime:    s.ScheduledTime,
			DurationMinutes: s.DurationMinutes,
			NewDate:         dateOf(newStart),
			NewTime:         newStart.Format(domain.TimeLayout),
			Reason:          strings.TrimSpace(in.Reason),
			RequestedBy:     in.Actor.UserID,
			Status:          string(domain.ReschedulePending),
		}

		return tx.CreateReschedule(ctx, rs)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SessionID: s.ID,
		ActorID:   in.Actor.UserID,
		Activity:  audit.ActivityRescheduleRequested,
		Notes:     rs.Reason,
		Metadata: map[string]any{
			"reschedule_id": rs.ID,
			"new_date":      rs.NewDate.Format(domain.DateLayout),
			"new_time":      rs.NewTime,
		},
	})

	from := s.StartTime.Format("2006-01-02 15:04")
	to := rs.NewDate.Format(domain.DateLayout) + " " + rs.NewTime

	// Only the practitioner or an admin resolves; the patient is just kept informed.
	if relation == domain.RelationPractitioner {
		notify(ctx, uc.notifier, patient.UserID,
			"Reschedule proposed",
			fmt.Sprintf("Your %s session may move to %s. You will be notified once it is confirmed.", from, to),
			models.NotificationInfo, models.PriorityMedium,
		)
	} else {
		notify(ctx, uc.notifier, practitioner.UserID,
			"Reschedule requested",
			fmt.Sprintf("A move of the %s session to %s is awaiting your approval.", from, to),
			models.NotificationAlert, models.PriorityMedium,
		)
	}

	return rs, nil
}

func reschedulable(s *models.Session) error {
	st := domain.Status(s.Status)
	if st.IsTerminal() {
		return httperr.ErrInvalidState("session_not_reschedulable")
	}
	if st == domain.StatusInProgress {
		return httperr.ErrInvalidState("session_in_progress")
	}
	return nil
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func notify(
	ctx context.Context,
	n domain.Notifier,
	userID uint,
	title string,
	message string,
	typ models.NotificationType,
	priority models.NotificationPriority,
) {
	if n == nil || userID == 0 {
		return
	}
	if err := n.Enqueue(ctx, userID, title, message, typ, priority, nil); err != nil {
		log.Warn().Err(err).Uint("user_id", userID).Str("title", title).Msg("notification enqueue failed")
	}
}
