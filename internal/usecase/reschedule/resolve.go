package reschedule

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/session"
)

type ResolveInput struct {
	RescheduleID uint
	Decision     string
	Actor        domain.Actor
}

type ResolveResult struct {
	Reschedule *models.SessionReschedule `json:"reschedule"`
	Session    *models.Session           `json:"session"`
}

type Resolve struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier domain.Notifier
	clock    domain.Clock
}

func NewResolve(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier domain.Notifier,
	clock domain.Clock,
) *Resolve {
	return &Resolve{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		clock:    clock,
	}
}

// Execute approves or rejects a pending request. Approval re-checks the slot
// under the practitioner's day lock and moves the session in the same
// transaction; any failure leaves both rows as they were.
func (uc *Resolve) Execute(
	ctx context.Context,
	in ResolveInput,
) (*ResolveResult, error) {

	decision, err := domain.ParseDecision(in.Decision)
	if err != nil {
		return nil, err
	}

	var (
		rs *models.SessionReschedule
		s  *models.Session
	)

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error

		rs, err = tx.GetRescheduleForUpdate(ctx, in.RescheduleID)
		if err != nil {
			return err
		}

		s, err = tx.GetSessionForUpdate(ctx, rs.SessionID)
		if err != nil {
			return err
		}

		practitioner, err := tx.GetPractitioner(ctx, s.PractitionerID)
		if err != nil {
			return err
		}

		switch in.Actor.RelationTo(nil, practitioner) {
		case domain.RelationPractitioner, domain.RelationAdmin:
		default:
			return httperr.ErrAuthorization("forbidden")
		}

		if domain.RescheduleStatus(rs.Status) != domain.ReschedulePending {
			return httperr.ErrInvalidState("reschedule_not_pending")
		}

		now := uc.clock.Now()
		approver := in.Actor.UserID

		if decision == domain.DecisionReject {
			rs.Status = string(domain.RescheduleRejected)
			rs.ApprovedBy = &approver
			rs.ResolvedAt = &now
			return tx.UpdateReschedule(ctx, rs)
		}

		if err := reschedulable(s); err != nil {
			return err
		}

		newStart, err := domain.ParseSlot(
			rs.NewDate.Format(domain.DateLayout),
			rs.NewTime,
			timezone.Location(""),
		)
		if err != nil {
			return err
		}
		if newStart.Before(now) {
			return httperr.ErrValidation("date_in_past")
		}

		iv := domain.NewInterval(newStart, s.DurationMinutes)
		if err := session.Reserve(ctx, tx, s.PractitionerID, iv, s.ID); err != nil {
			return err
		}

		domain.MoveTo(s, newStart)
		if err := tx.UpdateSession(ctx, s); err != nil {
			return err
		}

		rs.Status = string(domain.RescheduleApproved)
		rs.ApprovedBy = &approver
		rs.ResolvedAt = &now
		return tx.UpdateReschedule(ctx, rs)
	})
	if err != nil {
		if httperr.IsKind(err, httperr.KindConflict) && rs != nil {
			uc.audit.Dispatch(audit.Event{
				SessionID: rs.SessionID,
				ActorID:   in.Actor.UserID,
				Activity:  audit.ActivityRescheduleConflicted,
				Metadata:  map[string]any{"reschedule_id": rs.ID},
			})
		}
		return nil, err
	}

	activity := audit.ActivityRescheduled
	title := "Reschedule approved"
	message := fmt.Sprintf("Your session now starts at %s.", s.StartTime.Format("2006-01-02 15:04"))
	if decision == domain.DecisionReject {
		activity = audit.ActivityRescheduleRejected
		title = "Reschedule rejected"
		message = fmt.Sprintf("Your session stays at %s.", s.StartTime.Format("2006-01-02 15:04"))
	}

	uc.audit.Dispatch(audit.Event{
		SessionID: s.ID,
		ActorID:   in.Actor.UserID,
		Activity:  activity,
		Metadata:  map[string]any{"reschedule_id": rs.ID},
	})

	notify(ctx, uc.notifier, rs.RequestedBy, title, message, models.NotificationInfo, models.PriorityMedium)

	return &ResolveResult{Reschedule: rs, Session: s}, nil
}
