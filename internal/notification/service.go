// Package notification is the sink booking and rescheduling report to. Rows
// are persisted first and published once they are due.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const dispatchBatch = 200

type Store interface {
	SaveNotification(ctx context.Context, n *models.Notification) error
	ListDueNotifications(ctx context.Context, now time.Time, limit int) ([]models.Notification, error)
	MarkNotificationDispatched(ctx context.Context, id uint, at time.Time) error
}

type Publisher interface {
	Publish(ctx context.Context, n *models.Notification) error
}

type Service struct {
	store Store
	pub   Publisher
	clock scheduling.Clock
}

func NewService(store Store, pub Publisher, clock scheduling.Clock) *Service {
	return &Service{store: store, pub: pub, clock: clock}
}

var _ scheduling.Notifier = (*Service)(nil)

func (s *Service) Enqueue(
	ctx context.Context,
	userID uint,
	title string,
	message string,
	typ models.NotificationType,
	priority models.NotificationPriority,
	scheduledFor *time.Time,
) error {

	if priority == "" {
		priority = models.PriorityMedium
	}

	n := &models.Notification{
		Key:          uuid.NewString(),
		UserID:       userID,
		Title:        title,
		Message:      message,
		Type:         typ,
		Priority:     priority,
		ScheduledFor: scheduledFor,
	}

	if err := s.store.SaveNotification(ctx, n); err != nil {
		return fmt.Errorf("save notification: %w", err)
	}

	now := s.clock.Now()
	if scheduledFor != nil && scheduledFor.After(now) {
		return nil
	}

	return s.dispatch(ctx, n, now)
}

// DispatchDue publishes every saved notification whose time has come.
func (s *Service) DispatchDue(ctx context.Context) (int, error) {
	now := s.clock.Now()

	due, err := s.store.ListDueNotifications(ctx, now, dispatchBatch)
	if err != nil {
		return 0, fmt.Errorf("list due notifications: %w", err)
	}

	sent := 0
	for i := range due {
		if err := s.dispatch(ctx, &due[i], now); err != nil {
			log.Warn().Err(err).Uint("notification_id", due[i].ID).Msg("notification dispatch failed")
			continue
		}
		sent++
	}

	return sent, nil
}

func (s *Service) dispatch(ctx context.Context, n *models.Notification, now time.Time) error {
	if err := s.pub.Publish(ctx, n); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	if err := s.store.MarkNotificationDispatched(ctx, n.ID, now); err != nil {
		return fmt.Errorf("mark notification dispatched: %w", err)
	}
	n.DispatchedAt = &now
	return nil
}
