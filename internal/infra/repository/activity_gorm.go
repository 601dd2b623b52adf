package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notification"
)

// SupportGormStore persists the session trail and the notification outbox.
type SupportGormStore struct {
	db *gorm.DB
}

func NewSupportGormStore(db *gorm.DB) *SupportGormStore {
	return &SupportGormStore{db: db}
}

func (s *SupportGormStore) CreateActivity(ctx context.Context, a *models.SessionActivity) error {
	return s.db.WithContext(ctx).Create(a).Error
}

func (s *SupportGormStore) ListActivities(ctx context.Context, sessionID uint) ([]models.SessionActivity, error) {
	var out []models.SessionActivity
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, httperr.ErrInternal("activity_list_failed", err)
	}
	return out, nil
}

func (s *SupportGormStore) SaveNotification(ctx context.Context, n *models.Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}

func (s *SupportGormStore) ListDueNotifications(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]models.Notification, error) {

	var out []models.Notification
	if err := s.db.WithContext(ctx).
		Where("dispatched_at IS NULL AND (scheduled_for IS NULL OR scheduled_for <= ?)", now).
		Order("id ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SupportGormStore) MarkNotificationDispatched(ctx context.Context, id uint, at time.Time) error {
	return s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("dispatched_at", at).Error
}

var (
	_ audit.Store        = (*SupportGormStore)(nil)
	_ notification.Store = (*SupportGormStore)(nil)
)
