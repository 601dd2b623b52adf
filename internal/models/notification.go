package models

import "time"

type NotificationType string

const (
	NotificationReminder   NotificationType = "reminder"
	NotificationAlert      NotificationType = "alert"
	NotificationInfo       NotificationType = "info"
	NotificationPrecaution NotificationType = "precaution"
	NotificationFeedback   NotificationType = "feedback"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

type Notification struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Key    string `gorm:"size:36;uniqueIndex" json:"key"`
	UserID uint   `gorm:"index;not null" json:"user_id"`

	Title    string               `gorm:"size:200;not null" json:"title"`
	Message  string               `gorm:"type:text;not null" json:"message"`
	Type     NotificationType     `gorm:"size:20;not null" json:"type"`
	Priority NotificationPriority `gorm:"size:20;default:'medium'" json:"priority"`
	IsRead   bool                 `json:"is_read"`

	ScheduledFor *time.Time `gorm:"index" json:"scheduled_for"`
	DispatchedAt *time.Time `gorm:"index" json:"dispatched_at"`

	CreatedAt time.Time `json:"created_at"`
}
