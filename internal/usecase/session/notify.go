package session

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// notify runs after commit; a failed notification never undoes the session change.
func notify(
	ctx context.Context,
	n domain.Notifier,
	userID uint,
	title string,
	message string,
	typ models.NotificationType,
	priority models.NotificationPriority,
	at *time.Time,
) {
	if n == nil || userID == 0 {
		return
	}
	if err := n.Enqueue(ctx, userID, title, message, typ, priority, at); err != nil {
		log.Warn().Err(err).Uint("user_id", userID).Str("title", title).Msg("notification enqueue failed")
	}
}
