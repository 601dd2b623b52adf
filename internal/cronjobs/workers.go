package cronjobs

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

type notificationDispatcher interface {
	DispatchDue(ctx context.Context) (int, error)
}

type noShowMarker interface {
	Execute(ctx context.Context) (int, error)
}

// Runner fires the periodic work: due notifications and no-show marking.
type Runner struct {
	notifications notificationDispatcher
	noShows       noShowMarker
	interval      int
	loc           *time.Location

	scheduler *gocron.Scheduler
}

func NewRunner(
	notifications notificationDispatcher,
	noShows noShowMarker,
	intervalMinutes int,
	loc *time.Location,
) *Runner {
	return &Runner{
		notifications: notifications,
		noShows:       noShows,
		interval:      intervalMinutes,
		loc:           loc,
	}
}

func (r *Runner) Start() error {
	r.scheduler = gocron.NewScheduler(r.loc)
	r.scheduler.SingletonModeAll()

	if _, err := r.scheduler.Every(r.interval).Minutes().Do(r.Tick); err != nil {
		return err
	}

	r.scheduler.StartAsync()
	log.Info().Int("interval_minutes", r.interval).Msg("cron jobs started")
	return nil
}

func (r *Runner) Stop() {
	if r.scheduler != nil {
		r.scheduler.Stop()
	}
}

// Tick runs one round of every job.
func (r *Runner) Tick() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if n, err := r.notifications.DispatchDue(ctx); err != nil {
		log.Error().Err(err).Msg("notification dispatch failed")
	} else if n > 0 {
		log.Info().Int("count", n).Msg("notifications dispatched")
	}

	if n, err := r.noShows.Execute(ctx); err != nil {
		log.Error().Err(err).Msg("no-show check failed")
	} else if n > 0 {
		log.Info().Int("count", n).Msg("sessions marked no-show")
	}
}
