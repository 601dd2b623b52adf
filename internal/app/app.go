// Package app assembles the use cases over a chosen store.
package app

import (
	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/cronjobs"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notification"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	ucProgram "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/program"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/registry"
	ucReschedule "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/reschedule"
	ucSession "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/session"
)

// Stores groups the persistence the engine needs. A single store type may
// fill every field.
type Stores struct {
	Repo          domain.Repository
	Activities    audit.Store
	Notifications notification.Store
}

type App struct {
	AuditLogger *audit.Logger
	Audit       *audit.Dispatcher
	Notifier    *notification.Service

	Book       *ucSession.Book
	Transition *ucSession.Transition
	GetSession *ucSession.Get
	ListDay    *ucSession.ListDay
	FreeSlots  *ucSession.ListFreeSlots
	NoShows    *ucSession.MarkNoShows
	AddNote    *ucSession.AddNote

	RequestReschedule *ucReschedule.Request
	ResolveReschedule *ucReschedule.Resolve

	Enroll            *ucProgram.Enroll
	ChangeStatus      *ucProgram.ChangeStatus
	GetProgress       *ucProgram.GetProgress
	RecomputeProgress *ucProgram.RecomputeProgress

	Registry *registry.Registry

	Cron *cronjobs.Runner
}

func New(
	cfg *config.Config,
	stores Stores,
	pub notification.Publisher,
	clock domain.Clock,
) *App {

	auditLogger := audit.New(stores.Activities)
	dispatcher := audit.NewDispatcher(auditLogger)
	notifier := notification.NewService(stores.Notifications, pub, clock)
	tracker := ucProgram.NewTracker(clock)

	transition := ucSession.NewTransition(stores.Repo, tracker, dispatcher, notifier, clock)
	noShows := ucSession.NewMarkNoShows(stores.Repo, transition, clock, cfg.NoShowGrace())

	return &App{
		AuditLogger: auditLogger,
		Audit:       dispatcher,
		Notifier:    notifier,

		Book:       ucSession.NewBook(stores.Repo, tracker, dispatcher, notifier, clock, cfg.ReminderLead()),
		Transition: transition,
		GetSession: ucSession.NewGet(stores.Repo),
		ListDay:    ucSession.NewListDay(stores.Repo),
		FreeSlots:  ucSession.NewListFreeSlots(stores.Repo, clock, cfg.ClinicOpen, cfg.ClinicClose),
		NoShows:    noShows,
		AddNote:    ucSession.NewAddNote(stores.Repo, auditLogger),

		RequestReschedule: ucReschedule.NewRequest(stores.Repo, dispatcher, notifier, clock),
		ResolveReschedule: ucReschedule.NewResolve(stores.Repo, dispatcher, notifier, clock),

		Enroll:            ucProgram.NewEnroll(stores.Repo),
		ChangeStatus:      ucProgram.NewChangeStatus(stores.Repo, clock),
		GetProgress:       ucProgram.NewGetProgress(stores.Repo),
		RecomputeProgress: ucProgram.NewRecomputeProgress(stores.Repo, tracker),

		Registry: registry.New(stores.Repo),

		Cron: cronjobs.NewRunner(notifier, noShows, cfg.CronIntervalMinutes, timezone.Location("")),
	}
}

// Close flushes the audit queue and stops the timers.
func (a *App) Close() {
	a.Cron.Stop()
	a.Audit.Close()
}
