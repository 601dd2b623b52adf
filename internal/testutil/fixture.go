// Package testutil seeds an in-memory clinic for use case tests.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/app"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// Now is the frozen "current" instant: the day before the booking day used
// throughout the tests.
var Now = time.Date(2024, 5, 31, 9, 0, 0, 0, time.UTC)

const Day = "2024-06-01"

type Fixture struct {
	Store *repository.MemoryStore
	Clock *timezone.Fixed
	Pub   *RecordingPublisher
	App   *app.App
	Cfg   *config.Config

	Patient      *models.Patient
	OtherPatient *models.Patient
	Practitioner *models.Practitioner
	Treatment    *models.TreatmentType
	Template     *models.TreatmentProgram

	PatientActor      domain.Actor
	OtherPatientActor domain.Actor
	PractitionerActor domain.Actor
	AdminActor        domain.Actor
}

func TestConfig() *config.Config {
	return &config.Config{
		Env:                 "test",
		ServerPort:          "0",
		Store:               config.StoreMemory,
		JWTSecret:           "test-secret",
		CORSOrigins:         []string{"http://localhost:3000"},
		NotificationChannel: "clinic:notifications",
		ClinicTimezone:      "UTC",
		ClinicOpen:          "08:00",
		ClinicClose:         "18:00",
		ReminderLeadMinutes: 24 * 60,
		NoShowGraceMinutes:  30,
		CronIntervalMinutes: 1,
	}
}

func NewFixture(t *testing.T) *Fixture {
	t.Helper()

	ctx := context.Background()
	store := repository.NewMemoryStore()
	clock := &timezone.Fixed{At: Now}
	pub := &RecordingPublisher{}
	cfg := TestConfig()

	a := app.New(cfg, app.Stores{
		Repo:          store,
		Activities:    store,
		Notifications: store,
	}, pub, clock)
	t.Cleanup(a.Close)

	f := &Fixture{
		Store: store,
		Clock: clock,
		Pub:   pub,
		App:   a,
		Cfg:   cfg,

		PatientActor:      domain.Actor{UserID: 1, Role: domain.RolePatient},
		OtherPatientActor: domain.Actor{UserID: 3, Role: domain.RolePatient},
		PractitionerActor: domain.Actor{UserID: 2, Role: domain.RolePractitioner},
		AdminActor:        domain.Actor{UserID: 99, Role: domain.RoleAdmin},
	}

	f.Patient = &models.Patient{UserID: 1, Name: "Ana"}
	require.NoError(t, store.CreatePatient(ctx, f.Patient))

	f.OtherPatient = &models.Patient{UserID: 3, Name: "Bruno"}
	require.NoError(t, store.CreatePatient(ctx, f.OtherPatient))

	f.Practitioner = &models.Practitioner{UserID: 2, Name: "Dr. Costa", IsAvailable: true}
	require.NoError(t, store.CreatePractitioner(ctx, f.Practitioner))

	f.Treatment = &models.TreatmentType{Name: "Physiotherapy", DurationMinutes: 60, Price: 80, IsActive: true}
	require.NoError(t, store.CreateTreatment(ctx, f.Treatment))

	f.Template = &models.TreatmentProgram{
		Name:          "Knee rehab",
		TotalSessions: 4,
		DurationWeeks: 4,
		TotalPrice:    300,
		IsActive:      true,
	}
	require.NoError(t, store.CreateTreatmentProgram(ctx, f.Template))

	return f
}

// Enroll puts the patient into the template with the fixture practitioner.
func (f *Fixture) Enroll(t *testing.T) *models.PatientProgram {
	t.Helper()

	pp := &models.PatientProgram{
		PatientID:          f.Patient.ID,
		TreatmentProgramID: f.Template.ID,
		PractitionerID:     f.Practitioner.ID,
		StartDate:          Now,
		Status:             string(domain.ProgramActive),
	}
	require.NoError(t, f.Store.CreatePatientProgram(context.Background(), pp))
	return pp
}

// RecordingPublisher keeps every published notification.
type RecordingPublisher struct {
	mu        sync.Mutex
	Published []models.Notification
}

func (p *RecordingPublisher) Publish(_ context.Context, n *models.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Published = append(p.Published, *n)
	return nil
}

func (p *RecordingPublisher) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Published)
}
