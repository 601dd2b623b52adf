package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/testutil"
	ucSession "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/session"
)

func transition(f *testutil.Fixture, id uint, to domain.Status, actor domain.Actor) error {
	_, err := f.App.Transition.Execute(context.Background(), ucSession.TransitionInput{
		SessionID: id,
		Target:    string(to),
		Actor:     actor,
	})
	return err
}

func TestTransition_HappyPathRecordsCompletion(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()

	s := f.MustBook(t, f.BookInput("10:00", 60))
	f.Walk(t, s.ID, domain.StatusConfirmed, domain.StatusInProgress)

	rating := 5
	done, err := f.App.Transition.Execute(ctx, ucSession.TransitionInput{
		SessionID: s.ID,
		Target:    string(domain.StatusCompleted),
		Actor:     f.PractitionerActor,
		Completion: domain.Completion{
			PostSessionNotes: "  range of motion improved ",
			Rating:           &rating,
			Feedback:         " knee feels looser ",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCompleted), done.Status)
	assert.Equal(t, "range of motion improved", done.PostSessionNotes)
	assert.Equal(t, "knee feels looser", done.Feedback)
	require.NotNil(t, done.Rating)
	assert.Equal(t, 5, *done.Rating)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, done.CompletedAt.Equal(testutil.Now))

	f.App.Audit.Close()
	acts, err := f.App.AuditLogger.List(ctx, s.ID)
	require.NoError(t, err)

	var names []string
	for _, a := range acts {
		names = append(names, a.Activity)
	}
	assert.Equal(t, []string{
		audit.ActivityBooked,
		audit.ActivityConfirmed,
		audit.ActivityStarted,
		audit.ActivityCompleted,
	}, names)
}

func TestTransition_IllegalEdges(t *testing.T) {
	f := testutil.NewFixture(t)

	s := f.MustBook(t, f.BookInput("10:00", 60))

	err := transition(f, s.ID, domain.StatusCompleted, f.PractitionerActor)
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition))

	err = transition(f, s.ID, domain.StatusInProgress, f.PractitionerActor)
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition))

	err = transition(f, s.ID, domain.StatusScheduled, f.PractitionerActor)
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition))

	err = transition(f, s.ID, "rescheduled", f.PractitionerActor)
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))
}

func TestTransition_TerminalIsNotIdempotent(t *testing.T) {
	f := testutil.NewFixture(t)

	s := f.MustBook(t, f.BookInput("10:00", 60))
	require.NoError(t, transition(f, s.ID, domain.StatusCancelled, f.PractitionerActor))

	err := transition(f, s.ID, domain.StatusCancelled, f.PractitionerActor)
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition))
}

func TestTransition_Authorization(t *testing.T) {
	f := testutil.NewFixture(t)

	s := f.MustBook(t, f.BookInput("10:00", 60))

	err := transition(f, s.ID, domain.StatusCancelled, f.OtherPatientActor)
	assert.True(t, httperr.IsKind(err, httperr.KindAuthorization))

	err = transition(f, s.ID, domain.StatusConfirmed, domain.Actor{UserID: 77, Role: domain.RolePractitioner})
	assert.True(t, httperr.IsKind(err, httperr.KindAuthorization))

	err = transition(f, s.ID, domain.StatusConfirmed, f.PatientActor)
	assert.True(t, httperr.IsKind(err, httperr.KindAuthorization))
	assert.Equal(t, "patient_may_only_cancel", httperr.CodeOf(err))

	require.NoError(t, transition(f, s.ID, domain.StatusCancelled, f.PatientActor))

	// the practitioner hears about a patient cancellation
	notes := f.Store.Notifications(f.Practitioner.UserID)
	require.NotEmpty(t, notes)
	assert.Equal(t, "Session cancelled", notes[len(notes)-1].Title)
}

func TestTransition_AdminMaySetAnyReachableStatus(t *testing.T) {
	f := testutil.NewFixture(t)

	s := f.MustBook(t, f.BookInput("10:00", 60))
	require.NoError(t, transition(f, s.ID, domain.StatusConfirmed, f.AdminActor))
	require.NoError(t, transition(f, s.ID, domain.StatusInProgress, f.AdminActor))
	require.NoError(t, transition(f, s.ID, domain.StatusCompleted, f.AdminActor))
}

func TestTransition_NoShowOnlyAfterStart(t *testing.T) {
	f := testutil.NewFixture(t)

	s := f.MustBook(t, f.BookInput("10:00", 60))

	err := transition(f, s.ID, domain.StatusNoShow, f.PractitionerActor)
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition))
	assert.Equal(t, "no_show_before_start", httperr.CodeOf(err))

	f.Clock.At = s.StartTime.Add(5 * time.Minute)
	require.NoError(t, transition(f, s.ID, domain.StatusNoShow, f.PractitionerActor))
}

func TestTransition_RatingOutOfRange(t *testing.T) {
	f := testutil.NewFixture(t)

	s := f.MustBook(t, f.BookInput("10:00", 60))
	f.Walk(t, s.ID, domain.StatusConfirmed, domain.StatusInProgress)

	rating := 6
	_, err := f.App.Transition.Execute(context.Background(), ucSession.TransitionInput{
		SessionID:  s.ID,
		Target:     string(domain.StatusCompleted),
		Actor:      f.PractitionerActor,
		Completion: domain.Completion{Rating: &rating},
	})
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))

	got, err := f.Store.GetSession(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusInProgress), got.Status)
}

func TestTransition_UnknownSession(t *testing.T) {
	f := testutil.NewFixture(t)

	err := transition(f, 404, domain.StatusConfirmed, f.AdminActor)
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}

func TestMarkNoShows(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()

	early := f.MustBook(t, f.BookInput("10:00", 60))
	late := f.MustBook(t, f.BookInput("15:00", 60))
	started := f.MustBook(t, f.BookInput("08:00", 60))
	f.Walk(t, started.ID, domain.StatusConfirmed)

	// 11:20 is inside the 30 minute grace of the 10:00 session
	f.Clock.At = early.EndTime.Add(20 * time.Minute)
	n, err := f.App.NoShows.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	f.Clock.At = early.EndTime.Add(31 * time.Minute)
	n, err = f.App.NoShows.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	for id, want := range map[uint]domain.Status{
		early.ID:   domain.StatusNoShow,
		late.ID:    domain.StatusScheduled,
		started.ID: domain.StatusNoShow,
	} {
		got, err := f.Store.GetSession(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, string(want), got.Status, "session %d", id)
	}
}

func TestMarkNoShows_FailingRowsDoNotStarveNewer(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()

	// More broken rows than one page: their patient does not exist, so every
	// transition attempt on them fails.
	base := time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 120; i++ {
		start := base.Add(time.Duration(i*10) * time.Minute)
		require.NoError(t, f.Store.CreateSession(ctx, &models.Session{
			PatientID:       999,
			PractitionerID:  f.Practitioner.ID,
			TreatmentID:     f.Treatment.ID,
			ScheduledDate:   base,
			ScheduledTime:   start.Format(domain.TimeLayout),
			DurationMinutes: 10,
			StartTime:       start,
			EndTime:         start.Add(10 * time.Minute),
			Status:          string(domain.StatusScheduled),
		}))
	}

	s := f.MustBook(t, f.BookInput("10:00", 60))
	f.Clock.At = s.EndTime.Add(time.Hour)

	for tick := 0; tick < 2; tick++ {
		n, err := f.App.NoShows.Execute(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1-tick, n)
	}

	got, err := f.Store.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusNoShow), got.Status)
}
