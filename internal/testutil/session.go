package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	ucSession "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/session"
)

// BookInput is a valid booking of the fixture patient at hm on Day.
func (f *Fixture) BookInput(hm string, minutes int) ucSession.BookInput {
	return ucSession.BookInput{
		PatientID:       f.Patient.ID,
		PractitionerID:  f.Practitioner.ID,
		TreatmentID:     f.Treatment.ID,
		Date:            Day,
		Time:            hm,
		DurationMinutes: minutes,
		Actor:           f.PractitionerActor,
	}
}

func (f *Fixture) MustBook(t *testing.T, in ucSession.BookInput) *models.Session {
	t.Helper()
	s, err := f.App.Book.Execute(context.Background(), in)
	require.NoError(t, err)
	return s
}

// Walk transitions the session through each status in order as the practitioner.
func (f *Fixture) Walk(t *testing.T, sessionID uint, statuses ...domain.Status) *models.Session {
	t.Helper()

	var s *models.Session
	for _, st := range statuses {
		var err error
		s, err = f.App.Transition.Execute(context.Background(), ucSession.TransitionInput{
			SessionID: sessionID,
			Target:    string(st),
			Actor:     f.PractitionerActor,
		})
		require.NoError(t, err, "transition to %s", st)
	}
	return s
}

// Complete drives a fresh session all the way to completed.
func (f *Fixture) Complete(t *testing.T, sessionID uint) *models.Session {
	t.Helper()
	return f.Walk(t, sessionID, domain.StatusConfirmed, domain.StatusInProgress, domain.StatusCompleted)
}
