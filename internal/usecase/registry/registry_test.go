package registry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/testutil"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/registry"
)

func ptr[T any](v T) *T { return &v }

func TestCreateTreatmentProgram(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()

	p, err := f.App.Registry.CreateTreatmentProgram(ctx, registry.TreatmentProgramInput{
		Name:          "  Back care ",
		TotalSessions: 6,
		DurationWeeks: 3,
		TotalPrice:    420,
		TreatmentIDs:  []uint{f.Treatment.ID, f.Treatment.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Back care", p.Name)
	assert.True(t, p.IsActive)
	require.Len(t, p.Treatments, 2)
	assert.Equal(t, 1, p.Treatments[0].SessionOrder)
	assert.Equal(t, 2, p.Treatments[1].SessionOrder)

	tests := []struct {
		name string
		in   registry.TreatmentProgramInput
		code string
	}{
		{"blank name", registry.TreatmentProgramInput{Name: " ", TotalSessions: 1, DurationWeeks: 1}, "invalid_program_name"},
		{"no sessions", registry.TreatmentProgramInput{Name: "x", DurationWeeks: 1}, "invalid_total_sessions"},
		{"no weeks", registry.TreatmentProgramInput{Name: "x", TotalSessions: 1}, "invalid_duration_weeks"},
		{"negative price", registry.TreatmentProgramInput{Name: "x", TotalSessions: 1, DurationWeeks: 1, TotalPrice: -1}, "invalid_price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.App.Registry.CreateTreatmentProgram(ctx, tt.in)
			assert.True(t, httperr.IsKind(err, httperr.KindValidation))
			assert.Equal(t, tt.code, httperr.CodeOf(err))
		})
	}

	_, err = f.App.Registry.CreateTreatmentProgram(ctx, registry.TreatmentProgramInput{
		Name: "x", TotalSessions: 1, DurationWeeks: 1, TreatmentIDs: []uint{404},
	})
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}

func TestUpdateTreatmentProgram_LockedOnceUsed(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()

	got, err := f.App.Registry.UpdateTreatmentProgram(ctx, f.Template.ID, registry.TreatmentProgramPatch{
		TotalSessions: ptr(8),
	})
	require.NoError(t, err)
	assert.Equal(t, 8, got.TotalSessions)

	pp := f.Enroll(t)
	in := f.BookInput("10:00", 60)
	in.PatientProgramID = &pp.ID
	f.MustBook(t, in)

	_, err = f.App.Registry.UpdateTreatmentProgram(ctx, f.Template.ID, registry.TreatmentProgramPatch{
		TotalPrice: ptr(999.0),
	})
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidState))
	assert.Equal(t, "treatment_program_locked", httperr.CodeOf(err))

	stored, err := f.Store.GetTreatmentProgram(ctx, f.Template.ID)
	require.NoError(t, err)
	assert.Equal(t, 300.0, stored.TotalPrice)

	got, err = f.App.Registry.UpdateTreatmentProgram(ctx, f.Template.ID, registry.TreatmentProgramPatch{
		IsActive: ptr(false),
	})
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	// Re-sending unchanged values is not an edit.
	_, err = f.App.Registry.UpdateTreatmentProgram(ctx, f.Template.ID, registry.TreatmentProgramPatch{
		Name: ptr("Knee rehab"),
	})
	assert.NoError(t, err)
}

func TestRegistry_PeopleAndTreatments(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()

	assert.True(t, httperr.IsKind(f.App.Registry.CreatePatient(ctx, &models.Patient{UserID: 10}), httperr.KindValidation))
	assert.True(t, httperr.IsKind(f.App.Registry.CreatePatient(ctx, &models.Patient{Name: "x"}), httperr.KindValidation))

	err := f.App.Registry.CreatePatient(ctx, &models.Patient{UserID: f.Patient.UserID, Name: "dup"})
	assert.True(t, httperr.IsKind(err, httperr.KindConflict))

	err = f.App.Registry.CreatePractitioner(ctx, &models.Practitioner{UserID: 11, Name: "Dr. X", ExperienceYears: -1})
	assert.Equal(t, "invalid_practitioner", httperr.CodeOf(err))

	err = f.App.Registry.CreateTreatment(ctx, &models.TreatmentType{Name: "Massage"})
	assert.Equal(t, "invalid_duration", httperr.CodeOf(err))

	p, err := f.App.Registry.SetAvailability(ctx, f.Practitioner.ID, false)
	require.NoError(t, err)
	assert.False(t, p.IsAvailable)

	_, err = f.App.Book.Execute(ctx, f.BookInput("10:00", 60))
	assert.Equal(t, "practitioner_unavailable", httperr.CodeOf(err))
}

func TestReplaceWorkingHours(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()
	userID := f.Practitioner.UserID

	hours, err := f.App.Registry.GetWorkingHours(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, hours)

	hours, err = f.App.Registry.ReplaceWorkingHours(ctx, userID, []models.PractitionerHours{
		{Weekday: 1, StartTime: "08:00", EndTime: "17:00", BreakStart: "12:00", BreakEnd: "13:00", Active: true},
		{Weekday: 0, Active: false},
	})
	require.NoError(t, err)
	require.Len(t, hours, 2)

	tests := []struct {
		name  string
		hours []models.PractitionerHours
		code  string
	}{
		{"weekday out of range", []models.PractitionerHours{{Weekday: 7}}, "invalid_weekday"},
		{"duplicate weekday", []models.PractitionerHours{{Weekday: 2}, {Weekday: 2}}, "invalid_weekday"},
		{"end before start", []models.PractitionerHours{{Weekday: 2, StartTime: "17:00", EndTime: "08:00", Active: true}}, "invalid_working_hours"},
		{"break outside day", []models.PractitionerHours{{Weekday: 2, StartTime: "08:00", EndTime: "12:00", BreakStart: "11:30", BreakEnd: "12:30", Active: true}}, "invalid_break"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.App.Registry.ReplaceWorkingHours(ctx, userID, tt.hours)
			assert.Equal(t, tt.code, httperr.CodeOf(err))
		})
	}

	_, err = f.App.Registry.GetWorkingHours(ctx, 404)
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}
