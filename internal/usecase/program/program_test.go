package program_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/testutil"
	ucProgram "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/program"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/registry"
)

func bookLinked(t *testing.T, f *testutil.Fixture, pp *models.PatientProgram, hm string) *models.Session {
	t.Helper()
	in := f.BookInput(hm, 60)
	in.PatientProgramID = &pp.ID
	return f.MustBook(t, in)
}

func TestProgress_HalfDoneStaysActive(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()
	pp := f.Enroll(t)

	s1 := bookLinked(t, f, pp, "08:00")
	s2 := bookLinked(t, f, pp, "09:00")
	s3 := bookLinked(t, f, pp, "10:00")
	bookLinked(t, f, pp, "11:00")

	f.Complete(t, s1.ID)
	f.Complete(t, s2.ID)
	f.Walk(t, s3.ID, domain.StatusCancelled)

	got, err := f.Store.GetPatientProgram(ctx, pp.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, got.ProgressPercentage)
	assert.Equal(t, string(domain.ProgramActive), got.Status)
	assert.Nil(t, got.CompletedAt)

	view, err := f.App.GetProgress.Execute(ctx, pp.ID, f.PatientActor)
	require.NoError(t, err)
	assert.Equal(t, int64(2), view.CompletedSessions)
	assert.Equal(t, int64(4), view.TotalSessions)
	assert.Equal(t, 50.0, view.ProgressPercentage)
}

func TestProgress_ThirdsRoundToTwoDecimals(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()
	pp := f.Enroll(t)

	s1 := bookLinked(t, f, pp, "08:00")
	bookLinked(t, f, pp, "09:00")
	bookLinked(t, f, pp, "10:00")

	f.Complete(t, s1.ID)

	got, err := f.Store.GetPatientProgram(ctx, pp.ID)
	require.NoError(t, err)
	assert.Equal(t, 33.33, got.ProgressPercentage)
}

func TestProgress_AllCompletedClosesProgram(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()
	pp := f.Enroll(t)

	s1 := bookLinked(t, f, pp, "08:00")
	s2 := bookLinked(t, f, pp, "09:00")
	f.Complete(t, s1.ID)
	f.Complete(t, s2.ID)

	got, err := f.Store.GetPatientProgram(ctx, pp.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.ProgressPercentage)
	assert.Equal(t, string(domain.ProgramCompleted), got.Status)
	assert.NotNil(t, got.CompletedAt)
}

func TestProgress_CancelledProgramKeepsStatus(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()
	pp := f.Enroll(t)

	s1 := bookLinked(t, f, pp, "08:00")
	f.Walk(t, s1.ID, domain.StatusConfirmed, domain.StatusInProgress)

	_, err := f.App.ChangeStatus.Execute(ctx, pp.ID, string(domain.ProgramCancelled), f.PatientActor)
	require.NoError(t, err)

	f.Walk(t, s1.ID, domain.StatusCompleted)

	got, err := f.App.RecomputeProgress.Execute(ctx, pp.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.ProgressPercentage)
	assert.Equal(t, string(domain.ProgramCancelled), got.Status)
}

func TestProgress_EmptyProgramIsZero(t *testing.T) {
	f := testutil.NewFixture(t)
	pp := f.Enroll(t)

	got, err := f.App.RecomputeProgress.Execute(context.Background(), pp.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.ProgressPercentage)
	assert.Equal(t, string(domain.ProgramActive), got.Status)
}

func TestEnroll(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()

	in := ucProgram.EnrollInput{
		PatientID:          f.Patient.ID,
		TreatmentProgramID: f.Template.ID,
		PractitionerID:     f.Practitioner.ID,
		StartDate:          "2024-06-03",
		Actor:              f.PractitionerActor,
	}

	pp, err := f.App.Enroll.Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, string(domain.ProgramActive), pp.Status)
	assert.Equal(t, 0.0, pp.ProgressPercentage)
	require.NotNil(t, pp.EndDate)
	assert.Equal(t, "2024-07-01", pp.EndDate.Format(domain.DateLayout))

	patientIn := in
	patientIn.Actor = f.PatientActor
	_, err = f.App.Enroll.Execute(ctx, patientIn)
	assert.True(t, httperr.IsKind(err, httperr.KindAuthorization))

	inactive := false
	_, err = f.App.Registry.UpdateTreatmentProgram(ctx, f.Template.ID, registry.TreatmentProgramPatch{IsActive: &inactive})
	require.NoError(t, err)

	_, err = f.App.Enroll.Execute(ctx, in)
	assert.Equal(t, "treatment_program_inactive", httperr.CodeOf(err))
}

func TestChangeStatus(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()
	pp := f.Enroll(t)

	_, err := f.App.ChangeStatus.Execute(ctx, pp.ID, string(domain.ProgramPaused), f.PatientActor)
	assert.True(t, httperr.IsKind(err, httperr.KindAuthorization))

	_, err = f.App.ChangeStatus.Execute(ctx, pp.ID, string(domain.ProgramPaused), f.OtherPatientActor)
	assert.True(t, httperr.IsKind(err, httperr.KindAuthorization))

	got, err := f.App.ChangeStatus.Execute(ctx, pp.ID, string(domain.ProgramPaused), f.PractitionerActor)
	require.NoError(t, err)
	assert.Equal(t, string(domain.ProgramPaused), got.Status)

	_, err = f.App.ChangeStatus.Execute(ctx, pp.ID, string(domain.ProgramCompleted), f.PractitionerActor)
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition))

	_, err = f.App.ChangeStatus.Execute(ctx, pp.ID, string(domain.ProgramActive), f.AdminActor)
	require.NoError(t, err)

	got, err = f.App.ChangeStatus.Execute(ctx, pp.ID, string(domain.ProgramCompleted), f.AdminActor)
	require.NoError(t, err)
	assert.NotNil(t, got.CompletedAt)

	_, err = f.App.ChangeStatus.Execute(ctx, pp.ID, string(domain.ProgramActive), f.AdminActor)
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition))

	_, err = f.App.ChangeStatus.Execute(ctx, pp.ID, "archived", f.AdminActor)
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))
}

func TestGetProgress_Authorization(t *testing.T) {
	f := testutil.NewFixture(t)
	pp := f.Enroll(t)

	_, err := f.App.GetProgress.Execute(context.Background(), pp.ID, f.OtherPatientActor)
	assert.True(t, httperr.IsKind(err, httperr.KindAuthorization))

	_, err = f.App.GetProgress.Execute(context.Background(), 404, f.AdminActor)
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}
