package repository_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	ucSession "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/session"
)

const lockSQL = "SELECT pg_advisory_xact_lock($1::int4, $2::int4)"

var overlapSQL = `SELECT \* FROM "sessions" WHERE .*practitioner_id = \$1 AND status IN \(\$2,\$3,\$4\) AND start_time < \$5 AND end_time > \$6.* ORDER BY start_time ASC`

func setupMockRepo(t *testing.T) (*repository.SchedulingGormRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return repository.NewSchedulingGormRepository(db), mock
}

// overlapArgs is the bind order of the overlap query: end before start.
func overlapArgs(practitionerID uint, iv domain.Interval) []driver.Value {
	args := []driver.Value{practitionerID}
	for _, st := range domain.ActiveStatusStrings() {
		args = append(args, st)
	}
	return append(args, iv.End, iv.Start)
}

func TestReserve_LocksEachDayAscendingBeforeOverlapQuery(t *testing.T) {
	repo, mock := setupMockRepo(t)
	ctx := context.Background()

	// 23:30 to 00:30 touches two calendar days.
	start := time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC)
	iv := domain.NewInterval(start, 60)
	day := domain.DayNumber(start)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockSQL)).
		WithArgs(int32(7), day).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(lockSQL)).
		WithArgs(int32(7), day+1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(overlapSQL).
		WithArgs(overlapArgs(7, iv)...).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	err := repo.Transaction(ctx, func(tx domain.Repository) error {
		return ucSession.Reserve(ctx, tx, 7, iv, 0)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_TakenSlotRollsBackWithConflict(t *testing.T) {
	repo, mock := setupMockRepo(t)
	ctx := context.Background()

	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	iv := domain.NewInterval(start, 60)

	rows := sqlmock.NewRows([]string{"id", "practitioner_id", "start_time", "end_time", "status"}).
		AddRow(3, 7, start.Add(30*time.Minute), start.Add(90*time.Minute), "scheduled")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockSQL)).
		WithArgs(int32(7), domain.DayNumber(start)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(overlapSQL).WillReturnRows(rows)
	mock.ExpectRollback()

	err := repo.Transaction(ctx, func(tx domain.Repository) error {
		return ucSession.Reserve(ctx, tx, 7, iv, 0)
	})
	assert.True(t, httperr.IsKind(err, httperr.KindConflict))
	assert.Equal(t, "time_conflict", httperr.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveSessionsOverlapping_ExcludesMovedSession(t *testing.T) {
	repo, mock := setupMockRepo(t)

	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	mock.ExpectQuery(`start_time < \$5 AND end_time > \$6.*id <> \$7`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.ListActiveSessionsOverlapping(context.Background(), 7, start, end, 42)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSession_ExclusionViolationIsConflict(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectQuery(`INSERT INTO "sessions"`).
		WillReturnError(&pgconn.PgError{Code: "23P01"})

	err := repo.CreateSession(context.Background(), &models.Session{
		PatientID:       1,
		PractitionerID:  7,
		TreatmentID:     1,
		DurationMinutes: 60,
		Status:          string(domain.StatusScheduled),
	})
	assert.True(t, httperr.IsKind(err, httperr.KindConflict))
	assert.Equal(t, "time_conflict", httperr.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReschedule_UniqueViolationIsAlreadyPending(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectQuery(`INSERT INTO "session_reschedules"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.CreateReschedule(context.Background(), &models.SessionReschedule{
		SessionID: 5,
		Status:    string(domain.ReschedulePending),
	})
	assert.True(t, httperr.IsKind(err, httperr.KindConflict))
	assert.Equal(t, "reschedule_already_pending", httperr.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteErrors(t *testing.T) {
	repo, mock := setupMockRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(`INSERT INTO "patients"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	err := repo.CreatePatient(ctx, &models.Patient{UserID: 1, Name: "Ana"})
	assert.Equal(t, "patient_create_duplicate", httperr.CodeOf(err))

	boom := errors.New("connection reset")
	mock.ExpectQuery(`INSERT INTO "patients"`).WillReturnError(boom)
	err = repo.CreatePatient(ctx, &models.Patient{UserID: 2, Name: "Bia"})
	assert.True(t, httperr.IsKind(err, httperr.KindInternal))
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestForUpdateReads(t *testing.T) {
	repo, mock := setupMockRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT \* FROM "sessions" WHERE "sessions"."id" = \$1 .*FOR UPDATE`).
		WithArgs(9, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err := repo.GetSessionForUpdate(ctx, 9)
	assert.Equal(t, "session_not_found", httperr.CodeOf(err))

	mock.ExpectQuery(`SELECT \* FROM "session_reschedules" WHERE session_id = \$1 AND status = \$2 .*FOR UPDATE`).
		WithArgs(9, "pending", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "status"}).AddRow(4, 9, "pending"))
	rs, err := repo.GetPendingRescheduleForUpdate(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, uint(4), rs.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOverdueSessions_PagesById(t *testing.T) {
	repo, mock := setupMockRepo(t)

	cutoff := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`WHERE status IN \(\$1,\$2\) AND end_time < \$3 AND id > \$4 ORDER BY id ASC LIMIT \$5`).
		WithArgs("scheduled", "confirmed", cutoff, 40, 100).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(41).AddRow(57))

	got, err := repo.ListOverdueSessions(context.Background(), cutoff, 40, 100)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint(41), got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
