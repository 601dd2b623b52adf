package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type SchedulingGormRepository struct {
	db *gorm.DB
}

func NewSchedulingGormRepository(db *gorm.DB) *SchedulingGormRepository {
	return &SchedulingGormRepository{db: db}
}

// --------------------------------------------------
// Transactions / locking
// --------------------------------------------------

func (r *SchedulingGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SchedulingGormRepository{db: tx})
	})
	return httperr.ErrInternal("transaction_failed", err)
}

// LockPractitionerDays takes a transaction scoped advisory lock per
// (practitioner, day). Days must be ascending so concurrent lockers agree on order.
func (r *SchedulingGormRepository) LockPractitionerDays(
	ctx context.Context,
	practitionerID uint,
	days []time.Time,
) error {

	for _, day := range days {
		if err := r.db.WithContext(ctx).
			Exec(
				"SELECT pg_advisory_xact_lock(?::int4, ?::int4)",
				int32(practitionerID),
				domain.DayNumber(day),
			).Error; err != nil {
			return httperr.ErrInternal("slot_lock_failed", err)
		}
	}
	return nil
}

// --------------------------------------------------
// Patient / Practitioner
// --------------------------------------------------

func (r *SchedulingGormRepository) CreatePatient(ctx context.Context, p *models.Patient) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return writeErr(err, "patient_create")
	}
	return nil
}

func (r *SchedulingGormRepository) GetPatient(ctx context.Context, id uint) (*models.Patient, error) {
	var p models.Patient
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, lookupErr(err, "patient")
	}
	return &p, nil
}

func (r *SchedulingGormRepository) CreatePractitioner(ctx context.Context, p *models.Practitioner) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return writeErr(err, "practitioner_create")
	}
	return nil
}

func (r *SchedulingGormRepository) GetPractitioner(ctx context.Context, id uint) (*models.Practitioner, error) {
	var p models.Practitioner
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, lookupErr(err, "practitioner")
	}
	return &p, nil
}

func (r *SchedulingGormRepository) GetPractitionerByUserID(ctx context.Context, userID uint) (*models.Practitioner, error) {
	var p models.Practitioner
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&p).Error; err != nil {
		return nil, lookupErr(err, "practitioner")
	}
	return &p, nil
}

func (r *SchedulingGormRepository) UpdatePractitioner(ctx context.Context, p *models.Practitioner) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return writeErr(err, "practitioner_update")
	}
	return nil
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (r *SchedulingGormRepository) ListPractitionerHours(
	ctx context.Context,
	practitionerID uint,
) ([]models.PractitionerHours, error) {

	var hours []models.PractitionerHours
	if err := r.db.WithContext(ctx).
		Where("practitioner_id = ?", practitionerID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {
		return nil, httperr.ErrInternal("hours_list_failed", err)
	}
	return hours, nil
}

func (r *SchedulingGormRepository) GetPractitionerHours(
	ctx context.Context,
	practitionerID uint,
	weekday int,
) (*models.PractitionerHours, error) {

	var wh models.PractitionerHours
	if err := r.db.WithContext(ctx).
		Where("practitioner_id = ? AND weekday = ?", practitionerID, weekday).
		First(&wh).Error; err != nil {
		return nil, lookupErr(err, "hours")
	}
	return &wh, nil
}

func (r *SchedulingGormRepository) ReplacePractitionerHours(
	ctx context.Context,
	practitionerID uint,
	hours []models.PractitionerHours,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("practitioner_id = ?", practitionerID).
			Delete(&models.PractitionerHours{}).Error; err != nil {
			return httperr.ErrInternal("hours_clear_failed", err)
		}

		if len(hours) == 0 {
			return nil
		}

		for i := range hours {
			hours[i].ID = 0
			hours[i].PractitionerID = practitionerID
		}

		if err := tx.Create(&hours).Error; err != nil {
			return writeErr(err, "hours_create")
		}
		return nil
	})
}

// --------------------------------------------------
// Treatments / Programs
// --------------------------------------------------

func (r *SchedulingGormRepository) CreateTreatment(ctx context.Context, t *models.TreatmentType) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return writeErr(err, "treatment_create")
	}
	return nil
}

func (r *SchedulingGormRepository) GetTreatment(ctx context.Context, id uint) (*models.TreatmentType, error) {
	var t models.TreatmentType
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, lookupErr(err, "treatment")
	}
	return &t, nil
}

func (r *SchedulingGormRepository) CreateTreatmentProgram(ctx context.Context, p *models.TreatmentProgram) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return writeErr(err, "treatment_program_create")
	}
	return nil
}

func (r *SchedulingGormRepository) GetTreatmentProgram(ctx context.Context, id uint) (*models.TreatmentProgram, error) {
	var p models.TreatmentProgram
	if err := r.db.WithContext(ctx).
		Preload("Treatments", func(db *gorm.DB) *gorm.DB {
			return db.Order("session_order ASC")
		}).
		First(&p, id).Error; err != nil {
		return nil, lookupErr(err, "treatment_program")
	}
	return &p, nil
}

func (r *SchedulingGormRepository) UpdateTreatmentProgram(ctx context.Context, p *models.TreatmentProgram) error {
	if err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(p).Error; err != nil {
		return writeErr(err, "treatment_program_update")
	}
	return nil
}

func (r *SchedulingGormRepository) CountSessionsForTreatmentProgram(
	ctx context.Context,
	treatmentProgramID uint,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Joins("JOIN patient_programs ON patient_programs.id = sessions.patient_program_id").
		Where("patient_programs.treatment_program_id = ?", treatmentProgramID).
		Count(&count).Error; err != nil {
		return 0, httperr.ErrInternal("session_count_failed", err)
	}
	return count, nil
}

// --------------------------------------------------
// PatientProgram
// --------------------------------------------------

func (r *SchedulingGormRepository) CreatePatientProgram(ctx context.Context, pp *models.PatientProgram) error {
	if err := r.db.WithContext(ctx).Create(pp).Error; err != nil {
		return writeErr(err, "patient_program_create")
	}
	return nil
}

func (r *SchedulingGormRepository) GetPatientProgram(ctx context.Context, id uint) (*models.PatientProgram, error) {
	var pp models.PatientProgram
	if err := r.db.WithContext(ctx).First(&pp, id).Error; err != nil {
		return nil, lookupErr(err, "patient_program")
	}
	return &pp, nil
}

func (r *SchedulingGormRepository) GetPatientProgramForUpdate(ctx context.Context, id uint) (*models.PatientProgram, error) {
	var pp models.PatientProgram
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&pp, id).Error; err != nil {
		return nil, lookupErr(err, "patient_program")
	}
	return &pp, nil
}

func (r *SchedulingGormRepository) UpdatePatientProgram(ctx context.Context, pp *models.PatientProgram) error {
	if err := r.db.WithContext(ctx).Save(pp).Error; err != nil {
		return writeErr(err, "patient_program_update")
	}
	return nil
}

func (r *SchedulingGormRepository) CountProgramSessions(
	ctx context.Context,
	patientProgramID uint,
) (int64, int64, error) {

	var total, completed int64

	if err := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("patient_program_id = ?", patientProgramID).
		Count(&total).Error; err != nil {
		return 0, 0, httperr.ErrInternal("session_count_failed", err)
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("patient_program_id = ? AND status = ?", patientProgramID, string(domain.StatusCompleted)).
		Count(&completed).Error; err != nil {
		return 0, 0, httperr.ErrInternal("session_count_failed", err)
	}

	return completed, total, nil
}

// --------------------------------------------------
// Session
// --------------------------------------------------

func (r *SchedulingGormRepository) CreateSession(ctx context.Context, s *models.Session) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return writeErr(err, "session_create")
	}
	return nil
}

func (r *SchedulingGormRepository) GetSession(ctx context.Context, id uint) (*models.Session, error) {
	var s models.Session
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, lookupErr(err, "session")
	}
	return &s, nil
}

func (r *SchedulingGormRepository) GetSessionForUpdate(ctx context.Context, id uint) (*models.Session, error) {
	var s models.Session
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&s, id).Error; err != nil {
		return nil, lookupErr(err, "session")
	}
	return &s, nil
}

func (r *SchedulingGormRepository) UpdateSession(ctx context.Context, s *models.Session) error {
	if err := r.db.WithContext(ctx).Save(s).Error; err != nil {
		return writeErr(err, "session_update")
	}
	return nil
}

func (r *SchedulingGormRepository) ListActiveSessionsOverlapping(
	ctx context.Context,
	practitionerID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) ([]models.Session, error) {

	q := r.db.WithContext(ctx).
		Where(
			"practitioner_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			practitionerID,
			domain.ActiveStatusStrings(),
			end,
			start,
		)

	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var sessions []models.Session
	if err := q.Order("start_time ASC").Find(&sessions).Error; err != nil {
		return nil, httperr.ErrInternal("session_overlap_query_failed", err)
	}
	return sessions, nil
}

func (r *SchedulingGormRepository) ListSessionsForPeriod(
	ctx context.Context,
	practitionerID uint,
	start time.Time,
	end time.Time,
) ([]models.Session, error) {

	var sessions []models.Session
	if err := r.db.WithContext(ctx).
		Where(
			"practitioner_id = ? AND start_time >= ? AND start_time < ?",
			practitionerID,
			start,
			end,
		).
		Order("start_time ASC").
		Find(&sessions).Error; err != nil {
		return nil, httperr.ErrInternal("session_list_failed", err)
	}
	return sessions, nil
}

func (r *SchedulingGormRepository) ListOverdueSessions(
	ctx context.Context,
	endedBefore time.Time,
	afterID uint,
	limit int,
) ([]models.Session, error) {

	var sessions []models.Session
	if err := r.db.WithContext(ctx).
		Where(
			"status IN ? AND end_time < ? AND id > ?",
			[]string{string(domain.StatusScheduled), string(domain.StatusConfirmed)},
			endedBefore,
			afterID,
		).
		Order("id ASC").
		Limit(limit).
		Find(&sessions).Error; err != nil {
		return nil, httperr.ErrInternal("session_overdue_query_failed", err)
	}
	return sessions, nil
}

// --------------------------------------------------
// Reschedule
// --------------------------------------------------

func (r *SchedulingGormRepository) CreateReschedule(ctx context.Context, rs *models.SessionReschedule) error {
	if err := r.db.WithContext(ctx).Create(rs).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return httperr.ErrConflict("reschedule_already_pending")
		}
		return writeErr(err, "reschedule_create")
	}
	return nil
}

func (r *SchedulingGormRepository) GetReschedule(ctx context.Context, id uint) (*models.SessionReschedule, error) {
	var rs models.SessionReschedule
	if err := r.db.WithContext(ctx).First(&rs, id).Error; err != nil {
		return nil, lookupErr(err, "reschedule")
	}
	return &rs, nil
}

func (r *SchedulingGormRepository) GetRescheduleForUpdate(ctx context.Context, id uint) (*models.SessionReschedule, error) {
	var rs models.SessionReschedule
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rs, id).Error; err != nil {
		return nil, lookupErr(err, "reschedule")
	}
	return &rs, nil
}

func (r *SchedulingGormRepository) UpdateReschedule(ctx context.Context, rs *models.SessionReschedule) error {
	if err := r.db.WithContext(ctx).Save(rs).Error; err != nil {
		return writeErr(err, "reschedule_update")
	}
	return nil
}

func (r *SchedulingGormRepository) HasPendingReschedule(ctx context.Context, sessionID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SessionReschedule{}).
		Where("session_id = ? AND status = ?", sessionID, string(domain.ReschedulePending)).
		Count(&count).Error; err != nil {
		return false, httperr.ErrInternal("reschedule_lookup_failed", err)
	}
	return count > 0, nil
}

func (r *SchedulingGormRepository) GetPendingRescheduleForUpdate(
	ctx context.Context,
	sessionID uint,
) (*models.SessionReschedule, error) {

	var rs models.SessionReschedule
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("session_id = ? AND status = ?", sessionID, string(domain.ReschedulePending)).
		First(&rs).Error; err != nil {
		return nil, lookupErr(err, "reschedule")
	}
	return &rs, nil
}

// Compile-time check
var _ domain.Repository = (*SchedulingGormRepository)(nil)
