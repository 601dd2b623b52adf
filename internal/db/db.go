package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.IsDev() {
		level = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

// constraints back the application-level checks: active sessions of one
// practitioner never overlap and a session has at most one pending request.
var constraints = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`DO $$
BEGIN
	ALTER TABLE sessions
		ADD CONSTRAINT sessions_no_overlap
		EXCLUDE USING gist (
			practitioner_id WITH =,
			tstzrange(start_time, end_time, '[)') WITH &&
		)
		WHERE (status IN ('scheduled', 'confirmed', 'in_progress'));
EXCEPTION
	WHEN duplicate_object OR duplicate_table THEN NULL;
END $$`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_pending_reschedule
		ON session_reschedules (session_id)
		WHERE status = 'pending'`,
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Patient{},
		&models.Practitioner{},
		&models.PractitionerHours{},
		&models.TreatmentType{},
		&models.TreatmentProgram{},
		&models.ProgramTreatment{},
		&models.PatientProgram{},
		&models.Session{},
		&models.SessionReschedule{},
		&models.SessionActivity{},
		&models.Notification{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	for _, stmt := range constraints {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to apply constraint: %w", err)
		}
	}

	log.Info().Msg("database migrated")
	return nil
}
