package models

import "time"

type PatientProgram struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PatientID          uint `gorm:"index;not null" json:"patient_id"`
	TreatmentProgramID uint `gorm:"index;not null" json:"treatment_program_id"`
	PractitionerID     uint `gorm:"index;not null" json:"practitioner_id"`

	StartDate time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date"`

	Status             string  `gorm:"size:20;default:'active'" json:"status"`
	ProgressPercentage float64 `gorm:"type:numeric(5,2);default:0" json:"progress_percentage"`
	Notes              string  `gorm:"type:text" json:"notes"`

	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
