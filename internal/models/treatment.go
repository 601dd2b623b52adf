package models

import "time"

type TreatmentType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name            string  `gorm:"size:100;not null" json:"name"`
	Description     string  `gorm:"type:text" json:"description"`
	DurationMinutes int     `gorm:"not null" json:"duration_minutes"`
	Price           float64 `gorm:"type:numeric(10,2);not null" json:"price"`
	IsActive        bool    `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
}

// TreatmentProgram is the template a PatientProgram enrolls into.
type TreatmentProgram struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name          string  `gorm:"size:200;not null" json:"name"`
	Description   string  `gorm:"type:text" json:"description"`
	TotalSessions int     `gorm:"not null" json:"total_sessions"`
	DurationWeeks int     `gorm:"not null" json:"duration_weeks"`
	TotalPrice    float64 `gorm:"type:numeric(10,2);not null" json:"total_price"`
	IsActive      bool    `gorm:"default:true" json:"is_active"`

	Treatments []ProgramTreatment `gorm:"foreignKey:ProgramID" json:"treatments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type ProgramTreatment struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	ProgramID    uint `gorm:"index;not null" json:"program_id"`
	TreatmentID  uint `gorm:"not null" json:"treatment_id"`
	SessionOrder int  `gorm:"not null" json:"session_order"`
}
