package models

import "time"

type Practitioner struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	Name            string  `gorm:"size:100;not null" json:"name"`
	LicenseNumber   string  `gorm:"size:100" json:"license_number"`
	Specialization  string  `gorm:"size:200" json:"specialization"`
	ExperienceYears int     `json:"experience_years"`
	ConsultationFee float64 `gorm:"type:numeric(10,2)" json:"consultation_fee"`
	IsAvailable     bool    `gorm:"default:true" json:"is_available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PractitionerHours is one weekday of a practitioner's roster. Times are
// "15:04" in the clinic timezone.
type PractitionerHours struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	PractitionerID uint `gorm:"index:idx_hours_practitioner_weekday,unique" json:"practitioner_id"`

	Weekday int `gorm:"index:idx_hours_practitioner_weekday,unique" json:"weekday"`

	StartTime  string `gorm:"size:5" json:"start_time"`
	EndTime    string `gorm:"size:5" json:"end_time"`
	BreakStart string `gorm:"size:5" json:"break_start"`
	BreakEnd   string `gorm:"size:5" json:"break_end"`
	Active     bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
