package models

import "time"

type Patient struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	Name                  string `gorm:"size:100;not null" json:"name"`
	MedicalHistory        string `gorm:"type:text" json:"medical_history"`
	Allergies             string `gorm:"type:text" json:"allergies"`
	CurrentMedications    string `gorm:"type:text" json:"current_medications"`
	EmergencyContactName  string `gorm:"size:100" json:"emergency_contact_name"`
	EmergencyContactPhone string `gorm:"size:20" json:"emergency_contact_phone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
