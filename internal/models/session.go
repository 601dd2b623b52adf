package models

import "time"

type Session struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PatientID        uint  `gorm:"index;not null" json:"patient_id"`
	PractitionerID   uint  `gorm:"index:idx_sessions_practitioner_start;not null" json:"practitioner_id"`
	TreatmentID      uint  `gorm:"not null" json:"treatment_id"`
	PatientProgramID *uint `gorm:"index" json:"patient_program_id"`

	ScheduledDate   time.Time `gorm:"type:date;not null" json:"scheduled_date"`
	ScheduledTime   string    `gorm:"size:5;not null" json:"scheduled_time"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`

	// Derived from date, time and duration; the half-open interval used for
	// conflict checks.
	StartTime time.Time `gorm:"index:idx_sessions_practitioner_start;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status string `gorm:"size:20;default:'scheduled';index" json:"status"`

	Notes                   string `gorm:"type:text" json:"notes"`
	PreparationInstructions string `gorm:"type:text" json:"preparation_instructions"`
	PostSessionNotes        string `gorm:"type:text" json:"post_session_notes"`
	Rating                  *int   `json:"rating"`
	Feedback                string `gorm:"type:text" json:"feedback"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SessionReschedule struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	SessionID uint `gorm:"index;not null" json:"session_id"`

	OriginalDate    time.Time `gorm:"type:date;not null" json:"original_date"`
	OriginalTime    string    `gorm:"size:5;not null" json:"original_time"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	NewDate         time.Time `gorm:"type:date;not null" json:"new_date"`
	NewTime         string    `gorm:"size:5;not null" json:"new_time"`

	Reason      string     `gorm:"type:text" json:"reason"`
	RequestedBy uint       `gorm:"not null" json:"requested_by"`
	Status      string     `gorm:"size:20;default:'pending'" json:"status"`
	ApprovedBy  *uint      `json:"approved_by"`
	ResolvedAt  *time.Time `json:"resolved_at"`

	CreatedAt time.Time `json:"created_at"`
}

// SessionActivity is the append-only trail of what happened to a session.
type SessionActivity struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	SessionID uint   `gorm:"index;not null" json:"session_id"`
	ActorID   uint   `json:"actor_id"`
	Activity  string `gorm:"size:50;not null" json:"activity"`
	Notes     string `gorm:"type:text" json:"notes"`
	Metadata  string `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `json:"created_at"`
}
