package dto

import "time"

type BookSessionRequest struct {
	PatientID        uint  `json:"patient_id" binding:"required"`
	PractitionerID   uint  `json:"practitioner_id" binding:"required"`
	TreatmentID      uint  `json:"treatment_id" binding:"required"`
	PatientProgramID *uint `json:"patient_program_id"`

	Date            string `json:"date" binding:"required,isodate"`
	Time            string `json:"time" binding:"required,hhmm"`
	DurationMinutes int    `json:"duration_minutes" binding:"gt=0,lte=1440"`

	Notes                   string `json:"notes"`
	PreparationInstructions string `json:"preparation_instructions"`
}

type TransitionRequest struct {
	Status           string `json:"status" binding:"required"`
	PostSessionNotes string `json:"post_session_notes"`
	Rating           *int   `json:"rating"`
	Feedback         string `json:"feedback"`
}

type SessionNoteRequest struct {
	Notes string `json:"notes" binding:"required"`
}

type RescheduleRequest struct {
	NewDate string `json:"new_date" binding:"required,isodate"`
	NewTime string `json:"new_time" binding:"required,hhmm"`
	Reason  string `json:"reason"`
}

type ResolveRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
}

// SessionListDTO is the compact row of the day view.
type SessionListDTO struct {
	ID               uint      `json:"id"`
	PatientID        uint      `json:"patient_id"`
	TreatmentID      uint      `json:"treatment_id"`
	PatientProgramID *uint     `json:"patient_program_id,omitempty"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Status           string    `json:"status"`
}
