package dto

type EnrollRequest struct {
	PatientID          uint   `json:"patient_id" binding:"required"`
	TreatmentProgramID uint   `json:"treatment_program_id" binding:"required"`
	PractitionerID     uint   `json:"practitioner_id" binding:"required"`
	StartDate          string `json:"start_date" binding:"required,isodate"`
	Notes              string `json:"notes"`
}

type ProgramStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CreatePatientRequest struct {
	UserID                uint   `json:"user_id" binding:"required"`
	Name                  string `json:"name" binding:"required"`
	MedicalHistory        string `json:"medical_history"`
	Allergies             string `json:"allergies"`
	CurrentMedications    string `json:"current_medications"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`
}

type CreatePractitionerRequest struct {
	UserID          uint    `json:"user_id" binding:"required"`
	Name            string  `json:"name" binding:"required"`
	LicenseNumber   string  `json:"license_number"`
	Specialization  string  `json:"specialization"`
	ExperienceYears int     `json:"experience_years" binding:"min=0"`
	ConsultationFee float64 `json:"consultation_fee" binding:"min=0"`
	IsAvailable     *bool   `json:"is_available"`
}

type AvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

type CreateTreatmentRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,gt=0,lte=1440"`
	Price           float64 `json:"price" binding:"min=0"`
	IsActive        *bool   `json:"is_active"`
}

type CreateTreatmentProgramRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	TotalSessions int     `json:"total_sessions" binding:"required,gt=0"`
	DurationWeeks int     `json:"duration_weeks" binding:"required,gt=0"`
	TotalPrice    float64 `json:"total_price" binding:"min=0"`
	TreatmentIDs  []uint  `json:"treatment_ids"`
	IsActive      *bool   `json:"is_active"`
}

type UpdateTreatmentProgramRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	TotalSessions *int     `json:"total_sessions"`
	DurationWeeks *int     `json:"duration_weeks"`
	TotalPrice    *float64 `json:"total_price"`
	IsActive      *bool    `json:"is_active"`
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	BreakStart string `json:"break_start"`
	BreakEnd   string `json:"break_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}
