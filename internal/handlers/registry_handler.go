package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/registry"
)

// RegistryHandler serves the admin-only catalogue endpoints.
type RegistryHandler struct {
	registry *registry.Registry
}

func NewRegistryHandler(r *registry.Registry) *RegistryHandler {
	return &RegistryHandler{registry: r}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func (h *RegistryHandler) CreatePatient(c *gin.Context) {
	var req dto.CreatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	p := &models.Patient{
		UserID:                req.UserID,
		Name:                  req.Name,
		MedicalHistory:        req.MedicalHistory,
		Allergies:             req.Allergies,
		CurrentMedications:    req.CurrentMedications,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
	}
	if err := h.registry.CreatePatient(c.Request.Context(), p); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, p)
}

func (h *RegistryHandler) CreatePractitioner(c *gin.Context) {
	var req dto.CreatePractitionerRequest
	if !bindJSON(c, &req) {
		return
	}

	p := &models.Practitioner{
		UserID:          req.UserID,
		Name:            req.Name,
		LicenseNumber:   req.LicenseNumber,
		Specialization:  req.Specialization,
		ExperienceYears: req.ExperienceYears,
		ConsultationFee: req.ConsultationFee,
		IsAvailable:     boolOr(req.IsAvailable, true),
	}
	if err := h.registry.CreatePractitioner(c.Request.Context(), p); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, p)
}

func (h *RegistryHandler) SetAvailability(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.AvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.registry.SetAvailability(c.Request.Context(), id, *req.IsAvailable)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, p)
}

func (h *RegistryHandler) CreateTreatment(c *gin.Context) {
	var req dto.CreateTreatmentRequest
	if !bindJSON(c, &req) {
		return
	}

	t := &models.TreatmentType{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		IsActive:        boolOr(req.IsActive, true),
	}
	if err := h.registry.CreateTreatment(c.Request.Context(), t); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, t)
}

func (h *RegistryHandler) CreateTreatmentProgram(c *gin.Context) {
	var req dto.CreateTreatmentProgramRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.registry.CreateTreatmentProgram(c.Request.Context(), registry.TreatmentProgramInput{
		Name:          req.Name,
		Description:   req.Description,
		TotalSessions: req.TotalSessions,
		DurationWeeks: req.DurationWeeks,
		TotalPrice:    req.TotalPrice,
		TreatmentIDs:  req.TreatmentIDs,
		IsActive:      req.IsActive,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, p)
}

func (h *RegistryHandler) UpdateTreatmentProgram(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTreatmentProgramRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.registry.UpdateTreatmentProgram(c.Request.Context(), id, registry.TreatmentProgramPatch{
		Name:          req.Name,
		Description:   req.Description,
		TotalSessions: req.TotalSessions,
		DurationWeeks: req.DurationWeeks,
		TotalPrice:    req.TotalPrice,
		IsActive:      req.IsActive,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, p)
}
