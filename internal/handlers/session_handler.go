package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	ucSession "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/session"
)

// ======================================================
// HANDLER
// ======================================================

type SessionHandler struct {
	book       *ucSession.Book
	transition *ucSession.Transition
	get        *ucSession.Get
	listDay    *ucSession.ListDay
	freeSlots  *ucSession.ListFreeSlots
}

func NewSessionHandler(
	book *ucSession.Book,
	transition *ucSession.Transition,
	get *ucSession.Get,
	listDay *ucSession.ListDay,
	freeSlots *ucSession.ListFreeSlots,
) *SessionHandler {
	return &SessionHandler{
		book:       book,
		transition: transition,
		get:        get,
		listDay:    listDay,
		freeSlots:  freeSlots,
	}
}

// ======================================================
// BOOK
// ======================================================

func (h *SessionHandler) Book(c *gin.Context) {
	var req dto.BookSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.book.Execute(c.Request.Context(), ucSession.BookInput{
		PatientID:               req.PatientID,
		PractitionerID:          req.PractitionerID,
		TreatmentID:             req.TreatmentID,
		PatientProgramID:        req.PatientProgramID,
		Date:                    req.Date,
		Time:                    req.Time,
		DurationMinutes:         req.DurationMinutes,
		Notes:                   req.Notes,
		PreparationInstructions: req.PreparationInstructions,
		Actor:                   middleware.ActorFrom(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, s)
}

// ======================================================
// READ
// ======================================================

func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	s, err := h.get.Execute(c.Request.Context(), id, middleware.ActorFrom(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, s)
}

// ListDay answers GET /api/sessions?practitioner_id=&date=.
func (h *SessionHandler) ListDay(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if actor.Role == domain.RolePatient {
		httperr.Forbidden(c, "forbidden", "Not allowed.")
		return
	}

	practitionerID, err := strconv.ParseUint(c.Query("practitioner_id"), 10, 64)
	if err != nil || practitionerID == 0 {
		httperr.BadRequest(c, "invalid_practitioner_id", "practitioner_id is required.")
		return
	}

	sessions, err := h.listDay.Execute(c.Request.Context(), uint(practitionerID), c.Query("date"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, toSessionList(sessions))
}

func toSessionList(sessions []models.Session) []dto.SessionListDTO {
	out := make([]dto.SessionListDTO, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, dto.SessionListDTO{
			ID:               s.ID,
			PatientID:        s.PatientID,
			TreatmentID:      s.TreatmentID,
			PatientProgramID: s.PatientProgramID,
			StartTime:        s.StartTime,
			EndTime:          s.EndTime,
			Status:           s.Status,
		})
	}
	return out
}

// Availability answers GET /api/practitioners/:id/availability?date=&duration=.
func (h *SessionHandler) Availability(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	duration, err := strconv.Atoi(c.Query("duration"))
	if err != nil {
		httperr.BadRequest(c, "invalid_duration", "duration is required.")
		return
	}

	slots, err := h.freeSlots.Execute(c.Request.Context(), id, c.Query("date"), duration)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, slots)
}

// ======================================================
// STATUS
// ======================================================

func (h *SessionHandler) Transition(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.TransitionRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.transition.Execute(c.Request.Context(), ucSession.TransitionInput{
		SessionID: id,
		Target:    req.Status,
		Actor:     middleware.ActorFrom(c),
		Completion: domain.Completion{
			PostSessionNotes: req.PostSessionNotes,
			Feedback:         req.Feedback,
			Rating:           req.Rating,
		},
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, s)
}
