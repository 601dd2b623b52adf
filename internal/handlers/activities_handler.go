package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	ucSession "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/session"
)

// ActivitiesHandler exposes a session's audit trail to its participants.
type ActivitiesHandler struct {
	get     *ucSession.Get
	addNote *ucSession.AddNote
	logger  *audit.Logger
}

func NewActivitiesHandler(
	get *ucSession.Get,
	addNote *ucSession.AddNote,
	logger *audit.Logger,
) *ActivitiesHandler {
	return &ActivitiesHandler{get: get, addNote: addNote, logger: logger}
}

func (h *ActivitiesHandler) List(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.get.Execute(c.Request.Context(), id, middleware.ActorFrom(c)); err != nil {
		httperr.Respond(c, err)
		return
	}

	activities, err := h.logger.List(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, activities)
}

func (h *ActivitiesHandler) AddNote(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.SessionNoteRequest
	if !bindJSON(c, &req) {
		return
	}

	activity, err := h.addNote.Execute(c.Request.Context(), ucSession.AddNoteInput{
		SessionID: id,
		Notes:     req.Notes,
		Actor:     middleware.ActorFrom(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, activity)
}
