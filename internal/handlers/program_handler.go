package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	ucProgram "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/program"
)

type ProgramHandler struct {
	enroll       *ucProgram.Enroll
	changeStatus *ucProgram.ChangeStatus
	progress     *ucProgram.GetProgress
}

func NewProgramHandler(
	enroll *ucProgram.Enroll,
	changeStatus *ucProgram.ChangeStatus,
	progress *ucProgram.GetProgress,
) *ProgramHandler {
	return &ProgramHandler{
		enroll:       enroll,
		changeStatus: changeStatus,
		progress:     progress,
	}
}

func (h *ProgramHandler) Enroll(c *gin.Context) {
	var req dto.EnrollRequest
	if !bindJSON(c, &req) {
		return
	}

	pp, err := h.enroll.Execute(c.Request.Context(), ucProgram.EnrollInput{
		PatientID:          req.PatientID,
		TreatmentProgramID: req.TreatmentProgramID,
		PractitionerID:     req.PractitionerID,
		StartDate:          req.StartDate,
		Notes:              req.Notes,
		Actor:              middleware.ActorFrom(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, pp)
}

func (h *ProgramHandler) Progress(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	view, err := h.progress.Execute(c.Request.Context(), id, middleware.ActorFrom(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, view)
}

func (h *ProgramHandler) ChangeStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.ProgramStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	pp, err := h.changeStatus.Execute(c.Request.Context(), id, req.Status, middleware.ActorFrom(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, pp)
}
