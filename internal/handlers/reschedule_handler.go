package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	ucReschedule "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/reschedule"
)

type RescheduleHandler struct {
	request *ucReschedule.Request
	resolve *ucReschedule.Resolve
}

func NewRescheduleHandler(
	request *ucReschedule.Request,
	resolve *ucReschedule.Resolve,
) *RescheduleHandler {
	return &RescheduleHandler{request: request, resolve: resolve}
}

func (h *RescheduleHandler) Request(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.RescheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	rs, err := h.request.Execute(c.Request.Context(), ucReschedule.RequestInput{
		SessionID: id,
		NewDate:   req.NewDate,
		NewTime:   req.NewTime,
		Reason:    req.Reason,
		Actor:     middleware.ActorFrom(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, rs)
}

func (h *RescheduleHandler) Resolve(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.ResolveRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.resolve.Execute(c.Request.Context(), ucReschedule.ResolveInput{
		RescheduleID: id,
		Decision:     req.Decision,
		Actor:        middleware.ActorFrom(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, res)
}
