package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/registry"
)

type WorkingHoursHandler struct {
	registry *registry.Registry
}

func NewWorkingHoursHandler(r *registry.Registry) *WorkingHoursHandler {
	return &WorkingHoursHandler{registry: r}
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	hours, err := h.registry.GetWorkingHours(c.Request.Context(), userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, hours)
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var req dto.WorkingHoursUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	toSave := make([]models.PractitionerHours, 0, len(req.Days))
	for _, d := range req.Days {
		toSave = append(toSave, models.PractitionerHours{
			Weekday:    d.Weekday,
			Active:     d.Active,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			BreakStart: d.BreakStart,
			BreakEnd:   d.BreakEnd,
		})
	}

	hours, err := h.registry.ReplaceWorkingHours(c.Request.Context(), userID, toSave)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, hours)
}
