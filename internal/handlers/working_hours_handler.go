package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	"github.com/BruksfildServices01/lefade-api/internal/usecase/appointment"
)

type WorkingHoursHandler struct {
	hours *appointment.WeeklyHours
}

func NewWorkingHoursHandler(hours *appointment.WeeklyHours) *WorkingHoursHandler {
	return &WorkingHoursHandler{hours: hours}
}

type WorkingHoursUpdateRequest struct {
	Timezone string                   `json:"timezone"`
	Days     []appointment.WorkingDay `json:"days" binding:"required,dive"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	rows, err := h.hours.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": rows})
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err))
		return
	}

	rows, err := h.hours.Replace(c.Request.Context(), currentUserID(c), req.Timezone, req.Days)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": rows})
}
