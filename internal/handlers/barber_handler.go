package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	"github.com/BruksfildServices01/lefade-api/internal/timezone"
	"github.com/BruksfildServices01/lefade-api/internal/usecase/appointment"
)

// BarberHandler serves the barber's own day view and closes appointments.
type BarberHandler struct {
	day   *appointment.ListForBarberDay
	close *appointment.CloseAppointment
	tz    string
}

func NewBarberHandler(
	day *appointment.ListForBarberDay,
	close *appointment.CloseAppointment,
	tz string,
) *BarberHandler {
	return &BarberHandler{day: day, close: close, tz: tz}
}

// ======================================================
// LIST
// ======================================================

func (h *BarberHandler) ListByDate(c *gin.Context) {
	tz := c.DefaultQuery("timezone", h.tz)

	date := c.Query("date")
	if date == "" {
		date = timezone.NowIn(tz).Format("2006-01-02")
	}

	items, err := h.day.Execute(c.Request.Context(), currentUserID(c), date, tz)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":         date,
		"appointments": items,
	})
}

// ======================================================
// COMPLETE / NO-SHOW
// ======================================================

func (h *BarberHandler) Complete(c *gin.Context) {
	h.closeAs(c, appointment.CloseCompleted)
}

func (h *BarberHandler) NoShow(c *gin.Context) {
	h.closeAs(c, appointment.CloseNoShow)
}

func (h *BarberHandler) closeAs(c *gin.Context, action appointment.CloseAction) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.close.Execute(c.Request.Context(), currentUserID(c), id, action)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointment": ap})
}
