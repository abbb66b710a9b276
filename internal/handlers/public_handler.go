package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/lefade-api/internal/domain/appointment"
	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	"github.com/BruksfildServices01/lefade-api/internal/httpresp"
	"github.com/BruksfildServices01/lefade-api/internal/usecase/appointment"
)

// PublicHandler serves the unauthenticated barber directory and free slots.
type PublicHandler struct {
	barbers      *appointment.ListBarbers
	availability *appointment.GetAvailability
	tz           string
}

func NewPublicHandler(
	barbers *appointment.ListBarbers,
	availability *appointment.GetAvailability,
	tz string,
) *PublicHandler {
	return &PublicHandler{
		barbers:      barbers,
		availability: availability,
		tz:           tz,
	}
}

func (h *PublicHandler) ListBarbers(c *gin.Context) {
	barbers, err := h.barbers.Execute(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, barbers)
}

func (h *PublicHandler) Availability(c *gin.Context) {
	barberID, ok := idParam(c, "id")
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, httperr.CodeValidation, "Invalid request data", "date: is required")
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		BarberID: barberID,
		Date:     date,
		Timezone: c.DefaultQuery("timezone", h.tz),
		Now:      time.Now(),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"slots": slots,
	})
}
