package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	"github.com/BruksfildServices01/lefade-api/internal/httpresp"
	"github.com/BruksfildServices01/lefade-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	create *appointment.CreateBooking
	list   *appointment.ListBookings
	cancel *appointment.CancelBooking
}

func NewBookingHandler(
	create *appointment.CreateBooking,
	list *appointment.ListBookings,
	cancel *appointment.CancelBooking,
) *BookingHandler {
	return &BookingHandler{
		create: create,
		list:   list,
		cancel: cancel,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	BarberID       uint   `json:"barberId" binding:"required"`
	StartsAt       string `json:"startsAtUTC" binding:"required"`
	Timezone       string `json:"timezone"`
	IdempotencyKey string `json:"idempotencyKey" binding:"required"`
	Notes          string `json:"notes" binding:"max=500"`
	Address        string `json:"address" binding:"max=255"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"max=500"`
	Refund bool   `json:"refund"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err))
		return
	}

	res, err := h.create.Execute(c.Request.Context(), appointment.CreateBookingInput{
		ClientID:       currentUserID(c),
		BarberID:       req.BarberID,
		StartAt:        req.StartsAt,
		Timezone:       req.Timezone,
		IdempotencyKey: req.IdempotencyKey,
		Notes:          req.Notes,
		Address:        req.Address,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	status := http.StatusCreated
	if res.Status == "duplicate" {
		status = http.StatusOK
	}
	c.JSON(status, res)
}

// ======================================================
// LIST
// ======================================================

func (h *BookingHandler) List(c *gin.Context) {
	limit, ok := queryInt(c, "limit", appointment.DefaultListLimit)
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return
	}

	res, err := h.list.Execute(c.Request.Context(), appointment.ListBookingsInput{
		ClientID: currentUserID(c),
		Status:   c.Query("status"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, res)
}

// ======================================================
// CANCEL
// ======================================================

func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CancelBookingRequest
	// an empty body means no reason and no refund
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.Respond(c, httperr.Validation(err))
			return
		}
	}

	res, err := h.cancel.Execute(c.Request.Context(), appointment.CancelBookingInput{
		ClientID:      currentUserID(c),
		AppointmentID: id,
		Reason:        req.Reason,
		Refund:        req.Refund,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, res)
}
