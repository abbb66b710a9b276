package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	"github.com/BruksfildServices01/lefade-api/internal/usecase/payment"
)

type PaymentHandler struct {
	createIntent *payment.CreateIntent
}

func NewPaymentHandler(createIntent *payment.CreateIntent) *PaymentHandler {
	return &PaymentHandler{createIntent: createIntent}
}

// Amount is in minor currency units.
type CreateIntentRequest struct {
	AppointmentID  uint   `json:"appointmentId" binding:"required"`
	Amount         int64  `json:"amount" binding:"required,min=50"`
	IdempotencyKey string `json:"idempotencyKey" binding:"required"`
	Currency       string `json:"currency" binding:"omitempty,len=3"`
}

func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	if !h.createIntent.Enabled() {
		httperr.Respond(c, httperr.ErrBusiness(httperr.CodePaymentProcessingDisabled))
		return
	}

	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err))
		return
	}

	res, err := h.createIntent.Execute(c.Request.Context(), payment.CreateIntentInput{
		ClientID:       currentUserID(c),
		AppointmentID:  req.AppointmentID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	status := http.StatusCreated
	if res.Status == "existing" {
		status = http.StatusOK
	}
	c.JSON(status, res)
}
