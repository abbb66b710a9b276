package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	"github.com/BruksfildServices01/lefade-api/internal/httpresp"
	"github.com/BruksfildServices01/lefade-api/internal/middleware"
	"github.com/BruksfildServices01/lefade-api/internal/usecase/subscription"
)

type SubscriptionHandler struct {
	plans    *subscription.ListPlans
	checkout *subscription.Checkout
	current  *subscription.GetCurrent
}

func NewSubscriptionHandler(
	plans *subscription.ListPlans,
	checkout *subscription.Checkout,
	current *subscription.GetCurrent,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		plans:    plans,
		checkout: checkout,
		current:  current,
	}
}

type CheckoutRequest struct {
	PlanID string `json:"planId" binding:"required"`
}

func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	httpresp.List(c, h.plans.Catalog())
}

// ListPrices answers with the recurring prices configured at the payment
// provider.
func (h *SubscriptionHandler) ListPrices(c *gin.Context) {
	httpresp.List(c, h.plans.Recurring(c.Request.Context()))
}

func (h *SubscriptionHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err))
		return
	}

	user, _ := middleware.CurrentUser(c)
	res, err := h.checkout.Execute(c.Request.Context(), user, req.PlanID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *SubscriptionHandler) Current(c *gin.Context) {
	sub, err := h.current.Execute(c.Request.Context(), currentUserID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}
