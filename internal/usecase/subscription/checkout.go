package subscription

import (
	"context"
	"strconv"

	"github.com/BruksfildServices01/lefade-api/internal/audit"
	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	"github.com/BruksfildServices01/lefade-api/internal/logging"
	"github.com/BruksfildServices01/lefade-api/internal/models"
	"github.com/BruksfildServices01/lefade-api/internal/payments"
	"github.com/BruksfildServices01/lefade-api/internal/plans"
)

type CheckoutResult struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

// Checkout opens a hosted checkout session for a plan. The local
// subscription is created later, when the provider reports the session as
// completed.
type Checkout struct {
	catalog *plans.Catalog
	gateway payments.Gateway
	appURL  string
	audit   *audit.Dispatcher
}

func NewCheckout(
	catalog *plans.Catalog,
	gateway payments.Gateway,
	appURL string,
	audit *audit.Dispatcher,
) *Checkout {
	return &Checkout{
		catalog: catalog,
		gateway: gateway,
		appURL:  appURL,
		audit:   audit,
	}
}

func (uc *Checkout) Execute(
	ctx context.Context,
	user *models.User,
	planID string,
) (*CheckoutResult, error) {

	if uc.gateway == nil || !uc.gateway.Enabled() {
		return nil, httperr.ErrBusiness(httperr.CodePaymentProcessingDisabled)
	}

	plan, ok := uc.catalog.Get(planID)
	if !ok {
		return nil, httperr.New(httperr.CodeNotFound, "Plan not found")
	}
	if plan.ExternalPriceRef == "" {
		return nil, httperr.New(httperr.CodeValidation, "Plan is not available for purchase")
	}

	userID := strconv.FormatUint(uint64(user.ID), 10)

	sess, err := uc.gateway.CreateCheckoutSession(ctx, payments.CheckoutRequest{
		PriceRef:          plan.ExternalPriceRef,
		CustomerEmail:     user.Email,
		ClientReferenceID: userID,
		SuccessURL:        uc.appURL + "/dashboard?checkout=success&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:         uc.appURL + "/plans?checkout=canceled",
		Metadata: map[string]string{
			"userId": userID,
			"planId": plan.ID,
		},
	})
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Str("plan_id", plan.ID).Msg("failed to create checkout session")
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &user.ID,
		Action:   "checkout_started",
		Entity:   "subscription",
		Metadata: map[string]any{"planId": plan.ID, "sessionId": sess.ID},
	})

	return &CheckoutResult{URL: sess.URL, SessionID: sess.ID}, nil
}
