package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	"github.com/BruksfildServices01/lefade-api/internal/logging"
	ucWebhook "github.com/BruksfildServices01/lefade-api/internal/usecase/webhook"
)

const (
	signatureHeader = "Stripe-Signature"
	maxWebhookBody  = 65536
)

type WebhookHandler struct {
	secret     string
	reconciler *ucWebhook.Reconciler
}

// NewWebhookHandler verifies deliveries with secret. An empty secret
// disables the endpoint.
func NewWebhookHandler(secret string, reconciler *ucWebhook.Reconciler) *WebhookHandler {
	return &WebhookHandler{secret: secret, reconciler: reconciler}
}

func (h *WebhookHandler) Payment(c *gin.Context) {
	ctx := c.Request.Context()
	log := logging.FromContext(ctx)

	if h.secret == "" {
		httperr.Respond(c, httperr.ErrBusiness(httperr.CodePaymentProcessingDisabled))
		return
	}

	sig := c.GetHeader(signatureHeader)
	if sig == "" {
		httperr.Respond(c, httperr.ErrBusiness(httperr.CodeMissingSignature))
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		httperr.Respond(c, httperr.New(httperr.CodeValidation, "Invalid request data", "body: unreadable or too large"))
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, sig, h.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		log.Warn().Err(err).Msg("webhook signature verification failed")
		httperr.Respond(c, httperr.ErrBusiness(httperr.CodeInvalidSignature))
		return
	}

	ev := ucWebhook.Event{
		ID:   event.ID,
		Type: string(event.Type),
	}
	if event.Data != nil {
		ev.Object = event.Data.Raw
	}

	outcome, err := h.reconciler.Process(ctx, ev)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"received": true,
		"outcome":  outcome,
	})
}
