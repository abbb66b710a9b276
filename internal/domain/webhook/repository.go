package webhook

import (
	"context"

	"github.com/BruksfildServices01/lefade-api/internal/models"
)

// Repository is the ledger of provider events.
type Repository interface {
	// Begin records a delivery of the event and returns the stored row.
	Begin(
		ctx context.Context,
		provider string,
		externalID string,
		eventType string,
	) (*models.WebhookEvent, error)

	// Finish marks the event processed, keeping processingErr when not empty.
	Finish(
		ctx context.Context,
		id uint,
		processingErr string,
	) error
}
