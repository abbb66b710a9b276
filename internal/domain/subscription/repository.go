package subscription

import (
	"context"
	"time"

	"github.com/BruksfildServices01/lefade-api/internal/models"
)

// Repository lookups named Find* return (nil, nil) when nothing matches.
type Repository interface {
	FindByExternalRef(
		ctx context.Context,
		externalRef string,
	) (*models.Subscription, error)

	// CreateIfAbsent inserts sub unless a row with the same external
	// reference exists, and returns the stored row either way.
	CreateIfAbsent(
		ctx context.Context,
		sub *models.Subscription,
	) (*models.Subscription, bool, error)

	// UpdateStatus changes the status of the subscription with externalRef
	// unless its current status is in except. renewsAt is applied when set.
	UpdateStatus(
		ctx context.Context,
		externalRef string,
		to string,
		renewsAt *time.Time,
		except []string,
	) (bool, error)

	FindLatestForUser(
		ctx context.Context,
		userID uint,
	) (*models.Subscription, error)
}
