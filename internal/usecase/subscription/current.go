package subscription

import (
	"context"

	domain "github.com/BruksfildServices01/lefade-api/internal/domain/subscription"
	"github.com/BruksfildServices01/lefade-api/internal/models"
)

type GetCurrent struct {
	repo domain.Repository
}

func NewGetCurrent(repo domain.Repository) *GetCurrent {
	return &GetCurrent{repo: repo}
}

// Execute returns the user's most recent subscription, or nil.
func (uc *GetCurrent) Execute(ctx context.Context, userID uint) (*models.Subscription, error) {
	return uc.repo.FindLatestForUser(ctx, userID)
}
