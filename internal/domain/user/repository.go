package user

import (
	"context"

	"github.com/BruksfildServices01/lefade-api/internal/models"
)

// Repository lookups named Find* return (nil, nil) when nothing matches.
type Repository interface {
	FindByExternalID(
		ctx context.Context,
		externalID string,
	) (*models.User, error)

	FindByID(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	// Create returns ErrDuplicate from the repository package when the
	// external identity is already taken.
	Create(
		ctx context.Context,
		u *models.User,
	) error

	UpdateRole(
		ctx context.Context,
		id uint,
		role string,
	) error
}
