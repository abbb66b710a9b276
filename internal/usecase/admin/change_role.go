package admin

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/lefade-api/internal/audit"
	"github.com/BruksfildServices01/lefade-api/internal/domain/user"
	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	"github.com/BruksfildServices01/lefade-api/internal/models"
)

type ChangeRole struct {
	repo  user.Repository
	audit *audit.Dispatcher
}

func NewChangeRole(repo user.Repository, audit *audit.Dispatcher) *ChangeRole {
	return &ChangeRole{repo: repo, audit: audit}
}

// Execute sets the role of targetID. Owners cannot change their own role,
// so the shop always keeps at least the owner who made the call.
func (uc *ChangeRole) Execute(
	ctx context.Context,
	actorID uint,
	targetID uint,
	role string,
) (*models.User, error) {

	to := user.Role(strings.ToUpper(strings.TrimSpace(role)))
	if !to.Valid() {
		return nil, httperr.New(httperr.CodeValidation, "Invalid role", "role must be one of [CLIENT BARBER OWNER]")
	}
	if actorID == targetID {
		return nil, httperr.New(httperr.CodeValidation, "You cannot change your own role")
	}

	u, err := uc.repo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, httperr.New(httperr.CodeNotFound, "User not found")
	}

	from := u.Role
	if from == string(to) {
		return u, nil
	}

	if err := uc.repo.UpdateRole(ctx, u.ID, string(to)); err != nil {
		return nil, err
	}
	u.Role = string(to)

	uc.audit.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   "role_changed",
		Entity:   "user",
		EntityID: &u.ID,
		Metadata: map[string]string{"from": from, "to": string(to)},
	})

	return u, nil
}
