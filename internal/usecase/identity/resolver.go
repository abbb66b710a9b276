package identity

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/lefade-api/internal/audit"
	domain "github.com/BruksfildServices01/lefade-api/internal/domain/user"
	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	idp "github.com/BruksfildServices01/lefade-api/internal/identity"
	"github.com/BruksfildServices01/lefade-api/internal/infra/repository"
	"github.com/BruksfildServices01/lefade-api/internal/logging"
	"github.com/BruksfildServices01/lefade-api/internal/models"
)

// Resolver maps a bearer token to the local user, creating the user with
// role CLIENT on first sight.
type Resolver struct {
	verifier idp.Verifier
	repo     domain.Repository
	audit    *audit.Dispatcher
}

func NewResolver(
	verifier idp.Verifier,
	repo domain.Repository,
	audit *audit.Dispatcher,
) *Resolver {
	return &Resolver{
		verifier: verifier,
		repo:     repo,
		audit:    audit,
	}
}

func (r *Resolver) Enabled() bool {
	return r != nil && r.verifier != nil
}

func (r *Resolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, httperr.New(httperr.CodeUnauthenticated, "Missing bearer token")
	}
	if !r.Enabled() {
		return nil, httperr.ErrBusiness(httperr.CodeIdentityProviderUnavailable)
	}

	claims, err := r.verifier.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, idp.ErrInvalidToken) {
			return nil, httperr.New(httperr.CodeUnauthenticated, "Invalid or expired token")
		}
		logging.FromContext(ctx).Warn().Err(err).Msg("identity provider unavailable")
		return nil, httperr.ErrBusiness(httperr.CodeIdentityProviderUnavailable)
	}

	return r.FindOrCreate(ctx, claims)
}

// FindOrCreate is safe under concurrent first requests: the loser of the
// insert race reads back the winner's row.
func (r *Resolver) FindOrCreate(ctx context.Context, claims *idp.Claims) (*models.User, error) {
	if claims == nil || claims.Subject == "" {
		return nil, httperr.New(httperr.CodeUnauthenticated, "Token has no subject")
	}

	u, err := r.repo.FindByExternalID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if u != nil {
		return u, nil
	}

	u = &models.User{
		ExternalID: claims.Subject,
		Name:       claims.Name,
		Email:      claims.Email,
		Role:       string(domain.RoleClient),
	}

	if err := r.repo.Create(ctx, u); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
		existing, err := r.repo.FindByExternalID(ctx, claims.Subject)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, errors.New("user vanished after duplicate insert")
		}
		return existing, nil
	}

	r.audit.Dispatch(audit.Event{
		ActorID:  &u.ID,
		Action:   "user_created",
		Entity:   "user",
		EntityID: &u.ID,
	})

	return u, nil
}
