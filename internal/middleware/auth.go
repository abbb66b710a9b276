package middleware

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/lefade-api/internal/domain/user"
	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	"github.com/BruksfildServices01/lefade-api/internal/identity"
	"github.com/BruksfildServices01/lefade-api/internal/logging"
	"github.com/BruksfildServices01/lefade-api/internal/models"
	ucIdentity "github.com/BruksfildServices01/lefade-api/internal/usecase/identity"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextUser     = "user"
)

// Auth resolves the bearer token to a local user and stores it on the
// gin context. A resolver without a verifier answers 503 on every request.
func Auth(resolver *ucIdentity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !resolver.Enabled() {
			httperr.Abort(c, httperr.ErrBusiness(httperr.CodeIdentityProviderUnavailable))
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			httperr.Abort(c, httperr.New(httperr.CodeUnauthenticated, "Missing authorization header"))
			return
		}

		token, ok := identity.ExtractBearerToken(header)
		if !ok {
			httperr.Abort(c, httperr.New(httperr.CodeUnauthenticated, "Invalid authorization header"))
			return
		}

		u, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			logging.FromContext(c.Request.Context()).Debug().
				Err(err).
				Str("path", c.Request.URL.Path).
				Msg("auth failure")
			httperr.Abort(c, err)
			return
		}

		c.Set(ContextUserID, u.ID)
		c.Set(ContextUserRole, u.Role)
		c.Set(ContextUser, u)
		c.Next()
	}
}

// RequireRole must run after Auth. OWNER passes every check.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := domain.Role(c.GetString(ContextUserRole))
		if !role.Satisfies(roles...) {
			httperr.Abort(c, httperr.ErrBusiness(httperr.CodeForbidden))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user stored by Auth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok && u != nil
}
