package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/spshpau/project-service/internal/domain"
)

const ctxPrincipal = "principal"

// Principal is the authenticated caller identity derived from token claims.
type Principal struct {
	UserID      uuid.UUID
	Username    string
	FirstName   string
	LastName    string
	BearerToken string
}

// Summary converts the claims into the shape the identity cache
// materializes users from.
func (p Principal) Summary() domain.UserSummary {
	return domain.UserSummary{
		ID:        p.UserID,
		Username:  p.Username,
		FirstName: p.FirstName,
		LastName:  p.LastName,
	}
}

// Current returns the Principal stored by Middleware. The second return is
// false on unauthenticated routes.
func Current(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(ctxPrincipal)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// SetPrincipal is a test hook for handler tests that bypass the verifier.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(ctxPrincipal, p)
}
