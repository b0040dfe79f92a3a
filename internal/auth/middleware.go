package auth

import (
	"context"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TokenVerifier is the slice of the Firebase Auth client the middleware
// needs; tests substitute a stub.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// Middleware validates bearer ID tokens and places the caller Principal in
// the request context. The token subject must be a UUID; it is reused
// verbatim as the user's primary key, never regenerated.
func Middleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			c.Abort()
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), raw)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		subject, err := uuid.Parse(token.UID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token subject"})
			c.Abort()
			return
		}

		p := Principal{
			UserID:      subject,
			Username:    claimString(token.Claims, "preferred_username"),
			FirstName:   claimString(token.Claims, "given_name"),
			LastName:    claimString(token.Claims, "family_name"),
			BearerToken: raw,
		}
		if p.Username == "" {
			p.Username = claimString(token.Claims, "email")
		}

		c.Set(ctxPrincipal, p)
		c.Next()
	}
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
