package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	token *fbauth.Token
	err   error
}

func (s stubVerifier) VerifyIDToken(context.Context, string) (*fbauth.Token, error) {
	return s.token, s.err
}

func newRouter(v TokenVerifier) (*gin.Engine, *Principal) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var seen Principal
	r.GET("/me", Middleware(v), func(c *gin.Context) {
		seen, _ = Current(c)
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	r, _ := newRouter(stubVerifier{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddlewareRejectsInvalidToken(t *testing.T) {
	r, _ := newRouter(stubVerifier{err: errors.New("expired")})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer bad")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddlewareRejectsNonUUIDSubject(t *testing.T) {
	r, _ := newRouter(stubVerifier{token: &fbauth.Token{UID: "not-a-uuid", Claims: map[string]interface{}{}}})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddlewareBuildsPrincipalFromClaims(t *testing.T) {
	subject := uuid.New()
	r, seen := newRouter(stubVerifier{token: &fbauth.Token{
		UID: subject.String(),
		Claims: map[string]interface{}{
			"preferred_username": "fretless",
			"given_name":         "Jo",
			"family_name":        "Bass",
		},
	}})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, subject, seen.UserID)
	assert.Equal(t, "fretless", seen.Username)
	assert.Equal(t, "Jo", seen.FirstName)
	assert.Equal(t, "Bass", seen.LastName)
	assert.Equal(t, "good", seen.BearerToken)
}

func TestMiddlewareFallsBackToEmail(t *testing.T) {
	subject := uuid.New()
	r, seen := newRouter(stubVerifier{token: &fbauth.Token{
		UID:    subject.String(),
		Claims: map[string]interface{}{"email": "jo@example.com"},
	}})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jo@example.com", seen.Username)
}
