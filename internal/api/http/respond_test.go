package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/spshpau/project-service/internal/domain"
)

func statusFor(t *testing.T, err error) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Error(c, err)
	return w.Code
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrProjectNotFound, http.StatusNotFound},
		{domain.ErrBudgetNotFound, http.StatusNotFound},
		{domain.ErrFileNotFound, http.StatusNotFound},
		{domain.ErrCollaboratorNotFound, http.StatusNotFound},
		{domain.ErrNotProjectMember, http.StatusForbidden},
		{domain.ErrNotProjectOwner, http.StatusForbidden},
		{domain.ErrBudgetExists, http.StatusConflict},
		{domain.ErrCollaboratorExists, http.StatusConflict},
		{domain.ErrUsernameTaken, http.StatusConflict},
		{domain.ErrNotConnected, http.StatusBadRequest},
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{domain.ErrStorage, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(t, tc.err), "error %v", tc.err)
	}
}

func TestErrorMappingSeesWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("%w: expense amount must be positive", domain.ErrInvalidInput)
	assert.Equal(t, http.StatusBadRequest, statusFor(t, wrapped))
}

func TestPageableFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=2&size=5", nil)

	p := Pageable(c)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 5, p.Size)
}

func TestUUIDParamRejectsGarbage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "projectId", Value: "not-a-uuid"}}

	_, ok := UUIDParam(c, "projectId")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
