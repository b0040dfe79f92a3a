package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spshpau/project-service/internal/auth"
	"github.com/spshpau/project-service/internal/domain"
	"github.com/spshpau/project-service/internal/projects/repository"
	"github.com/spshpau/project-service/internal/projects/service"
)

type memRepo struct {
	projects map[uuid.UUID]*domain.Project
}

func (m *memRepo) Create(_ context.Context, ownerID uuid.UUID, title, description string) (*domain.Project, error) {
	p := &domain.Project{ID: uuid.New(), Title: title, Description: description, Owner: domain.User{ID: ownerID}, Collaborators: []domain.User{}}
	m.projects[p.ID] = p
	return p, nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return p, nil
}

func (m *memRepo) Membership(_ context.Context, projectID, userID uuid.UUID) (repository.Membership, error) {
	p, ok := m.projects[projectID]
	if !ok {
		return repository.Membership{}, domain.ErrProjectNotFound
	}
	return repository.Membership{IsOwner: p.Owner.ID == userID}, nil
}

func (m *memRepo) GetOwner(_ context.Context, projectID uuid.UUID) (*domain.User, error) {
	p, err := m.GetByID(context.Background(), projectID)
	if err != nil {
		return nil, err
	}
	owner := p.Owner
	return &owner, nil
}

func (m *memRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, page domain.Pageable) (domain.Page[domain.Project], error) {
	var items []domain.Project
	for _, p := range m.projects {
		if p.Owner.ID == ownerID {
			items = append(items, *p)
		}
	}
	return domain.NewPage(items, page.Normalize(), int64(len(items))), nil
}

func (m *memRepo) ListByCollaborator(_ context.Context, _ uuid.UUID, page domain.Pageable) (domain.Page[domain.Project], error) {
	return domain.NewPage([]domain.Project{}, page.Normalize(), 0), nil
}

func (m *memRepo) ListCollaborators(_ context.Context, _ uuid.UUID, page domain.Pageable) (domain.Page[domain.User], error) {
	return domain.NewPage([]domain.User{}, page.Normalize(), 0), nil
}

func (m *memRepo) Update(_ context.Context, id uuid.UUID, title, description *string) (*domain.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	if title != nil {
		p.Title = *title
	}
	if description != nil {
		p.Description = *description
	}
	return p, nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.projects[id]; !ok {
		return domain.ErrProjectNotFound
	}
	delete(m.projects, id)
	return nil
}

func (m *memRepo) AddCollaborator(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (m *memRepo) RemoveCollaborator(context.Context, uuid.UUID, uuid.UUID) error {
	return domain.ErrCollaboratorNotFound
}

type memIdentity struct{}

func (memIdentity) ResolveOrCreate(_ context.Context, s domain.UserSummary) (*domain.User, error) {
	return &domain.User{ID: s.ID, Username: s.Username}, nil
}

func (memIdentity) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	return &domain.User{ID: id}, nil
}

type memDirectory struct{}

func (memDirectory) ListConnections(context.Context, string) ([]domain.UserSummary, error) {
	return nil, nil
}

func newTestRouter(caller uuid.UUID) (*gin.Engine, *memRepo) {
	gin.SetMode(gin.TestMode)
	repo := &memRepo{projects: map[uuid.UUID]*domain.Project{}}
	svc := service.NewProjectService(repo, memIdentity{}, memDirectory{})

	r := gin.New()
	g := r.Group("/projects")
	g.Use(func(c *gin.Context) {
		auth.SetPrincipal(c, auth.Principal{UserID: caller, Username: "caller"})
	})
	NewHandler(svc).Register(g)
	return r, repo
}

func TestCreateProjectEndpoint(t *testing.T) {
	caller := uuid.New()
	r, repo := newTestRouter(caller)

	req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(`{"title":"New Album","description":"LP"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var got domain.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "New Album", got.Title)
	assert.Equal(t, caller, got.Owner.ID)
	assert.Len(t, repo.projects, 1)
}

func TestCreateProjectRejectsBlankTitle(t *testing.T) {
	r, _ := newTestRouter(uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(`{"title":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProjectForbiddenForStrangers(t *testing.T) {
	owner := uuid.New()
	r, repo := newTestRouter(uuid.New())
	p := &domain.Project{ID: uuid.New(), Title: "private", Owner: domain.User{ID: owner}}
	repo.projects[p.ID] = p

	req := httptest.NewRequest(http.MethodGet, "/projects/"+p.ID.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetProjectBadID(t *testing.T) {
	r, _ := newTestRouter(uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/projects/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProjectNotFound(t *testing.T) {
	r, _ := newTestRouter(uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/projects/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProjectOwnerOnly(t *testing.T) {
	owner := uuid.New()
	r, repo := newTestRouter(owner)
	p := &domain.Project{ID: uuid.New(), Title: "mine", Owner: domain.User{ID: owner}}
	repo.projects[p.ID] = p

	req := httptest.NewRequest(http.MethodDelete, "/projects/"+p.ID.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, repo.projects)
}
