package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/spshpau/project-service/internal/domain"
	"github.com/spshpau/project-service/internal/projects/repository"
)

// Repository is the persistence surface of the project aggregate.
type Repository interface {
	Create(ctx context.Context, ownerID uuid.UUID, title, description string) (*domain.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	Membership(ctx context.Context, projectID, userID uuid.UUID) (repository.Membership, error)
	GetOwner(ctx context.Context, projectID uuid.UUID) (*domain.User, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page domain.Pageable) (domain.Page[domain.Project], error)
	ListByCollaborator(ctx context.Context, collaboratorID uuid.UUID, page domain.Pageable) (domain.Page[domain.Project], error)
	ListCollaborators(ctx context.Context, projectID uuid.UUID, page domain.Pageable) (domain.Page[domain.User], error)
	Update(ctx context.Context, id uuid.UUID, title, description *string) (*domain.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddCollaborator(ctx context.Context, projectID, userID uuid.UUID) error
	RemoveCollaborator(ctx context.Context, projectID, userID uuid.UUID) error
}

// IdentityResolver materializes user rows from externally supplied claims
// or directory summaries.
type IdentityResolver interface {
	ResolveOrCreate(ctx context.Context, summary domain.UserSummary) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// ConnectionsDirectory lists the caller's confirmed connections; consulted
// only when adding a collaborator.
type ConnectionsDirectory interface {
	ListConnections(ctx context.Context, bearerToken string) ([]domain.UserSummary, error)
}

// ProjectPatch is a partial project update; nil fields are left unchanged.
type ProjectPatch struct {
	Title       *string
	Description *string
}

// ProjectService owns the project aggregate and the membership rules every
// sub-resource service delegates to.
type ProjectService struct {
	repo        Repository
	identity    IdentityResolver
	connections ConnectionsDirectory
}

func NewProjectService(repo Repository, identity IdentityResolver, connections ConnectionsDirectory) *ProjectService {
	return &ProjectService{
		repo:        repo,
		identity:    identity,
		connections: connections,
	}
}

// VerifyMember succeeds silently when the user is the project's owner or one
// of its collaborators. It is the universal guard in front of every
// sub-resource operation.
func (s *ProjectService) VerifyMember(ctx context.Context, projectID, userID uuid.UUID) error {
	m, err := s.repo.Membership(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !m.IsMember() {
		return domain.ErrNotProjectMember
	}
	return nil
}

// IsOwner reports whether the user owns the project. Missing projects fail
// with ErrProjectNotFound rather than false.
func (s *ProjectService) IsOwner(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	m, err := s.repo.Membership(ctx, projectID, userID)
	if err != nil {
		return false, err
	}
	return m.IsOwner, nil
}

func (s *ProjectService) requireOwner(ctx context.Context, projectID, userID uuid.UUID) error {
	owner, err := s.IsOwner(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !owner {
		return domain.ErrNotProjectOwner
	}
	return nil
}

// Create materializes the owner from claims on first sight and creates the
// project under them.
func (s *ProjectService) Create(ctx context.Context, title, description string, owner domain.UserSummary) (*domain.Project, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title required", domain.ErrInvalidInput)
	}

	user, err := s.identity.ResolveOrCreate(ctx, owner)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.Create(ctx, user.ID, title, description)
	if err != nil {
		return nil, err
	}
	p.Owner = *user
	return p, nil
}

func (s *ProjectService) Get(ctx context.Context, projectID, callerID uuid.UUID) (*domain.Project, error) {
	p, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if p.Owner.ID != callerID && !containsUser(p.Collaborators, callerID) {
		return nil, domain.ErrNotProjectMember
	}
	return p, nil
}

func containsUser(users []domain.User, id uuid.UUID) bool {
	for _, u := range users {
		if u.ID == id {
			return true
		}
	}
	return false
}

func (s *ProjectService) ListOwned(ctx context.Context, ownerID uuid.UUID, page domain.Pageable) (domain.Page[domain.Project], error) {
	return s.repo.ListByOwner(ctx, ownerID, page)
}

func (s *ProjectService) ListCollaborating(ctx context.Context, collaboratorID uuid.UUID, page domain.Pageable) (domain.Page[domain.Project], error) {
	return s.repo.ListByCollaborator(ctx, collaboratorID, page)
}

// Owner is public: owner identity is not sensitive.
func (s *ProjectService) Owner(ctx context.Context, projectID uuid.UUID) (*domain.User, error) {
	return s.repo.GetOwner(ctx, projectID)
}

// ListCollaborators is public and paginated at the storage layer.
func (s *ProjectService) ListCollaborators(ctx context.Context, projectID uuid.UUID, page domain.Pageable) (domain.Page[domain.User], error) {
	if _, err := s.repo.GetOwner(ctx, projectID); err != nil {
		return domain.Page[domain.User]{}, err
	}
	return s.repo.ListCollaborators(ctx, projectID, page)
}

func (s *ProjectService) Update(ctx context.Context, projectID uuid.UUID, patch ProjectPatch, callerID uuid.UUID) (*domain.Project, error) {
	if err := s.requireOwner(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, projectID, patch.Title, patch.Description)
}

func (s *ProjectService) Delete(ctx context.Context, projectID, callerID uuid.UUID) error {
	if err := s.requireOwner(ctx, projectID, callerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, projectID)
}

// AddCollaborator is owner-only. The candidate must appear in the owner's
// confirmed connections; their directory summary is what materializes the
// local user row.
func (s *ProjectService) AddCollaborator(ctx context.Context, projectID, candidateID, callerID uuid.UUID, bearerToken string) (*domain.Project, error) {
	if err := s.requireOwner(ctx, projectID, callerID); err != nil {
		return nil, err
	}

	if candidateID == callerID {
		return nil, fmt.Errorf("%w: owner cannot be added as a collaborator to their own project", domain.ErrInvalidInput)
	}

	m, err := s.repo.Membership(ctx, projectID, candidateID)
	if err != nil {
		return nil, err
	}
	if m.IsCollaborator {
		return nil, domain.ErrCollaboratorExists
	}

	connections, err := s.connections.ListConnections(ctx, bearerToken)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}

	var summary *domain.UserSummary
	for i := range connections {
		if connections[i].ID == candidateID {
			summary = &connections[i]
			break
		}
	}
	if summary == nil {
		return nil, domain.ErrNotConnected
	}

	candidate, err := s.identity.ResolveOrCreate(ctx, *summary)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddCollaborator(ctx, projectID, candidate.ID); err != nil {
		return nil, err
	}

	log.Printf("project %s: added collaborator %s", projectID, candidate.ID)
	return s.repo.GetByID(ctx, projectID)
}

// RemoveCollaborator is owner-only. Besides dropping the relation it clears
// the user as assignee on the project's tasks; nothing they authored is
// deleted.
func (s *ProjectService) RemoveCollaborator(ctx context.Context, projectID, collaboratorID, callerID uuid.UUID) error {
	if err := s.requireOwner(ctx, projectID, callerID); err != nil {
		return err
	}

	if err := s.repo.RemoveCollaborator(ctx, projectID, collaboratorID); err != nil {
		return err
	}

	log.Printf("project %s: removed collaborator %s", projectID, collaboratorID)
	return nil
}
