package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/spshpau/project-service/internal/domain"
)

// Repository is the persistence surface the resolver needs.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	CreateIfAbsent(ctx context.Context, s domain.UserSummary) (*domain.User, error)
}

// Service is the identity resolver: it materializes minimal user records
// from externally supplied claims or directory summaries.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ResolveOrCreate returns the cached user for the summary's id, creating the
// row on first reference. The externally issued id is required; everything
// else is best-effort claim data.
func (s *Service) ResolveOrCreate(ctx context.Context, summary domain.UserSummary) (*domain.User, error) {
	if summary.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	return s.repo.CreateIfAbsent(ctx, summary)
}
