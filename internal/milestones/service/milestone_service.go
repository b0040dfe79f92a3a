package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spshpau/project-service/internal/domain"
)

type Memberships interface {
	VerifyMember(ctx context.Context, projectID, userID uuid.UUID) error
}

type Repository interface {
	Create(ctx context.Context, projectID uuid.UUID, title, description string, dueDate *time.Time) (*domain.Milestone, error)
	GetByID(ctx context.Context, milestoneID uuid.UUID) (*domain.Milestone, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, page domain.Pageable) (domain.Page[domain.Milestone], error)
	Update(ctx context.Context, m *domain.Milestone) (*domain.Milestone, error)
	Delete(ctx context.Context, milestoneID uuid.UUID) error
}

// MilestonePatch distinguishes an omitted dueDate (keep current) from an
// explicit null (clear it), which a plain pointer cannot express.
type MilestonePatch struct {
	Title       *string
	Description *string
	DueDate     domain.Patch[time.Time]
}

type MilestoneService struct {
	repo    Repository
	members Memberships
}

func NewMilestoneService(repo Repository, members Memberships) *MilestoneService {
	return &MilestoneService{repo: repo, members: members}
}

// load fetches a milestone and pins it to the project from the URL. A
// milestone reached through the wrong project is an access violation, not
// an absence.
func (s *MilestoneService) load(ctx context.Context, projectID, milestoneID uuid.UUID) (*domain.Milestone, error) {
	m, err := s.repo.GetByID(ctx, milestoneID)
	if err != nil {
		return nil, err
	}
	if m.ProjectID != projectID {
		return nil, fmt.Errorf("%w: milestone does not belong to project", domain.ErrNotProjectMember)
	}
	return m, nil
}

func (s *MilestoneService) Create(ctx context.Context, callerID, projectID uuid.UUID, title, description string, dueDate *time.Time) (*domain.Milestone, error) {
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: milestone title is required", domain.ErrInvalidInput)
	}
	return s.repo.Create(ctx, projectID, title, description, dueDate)
}

func (s *MilestoneService) Get(ctx context.Context, callerID, projectID, milestoneID uuid.UUID) (*domain.Milestone, error) {
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	return s.load(ctx, projectID, milestoneID)
}

func (s *MilestoneService) List(ctx context.Context, callerID, projectID uuid.UUID, page domain.Pageable) (domain.Page[domain.Milestone], error) {
	var zero domain.Page[domain.Milestone]
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return zero, err
	}
	return s.repo.ListByProject(ctx, projectID, page)
}

func (s *MilestoneService) Update(ctx context.Context, callerID, projectID, milestoneID uuid.UUID, patch MilestonePatch) (*domain.Milestone, error) {
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	m, err := s.load(ctx, projectID, milestoneID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			return nil, fmt.Errorf("%w: milestone title cannot be blank", domain.ErrInvalidInput)
		}
		m.Title = t
	}
	if patch.Description != nil {
		m.Description = *patch.Description
	}
	if patch.DueDate.Set {
		m.DueDate = patch.DueDate.Value
	}
	return s.repo.Update(ctx, m)
}

func (s *MilestoneService) Delete(ctx context.Context, callerID, projectID, milestoneID uuid.UUID) error {
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return err
	}
	if _, err := s.load(ctx, projectID, milestoneID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, milestoneID)
}
