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

type IdentityResolver interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type Repository interface {
	Create(ctx context.Context, projectID uuid.UUID, title, description string, dueDate *time.Time, status domain.TaskStatus, assigneeID *uuid.UUID) (*domain.Task, error)
	GetByID(ctx context.Context, taskID uuid.UUID) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, page domain.Pageable) (domain.Page[domain.Task], error)
	ListByAssignee(ctx context.Context, projectID, userID uuid.UUID, page domain.Pageable) (domain.Page[domain.Task], error)
	Update(ctx context.Context, t *domain.Task) (*domain.Task, error)
	Delete(ctx context.Context, taskID uuid.UUID) error
}

// TaskPatch distinguishes an omitted assignedUserId (keep current) from an
// explicit null (unassign). Same for dueDate.
type TaskPatch struct {
	Title          *string
	Description    *string
	DueDate        domain.Patch[time.Time]
	Status         *domain.TaskStatus
	AssignedUserID domain.Patch[uuid.UUID]
}

type TaskService struct {
	repo     Repository
	members  Memberships
	identity IdentityResolver
}

func NewTaskService(repo Repository, members Memberships, identity IdentityResolver) *TaskService {
	return &TaskService{repo: repo, members: members, identity: identity}
}

func (s *TaskService) load(ctx context.Context, projectID, taskID uuid.UUID) (*domain.Task, error) {
	t, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.ProjectID != projectID {
		return nil, fmt.Errorf("%w: task does not belong to project", domain.ErrNotProjectMember)
	}
	return t, nil
}

// resolveAssignee validates an assignment target: the user must exist and
// must be a member of the project. A non-member assignee surfaces as the
// membership violation itself, not as bad input.
func (s *TaskService) resolveAssignee(ctx context.Context, projectID, userID uuid.UUID) (*domain.User, error) {
	u, err := s.identity.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.members.VerifyMember(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *TaskService) Create(ctx context.Context, callerID, projectID uuid.UUID, title, description string, dueDate *time.Time, status domain.TaskStatus, assigneeID *uuid.UUID) (*domain.Task, error) {
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: task title is required", domain.ErrInvalidInput)
	}
	if status == "" {
		status = domain.TaskTodo
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown task status %q", domain.ErrInvalidInput, status)
	}
	if assigneeID != nil {
		if _, err := s.resolveAssignee(ctx, projectID, *assigneeID); err != nil {
			return nil, err
		}
	}
	return s.repo.Create(ctx, projectID, title, description, dueDate, status, assigneeID)
}

func (s *TaskService) Get(ctx context.Context, callerID, projectID, taskID uuid.UUID) (*domain.Task, error) {
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	return s.load(ctx, projectID, taskID)
}

func (s *TaskService) List(ctx context.Context, callerID, projectID uuid.UUID, page domain.Pageable) (domain.Page[domain.Task], error) {
	var zero domain.Page[domain.Task]
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return zero, err
	}
	return s.repo.ListByProject(ctx, projectID, page)
}

// ListMine returns the caller's own assignments within a project.
func (s *TaskService) ListMine(ctx context.Context, callerID, projectID uuid.UUID, page domain.Pageable) (domain.Page[domain.Task], error) {
	var zero domain.Page[domain.Task]
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return zero, err
	}
	return s.repo.ListByAssignee(ctx, projectID, callerID, page)
}

func (s *TaskService) Update(ctx context.Context, callerID, projectID, taskID uuid.UUID, patch TaskPatch) (*domain.Task, error) {
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	t, err := s.load(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: task title cannot be blank", domain.ErrInvalidInput)
		}
		t.Title = title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.DueDate.Set {
		t.DueDate = patch.DueDate.Value
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown task status %q", domain.ErrInvalidInput, *patch.Status)
		}
		t.Status = *patch.Status
	}
	if patch.AssignedUserID.Set {
		if patch.AssignedUserID.Value == nil {
			t.AssignedUser = nil
		} else {
			u, err := s.resolveAssignee(ctx, projectID, *patch.AssignedUserID.Value)
			if err != nil {
				return nil, err
			}
			t.AssignedUser = u
		}
	}
	return s.repo.Update(ctx, t)
}

// AssignUser sets the assignee. Assigning the current assignee again is a
// no-op that returns the task unchanged.
func (s *TaskService) AssignUser(ctx context.Context, callerID, projectID, taskID, userID uuid.UUID) (*domain.Task, error) {
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	t, err := s.load(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}
	if t.AssignedUser != nil && t.AssignedUser.ID == userID {
		return t, nil
	}
	u, err := s.resolveAssignee(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	t.AssignedUser = u
	return s.repo.Update(ctx, t)
}

// UnassignUser clears the assignee. Unassigning an unassigned task is a
// no-op.
func (s *TaskService) UnassignUser(ctx context.Context, callerID, projectID, taskID uuid.UUID) (*domain.Task, error) {
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	t, err := s.load(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}
	if t.AssignedUser == nil {
		return t, nil
	}
	t.AssignedUser = nil
	return s.repo.Update(ctx, t)
}

func (s *TaskService) Delete(ctx context.Context, callerID, projectID, taskID uuid.UUID) error {
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return err
	}
	if _, err := s.load(ctx, projectID, taskID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, taskID)
}
