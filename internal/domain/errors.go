package domain

import "errors"

// Sentinel errors form the public failure contract of the services. The HTTP
// layer maps them to status codes; everything else surfaces as a 500.
var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrBudgetNotFound       = errors.New("budget not found")
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrMilestoneNotFound    = errors.New("milestone not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrFileNotFound         = errors.New("file not found")
	ErrCollaboratorNotFound = errors.New("collaborator not found on this project")

	// ErrNotProjectMember covers both the membership guard and
	// cross-project access attempts on sub-resources.
	ErrNotProjectMember = errors.New("user is not a member of this project")
	ErrNotProjectOwner  = errors.New("user is not the owner of this project")

	ErrBudgetExists       = errors.New("budget already exists for this project")
	ErrCollaboratorExists = errors.New("user is already a collaborator on this project")
	ErrUsernameTaken      = errors.New("username is already taken")

	ErrNotConnected = errors.New("user is not one of the owner's connections")

	// ErrInvalidInput wraps boundary validation failures; callers attach
	// detail via fmt.Errorf("%w: ...", ErrInvalidInput).
	ErrInvalidInput = errors.New("invalid input")

	// ErrStorage marks unexpected object-storage failures (missing version
	// id after upload, failed version delete). Operations fail closed.
	ErrStorage = errors.New("object storage failure")
)
