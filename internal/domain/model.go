package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a lazily materialized copy of an externally managed identity.
// The id is issued by the identity provider and reused verbatim; fields are
// captured on first reference and never re-synced afterward.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Location  string    `json:"location,omitempty"`
}

// UserSummary is the wire shape the connections directory and token claims
// supply for a user. It carries everything needed to materialize a User row.
type UserSummary struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Location  string    `json:"location,omitempty"`
}

// Project is the aggregate root. Owner is required and immutable in
// practice; the collaborator set never contains the owner.
type Project struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Owner         User      `json:"owner"`
	Collaborators []User    `json:"collaborators"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Budget is the single financial envelope of a project. It shares the
// project's primary key, which is what enforces the one-budget-per-project
// invariant at the storage layer.
type Budget struct {
	ProjectID   uuid.UUID `json:"projectId"`
	Currency    string    `json:"currency"`
	TotalAmount float64   `json:"totalAmount"`
}

type Expense struct {
	ID       uuid.UUID `json:"id"`
	BudgetID uuid.UUID `json:"budgetId"`
	Amount   float64   `json:"amount"`
	Date     time.Time `json:"date"`
	Comment  string    `json:"comment,omitempty"`
}

// RemainingBudget is the computed spend view. Remaining may be negative;
// over-budget is surfaced, not rejected.
type RemainingBudget struct {
	TotalAmount     float64 `json:"totalAmount"`
	SpentAmount     float64 `json:"spentAmount"`
	RemainingAmount float64 `json:"remainingAmount"`
	Currency        string  `json:"currency"`
}

type Milestone struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   uuid.UUID  `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate"`
}

// TaskStatus is a closed set; anything else is rejected at the boundary.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskReview     TaskStatus = "REVIEW"
	TaskDone       TaskStatus = "DONE"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskReview, TaskDone:
		return true
	}
	return false
}

type Task struct {
	ID           uuid.UUID  `json:"id"`
	ProjectID    uuid.UUID  `json:"projectId"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	DueDate      *time.Time `json:"dueDate"`
	Status       TaskStatus `json:"status"`
	AssignedUser *User      `json:"assignedUser"`
}

// ProjectFile is one uploaded version of a filename within a project. Every
// upload creates a new row; rows sharing OriginalFilename form the file's
// history, with the current version being the most recent UploadTimestamp
// (ties broken by highest id).
type ProjectFile struct {
	ID               uuid.UUID `json:"id"`
	ProjectID        uuid.UUID `json:"projectId"`
	UploadedBy       User      `json:"uploadedBy"`
	OriginalFilename string    `json:"originalFilename"`
	StorageKey       string    `json:"storageKey"`
	StorageVersionID string    `json:"storageVersionId"`
	ContentType      string    `json:"contentType"`
	FileSize         int64     `json:"fileSize"`
	UploadTimestamp  time.Time `json:"uploadTimestamp"`
	Description      string    `json:"description,omitempty"`
}

// FileDownload pairs a time-limited signed URL with the filename a client
// should save it as.
type FileDownload struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}
