package http

import (
	"time"

	"github.com/google/uuid"

	"github.com/spshpau/project-service/internal/domain"
)

type createReq struct {
	Title          string            `json:"title" binding:"required"`
	Description    string            `json:"description"`
	DueDate        *time.Time        `json:"dueDate"`
	Status         domain.TaskStatus `json:"status"`
	AssignedUserID *uuid.UUID        `json:"assignedUserId"`
}

type updateReq struct {
	Title          *string                 `json:"title"`
	Description    *string                 `json:"description"`
	DueDate        domain.Patch[time.Time] `json:"dueDate"`
	Status         *domain.TaskStatus      `json:"status"`
	AssignedUserID domain.Patch[uuid.UUID] `json:"assignedUserId"`
}
