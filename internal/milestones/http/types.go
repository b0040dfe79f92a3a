package http

import (
	"time"

	"github.com/spshpau/project-service/internal/domain"
)

type createReq struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
}

type updateReq struct {
	Title       *string                 `json:"title"`
	Description *string                 `json:"description"`
	DueDate     domain.Patch[time.Time] `json:"dueDate"`
}
