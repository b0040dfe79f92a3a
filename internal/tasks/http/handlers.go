package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/spshpau/project-service/internal/api/http"
	"github.com/spshpau/project-service/internal/auth"
	"github.com/spshpau/project-service/internal/tasks/service"
)

type Handler struct {
	svc *service.TaskService
}

func NewHandler(svc *service.TaskService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) create(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	principal, _ := auth.Current(c)
	t, err := h.svc.Create(c.Request.Context(), principal.UserID, projectID, req.Title, req.Description, req.DueDate, req.Status, req.AssignedUserID)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *Handler) list(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}

	principal, _ := auth.Current(c)
	page, err := h.svc.List(c.Request.Context(), principal.UserID, projectID, httpapi.Pageable(c))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) listMine(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}

	principal, _ := auth.Current(c)
	page, err := h.svc.ListMine(c.Request.Context(), principal.UserID, projectID, httpapi.Pageable(c))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) get(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}
	taskID, ok := httpapi.UUIDParam(c, "taskId")
	if !ok {
		return
	}

	principal, _ := auth.Current(c)
	t, err := h.svc.Get(c.Request.Context(), principal.UserID, projectID, taskID)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) update(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}
	taskID, ok := httpapi.UUIDParam(c, "taskId")
	if !ok {
		return
	}

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	principal, _ := auth.Current(c)
	patch := service.TaskPatch{
		Title:          req.Title,
		Description:    req.Description,
		DueDate:        req.DueDate,
		Status:         req.Status,
		AssignedUserID: req.AssignedUserID,
	}
	t, err := h.svc.Update(c.Request.Context(), principal.UserID, projectID, taskID, patch)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) assign(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}
	taskID, ok := httpapi.UUIDParam(c, "taskId")
	if !ok {
		return
	}
	userID, ok := httpapi.UUIDParam(c, "userId")
	if !ok {
		return
	}

	principal, _ := auth.Current(c)
	t, err := h.svc.AssignUser(c.Request.Context(), principal.UserID, projectID, taskID, userID)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) unassign(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}
	taskID, ok := httpapi.UUIDParam(c, "taskId")
	if !ok {
		return
	}

	principal, _ := auth.Current(c)
	t, err := h.svc.UnassignUser(c.Request.Context(), principal.UserID, projectID, taskID)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) delete(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}
	taskID, ok := httpapi.UUIDParam(c, "taskId")
	if !ok {
		return
	}

	principal, _ := auth.Current(c)
	if err := h.svc.Delete(c.Request.Context(), principal.UserID, projectID, taskID); err != nil {
		httpapi.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
