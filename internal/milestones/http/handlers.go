package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/spshpau/project-service/internal/api/http"
	"github.com/spshpau/project-service/internal/auth"
	"github.com/spshpau/project-service/internal/milestones/service"
)

type Handler struct {
	svc *service.MilestoneService
}

func NewHandler(svc *service.MilestoneService) *Handler {
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
	m, err := h.svc.Create(c.Request.Context(), principal.UserID, projectID, req.Title, req.Description, req.DueDate)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
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

func (h *Handler) get(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}
	milestoneID, ok := httpapi.UUIDParam(c, "milestoneId")
	if !ok {
		return
	}

	principal, _ := auth.Current(c)
	m, err := h.svc.Get(c.Request.Context(), principal.UserID, projectID, milestoneID)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) update(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}
	milestoneID, ok := httpapi.UUIDParam(c, "milestoneId")
	if !ok {
		return
	}

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	principal, _ := auth.Current(c)
	patch := service.MilestonePatch{Title: req.Title, Description: req.Description, DueDate: req.DueDate}
	m, err := h.svc.Update(c.Request.Context(), principal.UserID, projectID, milestoneID, patch)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) delete(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}
	milestoneID, ok := httpapi.UUIDParam(c, "milestoneId")
	if !ok {
		return
	}

	principal, _ := auth.Current(c)
	if err := h.svc.Delete(c.Request.Context(), principal.UserID, projectID, milestoneID); err != nil {
		httpapi.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
