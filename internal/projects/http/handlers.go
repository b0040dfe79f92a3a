package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	httpapi "github.com/spshpau/project-service/internal/api/http"
	"github.com/spshpau/project-service/internal/auth"
	"github.com/spshpau/project-service/internal/projects/service"
)

type Handler struct {
	svc *service.ProjectService
}

func NewHandler(svc *service.ProjectService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	principal, _ := auth.Current(c)
	p, err := h.svc.Create(c.Request.Context(), strings.TrimSpace(req.Title), req.Description, principal.Summary())
	if err != nil {
		httpapi.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (h *Handler) get(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}

	principal, _ := auth.Current(c)
	p, err := h.svc.Get(c.Request.Context(), projectID, principal.UserID)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) listOwned(c *gin.Context) {
	principal, _ := auth.Current(c)
	page, err := h.svc.ListOwned(c.Request.Context(), principal.UserID, httpapi.Pageable(c))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) listCollaborating(c *gin.Context) {
	principal, _ := auth.Current(c)
	page, err := h.svc.ListCollaborating(c.Request.Context(), principal.UserID, httpapi.Pageable(c))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) owner(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}

	u, err := h.svc.Owner(c.Request.Context(), projectID)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) listCollaborators(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}

	page, err := h.svc.ListCollaborators(c.Request.Context(), projectID, httpapi.Pageable(c))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) update(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	principal, _ := auth.Current(c)
	patch := service.ProjectPatch{Title: req.Title, Description: req.Description}
	p, err := h.svc.Update(c.Request.Context(), projectID, patch, principal.UserID)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) delete(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}

	principal, _ := auth.Current(c)
	if err := h.svc.Delete(c.Request.Context(), projectID, principal.UserID); err != nil {
		httpapi.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) addCollaborator(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}
	userID, ok := httpapi.UUIDParam(c, "userId")
	if !ok {
		return
	}

	principal, _ := auth.Current(c)
	p, err := h.svc.AddCollaborator(c.Request.Context(), projectID, userID, principal.UserID, principal.BearerToken)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) removeCollaborator(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}
	userID, ok := httpapi.UUIDParam(c, "userId")
	if !ok {
		return
	}

	principal, _ := auth.Current(c)
	if err := h.svc.RemoveCollaborator(c.Request.Context(), projectID, userID, principal.UserID); err != nil {
		httpapi.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
