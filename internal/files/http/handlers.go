package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/spshpau/project-service/internal/api/http"
	"github.com/spshpau/project-service/internal/auth"
	"github.com/spshpau/project-service/internal/files/service"
)

type Handler struct {
	svc *service.FileService
}

func NewHandler(svc *service.FileService) *Handler {
	return &Handler{svc: svc}
}

// upload expects multipart form data with a "file" part and an optional
// "description" field.
func (h *Handler) upload(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file part"})
		return
	}
	src, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file part"})
		return
	}
	defer src.Close()

	principal, _ := auth.Current(c)
	f, err := h.svc.Upload(
		c.Request.Context(),
		principal.Summary(),
		projectID,
		src,
		fh.Filename,
		fh.Header.Get("Content-Type"),
		fh.Size,
		c.PostForm("description"),
	)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
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

func (h *Handler) listVersions(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}
	filename := c.Query("filename")
	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filename query parameter is required"})
		return
	}

	principal, _ := auth.Current(c)
	versions, err := h.svc.ListVersions(c.Request.Context(), principal.UserID, projectID, filename)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

func (h *Handler) storageVersions(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}
	fileID, ok := httpapi.UUIDParam(c, "fileId")
	if !ok {
		return
	}

	principal, _ := auth.Current(c)
	versions, err := h.svc.StorageVersions(c.Request.Context(), principal.UserID, projectID, fileID)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

func (h *Handler) get(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}
	fileID, ok := httpapi.UUIDParam(c, "fileId")
	if !ok {
		return
	}

	principal, _ := auth.Current(c)
	f, err := h.svc.Get(c.Request.Context(), principal.UserID, projectID, fileID)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *Handler) download(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}
	fileID, ok := httpapi.UUIDParam(c, "fileId")
	if !ok {
		return
	}

	principal, _ := auth.Current(c)
	dl, err := h.svc.Download(c.Request.Context(), principal.UserID, projectID, fileID)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dl)
}

func (h *Handler) delete(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}
	fileID, ok := httpapi.UUIDParam(c, "fileId")
	if !ok {
		return
	}

	principal, _ := auth.Current(c)
	if err := h.svc.Delete(c.Request.Context(), principal.UserID, projectID, fileID); err != nil {
		httpapi.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
