package http

import "github.com/gin-gonic/gin"

// Register mounts the file routes on the given group (expected to be
// .../projects with the auth middleware already applied).
func (h *Handler) Register(g gin.IRouter) {
	g.POST("/:projectId/files", h.upload)
	g.GET("/:projectId/files", h.list)
	g.GET("/:projectId/files/versions", h.listVersions)
	g.GET("/:projectId/files/:fileId", h.get)
	g.GET("/:projectId/files/:fileId/versions", h.storageVersions)
	g.GET("/:projectId/files/:fileId/download", h.download)
	g.DELETE("/:projectId/files/:fileId", h.delete)
}
