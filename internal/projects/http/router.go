package http

import "github.com/gin-gonic/gin"

// Register mounts the project routes on the given group (expected to be
// .../projects with the auth middleware already applied).
func (h *Handler) Register(g gin.IRouter) {
	g.POST("", h.create)
	g.GET("/owned", h.listOwned)
	g.GET("/collaborating", h.listCollaborating)

	g.GET("/:projectId", h.get)
	g.PATCH("/:projectId", h.update)
	g.DELETE("/:projectId", h.delete)

	g.GET("/:projectId/owner", h.owner)
	g.GET("/:projectId/collaborators", h.listCollaborators)
	g.PUT("/:projectId/collaborators/:userId", h.addCollaborator)
	g.DELETE("/:projectId/collaborators/:userId", h.removeCollaborator)
}
