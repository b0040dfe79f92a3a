package http

import "github.com/gin-gonic/gin"

// Register mounts the milestone routes on the given group (expected to be
// .../projects with the auth middleware already applied).
func (h *Handler) Register(g gin.IRouter) {
	g.POST("/:projectId/milestones", h.create)
	g.GET("/:projectId/milestones", h.list)
	g.GET("/:projectId/milestones/:milestoneId", h.get)
	g.PATCH("/:projectId/milestones/:milestoneId", h.update)
	g.DELETE("/:projectId/milestones/:milestoneId", h.delete)
}
