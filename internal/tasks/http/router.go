package http

import "github.com/gin-gonic/gin"

// Register mounts the task routes on the given group (expected to be
// .../projects with the auth middleware already applied).
func (h *Handler) Register(g gin.IRouter) {
	g.POST("/:projectId/tasks", h.create)
	g.GET("/:projectId/tasks", h.list)
	g.GET("/:projectId/tasks/mine", h.listMine)
	g.GET("/:projectId/tasks/:taskId", h.get)
	g.PATCH("/:projectId/tasks/:taskId", h.update)
	g.DELETE("/:projectId/tasks/:taskId", h.delete)

	g.PUT("/:projectId/tasks/:taskId/assignee/:userId", h.assign)
	g.DELETE("/:projectId/tasks/:taskId/assignee", h.unassign)
}
