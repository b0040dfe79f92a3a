package http

import "github.com/gin-gonic/gin"

// Register mounts the budget routes on the given group (expected to be
// .../projects with the auth middleware already applied).
func (h *Handler) Register(g gin.IRouter) {
	g.POST("/:projectId/budget", h.create)
	g.GET("/:projectId/budget", h.get)
	g.PATCH("/:projectId/budget", h.update)
	g.DELETE("/:projectId/budget", h.delete)
	g.GET("/:projectId/budget/remaining", h.remaining)

	g.POST("/:projectId/budget/expenses", h.addExpense)
	g.GET("/:projectId/budget/expenses", h.listExpenses)
	g.GET("/:projectId/budget/expenses/:expenseId", h.getExpense)
	g.PATCH("/:projectId/budget/expenses/:expenseId", h.updateExpense)
	g.DELETE("/:projectId/budget/expenses/:expenseId", h.deleteExpense)
}
