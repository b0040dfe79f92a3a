package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/spshpau/project-service/internal/api/http"
	"github.com/spshpau/project-service/internal/auth"
	"github.com/spshpau/project-service/internal/budgets/service"
)

type Handler struct {
	svc *service.BudgetService
}

func NewHandler(svc *service.BudgetService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) create(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}

	var req createBudgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	principal, _ := auth.Current(c)
	b, err := h.svc.Create(c.Request.Context(), principal.UserID, projectID, req.Currency, req.TotalAmount)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) get(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}

	principal, _ := auth.Current(c)
	b, err := h.svc.Get(c.Request.Context(), principal.UserID, projectID)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) update(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}

	var req updateBudgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	principal, _ := auth.Current(c)
	patch := service.BudgetPatch{Currency: req.Currency, TotalAmount: req.TotalAmount}
	b, err := h.svc.Update(c.Request.Context(), principal.UserID, projectID, patch)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) delete(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}

	principal, _ := auth.Current(c)
	if err := h.svc.Delete(c.Request.Context(), principal.UserID, projectID); err != nil {
		httpapi.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) remaining(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}

	principal, _ := auth.Current(c)
	r, err := h.svc.Remaining(c.Request.Context(), principal.UserID, projectID)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) addExpense(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}

	var req createExpenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	principal, _ := auth.Current(c)
	e, err := h.svc.AddExpense(c.Request.Context(), principal.UserID, projectID, req.Amount, req.Date, req.Comment)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) listExpenses(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}

	principal, _ := auth.Current(c)
	page, err := h.svc.ListExpenses(c.Request.Context(), principal.UserID, projectID, httpapi.Pageable(c))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) getExpense(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}
	expenseID, ok := httpapi.UUIDParam(c, "expenseId")
	if !ok {
		return
	}

	principal, _ := auth.Current(c)
	e, err := h.svc.GetExpense(c.Request.Context(), principal.UserID, projectID, expenseID)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) updateExpense(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}
	expenseID, ok := httpapi.UUIDParam(c, "expenseId")
	if !ok {
		return
	}

	var req updateExpenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	principal, _ := auth.Current(c)
	patch := service.ExpensePatch{Amount: req.Amount, Date: req.Date, Comment: req.Comment}
	e, err := h.svc.UpdateExpense(c.Request.Context(), principal.UserID, projectID, expenseID, patch)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) deleteExpense(c *gin.Context) {
	projectID, ok := httpapi.UUIDParam(c, "projectId")
	if !ok {
		return
	}
	expenseID, ok := httpapi.UUIDParam(c, "expenseId")
	if !ok {
		return
	}

	principal, _ := auth.Current(c)
	if err := h.svc.DeleteExpense(c.Request.Context(), principal.UserID, projectID, expenseID); err != nil {
		httpapi.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
