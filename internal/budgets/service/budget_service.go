package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spshpau/project-service/internal/domain"
)

// Memberships is the slice of the project service this package consumes for
// access checks.
type Memberships interface {
	VerifyMember(ctx context.Context, projectID, userID uuid.UUID) error
	IsOwner(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
}

type BudgetRepository interface {
	Create(ctx context.Context, projectID uuid.UUID, currency string, totalAmount float64) (*domain.Budget, error)
	GetByProjectID(ctx context.Context, projectID uuid.UUID) (*domain.Budget, error)
	Update(ctx context.Context, projectID uuid.UUID, currency *string, totalAmount *float64) (*domain.Budget, error)
	Delete(ctx context.Context, projectID uuid.UUID) error
	SumExpenses(ctx context.Context, budgetID uuid.UUID) (float64, error)
}

type ExpenseRepository interface {
	Create(ctx context.Context, budgetID uuid.UUID, amount float64, date time.Time, comment string) (*domain.Expense, error)
	GetByIDAndBudget(ctx context.Context, expenseID, budgetID uuid.UUID) (*domain.Expense, error)
	ListByBudget(ctx context.Context, budgetID uuid.UUID, page domain.Pageable) (domain.Page[domain.Expense], error)
	ListAllByBudget(ctx context.Context, budgetID uuid.UUID) ([]domain.Expense, error)
	Update(ctx context.Context, expenseID, budgetID uuid.UUID, amount *float64, date *time.Time, comment *string) (*domain.Expense, error)
	Delete(ctx context.Context, expenseID, budgetID uuid.UUID) error
}

// BudgetView is the detail shape: the stored envelope plus the computed
// spend figures and the expense set.
type BudgetView struct {
	ProjectID   uuid.UUID        `json:"projectId"`
	Currency    string           `json:"currency"`
	TotalAmount float64          `json:"totalAmount"`
	SpentAmount float64          `json:"spentAmount"`
	Expenses    []domain.Expense `json:"expenses"`
}

type BudgetPatch struct {
	Currency    *string
	TotalAmount *float64
}

type ExpensePatch struct {
	Amount  *float64
	Date    *time.Time
	Comment *string
}

type BudgetService struct {
	budgets  BudgetRepository
	expenses ExpenseRepository
	members  Memberships
	now      func() time.Time
}

func NewBudgetService(budgets BudgetRepository, expenses ExpenseRepository, members Memberships) *BudgetService {
	return &BudgetService{budgets: budgets, expenses: expenses, members: members, now: time.Now}
}

func (s *BudgetService) requireOwner(ctx context.Context, projectID, userID uuid.UUID) error {
	owner, err := s.members.IsOwner(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !owner {
		return domain.ErrNotProjectOwner
	}
	return nil
}

func (s *BudgetService) view(ctx context.Context, b *domain.Budget) (*BudgetView, error) {
	spent, err := s.budgets.SumExpenses(ctx, b.ProjectID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenses.ListAllByBudget(ctx, b.ProjectID)
	if err != nil {
		return nil, err
	}
	return &BudgetView{
		ProjectID:   b.ProjectID,
		Currency:    b.Currency,
		TotalAmount: b.TotalAmount,
		SpentAmount: spent,
		Expenses:    expenses,
	}, nil
}

func (s *BudgetService) Create(ctx context.Context, callerID, projectID uuid.UUID, currency string, totalAmount float64) (*BudgetView, error) {
	if err := s.requireOwner(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	if totalAmount <= 0 {
		return nil, fmt.Errorf("%w: total amount must be positive", domain.ErrInvalidInput)
	}
	if currency == "" {
		return nil, fmt.Errorf("%w: currency is required", domain.ErrInvalidInput)
	}
	b, err := s.budgets.Create(ctx, projectID, currency, totalAmount)
	if err != nil {
		return nil, err
	}
	return &BudgetView{ProjectID: b.ProjectID, Currency: b.Currency, TotalAmount: b.TotalAmount, Expenses: []domain.Expense{}}, nil
}

func (s *BudgetService) Get(ctx context.Context, callerID, projectID uuid.UUID) (*BudgetView, error) {
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	b, err := s.budgets.GetByProjectID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, b)
}

// Update is owner only. A patch that changes nothing is a no-op: the stored
// row is left untouched and the current state is returned.
func (s *BudgetService) Update(ctx context.Context, callerID, projectID uuid.UUID, patch BudgetPatch) (*BudgetView, error) {
	if err := s.requireOwner(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	if patch.TotalAmount != nil && *patch.TotalAmount <= 0 {
		return nil, fmt.Errorf("%w: total amount must be positive", domain.ErrInvalidInput)
	}
	if patch.Currency != nil && *patch.Currency == "" {
		return nil, fmt.Errorf("%w: currency cannot be blank", domain.ErrInvalidInput)
	}

	current, err := s.budgets.GetByProjectID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	unchanged := (patch.Currency == nil || *patch.Currency == current.Currency) &&
		(patch.TotalAmount == nil || *patch.TotalAmount == current.TotalAmount)
	if unchanged {
		return s.view(ctx, current)
	}

	updated, err := s.budgets.Update(ctx, projectID, patch.Currency, patch.TotalAmount)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, updated)
}

func (s *BudgetService) Delete(ctx context.Context, callerID, projectID uuid.UUID) error {
	if err := s.requireOwner(ctx, projectID, callerID); err != nil {
		return err
	}
	return s.budgets.Delete(ctx, projectID)
}

// Remaining reports total, spent and the difference. Remaining may go
// negative; overspend is reported rather than rejected.
func (s *BudgetService) Remaining(ctx context.Context, callerID, projectID uuid.UUID) (*domain.RemainingBudget, error) {
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	b, err := s.budgets.GetByProjectID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	spent, err := s.budgets.SumExpenses(ctx, b.ProjectID)
	if err != nil {
		return nil, err
	}
	return &domain.RemainingBudget{
		TotalAmount:     b.TotalAmount,
		SpentAmount:     spent,
		RemainingAmount: b.TotalAmount - spent,
		Currency:        b.Currency,
	}, nil
}

func (s *BudgetService) validateExpense(amount float64, date time.Time) error {
	if amount <= 0 {
		return fmt.Errorf("%w: expense amount must be positive", domain.ErrInvalidInput)
	}
	if date.After(s.now()) {
		return fmt.Errorf("%w: expense date cannot be in the future", domain.ErrInvalidInput)
	}
	return nil
}

// AddExpense is open to any member. A zero date defaults to the current
// time.
func (s *BudgetService) AddExpense(ctx context.Context, callerID, projectID uuid.UUID, amount float64, date *time.Time, comment string) (*domain.Expense, error) {
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	b, err := s.budgets.GetByProjectID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	when := s.now()
	if date != nil {
		when = *date
	}
	if err := s.validateExpense(amount, when); err != nil {
		return nil, err
	}
	return s.expenses.Create(ctx, b.ProjectID, amount, when, comment)
}

func (s *BudgetService) GetExpense(ctx context.Context, callerID, projectID, expenseID uuid.UUID) (*domain.Expense, error) {
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	b, err := s.budgets.GetByProjectID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.expenses.GetByIDAndBudget(ctx, expenseID, b.ProjectID)
}

func (s *BudgetService) ListExpenses(ctx context.Context, callerID, projectID uuid.UUID, page domain.Pageable) (domain.Page[domain.Expense], error) {
	var zero domain.Page[domain.Expense]
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return zero, err
	}
	b, err := s.budgets.GetByProjectID(ctx, projectID)
	if err != nil {
		return zero, err
	}
	return s.expenses.ListByBudget(ctx, b.ProjectID, page)
}

// UpdateExpense applies a partial update. Like budget updates, a patch that
// leaves every field at its current value skips the write.
func (s *BudgetService) UpdateExpense(ctx context.Context, callerID, projectID, expenseID uuid.UUID, patch ExpensePatch) (*domain.Expense, error) {
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	b, err := s.budgets.GetByProjectID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	current, err := s.expenses.GetByIDAndBudget(ctx, expenseID, b.ProjectID)
	if err != nil {
		return nil, err
	}

	amount := current.Amount
	if patch.Amount != nil {
		amount = *patch.Amount
	}
	when := current.Date
	if patch.Date != nil {
		when = *patch.Date
	}
	if err := s.validateExpense(amount, when); err != nil {
		return nil, err
	}

	unchanged := amount == current.Amount &&
		when.Equal(current.Date) &&
		(patch.Comment == nil || *patch.Comment == current.Comment)
	if unchanged {
		return current, nil
	}
	return s.expenses.Update(ctx, expenseID, b.ProjectID, patch.Amount, patch.Date, patch.Comment)
}

func (s *BudgetService) DeleteExpense(ctx context.Context, callerID, projectID, expenseID uuid.UUID) error {
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return err
	}
	b, err := s.budgets.GetByProjectID(ctx, projectID)
	if err != nil {
		return err
	}
	return s.expenses.Delete(ctx, expenseID, b.ProjectID)
}
