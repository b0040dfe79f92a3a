package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spshpau/project-service/internal/domain"
)

type fakeMembers struct {
	owner   uuid.UUID
	members map[uuid.UUID]bool
}

func (f fakeMembers) VerifyMember(_ context.Context, _ uuid.UUID, userID uuid.UUID) error {
	if userID == f.owner || f.members[userID] {
		return nil
	}
	return domain.ErrNotProjectMember
}

func (f fakeMembers) IsOwner(_ context.Context, _ uuid.UUID, userID uuid.UUID) (bool, error) {
	return userID == f.owner, nil
}

type fakeBudgets struct {
	budget   *domain.Budget
	expenses *fakeExpenses
	updates  int
}

func (f *fakeBudgets) Create(_ context.Context, projectID uuid.UUID, currency string, total float64) (*domain.Budget, error) {
	if f.budget != nil {
		return nil, domain.ErrBudgetExists
	}
	f.budget = &domain.Budget{ProjectID: projectID, Currency: currency, TotalAmount: total}
	return f.budget, nil
}

func (f *fakeBudgets) GetByProjectID(context.Context, uuid.UUID) (*domain.Budget, error) {
	if f.budget == nil {
		return nil, domain.ErrBudgetNotFound
	}
	b := *f.budget
	return &b, nil
}

func (f *fakeBudgets) Update(_ context.Context, _ uuid.UUID, currency *string, total *float64) (*domain.Budget, error) {
	if f.budget == nil {
		return nil, domain.ErrBudgetNotFound
	}
	f.updates++
	if currency != nil {
		f.budget.Currency = *currency
	}
	if total != nil {
		f.budget.TotalAmount = *total
	}
	b := *f.budget
	return &b, nil
}

func (f *fakeBudgets) Delete(context.Context, uuid.UUID) error {
	if f.budget == nil {
		return domain.ErrBudgetNotFound
	}
	f.budget = nil
	return nil
}

func (f *fakeBudgets) SumExpenses(context.Context, uuid.UUID) (float64, error) {
	var sum float64
	for _, e := range f.expenses.items {
		sum += e.Amount
	}
	return sum, nil
}

type fakeExpenses struct {
	items   []domain.Expense
	updates int
}

func (f *fakeExpenses) Create(_ context.Context, budgetID uuid.UUID, amount float64, date time.Time, comment string) (*domain.Expense, error) {
	e := domain.Expense{ID: uuid.New(), BudgetID: budgetID, Amount: amount, Date: date, Comment: comment}
	f.items = append(f.items, e)
	return &e, nil
}

func (f *fakeExpenses) GetByIDAndBudget(_ context.Context, expenseID, _ uuid.UUID) (*domain.Expense, error) {
	for _, e := range f.items {
		if e.ID == expenseID {
			out := e
			return &out, nil
		}
	}
	return nil, domain.ErrExpenseNotFound
}

func (f *fakeExpenses) ListByBudget(_ context.Context, _ uuid.UUID, page domain.Pageable) (domain.Page[domain.Expense], error) {
	return domain.NewPage(f.items, page.Normalize(), int64(len(f.items))), nil
}

func (f *fakeExpenses) ListAllByBudget(context.Context, uuid.UUID) ([]domain.Expense, error) {
	return f.items, nil
}

func (f *fakeExpenses) Update(_ context.Context, expenseID, _ uuid.UUID, amount *float64, date *time.Time, comment *string) (*domain.Expense, error) {
	for i := range f.items {
		if f.items[i].ID == expenseID {
			f.updates++
			if amount != nil {
				f.items[i].Amount = *amount
			}
			if date != nil {
				f.items[i].Date = *date
			}
			if comment != nil {
				f.items[i].Comment = *comment
			}
			out := f.items[i]
			return &out, nil
		}
	}
	return nil, domain.ErrExpenseNotFound
}

func (f *fakeExpenses) Delete(_ context.Context, expenseID, _ uuid.UUID) error {
	for i := range f.items {
		if f.items[i].ID == expenseID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrExpenseNotFound
}

func newTestService() (*BudgetService, *fakeBudgets, *fakeExpenses, uuid.UUID, uuid.UUID) {
	owner := uuid.New()
	member := uuid.New()
	expenses := &fakeExpenses{}
	budgets := &fakeBudgets{expenses: expenses}
	members := fakeMembers{owner: owner, members: map[uuid.UUID]bool{member: true}}
	return NewBudgetService(budgets, expenses, members), budgets, expenses, owner, member
}

func TestCreateBudgetOwnerOnly(t *testing.T) {
	svc, _, _, owner, member := newTestService()
	projectID := uuid.New()

	_, err := svc.Create(context.Background(), member, projectID, "USD", 1000)
	assert.ErrorIs(t, err, domain.ErrNotProjectOwner)

	b, err := svc.Create(context.Background(), owner, projectID, "USD", 1000)
	require.NoError(t, err)
	assert.Equal(t, float64(0), b.SpentAmount)
	assert.Empty(t, b.Expenses)
}

func TestCreateBudgetRejectsNonPositiveTotal(t *testing.T) {
	svc, _, _, owner, _ := newTestService()

	_, err := svc.Create(context.Background(), owner, uuid.New(), "USD", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateSecondBudgetConflicts(t *testing.T) {
	svc, _, _, owner, _ := newTestService()
	projectID := uuid.New()

	_, err := svc.Create(context.Background(), owner, projectID, "USD", 1000)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), owner, projectID, "EUR", 500)
	assert.ErrorIs(t, err, domain.ErrBudgetExists)
}

func TestRemainingComputation(t *testing.T) {
	svc, _, _, owner, member := newTestService()
	projectID := uuid.New()

	_, err := svc.Create(context.Background(), owner, projectID, "USD", 1000)
	require.NoError(t, err)

	// A budget with no expenses has spent exactly zero.
	r, err := svc.Remaining(context.Background(), member, projectID)
	require.NoError(t, err)
	assert.Equal(t, float64(0), r.SpentAmount)
	assert.Equal(t, float64(1000), r.RemainingAmount)

	_, err = svc.AddExpense(context.Background(), member, projectID, 250, nil, "gear")
	require.NoError(t, err)

	r, err = svc.Remaining(context.Background(), member, projectID)
	require.NoError(t, err)
	assert.Equal(t, float64(250), r.SpentAmount)
	assert.Equal(t, float64(750), r.RemainingAmount)
	assert.Equal(t, "USD", r.Currency)
}

func TestRemainingMayGoNegative(t *testing.T) {
	svc, _, _, owner, member := newTestService()
	projectID := uuid.New()

	_, err := svc.Create(context.Background(), owner, projectID, "USD", 100)
	require.NoError(t, err)
	_, err = svc.AddExpense(context.Background(), member, projectID, 250, nil, "")
	require.NoError(t, err)

	r, err := svc.Remaining(context.Background(), member, projectID)
	require.NoError(t, err)
	assert.Equal(t, float64(-150), r.RemainingAmount)
}

func TestUpdateBudgetNoOpSkipsWrite(t *testing.T) {
	svc, budgets, _, owner, _ := newTestService()
	projectID := uuid.New()

	_, err := svc.Create(context.Background(), owner, projectID, "USD", 1000)
	require.NoError(t, err)

	currency := "USD"
	total := float64(1000)
	_, err = svc.Update(context.Background(), owner, projectID, BudgetPatch{Currency: &currency, TotalAmount: &total})
	require.NoError(t, err)
	assert.Equal(t, 0, budgets.updates, "unchanged patch must not write")

	newTotal := float64(2000)
	b, err := svc.Update(context.Background(), owner, projectID, BudgetPatch{TotalAmount: &newTotal})
	require.NoError(t, err)
	assert.Equal(t, 1, budgets.updates)
	assert.Equal(t, float64(2000), b.TotalAmount)
}

func TestAddExpenseValidation(t *testing.T) {
	svc, _, _, owner, member := newTestService()
	projectID := uuid.New()

	_, err := svc.Create(context.Background(), owner, projectID, "USD", 1000)
	require.NoError(t, err)

	_, err = svc.AddExpense(context.Background(), member, projectID, -5, nil, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	future := time.Now().Add(24 * time.Hour)
	_, err = svc.AddExpense(context.Background(), member, projectID, 10, &future, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.AddExpense(context.Background(), uuid.New(), projectID, 10, nil, "")
	assert.ErrorIs(t, err, domain.ErrNotProjectMember)
}

func TestAddExpenseDefaultsDateToNow(t *testing.T) {
	svc, _, _, owner, member := newTestService()
	projectID := uuid.New()

	_, err := svc.Create(context.Background(), owner, projectID, "USD", 1000)
	require.NoError(t, err)

	before := time.Now()
	e, err := svc.AddExpense(context.Background(), member, projectID, 10, nil, "strings")
	require.NoError(t, err)
	assert.False(t, e.Date.Before(before))
	assert.False(t, e.Date.After(time.Now()))
}

func TestUpdateExpenseNoOpSkipsWrite(t *testing.T) {
	svc, _, expenses, owner, member := newTestService()
	projectID := uuid.New()

	_, err := svc.Create(context.Background(), owner, projectID, "USD", 1000)
	require.NoError(t, err)
	created, err := svc.AddExpense(context.Background(), member, projectID, 50, nil, "picks")
	require.NoError(t, err)

	amount := float64(50)
	comment := "picks"
	_, err = svc.UpdateExpense(context.Background(), member, projectID, created.ID, ExpensePatch{Amount: &amount, Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, 0, expenses.updates)

	newAmount := float64(75)
	updated, err := svc.UpdateExpense(context.Background(), member, projectID, created.ID, ExpensePatch{Amount: &newAmount})
	require.NoError(t, err)
	assert.Equal(t, 1, expenses.updates)
	assert.Equal(t, float64(75), updated.Amount)
}

func TestDeleteBudgetOwnerOnly(t *testing.T) {
	svc, _, _, owner, member := newTestService()
	projectID := uuid.New()

	_, err := svc.Create(context.Background(), owner, projectID, "USD", 1000)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), member, projectID), domain.ErrNotProjectOwner)
	require.NoError(t, svc.Delete(context.Background(), owner, projectID))

	_, err = svc.Get(context.Background(), owner, projectID)
	assert.ErrorIs(t, err, domain.ErrBudgetNotFound)
}
