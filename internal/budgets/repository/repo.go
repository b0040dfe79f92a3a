package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spshpau/project-service/internal/domain"
)

const uniqueViolation = "23505"

// BudgetRepository persists project budgets. A budget shares its project's
// primary key; the PK is the storage-level backstop for the
// one-budget-per-project invariant.
type BudgetRepository struct {
	db *pgxpool.Pool
}

func NewBudgetRepository(db *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) Create(ctx context.Context, projectID uuid.UUID, currency string, totalAmount float64) (*domain.Budget, error) {
	const q = `
insert into project_budgets (project_id, currency, total_amount)
values ($1, $2, $3)
returning project_id, currency, total_amount;
`
	var b domain.Budget
	err := r.db.QueryRow(ctx, q, projectID, currency, totalAmount).
		Scan(&b.ProjectID, &b.Currency, &b.TotalAmount)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrBudgetExists
		}
		return nil, err
	}
	return &b, nil
}

func (r *BudgetRepository) GetByProjectID(ctx context.Context, projectID uuid.UUID) (*domain.Budget, error) {
	const q = `select project_id, currency, total_amount from project_budgets where project_id = $1;`
	var b domain.Budget
	err := r.db.QueryRow(ctx, q, projectID).Scan(&b.ProjectID, &b.Currency, &b.TotalAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BudgetRepository) Update(ctx context.Context, projectID uuid.UUID, currency *string, totalAmount *float64) (*domain.Budget, error) {
	const q = `
update project_budgets
set currency = coalesce($2, currency),
    total_amount = coalesce($3, total_amount)
where project_id = $1
returning project_id, currency, total_amount;
`
	var b domain.Budget
	err := r.db.QueryRow(ctx, q, projectID, currency, totalAmount).
		Scan(&b.ProjectID, &b.Currency, &b.TotalAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BudgetRepository) Delete(ctx context.Context, projectID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `delete from project_budgets where project_id = $1;`, projectID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

// SumExpenses computes the spent amount. The COALESCE is load-bearing: a
// budget with no expenses spends exactly 0, never null.
func (r *BudgetRepository) SumExpenses(ctx context.Context, budgetID uuid.UUID) (float64, error) {
	const q = `select coalesce(sum(amount), 0) from budget_expenses where budget_id = $1;`
	var sum float64
	if err := r.db.QueryRow(ctx, q, budgetID).Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}

// ExpenseRepository persists the expense collection of a budget.
type ExpenseRepository struct {
	db *pgxpool.Pool
}

func NewExpenseRepository(db *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, budgetID uuid.UUID, amount float64, date time.Time, comment string) (*domain.Expense, error) {
	const q = `
insert into budget_expenses (id, budget_id, amount, spent_at, comment)
values ($1, $2, $3, $4, nullif($5,''))
returning id, budget_id, amount, spent_at, coalesce(comment,'');
`
	var e domain.Expense
	err := r.db.QueryRow(ctx, q, uuid.New(), budgetID, amount, date, comment).
		Scan(&e.ID, &e.BudgetID, &e.Amount, &e.Date, &e.Comment)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByIDAndBudget treats an expense belonging to another budget as absent.
func (r *ExpenseRepository) GetByIDAndBudget(ctx context.Context, expenseID, budgetID uuid.UUID) (*domain.Expense, error) {
	const q = `
select id, budget_id, amount, spent_at, coalesce(comment,'')
from budget_expenses
where id = $1 and budget_id = $2;
`
	var e domain.Expense
	err := r.db.QueryRow(ctx, q, expenseID, budgetID).
		Scan(&e.ID, &e.BudgetID, &e.Amount, &e.Date, &e.Comment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *ExpenseRepository) ListByBudget(ctx context.Context, budgetID uuid.UUID, page domain.Pageable) (domain.Page[domain.Expense], error) {
	var zero domain.Page[domain.Expense]
	page = page.Normalize()

	var total int64
	if err := r.db.QueryRow(ctx, `select count(*) from budget_expenses where budget_id = $1;`, budgetID).Scan(&total); err != nil {
		return zero, err
	}

	const q = `
select id, budget_id, amount, spent_at, coalesce(comment,'')
from budget_expenses
where budget_id = $1
order by spent_at desc, id desc
limit $2 offset $3;
`
	rows, err := r.db.Query(ctx, q, budgetID, page.Size, page.Offset())
	if err != nil {
		return zero, err
	}
	defer rows.Close()

	items := make([]domain.Expense, 0, page.Size)
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.BudgetID, &e.Amount, &e.Date, &e.Comment); err != nil {
			return zero, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return zero, err
	}
	return domain.NewPage(items, page, total), nil
}

// ListAllByBudget returns the full expense set, newest first. Used by the
// budget detail view.
func (r *ExpenseRepository) ListAllByBudget(ctx context.Context, budgetID uuid.UUID) ([]domain.Expense, error) {
	const q = `
select id, budget_id, amount, spent_at, coalesce(comment,'')
from budget_expenses
where budget_id = $1
order by spent_at desc, id desc;
`
	rows, err := r.db.Query(ctx, q, budgetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Expense, 0, 16)
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.BudgetID, &e.Amount, &e.Date, &e.Comment); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *ExpenseRepository) Update(ctx context.Context, expenseID, budgetID uuid.UUID, amount *float64, date *time.Time, comment *string) (*domain.Expense, error) {
	const q = `
update budget_expenses
set amount = coalesce($3, amount),
    spent_at = coalesce($4, spent_at),
    comment = coalesce($5, comment)
where id = $1 and budget_id = $2
returning id, budget_id, amount, spent_at, coalesce(comment,'');
`
	var e domain.Expense
	err := r.db.QueryRow(ctx, q, expenseID, budgetID, amount, date, comment).
		Scan(&e.ID, &e.BudgetID, &e.Amount, &e.Date, &e.Comment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, expenseID, budgetID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `delete from budget_expenses where id = $1 and budget_id = $2;`, expenseID, budgetID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}
