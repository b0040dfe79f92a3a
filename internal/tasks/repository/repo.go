package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spshpau/project-service/internal/domain"
)

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `
t.id, t.project_id, t.title, coalesce(t.description,''), t.created_at, t.due_date, t.status,
u.id, u.username, u.first_name, u.last_name, coalesce(u.location,'')
`

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	var assigneeID *uuid.UUID
	var username, firstName, lastName, location *string
	err := row.Scan(
		&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.CreatedAt, &t.DueDate, &t.Status,
		&assigneeID, &username, &firstName, &lastName, &location,
	)
	if err != nil {
		return nil, err
	}
	if assigneeID != nil {
		t.AssignedUser = &domain.User{
			ID:        *assigneeID,
			Username:  deref(username),
			FirstName: deref(firstName),
			LastName:  deref(lastName),
			Location:  deref(location),
		}
	}
	return &t, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *TaskRepository) Create(ctx context.Context, projectID uuid.UUID, title, description string, dueDate *time.Time, status domain.TaskStatus, assigneeID *uuid.UUID) (*domain.Task, error) {
	const q = `
with inserted as (
    insert into project_tasks (id, project_id, title, description, created_at, due_date, status, assigned_user_id)
    values ($1, $2, $3, nullif($4,''), now(), $5, $6, $7)
    returning *
)
select ` + taskColumns + `
from inserted t
left join users u on u.id = t.assigned_user_id;
`
	return scanTask(r.db.QueryRow(ctx, q, uuid.New(), projectID, title, description, dueDate, status, assigneeID))
}

func (r *TaskRepository) GetByID(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	const q = `
select ` + taskColumns + `
from project_tasks t
left join users u on u.id = t.assigned_user_id
where t.id = $1;
`
	t, err := scanTask(r.db.QueryRow(ctx, q, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID uuid.UUID, page domain.Pageable) (domain.Page[domain.Task], error) {
	const countQ = `select count(*) from project_tasks where project_id = $1;`
	const q = `
select ` + taskColumns + `
from project_tasks t
left join users u on u.id = t.assigned_user_id
where t.project_id = $1
order by t.created_at desc, t.id desc
limit $2 offset $3;
`
	return r.list(ctx, countQ, q, projectID, page)
}

// ListByAssignee returns the tasks of a project assigned to one user.
func (r *TaskRepository) ListByAssignee(ctx context.Context, projectID, userID uuid.UUID, page domain.Pageable) (domain.Page[domain.Task], error) {
	var zero domain.Page[domain.Task]
	page = page.Normalize()

	var total int64
	err := r.db.QueryRow(ctx,
		`select count(*) from project_tasks where project_id = $1 and assigned_user_id = $2;`,
		projectID, userID,
	).Scan(&total)
	if err != nil {
		return zero, err
	}

	const q = `
select ` + taskColumns + `
from project_tasks t
left join users u on u.id = t.assigned_user_id
where t.project_id = $1 and t.assigned_user_id = $2
order by t.created_at desc, t.id desc
limit $3 offset $4;
`
	rows, err := r.db.Query(ctx, q, projectID, userID, page.Size, page.Offset())
	if err != nil {
		return zero, err
	}
	defer rows.Close()
	return collectTasks(rows, page, total)
}

func (r *TaskRepository) list(ctx context.Context, countQ, q string, projectID uuid.UUID, page domain.Pageable) (domain.Page[domain.Task], error) {
	var zero domain.Page[domain.Task]
	page = page.Normalize()

	var total int64
	if err := r.db.QueryRow(ctx, countQ, projectID).Scan(&total); err != nil {
		return zero, err
	}

	rows, err := r.db.Query(ctx, q, projectID, page.Size, page.Offset())
	if err != nil {
		return zero, err
	}
	defer rows.Close()
	return collectTasks(rows, page, total)
}

func collectTasks(rows pgx.Rows, page domain.Pageable, total int64) (domain.Page[domain.Task], error) {
	var zero domain.Page[domain.Task]
	items := make([]domain.Task, 0, page.Size)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return zero, err
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return zero, err
	}
	return domain.NewPage(items, page, total), nil
}

// Update overwrites the stored row with the given state, assignment
// included. Partial-update semantics are resolved in the service.
func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	var assigneeID *uuid.UUID
	if t.AssignedUser != nil {
		assigneeID = &t.AssignedUser.ID
	}
	const q = `
with updated as (
    update project_tasks
    set title = $2, description = nullif($3,''), due_date = $4, status = $5, assigned_user_id = $6
    where id = $1
    returning *
)
select ` + taskColumns + `
from updated t
left join users u on u.id = t.assigned_user_id;
`
	out, err := scanTask(r.db.QueryRow(ctx, q, t.ID, t.Title, t.Description, t.DueDate, t.Status, assigneeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return out, nil
}

func (r *TaskRepository) Delete(ctx context.Context, taskID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `delete from project_tasks where id = $1;`, taskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}
