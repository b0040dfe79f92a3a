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

type MilestoneRepository struct {
	db *pgxpool.Pool
}

func NewMilestoneRepository(db *pgxpool.Pool) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

func (r *MilestoneRepository) Create(ctx context.Context, projectID uuid.UUID, title, description string, dueDate *time.Time) (*domain.Milestone, error) {
	const q = `
insert into project_milestones (id, project_id, title, description, due_date)
values ($1, $2, $3, nullif($4,''), $5)
returning id, project_id, title, coalesce(description,''), due_date;
`
	var m domain.Milestone
	err := r.db.QueryRow(ctx, q, uuid.New(), projectID, title, description, dueDate).
		Scan(&m.ID, &m.ProjectID, &m.Title, &m.Description, &m.DueDate)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByID looks a milestone up by id alone; the caller checks project
// ownership of the row.
func (r *MilestoneRepository) GetByID(ctx context.Context, milestoneID uuid.UUID) (*domain.Milestone, error) {
	const q = `
select id, project_id, title, coalesce(description,''), due_date
from project_milestones
where id = $1;
`
	var m domain.Milestone
	err := r.db.QueryRow(ctx, q, milestoneID).
		Scan(&m.ID, &m.ProjectID, &m.Title, &m.Description, &m.DueDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMilestoneNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MilestoneRepository) ListByProject(ctx context.Context, projectID uuid.UUID, page domain.Pageable) (domain.Page[domain.Milestone], error) {
	var zero domain.Page[domain.Milestone]
	page = page.Normalize()

	var total int64
	if err := r.db.QueryRow(ctx, `select count(*) from project_milestones where project_id = $1;`, projectID).Scan(&total); err != nil {
		return zero, err
	}

	const q = `
select id, project_id, title, coalesce(description,''), due_date
from project_milestones
where project_id = $1
order by due_date asc nulls last, title asc
limit $2 offset $3;
`
	rows, err := r.db.Query(ctx, q, projectID, page.Size, page.Offset())
	if err != nil {
		return zero, err
	}
	defer rows.Close()

	items := make([]domain.Milestone, 0, page.Size)
	for rows.Next() {
		var m domain.Milestone
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Title, &m.Description, &m.DueDate); err != nil {
			return zero, err
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return zero, err
	}
	return domain.NewPage(items, page, total), nil
}

// Update overwrites the stored row with the given state. Partial-update
// semantics, including due date clearing, are resolved in the service.
func (r *MilestoneRepository) Update(ctx context.Context, m *domain.Milestone) (*domain.Milestone, error) {
	const q = `
update project_milestones
set title = $2, description = nullif($3,''), due_date = $4
where id = $1
returning id, project_id, title, coalesce(description,''), due_date;
`
	var out domain.Milestone
	err := r.db.QueryRow(ctx, q, m.ID, m.Title, m.Description, m.DueDate).
		Scan(&out.ID, &out.ProjectID, &out.Title, &out.Description, &out.DueDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMilestoneNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *MilestoneRepository) Delete(ctx context.Context, milestoneID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `delete from project_milestones where id = $1;`, milestoneID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMilestoneNotFound
	}
	return nil
}
