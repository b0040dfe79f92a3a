package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spshpau/project-service/internal/domain"
)

const uniqueViolation = "23505"

// ProjectRepository provides persistence operations for the project
// aggregate: the project row, the ownership relation and the collaborator
// join table.
type ProjectRepository struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Membership is the derived role of a user on a project, recomputed from
// the aggregate on every call.
type Membership struct {
	IsOwner        bool
	IsCollaborator bool
}

func (m Membership) IsMember() bool {
	return m.IsOwner || m.IsCollaborator
}

func (r *ProjectRepository) Create(ctx context.Context, ownerID uuid.UUID, title, description string) (*domain.Project, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title required", domain.ErrInvalidInput)
	}

	const q = `
insert into projects (id, title, description, owner_id)
values ($1, $2, nullif($3,''), $4)
returning id, title, coalesce(description,''), created_at, updated_at;
`
	var p domain.Project
	err := r.db.QueryRow(ctx, q, uuid.New(), title, description, ownerID).
		Scan(&p.ID, &p.Title, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Collaborators = []domain.User{}
	return &p, nil
}

// GetByID loads the full aggregate: project row, owner and the collaborator
// set ordered by username.
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	const q = `
select p.id, p.title, coalesce(p.description,''), p.created_at, p.updated_at,
       u.id, u.username, coalesce(u.first_name,''), coalesce(u.last_name,''), coalesce(u.location,'')
from projects p
join users u on u.id = p.owner_id
where p.id = $1;
`
	var p domain.Project
	err := r.db.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.Title, &p.Description, &p.CreatedAt, &p.UpdatedAt,
		&p.Owner.ID, &p.Owner.Username, &p.Owner.FirstName, &p.Owner.LastName, &p.Owner.Location,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}

	collaborators, err := r.collaborators(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Collaborators = collaborators
	return &p, nil
}

func (r *ProjectRepository) collaborators(ctx context.Context, projectID uuid.UUID) ([]domain.User, error) {
	const q = `
select u.id, u.username, coalesce(u.first_name,''), coalesce(u.last_name,''), coalesce(u.location,'')
from project_collaborators pc
join users u on u.id = pc.user_id
where pc.project_id = $1
order by u.username;
`
	rows, err := r.db.Query(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.User, 0, 8)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Location); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Membership resolves the caller's derived role in one query. Returns
// ErrProjectNotFound when the project row is absent.
func (r *ProjectRepository) Membership(ctx context.Context, projectID, userID uuid.UUID) (Membership, error) {
	const q = `
select p.owner_id = $2,
       exists (select 1 from project_collaborators pc
               where pc.project_id = p.id and pc.user_id = $2)
from projects p
where p.id = $1;
`
	var m Membership
	err := r.db.QueryRow(ctx, q, projectID, userID).Scan(&m.IsOwner, &m.IsCollaborator)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Membership{}, domain.ErrProjectNotFound
		}
		return Membership{}, err
	}
	return m, nil
}

func (r *ProjectRepository) GetOwner(ctx context.Context, projectID uuid.UUID) (*domain.User, error) {
	const q = `
select u.id, u.username, coalesce(u.first_name,''), coalesce(u.last_name,''), coalesce(u.location,'')
from projects p
join users u on u.id = p.owner_id
where p.id = $1;
`
	var u domain.User
	err := r.db.QueryRow(ctx, q, projectID).
		Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Location)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, page domain.Pageable) (domain.Page[domain.Project], error) {
	const q = `
select p.id, p.title, coalesce(p.description,''), p.created_at, p.updated_at,
       u.id, u.username, coalesce(u.first_name,''), coalesce(u.last_name,''), coalesce(u.location,'')
from projects p
join users u on u.id = p.owner_id
where p.owner_id = $1
order by p.title
limit $2 offset $3;
`
	const count = `select count(*) from projects where owner_id = $1;`
	return r.listProjects(ctx, page, q, count, ownerID)
}

func (r *ProjectRepository) ListByCollaborator(ctx context.Context, collaboratorID uuid.UUID, page domain.Pageable) (domain.Page[domain.Project], error) {
	const q = `
select p.id, p.title, coalesce(p.description,''), p.created_at, p.updated_at,
       u.id, u.username, coalesce(u.first_name,''), coalesce(u.last_name,''), coalesce(u.location,'')
from project_collaborators pc
join projects p on p.id = pc.project_id
join users u on u.id = p.owner_id
where pc.user_id = $1
order by p.title
limit $2 offset $3;
`
	const count = `select count(*) from project_collaborators where user_id = $1;`
	return r.listProjects(ctx, page, q, count, collaboratorID)
}

func (r *ProjectRepository) listProjects(ctx context.Context, page domain.Pageable, q, countQ string, arg any) (domain.Page[domain.Project], error) {
	var zero domain.Page[domain.Project]
	page = page.Normalize()

	var total int64
	if err := r.db.QueryRow(ctx, countQ, arg).Scan(&total); err != nil {
		return zero, err
	}

	rows, err := r.db.Query(ctx, q, arg, page.Size, page.Offset())
	if err != nil {
		return zero, err
	}
	defer rows.Close()

	items := make([]domain.Project, 0, page.Size)
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.CreatedAt, &p.UpdatedAt,
			&p.Owner.ID, &p.Owner.Username, &p.Owner.FirstName, &p.Owner.LastName, &p.Owner.Location,
		); err != nil {
			return zero, err
		}
		p.Collaborators = []domain.User{}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return zero, err
	}
	return domain.NewPage(items, page, total), nil
}

func (r *ProjectRepository) ListCollaborators(ctx context.Context, projectID uuid.UUID, page domain.Pageable) (domain.Page[domain.User], error) {
	var zero domain.Page[domain.User]
	page = page.Normalize()

	const count = `select count(*) from project_collaborators where project_id = $1;`
	var total int64
	if err := r.db.QueryRow(ctx, count, projectID).Scan(&total); err != nil {
		return zero, err
	}

	const q = `
select u.id, u.username, coalesce(u.first_name,''), coalesce(u.last_name,''), coalesce(u.location,'')
from project_collaborators pc
join users u on u.id = pc.user_id
where pc.project_id = $1
order by u.username
limit $2 offset $3;
`
	rows, err := r.db.Query(ctx, q, projectID, page.Size, page.Offset())
	if err != nil {
		return zero, err
	}
	defer rows.Close()

	items := make([]domain.User, 0, page.Size)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Location); err != nil {
			return zero, err
		}
		items = append(items, u)
	}
	if err := rows.Err(); err != nil {
		return zero, err
	}
	return domain.NewPage(items, page, total), nil
}

// Update applies a partial patch; nil fields leave the current value.
func (r *ProjectRepository) Update(ctx context.Context, id uuid.UUID, title, description *string) (*domain.Project, error) {
	const q = `
update projects
set title = coalesce($2, title),
    description = coalesce($3, description),
    updated_at = now()
where id = $1;
`
	tag, err := r.db.Exec(ctx, q, id, title, description)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrProjectNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes the project and all owned children via FK cascades. The
// doomed file versions are snapshotted into file_purge_queue in the same
// transaction so the purge job can delete the stored bytes later; user rows
// are never touched.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const enqueue = `
insert into file_purge_queue (storage_key, storage_version_id)
select storage_key, storage_version_id
from project_files
where project_id = $1;
`
	if _, err := tx.Exec(ctx, enqueue, id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `delete from projects where id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}

	return tx.Commit(ctx)
}

// AddCollaborator inserts the join row. The unique constraint is the
// backstop for two concurrent adds racing past the service pre-check.
func (r *ProjectRepository) AddCollaborator(ctx context.Context, projectID, userID uuid.UUID) error {
	const q = `insert into project_collaborators (project_id, user_id) values ($1, $2);`
	_, err := r.db.Exec(ctx, q, projectID, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrCollaboratorExists
		}
		return err
	}
	return nil
}

// RemoveCollaborator deletes the join row and unassigns the user from the
// project's tasks in one transaction. Milestones, budget entries and files
// they authored are left untouched.
func (r *ProjectRepository) RemoveCollaborator(ctx context.Context, projectID, userID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`delete from project_collaborators where project_id = $1 and user_id = $2;`,
		projectID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCollaboratorNotFound
	}

	_, err = tx.Exec(ctx,
		`update project_tasks set assigned_user_id = null where project_id = $1 and assigned_user_id = $2;`,
		projectID, userID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
