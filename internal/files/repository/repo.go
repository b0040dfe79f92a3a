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

type FileRepository struct {
	db *pgxpool.Pool
}

func NewFileRepository(db *pgxpool.Pool) *FileRepository {
	return &FileRepository{db: db}
}

const fileColumns = `
f.id, f.project_id, f.original_filename, f.storage_key, f.storage_version_id,
f.content_type, f.file_size, f.upload_timestamp, coalesce(f.description,''),
u.id, u.username, u.first_name, u.last_name, coalesce(u.location,'')
`

func scanFile(row pgx.Row) (*domain.ProjectFile, error) {
	var f domain.ProjectFile
	err := row.Scan(
		&f.ID, &f.ProjectID, &f.OriginalFilename, &f.StorageKey, &f.StorageVersionID,
		&f.ContentType, &f.FileSize, &f.UploadTimestamp, &f.Description,
		&f.UploadedBy.ID, &f.UploadedBy.Username, &f.UploadedBy.FirstName, &f.UploadedBy.LastName, &f.UploadedBy.Location,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FileRepository) Create(ctx context.Context, f *domain.ProjectFile) (*domain.ProjectFile, error) {
	const q = `
with inserted as (
    insert into project_files
        (id, project_id, uploaded_by, original_filename, storage_key, storage_version_id,
         content_type, file_size, upload_timestamp, description)
    values ($1, $2, $3, $4, $5, $6, $7, $8, now(), nullif($9,''))
    returning *
)
select ` + fileColumns + `
from inserted f
join users u on u.id = f.uploaded_by;
`
	return scanFile(r.db.QueryRow(ctx, q,
		uuid.New(), f.ProjectID, f.UploadedBy.ID, f.OriginalFilename, f.StorageKey,
		f.StorageVersionID, f.ContentType, f.FileSize, f.Description,
	))
}

// GetByIDAndProject treats a file reached through the wrong project as
// absent.
func (r *FileRepository) GetByIDAndProject(ctx context.Context, fileID, projectID uuid.UUID) (*domain.ProjectFile, error) {
	const q = `
select ` + fileColumns + `
from project_files f
join users u on u.id = f.uploaded_by
where f.id = $1 and f.project_id = $2;
`
	f, err := scanFile(r.db.QueryRow(ctx, q, fileID, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFileNotFound
		}
		return nil, err
	}
	return f, nil
}

// ListLatest returns one row per filename, the most recent upload winning.
// Ties on upload_timestamp break toward the highest id.
func (r *FileRepository) ListLatest(ctx context.Context, projectID uuid.UUID, page domain.Pageable) (domain.Page[domain.ProjectFile], error) {
	var zero domain.Page[domain.ProjectFile]
	page = page.Normalize()

	var total int64
	err := r.db.QueryRow(ctx,
		`select count(distinct original_filename) from project_files where project_id = $1;`,
		projectID,
	).Scan(&total)
	if err != nil {
		return zero, err
	}

	const q = `
with ranked as (
    select f.*,
           row_number() over (
               partition by f.original_filename
               order by f.upload_timestamp desc, f.id desc
           ) as rn
    from project_files f
    where f.project_id = $1
)
select ` + fileColumns + `
from ranked f
join users u on u.id = f.uploaded_by
where f.rn = 1
order by f.original_filename asc
limit $2 offset $3;
`
	rows, err := r.db.Query(ctx, q, projectID, page.Size, page.Offset())
	if err != nil {
		return zero, err
	}
	defer rows.Close()

	items := make([]domain.ProjectFile, 0, page.Size)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return zero, err
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return zero, err
	}
	return domain.NewPage(items, page, total), nil
}

// ListVersions returns every upload of one filename, newest first.
func (r *FileRepository) ListVersions(ctx context.Context, projectID uuid.UUID, filename string) ([]domain.ProjectFile, error) {
	const q = `
select ` + fileColumns + `
from project_files f
join users u on u.id = f.uploaded_by
where f.project_id = $1 and f.original_filename = $2
order by f.upload_timestamp desc, f.id desc;
`
	rows, err := r.db.Query(ctx, q, projectID, filename)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ProjectFile, 0, 8)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func (r *FileRepository) Delete(ctx context.Context, fileID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `delete from project_files where id = $1;`, fileID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFileNotFound
	}
	return nil
}

// PurgeItem is one stored object version queued for deletion after its
// project was removed.
type PurgeItem struct {
	ID               int64
	StorageKey       string
	StorageVersionID string
	EnqueuedAt       time.Time
}

// DequeuePurgeBatch returns up to limit queued items, oldest first. Items
// stay queued until DeletePurgeItem confirms the storage delete.
func (r *FileRepository) DequeuePurgeBatch(ctx context.Context, limit int) ([]PurgeItem, error) {
	const q = `
select id, storage_key, coalesce(storage_version_id,''), enqueued_at
from file_purge_queue
order by id asc
limit $1;
`
	rows, err := r.db.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]PurgeItem, 0, limit)
	for rows.Next() {
		var it PurgeItem
		if err := rows.Scan(&it.ID, &it.StorageKey, &it.StorageVersionID, &it.EnqueuedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *FileRepository) DeletePurgeItem(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `delete from file_purge_queue where id = $1;`, id)
	return err
}
