package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spshpau/project-service/internal/domain"
)

const uniqueViolation = "23505"

// Repo persists the identity cache. Rows are created on first reference and
// never re-synced; a stale copy is acceptable by contract.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const q = `
select id, username, coalesce(first_name,''), coalesce(last_name,''), coalesce(location,'')
from users
where id = $1;
`
	var u domain.User
	err := r.db.QueryRow(ctx, q, id).
		Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Location)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateIfAbsent inserts the summary as a new row unless the id already
// exists, and returns the persisted row either way. Existing fields win:
// "on conflict do nothing" is what keeps first-seen data from being
// overwritten by later references. Usernames are unique; inserting a new id
// under a taken username is ErrUsernameTaken.
func (r *Repo) CreateIfAbsent(ctx context.Context, s domain.UserSummary) (*domain.User, error) {
	const ins = `
insert into users (id, username, first_name, last_name, location)
values ($1, $2, nullif($3,''), nullif($4,''), nullif($5,''))
on conflict (id) do nothing;
`
	if _, err := r.db.Exec(ctx, ins, s.ID, s.Username, s.FirstName, s.LastName, s.Location); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrUsernameTaken
		}
		return nil, err
	}
	return r.GetByID(ctx, s.ID)
}
