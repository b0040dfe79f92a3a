package users

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spshpau/project-service/internal/domain"
)

// setupTestPool connects to the database named by TEST_DB_DSN and ensures
// the users table exists. Skips the test when no DSN is configured.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping PostgreSQL integration test")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(), `
create table if not exists users (
    id         uuid primary key,
    username   text not null unique,
    first_name text,
    last_name  text,
    location   text
);`)
	require.NoError(t, err)

	return pool
}

func TestCreateIfAbsentWithoutNameClaims(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewRepo(pool)
	id := uuid.New()
	t.Cleanup(func() { pool.Exec(context.Background(), `delete from users where id = $1`, id) })

	u, err := repo.CreateIfAbsent(context.Background(), domain.UserSummary{
		ID:       id,
		Username: "u-" + id.String()[:8],
	})
	require.NoError(t, err)
	assert.Equal(t, "", u.FirstName)
	assert.Equal(t, "", u.LastName)
	assert.Equal(t, "", u.Location)
}

func TestCreateIfAbsentKeepsFirstSeenRow(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewRepo(pool)
	id := uuid.New()
	name := "u-" + id.String()[:8]
	t.Cleanup(func() { pool.Exec(context.Background(), `delete from users where id = $1`, id) })

	first, err := repo.CreateIfAbsent(context.Background(), domain.UserSummary{
		ID: id, Username: name, FirstName: "Ada",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", first.FirstName)

	again, err := repo.CreateIfAbsent(context.Background(), domain.UserSummary{
		ID: id, Username: name, FirstName: "Grace",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.FirstName)
}

func TestCreateIfAbsentRejectsTakenUsername(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewRepo(pool)
	a, b := uuid.New(), uuid.New()
	name := "u-" + a.String()[:8]
	t.Cleanup(func() { pool.Exec(context.Background(), `delete from users where id = any($1)`, []uuid.UUID{a, b}) })

	_, err := repo.CreateIfAbsent(context.Background(), domain.UserSummary{ID: a, Username: name})
	require.NoError(t, err)

	_, err = repo.CreateIfAbsent(context.Background(), domain.UserSummary{ID: b, Username: name})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}
