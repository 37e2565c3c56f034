package postgres

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/ticketline/server/internal/domain/users"
)

func TestUserRepositoryCreateAndGet(t *testing.T) {
	pool := newTestPool(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	id := uuid.New()
	created, err := repo.Create(ctx, users.User{ID: id, Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	require.Equal(t, id, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Alice", got.Name)
	require.Equal(t, "alice@example.com", got.Email)
}

func TestUserRepositoryGetMissing(t *testing.T) {
	pool := newTestPool(t)
	repo := NewUserRepository(pool)

	_, err := repo.GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, users.ErrNotFound)
}

func TestUserRepositoryDuplicateCreate(t *testing.T) {
	pool := newTestPool(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	id := uuid.New()
	_, err := repo.Create(ctx, users.User{ID: id, Name: "Alice"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, users.User{ID: id, Name: "Alice again"})
	require.ErrorIs(t, err, users.ErrAlreadyExists)
}

func TestUserRepositoryConcurrentFirstRequests(t *testing.T) {
	pool := newTestPool(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	id := uuid.New()
	const writers = 8

	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Create(ctx, users.User{ID: id, Name: "Concurrent"})
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		default:
			require.ErrorIs(t, err, users.ErrAlreadyExists)
		}
	}
	require.Equal(t, 1, won, "exactly one concurrent insert must win")

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM users WHERE id = $1`, toPgUUID(id)).Scan(&count))
	require.Equal(t, 1, count)
}
