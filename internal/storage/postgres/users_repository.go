package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ticketline/server/internal/domain/users"
)

var _ users.Repository = (*UserRepository)(nil)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	const query = `
SELECT id, name, email, created_at, updated_at
  FROM users
 WHERE id = $1`

	var (
		rowID     pgtype.UUID
		user      users.User
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := r.queryRow(ctx, query, toPgUUID(id)).
		Scan(&rowID, &user.Name, &user.Email, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	user.ID = fromPgUUID(rowID)
	user.CreatedAt = timeOrZero(createdAt)
	user.UpdatedAt = timeOrZero(updatedAt)
	return &user, nil
}

// Create inserts the user row. The primary key on id is what makes concurrent
// first-request provisioning safe: the second writer gets ErrAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, user users.User) (*users.User, error) {
	const query = `
INSERT INTO users (id, name, email)
VALUES ($1, $2, $3)
RETURNING created_at, updated_at`

	var createdAt, updatedAt pgtype.Timestamptz
	err := r.queryRow(ctx, query, toPgUUID(user.ID), user.Name, user.Email).
		Scan(&createdAt, &updatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, users.ErrAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	user.CreatedAt = timeOrZero(createdAt)
	user.UpdatedAt = timeOrZero(updatedAt)
	return &user, nil
}
