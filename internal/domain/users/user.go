package users

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// User is the local identity record for an externally-authenticated subject.
// The id is the identity provider's subject and is immutable.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

var (
	ErrNotFound = errors.New("user not found")

	// ErrAlreadyExists maps the store's uniqueness violation on the user id.
	ErrAlreadyExists = errors.New("user already exists")

	// ErrInvalidSubject is returned when a token subject is not a UUID.
	ErrInvalidSubject = errors.New("subject is not a valid UUID")
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	Create(ctx context.Context, user User) (*User, error)
}
