package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service provisions local user rows for externally-authenticated subjects.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Ensure guarantees a User row exists for the given token subject. The fast
// path is a single lookup; a row is only written the first time a subject is
// seen. Two concurrent first-requests can both reach Create; the store's
// uniqueness constraint makes the loser fail with ErrAlreadyExists, which is
// a successful outcome here since the row exists either way.
func (s *Service) Ensure(ctx context.Context, subject, name, email string) error {
	id, err := uuid.Parse(subject)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidSubject, subject)
	}

	if _, err := s.repo.GetByID(ctx, id); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("lookup user: %w", err)
	}

	created, err := s.repo.Create(ctx, User{ID: id, Name: name, Email: email})
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("create user: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("user_id", id.String()).
		Str("email", created.Email).
		Msg("new user provisioned")
	return nil
}
