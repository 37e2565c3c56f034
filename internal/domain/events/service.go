package events

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ticketline/server/internal/domain/users"
)

type Service struct {
	users users.Repository
	repo  Repository
}

func NewService(userRepo users.Repository, repo Repository) *Service {
	return &Service{users: userRepo, repo: repo}
}

// Create builds and persists an event together with its ticket types. The
// organizer must already exist; nothing is written when it does not. Ticket
// types keep their submitted order.
func (s *Service) Create(ctx context.Context, organizerID uuid.UUID, params CreateParams) (*Event, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, organizerID); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrOrganizerNotFound, organizerID)
		}
		return nil, fmt.Errorf("lookup organizer: %w", err)
	}

	event, err := s.repo.Create(ctx, organizerID, params)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func validateParams(params CreateParams) error {
	if strings.TrimSpace(params.Name) == "" {
		return FieldError{Field: "name", Message: "is required"}
	}
	if strings.TrimSpace(params.Venue) == "" {
		return FieldError{Field: "venue", Message: "is required"}
	}
	if _, err := ParseStatus(string(params.Status)); err != nil {
		return err
	}
	if len(params.TicketTypes) == 0 {
		return FieldError{Field: "ticketTypes", Message: "at least one ticket type is required"}
	}
	for i, tt := range params.TicketTypes {
		if strings.TrimSpace(tt.Name) == "" {
			return FieldError{Field: fmt.Sprintf("ticketTypes[%d].name", i), Message: "is required"}
		}
		if tt.Price < 0 {
			return FieldError{Field: fmt.Sprintf("ticketTypes[%d].price", i), Message: "must be zero or greater"}
		}
	}
	return nil
}
