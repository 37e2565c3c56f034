package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus validates a caller-supplied status string.
func ParseStatus(value string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(value))) {
	case StatusDraft:
		return StatusDraft, nil
	case StatusPublished:
		return StatusPublished, nil
	case StatusCancelled:
		return StatusCancelled, nil
	default:
		return "", FieldError{Field: "status", Message: fmt.Sprintf("unknown status %q", value)}
	}
}

// Event is the aggregate root. It exclusively owns its TicketTypes; they are
// written and deleted with it.
type Event struct {
	ID           uuid.UUID
	Name         string
	Venue        string
	StartAt      *time.Time
	EndAt        *time.Time
	SalesStartAt *time.Time
	SalesEndAt   *time.Time
	Status       Status
	OrganizerID  uuid.UUID
	TicketTypes  []TicketType
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type TicketType struct {
	ID             uuid.UUID
	Name           string
	Price          float64
	Description    string
	TotalAvailable *int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateParams is the validated input for aggregate creation.
type CreateParams struct {
	Name         string
	Venue        string
	StartAt      *time.Time
	EndAt        *time.Time
	SalesStartAt *time.Time
	SalesEndAt   *time.Time
	Status       Status
	TicketTypes  []TicketTypeParams
}

type TicketTypeParams struct {
	Name           string
	Price          float64
	Description    string
	TotalAvailable *int
}

// Repository persists the aggregate. Create writes the event and all its
// ticket types in one transaction, preserving ticket-type order, and returns
// the stored aggregate with generated ids and timestamps.
type Repository interface {
	Create(ctx context.Context, organizerID uuid.UUID, params CreateParams) (*Event, error)
}
