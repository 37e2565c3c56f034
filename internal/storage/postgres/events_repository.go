package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ticketline/server/internal/domain/events"
)

var _ events.Repository = (*EventRepository)(nil)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// Create writes the event and its ticket types as one transaction. A failure
// anywhere rolls back the whole aggregate; partial writes are never visible.
func (r *EventRepository) Create(ctx context.Context, organizerID uuid.UUID, params events.CreateParams) (*events.Event, error) {
	event := &events.Event{
		Name:         params.Name,
		Venue:        params.Venue,
		StartAt:      params.StartAt,
		EndAt:        params.EndAt,
		SalesStartAt: params.SalesStartAt,
		SalesEndAt:   params.SalesEndAt,
		Status:       params.Status,
		OrganizerID:  organizerID,
	}

	err := withTx(ctx, r.pool, func(ctx context.Context) error {
		if err := r.insertEvent(ctx, event); err != nil {
			return err
		}
		return r.insertTicketTypes(ctx, event, params.TicketTypes)
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, events.ErrOrganizerNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *EventRepository) insertEvent(ctx context.Context, event *events.Event) error {
	const query = `
INSERT INTO events (name, venue, start_at, end_at, sales_start_at, sales_end_at, status, organizer_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at, updated_at`

	var (
		id        pgtype.UUID
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	tx := txFromContext(ctx)
	err := tx.QueryRow(ctx, query,
		event.Name,
		event.Venue,
		toPgTimestamptz(event.StartAt),
		toPgTimestamptz(event.EndAt),
		toPgTimestamptz(event.SalesStartAt),
		toPgTimestamptz(event.SalesEndAt),
		string(event.Status),
		toPgUUID(event.OrganizerID),
	).Scan(&id, &createdAt, &updatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	event.ID = fromPgUUID(id)
	event.CreatedAt = timeOrZero(createdAt)
	event.UpdatedAt = timeOrZero(updatedAt)
	return nil
}

func (r *EventRepository) insertTicketTypes(ctx context.Context, event *events.Event, specs []events.TicketTypeParams) error {
	const query = `
INSERT INTO ticket_types (event_id, position, name, price, description, total_available)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, updated_at`

	tx := txFromContext(ctx)
	event.TicketTypes = make([]events.TicketType, 0, len(specs))
	for position, spec := range specs {
		var (
			id        pgtype.UUID
			createdAt pgtype.Timestamptz
			updatedAt pgtype.Timestamptz
		)
		err := tx.QueryRow(ctx, query,
			toPgUUID(event.ID),
			position,
			spec.Name,
			spec.Price,
			spec.Description,
			spec.TotalAvailable,
		).Scan(&id, &createdAt, &updatedAt)
		if err != nil {
			return fmt.Errorf("insert ticket type %d: %w", position, err)
		}

		event.TicketTypes = append(event.TicketTypes, events.TicketType{
			ID:             fromPgUUID(id),
			Name:           spec.Name,
			Price:          spec.Price,
			Description:    spec.Description,
			TotalAvailable: spec.TotalAvailable,
			CreatedAt:      timeOrZero(createdAt),
			UpdatedAt:      timeOrZero(updatedAt),
		})
	}
	return nil
}
