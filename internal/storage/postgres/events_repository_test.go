package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/ticketline/server/internal/domain/events"
	"github.com/ticketline/server/internal/domain/users"
)

func insertOrganizer(t *testing.T, repo *UserRepository) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := repo.Create(context.Background(), users.User{ID: id, Name: "Organizer", Email: "org@example.com"})
	require.NoError(t, err)
	return id
}

func TestEventRepositoryCreateAggregate(t *testing.T) {
	pool := newTestPool(t)
	userRepo := NewUserRepository(pool)
	repo := NewEventRepository(pool)
	ctx := context.Background()

	organizer := insertOrganizer(t, userRepo)
	start := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	capacity := 250

	event, err := repo.Create(ctx, organizer, events.CreateParams{
		Name:    "Launch",
		Venue:   "Hall A",
		StartAt: &start,
		Status:  events.StatusDraft,
		TicketTypes: []events.TicketTypeParams{
			{Name: "Early Bird", Price: 10.5, Description: "limited"},
			{Name: "GA", Price: 25, TotalAvailable: &capacity},
			{Name: "VIP", Price: 100},
		},
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, event.ID)
	require.False(t, event.CreatedAt.IsZero())
	require.Equal(t, organizer, event.OrganizerID)

	require.Len(t, event.TicketTypes, 3)
	names := []string{event.TicketTypes[0].Name, event.TicketTypes[1].Name, event.TicketTypes[2].Name}
	require.Equal(t, []string{"Early Bird", "GA", "VIP"}, names)
	for _, tt := range event.TicketTypes {
		require.NotEqual(t, uuid.Nil, tt.ID)
		require.False(t, tt.CreatedAt.IsZero())
	}
	require.NotNil(t, event.TicketTypes[1].TotalAvailable)
	require.Equal(t, 250, *event.TicketTypes[1].TotalAvailable)

	// Stored order matches submission order.
	rows, err := pool.Query(ctx, `SELECT name FROM ticket_types WHERE event_id = $1 ORDER BY position`, toPgUUID(event.ID))
	require.NoError(t, err)
	defer rows.Close()
	var stored []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		stored = append(stored, name)
	}
	require.NoError(t, rows.Err())
	require.Equal(t, names, stored)
}

func TestEventRepositoryMissingOrganizer(t *testing.T) {
	pool := newTestPool(t)
	repo := NewEventRepository(pool)

	_, err := repo.Create(context.Background(), uuid.New(), events.CreateParams{
		Name:        "Launch",
		Venue:       "Hall A",
		Status:      events.StatusDraft,
		TicketTypes: []events.TicketTypeParams{{Name: "GA", Price: 25}},
	})
	require.ErrorIs(t, err, events.ErrOrganizerNotFound)

	var count int
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT count(*) FROM events`).Scan(&count))
	require.Zero(t, count)
}

func TestEventRepositoryRollsBackOnTicketTypeFailure(t *testing.T) {
	pool := newTestPool(t)
	userRepo := NewUserRepository(pool)
	repo := NewEventRepository(pool)
	ctx := context.Background()

	organizer := insertOrganizer(t, userRepo)

	// The second ticket type violates the price check constraint after the
	// event row and first ticket type were already written in the tx.
	_, err := repo.Create(ctx, organizer, events.CreateParams{
		Name:   "Launch",
		Venue:  "Hall A",
		Status: events.StatusDraft,
		TicketTypes: []events.TicketTypeParams{
			{Name: "GA", Price: 25},
			{Name: "Broken", Price: -5},
		},
	})
	require.Error(t, err)

	var eventCount, ticketTypeCount int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM events`).Scan(&eventCount))
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM ticket_types`).Scan(&ticketTypeCount))
	require.Zero(t, eventCount, "event row must not survive a failed aggregate write")
	require.Zero(t, ticketTypeCount)
}
