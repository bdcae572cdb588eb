package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/kiln-dev/kiln/ent"
	"github.com/kiln-dev/kiln/ent/event"
	"github.com/kiln-dev/kiln/pkg/events"
)

// EventService is the query side of the transient event outbox. Rows
// are written by the event bus in the same transaction as the pg_notify
// that announces them; this service serves WebSocket catch-up reads and
// prunes rows once they are no longer needed.
type EventService struct {
	client *ent.Client
}

// NewEventService creates a new event service.
func NewEventService(client *ent.Client) *EventService {
	return &EventService{client: client}
}

var _ events.CatchupQuerier = (*EventService)(nil)

// GetCatchupEvents returns events on a channel with id greater than
// sinceID, oldest first, so a late subscriber can replay what it
// missed. limit <= 0 returns everything.
func (s *EventService) GetCatchupEvents(ctx context.Context, channel string, sinceID, limit int) ([]events.CatchupEvent, error) {
	query := s.client.Event.Query().
		Where(
			event.ChannelEQ(channel),
			event.IDGT(sinceID),
		).
		Order(ent.Asc(event.FieldID))
	if limit > 0 {
		query = query.Limit(limit)
	}

	rows, err := query.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query catchup events: %w", err)
	}

	out := make([]events.CatchupEvent, 0, len(rows))
	for _, row := range rows {
		var payload map[string]interface{}
		if err := json.Unmarshal(row.Payload, &payload); err != nil {
			// One malformed row must not wedge catch-up for the channel.
			slog.Warn("Skipping malformed catchup event",
				"channel", channel,
				"event_id", row.ID,
				"error", err)
			continue
		}
		out = append(out, events.CatchupEvent{ID: row.ID, Payload: payload})
	}
	return out, nil
}

// CleanupSessionEvents deletes all outbox rows for a session. Called
// after a turn's grace period, once every subscriber has had its
// chance to catch up.
func (s *EventService) CleanupSessionEvents(ctx context.Context, sessionID string) (int, error) {
	writeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n, err := s.client.Event.Delete().
		Where(event.SessionIDEQ(sessionID)).
		Exec(writeCtx)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup session events: %w", err)
	}
	return n, nil
}

// CleanupOldEvents deletes outbox rows older than the retention window,
// regardless of session. Safety net for sessions that never reached
// their post-turn cleanup.
func (s *EventService) CleanupOldEvents(ctx context.Context, olderThan time.Duration) (int, error) {
	writeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-olderThan)
	n, err := s.client.Event.Delete().
		Where(event.CreatedAtLT(cutoff)).
		Exec(writeCtx)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old events: %w", err)
	}
	return n, nil
}
