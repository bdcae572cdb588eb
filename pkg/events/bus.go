package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// SessionBus publishes UI events for a single session. See the package
// doc for the three delivery patterns (Emit, Post, Persist).
//
// The bus is created per agent turn and bound to its session; call
// sites never thread session IDs. Internally, payloads are marshaled
// once into a flat envelope and routed via persistAndNotify or
// notifyOnly; Emit additionally writes a "__ui__" marker row to the
// messages table before anything is published.
type SessionBus struct {
	db        *sql.DB
	sessionID string
}

// NewSessionBus creates a bus bound to one session.
// The db parameter should be the *sql.DB from database.Client.DB().
func NewSessionBus(db *sql.DB, sessionID string) *SessionBus {
	return &SessionBus{db: db, sessionID: sessionID}
}

// SessionID returns the session this bus publishes for.
func (b *SessionBus) SessionID() string { return b.sessionID }

// Emit persists the event as a "__ui__" marker row, then stores it in
// the events outbox and broadcasts via NOTIFY. The marker write happens
// strictly first: a crash after it leaves the reload timeline complete.
func (b *SessionBus) Emit(ctx context.Context, event Event) error {
	if err := b.persistMarker(ctx, event); err != nil {
		return err
	}

	envelope, err := b.envelope(event)
	if err != nil {
		return err
	}
	return b.persistAndNotify(ctx, SessionChannel(b.sessionID), envelope)
}

// Post broadcasts the event via NOTIFY without any persistence.
// For transient hints only — lost on reconnect by design.
func (b *SessionBus) Post(ctx context.Context, event Event) error {
	envelope, err := b.envelope(event)
	if err != nil {
		return err
	}
	return b.notifyOnly(ctx, SessionChannel(b.sessionID), envelope)
}

// Persist writes only the "__ui__" marker row. For events whose live
// rendering was already handled inline by the publisher.
func (b *SessionBus) Persist(ctx context.Context, event Event) error {
	return b.persistMarker(ctx, event)
}

// EmitSessionStatus publishes a session lifecycle transition: persisted
// on the session channel, plus a transient copy on the global sessions
// channel for the session list pane. Both publishes are best-effort;
// returns the first error encountered (if any).
func (b *SessionBus) EmitSessionStatus(ctx context.Context, status string) error {
	payload := SessionStatusPayload{Status: status}

	var firstErr error
	if err := b.Emit(ctx, payload); err != nil {
		slog.Warn("Failed to publish session status to session channel",
			"session_id", b.sessionID, "status", status, "error", err)
		firstErr = err
	}

	envelope, err := b.envelope(payload)
	if err == nil {
		err = b.notifyOnly(ctx, GlobalSessionsChannel, envelope)
	}
	if err != nil {
		slog.Warn("Failed to publish session status to global channel",
			"session_id", b.sessionID, "status", status, "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// --- Internal core methods ---

// envelope renders the flat wire form: the payload's own fields plus
// type, session_id, and timestamp.
func (b *SessionBus) envelope(event Event) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", event.EventType(), err)
	}

	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("failed to build %s envelope: %w", event.EventType(), err)
	}
	m["type"] = event.EventType()
	m["session_id"] = b.sessionID
	m["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)

	return json.Marshal(m)
}

// persistMarker inserts the durable {type, payload} marker into the
// messages table with tool_name = "__ui__".
func (b *SessionBus) persistMarker(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", event.EventType(), err)
	}
	marker, err := json.Marshal(struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}{event.EventType(), body})
	if err != nil {
		return fmt.Errorf("failed to marshal %s marker: %w", event.EventType(), err)
	}

	// MAX+1 is safe here: message writes are serialized per session by
	// the single-agent-task-per-session model.
	_, err = b.db.ExecContext(ctx,
		`INSERT INTO messages (message_id, session_id, sequence_number, role, content, tool_name, tool_output, created_at)
		 VALUES ($1, $2, (SELECT COALESCE(MAX(sequence_number), 0) + 1 FROM messages WHERE session_id = $2), 'tool', '', $3, $4, $5)`,
		uuid.New().String(), b.sessionID, UIMarkerToolName, string(marker), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to persist %s marker: %w", event.EventType(), err)
	}
	return nil
}

// persistAndNotify stores a pre-marshaled envelope in the events outbox
// and broadcasts via NOTIFY in a single transaction (pg_notify is
// transactional — held until COMMIT).
func (b *SessionBus) persistAndNotify(ctx context.Context, channel string, envelope []byte) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var eventID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO events (session_id, channel, payload, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		b.sessionID, channel, envelope, time.Now(),
	).Scan(&eventID)
	if err != nil {
		return fmt.Errorf("failed to persist event: %w", err)
	}

	// Build NOTIFY payload with db_event_id for catchup tracking.
	notifyPayload, err := injectDBEventIDAndTruncate(envelope, eventID)
	if err != nil {
		return err
	}

	// pg_notify within the same transaction — held until COMMIT.
	if _, err := tx.ExecContext(ctx, "SELECT pg_notify($1, $2)", channel, notifyPayload); err != nil {
		return fmt.Errorf("pg_notify failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit event transaction: %w", err)
	}
	return nil
}

// notifyOnly broadcasts a pre-marshaled envelope via NOTIFY without persistence.
func (b *SessionBus) notifyOnly(ctx context.Context, channel string, envelope []byte) error {
	notifyPayload, err := truncateIfNeeded(string(envelope))
	if err != nil {
		return err
	}
	if _, err := b.db.ExecContext(ctx, "SELECT pg_notify($1, $2)", channel, notifyPayload); err != nil {
		return fmt.Errorf("pg_notify failed: %w", err)
	}
	return nil
}

// --- Internal helpers ---

// injectDBEventIDAndTruncate adds db_event_id to the JSON envelope for
// NOTIFY delivery and applies truncation if the result exceeds
// PostgreSQL's limit.
func injectDBEventIDAndTruncate(envelope []byte, dbEventID int64) (string, error) {
	var m map[string]any
	if err := json.Unmarshal(envelope, &m); err != nil {
		return "", fmt.Errorf("failed to unmarshal envelope for db_event_id injection: %w", err)
	}
	m["db_event_id"] = dbEventID

	enriched, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal enriched NOTIFY payload: %w", err)
	}
	return truncateIfNeeded(string(enriched))
}

// truncateIfNeeded returns the payload string as-is if it fits within
// PostgreSQL's 8000-byte NOTIFY limit, otherwise returns a minimal
// truncation envelope with only routing fields.
func truncateIfNeeded(payloadStr string) (string, error) {
	if len(payloadStr) <= 7900 {
		return payloadStr, nil
	}
	return buildTruncatedPayload([]byte(payloadStr))
}

// buildTruncatedPayload creates a minimal truncation envelope from the
// full envelope bytes, keeping only the routing fields the client needs
// to fetch the complete event from the events outbox.
func buildTruncatedPayload(envelope []byte) (string, error) {
	var routing struct {
		Type      string `json:"type"`
		SessionID string `json:"session_id"`
		DBEventID *int64 `json:"db_event_id,omitempty"`
	}
	if err := json.Unmarshal(envelope, &routing); err != nil {
		return "", fmt.Errorf("failed to extract routing fields for truncation: %w", err)
	}

	truncated := map[string]any{
		"type":       routing.Type,
		"session_id": routing.SessionID,
		"truncated":  true,
	}
	if routing.DBEventID != nil {
		truncated["db_event_id"] = *routing.DBEventID
	}

	truncBytes, err := json.Marshal(truncated)
	if err != nil {
		return "", fmt.Errorf("failed to marshal truncated payload: %w", err)
	}
	return string(truncBytes), nil
}
