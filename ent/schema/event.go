package schema

import (
	"encoding/json"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Event holds the schema definition for the Event entity.
// Transient outbox for WebSocket delivery: rows are written in the same
// transaction as the pg_notify that announces them, so late subscribers can
// catch up by id. Cleaned up after a grace period once a turn ends.
type Event struct {
	ent.Schema
}

// Fields of the Event.
// The default integer id is kept: catch-up ordering relies on it being
// monotonically increasing.
func (Event) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			Immutable(),
		field.String("channel").
			Immutable().
			Comment("NOTIFY channel the payload was published on"),
		field.JSON("payload", json.RawMessage{}).
			Comment("Full event payload as sent to subscribers"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the Event.
func (Event) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("session", Session.Type).
			Ref("events").
			Field("session_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the Event.
func (Event) Indexes() []ent.Index {
	return []ent.Index{
		// Catch-up scans: WHERE channel = $1 AND id > $2 ORDER BY id
		index.Fields("channel", "id"),
		// Post-turn cleanup by session
		index.Fields("session_id"),
		// TTL sweeps
		index.Fields("created_at"),
	}
}
