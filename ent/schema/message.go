package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Message holds the schema definition for the Message entity.
// Append-only session log: model-visible conversation turns plus persisted UI
// events (tool_name = "__ui__"), replayed in sequence order on session reload.
type Message struct {
	ent.Schema
}

// Fields of the Message.
func (Message) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("message_id").
			Unique().
			Immutable(),
		field.String("session_id").
			Immutable(),
		field.Int("sequence_number").
			Comment("Session-scoped order"),
		field.Enum("role").
			Values("system", "user", "assistant", "tool"),
		field.Text("content"),
		field.String("model").
			Optional().
			Nillable().
			Comment("Model that produced an assistant message"),

		// Tool fields. tool_name doubles as the "__ui__" marker for persisted
		// UI events, whose payload lives in tool_output as JSON.
		field.String("tool_name").
			Optional().
			Nillable(),
		field.String("tool_call_id").
			Optional().
			Nillable().
			Comment("For tool messages: links result to the originating call"),
		field.JSON("tool_calls", []map[string]interface{}{}).
			Optional().
			Comment("For assistant messages: requested calls [{id, name, arguments}]"),
		field.Text("tool_input").
			Optional().
			Nillable().
			Comment("Serialized arguments of the call this message records"),
		field.Text("tool_output").
			Optional().
			Nillable().
			Comment("Tool result, or JSON {type, payload} for __ui__ events"),
		field.String("progress_title").
			Optional().
			Nillable().
			Comment("Display label for progress-group events"),

		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the Message.
func (Message) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("session", Session.Type).
			Ref("messages").
			Field("session_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the Message.
func (Message) Indexes() []ent.Index {
	return []ent.Index{
		// Replay order
		index.Fields("session_id", "sequence_number"),
		// __ui__ marker scans
		index.Fields("session_id", "tool_name"),
	}
}
