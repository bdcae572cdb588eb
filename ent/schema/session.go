package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Session holds the schema definition for the Session entity.
// One session is one assistant conversation rooted in a workspace; the worker
// pool claims sessions in status "pending" and runs one agent turn at a time.
type Session struct {
	ent.Schema
}

// Fields of the Session.
func (Session) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("session_id").
			Unique().
			Immutable(),
		field.Text("task").
			Comment("Latest user task text (drives the pending turn)"),
		field.String("mode").
			Comment("Executor mode (agent, explore, plan, chat, review, deep-explore, deep-explore-write)"),
		field.String("model").
			Comment("Ollama model name"),
		field.String("title").
			Optional().
			Nillable().
			Comment("Generated short title; nil until title generation succeeds"),
		field.Enum("status").
			Values("idle", "pending", "generating", "completed", "cancelled", "error").
			Default("idle"),
		field.String("workspace").
			Comment("Absolute workspace root path"),

		// Approval policy knobs (per session, toggled by user commands)
		field.Bool("auto_approve_commands").
			Default(false),
		field.Bool("auto_approve_sensitive_edits").
			Default(false),
		field.JSON("sensitive_file_patterns", []string{}).
			Optional().
			Comment("Regex patterns gating file edits through approval"),

		field.JSON("files_changed", []string{}).
			Optional().
			Comment("Workspace-relative paths written during the last turn"),
		field.JSON("memory", map[string]interface{}{}).
			Optional().
			Comment("Serialized session memory (iteration summaries + facts)"),

		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("started_at").
			Optional().
			Nillable().
			Comment("When the worker claimed the current turn"),
		field.Time("completed_at").
			Optional().
			Nillable(),
		field.String("error_message").
			Optional().
			Nillable(),

		field.String("pod_id").
			Optional().
			Nillable().
			Comment("For multi-replica coordination"),
		field.Time("last_interaction_at").
			Optional().
			Nillable().
			Comment("Heartbeat for orphan detection"),
		field.Time("deleted_at").
			Optional().
			Nillable().
			Comment("Soft delete for retention policy"),
	}
}

// Edges of the Session.
func (Session) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("messages", Message.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("checkpoints", Checkpoint.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("events", Event.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Session.
func (Session) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("status"),
		index.Fields("mode"),

		// Queue claim order and orphan detection
		index.Fields("status", "created_at"),
		index.Fields("status", "last_interaction_at"),

		// Partial index for soft deletes
		index.Fields("deleted_at").
			Annotations(entsql.IndexWhere("deleted_at IS NOT NULL")),
	}
}

// Annotations of the Session.
func (Session) Annotations() []schema.Annotation {
	return []schema.Annotation{}
}
