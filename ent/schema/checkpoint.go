package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Checkpoint holds the schema definition for the Checkpoint entity.
// One checkpoint per agent turn; groups lazy per-file snapshots for undo.
type Checkpoint struct {
	ent.Schema
}

// Fields of the Checkpoint.
func (Checkpoint) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("checkpoint_id").
			Unique().
			Immutable(),
		field.String("session_id").
			Immutable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the Checkpoint.
func (Checkpoint) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("session", Session.Type).
			Ref("checkpoints").
			Field("session_id").
			Unique().
			Required().
			Immutable(),
		edge.To("files", CheckpointFile.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Checkpoint.
func (Checkpoint) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id", "created_at"),
	}
}
