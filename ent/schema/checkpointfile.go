package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// CheckpointFile holds the schema definition for the CheckpointFile entity.
// A file is snapshotted at most once per checkpoint, before its first write.
type CheckpointFile struct {
	ent.Schema
}

// Fields of the CheckpointFile.
func (CheckpointFile) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("checkpoint_file_id").
			Unique().
			Immutable(),
		field.String("checkpoint_id").
			Immutable(),
		field.String("path").
			Immutable().
			Comment("Workspace-relative path"),
		field.Text("original_content").
			Optional().
			Nillable().
			Comment("Pre-write content; nil when action is created"),
		field.Enum("action").
			Values("created", "modified", "deleted"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the CheckpointFile.
func (CheckpointFile) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("checkpoint", Checkpoint.Type).
			Ref("files").
			Field("checkpoint_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the CheckpointFile.
func (CheckpointFile) Indexes() []ent.Index {
	return []ent.Index{
		// One snapshot per file per checkpoint
		index.Fields("checkpoint_id", "path").
			Unique(),
	}
}
