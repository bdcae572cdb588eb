package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ModelRecord holds the schema definition for the ModelRecord entity.
// Cached Ollama model capabilities so the dashboard can list models and the
// budgeter can resolve context windows without hitting /api/show every turn.
type ModelRecord struct {
	ent.Schema
}

// Fields of the ModelRecord.
func (ModelRecord) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("model_record_id").
			Unique().
			Immutable(),
		field.String("name").
			Unique().
			Comment("Ollama model name (upsert key)"),
		field.Int("context_length").
			Optional().
			Nillable().
			Comment("Detected context window; nil when extraction failed"),
		field.JSON("capabilities", []string{}).
			Optional().
			Comment("Capability strings from /api/show (tools, thinking, ...)"),
		field.Text("parameters").
			Optional().
			Nillable().
			Comment("Raw parameters blob from /api/show"),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Indexes of the ModelRecord.
func (ModelRecord) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("name").
			Unique(),
	}
}
