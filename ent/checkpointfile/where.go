// Code generated by ent, DO NOT EDIT.

package checkpointfile

import (
	"time"

	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"github.com/kiln-dev/kiln/ent/predicate"
)

// ID filters vertices based on their ID field.
func ID(id string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldEQ(FieldID, id))
}

// IDEQ applies the EQ predicate on the ID field.
func IDEQ(id string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldEQ(FieldID, id))
}

// IDNEQ applies the NEQ predicate on the ID field.
func IDNEQ(id string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldNEQ(FieldID, id))
}

// IDIn applies the In predicate on the ID field.
func IDIn(ids ...string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldIn(FieldID, ids...))
}

// IDNotIn applies the NotIn predicate on the ID field.
func IDNotIn(ids ...string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldNotIn(FieldID, ids...))
}

// IDGT applies the GT predicate on the ID field.
func IDGT(id string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldGT(FieldID, id))
}

// IDGTE applies the GTE predicate on the ID field.
func IDGTE(id string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldGTE(FieldID, id))
}

// IDLT applies the LT predicate on the ID field.
func IDLT(id string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldLT(FieldID, id))
}

// IDLTE applies the LTE predicate on the ID field.
func IDLTE(id string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldLTE(FieldID, id))
}

// IDEqualFold applies the EqualFold predicate on the ID field.
func IDEqualFold(id string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldEqualFold(FieldID, id))
}

// IDContainsFold applies the ContainsFold predicate on the ID field.
func IDContainsFold(id string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldContainsFold(FieldID, id))
}

// CheckpointID applies equality check predicate on the "checkpoint_id" field. It's identical to CheckpointIDEQ.
func CheckpointID(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldEQ(FieldCheckpointID, v))
}

// Path applies equality check predicate on the "path" field. It's identical to PathEQ.
func Path(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldEQ(FieldPath, v))
}

// OriginalContent applies equality check predicate on the "original_content" field. It's identical to OriginalContentEQ.
func OriginalContent(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldEQ(FieldOriginalContent, v))
}

// CreatedAt applies equality check predicate on the "created_at" field. It's identical to CreatedAtEQ.
func CreatedAt(v time.Time) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldEQ(FieldCreatedAt, v))
}

// CheckpointIDEQ applies the EQ predicate on the "checkpoint_id" field.
func CheckpointIDEQ(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldEQ(FieldCheckpointID, v))
}

// CheckpointIDNEQ applies the NEQ predicate on the "checkpoint_id" field.
func CheckpointIDNEQ(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldNEQ(FieldCheckpointID, v))
}

// CheckpointIDIn applies the In predicate on the "checkpoint_id" field.
func CheckpointIDIn(vs ...string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldIn(FieldCheckpointID, vs...))
}

// CheckpointIDNotIn applies the NotIn predicate on the "checkpoint_id" field.
func CheckpointIDNotIn(vs ...string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldNotIn(FieldCheckpointID, vs...))
}

// CheckpointIDGT applies the GT predicate on the "checkpoint_id" field.
func CheckpointIDGT(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldGT(FieldCheckpointID, v))
}

// CheckpointIDGTE applies the GTE predicate on the "checkpoint_id" field.
func CheckpointIDGTE(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldGTE(FieldCheckpointID, v))
}

// CheckpointIDLT applies the LT predicate on the "checkpoint_id" field.
func CheckpointIDLT(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldLT(FieldCheckpointID, v))
}

// CheckpointIDLTE applies the LTE predicate on the "checkpoint_id" field.
func CheckpointIDLTE(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldLTE(FieldCheckpointID, v))
}

// CheckpointIDContains applies the Contains predicate on the "checkpoint_id" field.
func CheckpointIDContains(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldContains(FieldCheckpointID, v))
}

// CheckpointIDHasPrefix applies the HasPrefix predicate on the "checkpoint_id" field.
func CheckpointIDHasPrefix(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldHasPrefix(FieldCheckpointID, v))
}

// CheckpointIDHasSuffix applies the HasSuffix predicate on the "checkpoint_id" field.
func CheckpointIDHasSuffix(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldHasSuffix(FieldCheckpointID, v))
}

// CheckpointIDEqualFold applies the EqualFold predicate on the "checkpoint_id" field.
func CheckpointIDEqualFold(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldEqualFold(FieldCheckpointID, v))
}

// CheckpointIDContainsFold applies the ContainsFold predicate on the "checkpoint_id" field.
func CheckpointIDContainsFold(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldContainsFold(FieldCheckpointID, v))
}

// PathEQ applies the EQ predicate on the "path" field.
func PathEQ(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldEQ(FieldPath, v))
}

// PathNEQ applies the NEQ predicate on the "path" field.
func PathNEQ(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldNEQ(FieldPath, v))
}

// PathIn applies the In predicate on the "path" field.
func PathIn(vs ...string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldIn(FieldPath, vs...))
}

// PathNotIn applies the NotIn predicate on the "path" field.
func PathNotIn(vs ...string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldNotIn(FieldPath, vs...))
}

// PathGT applies the GT predicate on the "path" field.
func PathGT(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldGT(FieldPath, v))
}

// PathGTE applies the GTE predicate on the "path" field.
func PathGTE(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldGTE(FieldPath, v))
}

// PathLT applies the LT predicate on the "path" field.
func PathLT(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldLT(FieldPath, v))
}

// PathLTE applies the LTE predicate on the "path" field.
func PathLTE(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldLTE(FieldPath, v))
}

// PathContains applies the Contains predicate on the "path" field.
func PathContains(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldContains(FieldPath, v))
}

// PathHasPrefix applies the HasPrefix predicate on the "path" field.
func PathHasPrefix(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldHasPrefix(FieldPath, v))
}

// PathHasSuffix applies the HasSuffix predicate on the "path" field.
func PathHasSuffix(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldHasSuffix(FieldPath, v))
}

// PathEqualFold applies the EqualFold predicate on the "path" field.
func PathEqualFold(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldEqualFold(FieldPath, v))
}

// PathContainsFold applies the ContainsFold predicate on the "path" field.
func PathContainsFold(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldContainsFold(FieldPath, v))
}

// OriginalContentEQ applies the EQ predicate on the "original_content" field.
func OriginalContentEQ(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldEQ(FieldOriginalContent, v))
}

// OriginalContentNEQ applies the NEQ predicate on the "original_content" field.
func OriginalContentNEQ(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldNEQ(FieldOriginalContent, v))
}

// OriginalContentIn applies the In predicate on the "original_content" field.
func OriginalContentIn(vs ...string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldIn(FieldOriginalContent, vs...))
}

// OriginalContentNotIn applies the NotIn predicate on the "original_content" field.
func OriginalContentNotIn(vs ...string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldNotIn(FieldOriginalContent, vs...))
}

// OriginalContentGT applies the GT predicate on the "original_content" field.
func OriginalContentGT(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldGT(FieldOriginalContent, v))
}

// OriginalContentGTE applies the GTE predicate on the "original_content" field.
func OriginalContentGTE(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldGTE(FieldOriginalContent, v))
}

// OriginalContentLT applies the LT predicate on the "original_content" field.
func OriginalContentLT(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldLT(FieldOriginalContent, v))
}

// OriginalContentLTE applies the LTE predicate on the "original_content" field.
func OriginalContentLTE(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldLTE(FieldOriginalContent, v))
}

// OriginalContentContains applies the Contains predicate on the "original_content" field.
func OriginalContentContains(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldContains(FieldOriginalContent, v))
}

// OriginalContentHasPrefix applies the HasPrefix predicate on the "original_content" field.
func OriginalContentHasPrefix(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldHasPrefix(FieldOriginalContent, v))
}

// OriginalContentHasSuffix applies the HasSuffix predicate on the "original_content" field.
func OriginalContentHasSuffix(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldHasSuffix(FieldOriginalContent, v))
}

// OriginalContentIsNil applies the IsNil predicate on the "original_content" field.
func OriginalContentIsNil() predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldIsNull(FieldOriginalContent))
}

// OriginalContentNotNil applies the NotNil predicate on the "original_content" field.
func OriginalContentNotNil() predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldNotNull(FieldOriginalContent))
}

// OriginalContentEqualFold applies the EqualFold predicate on the "original_content" field.
func OriginalContentEqualFold(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldEqualFold(FieldOriginalContent, v))
}

// OriginalContentContainsFold applies the ContainsFold predicate on the "original_content" field.
func OriginalContentContainsFold(v string) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldContainsFold(FieldOriginalContent, v))
}

// ActionEQ applies the EQ predicate on the "action" field.
func ActionEQ(v Action) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldEQ(FieldAction, v))
}

// ActionNEQ applies the NEQ predicate on the "action" field.
func ActionNEQ(v Action) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldNEQ(FieldAction, v))
}

// ActionIn applies the In predicate on the "action" field.
func ActionIn(vs ...Action) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldIn(FieldAction, vs...))
}

// ActionNotIn applies the NotIn predicate on the "action" field.
func ActionNotIn(vs ...Action) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldNotIn(FieldAction, vs...))
}

// CreatedAtEQ applies the EQ predicate on the "created_at" field.
func CreatedAtEQ(v time.Time) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldEQ(FieldCreatedAt, v))
}

// CreatedAtNEQ applies the NEQ predicate on the "created_at" field.
func CreatedAtNEQ(v time.Time) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldNEQ(FieldCreatedAt, v))
}

// CreatedAtIn applies the In predicate on the "created_at" field.
func CreatedAtIn(vs ...time.Time) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldIn(FieldCreatedAt, vs...))
}

// CreatedAtNotIn applies the NotIn predicate on the "created_at" field.
func CreatedAtNotIn(vs ...time.Time) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldNotIn(FieldCreatedAt, vs...))
}

// CreatedAtGT applies the GT predicate on the "created_at" field.
func CreatedAtGT(v time.Time) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldGT(FieldCreatedAt, v))
}

// CreatedAtGTE applies the GTE predicate on the "created_at" field.
func CreatedAtGTE(v time.Time) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldGTE(FieldCreatedAt, v))
}

// CreatedAtLT applies the LT predicate on the "created_at" field.
func CreatedAtLT(v time.Time) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldLT(FieldCreatedAt, v))
}

// CreatedAtLTE applies the LTE predicate on the "created_at" field.
func CreatedAtLTE(v time.Time) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.FieldLTE(FieldCreatedAt, v))
}

// HasCheckpoint applies the HasEdge predicate on the "checkpoint" edge.
func HasCheckpoint() predicate.CheckpointFile {
	return predicate.CheckpointFile(func(s *sql.Selector) {
		step := sqlgraph.NewStep(
			sqlgraph.From(Table, FieldID),
			sqlgraph.Edge(sqlgraph.M2O, true, CheckpointTable, CheckpointColumn),
		)
		sqlgraph.HasNeighbors(s, step)
	})
}

// HasCheckpointWith applies the HasEdge predicate on the "checkpoint" edge with a given conditions (other predicates).
func HasCheckpointWith(preds ...predicate.Checkpoint) predicate.CheckpointFile {
	return predicate.CheckpointFile(func(s *sql.Selector) {
		step := newCheckpointStep()
		sqlgraph.HasNeighborsWith(s, step, func(s *sql.Selector) {
			for _, p := range preds {
				p(s)
			}
		})
	})
}

// And groups predicates with the AND operator between them.
func And(predicates ...predicate.CheckpointFile) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.AndPredicates(predicates...))
}

// Or groups predicates with the OR operator between them.
func Or(predicates ...predicate.CheckpointFile) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.OrPredicates(predicates...))
}

// Not applies the not operator on the given predicate.
func Not(p predicate.CheckpointFile) predicate.CheckpointFile {
	return predicate.CheckpointFile(sql.NotPredicates(p))
}
