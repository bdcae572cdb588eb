// Code generated by ent, DO NOT EDIT.

package checkpointfile

import (
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
)

const (
	// Label holds the string label denoting the checkpointfile type in the database.
	Label = "checkpoint_file"
	// FieldID holds the string denoting the id field in the database.
	FieldID = "checkpoint_file_id"
	// FieldCheckpointID holds the string denoting the checkpoint_id field in the database.
	FieldCheckpointID = "checkpoint_id"
	// FieldPath holds the string denoting the path field in the database.
	FieldPath = "path"
	// FieldOriginalContent holds the string denoting the original_content field in the database.
	FieldOriginalContent = "original_content"
	// FieldAction holds the string denoting the action field in the database.
	FieldAction = "action"
	// FieldCreatedAt holds the string denoting the created_at field in the database.
	FieldCreatedAt = "created_at"
	// EdgeCheckpoint holds the string denoting the checkpoint edge name in mutations.
	EdgeCheckpoint = "checkpoint"
	// CheckpointFieldID holds the string denoting the ID field of the Checkpoint.
	CheckpointFieldID = "checkpoint_id"
	// Table holds the table name of the checkpointfile in the database.
	Table = "checkpoint_files"
	// CheckpointTable is the table that holds the checkpoint relation/edge.
	CheckpointTable = "checkpoint_files"
	// CheckpointInverseTable is the table name for the Checkpoint entity.
	// It exists in this package in order to avoid circular dependency with the "checkpoint" package.
	CheckpointInverseTable = "checkpoints"
	// CheckpointColumn is the table column denoting the checkpoint relation/edge.
	CheckpointColumn = "checkpoint_id"
)

// Columns holds all SQL columns for checkpointfile fields.
var Columns = []string{
	FieldID,
	FieldCheckpointID,
	FieldPath,
	FieldOriginalContent,
	FieldAction,
	FieldCreatedAt,
}

// ValidColumn reports if the column name is valid (part of the table columns).
func ValidColumn(column string) bool {
	for i := range Columns {
		if column == Columns[i] {
			return true
		}
	}
	return false
}

var (
	// DefaultCreatedAt holds the default value on creation for the "created_at" field.
	DefaultCreatedAt func() time.Time
)

// Action defines the type for the "action" enum field.
type Action string

// Action values.
const (
	ActionCreated  Action = "created"
	ActionModified Action = "modified"
	ActionDeleted  Action = "deleted"
)

func (a Action) String() string {
	return string(a)
}

// ActionValidator is a validator for the "action" field enum values. It is called by the builders before save.
func ActionValidator(a Action) error {
	switch a {
	case ActionCreated, ActionModified, ActionDeleted:
		return nil
	default:
		return fmt.Errorf("checkpointfile: invalid enum value for action field: %q", a)
	}
}

// OrderOption defines the ordering options for the CheckpointFile queries.
type OrderOption func(*sql.Selector)

// ByID orders the results by the id field.
func ByID(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldID, opts...).ToFunc()
}

// ByCheckpointID orders the results by the checkpoint_id field.
func ByCheckpointID(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldCheckpointID, opts...).ToFunc()
}

// ByPath orders the results by the path field.
func ByPath(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldPath, opts...).ToFunc()
}

// ByOriginalContent orders the results by the original_content field.
func ByOriginalContent(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldOriginalContent, opts...).ToFunc()
}

// ByAction orders the results by the action field.
func ByAction(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldAction, opts...).ToFunc()
}

// ByCreatedAt orders the results by the created_at field.
func ByCreatedAt(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldCreatedAt, opts...).ToFunc()
}

// ByCheckpointField orders the results by checkpoint field.
func ByCheckpointField(field string, opts ...sql.OrderTermOption) OrderOption {
	return func(s *sql.Selector) {
		sqlgraph.OrderByNeighborTerms(s, newCheckpointStep(), sql.OrderByField(field, opts...))
	}
}
func newCheckpointStep() *sqlgraph.Step {
	return sqlgraph.NewStep(
		sqlgraph.From(Table, FieldID),
		sqlgraph.To(CheckpointInverseTable, CheckpointFieldID),
		sqlgraph.Edge(sqlgraph.M2O, true, CheckpointTable, CheckpointColumn),
	)
}
