// Code generated by ent, DO NOT EDIT.

package session

import (
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
)

const (
	// Label holds the string label denoting the session type in the database.
	Label = "session"
	// FieldID holds the string denoting the id field in the database.
	FieldID = "session_id"
	// FieldTask holds the string denoting the task field in the database.
	FieldTask = "task"
	// FieldMode holds the string denoting the mode field in the database.
	FieldMode = "mode"
	// FieldModel holds the string denoting the model field in the database.
	FieldModel = "model"
	// FieldTitle holds the string denoting the title field in the database.
	FieldTitle = "title"
	// FieldStatus holds the string denoting the status field in the database.
	FieldStatus = "status"
	// FieldWorkspace holds the string denoting the workspace field in the database.
	FieldWorkspace = "workspace"
	// FieldAutoApproveCommands holds the string denoting the auto_approve_commands field in the database.
	FieldAutoApproveCommands = "auto_approve_commands"
	// FieldAutoApproveSensitiveEdits holds the string denoting the auto_approve_sensitive_edits field in the database.
	FieldAutoApproveSensitiveEdits = "auto_approve_sensitive_edits"
	// FieldSensitiveFilePatterns holds the string denoting the sensitive_file_patterns field in the database.
	FieldSensitiveFilePatterns = "sensitive_file_patterns"
	// FieldFilesChanged holds the string denoting the files_changed field in the database.
	FieldFilesChanged = "files_changed"
	// FieldMemory holds the string denoting the memory field in the database.
	FieldMemory = "memory"
	// FieldCreatedAt holds the string denoting the created_at field in the database.
	FieldCreatedAt = "created_at"
	// FieldStartedAt holds the string denoting the started_at field in the database.
	FieldStartedAt = "started_at"
	// FieldCompletedAt holds the string denoting the completed_at field in the database.
	FieldCompletedAt = "completed_at"
	// FieldErrorMessage holds the string denoting the error_message field in the database.
	FieldErrorMessage = "error_message"
	// FieldPodID holds the string denoting the pod_id field in the database.
	FieldPodID = "pod_id"
	// FieldLastInteractionAt holds the string denoting the last_interaction_at field in the database.
	FieldLastInteractionAt = "last_interaction_at"
	// FieldDeletedAt holds the string denoting the deleted_at field in the database.
	FieldDeletedAt = "deleted_at"
	// EdgeMessages holds the string denoting the messages edge name in mutations.
	EdgeMessages = "messages"
	// EdgeCheckpoints holds the string denoting the checkpoints edge name in mutations.
	EdgeCheckpoints = "checkpoints"
	// EdgeEvents holds the string denoting the events edge name in mutations.
	EdgeEvents = "events"
	// MessageFieldID holds the string denoting the ID field of the Message.
	MessageFieldID = "message_id"
	// CheckpointFieldID holds the string denoting the ID field of the Checkpoint.
	CheckpointFieldID = "checkpoint_id"
	// EventFieldID holds the string denoting the ID field of the Event.
	EventFieldID = "id"
	// Table holds the table name of the session in the database.
	Table = "sessions"
	// MessagesTable is the table that holds the messages relation/edge.
	MessagesTable = "messages"
	// MessagesInverseTable is the table name for the Message entity.
	// It exists in this package in order to avoid circular dependency with the "message" package.
	MessagesInverseTable = "messages"
	// MessagesColumn is the table column denoting the messages relation/edge.
	MessagesColumn = "session_id"
	// CheckpointsTable is the table that holds the checkpoints relation/edge.
	CheckpointsTable = "checkpoints"
	// CheckpointsInverseTable is the table name for the Checkpoint entity.
	// It exists in this package in order to avoid circular dependency with the "checkpoint" package.
	CheckpointsInverseTable = "checkpoints"
	// CheckpointsColumn is the table column denoting the checkpoints relation/edge.
	CheckpointsColumn = "session_id"
	// EventsTable is the table that holds the events relation/edge.
	EventsTable = "events"
	// EventsInverseTable is the table name for the Event entity.
	// It exists in this package in order to avoid circular dependency with the "event" package.
	EventsInverseTable = "events"
	// EventsColumn is the table column denoting the events relation/edge.
	EventsColumn = "session_id"
)

// Columns holds all SQL columns for session fields.
var Columns = []string{
	FieldID,
	FieldTask,
	FieldMode,
	FieldModel,
	FieldTitle,
	FieldStatus,
	FieldWorkspace,
	FieldAutoApproveCommands,
	FieldAutoApproveSensitiveEdits,
	FieldSensitiveFilePatterns,
	FieldFilesChanged,
	FieldMemory,
	FieldCreatedAt,
	FieldStartedAt,
	FieldCompletedAt,
	FieldErrorMessage,
	FieldPodID,
	FieldLastInteractionAt,
	FieldDeletedAt,
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
	// DefaultAutoApproveCommands holds the default value on creation for the "auto_approve_commands" field.
	DefaultAutoApproveCommands bool
	// DefaultAutoApproveSensitiveEdits holds the default value on creation for the "auto_approve_sensitive_edits" field.
	DefaultAutoApproveSensitiveEdits bool
	// DefaultCreatedAt holds the default value on creation for the "created_at" field.
	DefaultCreatedAt func() time.Time
)

// Status defines the type for the "status" enum field.
type Status string

// StatusIdle is the default value of the Status enum.
const DefaultStatus = StatusIdle

// Status values.
const (
	StatusIdle       Status = "idle"
	StatusPending    Status = "pending"
	StatusGenerating Status = "generating"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusError      Status = "error"
)

func (s Status) String() string {
	return string(s)
}

// StatusValidator is a validator for the "status" field enum values. It is called by the builders before save.
func StatusValidator(s Status) error {
	switch s {
	case StatusIdle, StatusPending, StatusGenerating, StatusCompleted, StatusCancelled, StatusError:
		return nil
	default:
		return fmt.Errorf("session: invalid enum value for status field: %q", s)
	}
}

// OrderOption defines the ordering options for the Session queries.
type OrderOption func(*sql.Selector)

// ByID orders the results by the id field.
func ByID(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldID, opts...).ToFunc()
}

// ByTask orders the results by the task field.
func ByTask(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldTask, opts...).ToFunc()
}

// ByMode orders the results by the mode field.
func ByMode(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldMode, opts...).ToFunc()
}

// ByModel orders the results by the model field.
func ByModel(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldModel, opts...).ToFunc()
}

// ByTitle orders the results by the title field.
func ByTitle(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldTitle, opts...).ToFunc()
}

// ByStatus orders the results by the status field.
func ByStatus(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldStatus, opts...).ToFunc()
}

// ByWorkspace orders the results by the workspace field.
func ByWorkspace(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldWorkspace, opts...).ToFunc()
}

// ByAutoApproveCommands orders the results by the auto_approve_commands field.
func ByAutoApproveCommands(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldAutoApproveCommands, opts...).ToFunc()
}

// ByAutoApproveSensitiveEdits orders the results by the auto_approve_sensitive_edits field.
func ByAutoApproveSensitiveEdits(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldAutoApproveSensitiveEdits, opts...).ToFunc()
}

// ByCreatedAt orders the results by the created_at field.
func ByCreatedAt(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldCreatedAt, opts...).ToFunc()
}

// ByStartedAt orders the results by the started_at field.
func ByStartedAt(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldStartedAt, opts...).ToFunc()
}

// ByCompletedAt orders the results by the completed_at field.
func ByCompletedAt(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldCompletedAt, opts...).ToFunc()
}

// ByErrorMessage orders the results by the error_message field.
func ByErrorMessage(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldErrorMessage, opts...).ToFunc()
}

// ByPodID orders the results by the pod_id field.
func ByPodID(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldPodID, opts...).ToFunc()
}

// ByLastInteractionAt orders the results by the last_interaction_at field.
func ByLastInteractionAt(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldLastInteractionAt, opts...).ToFunc()
}

// ByDeletedAt orders the results by the deleted_at field.
func ByDeletedAt(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldDeletedAt, opts...).ToFunc()
}

// ByMessagesCount orders the results by messages count.
func ByMessagesCount(opts ...sql.OrderTermOption) OrderOption {
	return func(s *sql.Selector) {
		sqlgraph.OrderByNeighborsCount(s, newMessagesStep(), opts...)
	}
}

// ByMessages orders the results by messages terms.
func ByMessages(term sql.OrderTerm, terms ...sql.OrderTerm) OrderOption {
	return func(s *sql.Selector) {
		sqlgraph.OrderByNeighborTerms(s, newMessagesStep(), append([]sql.OrderTerm{term}, terms...)...)
	}
}

// ByCheckpointsCount orders the results by checkpoints count.
func ByCheckpointsCount(opts ...sql.OrderTermOption) OrderOption {
	return func(s *sql.Selector) {
		sqlgraph.OrderByNeighborsCount(s, newCheckpointsStep(), opts...)
	}
}

// ByCheckpoints orders the results by checkpoints terms.
func ByCheckpoints(term sql.OrderTerm, terms ...sql.OrderTerm) OrderOption {
	return func(s *sql.Selector) {
		sqlgraph.OrderByNeighborTerms(s, newCheckpointsStep(), append([]sql.OrderTerm{term}, terms...)...)
	}
}

// ByEventsCount orders the results by events count.
func ByEventsCount(opts ...sql.OrderTermOption) OrderOption {
	return func(s *sql.Selector) {
		sqlgraph.OrderByNeighborsCount(s, newEventsStep(), opts...)
	}
}

// ByEvents orders the results by events terms.
func ByEvents(term sql.OrderTerm, terms ...sql.OrderTerm) OrderOption {
	return func(s *sql.Selector) {
		sqlgraph.OrderByNeighborTerms(s, newEventsStep(), append([]sql.OrderTerm{term}, terms...)...)
	}
}
func newMessagesStep() *sqlgraph.Step {
	return sqlgraph.NewStep(
		sqlgraph.From(Table, FieldID),
		sqlgraph.To(MessagesInverseTable, MessageFieldID),
		sqlgraph.Edge(sqlgraph.O2M, false, MessagesTable, MessagesColumn),
	)
}
func newCheckpointsStep() *sqlgraph.Step {
	return sqlgraph.NewStep(
		sqlgraph.From(Table, FieldID),
		sqlgraph.To(CheckpointsInverseTable, CheckpointFieldID),
		sqlgraph.Edge(sqlgraph.O2M, false, CheckpointsTable, CheckpointsColumn),
	)
}
func newEventsStep() *sqlgraph.Step {
	return sqlgraph.NewStep(
		sqlgraph.From(Table, FieldID),
		sqlgraph.To(EventsInverseTable, EventFieldID),
		sqlgraph.Edge(sqlgraph.O2M, false, EventsTable, EventsColumn),
	)
}
