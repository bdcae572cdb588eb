// Code generated by ent, DO NOT EDIT.

package message

import (
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
)

const (
	// Label holds the string label denoting the message type in the database.
	Label = "message"
	// FieldID holds the string denoting the id field in the database.
	FieldID = "message_id"
	// FieldSessionID holds the string denoting the session_id field in the database.
	FieldSessionID = "session_id"
	// FieldSequenceNumber holds the string denoting the sequence_number field in the database.
	FieldSequenceNumber = "sequence_number"
	// FieldRole holds the string denoting the role field in the database.
	FieldRole = "role"
	// FieldContent holds the string denoting the content field in the database.
	FieldContent = "content"
	// FieldModel holds the string denoting the model field in the database.
	FieldModel = "model"
	// FieldToolName holds the string denoting the tool_name field in the database.
	FieldToolName = "tool_name"
	// FieldToolCallID holds the string denoting the tool_call_id field in the database.
	FieldToolCallID = "tool_call_id"
	// FieldToolCalls holds the string denoting the tool_calls field in the database.
	FieldToolCalls = "tool_calls"
	// FieldToolInput holds the string denoting the tool_input field in the database.
	FieldToolInput = "tool_input"
	// FieldToolOutput holds the string denoting the tool_output field in the database.
	FieldToolOutput = "tool_output"
	// FieldProgressTitle holds the string denoting the progress_title field in the database.
	FieldProgressTitle = "progress_title"
	// FieldCreatedAt holds the string denoting the created_at field in the database.
	FieldCreatedAt = "created_at"
	// EdgeSession holds the string denoting the session edge name in mutations.
	EdgeSession = "session"
	// SessionFieldID holds the string denoting the ID field of the Session.
	SessionFieldID = "session_id"
	// Table holds the table name of the message in the database.
	Table = "messages"
	// SessionTable is the table that holds the session relation/edge.
	SessionTable = "messages"
	// SessionInverseTable is the table name for the Session entity.
	// It exists in this package in order to avoid circular dependency with the "session" package.
	SessionInverseTable = "sessions"
	// SessionColumn is the table column denoting the session relation/edge.
	SessionColumn = "session_id"
)

// Columns holds all SQL columns for message fields.
var Columns = []string{
	FieldID,
	FieldSessionID,
	FieldSequenceNumber,
	FieldRole,
	FieldContent,
	FieldModel,
	FieldToolName,
	FieldToolCallID,
	FieldToolCalls,
	FieldToolInput,
	FieldToolOutput,
	FieldProgressTitle,
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

// Role defines the type for the "role" enum field.
type Role string

// Role values.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

func (r Role) String() string {
	return string(r)
}

// RoleValidator is a validator for the "role" field enum values. It is called by the builders before save.
func RoleValidator(r Role) error {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return nil
	default:
		return fmt.Errorf("message: invalid enum value for role field: %q", r)
	}
}

// OrderOption defines the ordering options for the Message queries.
type OrderOption func(*sql.Selector)

// ByID orders the results by the id field.
func ByID(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldID, opts...).ToFunc()
}

// BySessionID orders the results by the session_id field.
func BySessionID(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldSessionID, opts...).ToFunc()
}

// BySequenceNumber orders the results by the sequence_number field.
func BySequenceNumber(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldSequenceNumber, opts...).ToFunc()
}

// ByRole orders the results by the role field.
func ByRole(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldRole, opts...).ToFunc()
}

// ByContent orders the results by the content field.
func ByContent(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldContent, opts...).ToFunc()
}

// ByModel orders the results by the model field.
func ByModel(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldModel, opts...).ToFunc()
}

// ByToolName orders the results by the tool_name field.
func ByToolName(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldToolName, opts...).ToFunc()
}

// ByToolCallID orders the results by the tool_call_id field.
func ByToolCallID(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldToolCallID, opts...).ToFunc()
}

// ByToolInput orders the results by the tool_input field.
func ByToolInput(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldToolInput, opts...).ToFunc()
}

// ByToolOutput orders the results by the tool_output field.
func ByToolOutput(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldToolOutput, opts...).ToFunc()
}

// ByProgressTitle orders the results by the progress_title field.
func ByProgressTitle(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldProgressTitle, opts...).ToFunc()
}

// ByCreatedAt orders the results by the created_at field.
func ByCreatedAt(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldCreatedAt, opts...).ToFunc()
}

// BySessionField orders the results by session field.
func BySessionField(field string, opts ...sql.OrderTermOption) OrderOption {
	return func(s *sql.Selector) {
		sqlgraph.OrderByNeighborTerms(s, newSessionStep(), sql.OrderByField(field, opts...))
	}
}
func newSessionStep() *sqlgraph.Step {
	return sqlgraph.NewStep(
		sqlgraph.From(Table, FieldID),
		sqlgraph.To(SessionInverseTable, SessionFieldID),
		sqlgraph.Edge(sqlgraph.M2O, true, SessionTable, SessionColumn),
	)
}
