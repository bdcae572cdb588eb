// Code generated by ent, DO NOT EDIT.

package ent

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql"
	"github.com/kiln-dev/kiln/ent/message"
	"github.com/kiln-dev/kiln/ent/session"
)

// Message is the model entity for the Message schema.
type Message struct {
	config `json:"-"`
	// ID of the ent.
	ID string `json:"id,omitempty"`
	// SessionID holds the value of the "session_id" field.
	SessionID string `json:"session_id,omitempty"`
	// Session-scoped order
	SequenceNumber int `json:"sequence_number,omitempty"`
	// Role holds the value of the "role" field.
	Role message.Role `json:"role,omitempty"`
	// Content holds the value of the "content" field.
	Content string `json:"content,omitempty"`
	// Model that produced an assistant message
	Model *string `json:"model,omitempty"`
	// ToolName holds the value of the "tool_name" field.
	ToolName *string `json:"tool_name,omitempty"`
	// For tool messages: links result to the originating call
	ToolCallID *string `json:"tool_call_id,omitempty"`
	// For assistant messages: requested calls [{id, name, arguments}]
	ToolCalls []map[string]interface{} `json:"tool_calls,omitempty"`
	// Serialized arguments of the call this message records
	ToolInput *string `json:"tool_input,omitempty"`
	// Tool result, or JSON {type, payload} for __ui__ events
	ToolOutput *string `json:"tool_output,omitempty"`
	// Display label for progress-group events
	ProgressTitle *string `json:"progress_title,omitempty"`
	// CreatedAt holds the value of the "created_at" field.
	CreatedAt time.Time `json:"created_at,omitempty"`
	// Edges holds the relations/edges for other nodes in the graph.
	// The values are being populated by the MessageQuery when eager-loading is set.
	Edges        MessageEdges `json:"edges"`
	selectValues sql.SelectValues
}

// MessageEdges holds the relations/edges for other nodes in the graph.
type MessageEdges struct {
	// Session holds the value of the session edge.
	Session *Session `json:"session,omitempty"`
	// loadedTypes holds the information for reporting if a
	// type was loaded (or requested) in eager-loading or not.
	loadedTypes [1]bool
}

// SessionOrErr returns the Session value or an error if the edge
// was not loaded in eager-loading, or loaded but was not found.
func (e MessageEdges) SessionOrErr() (*Session, error) {
	if e.Session != nil {
		return e.Session, nil
	} else if e.loadedTypes[0] {
		return nil, &NotFoundError{label: session.Label}
	}
	return nil, &NotLoadedError{edge: "session"}
}

// scanValues returns the types for scanning values from sql.Rows.
func (*Message) scanValues(columns []string) ([]any, error) {
	values := make([]any, len(columns))
	for i := range columns {
		switch columns[i] {
		case message.FieldToolCalls:
			values[i] = new([]byte)
		case message.FieldSequenceNumber:
			values[i] = new(sql.NullInt64)
		case message.FieldID, message.FieldSessionID, message.FieldRole, message.FieldContent, message.FieldModel, message.FieldToolName, message.FieldToolCallID, message.FieldToolInput, message.FieldToolOutput, message.FieldProgressTitle:
			values[i] = new(sql.NullString)
		case message.FieldCreatedAt:
			values[i] = new(sql.NullTime)
		default:
			values[i] = new(sql.UnknownType)
		}
	}
	return values, nil
}

// assignValues assigns the values that were returned from sql.Rows (after scanning)
// to the Message fields.
func (_m *Message) assignValues(columns []string, values []any) error {
	if m, n := len(values), len(columns); m < n {
		return fmt.Errorf("mismatch number of scan values: %d != %d", m, n)
	}
	for i := range columns {
		switch columns[i] {
		case message.FieldID:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field id", values[i])
			} else if value.Valid {
				_m.ID = value.String
			}
		case message.FieldSessionID:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field session_id", values[i])
			} else if value.Valid {
				_m.SessionID = value.String
			}
		case message.FieldSequenceNumber:
			if value, ok := values[i].(*sql.NullInt64); !ok {
				return fmt.Errorf("unexpected type %T for field sequence_number", values[i])
			} else if value.Valid {
				_m.SequenceNumber = int(value.Int64)
			}
		case message.FieldRole:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field role", values[i])
			} else if value.Valid {
				_m.Role = message.Role(value.String)
			}
		case message.FieldContent:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field content", values[i])
			} else if value.Valid {
				_m.Content = value.String
			}
		case message.FieldModel:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field model", values[i])
			} else if value.Valid {
				_m.Model = new(string)
				*_m.Model = value.String
			}
		case message.FieldToolName:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field tool_name", values[i])
			} else if value.Valid {
				_m.ToolName = new(string)
				*_m.ToolName = value.String
			}
		case message.FieldToolCallID:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field tool_call_id", values[i])
			} else if value.Valid {
				_m.ToolCallID = new(string)
				*_m.ToolCallID = value.String
			}
		case message.FieldToolCalls:
			if value, ok := values[i].(*[]byte); !ok {
				return fmt.Errorf("unexpected type %T for field tool_calls", values[i])
			} else if value != nil && len(*value) > 0 {
				if err := json.Unmarshal(*value, &_m.ToolCalls); err != nil {
					return fmt.Errorf("unmarshal field tool_calls: %w", err)
				}
			}
		case message.FieldToolInput:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field tool_input", values[i])
			} else if value.Valid {
				_m.ToolInput = new(string)
				*_m.ToolInput = value.String
			}
		case message.FieldToolOutput:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field tool_output", values[i])
			} else if value.Valid {
				_m.ToolOutput = new(string)
				*_m.ToolOutput = value.String
			}
		case message.FieldProgressTitle:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field progress_title", values[i])
			} else if value.Valid {
				_m.ProgressTitle = new(string)
				*_m.ProgressTitle = value.String
			}
		case message.FieldCreatedAt:
			if value, ok := values[i].(*sql.NullTime); !ok {
				return fmt.Errorf("unexpected type %T for field created_at", values[i])
			} else if value.Valid {
				_m.CreatedAt = value.Time
			}
		default:
			_m.selectValues.Set(columns[i], values[i])
		}
	}
	return nil
}

// Value returns the ent.Value that was dynamically selected and assigned to the Message.
// This includes values selected through modifiers, order, etc.
func (_m *Message) Value(name string) (ent.Value, error) {
	return _m.selectValues.Get(name)
}

// QuerySession queries the "session" edge of the Message entity.
func (_m *Message) QuerySession() *SessionQuery {
	return NewMessageClient(_m.config).QuerySession(_m)
}

// Update returns a builder for updating this Message.
// Note that you need to call Message.Unwrap() before calling this method if this Message
// was returned from a transaction, and the transaction was committed or rolled back.
func (_m *Message) Update() *MessageUpdateOne {
	return NewMessageClient(_m.config).UpdateOne(_m)
}

// Unwrap unwraps the Message entity that was returned from a transaction after it was closed,
// so that all future queries will be executed through the driver which created the transaction.
func (_m *Message) Unwrap() *Message {
	_tx, ok := _m.config.driver.(*txDriver)
	if !ok {
		panic("ent: Message is not a transactional entity")
	}
	_m.config.driver = _tx.drv
	return _m
}

// String implements the fmt.Stringer.
func (_m *Message) String() string {
	var builder strings.Builder
	builder.WriteString("Message(")
	builder.WriteString(fmt.Sprintf("id=%v, ", _m.ID))
	builder.WriteString("session_id=")
	builder.WriteString(_m.SessionID)
	builder.WriteString(", ")
	builder.WriteString("sequence_number=")
	builder.WriteString(fmt.Sprintf("%v", _m.SequenceNumber))
	builder.WriteString(", ")
	builder.WriteString("role=")
	builder.WriteString(fmt.Sprintf("%v", _m.Role))
	builder.WriteString(", ")
	builder.WriteString("content=")
	builder.WriteString(_m.Content)
	builder.WriteString(", ")
	if v := _m.Model; v != nil {
		builder.WriteString("model=")
		builder.WriteString(*v)
	}
	builder.WriteString(", ")
	if v := _m.ToolName; v != nil {
		builder.WriteString("tool_name=")
		builder.WriteString(*v)
	}
	builder.WriteString(", ")
	if v := _m.ToolCallID; v != nil {
		builder.WriteString("tool_call_id=")
		builder.WriteString(*v)
	}
	builder.WriteString(", ")
	builder.WriteString("tool_calls=")
	builder.WriteString(fmt.Sprintf("%v", _m.ToolCalls))
	builder.WriteString(", ")
	if v := _m.ToolInput; v != nil {
		builder.WriteString("tool_input=")
		builder.WriteString(*v)
	}
	builder.WriteString(", ")
	if v := _m.ToolOutput; v != nil {
		builder.WriteString("tool_output=")
		builder.WriteString(*v)
	}
	builder.WriteString(", ")
	if v := _m.ProgressTitle; v != nil {
		builder.WriteString("progress_title=")
		builder.WriteString(*v)
	}
	builder.WriteString(", ")
	builder.WriteString("created_at=")
	builder.WriteString(_m.CreatedAt.Format(time.ANSIC))
	builder.WriteByte(')')
	return builder.String()
}

// Messages is a parsable slice of Message.
type Messages []*Message
