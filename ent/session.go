// Code generated by ent, DO NOT EDIT.

package ent

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql"
	"github.com/kiln-dev/kiln/ent/session"
)

// Session is the model entity for the Session schema.
type Session struct {
	config `json:"-"`
	// ID of the ent.
	ID string `json:"id,omitempty"`
	// Latest user task text (drives the pending turn)
	Task string `json:"task,omitempty"`
	// Executor mode (agent, explore, plan, chat, review, deep-explore, deep-explore-write)
	Mode string `json:"mode,omitempty"`
	// Ollama model name
	Model string `json:"model,omitempty"`
	// Generated short title; nil until title generation succeeds
	Title *string `json:"title,omitempty"`
	// Status holds the value of the "status" field.
	Status session.Status `json:"status,omitempty"`
	// Absolute workspace root path
	Workspace string `json:"workspace,omitempty"`
	// AutoApproveCommands holds the value of the "auto_approve_commands" field.
	AutoApproveCommands bool `json:"auto_approve_commands,omitempty"`
	// AutoApproveSensitiveEdits holds the value of the "auto_approve_sensitive_edits" field.
	AutoApproveSensitiveEdits bool `json:"auto_approve_sensitive_edits,omitempty"`
	// Regex patterns gating file edits through approval
	SensitiveFilePatterns []string `json:"sensitive_file_patterns,omitempty"`
	// Workspace-relative paths written during the last turn
	FilesChanged []string `json:"files_changed,omitempty"`
	// Serialized session memory (iteration summaries + facts)
	Memory map[string]interface{} `json:"memory,omitempty"`
	// CreatedAt holds the value of the "created_at" field.
	CreatedAt time.Time `json:"created_at,omitempty"`
	// When the worker claimed the current turn
	StartedAt *time.Time `json:"started_at,omitempty"`
	// CompletedAt holds the value of the "completed_at" field.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	// ErrorMessage holds the value of the "error_message" field.
	ErrorMessage *string `json:"error_message,omitempty"`
	// For multi-replica coordination
	PodID *string `json:"pod_id,omitempty"`
	// Heartbeat for orphan detection
	LastInteractionAt *time.Time `json:"last_interaction_at,omitempty"`
	// Soft delete for retention policy
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	// Edges holds the relations/edges for other nodes in the graph.
	// The values are being populated by the SessionQuery when eager-loading is set.
	Edges        SessionEdges `json:"edges"`
	selectValues sql.SelectValues
}

// SessionEdges holds the relations/edges for other nodes in the graph.
type SessionEdges struct {
	// Messages holds the value of the messages edge.
	Messages []*Message `json:"messages,omitempty"`
	// Checkpoints holds the value of the checkpoints edge.
	Checkpoints []*Checkpoint `json:"checkpoints,omitempty"`
	// Events holds the value of the events edge.
	Events []*Event `json:"events,omitempty"`
	// loadedTypes holds the information for reporting if a
	// type was loaded (or requested) in eager-loading or not.
	loadedTypes [3]bool
}

// MessagesOrErr returns the Messages value or an error if the edge
// was not loaded in eager-loading.
func (e SessionEdges) MessagesOrErr() ([]*Message, error) {
	if e.loadedTypes[0] {
		return e.Messages, nil
	}
	return nil, &NotLoadedError{edge: "messages"}
}

// CheckpointsOrErr returns the Checkpoints value or an error if the edge
// was not loaded in eager-loading.
func (e SessionEdges) CheckpointsOrErr() ([]*Checkpoint, error) {
	if e.loadedTypes[1] {
		return e.Checkpoints, nil
	}
	return nil, &NotLoadedError{edge: "checkpoints"}
}

// EventsOrErr returns the Events value or an error if the edge
// was not loaded in eager-loading.
func (e SessionEdges) EventsOrErr() ([]*Event, error) {
	if e.loadedTypes[2] {
		return e.Events, nil
	}
	return nil, &NotLoadedError{edge: "events"}
}

// scanValues returns the types for scanning values from sql.Rows.
func (*Session) scanValues(columns []string) ([]any, error) {
	values := make([]any, len(columns))
	for i := range columns {
		switch columns[i] {
		case session.FieldSensitiveFilePatterns, session.FieldFilesChanged, session.FieldMemory:
			values[i] = new([]byte)
		case session.FieldAutoApproveCommands, session.FieldAutoApproveSensitiveEdits:
			values[i] = new(sql.NullBool)
		case session.FieldID, session.FieldTask, session.FieldMode, session.FieldModel, session.FieldTitle, session.FieldStatus, session.FieldWorkspace, session.FieldErrorMessage, session.FieldPodID:
			values[i] = new(sql.NullString)
		case session.FieldCreatedAt, session.FieldStartedAt, session.FieldCompletedAt, session.FieldLastInteractionAt, session.FieldDeletedAt:
			values[i] = new(sql.NullTime)
		default:
			values[i] = new(sql.UnknownType)
		}
	}
	return values, nil
}

// assignValues assigns the values that were returned from sql.Rows (after scanning)
// to the Session fields.
func (_m *Session) assignValues(columns []string, values []any) error {
	if m, n := len(values), len(columns); m < n {
		return fmt.Errorf("mismatch number of scan values: %d != %d", m, n)
	}
	for i := range columns {
		switch columns[i] {
		case session.FieldID:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field id", values[i])
			} else if value.Valid {
				_m.ID = value.String
			}
		case session.FieldTask:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field task", values[i])
			} else if value.Valid {
				_m.Task = value.String
			}
		case session.FieldMode:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field mode", values[i])
			} else if value.Valid {
				_m.Mode = value.String
			}
		case session.FieldModel:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field model", values[i])
			} else if value.Valid {
				_m.Model = value.String
			}
		case session.FieldTitle:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field title", values[i])
			} else if value.Valid {
				_m.Title = new(string)
				*_m.Title = value.String
			}
		case session.FieldStatus:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field status", values[i])
			} else if value.Valid {
				_m.Status = session.Status(value.String)
			}
		case session.FieldWorkspace:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field workspace", values[i])
			} else if value.Valid {
				_m.Workspace = value.String
			}
		case session.FieldAutoApproveCommands:
			if value, ok := values[i].(*sql.NullBool); !ok {
				return fmt.Errorf("unexpected type %T for field auto_approve_commands", values[i])
			} else if value.Valid {
				_m.AutoApproveCommands = value.Bool
			}
		case session.FieldAutoApproveSensitiveEdits:
			if value, ok := values[i].(*sql.NullBool); !ok {
				return fmt.Errorf("unexpected type %T for field auto_approve_sensitive_edits", values[i])
			} else if value.Valid {
				_m.AutoApproveSensitiveEdits = value.Bool
			}
		case session.FieldSensitiveFilePatterns:
			if value, ok := values[i].(*[]byte); !ok {
				return fmt.Errorf("unexpected type %T for field sensitive_file_patterns", values[i])
			} else if value != nil && len(*value) > 0 {
				if err := json.Unmarshal(*value, &_m.SensitiveFilePatterns); err != nil {
					return fmt.Errorf("unmarshal field sensitive_file_patterns: %w", err)
				}
			}
		case session.FieldFilesChanged:
			if value, ok := values[i].(*[]byte); !ok {
				return fmt.Errorf("unexpected type %T for field files_changed", values[i])
			} else if value != nil && len(*value) > 0 {
				if err := json.Unmarshal(*value, &_m.FilesChanged); err != nil {
					return fmt.Errorf("unmarshal field files_changed: %w", err)
				}
			}
		case session.FieldMemory:
			if value, ok := values[i].(*[]byte); !ok {
				return fmt.Errorf("unexpected type %T for field memory", values[i])
			} else if value != nil && len(*value) > 0 {
				if err := json.Unmarshal(*value, &_m.Memory); err != nil {
					return fmt.Errorf("unmarshal field memory: %w", err)
				}
			}
		case session.FieldCreatedAt:
			if value, ok := values[i].(*sql.NullTime); !ok {
				return fmt.Errorf("unexpected type %T for field created_at", values[i])
			} else if value.Valid {
				_m.CreatedAt = value.Time
			}
		case session.FieldStartedAt:
			if value, ok := values[i].(*sql.NullTime); !ok {
				return fmt.Errorf("unexpected type %T for field started_at", values[i])
			} else if value.Valid {
				_m.StartedAt = new(time.Time)
				*_m.StartedAt = value.Time
			}
		case session.FieldCompletedAt:
			if value, ok := values[i].(*sql.NullTime); !ok {
				return fmt.Errorf("unexpected type %T for field completed_at", values[i])
			} else if value.Valid {
				_m.CompletedAt = new(time.Time)
				*_m.CompletedAt = value.Time
			}
		case session.FieldErrorMessage:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field error_message", values[i])
			} else if value.Valid {
				_m.ErrorMessage = new(string)
				*_m.ErrorMessage = value.String
			}
		case session.FieldPodID:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field pod_id", values[i])
			} else if value.Valid {
				_m.PodID = new(string)
				*_m.PodID = value.String
			}
		case session.FieldLastInteractionAt:
			if value, ok := values[i].(*sql.NullTime); !ok {
				return fmt.Errorf("unexpected type %T for field last_interaction_at", values[i])
			} else if value.Valid {
				_m.LastInteractionAt = new(time.Time)
				*_m.LastInteractionAt = value.Time
			}
		case session.FieldDeletedAt:
			if value, ok := values[i].(*sql.NullTime); !ok {
				return fmt.Errorf("unexpected type %T for field deleted_at", values[i])
			} else if value.Valid {
				_m.DeletedAt = new(time.Time)
				*_m.DeletedAt = value.Time
			}
		default:
			_m.selectValues.Set(columns[i], values[i])
		}
	}
	return nil
}

// Value returns the ent.Value that was dynamically selected and assigned to the Session.
// This includes values selected through modifiers, order, etc.
func (_m *Session) Value(name string) (ent.Value, error) {
	return _m.selectValues.Get(name)
}

// QueryMessages queries the "messages" edge of the Session entity.
func (_m *Session) QueryMessages() *MessageQuery {
	return NewSessionClient(_m.config).QueryMessages(_m)
}

// QueryCheckpoints queries the "checkpoints" edge of the Session entity.
func (_m *Session) QueryCheckpoints() *CheckpointQuery {
	return NewSessionClient(_m.config).QueryCheckpoints(_m)
}

// QueryEvents queries the "events" edge of the Session entity.
func (_m *Session) QueryEvents() *EventQuery {
	return NewSessionClient(_m.config).QueryEvents(_m)
}

// Update returns a builder for updating this Session.
// Note that you need to call Session.Unwrap() before calling this method if this Session
// was returned from a transaction, and the transaction was committed or rolled back.
func (_m *Session) Update() *SessionUpdateOne {
	return NewSessionClient(_m.config).UpdateOne(_m)
}

// Unwrap unwraps the Session entity that was returned from a transaction after it was closed,
// so that all future queries will be executed through the driver which created the transaction.
func (_m *Session) Unwrap() *Session {
	_tx, ok := _m.config.driver.(*txDriver)
	if !ok {
		panic("ent: Session is not a transactional entity")
	}
	_m.config.driver = _tx.drv
	return _m
}

// String implements the fmt.Stringer.
func (_m *Session) String() string {
	var builder strings.Builder
	builder.WriteString("Session(")
	builder.WriteString(fmt.Sprintf("id=%v, ", _m.ID))
	builder.WriteString("task=")
	builder.WriteString(_m.Task)
	builder.WriteString(", ")
	builder.WriteString("mode=")
	builder.WriteString(_m.Mode)
	builder.WriteString(", ")
	builder.WriteString("model=")
	builder.WriteString(_m.Model)
	builder.WriteString(", ")
	if v := _m.Title; v != nil {
		builder.WriteString("title=")
		builder.WriteString(*v)
	}
	builder.WriteString(", ")
	builder.WriteString("status=")
	builder.WriteString(fmt.Sprintf("%v", _m.Status))
	builder.WriteString(", ")
	builder.WriteString("workspace=")
	builder.WriteString(_m.Workspace)
	builder.WriteString(", ")
	builder.WriteString("auto_approve_commands=")
	builder.WriteString(fmt.Sprintf("%v", _m.AutoApproveCommands))
	builder.WriteString(", ")
	builder.WriteString("auto_approve_sensitive_edits=")
	builder.WriteString(fmt.Sprintf("%v", _m.AutoApproveSensitiveEdits))
	builder.WriteString(", ")
	builder.WriteString("sensitive_file_patterns=")
	builder.WriteString(fmt.Sprintf("%v", _m.SensitiveFilePatterns))
	builder.WriteString(", ")
	builder.WriteString("files_changed=")
	builder.WriteString(fmt.Sprintf("%v", _m.FilesChanged))
	builder.WriteString(", ")
	builder.WriteString("memory=")
	builder.WriteString(fmt.Sprintf("%v", _m.Memory))
	builder.WriteString(", ")
	builder.WriteString("created_at=")
	builder.WriteString(_m.CreatedAt.Format(time.ANSIC))
	builder.WriteString(", ")
	if v := _m.StartedAt; v != nil {
		builder.WriteString("started_at=")
		builder.WriteString(v.Format(time.ANSIC))
	}
	builder.WriteString(", ")
	if v := _m.CompletedAt; v != nil {
		builder.WriteString("completed_at=")
		builder.WriteString(v.Format(time.ANSIC))
	}
	builder.WriteString(", ")
	if v := _m.ErrorMessage; v != nil {
		builder.WriteString("error_message=")
		builder.WriteString(*v)
	}
	builder.WriteString(", ")
	if v := _m.PodID; v != nil {
		builder.WriteString("pod_id=")
		builder.WriteString(*v)
	}
	builder.WriteString(", ")
	if v := _m.LastInteractionAt; v != nil {
		builder.WriteString("last_interaction_at=")
		builder.WriteString(v.Format(time.ANSIC))
	}
	builder.WriteString(", ")
	if v := _m.DeletedAt; v != nil {
		builder.WriteString("deleted_at=")
		builder.WriteString(v.Format(time.ANSIC))
	}
	builder.WriteByte(')')
	return builder.String()
}

// Sessions is a parsable slice of Session.
type Sessions []*Session
