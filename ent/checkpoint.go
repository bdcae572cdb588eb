// Code generated by ent, DO NOT EDIT.

package ent

import (
	"fmt"
	"strings"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql"
	"github.com/kiln-dev/kiln/ent/checkpoint"
	"github.com/kiln-dev/kiln/ent/session"
)

// Checkpoint is the model entity for the Checkpoint schema.
type Checkpoint struct {
	config `json:"-"`
	// ID of the ent.
	ID string `json:"id,omitempty"`
	// SessionID holds the value of the "session_id" field.
	SessionID string `json:"session_id,omitempty"`
	// CreatedAt holds the value of the "created_at" field.
	CreatedAt time.Time `json:"created_at,omitempty"`
	// Edges holds the relations/edges for other nodes in the graph.
	// The values are being populated by the CheckpointQuery when eager-loading is set.
	Edges        CheckpointEdges `json:"edges"`
	selectValues sql.SelectValues
}

// CheckpointEdges holds the relations/edges for other nodes in the graph.
type CheckpointEdges struct {
	// Session holds the value of the session edge.
	Session *Session `json:"session,omitempty"`
	// Files holds the value of the files edge.
	Files []*CheckpointFile `json:"files,omitempty"`
	// loadedTypes holds the information for reporting if a
	// type was loaded (or requested) in eager-loading or not.
	loadedTypes [2]bool
}

// SessionOrErr returns the Session value or an error if the edge
// was not loaded in eager-loading, or loaded but was not found.
func (e CheckpointEdges) SessionOrErr() (*Session, error) {
	if e.Session != nil {
		return e.Session, nil
	} else if e.loadedTypes[0] {
		return nil, &NotFoundError{label: session.Label}
	}
	return nil, &NotLoadedError{edge: "session"}
}

// FilesOrErr returns the Files value or an error if the edge
// was not loaded in eager-loading.
func (e CheckpointEdges) FilesOrErr() ([]*CheckpointFile, error) {
	if e.loadedTypes[1] {
		return e.Files, nil
	}
	return nil, &NotLoadedError{edge: "files"}
}

// scanValues returns the types for scanning values from sql.Rows.
func (*Checkpoint) scanValues(columns []string) ([]any, error) {
	values := make([]any, len(columns))
	for i := range columns {
		switch columns[i] {
		case checkpoint.FieldID, checkpoint.FieldSessionID:
			values[i] = new(sql.NullString)
		case checkpoint.FieldCreatedAt:
			values[i] = new(sql.NullTime)
		default:
			values[i] = new(sql.UnknownType)
		}
	}
	return values, nil
}

// assignValues assigns the values that were returned from sql.Rows (after scanning)
// to the Checkpoint fields.
func (_m *Checkpoint) assignValues(columns []string, values []any) error {
	if m, n := len(values), len(columns); m < n {
		return fmt.Errorf("mismatch number of scan values: %d != %d", m, n)
	}
	for i := range columns {
		switch columns[i] {
		case checkpoint.FieldID:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field id", values[i])
			} else if value.Valid {
				_m.ID = value.String
			}
		case checkpoint.FieldSessionID:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field session_id", values[i])
			} else if value.Valid {
				_m.SessionID = value.String
			}
		case checkpoint.FieldCreatedAt:
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

// Value returns the ent.Value that was dynamically selected and assigned to the Checkpoint.
// This includes values selected through modifiers, order, etc.
func (_m *Checkpoint) Value(name string) (ent.Value, error) {
	return _m.selectValues.Get(name)
}

// QuerySession queries the "session" edge of the Checkpoint entity.
func (_m *Checkpoint) QuerySession() *SessionQuery {
	return NewCheckpointClient(_m.config).QuerySession(_m)
}

// QueryFiles queries the "files" edge of the Checkpoint entity.
func (_m *Checkpoint) QueryFiles() *CheckpointFileQuery {
	return NewCheckpointClient(_m.config).QueryFiles(_m)
}

// Update returns a builder for updating this Checkpoint.
// Note that you need to call Checkpoint.Unwrap() before calling this method if this Checkpoint
// was returned from a transaction, and the transaction was committed or rolled back.
func (_m *Checkpoint) Update() *CheckpointUpdateOne {
	return NewCheckpointClient(_m.config).UpdateOne(_m)
}

// Unwrap unwraps the Checkpoint entity that was returned from a transaction after it was closed,
// so that all future queries will be executed through the driver which created the transaction.
func (_m *Checkpoint) Unwrap() *Checkpoint {
	_tx, ok := _m.config.driver.(*txDriver)
	if !ok {
		panic("ent: Checkpoint is not a transactional entity")
	}
	_m.config.driver = _tx.drv
	return _m
}

// String implements the fmt.Stringer.
func (_m *Checkpoint) String() string {
	var builder strings.Builder
	builder.WriteString("Checkpoint(")
	builder.WriteString(fmt.Sprintf("id=%v, ", _m.ID))
	builder.WriteString("session_id=")
	builder.WriteString(_m.SessionID)
	builder.WriteString(", ")
	builder.WriteString("created_at=")
	builder.WriteString(_m.CreatedAt.Format(time.ANSIC))
	builder.WriteByte(')')
	return builder.String()
}

// Checkpoints is a parsable slice of Checkpoint.
type Checkpoints []*Checkpoint
