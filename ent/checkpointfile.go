// Code generated by ent, DO NOT EDIT.

package ent

import (
	"fmt"
	"strings"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql"
	"github.com/kiln-dev/kiln/ent/checkpoint"
	"github.com/kiln-dev/kiln/ent/checkpointfile"
)

// CheckpointFile is the model entity for the CheckpointFile schema.
type CheckpointFile struct {
	config `json:"-"`
	// ID of the ent.
	ID string `json:"id,omitempty"`
	// CheckpointID holds the value of the "checkpoint_id" field.
	CheckpointID string `json:"checkpoint_id,omitempty"`
	// Workspace-relative path
	Path string `json:"path,omitempty"`
	// Pre-write content; nil when action is created
	OriginalContent *string `json:"original_content,omitempty"`
	// Action holds the value of the "action" field.
	Action checkpointfile.Action `json:"action,omitempty"`
	// CreatedAt holds the value of the "created_at" field.
	CreatedAt time.Time `json:"created_at,omitempty"`
	// Edges holds the relations/edges for other nodes in the graph.
	// The values are being populated by the CheckpointFileQuery when eager-loading is set.
	Edges        CheckpointFileEdges `json:"edges"`
	selectValues sql.SelectValues
}

// CheckpointFileEdges holds the relations/edges for other nodes in the graph.
type CheckpointFileEdges struct {
	// Checkpoint holds the value of the checkpoint edge.
	Checkpoint *Checkpoint `json:"checkpoint,omitempty"`
	// loadedTypes holds the information for reporting if a
	// type was loaded (or requested) in eager-loading or not.
	loadedTypes [1]bool
}

// CheckpointOrErr returns the Checkpoint value or an error if the edge
// was not loaded in eager-loading, or loaded but was not found.
func (e CheckpointFileEdges) CheckpointOrErr() (*Checkpoint, error) {
	if e.Checkpoint != nil {
		return e.Checkpoint, nil
	} else if e.loadedTypes[0] {
		return nil, &NotFoundError{label: checkpoint.Label}
	}
	return nil, &NotLoadedError{edge: "checkpoint"}
}

// scanValues returns the types for scanning values from sql.Rows.
func (*CheckpointFile) scanValues(columns []string) ([]any, error) {
	values := make([]any, len(columns))
	for i := range columns {
		switch columns[i] {
		case checkpointfile.FieldID, checkpointfile.FieldCheckpointID, checkpointfile.FieldPath, checkpointfile.FieldOriginalContent, checkpointfile.FieldAction:
			values[i] = new(sql.NullString)
		case checkpointfile.FieldCreatedAt:
			values[i] = new(sql.NullTime)
		default:
			values[i] = new(sql.UnknownType)
		}
	}
	return values, nil
}

// assignValues assigns the values that were returned from sql.Rows (after scanning)
// to the CheckpointFile fields.
func (_m *CheckpointFile) assignValues(columns []string, values []any) error {
	if m, n := len(values), len(columns); m < n {
		return fmt.Errorf("mismatch number of scan values: %d != %d", m, n)
	}
	for i := range columns {
		switch columns[i] {
		case checkpointfile.FieldID:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field id", values[i])
			} else if value.Valid {
				_m.ID = value.String
			}
		case checkpointfile.FieldCheckpointID:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field checkpoint_id", values[i])
			} else if value.Valid {
				_m.CheckpointID = value.String
			}
		case checkpointfile.FieldPath:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field path", values[i])
			} else if value.Valid {
				_m.Path = value.String
			}
		case checkpointfile.FieldOriginalContent:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field original_content", values[i])
			} else if value.Valid {
				_m.OriginalContent = new(string)
				*_m.OriginalContent = value.String
			}
		case checkpointfile.FieldAction:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field action", values[i])
			} else if value.Valid {
				_m.Action = checkpointfile.Action(value.String)
			}
		case checkpointfile.FieldCreatedAt:
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

// Value returns the ent.Value that was dynamically selected and assigned to the CheckpointFile.
// This includes values selected through modifiers, order, etc.
func (_m *CheckpointFile) Value(name string) (ent.Value, error) {
	return _m.selectValues.Get(name)
}

// QueryCheckpoint queries the "checkpoint" edge of the CheckpointFile entity.
func (_m *CheckpointFile) QueryCheckpoint() *CheckpointQuery {
	return NewCheckpointFileClient(_m.config).QueryCheckpoint(_m)
}

// Update returns a builder for updating this CheckpointFile.
// Note that you need to call CheckpointFile.Unwrap() before calling this method if this CheckpointFile
// was returned from a transaction, and the transaction was committed or rolled back.
func (_m *CheckpointFile) Update() *CheckpointFileUpdateOne {
	return NewCheckpointFileClient(_m.config).UpdateOne(_m)
}

// Unwrap unwraps the CheckpointFile entity that was returned from a transaction after it was closed,
// so that all future queries will be executed through the driver which created the transaction.
func (_m *CheckpointFile) Unwrap() *CheckpointFile {
	_tx, ok := _m.config.driver.(*txDriver)
	if !ok {
		panic("ent: CheckpointFile is not a transactional entity")
	}
	_m.config.driver = _tx.drv
	return _m
}

// String implements the fmt.Stringer.
func (_m *CheckpointFile) String() string {
	var builder strings.Builder
	builder.WriteString("CheckpointFile(")
	builder.WriteString(fmt.Sprintf("id=%v, ", _m.ID))
	builder.WriteString("checkpoint_id=")
	builder.WriteString(_m.CheckpointID)
	builder.WriteString(", ")
	builder.WriteString("path=")
	builder.WriteString(_m.Path)
	builder.WriteString(", ")
	if v := _m.OriginalContent; v != nil {
		builder.WriteString("original_content=")
		builder.WriteString(*v)
	}
	builder.WriteString(", ")
	builder.WriteString("action=")
	builder.WriteString(fmt.Sprintf("%v", _m.Action))
	builder.WriteString(", ")
	builder.WriteString("created_at=")
	builder.WriteString(_m.CreatedAt.Format(time.ANSIC))
	builder.WriteByte(')')
	return builder.String()
}

// CheckpointFiles is a parsable slice of CheckpointFile.
type CheckpointFiles []*CheckpointFile
