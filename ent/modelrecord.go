// Code generated by ent, DO NOT EDIT.

package ent

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql"
	"github.com/kiln-dev/kiln/ent/modelrecord"
)

// ModelRecord is the model entity for the ModelRecord schema.
type ModelRecord struct {
	config `json:"-"`
	// ID of the ent.
	ID string `json:"id,omitempty"`
	// Ollama model name (upsert key)
	Name string `json:"name,omitempty"`
	// Detected context window; nil when extraction failed
	ContextLength *int `json:"context_length,omitempty"`
	// Capability strings from /api/show (tools, thinking, ...)
	Capabilities []string `json:"capabilities,omitempty"`
	// Raw parameters blob from /api/show
	Parameters *string `json:"parameters,omitempty"`
	// UpdatedAt holds the value of the "updated_at" field.
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
	selectValues sql.SelectValues
}

// scanValues returns the types for scanning values from sql.Rows.
func (*ModelRecord) scanValues(columns []string) ([]any, error) {
	values := make([]any, len(columns))
	for i := range columns {
		switch columns[i] {
		case modelrecord.FieldCapabilities:
			values[i] = new([]byte)
		case modelrecord.FieldContextLength:
			values[i] = new(sql.NullInt64)
		case modelrecord.FieldID, modelrecord.FieldName, modelrecord.FieldParameters:
			values[i] = new(sql.NullString)
		case modelrecord.FieldUpdatedAt:
			values[i] = new(sql.NullTime)
		default:
			values[i] = new(sql.UnknownType)
		}
	}
	return values, nil
}

// assignValues assigns the values that were returned from sql.Rows (after scanning)
// to the ModelRecord fields.
func (_m *ModelRecord) assignValues(columns []string, values []any) error {
	if m, n := len(values), len(columns); m < n {
		return fmt.Errorf("mismatch number of scan values: %d != %d", m, n)
	}
	for i := range columns {
		switch columns[i] {
		case modelrecord.FieldID:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field id", values[i])
			} else if value.Valid {
				_m.ID = value.String
			}
		case modelrecord.FieldName:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field name", values[i])
			} else if value.Valid {
				_m.Name = value.String
			}
		case modelrecord.FieldContextLength:
			if value, ok := values[i].(*sql.NullInt64); !ok {
				return fmt.Errorf("unexpected type %T for field context_length", values[i])
			} else if value.Valid {
				_m.ContextLength = new(int)
				*_m.ContextLength = int(value.Int64)
			}
		case modelrecord.FieldCapabilities:
			if value, ok := values[i].(*[]byte); !ok {
				return fmt.Errorf("unexpected type %T for field capabilities", values[i])
			} else if value != nil && len(*value) > 0 {
				if err := json.Unmarshal(*value, &_m.Capabilities); err != nil {
					return fmt.Errorf("unmarshal field capabilities: %w", err)
				}
			}
		case modelrecord.FieldParameters:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field parameters", values[i])
			} else if value.Valid {
				_m.Parameters = new(string)
				*_m.Parameters = value.String
			}
		case modelrecord.FieldUpdatedAt:
			if value, ok := values[i].(*sql.NullTime); !ok {
				return fmt.Errorf("unexpected type %T for field updated_at", values[i])
			} else if value.Valid {
				_m.UpdatedAt = value.Time
			}
		default:
			_m.selectValues.Set(columns[i], values[i])
		}
	}
	return nil
}

// Value returns the ent.Value that was dynamically selected and assigned to the ModelRecord.
// This includes values selected through modifiers, order, etc.
func (_m *ModelRecord) Value(name string) (ent.Value, error) {
	return _m.selectValues.Get(name)
}

// Update returns a builder for updating this ModelRecord.
// Note that you need to call ModelRecord.Unwrap() before calling this method if this ModelRecord
// was returned from a transaction, and the transaction was committed or rolled back.
func (_m *ModelRecord) Update() *ModelRecordUpdateOne {
	return NewModelRecordClient(_m.config).UpdateOne(_m)
}

// Unwrap unwraps the ModelRecord entity that was returned from a transaction after it was closed,
// so that all future queries will be executed through the driver which created the transaction.
func (_m *ModelRecord) Unwrap() *ModelRecord {
	_tx, ok := _m.config.driver.(*txDriver)
	if !ok {
		panic("ent: ModelRecord is not a transactional entity")
	}
	_m.config.driver = _tx.drv
	return _m
}

// String implements the fmt.Stringer.
func (_m *ModelRecord) String() string {
	var builder strings.Builder
	builder.WriteString("ModelRecord(")
	builder.WriteString(fmt.Sprintf("id=%v, ", _m.ID))
	builder.WriteString("name=")
	builder.WriteString(_m.Name)
	builder.WriteString(", ")
	if v := _m.ContextLength; v != nil {
		builder.WriteString("context_length=")
		builder.WriteString(fmt.Sprintf("%v", *v))
	}
	builder.WriteString(", ")
	builder.WriteString("capabilities=")
	builder.WriteString(fmt.Sprintf("%v", _m.Capabilities))
	builder.WriteString(", ")
	if v := _m.Parameters; v != nil {
		builder.WriteString("parameters=")
		builder.WriteString(*v)
	}
	builder.WriteString(", ")
	builder.WriteString("updated_at=")
	builder.WriteString(_m.UpdatedAt.Format(time.ANSIC))
	builder.WriteByte(')')
	return builder.String()
}

// ModelRecords is a parsable slice of ModelRecord.
type ModelRecords []*ModelRecord
