// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"entgo.io/ent/dialect/sql/sqljson"
	"entgo.io/ent/schema/field"
	"github.com/kiln-dev/kiln/ent/modelrecord"
	"github.com/kiln-dev/kiln/ent/predicate"
)

// ModelRecordUpdate is the builder for updating ModelRecord entities.
type ModelRecordUpdate struct {
	config
	hooks    []Hook
	mutation *ModelRecordMutation
}

// Where appends a list predicates to the ModelRecordUpdate builder.
func (_u *ModelRecordUpdate) Where(ps ...predicate.ModelRecord) *ModelRecordUpdate {
	_u.mutation.Where(ps...)
	return _u
}

// SetName sets the "name" field.
func (_u *ModelRecordUpdate) SetName(v string) *ModelRecordUpdate {
	_u.mutation.SetName(v)
	return _u
}

// SetNillableName sets the "name" field if the given value is not nil.
func (_u *ModelRecordUpdate) SetNillableName(v *string) *ModelRecordUpdate {
	if v != nil {
		_u.SetName(*v)
	}
	return _u
}

// SetContextLength sets the "context_length" field.
func (_u *ModelRecordUpdate) SetContextLength(v int) *ModelRecordUpdate {
	_u.mutation.ResetContextLength()
	_u.mutation.SetContextLength(v)
	return _u
}

// SetNillableContextLength sets the "context_length" field if the given value is not nil.
func (_u *ModelRecordUpdate) SetNillableContextLength(v *int) *ModelRecordUpdate {
	if v != nil {
		_u.SetContextLength(*v)
	}
	return _u
}

// AddContextLength adds value to the "context_length" field.
func (_u *ModelRecordUpdate) AddContextLength(v int) *ModelRecordUpdate {
	_u.mutation.AddContextLength(v)
	return _u
}

// ClearContextLength clears the value of the "context_length" field.
func (_u *ModelRecordUpdate) ClearContextLength() *ModelRecordUpdate {
	_u.mutation.ClearContextLength()
	return _u
}

// SetCapabilities sets the "capabilities" field.
func (_u *ModelRecordUpdate) SetCapabilities(v []string) *ModelRecordUpdate {
	_u.mutation.SetCapabilities(v)
	return _u
}

// AppendCapabilities appends value to the "capabilities" field.
func (_u *ModelRecordUpdate) AppendCapabilities(v []string) *ModelRecordUpdate {
	_u.mutation.AppendCapabilities(v)
	return _u
}

// ClearCapabilities clears the value of the "capabilities" field.
func (_u *ModelRecordUpdate) ClearCapabilities() *ModelRecordUpdate {
	_u.mutation.ClearCapabilities()
	return _u
}

// SetParameters sets the "parameters" field.
func (_u *ModelRecordUpdate) SetParameters(v string) *ModelRecordUpdate {
	_u.mutation.SetParameters(v)
	return _u
}

// SetNillableParameters sets the "parameters" field if the given value is not nil.
func (_u *ModelRecordUpdate) SetNillableParameters(v *string) *ModelRecordUpdate {
	if v != nil {
		_u.SetParameters(*v)
	}
	return _u
}

// ClearParameters clears the value of the "parameters" field.
func (_u *ModelRecordUpdate) ClearParameters() *ModelRecordUpdate {
	_u.mutation.ClearParameters()
	return _u
}

// SetUpdatedAt sets the "updated_at" field.
func (_u *ModelRecordUpdate) SetUpdatedAt(v time.Time) *ModelRecordUpdate {
	_u.mutation.SetUpdatedAt(v)
	return _u
}

// Mutation returns the ModelRecordMutation object of the builder.
func (_u *ModelRecordUpdate) Mutation() *ModelRecordMutation {
	return _u.mutation
}

// Save executes the query and returns the number of nodes affected by the update operation.
func (_u *ModelRecordUpdate) Save(ctx context.Context) (int, error) {
	_u.defaults()
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *ModelRecordUpdate) SaveX(ctx context.Context) int {
	affected, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return affected
}

// Exec executes the query.
func (_u *ModelRecordUpdate) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *ModelRecordUpdate) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// defaults sets the default values of the builder before save.
func (_u *ModelRecordUpdate) defaults() {
	if _, ok := _u.mutation.UpdatedAt(); !ok {
		v := modelrecord.UpdateDefaultUpdatedAt()
		_u.mutation.SetUpdatedAt(v)
	}
}

func (_u *ModelRecordUpdate) sqlSave(ctx context.Context) (_node int, err error) {
	_spec := sqlgraph.NewUpdateSpec(modelrecord.Table, modelrecord.Columns, sqlgraph.NewFieldSpec(modelrecord.FieldID, field.TypeString))
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.Name(); ok {
		_spec.SetField(modelrecord.FieldName, field.TypeString, value)
	}
	if value, ok := _u.mutation.ContextLength(); ok {
		_spec.SetField(modelrecord.FieldContextLength, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedContextLength(); ok {
		_spec.AddField(modelrecord.FieldContextLength, field.TypeInt, value)
	}
	if _u.mutation.ContextLengthCleared() {
		_spec.ClearField(modelrecord.FieldContextLength, field.TypeInt)
	}
	if value, ok := _u.mutation.Capabilities(); ok {
		_spec.SetField(modelrecord.FieldCapabilities, field.TypeJSON, value)
	}
	if value, ok := _u.mutation.AppendedCapabilities(); ok {
		_spec.AddModifier(func(u *sql.UpdateBuilder) {
			sqljson.Append(u, modelrecord.FieldCapabilities, value)
		})
	}
	if _u.mutation.CapabilitiesCleared() {
		_spec.ClearField(modelrecord.FieldCapabilities, field.TypeJSON)
	}
	if value, ok := _u.mutation.Parameters(); ok {
		_spec.SetField(modelrecord.FieldParameters, field.TypeString, value)
	}
	if _u.mutation.ParametersCleared() {
		_spec.ClearField(modelrecord.FieldParameters, field.TypeString)
	}
	if value, ok := _u.mutation.UpdatedAt(); ok {
		_spec.SetField(modelrecord.FieldUpdatedAt, field.TypeTime, value)
	}
	if _node, err = sqlgraph.UpdateNodes(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{modelrecord.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return 0, err
	}
	_u.mutation.done = true
	return _node, nil
}

// ModelRecordUpdateOne is the builder for updating a single ModelRecord entity.
type ModelRecordUpdateOne struct {
	config
	fields   []string
	hooks    []Hook
	mutation *ModelRecordMutation
}

// SetName sets the "name" field.
func (_u *ModelRecordUpdateOne) SetName(v string) *ModelRecordUpdateOne {
	_u.mutation.SetName(v)
	return _u
}

// SetNillableName sets the "name" field if the given value is not nil.
func (_u *ModelRecordUpdateOne) SetNillableName(v *string) *ModelRecordUpdateOne {
	if v != nil {
		_u.SetName(*v)
	}
	return _u
}

// SetContextLength sets the "context_length" field.
func (_u *ModelRecordUpdateOne) SetContextLength(v int) *ModelRecordUpdateOne {
	_u.mutation.ResetContextLength()
	_u.mutation.SetContextLength(v)
	return _u
}

// SetNillableContextLength sets the "context_length" field if the given value is not nil.
func (_u *ModelRecordUpdateOne) SetNillableContextLength(v *int) *ModelRecordUpdateOne {
	if v != nil {
		_u.SetContextLength(*v)
	}
	return _u
}

// AddContextLength adds value to the "context_length" field.
func (_u *ModelRecordUpdateOne) AddContextLength(v int) *ModelRecordUpdateOne {
	_u.mutation.AddContextLength(v)
	return _u
}

// ClearContextLength clears the value of the "context_length" field.
func (_u *ModelRecordUpdateOne) ClearContextLength() *ModelRecordUpdateOne {
	_u.mutation.ClearContextLength()
	return _u
}

// SetCapabilities sets the "capabilities" field.
func (_u *ModelRecordUpdateOne) SetCapabilities(v []string) *ModelRecordUpdateOne {
	_u.mutation.SetCapabilities(v)
	return _u
}

// AppendCapabilities appends value to the "capabilities" field.
func (_u *ModelRecordUpdateOne) AppendCapabilities(v []string) *ModelRecordUpdateOne {
	_u.mutation.AppendCapabilities(v)
	return _u
}

// ClearCapabilities clears the value of the "capabilities" field.
func (_u *ModelRecordUpdateOne) ClearCapabilities() *ModelRecordUpdateOne {
	_u.mutation.ClearCapabilities()
	return _u
}

// SetParameters sets the "parameters" field.
func (_u *ModelRecordUpdateOne) SetParameters(v string) *ModelRecordUpdateOne {
	_u.mutation.SetParameters(v)
	return _u
}

// SetNillableParameters sets the "parameters" field if the given value is not nil.
func (_u *ModelRecordUpdateOne) SetNillableParameters(v *string) *ModelRecordUpdateOne {
	if v != nil {
		_u.SetParameters(*v)
	}
	return _u
}

// ClearParameters clears the value of the "parameters" field.
func (_u *ModelRecordUpdateOne) ClearParameters() *ModelRecordUpdateOne {
	_u.mutation.ClearParameters()
	return _u
}

// SetUpdatedAt sets the "updated_at" field.
func (_u *ModelRecordUpdateOne) SetUpdatedAt(v time.Time) *ModelRecordUpdateOne {
	_u.mutation.SetUpdatedAt(v)
	return _u
}

// Mutation returns the ModelRecordMutation object of the builder.
func (_u *ModelRecordUpdateOne) Mutation() *ModelRecordMutation {
	return _u.mutation
}

// Where appends a list predicates to the ModelRecordUpdate builder.
func (_u *ModelRecordUpdateOne) Where(ps ...predicate.ModelRecord) *ModelRecordUpdateOne {
	_u.mutation.Where(ps...)
	return _u
}

// Select allows selecting one or more fields (columns) of the returned entity.
// The default is selecting all fields defined in the entity schema.
func (_u *ModelRecordUpdateOne) Select(field string, fields ...string) *ModelRecordUpdateOne {
	_u.fields = append([]string{field}, fields...)
	return _u
}

// Save executes the query and returns the updated ModelRecord entity.
func (_u *ModelRecordUpdateOne) Save(ctx context.Context) (*ModelRecord, error) {
	_u.defaults()
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *ModelRecordUpdateOne) SaveX(ctx context.Context) *ModelRecord {
	node, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return node
}

// Exec executes the query on the entity.
func (_u *ModelRecordUpdateOne) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *ModelRecordUpdateOne) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// defaults sets the default values of the builder before save.
func (_u *ModelRecordUpdateOne) defaults() {
	if _, ok := _u.mutation.UpdatedAt(); !ok {
		v := modelrecord.UpdateDefaultUpdatedAt()
		_u.mutation.SetUpdatedAt(v)
	}
}

func (_u *ModelRecordUpdateOne) sqlSave(ctx context.Context) (_node *ModelRecord, err error) {
	_spec := sqlgraph.NewUpdateSpec(modelrecord.Table, modelrecord.Columns, sqlgraph.NewFieldSpec(modelrecord.FieldID, field.TypeString))
	id, ok := _u.mutation.ID()
	if !ok {
		return nil, &ValidationError{Name: "id", err: errors.New(`ent: missing "ModelRecord.id" for update`)}
	}
	_spec.Node.ID.Value = id
	if fields := _u.fields; len(fields) > 0 {
		_spec.Node.Columns = make([]string, 0, len(fields))
		_spec.Node.Columns = append(_spec.Node.Columns, modelrecord.FieldID)
		for _, f := range fields {
			if !modelrecord.ValidColumn(f) {
				return nil, &ValidationError{Name: f, err: fmt.Errorf("ent: invalid field %q for query", f)}
			}
			if f != modelrecord.FieldID {
				_spec.Node.Columns = append(_spec.Node.Columns, f)
			}
		}
	}
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.Name(); ok {
		_spec.SetField(modelrecord.FieldName, field.TypeString, value)
	}
	if value, ok := _u.mutation.ContextLength(); ok {
		_spec.SetField(modelrecord.FieldContextLength, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedContextLength(); ok {
		_spec.AddField(modelrecord.FieldContextLength, field.TypeInt, value)
	}
	if _u.mutation.ContextLengthCleared() {
		_spec.ClearField(modelrecord.FieldContextLength, field.TypeInt)
	}
	if value, ok := _u.mutation.Capabilities(); ok {
		_spec.SetField(modelrecord.FieldCapabilities, field.TypeJSON, value)
	}
	if value, ok := _u.mutation.AppendedCapabilities(); ok {
		_spec.AddModifier(func(u *sql.UpdateBuilder) {
			sqljson.Append(u, modelrecord.FieldCapabilities, value)
		})
	}
	if _u.mutation.CapabilitiesCleared() {
		_spec.ClearField(modelrecord.FieldCapabilities, field.TypeJSON)
	}
	if value, ok := _u.mutation.Parameters(); ok {
		_spec.SetField(modelrecord.FieldParameters, field.TypeString, value)
	}
	if _u.mutation.ParametersCleared() {
		_spec.ClearField(modelrecord.FieldParameters, field.TypeString)
	}
	if value, ok := _u.mutation.UpdatedAt(); ok {
		_spec.SetField(modelrecord.FieldUpdatedAt, field.TypeTime, value)
	}
	_node = &ModelRecord{config: _u.config}
	_spec.Assign = _node.assignValues
	_spec.ScanValues = _node.scanValues
	if err = sqlgraph.UpdateNode(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{modelrecord.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return nil, err
	}
	_u.mutation.done = true
	return _node, nil
}
