// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"errors"
	"fmt"

	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"entgo.io/ent/dialect/sql/sqljson"
	"entgo.io/ent/schema/field"
	"github.com/kiln-dev/kiln/ent/message"
	"github.com/kiln-dev/kiln/ent/predicate"
)

// MessageUpdate is the builder for updating Message entities.
type MessageUpdate struct {
	config
	hooks    []Hook
	mutation *MessageMutation
}

// Where appends a list predicates to the MessageUpdate builder.
func (_u *MessageUpdate) Where(ps ...predicate.Message) *MessageUpdate {
	_u.mutation.Where(ps...)
	return _u
}

// SetSequenceNumber sets the "sequence_number" field.
func (_u *MessageUpdate) SetSequenceNumber(v int) *MessageUpdate {
	_u.mutation.ResetSequenceNumber()
	_u.mutation.SetSequenceNumber(v)
	return _u
}

// SetNillableSequenceNumber sets the "sequence_number" field if the given value is not nil.
func (_u *MessageUpdate) SetNillableSequenceNumber(v *int) *MessageUpdate {
	if v != nil {
		_u.SetSequenceNumber(*v)
	}
	return _u
}

// AddSequenceNumber adds value to the "sequence_number" field.
func (_u *MessageUpdate) AddSequenceNumber(v int) *MessageUpdate {
	_u.mutation.AddSequenceNumber(v)
	return _u
}

// SetRole sets the "role" field.
func (_u *MessageUpdate) SetRole(v message.Role) *MessageUpdate {
	_u.mutation.SetRole(v)
	return _u
}

// SetNillableRole sets the "role" field if the given value is not nil.
func (_u *MessageUpdate) SetNillableRole(v *message.Role) *MessageUpdate {
	if v != nil {
		_u.SetRole(*v)
	}
	return _u
}

// SetContent sets the "content" field.
func (_u *MessageUpdate) SetContent(v string) *MessageUpdate {
	_u.mutation.SetContent(v)
	return _u
}

// SetNillableContent sets the "content" field if the given value is not nil.
func (_u *MessageUpdate) SetNillableContent(v *string) *MessageUpdate {
	if v != nil {
		_u.SetContent(*v)
	}
	return _u
}

// SetModel sets the "model" field.
func (_u *MessageUpdate) SetModel(v string) *MessageUpdate {
	_u.mutation.SetModel(v)
	return _u
}

// SetNillableModel sets the "model" field if the given value is not nil.
func (_u *MessageUpdate) SetNillableModel(v *string) *MessageUpdate {
	if v != nil {
		_u.SetModel(*v)
	}
	return _u
}

// ClearModel clears the value of the "model" field.
func (_u *MessageUpdate) ClearModel() *MessageUpdate {
	_u.mutation.ClearModel()
	return _u
}

// SetToolName sets the "tool_name" field.
func (_u *MessageUpdate) SetToolName(v string) *MessageUpdate {
	_u.mutation.SetToolName(v)
	return _u
}

// SetNillableToolName sets the "tool_name" field if the given value is not nil.
func (_u *MessageUpdate) SetNillableToolName(v *string) *MessageUpdate {
	if v != nil {
		_u.SetToolName(*v)
	}
	return _u
}

// ClearToolName clears the value of the "tool_name" field.
func (_u *MessageUpdate) ClearToolName() *MessageUpdate {
	_u.mutation.ClearToolName()
	return _u
}

// SetToolCallID sets the "tool_call_id" field.
func (_u *MessageUpdate) SetToolCallID(v string) *MessageUpdate {
	_u.mutation.SetToolCallID(v)
	return _u
}

// SetNillableToolCallID sets the "tool_call_id" field if the given value is not nil.
func (_u *MessageUpdate) SetNillableToolCallID(v *string) *MessageUpdate {
	if v != nil {
		_u.SetToolCallID(*v)
	}
	return _u
}

// ClearToolCallID clears the value of the "tool_call_id" field.
func (_u *MessageUpdate) ClearToolCallID() *MessageUpdate {
	_u.mutation.ClearToolCallID()
	return _u
}

// SetToolCalls sets the "tool_calls" field.
func (_u *MessageUpdate) SetToolCalls(v []map[string]interface{}) *MessageUpdate {
	_u.mutation.SetToolCalls(v)
	return _u
}

// AppendToolCalls appends value to the "tool_calls" field.
func (_u *MessageUpdate) AppendToolCalls(v []map[string]interface{}) *MessageUpdate {
	_u.mutation.AppendToolCalls(v)
	return _u
}

// ClearToolCalls clears the value of the "tool_calls" field.
func (_u *MessageUpdate) ClearToolCalls() *MessageUpdate {
	_u.mutation.ClearToolCalls()
	return _u
}

// SetToolInput sets the "tool_input" field.
func (_u *MessageUpdate) SetToolInput(v string) *MessageUpdate {
	_u.mutation.SetToolInput(v)
	return _u
}

// SetNillableToolInput sets the "tool_input" field if the given value is not nil.
func (_u *MessageUpdate) SetNillableToolInput(v *string) *MessageUpdate {
	if v != nil {
		_u.SetToolInput(*v)
	}
	return _u
}

// ClearToolInput clears the value of the "tool_input" field.
func (_u *MessageUpdate) ClearToolInput() *MessageUpdate {
	_u.mutation.ClearToolInput()
	return _u
}

// SetToolOutput sets the "tool_output" field.
func (_u *MessageUpdate) SetToolOutput(v string) *MessageUpdate {
	_u.mutation.SetToolOutput(v)
	return _u
}

// SetNillableToolOutput sets the "tool_output" field if the given value is not nil.
func (_u *MessageUpdate) SetNillableToolOutput(v *string) *MessageUpdate {
	if v != nil {
		_u.SetToolOutput(*v)
	}
	return _u
}

// ClearToolOutput clears the value of the "tool_output" field.
func (_u *MessageUpdate) ClearToolOutput() *MessageUpdate {
	_u.mutation.ClearToolOutput()
	return _u
}

// SetProgressTitle sets the "progress_title" field.
func (_u *MessageUpdate) SetProgressTitle(v string) *MessageUpdate {
	_u.mutation.SetProgressTitle(v)
	return _u
}

// SetNillableProgressTitle sets the "progress_title" field if the given value is not nil.
func (_u *MessageUpdate) SetNillableProgressTitle(v *string) *MessageUpdate {
	if v != nil {
		_u.SetProgressTitle(*v)
	}
	return _u
}

// ClearProgressTitle clears the value of the "progress_title" field.
func (_u *MessageUpdate) ClearProgressTitle() *MessageUpdate {
	_u.mutation.ClearProgressTitle()
	return _u
}

// Mutation returns the MessageMutation object of the builder.
func (_u *MessageUpdate) Mutation() *MessageMutation {
	return _u.mutation
}

// Save executes the query and returns the number of nodes affected by the update operation.
func (_u *MessageUpdate) Save(ctx context.Context) (int, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *MessageUpdate) SaveX(ctx context.Context) int {
	affected, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return affected
}

// Exec executes the query.
func (_u *MessageUpdate) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *MessageUpdate) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *MessageUpdate) check() error {
	if v, ok := _u.mutation.Role(); ok {
		if err := message.RoleValidator(v); err != nil {
			return &ValidationError{Name: "role", err: fmt.Errorf(`ent: validator failed for field "Message.role": %w`, err)}
		}
	}
	if _u.mutation.SessionCleared() && len(_u.mutation.SessionIDs()) > 0 {
		return errors.New(`ent: clearing a required unique edge "Message.session"`)
	}
	return nil
}

func (_u *MessageUpdate) sqlSave(ctx context.Context) (_node int, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(message.Table, message.Columns, sqlgraph.NewFieldSpec(message.FieldID, field.TypeString))
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.SequenceNumber(); ok {
		_spec.SetField(message.FieldSequenceNumber, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedSequenceNumber(); ok {
		_spec.AddField(message.FieldSequenceNumber, field.TypeInt, value)
	}
	if value, ok := _u.mutation.Role(); ok {
		_spec.SetField(message.FieldRole, field.TypeEnum, value)
	}
	if value, ok := _u.mutation.Content(); ok {
		_spec.SetField(message.FieldContent, field.TypeString, value)
	}
	if value, ok := _u.mutation.Model(); ok {
		_spec.SetField(message.FieldModel, field.TypeString, value)
	}
	if _u.mutation.ModelCleared() {
		_spec.ClearField(message.FieldModel, field.TypeString)
	}
	if value, ok := _u.mutation.ToolName(); ok {
		_spec.SetField(message.FieldToolName, field.TypeString, value)
	}
	if _u.mutation.ToolNameCleared() {
		_spec.ClearField(message.FieldToolName, field.TypeString)
	}
	if value, ok := _u.mutation.ToolCallID(); ok {
		_spec.SetField(message.FieldToolCallID, field.TypeString, value)
	}
	if _u.mutation.ToolCallIDCleared() {
		_spec.ClearField(message.FieldToolCallID, field.TypeString)
	}
	if value, ok := _u.mutation.ToolCalls(); ok {
		_spec.SetField(message.FieldToolCalls, field.TypeJSON, value)
	}
	if value, ok := _u.mutation.AppendedToolCalls(); ok {
		_spec.AddModifier(func(u *sql.UpdateBuilder) {
			sqljson.Append(u, message.FieldToolCalls, value)
		})
	}
	if _u.mutation.ToolCallsCleared() {
		_spec.ClearField(message.FieldToolCalls, field.TypeJSON)
	}
	if value, ok := _u.mutation.ToolInput(); ok {
		_spec.SetField(message.FieldToolInput, field.TypeString, value)
	}
	if _u.mutation.ToolInputCleared() {
		_spec.ClearField(message.FieldToolInput, field.TypeString)
	}
	if value, ok := _u.mutation.ToolOutput(); ok {
		_spec.SetField(message.FieldToolOutput, field.TypeString, value)
	}
	if _u.mutation.ToolOutputCleared() {
		_spec.ClearField(message.FieldToolOutput, field.TypeString)
	}
	if value, ok := _u.mutation.ProgressTitle(); ok {
		_spec.SetField(message.FieldProgressTitle, field.TypeString, value)
	}
	if _u.mutation.ProgressTitleCleared() {
		_spec.ClearField(message.FieldProgressTitle, field.TypeString)
	}
	if _node, err = sqlgraph.UpdateNodes(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{message.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return 0, err
	}
	_u.mutation.done = true
	return _node, nil
}

// MessageUpdateOne is the builder for updating a single Message entity.
type MessageUpdateOne struct {
	config
	fields   []string
	hooks    []Hook
	mutation *MessageMutation
}

// SetSequenceNumber sets the "sequence_number" field.
func (_u *MessageUpdateOne) SetSequenceNumber(v int) *MessageUpdateOne {
	_u.mutation.ResetSequenceNumber()
	_u.mutation.SetSequenceNumber(v)
	return _u
}

// SetNillableSequenceNumber sets the "sequence_number" field if the given value is not nil.
func (_u *MessageUpdateOne) SetNillableSequenceNumber(v *int) *MessageUpdateOne {
	if v != nil {
		_u.SetSequenceNumber(*v)
	}
	return _u
}

// AddSequenceNumber adds value to the "sequence_number" field.
func (_u *MessageUpdateOne) AddSequenceNumber(v int) *MessageUpdateOne {
	_u.mutation.AddSequenceNumber(v)
	return _u
}

// SetRole sets the "role" field.
func (_u *MessageUpdateOne) SetRole(v message.Role) *MessageUpdateOne {
	_u.mutation.SetRole(v)
	return _u
}

// SetNillableRole sets the "role" field if the given value is not nil.
func (_u *MessageUpdateOne) SetNillableRole(v *message.Role) *MessageUpdateOne {
	if v != nil {
		_u.SetRole(*v)
	}
	return _u
}

// SetContent sets the "content" field.
func (_u *MessageUpdateOne) SetContent(v string) *MessageUpdateOne {
	_u.mutation.SetContent(v)
	return _u
}

// SetNillableContent sets the "content" field if the given value is not nil.
func (_u *MessageUpdateOne) SetNillableContent(v *string) *MessageUpdateOne {
	if v != nil {
		_u.SetContent(*v)
	}
	return _u
}

// SetModel sets the "model" field.
func (_u *MessageUpdateOne) SetModel(v string) *MessageUpdateOne {
	_u.mutation.SetModel(v)
	return _u
}

// SetNillableModel sets the "model" field if the given value is not nil.
func (_u *MessageUpdateOne) SetNillableModel(v *string) *MessageUpdateOne {
	if v != nil {
		_u.SetModel(*v)
	}
	return _u
}

// ClearModel clears the value of the "model" field.
func (_u *MessageUpdateOne) ClearModel() *MessageUpdateOne {
	_u.mutation.ClearModel()
	return _u
}

// SetToolName sets the "tool_name" field.
func (_u *MessageUpdateOne) SetToolName(v string) *MessageUpdateOne {
	_u.mutation.SetToolName(v)
	return _u
}

// SetNillableToolName sets the "tool_name" field if the given value is not nil.
func (_u *MessageUpdateOne) SetNillableToolName(v *string) *MessageUpdateOne {
	if v != nil {
		_u.SetToolName(*v)
	}
	return _u
}

// ClearToolName clears the value of the "tool_name" field.
func (_u *MessageUpdateOne) ClearToolName() *MessageUpdateOne {
	_u.mutation.ClearToolName()
	return _u
}

// SetToolCallID sets the "tool_call_id" field.
func (_u *MessageUpdateOne) SetToolCallID(v string) *MessageUpdateOne {
	_u.mutation.SetToolCallID(v)
	return _u
}

// SetNillableToolCallID sets the "tool_call_id" field if the given value is not nil.
func (_u *MessageUpdateOne) SetNillableToolCallID(v *string) *MessageUpdateOne {
	if v != nil {
		_u.SetToolCallID(*v)
	}
	return _u
}

// ClearToolCallID clears the value of the "tool_call_id" field.
func (_u *MessageUpdateOne) ClearToolCallID() *MessageUpdateOne {
	_u.mutation.ClearToolCallID()
	return _u
}

// SetToolCalls sets the "tool_calls" field.
func (_u *MessageUpdateOne) SetToolCalls(v []map[string]interface{}) *MessageUpdateOne {
	_u.mutation.SetToolCalls(v)
	return _u
}

// AppendToolCalls appends value to the "tool_calls" field.
func (_u *MessageUpdateOne) AppendToolCalls(v []map[string]interface{}) *MessageUpdateOne {
	_u.mutation.AppendToolCalls(v)
	return _u
}

// ClearToolCalls clears the value of the "tool_calls" field.
func (_u *MessageUpdateOne) ClearToolCalls() *MessageUpdateOne {
	_u.mutation.ClearToolCalls()
	return _u
}

// SetToolInput sets the "tool_input" field.
func (_u *MessageUpdateOne) SetToolInput(v string) *MessageUpdateOne {
	_u.mutation.SetToolInput(v)
	return _u
}

// SetNillableToolInput sets the "tool_input" field if the given value is not nil.
func (_u *MessageUpdateOne) SetNillableToolInput(v *string) *MessageUpdateOne {
	if v != nil {
		_u.SetToolInput(*v)
	}
	return _u
}

// ClearToolInput clears the value of the "tool_input" field.
func (_u *MessageUpdateOne) ClearToolInput() *MessageUpdateOne {
	_u.mutation.ClearToolInput()
	return _u
}

// SetToolOutput sets the "tool_output" field.
func (_u *MessageUpdateOne) SetToolOutput(v string) *MessageUpdateOne {
	_u.mutation.SetToolOutput(v)
	return _u
}

// SetNillableToolOutput sets the "tool_output" field if the given value is not nil.
func (_u *MessageUpdateOne) SetNillableToolOutput(v *string) *MessageUpdateOne {
	if v != nil {
		_u.SetToolOutput(*v)
	}
	return _u
}

// ClearToolOutput clears the value of the "tool_output" field.
func (_u *MessageUpdateOne) ClearToolOutput() *MessageUpdateOne {
	_u.mutation.ClearToolOutput()
	return _u
}

// SetProgressTitle sets the "progress_title" field.
func (_u *MessageUpdateOne) SetProgressTitle(v string) *MessageUpdateOne {
	_u.mutation.SetProgressTitle(v)
	return _u
}

// SetNillableProgressTitle sets the "progress_title" field if the given value is not nil.
func (_u *MessageUpdateOne) SetNillableProgressTitle(v *string) *MessageUpdateOne {
	if v != nil {
		_u.SetProgressTitle(*v)
	}
	return _u
}

// ClearProgressTitle clears the value of the "progress_title" field.
func (_u *MessageUpdateOne) ClearProgressTitle() *MessageUpdateOne {
	_u.mutation.ClearProgressTitle()
	return _u
}

// Mutation returns the MessageMutation object of the builder.
func (_u *MessageUpdateOne) Mutation() *MessageMutation {
	return _u.mutation
}

// Where appends a list predicates to the MessageUpdate builder.
func (_u *MessageUpdateOne) Where(ps ...predicate.Message) *MessageUpdateOne {
	_u.mutation.Where(ps...)
	return _u
}

// Select allows selecting one or more fields (columns) of the returned entity.
// The default is selecting all fields defined in the entity schema.
func (_u *MessageUpdateOne) Select(field string, fields ...string) *MessageUpdateOne {
	_u.fields = append([]string{field}, fields...)
	return _u
}

// Save executes the query and returns the updated Message entity.
func (_u *MessageUpdateOne) Save(ctx context.Context) (*Message, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *MessageUpdateOne) SaveX(ctx context.Context) *Message {
	node, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return node
}

// Exec executes the query on the entity.
func (_u *MessageUpdateOne) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *MessageUpdateOne) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *MessageUpdateOne) check() error {
	if v, ok := _u.mutation.Role(); ok {
		if err := message.RoleValidator(v); err != nil {
			return &ValidationError{Name: "role", err: fmt.Errorf(`ent: validator failed for field "Message.role": %w`, err)}
		}
	}
	if _u.mutation.SessionCleared() && len(_u.mutation.SessionIDs()) > 0 {
		return errors.New(`ent: clearing a required unique edge "Message.session"`)
	}
	return nil
}

func (_u *MessageUpdateOne) sqlSave(ctx context.Context) (_node *Message, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(message.Table, message.Columns, sqlgraph.NewFieldSpec(message.FieldID, field.TypeString))
	id, ok := _u.mutation.ID()
	if !ok {
		return nil, &ValidationError{Name: "id", err: errors.New(`ent: missing "Message.id" for update`)}
	}
	_spec.Node.ID.Value = id
	if fields := _u.fields; len(fields) > 0 {
		_spec.Node.Columns = make([]string, 0, len(fields))
		_spec.Node.Columns = append(_spec.Node.Columns, message.FieldID)
		for _, f := range fields {
			if !message.ValidColumn(f) {
				return nil, &ValidationError{Name: f, err: fmt.Errorf("ent: invalid field %q for query", f)}
			}
			if f != message.FieldID {
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
	if value, ok := _u.mutation.SequenceNumber(); ok {
		_spec.SetField(message.FieldSequenceNumber, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedSequenceNumber(); ok {
		_spec.AddField(message.FieldSequenceNumber, field.TypeInt, value)
	}
	if value, ok := _u.mutation.Role(); ok {
		_spec.SetField(message.FieldRole, field.TypeEnum, value)
	}
	if value, ok := _u.mutation.Content(); ok {
		_spec.SetField(message.FieldContent, field.TypeString, value)
	}
	if value, ok := _u.mutation.Model(); ok {
		_spec.SetField(message.FieldModel, field.TypeString, value)
	}
	if _u.mutation.ModelCleared() {
		_spec.ClearField(message.FieldModel, field.TypeString)
	}
	if value, ok := _u.mutation.ToolName(); ok {
		_spec.SetField(message.FieldToolName, field.TypeString, value)
	}
	if _u.mutation.ToolNameCleared() {
		_spec.ClearField(message.FieldToolName, field.TypeString)
	}
	if value, ok := _u.mutation.ToolCallID(); ok {
		_spec.SetField(message.FieldToolCallID, field.TypeString, value)
	}
	if _u.mutation.ToolCallIDCleared() {
		_spec.ClearField(message.FieldToolCallID, field.TypeString)
	}
	if value, ok := _u.mutation.ToolCalls(); ok {
		_spec.SetField(message.FieldToolCalls, field.TypeJSON, value)
	}
	if value, ok := _u.mutation.AppendedToolCalls(); ok {
		_spec.AddModifier(func(u *sql.UpdateBuilder) {
			sqljson.Append(u, message.FieldToolCalls, value)
		})
	}
	if _u.mutation.ToolCallsCleared() {
		_spec.ClearField(message.FieldToolCalls, field.TypeJSON)
	}
	if value, ok := _u.mutation.ToolInput(); ok {
		_spec.SetField(message.FieldToolInput, field.TypeString, value)
	}
	if _u.mutation.ToolInputCleared() {
		_spec.ClearField(message.FieldToolInput, field.TypeString)
	}
	if value, ok := _u.mutation.ToolOutput(); ok {
		_spec.SetField(message.FieldToolOutput, field.TypeString, value)
	}
	if _u.mutation.ToolOutputCleared() {
		_spec.ClearField(message.FieldToolOutput, field.TypeString)
	}
	if value, ok := _u.mutation.ProgressTitle(); ok {
		_spec.SetField(message.FieldProgressTitle, field.TypeString, value)
	}
	if _u.mutation.ProgressTitleCleared() {
		_spec.ClearField(message.FieldProgressTitle, field.TypeString)
	}
	_node = &Message{config: _u.config}
	_spec.Assign = _node.assignValues
	_spec.ScanValues = _node.scanValues
	if err = sqlgraph.UpdateNode(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{message.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return nil, err
	}
	_u.mutation.done = true
	return _node, nil
}
