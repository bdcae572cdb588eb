// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql/sqlgraph"
	"entgo.io/ent/schema/field"
	"github.com/kiln-dev/kiln/ent/message"
	"github.com/kiln-dev/kiln/ent/session"
)

// MessageCreate is the builder for creating a Message entity.
type MessageCreate struct {
	config
	mutation *MessageMutation
	hooks    []Hook
}

// SetSessionID sets the "session_id" field.
func (_c *MessageCreate) SetSessionID(v string) *MessageCreate {
	_c.mutation.SetSessionID(v)
	return _c
}

// SetSequenceNumber sets the "sequence_number" field.
func (_c *MessageCreate) SetSequenceNumber(v int) *MessageCreate {
	_c.mutation.SetSequenceNumber(v)
	return _c
}

// SetRole sets the "role" field.
func (_c *MessageCreate) SetRole(v message.Role) *MessageCreate {
	_c.mutation.SetRole(v)
	return _c
}

// SetContent sets the "content" field.
func (_c *MessageCreate) SetContent(v string) *MessageCreate {
	_c.mutation.SetContent(v)
	return _c
}

// SetModel sets the "model" field.
func (_c *MessageCreate) SetModel(v string) *MessageCreate {
	_c.mutation.SetModel(v)
	return _c
}

// SetNillableModel sets the "model" field if the given value is not nil.
func (_c *MessageCreate) SetNillableModel(v *string) *MessageCreate {
	if v != nil {
		_c.SetModel(*v)
	}
	return _c
}

// SetToolName sets the "tool_name" field.
func (_c *MessageCreate) SetToolName(v string) *MessageCreate {
	_c.mutation.SetToolName(v)
	return _c
}

// SetNillableToolName sets the "tool_name" field if the given value is not nil.
func (_c *MessageCreate) SetNillableToolName(v *string) *MessageCreate {
	if v != nil {
		_c.SetToolName(*v)
	}
	return _c
}

// SetToolCallID sets the "tool_call_id" field.
func (_c *MessageCreate) SetToolCallID(v string) *MessageCreate {
	_c.mutation.SetToolCallID(v)
	return _c
}

// SetNillableToolCallID sets the "tool_call_id" field if the given value is not nil.
func (_c *MessageCreate) SetNillableToolCallID(v *string) *MessageCreate {
	if v != nil {
		_c.SetToolCallID(*v)
	}
	return _c
}

// SetToolCalls sets the "tool_calls" field.
func (_c *MessageCreate) SetToolCalls(v []map[string]interface{}) *MessageCreate {
	_c.mutation.SetToolCalls(v)
	return _c
}

// SetToolInput sets the "tool_input" field.
func (_c *MessageCreate) SetToolInput(v string) *MessageCreate {
	_c.mutation.SetToolInput(v)
	return _c
}

// SetNillableToolInput sets the "tool_input" field if the given value is not nil.
func (_c *MessageCreate) SetNillableToolInput(v *string) *MessageCreate {
	if v != nil {
		_c.SetToolInput(*v)
	}
	return _c
}

// SetToolOutput sets the "tool_output" field.
func (_c *MessageCreate) SetToolOutput(v string) *MessageCreate {
	_c.mutation.SetToolOutput(v)
	return _c
}

// SetNillableToolOutput sets the "tool_output" field if the given value is not nil.
func (_c *MessageCreate) SetNillableToolOutput(v *string) *MessageCreate {
	if v != nil {
		_c.SetToolOutput(*v)
	}
	return _c
}

// SetProgressTitle sets the "progress_title" field.
func (_c *MessageCreate) SetProgressTitle(v string) *MessageCreate {
	_c.mutation.SetProgressTitle(v)
	return _c
}

// SetNillableProgressTitle sets the "progress_title" field if the given value is not nil.
func (_c *MessageCreate) SetNillableProgressTitle(v *string) *MessageCreate {
	if v != nil {
		_c.SetProgressTitle(*v)
	}
	return _c
}

// SetCreatedAt sets the "created_at" field.
func (_c *MessageCreate) SetCreatedAt(v time.Time) *MessageCreate {
	_c.mutation.SetCreatedAt(v)
	return _c
}

// SetNillableCreatedAt sets the "created_at" field if the given value is not nil.
func (_c *MessageCreate) SetNillableCreatedAt(v *time.Time) *MessageCreate {
	if v != nil {
		_c.SetCreatedAt(*v)
	}
	return _c
}

// SetID sets the "id" field.
func (_c *MessageCreate) SetID(v string) *MessageCreate {
	_c.mutation.SetID(v)
	return _c
}

// SetSession sets the "session" edge to the Session entity.
func (_c *MessageCreate) SetSession(v *Session) *MessageCreate {
	return _c.SetSessionID(v.ID)
}

// Mutation returns the MessageMutation object of the builder.
func (_c *MessageCreate) Mutation() *MessageMutation {
	return _c.mutation
}

// Save creates the Message in the database.
func (_c *MessageCreate) Save(ctx context.Context) (*Message, error) {
	_c.defaults()
	return withHooks(ctx, _c.sqlSave, _c.mutation, _c.hooks)
}

// SaveX calls Save and panics if Save returns an error.
func (_c *MessageCreate) SaveX(ctx context.Context) *Message {
	v, err := _c.Save(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// Exec executes the query.
func (_c *MessageCreate) Exec(ctx context.Context) error {
	_, err := _c.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_c *MessageCreate) ExecX(ctx context.Context) {
	if err := _c.Exec(ctx); err != nil {
		panic(err)
	}
}

// defaults sets the default values of the builder before save.
func (_c *MessageCreate) defaults() {
	if _, ok := _c.mutation.CreatedAt(); !ok {
		v := message.DefaultCreatedAt()
		_c.mutation.SetCreatedAt(v)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_c *MessageCreate) check() error {
	if _, ok := _c.mutation.SessionID(); !ok {
		return &ValidationError{Name: "session_id", err: errors.New(`ent: missing required field "Message.session_id"`)}
	}
	if _, ok := _c.mutation.SequenceNumber(); !ok {
		return &ValidationError{Name: "sequence_number", err: errors.New(`ent: missing required field "Message.sequence_number"`)}
	}
	if _, ok := _c.mutation.Role(); !ok {
		return &ValidationError{Name: "role", err: errors.New(`ent: missing required field "Message.role"`)}
	}
	if v, ok := _c.mutation.Role(); ok {
		if err := message.RoleValidator(v); err != nil {
			return &ValidationError{Name: "role", err: fmt.Errorf(`ent: validator failed for field "Message.role": %w`, err)}
		}
	}
	if _, ok := _c.mutation.Content(); !ok {
		return &ValidationError{Name: "content", err: errors.New(`ent: missing required field "Message.content"`)}
	}
	if _, ok := _c.mutation.CreatedAt(); !ok {
		return &ValidationError{Name: "created_at", err: errors.New(`ent: missing required field "Message.created_at"`)}
	}
	if len(_c.mutation.SessionIDs()) == 0 {
		return &ValidationError{Name: "session", err: errors.New(`ent: missing required edge "Message.session"`)}
	}
	return nil
}

func (_c *MessageCreate) sqlSave(ctx context.Context) (*Message, error) {
	if err := _c.check(); err != nil {
		return nil, err
	}
	_node, _spec := _c.createSpec()
	if err := sqlgraph.CreateNode(ctx, _c.driver, _spec); err != nil {
		if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return nil, err
	}
	if _spec.ID.Value != nil {
		if id, ok := _spec.ID.Value.(string); ok {
			_node.ID = id
		} else {
			return nil, fmt.Errorf("unexpected Message.ID type: %T", _spec.ID.Value)
		}
	}
	_c.mutation.id = &_node.ID
	_c.mutation.done = true
	return _node, nil
}

func (_c *MessageCreate) createSpec() (*Message, *sqlgraph.CreateSpec) {
	var (
		_node = &Message{config: _c.config}
		_spec = sqlgraph.NewCreateSpec(message.Table, sqlgraph.NewFieldSpec(message.FieldID, field.TypeString))
	)
	if id, ok := _c.mutation.ID(); ok {
		_node.ID = id
		_spec.ID.Value = id
	}
	if value, ok := _c.mutation.SequenceNumber(); ok {
		_spec.SetField(message.FieldSequenceNumber, field.TypeInt, value)
		_node.SequenceNumber = value
	}
	if value, ok := _c.mutation.Role(); ok {
		_spec.SetField(message.FieldRole, field.TypeEnum, value)
		_node.Role = value
	}
	if value, ok := _c.mutation.Content(); ok {
		_spec.SetField(message.FieldContent, field.TypeString, value)
		_node.Content = value
	}
	if value, ok := _c.mutation.Model(); ok {
		_spec.SetField(message.FieldModel, field.TypeString, value)
		_node.Model = &value
	}
	if value, ok := _c.mutation.ToolName(); ok {
		_spec.SetField(message.FieldToolName, field.TypeString, value)
		_node.ToolName = &value
	}
	if value, ok := _c.mutation.ToolCallID(); ok {
		_spec.SetField(message.FieldToolCallID, field.TypeString, value)
		_node.ToolCallID = &value
	}
	if value, ok := _c.mutation.ToolCalls(); ok {
		_spec.SetField(message.FieldToolCalls, field.TypeJSON, value)
		_node.ToolCalls = value
	}
	if value, ok := _c.mutation.ToolInput(); ok {
		_spec.SetField(message.FieldToolInput, field.TypeString, value)
		_node.ToolInput = &value
	}
	if value, ok := _c.mutation.ToolOutput(); ok {
		_spec.SetField(message.FieldToolOutput, field.TypeString, value)
		_node.ToolOutput = &value
	}
	if value, ok := _c.mutation.ProgressTitle(); ok {
		_spec.SetField(message.FieldProgressTitle, field.TypeString, value)
		_node.ProgressTitle = &value
	}
	if value, ok := _c.mutation.CreatedAt(); ok {
		_spec.SetField(message.FieldCreatedAt, field.TypeTime, value)
		_node.CreatedAt = value
	}
	if nodes := _c.mutation.SessionIDs(); len(nodes) > 0 {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.M2O,
			Inverse: true,
			Table:   message.SessionTable,
			Columns: []string{message.SessionColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(session.FieldID, field.TypeString),
			},
		}
		for _, k := range nodes {
			edge.Target.Nodes = append(edge.Target.Nodes, k)
		}
		_node.SessionID = nodes[0]
		_spec.Edges = append(_spec.Edges, edge)
	}
	return _node, _spec
}

// MessageCreateBulk is the builder for creating many Message entities in bulk.
type MessageCreateBulk struct {
	config
	err      error
	builders []*MessageCreate
}

// Save creates the Message entities in the database.
func (_c *MessageCreateBulk) Save(ctx context.Context) ([]*Message, error) {
	if _c.err != nil {
		return nil, _c.err
	}
	specs := make([]*sqlgraph.CreateSpec, len(_c.builders))
	nodes := make([]*Message, len(_c.builders))
	mutators := make([]Mutator, len(_c.builders))
	for i := range _c.builders {
		func(i int, root context.Context) {
			builder := _c.builders[i]
			builder.defaults()
			var mut Mutator = MutateFunc(func(ctx context.Context, m Mutation) (Value, error) {
				mutation, ok := m.(*MessageMutation)
				if !ok {
					return nil, fmt.Errorf("unexpected mutation type %T", m)
				}
				if err := builder.check(); err != nil {
					return nil, err
				}
				builder.mutation = mutation
				var err error
				nodes[i], specs[i] = builder.createSpec()
				if i < len(mutators)-1 {
					_, err = mutators[i+1].Mutate(root, _c.builders[i+1].mutation)
				} else {
					spec := &sqlgraph.BatchCreateSpec{Nodes: specs}
					// Invoke the actual operation on the latest mutation in the chain.
					if err = sqlgraph.BatchCreate(ctx, _c.driver, spec); err != nil {
						if sqlgraph.IsConstraintError(err) {
							err = &ConstraintError{msg: err.Error(), wrap: err}
						}
					}
				}
				if err != nil {
					return nil, err
				}
				mutation.id = &nodes[i].ID
				mutation.done = true
				return nodes[i], nil
			})
			for i := len(builder.hooks) - 1; i >= 0; i-- {
				mut = builder.hooks[i](mut)
			}
			mutators[i] = mut
		}(i, ctx)
	}
	if len(mutators) > 0 {
		if _, err := mutators[0].Mutate(ctx, _c.builders[0].mutation); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

// SaveX is like Save, but panics if an error occurs.
func (_c *MessageCreateBulk) SaveX(ctx context.Context) []*Message {
	v, err := _c.Save(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// Exec executes the query.
func (_c *MessageCreateBulk) Exec(ctx context.Context) error {
	_, err := _c.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_c *MessageCreateBulk) ExecX(ctx context.Context) {
	if err := _c.Exec(ctx); err != nil {
		panic(err)
	}
}
