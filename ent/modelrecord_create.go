// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql/sqlgraph"
	"entgo.io/ent/schema/field"
	"github.com/kiln-dev/kiln/ent/modelrecord"
)

// ModelRecordCreate is the builder for creating a ModelRecord entity.
type ModelRecordCreate struct {
	config
	mutation *ModelRecordMutation
	hooks    []Hook
}

// SetName sets the "name" field.
func (_c *ModelRecordCreate) SetName(v string) *ModelRecordCreate {
	_c.mutation.SetName(v)
	return _c
}

// SetContextLength sets the "context_length" field.
func (_c *ModelRecordCreate) SetContextLength(v int) *ModelRecordCreate {
	_c.mutation.SetContextLength(v)
	return _c
}

// SetNillableContextLength sets the "context_length" field if the given value is not nil.
func (_c *ModelRecordCreate) SetNillableContextLength(v *int) *ModelRecordCreate {
	if v != nil {
		_c.SetContextLength(*v)
	}
	return _c
}

// SetCapabilities sets the "capabilities" field.
func (_c *ModelRecordCreate) SetCapabilities(v []string) *ModelRecordCreate {
	_c.mutation.SetCapabilities(v)
	return _c
}

// SetParameters sets the "parameters" field.
func (_c *ModelRecordCreate) SetParameters(v string) *ModelRecordCreate {
	_c.mutation.SetParameters(v)
	return _c
}

// SetNillableParameters sets the "parameters" field if the given value is not nil.
func (_c *ModelRecordCreate) SetNillableParameters(v *string) *ModelRecordCreate {
	if v != nil {
		_c.SetParameters(*v)
	}
	return _c
}

// SetUpdatedAt sets the "updated_at" field.
func (_c *ModelRecordCreate) SetUpdatedAt(v time.Time) *ModelRecordCreate {
	_c.mutation.SetUpdatedAt(v)
	return _c
}

// SetNillableUpdatedAt sets the "updated_at" field if the given value is not nil.
func (_c *ModelRecordCreate) SetNillableUpdatedAt(v *time.Time) *ModelRecordCreate {
	if v != nil {
		_c.SetUpdatedAt(*v)
	}
	return _c
}

// SetID sets the "id" field.
func (_c *ModelRecordCreate) SetID(v string) *ModelRecordCreate {
	_c.mutation.SetID(v)
	return _c
}

// Mutation returns the ModelRecordMutation object of the builder.
func (_c *ModelRecordCreate) Mutation() *ModelRecordMutation {
	return _c.mutation
}

// Save creates the ModelRecord in the database.
func (_c *ModelRecordCreate) Save(ctx context.Context) (*ModelRecord, error) {
	_c.defaults()
	return withHooks(ctx, _c.sqlSave, _c.mutation, _c.hooks)
}

// SaveX calls Save and panics if Save returns an error.
func (_c *ModelRecordCreate) SaveX(ctx context.Context) *ModelRecord {
	v, err := _c.Save(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// Exec executes the query.
func (_c *ModelRecordCreate) Exec(ctx context.Context) error {
	_, err := _c.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_c *ModelRecordCreate) ExecX(ctx context.Context) {
	if err := _c.Exec(ctx); err != nil {
		panic(err)
	}
}

// defaults sets the default values of the builder before save.
func (_c *ModelRecordCreate) defaults() {
	if _, ok := _c.mutation.UpdatedAt(); !ok {
		v := modelrecord.DefaultUpdatedAt()
		_c.mutation.SetUpdatedAt(v)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_c *ModelRecordCreate) check() error {
	if _, ok := _c.mutation.Name(); !ok {
		return &ValidationError{Name: "name", err: errors.New(`ent: missing required field "ModelRecord.name"`)}
	}
	if _, ok := _c.mutation.UpdatedAt(); !ok {
		return &ValidationError{Name: "updated_at", err: errors.New(`ent: missing required field "ModelRecord.updated_at"`)}
	}
	return nil
}

func (_c *ModelRecordCreate) sqlSave(ctx context.Context) (*ModelRecord, error) {
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
			return nil, fmt.Errorf("unexpected ModelRecord.ID type: %T", _spec.ID.Value)
		}
	}
	_c.mutation.id = &_node.ID
	_c.mutation.done = true
	return _node, nil
}

func (_c *ModelRecordCreate) createSpec() (*ModelRecord, *sqlgraph.CreateSpec) {
	var (
		_node = &ModelRecord{config: _c.config}
		_spec = sqlgraph.NewCreateSpec(modelrecord.Table, sqlgraph.NewFieldSpec(modelrecord.FieldID, field.TypeString))
	)
	if id, ok := _c.mutation.ID(); ok {
		_node.ID = id
		_spec.ID.Value = id
	}
	if value, ok := _c.mutation.Name(); ok {
		_spec.SetField(modelrecord.FieldName, field.TypeString, value)
		_node.Name = value
	}
	if value, ok := _c.mutation.ContextLength(); ok {
		_spec.SetField(modelrecord.FieldContextLength, field.TypeInt, value)
		_node.ContextLength = &value
	}
	if value, ok := _c.mutation.Capabilities(); ok {
		_spec.SetField(modelrecord.FieldCapabilities, field.TypeJSON, value)
		_node.Capabilities = value
	}
	if value, ok := _c.mutation.Parameters(); ok {
		_spec.SetField(modelrecord.FieldParameters, field.TypeString, value)
		_node.Parameters = &value
	}
	if value, ok := _c.mutation.UpdatedAt(); ok {
		_spec.SetField(modelrecord.FieldUpdatedAt, field.TypeTime, value)
		_node.UpdatedAt = value
	}
	return _node, _spec
}

// ModelRecordCreateBulk is the builder for creating many ModelRecord entities in bulk.
type ModelRecordCreateBulk struct {
	config
	err      error
	builders []*ModelRecordCreate
}

// Save creates the ModelRecord entities in the database.
func (_c *ModelRecordCreateBulk) Save(ctx context.Context) ([]*ModelRecord, error) {
	if _c.err != nil {
		return nil, _c.err
	}
	specs := make([]*sqlgraph.CreateSpec, len(_c.builders))
	nodes := make([]*ModelRecord, len(_c.builders))
	mutators := make([]Mutator, len(_c.builders))
	for i := range _c.builders {
		func(i int, root context.Context) {
			builder := _c.builders[i]
			builder.defaults()
			var mut Mutator = MutateFunc(func(ctx context.Context, m Mutation) (Value, error) {
				mutation, ok := m.(*ModelRecordMutation)
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
func (_c *ModelRecordCreateBulk) SaveX(ctx context.Context) []*ModelRecord {
	v, err := _c.Save(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// Exec executes the query.
func (_c *ModelRecordCreateBulk) Exec(ctx context.Context) error {
	_, err := _c.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_c *ModelRecordCreateBulk) ExecX(ctx context.Context) {
	if err := _c.Exec(ctx); err != nil {
		panic(err)
	}
}
