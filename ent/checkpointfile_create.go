// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql/sqlgraph"
	"entgo.io/ent/schema/field"
	"github.com/kiln-dev/kiln/ent/checkpoint"
	"github.com/kiln-dev/kiln/ent/checkpointfile"
)

// CheckpointFileCreate is the builder for creating a CheckpointFile entity.
type CheckpointFileCreate struct {
	config
	mutation *CheckpointFileMutation
	hooks    []Hook
}

// SetCheckpointID sets the "checkpoint_id" field.
func (_c *CheckpointFileCreate) SetCheckpointID(v string) *CheckpointFileCreate {
	_c.mutation.SetCheckpointID(v)
	return _c
}

// SetPath sets the "path" field.
func (_c *CheckpointFileCreate) SetPath(v string) *CheckpointFileCreate {
	_c.mutation.SetPath(v)
	return _c
}

// SetOriginalContent sets the "original_content" field.
func (_c *CheckpointFileCreate) SetOriginalContent(v string) *CheckpointFileCreate {
	_c.mutation.SetOriginalContent(v)
	return _c
}

// SetNillableOriginalContent sets the "original_content" field if the given value is not nil.
func (_c *CheckpointFileCreate) SetNillableOriginalContent(v *string) *CheckpointFileCreate {
	if v != nil {
		_c.SetOriginalContent(*v)
	}
	return _c
}

// SetAction sets the "action" field.
func (_c *CheckpointFileCreate) SetAction(v checkpointfile.Action) *CheckpointFileCreate {
	_c.mutation.SetAction(v)
	return _c
}

// SetCreatedAt sets the "created_at" field.
func (_c *CheckpointFileCreate) SetCreatedAt(v time.Time) *CheckpointFileCreate {
	_c.mutation.SetCreatedAt(v)
	return _c
}

// SetNillableCreatedAt sets the "created_at" field if the given value is not nil.
func (_c *CheckpointFileCreate) SetNillableCreatedAt(v *time.Time) *CheckpointFileCreate {
	if v != nil {
		_c.SetCreatedAt(*v)
	}
	return _c
}

// SetID sets the "id" field.
func (_c *CheckpointFileCreate) SetID(v string) *CheckpointFileCreate {
	_c.mutation.SetID(v)
	return _c
}

// SetCheckpoint sets the "checkpoint" edge to the Checkpoint entity.
func (_c *CheckpointFileCreate) SetCheckpoint(v *Checkpoint) *CheckpointFileCreate {
	return _c.SetCheckpointID(v.ID)
}

// Mutation returns the CheckpointFileMutation object of the builder.
func (_c *CheckpointFileCreate) Mutation() *CheckpointFileMutation {
	return _c.mutation
}

// Save creates the CheckpointFile in the database.
func (_c *CheckpointFileCreate) Save(ctx context.Context) (*CheckpointFile, error) {
	_c.defaults()
	return withHooks(ctx, _c.sqlSave, _c.mutation, _c.hooks)
}

// SaveX calls Save and panics if Save returns an error.
func (_c *CheckpointFileCreate) SaveX(ctx context.Context) *CheckpointFile {
	v, err := _c.Save(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// Exec executes the query.
func (_c *CheckpointFileCreate) Exec(ctx context.Context) error {
	_, err := _c.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_c *CheckpointFileCreate) ExecX(ctx context.Context) {
	if err := _c.Exec(ctx); err != nil {
		panic(err)
	}
}

// defaults sets the default values of the builder before save.
func (_c *CheckpointFileCreate) defaults() {
	if _, ok := _c.mutation.CreatedAt(); !ok {
		v := checkpointfile.DefaultCreatedAt()
		_c.mutation.SetCreatedAt(v)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_c *CheckpointFileCreate) check() error {
	if _, ok := _c.mutation.CheckpointID(); !ok {
		return &ValidationError{Name: "checkpoint_id", err: errors.New(`ent: missing required field "CheckpointFile.checkpoint_id"`)}
	}
	if _, ok := _c.mutation.Path(); !ok {
		return &ValidationError{Name: "path", err: errors.New(`ent: missing required field "CheckpointFile.path"`)}
	}
	if _, ok := _c.mutation.Action(); !ok {
		return &ValidationError{Name: "action", err: errors.New(`ent: missing required field "CheckpointFile.action"`)}
	}
	if v, ok := _c.mutation.Action(); ok {
		if err := checkpointfile.ActionValidator(v); err != nil {
			return &ValidationError{Name: "action", err: fmt.Errorf(`ent: validator failed for field "CheckpointFile.action": %w`, err)}
		}
	}
	if _, ok := _c.mutation.CreatedAt(); !ok {
		return &ValidationError{Name: "created_at", err: errors.New(`ent: missing required field "CheckpointFile.created_at"`)}
	}
	if len(_c.mutation.CheckpointIDs()) == 0 {
		return &ValidationError{Name: "checkpoint", err: errors.New(`ent: missing required edge "CheckpointFile.checkpoint"`)}
	}
	return nil
}

func (_c *CheckpointFileCreate) sqlSave(ctx context.Context) (*CheckpointFile, error) {
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
			return nil, fmt.Errorf("unexpected CheckpointFile.ID type: %T", _spec.ID.Value)
		}
	}
	_c.mutation.id = &_node.ID
	_c.mutation.done = true
	return _node, nil
}

func (_c *CheckpointFileCreate) createSpec() (*CheckpointFile, *sqlgraph.CreateSpec) {
	var (
		_node = &CheckpointFile{config: _c.config}
		_spec = sqlgraph.NewCreateSpec(checkpointfile.Table, sqlgraph.NewFieldSpec(checkpointfile.FieldID, field.TypeString))
	)
	if id, ok := _c.mutation.ID(); ok {
		_node.ID = id
		_spec.ID.Value = id
	}
	if value, ok := _c.mutation.Path(); ok {
		_spec.SetField(checkpointfile.FieldPath, field.TypeString, value)
		_node.Path = value
	}
	if value, ok := _c.mutation.OriginalContent(); ok {
		_spec.SetField(checkpointfile.FieldOriginalContent, field.TypeString, value)
		_node.OriginalContent = &value
	}
	if value, ok := _c.mutation.Action(); ok {
		_spec.SetField(checkpointfile.FieldAction, field.TypeEnum, value)
		_node.Action = value
	}
	if value, ok := _c.mutation.CreatedAt(); ok {
		_spec.SetField(checkpointfile.FieldCreatedAt, field.TypeTime, value)
		_node.CreatedAt = value
	}
	if nodes := _c.mutation.CheckpointIDs(); len(nodes) > 0 {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.M2O,
			Inverse: true,
			Table:   checkpointfile.CheckpointTable,
			Columns: []string{checkpointfile.CheckpointColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(checkpoint.FieldID, field.TypeString),
			},
		}
		for _, k := range nodes {
			edge.Target.Nodes = append(edge.Target.Nodes, k)
		}
		_node.CheckpointID = nodes[0]
		_spec.Edges = append(_spec.Edges, edge)
	}
	return _node, _spec
}

// CheckpointFileCreateBulk is the builder for creating many CheckpointFile entities in bulk.
type CheckpointFileCreateBulk struct {
	config
	err      error
	builders []*CheckpointFileCreate
}

// Save creates the CheckpointFile entities in the database.
func (_c *CheckpointFileCreateBulk) Save(ctx context.Context) ([]*CheckpointFile, error) {
	if _c.err != nil {
		return nil, _c.err
	}
	specs := make([]*sqlgraph.CreateSpec, len(_c.builders))
	nodes := make([]*CheckpointFile, len(_c.builders))
	mutators := make([]Mutator, len(_c.builders))
	for i := range _c.builders {
		func(i int, root context.Context) {
			builder := _c.builders[i]
			builder.defaults()
			var mut Mutator = MutateFunc(func(ctx context.Context, m Mutation) (Value, error) {
				mutation, ok := m.(*CheckpointFileMutation)
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
func (_c *CheckpointFileCreateBulk) SaveX(ctx context.Context) []*CheckpointFile {
	v, err := _c.Save(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// Exec executes the query.
func (_c *CheckpointFileCreateBulk) Exec(ctx context.Context) error {
	_, err := _c.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_c *CheckpointFileCreateBulk) ExecX(ctx context.Context) {
	if err := _c.Exec(ctx); err != nil {
		panic(err)
	}
}
