// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"errors"
	"fmt"

	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"entgo.io/ent/schema/field"
	"github.com/kiln-dev/kiln/ent/checkpointfile"
	"github.com/kiln-dev/kiln/ent/predicate"
)

// CheckpointFileUpdate is the builder for updating CheckpointFile entities.
type CheckpointFileUpdate struct {
	config
	hooks    []Hook
	mutation *CheckpointFileMutation
}

// Where appends a list predicates to the CheckpointFileUpdate builder.
func (_u *CheckpointFileUpdate) Where(ps ...predicate.CheckpointFile) *CheckpointFileUpdate {
	_u.mutation.Where(ps...)
	return _u
}

// SetOriginalContent sets the "original_content" field.
func (_u *CheckpointFileUpdate) SetOriginalContent(v string) *CheckpointFileUpdate {
	_u.mutation.SetOriginalContent(v)
	return _u
}

// SetNillableOriginalContent sets the "original_content" field if the given value is not nil.
func (_u *CheckpointFileUpdate) SetNillableOriginalContent(v *string) *CheckpointFileUpdate {
	if v != nil {
		_u.SetOriginalContent(*v)
	}
	return _u
}

// ClearOriginalContent clears the value of the "original_content" field.
func (_u *CheckpointFileUpdate) ClearOriginalContent() *CheckpointFileUpdate {
	_u.mutation.ClearOriginalContent()
	return _u
}

// SetAction sets the "action" field.
func (_u *CheckpointFileUpdate) SetAction(v checkpointfile.Action) *CheckpointFileUpdate {
	_u.mutation.SetAction(v)
	return _u
}

// SetNillableAction sets the "action" field if the given value is not nil.
func (_u *CheckpointFileUpdate) SetNillableAction(v *checkpointfile.Action) *CheckpointFileUpdate {
	if v != nil {
		_u.SetAction(*v)
	}
	return _u
}

// Mutation returns the CheckpointFileMutation object of the builder.
func (_u *CheckpointFileUpdate) Mutation() *CheckpointFileMutation {
	return _u.mutation
}

// Save executes the query and returns the number of nodes affected by the update operation.
func (_u *CheckpointFileUpdate) Save(ctx context.Context) (int, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *CheckpointFileUpdate) SaveX(ctx context.Context) int {
	affected, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return affected
}

// Exec executes the query.
func (_u *CheckpointFileUpdate) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *CheckpointFileUpdate) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *CheckpointFileUpdate) check() error {
	if v, ok := _u.mutation.Action(); ok {
		if err := checkpointfile.ActionValidator(v); err != nil {
			return &ValidationError{Name: "action", err: fmt.Errorf(`ent: validator failed for field "CheckpointFile.action": %w`, err)}
		}
	}
	if _u.mutation.CheckpointCleared() && len(_u.mutation.CheckpointIDs()) > 0 {
		return errors.New(`ent: clearing a required unique edge "CheckpointFile.checkpoint"`)
	}
	return nil
}

func (_u *CheckpointFileUpdate) sqlSave(ctx context.Context) (_node int, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(checkpointfile.Table, checkpointfile.Columns, sqlgraph.NewFieldSpec(checkpointfile.FieldID, field.TypeString))
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.OriginalContent(); ok {
		_spec.SetField(checkpointfile.FieldOriginalContent, field.TypeString, value)
	}
	if _u.mutation.OriginalContentCleared() {
		_spec.ClearField(checkpointfile.FieldOriginalContent, field.TypeString)
	}
	if value, ok := _u.mutation.Action(); ok {
		_spec.SetField(checkpointfile.FieldAction, field.TypeEnum, value)
	}
	if _node, err = sqlgraph.UpdateNodes(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{checkpointfile.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return 0, err
	}
	_u.mutation.done = true
	return _node, nil
}

// CheckpointFileUpdateOne is the builder for updating a single CheckpointFile entity.
type CheckpointFileUpdateOne struct {
	config
	fields   []string
	hooks    []Hook
	mutation *CheckpointFileMutation
}

// SetOriginalContent sets the "original_content" field.
func (_u *CheckpointFileUpdateOne) SetOriginalContent(v string) *CheckpointFileUpdateOne {
	_u.mutation.SetOriginalContent(v)
	return _u
}

// SetNillableOriginalContent sets the "original_content" field if the given value is not nil.
func (_u *CheckpointFileUpdateOne) SetNillableOriginalContent(v *string) *CheckpointFileUpdateOne {
	if v != nil {
		_u.SetOriginalContent(*v)
	}
	return _u
}

// ClearOriginalContent clears the value of the "original_content" field.
func (_u *CheckpointFileUpdateOne) ClearOriginalContent() *CheckpointFileUpdateOne {
	_u.mutation.ClearOriginalContent()
	return _u
}

// SetAction sets the "action" field.
func (_u *CheckpointFileUpdateOne) SetAction(v checkpointfile.Action) *CheckpointFileUpdateOne {
	_u.mutation.SetAction(v)
	return _u
}

// SetNillableAction sets the "action" field if the given value is not nil.
func (_u *CheckpointFileUpdateOne) SetNillableAction(v *checkpointfile.Action) *CheckpointFileUpdateOne {
	if v != nil {
		_u.SetAction(*v)
	}
	return _u
}

// Mutation returns the CheckpointFileMutation object of the builder.
func (_u *CheckpointFileUpdateOne) Mutation() *CheckpointFileMutation {
	return _u.mutation
}

// Where appends a list predicates to the CheckpointFileUpdate builder.
func (_u *CheckpointFileUpdateOne) Where(ps ...predicate.CheckpointFile) *CheckpointFileUpdateOne {
	_u.mutation.Where(ps...)
	return _u
}

// Select allows selecting one or more fields (columns) of the returned entity.
// The default is selecting all fields defined in the entity schema.
func (_u *CheckpointFileUpdateOne) Select(field string, fields ...string) *CheckpointFileUpdateOne {
	_u.fields = append([]string{field}, fields...)
	return _u
}

// Save executes the query and returns the updated CheckpointFile entity.
func (_u *CheckpointFileUpdateOne) Save(ctx context.Context) (*CheckpointFile, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *CheckpointFileUpdateOne) SaveX(ctx context.Context) *CheckpointFile {
	node, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return node
}

// Exec executes the query on the entity.
func (_u *CheckpointFileUpdateOne) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *CheckpointFileUpdateOne) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *CheckpointFileUpdateOne) check() error {
	if v, ok := _u.mutation.Action(); ok {
		if err := checkpointfile.ActionValidator(v); err != nil {
			return &ValidationError{Name: "action", err: fmt.Errorf(`ent: validator failed for field "CheckpointFile.action": %w`, err)}
		}
	}
	if _u.mutation.CheckpointCleared() && len(_u.mutation.CheckpointIDs()) > 0 {
		return errors.New(`ent: clearing a required unique edge "CheckpointFile.checkpoint"`)
	}
	return nil
}

func (_u *CheckpointFileUpdateOne) sqlSave(ctx context.Context) (_node *CheckpointFile, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(checkpointfile.Table, checkpointfile.Columns, sqlgraph.NewFieldSpec(checkpointfile.FieldID, field.TypeString))
	id, ok := _u.mutation.ID()
	if !ok {
		return nil, &ValidationError{Name: "id", err: errors.New(`ent: missing "CheckpointFile.id" for update`)}
	}
	_spec.Node.ID.Value = id
	if fields := _u.fields; len(fields) > 0 {
		_spec.Node.Columns = make([]string, 0, len(fields))
		_spec.Node.Columns = append(_spec.Node.Columns, checkpointfile.FieldID)
		for _, f := range fields {
			if !checkpointfile.ValidColumn(f) {
				return nil, &ValidationError{Name: f, err: fmt.Errorf("ent: invalid field %q for query", f)}
			}
			if f != checkpointfile.FieldID {
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
	if value, ok := _u.mutation.OriginalContent(); ok {
		_spec.SetField(checkpointfile.FieldOriginalContent, field.TypeString, value)
	}
	if _u.mutation.OriginalContentCleared() {
		_spec.ClearField(checkpointfile.FieldOriginalContent, field.TypeString)
	}
	if value, ok := _u.mutation.Action(); ok {
		_spec.SetField(checkpointfile.FieldAction, field.TypeEnum, value)
	}
	_node = &CheckpointFile{config: _u.config}
	_spec.Assign = _node.assignValues
	_spec.ScanValues = _node.scanValues
	if err = sqlgraph.UpdateNode(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{checkpointfile.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return nil, err
	}
	_u.mutation.done = true
	return _node, nil
}
