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
	"github.com/kiln-dev/kiln/ent/event"
	"github.com/kiln-dev/kiln/ent/message"
	"github.com/kiln-dev/kiln/ent/session"
)

// SessionCreate is the builder for creating a Session entity.
type SessionCreate struct {
	config
	mutation *SessionMutation
	hooks    []Hook
}

// SetTask sets the "task" field.
func (_c *SessionCreate) SetTask(v string) *SessionCreate {
	_c.mutation.SetTask(v)
	return _c
}

// SetMode sets the "mode" field.
func (_c *SessionCreate) SetMode(v string) *SessionCreate {
	_c.mutation.SetMode(v)
	return _c
}

// SetModel sets the "model" field.
func (_c *SessionCreate) SetModel(v string) *SessionCreate {
	_c.mutation.SetModel(v)
	return _c
}

// SetTitle sets the "title" field.
func (_c *SessionCreate) SetTitle(v string) *SessionCreate {
	_c.mutation.SetTitle(v)
	return _c
}

// SetNillableTitle sets the "title" field if the given value is not nil.
func (_c *SessionCreate) SetNillableTitle(v *string) *SessionCreate {
	if v != nil {
		_c.SetTitle(*v)
	}
	return _c
}

// SetStatus sets the "status" field.
func (_c *SessionCreate) SetStatus(v session.Status) *SessionCreate {
	_c.mutation.SetStatus(v)
	return _c
}

// SetNillableStatus sets the "status" field if the given value is not nil.
func (_c *SessionCreate) SetNillableStatus(v *session.Status) *SessionCreate {
	if v != nil {
		_c.SetStatus(*v)
	}
	return _c
}

// SetWorkspace sets the "workspace" field.
func (_c *SessionCreate) SetWorkspace(v string) *SessionCreate {
	_c.mutation.SetWorkspace(v)
	return _c
}

// SetAutoApproveCommands sets the "auto_approve_commands" field.
func (_c *SessionCreate) SetAutoApproveCommands(v bool) *SessionCreate {
	_c.mutation.SetAutoApproveCommands(v)
	return _c
}

// SetNillableAutoApproveCommands sets the "auto_approve_commands" field if the given value is not nil.
func (_c *SessionCreate) SetNillableAutoApproveCommands(v *bool) *SessionCreate {
	if v != nil {
		_c.SetAutoApproveCommands(*v)
	}
	return _c
}

// SetAutoApproveSensitiveEdits sets the "auto_approve_sensitive_edits" field.
func (_c *SessionCreate) SetAutoApproveSensitiveEdits(v bool) *SessionCreate {
	_c.mutation.SetAutoApproveSensitiveEdits(v)
	return _c
}

// SetNillableAutoApproveSensitiveEdits sets the "auto_approve_sensitive_edits" field if the given value is not nil.
func (_c *SessionCreate) SetNillableAutoApproveSensitiveEdits(v *bool) *SessionCreate {
	if v != nil {
		_c.SetAutoApproveSensitiveEdits(*v)
	}
	return _c
}

// SetSensitiveFilePatterns sets the "sensitive_file_patterns" field.
func (_c *SessionCreate) SetSensitiveFilePatterns(v []string) *SessionCreate {
	_c.mutation.SetSensitiveFilePatterns(v)
	return _c
}

// SetFilesChanged sets the "files_changed" field.
func (_c *SessionCreate) SetFilesChanged(v []string) *SessionCreate {
	_c.mutation.SetFilesChanged(v)
	return _c
}

// SetMemory sets the "memory" field.
func (_c *SessionCreate) SetMemory(v map[string]interface{}) *SessionCreate {
	_c.mutation.SetMemory(v)
	return _c
}

// SetCreatedAt sets the "created_at" field.
func (_c *SessionCreate) SetCreatedAt(v time.Time) *SessionCreate {
	_c.mutation.SetCreatedAt(v)
	return _c
}

// SetNillableCreatedAt sets the "created_at" field if the given value is not nil.
func (_c *SessionCreate) SetNillableCreatedAt(v *time.Time) *SessionCreate {
	if v != nil {
		_c.SetCreatedAt(*v)
	}
	return _c
}

// SetStartedAt sets the "started_at" field.
func (_c *SessionCreate) SetStartedAt(v time.Time) *SessionCreate {
	_c.mutation.SetStartedAt(v)
	return _c
}

// SetNillableStartedAt sets the "started_at" field if the given value is not nil.
func (_c *SessionCreate) SetNillableStartedAt(v *time.Time) *SessionCreate {
	if v != nil {
		_c.SetStartedAt(*v)
	}
	return _c
}

// SetCompletedAt sets the "completed_at" field.
func (_c *SessionCreate) SetCompletedAt(v time.Time) *SessionCreate {
	_c.mutation.SetCompletedAt(v)
	return _c
}

// SetNillableCompletedAt sets the "completed_at" field if the given value is not nil.
func (_c *SessionCreate) SetNillableCompletedAt(v *time.Time) *SessionCreate {
	if v != nil {
		_c.SetCompletedAt(*v)
	}
	return _c
}

// SetErrorMessage sets the "error_message" field.
func (_c *SessionCreate) SetErrorMessage(v string) *SessionCreate {
	_c.mutation.SetErrorMessage(v)
	return _c
}

// SetNillableErrorMessage sets the "error_message" field if the given value is not nil.
func (_c *SessionCreate) SetNillableErrorMessage(v *string) *SessionCreate {
	if v != nil {
		_c.SetErrorMessage(*v)
	}
	return _c
}

// SetPodID sets the "pod_id" field.
func (_c *SessionCreate) SetPodID(v string) *SessionCreate {
	_c.mutation.SetPodID(v)
	return _c
}

// SetNillablePodID sets the "pod_id" field if the given value is not nil.
func (_c *SessionCreate) SetNillablePodID(v *string) *SessionCreate {
	if v != nil {
		_c.SetPodID(*v)
	}
	return _c
}

// SetLastInteractionAt sets the "last_interaction_at" field.
func (_c *SessionCreate) SetLastInteractionAt(v time.Time) *SessionCreate {
	_c.mutation.SetLastInteractionAt(v)
	return _c
}

// SetNillableLastInteractionAt sets the "last_interaction_at" field if the given value is not nil.
func (_c *SessionCreate) SetNillableLastInteractionAt(v *time.Time) *SessionCreate {
	if v != nil {
		_c.SetLastInteractionAt(*v)
	}
	return _c
}

// SetDeletedAt sets the "deleted_at" field.
func (_c *SessionCreate) SetDeletedAt(v time.Time) *SessionCreate {
	_c.mutation.SetDeletedAt(v)
	return _c
}

// SetNillableDeletedAt sets the "deleted_at" field if the given value is not nil.
func (_c *SessionCreate) SetNillableDeletedAt(v *time.Time) *SessionCreate {
	if v != nil {
		_c.SetDeletedAt(*v)
	}
	return _c
}

// SetID sets the "id" field.
func (_c *SessionCreate) SetID(v string) *SessionCreate {
	_c.mutation.SetID(v)
	return _c
}

// AddMessageIDs adds the "messages" edge to the Message entity by IDs.
func (_c *SessionCreate) AddMessageIDs(ids ...string) *SessionCreate {
	_c.mutation.AddMessageIDs(ids...)
	return _c
}

// AddMessages adds the "messages" edges to the Message entity.
func (_c *SessionCreate) AddMessages(v ...*Message) *SessionCreate {
	ids := make([]string, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _c.AddMessageIDs(ids...)
}

// AddCheckpointIDs adds the "checkpoints" edge to the Checkpoint entity by IDs.
func (_c *SessionCreate) AddCheckpointIDs(ids ...string) *SessionCreate {
	_c.mutation.AddCheckpointIDs(ids...)
	return _c
}

// AddCheckpoints adds the "checkpoints" edges to the Checkpoint entity.
func (_c *SessionCreate) AddCheckpoints(v ...*Checkpoint) *SessionCreate {
	ids := make([]string, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _c.AddCheckpointIDs(ids...)
}

// AddEventIDs adds the "events" edge to the Event entity by IDs.
func (_c *SessionCreate) AddEventIDs(ids ...int) *SessionCreate {
	_c.mutation.AddEventIDs(ids...)
	return _c
}

// AddEvents adds the "events" edges to the Event entity.
func (_c *SessionCreate) AddEvents(v ...*Event) *SessionCreate {
	ids := make([]int, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _c.AddEventIDs(ids...)
}

// Mutation returns the SessionMutation object of the builder.
func (_c *SessionCreate) Mutation() *SessionMutation {
	return _c.mutation
}

// Save creates the Session in the database.
func (_c *SessionCreate) Save(ctx context.Context) (*Session, error) {
	_c.defaults()
	return withHooks(ctx, _c.sqlSave, _c.mutation, _c.hooks)
}

// SaveX calls Save and panics if Save returns an error.
func (_c *SessionCreate) SaveX(ctx context.Context) *Session {
	v, err := _c.Save(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// Exec executes the query.
func (_c *SessionCreate) Exec(ctx context.Context) error {
	_, err := _c.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_c *SessionCreate) ExecX(ctx context.Context) {
	if err := _c.Exec(ctx); err != nil {
		panic(err)
	}
}

// defaults sets the default values of the builder before save.
func (_c *SessionCreate) defaults() {
	if _, ok := _c.mutation.Status(); !ok {
		v := session.DefaultStatus
		_c.mutation.SetStatus(v)
	}
	if _, ok := _c.mutation.AutoApproveCommands(); !ok {
		v := session.DefaultAutoApproveCommands
		_c.mutation.SetAutoApproveCommands(v)
	}
	if _, ok := _c.mutation.AutoApproveSensitiveEdits(); !ok {
		v := session.DefaultAutoApproveSensitiveEdits
		_c.mutation.SetAutoApproveSensitiveEdits(v)
	}
	if _, ok := _c.mutation.CreatedAt(); !ok {
		v := session.DefaultCreatedAt()
		_c.mutation.SetCreatedAt(v)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_c *SessionCreate) check() error {
	if _, ok := _c.mutation.Task(); !ok {
		return &ValidationError{Name: "task", err: errors.New(`ent: missing required field "Session.task"`)}
	}
	if _, ok := _c.mutation.Mode(); !ok {
		return &ValidationError{Name: "mode", err: errors.New(`ent: missing required field "Session.mode"`)}
	}
	if _, ok := _c.mutation.Model(); !ok {
		return &ValidationError{Name: "model", err: errors.New(`ent: missing required field "Session.model"`)}
	}
	if _, ok := _c.mutation.Status(); !ok {
		return &ValidationError{Name: "status", err: errors.New(`ent: missing required field "Session.status"`)}
	}
	if v, ok := _c.mutation.Status(); ok {
		if err := session.StatusValidator(v); err != nil {
			return &ValidationError{Name: "status", err: fmt.Errorf(`ent: validator failed for field "Session.status": %w`, err)}
		}
	}
	if _, ok := _c.mutation.Workspace(); !ok {
		return &ValidationError{Name: "workspace", err: errors.New(`ent: missing required field "Session.workspace"`)}
	}
	if _, ok := _c.mutation.AutoApproveCommands(); !ok {
		return &ValidationError{Name: "auto_approve_commands", err: errors.New(`ent: missing required field "Session.auto_approve_commands"`)}
	}
	if _, ok := _c.mutation.AutoApproveSensitiveEdits(); !ok {
		return &ValidationError{Name: "auto_approve_sensitive_edits", err: errors.New(`ent: missing required field "Session.auto_approve_sensitive_edits"`)}
	}
	if _, ok := _c.mutation.CreatedAt(); !ok {
		return &ValidationError{Name: "created_at", err: errors.New(`ent: missing required field "Session.created_at"`)}
	}
	return nil
}

func (_c *SessionCreate) sqlSave(ctx context.Context) (*Session, error) {
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
			return nil, fmt.Errorf("unexpected Session.ID type: %T", _spec.ID.Value)
		}
	}
	_c.mutation.id = &_node.ID
	_c.mutation.done = true
	return _node, nil
}

func (_c *SessionCreate) createSpec() (*Session, *sqlgraph.CreateSpec) {
	var (
		_node = &Session{config: _c.config}
		_spec = sqlgraph.NewCreateSpec(session.Table, sqlgraph.NewFieldSpec(session.FieldID, field.TypeString))
	)
	if id, ok := _c.mutation.ID(); ok {
		_node.ID = id
		_spec.ID.Value = id
	}
	if value, ok := _c.mutation.Task(); ok {
		_spec.SetField(session.FieldTask, field.TypeString, value)
		_node.Task = value
	}
	if value, ok := _c.mutation.Mode(); ok {
		_spec.SetField(session.FieldMode, field.TypeString, value)
		_node.Mode = value
	}
	if value, ok := _c.mutation.Model(); ok {
		_spec.SetField(session.FieldModel, field.TypeString, value)
		_node.Model = value
	}
	if value, ok := _c.mutation.Title(); ok {
		_spec.SetField(session.FieldTitle, field.TypeString, value)
		_node.Title = &value
	}
	if value, ok := _c.mutation.Status(); ok {
		_spec.SetField(session.FieldStatus, field.TypeEnum, value)
		_node.Status = value
	}
	if value, ok := _c.mutation.Workspace(); ok {
		_spec.SetField(session.FieldWorkspace, field.TypeString, value)
		_node.Workspace = value
	}
	if value, ok := _c.mutation.AutoApproveCommands(); ok {
		_spec.SetField(session.FieldAutoApproveCommands, field.TypeBool, value)
		_node.AutoApproveCommands = value
	}
	if value, ok := _c.mutation.AutoApproveSensitiveEdits(); ok {
		_spec.SetField(session.FieldAutoApproveSensitiveEdits, field.TypeBool, value)
		_node.AutoApproveSensitiveEdits = value
	}
	if value, ok := _c.mutation.SensitiveFilePatterns(); ok {
		_spec.SetField(session.FieldSensitiveFilePatterns, field.TypeJSON, value)
		_node.SensitiveFilePatterns = value
	}
	if value, ok := _c.mutation.FilesChanged(); ok {
		_spec.SetField(session.FieldFilesChanged, field.TypeJSON, value)
		_node.FilesChanged = value
	}
	if value, ok := _c.mutation.Memory(); ok {
		_spec.SetField(session.FieldMemory, field.TypeJSON, value)
		_node.Memory = value
	}
	if value, ok := _c.mutation.CreatedAt(); ok {
		_spec.SetField(session.FieldCreatedAt, field.TypeTime, value)
		_node.CreatedAt = value
	}
	if value, ok := _c.mutation.StartedAt(); ok {
		_spec.SetField(session.FieldStartedAt, field.TypeTime, value)
		_node.StartedAt = &value
	}
	if value, ok := _c.mutation.CompletedAt(); ok {
		_spec.SetField(session.FieldCompletedAt, field.TypeTime, value)
		_node.CompletedAt = &value
	}
	if value, ok := _c.mutation.ErrorMessage(); ok {
		_spec.SetField(session.FieldErrorMessage, field.TypeString, value)
		_node.ErrorMessage = &value
	}
	if value, ok := _c.mutation.PodID(); ok {
		_spec.SetField(session.FieldPodID, field.TypeString, value)
		_node.PodID = &value
	}
	if value, ok := _c.mutation.LastInteractionAt(); ok {
		_spec.SetField(session.FieldLastInteractionAt, field.TypeTime, value)
		_node.LastInteractionAt = &value
	}
	if value, ok := _c.mutation.DeletedAt(); ok {
		_spec.SetField(session.FieldDeletedAt, field.TypeTime, value)
		_node.DeletedAt = &value
	}
	if nodes := _c.mutation.MessagesIDs(); len(nodes) > 0 {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.O2M,
			Inverse: false,
			Table:   session.MessagesTable,
			Columns: []string{session.MessagesColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(message.FieldID, field.TypeString),
			},
		}
		for _, k := range nodes {
			edge.Target.Nodes = append(edge.Target.Nodes, k)
		}
		_spec.Edges = append(_spec.Edges, edge)
	}
	if nodes := _c.mutation.CheckpointsIDs(); len(nodes) > 0 {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.O2M,
			Inverse: false,
			Table:   session.CheckpointsTable,
			Columns: []string{session.CheckpointsColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(checkpoint.FieldID, field.TypeString),
			},
		}
		for _, k := range nodes {
			edge.Target.Nodes = append(edge.Target.Nodes, k)
		}
		_spec.Edges = append(_spec.Edges, edge)
	}
	if nodes := _c.mutation.EventsIDs(); len(nodes) > 0 {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.O2M,
			Inverse: false,
			Table:   session.EventsTable,
			Columns: []string{session.EventsColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(event.FieldID, field.TypeInt),
			},
		}
		for _, k := range nodes {
			edge.Target.Nodes = append(edge.Target.Nodes, k)
		}
		_spec.Edges = append(_spec.Edges, edge)
	}
	return _node, _spec
}

// SessionCreateBulk is the builder for creating many Session entities in bulk.
type SessionCreateBulk struct {
	config
	err      error
	builders []*SessionCreate
}

// Save creates the Session entities in the database.
func (_c *SessionCreateBulk) Save(ctx context.Context) ([]*Session, error) {
	if _c.err != nil {
		return nil, _c.err
	}
	specs := make([]*sqlgraph.CreateSpec, len(_c.builders))
	nodes := make([]*Session, len(_c.builders))
	mutators := make([]Mutator, len(_c.builders))
	for i := range _c.builders {
		func(i int, root context.Context) {
			builder := _c.builders[i]
			builder.defaults()
			var mut Mutator = MutateFunc(func(ctx context.Context, m Mutation) (Value, error) {
				mutation, ok := m.(*SessionMutation)
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
func (_c *SessionCreateBulk) SaveX(ctx context.Context) []*Session {
	v, err := _c.Save(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// Exec executes the query.
func (_c *SessionCreateBulk) Exec(ctx context.Context) error {
	_, err := _c.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_c *SessionCreateBulk) ExecX(ctx context.Context) {
	if err := _c.Exec(ctx); err != nil {
		panic(err)
	}
}
