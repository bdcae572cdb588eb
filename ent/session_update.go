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
	"github.com/kiln-dev/kiln/ent/checkpoint"
	"github.com/kiln-dev/kiln/ent/event"
	"github.com/kiln-dev/kiln/ent/message"
	"github.com/kiln-dev/kiln/ent/predicate"
	"github.com/kiln-dev/kiln/ent/session"
)

// SessionUpdate is the builder for updating Session entities.
type SessionUpdate struct {
	config
	hooks    []Hook
	mutation *SessionMutation
}

// Where appends a list predicates to the SessionUpdate builder.
func (_u *SessionUpdate) Where(ps ...predicate.Session) *SessionUpdate {
	_u.mutation.Where(ps...)
	return _u
}

// SetTask sets the "task" field.
func (_u *SessionUpdate) SetTask(v string) *SessionUpdate {
	_u.mutation.SetTask(v)
	return _u
}

// SetNillableTask sets the "task" field if the given value is not nil.
func (_u *SessionUpdate) SetNillableTask(v *string) *SessionUpdate {
	if v != nil {
		_u.SetTask(*v)
	}
	return _u
}

// SetMode sets the "mode" field.
func (_u *SessionUpdate) SetMode(v string) *SessionUpdate {
	_u.mutation.SetMode(v)
	return _u
}

// SetNillableMode sets the "mode" field if the given value is not nil.
func (_u *SessionUpdate) SetNillableMode(v *string) *SessionUpdate {
	if v != nil {
		_u.SetMode(*v)
	}
	return _u
}

// SetModel sets the "model" field.
func (_u *SessionUpdate) SetModel(v string) *SessionUpdate {
	_u.mutation.SetModel(v)
	return _u
}

// SetNillableModel sets the "model" field if the given value is not nil.
func (_u *SessionUpdate) SetNillableModel(v *string) *SessionUpdate {
	if v != nil {
		_u.SetModel(*v)
	}
	return _u
}

// SetTitle sets the "title" field.
func (_u *SessionUpdate) SetTitle(v string) *SessionUpdate {
	_u.mutation.SetTitle(v)
	return _u
}

// SetNillableTitle sets the "title" field if the given value is not nil.
func (_u *SessionUpdate) SetNillableTitle(v *string) *SessionUpdate {
	if v != nil {
		_u.SetTitle(*v)
	}
	return _u
}

// ClearTitle clears the value of the "title" field.
func (_u *SessionUpdate) ClearTitle() *SessionUpdate {
	_u.mutation.ClearTitle()
	return _u
}

// SetStatus sets the "status" field.
func (_u *SessionUpdate) SetStatus(v session.Status) *SessionUpdate {
	_u.mutation.SetStatus(v)
	return _u
}

// SetNillableStatus sets the "status" field if the given value is not nil.
func (_u *SessionUpdate) SetNillableStatus(v *session.Status) *SessionUpdate {
	if v != nil {
		_u.SetStatus(*v)
	}
	return _u
}

// SetWorkspace sets the "workspace" field.
func (_u *SessionUpdate) SetWorkspace(v string) *SessionUpdate {
	_u.mutation.SetWorkspace(v)
	return _u
}

// SetNillableWorkspace sets the "workspace" field if the given value is not nil.
func (_u *SessionUpdate) SetNillableWorkspace(v *string) *SessionUpdate {
	if v != nil {
		_u.SetWorkspace(*v)
	}
	return _u
}

// SetAutoApproveCommands sets the "auto_approve_commands" field.
func (_u *SessionUpdate) SetAutoApproveCommands(v bool) *SessionUpdate {
	_u.mutation.SetAutoApproveCommands(v)
	return _u
}

// SetNillableAutoApproveCommands sets the "auto_approve_commands" field if the given value is not nil.
func (_u *SessionUpdate) SetNillableAutoApproveCommands(v *bool) *SessionUpdate {
	if v != nil {
		_u.SetAutoApproveCommands(*v)
	}
	return _u
}

// SetAutoApproveSensitiveEdits sets the "auto_approve_sensitive_edits" field.
func (_u *SessionUpdate) SetAutoApproveSensitiveEdits(v bool) *SessionUpdate {
	_u.mutation.SetAutoApproveSensitiveEdits(v)
	return _u
}

// SetNillableAutoApproveSensitiveEdits sets the "auto_approve_sensitive_edits" field if the given value is not nil.
func (_u *SessionUpdate) SetNillableAutoApproveSensitiveEdits(v *bool) *SessionUpdate {
	if v != nil {
		_u.SetAutoApproveSensitiveEdits(*v)
	}
	return _u
}

// SetSensitiveFilePatterns sets the "sensitive_file_patterns" field.
func (_u *SessionUpdate) SetSensitiveFilePatterns(v []string) *SessionUpdate {
	_u.mutation.SetSensitiveFilePatterns(v)
	return _u
}

// AppendSensitiveFilePatterns appends value to the "sensitive_file_patterns" field.
func (_u *SessionUpdate) AppendSensitiveFilePatterns(v []string) *SessionUpdate {
	_u.mutation.AppendSensitiveFilePatterns(v)
	return _u
}

// ClearSensitiveFilePatterns clears the value of the "sensitive_file_patterns" field.
func (_u *SessionUpdate) ClearSensitiveFilePatterns() *SessionUpdate {
	_u.mutation.ClearSensitiveFilePatterns()
	return _u
}

// SetFilesChanged sets the "files_changed" field.
func (_u *SessionUpdate) SetFilesChanged(v []string) *SessionUpdate {
	_u.mutation.SetFilesChanged(v)
	return _u
}

// AppendFilesChanged appends value to the "files_changed" field.
func (_u *SessionUpdate) AppendFilesChanged(v []string) *SessionUpdate {
	_u.mutation.AppendFilesChanged(v)
	return _u
}

// ClearFilesChanged clears the value of the "files_changed" field.
func (_u *SessionUpdate) ClearFilesChanged() *SessionUpdate {
	_u.mutation.ClearFilesChanged()
	return _u
}

// SetMemory sets the "memory" field.
func (_u *SessionUpdate) SetMemory(v map[string]interface{}) *SessionUpdate {
	_u.mutation.SetMemory(v)
	return _u
}

// ClearMemory clears the value of the "memory" field.
func (_u *SessionUpdate) ClearMemory() *SessionUpdate {
	_u.mutation.ClearMemory()
	return _u
}

// SetStartedAt sets the "started_at" field.
func (_u *SessionUpdate) SetStartedAt(v time.Time) *SessionUpdate {
	_u.mutation.SetStartedAt(v)
	return _u
}

// SetNillableStartedAt sets the "started_at" field if the given value is not nil.
func (_u *SessionUpdate) SetNillableStartedAt(v *time.Time) *SessionUpdate {
	if v != nil {
		_u.SetStartedAt(*v)
	}
	return _u
}

// ClearStartedAt clears the value of the "started_at" field.
func (_u *SessionUpdate) ClearStartedAt() *SessionUpdate {
	_u.mutation.ClearStartedAt()
	return _u
}

// SetCompletedAt sets the "completed_at" field.
func (_u *SessionUpdate) SetCompletedAt(v time.Time) *SessionUpdate {
	_u.mutation.SetCompletedAt(v)
	return _u
}

// SetNillableCompletedAt sets the "completed_at" field if the given value is not nil.
func (_u *SessionUpdate) SetNillableCompletedAt(v *time.Time) *SessionUpdate {
	if v != nil {
		_u.SetCompletedAt(*v)
	}
	return _u
}

// ClearCompletedAt clears the value of the "completed_at" field.
func (_u *SessionUpdate) ClearCompletedAt() *SessionUpdate {
	_u.mutation.ClearCompletedAt()
	return _u
}

// SetErrorMessage sets the "error_message" field.
func (_u *SessionUpdate) SetErrorMessage(v string) *SessionUpdate {
	_u.mutation.SetErrorMessage(v)
	return _u
}

// SetNillableErrorMessage sets the "error_message" field if the given value is not nil.
func (_u *SessionUpdate) SetNillableErrorMessage(v *string) *SessionUpdate {
	if v != nil {
		_u.SetErrorMessage(*v)
	}
	return _u
}

// ClearErrorMessage clears the value of the "error_message" field.
func (_u *SessionUpdate) ClearErrorMessage() *SessionUpdate {
	_u.mutation.ClearErrorMessage()
	return _u
}

// SetPodID sets the "pod_id" field.
func (_u *SessionUpdate) SetPodID(v string) *SessionUpdate {
	_u.mutation.SetPodID(v)
	return _u
}

// SetNillablePodID sets the "pod_id" field if the given value is not nil.
func (_u *SessionUpdate) SetNillablePodID(v *string) *SessionUpdate {
	if v != nil {
		_u.SetPodID(*v)
	}
	return _u
}

// ClearPodID clears the value of the "pod_id" field.
func (_u *SessionUpdate) ClearPodID() *SessionUpdate {
	_u.mutation.ClearPodID()
	return _u
}

// SetLastInteractionAt sets the "last_interaction_at" field.
func (_u *SessionUpdate) SetLastInteractionAt(v time.Time) *SessionUpdate {
	_u.mutation.SetLastInteractionAt(v)
	return _u
}

// SetNillableLastInteractionAt sets the "last_interaction_at" field if the given value is not nil.
func (_u *SessionUpdate) SetNillableLastInteractionAt(v *time.Time) *SessionUpdate {
	if v != nil {
		_u.SetLastInteractionAt(*v)
	}
	return _u
}

// ClearLastInteractionAt clears the value of the "last_interaction_at" field.
func (_u *SessionUpdate) ClearLastInteractionAt() *SessionUpdate {
	_u.mutation.ClearLastInteractionAt()
	return _u
}

// SetDeletedAt sets the "deleted_at" field.
func (_u *SessionUpdate) SetDeletedAt(v time.Time) *SessionUpdate {
	_u.mutation.SetDeletedAt(v)
	return _u
}

// SetNillableDeletedAt sets the "deleted_at" field if the given value is not nil.
func (_u *SessionUpdate) SetNillableDeletedAt(v *time.Time) *SessionUpdate {
	if v != nil {
		_u.SetDeletedAt(*v)
	}
	return _u
}

// ClearDeletedAt clears the value of the "deleted_at" field.
func (_u *SessionUpdate) ClearDeletedAt() *SessionUpdate {
	_u.mutation.ClearDeletedAt()
	return _u
}

// AddMessageIDs adds the "messages" edge to the Message entity by IDs.
func (_u *SessionUpdate) AddMessageIDs(ids ...string) *SessionUpdate {
	_u.mutation.AddMessageIDs(ids...)
	return _u
}

// AddMessages adds the "messages" edges to the Message entity.
func (_u *SessionUpdate) AddMessages(v ...*Message) *SessionUpdate {
	ids := make([]string, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.AddMessageIDs(ids...)
}

// AddCheckpointIDs adds the "checkpoints" edge to the Checkpoint entity by IDs.
func (_u *SessionUpdate) AddCheckpointIDs(ids ...string) *SessionUpdate {
	_u.mutation.AddCheckpointIDs(ids...)
	return _u
}

// AddCheckpoints adds the "checkpoints" edges to the Checkpoint entity.
func (_u *SessionUpdate) AddCheckpoints(v ...*Checkpoint) *SessionUpdate {
	ids := make([]string, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.AddCheckpointIDs(ids...)
}

// AddEventIDs adds the "events" edge to the Event entity by IDs.
func (_u *SessionUpdate) AddEventIDs(ids ...int) *SessionUpdate {
	_u.mutation.AddEventIDs(ids...)
	return _u
}

// AddEvents adds the "events" edges to the Event entity.
func (_u *SessionUpdate) AddEvents(v ...*Event) *SessionUpdate {
	ids := make([]int, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.AddEventIDs(ids...)
}

// Mutation returns the SessionMutation object of the builder.
func (_u *SessionUpdate) Mutation() *SessionMutation {
	return _u.mutation
}

// ClearMessages clears all "messages" edges to the Message entity.
func (_u *SessionUpdate) ClearMessages() *SessionUpdate {
	_u.mutation.ClearMessages()
	return _u
}

// RemoveMessageIDs removes the "messages" edge to Message entities by IDs.
func (_u *SessionUpdate) RemoveMessageIDs(ids ...string) *SessionUpdate {
	_u.mutation.RemoveMessageIDs(ids...)
	return _u
}

// RemoveMessages removes "messages" edges to Message entities.
func (_u *SessionUpdate) RemoveMessages(v ...*Message) *SessionUpdate {
	ids := make([]string, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.RemoveMessageIDs(ids...)
}

// ClearCheckpoints clears all "checkpoints" edges to the Checkpoint entity.
func (_u *SessionUpdate) ClearCheckpoints() *SessionUpdate {
	_u.mutation.ClearCheckpoints()
	return _u
}

// RemoveCheckpointIDs removes the "checkpoints" edge to Checkpoint entities by IDs.
func (_u *SessionUpdate) RemoveCheckpointIDs(ids ...string) *SessionUpdate {
	_u.mutation.RemoveCheckpointIDs(ids...)
	return _u
}

// RemoveCheckpoints removes "checkpoints" edges to Checkpoint entities.
func (_u *SessionUpdate) RemoveCheckpoints(v ...*Checkpoint) *SessionUpdate {
	ids := make([]string, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.RemoveCheckpointIDs(ids...)
}

// ClearEvents clears all "events" edges to the Event entity.
func (_u *SessionUpdate) ClearEvents() *SessionUpdate {
	_u.mutation.ClearEvents()
	return _u
}

// RemoveEventIDs removes the "events" edge to Event entities by IDs.
func (_u *SessionUpdate) RemoveEventIDs(ids ...int) *SessionUpdate {
	_u.mutation.RemoveEventIDs(ids...)
	return _u
}

// RemoveEvents removes "events" edges to Event entities.
func (_u *SessionUpdate) RemoveEvents(v ...*Event) *SessionUpdate {
	ids := make([]int, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.RemoveEventIDs(ids...)
}

// Save executes the query and returns the number of nodes affected by the update operation.
func (_u *SessionUpdate) Save(ctx context.Context) (int, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *SessionUpdate) SaveX(ctx context.Context) int {
	affected, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return affected
}

// Exec executes the query.
func (_u *SessionUpdate) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *SessionUpdate) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *SessionUpdate) check() error {
	if v, ok := _u.mutation.Status(); ok {
		if err := session.StatusValidator(v); err != nil {
			return &ValidationError{Name: "status", err: fmt.Errorf(`ent: validator failed for field "Session.status": %w`, err)}
		}
	}
	return nil
}

func (_u *SessionUpdate) sqlSave(ctx context.Context) (_node int, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(session.Table, session.Columns, sqlgraph.NewFieldSpec(session.FieldID, field.TypeString))
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.Task(); ok {
		_spec.SetField(session.FieldTask, field.TypeString, value)
	}
	if value, ok := _u.mutation.Mode(); ok {
		_spec.SetField(session.FieldMode, field.TypeString, value)
	}
	if value, ok := _u.mutation.Model(); ok {
		_spec.SetField(session.FieldModel, field.TypeString, value)
	}
	if value, ok := _u.mutation.Title(); ok {
		_spec.SetField(session.FieldTitle, field.TypeString, value)
	}
	if _u.mutation.TitleCleared() {
		_spec.ClearField(session.FieldTitle, field.TypeString)
	}
	if value, ok := _u.mutation.Status(); ok {
		_spec.SetField(session.FieldStatus, field.TypeEnum, value)
	}
	if value, ok := _u.mutation.Workspace(); ok {
		_spec.SetField(session.FieldWorkspace, field.TypeString, value)
	}
	if value, ok := _u.mutation.AutoApproveCommands(); ok {
		_spec.SetField(session.FieldAutoApproveCommands, field.TypeBool, value)
	}
	if value, ok := _u.mutation.AutoApproveSensitiveEdits(); ok {
		_spec.SetField(session.FieldAutoApproveSensitiveEdits, field.TypeBool, value)
	}
	if value, ok := _u.mutation.SensitiveFilePatterns(); ok {
		_spec.SetField(session.FieldSensitiveFilePatterns, field.TypeJSON, value)
	}
	if value, ok := _u.mutation.AppendedSensitiveFilePatterns(); ok {
		_spec.AddModifier(func(u *sql.UpdateBuilder) {
			sqljson.Append(u, session.FieldSensitiveFilePatterns, value)
		})
	}
	if _u.mutation.SensitiveFilePatternsCleared() {
		_spec.ClearField(session.FieldSensitiveFilePatterns, field.TypeJSON)
	}
	if value, ok := _u.mutation.FilesChanged(); ok {
		_spec.SetField(session.FieldFilesChanged, field.TypeJSON, value)
	}
	if value, ok := _u.mutation.AppendedFilesChanged(); ok {
		_spec.AddModifier(func(u *sql.UpdateBuilder) {
			sqljson.Append(u, session.FieldFilesChanged, value)
		})
	}
	if _u.mutation.FilesChangedCleared() {
		_spec.ClearField(session.FieldFilesChanged, field.TypeJSON)
	}
	if value, ok := _u.mutation.Memory(); ok {
		_spec.SetField(session.FieldMemory, field.TypeJSON, value)
	}
	if _u.mutation.MemoryCleared() {
		_spec.ClearField(session.FieldMemory, field.TypeJSON)
	}
	if value, ok := _u.mutation.StartedAt(); ok {
		_spec.SetField(session.FieldStartedAt, field.TypeTime, value)
	}
	if _u.mutation.StartedAtCleared() {
		_spec.ClearField(session.FieldStartedAt, field.TypeTime)
	}
	if value, ok := _u.mutation.CompletedAt(); ok {
		_spec.SetField(session.FieldCompletedAt, field.TypeTime, value)
	}
	if _u.mutation.CompletedAtCleared() {
		_spec.ClearField(session.FieldCompletedAt, field.TypeTime)
	}
	if value, ok := _u.mutation.ErrorMessage(); ok {
		_spec.SetField(session.FieldErrorMessage, field.TypeString, value)
	}
	if _u.mutation.ErrorMessageCleared() {
		_spec.ClearField(session.FieldErrorMessage, field.TypeString)
	}
	if value, ok := _u.mutation.PodID(); ok {
		_spec.SetField(session.FieldPodID, field.TypeString, value)
	}
	if _u.mutation.PodIDCleared() {
		_spec.ClearField(session.FieldPodID, field.TypeString)
	}
	if value, ok := _u.mutation.LastInteractionAt(); ok {
		_spec.SetField(session.FieldLastInteractionAt, field.TypeTime, value)
	}
	if _u.mutation.LastInteractionAtCleared() {
		_spec.ClearField(session.FieldLastInteractionAt, field.TypeTime)
	}
	if value, ok := _u.mutation.DeletedAt(); ok {
		_spec.SetField(session.FieldDeletedAt, field.TypeTime, value)
	}
	if _u.mutation.DeletedAtCleared() {
		_spec.ClearField(session.FieldDeletedAt, field.TypeTime)
	}
	if _u.mutation.MessagesCleared() {
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
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.RemovedMessagesIDs(); len(nodes) > 0 && !_u.mutation.MessagesCleared() {
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
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.MessagesIDs(); len(nodes) > 0 {
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
		_spec.Edges.Add = append(_spec.Edges.Add, edge)
	}
	if _u.mutation.CheckpointsCleared() {
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
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.RemovedCheckpointsIDs(); len(nodes) > 0 && !_u.mutation.CheckpointsCleared() {
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
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.CheckpointsIDs(); len(nodes) > 0 {
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
		_spec.Edges.Add = append(_spec.Edges.Add, edge)
	}
	if _u.mutation.EventsCleared() {
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
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.RemovedEventsIDs(); len(nodes) > 0 && !_u.mutation.EventsCleared() {
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
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.EventsIDs(); len(nodes) > 0 {
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
		_spec.Edges.Add = append(_spec.Edges.Add, edge)
	}
	if _node, err = sqlgraph.UpdateNodes(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{session.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return 0, err
	}
	_u.mutation.done = true
	return _node, nil
}

// SessionUpdateOne is the builder for updating a single Session entity.
type SessionUpdateOne struct {
	config
	fields   []string
	hooks    []Hook
	mutation *SessionMutation
}

// SetTask sets the "task" field.
func (_u *SessionUpdateOne) SetTask(v string) *SessionUpdateOne {
	_u.mutation.SetTask(v)
	return _u
}

// SetNillableTask sets the "task" field if the given value is not nil.
func (_u *SessionUpdateOne) SetNillableTask(v *string) *SessionUpdateOne {
	if v != nil {
		_u.SetTask(*v)
	}
	return _u
}

// SetMode sets the "mode" field.
func (_u *SessionUpdateOne) SetMode(v string) *SessionUpdateOne {
	_u.mutation.SetMode(v)
	return _u
}

// SetNillableMode sets the "mode" field if the given value is not nil.
func (_u *SessionUpdateOne) SetNillableMode(v *string) *SessionUpdateOne {
	if v != nil {
		_u.SetMode(*v)
	}
	return _u
}

// SetModel sets the "model" field.
func (_u *SessionUpdateOne) SetModel(v string) *SessionUpdateOne {
	_u.mutation.SetModel(v)
	return _u
}

// SetNillableModel sets the "model" field if the given value is not nil.
func (_u *SessionUpdateOne) SetNillableModel(v *string) *SessionUpdateOne {
	if v != nil {
		_u.SetModel(*v)
	}
	return _u
}

// SetTitle sets the "title" field.
func (_u *SessionUpdateOne) SetTitle(v string) *SessionUpdateOne {
	_u.mutation.SetTitle(v)
	return _u
}

// SetNillableTitle sets the "title" field if the given value is not nil.
func (_u *SessionUpdateOne) SetNillableTitle(v *string) *SessionUpdateOne {
	if v != nil {
		_u.SetTitle(*v)
	}
	return _u
}

// ClearTitle clears the value of the "title" field.
func (_u *SessionUpdateOne) ClearTitle() *SessionUpdateOne {
	_u.mutation.ClearTitle()
	return _u
}

// SetStatus sets the "status" field.
func (_u *SessionUpdateOne) SetStatus(v session.Status) *SessionUpdateOne {
	_u.mutation.SetStatus(v)
	return _u
}

// SetNillableStatus sets the "status" field if the given value is not nil.
func (_u *SessionUpdateOne) SetNillableStatus(v *session.Status) *SessionUpdateOne {
	if v != nil {
		_u.SetStatus(*v)
	}
	return _u
}

// SetWorkspace sets the "workspace" field.
func (_u *SessionUpdateOne) SetWorkspace(v string) *SessionUpdateOne {
	_u.mutation.SetWorkspace(v)
	return _u
}

// SetNillableWorkspace sets the "workspace" field if the given value is not nil.
func (_u *SessionUpdateOne) SetNillableWorkspace(v *string) *SessionUpdateOne {
	if v != nil {
		_u.SetWorkspace(*v)
	}
	return _u
}

// SetAutoApproveCommands sets the "auto_approve_commands" field.
func (_u *SessionUpdateOne) SetAutoApproveCommands(v bool) *SessionUpdateOne {
	_u.mutation.SetAutoApproveCommands(v)
	return _u
}

// SetNillableAutoApproveCommands sets the "auto_approve_commands" field if the given value is not nil.
func (_u *SessionUpdateOne) SetNillableAutoApproveCommands(v *bool) *SessionUpdateOne {
	if v != nil {
		_u.SetAutoApproveCommands(*v)
	}
	return _u
}

// SetAutoApproveSensitiveEdits sets the "auto_approve_sensitive_edits" field.
func (_u *SessionUpdateOne) SetAutoApproveSensitiveEdits(v bool) *SessionUpdateOne {
	_u.mutation.SetAutoApproveSensitiveEdits(v)
	return _u
}

// SetNillableAutoApproveSensitiveEdits sets the "auto_approve_sensitive_edits" field if the given value is not nil.
func (_u *SessionUpdateOne) SetNillableAutoApproveSensitiveEdits(v *bool) *SessionUpdateOne {
	if v != nil {
		_u.SetAutoApproveSensitiveEdits(*v)
	}
	return _u
}

// SetSensitiveFilePatterns sets the "sensitive_file_patterns" field.
func (_u *SessionUpdateOne) SetSensitiveFilePatterns(v []string) *SessionUpdateOne {
	_u.mutation.SetSensitiveFilePatterns(v)
	return _u
}

// AppendSensitiveFilePatterns appends value to the "sensitive_file_patterns" field.
func (_u *SessionUpdateOne) AppendSensitiveFilePatterns(v []string) *SessionUpdateOne {
	_u.mutation.AppendSensitiveFilePatterns(v)
	return _u
}

// ClearSensitiveFilePatterns clears the value of the "sensitive_file_patterns" field.
func (_u *SessionUpdateOne) ClearSensitiveFilePatterns() *SessionUpdateOne {
	_u.mutation.ClearSensitiveFilePatterns()
	return _u
}

// SetFilesChanged sets the "files_changed" field.
func (_u *SessionUpdateOne) SetFilesChanged(v []string) *SessionUpdateOne {
	_u.mutation.SetFilesChanged(v)
	return _u
}

// AppendFilesChanged appends value to the "files_changed" field.
func (_u *SessionUpdateOne) AppendFilesChanged(v []string) *SessionUpdateOne {
	_u.mutation.AppendFilesChanged(v)
	return _u
}

// ClearFilesChanged clears the value of the "files_changed" field.
func (_u *SessionUpdateOne) ClearFilesChanged() *SessionUpdateOne {
	_u.mutation.ClearFilesChanged()
	return _u
}

// SetMemory sets the "memory" field.
func (_u *SessionUpdateOne) SetMemory(v map[string]interface{}) *SessionUpdateOne {
	_u.mutation.SetMemory(v)
	return _u
}

// ClearMemory clears the value of the "memory" field.
func (_u *SessionUpdateOne) ClearMemory() *SessionUpdateOne {
	_u.mutation.ClearMemory()
	return _u
}

// SetStartedAt sets the "started_at" field.
func (_u *SessionUpdateOne) SetStartedAt(v time.Time) *SessionUpdateOne {
	_u.mutation.SetStartedAt(v)
	return _u
}

// SetNillableStartedAt sets the "started_at" field if the given value is not nil.
func (_u *SessionUpdateOne) SetNillableStartedAt(v *time.Time) *SessionUpdateOne {
	if v != nil {
		_u.SetStartedAt(*v)
	}
	return _u
}

// ClearStartedAt clears the value of the "started_at" field.
func (_u *SessionUpdateOne) ClearStartedAt() *SessionUpdateOne {
	_u.mutation.ClearStartedAt()
	return _u
}

// SetCompletedAt sets the "completed_at" field.
func (_u *SessionUpdateOne) SetCompletedAt(v time.Time) *SessionUpdateOne {
	_u.mutation.SetCompletedAt(v)
	return _u
}

// SetNillableCompletedAt sets the "completed_at" field if the given value is not nil.
func (_u *SessionUpdateOne) SetNillableCompletedAt(v *time.Time) *SessionUpdateOne {
	if v != nil {
		_u.SetCompletedAt(*v)
	}
	return _u
}

// ClearCompletedAt clears the value of the "completed_at" field.
func (_u *SessionUpdateOne) ClearCompletedAt() *SessionUpdateOne {
	_u.mutation.ClearCompletedAt()
	return _u
}

// SetErrorMessage sets the "error_message" field.
func (_u *SessionUpdateOne) SetErrorMessage(v string) *SessionUpdateOne {
	_u.mutation.SetErrorMessage(v)
	return _u
}

// SetNillableErrorMessage sets the "error_message" field if the given value is not nil.
func (_u *SessionUpdateOne) SetNillableErrorMessage(v *string) *SessionUpdateOne {
	if v != nil {
		_u.SetErrorMessage(*v)
	}
	return _u
}

// ClearErrorMessage clears the value of the "error_message" field.
func (_u *SessionUpdateOne) ClearErrorMessage() *SessionUpdateOne {
	_u.mutation.ClearErrorMessage()
	return _u
}

// SetPodID sets the "pod_id" field.
func (_u *SessionUpdateOne) SetPodID(v string) *SessionUpdateOne {
	_u.mutation.SetPodID(v)
	return _u
}

// SetNillablePodID sets the "pod_id" field if the given value is not nil.
func (_u *SessionUpdateOne) SetNillablePodID(v *string) *SessionUpdateOne {
	if v != nil {
		_u.SetPodID(*v)
	}
	return _u
}

// ClearPodID clears the value of the "pod_id" field.
func (_u *SessionUpdateOne) ClearPodID() *SessionUpdateOne {
	_u.mutation.ClearPodID()
	return _u
}

// SetLastInteractionAt sets the "last_interaction_at" field.
func (_u *SessionUpdateOne) SetLastInteractionAt(v time.Time) *SessionUpdateOne {
	_u.mutation.SetLastInteractionAt(v)
	return _u
}

// SetNillableLastInteractionAt sets the "last_interaction_at" field if the given value is not nil.
func (_u *SessionUpdateOne) SetNillableLastInteractionAt(v *time.Time) *SessionUpdateOne {
	if v != nil {
		_u.SetLastInteractionAt(*v)
	}
	return _u
}

// ClearLastInteractionAt clears the value of the "last_interaction_at" field.
func (_u *SessionUpdateOne) ClearLastInteractionAt() *SessionUpdateOne {
	_u.mutation.ClearLastInteractionAt()
	return _u
}

// SetDeletedAt sets the "deleted_at" field.
func (_u *SessionUpdateOne) SetDeletedAt(v time.Time) *SessionUpdateOne {
	_u.mutation.SetDeletedAt(v)
	return _u
}

// SetNillableDeletedAt sets the "deleted_at" field if the given value is not nil.
func (_u *SessionUpdateOne) SetNillableDeletedAt(v *time.Time) *SessionUpdateOne {
	if v != nil {
		_u.SetDeletedAt(*v)
	}
	return _u
}

// ClearDeletedAt clears the value of the "deleted_at" field.
func (_u *SessionUpdateOne) ClearDeletedAt() *SessionUpdateOne {
	_u.mutation.ClearDeletedAt()
	return _u
}

// AddMessageIDs adds the "messages" edge to the Message entity by IDs.
func (_u *SessionUpdateOne) AddMessageIDs(ids ...string) *SessionUpdateOne {
	_u.mutation.AddMessageIDs(ids...)
	return _u
}

// AddMessages adds the "messages" edges to the Message entity.
func (_u *SessionUpdateOne) AddMessages(v ...*Message) *SessionUpdateOne {
	ids := make([]string, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.AddMessageIDs(ids...)
}

// AddCheckpointIDs adds the "checkpoints" edge to the Checkpoint entity by IDs.
func (_u *SessionUpdateOne) AddCheckpointIDs(ids ...string) *SessionUpdateOne {
	_u.mutation.AddCheckpointIDs(ids...)
	return _u
}

// AddCheckpoints adds the "checkpoints" edges to the Checkpoint entity.
func (_u *SessionUpdateOne) AddCheckpoints(v ...*Checkpoint) *SessionUpdateOne {
	ids := make([]string, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.AddCheckpointIDs(ids...)
}

// AddEventIDs adds the "events" edge to the Event entity by IDs.
func (_u *SessionUpdateOne) AddEventIDs(ids ...int) *SessionUpdateOne {
	_u.mutation.AddEventIDs(ids...)
	return _u
}

// AddEvents adds the "events" edges to the Event entity.
func (_u *SessionUpdateOne) AddEvents(v ...*Event) *SessionUpdateOne {
	ids := make([]int, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.AddEventIDs(ids...)
}

// Mutation returns the SessionMutation object of the builder.
func (_u *SessionUpdateOne) Mutation() *SessionMutation {
	return _u.mutation
}

// ClearMessages clears all "messages" edges to the Message entity.
func (_u *SessionUpdateOne) ClearMessages() *SessionUpdateOne {
	_u.mutation.ClearMessages()
	return _u
}

// RemoveMessageIDs removes the "messages" edge to Message entities by IDs.
func (_u *SessionUpdateOne) RemoveMessageIDs(ids ...string) *SessionUpdateOne {
	_u.mutation.RemoveMessageIDs(ids...)
	return _u
}

// RemoveMessages removes "messages" edges to Message entities.
func (_u *SessionUpdateOne) RemoveMessages(v ...*Message) *SessionUpdateOne {
	ids := make([]string, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.RemoveMessageIDs(ids...)
}

// ClearCheckpoints clears all "checkpoints" edges to the Checkpoint entity.
func (_u *SessionUpdateOne) ClearCheckpoints() *SessionUpdateOne {
	_u.mutation.ClearCheckpoints()
	return _u
}

// RemoveCheckpointIDs removes the "checkpoints" edge to Checkpoint entities by IDs.
func (_u *SessionUpdateOne) RemoveCheckpointIDs(ids ...string) *SessionUpdateOne {
	_u.mutation.RemoveCheckpointIDs(ids...)
	return _u
}

// RemoveCheckpoints removes "checkpoints" edges to Checkpoint entities.
func (_u *SessionUpdateOne) RemoveCheckpoints(v ...*Checkpoint) *SessionUpdateOne {
	ids := make([]string, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.RemoveCheckpointIDs(ids...)
}

// ClearEvents clears all "events" edges to the Event entity.
func (_u *SessionUpdateOne) ClearEvents() *SessionUpdateOne {
	_u.mutation.ClearEvents()
	return _u
}

// RemoveEventIDs removes the "events" edge to Event entities by IDs.
func (_u *SessionUpdateOne) RemoveEventIDs(ids ...int) *SessionUpdateOne {
	_u.mutation.RemoveEventIDs(ids...)
	return _u
}

// RemoveEvents removes "events" edges to Event entities.
func (_u *SessionUpdateOne) RemoveEvents(v ...*Event) *SessionUpdateOne {
	ids := make([]int, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.RemoveEventIDs(ids...)
}

// Where appends a list predicates to the SessionUpdate builder.
func (_u *SessionUpdateOne) Where(ps ...predicate.Session) *SessionUpdateOne {
	_u.mutation.Where(ps...)
	return _u
}

// Select allows selecting one or more fields (columns) of the returned entity.
// The default is selecting all fields defined in the entity schema.
func (_u *SessionUpdateOne) Select(field string, fields ...string) *SessionUpdateOne {
	_u.fields = append([]string{field}, fields...)
	return _u
}

// Save executes the query and returns the updated Session entity.
func (_u *SessionUpdateOne) Save(ctx context.Context) (*Session, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *SessionUpdateOne) SaveX(ctx context.Context) *Session {
	node, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return node
}

// Exec executes the query on the entity.
func (_u *SessionUpdateOne) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *SessionUpdateOne) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *SessionUpdateOne) check() error {
	if v, ok := _u.mutation.Status(); ok {
		if err := session.StatusValidator(v); err != nil {
			return &ValidationError{Name: "status", err: fmt.Errorf(`ent: validator failed for field "Session.status": %w`, err)}
		}
	}
	return nil
}

func (_u *SessionUpdateOne) sqlSave(ctx context.Context) (_node *Session, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(session.Table, session.Columns, sqlgraph.NewFieldSpec(session.FieldID, field.TypeString))
	id, ok := _u.mutation.ID()
	if !ok {
		return nil, &ValidationError{Name: "id", err: errors.New(`ent: missing "Session.id" for update`)}
	}
	_spec.Node.ID.Value = id
	if fields := _u.fields; len(fields) > 0 {
		_spec.Node.Columns = make([]string, 0, len(fields))
		_spec.Node.Columns = append(_spec.Node.Columns, session.FieldID)
		for _, f := range fields {
			if !session.ValidColumn(f) {
				return nil, &ValidationError{Name: f, err: fmt.Errorf("ent: invalid field %q for query", f)}
			}
			if f != session.FieldID {
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
	if value, ok := _u.mutation.Task(); ok {
		_spec.SetField(session.FieldTask, field.TypeString, value)
	}
	if value, ok := _u.mutation.Mode(); ok {
		_spec.SetField(session.FieldMode, field.TypeString, value)
	}
	if value, ok := _u.mutation.Model(); ok {
		_spec.SetField(session.FieldModel, field.TypeString, value)
	}
	if value, ok := _u.mutation.Title(); ok {
		_spec.SetField(session.FieldTitle, field.TypeString, value)
	}
	if _u.mutation.TitleCleared() {
		_spec.ClearField(session.FieldTitle, field.TypeString)
	}
	if value, ok := _u.mutation.Status(); ok {
		_spec.SetField(session.FieldStatus, field.TypeEnum, value)
	}
	if value, ok := _u.mutation.Workspace(); ok {
		_spec.SetField(session.FieldWorkspace, field.TypeString, value)
	}
	if value, ok := _u.mutation.AutoApproveCommands(); ok {
		_spec.SetField(session.FieldAutoApproveCommands, field.TypeBool, value)
	}
	if value, ok := _u.mutation.AutoApproveSensitiveEdits(); ok {
		_spec.SetField(session.FieldAutoApproveSensitiveEdits, field.TypeBool, value)
	}
	if value, ok := _u.mutation.SensitiveFilePatterns(); ok {
		_spec.SetField(session.FieldSensitiveFilePatterns, field.TypeJSON, value)
	}
	if value, ok := _u.mutation.AppendedSensitiveFilePatterns(); ok {
		_spec.AddModifier(func(u *sql.UpdateBuilder) {
			sqljson.Append(u, session.FieldSensitiveFilePatterns, value)
		})
	}
	if _u.mutation.SensitiveFilePatternsCleared() {
		_spec.ClearField(session.FieldSensitiveFilePatterns, field.TypeJSON)
	}
	if value, ok := _u.mutation.FilesChanged(); ok {
		_spec.SetField(session.FieldFilesChanged, field.TypeJSON, value)
	}
	if value, ok := _u.mutation.AppendedFilesChanged(); ok {
		_spec.AddModifier(func(u *sql.UpdateBuilder) {
			sqljson.Append(u, session.FieldFilesChanged, value)
		})
	}
	if _u.mutation.FilesChangedCleared() {
		_spec.ClearField(session.FieldFilesChanged, field.TypeJSON)
	}
	if value, ok := _u.mutation.Memory(); ok {
		_spec.SetField(session.FieldMemory, field.TypeJSON, value)
	}
	if _u.mutation.MemoryCleared() {
		_spec.ClearField(session.FieldMemory, field.TypeJSON)
	}
	if value, ok := _u.mutation.StartedAt(); ok {
		_spec.SetField(session.FieldStartedAt, field.TypeTime, value)
	}
	if _u.mutation.StartedAtCleared() {
		_spec.ClearField(session.FieldStartedAt, field.TypeTime)
	}
	if value, ok := _u.mutation.CompletedAt(); ok {
		_spec.SetField(session.FieldCompletedAt, field.TypeTime, value)
	}
	if _u.mutation.CompletedAtCleared() {
		_spec.ClearField(session.FieldCompletedAt, field.TypeTime)
	}
	if value, ok := _u.mutation.ErrorMessage(); ok {
		_spec.SetField(session.FieldErrorMessage, field.TypeString, value)
	}
	if _u.mutation.ErrorMessageCleared() {
		_spec.ClearField(session.FieldErrorMessage, field.TypeString)
	}
	if value, ok := _u.mutation.PodID(); ok {
		_spec.SetField(session.FieldPodID, field.TypeString, value)
	}
	if _u.mutation.PodIDCleared() {
		_spec.ClearField(session.FieldPodID, field.TypeString)
	}
	if value, ok := _u.mutation.LastInteractionAt(); ok {
		_spec.SetField(session.FieldLastInteractionAt, field.TypeTime, value)
	}
	if _u.mutation.LastInteractionAtCleared() {
		_spec.ClearField(session.FieldLastInteractionAt, field.TypeTime)
	}
	if value, ok := _u.mutation.DeletedAt(); ok {
		_spec.SetField(session.FieldDeletedAt, field.TypeTime, value)
	}
	if _u.mutation.DeletedAtCleared() {
		_spec.ClearField(session.FieldDeletedAt, field.TypeTime)
	}
	if _u.mutation.MessagesCleared() {
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
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.RemovedMessagesIDs(); len(nodes) > 0 && !_u.mutation.MessagesCleared() {
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
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.MessagesIDs(); len(nodes) > 0 {
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
		_spec.Edges.Add = append(_spec.Edges.Add, edge)
	}
	if _u.mutation.CheckpointsCleared() {
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
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.RemovedCheckpointsIDs(); len(nodes) > 0 && !_u.mutation.CheckpointsCleared() {
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
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.CheckpointsIDs(); len(nodes) > 0 {
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
		_spec.Edges.Add = append(_spec.Edges.Add, edge)
	}
	if _u.mutation.EventsCleared() {
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
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.RemovedEventsIDs(); len(nodes) > 0 && !_u.mutation.EventsCleared() {
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
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.EventsIDs(); len(nodes) > 0 {
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
		_spec.Edges.Add = append(_spec.Edges.Add, edge)
	}
	_node = &Session{config: _u.config}
	_spec.Assign = _node.assignValues
	_spec.ScanValues = _node.scanValues
	if err = sqlgraph.UpdateNode(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{session.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return nil, err
	}
	_u.mutation.done = true
	return _node, nil
}
