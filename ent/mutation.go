// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql"
	"github.com/kiln-dev/kiln/ent/checkpoint"
	"github.com/kiln-dev/kiln/ent/checkpointfile"
	"github.com/kiln-dev/kiln/ent/event"
	"github.com/kiln-dev/kiln/ent/message"
	"github.com/kiln-dev/kiln/ent/modelrecord"
	"github.com/kiln-dev/kiln/ent/predicate"
	"github.com/kiln-dev/kiln/ent/session"
)

const (
	// Operation types.
	OpCreate    = ent.OpCreate
	OpDelete    = ent.OpDelete
	OpDeleteOne = ent.OpDeleteOne
	OpUpdate    = ent.OpUpdate
	OpUpdateOne = ent.OpUpdateOne

	// Node types.
	TypeCheckpoint     = "Checkpoint"
	TypeCheckpointFile = "CheckpointFile"
	TypeEvent          = "Event"
	TypeMessage        = "Message"
	TypeModelRecord    = "ModelRecord"
	TypeSession        = "Session"
)

// CheckpointMutation represents an operation that mutates the Checkpoint nodes in the graph.
type CheckpointMutation struct {
	config
	op             Op
	typ            string
	id             *string
	created_at     *time.Time
	clearedFields  map[string]struct{}
	session        *string
	clearedsession bool
	files          map[string]struct{}
	removedfiles   map[string]struct{}
	clearedfiles   bool
	done           bool
	oldValue       func(context.Context) (*Checkpoint, error)
	predicates     []predicate.Checkpoint
}

var _ ent.Mutation = (*CheckpointMutation)(nil)

// checkpointOption allows management of the mutation configuration using functional options.
type checkpointOption func(*CheckpointMutation)

// newCheckpointMutation creates new mutation for the Checkpoint entity.
func newCheckpointMutation(c config, op Op, opts ...checkpointOption) *CheckpointMutation {
	m := &CheckpointMutation{
		config:        c,
		op:            op,
		typ:           TypeCheckpoint,
		clearedFields: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// withCheckpointID sets the ID field of the mutation.
func withCheckpointID(id string) checkpointOption {
	return func(m *CheckpointMutation) {
		var (
			err   error
			once  sync.Once
			value *Checkpoint
		)
		m.oldValue = func(ctx context.Context) (*Checkpoint, error) {
			once.Do(func() {
				if m.done {
					err = errors.New("querying old values post mutation is not allowed")
				} else {
					value, err = m.Client().Checkpoint.Get(ctx, id)
				}
			})
			return value, err
		}
		m.id = &id
	}
}

// withCheckpoint sets the old Checkpoint of the mutation.
func withCheckpoint(node *Checkpoint) checkpointOption {
	return func(m *CheckpointMutation) {
		m.oldValue = func(context.Context) (*Checkpoint, error) {
			return node, nil
		}
		m.id = &node.ID
	}
}

// Client returns a new `ent.Client` from the mutation. If the mutation was
// executed in a transaction (ent.Tx), a transactional client is returned.
func (m CheckpointMutation) Client() *Client {
	client := &Client{config: m.config}
	client.init()
	return client
}

// Tx returns an `ent.Tx` for mutations that were executed in transactions;
// it returns an error otherwise.
func (m CheckpointMutation) Tx() (*Tx, error) {
	if _, ok := m.driver.(*txDriver); !ok {
		return nil, errors.New("ent: mutation is not running in a transaction")
	}
	tx := &Tx{config: m.config}
	tx.init()
	return tx, nil
}

// SetID sets the value of the id field. Note that this
// operation is only accepted on creation of Checkpoint entities.
func (m *CheckpointMutation) SetID(id string) {
	m.id = &id
}

// ID returns the ID value in the mutation. Note that the ID is only available
// if it was provided to the builder or after it was returned from the database.
func (m *CheckpointMutation) ID() (id string, exists bool) {
	if m.id == nil {
		return
	}
	return *m.id, true
}

// IDs queries the database and returns the entity ids that match the mutation's predicate.
// That means, if the mutation is applied within a transaction with an isolation level such
// as sql.LevelSerializable, the returned ids match the ids of the rows that will be updated
// or updated by the mutation.
func (m *CheckpointMutation) IDs(ctx context.Context) ([]string, error) {
	switch {
	case m.op.Is(OpUpdateOne | OpDeleteOne):
		id, exists := m.ID()
		if exists {
			return []string{id}, nil
		}
		fallthrough
	case m.op.Is(OpUpdate | OpDelete):
		return m.Client().Checkpoint.Query().Where(m.predicates...).IDs(ctx)
	default:
		return nil, fmt.Errorf("IDs is not allowed on %s operations", m.op)
	}
}

// SetSessionID sets the "session_id" field.
func (m *CheckpointMutation) SetSessionID(s string) {
	m.session = &s
}

// SessionID returns the value of the "session_id" field in the mutation.
func (m *CheckpointMutation) SessionID() (r string, exists bool) {
	v := m.session
	if v == nil {
		return
	}
	return *v, true
}

// OldSessionID returns the old "session_id" field's value of the Checkpoint entity.
// If the Checkpoint object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *CheckpointMutation) OldSessionID(ctx context.Context) (v string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldSessionID is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldSessionID requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldSessionID: %w", err)
	}
	return oldValue.SessionID, nil
}

// ResetSessionID resets all changes to the "session_id" field.
func (m *CheckpointMutation) ResetSessionID() {
	m.session = nil
}

// SetCreatedAt sets the "created_at" field.
func (m *CheckpointMutation) SetCreatedAt(t time.Time) {
	m.created_at = &t
}

// CreatedAt returns the value of the "created_at" field in the mutation.
func (m *CheckpointMutation) CreatedAt() (r time.Time, exists bool) {
	v := m.created_at
	if v == nil {
		return
	}
	return *v, true
}

// OldCreatedAt returns the old "created_at" field's value of the Checkpoint entity.
// If the Checkpoint object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *CheckpointMutation) OldCreatedAt(ctx context.Context) (v time.Time, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldCreatedAt is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldCreatedAt requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldCreatedAt: %w", err)
	}
	return oldValue.CreatedAt, nil
}

// ResetCreatedAt resets all changes to the "created_at" field.
func (m *CheckpointMutation) ResetCreatedAt() {
	m.created_at = nil
}

// ClearSession clears the "session" edge to the Session entity.
func (m *CheckpointMutation) ClearSession() {
	m.clearedsession = true
	m.clearedFields[checkpoint.FieldSessionID] = struct{}{}
}

// SessionCleared reports if the "session" edge to the Session entity was cleared.
func (m *CheckpointMutation) SessionCleared() bool {
	return m.clearedsession
}

// SessionIDs returns the "session" edge IDs in the mutation.
// Note that IDs always returns len(IDs) <= 1 for unique edges, and you should use
// SessionID instead. It exists only for internal usage by the builders.
func (m *CheckpointMutation) SessionIDs() (ids []string) {
	if id := m.session; id != nil {
		ids = append(ids, *id)
	}
	return
}

// ResetSession resets all changes to the "session" edge.
func (m *CheckpointMutation) ResetSession() {
	m.session = nil
	m.clearedsession = false
}

// AddFileIDs adds the "files" edge to the CheckpointFile entity by ids.
func (m *CheckpointMutation) AddFileIDs(ids ...string) {
	if m.files == nil {
		m.files = make(map[string]struct{})
	}
	for i := range ids {
		m.files[ids[i]] = struct{}{}
	}
}

// ClearFiles clears the "files" edge to the CheckpointFile entity.
func (m *CheckpointMutation) ClearFiles() {
	m.clearedfiles = true
}

// FilesCleared reports if the "files" edge to the CheckpointFile entity was cleared.
func (m *CheckpointMutation) FilesCleared() bool {
	return m.clearedfiles
}

// RemoveFileIDs removes the "files" edge to the CheckpointFile entity by IDs.
func (m *CheckpointMutation) RemoveFileIDs(ids ...string) {
	if m.removedfiles == nil {
		m.removedfiles = make(map[string]struct{})
	}
	for i := range ids {
		delete(m.files, ids[i])
		m.removedfiles[ids[i]] = struct{}{}
	}
}

// RemovedFiles returns the removed IDs of the "files" edge to the CheckpointFile entity.
func (m *CheckpointMutation) RemovedFilesIDs() (ids []string) {
	for id := range m.removedfiles {
		ids = append(ids, id)
	}
	return
}

// FilesIDs returns the "files" edge IDs in the mutation.
func (m *CheckpointMutation) FilesIDs() (ids []string) {
	for id := range m.files {
		ids = append(ids, id)
	}
	return
}

// ResetFiles resets all changes to the "files" edge.
func (m *CheckpointMutation) ResetFiles() {
	m.files = nil
	m.clearedfiles = false
	m.removedfiles = nil
}

// Where appends a list predicates to the CheckpointMutation builder.
func (m *CheckpointMutation) Where(ps ...predicate.Checkpoint) {
	m.predicates = append(m.predicates, ps...)
}

// WhereP appends storage-level predicates to the CheckpointMutation builder. Using this method,
// users can use type-assertion to append predicates that do not depend on any generated package.
func (m *CheckpointMutation) WhereP(ps ...func(*sql.Selector)) {
	p := make([]predicate.Checkpoint, len(ps))
	for i := range ps {
		p[i] = ps[i]
	}
	m.Where(p...)
}

// Op returns the operation name.
func (m *CheckpointMutation) Op() Op {
	return m.op
}

// SetOp allows setting the mutation operation.
func (m *CheckpointMutation) SetOp(op Op) {
	m.op = op
}

// Type returns the node type of this mutation (Checkpoint).
func (m *CheckpointMutation) Type() string {
	return m.typ
}

// Fields returns all fields that were changed during this mutation. Note that in
// order to get all numeric fields that were incremented/decremented, call
// AddedFields().
func (m *CheckpointMutation) Fields() []string {
	fields := make([]string, 0, 2)
	if m.session != nil {
		fields = append(fields, checkpoint.FieldSessionID)
	}
	if m.created_at != nil {
		fields = append(fields, checkpoint.FieldCreatedAt)
	}
	return fields
}

// Field returns the value of a field with the given name. The second boolean
// return value indicates that this field was not set, or was not defined in the
// schema.
func (m *CheckpointMutation) Field(name string) (ent.Value, bool) {
	switch name {
	case checkpoint.FieldSessionID:
		return m.SessionID()
	case checkpoint.FieldCreatedAt:
		return m.CreatedAt()
	}
	return nil, false
}

// OldField returns the old value of the field from the database. An error is
// returned if the mutation operation is not UpdateOne, or the query to the
// database failed.
func (m *CheckpointMutation) OldField(ctx context.Context, name string) (ent.Value, error) {
	switch name {
	case checkpoint.FieldSessionID:
		return m.OldSessionID(ctx)
	case checkpoint.FieldCreatedAt:
		return m.OldCreatedAt(ctx)
	}
	return nil, fmt.Errorf("unknown Checkpoint field %s", name)
}

// SetField sets the value of a field with the given name. It returns an error if
// the field is not defined in the schema, or if the type mismatched the field
// type.
func (m *CheckpointMutation) SetField(name string, value ent.Value) error {
	switch name {
	case checkpoint.FieldSessionID:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetSessionID(v)
		return nil
	case checkpoint.FieldCreatedAt:
		v, ok := value.(time.Time)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetCreatedAt(v)
		return nil
	}
	return fmt.Errorf("unknown Checkpoint field %s", name)
}

// AddedFields returns all numeric fields that were incremented/decremented during
// this mutation.
func (m *CheckpointMutation) AddedFields() []string {
	return nil
}

// AddedField returns the numeric value that was incremented/decremented on a field
// with the given name. The second boolean return value indicates that this field
// was not set, or was not defined in the schema.
func (m *CheckpointMutation) AddedField(name string) (ent.Value, bool) {
	return nil, false
}

// AddField adds the value to the field with the given name. It returns an error if
// the field is not defined in the schema, or if the type mismatched the field
// type.
func (m *CheckpointMutation) AddField(name string, value ent.Value) error {
	switch name {
	}
	return fmt.Errorf("unknown Checkpoint numeric field %s", name)
}

// ClearedFields returns all nullable fields that were cleared during this
// mutation.
func (m *CheckpointMutation) ClearedFields() []string {
	return nil
}

// FieldCleared returns a boolean indicating if a field with the given name was
// cleared in this mutation.
func (m *CheckpointMutation) FieldCleared(name string) bool {
	_, ok := m.clearedFields[name]
	return ok
}

// ClearField clears the value of the field with the given name. It returns an
// error if the field is not defined in the schema.
func (m *CheckpointMutation) ClearField(name string) error {
	return fmt.Errorf("unknown Checkpoint nullable field %s", name)
}

// ResetField resets all changes in the mutation for the field with the given name.
// It returns an error if the field is not defined in the schema.
func (m *CheckpointMutation) ResetField(name string) error {
	switch name {
	case checkpoint.FieldSessionID:
		m.ResetSessionID()
		return nil
	case checkpoint.FieldCreatedAt:
		m.ResetCreatedAt()
		return nil
	}
	return fmt.Errorf("unknown Checkpoint field %s", name)
}

// AddedEdges returns all edge names that were set/added in this mutation.
func (m *CheckpointMutation) AddedEdges() []string {
	edges := make([]string, 0, 2)
	if m.session != nil {
		edges = append(edges, checkpoint.EdgeSession)
	}
	if m.files != nil {
		edges = append(edges, checkpoint.EdgeFiles)
	}
	return edges
}

// AddedIDs returns all IDs (to other nodes) that were added for the given edge
// name in this mutation.
func (m *CheckpointMutation) AddedIDs(name string) []ent.Value {
	switch name {
	case checkpoint.EdgeSession:
		if id := m.session; id != nil {
			return []ent.Value{*id}
		}
	case checkpoint.EdgeFiles:
		ids := make([]ent.Value, 0, len(m.files))
		for id := range m.files {
			ids = append(ids, id)
		}
		return ids
	}
	return nil
}

// RemovedEdges returns all edge names that were removed in this mutation.
func (m *CheckpointMutation) RemovedEdges() []string {
	edges := make([]string, 0, 2)
	if m.removedfiles != nil {
		edges = append(edges, checkpoint.EdgeFiles)
	}
	return edges
}

// RemovedIDs returns all IDs (to other nodes) that were removed for the edge with
// the given name in this mutation.
func (m *CheckpointMutation) RemovedIDs(name string) []ent.Value {
	switch name {
	case checkpoint.EdgeFiles:
		ids := make([]ent.Value, 0, len(m.removedfiles))
		for id := range m.removedfiles {
			ids = append(ids, id)
		}
		return ids
	}
	return nil
}

// ClearedEdges returns all edge names that were cleared in this mutation.
func (m *CheckpointMutation) ClearedEdges() []string {
	edges := make([]string, 0, 2)
	if m.clearedsession {
		edges = append(edges, checkpoint.EdgeSession)
	}
	if m.clearedfiles {
		edges = append(edges, checkpoint.EdgeFiles)
	}
	return edges
}

// EdgeCleared returns a boolean which indicates if the edge with the given name
// was cleared in this mutation.
func (m *CheckpointMutation) EdgeCleared(name string) bool {
	switch name {
	case checkpoint.EdgeSession:
		return m.clearedsession
	case checkpoint.EdgeFiles:
		return m.clearedfiles
	}
	return false
}

// ClearEdge clears the value of the edge with the given name. It returns an error
// if that edge is not defined in the schema.
func (m *CheckpointMutation) ClearEdge(name string) error {
	switch name {
	case checkpoint.EdgeSession:
		m.ClearSession()
		return nil
	}
	return fmt.Errorf("unknown Checkpoint unique edge %s", name)
}

// ResetEdge resets all changes to the edge with the given name in this mutation.
// It returns an error if the edge is not defined in the schema.
func (m *CheckpointMutation) ResetEdge(name string) error {
	switch name {
	case checkpoint.EdgeSession:
		m.ResetSession()
		return nil
	case checkpoint.EdgeFiles:
		m.ResetFiles()
		return nil
	}
	return fmt.Errorf("unknown Checkpoint edge %s", name)
}

// CheckpointFileMutation represents an operation that mutates the CheckpointFile nodes in the graph.
type CheckpointFileMutation struct {
	config
	op                Op
	typ               string
	id                *string
	_path             *string
	original_content  *string
	action            *checkpointfile.Action
	created_at        *time.Time
	clearedFields     map[string]struct{}
	checkpoint        *string
	clearedcheckpoint bool
	done              bool
	oldValue          func(context.Context) (*CheckpointFile, error)
	predicates        []predicate.CheckpointFile
}

var _ ent.Mutation = (*CheckpointFileMutation)(nil)

// checkpointfileOption allows management of the mutation configuration using functional options.
type checkpointfileOption func(*CheckpointFileMutation)

// newCheckpointFileMutation creates new mutation for the CheckpointFile entity.
func newCheckpointFileMutation(c config, op Op, opts ...checkpointfileOption) *CheckpointFileMutation {
	m := &CheckpointFileMutation{
		config:        c,
		op:            op,
		typ:           TypeCheckpointFile,
		clearedFields: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// withCheckpointFileID sets the ID field of the mutation.
func withCheckpointFileID(id string) checkpointfileOption {
	return func(m *CheckpointFileMutation) {
		var (
			err   error
			once  sync.Once
			value *CheckpointFile
		)
		m.oldValue = func(ctx context.Context) (*CheckpointFile, error) {
			once.Do(func() {
				if m.done {
					err = errors.New("querying old values post mutation is not allowed")
				} else {
					value, err = m.Client().CheckpointFile.Get(ctx, id)
				}
			})
			return value, err
		}
		m.id = &id
	}
}

// withCheckpointFile sets the old CheckpointFile of the mutation.
func withCheckpointFile(node *CheckpointFile) checkpointfileOption {
	return func(m *CheckpointFileMutation) {
		m.oldValue = func(context.Context) (*CheckpointFile, error) {
			return node, nil
		}
		m.id = &node.ID
	}
}

// Client returns a new `ent.Client` from the mutation. If the mutation was
// executed in a transaction (ent.Tx), a transactional client is returned.
func (m CheckpointFileMutation) Client() *Client {
	client := &Client{config: m.config}
	client.init()
	return client
}

// Tx returns an `ent.Tx` for mutations that were executed in transactions;
// it returns an error otherwise.
func (m CheckpointFileMutation) Tx() (*Tx, error) {
	if _, ok := m.driver.(*txDriver); !ok {
		return nil, errors.New("ent: mutation is not running in a transaction")
	}
	tx := &Tx{config: m.config}
	tx.init()
	return tx, nil
}

// SetID sets the value of the id field. Note that this
// operation is only accepted on creation of CheckpointFile entities.
func (m *CheckpointFileMutation) SetID(id string) {
	m.id = &id
}

// ID returns the ID value in the mutation. Note that the ID is only available
// if it was provided to the builder or after it was returned from the database.
func (m *CheckpointFileMutation) ID() (id string, exists bool) {
	if m.id == nil {
		return
	}
	return *m.id, true
}

// IDs queries the database and returns the entity ids that match the mutation's predicate.
// That means, if the mutation is applied within a transaction with an isolation level such
// as sql.LevelSerializable, the returned ids match the ids of the rows that will be updated
// or updated by the mutation.
func (m *CheckpointFileMutation) IDs(ctx context.Context) ([]string, error) {
	switch {
	case m.op.Is(OpUpdateOne | OpDeleteOne):
		id, exists := m.ID()
		if exists {
			return []string{id}, nil
		}
		fallthrough
	case m.op.Is(OpUpdate | OpDelete):
		return m.Client().CheckpointFile.Query().Where(m.predicates...).IDs(ctx)
	default:
		return nil, fmt.Errorf("IDs is not allowed on %s operations", m.op)
	}
}

// SetCheckpointID sets the "checkpoint_id" field.
func (m *CheckpointFileMutation) SetCheckpointID(s string) {
	m.checkpoint = &s
}

// CheckpointID returns the value of the "checkpoint_id" field in the mutation.
func (m *CheckpointFileMutation) CheckpointID() (r string, exists bool) {
	v := m.checkpoint
	if v == nil {
		return
	}
	return *v, true
}

// OldCheckpointID returns the old "checkpoint_id" field's value of the CheckpointFile entity.
// If the CheckpointFile object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *CheckpointFileMutation) OldCheckpointID(ctx context.Context) (v string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldCheckpointID is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldCheckpointID requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldCheckpointID: %w", err)
	}
	return oldValue.CheckpointID, nil
}

// ResetCheckpointID resets all changes to the "checkpoint_id" field.
func (m *CheckpointFileMutation) ResetCheckpointID() {
	m.checkpoint = nil
}

// SetPath sets the "path" field.
func (m *CheckpointFileMutation) SetPath(s string) {
	m._path = &s
}

// Path returns the value of the "path" field in the mutation.
func (m *CheckpointFileMutation) Path() (r string, exists bool) {
	v := m._path
	if v == nil {
		return
	}
	return *v, true
}

// OldPath returns the old "path" field's value of the CheckpointFile entity.
// If the CheckpointFile object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *CheckpointFileMutation) OldPath(ctx context.Context) (v string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldPath is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldPath requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldPath: %w", err)
	}
	return oldValue.Path, nil
}

// ResetPath resets all changes to the "path" field.
func (m *CheckpointFileMutation) ResetPath() {
	m._path = nil
}

// SetOriginalContent sets the "original_content" field.
func (m *CheckpointFileMutation) SetOriginalContent(s string) {
	m.original_content = &s
}

// OriginalContent returns the value of the "original_content" field in the mutation.
func (m *CheckpointFileMutation) OriginalContent() (r string, exists bool) {
	v := m.original_content
	if v == nil {
		return
	}
	return *v, true
}

// OldOriginalContent returns the old "original_content" field's value of the CheckpointFile entity.
// If the CheckpointFile object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *CheckpointFileMutation) OldOriginalContent(ctx context.Context) (v *string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldOriginalContent is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldOriginalContent requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldOriginalContent: %w", err)
	}
	return oldValue.OriginalContent, nil
}

// ClearOriginalContent clears the value of the "original_content" field.
func (m *CheckpointFileMutation) ClearOriginalContent() {
	m.original_content = nil
	m.clearedFields[checkpointfile.FieldOriginalContent] = struct{}{}
}

// OriginalContentCleared returns if the "original_content" field was cleared in this mutation.
func (m *CheckpointFileMutation) OriginalContentCleared() bool {
	_, ok := m.clearedFields[checkpointfile.FieldOriginalContent]
	return ok
}

// ResetOriginalContent resets all changes to the "original_content" field.
func (m *CheckpointFileMutation) ResetOriginalContent() {
	m.original_content = nil
	delete(m.clearedFields, checkpointfile.FieldOriginalContent)
}

// SetAction sets the "action" field.
func (m *CheckpointFileMutation) SetAction(c checkpointfile.Action) {
	m.action = &c
}

// Action returns the value of the "action" field in the mutation.
func (m *CheckpointFileMutation) Action() (r checkpointfile.Action, exists bool) {
	v := m.action
	if v == nil {
		return
	}
	return *v, true
}

// OldAction returns the old "action" field's value of the CheckpointFile entity.
// If the CheckpointFile object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *CheckpointFileMutation) OldAction(ctx context.Context) (v checkpointfile.Action, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldAction is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldAction requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldAction: %w", err)
	}
	return oldValue.Action, nil
}

// ResetAction resets all changes to the "action" field.
func (m *CheckpointFileMutation) ResetAction() {
	m.action = nil
}

// SetCreatedAt sets the "created_at" field.
func (m *CheckpointFileMutation) SetCreatedAt(t time.Time) {
	m.created_at = &t
}

// CreatedAt returns the value of the "created_at" field in the mutation.
func (m *CheckpointFileMutation) CreatedAt() (r time.Time, exists bool) {
	v := m.created_at
	if v == nil {
		return
	}
	return *v, true
}

// OldCreatedAt returns the old "created_at" field's value of the CheckpointFile entity.
// If the CheckpointFile object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *CheckpointFileMutation) OldCreatedAt(ctx context.Context) (v time.Time, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldCreatedAt is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldCreatedAt requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldCreatedAt: %w", err)
	}
	return oldValue.CreatedAt, nil
}

// ResetCreatedAt resets all changes to the "created_at" field.
func (m *CheckpointFileMutation) ResetCreatedAt() {
	m.created_at = nil
}

// ClearCheckpoint clears the "checkpoint" edge to the Checkpoint entity.
func (m *CheckpointFileMutation) ClearCheckpoint() {
	m.clearedcheckpoint = true
	m.clearedFields[checkpointfile.FieldCheckpointID] = struct{}{}
}

// CheckpointCleared reports if the "checkpoint" edge to the Checkpoint entity was cleared.
func (m *CheckpointFileMutation) CheckpointCleared() bool {
	return m.clearedcheckpoint
}

// CheckpointIDs returns the "checkpoint" edge IDs in the mutation.
// Note that IDs always returns len(IDs) <= 1 for unique edges, and you should use
// CheckpointID instead. It exists only for internal usage by the builders.
func (m *CheckpointFileMutation) CheckpointIDs() (ids []string) {
	if id := m.checkpoint; id != nil {
		ids = append(ids, *id)
	}
	return
}

// ResetCheckpoint resets all changes to the "checkpoint" edge.
func (m *CheckpointFileMutation) ResetCheckpoint() {
	m.checkpoint = nil
	m.clearedcheckpoint = false
}

// Where appends a list predicates to the CheckpointFileMutation builder.
func (m *CheckpointFileMutation) Where(ps ...predicate.CheckpointFile) {
	m.predicates = append(m.predicates, ps...)
}

// WhereP appends storage-level predicates to the CheckpointFileMutation builder. Using this method,
// users can use type-assertion to append predicates that do not depend on any generated package.
func (m *CheckpointFileMutation) WhereP(ps ...func(*sql.Selector)) {
	p := make([]predicate.CheckpointFile, len(ps))
	for i := range ps {
		p[i] = ps[i]
	}
	m.Where(p...)
}

// Op returns the operation name.
func (m *CheckpointFileMutation) Op() Op {
	return m.op
}

// SetOp allows setting the mutation operation.
func (m *CheckpointFileMutation) SetOp(op Op) {
	m.op = op
}

// Type returns the node type of this mutation (CheckpointFile).
func (m *CheckpointFileMutation) Type() string {
	return m.typ
}

// Fields returns all fields that were changed during this mutation. Note that in
// order to get all numeric fields that were incremented/decremented, call
// AddedFields().
func (m *CheckpointFileMutation) Fields() []string {
	fields := make([]string, 0, 5)
	if m.checkpoint != nil {
		fields = append(fields, checkpointfile.FieldCheckpointID)
	}
	if m._path != nil {
		fields = append(fields, checkpointfile.FieldPath)
	}
	if m.original_content != nil {
		fields = append(fields, checkpointfile.FieldOriginalContent)
	}
	if m.action != nil {
		fields = append(fields, checkpointfile.FieldAction)
	}
	if m.created_at != nil {
		fields = append(fields, checkpointfile.FieldCreatedAt)
	}
	return fields
}

// Field returns the value of a field with the given name. The second boolean
// return value indicates that this field was not set, or was not defined in the
// schema.
func (m *CheckpointFileMutation) Field(name string) (ent.Value, bool) {
	switch name {
	case checkpointfile.FieldCheckpointID:
		return m.CheckpointID()
	case checkpointfile.FieldPath:
		return m.Path()
	case checkpointfile.FieldOriginalContent:
		return m.OriginalContent()
	case checkpointfile.FieldAction:
		return m.Action()
	case checkpointfile.FieldCreatedAt:
		return m.CreatedAt()
	}
	return nil, false
}

// OldField returns the old value of the field from the database. An error is
// returned if the mutation operation is not UpdateOne, or the query to the
// database failed.
func (m *CheckpointFileMutation) OldField(ctx context.Context, name string) (ent.Value, error) {
	switch name {
	case checkpointfile.FieldCheckpointID:
		return m.OldCheckpointID(ctx)
	case checkpointfile.FieldPath:
		return m.OldPath(ctx)
	case checkpointfile.FieldOriginalContent:
		return m.OldOriginalContent(ctx)
	case checkpointfile.FieldAction:
		return m.OldAction(ctx)
	case checkpointfile.FieldCreatedAt:
		return m.OldCreatedAt(ctx)
	}
	return nil, fmt.Errorf("unknown CheckpointFile field %s", name)
}

// SetField sets the value of a field with the given name. It returns an error if
// the field is not defined in the schema, or if the type mismatched the field
// type.
func (m *CheckpointFileMutation) SetField(name string, value ent.Value) error {
	switch name {
	case checkpointfile.FieldCheckpointID:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetCheckpointID(v)
		return nil
	case checkpointfile.FieldPath:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetPath(v)
		return nil
	case checkpointfile.FieldOriginalContent:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetOriginalContent(v)
		return nil
	case checkpointfile.FieldAction:
		v, ok := value.(checkpointfile.Action)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetAction(v)
		return nil
	case checkpointfile.FieldCreatedAt:
		v, ok := value.(time.Time)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetCreatedAt(v)
		return nil
	}
	return fmt.Errorf("unknown CheckpointFile field %s", name)
}

// AddedFields returns all numeric fields that were incremented/decremented during
// this mutation.
func (m *CheckpointFileMutation) AddedFields() []string {
	return nil
}

// AddedField returns the numeric value that was incremented/decremented on a field
// with the given name. The second boolean return value indicates that this field
// was not set, or was not defined in the schema.
func (m *CheckpointFileMutation) AddedField(name string) (ent.Value, bool) {
	return nil, false
}

// AddField adds the value to the field with the given name. It returns an error if
// the field is not defined in the schema, or if the type mismatched the field
// type.
func (m *CheckpointFileMutation) AddField(name string, value ent.Value) error {
	switch name {
	}
	return fmt.Errorf("unknown CheckpointFile numeric field %s", name)
}

// ClearedFields returns all nullable fields that were cleared during this
// mutation.
func (m *CheckpointFileMutation) ClearedFields() []string {
	var fields []string
	if m.FieldCleared(checkpointfile.FieldOriginalContent) {
		fields = append(fields, checkpointfile.FieldOriginalContent)
	}
	return fields
}

// FieldCleared returns a boolean indicating if a field with the given name was
// cleared in this mutation.
func (m *CheckpointFileMutation) FieldCleared(name string) bool {
	_, ok := m.clearedFields[name]
	return ok
}

// ClearField clears the value of the field with the given name. It returns an
// error if the field is not defined in the schema.
func (m *CheckpointFileMutation) ClearField(name string) error {
	switch name {
	case checkpointfile.FieldOriginalContent:
		m.ClearOriginalContent()
		return nil
	}
	return fmt.Errorf("unknown CheckpointFile nullable field %s", name)
}

// ResetField resets all changes in the mutation for the field with the given name.
// It returns an error if the field is not defined in the schema.
func (m *CheckpointFileMutation) ResetField(name string) error {
	switch name {
	case checkpointfile.FieldCheckpointID:
		m.ResetCheckpointID()
		return nil
	case checkpointfile.FieldPath:
		m.ResetPath()
		return nil
	case checkpointfile.FieldOriginalContent:
		m.ResetOriginalContent()
		return nil
	case checkpointfile.FieldAction:
		m.ResetAction()
		return nil
	case checkpointfile.FieldCreatedAt:
		m.ResetCreatedAt()
		return nil
	}
	return fmt.Errorf("unknown CheckpointFile field %s", name)
}

// AddedEdges returns all edge names that were set/added in this mutation.
func (m *CheckpointFileMutation) AddedEdges() []string {
	edges := make([]string, 0, 1)
	if m.checkpoint != nil {
		edges = append(edges, checkpointfile.EdgeCheckpoint)
	}
	return edges
}

// AddedIDs returns all IDs (to other nodes) that were added for the given edge
// name in this mutation.
func (m *CheckpointFileMutation) AddedIDs(name string) []ent.Value {
	switch name {
	case checkpointfile.EdgeCheckpoint:
		if id := m.checkpoint; id != nil {
			return []ent.Value{*id}
		}
	}
	return nil
}

// RemovedEdges returns all edge names that were removed in this mutation.
func (m *CheckpointFileMutation) RemovedEdges() []string {
	edges := make([]string, 0, 1)
	return edges
}

// RemovedIDs returns all IDs (to other nodes) that were removed for the edge with
// the given name in this mutation.
func (m *CheckpointFileMutation) RemovedIDs(name string) []ent.Value {
	return nil
}

// ClearedEdges returns all edge names that were cleared in this mutation.
func (m *CheckpointFileMutation) ClearedEdges() []string {
	edges := make([]string, 0, 1)
	if m.clearedcheckpoint {
		edges = append(edges, checkpointfile.EdgeCheckpoint)
	}
	return edges
}

// EdgeCleared returns a boolean which indicates if the edge with the given name
// was cleared in this mutation.
func (m *CheckpointFileMutation) EdgeCleared(name string) bool {
	switch name {
	case checkpointfile.EdgeCheckpoint:
		return m.clearedcheckpoint
	}
	return false
}

// ClearEdge clears the value of the edge with the given name. It returns an error
// if that edge is not defined in the schema.
func (m *CheckpointFileMutation) ClearEdge(name string) error {
	switch name {
	case checkpointfile.EdgeCheckpoint:
		m.ClearCheckpoint()
		return nil
	}
	return fmt.Errorf("unknown CheckpointFile unique edge %s", name)
}

// ResetEdge resets all changes to the edge with the given name in this mutation.
// It returns an error if the edge is not defined in the schema.
func (m *CheckpointFileMutation) ResetEdge(name string) error {
	switch name {
	case checkpointfile.EdgeCheckpoint:
		m.ResetCheckpoint()
		return nil
	}
	return fmt.Errorf("unknown CheckpointFile edge %s", name)
}

// EventMutation represents an operation that mutates the Event nodes in the graph.
type EventMutation struct {
	config
	op             Op
	typ            string
	id             *int
	channel        *string
	payload        *json.RawMessage
	appendpayload  json.RawMessage
	created_at     *time.Time
	clearedFields  map[string]struct{}
	session        *string
	clearedsession bool
	done           bool
	oldValue       func(context.Context) (*Event, error)
	predicates     []predicate.Event
}

var _ ent.Mutation = (*EventMutation)(nil)

// eventOption allows management of the mutation configuration using functional options.
type eventOption func(*EventMutation)

// newEventMutation creates new mutation for the Event entity.
func newEventMutation(c config, op Op, opts ...eventOption) *EventMutation {
	m := &EventMutation{
		config:        c,
		op:            op,
		typ:           TypeEvent,
		clearedFields: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// withEventID sets the ID field of the mutation.
func withEventID(id int) eventOption {
	return func(m *EventMutation) {
		var (
			err   error
			once  sync.Once
			value *Event
		)
		m.oldValue = func(ctx context.Context) (*Event, error) {
			once.Do(func() {
				if m.done {
					err = errors.New("querying old values post mutation is not allowed")
				} else {
					value, err = m.Client().Event.Get(ctx, id)
				}
			})
			return value, err
		}
		m.id = &id
	}
}

// withEvent sets the old Event of the mutation.
func withEvent(node *Event) eventOption {
	return func(m *EventMutation) {
		m.oldValue = func(context.Context) (*Event, error) {
			return node, nil
		}
		m.id = &node.ID
	}
}

// Client returns a new `ent.Client` from the mutation. If the mutation was
// executed in a transaction (ent.Tx), a transactional client is returned.
func (m EventMutation) Client() *Client {
	client := &Client{config: m.config}
	client.init()
	return client
}

// Tx returns an `ent.Tx` for mutations that were executed in transactions;
// it returns an error otherwise.
func (m EventMutation) Tx() (*Tx, error) {
	if _, ok := m.driver.(*txDriver); !ok {
		return nil, errors.New("ent: mutation is not running in a transaction")
	}
	tx := &Tx{config: m.config}
	tx.init()
	return tx, nil
}

// ID returns the ID value in the mutation. Note that the ID is only available
// if it was provided to the builder or after it was returned from the database.
func (m *EventMutation) ID() (id int, exists bool) {
	if m.id == nil {
		return
	}
	return *m.id, true
}

// IDs queries the database and returns the entity ids that match the mutation's predicate.
// That means, if the mutation is applied within a transaction with an isolation level such
// as sql.LevelSerializable, the returned ids match the ids of the rows that will be updated
// or updated by the mutation.
func (m *EventMutation) IDs(ctx context.Context) ([]int, error) {
	switch {
	case m.op.Is(OpUpdateOne | OpDeleteOne):
		id, exists := m.ID()
		if exists {
			return []int{id}, nil
		}
		fallthrough
	case m.op.Is(OpUpdate | OpDelete):
		return m.Client().Event.Query().Where(m.predicates...).IDs(ctx)
	default:
		return nil, fmt.Errorf("IDs is not allowed on %s operations", m.op)
	}
}

// SetSessionID sets the "session_id" field.
func (m *EventMutation) SetSessionID(s string) {
	m.session = &s
}

// SessionID returns the value of the "session_id" field in the mutation.
func (m *EventMutation) SessionID() (r string, exists bool) {
	v := m.session
	if v == nil {
		return
	}
	return *v, true
}

// OldSessionID returns the old "session_id" field's value of the Event entity.
// If the Event object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *EventMutation) OldSessionID(ctx context.Context) (v string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldSessionID is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldSessionID requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldSessionID: %w", err)
	}
	return oldValue.SessionID, nil
}

// ResetSessionID resets all changes to the "session_id" field.
func (m *EventMutation) ResetSessionID() {
	m.session = nil
}

// SetChannel sets the "channel" field.
func (m *EventMutation) SetChannel(s string) {
	m.channel = &s
}

// Channel returns the value of the "channel" field in the mutation.
func (m *EventMutation) Channel() (r string, exists bool) {
	v := m.channel
	if v == nil {
		return
	}
	return *v, true
}

// OldChannel returns the old "channel" field's value of the Event entity.
// If the Event object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *EventMutation) OldChannel(ctx context.Context) (v string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldChannel is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldChannel requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldChannel: %w", err)
	}
	return oldValue.Channel, nil
}

// ResetChannel resets all changes to the "channel" field.
func (m *EventMutation) ResetChannel() {
	m.channel = nil
}

// SetPayload sets the "payload" field.
func (m *EventMutation) SetPayload(jm json.RawMessage) {
	m.payload = &jm
	m.appendpayload = nil
}

// Payload returns the value of the "payload" field in the mutation.
func (m *EventMutation) Payload() (r json.RawMessage, exists bool) {
	v := m.payload
	if v == nil {
		return
	}
	return *v, true
}

// OldPayload returns the old "payload" field's value of the Event entity.
// If the Event object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *EventMutation) OldPayload(ctx context.Context) (v json.RawMessage, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldPayload is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldPayload requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldPayload: %w", err)
	}
	return oldValue.Payload, nil
}

// AppendPayload adds jm to the "payload" field.
func (m *EventMutation) AppendPayload(jm json.RawMessage) {
	m.appendpayload = append(m.appendpayload, jm...)
}

// AppendedPayload returns the list of values that were appended to the "payload" field in this mutation.
func (m *EventMutation) AppendedPayload() (json.RawMessage, bool) {
	if len(m.appendpayload) == 0 {
		return nil, false
	}
	return m.appendpayload, true
}

// ResetPayload resets all changes to the "payload" field.
func (m *EventMutation) ResetPayload() {
	m.payload = nil
	m.appendpayload = nil
}

// SetCreatedAt sets the "created_at" field.
func (m *EventMutation) SetCreatedAt(t time.Time) {
	m.created_at = &t
}

// CreatedAt returns the value of the "created_at" field in the mutation.
func (m *EventMutation) CreatedAt() (r time.Time, exists bool) {
	v := m.created_at
	if v == nil {
		return
	}
	return *v, true
}

// OldCreatedAt returns the old "created_at" field's value of the Event entity.
// If the Event object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *EventMutation) OldCreatedAt(ctx context.Context) (v time.Time, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldCreatedAt is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldCreatedAt requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldCreatedAt: %w", err)
	}
	return oldValue.CreatedAt, nil
}

// ResetCreatedAt resets all changes to the "created_at" field.
func (m *EventMutation) ResetCreatedAt() {
	m.created_at = nil
}

// ClearSession clears the "session" edge to the Session entity.
func (m *EventMutation) ClearSession() {
	m.clearedsession = true
	m.clearedFields[event.FieldSessionID] = struct{}{}
}

// SessionCleared reports if the "session" edge to the Session entity was cleared.
func (m *EventMutation) SessionCleared() bool {
	return m.clearedsession
}

// SessionIDs returns the "session" edge IDs in the mutation.
// Note that IDs always returns len(IDs) <= 1 for unique edges, and you should use
// SessionID instead. It exists only for internal usage by the builders.
func (m *EventMutation) SessionIDs() (ids []string) {
	if id := m.session; id != nil {
		ids = append(ids, *id)
	}
	return
}

// ResetSession resets all changes to the "session" edge.
func (m *EventMutation) ResetSession() {
	m.session = nil
	m.clearedsession = false
}

// Where appends a list predicates to the EventMutation builder.
func (m *EventMutation) Where(ps ...predicate.Event) {
	m.predicates = append(m.predicates, ps...)
}

// WhereP appends storage-level predicates to the EventMutation builder. Using this method,
// users can use type-assertion to append predicates that do not depend on any generated package.
func (m *EventMutation) WhereP(ps ...func(*sql.Selector)) {
	p := make([]predicate.Event, len(ps))
	for i := range ps {
		p[i] = ps[i]
	}
	m.Where(p...)
}

// Op returns the operation name.
func (m *EventMutation) Op() Op {
	return m.op
}

// SetOp allows setting the mutation operation.
func (m *EventMutation) SetOp(op Op) {
	m.op = op
}

// Type returns the node type of this mutation (Event).
func (m *EventMutation) Type() string {
	return m.typ
}

// Fields returns all fields that were changed during this mutation. Note that in
// order to get all numeric fields that were incremented/decremented, call
// AddedFields().
func (m *EventMutation) Fields() []string {
	fields := make([]string, 0, 4)
	if m.session != nil {
		fields = append(fields, event.FieldSessionID)
	}
	if m.channel != nil {
		fields = append(fields, event.FieldChannel)
	}
	if m.payload != nil {
		fields = append(fields, event.FieldPayload)
	}
	if m.created_at != nil {
		fields = append(fields, event.FieldCreatedAt)
	}
	return fields
}

// Field returns the value of a field with the given name. The second boolean
// return value indicates that this field was not set, or was not defined in the
// schema.
func (m *EventMutation) Field(name string) (ent.Value, bool) {
	switch name {
	case event.FieldSessionID:
		return m.SessionID()
	case event.FieldChannel:
		return m.Channel()
	case event.FieldPayload:
		return m.Payload()
	case event.FieldCreatedAt:
		return m.CreatedAt()
	}
	return nil, false
}

// OldField returns the old value of the field from the database. An error is
// returned if the mutation operation is not UpdateOne, or the query to the
// database failed.
func (m *EventMutation) OldField(ctx context.Context, name string) (ent.Value, error) {
	switch name {
	case event.FieldSessionID:
		return m.OldSessionID(ctx)
	case event.FieldChannel:
		return m.OldChannel(ctx)
	case event.FieldPayload:
		return m.OldPayload(ctx)
	case event.FieldCreatedAt:
		return m.OldCreatedAt(ctx)
	}
	return nil, fmt.Errorf("unknown Event field %s", name)
}

// SetField sets the value of a field with the given name. It returns an error if
// the field is not defined in the schema, or if the type mismatched the field
// type.
func (m *EventMutation) SetField(name string, value ent.Value) error {
	switch name {
	case event.FieldSessionID:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetSessionID(v)
		return nil
	case event.FieldChannel:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetChannel(v)
		return nil
	case event.FieldPayload:
		v, ok := value.(json.RawMessage)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetPayload(v)
		return nil
	case event.FieldCreatedAt:
		v, ok := value.(time.Time)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetCreatedAt(v)
		return nil
	}
	return fmt.Errorf("unknown Event field %s", name)
}

// AddedFields returns all numeric fields that were incremented/decremented during
// this mutation.
func (m *EventMutation) AddedFields() []string {
	return nil
}

// AddedField returns the numeric value that was incremented/decremented on a field
// with the given name. The second boolean return value indicates that this field
// was not set, or was not defined in the schema.
func (m *EventMutation) AddedField(name string) (ent.Value, bool) {
	return nil, false
}

// AddField adds the value to the field with the given name. It returns an error if
// the field is not defined in the schema, or if the type mismatched the field
// type.
func (m *EventMutation) AddField(name string, value ent.Value) error {
	switch name {
	}
	return fmt.Errorf("unknown Event numeric field %s", name)
}

// ClearedFields returns all nullable fields that were cleared during this
// mutation.
func (m *EventMutation) ClearedFields() []string {
	return nil
}

// FieldCleared returns a boolean indicating if a field with the given name was
// cleared in this mutation.
func (m *EventMutation) FieldCleared(name string) bool {
	_, ok := m.clearedFields[name]
	return ok
}

// ClearField clears the value of the field with the given name. It returns an
// error if the field is not defined in the schema.
func (m *EventMutation) ClearField(name string) error {
	return fmt.Errorf("unknown Event nullable field %s", name)
}

// ResetField resets all changes in the mutation for the field with the given name.
// It returns an error if the field is not defined in the schema.
func (m *EventMutation) ResetField(name string) error {
	switch name {
	case event.FieldSessionID:
		m.ResetSessionID()
		return nil
	case event.FieldChannel:
		m.ResetChannel()
		return nil
	case event.FieldPayload:
		m.ResetPayload()
		return nil
	case event.FieldCreatedAt:
		m.ResetCreatedAt()
		return nil
	}
	return fmt.Errorf("unknown Event field %s", name)
}

// AddedEdges returns all edge names that were set/added in this mutation.
func (m *EventMutation) AddedEdges() []string {
	edges := make([]string, 0, 1)
	if m.session != nil {
		edges = append(edges, event.EdgeSession)
	}
	return edges
}

// AddedIDs returns all IDs (to other nodes) that were added for the given edge
// name in this mutation.
func (m *EventMutation) AddedIDs(name string) []ent.Value {
	switch name {
	case event.EdgeSession:
		if id := m.session; id != nil {
			return []ent.Value{*id}
		}
	}
	return nil
}

// RemovedEdges returns all edge names that were removed in this mutation.
func (m *EventMutation) RemovedEdges() []string {
	edges := make([]string, 0, 1)
	return edges
}

// RemovedIDs returns all IDs (to other nodes) that were removed for the edge with
// the given name in this mutation.
func (m *EventMutation) RemovedIDs(name string) []ent.Value {
	return nil
}

// ClearedEdges returns all edge names that were cleared in this mutation.
func (m *EventMutation) ClearedEdges() []string {
	edges := make([]string, 0, 1)
	if m.clearedsession {
		edges = append(edges, event.EdgeSession)
	}
	return edges
}

// EdgeCleared returns a boolean which indicates if the edge with the given name
// was cleared in this mutation.
func (m *EventMutation) EdgeCleared(name string) bool {
	switch name {
	case event.EdgeSession:
		return m.clearedsession
	}
	return false
}

// ClearEdge clears the value of the edge with the given name. It returns an error
// if that edge is not defined in the schema.
func (m *EventMutation) ClearEdge(name string) error {
	switch name {
	case event.EdgeSession:
		m.ClearSession()
		return nil
	}
	return fmt.Errorf("unknown Event unique edge %s", name)
}

// ResetEdge resets all changes to the edge with the given name in this mutation.
// It returns an error if the edge is not defined in the schema.
func (m *EventMutation) ResetEdge(name string) error {
	switch name {
	case event.EdgeSession:
		m.ResetSession()
		return nil
	}
	return fmt.Errorf("unknown Event edge %s", name)
}

// MessageMutation represents an operation that mutates the Message nodes in the graph.
type MessageMutation struct {
	config
	op                 Op
	typ                string
	id                 *string
	sequence_number    *int
	addsequence_number *int
	role               *message.Role
	content            *string
	model              *string
	tool_name          *string
	tool_call_id       *string
	tool_calls         *[]map[string]interface{}
	appendtool_calls   []map[string]interface{}
	tool_input         *string
	tool_output        *string
	progress_title     *string
	created_at         *time.Time
	clearedFields      map[string]struct{}
	session            *string
	clearedsession     bool
	done               bool
	oldValue           func(context.Context) (*Message, error)
	predicates         []predicate.Message
}

var _ ent.Mutation = (*MessageMutation)(nil)

// messageOption allows management of the mutation configuration using functional options.
type messageOption func(*MessageMutation)

// newMessageMutation creates new mutation for the Message entity.
func newMessageMutation(c config, op Op, opts ...messageOption) *MessageMutation {
	m := &MessageMutation{
		config:        c,
		op:            op,
		typ:           TypeMessage,
		clearedFields: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// withMessageID sets the ID field of the mutation.
func withMessageID(id string) messageOption {
	return func(m *MessageMutation) {
		var (
			err   error
			once  sync.Once
			value *Message
		)
		m.oldValue = func(ctx context.Context) (*Message, error) {
			once.Do(func() {
				if m.done {
					err = errors.New("querying old values post mutation is not allowed")
				} else {
					value, err = m.Client().Message.Get(ctx, id)
				}
			})
			return value, err
		}
		m.id = &id
	}
}

// withMessage sets the old Message of the mutation.
func withMessage(node *Message) messageOption {
	return func(m *MessageMutation) {
		m.oldValue = func(context.Context) (*Message, error) {
			return node, nil
		}
		m.id = &node.ID
	}
}

// Client returns a new `ent.Client` from the mutation. If the mutation was
// executed in a transaction (ent.Tx), a transactional client is returned.
func (m MessageMutation) Client() *Client {
	client := &Client{config: m.config}
	client.init()
	return client
}

// Tx returns an `ent.Tx` for mutations that were executed in transactions;
// it returns an error otherwise.
func (m MessageMutation) Tx() (*Tx, error) {
	if _, ok := m.driver.(*txDriver); !ok {
		return nil, errors.New("ent: mutation is not running in a transaction")
	}
	tx := &Tx{config: m.config}
	tx.init()
	return tx, nil
}

// SetID sets the value of the id field. Note that this
// operation is only accepted on creation of Message entities.
func (m *MessageMutation) SetID(id string) {
	m.id = &id
}

// ID returns the ID value in the mutation. Note that the ID is only available
// if it was provided to the builder or after it was returned from the database.
func (m *MessageMutation) ID() (id string, exists bool) {
	if m.id == nil {
		return
	}
	return *m.id, true
}

// IDs queries the database and returns the entity ids that match the mutation's predicate.
// That means, if the mutation is applied within a transaction with an isolation level such
// as sql.LevelSerializable, the returned ids match the ids of the rows that will be updated
// or updated by the mutation.
func (m *MessageMutation) IDs(ctx context.Context) ([]string, error) {
	switch {
	case m.op.Is(OpUpdateOne | OpDeleteOne):
		id, exists := m.ID()
		if exists {
			return []string{id}, nil
		}
		fallthrough
	case m.op.Is(OpUpdate | OpDelete):
		return m.Client().Message.Query().Where(m.predicates...).IDs(ctx)
	default:
		return nil, fmt.Errorf("IDs is not allowed on %s operations", m.op)
	}
}

// SetSessionID sets the "session_id" field.
func (m *MessageMutation) SetSessionID(s string) {
	m.session = &s
}

// SessionID returns the value of the "session_id" field in the mutation.
func (m *MessageMutation) SessionID() (r string, exists bool) {
	v := m.session
	if v == nil {
		return
	}
	return *v, true
}

// OldSessionID returns the old "session_id" field's value of the Message entity.
// If the Message object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *MessageMutation) OldSessionID(ctx context.Context) (v string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldSessionID is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldSessionID requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldSessionID: %w", err)
	}
	return oldValue.SessionID, nil
}

// ResetSessionID resets all changes to the "session_id" field.
func (m *MessageMutation) ResetSessionID() {
	m.session = nil
}

// SetSequenceNumber sets the "sequence_number" field.
func (m *MessageMutation) SetSequenceNumber(i int) {
	m.sequence_number = &i
	m.addsequence_number = nil
}

// SequenceNumber returns the value of the "sequence_number" field in the mutation.
func (m *MessageMutation) SequenceNumber() (r int, exists bool) {
	v := m.sequence_number
	if v == nil {
		return
	}
	return *v, true
}

// OldSequenceNumber returns the old "sequence_number" field's value of the Message entity.
// If the Message object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *MessageMutation) OldSequenceNumber(ctx context.Context) (v int, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldSequenceNumber is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldSequenceNumber requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldSequenceNumber: %w", err)
	}
	return oldValue.SequenceNumber, nil
}

// AddSequenceNumber adds i to the "sequence_number" field.
func (m *MessageMutation) AddSequenceNumber(i int) {
	if m.addsequence_number != nil {
		*m.addsequence_number += i
	} else {
		m.addsequence_number = &i
	}
}

// AddedSequenceNumber returns the value that was added to the "sequence_number" field in this mutation.
func (m *MessageMutation) AddedSequenceNumber() (r int, exists bool) {
	v := m.addsequence_number
	if v == nil {
		return
	}
	return *v, true
}

// ResetSequenceNumber resets all changes to the "sequence_number" field.
func (m *MessageMutation) ResetSequenceNumber() {
	m.sequence_number = nil
	m.addsequence_number = nil
}

// SetRole sets the "role" field.
func (m *MessageMutation) SetRole(value message.Role) {
	m.role = &value
}

// Role returns the value of the "role" field in the mutation.
func (m *MessageMutation) Role() (r message.Role, exists bool) {
	v := m.role
	if v == nil {
		return
	}
	return *v, true
}

// OldRole returns the old "role" field's value of the Message entity.
// If the Message object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *MessageMutation) OldRole(ctx context.Context) (v message.Role, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldRole is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldRole requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldRole: %w", err)
	}
	return oldValue.Role, nil
}

// ResetRole resets all changes to the "role" field.
func (m *MessageMutation) ResetRole() {
	m.role = nil
}

// SetContent sets the "content" field.
func (m *MessageMutation) SetContent(s string) {
	m.content = &s
}

// Content returns the value of the "content" field in the mutation.
func (m *MessageMutation) Content() (r string, exists bool) {
	v := m.content
	if v == nil {
		return
	}
	return *v, true
}

// OldContent returns the old "content" field's value of the Message entity.
// If the Message object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *MessageMutation) OldContent(ctx context.Context) (v string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldContent is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldContent requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldContent: %w", err)
	}
	return oldValue.Content, nil
}

// ResetContent resets all changes to the "content" field.
func (m *MessageMutation) ResetContent() {
	m.content = nil
}

// SetModel sets the "model" field.
func (m *MessageMutation) SetModel(s string) {
	m.model = &s
}

// Model returns the value of the "model" field in the mutation.
func (m *MessageMutation) Model() (r string, exists bool) {
	v := m.model
	if v == nil {
		return
	}
	return *v, true
}

// OldModel returns the old "model" field's value of the Message entity.
// If the Message object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *MessageMutation) OldModel(ctx context.Context) (v *string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldModel is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldModel requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldModel: %w", err)
	}
	return oldValue.Model, nil
}

// ClearModel clears the value of the "model" field.
func (m *MessageMutation) ClearModel() {
	m.model = nil
	m.clearedFields[message.FieldModel] = struct{}{}
}

// ModelCleared returns if the "model" field was cleared in this mutation.
func (m *MessageMutation) ModelCleared() bool {
	_, ok := m.clearedFields[message.FieldModel]
	return ok
}

// ResetModel resets all changes to the "model" field.
func (m *MessageMutation) ResetModel() {
	m.model = nil
	delete(m.clearedFields, message.FieldModel)
}

// SetToolName sets the "tool_name" field.
func (m *MessageMutation) SetToolName(s string) {
	m.tool_name = &s
}

// ToolName returns the value of the "tool_name" field in the mutation.
func (m *MessageMutation) ToolName() (r string, exists bool) {
	v := m.tool_name
	if v == nil {
		return
	}
	return *v, true
}

// OldToolName returns the old "tool_name" field's value of the Message entity.
// If the Message object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *MessageMutation) OldToolName(ctx context.Context) (v *string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldToolName is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldToolName requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldToolName: %w", err)
	}
	return oldValue.ToolName, nil
}

// ClearToolName clears the value of the "tool_name" field.
func (m *MessageMutation) ClearToolName() {
	m.tool_name = nil
	m.clearedFields[message.FieldToolName] = struct{}{}
}

// ToolNameCleared returns if the "tool_name" field was cleared in this mutation.
func (m *MessageMutation) ToolNameCleared() bool {
	_, ok := m.clearedFields[message.FieldToolName]
	return ok
}

// ResetToolName resets all changes to the "tool_name" field.
func (m *MessageMutation) ResetToolName() {
	m.tool_name = nil
	delete(m.clearedFields, message.FieldToolName)
}

// SetToolCallID sets the "tool_call_id" field.
func (m *MessageMutation) SetToolCallID(s string) {
	m.tool_call_id = &s
}

// ToolCallID returns the value of the "tool_call_id" field in the mutation.
func (m *MessageMutation) ToolCallID() (r string, exists bool) {
	v := m.tool_call_id
	if v == nil {
		return
	}
	return *v, true
}

// OldToolCallID returns the old "tool_call_id" field's value of the Message entity.
// If the Message object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *MessageMutation) OldToolCallID(ctx context.Context) (v *string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldToolCallID is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldToolCallID requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldToolCallID: %w", err)
	}
	return oldValue.ToolCallID, nil
}

// ClearToolCallID clears the value of the "tool_call_id" field.
func (m *MessageMutation) ClearToolCallID() {
	m.tool_call_id = nil
	m.clearedFields[message.FieldToolCallID] = struct{}{}
}

// ToolCallIDCleared returns if the "tool_call_id" field was cleared in this mutation.
func (m *MessageMutation) ToolCallIDCleared() bool {
	_, ok := m.clearedFields[message.FieldToolCallID]
	return ok
}

// ResetToolCallID resets all changes to the "tool_call_id" field.
func (m *MessageMutation) ResetToolCallID() {
	m.tool_call_id = nil
	delete(m.clearedFields, message.FieldToolCallID)
}

// SetToolCalls sets the "tool_calls" field.
func (m *MessageMutation) SetToolCalls(value []map[string]interface{}) {
	m.tool_calls = &value
	m.appendtool_calls = nil
}

// ToolCalls returns the value of the "tool_calls" field in the mutation.
func (m *MessageMutation) ToolCalls() (r []map[string]interface{}, exists bool) {
	v := m.tool_calls
	if v == nil {
		return
	}
	return *v, true
}

// OldToolCalls returns the old "tool_calls" field's value of the Message entity.
// If the Message object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *MessageMutation) OldToolCalls(ctx context.Context) (v []map[string]interface{}, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldToolCalls is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldToolCalls requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldToolCalls: %w", err)
	}
	return oldValue.ToolCalls, nil
}

// AppendToolCalls adds value to the "tool_calls" field.
func (m *MessageMutation) AppendToolCalls(value []map[string]interface{}) {
	m.appendtool_calls = append(m.appendtool_calls, value...)
}

// AppendedToolCalls returns the list of values that were appended to the "tool_calls" field in this mutation.
func (m *MessageMutation) AppendedToolCalls() ([]map[string]interface{}, bool) {
	if len(m.appendtool_calls) == 0 {
		return nil, false
	}
	return m.appendtool_calls, true
}

// ClearToolCalls clears the value of the "tool_calls" field.
func (m *MessageMutation) ClearToolCalls() {
	m.tool_calls = nil
	m.appendtool_calls = nil
	m.clearedFields[message.FieldToolCalls] = struct{}{}
}

// ToolCallsCleared returns if the "tool_calls" field was cleared in this mutation.
func (m *MessageMutation) ToolCallsCleared() bool {
	_, ok := m.clearedFields[message.FieldToolCalls]
	return ok
}

// ResetToolCalls resets all changes to the "tool_calls" field.
func (m *MessageMutation) ResetToolCalls() {
	m.tool_calls = nil
	m.appendtool_calls = nil
	delete(m.clearedFields, message.FieldToolCalls)
}

// SetToolInput sets the "tool_input" field.
func (m *MessageMutation) SetToolInput(s string) {
	m.tool_input = &s
}

// ToolInput returns the value of the "tool_input" field in the mutation.
func (m *MessageMutation) ToolInput() (r string, exists bool) {
	v := m.tool_input
	if v == nil {
		return
	}
	return *v, true
}

// OldToolInput returns the old "tool_input" field's value of the Message entity.
// If the Message object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *MessageMutation) OldToolInput(ctx context.Context) (v *string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldToolInput is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldToolInput requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldToolInput: %w", err)
	}
	return oldValue.ToolInput, nil
}

// ClearToolInput clears the value of the "tool_input" field.
func (m *MessageMutation) ClearToolInput() {
	m.tool_input = nil
	m.clearedFields[message.FieldToolInput] = struct{}{}
}

// ToolInputCleared returns if the "tool_input" field was cleared in this mutation.
func (m *MessageMutation) ToolInputCleared() bool {
	_, ok := m.clearedFields[message.FieldToolInput]
	return ok
}

// ResetToolInput resets all changes to the "tool_input" field.
func (m *MessageMutation) ResetToolInput() {
	m.tool_input = nil
	delete(m.clearedFields, message.FieldToolInput)
}

// SetToolOutput sets the "tool_output" field.
func (m *MessageMutation) SetToolOutput(s string) {
	m.tool_output = &s
}

// ToolOutput returns the value of the "tool_output" field in the mutation.
func (m *MessageMutation) ToolOutput() (r string, exists bool) {
	v := m.tool_output
	if v == nil {
		return
	}
	return *v, true
}

// OldToolOutput returns the old "tool_output" field's value of the Message entity.
// If the Message object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *MessageMutation) OldToolOutput(ctx context.Context) (v *string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldToolOutput is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldToolOutput requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldToolOutput: %w", err)
	}
	return oldValue.ToolOutput, nil
}

// ClearToolOutput clears the value of the "tool_output" field.
func (m *MessageMutation) ClearToolOutput() {
	m.tool_output = nil
	m.clearedFields[message.FieldToolOutput] = struct{}{}
}

// ToolOutputCleared returns if the "tool_output" field was cleared in this mutation.
func (m *MessageMutation) ToolOutputCleared() bool {
	_, ok := m.clearedFields[message.FieldToolOutput]
	return ok
}

// ResetToolOutput resets all changes to the "tool_output" field.
func (m *MessageMutation) ResetToolOutput() {
	m.tool_output = nil
	delete(m.clearedFields, message.FieldToolOutput)
}

// SetProgressTitle sets the "progress_title" field.
func (m *MessageMutation) SetProgressTitle(s string) {
	m.progress_title = &s
}

// ProgressTitle returns the value of the "progress_title" field in the mutation.
func (m *MessageMutation) ProgressTitle() (r string, exists bool) {
	v := m.progress_title
	if v == nil {
		return
	}
	return *v, true
}

// OldProgressTitle returns the old "progress_title" field's value of the Message entity.
// If the Message object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *MessageMutation) OldProgressTitle(ctx context.Context) (v *string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldProgressTitle is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldProgressTitle requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldProgressTitle: %w", err)
	}
	return oldValue.ProgressTitle, nil
}

// ClearProgressTitle clears the value of the "progress_title" field.
func (m *MessageMutation) ClearProgressTitle() {
	m.progress_title = nil
	m.clearedFields[message.FieldProgressTitle] = struct{}{}
}

// ProgressTitleCleared returns if the "progress_title" field was cleared in this mutation.
func (m *MessageMutation) ProgressTitleCleared() bool {
	_, ok := m.clearedFields[message.FieldProgressTitle]
	return ok
}

// ResetProgressTitle resets all changes to the "progress_title" field.
func (m *MessageMutation) ResetProgressTitle() {
	m.progress_title = nil
	delete(m.clearedFields, message.FieldProgressTitle)
}

// SetCreatedAt sets the "created_at" field.
func (m *MessageMutation) SetCreatedAt(t time.Time) {
	m.created_at = &t
}

// CreatedAt returns the value of the "created_at" field in the mutation.
func (m *MessageMutation) CreatedAt() (r time.Time, exists bool) {
	v := m.created_at
	if v == nil {
		return
	}
	return *v, true
}

// OldCreatedAt returns the old "created_at" field's value of the Message entity.
// If the Message object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *MessageMutation) OldCreatedAt(ctx context.Context) (v time.Time, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldCreatedAt is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldCreatedAt requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldCreatedAt: %w", err)
	}
	return oldValue.CreatedAt, nil
}

// ResetCreatedAt resets all changes to the "created_at" field.
func (m *MessageMutation) ResetCreatedAt() {
	m.created_at = nil
}

// ClearSession clears the "session" edge to the Session entity.
func (m *MessageMutation) ClearSession() {
	m.clearedsession = true
	m.clearedFields[message.FieldSessionID] = struct{}{}
}

// SessionCleared reports if the "session" edge to the Session entity was cleared.
func (m *MessageMutation) SessionCleared() bool {
	return m.clearedsession
}

// SessionIDs returns the "session" edge IDs in the mutation.
// Note that IDs always returns len(IDs) <= 1 for unique edges, and you should use
// SessionID instead. It exists only for internal usage by the builders.
func (m *MessageMutation) SessionIDs() (ids []string) {
	if id := m.session; id != nil {
		ids = append(ids, *id)
	}
	return
}

// ResetSession resets all changes to the "session" edge.
func (m *MessageMutation) ResetSession() {
	m.session = nil
	m.clearedsession = false
}

// Where appends a list predicates to the MessageMutation builder.
func (m *MessageMutation) Where(ps ...predicate.Message) {
	m.predicates = append(m.predicates, ps...)
}

// WhereP appends storage-level predicates to the MessageMutation builder. Using this method,
// users can use type-assertion to append predicates that do not depend on any generated package.
func (m *MessageMutation) WhereP(ps ...func(*sql.Selector)) {
	p := make([]predicate.Message, len(ps))
	for i := range ps {
		p[i] = ps[i]
	}
	m.Where(p...)
}

// Op returns the operation name.
func (m *MessageMutation) Op() Op {
	return m.op
}

// SetOp allows setting the mutation operation.
func (m *MessageMutation) SetOp(op Op) {
	m.op = op
}

// Type returns the node type of this mutation (Message).
func (m *MessageMutation) Type() string {
	return m.typ
}

// Fields returns all fields that were changed during this mutation. Note that in
// order to get all numeric fields that were incremented/decremented, call
// AddedFields().
func (m *MessageMutation) Fields() []string {
	fields := make([]string, 0, 12)
	if m.session != nil {
		fields = append(fields, message.FieldSessionID)
	}
	if m.sequence_number != nil {
		fields = append(fields, message.FieldSequenceNumber)
	}
	if m.role != nil {
		fields = append(fields, message.FieldRole)
	}
	if m.content != nil {
		fields = append(fields, message.FieldContent)
	}
	if m.model != nil {
		fields = append(fields, message.FieldModel)
	}
	if m.tool_name != nil {
		fields = append(fields, message.FieldToolName)
	}
	if m.tool_call_id != nil {
		fields = append(fields, message.FieldToolCallID)
	}
	if m.tool_calls != nil {
		fields = append(fields, message.FieldToolCalls)
	}
	if m.tool_input != nil {
		fields = append(fields, message.FieldToolInput)
	}
	if m.tool_output != nil {
		fields = append(fields, message.FieldToolOutput)
	}
	if m.progress_title != nil {
		fields = append(fields, message.FieldProgressTitle)
	}
	if m.created_at != nil {
		fields = append(fields, message.FieldCreatedAt)
	}
	return fields
}

// Field returns the value of a field with the given name. The second boolean
// return value indicates that this field was not set, or was not defined in the
// schema.
func (m *MessageMutation) Field(name string) (ent.Value, bool) {
	switch name {
	case message.FieldSessionID:
		return m.SessionID()
	case message.FieldSequenceNumber:
		return m.SequenceNumber()
	case message.FieldRole:
		return m.Role()
	case message.FieldContent:
		return m.Content()
	case message.FieldModel:
		return m.Model()
	case message.FieldToolName:
		return m.ToolName()
	case message.FieldToolCallID:
		return m.ToolCallID()
	case message.FieldToolCalls:
		return m.ToolCalls()
	case message.FieldToolInput:
		return m.ToolInput()
	case message.FieldToolOutput:
		return m.ToolOutput()
	case message.FieldProgressTitle:
		return m.ProgressTitle()
	case message.FieldCreatedAt:
		return m.CreatedAt()
	}
	return nil, false
}

// OldField returns the old value of the field from the database. An error is
// returned if the mutation operation is not UpdateOne, or the query to the
// database failed.
func (m *MessageMutation) OldField(ctx context.Context, name string) (ent.Value, error) {
	switch name {
	case message.FieldSessionID:
		return m.OldSessionID(ctx)
	case message.FieldSequenceNumber:
		return m.OldSequenceNumber(ctx)
	case message.FieldRole:
		return m.OldRole(ctx)
	case message.FieldContent:
		return m.OldContent(ctx)
	case message.FieldModel:
		return m.OldModel(ctx)
	case message.FieldToolName:
		return m.OldToolName(ctx)
	case message.FieldToolCallID:
		return m.OldToolCallID(ctx)
	case message.FieldToolCalls:
		return m.OldToolCalls(ctx)
	case message.FieldToolInput:
		return m.OldToolInput(ctx)
	case message.FieldToolOutput:
		return m.OldToolOutput(ctx)
	case message.FieldProgressTitle:
		return m.OldProgressTitle(ctx)
	case message.FieldCreatedAt:
		return m.OldCreatedAt(ctx)
	}
	return nil, fmt.Errorf("unknown Message field %s", name)
}

// SetField sets the value of a field with the given name. It returns an error if
// the field is not defined in the schema, or if the type mismatched the field
// type.
func (m *MessageMutation) SetField(name string, value ent.Value) error {
	switch name {
	case message.FieldSessionID:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetSessionID(v)
		return nil
	case message.FieldSequenceNumber:
		v, ok := value.(int)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetSequenceNumber(v)
		return nil
	case message.FieldRole:
		v, ok := value.(message.Role)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetRole(v)
		return nil
	case message.FieldContent:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetContent(v)
		return nil
	case message.FieldModel:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetModel(v)
		return nil
	case message.FieldToolName:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetToolName(v)
		return nil
	case message.FieldToolCallID:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetToolCallID(v)
		return nil
	case message.FieldToolCalls:
		v, ok := value.([]map[string]interface{})
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetToolCalls(v)
		return nil
	case message.FieldToolInput:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetToolInput(v)
		return nil
	case message.FieldToolOutput:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetToolOutput(v)
		return nil
	case message.FieldProgressTitle:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetProgressTitle(v)
		return nil
	case message.FieldCreatedAt:
		v, ok := value.(time.Time)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetCreatedAt(v)
		return nil
	}
	return fmt.Errorf("unknown Message field %s", name)
}

// AddedFields returns all numeric fields that were incremented/decremented during
// this mutation.
func (m *MessageMutation) AddedFields() []string {
	var fields []string
	if m.addsequence_number != nil {
		fields = append(fields, message.FieldSequenceNumber)
	}
	return fields
}

// AddedField returns the numeric value that was incremented/decremented on a field
// with the given name. The second boolean return value indicates that this field
// was not set, or was not defined in the schema.
func (m *MessageMutation) AddedField(name string) (ent.Value, bool) {
	switch name {
	case message.FieldSequenceNumber:
		return m.AddedSequenceNumber()
	}
	return nil, false
}

// AddField adds the value to the field with the given name. It returns an error if
// the field is not defined in the schema, or if the type mismatched the field
// type.
func (m *MessageMutation) AddField(name string, value ent.Value) error {
	switch name {
	case message.FieldSequenceNumber:
		v, ok := value.(int)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.AddSequenceNumber(v)
		return nil
	}
	return fmt.Errorf("unknown Message numeric field %s", name)
}

// ClearedFields returns all nullable fields that were cleared during this
// mutation.
func (m *MessageMutation) ClearedFields() []string {
	var fields []string
	if m.FieldCleared(message.FieldModel) {
		fields = append(fields, message.FieldModel)
	}
	if m.FieldCleared(message.FieldToolName) {
		fields = append(fields, message.FieldToolName)
	}
	if m.FieldCleared(message.FieldToolCallID) {
		fields = append(fields, message.FieldToolCallID)
	}
	if m.FieldCleared(message.FieldToolCalls) {
		fields = append(fields, message.FieldToolCalls)
	}
	if m.FieldCleared(message.FieldToolInput) {
		fields = append(fields, message.FieldToolInput)
	}
	if m.FieldCleared(message.FieldToolOutput) {
		fields = append(fields, message.FieldToolOutput)
	}
	if m.FieldCleared(message.FieldProgressTitle) {
		fields = append(fields, message.FieldProgressTitle)
	}
	return fields
}

// FieldCleared returns a boolean indicating if a field with the given name was
// cleared in this mutation.
func (m *MessageMutation) FieldCleared(name string) bool {
	_, ok := m.clearedFields[name]
	return ok
}

// ClearField clears the value of the field with the given name. It returns an
// error if the field is not defined in the schema.
func (m *MessageMutation) ClearField(name string) error {
	switch name {
	case message.FieldModel:
		m.ClearModel()
		return nil
	case message.FieldToolName:
		m.ClearToolName()
		return nil
	case message.FieldToolCallID:
		m.ClearToolCallID()
		return nil
	case message.FieldToolCalls:
		m.ClearToolCalls()
		return nil
	case message.FieldToolInput:
		m.ClearToolInput()
		return nil
	case message.FieldToolOutput:
		m.ClearToolOutput()
		return nil
	case message.FieldProgressTitle:
		m.ClearProgressTitle()
		return nil
	}
	return fmt.Errorf("unknown Message nullable field %s", name)
}

// ResetField resets all changes in the mutation for the field with the given name.
// It returns an error if the field is not defined in the schema.
func (m *MessageMutation) ResetField(name string) error {
	switch name {
	case message.FieldSessionID:
		m.ResetSessionID()
		return nil
	case message.FieldSequenceNumber:
		m.ResetSequenceNumber()
		return nil
	case message.FieldRole:
		m.ResetRole()
		return nil
	case message.FieldContent:
		m.ResetContent()
		return nil
	case message.FieldModel:
		m.ResetModel()
		return nil
	case message.FieldToolName:
		m.ResetToolName()
		return nil
	case message.FieldToolCallID:
		m.ResetToolCallID()
		return nil
	case message.FieldToolCalls:
		m.ResetToolCalls()
		return nil
	case message.FieldToolInput:
		m.ResetToolInput()
		return nil
	case message.FieldToolOutput:
		m.ResetToolOutput()
		return nil
	case message.FieldProgressTitle:
		m.ResetProgressTitle()
		return nil
	case message.FieldCreatedAt:
		m.ResetCreatedAt()
		return nil
	}
	return fmt.Errorf("unknown Message field %s", name)
}

// AddedEdges returns all edge names that were set/added in this mutation.
func (m *MessageMutation) AddedEdges() []string {
	edges := make([]string, 0, 1)
	if m.session != nil {
		edges = append(edges, message.EdgeSession)
	}
	return edges
}

// AddedIDs returns all IDs (to other nodes) that were added for the given edge
// name in this mutation.
func (m *MessageMutation) AddedIDs(name string) []ent.Value {
	switch name {
	case message.EdgeSession:
		if id := m.session; id != nil {
			return []ent.Value{*id}
		}
	}
	return nil
}

// RemovedEdges returns all edge names that were removed in this mutation.
func (m *MessageMutation) RemovedEdges() []string {
	edges := make([]string, 0, 1)
	return edges
}

// RemovedIDs returns all IDs (to other nodes) that were removed for the edge with
// the given name in this mutation.
func (m *MessageMutation) RemovedIDs(name string) []ent.Value {
	return nil
}

// ClearedEdges returns all edge names that were cleared in this mutation.
func (m *MessageMutation) ClearedEdges() []string {
	edges := make([]string, 0, 1)
	if m.clearedsession {
		edges = append(edges, message.EdgeSession)
	}
	return edges
}

// EdgeCleared returns a boolean which indicates if the edge with the given name
// was cleared in this mutation.
func (m *MessageMutation) EdgeCleared(name string) bool {
	switch name {
	case message.EdgeSession:
		return m.clearedsession
	}
	return false
}

// ClearEdge clears the value of the edge with the given name. It returns an error
// if that edge is not defined in the schema.
func (m *MessageMutation) ClearEdge(name string) error {
	switch name {
	case message.EdgeSession:
		m.ClearSession()
		return nil
	}
	return fmt.Errorf("unknown Message unique edge %s", name)
}

// ResetEdge resets all changes to the edge with the given name in this mutation.
// It returns an error if the edge is not defined in the schema.
func (m *MessageMutation) ResetEdge(name string) error {
	switch name {
	case message.EdgeSession:
		m.ResetSession()
		return nil
	}
	return fmt.Errorf("unknown Message edge %s", name)
}

// ModelRecordMutation represents an operation that mutates the ModelRecord nodes in the graph.
type ModelRecordMutation struct {
	config
	op                 Op
	typ                string
	id                 *string
	name               *string
	context_length     *int
	addcontext_length  *int
	capabilities       *[]string
	appendcapabilities []string
	parameters         *string
	updated_at         *time.Time
	clearedFields      map[string]struct{}
	done               bool
	oldValue           func(context.Context) (*ModelRecord, error)
	predicates         []predicate.ModelRecord
}

var _ ent.Mutation = (*ModelRecordMutation)(nil)

// modelrecordOption allows management of the mutation configuration using functional options.
type modelrecordOption func(*ModelRecordMutation)

// newModelRecordMutation creates new mutation for the ModelRecord entity.
func newModelRecordMutation(c config, op Op, opts ...modelrecordOption) *ModelRecordMutation {
	m := &ModelRecordMutation{
		config:        c,
		op:            op,
		typ:           TypeModelRecord,
		clearedFields: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// withModelRecordID sets the ID field of the mutation.
func withModelRecordID(id string) modelrecordOption {
	return func(m *ModelRecordMutation) {
		var (
			err   error
			once  sync.Once
			value *ModelRecord
		)
		m.oldValue = func(ctx context.Context) (*ModelRecord, error) {
			once.Do(func() {
				if m.done {
					err = errors.New("querying old values post mutation is not allowed")
				} else {
					value, err = m.Client().ModelRecord.Get(ctx, id)
				}
			})
			return value, err
		}
		m.id = &id
	}
}

// withModelRecord sets the old ModelRecord of the mutation.
func withModelRecord(node *ModelRecord) modelrecordOption {
	return func(m *ModelRecordMutation) {
		m.oldValue = func(context.Context) (*ModelRecord, error) {
			return node, nil
		}
		m.id = &node.ID
	}
}

// Client returns a new `ent.Client` from the mutation. If the mutation was
// executed in a transaction (ent.Tx), a transactional client is returned.
func (m ModelRecordMutation) Client() *Client {
	client := &Client{config: m.config}
	client.init()
	return client
}

// Tx returns an `ent.Tx` for mutations that were executed in transactions;
// it returns an error otherwise.
func (m ModelRecordMutation) Tx() (*Tx, error) {
	if _, ok := m.driver.(*txDriver); !ok {
		return nil, errors.New("ent: mutation is not running in a transaction")
	}
	tx := &Tx{config: m.config}
	tx.init()
	return tx, nil
}

// SetID sets the value of the id field. Note that this
// operation is only accepted on creation of ModelRecord entities.
func (m *ModelRecordMutation) SetID(id string) {
	m.id = &id
}

// ID returns the ID value in the mutation. Note that the ID is only available
// if it was provided to the builder or after it was returned from the database.
func (m *ModelRecordMutation) ID() (id string, exists bool) {
	if m.id == nil {
		return
	}
	return *m.id, true
}

// IDs queries the database and returns the entity ids that match the mutation's predicate.
// That means, if the mutation is applied within a transaction with an isolation level such
// as sql.LevelSerializable, the returned ids match the ids of the rows that will be updated
// or updated by the mutation.
func (m *ModelRecordMutation) IDs(ctx context.Context) ([]string, error) {
	switch {
	case m.op.Is(OpUpdateOne | OpDeleteOne):
		id, exists := m.ID()
		if exists {
			return []string{id}, nil
		}
		fallthrough
	case m.op.Is(OpUpdate | OpDelete):
		return m.Client().ModelRecord.Query().Where(m.predicates...).IDs(ctx)
	default:
		return nil, fmt.Errorf("IDs is not allowed on %s operations", m.op)
	}
}

// SetName sets the "name" field.
func (m *ModelRecordMutation) SetName(s string) {
	m.name = &s
}

// Name returns the value of the "name" field in the mutation.
func (m *ModelRecordMutation) Name() (r string, exists bool) {
	v := m.name
	if v == nil {
		return
	}
	return *v, true
}

// OldName returns the old "name" field's value of the ModelRecord entity.
// If the ModelRecord object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *ModelRecordMutation) OldName(ctx context.Context) (v string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldName is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldName requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldName: %w", err)
	}
	return oldValue.Name, nil
}

// ResetName resets all changes to the "name" field.
func (m *ModelRecordMutation) ResetName() {
	m.name = nil
}

// SetContextLength sets the "context_length" field.
func (m *ModelRecordMutation) SetContextLength(i int) {
	m.context_length = &i
	m.addcontext_length = nil
}

// ContextLength returns the value of the "context_length" field in the mutation.
func (m *ModelRecordMutation) ContextLength() (r int, exists bool) {
	v := m.context_length
	if v == nil {
		return
	}
	return *v, true
}

// OldContextLength returns the old "context_length" field's value of the ModelRecord entity.
// If the ModelRecord object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *ModelRecordMutation) OldContextLength(ctx context.Context) (v *int, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldContextLength is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldContextLength requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldContextLength: %w", err)
	}
	return oldValue.ContextLength, nil
}

// AddContextLength adds i to the "context_length" field.
func (m *ModelRecordMutation) AddContextLength(i int) {
	if m.addcontext_length != nil {
		*m.addcontext_length += i
	} else {
		m.addcontext_length = &i
	}
}

// AddedContextLength returns the value that was added to the "context_length" field in this mutation.
func (m *ModelRecordMutation) AddedContextLength() (r int, exists bool) {
	v := m.addcontext_length
	if v == nil {
		return
	}
	return *v, true
}

// ClearContextLength clears the value of the "context_length" field.
func (m *ModelRecordMutation) ClearContextLength() {
	m.context_length = nil
	m.addcontext_length = nil
	m.clearedFields[modelrecord.FieldContextLength] = struct{}{}
}

// ContextLengthCleared returns if the "context_length" field was cleared in this mutation.
func (m *ModelRecordMutation) ContextLengthCleared() bool {
	_, ok := m.clearedFields[modelrecord.FieldContextLength]
	return ok
}

// ResetContextLength resets all changes to the "context_length" field.
func (m *ModelRecordMutation) ResetContextLength() {
	m.context_length = nil
	m.addcontext_length = nil
	delete(m.clearedFields, modelrecord.FieldContextLength)
}

// SetCapabilities sets the "capabilities" field.
func (m *ModelRecordMutation) SetCapabilities(s []string) {
	m.capabilities = &s
	m.appendcapabilities = nil
}

// Capabilities returns the value of the "capabilities" field in the mutation.
func (m *ModelRecordMutation) Capabilities() (r []string, exists bool) {
	v := m.capabilities
	if v == nil {
		return
	}
	return *v, true
}

// OldCapabilities returns the old "capabilities" field's value of the ModelRecord entity.
// If the ModelRecord object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *ModelRecordMutation) OldCapabilities(ctx context.Context) (v []string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldCapabilities is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldCapabilities requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldCapabilities: %w", err)
	}
	return oldValue.Capabilities, nil
}

// AppendCapabilities adds s to the "capabilities" field.
func (m *ModelRecordMutation) AppendCapabilities(s []string) {
	m.appendcapabilities = append(m.appendcapabilities, s...)
}

// AppendedCapabilities returns the list of values that were appended to the "capabilities" field in this mutation.
func (m *ModelRecordMutation) AppendedCapabilities() ([]string, bool) {
	if len(m.appendcapabilities) == 0 {
		return nil, false
	}
	return m.appendcapabilities, true
}

// ClearCapabilities clears the value of the "capabilities" field.
func (m *ModelRecordMutation) ClearCapabilities() {
	m.capabilities = nil
	m.appendcapabilities = nil
	m.clearedFields[modelrecord.FieldCapabilities] = struct{}{}
}

// CapabilitiesCleared returns if the "capabilities" field was cleared in this mutation.
func (m *ModelRecordMutation) CapabilitiesCleared() bool {
	_, ok := m.clearedFields[modelrecord.FieldCapabilities]
	return ok
}

// ResetCapabilities resets all changes to the "capabilities" field.
func (m *ModelRecordMutation) ResetCapabilities() {
	m.capabilities = nil
	m.appendcapabilities = nil
	delete(m.clearedFields, modelrecord.FieldCapabilities)
}

// SetParameters sets the "parameters" field.
func (m *ModelRecordMutation) SetParameters(s string) {
	m.parameters = &s
}

// Parameters returns the value of the "parameters" field in the mutation.
func (m *ModelRecordMutation) Parameters() (r string, exists bool) {
	v := m.parameters
	if v == nil {
		return
	}
	return *v, true
}

// OldParameters returns the old "parameters" field's value of the ModelRecord entity.
// If the ModelRecord object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *ModelRecordMutation) OldParameters(ctx context.Context) (v *string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldParameters is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldParameters requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldParameters: %w", err)
	}
	return oldValue.Parameters, nil
}

// ClearParameters clears the value of the "parameters" field.
func (m *ModelRecordMutation) ClearParameters() {
	m.parameters = nil
	m.clearedFields[modelrecord.FieldParameters] = struct{}{}
}

// ParametersCleared returns if the "parameters" field was cleared in this mutation.
func (m *ModelRecordMutation) ParametersCleared() bool {
	_, ok := m.clearedFields[modelrecord.FieldParameters]
	return ok
}

// ResetParameters resets all changes to the "parameters" field.
func (m *ModelRecordMutation) ResetParameters() {
	m.parameters = nil
	delete(m.clearedFields, modelrecord.FieldParameters)
}

// SetUpdatedAt sets the "updated_at" field.
func (m *ModelRecordMutation) SetUpdatedAt(t time.Time) {
	m.updated_at = &t
}

// UpdatedAt returns the value of the "updated_at" field in the mutation.
func (m *ModelRecordMutation) UpdatedAt() (r time.Time, exists bool) {
	v := m.updated_at
	if v == nil {
		return
	}
	return *v, true
}

// OldUpdatedAt returns the old "updated_at" field's value of the ModelRecord entity.
// If the ModelRecord object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *ModelRecordMutation) OldUpdatedAt(ctx context.Context) (v time.Time, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldUpdatedAt is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldUpdatedAt requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldUpdatedAt: %w", err)
	}
	return oldValue.UpdatedAt, nil
}

// ResetUpdatedAt resets all changes to the "updated_at" field.
func (m *ModelRecordMutation) ResetUpdatedAt() {
	m.updated_at = nil
}

// Where appends a list predicates to the ModelRecordMutation builder.
func (m *ModelRecordMutation) Where(ps ...predicate.ModelRecord) {
	m.predicates = append(m.predicates, ps...)
}

// WhereP appends storage-level predicates to the ModelRecordMutation builder. Using this method,
// users can use type-assertion to append predicates that do not depend on any generated package.
func (m *ModelRecordMutation) WhereP(ps ...func(*sql.Selector)) {
	p := make([]predicate.ModelRecord, len(ps))
	for i := range ps {
		p[i] = ps[i]
	}
	m.Where(p...)
}

// Op returns the operation name.
func (m *ModelRecordMutation) Op() Op {
	return m.op
}

// SetOp allows setting the mutation operation.
func (m *ModelRecordMutation) SetOp(op Op) {
	m.op = op
}

// Type returns the node type of this mutation (ModelRecord).
func (m *ModelRecordMutation) Type() string {
	return m.typ
}

// Fields returns all fields that were changed during this mutation. Note that in
// order to get all numeric fields that were incremented/decremented, call
// AddedFields().
func (m *ModelRecordMutation) Fields() []string {
	fields := make([]string, 0, 5)
	if m.name != nil {
		fields = append(fields, modelrecord.FieldName)
	}
	if m.context_length != nil {
		fields = append(fields, modelrecord.FieldContextLength)
	}
	if m.capabilities != nil {
		fields = append(fields, modelrecord.FieldCapabilities)
	}
	if m.parameters != nil {
		fields = append(fields, modelrecord.FieldParameters)
	}
	if m.updated_at != nil {
		fields = append(fields, modelrecord.FieldUpdatedAt)
	}
	return fields
}

// Field returns the value of a field with the given name. The second boolean
// return value indicates that this field was not set, or was not defined in the
// schema.
func (m *ModelRecordMutation) Field(name string) (ent.Value, bool) {
	switch name {
	case modelrecord.FieldName:
		return m.Name()
	case modelrecord.FieldContextLength:
		return m.ContextLength()
	case modelrecord.FieldCapabilities:
		return m.Capabilities()
	case modelrecord.FieldParameters:
		return m.Parameters()
	case modelrecord.FieldUpdatedAt:
		return m.UpdatedAt()
	}
	return nil, false
}

// OldField returns the old value of the field from the database. An error is
// returned if the mutation operation is not UpdateOne, or the query to the
// database failed.
func (m *ModelRecordMutation) OldField(ctx context.Context, name string) (ent.Value, error) {
	switch name {
	case modelrecord.FieldName:
		return m.OldName(ctx)
	case modelrecord.FieldContextLength:
		return m.OldContextLength(ctx)
	case modelrecord.FieldCapabilities:
		return m.OldCapabilities(ctx)
	case modelrecord.FieldParameters:
		return m.OldParameters(ctx)
	case modelrecord.FieldUpdatedAt:
		return m.OldUpdatedAt(ctx)
	}
	return nil, fmt.Errorf("unknown ModelRecord field %s", name)
}

// SetField sets the value of a field with the given name. It returns an error if
// the field is not defined in the schema, or if the type mismatched the field
// type.
func (m *ModelRecordMutation) SetField(name string, value ent.Value) error {
	switch name {
	case modelrecord.FieldName:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetName(v)
		return nil
	case modelrecord.FieldContextLength:
		v, ok := value.(int)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetContextLength(v)
		return nil
	case modelrecord.FieldCapabilities:
		v, ok := value.([]string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetCapabilities(v)
		return nil
	case modelrecord.FieldParameters:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetParameters(v)
		return nil
	case modelrecord.FieldUpdatedAt:
		v, ok := value.(time.Time)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetUpdatedAt(v)
		return nil
	}
	return fmt.Errorf("unknown ModelRecord field %s", name)
}

// AddedFields returns all numeric fields that were incremented/decremented during
// this mutation.
func (m *ModelRecordMutation) AddedFields() []string {
	var fields []string
	if m.addcontext_length != nil {
		fields = append(fields, modelrecord.FieldContextLength)
	}
	return fields
}

// AddedField returns the numeric value that was incremented/decremented on a field
// with the given name. The second boolean return value indicates that this field
// was not set, or was not defined in the schema.
func (m *ModelRecordMutation) AddedField(name string) (ent.Value, bool) {
	switch name {
	case modelrecord.FieldContextLength:
		return m.AddedContextLength()
	}
	return nil, false
}

// AddField adds the value to the field with the given name. It returns an error if
// the field is not defined in the schema, or if the type mismatched the field
// type.
func (m *ModelRecordMutation) AddField(name string, value ent.Value) error {
	switch name {
	case modelrecord.FieldContextLength:
		v, ok := value.(int)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.AddContextLength(v)
		return nil
	}
	return fmt.Errorf("unknown ModelRecord numeric field %s", name)
}

// ClearedFields returns all nullable fields that were cleared during this
// mutation.
func (m *ModelRecordMutation) ClearedFields() []string {
	var fields []string
	if m.FieldCleared(modelrecord.FieldContextLength) {
		fields = append(fields, modelrecord.FieldContextLength)
	}
	if m.FieldCleared(modelrecord.FieldCapabilities) {
		fields = append(fields, modelrecord.FieldCapabilities)
	}
	if m.FieldCleared(modelrecord.FieldParameters) {
		fields = append(fields, modelrecord.FieldParameters)
	}
	return fields
}

// FieldCleared returns a boolean indicating if a field with the given name was
// cleared in this mutation.
func (m *ModelRecordMutation) FieldCleared(name string) bool {
	_, ok := m.clearedFields[name]
	return ok
}

// ClearField clears the value of the field with the given name. It returns an
// error if the field is not defined in the schema.
func (m *ModelRecordMutation) ClearField(name string) error {
	switch name {
	case modelrecord.FieldContextLength:
		m.ClearContextLength()
		return nil
	case modelrecord.FieldCapabilities:
		m.ClearCapabilities()
		return nil
	case modelrecord.FieldParameters:
		m.ClearParameters()
		return nil
	}
	return fmt.Errorf("unknown ModelRecord nullable field %s", name)
}

// ResetField resets all changes in the mutation for the field with the given name.
// It returns an error if the field is not defined in the schema.
func (m *ModelRecordMutation) ResetField(name string) error {
	switch name {
	case modelrecord.FieldName:
		m.ResetName()
		return nil
	case modelrecord.FieldContextLength:
		m.ResetContextLength()
		return nil
	case modelrecord.FieldCapabilities:
		m.ResetCapabilities()
		return nil
	case modelrecord.FieldParameters:
		m.ResetParameters()
		return nil
	case modelrecord.FieldUpdatedAt:
		m.ResetUpdatedAt()
		return nil
	}
	return fmt.Errorf("unknown ModelRecord field %s", name)
}

// AddedEdges returns all edge names that were set/added in this mutation.
func (m *ModelRecordMutation) AddedEdges() []string {
	edges := make([]string, 0, 0)
	return edges
}

// AddedIDs returns all IDs (to other nodes) that were added for the given edge
// name in this mutation.
func (m *ModelRecordMutation) AddedIDs(name string) []ent.Value {
	return nil
}

// RemovedEdges returns all edge names that were removed in this mutation.
func (m *ModelRecordMutation) RemovedEdges() []string {
	edges := make([]string, 0, 0)
	return edges
}

// RemovedIDs returns all IDs (to other nodes) that were removed for the edge with
// the given name in this mutation.
func (m *ModelRecordMutation) RemovedIDs(name string) []ent.Value {
	return nil
}

// ClearedEdges returns all edge names that were cleared in this mutation.
func (m *ModelRecordMutation) ClearedEdges() []string {
	edges := make([]string, 0, 0)
	return edges
}

// EdgeCleared returns a boolean which indicates if the edge with the given name
// was cleared in this mutation.
func (m *ModelRecordMutation) EdgeCleared(name string) bool {
	return false
}

// ClearEdge clears the value of the edge with the given name. It returns an error
// if that edge is not defined in the schema.
func (m *ModelRecordMutation) ClearEdge(name string) error {
	return fmt.Errorf("unknown ModelRecord unique edge %s", name)
}

// ResetEdge resets all changes to the edge with the given name in this mutation.
// It returns an error if the edge is not defined in the schema.
func (m *ModelRecordMutation) ResetEdge(name string) error {
	return fmt.Errorf("unknown ModelRecord edge %s", name)
}

// SessionMutation represents an operation that mutates the Session nodes in the graph.
type SessionMutation struct {
	config
	op                            Op
	typ                           string
	id                            *string
	task                          *string
	mode                          *string
	model                         *string
	title                         *string
	status                        *session.Status
	workspace                     *string
	auto_approve_commands         *bool
	auto_approve_sensitive_edits  *bool
	sensitive_file_patterns       *[]string
	appendsensitive_file_patterns []string
	files_changed                 *[]string
	appendfiles_changed           []string
	memory                        *map[string]interface{}
	created_at                    *time.Time
	started_at                    *time.Time
	completed_at                  *time.Time
	error_message                 *string
	pod_id                        *string
	last_interaction_at           *time.Time
	deleted_at                    *time.Time
	clearedFields                 map[string]struct{}
	messages                      map[string]struct{}
	removedmessages               map[string]struct{}
	clearedmessages               bool
	checkpoints                   map[string]struct{}
	removedcheckpoints            map[string]struct{}
	clearedcheckpoints            bool
	events                        map[int]struct{}
	removedevents                 map[int]struct{}
	clearedevents                 bool
	done                          bool
	oldValue                      func(context.Context) (*Session, error)
	predicates                    []predicate.Session
}

var _ ent.Mutation = (*SessionMutation)(nil)

// sessionOption allows management of the mutation configuration using functional options.
type sessionOption func(*SessionMutation)

// newSessionMutation creates new mutation for the Session entity.
func newSessionMutation(c config, op Op, opts ...sessionOption) *SessionMutation {
	m := &SessionMutation{
		config:        c,
		op:            op,
		typ:           TypeSession,
		clearedFields: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// withSessionID sets the ID field of the mutation.
func withSessionID(id string) sessionOption {
	return func(m *SessionMutation) {
		var (
			err   error
			once  sync.Once
			value *Session
		)
		m.oldValue = func(ctx context.Context) (*Session, error) {
			once.Do(func() {
				if m.done {
					err = errors.New("querying old values post mutation is not allowed")
				} else {
					value, err = m.Client().Session.Get(ctx, id)
				}
			})
			return value, err
		}
		m.id = &id
	}
}

// withSession sets the old Session of the mutation.
func withSession(node *Session) sessionOption {
	return func(m *SessionMutation) {
		m.oldValue = func(context.Context) (*Session, error) {
			return node, nil
		}
		m.id = &node.ID
	}
}

// Client returns a new `ent.Client` from the mutation. If the mutation was
// executed in a transaction (ent.Tx), a transactional client is returned.
func (m SessionMutation) Client() *Client {
	client := &Client{config: m.config}
	client.init()
	return client
}

// Tx returns an `ent.Tx` for mutations that were executed in transactions;
// it returns an error otherwise.
func (m SessionMutation) Tx() (*Tx, error) {
	if _, ok := m.driver.(*txDriver); !ok {
		return nil, errors.New("ent: mutation is not running in a transaction")
	}
	tx := &Tx{config: m.config}
	tx.init()
	return tx, nil
}

// SetID sets the value of the id field. Note that this
// operation is only accepted on creation of Session entities.
func (m *SessionMutation) SetID(id string) {
	m.id = &id
}

// ID returns the ID value in the mutation. Note that the ID is only available
// if it was provided to the builder or after it was returned from the database.
func (m *SessionMutation) ID() (id string, exists bool) {
	if m.id == nil {
		return
	}
	return *m.id, true
}

// IDs queries the database and returns the entity ids that match the mutation's predicate.
// That means, if the mutation is applied within a transaction with an isolation level such
// as sql.LevelSerializable, the returned ids match the ids of the rows that will be updated
// or updated by the mutation.
func (m *SessionMutation) IDs(ctx context.Context) ([]string, error) {
	switch {
	case m.op.Is(OpUpdateOne | OpDeleteOne):
		id, exists := m.ID()
		if exists {
			return []string{id}, nil
		}
		fallthrough
	case m.op.Is(OpUpdate | OpDelete):
		return m.Client().Session.Query().Where(m.predicates...).IDs(ctx)
	default:
		return nil, fmt.Errorf("IDs is not allowed on %s operations", m.op)
	}
}

// SetTask sets the "task" field.
func (m *SessionMutation) SetTask(s string) {
	m.task = &s
}

// Task returns the value of the "task" field in the mutation.
func (m *SessionMutation) Task() (r string, exists bool) {
	v := m.task
	if v == nil {
		return
	}
	return *v, true
}

// OldTask returns the old "task" field's value of the Session entity.
// If the Session object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *SessionMutation) OldTask(ctx context.Context) (v string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldTask is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldTask requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldTask: %w", err)
	}
	return oldValue.Task, nil
}

// ResetTask resets all changes to the "task" field.
func (m *SessionMutation) ResetTask() {
	m.task = nil
}

// SetMode sets the "mode" field.
func (m *SessionMutation) SetMode(s string) {
	m.mode = &s
}

// Mode returns the value of the "mode" field in the mutation.
func (m *SessionMutation) Mode() (r string, exists bool) {
	v := m.mode
	if v == nil {
		return
	}
	return *v, true
}

// OldMode returns the old "mode" field's value of the Session entity.
// If the Session object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *SessionMutation) OldMode(ctx context.Context) (v string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldMode is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldMode requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldMode: %w", err)
	}
	return oldValue.Mode, nil
}

// ResetMode resets all changes to the "mode" field.
func (m *SessionMutation) ResetMode() {
	m.mode = nil
}

// SetModel sets the "model" field.
func (m *SessionMutation) SetModel(s string) {
	m.model = &s
}

// Model returns the value of the "model" field in the mutation.
func (m *SessionMutation) Model() (r string, exists bool) {
	v := m.model
	if v == nil {
		return
	}
	return *v, true
}

// OldModel returns the old "model" field's value of the Session entity.
// If the Session object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *SessionMutation) OldModel(ctx context.Context) (v string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldModel is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldModel requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldModel: %w", err)
	}
	return oldValue.Model, nil
}

// ResetModel resets all changes to the "model" field.
func (m *SessionMutation) ResetModel() {
	m.model = nil
}

// SetTitle sets the "title" field.
func (m *SessionMutation) SetTitle(s string) {
	m.title = &s
}

// Title returns the value of the "title" field in the mutation.
func (m *SessionMutation) Title() (r string, exists bool) {
	v := m.title
	if v == nil {
		return
	}
	return *v, true
}

// OldTitle returns the old "title" field's value of the Session entity.
// If the Session object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *SessionMutation) OldTitle(ctx context.Context) (v *string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldTitle is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldTitle requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldTitle: %w", err)
	}
	return oldValue.Title, nil
}

// ClearTitle clears the value of the "title" field.
func (m *SessionMutation) ClearTitle() {
	m.title = nil
	m.clearedFields[session.FieldTitle] = struct{}{}
}

// TitleCleared returns if the "title" field was cleared in this mutation.
func (m *SessionMutation) TitleCleared() bool {
	_, ok := m.clearedFields[session.FieldTitle]
	return ok
}

// ResetTitle resets all changes to the "title" field.
func (m *SessionMutation) ResetTitle() {
	m.title = nil
	delete(m.clearedFields, session.FieldTitle)
}

// SetStatus sets the "status" field.
func (m *SessionMutation) SetStatus(s session.Status) {
	m.status = &s
}

// Status returns the value of the "status" field in the mutation.
func (m *SessionMutation) Status() (r session.Status, exists bool) {
	v := m.status
	if v == nil {
		return
	}
	return *v, true
}

// OldStatus returns the old "status" field's value of the Session entity.
// If the Session object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *SessionMutation) OldStatus(ctx context.Context) (v session.Status, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldStatus is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldStatus requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldStatus: %w", err)
	}
	return oldValue.Status, nil
}

// ResetStatus resets all changes to the "status" field.
func (m *SessionMutation) ResetStatus() {
	m.status = nil
}

// SetWorkspace sets the "workspace" field.
func (m *SessionMutation) SetWorkspace(s string) {
	m.workspace = &s
}

// Workspace returns the value of the "workspace" field in the mutation.
func (m *SessionMutation) Workspace() (r string, exists bool) {
	v := m.workspace
	if v == nil {
		return
	}
	return *v, true
}

// OldWorkspace returns the old "workspace" field's value of the Session entity.
// If the Session object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *SessionMutation) OldWorkspace(ctx context.Context) (v string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldWorkspace is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldWorkspace requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldWorkspace: %w", err)
	}
	return oldValue.Workspace, nil
}

// ResetWorkspace resets all changes to the "workspace" field.
func (m *SessionMutation) ResetWorkspace() {
	m.workspace = nil
}

// SetAutoApproveCommands sets the "auto_approve_commands" field.
func (m *SessionMutation) SetAutoApproveCommands(b bool) {
	m.auto_approve_commands = &b
}

// AutoApproveCommands returns the value of the "auto_approve_commands" field in the mutation.
func (m *SessionMutation) AutoApproveCommands() (r bool, exists bool) {
	v := m.auto_approve_commands
	if v == nil {
		return
	}
	return *v, true
}

// OldAutoApproveCommands returns the old "auto_approve_commands" field's value of the Session entity.
// If the Session object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *SessionMutation) OldAutoApproveCommands(ctx context.Context) (v bool, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldAutoApproveCommands is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldAutoApproveCommands requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldAutoApproveCommands: %w", err)
	}
	return oldValue.AutoApproveCommands, nil
}

// ResetAutoApproveCommands resets all changes to the "auto_approve_commands" field.
func (m *SessionMutation) ResetAutoApproveCommands() {
	m.auto_approve_commands = nil
}

// SetAutoApproveSensitiveEdits sets the "auto_approve_sensitive_edits" field.
func (m *SessionMutation) SetAutoApproveSensitiveEdits(b bool) {
	m.auto_approve_sensitive_edits = &b
}

// AutoApproveSensitiveEdits returns the value of the "auto_approve_sensitive_edits" field in the mutation.
func (m *SessionMutation) AutoApproveSensitiveEdits() (r bool, exists bool) {
	v := m.auto_approve_sensitive_edits
	if v == nil {
		return
	}
	return *v, true
}

// OldAutoApproveSensitiveEdits returns the old "auto_approve_sensitive_edits" field's value of the Session entity.
// If the Session object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *SessionMutation) OldAutoApproveSensitiveEdits(ctx context.Context) (v bool, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldAutoApproveSensitiveEdits is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldAutoApproveSensitiveEdits requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldAutoApproveSensitiveEdits: %w", err)
	}
	return oldValue.AutoApproveSensitiveEdits, nil
}

// ResetAutoApproveSensitiveEdits resets all changes to the "auto_approve_sensitive_edits" field.
func (m *SessionMutation) ResetAutoApproveSensitiveEdits() {
	m.auto_approve_sensitive_edits = nil
}

// SetSensitiveFilePatterns sets the "sensitive_file_patterns" field.
func (m *SessionMutation) SetSensitiveFilePatterns(s []string) {
	m.sensitive_file_patterns = &s
	m.appendsensitive_file_patterns = nil
}

// SensitiveFilePatterns returns the value of the "sensitive_file_patterns" field in the mutation.
func (m *SessionMutation) SensitiveFilePatterns() (r []string, exists bool) {
	v := m.sensitive_file_patterns
	if v == nil {
		return
	}
	return *v, true
}

// OldSensitiveFilePatterns returns the old "sensitive_file_patterns" field's value of the Session entity.
// If the Session object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *SessionMutation) OldSensitiveFilePatterns(ctx context.Context) (v []string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldSensitiveFilePatterns is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldSensitiveFilePatterns requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldSensitiveFilePatterns: %w", err)
	}
	return oldValue.SensitiveFilePatterns, nil
}

// AppendSensitiveFilePatterns adds s to the "sensitive_file_patterns" field.
func (m *SessionMutation) AppendSensitiveFilePatterns(s []string) {
	m.appendsensitive_file_patterns = append(m.appendsensitive_file_patterns, s...)
}

// AppendedSensitiveFilePatterns returns the list of values that were appended to the "sensitive_file_patterns" field in this mutation.
func (m *SessionMutation) AppendedSensitiveFilePatterns() ([]string, bool) {
	if len(m.appendsensitive_file_patterns) == 0 {
		return nil, false
	}
	return m.appendsensitive_file_patterns, true
}

// ClearSensitiveFilePatterns clears the value of the "sensitive_file_patterns" field.
func (m *SessionMutation) ClearSensitiveFilePatterns() {
	m.sensitive_file_patterns = nil
	m.appendsensitive_file_patterns = nil
	m.clearedFields[session.FieldSensitiveFilePatterns] = struct{}{}
}

// SensitiveFilePatternsCleared returns if the "sensitive_file_patterns" field was cleared in this mutation.
func (m *SessionMutation) SensitiveFilePatternsCleared() bool {
	_, ok := m.clearedFields[session.FieldSensitiveFilePatterns]
	return ok
}

// ResetSensitiveFilePatterns resets all changes to the "sensitive_file_patterns" field.
func (m *SessionMutation) ResetSensitiveFilePatterns() {
	m.sensitive_file_patterns = nil
	m.appendsensitive_file_patterns = nil
	delete(m.clearedFields, session.FieldSensitiveFilePatterns)
}

// SetFilesChanged sets the "files_changed" field.
func (m *SessionMutation) SetFilesChanged(s []string) {
	m.files_changed = &s
	m.appendfiles_changed = nil
}

// FilesChanged returns the value of the "files_changed" field in the mutation.
func (m *SessionMutation) FilesChanged() (r []string, exists bool) {
	v := m.files_changed
	if v == nil {
		return
	}
	return *v, true
}

// OldFilesChanged returns the old "files_changed" field's value of the Session entity.
// If the Session object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *SessionMutation) OldFilesChanged(ctx context.Context) (v []string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldFilesChanged is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldFilesChanged requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldFilesChanged: %w", err)
	}
	return oldValue.FilesChanged, nil
}

// AppendFilesChanged adds s to the "files_changed" field.
func (m *SessionMutation) AppendFilesChanged(s []string) {
	m.appendfiles_changed = append(m.appendfiles_changed, s...)
}

// AppendedFilesChanged returns the list of values that were appended to the "files_changed" field in this mutation.
func (m *SessionMutation) AppendedFilesChanged() ([]string, bool) {
	if len(m.appendfiles_changed) == 0 {
		return nil, false
	}
	return m.appendfiles_changed, true
}

// ClearFilesChanged clears the value of the "files_changed" field.
func (m *SessionMutation) ClearFilesChanged() {
	m.files_changed = nil
	m.appendfiles_changed = nil
	m.clearedFields[session.FieldFilesChanged] = struct{}{}
}

// FilesChangedCleared returns if the "files_changed" field was cleared in this mutation.
func (m *SessionMutation) FilesChangedCleared() bool {
	_, ok := m.clearedFields[session.FieldFilesChanged]
	return ok
}

// ResetFilesChanged resets all changes to the "files_changed" field.
func (m *SessionMutation) ResetFilesChanged() {
	m.files_changed = nil
	m.appendfiles_changed = nil
	delete(m.clearedFields, session.FieldFilesChanged)
}

// SetMemory sets the "memory" field.
func (m *SessionMutation) SetMemory(value map[string]interface{}) {
	m.memory = &value
}

// Memory returns the value of the "memory" field in the mutation.
func (m *SessionMutation) Memory() (r map[string]interface{}, exists bool) {
	v := m.memory
	if v == nil {
		return
	}
	return *v, true
}

// OldMemory returns the old "memory" field's value of the Session entity.
// If the Session object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *SessionMutation) OldMemory(ctx context.Context) (v map[string]interface{}, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldMemory is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldMemory requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldMemory: %w", err)
	}
	return oldValue.Memory, nil
}

// ClearMemory clears the value of the "memory" field.
func (m *SessionMutation) ClearMemory() {
	m.memory = nil
	m.clearedFields[session.FieldMemory] = struct{}{}
}

// MemoryCleared returns if the "memory" field was cleared in this mutation.
func (m *SessionMutation) MemoryCleared() bool {
	_, ok := m.clearedFields[session.FieldMemory]
	return ok
}

// ResetMemory resets all changes to the "memory" field.
func (m *SessionMutation) ResetMemory() {
	m.memory = nil
	delete(m.clearedFields, session.FieldMemory)
}

// SetCreatedAt sets the "created_at" field.
func (m *SessionMutation) SetCreatedAt(t time.Time) {
	m.created_at = &t
}

// CreatedAt returns the value of the "created_at" field in the mutation.
func (m *SessionMutation) CreatedAt() (r time.Time, exists bool) {
	v := m.created_at
	if v == nil {
		return
	}
	return *v, true
}

// OldCreatedAt returns the old "created_at" field's value of the Session entity.
// If the Session object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *SessionMutation) OldCreatedAt(ctx context.Context) (v time.Time, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldCreatedAt is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldCreatedAt requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldCreatedAt: %w", err)
	}
	return oldValue.CreatedAt, nil
}

// ResetCreatedAt resets all changes to the "created_at" field.
func (m *SessionMutation) ResetCreatedAt() {
	m.created_at = nil
}

// SetStartedAt sets the "started_at" field.
func (m *SessionMutation) SetStartedAt(t time.Time) {
	m.started_at = &t
}

// StartedAt returns the value of the "started_at" field in the mutation.
func (m *SessionMutation) StartedAt() (r time.Time, exists bool) {
	v := m.started_at
	if v == nil {
		return
	}
	return *v, true
}

// OldStartedAt returns the old "started_at" field's value of the Session entity.
// If the Session object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *SessionMutation) OldStartedAt(ctx context.Context) (v *time.Time, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldStartedAt is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldStartedAt requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldStartedAt: %w", err)
	}
	return oldValue.StartedAt, nil
}

// ClearStartedAt clears the value of the "started_at" field.
func (m *SessionMutation) ClearStartedAt() {
	m.started_at = nil
	m.clearedFields[session.FieldStartedAt] = struct{}{}
}

// StartedAtCleared returns if the "started_at" field was cleared in this mutation.
func (m *SessionMutation) StartedAtCleared() bool {
	_, ok := m.clearedFields[session.FieldStartedAt]
	return ok
}

// ResetStartedAt resets all changes to the "started_at" field.
func (m *SessionMutation) ResetStartedAt() {
	m.started_at = nil
	delete(m.clearedFields, session.FieldStartedAt)
}

// SetCompletedAt sets the "completed_at" field.
func (m *SessionMutation) SetCompletedAt(t time.Time) {
	m.completed_at = &t
}

// CompletedAt returns the value of the "completed_at" field in the mutation.
func (m *SessionMutation) CompletedAt() (r time.Time, exists bool) {
	v := m.completed_at
	if v == nil {
		return
	}
	return *v, true
}

// OldCompletedAt returns the old "completed_at" field's value of the Session entity.
// If the Session object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *SessionMutation) OldCompletedAt(ctx context.Context) (v *time.Time, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldCompletedAt is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldCompletedAt requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldCompletedAt: %w", err)
	}
	return oldValue.CompletedAt, nil
}

// ClearCompletedAt clears the value of the "completed_at" field.
func (m *SessionMutation) ClearCompletedAt() {
	m.completed_at = nil
	m.clearedFields[session.FieldCompletedAt] = struct{}{}
}

// CompletedAtCleared returns if the "completed_at" field was cleared in this mutation.
func (m *SessionMutation) CompletedAtCleared() bool {
	_, ok := m.clearedFields[session.FieldCompletedAt]
	return ok
}

// ResetCompletedAt resets all changes to the "completed_at" field.
func (m *SessionMutation) ResetCompletedAt() {
	m.completed_at = nil
	delete(m.clearedFields, session.FieldCompletedAt)
}

// SetErrorMessage sets the "error_message" field.
func (m *SessionMutation) SetErrorMessage(s string) {
	m.error_message = &s
}

// ErrorMessage returns the value of the "error_message" field in the mutation.
func (m *SessionMutation) ErrorMessage() (r string, exists bool) {
	v := m.error_message
	if v == nil {
		return
	}
	return *v, true
}

// OldErrorMessage returns the old "error_message" field's value of the Session entity.
// If the Session object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *SessionMutation) OldErrorMessage(ctx context.Context) (v *string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldErrorMessage is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldErrorMessage requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldErrorMessage: %w", err)
	}
	return oldValue.ErrorMessage, nil
}

// ClearErrorMessage clears the value of the "error_message" field.
func (m *SessionMutation) ClearErrorMessage() {
	m.error_message = nil
	m.clearedFields[session.FieldErrorMessage] = struct{}{}
}

// ErrorMessageCleared returns if the "error_message" field was cleared in this mutation.
func (m *SessionMutation) ErrorMessageCleared() bool {
	_, ok := m.clearedFields[session.FieldErrorMessage]
	return ok
}

// ResetErrorMessage resets all changes to the "error_message" field.
func (m *SessionMutation) ResetErrorMessage() {
	m.error_message = nil
	delete(m.clearedFields, session.FieldErrorMessage)
}

// SetPodID sets the "pod_id" field.
func (m *SessionMutation) SetPodID(s string) {
	m.pod_id = &s
}

// PodID returns the value of the "pod_id" field in the mutation.
func (m *SessionMutation) PodID() (r string, exists bool) {
	v := m.pod_id
	if v == nil {
		return
	}
	return *v, true
}

// OldPodID returns the old "pod_id" field's value of the Session entity.
// If the Session object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *SessionMutation) OldPodID(ctx context.Context) (v *string, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldPodID is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldPodID requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldPodID: %w", err)
	}
	return oldValue.PodID, nil
}

// ClearPodID clears the value of the "pod_id" field.
func (m *SessionMutation) ClearPodID() {
	m.pod_id = nil
	m.clearedFields[session.FieldPodID] = struct{}{}
}

// PodIDCleared returns if the "pod_id" field was cleared in this mutation.
func (m *SessionMutation) PodIDCleared() bool {
	_, ok := m.clearedFields[session.FieldPodID]
	return ok
}

// ResetPodID resets all changes to the "pod_id" field.
func (m *SessionMutation) ResetPodID() {
	m.pod_id = nil
	delete(m.clearedFields, session.FieldPodID)
}

// SetLastInteractionAt sets the "last_interaction_at" field.
func (m *SessionMutation) SetLastInteractionAt(t time.Time) {
	m.last_interaction_at = &t
}

// LastInteractionAt returns the value of the "last_interaction_at" field in the mutation.
func (m *SessionMutation) LastInteractionAt() (r time.Time, exists bool) {
	v := m.last_interaction_at
	if v == nil {
		return
	}
	return *v, true
}

// OldLastInteractionAt returns the old "last_interaction_at" field's value of the Session entity.
// If the Session object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *SessionMutation) OldLastInteractionAt(ctx context.Context) (v *time.Time, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldLastInteractionAt is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldLastInteractionAt requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldLastInteractionAt: %w", err)
	}
	return oldValue.LastInteractionAt, nil
}

// ClearLastInteractionAt clears the value of the "last_interaction_at" field.
func (m *SessionMutation) ClearLastInteractionAt() {
	m.last_interaction_at = nil
	m.clearedFields[session.FieldLastInteractionAt] = struct{}{}
}

// LastInteractionAtCleared returns if the "last_interaction_at" field was cleared in this mutation.
func (m *SessionMutation) LastInteractionAtCleared() bool {
	_, ok := m.clearedFields[session.FieldLastInteractionAt]
	return ok
}

// ResetLastInteractionAt resets all changes to the "last_interaction_at" field.
func (m *SessionMutation) ResetLastInteractionAt() {
	m.last_interaction_at = nil
	delete(m.clearedFields, session.FieldLastInteractionAt)
}

// SetDeletedAt sets the "deleted_at" field.
func (m *SessionMutation) SetDeletedAt(t time.Time) {
	m.deleted_at = &t
}

// DeletedAt returns the value of the "deleted_at" field in the mutation.
func (m *SessionMutation) DeletedAt() (r time.Time, exists bool) {
	v := m.deleted_at
	if v == nil {
		return
	}
	return *v, true
}

// OldDeletedAt returns the old "deleted_at" field's value of the Session entity.
// If the Session object wasn't provided to the builder, the object is fetched from the database.
// An error is returned if the mutation operation is not UpdateOne, or the database query fails.
func (m *SessionMutation) OldDeletedAt(ctx context.Context) (v *time.Time, err error) {
	if !m.op.Is(OpUpdateOne) {
		return v, errors.New("OldDeletedAt is only allowed on UpdateOne operations")
	}
	if m.id == nil || m.oldValue == nil {
		return v, errors.New("OldDeletedAt requires an ID field in the mutation")
	}
	oldValue, err := m.oldValue(ctx)
	if err != nil {
		return v, fmt.Errorf("querying old value for OldDeletedAt: %w", err)
	}
	return oldValue.DeletedAt, nil
}

// ClearDeletedAt clears the value of the "deleted_at" field.
func (m *SessionMutation) ClearDeletedAt() {
	m.deleted_at = nil
	m.clearedFields[session.FieldDeletedAt] = struct{}{}
}

// DeletedAtCleared returns if the "deleted_at" field was cleared in this mutation.
func (m *SessionMutation) DeletedAtCleared() bool {
	_, ok := m.clearedFields[session.FieldDeletedAt]
	return ok
}

// ResetDeletedAt resets all changes to the "deleted_at" field.
func (m *SessionMutation) ResetDeletedAt() {
	m.deleted_at = nil
	delete(m.clearedFields, session.FieldDeletedAt)
}

// AddMessageIDs adds the "messages" edge to the Message entity by ids.
func (m *SessionMutation) AddMessageIDs(ids ...string) {
	if m.messages == nil {
		m.messages = make(map[string]struct{})
	}
	for i := range ids {
		m.messages[ids[i]] = struct{}{}
	}
}

// ClearMessages clears the "messages" edge to the Message entity.
func (m *SessionMutation) ClearMessages() {
	m.clearedmessages = true
}

// MessagesCleared reports if the "messages" edge to the Message entity was cleared.
func (m *SessionMutation) MessagesCleared() bool {
	return m.clearedmessages
}

// RemoveMessageIDs removes the "messages" edge to the Message entity by IDs.
func (m *SessionMutation) RemoveMessageIDs(ids ...string) {
	if m.removedmessages == nil {
		m.removedmessages = make(map[string]struct{})
	}
	for i := range ids {
		delete(m.messages, ids[i])
		m.removedmessages[ids[i]] = struct{}{}
	}
}

// RemovedMessages returns the removed IDs of the "messages" edge to the Message entity.
func (m *SessionMutation) RemovedMessagesIDs() (ids []string) {
	for id := range m.removedmessages {
		ids = append(ids, id)
	}
	return
}

// MessagesIDs returns the "messages" edge IDs in the mutation.
func (m *SessionMutation) MessagesIDs() (ids []string) {
	for id := range m.messages {
		ids = append(ids, id)
	}
	return
}

// ResetMessages resets all changes to the "messages" edge.
func (m *SessionMutation) ResetMessages() {
	m.messages = nil
	m.clearedmessages = false
	m.removedmessages = nil
}

// AddCheckpointIDs adds the "checkpoints" edge to the Checkpoint entity by ids.
func (m *SessionMutation) AddCheckpointIDs(ids ...string) {
	if m.checkpoints == nil {
		m.checkpoints = make(map[string]struct{})
	}
	for i := range ids {
		m.checkpoints[ids[i]] = struct{}{}
	}
}

// ClearCheckpoints clears the "checkpoints" edge to the Checkpoint entity.
func (m *SessionMutation) ClearCheckpoints() {
	m.clearedcheckpoints = true
}

// CheckpointsCleared reports if the "checkpoints" edge to the Checkpoint entity was cleared.
func (m *SessionMutation) CheckpointsCleared() bool {
	return m.clearedcheckpoints
}

// RemoveCheckpointIDs removes the "checkpoints" edge to the Checkpoint entity by IDs.
func (m *SessionMutation) RemoveCheckpointIDs(ids ...string) {
	if m.removedcheckpoints == nil {
		m.removedcheckpoints = make(map[string]struct{})
	}
	for i := range ids {
		delete(m.checkpoints, ids[i])
		m.removedcheckpoints[ids[i]] = struct{}{}
	}
}

// RemovedCheckpoints returns the removed IDs of the "checkpoints" edge to the Checkpoint entity.
func (m *SessionMutation) RemovedCheckpointsIDs() (ids []string) {
	for id := range m.removedcheckpoints {
		ids = append(ids, id)
	}
	return
}

// CheckpointsIDs returns the "checkpoints" edge IDs in the mutation.
func (m *SessionMutation) CheckpointsIDs() (ids []string) {
	for id := range m.checkpoints {
		ids = append(ids, id)
	}
	return
}

// ResetCheckpoints resets all changes to the "checkpoints" edge.
func (m *SessionMutation) ResetCheckpoints() {
	m.checkpoints = nil
	m.clearedcheckpoints = false
	m.removedcheckpoints = nil
}

// AddEventIDs adds the "events" edge to the Event entity by ids.
func (m *SessionMutation) AddEventIDs(ids ...int) {
	if m.events == nil {
		m.events = make(map[int]struct{})
	}
	for i := range ids {
		m.events[ids[i]] = struct{}{}
	}
}

// ClearEvents clears the "events" edge to the Event entity.
func (m *SessionMutation) ClearEvents() {
	m.clearedevents = true
}

// EventsCleared reports if the "events" edge to the Event entity was cleared.
func (m *SessionMutation) EventsCleared() bool {
	return m.clearedevents
}

// RemoveEventIDs removes the "events" edge to the Event entity by IDs.
func (m *SessionMutation) RemoveEventIDs(ids ...int) {
	if m.removedevents == nil {
		m.removedevents = make(map[int]struct{})
	}
	for i := range ids {
		delete(m.events, ids[i])
		m.removedevents[ids[i]] = struct{}{}
	}
}

// RemovedEvents returns the removed IDs of the "events" edge to the Event entity.
func (m *SessionMutation) RemovedEventsIDs() (ids []int) {
	for id := range m.removedevents {
		ids = append(ids, id)
	}
	return
}

// EventsIDs returns the "events" edge IDs in the mutation.
func (m *SessionMutation) EventsIDs() (ids []int) {
	for id := range m.events {
		ids = append(ids, id)
	}
	return
}

// ResetEvents resets all changes to the "events" edge.
func (m *SessionMutation) ResetEvents() {
	m.events = nil
	m.clearedevents = false
	m.removedevents = nil
}

// Where appends a list predicates to the SessionMutation builder.
func (m *SessionMutation) Where(ps ...predicate.Session) {
	m.predicates = append(m.predicates, ps...)
}

// WhereP appends storage-level predicates to the SessionMutation builder. Using this method,
// users can use type-assertion to append predicates that do not depend on any generated package.
func (m *SessionMutation) WhereP(ps ...func(*sql.Selector)) {
	p := make([]predicate.Session, len(ps))
	for i := range ps {
		p[i] = ps[i]
	}
	m.Where(p...)
}

// Op returns the operation name.
func (m *SessionMutation) Op() Op {
	return m.op
}

// SetOp allows setting the mutation operation.
func (m *SessionMutation) SetOp(op Op) {
	m.op = op
}

// Type returns the node type of this mutation (Session).
func (m *SessionMutation) Type() string {
	return m.typ
}

// Fields returns all fields that were changed during this mutation. Note that in
// order to get all numeric fields that were incremented/decremented, call
// AddedFields().
func (m *SessionMutation) Fields() []string {
	fields := make([]string, 0, 18)
	if m.task != nil {
		fields = append(fields, session.FieldTask)
	}
	if m.mode != nil {
		fields = append(fields, session.FieldMode)
	}
	if m.model != nil {
		fields = append(fields, session.FieldModel)
	}
	if m.title != nil {
		fields = append(fields, session.FieldTitle)
	}
	if m.status != nil {
		fields = append(fields, session.FieldStatus)
	}
	if m.workspace != nil {
		fields = append(fields, session.FieldWorkspace)
	}
	if m.auto_approve_commands != nil {
		fields = append(fields, session.FieldAutoApproveCommands)
	}
	if m.auto_approve_sensitive_edits != nil {
		fields = append(fields, session.FieldAutoApproveSensitiveEdits)
	}
	if m.sensitive_file_patterns != nil {
		fields = append(fields, session.FieldSensitiveFilePatterns)
	}
	if m.files_changed != nil {
		fields = append(fields, session.FieldFilesChanged)
	}
	if m.memory != nil {
		fields = append(fields, session.FieldMemory)
	}
	if m.created_at != nil {
		fields = append(fields, session.FieldCreatedAt)
	}
	if m.started_at != nil {
		fields = append(fields, session.FieldStartedAt)
	}
	if m.completed_at != nil {
		fields = append(fields, session.FieldCompletedAt)
	}
	if m.error_message != nil {
		fields = append(fields, session.FieldErrorMessage)
	}
	if m.pod_id != nil {
		fields = append(fields, session.FieldPodID)
	}
	if m.last_interaction_at != nil {
		fields = append(fields, session.FieldLastInteractionAt)
	}
	if m.deleted_at != nil {
		fields = append(fields, session.FieldDeletedAt)
	}
	return fields
}

// Field returns the value of a field with the given name. The second boolean
// return value indicates that this field was not set, or was not defined in the
// schema.
func (m *SessionMutation) Field(name string) (ent.Value, bool) {
	switch name {
	case session.FieldTask:
		return m.Task()
	case session.FieldMode:
		return m.Mode()
	case session.FieldModel:
		return m.Model()
	case session.FieldTitle:
		return m.Title()
	case session.FieldStatus:
		return m.Status()
	case session.FieldWorkspace:
		return m.Workspace()
	case session.FieldAutoApproveCommands:
		return m.AutoApproveCommands()
	case session.FieldAutoApproveSensitiveEdits:
		return m.AutoApproveSensitiveEdits()
	case session.FieldSensitiveFilePatterns:
		return m.SensitiveFilePatterns()
	case session.FieldFilesChanged:
		return m.FilesChanged()
	case session.FieldMemory:
		return m.Memory()
	case session.FieldCreatedAt:
		return m.CreatedAt()
	case session.FieldStartedAt:
		return m.StartedAt()
	case session.FieldCompletedAt:
		return m.CompletedAt()
	case session.FieldErrorMessage:
		return m.ErrorMessage()
	case session.FieldPodID:
		return m.PodID()
	case session.FieldLastInteractionAt:
		return m.LastInteractionAt()
	case session.FieldDeletedAt:
		return m.DeletedAt()
	}
	return nil, false
}

// OldField returns the old value of the field from the database. An error is
// returned if the mutation operation is not UpdateOne, or the query to the
// database failed.
func (m *SessionMutation) OldField(ctx context.Context, name string) (ent.Value, error) {
	switch name {
	case session.FieldTask:
		return m.OldTask(ctx)
	case session.FieldMode:
		return m.OldMode(ctx)
	case session.FieldModel:
		return m.OldModel(ctx)
	case session.FieldTitle:
		return m.OldTitle(ctx)
	case session.FieldStatus:
		return m.OldStatus(ctx)
	case session.FieldWorkspace:
		return m.OldWorkspace(ctx)
	case session.FieldAutoApproveCommands:
		return m.OldAutoApproveCommands(ctx)
	case session.FieldAutoApproveSensitiveEdits:
		return m.OldAutoApproveSensitiveEdits(ctx)
	case session.FieldSensitiveFilePatterns:
		return m.OldSensitiveFilePatterns(ctx)
	case session.FieldFilesChanged:
		return m.OldFilesChanged(ctx)
	case session.FieldMemory:
		return m.OldMemory(ctx)
	case session.FieldCreatedAt:
		return m.OldCreatedAt(ctx)
	case session.FieldStartedAt:
		return m.OldStartedAt(ctx)
	case session.FieldCompletedAt:
		return m.OldCompletedAt(ctx)
	case session.FieldErrorMessage:
		return m.OldErrorMessage(ctx)
	case session.FieldPodID:
		return m.OldPodID(ctx)
	case session.FieldLastInteractionAt:
		return m.OldLastInteractionAt(ctx)
	case session.FieldDeletedAt:
		return m.OldDeletedAt(ctx)
	}
	return nil, fmt.Errorf("unknown Session field %s", name)
}

// SetField sets the value of a field with the given name. It returns an error if
// the field is not defined in the schema, or if the type mismatched the field
// type.
func (m *SessionMutation) SetField(name string, value ent.Value) error {
	switch name {
	case session.FieldTask:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetTask(v)
		return nil
	case session.FieldMode:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetMode(v)
		return nil
	case session.FieldModel:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetModel(v)
		return nil
	case session.FieldTitle:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetTitle(v)
		return nil
	case session.FieldStatus:
		v, ok := value.(session.Status)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetStatus(v)
		return nil
	case session.FieldWorkspace:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetWorkspace(v)
		return nil
	case session.FieldAutoApproveCommands:
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetAutoApproveCommands(v)
		return nil
	case session.FieldAutoApproveSensitiveEdits:
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetAutoApproveSensitiveEdits(v)
		return nil
	case session.FieldSensitiveFilePatterns:
		v, ok := value.([]string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetSensitiveFilePatterns(v)
		return nil
	case session.FieldFilesChanged:
		v, ok := value.([]string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetFilesChanged(v)
		return nil
	case session.FieldMemory:
		v, ok := value.(map[string]interface{})
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetMemory(v)
		return nil
	case session.FieldCreatedAt:
		v, ok := value.(time.Time)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetCreatedAt(v)
		return nil
	case session.FieldStartedAt:
		v, ok := value.(time.Time)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetStartedAt(v)
		return nil
	case session.FieldCompletedAt:
		v, ok := value.(time.Time)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetCompletedAt(v)
		return nil
	case session.FieldErrorMessage:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetErrorMessage(v)
		return nil
	case session.FieldPodID:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetPodID(v)
		return nil
	case session.FieldLastInteractionAt:
		v, ok := value.(time.Time)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetLastInteractionAt(v)
		return nil
	case session.FieldDeletedAt:
		v, ok := value.(time.Time)
		if !ok {
			return fmt.Errorf("unexpected type %T for field %s", value, name)
		}
		m.SetDeletedAt(v)
		return nil
	}
	return fmt.Errorf("unknown Session field %s", name)
}

// AddedFields returns all numeric fields that were incremented/decremented during
// this mutation.
func (m *SessionMutation) AddedFields() []string {
	return nil
}

// AddedField returns the numeric value that was incremented/decremented on a field
// with the given name. The second boolean return value indicates that this field
// was not set, or was not defined in the schema.
func (m *SessionMutation) AddedField(name string) (ent.Value, bool) {
	return nil, false
}

// AddField adds the value to the field with the given name. It returns an error if
// the field is not defined in the schema, or if the type mismatched the field
// type.
func (m *SessionMutation) AddField(name string, value ent.Value) error {
	switch name {
	}
	return fmt.Errorf("unknown Session numeric field %s", name)
}

// ClearedFields returns all nullable fields that were cleared during this
// mutation.
func (m *SessionMutation) ClearedFields() []string {
	var fields []string
	if m.FieldCleared(session.FieldTitle) {
		fields = append(fields, session.FieldTitle)
	}
	if m.FieldCleared(session.FieldSensitiveFilePatterns) {
		fields = append(fields, session.FieldSensitiveFilePatterns)
	}
	if m.FieldCleared(session.FieldFilesChanged) {
		fields = append(fields, session.FieldFilesChanged)
	}
	if m.FieldCleared(session.FieldMemory) {
		fields = append(fields, session.FieldMemory)
	}
	if m.FieldCleared(session.FieldStartedAt) {
		fields = append(fields, session.FieldStartedAt)
	}
	if m.FieldCleared(session.FieldCompletedAt) {
		fields = append(fields, session.FieldCompletedAt)
	}
	if m.FieldCleared(session.FieldErrorMessage) {
		fields = append(fields, session.FieldErrorMessage)
	}
	if m.FieldCleared(session.FieldPodID) {
		fields = append(fields, session.FieldPodID)
	}
	if m.FieldCleared(session.FieldLastInteractionAt) {
		fields = append(fields, session.FieldLastInteractionAt)
	}
	if m.FieldCleared(session.FieldDeletedAt) {
		fields = append(fields, session.FieldDeletedAt)
	}
	return fields
}

// FieldCleared returns a boolean indicating if a field with the given name was
// cleared in this mutation.
func (m *SessionMutation) FieldCleared(name string) bool {
	_, ok := m.clearedFields[name]
	return ok
}

// ClearField clears the value of the field with the given name. It returns an
// error if the field is not defined in the schema.
func (m *SessionMutation) ClearField(name string) error {
	switch name {
	case session.FieldTitle:
		m.ClearTitle()
		return nil
	case session.FieldSensitiveFilePatterns:
		m.ClearSensitiveFilePatterns()
		return nil
	case session.FieldFilesChanged:
		m.ClearFilesChanged()
		return nil
	case session.FieldMemory:
		m.ClearMemory()
		return nil
	case session.FieldStartedAt:
		m.ClearStartedAt()
		return nil
	case session.FieldCompletedAt:
		m.ClearCompletedAt()
		return nil
	case session.FieldErrorMessage:
		m.ClearErrorMessage()
		return nil
	case session.FieldPodID:
		m.ClearPodID()
		return nil
	case session.FieldLastInteractionAt:
		m.ClearLastInteractionAt()
		return nil
	case session.FieldDeletedAt:
		m.ClearDeletedAt()
		return nil
	}
	return fmt.Errorf("unknown Session nullable field %s", name)
}

// ResetField resets all changes in the mutation for the field with the given name.
// It returns an error if the field is not defined in the schema.
func (m *SessionMutation) ResetField(name string) error {
	switch name {
	case session.FieldTask:
		m.ResetTask()
		return nil
	case session.FieldMode:
		m.ResetMode()
		return nil
	case session.FieldModel:
		m.ResetModel()
		return nil
	case session.FieldTitle:
		m.ResetTitle()
		return nil
	case session.FieldStatus:
		m.ResetStatus()
		return nil
	case session.FieldWorkspace:
		m.ResetWorkspace()
		return nil
	case session.FieldAutoApproveCommands:
		m.ResetAutoApproveCommands()
		return nil
	case session.FieldAutoApproveSensitiveEdits:
		m.ResetAutoApproveSensitiveEdits()
		return nil
	case session.FieldSensitiveFilePatterns:
		m.ResetSensitiveFilePatterns()
		return nil
	case session.FieldFilesChanged:
		m.ResetFilesChanged()
		return nil
	case session.FieldMemory:
		m.ResetMemory()
		return nil
	case session.FieldCreatedAt:
		m.ResetCreatedAt()
		return nil
	case session.FieldStartedAt:
		m.ResetStartedAt()
		return nil
	case session.FieldCompletedAt:
		m.ResetCompletedAt()
		return nil
	case session.FieldErrorMessage:
		m.ResetErrorMessage()
		return nil
	case session.FieldPodID:
		m.ResetPodID()
		return nil
	case session.FieldLastInteractionAt:
		m.ResetLastInteractionAt()
		return nil
	case session.FieldDeletedAt:
		m.ResetDeletedAt()
		return nil
	}
	return fmt.Errorf("unknown Session field %s", name)
}

// AddedEdges returns all edge names that were set/added in this mutation.
func (m *SessionMutation) AddedEdges() []string {
	edges := make([]string, 0, 3)
	if m.messages != nil {
		edges = append(edges, session.EdgeMessages)
	}
	if m.checkpoints != nil {
		edges = append(edges, session.EdgeCheckpoints)
	}
	if m.events != nil {
		edges = append(edges, session.EdgeEvents)
	}
	return edges
}

// AddedIDs returns all IDs (to other nodes) that were added for the given edge
// name in this mutation.
func (m *SessionMutation) AddedIDs(name string) []ent.Value {
	switch name {
	case session.EdgeMessages:
		ids := make([]ent.Value, 0, len(m.messages))
		for id := range m.messages {
			ids = append(ids, id)
		}
		return ids
	case session.EdgeCheckpoints:
		ids := make([]ent.Value, 0, len(m.checkpoints))
		for id := range m.checkpoints {
			ids = append(ids, id)
		}
		return ids
	case session.EdgeEvents:
		ids := make([]ent.Value, 0, len(m.events))
		for id := range m.events {
			ids = append(ids, id)
		}
		return ids
	}
	return nil
}

// RemovedEdges returns all edge names that were removed in this mutation.
func (m *SessionMutation) RemovedEdges() []string {
	edges := make([]string, 0, 3)
	if m.removedmessages != nil {
		edges = append(edges, session.EdgeMessages)
	}
	if m.removedcheckpoints != nil {
		edges = append(edges, session.EdgeCheckpoints)
	}
	if m.removedevents != nil {
		edges = append(edges, session.EdgeEvents)
	}
	return edges
}

// RemovedIDs returns all IDs (to other nodes) that were removed for the edge with
// the given name in this mutation.
func (m *SessionMutation) RemovedIDs(name string) []ent.Value {
	switch name {
	case session.EdgeMessages:
		ids := make([]ent.Value, 0, len(m.removedmessages))
		for id := range m.removedmessages {
			ids = append(ids, id)
		}
		return ids
	case session.EdgeCheckpoints:
		ids := make([]ent.Value, 0, len(m.removedcheckpoints))
		for id := range m.removedcheckpoints {
			ids = append(ids, id)
		}
		return ids
	case session.EdgeEvents:
		ids := make([]ent.Value, 0, len(m.removedevents))
		for id := range m.removedevents {
			ids = append(ids, id)
		}
		return ids
	}
	return nil
}

// ClearedEdges returns all edge names that were cleared in this mutation.
func (m *SessionMutation) ClearedEdges() []string {
	edges := make([]string, 0, 3)
	if m.clearedmessages {
		edges = append(edges, session.EdgeMessages)
	}
	if m.clearedcheckpoints {
		edges = append(edges, session.EdgeCheckpoints)
	}
	if m.clearedevents {
		edges = append(edges, session.EdgeEvents)
	}
	return edges
}

// EdgeCleared returns a boolean which indicates if the edge with the given name
// was cleared in this mutation.
func (m *SessionMutation) EdgeCleared(name string) bool {
	switch name {
	case session.EdgeMessages:
		return m.clearedmessages
	case session.EdgeCheckpoints:
		return m.clearedcheckpoints
	case session.EdgeEvents:
		return m.clearedevents
	}
	return false
}

// ClearEdge clears the value of the edge with the given name. It returns an error
// if that edge is not defined in the schema.
func (m *SessionMutation) ClearEdge(name string) error {
	switch name {
	}
	return fmt.Errorf("unknown Session unique edge %s", name)
}

// ResetEdge resets all changes to the edge with the given name in this mutation.
// It returns an error if the edge is not defined in the schema.
func (m *SessionMutation) ResetEdge(name string) error {
	switch name {
	case session.EdgeMessages:
		m.ResetMessages()
		return nil
	case session.EdgeCheckpoints:
		m.ResetCheckpoints()
		return nil
	case session.EdgeEvents:
		m.ResetEvents()
		return nil
	}
	return fmt.Errorf("unknown Session edge %s", name)
}
