package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kiln-dev/kiln/ent"
	"github.com/kiln-dev/kiln/ent/checkpoint"
	"github.com/kiln-dev/kiln/ent/checkpointfile"
)

// CheckpointService manages per-turn undo checkpoints and their lazy
// file snapshots.
type CheckpointService struct {
	client *ent.Client
}

// NewCheckpointService creates a new checkpoint service.
func NewCheckpointService(client *ent.Client) *CheckpointService {
	return &CheckpointService{client: client}
}

// CreateCheckpoint opens a new checkpoint for a session. The dispatcher
// calls this at the start of each agent turn; file snapshots attach to
// it lazily as writes happen.
func (s *CheckpointService) CreateCheckpoint(httpCtx context.Context, sessionID string) (*ent.Checkpoint, error) {
	if sessionID == "" {
		return nil, NewValidationError("session_id", "required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cp, err := s.client.Checkpoint.Create().
		SetID(uuid.New().String()).
		SetSessionID(sessionID).
		Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to create checkpoint: %w", err)
	}
	return cp, nil
}

// SnapshotFileInput records a file's pre-write state.
type SnapshotFileInput struct {
	CheckpointID string
	Path         string
	// OriginalContent is nil when the file did not exist before the
	// write (action created).
	OriginalContent *string
	Action          checkpointfile.Action
}

// SnapshotFile stores the pre-write snapshot of a file, once per
// checkpoint. A second write to the same path in the same turn is a
// no-op: the first snapshot is the state undo must restore.
func (s *CheckpointService) SnapshotFile(httpCtx context.Context, input SnapshotFileInput) error {
	if input.CheckpointID == "" {
		return NewValidationError("checkpoint_id", "required")
	}
	if input.Path == "" {
		return NewValidationError("path", "required")
	}
	switch input.Action {
	case checkpointfile.ActionCreated, checkpointfile.ActionModified, checkpointfile.ActionDeleted:
	default:
		return NewValidationError("action", fmt.Sprintf("unknown action %q", input.Action))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.client.CheckpointFile.Create().
		SetID(uuid.New().String()).
		SetCheckpointID(input.CheckpointID).
		SetPath(input.Path).
		SetNillableOriginalContent(input.OriginalContent).
		SetAction(input.Action).
		Exec(ctx)
	if err == nil {
		return nil
	}
	if !ent.IsConstraintError(err) {
		return fmt.Errorf("failed to snapshot file: %w", err)
	}

	// A constraint error is either the (checkpoint_id, path) unique
	// index, which means the snapshot already exists and wins, or a
	// missing checkpoint.
	exists, checkErr := s.client.CheckpointFile.Query().
		Where(
			checkpointfile.CheckpointIDEQ(input.CheckpointID),
			checkpointfile.PathEQ(input.Path),
		).
		Exist(ctx)
	if checkErr != nil {
		return fmt.Errorf("failed to snapshot file: %w", err)
	}
	if exists {
		return nil
	}
	return ErrNotFound
}

// GetCheckpoint retrieves a checkpoint with its file snapshots.
func (s *CheckpointService) GetCheckpoint(ctx context.Context, id string) (*ent.Checkpoint, error) {
	cp, err := s.client.Checkpoint.Query().
		Where(checkpoint.IDEQ(id)).
		WithFiles(func(q *ent.CheckpointFileQuery) {
			q.Order(ent.Asc(checkpointfile.FieldPath))
		}).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get checkpoint: %w", err)
	}
	return cp, nil
}

// ListCheckpoints returns a session's checkpoints newest first, each
// with its file snapshots.
func (s *CheckpointService) ListCheckpoints(ctx context.Context, sessionID string) ([]*ent.Checkpoint, error) {
	cps, err := s.client.Checkpoint.Query().
		Where(checkpoint.SessionIDEQ(sessionID)).
		WithFiles(func(q *ent.CheckpointFileQuery) {
			q.Order(ent.Asc(checkpointfile.FieldPath))
		}).
		Order(ent.Desc(checkpoint.FieldCreatedAt)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}
	return cps, nil
}

// LatestCheckpoint returns the most recent checkpoint of a session,
// with its file snapshots. Undo restores from this one.
func (s *CheckpointService) LatestCheckpoint(ctx context.Context, sessionID string) (*ent.Checkpoint, error) {
	cp, err := s.client.Checkpoint.Query().
		Where(checkpoint.SessionIDEQ(sessionID)).
		WithFiles(func(q *ent.CheckpointFileQuery) {
			q.Order(ent.Asc(checkpointfile.FieldPath))
		}).
		Order(ent.Desc(checkpoint.FieldCreatedAt)).
		First(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest checkpoint: %w", err)
	}
	return cp, nil
}
