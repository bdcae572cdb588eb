package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/ent/checkpointfile"
)

func TestCreateCheckpoint(t *testing.T) {
	client := setupClient(t)
	svc := NewCheckpointService(client)
	ctx := context.Background()
	sess := createTestSession(t, client)

	cp, err := svc.CreateCheckpoint(ctx, sess.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, cp.ID)
	assert.Equal(t, sess.ID, cp.SessionID)

	_, err = svc.CreateCheckpoint(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CreateCheckpoint(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSnapshotFile(t *testing.T) {
	client := setupClient(t)
	svc := NewCheckpointService(client)
	ctx := context.Background()
	sess := createTestSession(t, client)

	cp, err := svc.CreateCheckpoint(ctx, sess.ID)
	require.NoError(t, err)

	t.Run("records pre-write state", func(t *testing.T) {
		original := "package fetch\n"
		require.NoError(t, svc.SnapshotFile(ctx, SnapshotFileInput{
			CheckpointID:    cp.ID,
			Path:            "pkg/fetch/fetch.go",
			OriginalContent: &original,
			Action:          checkpointfile.ActionModified,
		}))

		got, err := svc.GetCheckpoint(ctx, cp.ID)
		require.NoError(t, err)
		require.Len(t, got.Edges.Files, 1)
		file := got.Edges.Files[0]
		assert.Equal(t, "pkg/fetch/fetch.go", file.Path)
		assert.Equal(t, checkpointfile.ActionModified, file.Action)
		require.NotNil(t, file.OriginalContent)
		assert.Equal(t, original, *file.OriginalContent)
	})

	t.Run("created files carry no content", func(t *testing.T) {
		require.NoError(t, svc.SnapshotFile(ctx, SnapshotFileInput{
			CheckpointID: cp.ID,
			Path:         "pkg/fetch/new.go",
			Action:       checkpointfile.ActionCreated,
		}))

		got, err := svc.GetCheckpoint(ctx, cp.ID)
		require.NoError(t, err)
		require.Len(t, got.Edges.Files, 2)
		assert.Nil(t, got.Edges.Files[1].OriginalContent)
	})

	t.Run("first snapshot wins", func(t *testing.T) {
		later := "package fetch // already rewritten\n"
		require.NoError(t, svc.SnapshotFile(ctx, SnapshotFileInput{
			CheckpointID:    cp.ID,
			Path:            "pkg/fetch/fetch.go",
			OriginalContent: &later,
			Action:          checkpointfile.ActionModified,
		}))

		got, err := svc.GetCheckpoint(ctx, cp.ID)
		require.NoError(t, err)
		require.Len(t, got.Edges.Files, 2, "duplicate path adds no row")
		require.NotNil(t, got.Edges.Files[0].OriginalContent)
		assert.Equal(t, "package fetch\n", *got.Edges.Files[0].OriginalContent,
			"original snapshot content survives")
	})

	t.Run("unknown checkpoint", func(t *testing.T) {
		err := svc.SnapshotFile(ctx, SnapshotFileInput{
			CheckpointID: "nonexistent",
			Path:         "x.go",
			Action:       checkpointfile.ActionCreated,
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("validates action", func(t *testing.T) {
		err := svc.SnapshotFile(ctx, SnapshotFileInput{
			CheckpointID: cp.ID,
			Path:         "x.go",
			Action:       checkpointfile.Action("renamed"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestListCheckpoints(t *testing.T) {
	client := setupClient(t)
	svc := NewCheckpointService(client)
	ctx := context.Background()
	sess := createTestSession(t, client)

	first, err := svc.CreateCheckpoint(ctx, sess.ID)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := svc.CreateCheckpoint(ctx, sess.ID)
	require.NoError(t, err)

	require.NoError(t, svc.SnapshotFile(ctx, SnapshotFileInput{
		CheckpointID: second.ID,
		Path:         "b.go",
		Action:       checkpointfile.ActionCreated,
	}))
	require.NoError(t, svc.SnapshotFile(ctx, SnapshotFileInput{
		CheckpointID: second.ID,
		Path:         "a.go",
		Action:       checkpointfile.ActionCreated,
	}))

	cps, err := svc.ListCheckpoints(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, cps, 2)
	assert.Equal(t, second.ID, cps[0].ID, "newest first")
	assert.Equal(t, first.ID, cps[1].ID)

	require.Len(t, cps[0].Edges.Files, 2)
	assert.Equal(t, "a.go", cps[0].Edges.Files[0].Path, "files sorted by path")

	latest, err := svc.LatestCheckpoint(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	_, err = svc.LatestCheckpoint(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}
