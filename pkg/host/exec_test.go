package host

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("interleaves stdout and stderr", func(t *testing.T) {
		h := newTestHost(t)
		res, err := h.ExecCommand(ctx, "echo out; echo err 1>&2", 10*time.Second)
		require.NoError(t, err)
		assert.Equal(t, "out\nerr\n", res.Output)
		assert.Equal(t, 0, res.ExitCode)
		assert.False(t, res.TimedOut)
		assert.Positive(t, res.Elapsed)
	})

	t.Run("runs in the workspace root", func(t *testing.T) {
		h := newTestHost(t)
		marker := filepath.Join(h.WorkspaceRoot(), "marker.txt")
		require.NoError(t, os.WriteFile(marker, []byte("x"), 0o644))

		res, err := h.ExecCommand(ctx, "ls", 10*time.Second)
		require.NoError(t, err)
		assert.Contains(t, res.Output, "marker.txt")
	})

	t.Run("nonzero exit is not an error", func(t *testing.T) {
		h := newTestHost(t)
		res, err := h.ExecCommand(ctx, "exit 7", 10*time.Second)
		require.NoError(t, err)
		assert.Equal(t, 7, res.ExitCode)
		assert.False(t, res.TimedOut)
	})

	t.Run("unknown command surfaces via exit code", func(t *testing.T) {
		h := newTestHost(t)
		res, err := h.ExecCommand(ctx, "definitely-not-a-real-command-xyz", 10*time.Second)
		require.NoError(t, err)
		assert.Equal(t, 127, res.ExitCode)
		assert.Contains(t, res.Output, "not found")
	})

	t.Run("timeout reported in the result", func(t *testing.T) {
		h := newTestHost(t)
		start := time.Now()
		res, err := h.ExecCommand(ctx, "sleep 5", 100*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, res.TimedOut)
		assert.Equal(t, -1, res.ExitCode)
		assert.Less(t, time.Since(start), 3*time.Second)
	})

	t.Run("timeout kills the whole process group", func(t *testing.T) {
		h := newTestHost(t)
		start := time.Now()
		// The backgrounded child inherits the output pipe; if only the
		// shell dies, it keeps Wait blocked until WaitDelay.
		res, err := h.ExecCommand(ctx, "sleep 5 & sleep 5", 100*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, res.TimedOut)
		assert.Less(t, time.Since(start), 3*time.Second)
	})

	t.Run("cancellation is an error", func(t *testing.T) {
		h := newTestHost(t)
		cancelCtx, cancel := context.WithCancel(ctx)
		timer := time.AfterFunc(50*time.Millisecond, cancel)
		defer timer.Stop()

		res, err := h.ExecCommand(cancelCtx, "sleep 5", 10*time.Second)
		require.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, res)
	})

	t.Run("empty output stays empty", func(t *testing.T) {
		h := newTestHost(t)
		res, err := h.ExecCommand(ctx, "true", 10*time.Second)
		require.NoError(t, err)
		assert.Empty(t, res.Output)
	})
}
