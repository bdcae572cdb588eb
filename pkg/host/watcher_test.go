package host

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The watcher is asynchronous: positive cases poll with Eventually,
// negative cases give fsnotify a settling window before asserting.
const watcherSettle = 400 * time.Millisecond

func TestWatcherReportsExternalChanges(t *testing.T) {
	h := newTestHost(t)

	path := filepath.Join(h.WorkspaceRoot(), "outside.txt")
	require.NoError(t, os.WriteFile(path, []byte("external"), 0o644))

	require.Eventually(t, func() bool {
		return slices.Contains(h.DrainExternalChanges(), "outside.txt")
	}, 3*time.Second, 25*time.Millisecond)

	// Drained; a second drain with no new events is empty.
	time.Sleep(watcherSettle)
	assert.Empty(t, h.DrainExternalChanges())
}

func TestWatcherIgnoresOwnWrites(t *testing.T) {
	ctx := context.Background()
	h := newTestHost(t)

	require.NoError(t, h.WriteFile(ctx, "own.txt", "content"))
	require.NoError(t, h.WriteFile(ctx, "nested/own.txt", "content"))

	time.Sleep(watcherSettle)
	assert.Empty(t, h.DrainExternalChanges())
}

func TestWatcherIgnoresOwnDeletes(t *testing.T) {
	ctx := context.Background()
	h := newTestHost(t)

	require.NoError(t, os.MkdirAll(filepath.Join(h.WorkspaceRoot(), "gone"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(h.WorkspaceRoot(), "gone", "a.txt"), []byte("x"), 0o644))

	// Let the external create events land, then clear them.
	time.Sleep(watcherSettle)
	h.DrainExternalChanges()

	require.NoError(t, h.DeletePath(ctx, "gone"))

	time.Sleep(watcherSettle)
	assert.Empty(t, h.DrainExternalChanges())
}

func TestWatcherSkipsIgnoredDirectories(t *testing.T) {
	h := newTestHost(t)

	dir := filepath.Join(h.WorkspaceRoot(), "node_modules", "pkg")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.js"), []byte("x"), 0o644))

	time.Sleep(watcherSettle)
	for _, p := range h.DrainExternalChanges() {
		assert.NotContains(t, p, "node_modules")
	}
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	h := newTestHost(t)

	require.NoError(t, os.MkdirAll(filepath.Join(h.WorkspaceRoot(), "fresh"), 0o755))

	// Give the watcher time to pick up the new directory before
	// writing into it; writes that race the watch registration are
	// legitimately missed.
	time.Sleep(watcherSettle)
	require.NoError(t, os.WriteFile(filepath.Join(h.WorkspaceRoot(), "fresh", "new.txt"), []byte("x"), 0o644))

	require.Eventually(t, func() bool {
		return slices.Contains(h.DrainExternalChanges(), "fresh/new.txt")
	}, 3*time.Second, 25*time.Millisecond)
}

func TestWatcherSkipsEditorScratchFiles(t *testing.T) {
	h := newTestHost(t)

	require.NoError(t, os.WriteFile(filepath.Join(h.WorkspaceRoot(), ".main.go.swp"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(h.WorkspaceRoot(), "notes.txt~"), []byte("x"), 0o644))

	time.Sleep(watcherSettle)
	assert.Empty(t, h.DrainExternalChanges())
}

func TestDrainExternalChangesSorted(t *testing.T) {
	h := newTestHost(t)

	for _, name := range []string{"zeta.txt", "alpha.txt", "mid.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(h.WorkspaceRoot(), name), []byte("x"), 0o644))
	}

	var drained []string
	require.Eventually(t, func() bool {
		batch := h.DrainExternalChanges()
		assert.True(t, slices.IsSorted(batch))
		drained = append(drained, batch...)
		return len(drained) >= 3
	}, 3*time.Second, 25*time.Millisecond)

	slices.Sort(drained)
	assert.Equal(t, []string{"alpha.txt", "mid.txt", "zeta.txt"}, drained)
}
