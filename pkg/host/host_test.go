package host

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHost(t *testing.T) *LocalHost {
	t.Helper()
	h, err := NewLocalHost(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestNewLocalHost(t *testing.T) {
	t.Run("missing root rejected", func(t *testing.T) {
		_, err := NewLocalHost(filepath.Join(t.TempDir(), "does-not-exist"))
		require.Error(t, err)
	})

	t.Run("file root rejected", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "plain.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
		_, err := NewLocalHost(file)
		require.ErrorContains(t, err, "not a directory")
	})

	t.Run("root is absolute", func(t *testing.T) {
		h := newTestHost(t)
		assert.True(t, filepath.IsAbs(h.WorkspaceRoot()))
	})
}

func TestPathContainment(t *testing.T) {
	ctx := context.Background()
	h := newTestHost(t)

	t.Run("relative escape rejected", func(t *testing.T) {
		_, err := h.ReadFile(ctx, "../outside.txt")
		require.ErrorContains(t, err, "outside the workspace")

		err = h.WriteFile(ctx, "a/../../escape.txt", "x")
		require.ErrorContains(t, err, "outside the workspace")
	})

	t.Run("absolute path outside rejected", func(t *testing.T) {
		err := h.WriteFile(ctx, "/etc/passwd", "x")
		require.ErrorContains(t, err, "outside the workspace")
	})

	t.Run("absolute path inside accepted", func(t *testing.T) {
		abs := filepath.Join(h.WorkspaceRoot(), "inside.txt")
		require.NoError(t, h.WriteFile(ctx, abs, "hello"))

		content, err := h.ReadFile(ctx, "inside.txt")
		require.NoError(t, err)
		assert.Equal(t, "hello", content)
	})

	t.Run("dot resolves to root", func(t *testing.T) {
		st, err := h.Stat(ctx, ".")
		require.NoError(t, err)
		assert.True(t, st.IsDir)
	})
}

func TestReadWriteRoundtrip(t *testing.T) {
	ctx := context.Background()
	h := newTestHost(t)

	t.Run("write creates parent directories", func(t *testing.T) {
		require.NoError(t, h.WriteFile(ctx, "nested/deep/file.txt", "payload"))

		content, err := h.ReadFile(ctx, "nested/deep/file.txt")
		require.NoError(t, err)
		assert.Equal(t, "payload", content)

		raw, err := os.ReadFile(filepath.Join(h.WorkspaceRoot(), "nested", "deep", "file.txt"))
		require.NoError(t, err)
		assert.Equal(t, "payload", string(raw))
	})

	t.Run("overwrite replaces content", func(t *testing.T) {
		require.NoError(t, h.WriteFile(ctx, "twice.txt", "first"))
		require.NoError(t, h.WriteFile(ctx, "twice.txt", "second"))

		content, err := h.ReadFile(ctx, "twice.txt")
		require.NoError(t, err)
		assert.Equal(t, "second", content)
	})

	t.Run("missing file error hides the absolute root", func(t *testing.T) {
		_, err := h.ReadFile(ctx, "missing.txt")
		require.ErrorIs(t, err, fs.ErrNotExist)
		assert.Contains(t, err.Error(), "missing.txt")
		assert.NotContains(t, err.Error(), h.WorkspaceRoot())
	})
}

func TestStat(t *testing.T) {
	ctx := context.Background()
	h := newTestHost(t)
	require.NoError(t, h.WriteFile(ctx, "a.txt", "abc"))

	st, err := h.Stat(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.Size)
	assert.False(t, st.IsDir)
	assert.Positive(t, st.MtimeMs)

	require.NoError(t, h.WriteFile(ctx, "sub/b.txt", "x"))
	st, err = h.Stat(ctx, "sub")
	require.NoError(t, err)
	assert.True(t, st.IsDir)

	_, err = h.Stat(ctx, "nope")
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestListDir(t *testing.T) {
	ctx := context.Background()
	h := newTestHost(t)
	require.NoError(t, h.WriteFile(ctx, "b.txt", "bb"))
	require.NoError(t, h.WriteFile(ctx, "a.txt", "a"))
	require.NoError(t, h.WriteFile(ctx, "sub/child.txt", "x"))

	entries, err := h.ListDir(ctx, ".")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "a.txt", entries[0].Name)
	assert.Equal(t, int64(1), entries[0].Size)
	assert.False(t, entries[0].IsDir)
	assert.Equal(t, "b.txt", entries[1].Name)
	assert.Equal(t, int64(2), entries[1].Size)
	assert.Equal(t, "sub", entries[2].Name)
	assert.True(t, entries[2].IsDir)

	_, err = h.ListDir(ctx, "a.txt")
	require.Error(t, err)

	_, err = h.ListDir(ctx, "ghost")
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestDeletePath(t *testing.T) {
	ctx := context.Background()
	h := newTestHost(t)

	t.Run("file", func(t *testing.T) {
		require.NoError(t, h.WriteFile(ctx, "gone.txt", "x"))
		require.NoError(t, h.DeletePath(ctx, "gone.txt"))

		_, err := h.Stat(ctx, "gone.txt")
		require.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("directory with contents", func(t *testing.T) {
		require.NoError(t, h.WriteFile(ctx, "dir/a.txt", "x"))
		require.NoError(t, h.WriteFile(ctx, "dir/sub/b.txt", "y"))
		require.NoError(t, h.DeletePath(ctx, "dir"))

		_, err := h.Stat(ctx, "dir")
		require.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("missing path errors", func(t *testing.T) {
		err := h.DeletePath(ctx, "never-existed")
		require.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("workspace root protected", func(t *testing.T) {
		err := h.DeletePath(ctx, ".")
		require.ErrorContains(t, err, "workspace root")
	})
}

func TestAsRelativePath(t *testing.T) {
	h := newTestHost(t)

	inside := filepath.Join(h.WorkspaceRoot(), "pkg", "main.go")
	assert.Equal(t, "pkg/main.go", h.AsRelativePath(inside))

	assert.Equal(t, "/somewhere/else.go", h.AsRelativePath("/somewhere/else.go"))
	assert.Equal(t, "already/relative.go", h.AsRelativePath("already/relative.go"))
	assert.Equal(t, ".", h.AsRelativePath(h.WorkspaceRoot()))
}

func TestActiveEditorPath(t *testing.T) {
	h := newTestHost(t)
	assert.Empty(t, h.ActiveEditorPath())

	h.SetActiveEditorPath("cmd/main.go")
	assert.Equal(t, "cmd/main.go", h.ActiveEditorPath())

	h.SetActiveEditorPath("")
	assert.Empty(t, h.ActiveEditorPath())
}
