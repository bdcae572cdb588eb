package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTool(t *testing.T) {
	host := newFakeHost(map[string]string{"old.txt": "before"})
	tool := newWriteTool()

	t.Run("creates a new file", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"path": "new.txt", "content": "hello\nworld\n"})
		assert.Empty(t, res.Error)
		assert.Contains(t, res.Output, "Created new.txt (2 lines")
		assert.Equal(t, "hello\nworld\n", host.files["new.txt"])
	})

	t.Run("overwrites an existing file", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"path": "old.txt", "content": "after"})
		assert.Contains(t, res.Output, "Updated old.txt")
		assert.Equal(t, "after", host.files["old.txt"])
	})

	t.Run("refuses a directory target", func(t *testing.T) {
		host := newFakeHost(map[string]string{"pkg/a.go": "x"})
		res := execute(t, tool, host, map[string]any{"path": "pkg", "content": "x"})
		assert.Contains(t, res.Error, "directory")
	})
}

func TestEditTool(t *testing.T) {
	tool := newEditTool()

	t.Run("exact unique replacement", func(t *testing.T) {
		host := newFakeHost(map[string]string{"a.go": "func Foo() int {\n\treturn 1\n}\n"})
		res := execute(t, tool, host, map[string]any{
			"path":     "a.go",
			"old_text": "return 1",
			"new_text": "return 2",
		})
		assert.Empty(t, res.Error)
		assert.Contains(t, res.Output, "Edited a.go: 1 replacement(s)")
		assert.Equal(t, "func Foo() int {\n\treturn 2\n}\n", host.files["a.go"])
	})

	t.Run("ambiguous match rejected", func(t *testing.T) {
		host := newFakeHost(map[string]string{"a.txt": "x = 1\nx = 1\n"})
		res := execute(t, tool, host, map[string]any{
			"path":     "a.txt",
			"old_text": "x = 1",
			"new_text": "x = 2",
		})
		assert.Contains(t, res.Error, "2 times")
		assert.Equal(t, "x = 1\nx = 1\n", host.files["a.txt"])
	})

	t.Run("replace_all replaces every occurrence", func(t *testing.T) {
		host := newFakeHost(map[string]string{"a.txt": "x = 1\nx = 1\n"})
		res := execute(t, tool, host, map[string]any{
			"path":        "a.txt",
			"old_text":    "x = 1",
			"new_text":    "x = 2",
			"replace_all": true,
		})
		assert.Contains(t, res.Output, "2 replacement(s)")
		assert.Equal(t, "x = 2\nx = 2\n", host.files["a.txt"])
	})

	t.Run("smart quotes in old_text still match", func(t *testing.T) {
		host := newFakeHost(map[string]string{"msg.go": `greet := "hello"` + "\n"})
		res := execute(t, tool, host, map[string]any{
			"path":     "msg.go",
			"old_text": "greet := “hello”",
			"new_text": `greet := "goodbye"`,
		})
		assert.Empty(t, res.Error)
		assert.Contains(t, res.Output, "normalizing typographic characters")
		assert.Equal(t, `greet := "goodbye"`+"\n", host.files["msg.go"])
	})

	t.Run("windows line endings matched", func(t *testing.T) {
		host := newFakeHost(map[string]string{"w.txt": "alpha\r\nbeta\r\ngamma\r\n"})
		res := execute(t, tool, host, map[string]any{
			"path":     "w.txt",
			"old_text": "alpha\nbeta",
			"new_text": "one\ntwo",
		})
		assert.Empty(t, res.Error)
		assert.Contains(t, res.Output, "Windows line endings")
		assert.Equal(t, "one\r\ntwo\r\ngamma\r\n", host.files["w.txt"])
	})

	t.Run("not found suggests a re-read", func(t *testing.T) {
		host := newFakeHost(map[string]string{"a.txt": "content\n"})
		res := execute(t, tool, host, map[string]any{
			"path":     "a.txt",
			"old_text": "missing",
			"new_text": "x",
		})
		assert.Contains(t, res.Error, "not found")
		assert.Contains(t, res.Error, "a.txt")
	})

	t.Run("identical texts rejected", func(t *testing.T) {
		host := newFakeHost(map[string]string{"a.txt": "x\n"})
		res := execute(t, tool, host, map[string]any{
			"path":     "a.txt",
			"old_text": "x",
			"new_text": "x",
		})
		assert.Contains(t, res.Error, "identical")
	})
}

func TestApplyEditFuzzyMapping(t *testing.T) {
	// The spliced output must keep the original bytes outside the match:
	// only the matched range is replaced even when normalization shifted
	// byte offsets.
	content := "start — keep\nsay “hi”\nend — keep\n"
	updated, replaced, note, errMsg := applyEdit(content, "say \"hi\"", "say \"bye\"", false)

	require.Empty(t, errMsg)
	assert.Equal(t, 1, replaced)
	assert.NotEmpty(t, note)
	assert.Equal(t, "start — keep\nsay \"bye\"\nend — keep\n", updated)
}

func TestDeletePathTool(t *testing.T) {
	tool := newDeletePathTool()

	t.Run("deletes a file", func(t *testing.T) {
		host := newFakeHost(map[string]string{"a.txt": "x", "b.txt": "y"})
		res := execute(t, tool, host, map[string]any{"path": "a.txt"})
		assert.Equal(t, "Deleted a.txt", res.Output)
		assert.NotContains(t, host.files, "a.txt")
		assert.Contains(t, host.files, "b.txt")
	})

	t.Run("deletes a directory recursively", func(t *testing.T) {
		host := newFakeHost(map[string]string{"tmp/a.txt": "x", "tmp/sub/b.txt": "y", "keep.txt": "z"})
		res := execute(t, tool, host, map[string]any{"path": "tmp"})
		assert.Contains(t, res.Output, "Deleted directory tmp")
		assert.Len(t, host.files, 1)
	})

	t.Run("missing path reported", func(t *testing.T) {
		host := newFakeHost(map[string]string{})
		res := execute(t, tool, host, map[string]any{"path": "ghost"})
		assert.NotEmpty(t, res.Error)
	})
}
