package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/pkg/agent"
)

func execute(t *testing.T, tool agent.Tool, host agent.HostEnvironment, args map[string]any) *agent.ToolResult {
	t.Helper()
	res, err := tool.Execute(context.Background(), host, args)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func TestReadFile(t *testing.T) {
	host := newFakeHost(map[string]string{
		"main.go": "package main\n\nfunc main() {}\n",
	})
	tool := newReadFileTool()

	t.Run("numbers lines", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"path": "main.go"})
		assert.Empty(t, res.Error)
		assert.Contains(t, res.Output, "1\tpackage main")
		assert.Contains(t, res.Output, "3\tfunc main() {}")
		assert.NotContains(t, res.Output, "[Showing")
	})

	t.Run("offset and limit page through", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"path": "main.go", "offset": 3, "limit": 1})
		assert.Contains(t, res.Output, "3\tfunc main() {}")
		assert.NotContains(t, res.Output, "package main")
	})

	t.Run("partial read appends continuation hint", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"path": "main.go", "limit": 1})
		assert.Contains(t, res.Output, "[Showing lines 1-1 of 3. Continue with offset=2.]")
	})

	t.Run("offset beyond end of file", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"path": "main.go", "offset": 50})
		assert.Contains(t, res.Error, "beyond the end")
	})

	t.Run("missing file reported on result", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"path": "nope.go"})
		assert.Contains(t, res.Error, "nope.go")
	})

	t.Run("empty file named as such", func(t *testing.T) {
		host := newFakeHost(map[string]string{"blank.txt": ""})
		res := execute(t, tool, host, map[string]any{"path": "blank.txt"})
		assert.Empty(t, res.Error)
		assert.Equal(t, "blank.txt is empty", res.Output)
	})

	t.Run("directory rejected", func(t *testing.T) {
		host := newFakeHost(map[string]string{"pkg/a.go": "x"})
		res := execute(t, tool, host, map[string]any{"path": "pkg"})
		assert.Contains(t, res.Error, "directory")
	})

	t.Run("binary content rejected", func(t *testing.T) {
		host := newFakeHost(map[string]string{"blob.bin": "ab\x00cd"})
		res := execute(t, tool, host, map[string]any{"path": "blob.bin"})
		assert.Contains(t, res.Error, "binary")
	})

	t.Run("missing required path argument", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{})
		assert.Contains(t, res.Error, "invalid arguments for read_file")
		assert.Contains(t, res.Error, "path")
	})
}

func TestReadManyFiles(t *testing.T) {
	host := newFakeHost(map[string]string{
		"a.go": "package a\n",
		"b.go": "package b\n",
	})
	res := execute(t, newReadManyFilesTool(), host, map[string]any{
		"paths": []any{"a.go", "missing.go", "b.go"},
	})

	assert.Contains(t, res.Output, "=== a.go ===")
	assert.Contains(t, res.Output, "=== b.go ===")
	assert.Contains(t, res.Output, "=== missing.go ===")
	assert.Contains(t, res.Output, "[error:")
	assert.Contains(t, res.Output, "package a")
}

func TestListDir(t *testing.T) {
	host := newFakeHost(map[string]string{
		"a.go":                 "package a",
		"pkg/b.go":             "package b",
		"pkg/sub/c.go":         "package c",
		"node_modules/dep.js":  "x",
		"node_modules/more.js": "y",
	})
	tool := newListDirTool()

	t.Run("depth one lists children only", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{})
		assert.Contains(t, res.Output, "pkg/")
		assert.Contains(t, res.Output, "a.go")
		assert.NotContains(t, res.Output, "b.go")
	})

	t.Run("depth two descends but skips dependency dirs", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"depth": 2})
		assert.Contains(t, res.Output, "b.go")
		assert.Contains(t, res.Output, "sub/")
		assert.NotContains(t, res.Output, "c.go")
		assert.Contains(t, res.Output, "node_modules/")
		assert.NotContains(t, res.Output, "dep.js")
	})

	t.Run("missing directory", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"path": "ghost"})
		assert.NotEmpty(t, res.Error)
	})
}

func TestFileStat(t *testing.T) {
	host := newFakeHost(map[string]string{"pkg/a.go": "abc"})
	tool := newFileStatTool()

	res := execute(t, tool, host, map[string]any{"path": "pkg/a.go"})
	assert.Contains(t, res.Output, "file, 3B")

	res = execute(t, tool, host, map[string]any{"path": "pkg"})
	assert.Contains(t, res.Output, "directory, 1 entries")

	res = execute(t, tool, host, map[string]any{"path": "ghost"})
	assert.NotEmpty(t, res.Error)
}

func TestWorkspaceOverview(t *testing.T) {
	host := newFakeHost(map[string]string{
		"go.mod":       "module example\n",
		"main.go":      "package main\n",
		"pkg/util.go":  "package pkg\n",
		"README.md":    "# hi\n",
		"docs/spec.md": "spec\n",
	})
	res := execute(t, newWorkspaceOverviewTool(), host, map[string]any{})

	assert.Contains(t, res.Output, "Workspace: /work")
	assert.Contains(t, res.Output, "pkg/")
	assert.Contains(t, res.Output, "Project markers: go.mod")
	assert.Contains(t, res.Output, "5 files")
	assert.Contains(t, res.Output, ".go ×2")
	assert.Contains(t, res.Output, ".md ×2")
}
