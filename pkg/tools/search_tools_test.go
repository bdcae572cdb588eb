package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearch(t *testing.T) {
	host := newFakeHost(map[string]string{
		"main.go":   "package main\n\nfunc Foo() {}\n",
		"notes.txt": "remember: foo is the entry point\n",
		"pkg/b.go":  "package pkg\n// unrelated\n",
	})
	tool := newSearchTool()

	t.Run("case-insensitive by default", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"query": "foo"})
		assert.Contains(t, res.Output, "main.go:3: func Foo() {}")
		assert.Contains(t, res.Output, "notes.txt:1:")
	})

	t.Run("case-sensitive narrows", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"query": "foo", "case_sensitive": true})
		assert.Contains(t, res.Output, "notes.txt:1:")
		assert.NotContains(t, res.Output, "main.go")
	})

	t.Run("glob filter restricts files", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"query": "foo", "glob": "*.go"})
		assert.Contains(t, res.Output, "main.go:3:")
		assert.NotContains(t, res.Output, "notes.txt")
	})

	t.Run("single file path", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"query": "package", "path": "pkg/b.go"})
		assert.Contains(t, res.Output, "pkg/b.go:1: package pkg")
		assert.NotContains(t, res.Output, "main.go")
	})

	t.Run("no matches", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"query": "zebra"})
		assert.Equal(t, `No matches for "zebra"`, res.Output)
	})

	t.Run("invalid regex reported", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"query": "("})
		assert.Contains(t, res.Error, "invalid regular expression")
	})

	t.Run("result cap appends hint", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"query": ".", "max_results": 2})
		assert.Contains(t, res.Output, "[Results capped at 2 matches")
	})
}

func TestFindFiles(t *testing.T) {
	host := newFakeHost(map[string]string{
		"main.go":          "x",
		"pkg/b.go":         "x",
		"pkg/b_test.go":    "x",
		"docs/readme.md":   "x",
		"web/src/app.tsx":  "x",
		"web/src/app.css":  "x",
		"node_modules/x.go": "x",
	})
	tool := newFindFilesTool()

	t.Run("bare pattern matches at any depth", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"pattern": "*.go"})
		assert.Contains(t, res.Output, "main.go")
		assert.Contains(t, res.Output, "pkg/b.go")
		assert.NotContains(t, res.Output, "node_modules")
	})

	t.Run("doublestar pattern", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"pattern": "**/*_test.go"})
		assert.Contains(t, res.Output, "pkg/b_test.go")
		assert.NotContains(t, res.Output, "main.go")
	})

	t.Run("directory-scoped pattern", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"pattern": "web/src/*.tsx"})
		assert.Equal(t, "web/src/app.tsx", res.Output)
	})

	t.Run("search root restricts walk", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"pattern": "*.go", "path": "pkg"})
		assert.Contains(t, res.Output, "pkg/b.go")
		assert.NotContains(t, res.Output, "main.go")
	})

	t.Run("no matches", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"pattern": "*.rs"})
		assert.Equal(t, `No files match "*.rs"`, res.Output)
	})

	t.Run("invalid glob reported", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"pattern": "[x"})
		assert.Contains(t, res.Error, "invalid glob")
	})
}
