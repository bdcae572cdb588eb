package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeArgs(t *testing.T) {
	schema := compileSchema("read_file", deriveSchema[readFileArgs]())

	t.Run("valid args decode into the struct", func(t *testing.T) {
		args, err := decodeArgs[readFileArgs]("read_file", schema, map[string]any{
			"path":   "pkg/a.go",
			"offset": float64(3), // JSON numbers arrive as float64
			"limit":  7,
		})
		require.NoError(t, err)
		assert.Equal(t, "pkg/a.go", args.Path)
		assert.Equal(t, 3, args.Offset)
		assert.Equal(t, 7, args.Limit)
	})

	t.Run("missing required property", func(t *testing.T) {
		_, err := decodeArgs[readFileArgs]("read_file", schema, map[string]any{"offset": 1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read_file")
		assert.Contains(t, err.Error(), "path")
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := decodeArgs[readFileArgs]("read_file", schema, map[string]any{"path": 42})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "string")
	})

	t.Run("nil map treated as empty object", func(t *testing.T) {
		_, err := decodeArgs[readFileArgs]("read_file", schema, nil)
		require.Error(t, err) // still fails: path is required
		assert.Contains(t, err.Error(), "path")
	})

	t.Run("extra keys are tolerated", func(t *testing.T) {
		args, err := decodeArgs[readFileArgs]("read_file", schema, map[string]any{
			"path":       "a.go",
			"confidence": 0.9,
		})
		require.NoError(t, err)
		assert.Equal(t, "a.go", args.Path)
	})
}

func TestDecodeArgsEmptySchema(t *testing.T) {
	schema := compileSchema("workspace_overview", deriveSchema[workspaceOverviewArgs]())
	_, err := decodeArgs[workspaceOverviewArgs]("workspace_overview", schema, map[string]any{})
	assert.NoError(t, err)
}
