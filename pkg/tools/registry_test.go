package tools

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/pkg/agent"
)

func TestBuiltinRegistry(t *testing.T) {
	reg := Builtin()

	t.Run("covers the full surface", func(t *testing.T) {
		names := reg.Names()
		assert.Len(t, names, 17)
		assert.True(t, sort.StringsAreSorted(names))
		for _, name := range []string{"read_file", "search", "write", "edit", "terminal", "run_subagent"} {
			_, ok := reg.Lookup(name)
			assert.True(t, ok, "missing %s", name)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		_, ok := reg.Lookup("teleport")
		assert.False(t, ok)
	})

	t.Run("definitions preserve order and skip unknowns", func(t *testing.T) {
		defs := reg.Definitions([]string{"search", "teleport", "read_file"})
		require.Len(t, defs, 2)
		assert.Equal(t, "search", defs[0].Name)
		assert.Equal(t, "read_file", defs[1].Name)
	})

	t.Run("kinds route to the right buckets", func(t *testing.T) {
		kinds := map[string]agent.ToolKind{
			"read_file":    agent.ToolKindRead,
			"search":       agent.ToolKindRead,
			"write":        agent.ToolKindWrite,
			"edit":         agent.ToolKindWrite,
			"delete_path":  agent.ToolKindWrite,
			"terminal":     agent.ToolKindTerminal,
			"run_subagent": agent.ToolKindSubAgent,
		}
		for name, want := range kinds {
			tool, ok := reg.Lookup(name)
			require.True(t, ok)
			assert.Equal(t, want, tool.Kind(), name)
		}
	})

	t.Run("only pure reads are cacheable", func(t *testing.T) {
		cacheable := func(name string) bool {
			tool, ok := reg.Lookup(name)
			require.True(t, ok)
			return tool.Cacheable()
		}
		assert.True(t, cacheable("read_file"))
		assert.True(t, cacheable("search"))
		assert.True(t, cacheable("workspace_overview"))
		assert.False(t, cacheable("diagnostics"), "diagnostics change as files are written")
		assert.False(t, cacheable("write"))
		assert.False(t, cacheable("terminal"))
		assert.False(t, cacheable("run_subagent"))
	})
}

func TestRegisterReplacesByName(t *testing.T) {
	reg := NewRegistry(newReadFileTool())
	replacement := newTool("read_file", "replacement", agent.ToolKindRead, false,
		func(ctx context.Context, host agent.HostEnvironment, args readFileArgs) (*agent.ToolResult, error) {
			return &agent.ToolResult{Output: "replaced"}, nil
		})
	reg.Register(replacement)

	assert.Len(t, reg.Names(), 1)
	tool, ok := reg.Lookup("read_file")
	require.True(t, ok)
	assert.Equal(t, "replacement", tool.Definition().Description)
}

func TestParameterSchemas(t *testing.T) {
	reg := Builtin()

	t.Run("schema declares properties and required", func(t *testing.T) {
		tool, ok := reg.Lookup("read_file")
		require.True(t, ok)

		var schema map[string]any
		require.NoError(t, json.Unmarshal([]byte(tool.Definition().ParametersSchema), &schema))
		assert.Equal(t, "object", schema["type"])

		props, ok := schema["properties"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, props, "path")
		assert.Contains(t, props, "offset")

		required, ok := schema["required"].([]any)
		require.True(t, ok)
		assert.Contains(t, required, "path")
		assert.NotContains(t, required, "offset")
	})

	t.Run("every schema parses as JSON", func(t *testing.T) {
		for _, name := range reg.Names() {
			tool, _ := reg.Lookup(name)
			var schema map[string]any
			require.NoError(t, json.Unmarshal([]byte(tool.Definition().ParametersSchema), &schema), name)
			assert.Equal(t, "object", schema["type"], name)
		}
	})
}
