package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/pkg/agent"
)

func TestTerminalTool(t *testing.T) {
	tool := newTerminalTool()

	t.Run("returns combined output", func(t *testing.T) {
		host := newFakeHost(nil)
		host.cmdResult = &agent.CommandResult{Output: "hello\n", ExitCode: 0}
		res := execute(t, tool, host, map[string]any{"command": "echo hello"})
		assert.Empty(t, res.Error)
		assert.Equal(t, "hello", res.Output)
		assert.Equal(t, []string{"echo hello"}, host.commands)
	})

	t.Run("nonzero exit stays on output with the code appended", func(t *testing.T) {
		host := newFakeHost(nil)
		host.cmdResult = &agent.CommandResult{Output: "no tests to run\n", ExitCode: 1}
		res := execute(t, tool, host, map[string]any{"command": "go test ./..."})
		assert.Empty(t, res.Error)
		assert.Contains(t, res.Output, "no tests to run")
		assert.Contains(t, res.Output, "(exit code 1)")
	})

	t.Run("timeout is a failure", func(t *testing.T) {
		host := newFakeHost(nil)
		host.cmdResult = &agent.CommandResult{Output: "partial", TimedOut: true}
		res := execute(t, tool, host, map[string]any{"command": "sleep 600"})
		assert.Contains(t, res.Error, "partial")
		assert.Contains(t, res.Error, "timed out after 30s")
	})

	t.Run("timeout override is capped", func(t *testing.T) {
		host := newFakeHost(nil)
		host.cmdResult = &agent.CommandResult{Output: "", TimedOut: true}
		res := execute(t, tool, host, map[string]any{"command": "sleep 600", "timeout_seconds": 9999})
		assert.Contains(t, res.Error, "timed out after 5m0s")
	})

	t.Run("blank command rejected", func(t *testing.T) {
		host := newFakeHost(nil)
		res := execute(t, tool, host, map[string]any{"command": "   "})
		assert.Contains(t, res.Error, "command must not be empty")
		assert.Empty(t, host.commands)
	})

	t.Run("empty output placeholder", func(t *testing.T) {
		host := newFakeHost(nil)
		host.cmdResult = &agent.CommandResult{Output: "", ExitCode: 0}
		res := execute(t, tool, host, map[string]any{"command": "true"})
		assert.Equal(t, "(no output)", res.Output)
	})
}

func TestRunSubagentToolIsDispatcherRouted(t *testing.T) {
	tool := newRunSubagentTool()
	assert.Equal(t, agent.ToolKindSubAgent, tool.Kind())

	res, err := tool.Execute(context.Background(), newFakeHost(nil), map[string]any{"task": "map the config loader"})
	require.ErrorIs(t, err, ErrSubAgentNotRoutable)
	assert.Nil(t, res)
}
