package controller

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/agent/dispatch"
	"github.com/kiln-dev/kiln/pkg/config"
	"github.com/kiln-dev/kiln/pkg/events"
)

func TestSubAgentRunnerQuarantinesAndReturnsFindings(t *testing.T) {
	backend := &scriptedBackend{turns: []scriptTurn{
		stream(
			thinking("I'll scan the loader."),
			nativeCall("read_file", map[string]any{"path": "loader.go"}),
			done(90, 20),
		),
		stream(text("The loader drops the last chunk. [TASK_COMPLETE]"), done(140, 30)),
	}}
	host := newMemHost(map[string]string{"loader.go": "package loader\n"})
	bus := &recordingBus{}
	parent := newTestLoop(t, config.ModeAgent, "investigate the loader bug", backend, host, bus)

	runner := NewSubAgentRunner(parent)
	findings, err := runner(context.Background(), agent.SubAgentRequest{
		Task: "find where chunks are dropped",
		Mode: "explore",
	})
	require.NoError(t, err)
	assert.Equal(t, "The loader drops the last chunk.", findings)

	// The child loop ran against the parent's backend: the system prompt
	// reflects the sub-agent mode, the task comes from the request.
	first := backend.request(t, 0)
	assert.Equal(t, "You are kiln, a coding agent. Mode: explore.", first.Messages[0].Content)
	assert.Equal(t, "find where chunks are dropped", first.Messages[1].Content)

	// Streamed prose and final messages never reach the parent UI.
	assert.Empty(t, bus.streamedText())
	assert.Empty(t, bus.posted(events.EventFinalMessage))
	assert.Empty(t, bus.posted(events.EventShowThinking))

	// Thinking is downgraded to labelled hints; tool actions pass.
	hints := bus.posted(events.EventSubagentThinking)
	require.NotEmpty(t, hints)
	hint := hints[0].(events.SubagentThinkingPayload)
	assert.Equal(t, "find where chunks are dropped", hint.Task)
	assert.Equal(t, "I'll scan the loader.", hint.Delta)
	assert.NotEmpty(t, bus.emitted(events.EventShowToolAction))
}

func TestSubAgentRunnerCoercesWriteModes(t *testing.T) {
	backend := &scriptedBackend{turns: []scriptTurn{
		stream(
			nativeCall("write", map[string]any{"path": "a.go", "content": "x"}),
			done(60, 10),
		),
		stream(text("Read-only findings. [TASK_COMPLETE]"), done(80, 10)),
	}}
	host := newMemHost(map[string]string{"a.go": "package a\n"})
	bus := &recordingBus{}
	parent := newTestLoop(t, config.ModeAgent, "orchestrate", backend, host, bus)

	runner := NewSubAgentRunner(parent)
	findings, err := runner(context.Background(), agent.SubAgentRequest{
		Task: "try to change a file",
		Mode: "agent",
	})
	require.NoError(t, err)
	assert.Equal(t, "Read-only findings.", findings)

	// The requested mode fell back to explore and the write call was
	// filtered out instead of executed.
	first := backend.request(t, 0)
	assert.Equal(t, "You are kiln, a coding agent. Mode: explore.", first.Messages[0].Content)
	assert.Contains(t, lastUserContent(t, backend.request(t, 1)), "not available in explore mode")
	content, _ := host.content("a.go")
	assert.Equal(t, "package a\n", content)
}

func TestSubAgentRunnerPropagatesErrors(t *testing.T) {
	backend := &scriptedBackend{turns: []scriptTurn{
		{err: errors.New("connection refused")},
		{err: errors.New("connection refused")},
	}}
	parent := newTestLoop(t, config.ModeAgent, "orchestrate", backend, newMemHost(nil), &recordingBus{})

	runner := NewSubAgentRunner(parent)
	findings, err := runner(context.Background(), agent.SubAgentRequest{Task: "explore"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model call failed")
	assert.Empty(t, findings)
}

func TestSubAgentRunnerCancelled(t *testing.T) {
	backend := &scriptedBackend{}
	parent := newTestLoop(t, config.ModeAgent, "orchestrate", backend, newMemHost(nil), &recordingBus{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewSubAgentRunner(parent)
	findings, err := runner(ctx, agent.SubAgentRequest{Task: "explore"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, findings)
}

func TestSubAgentFindingsLadder(t *testing.T) {
	t.Run("streamed text wins", func(t *testing.T) {
		e := newBareEngine(t, &scriptedBackend{}, &recordingBus{})
		e.streamedText = []string{"Found it in loader.go."}
		e.thinkingLog = []string{"reasoning tail"}
		assert.Equal(t, "Found it in loader.go.", e.subAgentFindings())
	})

	t.Run("thinking tail when nothing was written", func(t *testing.T) {
		e := newBareEngine(t, &scriptedBackend{}, &recordingBus{})
		e.thinkingLog = []string{"first pass", "the bug is in flushTo"}
		assert.Equal(t, "first pass\n\nthe bug is in flushTo", e.subAgentFindings())
	})

	t.Run("tool digest as last resort", func(t *testing.T) {
		e := newBareEngine(t, &scriptedBackend{}, &recordingBus{})
		e.toolRecords = []toolRecord{{label: "read_file(a.go)", content: "package a"}}
		assert.Equal(t, "## read_file(a.go)\npackage a", e.subAgentFindings())
	})

	t.Run("empty exploration yields nothing", func(t *testing.T) {
		e := newBareEngine(t, &scriptedBackend{}, &recordingBus{})
		assert.Empty(t, e.subAgentFindings())
	})
}

func TestBuildToolResultsSummaryCaps(t *testing.T) {
	records := []toolRecord{
		{label: "read_file(big.go)", content: strings.Repeat("a", subAgentSummaryCap+1000)},
		{label: "search(later)", content: "never reached"},
	}
	out := buildToolResultsSummary(records)

	assert.Contains(t, out, "## read_file(big.go)")
	assert.Contains(t, out, "[... truncated]")
	assert.NotContains(t, out, "## search(later)")
	assert.Less(t, len(out), subAgentSummaryCap+100)
}

func TestRecordBatchRetainsDataBearingOutputs(t *testing.T) {
	e := newBareEngine(t, &scriptedBackend{}, &recordingBus{})
	e.lc.SubAgent = &agent.SubAgentContext{Task: "dig"}

	batch := &dispatch.BatchResult{Results: []dispatch.CallResult{
		{
			Call:   call("read_file", map[string]any{"path": "a.go"}),
			Result: &agent.ToolResult{Output: "package a"},
		},
		{
			Call:   call("terminal", map[string]any{"command": "ls"}),
			Result: &agent.ToolResult{Output: "a.go"},
		},
		{
			Call:   call("search", map[string]any{"query": "x"}),
			Denied: true,
		},
	}}
	e.recordBatch(context.Background(), 1, batch)

	require.Len(t, e.toolRecords, 1)
	assert.Equal(t, "read_file(a.go)", e.toolRecords[0].label)
	assert.Equal(t, "package a", e.toolRecords[0].content)

	// The denial and the terminal run still count toward the turn
	// accumulators, just not the findings digest.
	assert.True(t, e.ranTerminal)
	assert.Len(t, e.recentCalls, 3)
}
