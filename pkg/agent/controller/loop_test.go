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

func TestRunSingleReadThenComplete(t *testing.T) {
	backend := &scriptedBackend{turns: []scriptTurn{
		stream(
			thinking("I should look at the file first."),
			nativeCall("read_file", map[string]any{"path": "main.go"}),
			done(100, 20),
		),
		stream(text("The file defines package main. [TASK_COMPLETE]"), done(150, 30)),
	}}
	host := newMemHost(map[string]string{"main.go": "package main\n\nfunc main() {}\n"})
	bus := &recordingBus{}
	lc := newTestLoop(t, config.ModeExplore, "summarize main.go", backend, host, bus)

	result := NewEngine(lc, nil).Run(context.Background())

	require.Equal(t, agent.TurnStatusCompleted, result.Status)
	assert.Equal(t, 2, result.Iterations)
	assert.Equal(t, "The file defines package main.", result.FinalMessage)
	assert.Empty(t, result.FilesChanged)
	assert.Equal(t, 250, result.TokensUsed.PromptTokens)
	assert.Equal(t, 50, result.TokensUsed.CompletionTokens)

	require.Equal(t, 2, backend.requestCount())
	first := backend.request(t, 0)
	require.Len(t, first.Messages, 2)
	assert.Equal(t, agent.RoleSystem, first.Messages[0].Role)
	assert.Equal(t, "summarize main.go", first.Messages[1].Content)
	assert.NotEmpty(t, first.Tools)

	second := backend.request(t, 1)
	require.Len(t, second.Messages, 5)
	assert.Equal(t, agent.RoleAssistant, second.Messages[2].Role)
	require.Len(t, second.Messages[2].ToolCalls, 1)
	assert.Equal(t, agent.RoleTool, second.Messages[3].Role)
	assert.Equal(t, "read_file", second.Messages[3].ToolName)
	assert.Contains(t, second.Messages[3].Content, "package main")
	packet := lastUserContent(t, second)
	assert.Contains(t, packet, "<agent_control>")
	assert.Contains(t, packet, `"state":"need_tools"`)

	assert.Len(t, bus.posted(events.EventIterationBoundary), 2)
	assert.Len(t, bus.posted(events.EventTokenUsage), 2)
	actions := bus.emitted(events.EventShowToolAction)
	require.NotEmpty(t, actions)
	last := actions[len(actions)-1].(events.ToolActionPayload)
	assert.Equal(t, "read_file", last.Tool)
	assert.Equal(t, events.ToolActionSuccess, last.Status)
	// Streamed text already covered the final message.
	assert.Empty(t, bus.posted(events.EventFinalMessage))
}

func TestRunTextModeToolFlow(t *testing.T) {
	backend := &scriptedBackend{
		capability: &agent.ModelCapability{Name: "qwen2:7b", ContextLength: 8192},
		turns: []scriptTurn{
			stream(
				text("I'll read it.\n<tool_call>{\"name\": \"read_file\", \"arguments\": {\"path\": \"main.go\"}}</tool_call>"),
				done(80, 40),
			),
			stream(text("main.go declares package main. [TASK_COMPLETE]"), done(120, 25)),
		},
	}
	host := newMemHost(map[string]string{"main.go": "package main\n"})
	bus := &recordingBus{}
	lc := newTestLoop(t, config.ModeExplore, "describe main.go", backend, host, bus)

	result := NewEngine(lc, nil).Run(context.Background())

	require.Equal(t, agent.TurnStatusCompleted, result.Status)
	assert.Equal(t, "I'll read it.\n\nmain.go declares package main.", result.FinalMessage)

	second := backend.request(t, 1)
	assert.Empty(t, second.Tools)
	require.Len(t, second.Messages, 4)

	turn := second.Messages[2]
	assert.Equal(t, agent.RoleAssistant, turn.Role)
	assert.Empty(t, turn.ToolCalls)
	assert.Equal(t, "I'll read it.\n\n[Called: read_file(main.go)]", turn.Content)

	feedback := second.Messages[3]
	assert.Equal(t, agent.RoleUser, feedback.Role)
	assert.Contains(t, feedback.Content, "[read_file main.go result]")
	assert.Contains(t, feedback.Content, "package main")
	assert.Contains(t, feedback.Content, "<agent_control>")
}

func TestRunWriteThenDiagnosticsGate(t *testing.T) {
	backend := &scriptedBackend{turns: []scriptTurn{
		stream(
			nativeCall("write", map[string]any{"path": "main.go", "content": "package main // entry\n"}),
			done(200, 40),
		),
		stream(text("Comment added. [TASK_COMPLETE]"), done(260, 20)),
		stream(text("Fixed up and done. [TASK_COMPLETE]"), done(300, 20)),
	}}
	host := newMemHost(map[string]string{"main.go": "package main\n"})
	host.setDiagnostics("main.go", agent.Diagnostic{
		Path: "main.go", Line: 1, Severity: agent.DiagnosticError, Message: "expected declaration",
	})
	bus := &recordingBus{}
	lc := newTestLoop(t, config.ModeDeepExploreWrite, "add a doc comment to main.go", backend, host, bus)

	result := NewEngine(lc, nil).Run(context.Background())

	require.Equal(t, agent.TurnStatusCompleted, result.Status)
	assert.Equal(t, 3, result.Iterations)
	assert.Equal(t, []string{"main.go"}, result.FilesChanged)
	assert.True(t, strings.HasPrefix(result.FinalMessage, "**1 file modified**"))

	content, ok := host.content("main.go")
	require.True(t, ok)
	assert.Equal(t, "package main // entry\n", content)

	// The first completion claim bounced off the diagnostics check.
	rejection := lastUserContent(t, backend.request(t, 2))
	assert.Contains(t, rejection, "[AUTO-DIAGNOSTICS]")
	assert.Contains(t, rejection, "expected declaration")

	files := bus.emitted(events.EventFilesChanged)
	require.Len(t, files, 1)
	payload := files[0].(events.FilesChangedPayload)
	require.Len(t, payload.Files, 1)
	assert.Equal(t, "main.go", payload.Files[0].Path)
}

func TestRunDeniedTerminalThenDedup(t *testing.T) {
	backend := &scriptedBackend{turns: []scriptTurn{
		stream(nativeCall("terminal", map[string]any{"command": "rm -rf build"}), done(90, 15)),
		stream(nativeCall("terminal", map[string]any{"command": "rm -rf build"}), done(130, 15)),
		stream(text("[TASK_COMPLETE]"), done(150, 5)),
		stream(text("Nothing needed running after all. [TASK_COMPLETE]"), done(170, 10)),
	}}
	host := newMemHost(nil)
	bus := &recordingBus{}
	gate := dispatch.NewApprovalGate()
	bus.onEvent = func(ev events.Event) {
		if req, ok := ev.(events.ApprovalRequestPayload); ok {
			gate.HandleResponse(req.ApprovalID, false, "")
		}
	}
	lc := newTestLoop(t, config.ModeAgent, "run the cleanup script", backend, host, bus)

	result := NewEngine(lc, gate).Run(context.Background())

	require.Equal(t, agent.TurnStatusCompleted, result.Status)
	assert.Equal(t, 4, result.Iterations)
	assert.Empty(t, host.commandLog(), "denied command must never execute")

	requests := bus.emitted(events.EventApprovalRequest)
	require.Len(t, requests, 1)
	assert.Equal(t, "rm -rf build", requests[0].(events.ApprovalRequestPayload).Command)
	results := bus.emitted(events.EventApprovalResult)
	require.Len(t, results, 1)
	assert.False(t, results[0].(events.ApprovalResultPayload).Approved)

	// The denial went back to the model as a tool result plus need_fixes.
	second := backend.request(t, 1)
	var toolMsg *agent.ConversationMessage
	for i := range second.Messages {
		if second.Messages[i].Role == agent.RoleTool {
			toolMsg = &second.Messages[i]
		}
	}
	require.NotNil(t, toolMsg)
	assert.Equal(t, agent.DenialHint, toolMsg.Content)
	assert.Contains(t, lastUserContent(t, second), `"state":"need_fixes"`)

	// The repeat was dropped by the signature window.
	assert.Contains(t, lastUserContent(t, backend.request(t, 2)), "Every remaining call repeated")

	// The first completion claim got the run-verb nudge, the second passed.
	assert.Contains(t, lastUserContent(t, backend.request(t, 3)), "no command was executed")
}

func TestRunCancellationMidThinking(t *testing.T) {
	backend := &scriptedBackend{turns: []scriptTurn{
		{chunks: []agent.Chunk{thinking("Let me think about this carefully.")}, block: true},
	}}
	bus := &recordingBus{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus.onEvent = func(ev events.Event) {
		if _, ok := ev.(events.StreamThinkingPayload); ok {
			cancel()
		}
	}
	lc := newTestLoop(t, config.ModeExplore, "explore the repo", backend, newMemHost(nil), bus)

	result := NewEngine(lc, nil).Run(ctx)

	require.Equal(t, agent.TurnStatusCancelled, result.Status)
	assert.NoError(t, result.Error)
	assert.Empty(t, result.FinalMessage)

	// The spinner is cleared and the partial thinking survives on the
	// timeline even though the turn died mid-stream.
	assert.Len(t, bus.posted(events.EventHideThinking), 1)
	blocks := bus.emitted(events.EventThinkingBlock)
	require.Len(t, blocks, 1)
	assert.Equal(t, "Let me think about this carefully.", blocks[0].(events.ThinkingBlockPayload).Content)
	assert.Empty(t, bus.posted(events.EventFinalMessage))
}

func TestRunModelFailureRetriesThenAborts(t *testing.T) {
	backend := &scriptedBackend{turns: []scriptTurn{
		{err: errors.New("model exploded")},
		{err: errors.New("model exploded")},
	}}
	bus := &recordingBus{}
	lc := newTestLoop(t, config.ModeExplore, "explore the repo", backend, newMemHost(nil), bus)

	result := NewEngine(lc, nil).Run(context.Background())

	require.Equal(t, agent.TurnStatusError, result.Status)
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "model call failed 2 times in a row")

	// The first failure was fed back verbatim for a retry.
	require.Equal(t, 2, backend.requestCount())
	assert.Equal(t, "Error from previous attempt: model exploded. Please try again.",
		lastUserContent(t, backend.request(t, 1)))

	errs := bus.emitted(events.EventShowError)
	require.Len(t, errs, 1)
	payload := errs[0].(events.ShowErrorPayload)
	assert.Equal(t, "model exploded", payload.Message)
	assert.Equal(t, "model_call", payload.Phase)
	assert.Equal(t, 2, payload.Iteration)
	assert.Empty(t, bus.posted(events.EventFinalMessage))
}

func TestRunTruncatedResponseContinues(t *testing.T) {
	backend := &scriptedBackend{turns: []scriptTurn{
		stream(text("First half of the explanation"), doneLength(100, 256)),
		stream(text("and the second half. [TASK_COMPLETE]"), done(160, 40)),
	}}
	bus := &recordingBus{}
	lc := newTestLoop(t, config.ModeExplore, "explain the design", backend, newMemHost(nil), bus)

	result := NewEngine(lc, nil).Run(context.Background())

	require.Equal(t, agent.TurnStatusCompleted, result.Status)
	assert.Equal(t, "First half of the explanation\n\nand the second half.", result.FinalMessage)

	second := backend.request(t, 1)
	require.Len(t, second.Messages, 4)
	assert.Equal(t, agent.RoleAssistant, second.Messages[2].Role)
	assert.Equal(t, "First half of the explanation", second.Messages[2].Content)
	assert.Equal(t,
		"Your previous response was cut off at the output limit. Continue exactly where you left off without repeating yourself.",
		lastUserContent(t, second))
}

func TestRunNoToolStreakConcludes(t *testing.T) {
	backend := &scriptedBackend{turns: []scriptTurn{
		stream(text("It looks like a Go service."), done(50, 10)),
		stream(text("I already described what I found."), done(70, 10)),
		stream(text("There is nothing further to inspect."), done(90, 10)),
	}}
	bus := &recordingBus{}
	lc := newTestLoop(t, config.ModeExplore, "what is this repo", backend, newMemHost(nil), bus)

	result := NewEngine(lc, nil).Run(context.Background())

	require.Equal(t, agent.TurnStatusCompleted, result.Status)
	assert.Equal(t, 3, result.Iterations)
	assert.Equal(t,
		"It looks like a Go service.\n\nI already described what I found.\n\nThere is nothing further to inspect.",
		result.FinalMessage)

	// Each tool-free turn before the cutoff got a need_tools probe.
	for _, i := range []int{1, 2} {
		probe := lastUserContent(t, backend.request(t, i))
		assert.Contains(t, probe, `"state":"need_tools"`)
	}
}

func TestRunRecoversMangledToolCall(t *testing.T) {
	backend := &scriptedBackend{turns: []scriptTurn{
		{chunks: []agent.Chunk{
			thinking("Searching for the budget logic."),
			&agent.ErrorChunk{Message: `error parsing tool call: raw='{"name": "search", "arguments": {"query": "budget"}}'`},
			done(110, 30),
		}},
		stream(text("No budget references here. [TASK_COMPLETE]"), done(140, 20)),
	}}
	host := newMemHost(map[string]string{"main.go": "package main\n"})
	bus := &recordingBus{}
	lc := newTestLoop(t, config.ModeExplore, "find the budget logic", backend, host, bus)

	result := NewEngine(lc, nil).Run(context.Background())

	require.Equal(t, agent.TurnStatusCompleted, result.Status)
	require.Equal(t, 2, backend.requestCount())

	// The mangled call was rebuilt and executed like a normal one.
	second := backend.request(t, 1)
	var toolMsg *agent.ConversationMessage
	for i := range second.Messages {
		if second.Messages[i].Role == agent.RoleTool {
			toolMsg = &second.Messages[i]
		}
	}
	require.NotNil(t, toolMsg)
	assert.Equal(t, "search", toolMsg.ToolName)
}

func TestRunIterationBudgetForcesSummary(t *testing.T) {
	backend := &scriptedBackend{turns: []scriptTurn{
		stream(nativeCall("read_file", map[string]any{"path": "main.go"}), done(100, 20)),
		stream(text("Out of budget; here is what I know."), done(130, 30)),
	}}
	host := newMemHost(map[string]string{"main.go": "package main\n"})
	bus := &recordingBus{}
	lc := newTestLoop(t, config.ModeExplore, "audit the repo", backend, host, bus)
	lc.Executor.MaxIterations = 2

	result := NewEngine(lc, nil).Run(context.Background())

	require.Equal(t, agent.TurnStatusCompleted, result.Status)
	assert.Equal(t, 2, result.Iterations)
	assert.Equal(t, "Out of budget; here is what I know.", result.FinalMessage)
	require.Equal(t, 2, backend.requestCount())

	// With one iteration left the control packet demands a wrap-up.
	packet := lastUserContent(t, backend.request(t, 1))
	assert.Contains(t, packet, `"state":"need_summary"`)
	assert.Contains(t, packet, "This is your final step.")
}
