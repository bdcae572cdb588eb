package controller

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/agent/budget"
	"github.com/kiln-dev/kiln/pkg/config"
	"github.com/kiln-dev/kiln/pkg/events"
)

// newBareEngine builds an engine with just enough wiring for the
// compaction and closeout helpers, skipping the full prepare path.
func newBareEngine(t *testing.T, backend *scriptedBackend, bus *recordingBus) *Engine {
	t.Helper()
	lc := newTestLoop(t, config.ModeExplore, "inspect the budget package", backend, newMemHost(nil), bus)
	e := NewEngine(lc, nil)
	e.budgeter = budget.New(nil, lc.ModelConfig, lc.GlobalContextCap, config.DefaultNumPredict)
	e.history = agent.NewConversationHistory("system prompt", "the task")
	return e
}

// fillHistory appends n assistant/user exchange pairs of the given size.
func fillHistory(h *agent.ConversationHistory, pairs, charsEach int) {
	filler := strings.Repeat("x", charsEach)
	for i := 0; i < pairs; i++ {
		h.AddAssistantMessage(fmt.Sprintf("step %d: %s", i, filler), "")
		h.AddContinuation(fmt.Sprintf("result %d: %s", i, filler))
	}
}

func TestCompactHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("too little history is a no-op", func(t *testing.T) {
		backend := &scriptedBackend{}
		e := newBareEngine(t, backend, &recordingBus{})
		fillHistory(e.history, 2, 50) // 6 messages total; cut lands at 0

		result, err := e.compactHistory(ctx)
		require.NoError(t, err)
		assert.Nil(t, result)
		assert.Zero(t, backend.requestCount())
	})

	t.Run("splices a summary over the oldest messages", func(t *testing.T) {
		backend := &scriptedBackend{
			noStream: func(req *agent.ChatRequest) (*agent.ChatResponse, error) {
				require.Len(t, req.Messages, 2)
				assert.Equal(t, "Condense the transcript.", req.Messages[0].Content)
				// The transcript covers only the folded region.
				assert.Contains(t, req.Messages[1].Content, "user: the task")
				assert.Contains(t, req.Messages[1].Content, "step 0")
				assert.NotContains(t, req.Messages[1].Content, "step 4")
				return &agent.ChatResponse{Content: "Read the budget package and traced NumCtx."}, nil
			},
		}
		bus := &recordingBus{}
		e := newBareEngine(t, backend, bus)
		fillHistory(e.history, 5, 400) // 12 messages; cut = 6

		before := e.history.Len()
		result, err := e.compactHistory(ctx)
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Equal(t, 5, result.SummarizedMessages)
		assert.Greater(t, result.TokensBefore, result.TokensAfter)
		assert.Equal(t, before-5+1, e.history.Len())

		msgs := e.history.Messages()
		assert.Equal(t, agent.RoleAssistant, msgs[1].Role)
		assert.True(t, strings.HasPrefix(msgs[1].Content, "Summary of the work so far"))
		assert.Contains(t, msgs[1].Content, "traced NumCtx")

		actions := bus.emitted(events.EventShowToolAction)
		require.Len(t, actions, 1)
		action := actions[0].(events.ToolActionPayload)
		assert.Equal(t, "compact", action.Tool)
		assert.Equal(t, events.ToolActionSuccess, action.Status)
		assert.Equal(t, "Condensed 5 earlier messages", action.Title)
	})

	t.Run("cut never strands native tool results", func(t *testing.T) {
		backend := &scriptedBackend{
			noStream: func(*agent.ChatRequest) (*agent.ChatResponse, error) {
				return &agent.ChatResponse{Content: "condensed"}, nil
			},
		}
		e := newBareEngine(t, backend, &recordingBus{})
		fillHistory(e.history, 2, 200) // indices 2..5
		e.history.AddAssistantToolMessage(agent.AssistantToolTurn{
			ToolCalls: []agent.ToolCall{call("read_file", map[string]any{"path": "a.go"})},
			Native:    true,
		})
		e.history.AddNativeToolResults([]agent.NativeToolResult{
			{Content: "contents of a.go", ToolName: "read_file"},
			{Content: "more", ToolName: "read_file"},
		})
		fillHistory(e.history, 2, 200) // trailing exchanges

		// 13 messages; the naive cut at 7 would land on a tool result,
		// so it advances past both results to 9.
		require.Equal(t, agent.RoleTool, e.history.Messages()[7].Role)

		result, err := e.compactHistory(ctx)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, 8, result.SummarizedMessages)

		// Nothing after the summary dangles without its calling turn.
		for _, m := range e.history.Messages()[2:] {
			if m.Role == agent.RoleTool {
				t.Fatalf("tool result survived without its assistant turn: %q", m.Content)
			}
		}
	})

	t.Run("empty summary is an error and leaves history alone", func(t *testing.T) {
		backend := &scriptedBackend{
			noStream: func(*agent.ChatRequest) (*agent.ChatResponse, error) {
				return &agent.ChatResponse{Content: "   "}, nil
			},
		}
		e := newBareEngine(t, backend, &recordingBus{})
		fillHistory(e.history, 5, 100)

		before := e.history.Len()
		_, err := e.compactHistory(ctx)
		require.Error(t, err)
		assert.Equal(t, before, e.history.Len())
	})

	t.Run("backend failure leaves history alone", func(t *testing.T) {
		backend := &scriptedBackend{
			noStream: func(*agent.ChatRequest) (*agent.ChatResponse, error) {
				return nil, fmt.Errorf("model loading")
			},
		}
		e := newBareEngine(t, backend, &recordingBus{})
		fillHistory(e.history, 5, 100)

		before := e.history.Len()
		_, err := e.compactHistory(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "compaction call failed")
		assert.Equal(t, before, e.history.Len())
	})
}

func TestPrepareIterationCompactsOversizedHistory(t *testing.T) {
	backend := &scriptedBackend{
		noStream: func(*agent.ChatRequest) (*agent.ChatResponse, error) {
			return &agent.ChatResponse{Content: "everything so far, condensed"}, nil
		},
	}
	bus := &recordingBus{}
	e := newBareEngine(t, backend, bus)
	e.state.Current = 2

	// ~15k tokens of history against an 8192-token fallback window.
	fillHistory(e.history, 6, 5000)
	before := e.history.Len()

	e.prepareIteration(context.Background())

	assert.Less(t, e.history.Len(), before)
	require.Len(t, bus.emitted(events.EventShowToolAction), 1)
}

func TestRenderTranscript(t *testing.T) {
	msgs := []agent.ConversationMessage{
		{Role: agent.RoleUser, Content: "fix the loader"},
		{
			Role:      agent.RoleAssistant,
			Content:   "On it.",
			ToolCalls: []agent.ToolCall{call("read_file", map[string]any{"path": "loader.go"})},
		},
		{Role: agent.RoleTool, Content: "package loader", ToolName: "read_file"},
		{Role: agent.RoleAssistant, Content: strings.Repeat("y", compactSourceCap+500)},
	}
	out := renderTranscript(msgs)

	assert.Contains(t, out, "user: fix the loader")
	assert.Contains(t, out, "[Called: read_file(loader.go)]")
	assert.Contains(t, out, "tool:read_file: package loader")
	assert.Contains(t, out, "[... truncated]")
}

func TestTruncateChars(t *testing.T) {
	assert.Equal(t, "short", truncateChars("short", 10))

	long := strings.Repeat("a", 50)
	cut := truncateChars(long, 20)
	assert.True(t, strings.HasSuffix(cut, "[... truncated]"))
	assert.Contains(t, cut, strings.Repeat("a", 20))

	// Cut point backs off to a rune boundary.
	multi := "日本語のテキスト"
	trimmed := truncateChars(multi, 7)
	assert.True(t, strings.HasPrefix(trimmed, "日本"))
	assert.NotContains(t, trimmed, "�")
}
