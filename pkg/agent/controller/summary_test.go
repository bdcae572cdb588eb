package controller

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/pkg/agent"
)

func TestBuildFinalMessageLadder(t *testing.T) {
	ctx := context.Background()

	t.Run("streamed text wins without a model call", func(t *testing.T) {
		backend := &scriptedBackend{}
		e := newBareEngine(t, backend, &recordingBus{})
		e.streamedText = []string{"Found the bug in loader.go.", "It drops the last chunk."}

		msg, fresh := e.buildFinalMessage(ctx, agent.TurnStatusCompleted)
		assert.Equal(t, "Found the bug in loader.go.\n\nIt drops the last chunk.", msg)
		assert.False(t, fresh)
		assert.Zero(t, backend.requestCount())
	})

	t.Run("fallback summary call, sentinel stripped", func(t *testing.T) {
		backend := &scriptedBackend{
			noStream: func(req *agent.ChatRequest) (*agent.ChatResponse, error) {
				assert.Equal(t, "Summarize the turn.", req.Messages[0].Content)
				assert.Contains(t, req.Messages[1].Content, "grep output here")
				return &agent.ChatResponse{Content: "Traced the panic to a nil map. [TASK_COMPLETE]"}, nil
			},
		}
		e := newBareEngine(t, backend, &recordingBus{})
		e.recentOutputs = []string{"grep output here"}

		msg, fresh := e.buildFinalMessage(ctx, agent.TurnStatusCompleted)
		assert.Equal(t, "Traced the panic to a nil map.", msg)
		assert.True(t, fresh)
	})

	t.Run("summary failure degrades to the action list", func(t *testing.T) {
		backend := &scriptedBackend{
			noStream: func(*agent.ChatRequest) (*agent.ChatResponse, error) {
				return nil, fmt.Errorf("model busy")
			},
		}
		e := newBareEngine(t, backend, &recordingBus{})
		e.recentOutputs = []string{"something"}
		e.recentCalls = []string{"read_file(loader.go)", "search(nil map)"}

		msg, fresh := e.buildFinalMessage(ctx, agent.TurnStatusCompleted)
		assert.Equal(t, "Completed the following actions:\n- read_file(loader.go)\n- search(nil map)", msg)
		assert.True(t, fresh)
	})

	t.Run("errored turn gets no summary call and no canned line", func(t *testing.T) {
		backend := &scriptedBackend{}
		e := newBareEngine(t, backend, &recordingBus{})
		e.recentOutputs = []string{"would have fed a summary"}

		msg, fresh := e.buildFinalMessage(ctx, agent.TurnStatusError)
		assert.Empty(t, msg)
		assert.False(t, fresh)
		assert.Zero(t, backend.requestCount())
	})

	t.Run("errored turn still lists what ran", func(t *testing.T) {
		e := newBareEngine(t, &scriptedBackend{}, &recordingBus{})
		e.recentCalls = []string{"search(loader)"}

		msg, fresh := e.buildFinalMessage(ctx, agent.TurnStatusError)
		assert.Equal(t, "Completed the following actions:\n- search(loader)", msg)
		assert.True(t, fresh)
	})

	t.Run("canned line when nothing happened", func(t *testing.T) {
		e := newBareEngine(t, &scriptedBackend{}, &recordingBus{})
		msg, fresh := e.buildFinalMessage(ctx, agent.TurnStatusCompleted)
		assert.Equal(t, "Task completed successfully.", msg)
		assert.True(t, fresh)
	})
}

func TestModelTurnSummaryGuards(t *testing.T) {
	t.Run("no tool outputs means no call", func(t *testing.T) {
		backend := &scriptedBackend{}
		e := newBareEngine(t, backend, &recordingBus{})
		assert.Empty(t, e.modelTurnSummary(context.Background()))
		assert.Zero(t, backend.requestCount())
	})

	t.Run("cancelled context means no call", func(t *testing.T) {
		backend := &scriptedBackend{}
		e := newBareEngine(t, backend, &recordingBus{})
		e.recentOutputs = []string{"output"}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.Empty(t, e.modelTurnSummary(ctx))
		assert.Zero(t, backend.requestCount())
	})
}

func TestMaybeStartTitleGuards(t *testing.T) {
	backend := &scriptedBackend{}
	e := newBareEngine(t, backend, &recordingBus{})

	// No services wired: nothing to check, nothing launched.
	e.maybeStartTitle(context.Background())
	e.background.Wait()
	assert.Zero(t, backend.requestCount())

	// Sub-agents never touch the title either.
	e.lc.SubAgent = &agent.SubAgentContext{Task: "look around"}
	e.maybeStartTitle(context.Background())
	e.background.Wait()
	assert.Zero(t, backend.requestCount())
}

func TestCondenseThinking(t *testing.T) {
	out := condenseThinking([]string{"first I\nlooked   at", "the loader"})
	assert.Equal(t, "first I looked at the loader", out)

	long := condenseThinking([]string{strings.Repeat("word ", 1000)})
	assert.LessOrEqual(t, len(long), condensedThinkingCap+len("..."))
	assert.True(t, strings.HasPrefix(long, "..."))
}

func TestSanitizeTitle(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"clean", "Fix the flaky loader test", "Fix the flaky loader test"},
		{"quoted with period", `  "Refactor config parsing."  `, "Refactor config parsing"},
		{"smart quotes", "“Speed up the indexer”", "Speed up the indexer"},
		{"first line only", "Debug the race\nSecond line of detail", "Debug the race"},
		{"word cap", "one two three four five six seven eight nine ten", "one two three four five six seven eight"},
		{"empty", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sanitizeTitle(tc.in))
		})
	}
}

func TestCallBullet(t *testing.T) {
	t.Run("path outranks query", func(t *testing.T) {
		c := call("read_file", map[string]any{"query": "ignored", "path": "pkg/a.go"})
		assert.Equal(t, "read_file(pkg/a.go)", callBullet(c))
	})

	t.Run("command argument", func(t *testing.T) {
		c := call("terminal", map[string]any{"command": "go test ./..."})
		assert.Equal(t, "terminal(go test ./...)", callBullet(c))
	})

	t.Run("non-string primary is skipped", func(t *testing.T) {
		c := call("read_file", map[string]any{"path": 42, "query": "fallback"})
		assert.Equal(t, "read_file(fallback)", callBullet(c))
	})

	t.Run("no usable argument", func(t *testing.T) {
		c := call("workspace_overview", map[string]any{"depth": 2})
		assert.Equal(t, "workspace_overview", callBullet(c))
	})

	t.Run("long argument is shortened", func(t *testing.T) {
		c := call("search", map[string]any{"query": strings.Repeat("needle ", 20)})
		b := callBullet(c)
		assert.True(t, strings.HasSuffix(b, "...)"))
		assert.Less(t, len(b), 70)
	})
}

func TestToolCallSummary(t *testing.T) {
	calls := []agent.ToolCall{
		call("read_file", map[string]any{"path": "main.go"}),
		call("search", map[string]any{"query": "TODO"}),
	}
	assert.Equal(t, "Called: read_file(main.go), search(TODO)", toolCallSummary(calls))
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "a b c", oneLine("a\n  b\tc", 48))
	assert.Equal(t, "short", oneLine("short", 48))

	out := oneLine(strings.Repeat("x", 100), 10)
	assert.Equal(t, strings.Repeat("x", 10)+"...", out)
}

func TestTailChars(t *testing.T) {
	assert.Equal(t, "keep", tailChars("keep", 10))

	out := tailChars("abcdefghij", 4)
	assert.Equal(t, "...ghij", out)

	// Cut lands inside a multibyte rune and advances to the next one.
	multi := tailChars("日本語", 4)
	require.True(t, strings.HasPrefix(multi, "..."))
	assert.Equal(t, "...語", multi)
}

func TestLastN(t *testing.T) {
	in := []string{"a", "b", "c", "d"}
	assert.Equal(t, in, lastN(in, 10))
	assert.Equal(t, []string{"c", "d"}, lastN(in, 2))
}
