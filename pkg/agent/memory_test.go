package agent

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionMemory_Bound(t *testing.T) {
	m := NewSessionMemory()
	for i := 1; i <= maxStoredSummaries+5; i++ {
		m.AddIterationSummary(IterationSummary{Iteration: i, Brief: fmt.Sprintf("step %d", i), Success: true})
	}

	require.Len(t, m.Summaries, maxStoredSummaries)
	assert.Equal(t, 6, m.Summaries[0].Iteration, "oldest entries evicted first")
}

func TestCompactSummary(t *testing.T) {
	t.Run("empty memory", func(t *testing.T) {
		assert.Empty(t, NewSessionMemory().CompactSummary())
	})

	t.Run("digest counts iterations and tool calls", func(t *testing.T) {
		m := NewSessionMemory()
		m.AddIterationSummary(IterationSummary{Iteration: 1, ToolNames: []string{"search", "read_file"}, Brief: "located loader", Success: true})
		m.AddIterationSummary(IterationSummary{Iteration: 2, ToolNames: []string{"write"}, Brief: "patched loader", Success: true})

		digest := m.CompactSummary()
		assert.Contains(t, digest, "2 iterations")
		assert.Contains(t, digest, "3 tool calls")
		assert.Contains(t, digest, "patched loader")
	})
}

func TestToSystemReminder(t *testing.T) {
	t.Run("empty memory renders nothing", func(t *testing.T) {
		assert.Empty(t, NewSessionMemory().ToSystemReminder())
	})

	t.Run("renders numbered entries inside the block", func(t *testing.T) {
		m := NewSessionMemory()
		m.AddIterationSummary(IterationSummary{Iteration: 1, Brief: "read the config", Success: true})
		m.AddIterationSummary(IterationSummary{Iteration: 2, Brief: "ran the tests", Success: false})

		r := m.ToSystemReminder()
		assert.True(t, strings.HasPrefix(r, "<session_memory>"))
		assert.True(t, strings.HasSuffix(r, "</session_memory>"))
		assert.Contains(t, r, "1. read the config")
		assert.Contains(t, r, "2. ran the tests (failed)")
	})

	t.Run("falls back to tool names when brief is empty", func(t *testing.T) {
		m := NewSessionMemory()
		m.AddIterationSummary(IterationSummary{Iteration: 1, ToolNames: []string{"search", "list_dir"}, Success: true})

		assert.Contains(t, m.ToSystemReminder(), "1. search, list_dir")
	})

	t.Run("elides older entries past the display bound", func(t *testing.T) {
		m := NewSessionMemory()
		for i := 1; i <= reminderSummaries+4; i++ {
			m.AddIterationSummary(IterationSummary{Iteration: i, Brief: fmt.Sprintf("step %d", i), Success: true})
		}

		r := m.ToSystemReminder()
		assert.Contains(t, r, "(4 earlier iterations elided)")
		assert.NotContains(t, r, "1. step 1\n")
		assert.Contains(t, r, fmt.Sprintf("%d. step %d", reminderSummaries+4, reminderSummaries+4))
	})
}

func TestInjectReminder(t *testing.T) {
	m := NewSessionMemory()
	m.AddIterationSummary(IterationSummary{Iteration: 1, Brief: "explored pkg layout", Success: true})

	t.Run("appends the block", func(t *testing.T) {
		out := m.InjectReminder("base system prompt")
		assert.True(t, strings.HasPrefix(out, "base system prompt"))
		assert.Contains(t, out, "<session_memory>")
		assert.Contains(t, out, "explored pkg layout")
	})

	t.Run("replaces a stale block instead of accumulating", func(t *testing.T) {
		first := m.InjectReminder("base system prompt")

		m.AddIterationSummary(IterationSummary{Iteration: 2, Brief: "patched the parser", Success: true})
		second := m.InjectReminder(first)

		assert.Equal(t, 1, strings.Count(second, "<session_memory>"))
		assert.Contains(t, second, "patched the parser")
		assert.True(t, strings.HasPrefix(second, "base system prompt"))
	})

	t.Run("empty memory strips any stale block", func(t *testing.T) {
		withBlock := m.InjectReminder("base")
		out := NewSessionMemory().InjectReminder(withBlock)
		assert.NotContains(t, out, "<session_memory>")
		assert.True(t, strings.HasPrefix(out, "base"))
	})
}
