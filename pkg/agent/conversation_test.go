package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConversationHistory(t *testing.T) {
	h := NewConversationHistory("you are a coding agent", "fix the bug")

	require.Equal(t, 2, h.Len())
	assert.Equal(t, RoleSystem, h.Messages()[0].Role)
	assert.Equal(t, "you are a coding agent", h.Messages()[0].Content)
	assert.Equal(t, RoleUser, h.Messages()[1].Role)
	assert.Equal(t, "fix the bug", h.Messages()[1].Content)
}

func TestSeedPrior(t *testing.T) {
	t.Run("inserts between system prompt and new task", func(t *testing.T) {
		h := NewConversationHistory("fresh system prompt", "second task")
		h.SeedPrior([]ConversationMessage{
			{Role: RoleSystem, Content: "stale system prompt"},
			{Role: RoleUser, Content: "first task"},
			{Role: RoleAssistant, Content: "did the first task"},
		})

		msgs := h.Messages()
		require.Equal(t, 4, h.Len())
		assert.Equal(t, "fresh system prompt", msgs[0].Content)
		assert.Equal(t, "first task", msgs[1].Content)
		assert.Equal(t, "did the first task", msgs[2].Content)
		assert.Equal(t, "second task", msgs[3].Content)
	})

	t.Run("empty seed is a no-op", func(t *testing.T) {
		h := NewConversationHistory("sys", "task")
		h.SeedPrior(nil)
		assert.Equal(t, 2, h.Len())
	})
}

func TestAddAssistantMessage(t *testing.T) {
	t.Run("plain response", func(t *testing.T) {
		h := NewConversationHistory("sys", "task")
		msg := h.AddAssistantMessage("here is the fix", "considered two options")

		assert.Equal(t, RoleAssistant, msg.Role)
		assert.Equal(t, "here is the fix", msg.Content)
		assert.Equal(t, "considered two options", msg.Thinking)
	})

	t.Run("blank turn with thinking gets placeholder", func(t *testing.T) {
		h := NewConversationHistory("sys", "task")
		msg := h.AddAssistantMessage("", "long reasoning chain")

		assert.Equal(t, BlankTurnContent, msg.Content)
	})

	t.Run("whitespace-only response counts as blank", func(t *testing.T) {
		h := NewConversationHistory("sys", "task")
		msg := h.AddAssistantMessage("  \n ", "reasoning")

		assert.Equal(t, BlankTurnContent, msg.Content)
	})
}

func TestAddAssistantToolMessage(t *testing.T) {
	calls := []ToolCall{{Name: "read_file", Args: map[string]any{"path": "main.go"}}}

	t.Run("native mode keeps structured calls", func(t *testing.T) {
		h := NewConversationHistory("sys", "task")
		msg := h.AddAssistantToolMessage(AssistantToolTurn{
			ToolCalls:   calls,
			Native:      true,
			Response:    "let me check that file",
			ToolSummary: "Called: read_file(main.go)",
		})

		assert.Equal(t, "let me check that file", msg.Content)
		require.Len(t, msg.ToolCalls, 1)
		assert.Equal(t, "read_file", msg.ToolCalls[0].Name)
	})

	t.Run("native blank turn uses tool summary", func(t *testing.T) {
		h := NewConversationHistory("sys", "task")
		msg := h.AddAssistantToolMessage(AssistantToolTurn{
			ToolCalls:   calls,
			Native:      true,
			ToolSummary: "Called: read_file(main.go)",
		})

		assert.Equal(t, "Called: read_file(main.go)", msg.Content)
	})

	t.Run("native blank turn without summary uses placeholder", func(t *testing.T) {
		h := NewConversationHistory("sys", "task")
		msg := h.AddAssistantToolMessage(AssistantToolTurn{
			ToolCalls: calls,
			Native:    true,
		})

		assert.Equal(t, BlankTurnContent, msg.Content)
	})

	t.Run("text mode annotates content", func(t *testing.T) {
		h := NewConversationHistory("sys", "task")
		msg := h.AddAssistantToolMessage(AssistantToolTurn{
			ToolCalls:   calls,
			Response:    "checking the entrypoint",
			ToolSummary: "Called: read_file(main.go)",
		})

		assert.Equal(t, "checking the entrypoint\n\n[Called: read_file(main.go)]", msg.Content)
		assert.Nil(t, msg.ToolCalls, "text mode must not carry structured calls")
	})

	t.Run("text mode blank turn is just the annotation", func(t *testing.T) {
		h := NewConversationHistory("sys", "task")
		msg := h.AddAssistantToolMessage(AssistantToolTurn{
			ToolCalls:   calls,
			ToolSummary: "Called: read_file(main.go)",
		})

		assert.Equal(t, "[Called: read_file(main.go)]", msg.Content)
	})
}

func TestAddNativeToolResults(t *testing.T) {
	h := NewConversationHistory("sys", "task")
	h.AddNativeToolResults([]NativeToolResult{
		{Content: "package main", ToolName: "read_file"},
		{Content: "3 matches", ToolName: "search"},
	})

	msgs := h.Messages()
	require.Equal(t, 4, len(msgs))
	assert.Equal(t, RoleTool, msgs[2].Role)
	assert.Equal(t, "read_file", msgs[2].ToolName)
	assert.Equal(t, "package main", msgs[2].Content)
	assert.Equal(t, RoleTool, msgs[3].Role)
	assert.Equal(t, "search", msgs[3].ToolName)
}

func TestAddXmlToolResults(t *testing.T) {
	t.Run("joins results and continuation into one user message", func(t *testing.T) {
		h := NewConversationHistory("sys", "task")
		h.AddXmlToolResults(
			[]string{"result one", "result two"},
			"<agent_control>{\"state\":\"need_tools\"}</agent_control>",
		)

		msgs := h.Messages()
		require.Equal(t, 3, len(msgs))
		assert.Equal(t, RoleUser, msgs[2].Role)
		assert.Equal(t,
			"result one\n\nresult two\n\n<agent_control>{\"state\":\"need_tools\"}</agent_control>",
			msgs[2].Content)
	})

	t.Run("skips empty results", func(t *testing.T) {
		h := NewConversationHistory("sys", "task")
		h.AddXmlToolResults([]string{"only", "", "  "}, "")

		assert.Equal(t, "only", h.Messages()[2].Content)
	})
}

func TestSystemNotes(t *testing.T) {
	t.Run("wraps bare text in the note prefix", func(t *testing.T) {
		h := NewConversationHistory("sys", "task")
		h.AddSystemNote("Context usage: 72% — be concise.")

		content := h.Messages()[2].Content
		assert.True(t, strings.HasPrefix(content, SystemNotePrefix))
		assert.Contains(t, content, "72%")
	})

	t.Run("pre-wrapped text passes through verbatim", func(t *testing.T) {
		h := NewConversationHistory("sys", "task")
		h.AddSystemNote(DenialHint)

		assert.Equal(t, DenialHint, h.Messages()[2].Content)
	})

	t.Run("clean removes only the notes", func(t *testing.T) {
		h := NewConversationHistory("sys", "task")
		h.AddAssistantMessage("working on it", "")
		h.AddSystemNote("files changed outside the session: go.mod")
		h.AddContinuation("continue")
		h.AddSystemNote("be concise")

		removed := h.CleanStaleSystemNotes()

		assert.Equal(t, 2, removed)
		require.Equal(t, 4, h.Len())
		assert.Equal(t, RoleSystem, h.Messages()[0].Role)
		assert.Equal(t, "working on it", h.Messages()[2].Content)
		assert.Equal(t, "continue", h.Messages()[3].Content)
	})
}

func TestUpdateSystemPrompt(t *testing.T) {
	h := NewConversationHistory("base prompt", "task")
	h.UpdateSystemPrompt(func(cur string) string { return cur + "\nextra" })

	assert.Equal(t, "base prompt\nextra", h.Messages()[0].Content)
}

func TestSpliceSummary(t *testing.T) {
	build := func() *ConversationHistory {
		h := NewConversationHistory("sys", "task")
		h.AddAssistantMessage("step one", "")
		h.AddContinuation("go on")
		h.AddAssistantMessage("step two", "")
		h.AddContinuation("go on")
		return h // 6 messages
	}

	t.Run("replaces old messages with one summary", func(t *testing.T) {
		h := build()
		h.SpliceSummary(4, "earlier: investigated and fixed step one")

		msgs := h.Messages()
		require.Equal(t, 4, len(msgs))
		assert.Equal(t, RoleSystem, msgs[0].Role)
		assert.Equal(t, RoleAssistant, msgs[1].Role)
		assert.Equal(t, "earlier: investigated and fixed step one", msgs[1].Content)
		assert.Equal(t, "step two", msgs[2].Content)
		assert.Equal(t, "go on", msgs[3].Content)
	})

	t.Run("out-of-range cut is a no-op", func(t *testing.T) {
		h := build()
		h.SpliceSummary(0, "nope")
		h.SpliceSummary(1, "nope")
		h.SpliceSummary(99, "nope")

		assert.Equal(t, 6, h.Len())
	})
}

func TestPrepareForRequest(t *testing.T) {
	h := NewConversationHistory("sys", "task")
	h.AddAssistantMessage("answer", "private reasoning")
	h.AddAssistantToolMessage(AssistantToolTurn{
		ToolCalls: []ToolCall{{Name: "search"}},
		Native:    true,
		Response:  "searching",
		Thinking:  "more reasoning",
	})

	msgs := h.PrepareForRequest()

	require.Equal(t, 4, len(msgs))
	for i, m := range msgs {
		assert.Empty(t, m.Thinking, "message %d retained thinking", i)
	}
	// A second call sees the already-stripped list.
	assert.Empty(t, h.Messages()[2].Thinking)
}
