package events

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	bus := &SessionBus{sessionID: "sess-1"}

	data, err := bus.envelope(ToolActionPayload{
		ActionID: "act-1",
		Tool:     "read_file",
		Status:   ToolActionRunning,
		Title:    "Reading main.go",
	})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	assert.Equal(t, "showToolAction", m["type"])
	assert.Equal(t, "sess-1", m["session_id"])
	assert.Equal(t, "act-1", m["action_id"])
	assert.Equal(t, "running", m["status"])
	assert.NotEmpty(t, m["timestamp"])

	// omitempty fields stay off the wire
	_, hasCached := m["cached"]
	assert.False(t, hasCached)
}

func TestInjectDBEventIDAndTruncate(t *testing.T) {
	t.Run("small payload gets db_event_id", func(t *testing.T) {
		envelope := []byte(`{"type":"finalMessage","session_id":"s1","content":"done"}`)
		out, err := injectDBEventIDAndTruncate(envelope, 42)
		require.NoError(t, err)

		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &m))
		assert.Equal(t, float64(42), m["db_event_id"])
		assert.Equal(t, "done", m["content"])
	})

	t.Run("oversized payload collapses to routing envelope", func(t *testing.T) {
		big := strings.Repeat("x", 9000)
		envelope, err := json.Marshal(map[string]any{
			"type":       "finalMessage",
			"session_id": "s1",
			"content":    big,
		})
		require.NoError(t, err)

		out, err := injectDBEventIDAndTruncate(envelope, 7)
		require.NoError(t, err)
		assert.Less(t, len(out), 7900)

		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &m))
		assert.Equal(t, "finalMessage", m["type"])
		assert.Equal(t, "s1", m["session_id"])
		assert.Equal(t, true, m["truncated"])
		assert.Equal(t, float64(7), m["db_event_id"])
		_, hasContent := m["content"]
		assert.False(t, hasContent, "content must be dropped from truncated payload")
	})
}

func TestTruncateIfNeeded_PassthroughUnderLimit(t *testing.T) {
	payload := `{"type":"streamChunk","session_id":"s1","delta":"hi"}`
	out, err := truncateIfNeeded(payload)
	require.NoError(t, err)
	assert.Equal(t, payload, out)
}

// recordingBus captures calls for SubAgentBus filter tests.
type recordingBus struct {
	emitted   []Event
	posted    []Event
	persisted []Event
}

func (r *recordingBus) Emit(_ context.Context, e Event) error {
	r.emitted = append(r.emitted, e)
	return nil
}

func (r *recordingBus) Post(_ context.Context, e Event) error {
	r.posted = append(r.posted, e)
	return nil
}

func (r *recordingBus) Persist(_ context.Context, e Event) error {
	r.persisted = append(r.persisted, e)
	return nil
}

func TestSubAgentBus_QuarantinesStreamEvents(t *testing.T) {
	inner := &recordingBus{}
	bus := NewSubAgentBus(inner, "find the config loader")
	ctx := context.Background()

	// Stream and final-message events must never reach the inner bus.
	require.NoError(t, bus.Post(ctx, StreamChunkPayload{Delta: "text"}))
	require.NoError(t, bus.Emit(ctx, FinalMessagePayload{Content: "done"}))
	require.NoError(t, bus.Post(ctx, ShowThinkingPayload{}))
	require.NoError(t, bus.Emit(ctx, ThinkingBlockPayload{Content: "reasoning"}))
	require.NoError(t, bus.Persist(ctx, FilesChangedPayload{}))

	assert.Empty(t, inner.emitted)
	assert.Empty(t, inner.persisted)

	for _, e := range inner.posted {
		assert.NotEqual(t, EventStreamChunk, e.EventType())
		assert.NotEqual(t, EventStreamThinking, e.EventType())
		assert.NotEqual(t, EventFinalMessage, e.EventType())
	}
}

func TestSubAgentBus_PassesToolActions(t *testing.T) {
	inner := &recordingBus{}
	bus := NewSubAgentBus(inner, "explore")
	ctx := context.Background()

	action := ToolActionPayload{ActionID: "a1", Tool: "search", Status: ToolActionSuccess}
	require.NoError(t, bus.Emit(ctx, action))

	require.Len(t, inner.emitted, 1)
	assert.Equal(t, action, inner.emitted[0])
}

func TestSubAgentBus_ConvertsThinkingDeltas(t *testing.T) {
	inner := &recordingBus{}
	bus := NewSubAgentBus(inner, "trace the request path")
	ctx := context.Background()

	require.NoError(t, bus.Post(ctx, StreamThinkingPayload{Delta: "checking router"}))

	require.Len(t, inner.posted, 1)
	hint, ok := inner.posted[0].(SubagentThinkingPayload)
	require.True(t, ok, "thinking delta should be converted to subagentThinking")
	assert.Equal(t, "trace the request path", hint.Task)
	assert.Equal(t, "checking router", hint.Delta)
}

func TestSessionChannel(t *testing.T) {
	assert.Equal(t, "session:abc-123", SessionChannel("abc-123"))
}

func TestPayloadEventTypes(t *testing.T) {
	// The type tag is the wire contract with the dashboard.
	cases := map[string]Event{
		"showToolAction":      ToolActionPayload{},
		"streamChunk":         StreamChunkPayload{},
		"streamThinking":      StreamThinkingPayload{},
		"collapseThinking":    CollapseThinkingPayload{},
		"requestToolApproval": ApprovalRequestPayload{},
		"toolApprovalResult":  ApprovalResultPayload{},
		"filesChanged":        FilesChangedPayload{},
		"finalMessage":        FinalMessagePayload{},
		"thinkingBlock":       ThinkingBlockPayload{},
		"subagentThinking":    SubagentThinkingPayload{},
		"tokenUsage":          TokenUsagePayload{},
		"showError":           ShowErrorPayload{},
		"showWarningBanner":   WarningBannerPayload{},
		"iterationBoundary":   IterationBoundaryPayload{},
		"sessionStatus":       SessionStatusPayload{},
		"titleUpdated":        TitleUpdatedPayload{},
	}
	for want, payload := range cases {
		assert.Equal(t, want, payload.EventType())
	}
}
