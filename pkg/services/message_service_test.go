package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/ent/message"
	"github.com/kiln-dev/kiln/pkg/events"
	"github.com/kiln-dev/kiln/test/util"
)

func TestAppendMessage(t *testing.T) {
	client := setupClient(t)
	svc := NewMessageService(client)
	ctx := context.Background()
	sess := createTestSession(t, client)

	t.Run("allocates consecutive sequence numbers", func(t *testing.T) {
		for i, role := range []string{"system", "user", "assistant"} {
			msg, err := svc.AppendMessage(ctx, AppendMessageInput{
				SessionID: sess.ID,
				Role:      role,
				Content:   "entry",
			})
			require.NoError(t, err)
			assert.Equal(t, i+1, msg.SequenceNumber)
			assert.Equal(t, message.Role(role), msg.Role)
		}
	})

	t.Run("stores assistant tool calls", func(t *testing.T) {
		msg, err := svc.AppendMessage(ctx, AppendMessageInput{
			SessionID: sess.ID,
			Role:      "assistant",
			Content:   "",
			Model:     "qwen3:14b",
			ToolCalls: []map[string]interface{}{
				{"id": "call_1", "name": "read_file", "arguments": map[string]interface{}{"path": "main.go"}},
			},
		})
		require.NoError(t, err)
		require.NotNil(t, msg.Model)
		assert.Equal(t, "qwen3:14b", *msg.Model)
		require.Len(t, msg.ToolCalls, 1)
		assert.Equal(t, "read_file", msg.ToolCalls[0]["name"])
	})

	t.Run("stores tool results", func(t *testing.T) {
		msg, err := svc.AppendMessage(ctx, AppendMessageInput{
			SessionID:  sess.ID,
			Role:       "tool",
			Content:    "package main",
			ToolName:   "read_file",
			ToolCallID: "call_1",
			ToolInput:  `{"path":"main.go"}`,
			ToolOutput: "package main",
		})
		require.NoError(t, err)
		require.NotNil(t, msg.ToolName)
		assert.Equal(t, "read_file", *msg.ToolName)
		require.NotNil(t, msg.ToolCallID)
		assert.Equal(t, "call_1", *msg.ToolCallID)
	})

	t.Run("validates input", func(t *testing.T) {
		_, err := svc.AppendMessage(ctx, AppendMessageInput{Role: "user", Content: "x"})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = svc.AppendMessage(ctx, AppendMessageInput{SessionID: sess.ID, Role: "narrator", Content: "x"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := svc.AppendMessage(ctx, AppendMessageInput{
			SessionID: "nonexistent",
			Role:      "user",
			Content:   "x",
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestHistoryExcludesUIMarkers(t *testing.T) {
	client := setupClient(t)
	svc := NewMessageService(client)
	ctx := context.Background()
	sess := createTestSession(t, client)

	_, err := svc.AppendMessage(ctx, AppendMessageInput{SessionID: sess.ID, Role: "user", Content: "do the thing"})
	require.NoError(t, err)
	_, err = svc.AppendMessage(ctx, AppendMessageInput{
		SessionID:  sess.ID,
		Role:       "tool",
		ToolName:   events.UIMarkerToolName,
		ToolOutput: `{"type":"showToolAction","payload":{}}`,
	})
	require.NoError(t, err)
	_, err = svc.AppendMessage(ctx, AppendMessageInput{SessionID: sess.ID, Role: "assistant", Content: "done"})
	require.NoError(t, err)

	history, err := svc.History(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, history, 2, "UI marker rows stay out of model history")
	assert.Equal(t, message.RoleUser, history[0].Role)
	assert.Equal(t, message.RoleAssistant, history[1].Role)
	assert.Equal(t, []int{1, 3}, []int{history[0].SequenceNumber, history[1].SequenceNumber})

	timeline, total, err := svc.Timeline(ctx, sess.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, timeline, 3, "timeline keeps UI markers for replay")
	require.NotNil(t, timeline[1].ToolName)
	assert.Equal(t, events.UIMarkerToolName, *timeline[1].ToolName)
}

func TestTimelinePagination(t *testing.T) {
	client := setupClient(t)
	svc := NewMessageService(client)
	ctx := context.Background()
	sess := createTestSession(t, client)

	for i := 0; i < 5; i++ {
		_, err := svc.AppendMessage(ctx, AppendMessageInput{SessionID: sess.ID, Role: "user", Content: "x"})
		require.NoError(t, err)
	}

	page, total, err := svc.Timeline(ctx, sess.ID, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, 3, page[0].SequenceNumber)
	assert.Equal(t, 4, page[1].SequenceNumber)
}

// The event bus writes its own __ui__ marker rows with raw SQL; the
// sequence counter must stay consistent across both writers.
func TestSequenceSharedWithEventBus(t *testing.T) {
	client, db := util.SetupTestDatabase(t)
	svc := NewMessageService(client)
	ctx := context.Background()
	sess := createTestSession(t, client)

	msg, err := svc.AppendMessage(ctx, AppendMessageInput{SessionID: sess.ID, Role: "user", Content: "start"})
	require.NoError(t, err)
	assert.Equal(t, 1, msg.SequenceNumber)

	bus := events.NewSessionBus(db, sess.ID)
	require.NoError(t, bus.Emit(ctx, events.FinalMessagePayload{Content: "turn done"}))

	msg, err = svc.AppendMessage(ctx, AppendMessageInput{SessionID: sess.ID, Role: "user", Content: "follow-up"})
	require.NoError(t, err)
	assert.Equal(t, 3, msg.SequenceNumber, "marker row consumed sequence 2")

	timeline, total, err := svc.Timeline(ctx, sess.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.NotNil(t, timeline[1].ToolName)
	assert.Equal(t, events.UIMarkerToolName, *timeline[1].ToolName)
}
