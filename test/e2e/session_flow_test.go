package e2e

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/pkg/agent"
)

// TestAgentTurnWritesFileAndPersistsFinalMessage runs one complete agent
// turn through the real stack: REST in, worker pool claim, scripted
// model, a real file write, and the persisted timeline out.
func TestAgentTurnWritesFileAndPersistsFinalMessage(t *testing.T) {
	backend := NewScriptedBackend()
	backend.Add(
		ScriptEntry{Chunks: []agent.Chunk{
			&agent.TextChunk{Content: "Writing the greeting file."},
			&agent.ToolCallChunk{Call: agent.ToolCall{
				Name: "write",
				Args: map[string]any{"path": "hello.txt", "content": "hello from kiln\n"},
			}},
			&agent.DoneChunk{Reason: "stop", PromptTokens: 96, CompletionTokens: 24},
		}},
		ScriptEntry{Text: "Created hello.txt with the greeting. [TASK_COMPLETE]"},
	)
	app := NewTestApp(t, WithBackend(backend))

	sessionID := app.CreateSession(t, "create hello.txt containing a greeting")
	app.WaitForStatus(t, sessionID, "completed", 30*time.Second)

	// The write landed in the workspace.
	data, err := os.ReadFile(filepath.Join(app.Workspace, "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello from kiln\n", string(data))

	// The closing assistant message is persisted with the files-modified
	// header even though its text already streamed live, so a reload
	// shows the turn the same way the live session did.
	msgs := app.Messages(t, sessionID)
	var final string
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == "assistant" && msgs[i].ToolName == "" {
			final = msgs[i].Content
			break
		}
	}
	require.NotEmpty(t, final, "no assistant message in the persisted timeline")
	assert.True(t, strings.HasPrefix(final, "**1 file modified**"), "final message %q lacks the files-modified header", final)
	assert.Contains(t, final, "Created hello.txt with the greeting.")

	// A dashboard connecting after the fact replays the persisted
	// events from the outbox.
	ws := WSConnect(t, app.WSURL)
	ws.Subscribe("session:" + sessionID)
	ws.WaitForMatch("replayed tool action", 5*time.Second, func(e WSEvent) bool {
		return e.Type == "showToolAction" && e.Str("tool") == "write"
	})

	// A follow-up turn reloads the persisted conversation, tool rows
	// included, and hands it to the model as prior context.
	calls := backend.ChatCalls()
	backend.Add(ScriptEntry{Text: "The greeting file is already in place. [TASK_COMPLETE]"})
	app.PostTurn(t, sessionID, "is hello.txt still there?")
	require.Eventually(t, func() bool {
		return backend.ChatCalls() > calls && app.SessionStatus(t, sessionID) == "completed"
	}, 30*time.Second, 100*time.Millisecond, "follow-up turn never completed")

	reqs := backend.Requests()
	followUp := reqs[len(reqs)-1]
	var sawToolRow bool
	for _, msg := range followUp.Messages {
		if msg.ToolName == "write" {
			sawToolRow = true
			break
		}
	}
	assert.True(t, sawToolRow, "follow-up request is missing the replayed write tool result")
}
