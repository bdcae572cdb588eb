package ollama

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&config.OllamaConfig{BaseURL: baseURL, KeepAlive: "30m"})
}

func collectChunks(t *testing.T, ch <-chan agent.Chunk) []agent.Chunk {
	t.Helper()
	var out []agent.Chunk
	timeout := time.After(5 * time.Second)
	for {
		select {
		case chunk, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, chunk)
		case <-timeout:
			t.Fatal("timed out waiting for stream to close")
		}
	}
}

func TestChat_StreamsTypedChunks(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &gotBody))

		w.Header().Set("Content-Type", "application/x-ndjson")
		lines := []string{
			`{"message":{"role":"assistant","thinking":"let me check"},"done":false}`,
			`{"message":{"role":"assistant","content":"Looking at "},"done":false}`,
			`{"message":{"role":"assistant","content":"main.go"},"done":false}`,
			`{"message":{"role":"assistant","tool_calls":[{"function":{"index":0,"name":"read_file","arguments":{"path":"main.go"}}}]},"done":false}`,
			`{"message":{"role":"assistant"},"done":true,"done_reason":"stop","prompt_eval_count":120,"eval_count":45}`,
		}
		for _, l := range lines {
			_, _ = w.Write([]byte(l + "\n"))
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	ch, err := client.Chat(context.Background(), &agent.ChatRequest{
		Model: "qwen3:8b",
		Messages: []agent.ConversationMessage{
			{Role: agent.RoleSystem, Content: "sys"},
			{Role: agent.RoleUser, Content: "read main.go"},
		},
		Options: agent.ChatOptions{Temperature: 0.6, NumPredict: 4096, NumCtx: 8192},
	})
	require.NoError(t, err)

	chunks := collectChunks(t, ch)
	require.Len(t, chunks, 5)

	thinking, ok := chunks[0].(*agent.ThinkingChunk)
	require.True(t, ok)
	assert.Equal(t, "let me check", thinking.Content)

	text1, ok := chunks[1].(*agent.TextChunk)
	require.True(t, ok)
	assert.Equal(t, "Looking at ", text1.Content)

	call, ok := chunks[3].(*agent.ToolCallChunk)
	require.True(t, ok)
	assert.Equal(t, "read_file", call.Call.Name)
	assert.Equal(t, "main.go", call.Call.Args["path"])

	done, ok := chunks[4].(*agent.DoneChunk)
	require.True(t, ok)
	assert.Equal(t, "stop", done.Reason)
	assert.Equal(t, 120, done.PromptTokens)
	assert.Equal(t, 45, done.CompletionTokens)

	// Request wire shape
	assert.Equal(t, "qwen3:8b", gotBody["model"])
	assert.Equal(t, true, gotBody["stream"])
	assert.Equal(t, "30m", gotBody["keep_alive"])
	opts, ok := gotBody["options"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(8192), opts["num_ctx"])
	assert.Equal(t, float64(4096), opts["num_predict"])
}

func TestChat_ToolParseErrorIsRecoverable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lines := []string{
			`{"error":"error parsing tool call: invalid character 'x'","done":false}`,
			`{"message":{"role":"assistant","content":"still going"},"done":false}`,
			`{"message":{"role":"assistant"},"done":true,"done_reason":"stop"}`,
		}
		for _, l := range lines {
			_, _ = w.Write([]byte(l + "\n"))
		}
	}))
	defer srv.Close()

	ch, err := newTestClient(srv.URL).Chat(context.Background(), &agent.ChatRequest{Model: "m"})
	require.NoError(t, err)

	chunks := collectChunks(t, ch)
	require.Len(t, chunks, 3)

	errChunk, ok := chunks[0].(*agent.ErrorChunk)
	require.True(t, ok)
	assert.True(t, errChunk.IsToolParseError())

	_, ok = chunks[1].(*agent.TextChunk)
	assert.True(t, ok, "stream must continue past a parse error")
	_, ok = chunks[2].(*agent.DoneChunk)
	assert.True(t, ok)
}

func TestChat_FatalErrorEndsStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"model runner has unexpectedly stopped","done":false}` + "\n"))
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"never seen"},"done":false}` + "\n"))
	}))
	defer srv.Close()

	ch, err := newTestClient(srv.URL).Chat(context.Background(), &agent.ChatRequest{Model: "m"})
	require.NoError(t, err)

	chunks := collectChunks(t, ch)
	require.Len(t, chunks, 1, "stream must stop at a fatal error")
	errChunk, ok := chunks[0].(*agent.ErrorChunk)
	require.True(t, ok)
	assert.False(t, errChunk.IsToolParseError())
}

func TestChat_HTTPErrorSurfacesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'missing:1b' not found"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Chat(context.Background(), &agent.ChatRequest{Model: "missing:1b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model 'missing:1b' not found")
}

func TestChat_CancellationClosesWithoutError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"partial"},"done":false}` + "\n"))
		flusher.Flush()
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := newTestClient(srv.URL).Chat(ctx, &agent.ChatRequest{Model: "m"})
	require.NoError(t, err)

	first := <-ch
	text, ok := first.(*agent.TextChunk)
	require.True(t, ok)
	assert.Equal(t, "partial", text.Content)

	cancel()

	for chunk := range ch {
		_, isErr := chunk.(*agent.ErrorChunk)
		assert.False(t, isErr, "cancellation must not surface as a stream error")
	}
}

func TestChatNoStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, false, body["stream"])

		_, _ = w.Write([]byte(`{
			"message":{"role":"assistant","content":"Fix the import path","thinking":"short"},
			"done":true,"done_reason":"stop","prompt_eval_count":30,"eval_count":8
		}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).ChatNoStream(context.Background(), &agent.ChatRequest{Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, "Fix the import path", resp.Content)
	assert.Equal(t, "short", resp.Thinking)
	assert.Equal(t, "stop", resp.DoneReason)
	assert.Equal(t, 30, resp.PromptTokens)
	assert.Equal(t, 8, resp.CompletionTokens)
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[
			{"name":"qwen3:8b","size":5200000000,"details":{"family":"qwen3","parameter_size":"8.2B","quantization_level":"Q4_K_M"}},
			{"name":"llama3.2:3b","size":2000000000,"details":{"family":"llama"}}
		]}`))
	}))
	defer srv.Close()

	models, err := newTestClient(srv.URL).ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "qwen3:8b", models[0].Name)
	assert.Equal(t, "8.2B", models[0].Details.ParameterSize)
}
