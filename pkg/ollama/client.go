// Package ollama implements the chat backend against a local Ollama host:
// a streaming NDJSON client for /api/chat plus the model listing and
// capability probing the rest of the system builds on.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/config"
)

// defaultParametersSchema is advertised for tools whose args struct has no
// fields. Ollama rejects tools with a missing parameters object.
const defaultParametersSchema = `{"type":"object","properties":{}}`

// Client talks to one Ollama host. Safe for concurrent use; the embedded
// capability cache is process-wide when a single Client is shared, which
// is how cmd/kiln wires it.
type Client struct {
	baseURL   string
	keepAlive string
	http      *http.Client

	caps capabilityCache
}

// NewClient builds a client from resolved configuration.
func NewClient(cfg *config.OllamaConfig) *Client {
	baseURL := "http://localhost:11434"
	keepAlive := ""
	if cfg != nil {
		if cfg.BaseURL != "" {
			baseURL = cfg.BaseURL
		}
		keepAlive = cfg.KeepAlive
	}
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		keepAlive: keepAlive,
		// No client-level timeout: streams run for minutes. Callers bound
		// individual requests through ctx.
		http: &http.Client{},
	}
}

// Chat sends a streaming chat request and returns a channel of typed
// chunks. Connect and HTTP-status failures return an error; mid-stream
// failures arrive as ErrorChunk values. Cancelling ctx aborts the
// transport immediately.
func (c *Client) Chat(ctx context.Context, req *agent.ChatRequest) (<-chan agent.Chunk, error) {
	resp, err := c.postChat(ctx, c.buildRequest(req, true))
	if err != nil {
		return nil, err
	}

	ch := make(chan agent.Chunk, 64)
	go c.readStream(ctx, resp.Body, ch)
	return ch, nil
}

// ChatNoStream sends a non-streaming chat request and blocks for the full
// response. Used for title generation and fallback summaries.
func (c *Client) ChatNoStream(ctx context.Context, req *agent.ChatRequest) (*agent.ChatResponse, error) {
	resp, err := c.postChat(ctx, c.buildRequest(req, false))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading chat response: %w", err)
	}

	var chunk streamChunk
	if err := json.Unmarshal(body, &chunk); err != nil {
		return nil, fmt.Errorf("decoding chat response: %w", err)
	}
	if chunk.Error != "" {
		return nil, fmt.Errorf("ollama: %s", chunk.Error)
	}

	return &agent.ChatResponse{
		Content:          chunk.Message.Content,
		Thinking:         chunk.Message.Thinking,
		ToolCalls:        parseToolCalls(chunk.Message.ToolCalls),
		DoneReason:       chunk.DoneReason,
		PromptTokens:     chunk.PromptEvalCount,
		CompletionTokens: chunk.EvalCount,
	}, nil
}

// ListModels returns the models available on the host.
func (c *Client) ListModels(ctx context.Context) ([]TagModel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("building tags request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apiError("tags", resp)
	}

	var payload tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding tags response: %w", err)
	}
	return payload.Models, nil
}

// ShowModel fetches capability and parameter details for one model.
func (c *Client) ShowModel(ctx context.Context, name string) (*ShowResponse, error) {
	body, err := json.Marshal(map[string]string{"model": name})
	if err != nil {
		return nil, fmt.Errorf("building show request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/show", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building show request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("showing model %q: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apiError("show", resp)
	}

	var show ShowResponse
	if err := json.NewDecoder(resp.Body).Decode(&show); err != nil {
		return nil, fmt.Errorf("decoding show response: %w", err)
	}
	return &show, nil
}

func (c *Client) postChat(ctx context.Context, wire *chatRequest) (*http.Response, error) {
	body, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("marshaling chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling ollama: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, apiError("chat", resp)
	}
	return resp, nil
}

func (c *Client) buildRequest(req *agent.ChatRequest, stream bool) *chatRequest {
	messages := make([]chatMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		wm := chatMessage{Role: m.Role, Content: m.Content, ToolName: m.ToolName}
		for i, tc := range m.ToolCalls {
			wm.ToolCalls = append(wm.ToolCalls, wireToolCall{
				Function: wireToolCallFunction{Index: i, Name: tc.Name, Arguments: tc.Args},
			})
		}
		messages = append(messages, wm)
	}

	wire := &chatRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   stream,
		Think:    req.Think,
	}

	for _, t := range req.Tools {
		schema := t.ParametersSchema
		if strings.TrimSpace(schema) == "" {
			schema = defaultParametersSchema
		}
		wire.Tools = append(wire.Tools, chatTool{
			Type: "function",
			Function: toolFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  json.RawMessage(schema),
			},
		})
	}

	opts := map[string]any{}
	if req.Options.Temperature > 0 {
		opts["temperature"] = req.Options.Temperature
	}
	if req.Options.NumPredict > 0 {
		opts["num_predict"] = req.Options.NumPredict
	}
	if req.Options.NumCtx > 0 {
		opts["num_ctx"] = req.Options.NumCtx
	}
	if len(req.Options.Stop) > 0 {
		opts["stop"] = req.Options.Stop
	}
	if len(opts) > 0 {
		wire.Options = opts
	}

	if req.KeepAlive != "" {
		wire.KeepAlive = req.KeepAlive
	} else {
		wire.KeepAlive = c.keepAlive
	}
	return wire
}

// readStream decodes NDJSON lines into typed chunks until done, error, or
// transport close. Owns body and ch.
func (c *Client) readStream(ctx context.Context, body io.ReadCloser, ch chan<- agent.Chunk) {
	defer close(ch)
	defer body.Close()

	reader := bufio.NewReader(body)
	for {
		line, err := reader.ReadBytes('\n')
		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			var chunk streamChunk
			if jsonErr := json.Unmarshal(trimmed, &chunk); jsonErr == nil {
				if c.dispatchChunk(&chunk, ch) {
					return
				}
			}
		}
		if err != nil {
			// Cancellation is not a stream error: the caller aborted the
			// transport and will flush what it already has.
			if err != io.EOF && ctx.Err() == nil {
				ch <- &agent.ErrorChunk{Message: "stream read failed: " + err.Error()}
			}
			return
		}
	}
}

// dispatchChunk translates one wire chunk. Returns true when the stream
// is finished (done chunk or fatal error).
func (c *Client) dispatchChunk(chunk *streamChunk, ch chan<- agent.Chunk) bool {
	if chunk.Error != "" {
		errChunk := &agent.ErrorChunk{Message: chunk.Error}
		ch <- errChunk
		// Tool-call parse failures are recoverable; the server keeps
		// streaming and the decoder repairs the call afterwards.
		return !errChunk.IsToolParseError()
	}

	if chunk.Message.Thinking != "" {
		ch <- &agent.ThinkingChunk{Content: chunk.Message.Thinking}
	}
	if chunk.Message.Content != "" {
		ch <- &agent.TextChunk{Content: chunk.Message.Content}
	}
	for _, call := range parseToolCalls(chunk.Message.ToolCalls) {
		ch <- &agent.ToolCallChunk{Call: call}
	}

	if chunk.Done {
		ch <- &agent.DoneChunk{
			Reason:           chunk.DoneReason,
			PromptTokens:     chunk.PromptEvalCount,
			CompletionTokens: chunk.EvalCount,
		}
		return true
	}
	return false
}

func parseToolCalls(calls []wireToolCall) []agent.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]agent.ToolCall, 0, len(calls))
	for _, tc := range calls {
		args := tc.Function.Arguments
		if args == nil {
			args = map[string]any{}
		}
		out = append(out, agent.ToolCall{Name: tc.Function.Name, Args: args})
	}
	return out
}

// apiError extracts the server's error message from a non-200 response.
func apiError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		return fmt.Errorf("ollama %s: %s", op, payload.Error)
	}
	return fmt.Errorf("ollama %s: status %d: %s", op, resp.StatusCode, string(body))
}
