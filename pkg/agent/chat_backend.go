package agent

import (
	"context"
	"strings"
)

// ChatBackend is the loop-side interface for talking to the Ollama
// server. It provides a channel-based streaming API plus the blocking
// calls used for title generation and fallback summaries.
// Implemented by ollama.Client; defined here so the loop engines can
// be tested against a scripted backend.
type ChatBackend interface {
	// Chat sends a conversation and returns a stream of chunks.
	// The returned channel is closed when the stream completes.
	// Errors are delivered as ErrorChunk values in the channel.
	// Cancelling ctx aborts the underlying HTTP request immediately —
	// a model mid-thinking can otherwise stall for 30+ seconds before
	// the next token arrives.
	Chat(ctx context.Context, req *ChatRequest) (<-chan Chunk, error)

	// ChatNoStream sends a conversation and blocks for the full response.
	ChatNoStream(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// Capability returns the cached capability record for a model,
	// refreshing from the server on first sight.
	Capability(ctx context.Context, model string) (*ModelCapability, error)
}

// ChatRequest is a single call to the chat endpoint.
type ChatRequest struct {
	Model    string
	Messages []ConversationMessage

	// Tools advertises native tool definitions. nil = text-mode tools.
	Tools []ToolDefinition

	// Think requests the thinking channel. nil = server default.
	Think *bool

	Options   ChatOptions
	KeepAlive string // duration string, "0", or "-1"; empty = server default
}

// ChatOptions carries the per-request model options.
type ChatOptions struct {
	Temperature float64
	NumPredict  int
	NumCtx      int
	Stop        []string
}

// ChatResponse is the result of a non-streaming chat call.
type ChatResponse struct {
	Content          string
	Thinking         string
	ToolCalls        []ToolCall
	DoneReason       string
	PromptTokens     int
	CompletionTokens int
}

// ModelCapability is the resolved capability record for one model.
// Process-wide cached; refreshed by a single writer.
type ModelCapability struct {
	Name             string
	SupportsTools    bool
	SupportsThinking bool

	// ContextLength is the context window detected from the server's
	// model info. 0 when the server did not report one.
	ContextLength int
}

// Chunk is the interface for all streaming chunk types.
type Chunk interface {
	chunkType() ChunkType
}

// ChunkType identifies the kind of streaming chunk.
type ChunkType string

const (
	ChunkTypeText     ChunkType = "text"
	ChunkTypeThinking ChunkType = "thinking"
	ChunkTypeToolCall ChunkType = "tool_call"
	ChunkTypeDone     ChunkType = "done"
	ChunkTypeError    ChunkType = "error"
)

// TextChunk is a delta of the model's response content.
type TextChunk struct{ Content string }

// ThinkingChunk is a delta of the model's reasoning channel.
type ThinkingChunk struct{ Content string }

// ToolCallChunk carries one native tool call parsed by the server.
type ToolCallChunk struct{ Call ToolCall }

// DoneChunk terminates a stream and reports token counts.
// Reason "length" means the response hit the output limit.
type DoneChunk struct {
	Reason           string
	PromptTokens     int
	CompletionTokens int
}

// ErrorChunk signals a server-side error. Tool-call parse failures are
// recoverable (see IsToolParseError); everything else ends the turn.
type ErrorChunk struct{ Message string }

func (c *TextChunk) chunkType() ChunkType     { return ChunkTypeText }
func (c *ThinkingChunk) chunkType() ChunkType { return ChunkTypeThinking }
func (c *ToolCallChunk) chunkType() ChunkType { return ChunkTypeToolCall }
func (c *DoneChunk) chunkType() ChunkType     { return ChunkTypeDone }
func (c *ErrorChunk) chunkType() ChunkType    { return ChunkTypeError }

// IsToolParseError reports whether the server error is a recoverable
// tool-call parse failure (the model emitted malformed call JSON).
func (c *ErrorChunk) IsToolParseError() bool {
	return strings.Contains(c.Message, "error parsing tool call")
}

// DoneReasonLength is the done_reason reported when generation stopped
// at the num_predict output limit.
const DoneReasonLength = "length"
