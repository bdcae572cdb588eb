package ollama

import "encoding/json"

// Wire shapes for the Ollama HTTP API. Streaming /api/chat responses are
// NDJSON: one JSON object per line, the last carrying done=true.

type chatRequest struct {
	Model     string         `json:"model"`
	Messages  []chatMessage  `json:"messages"`
	Stream    bool           `json:"stream"`
	Tools     []chatTool     `json:"tools,omitempty"`
	Think     *bool          `json:"think,omitempty"`
	Options   map[string]any `json:"options,omitempty"`
	KeepAlive string         `json:"keep_alive,omitempty"`
}

type chatMessage struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Thinking  string         `json:"thinking,omitempty"`
	ToolCalls []wireToolCall `json:"tool_calls,omitempty"`
	ToolName  string         `json:"tool_name,omitempty"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

type wireToolCall struct {
	Function wireToolCallFunction `json:"function"`
}

type wireToolCallFunction struct {
	Index     int            `json:"index,omitempty"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// streamChunk is one NDJSON line of a streaming chat response. The same
// shape (with done=true) is the whole body of a non-streaming response.
type streamChunk struct {
	Model     string      `json:"model"`
	CreatedAt string      `json:"created_at"`
	Message   chatMessage `json:"message"`
	Done      bool        `json:"done"`
	// DoneReason is "stop", "length" (num_predict exhausted) or "load".
	DoneReason      string `json:"done_reason,omitempty"`
	PromptEvalCount int    `json:"prompt_eval_count,omitempty"`
	EvalCount       int    `json:"eval_count,omitempty"`
	Error           string `json:"error,omitempty"`
}

type tagsResponse struct {
	Models []TagModel `json:"models"`
}

// TagModel is one entry of the /api/tags listing.
type TagModel struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt string    `json:"modified_at"`
	Digest     string    `json:"digest"`
	Details    TagDetail `json:"details"`
}

// TagDetail carries the model metadata Ollama reports per tag.
type TagDetail struct {
	Family            string `json:"family"`
	ParameterSize     string `json:"parameter_size"`
	QuantizationLevel string `json:"quantization_level"`
}

// ShowResponse is the /api/show payload for one model.
type ShowResponse struct {
	Capabilities []string       `json:"capabilities"`
	ModelInfo    map[string]any `json:"model_info"`
	Parameters   string         `json:"parameters"`
	Details      TagDetail      `json:"details"`
}
