package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var knownForParse = map[string]bool{
	"read_file": true,
	"search":    true,
	"write":     true,
	"terminal":  true,
}

func TestExtractTaggedCalls(t *testing.T) {
	t.Run("single well-formed call", func(t *testing.T) {
		calls, rest := ExtractToolCalls(
			`I'll read it first.
<tool_call>{"name": "read_file", "arguments": {"path": "main.go"}}</tool_call>`,
			knownForParse,
		)
		require.Len(t, calls, 1)
		assert.Equal(t, "read_file", calls[0].Name)
		assert.Equal(t, "main.go", calls[0].Args["path"])
		assert.Equal(t, "I'll read it first.", rest)
	})

	t.Run("multiple calls with prose between", func(t *testing.T) {
		calls, rest := ExtractToolCalls(
			`First: <tool_call>{"name": "read_file", "arguments": {"path": "a.go"}}</tool_call> then
<tool_call>{"name": "search", "arguments": {"query": "Budgeter"}}</tool_call> done.`,
			knownForParse,
		)
		require.Len(t, calls, 2)
		assert.Equal(t, "read_file", calls[0].Name)
		assert.Equal(t, "search", calls[1].Name)
		assert.Contains(t, rest, "First:")
		assert.Contains(t, rest, "done.")
		assert.NotContains(t, rest, "<tool_call>")
	})

	t.Run("missing close tag", func(t *testing.T) {
		calls, rest := ExtractToolCalls(
			`<tool_call>{"name": "search", "arguments": {"query": "retry"}}`,
			knownForParse,
		)
		require.Len(t, calls, 1)
		assert.Equal(t, "search", calls[0].Name)
		assert.Empty(t, rest)
	})

	t.Run("args key instead of arguments", func(t *testing.T) {
		calls, _ := ExtractToolCalls(
			`<tool_call>{"name": "terminal", "args": {"command": "go vet ./..."}}</tool_call>`,
			knownForParse,
		)
		require.Len(t, calls, 1)
		assert.Equal(t, "go vet ./...", calls[0].Args["command"])
	})

	t.Run("smart quotes normalized", func(t *testing.T) {
		calls, _ := ExtractToolCalls(
			`<tool_call>{“name”: “search”, “arguments”: {“query”: “foo”}}</tool_call>`,
			knownForParse,
		)
		require.Len(t, calls, 1)
		assert.Equal(t, "search", calls[0].Name)
		assert.Equal(t, "foo", calls[0].Args["query"])
	})

	t.Run("unparseable block is dropped from text and calls", func(t *testing.T) {
		calls, rest := ExtractToolCalls(
			`before <tool_call>this is not json</tool_call> after`,
			knownForParse,
		)
		assert.Empty(t, calls)
		assert.Equal(t, "before  after", rest)
	})

	t.Run("missing arguments defaults to empty map", func(t *testing.T) {
		calls, _ := ExtractToolCalls(
			`<tool_call>{"name": "search"}</tool_call>`,
			knownForParse,
		)
		require.Len(t, calls, 1)
		assert.NotNil(t, calls[0].Args)
		assert.Empty(t, calls[0].Args)
	})
}

func TestExtractBareCalls(t *testing.T) {
	t.Run("bare object with known tool", func(t *testing.T) {
		calls, rest := ExtractToolCalls(
			`Let me search. {"name": "search", "arguments": {"query": "NumCtx"}} That should find it.`,
			knownForParse,
		)
		require.Len(t, calls, 1)
		assert.Equal(t, "search", calls[0].Name)
		assert.Equal(t, "NumCtx", calls[0].Args["query"])
		assert.Equal(t, "Let me search.  That should find it.", rest)
	})

	t.Run("unknown name stays in the text", func(t *testing.T) {
		in := `The payload is {"name": "service", "arguments": {"port": 1}} here.`
		calls, rest := ExtractToolCalls(in, knownForParse)
		assert.Empty(t, calls)
		assert.Equal(t, in, rest)
	})

	t.Run("nested arguments object", func(t *testing.T) {
		calls, _ := ExtractToolCalls(
			`{"name": "write", "arguments": {"path": "x.json", "content": "{\"a\": {\"b\": 1}}"}}`,
			knownForParse,
		)
		require.Len(t, calls, 1)
		assert.Equal(t, "x.json", calls[0].Args["path"])
		assert.Equal(t, `{"a": {"b": 1}}`, calls[0].Args["content"])
	})

	t.Run("double-encoded arguments string", func(t *testing.T) {
		calls, _ := ExtractToolCalls(
			`<tool_call>{"name": "search", "arguments": "{\"query\": \"double\"}"}</tool_call>`,
			knownForParse,
		)
		require.Len(t, calls, 1)
		assert.Equal(t, "double", calls[0].Args["query"])
	})

	t.Run("unclosed bare object is left alone", func(t *testing.T) {
		in := `{"name": "search", "arguments": {"query": "never closes"`
		calls, rest := ExtractToolCalls(in, knownForParse)
		assert.Empty(t, calls)
		assert.Equal(t, in, rest)
	})
}

func TestBraceSpan(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		start int
		want  int
	}{
		{"flat object", `{"a": 1}`, 0, 8},
		{"nested object", `{"a": {"b": 2}} tail`, 0, 15},
		{"brace inside string", `{"a": "}"}`, 0, 10},
		{"escaped quote inside string", `{"a": "\"}"}`, 0, 12},
		{"never closes", `{"a": 1`, 0, -1},
		{"offset start", `xx{"a":1}`, 2, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, braceSpan(tt.s, tt.start))
		})
	}
}

func TestDecodeArgs(t *testing.T) {
	assert.Empty(t, decodeArgs(nil))
	assert.Empty(t, decodeArgs([]byte("null")))
	assert.Equal(t, map[string]any{"a": float64(1)}, decodeArgs([]byte(`{"a": 1}`)))
	assert.Equal(t, map[string]any{"q": "x"}, decodeArgs([]byte(`"{\"q\": \"x\"}"`)))
	// Garbage degrades to an empty map rather than failing the call.
	assert.Empty(t, decodeArgs([]byte(`42`)))
}
