package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToolCallSignature(t *testing.T) {
	t.Run("sorts argument keys", func(t *testing.T) {
		call := ToolCall{
			Name: "search",
			Args: map[string]any{"path": "pkg/", "query": "Budgeter"},
		}
		assert.Equal(t, "search|path=pkg/|query=Budgeter", call.Signature())
	})

	t.Run("identical args in different order collide", func(t *testing.T) {
		a := ToolCall{Name: "search", Args: map[string]any{"a": "1", "b": "2"}}
		b := ToolCall{Name: "search", Args: map[string]any{"b": "2", "a": "1"}}
		assert.Equal(t, a.Signature(), b.Signature())
	})

	t.Run("no args is just the name", func(t *testing.T) {
		assert.Equal(t, "list_dir", ToolCall{Name: "list_dir"}.Signature())
	})

	t.Run("non-string args rendered as JSON", func(t *testing.T) {
		call := ToolCall{Name: "read_file", Args: map[string]any{"path": "a.go", "limit": float64(100)}}
		assert.Equal(t, "read_file|limit=100|path=a.go", call.Signature())
	})
}

func TestToolCallCacheKey(t *testing.T) {
	a := ToolCall{Name: "search", Args: map[string]any{"query": "x", "glob": "*.go"}}
	b := ToolCall{Name: "search", Args: map[string]any{"glob": "*.go", "query": "x"}}

	assert.Equal(t, a.CacheKey(), b.CacheKey(), "cache key must be order-independent")
	assert.Equal(t, `search:{"glob":"*.go","query":"x"}`, a.CacheKey())
}

func TestSeverity(t *testing.T) {
	assert.True(t, SeverityCritical.AtLeast(SeverityHigh))
	assert.True(t, SeverityMedium.AtLeast(SeverityMedium))
	assert.False(t, SeverityLow.AtLeast(SeverityMedium))

	assert.Equal(t, SeverityMedium, SeverityNone.ClampDisplay())
	assert.Equal(t, SeverityMedium, SeverityLow.ClampDisplay())
	assert.Equal(t, SeverityHigh, SeverityHigh.ClampDisplay())
}

func TestToolResultFailed(t *testing.T) {
	assert.False(t, (&ToolResult{Output: "ok"}).Failed())
	assert.True(t, (&ToolResult{Error: "exit 1"}).Failed())

	var nilResult *ToolResult
	assert.False(t, nilResult.Failed())
}
