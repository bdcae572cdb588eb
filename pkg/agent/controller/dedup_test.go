package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/pkg/agent"
)

func TestSignatureWindowFilter(t *testing.T) {
	read := func(path string) agent.ToolCall {
		return call("read_file", map[string]any{"path": path})
	}

	t.Run("drops repeats within one batch", func(t *testing.T) {
		w := newSignatureWindow()
		kept, dropped := w.Filter([]agent.ToolCall{read("a.go"), read("a.go"), read("b.go")}, 1)
		require.Len(t, kept, 2)
		assert.Equal(t, 1, dropped)
		assert.Equal(t, "a.go", kept[0].Args["path"])
		assert.Equal(t, "b.go", kept[1].Args["path"])
	})

	t.Run("suppresses across the two-iteration window", func(t *testing.T) {
		w := newSignatureWindow()
		kept, _ := w.Filter([]agent.ToolCall{read("a.go")}, 1)
		require.Len(t, kept, 1)

		kept, dropped := w.Filter([]agent.ToolCall{read("a.go")}, 2)
		assert.Empty(t, kept)
		assert.Equal(t, 1, dropped)

		kept, dropped = w.Filter([]agent.ToolCall{read("a.go")}, 3)
		assert.Empty(t, kept)
		assert.Equal(t, 1, dropped)

		// Three iterations later the entry has aged out.
		kept, dropped = w.Filter([]agent.ToolCall{read("a.go")}, 4)
		require.Len(t, kept, 1)
		assert.Zero(t, dropped)
	})

	t.Run("different arguments are different signatures", func(t *testing.T) {
		w := newSignatureWindow()
		w.Filter([]agent.ToolCall{read("a.go")}, 1)
		kept, dropped := w.Filter([]agent.ToolCall{read("b.go")}, 1)
		require.Len(t, kept, 1)
		assert.Zero(t, dropped)
	})

	t.Run("argument order does not defeat suppression", func(t *testing.T) {
		w := newSignatureWindow()
		w.Filter([]agent.ToolCall{
			call("search", map[string]any{"query": "x", "maxResults": 5}),
		}, 1)
		kept, dropped := w.Filter([]agent.ToolCall{
			call("search", map[string]any{"maxResults": 5, "query": "x"}),
		}, 2)
		assert.Empty(t, kept)
		assert.Equal(t, 1, dropped)
	})
}
