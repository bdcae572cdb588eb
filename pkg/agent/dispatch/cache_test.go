package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/pkg/agent"
)

func cacheKey(name string, args map[string]any) string {
	return agent.ToolCall{Name: name, Args: args}.CacheKey()
}

func TestResultCache(t *testing.T) {
	t.Run("miss on empty cache", func(t *testing.T) {
		c := newResultCache()
		_, ok := c.get(cacheKey("read_file", map[string]any{"path": "a.txt"}))
		assert.False(t, ok)
	})

	t.Run("hit returns an isolated copy", func(t *testing.T) {
		c := newResultCache()
		key := cacheKey("read_file", map[string]any{"path": "a.txt"})
		c.put(key, &agent.ToolResult{Output: "one"})

		got, ok := c.get(key)
		require.True(t, ok)
		got.Output += " [AUTO-DIAGNOSTICS] polluted"

		again, ok := c.get(key)
		require.True(t, ok)
		assert.Equal(t, "one", again.Output)
	})

	t.Run("failed results never stored", func(t *testing.T) {
		c := newResultCache()
		key := cacheKey("read_file", map[string]any{"path": "a.txt"})
		c.put(key, &agent.ToolResult{Error: "no such file"})
		_, ok := c.get(key)
		assert.False(t, ok)
	})

	t.Run("nil results never stored", func(t *testing.T) {
		c := newResultCache()
		key := cacheKey("read_file", map[string]any{"path": "a.txt"})
		c.put(key, nil)
		_, ok := c.get(key)
		assert.False(t, ok)
	})

	t.Run("invalidatePath removes only keys mentioning the path", func(t *testing.T) {
		c := newResultCache()
		fileKey := cacheKey("read_file", map[string]any{"path": "src/b.txt"})
		otherKey := cacheKey("read_file", map[string]any{"path": "a.txt"})
		// A listing of the parent directory does not mention the file
		// path, so it survives the write untouched.
		dirKey := cacheKey("list_dir", map[string]any{"path": "src"})
		for _, key := range []string{fileKey, otherKey, dirKey} {
			c.put(key, &agent.ToolResult{Output: "x"})
		}

		removed := c.invalidatePath("src/b.txt")
		assert.Equal(t, 1, removed)

		_, ok := c.get(fileKey)
		assert.False(t, ok)
		_, ok = c.get(otherKey)
		assert.True(t, ok)
		_, ok = c.get(dirKey)
		assert.True(t, ok)
	})

	t.Run("empty path removes nothing", func(t *testing.T) {
		c := newResultCache()
		c.put(cacheKey("read_file", map[string]any{"path": "a.txt"}), &agent.ToolResult{Output: "x"})
		assert.Equal(t, 0, c.invalidatePath(""))
	})
}
