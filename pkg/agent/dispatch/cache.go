package dispatch

import (
	"strings"
	"sync"

	"github.com/kiln-dev/kiln/pkg/agent"
)

// resultCache reuses read-only tool output within a single turn. Keys
// come from ToolCall.CacheKey (name + stable-JSON args); a file write
// invalidates every entry whose key mentions the written path.
type resultCache struct {
	mu      sync.Mutex
	entries map[string]agent.ToolResult
}

func newResultCache() *resultCache {
	return &resultCache{entries: make(map[string]agent.ToolResult)}
}

// get returns a copy of the cached result so later enrichment cannot
// pollute the stored entry.
func (c *resultCache) get(key string) (*agent.ToolResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	cp := res
	return &cp, true
}

// put stores a successful result. Failures are never cached: the model
// may retry the same arguments after fixing the cause.
func (c *resultCache) put(key string, res *agent.ToolResult) {
	if res == nil || res.Failed() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = *res
}

// invalidatePath drops every entry whose key mentions the path and
// returns how many were removed.
func (c *resultCache) invalidatePath(path string) int {
	if path == "" {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for key := range c.entries {
		if strings.Contains(key, path) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}
