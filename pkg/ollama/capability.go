package ollama

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/kiln-dev/kiln/pkg/agent"
)

// capabilityCache holds detected model capabilities. Read-mostly: loop
// iterations read a snapshot, only Capability misses and RefreshAll write.
type capabilityCache struct {
	mu      sync.RWMutex
	records map[string]agent.ModelCapability

	// refreshMu serializes the miss/refresh path so a burst of first
	// requests probes the host once.
	refreshMu sync.Mutex
}

func (cc *capabilityCache) get(model string) (agent.ModelCapability, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	rec, ok := cc.records[model]
	return rec, ok
}

func (cc *capabilityCache) put(rec agent.ModelCapability) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.records == nil {
		cc.records = make(map[string]agent.ModelCapability)
	}
	cc.records[rec.Name] = rec
}

func (cc *capabilityCache) replace(records map[string]agent.ModelCapability) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.records = records
}

// Capability returns the capability record for a model, probing the host
// on first sight and caching the result for the life of the process.
func (c *Client) Capability(ctx context.Context, model string) (*agent.ModelCapability, error) {
	if rec, ok := c.caps.get(model); ok {
		return &rec, nil
	}

	c.caps.refreshMu.Lock()
	defer c.caps.refreshMu.Unlock()
	if rec, ok := c.caps.get(model); ok {
		return &rec, nil
	}

	show, err := c.ShowModel(ctx, model)
	if err != nil {
		return nil, err
	}
	rec := capabilityFromShow(model, show)
	c.caps.put(rec)
	return &rec, nil
}

// ModelProbe pairs a served model tag with its /api/show detail.
// Show is nil when the detail probe failed for that model.
type ModelProbe struct {
	Tag  TagModel
	Show *ShowResponse
}

// ProbeModels re-probes every model on the host and atomically replaces
// the capability cache. The raw probe results are returned so callers
// can persist model records in the same pass.
func (c *Client) ProbeModels(ctx context.Context) ([]ModelProbe, error) {
	c.caps.refreshMu.Lock()
	defer c.caps.refreshMu.Unlock()

	tags, err := c.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	probes := make([]ModelProbe, 0, len(tags))
	records := make(map[string]agent.ModelCapability, len(tags))
	for _, tag := range tags {
		show, err := c.ShowModel(ctx, tag.Name)
		if err != nil {
			// Keep what we knew about the model rather than losing it.
			if rec, ok := c.caps.get(tag.Name); ok {
				records[tag.Name] = rec
			}
			probes = append(probes, ModelProbe{Tag: tag})
			continue
		}
		records[tag.Name] = capabilityFromShow(tag.Name, show)
		probes = append(probes, ModelProbe{Tag: tag, Show: show})
	}
	c.caps.replace(records)
	return probes, nil
}

// RefreshCapabilities re-probes every model on the host, replacing the
// capability cache, and returns just the tag listing.
func (c *Client) RefreshCapabilities(ctx context.Context) ([]TagModel, error) {
	probes, err := c.ProbeModels(ctx)
	if err != nil {
		return nil, err
	}
	tags := make([]TagModel, len(probes))
	for i, p := range probes {
		tags[i] = p.Tag
	}
	return tags, nil
}

// ContextLengthFromShow extracts the context window from a show
// response. 0 when the server did not report one.
func ContextLengthFromShow(show *ShowResponse) int {
	return extractContextLength(show.ModelInfo, show.Parameters)
}

func capabilityFromShow(name string, show *ShowResponse) agent.ModelCapability {
	rec := agent.ModelCapability{Name: name}
	for _, capName := range show.Capabilities {
		switch capName {
		case "tools":
			rec.SupportsTools = true
		case "thinking":
			rec.SupportsThinking = true
		}
	}
	rec.ContextLength = extractContextLength(show.ModelInfo, show.Parameters)
	return rec
}

// numCtxParameter matches a num_ctx setting in the modelfile parameter
// dump, e.g. "num_ctx  8192".
var numCtxParameter = regexp.MustCompile(`\bnum_ctx\s+(\d+)`)

// extractContextLength finds the model's context window. Ollama reports it
// under a family-prefixed model_info key ("qwen3.context_length"); older
// or imported models fall back to bare keys or a modelfile parameter.
func extractContextLength(info map[string]any, parameters string) int {
	for key, v := range info {
		if strings.HasSuffix(key, ".context_length") {
			if n := intValue(v); n > 0 {
				return n
			}
		}
	}
	for _, key := range []string{"context_length", "context_window", "num_ctx"} {
		if v, ok := info[key]; ok {
			if n := intValue(v); n > 0 {
				return n
			}
		}
	}
	if m := numCtxParameter.FindStringSubmatch(parameters); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return 0
}

func intValue(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case int64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n
		}
	}
	return 0
}
