package dispatch

import (
	"fmt"
	"strings"

	"github.com/kiln-dev/kiln/pkg/agent"
)

// CallResult pairs one tool call with its outcome.
type CallResult struct {
	Call   agent.ToolCall
	Result *agent.ToolResult

	// Denied marks a call the user refused. Result holds the internal
	// error; the model-visible content is the denial hint.
	Denied bool

	// Cached marks a result served from the turn cache.
	Cached bool
}

// ModelContent is the result text fed back to the model.
func (r CallResult) ModelContent() string {
	switch {
	case r.Denied:
		return agent.DenialHint
	case r.Result == nil:
		return "(no result)"
	case r.Result.Failed():
		return "ERROR: " + r.Result.Error
	default:
		return r.Result.Output
	}
}

// BatchResult is the outcome of one executed batch. Results keep the
// original call order regardless of execution bucketing.
type BatchResult struct {
	Results []CallResult

	// WroteFiles lists the workspace-relative paths written by this
	// batch, in first-write order.
	WroteFiles []string

	// Notes carry batch-level feedback for the model (oversized-batch
	// warning, fewer-tools hint). The loop injects them as system notes.
	Notes []string
}

// NativeResults renders the batch in the native tool-calling wire
// shape: one tool-role message per call.
func (b *BatchResult) NativeResults() []agent.NativeToolResult {
	out := make([]agent.NativeToolResult, 0, len(b.Results))
	for _, r := range b.Results {
		out = append(out, agent.NativeToolResult{
			Content:  r.ModelContent(),
			ToolName: r.Call.Name,
		})
	}
	return out
}

// TextResults renders the batch for text-mode feedback: one labelled
// block per call, joined into a single user message by the caller.
func (b *BatchResult) TextResults() []string {
	out := make([]string, 0, len(b.Results))
	for _, r := range b.Results {
		out = append(out, fmt.Sprintf("[%s result]\n%s", callLabel(r.Call), r.ModelContent()))
	}
	return out
}

// FailedCount reports how many calls produced errors (denials included).
func (b *BatchResult) FailedCount() int {
	n := 0
	for _, r := range b.Results {
		if r.Denied || r.Result.Failed() {
			n++
		}
	}
	return n
}

// callLabel is the short human-readable form of a call used in text
// results and logs: the tool name plus its primary argument.
func callLabel(call agent.ToolCall) string {
	if arg := primaryArg(call); arg != "" {
		return call.Name + " " + arg
	}
	return call.Name
}

func primaryArg(call agent.ToolCall) string {
	for _, key := range []string{"path", "query", "pattern", "symbolName", "command", "task"} {
		if v, ok := call.Args[key].(string); ok && strings.TrimSpace(v) != "" {
			return compact(v, 60)
		}
	}
	return ""
}

// compact single-lines a string and truncates it for labels and titles.
func compact(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
