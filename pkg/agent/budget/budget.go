// Package budget sizes chat requests against the model's context window:
// resolving the effective window, choosing num_ctx per request, detecting
// server-side truncation, and deciding when compaction must run.
package budget

import (
	"fmt"

	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/config"
)

const (
	// MinContextWindow is the floor of the effective window. Models that
	// report less (or nothing) still get this much.
	MinContextWindow = 8192

	// MinNumCtx is the floor of the per-request num_ctx.
	MinNumCtx = 4096

	// numCtxAlign rounds num_ctx up to the next multiple: Ollama reallocates
	// the KV cache when num_ctx changes, so coarse steps keep reloads rare.
	numCtxAlign = 2048

	// responseReserve pads the payload estimate so the window fits the
	// request plus slack for chat-template expansion.
	responseReserve = 512

	// compactionThreshold of the effective window triggers history
	// compaction on the next iteration.
	compactionThreshold = 0.75

	// Usage fractions at which a one-time conciseness reminder is injected.
	usageNoticeLow  = 0.70
	usageNoticeHigh = 0.85
)

// Budgeter owns context-window arithmetic for one turn. Not safe for
// concurrent use; each loop engine builds its own.
type Budgeter struct {
	effectiveWindow int
	numPredict      int

	// lastPromptTokens is the real prompt_eval_count from the previous
	// iteration; it replaces the estimate for compaction decisions.
	lastPromptTokens int

	notedLow  bool
	notedHigh bool
}

// New resolves the effective window from the detected capability, the
// per-model cap, and the global cap:
//
//	effective = clamp(detected, MinContextWindow, min(model_cap, global_cap))
//
// A model that reports no context length is assumed to have the minimum.
func New(capability *agent.ModelCapability, modelCfg *config.ModelConfig, globalCap, numPredict int) *Budgeter {
	detected := 0
	if capability != nil {
		detected = capability.ContextLength
	}
	if detected <= 0 {
		detected = MinContextWindow
	}

	ceiling := globalCap
	if ceiling <= 0 {
		ceiling = config.DefaultGlobalContextCap
	}
	if modelCfg != nil && modelCfg.ContextCap > 0 && modelCfg.ContextCap < ceiling {
		ceiling = modelCfg.ContextCap
	}

	window := detected
	if window > ceiling {
		window = ceiling
	}
	if window < MinContextWindow {
		window = MinContextWindow
	}

	if numPredict <= 0 {
		numPredict = config.DefaultNumPredict
	}

	return &Budgeter{effectiveWindow: window, numPredict: numPredict}
}

// EffectiveWindow returns the resolved context window in tokens.
func (b *Budgeter) EffectiveWindow() int {
	return b.effectiveWindow
}

// EstimateTokens approximates the prompt size of a message list with the
// chars/4 heuristic, counting content, tool-call JSON, and tool names.
func EstimateTokens(messages []agent.ConversationMessage) int {
	chars := 0
	for _, m := range messages {
		chars += len(m.Role) + len(m.Content) + len(m.ToolName)
		for _, tc := range m.ToolCalls {
			chars += len(tc.Name) + len(agent.StableJSON(tc.Args))
		}
	}
	return (chars + 3) / 4
}

// NumCtx picks the context allocation for a request carrying the given
// payload estimate: payload + output budget + reserve, aligned up, and
// clamped to [MinNumCtx, effective window].
func (b *Budgeter) NumCtx(payloadTokens int) int {
	need := payloadTokens + b.numPredict + responseReserve
	aligned := ((need + numCtxAlign - 1) / numCtxAlign) * numCtxAlign
	if aligned < MinNumCtx {
		aligned = MinNumCtx
	}
	if aligned > b.effectiveWindow {
		aligned = b.effectiveWindow
	}
	return aligned
}

// RecordActualPromptTokens stores the real prompt count reported by the
// server and reports whether silent truncation is suspected: the server
// counted far fewer tokens than we sent, meaning it dropped messages.
func (b *Budgeter) RecordActualPromptTokens(actual, estimated int) (truncationSuspected bool) {
	if actual > 0 {
		b.lastPromptTokens = actual
	}
	if actual > 0 && estimated > 1000 && float64(actual)/float64(estimated) < 0.5 {
		return true
	}
	return false
}

// PromptTokens returns the best known prompt size: the last real count if
// the server reported one, otherwise the caller's estimate.
func (b *Budgeter) PromptTokens(estimated int) int {
	if b.lastPromptTokens > 0 {
		return b.lastPromptTokens
	}
	return estimated
}

// ShouldCompact reports whether the prompt has outgrown the compaction
// threshold of the effective window.
func (b *Budgeter) ShouldCompact(promptTokens int) bool {
	return float64(promptTokens) > compactionThreshold*float64(b.effectiveWindow)
}

// UsageFraction returns prompt size as a fraction of the window.
func (b *Budgeter) UsageFraction(promptTokens int) float64 {
	if b.effectiveWindow == 0 {
		return 0
	}
	return float64(promptTokens) / float64(b.effectiveWindow)
}

// UsageNote returns a one-time conciseness reminder when usage first
// crosses 70% and again at 85%. The bool reports whether to inject.
func (b *Budgeter) UsageNote(promptTokens int) (string, bool) {
	frac := b.UsageFraction(promptTokens)
	switch {
	case frac >= usageNoticeHigh && !b.notedHigh:
		b.notedHigh = true
		b.notedLow = true
		return b.usageNoteText(promptTokens), true
	case frac >= usageNoticeLow && !b.notedLow:
		b.notedLow = true
		return b.usageNoteText(promptTokens), true
	}
	return "", false
}

func (b *Budgeter) usageNoteText(promptTokens int) string {
	pct := promptTokens * 100 / b.effectiveWindow
	return fmt.Sprintf("Context usage: %d%% — be concise.", pct)
}
