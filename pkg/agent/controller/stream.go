package controller

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/events"
)

// uiStreamInterval is the minimum gap between streamed UI updates. The
// throttle is clocked synchronously inside the decode loop; a deferred
// timer would let a fast token stream queue unbounded flushes.
const uiStreamInterval = 32 * time.Millisecond

// StreamResult is one streaming chat call, fully collected.
type StreamResult struct {
	Response string
	Thinking string

	// NativeCalls are the structured tool calls the server parsed.
	NativeCalls []agent.ToolCall

	// ToolParseErrors are recoverable server-side parse failures; the
	// recoverer rebuilds calls from them after the stream ends.
	ToolParseErrors []string

	// Truncated is set when generation stopped at the output limit.
	Truncated bool

	PromptTokens     int
	CompletionTokens int

	// ThinkingMs is the wall time between the first and last thinking
	// deltas, reported with the persisted thinking block.
	ThinkingMs int64
}

// streamCollector drains one chat stream: it accumulates thinking,
// content and tool calls, and narrates progress to the UI. Content
// streaming freezes the moment tool-call syntax is detected so call
// JSON never reaches the user.
type streamCollector struct {
	bus        agent.EventBus
	log        *slog.Logger
	model      string
	knownTools map[string]bool
	interval   time.Duration

	res StreamResult

	thinking strings.Builder
	content  strings.Builder

	thinkingShown bool
	thinkingStart time.Time
	thinkingLast  time.Time
	collapsed     bool

	frozen    bool
	flushed   int // bytes of content already published
	lastFlush time.Time
}

func newStreamCollector(bus agent.EventBus, log *slog.Logger, model string, knownTools map[string]bool) *streamCollector {
	return &streamCollector{
		bus:        bus,
		log:        log,
		model:      model,
		knownTools: knownTools,
		interval:   uiStreamInterval,
	}
}

// collect consumes the channel until it closes. A fatal ErrorChunk ends
// the call with an error (the partial result is still returned for
// persistence); tool-parse errors and cancellation do not.
func (sc *streamCollector) collect(ctx context.Context, stream <-chan agent.Chunk) (*StreamResult, error) {
	for chunk := range stream {
		switch c := chunk.(type) {
		case *agent.ThinkingChunk:
			sc.onThinking(ctx, c.Content)
		case *agent.TextChunk:
			sc.onText(ctx, c.Content)
		case *agent.ToolCallChunk:
			sc.onToolCall(ctx, c.Call)
		case *agent.DoneChunk:
			sc.res.PromptTokens = c.PromptTokens
			sc.res.CompletionTokens = c.CompletionTokens
			if c.Reason == agent.DoneReasonLength {
				sc.res.Truncated = true
			}
		case *agent.ErrorChunk:
			if c.IsToolParseError() {
				sc.res.ToolParseErrors = append(sc.res.ToolParseErrors, c.Message)
				continue
			}
			sc.finish(ctx)
			return &sc.res, fmt.Errorf("model stream failed: %s", c.Message)
		}
	}
	sc.finish(ctx)
	return &sc.res, nil
}

func (sc *streamCollector) onThinking(ctx context.Context, delta string) {
	if delta == "" {
		return
	}
	now := time.Now()
	if !sc.thinkingShown {
		sc.thinkingShown = true
		sc.thinkingStart = now
		sc.post(ctx, events.ShowThinkingPayload{Model: sc.model})
	}
	sc.thinkingLast = now
	sc.thinking.WriteString(delta)
	sc.post(ctx, events.StreamThinkingPayload{Delta: delta})
}

func (sc *streamCollector) onText(ctx context.Context, delta string) {
	if delta == "" {
		return
	}
	sc.content.WriteString(delta)
	if sc.frozen {
		return
	}
	text := sc.content.String()
	if cut, name := detectToolCallSyntax(text, sc.knownTools); cut >= 0 {
		// Publish the prose before the call syntax, then stop streaming.
		sc.flushTo(ctx, cut, true)
		sc.freeze(ctx, preparingHint(name, nil))
		return
	}
	sc.flushTo(ctx, len(text)-uiHoldback(text), false)
}

func (sc *streamCollector) onToolCall(ctx context.Context, call agent.ToolCall) {
	sc.res.NativeCalls = append(sc.res.NativeCalls, call)
	if sc.frozen {
		return
	}
	text := sc.content.String()
	sc.flushTo(ctx, len(text)-uiHoldback(text), true)
	sc.freeze(ctx, preparingHint(call.Name, call.Args))
}

func (sc *streamCollector) freeze(ctx context.Context, hint string) {
	sc.frozen = true
	sc.collapseThinking(ctx, hint)
}

func (sc *streamCollector) collapseThinking(ctx context.Context, hint string) {
	if !sc.thinkingShown || sc.collapsed {
		return
	}
	sc.collapsed = true
	sc.post(ctx, events.CollapseThinkingPayload{
		DurationMs: time.Since(sc.thinkingStart).Milliseconds(),
		Preparing:  hint,
	})
}

// flushTo publishes content up to the byte offset limit, honoring the
// throttle unless forced. The limit is walked back to a rune boundary
// so a multi-byte character split across network deltas never leaks a
// partial encoding to the UI.
func (sc *streamCollector) flushTo(ctx context.Context, limit int, force bool) {
	text := sc.content.String()
	for limit > sc.flushed {
		r, size := utf8.DecodeLastRuneInString(text[:limit])
		if r == utf8.RuneError && size <= 1 {
			limit--
			continue
		}
		break
	}
	if limit <= sc.flushed {
		return
	}
	if !force && time.Since(sc.lastFlush) < sc.interval {
		return
	}
	delta := text[sc.flushed:limit]
	sc.flushed = limit
	sc.lastFlush = time.Now()
	if delta = stripCompletionSentinel(delta); strings.TrimSpace(delta) == "" {
		return
	}
	// First visible response text folds the thinking indicator.
	sc.collapseThinking(ctx, "")
	sc.post(ctx, events.StreamChunkPayload{Delta: delta})
}

// finish flushes whatever publishable text remains and seals the result.
// Runs on normal close, fatal error, and cancellation alike.
func (sc *streamCollector) finish(ctx context.Context) {
	sc.res.Response = sc.content.String()
	sc.res.Thinking = sc.thinking.String()
	if sc.thinkingShown {
		sc.res.ThinkingMs = sc.thinkingLast.Sub(sc.thinkingStart).Milliseconds()
	}
	if !sc.frozen {
		text := sc.content.String()
		sc.flushTo(ctx, len(text)-sentinelHoldback(text), true)
	}
	sc.collapseThinking(ctx, "")
}

func (sc *streamCollector) post(ctx context.Context, ev events.Event) {
	if err := sc.bus.Post(ctx, ev); err != nil {
		sc.log.Warn("Failed to publish stream event", "type", ev.EventType(), "error", err)
	}
}

// bareCallSyntaxPattern spots a bare-JSON tool call mid-stream: an
// object opening with a name and an arguments key. [^{}] keeps the
// match from jumping across an unrelated object boundary.
var bareCallSyntaxPattern = regexp.MustCompile(`\{[^{}]*?"name"\s*:\s*"([A-Za-z0-9_.-]+)"[^{}]*?"(?:arguments|args)"\s*:\s*\{`)

// callNamePattern extracts a call name once enough of the JSON has
// streamed in, for the preparing hint only.
var callNamePattern = regexp.MustCompile(`"name"\s*:\s*"([A-Za-z0-9_.-]+)"`)

// detectToolCallSyntax returns the offset where tool-call syntax begins
// in streamed content, plus the tool name when already readable, or
// (-1, ""). A <tool_call> tag counts unconditionally; bare JSON counts
// only when its name is a known tool, since models legitimately emit
// JSON in prose.
func detectToolCallSyntax(text string, known map[string]bool) (int, string) {
	cut := -1
	name := ""
	if i := strings.Index(text, toolCallOpen); i >= 0 {
		cut = i
		if m := callNamePattern.FindStringSubmatch(text[i:]); m != nil {
			name = m[1]
		}
	}
	offset := 0
	rest := text
	for {
		m := bareCallSyntaxPattern.FindStringSubmatchIndex(rest)
		if m == nil {
			break
		}
		candidate := rest[m[2]:m[3]]
		if known[candidate] {
			if start := offset + m[0]; cut < 0 || start < cut {
				cut = start
				name = candidate
			}
			break
		}
		offset += m[1]
		rest = rest[m[1]:]
	}
	return cut, name
}

// uiHoldTokens must never flash on screen, so any suffix that could be
// the start of one is withheld from a flush until more text decides it.
var uiHoldTokens = []string{agent.CompletionSentinel, toolCallOpen, controlOpen}

func uiHoldback(text string) int {
	hold := 0
	for _, token := range uiHoldTokens {
		for n := min(len(token), len(text)); n > 0; n-- {
			if strings.EqualFold(text[len(text)-n:], token[:n]) {
				if n > hold {
					hold = n
				}
				break
			}
		}
	}
	return hold
}

// sentinelHoldback is the final-flush variant: only a trailing (whole or
// partial) completion sentinel stays back, since a complete stream can
// no longer grow a tool-call tag out of its tail.
func sentinelHoldback(text string) int {
	token := agent.CompletionSentinel
	for n := min(len(token), len(text)); n > 0; n-- {
		if strings.EqualFold(text[len(text)-n:], token[:n]) {
			return n
		}
	}
	return 0
}

// stripCompletionSentinel removes every complete sentinel occurrence,
// case-insensitively. Partial occurrences at flush boundaries are
// prevented by the holdback, so whole-token removal suffices. The scan
// slides EqualFold windows over the original bytes; lowercasing a copy
// would shift offsets on runes whose case pair changes width.
func stripCompletionSentinel(s string) string {
	token := agent.CompletionSentinel
	var b strings.Builder
	start := 0
	for i := 0; i+len(token) <= len(s); {
		if strings.EqualFold(s[i:i+len(token)], token) {
			b.WriteString(s[start:i])
			i += len(token)
			start = i
			continue
		}
		i++
	}
	if start == 0 {
		return s
	}
	b.WriteString(s[start:])
	return b.String()
}

// preparingHint renders the short "what happens next" label shown when
// the thinking indicator collapses into a detected tool call.
func preparingHint(name string, args map[string]any) string {
	arg := func(key string) string {
		if v, ok := args[key].(string); ok {
			return strings.TrimSpace(v)
		}
		return ""
	}
	switch name {
	case "write":
		if p := arg("path"); p != "" {
			return "Writing " + p + "…"
		}
		return "Writing a file…"
	case "edit":
		if p := arg("path"); p != "" {
			return "Editing " + p + "…"
		}
		return "Editing a file…"
	case "read_file":
		if p := arg("path"); p != "" {
			return "Reading " + p + "…"
		}
		return "Reading a file…"
	case "search":
		return "Searching the workspace…"
	case "terminal":
		return "Running a command…"
	case "run_subagent":
		return "Delegating a sub-task…"
	case "":
		return "Preparing tool calls…"
	default:
		return "Preparing " + name + "…"
	}
}
