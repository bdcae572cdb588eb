package controller

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/events"
)

// Turn closeout. Every turn ends with a final message for the user,
// built by a degrading ladder: the text the model already streamed, a
// cheap summarization call over recent tool outputs, a bullet list of
// what ran, and as a last resort a canned line. Title generation rides
// here too: the first turn of an untitled session races a short model
// call against a fixed timeout.

const (
	titleTimeout   = 15 * time.Second
	summaryTimeout = 20 * time.Second

	// summarySourceCalls is how many recent tool results feed the
	// fallback summary call and the bullet list.
	summarySourceCalls = 6

	// summaryOutputCap bounds one tool output's contribution.
	summaryOutputCap = 1500

	// condensedThinkingCap bounds the reasoning excerpt passed to the
	// fallback summary call.
	condensedThinkingCap = 2000

	maxTitleWords = 8
)

// buildFinalMessage runs the closeout ladder. The second return value
// reports whether the message adds content beyond what was already
// streamed to the UI; only then is a final_message event published.
// Errored turns skip the summary call and the canned success line: the
// error event already told the user what broke.
func (e *Engine) buildFinalMessage(ctx context.Context, status agent.TurnStatus) (string, bool) {
	if text := strings.TrimSpace(strings.Join(e.streamedText, "\n\n")); text != "" {
		return text, false
	}
	if status == agent.TurnStatusCompleted {
		if summary := e.modelTurnSummary(ctx); summary != "" {
			return summary, true
		}
	}
	if len(e.recentCalls) > 0 {
		var b strings.Builder
		b.WriteString("Completed the following actions:\n")
		for _, label := range e.recentCalls {
			b.WriteString("- " + label + "\n")
		}
		return strings.TrimSpace(b.String()), true
	}
	if status != agent.TurnStatusCompleted {
		return "", false
	}
	return "Task completed successfully.", true
}

// modelTurnSummary asks the model for a 2-4 sentence recap of the turn,
// grounded in the most recent tool outputs and a condensed slice of its
// own reasoning. Best-effort: any failure falls through the ladder.
func (e *Engine) modelTurnSummary(ctx context.Context) string {
	if ctx.Err() != nil || len(e.recentOutputs) == 0 {
		return ""
	}
	pb := e.lc.Executor.PromptBuilder
	thinking := condenseThinking(e.thinkingLog)
	req := e.chatRequest([]agent.ConversationMessage{
		{Role: agent.RoleSystem, Content: pb.BuildTurnSummarySystemPrompt()},
		{Role: agent.RoleUser, Content: pb.BuildTurnSummaryUserPrompt(e.recentOutputs, thinking)},
	}, true)

	sctx, cancel := context.WithTimeout(ctx, summaryTimeout)
	defer cancel()
	resp, err := e.lc.Backend.ChatNoStream(sctx, req)
	if err != nil {
		e.log.Warn("Fallback turn summary failed", "error", err)
		return ""
	}
	return StripSentinel(resp.Content)
}

// condenseThinking flattens the retained reasoning excerpts into one
// whitespace-collapsed block for the summary prompt.
func condenseThinking(log []string) string {
	joined := strings.Join(log, " ")
	joined = strings.Join(strings.Fields(joined), " ")
	return tailChars(joined, condensedThinkingCap)
}

// maybeStartTitle launches background title generation when this is a
// top-level turn of a still-untitled session.
func (e *Engine) maybeStartTitle(ctx context.Context) {
	if e.lc.IsSubAgent() || e.lc.Services == nil || e.lc.Services.Session == nil {
		return
	}
	sess, err := e.lc.Services.Session.GetSession(ctx, e.lc.SessionID)
	if err != nil {
		e.log.Warn("Could not check session title", "error", err)
		return
	}
	if sess.Title != nil {
		return
	}
	task := e.lc.Task
	e.background.Add(1)
	go func() {
		defer e.background.Done()
		e.generateTitle(ctx, task)
	}()
}

// generateTitle races a short model call against titleTimeout. On any
// failure the session simply keeps its placeholder title.
func (e *Engine) generateTitle(ctx context.Context, task string) {
	pb := e.lc.Executor.PromptBuilder
	req := e.chatRequest([]agent.ConversationMessage{
		{Role: agent.RoleSystem, Content: pb.BuildTitleSystemPrompt()},
		{Role: agent.RoleUser, Content: pb.BuildTitleUserPrompt(task)},
	}, true)

	tctx, cancel := context.WithTimeout(ctx, titleTimeout)
	defer cancel()
	resp, err := e.lc.Backend.ChatNoStream(tctx, req)
	if err != nil {
		e.log.Debug("Title generation skipped", "error", err)
		return
	}
	title := sanitizeTitle(resp.Content)
	if title == "" {
		return
	}
	if err := e.lc.Services.Session.SetTitle(ctx, e.lc.SessionID, title); err != nil {
		e.log.Warn("Failed to store session title", "error", err)
		return
	}
	e.emit(ctx, events.TitleUpdatedPayload{Title: title})
}

// sanitizeTitle flattens a model's title suggestion: first line only,
// wrapping quotes and trailing period dropped, at most eight words.
func sanitizeTitle(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, "\"'`“”‘’")
	s = strings.TrimSuffix(strings.TrimSpace(s), ".")
	words := strings.Fields(s)
	if len(words) > maxTitleWords {
		words = words[:maxTitleWords]
	}
	return strings.Join(words, " ")
}

// toolCallSummary renders the "Called: ..." annotation stored with an
// assistant tool turn in text mode.
func toolCallSummary(calls []agent.ToolCall) string {
	parts := make([]string, 0, len(calls))
	for _, c := range calls {
		parts = append(parts, callBullet(c))
	}
	return "Called: " + strings.Join(parts, ", ")
}

// callBullet is the short label for one call: the tool name plus its
// primary argument.
func callBullet(c agent.ToolCall) string {
	for _, key := range []string{"path", "query", "pattern", "symbolName", "command", "task"} {
		if v, ok := c.Args[key].(string); ok && strings.TrimSpace(v) != "" {
			return c.Name + "(" + oneLine(v, 48) + ")"
		}
	}
	return c.Name
}

// oneLine collapses whitespace and truncates for log lines and labels.
func oneLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// tailChars keeps the trailing max bytes of s on a rune boundary. Used
// where the end of a stream is the valuable part — the conclusions of a
// reasoning trace.
func tailChars(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := len(s) - max
	for cut < len(s) && !utf8.RuneStart(s[cut]) {
		cut++
	}
	return "..." + s[cut:]
}

// lastN returns the trailing n elements.
func lastN(list []string, n int) []string {
	if len(list) <= n {
		return list
	}
	return list[len(list)-n:]
}
