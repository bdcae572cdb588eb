package controller

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/agent/budget"
	"github.com/kiln-dev/kiln/pkg/events"
)

// History compaction. When the estimated prompt outgrows its share of
// the context window, the oldest exchanges are summarized by a model
// call and spliced into a single assistant message. The system prompt
// and the most recent messages survive verbatim; the session-memory
// reminder in the system prompt keeps the model oriented about work
// that got folded away.

const (
	// compactKeepRecent is how many trailing messages stay verbatim.
	compactKeepRecent = 6

	// compactSourceCap bounds one message's contribution to the
	// summarization transcript.
	compactSourceCap = 2000

	// compactTimeout bounds the summarization call. A slow local model
	// gets a generous window; past it the loop continues uncompacted.
	compactTimeout = 60 * time.Second
)

// CompactResult reports what one compaction pass did.
type CompactResult struct {
	SummarizedMessages int
	TokensBefore       int
	TokensAfter        int
}

// compactHistory summarizes the oldest history into one assistant
// message. Returns (nil, nil) when there is too little to compact; on
// failure the history is left untouched and the loop carries on with
// the full prompt.
func (e *Engine) compactHistory(ctx context.Context) (*CompactResult, error) {
	msgs := e.history.Messages()
	cut := len(msgs) - compactKeepRecent
	// Never orphan a native tool run: results must stay adjacent to the
	// assistant turn that called them, so the cut moves past them.
	for cut > 0 && cut < len(msgs) && msgs[cut].Role == agent.RoleTool {
		cut++
	}
	if cut <= 2 {
		return nil, nil
	}

	before := budget.EstimateTokens(msgs)
	transcript := renderTranscript(msgs[1:cut])
	pb := e.lc.Executor.PromptBuilder
	req := e.chatRequest([]agent.ConversationMessage{
		{Role: agent.RoleSystem, Content: pb.BuildCompactionSystemPrompt()},
		{Role: agent.RoleUser, Content: pb.BuildCompactionUserPrompt(transcript)},
	}, true)

	cctx, cancel := context.WithTimeout(ctx, compactTimeout)
	defer cancel()
	resp, err := e.lc.Backend.ChatNoStream(cctx, req)
	if err != nil {
		return nil, fmt.Errorf("compaction call failed: %w", err)
	}
	summary := strings.TrimSpace(resp.Content)
	if summary == "" {
		return nil, fmt.Errorf("compaction call returned an empty summary")
	}

	folded := cut - 1
	e.history.SpliceSummary(cut, "Summary of the work so far (earlier messages condensed):\n\n"+summary)
	after := budget.EstimateTokens(e.history.Messages())

	e.emit(ctx, events.ToolActionPayload{
		ActionID: uuid.New().String(),
		Tool:     "compact",
		Status:   events.ToolActionSuccess,
		Title:    fmt.Sprintf("Condensed %d earlier messages", folded),
		Detail:   fmt.Sprintf("~%d tokens -> ~%d tokens", before, after),
	})
	return &CompactResult{SummarizedMessages: folded, TokensBefore: before, TokensAfter: after}, nil
}

// renderTranscript flattens messages into role-labelled blocks for the
// compaction prompt, truncating oversized bodies so one giant tool
// result cannot crowd out the rest of the story.
func renderTranscript(msgs []agent.ConversationMessage) string {
	var b strings.Builder
	for _, m := range msgs {
		label := m.Role
		if m.Role == agent.RoleTool && m.ToolName != "" {
			label = "tool:" + m.ToolName
		}
		content := truncateChars(strings.TrimSpace(m.Content), compactSourceCap)
		if len(m.ToolCalls) > 0 {
			content += "\n[" + toolCallSummary(m.ToolCalls) + "]"
		}
		fmt.Fprintf(&b, "%s: %s\n\n", label, content)
	}
	return strings.TrimSpace(b.String())
}

// truncateChars cuts s at max bytes on a rune boundary, marking the cut.
func truncateChars(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "\n[... truncated]"
}
