package agent

import "strings"

// BlankTurnContent stands in for an empty assistant turn that still carried
// thinking or tool calls. Several chat templates drop an assistant message
// with empty content entirely, which makes the model forget the turn
// happened; the placeholder keeps the turn visible.
const BlankTurnContent = "[Reasoning completed]"

// ConversationHistory is the model-visible message list for one user turn.
// Index 0 is always the system prompt. Owned by a single loop engine; not
// safe for concurrent use.
type ConversationHistory struct {
	messages []ConversationMessage
}

// NewConversationHistory builds a history seeded with the system prompt and
// the opening user message.
func NewConversationHistory(systemPrompt, userMessage string) *ConversationHistory {
	return &ConversationHistory{
		messages: []ConversationMessage{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: userMessage},
		},
	}
}

// SeedPrior inserts previously persisted conversation messages between
// the system prompt and the opening message of a new turn, so follow-up
// turns see the session's earlier exchanges. The current system prompt
// stays at index 0; the historical one is never replayed.
func (h *ConversationHistory) SeedPrior(msgs []ConversationMessage) {
	if len(msgs) == 0 {
		return
	}
	seeded := make([]ConversationMessage, 0, len(h.messages)+len(msgs))
	seeded = append(seeded, h.messages[0])
	for _, m := range msgs {
		if m.Role == RoleSystem {
			continue
		}
		seeded = append(seeded, m)
	}
	seeded = append(seeded, h.messages[1:]...)
	h.messages = seeded
}

// Messages returns the underlying message list. Callers must not reorder
// or remove entries; use the mutation methods for that.
func (h *ConversationHistory) Messages() []ConversationMessage {
	return h.messages
}

// Len returns the number of messages including the system prompt.
func (h *ConversationHistory) Len() int {
	return len(h.messages)
}

// AddAssistantMessage appends a plain assistant turn with no tool calls.
// An empty response with non-empty thinking is stored as BlankTurnContent.
func (h *ConversationHistory) AddAssistantMessage(response, thinking string) *ConversationMessage {
	content := strings.TrimSpace(response)
	if content == "" && strings.TrimSpace(thinking) != "" {
		content = BlankTurnContent
	}
	h.messages = append(h.messages, ConversationMessage{
		Role:     RoleAssistant,
		Content:  content,
		Thinking: thinking,
	})
	return &h.messages[len(h.messages)-1]
}

// AssistantToolTurn is the input to AddAssistantToolMessage.
type AssistantToolTurn struct {
	ToolCalls []ToolCall
	// Native marks a model that emitted structured tool_calls. Text-mode
	// models embed the calls in content instead.
	Native   bool
	Response string
	Thinking string
	// ToolSummary is a compact human-readable rendering of the calls,
	// e.g. "Called: read_file(main.go), search(config)".
	ToolSummary string
}

// AddAssistantToolMessage appends the assistant turn that carried this
// iteration's tool calls and returns the pushed message.
//
// Native mode keeps the structured ToolCalls field so each following tool
// message can reference its call. Text mode annotates the content with the
// tool summary, because the raw tool-call syntax was consumed by the parser
// and must not echo back to the model verbatim.
func (h *ConversationHistory) AddAssistantToolMessage(turn AssistantToolTurn) *ConversationMessage {
	content := strings.TrimSpace(turn.Response)

	if turn.Native {
		if content == "" {
			if turn.ToolSummary != "" {
				content = turn.ToolSummary
			} else {
				content = BlankTurnContent
			}
		}
	} else {
		annotation := ""
		if turn.ToolSummary != "" {
			annotation = "[" + turn.ToolSummary + "]"
		}
		switch {
		case content == "" && annotation != "":
			content = annotation
		case content == "":
			content = BlankTurnContent
		case annotation != "":
			content = content + "\n\n" + annotation
		}
	}

	msg := ConversationMessage{
		Role:     RoleAssistant,
		Content:  content,
		Thinking: turn.Thinking,
	}
	if turn.Native {
		msg.ToolCalls = turn.ToolCalls
	}
	h.messages = append(h.messages, msg)
	return &h.messages[len(h.messages)-1]
}

// AddNativeToolResults appends one tool message per result. Valid only
// after a native-mode assistant turn with matching tool calls.
func (h *ConversationHistory) AddNativeToolResults(results []NativeToolResult) {
	for _, r := range results {
		h.messages = append(h.messages, ConversationMessage{
			Role:     RoleTool,
			Content:  r.Content,
			ToolName: r.ToolName,
		})
	}
}

// AddXmlToolResults appends all text-mode tool results as a single user
// message, double-newline-joined, with the continuation directive last.
func (h *ConversationHistory) AddXmlToolResults(results []string, continuation string) {
	parts := make([]string, 0, len(results)+1)
	for _, r := range results {
		if strings.TrimSpace(r) != "" {
			parts = append(parts, r)
		}
	}
	if strings.TrimSpace(continuation) != "" {
		parts = append(parts, continuation)
	}
	h.messages = append(h.messages, ConversationMessage{
		Role:    RoleUser,
		Content: strings.Join(parts, "\n\n"),
	})
}

// AddContinuation appends a user message steering the next iteration.
func (h *ConversationHistory) AddContinuation(text string) {
	h.messages = append(h.messages, ConversationMessage{
		Role:    RoleUser,
		Content: text,
	})
}

// AddSystemNote appends an ephemeral user message that the next
// CleanStaleSystemNotes call removes. Text already carrying the note
// prefix is appended verbatim.
func (h *ConversationHistory) AddSystemNote(text string) {
	if !strings.HasPrefix(text, SystemNotePrefix) {
		text = SystemNotePrefix + " " + text + "]"
	}
	h.messages = append(h.messages, ConversationMessage{
		Role:    RoleUser,
		Content: text,
	})
}

// CleanStaleSystemNotes deletes every ephemeral system note and returns
// how many were removed. Runs at the start of each iteration so one-shot
// hints (denials, usage warnings, external-change notices) don't pile up.
func (h *ConversationHistory) CleanStaleSystemNotes() int {
	kept := h.messages[:0]
	removed := 0
	for _, m := range h.messages {
		if m.Role == RoleUser && strings.HasPrefix(m.Content, SystemNotePrefix) {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	h.messages = kept
	return removed
}

// UpdateSystemPrompt transforms the system prompt in place.
func (h *ConversationHistory) UpdateSystemPrompt(fn func(current string) string) {
	h.messages[0].Content = fn(h.messages[0].Content)
}

// SpliceSummary replaces messages [1, cut) with a single assistant message
// holding the summary. The caller picks cut so that no assistant tool-call
// turn is separated from its results. Out-of-range cuts are ignored.
func (h *ConversationHistory) SpliceSummary(cut int, summary string) {
	if cut <= 1 || cut > len(h.messages) {
		return
	}
	replacement := ConversationMessage{Role: RoleAssistant, Content: summary}
	h.messages = append(h.messages[:1], append([]ConversationMessage{replacement}, h.messages[cut:]...)...)
}

// PrepareForRequest strips thinking from every message and returns the
// list. Thinking is a streaming artifact; chat templates re-render it as
// context the model then treats as its own fresh reasoning.
func (h *ConversationHistory) PrepareForRequest() []ConversationMessage {
	for i := range h.messages {
		h.messages[i].Thinking = ""
	}
	return h.messages
}
