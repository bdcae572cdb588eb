package agent

import (
	"fmt"
	"strings"
)

const (
	// sessionMemoryOpen/Close delimit the reminder block inside the system
	// prompt. InjectReminder replaces the block wholesale on every update.
	sessionMemoryOpen  = "<session_memory>"
	sessionMemoryClose = "</session_memory>"

	// maxStoredSummaries bounds the persisted log.
	maxStoredSummaries = 100
	// reminderSummaries is how many recent entries the rendered block shows.
	reminderSummaries = 12
)

// IterationSummary is one compact line of what an iteration did.
type IterationSummary struct {
	Iteration int      `json:"iteration"`
	ToolNames []string `json:"tool_names,omitempty"`
	Brief     string   `json:"brief"`
	Success   bool     `json:"success"`
}

// SessionMemory keeps a bounded running log of iteration summaries. The log
// survives compaction: even after old messages are summarized away, the
// reminder block keeps the model oriented about what it already did.
type SessionMemory struct {
	Summaries []IterationSummary `json:"summaries"`
}

// NewSessionMemory returns an empty memory.
func NewSessionMemory() *SessionMemory {
	return &SessionMemory{}
}

// AddIterationSummary appends a summary, evicting the oldest entry past
// the storage bound.
func (m *SessionMemory) AddIterationSummary(s IterationSummary) {
	m.Summaries = append(m.Summaries, s)
	if len(m.Summaries) > maxStoredSummaries {
		m.Summaries = m.Summaries[len(m.Summaries)-maxStoredSummaries:]
	}
}

// CompactSummary returns a one-line digest for embedding in a control
// packet. Empty when nothing has run yet.
func (m *SessionMemory) CompactSummary() string {
	if len(m.Summaries) == 0 {
		return ""
	}
	toolCalls := 0
	for _, s := range m.Summaries {
		toolCalls += len(s.ToolNames)
	}
	last := m.Summaries[len(m.Summaries)-1]
	digest := fmt.Sprintf("%d iterations, %d tool calls so far", len(m.Summaries), toolCalls)
	if last.Brief != "" {
		digest += "; last: " + last.Brief
	}
	return digest
}

// ToSystemReminder renders the reminder block, eliding all but the most
// recent entries. Empty string when nothing has run yet.
func (m *SessionMemory) ToSystemReminder() string {
	if len(m.Summaries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(sessionMemoryOpen)
	b.WriteString("\nWhat you have done so far this session:\n")
	start := 0
	if len(m.Summaries) > reminderSummaries {
		start = len(m.Summaries) - reminderSummaries
		fmt.Fprintf(&b, "(%d earlier iterations elided)\n", start)
	}
	for _, s := range m.Summaries[start:] {
		line := s.Brief
		if line == "" && len(s.ToolNames) > 0 {
			line = strings.Join(s.ToolNames, ", ")
		}
		if !s.Success {
			line += " (failed)"
		}
		fmt.Fprintf(&b, "%d. %s\n", s.Iteration, line)
	}
	b.WriteString(sessionMemoryClose)
	return b.String()
}

// InjectReminder returns the system prompt with the current reminder block
// appended, replacing any stale block from a previous iteration. Intended
// for ConversationHistory.UpdateSystemPrompt.
func (m *SessionMemory) InjectReminder(systemPrompt string) string {
	base := stripMemoryBlock(systemPrompt)
	reminder := m.ToSystemReminder()
	if reminder == "" {
		return base
	}
	return base + "\n\n" + reminder
}

func stripMemoryBlock(s string) string {
	start := strings.Index(s, sessionMemoryOpen)
	if start < 0 {
		return s
	}
	rel := strings.Index(s[start:], sessionMemoryClose)
	if rel < 0 {
		return s
	}
	end := start + rel + len(sessionMemoryClose)
	return strings.TrimRight(s[:start], "\n") + s[end:]
}
