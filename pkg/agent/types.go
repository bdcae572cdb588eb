package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Message roles. Mirrors the wire roles of the Ollama chat API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// SystemNotePrefix marks an ephemeral instruction injected as a user
// message. Notes carrying this prefix live for exactly one iteration —
// ConversationHistory.CleanStaleSystemNotes removes them at the start
// of the next one.
const SystemNotePrefix = "[SYSTEM NOTE:"

// ConversationMessage is the runtime message type that flows through
// the loop and to the chat backend.
type ConversationMessage struct {
	Role     string
	Content  string
	Thinking string // runtime-only; stripped by PrepareForRequest

	// ToolCalls is set on assistant messages in native-tools mode.
	ToolCalls []ToolCall

	// ToolName is set on tool-result messages in native-tools mode.
	ToolName string
}

// ToolCall represents the model's request to call a tool. Arguments
// arrive as loosely-typed JSON; each tool validates its own shape at
// the execution boundary.
type ToolCall struct {
	Name string
	Args map[string]any
}

// Signature returns a canonical form used for duplicate detection:
// the tool name followed by sorted key=value pairs.
func (c ToolCall) Signature() string {
	keys := make([]string, 0, len(c.Args))
	for k := range c.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(c.Name)
	for _, k := range keys {
		sb.WriteByte('|')
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(stableArgValue(c.Args[k]))
	}
	return sb.String()
}

// CacheKey returns the cache lookup key for read-only cacheable calls:
// tool name plus a deterministic JSON rendering of the arguments.
func (c ToolCall) CacheKey() string {
	return c.Name + ":" + StableJSON(c.Args)
}

func stableArgValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return StableJSON(v)
	}
}

// StableJSON renders a value as JSON with deterministic map-key order.
// encoding/json already sorts map keys, so a plain Marshal suffices;
// the helper exists so call sites do not depend on that detail.
func StableJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// ToolResult is the output of a single tool execution.
type ToolResult struct {
	Output    string
	Error     string // empty on success
	ElapsedMs int64
}

// Failed reports whether the execution produced an error.
func (r *ToolResult) Failed() bool { return r != nil && r.Error != "" }

// NativeToolResult pairs a tool's output with its name for the
// native-tools wire shape (one tool-role message per result).
type NativeToolResult struct {
	Content  string
	ToolName string
}

// ToolDefinition describes a tool advertised to the model.
type ToolDefinition struct {
	Name             string
	Description      string
	ParametersSchema string // JSON Schema
}

// Severity grades how dangerous a proposed action is. Produced by
// command analysis, consumed by the approval policy and the UI.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityNone:     0,
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// AtLeast reports whether s is at or above the given floor.
func (s Severity) AtLeast(floor Severity) bool {
	return severityRank[s] >= severityRank[floor]
}

// ClampDisplay raises the severity shown to the user to at least
// medium. An approval prompt labelled "none" reads as a bug.
func (s Severity) ClampDisplay() Severity {
	if s.AtLeast(SeverityMedium) {
		return s
	}
	return SeverityMedium
}

// ApprovalKind distinguishes what the user is being asked to approve.
type ApprovalKind string

const (
	ApprovalKindTerminal ApprovalKind = "terminal"
	ApprovalKindFileEdit ApprovalKind = "file_edit"
)

// ApprovalDecision is the lifecycle state of an approval request.
type ApprovalDecision string

const (
	ApprovalPending   ApprovalDecision = "pending"
	ApprovalApproved  ApprovalDecision = "approved"
	ApprovalSkipped   ApprovalDecision = "skipped"
	ApprovalCancelled ApprovalDecision = "cancelled"
)

// Approval is a pending request for user consent to a dangerous action.
type Approval struct {
	ID       string
	Kind     ApprovalKind
	Payload  string // the command or file path under review
	Severity Severity
	Decision ApprovalDecision

	// RevisedCommand is set when the user edited the command before
	// approving it.
	RevisedCommand string
}

// SubAgentRequest is the argument shape of the run_subagent pseudo-tool.
type SubAgentRequest struct {
	Task        string
	Mode        string
	Title       string
	ContextHint string
	Description string
}

// SubAgentRunner executes a read-only exploration on behalf of an
// orchestrating agent and returns its synthesized summary. Injected
// into the tool dispatcher as an opaque callback so the dispatcher
// never imports the loop engines.
type SubAgentRunner func(ctx context.Context, req SubAgentRequest) (string, error)
