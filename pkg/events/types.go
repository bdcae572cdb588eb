// Package events provides real-time UI event delivery via WebSocket and
// PostgreSQL NOTIFY/LISTEN, plus the persistence that lets a reloaded
// session reconstruct its UI timeline.
//
// ════════════════════════════════════════════════════════════════
// Event Delivery Patterns
// ════════════════════════════════════════════════════════════════
//
// Every UI event travels one of three paths, chosen by the publishing
// call on SessionBus:
//
// Pattern 1 — EMIT (persist, then publish):
//
//	messages row        {tool_name: "__ui__", tool_output: {type, payload}}
//	events outbox row   {channel, payload}      (same payload, flat envelope)
//	pg_notify           (transactional with the outbox insert)
//
//	Used for everything a reloaded session must be able to replay:
//	tool actions, approvals, final messages, thinking blocks, file
//	change notices. The marker row is written BEFORE the notify fires,
//	so a crash between the two leaves the durable timeline complete —
//	the dashboard only ever misses a live repaint, never history.
//
// Pattern 2 — POST (publish only):
//
//	pg_notify           (no persistence)
//
//	Used for high-frequency transient hints: stream deltas, spinners,
//	iteration boundaries, token-usage ticks. Lost on reconnect by
//	design — the final content always arrives via an EMIT event.
//
// Pattern 3 — PERSIST (marker row only):
//
//	messages row        {tool_name: "__ui__", tool_output: {type, payload}}
//
//	Rare. Used when the live UI was already updated inline by the
//	publisher (e.g. file-change notices rendered from tool results)
//	and only the reload path needs the record.
//
// Clients reconstruct history by replaying "__ui__" marker rows in
// message order; live updates arrive over WebSocket from the NOTIFY
// fan-out, with the events outbox backing catch-up after reconnects.
//
// ════════════════════════════════════════════════════════════════
package events

// UIMarkerToolName tags a messages row as a persisted UI event rather
// than model-visible conversation history.
const UIMarkerToolName = "__ui__"

// Event is implemented by every payload struct in this package.
// The bus derives the wire envelope from the payload plus this type tag.
type Event interface {
	EventType() string
}

// Persistent event types (messages marker + events outbox + NOTIFY).
const (
	EventShowToolAction  = "showToolAction"
	EventApprovalRequest = "requestToolApproval"
	EventApprovalResult  = "toolApprovalResult"
	EventFilesChanged    = "filesChanged"
	EventFinalMessage    = "finalMessage"
	EventThinkingBlock   = "thinkingBlock"
	EventShowError       = "showError"
	EventSessionStatus   = "sessionStatus"
	EventTitleUpdated    = "titleUpdated"
)

// Transient event types (NOTIFY only, no persistence).
const (
	EventShowThinking        = "showThinking"
	EventStreamThinking      = "streamThinking"
	EventStreamChunk         = "streamChunk"
	EventCollapseThinking    = "collapseThinking"
	EventHideThinking        = "hideThinking"
	EventStartProgressGroup  = "startProgressGroup"
	EventFinishProgressGroup = "finishProgressGroup"
	EventIterationBoundary   = "iterationBoundary"
	EventSubagentThinking    = "subagentThinking"
	EventTokenUsage          = "tokenUsage"
	EventShowWarningBanner   = "showWarningBanner"
)

// Tool action statuses (used in ToolActionPayload.Status).
const (
	ToolActionRunning = "running"
	ToolActionSuccess = "success"
	ToolActionError   = "error"
)

// GlobalSessionsChannel is the channel for session-level status events.
// The session list pane subscribes to this for real-time updates.
const GlobalSessionsChannel = "sessions"

// sessionChannelPrefix namespaces per-session channels.
const sessionChannelPrefix = "session:"

// SessionChannel returns the channel name for a specific session's events.
// Format: "session:{session_id}"
func SessionChannel(sessionID string) string {
	return sessionChannelPrefix + sessionID
}

// ClientMessage is the JSON structure for client → server WebSocket messages.
type ClientMessage struct {
	Action      string `json:"action"`                  // "subscribe", "unsubscribe", "catchup", "ping"
	Channel     string `json:"channel,omitempty"`       // Channel name (e.g., "session:abc-123")
	LastEventID *int   `json:"last_event_id,omitempty"` // For catchup
}
