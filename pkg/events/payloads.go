package events

// Payload structs for every UI event type. The bus marshals the struct,
// then injects "type", "session_id", and "timestamp" into the envelope —
// payloads carry only their own data.

// ShowThinkingPayload opens the thinking indicator.
type ShowThinkingPayload struct {
	Model string `json:"model,omitempty"`
}

func (ShowThinkingPayload) EventType() string { return EventShowThinking }

// StreamThinkingPayload carries one incremental thinking delta.
type StreamThinkingPayload struct {
	Delta string `json:"delta"`
}

func (StreamThinkingPayload) EventType() string { return EventStreamThinking }

// StreamChunkPayload carries one incremental response-text delta.
type StreamChunkPayload struct {
	Delta string `json:"delta"`
}

func (StreamChunkPayload) EventType() string { return EventStreamChunk }

// CollapseThinkingPayload folds the thinking indicator once the model
// moves on to tool calls or response text.
type CollapseThinkingPayload struct {
	DurationMs int64 `json:"duration_ms"`

	// Preparing labels what the model is about to do when the collapse
	// was triggered by a detected tool call ("Writing main.go…").
	Preparing string `json:"preparing,omitempty"`
}

func (CollapseThinkingPayload) EventType() string { return EventCollapseThinking }

// HideThinkingPayload removes the thinking indicator without a
// collapsed summary (e.g. the model produced no thinking).
type HideThinkingPayload struct{}

func (HideThinkingPayload) EventType() string { return EventHideThinking }

// ToolActionPayload renders one tool execution in the UI. A running
// action is later resolved by a success or error payload carrying the
// same ActionID.
type ToolActionPayload struct {
	ActionID string `json:"action_id"`
	Tool     string `json:"tool"`
	Status   string `json:"status"` // running, success, error
	Title    string `json:"title"`
	Detail   string `json:"detail,omitempty"`
	Path     string `json:"path,omitempty"`
	Cached   bool   `json:"cached,omitempty"`
	Adds     int    `json:"adds,omitempty"`
	Dels     int    `json:"dels,omitempty"`
}

func (ToolActionPayload) EventType() string { return EventShowToolAction }

// StartProgressGroupPayload opens a collapsible group that encloses
// subsequent tool actions (used to wrap a sub-agent's activity).
type StartProgressGroupPayload struct {
	GroupID string `json:"group_id"`
	Title   string `json:"title"`
}

func (StartProgressGroupPayload) EventType() string { return EventStartProgressGroup }

// FinishProgressGroupPayload closes a progress group.
type FinishProgressGroupPayload struct {
	GroupID string `json:"group_id"`
	Summary string `json:"summary,omitempty"`
}

func (FinishProgressGroupPayload) EventType() string { return EventFinishProgressGroup }

// IterationBoundaryPayload marks the transition between loop iterations.
type IterationBoundaryPayload struct {
	Iteration     int `json:"iteration"`
	MaxIterations int `json:"max_iterations"`
}

func (IterationBoundaryPayload) EventType() string { return EventIterationBoundary }

// ApprovalRequestPayload asks the user to approve a dangerous action.
type ApprovalRequestPayload struct {
	ApprovalID string `json:"approval_id"`
	Kind       string `json:"kind"` // terminal, file_edit
	Command    string `json:"command,omitempty"`
	Path       string `json:"path,omitempty"`
	Severity   string `json:"severity"`
}

func (ApprovalRequestPayload) EventType() string { return EventApprovalRequest }

// ApprovalResultPayload records the user's decision on an approval.
type ApprovalResultPayload struct {
	ApprovalID     string `json:"approval_id"`
	Approved       bool   `json:"approved"`
	RevisedCommand string `json:"revised_command,omitempty"`
}

func (ApprovalResultPayload) EventType() string { return EventApprovalResult }

// FileChangeItem describes one touched file for the changes panel.
type FileChangeItem struct {
	Path   string `json:"path"`
	Action string `json:"action"` // created, modified, deleted
	Adds   int    `json:"adds,omitempty"`
	Dels   int    `json:"dels,omitempty"`
}

// FilesChangedPayload lists the files touched during a turn.
type FilesChangedPayload struct {
	Files []FileChangeItem `json:"files"`
}

func (FilesChangedPayload) EventType() string { return EventFilesChanged }

// FinalMessagePayload delivers the closing assistant message of a turn.
type FinalMessagePayload struct {
	Content       string `json:"content"`
	FilesModified int    `json:"files_modified,omitempty"`
}

func (FinalMessagePayload) EventType() string { return EventFinalMessage }

// ThinkingBlockPayload persists a completed thinking block for the
// session timeline (the streamed deltas themselves are transient).
type ThinkingBlockPayload struct {
	Content    string `json:"content"`
	DurationMs int64  `json:"duration_ms,omitempty"`
}

func (ThinkingBlockPayload) EventType() string { return EventThinkingBlock }

// SubagentThinkingPayload carries condensed sub-agent activity hints.
// Full sub-agent streams never reach the UI; this is the only window
// into what a sub-agent is doing.
type SubagentThinkingPayload struct {
	Task  string `json:"task,omitempty"`
	Delta string `json:"delta"`
}

func (SubagentThinkingPayload) EventType() string { return EventSubagentThinking }

// TokenUsagePayload reports per-iteration token consumption.
type TokenUsagePayload struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	WindowTokens     int     `json:"window_tokens"`
	PercentUsed      float64 `json:"percent_used"`
}

func (TokenUsagePayload) EventType() string { return EventTokenUsage }

// ShowErrorPayload surfaces a fatal turn error to the user.
type ShowErrorPayload struct {
	Message   string `json:"message"`
	Model     string `json:"model,omitempty"`
	Phase     string `json:"phase,omitempty"`
	Iteration int    `json:"iteration,omitempty"`
}

func (ShowErrorPayload) EventType() string { return EventShowError }

// WarningBannerPayload shows a non-fatal warning banner.
type WarningBannerPayload struct {
	Message string `json:"message"`
}

func (WarningBannerPayload) EventType() string { return EventShowWarningBanner }

// SessionStatusPayload announces a session lifecycle transition.
// Also broadcast transiently on the global sessions channel so the
// session list updates without a per-session subscription.
type SessionStatusPayload struct {
	Status string `json:"status"` // idle, generating, completed, cancelled, error
}

func (SessionStatusPayload) EventType() string { return EventSessionStatus }

// TitleUpdatedPayload announces the generated session title.
type TitleUpdatedPayload struct {
	Title string `json:"title"`
}

func (TitleUpdatedPayload) EventType() string { return EventTitleUpdated }
