package api

// maxTaskBytes bounds user task text accepted over HTTP.
const maxTaskBytes = 100_000

// CreateSessionRequest is the HTTP request body for POST /api/v1/sessions.
// Mode, model, and workspace fall back to the configured defaults when
// omitted.
type CreateSessionRequest struct {
	Task                  string   `json:"task"`
	Mode                  string   `json:"mode,omitempty"`
	Model                 string   `json:"model,omitempty"`
	Workspace             string   `json:"workspace,omitempty"`
	SensitiveFilePatterns []string `json:"sensitive_file_patterns,omitempty"`
}

// PostTurnRequest is the HTTP request body for POST /api/v1/sessions/:id/turns.
type PostTurnRequest struct {
	Task string `json:"task"`
}

// ApprovalDecisionRequest is the HTTP request body for
// POST /api/v1/sessions/:id/approvals/:approval_id.
type ApprovalDecisionRequest struct {
	Approved *bool `json:"approved"`
	// RevisedCommand replaces the command under approval when the user
	// edits it before approving. Only meaningful for command approvals.
	RevisedCommand string `json:"revised_command,omitempty"`
}

// ApprovalPolicyRequest is the HTTP request body for
// PATCH /api/v1/sessions/:id/approval-policy. Nil fields are left
// untouched.
type ApprovalPolicyRequest struct {
	AutoApproveCommands       *bool    `json:"auto_approve_commands,omitempty"`
	AutoApproveSensitiveEdits *bool    `json:"auto_approve_sensitive_edits,omitempty"`
	SensitiveFilePatterns     []string `json:"sensitive_file_patterns,omitempty"`
}
