package api

import (
	"github.com/kiln-dev/kiln/ent"
	"github.com/kiln-dev/kiln/pkg/database"
	"github.com/kiln-dev/kiln/pkg/queue"
	"github.com/kiln-dev/kiln/pkg/services"
)

// SessionListResponse is returned by GET /api/v1/sessions.
type SessionListResponse struct {
	Sessions   []*ent.Session `json:"sessions"`
	TotalCount int            `json:"total_count"`
	Limit      int            `json:"limit"`
	Offset     int            `json:"offset"`
}

// MessagesResponse is returned by GET /api/v1/sessions/:id/messages:
// the persisted session log in sequence order, for timeline replay.
type MessagesResponse struct {
	SessionID  string         `json:"session_id"`
	Messages   []*ent.Message `json:"messages"`
	TotalCount int            `json:"total_count"`
	Limit      int            `json:"limit"`
	Offset     int            `json:"offset"`
}

// TurnResponse is returned by POST /api/v1/sessions/:id/turns.
type TurnResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// CancelResponse is returned by POST /api/v1/sessions/:id/cancel.
type CancelResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// ApprovalDecisionResponse is returned by
// POST /api/v1/sessions/:id/approvals/:approval_id.
type ApprovalDecisionResponse struct {
	SessionID  string `json:"session_id"`
	ApprovalID string `json:"approval_id"`
	Approved   bool   `json:"approved"`
}

// CheckpointListResponse is returned by GET /api/v1/sessions/:id/checkpoints.
type CheckpointListResponse struct {
	SessionID   string            `json:"session_id"`
	Checkpoints []*ent.Checkpoint `json:"checkpoints"`
}

// RestoreResponse is returned by the checkpoint restore endpoint.
// SkippedFiles lists snapshots that could not be replayed (no stored
// content).
type RestoreResponse struct {
	SessionID     string   `json:"session_id"`
	CheckpointID  string   `json:"checkpoint_id"`
	RestoredFiles []string `json:"restored_files"`
	SkippedFiles  []string `json:"skipped_files,omitempty"`
}

// ModelListResponse is returned by GET /api/v1/models.
type ModelListResponse struct {
	Models []*ent.ModelRecord `json:"models"`
}

// RefreshModelsResponse is returned by POST /api/v1/models/refresh.
type RefreshModelsResponse struct {
	ModelCount int    `json:"model_count"`
	Message    string `json:"message"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status        string                    `json:"status"`
	Version       string                    `json:"version"`
	Database      *database.HealthStatus    `json:"database,omitempty"`
	DatabaseError string                    `json:"database_error,omitempty"`
	WorkerPool    *queue.PoolHealth         `json:"worker_pool,omitempty"`
	Warnings      []*services.SystemWarning `json:"warnings,omitempty"`
}
