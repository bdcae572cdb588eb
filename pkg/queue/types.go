// Package queue provides the worker pool that claims pending sessions
// and drives agent turns to completion.
package queue

import (
	"context"
	"errors"
	"time"

	"github.com/kiln-dev/kiln/ent"
	"github.com/kiln-dev/kiln/pkg/agent"
)

// Sentinel errors for queue operations.
var (
	// ErrNoSessionsAvailable indicates no pending sessions are in the queue.
	ErrNoSessionsAvailable = errors.New("no sessions available")

	// ErrAtCapacity indicates the global concurrent session limit has been reached.
	ErrAtCapacity = errors.New("at capacity")
)

// TurnRunner drives one claimed session turn.
//
// The runner owns the ENTIRE turn internally:
//   - Builds the loop context (workspace host, backend, tools, prompts)
//   - Runs the iterative loop until completion, cancellation, or error
//   - Persists messages, events, and checkpoints progressively
//
// The worker only handles: claiming, heartbeat, terminal status update,
// files-changed recording, and event cleanup.
type TurnRunner interface {
	RunTurn(ctx context.Context, sess *ent.Session) *agent.TurnResult
}

// PoolHealth contains health information for the entire worker pool.
type PoolHealth struct {
	IsHealthy        bool           `json:"is_healthy"`
	DBReachable      bool           `json:"db_reachable"`
	DBError          string         `json:"db_error,omitempty"`
	PodID            string         `json:"pod_id"`
	ActiveWorkers    int            `json:"active_workers"`
	TotalWorkers     int            `json:"total_workers"`
	ActiveSessions   int            `json:"active_sessions"`
	MaxConcurrent    int            `json:"max_concurrent"`
	QueueDepth       int            `json:"queue_depth"`
	WorkerStats      []WorkerHealth `json:"worker_stats"`
	LastOrphanScan   time.Time      `json:"last_orphan_scan"`
	OrphansRecovered int            `json:"orphans_recovered"`
}

// WorkerHealth contains health information for a single worker.
type WorkerHealth struct {
	ID                string    `json:"id"`
	Status            string    `json:"status"` // "idle" or "working"
	CurrentSessionID  string    `json:"current_session_id,omitempty"`
	SessionsProcessed int       `json:"sessions_processed"`
	LastActivity      time.Time `json:"last_activity"`
}
