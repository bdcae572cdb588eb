package queue

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kiln-dev/kiln/ent/session"
	"github.com/kiln-dev/kiln/pkg/config"
	"github.com/kiln-dev/kiln/pkg/services"
)

// WorkerPool manages a pool of queue workers.
type WorkerPool struct {
	podID    string
	config   *config.QueueConfig
	db       *sql.DB
	sessions *services.SessionService
	eventSvc *services.EventService
	runner   TurnRunner
	workers  []*Worker
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	// Session cancel registry: session_id → cancel function
	activeSessions map[string]context.CancelFunc
	mu             sync.RWMutex
	started        bool

	// Orphan detection state
	orphans orphanState
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(podID string, cfg *config.QueueConfig, db *sql.DB, sessions *services.SessionService, eventSvc *services.EventService, runner TurnRunner) *WorkerPool {
	return &WorkerPool{
		podID:          podID,
		config:         cfg,
		db:             db,
		sessions:       sessions,
		eventSvc:       eventSvc,
		runner:         runner,
		workers:        make([]*Worker, 0, cfg.WorkerCount),
		stopCh:         make(chan struct{}),
		activeSessions: make(map[string]context.CancelFunc),
	}
}

// Start spawns worker goroutines and the orphan detection background task.
// It is safe to call multiple times; subsequent calls are no-ops.
func (p *WorkerPool) Start(ctx context.Context) error {
	if p.started {
		slog.Warn("Worker pool already started, ignoring duplicate Start call", "pod_id", p.podID)
		return nil
	}
	p.started = true

	slog.Info("Starting worker pool", "pod_id", p.podID, "worker_count", p.config.WorkerCount)

	for i := 0; i < p.config.WorkerCount; i++ {
		workerID := fmt.Sprintf("%s-worker-%d", p.podID, i)
		worker := NewWorker(workerID, p.podID, p.config, p.db, p.sessions, p.eventSvc, p.runner, p)
		p.workers = append(p.workers, worker)
		worker.Start(ctx)
	}

	// Start orphan detection
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.runOrphanDetection(ctx)
	}()

	slog.Info("Worker pool started")
	return nil
}

// Stop signals all workers to stop and waits for them to finish.
// Workers finish their current turns before exiting (graceful shutdown).
func (p *WorkerPool) Stop() {
	slog.Info("Stopping worker pool gracefully")

	active := p.getActiveSessionIDs()
	if len(active) > 0 {
		slog.Info("Waiting for active sessions to complete",
			"count", len(active),
			"session_ids", active)
	}

	// Signal all workers to stop (they finish current turns)
	for _, worker := range p.workers {
		worker.Stop()
	}

	// Signal orphan detection to stop
	p.stopOnce.Do(func() { close(p.stopCh) })
	p.wg.Wait()

	slog.Info("Worker pool stopped gracefully")
}

// RegisterSession stores a cancel function for manual cancellation.
func (p *WorkerPool) RegisterSession(sessionID string, cancel context.CancelFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.activeSessions[sessionID] = cancel
}

// UnregisterSession removes the cancel function when the turn ends.
func (p *WorkerPool) UnregisterSession(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.activeSessions, sessionID)
}

// CancelSession triggers context cancellation for a session on this pod.
// Returns true if the session was found and cancelled on this pod.
func (p *WorkerPool) CancelSession(sessionID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if cancel, ok := p.activeSessions[sessionID]; ok {
		cancel()
		return true
	}
	return false
}

// Health returns the current health status of the pool.
func (p *WorkerPool) Health() *PoolHealth {
	ctx := context.Background()

	queueDepth, errQ := p.sessions.CountByStatus(ctx, session.StatusPending, "")
	if errQ != nil {
		slog.Error("Failed to query queue depth for health check",
			"pod_id", p.podID,
			"error", errQ)
	}

	activeSessions, errA := p.sessions.CountByStatus(ctx, session.StatusGenerating, p.podID)
	if errA != nil {
		slog.Error("Failed to query active sessions for health check",
			"pod_id", p.podID,
			"error", errA)
	}

	workerStats := make([]WorkerHealth, len(p.workers))
	activeWorkers := 0
	for i, worker := range p.workers {
		stats := worker.Health()
		workerStats[i] = stats
		if stats.Status == string(WorkerStatusWorking) {
			activeWorkers++
		}
	}

	// DB errors affect health status - if we can't reach the DB, we're not healthy
	dbHealthy := errQ == nil && errA == nil
	isHealthy := len(p.workers) > 0 && activeSessions <= p.config.MaxConcurrentSessions && dbHealthy

	p.orphans.mu.Lock()
	lastOrphanScan := p.orphans.lastOrphanScan
	orphansRecovered := p.orphans.orphansRecovered
	p.orphans.mu.Unlock()

	var dbError string
	if !dbHealthy {
		if errQ != nil {
			dbError = fmt.Sprintf("queue depth query failed: %v", errQ)
		} else if errA != nil {
			dbError = fmt.Sprintf("active sessions query failed: %v", errA)
		}
	}

	return &PoolHealth{
		IsHealthy:        isHealthy,
		DBReachable:      dbHealthy,
		DBError:          dbError,
		PodID:            p.podID,
		ActiveWorkers:    activeWorkers,
		TotalWorkers:     len(p.workers),
		ActiveSessions:   activeSessions,
		MaxConcurrent:    p.config.MaxConcurrentSessions,
		QueueDepth:       queueDepth,
		WorkerStats:      workerStats,
		LastOrphanScan:   lastOrphanScan,
		OrphansRecovered: orphansRecovered,
	}
}

// getActiveSessionIDs returns IDs of currently running turns (for logging).
func (p *WorkerPool) getActiveSessionIDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	sessions := make([]string, 0, len(p.activeSessions))
	for id := range p.activeSessions {
		sessions = append(sessions, id)
	}
	return sessions
}
