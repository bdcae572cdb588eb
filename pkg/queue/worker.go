package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/kiln-dev/kiln/ent/session"
	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/config"
	"github.com/kiln-dev/kiln/pkg/events"
	"github.com/kiln-dev/kiln/pkg/services"
)

// WorkerStatus represents the current state of a worker.
type WorkerStatus string

// Worker status constants.
const (
	WorkerStatusIdle    WorkerStatus = "idle"
	WorkerStatusWorking WorkerStatus = "working"
)

// eventCleanupGrace is how long final events stay readable after a turn
// ends, so WebSocket clients can drain them before deletion.
const eventCleanupGrace = 60 * time.Second

// Worker is a single queue worker that polls for and runs session turns.
type Worker struct {
	id       string
	podID    string
	config   *config.QueueConfig
	db       *sql.DB
	sessions *services.SessionService
	eventSvc *services.EventService
	runner   TurnRunner
	pool     SessionRegistry
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	// Health tracking
	mu                sync.RWMutex
	status            WorkerStatus
	currentSessionID  string
	sessionsProcessed int
	lastActivity      time.Time
}

// SessionRegistry is the subset of WorkerPool used by Worker for session registration.
type SessionRegistry interface {
	RegisterSession(sessionID string, cancel context.CancelFunc)
	UnregisterSession(sessionID string)
}

// NewWorker creates a new queue worker.
func NewWorker(id, podID string, cfg *config.QueueConfig, db *sql.DB, sessions *services.SessionService, eventSvc *services.EventService, runner TurnRunner, pool SessionRegistry) *Worker {
	return &Worker{
		id:           id,
		podID:        podID,
		config:       cfg,
		db:           db,
		sessions:     sessions,
		eventSvc:     eventSvc,
		runner:       runner,
		pool:         pool,
		stopCh:       make(chan struct{}),
		status:       WorkerStatusIdle,
		lastActivity: time.Now(),
	}
}

// Start begins the worker polling loop in a goroutine.
func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
}

// Stop signals the worker to stop and waits for it to finish.
// It is safe to call Stop multiple times.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
}

// Health returns the current worker health status.
func (w *Worker) Health() WorkerHealth {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return WorkerHealth{
		ID:                w.id,
		Status:            string(w.status),
		CurrentSessionID:  w.currentSessionID,
		SessionsProcessed: w.sessionsProcessed,
		LastActivity:      w.lastActivity,
	}
}

// run is the main worker loop.
func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	log := slog.With("worker_id", w.id, "pod_id", w.podID)
	log.Info("Worker started")

	for {
		select {
		case <-w.stopCh:
			log.Info("Worker shutting down")
			return
		case <-ctx.Done():
			log.Info("Context cancelled, worker shutting down")
			return
		default:
			if err := w.pollAndProcess(ctx); err != nil {
				if errors.Is(err, ErrNoSessionsAvailable) || errors.Is(err, ErrAtCapacity) {
					w.sleep(w.pollInterval())
					continue
				}
				log.Error("Error processing session", "error", err)
				w.sleep(time.Second) // Brief backoff on error
			}
		}
	}
}

// sleep waits for the given duration or until stop is signalled.
func (w *Worker) sleep(d time.Duration) {
	select {
	case <-w.stopCh:
	case <-time.After(d):
	}
}

// pollAndProcess checks capacity, claims a session, and runs its turn.
func (w *Worker) pollAndProcess(ctx context.Context) error {
	// 1. Check global capacity (best-effort; racy with concurrent workers but
	//    bounded by WorkerCount and mitigated by poll jitter).
	activeCount, err := w.sessions.CountByStatus(ctx, session.StatusGenerating, "")
	if err != nil {
		return fmt.Errorf("checking active sessions: %w", err)
	}
	if activeCount >= w.config.MaxConcurrentSessions {
		return ErrAtCapacity
	}

	// 2. Claim next pending session
	sess, err := w.sessions.ClaimNextPending(ctx, w.podID)
	if err != nil {
		return fmt.Errorf("claiming session: %w", err)
	}
	if sess == nil {
		return ErrNoSessionsAvailable
	}

	log := slog.With("session_id", sess.ID, "worker_id", w.id)
	log.Info("Session claimed", "mode", sess.Mode, "model", sess.Model)

	// Announce the status flip to session and global channels
	bus := events.NewSessionBus(w.db, sess.ID)
	w.publishStatus(ctx, bus, sess.ID, session.StatusGenerating)

	w.setStatus(WorkerStatusWorking, sess.ID)
	defer w.setStatus(WorkerStatusIdle, "")

	// 3. Create turn context with timeout
	turnCtx, cancelTurn := context.WithTimeout(ctx, w.config.SessionTimeout)
	defer cancelTurn()

	// 4. Register cancel function for API-triggered cancellation
	w.pool.RegisterSession(sess.ID, cancelTurn)
	defer w.pool.UnregisterSession(sess.ID)

	// 5. Start heartbeat
	heartbeatCtx, cancelHeartbeat := context.WithCancel(turnCtx)
	defer cancelHeartbeat()
	go w.runHeartbeat(heartbeatCtx, sess.ID)

	// 6. Run the turn
	result := w.runner.RunTurn(turnCtx, sess)
	result = w.resolveResult(result, turnCtx.Err())

	// 7. Stop heartbeat
	cancelHeartbeat()

	// 8. Record terminal status (background context — turn ctx may be dead)
	if err := w.finishSession(context.Background(), sess.ID, result); err != nil {
		log.Error("Failed to update session terminal status", "error", err)
		return err
	}
	w.publishStatus(context.Background(), bus, sess.ID, sessionStatus(result.Status))

	// 9. Delete transient events after the grace period
	w.scheduleEventCleanup(sess.ID)

	w.mu.Lock()
	w.sessionsProcessed++
	w.mu.Unlock()

	log.Info("Turn complete",
		"status", result.Status,
		"iterations", result.Iterations,
		"tokens", result.TokensUsed.Total())
	return nil
}

// resolveResult guards against a nil runner result and converts an
// engine-reported cancellation into a timeout error when the turn
// deadline is what killed the context.
func (w *Worker) resolveResult(result *agent.TurnResult, ctxErr error) *agent.TurnResult {
	if result == nil {
		switch {
		case errors.Is(ctxErr, context.DeadlineExceeded):
			result = &agent.TurnResult{
				Status: agent.TurnStatusError,
				Error:  fmt.Errorf("turn timed out after %v", w.config.SessionTimeout),
			}
		case errors.Is(ctxErr, context.Canceled):
			result = &agent.TurnResult{
				Status: agent.TurnStatusCancelled,
				Error:  context.Canceled,
			}
		default:
			result = &agent.TurnResult{
				Status: agent.TurnStatusError,
				Error:  errors.New("turn runner returned nil result"),
			}
		}
		return result
	}

	// The engine cannot tell a user cancel from a deadline — both arrive as
	// context death. The worker owns the deadline, so it relabels.
	if result.Status == agent.TurnStatusCancelled && errors.Is(ctxErr, context.DeadlineExceeded) {
		result.Status = agent.TurnStatusError
		result.Error = fmt.Errorf("turn timed out after %v", w.config.SessionTimeout)
	}
	return result
}

// finishSession writes the terminal status and the files-changed list.
func (w *Worker) finishSession(ctx context.Context, sessionID string, result *agent.TurnResult) error {
	var errMsg string
	if result.Error != nil {
		errMsg = result.Error.Error()
	}
	if err := w.sessions.UpdateSessionStatus(ctx, sessionID, sessionStatus(result.Status), errMsg); err != nil {
		return err
	}
	if len(result.FilesChanged) > 0 {
		if err := w.sessions.SetFilesChanged(ctx, sessionID, result.FilesChanged); err != nil {
			slog.Warn("Failed to record files changed",
				"session_id", sessionID, "error", err)
		}
	}
	return nil
}

// sessionStatus maps a turn outcome onto the session status enum.
func sessionStatus(status agent.TurnStatus) session.Status {
	switch status {
	case agent.TurnStatusCompleted:
		return session.StatusCompleted
	case agent.TurnStatusCancelled:
		return session.StatusCancelled
	default:
		return session.StatusError
	}
}

// runHeartbeat periodically updates last_interaction_at for orphan detection.
func (w *Worker) runHeartbeat(ctx context.Context, sessionID string) {
	ticker := time.NewTicker(w.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.sessions.Heartbeat(ctx, sessionID); err != nil {
				slog.Warn("Heartbeat update failed", "session_id", sessionID, "error", err)
			}
		}
	}
}

// publishStatus announces a session status change for real-time delivery.
// Non-blocking: errors are logged.
func (w *Worker) publishStatus(ctx context.Context, bus *events.SessionBus, sessionID string, status session.Status) {
	if err := bus.EmitSessionStatus(ctx, string(status)); err != nil {
		slog.Warn("Failed to publish session status",
			"session_id", sessionID, "status", status, "error", err)
	}
}

// scheduleEventCleanup deletes the session's transient events once the
// grace period has passed.
func (w *Worker) scheduleEventCleanup(sessionID string) {
	time.AfterFunc(eventCleanupGrace, func() {
		if _, err := w.eventSvc.CleanupSessionEvents(context.Background(), sessionID); err != nil {
			slog.Warn("Failed to cleanup session events after grace period",
				"session_id", sessionID, "error", err)
		}
	})
}

// pollInterval returns the poll duration with jitter.
func (w *Worker) pollInterval() time.Duration {
	base := w.config.PollInterval
	jitter := w.config.PollIntervalJitter
	if jitter <= 0 {
		return base
	}
	// Range: [base - jitter, base + jitter]
	offset := time.Duration(rand.Int64N(int64(2 * jitter)))
	return base - jitter + offset
}

// setStatus updates the worker's health tracking state.
func (w *Worker) setStatus(status WorkerStatus, sessionID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = status
	w.currentSessionID = sessionID
	w.lastActivity = time.Now()
}
