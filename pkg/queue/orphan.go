package queue

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kiln-dev/kiln/ent"
	"github.com/kiln-dev/kiln/ent/session"
	"github.com/kiln-dev/kiln/pkg/events"
	"github.com/kiln-dev/kiln/pkg/services"
)

// orphanState tracks orphan detection metrics (thread-safe).
type orphanState struct {
	mu               sync.Mutex
	lastOrphanScan   time.Time
	orphansRecovered int
}

// runOrphanDetection periodically scans for orphaned sessions.
// All pods run this independently — operations are idempotent.
func (p *WorkerPool) runOrphanDetection(ctx context.Context) {
	ticker := time.NewTicker(p.config.OrphanDetectionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			if err := p.detectAndRecoverOrphans(ctx); err != nil {
				slog.Error("Orphan detection failed", "error", err)
			}
		}
	}
}

// detectAndRecoverOrphans finds generating sessions with stale heartbeats
// and fails them over to error status.
func (p *WorkerPool) detectAndRecoverOrphans(ctx context.Context) error {
	orphans, err := p.sessions.FindOrphanedSessions(ctx, p.config.OrphanThreshold)
	if err != nil {
		return fmt.Errorf("failed to query orphaned sessions: %w", err)
	}

	if len(orphans) == 0 {
		p.orphans.mu.Lock()
		p.orphans.lastOrphanScan = time.Now()
		p.orphans.mu.Unlock()
		return nil
	}

	slog.Warn("Detected orphaned sessions", "count", len(orphans))

	recovered := 0
	for _, sess := range orphans {
		if err := p.recoverOrphanedSession(ctx, sess); err != nil {
			slog.Error("Failed to recover orphaned session",
				"session_id", sess.ID,
				"error", err)
			continue
		}
		recovered++
	}

	p.orphans.mu.Lock()
	p.orphans.lastOrphanScan = time.Now()
	p.orphans.orphansRecovered += recovered
	p.orphans.mu.Unlock()

	return nil
}

// recoverOrphanedSession marks a single orphaned session as error.
func (p *WorkerPool) recoverOrphanedSession(ctx context.Context, sess *ent.Session) error {
	log := slog.With("session_id", sess.ID, "old_pod_id", sess.PodID)

	lastHeartbeat := "unknown"
	if sess.LastInteractionAt != nil {
		lastHeartbeat = sess.LastInteractionAt.Format(time.RFC3339)
	}

	podID := "unknown"
	if sess.PodID != nil {
		podID = *sess.PodID
	}

	// Terminal — a generating session with a dead worker cannot resume.
	msg := fmt.Sprintf("orphaned: no heartbeat from pod %s since %s", podID, lastHeartbeat)
	if err := p.sessions.UpdateSessionStatus(ctx, sess.ID, session.StatusError, msg); err != nil {
		return fmt.Errorf("failed to mark session as error: %w", err)
	}

	if err := events.NewSessionBus(p.db, sess.ID).EmitSessionStatus(ctx, string(session.StatusError)); err != nil {
		slog.Warn("Failed to publish orphan status", "session_id", sess.ID, "error", err)
	}

	log.Warn("Orphaned session marked as error", "last_heartbeat", lastHeartbeat)
	return nil
}

// CleanupStartupOrphans performs a one-time cleanup of sessions owned by
// this pod that were generating when the pod previously crashed.
// Called once during startup, before the worker pool begins processing.
func CleanupStartupOrphans(ctx context.Context, sessions *services.SessionService, db *sql.DB, podID string) error {
	orphans, err := sessions.FindPodSessions(ctx, podID)
	if err != nil {
		return fmt.Errorf("failed to query startup orphans: %w", err)
	}

	if len(orphans) == 0 {
		return nil
	}

	slog.Warn("Found startup orphans from previous run",
		"pod_id", podID,
		"count", len(orphans))

	for _, sess := range orphans {
		msg := fmt.Sprintf("orphaned: pod %s restarted while the session was generating", podID)
		if err := sessions.UpdateSessionStatus(ctx, sess.ID, session.StatusError, msg); err != nil {
			slog.Error("Failed to mark startup orphan",
				"session_id", sess.ID,
				"error", err)
			continue
		}

		if err := events.NewSessionBus(db, sess.ID).EmitSessionStatus(ctx, string(session.StatusError)); err != nil {
			slog.Warn("Failed to publish orphan status", "session_id", sess.ID, "error", err)
		}

		slog.Info("Startup orphan recovered", "session_id", sess.ID)
	}

	return nil
}
