package services

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/kiln-dev/kiln/ent"
	"github.com/kiln-dev/kiln/ent/session"
	"github.com/kiln-dev/kiln/pkg/config"
)

// SessionService handles session lifecycle: creation, the pending ->
// generating -> terminal status walk, worker claims, and retention.
type SessionService struct {
	client *ent.Client
}

// NewSessionService creates a new session service.
func NewSessionService(client *ent.Client) *SessionService {
	return &SessionService{client: client}
}

// CreateSessionInput carries the fields needed to open a new session.
type CreateSessionInput struct {
	// ID is optional; a UUID is generated when empty.
	ID                    string
	Task                  string
	Mode                  string
	Model                 string
	Workspace             string
	SensitiveFilePatterns []string
}

// CreateSession creates a session in pending status so a worker can
// claim it. The write uses a background context so an abandoned HTTP
// request cannot leave a half-created session behind.
func (s *SessionService) CreateSession(httpCtx context.Context, input CreateSessionInput) (*ent.Session, error) {
	if input.Task == "" {
		return nil, NewValidationError("task", "required")
	}
	if input.Mode == "" {
		return nil, NewValidationError("mode", "required")
	}
	if !config.Mode(input.Mode).IsValid() {
		return nil, NewValidationError("mode", fmt.Sprintf("unknown mode %q", input.Mode))
	}
	if input.Model == "" {
		return nil, NewValidationError("model", "required")
	}
	if input.Workspace == "" {
		return nil, NewValidationError("workspace", "required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id := input.ID
	if id == "" {
		id = uuid.New().String()
	}

	builder := s.client.Session.Create().
		SetID(id).
		SetTask(input.Task).
		SetMode(input.Mode).
		SetModel(input.Model).
		SetWorkspace(input.Workspace).
		SetStatus(session.StatusPending)
	if len(input.SensitiveFilePatterns) > 0 {
		builder.SetSensitiveFilePatterns(input.SensitiveFilePatterns)
	}

	sess, err := builder.Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

// GetSession retrieves a session by ID.
func (s *SessionService) GetSession(ctx context.Context, id string) (*ent.Session, error) {
	sess, err := s.client.Session.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}

// SessionFilters narrows ListSessions results.
type SessionFilters struct {
	Status string
	Mode   string
	Limit  int
	Offset int
	// IncludeDeleted also returns soft-deleted sessions.
	IncludeDeleted bool
}

// SessionList is a page of sessions plus the unpaged total.
type SessionList struct {
	Sessions   []*ent.Session
	TotalCount int
	Limit      int
	Offset     int
}

// ListSessions returns sessions newest first, with optional filters and
// pagination. Soft-deleted sessions are hidden unless asked for.
func (s *SessionService) ListSessions(ctx context.Context, filters SessionFilters) (*SessionList, error) {
	query := s.client.Session.Query()

	if !filters.IncludeDeleted {
		query = query.Where(session.DeletedAtIsNil())
	}
	if filters.Status != "" {
		query = query.Where(session.StatusEQ(session.Status(filters.Status)))
	}
	if filters.Mode != "" {
		query = query.Where(session.ModeEQ(filters.Mode))
	}

	totalCount, err := query.Clone().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	sessions, err := query.
		Order(ent.Desc(session.FieldCreatedAt)).
		Limit(limit).
		Offset(filters.Offset).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return &SessionList{
		Sessions:   sessions,
		TotalCount: totalCount,
		Limit:      limit,
		Offset:     filters.Offset,
	}, nil
}

// CountByStatus counts non-deleted sessions in the given status,
// optionally narrowed to one pod's claims. The queue uses it for
// capacity checks and health reporting.
func (s *SessionService) CountByStatus(ctx context.Context, status session.Status, podID string) (int, error) {
	query := s.client.Session.Query().
		Where(
			session.StatusEQ(status),
			session.DeletedAtIsNil(),
		)
	if podID != "" {
		query = query.Where(session.PodIDEQ(podID))
	}
	n, err := query.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s sessions: %w", status, err)
	}
	return n, nil
}

// EnqueueTurn stores a follow-up task on an idle or finished session
// and moves it back to pending so a worker picks it up. Sessions that
// are still pending or generating reject the turn with ErrSessionBusy.
func (s *SessionService) EnqueueTurn(httpCtx context.Context, sessionID, task string) (*ent.Session, error) {
	if sessionID == "" {
		return nil, NewValidationError("session_id", "required")
	}
	if task == "" {
		return nil, NewValidationError("task", "required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n, err := s.client.Session.Update().
		Where(
			session.IDEQ(sessionID),
			session.DeletedAtIsNil(),
			session.StatusIn(
				session.StatusIdle,
				session.StatusCompleted,
				session.StatusCancelled,
				session.StatusError,
			),
		).
		SetTask(task).
		SetStatus(session.StatusPending).
		ClearErrorMessage().
		ClearCompletedAt().
		Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue turn: %w", err)
	}
	if n == 0 {
		// Either the session does not exist or it is in a non-restartable
		// status; look again to report which.
		exists, getErr := s.client.Session.Query().
			Where(session.IDEQ(sessionID), session.DeletedAtIsNil()).
			Exist(ctx)
		if getErr != nil {
			return nil, fmt.Errorf("failed to enqueue turn: %w", getErr)
		}
		if !exists {
			return nil, ErrNotFound
		}
		return nil, ErrSessionBusy
	}

	return s.GetSession(ctx, sessionID)
}

// CancelPending cancels a queued turn that no worker has claimed yet.
// The generating case is handled by the worker pool, which owns the
// running turn's context; this path only covers sessions still waiting
// in the queue. Returns ErrNotCancellable when the session exists but
// has nothing queued.
func (s *SessionService) CancelPending(httpCtx context.Context, sessionID string) error {
	if sessionID == "" {
		return NewValidationError("session_id", "required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n, err := s.client.Session.Update().
		Where(
			session.IDEQ(sessionID),
			session.DeletedAtIsNil(),
			session.StatusEQ(session.StatusPending),
		).
		SetStatus(session.StatusCancelled).
		SetCompletedAt(time.Now()).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("failed to cancel pending turn: %w", err)
	}
	if n == 0 {
		exists, getErr := s.client.Session.Query().
			Where(session.IDEQ(sessionID), session.DeletedAtIsNil()).
			Exist(ctx)
		if getErr != nil {
			return fmt.Errorf("failed to cancel pending turn: %w", getErr)
		}
		if !exists {
			return ErrNotFound
		}
		return ErrNotCancellable
	}
	return nil
}

// UpdateSessionStatus moves a session to the given status. Terminal
// statuses also stamp completed_at; an error message is recorded when
// provided. Uses a background context with timeout so status updates
// complete even if the calling context is cancelled.
func (s *SessionService) UpdateSessionStatus(ctx context.Context, id string, status session.Status, errorMessage string) error {
	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	now := time.Now()
	update := s.client.Session.UpdateOneID(id).
		SetStatus(status).
		SetLastInteractionAt(now)
	switch status {
	case session.StatusCompleted, session.StatusCancelled, session.StatusError:
		update = update.SetCompletedAt(now)
	}
	if errorMessage != "" {
		update = update.SetErrorMessage(errorMessage)
	}

	if err := update.Exec(writeCtx); err != nil {
		if ent.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update session status: %w", err)
	}
	return nil
}

// ClaimNextPending atomically claims the oldest pending session for a
// worker. The row is locked with FOR UPDATE SKIP LOCKED so concurrent
// workers never double-claim and never block each other. Returns
// (nil, nil) when no pending session exists.
func (s *SessionService) ClaimNextPending(ctx context.Context, podID string) (*ent.Session, error) {
	claimCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := s.client.Tx(claimCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to start claim transaction: %w", err)
	}
	defer tx.Rollback()

	sess, err := tx.Session.Query().
		Where(
			session.StatusEQ(session.StatusPending),
			session.DeletedAtIsNil(),
		).
		Order(ent.Asc(session.FieldCreatedAt)).
		ForUpdate(sql.WithLockAction(sql.SkipLocked)).
		First(claimCtx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query pending sessions: %w", err)
	}

	now := time.Now()
	claimed, err := tx.Session.UpdateOneID(sess.ID).
		SetStatus(session.StatusGenerating).
		SetPodID(podID).
		SetStartedAt(now).
		SetLastInteractionAt(now).
		Save(claimCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to claim session %s: %w", sess.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claim: %w", err)
	}
	return claimed, nil
}

// Heartbeat refreshes last_interaction_at on a running session so the
// orphan detector knows its worker is still alive.
func (s *SessionService) Heartbeat(ctx context.Context, id string) error {
	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.client.Session.UpdateOneID(id).
		SetLastInteractionAt(time.Now()).
		Exec(writeCtx)
	if err != nil {
		if ent.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to heartbeat session: %w", err)
	}
	return nil
}

// SetTitle stores the auto-generated session title.
func (s *SessionService) SetTitle(ctx context.Context, id, title string) error {
	if title == "" {
		return NewValidationError("title", "required")
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.client.Session.UpdateOneID(id).SetTitle(title).Exec(writeCtx)
	if err != nil {
		if ent.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to set session title: %w", err)
	}
	return nil
}

// SetFilesChanged replaces the list of workspace files the session has
// modified so far.
func (s *SessionService) SetFilesChanged(ctx context.Context, id string, files []string) error {
	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.client.Session.UpdateOneID(id).SetFilesChanged(files).Exec(writeCtx)
	if err != nil {
		if ent.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to set files changed: %w", err)
	}
	return nil
}

// ApprovalPolicyUpdate carries optional approval policy changes; nil
// fields are left untouched.
type ApprovalPolicyUpdate struct {
	AutoApproveCommands       *bool
	AutoApproveSensitiveEdits *bool
	SensitiveFilePatterns     []string
}

// UpdateApprovalPolicy adjusts the session's approval policy mid-run.
// The running loop re-reads the policy on its next approval decision.
func (s *SessionService) UpdateApprovalPolicy(ctx context.Context, id string, update ApprovalPolicyUpdate) (*ent.Session, error) {
	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	builder := s.client.Session.UpdateOneID(id)
	if update.AutoApproveCommands != nil {
		builder = builder.SetAutoApproveCommands(*update.AutoApproveCommands)
	}
	if update.AutoApproveSensitiveEdits != nil {
		builder = builder.SetAutoApproveSensitiveEdits(*update.AutoApproveSensitiveEdits)
	}
	if update.SensitiveFilePatterns != nil {
		builder = builder.SetSensitiveFilePatterns(update.SensitiveFilePatterns)
	}

	sess, err := builder.Save(writeCtx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update approval policy: %w", err)
	}
	return sess, nil
}

// FindOrphanedSessions returns generating sessions whose worker has not
// heartbeated within the timeout, so the queue can fail them over.
func (s *SessionService) FindOrphanedSessions(ctx context.Context, heartbeatTimeout time.Duration) ([]*ent.Session, error) {
	cutoff := time.Now().Add(-heartbeatTimeout)
	sessions, err := s.client.Session.Query().
		Where(
			session.StatusEQ(session.StatusGenerating),
			session.LastInteractionAtLT(cutoff),
			session.DeletedAtIsNil(),
		).
		Order(ent.Asc(session.FieldLastInteractionAt)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find orphaned sessions: %w", err)
	}
	return sessions, nil
}

// FindPodSessions returns generating sessions claimed by the given pod.
// Called on startup so a restarted pod can fail over rows its previous
// incarnation never finished.
func (s *SessionService) FindPodSessions(ctx context.Context, podID string) ([]*ent.Session, error) {
	sessions, err := s.client.Session.Query().
		Where(
			session.StatusEQ(session.StatusGenerating),
			session.PodIDEQ(podID),
			session.DeletedAtIsNil(),
		).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find sessions for pod %s: %w", podID, err)
	}
	return sessions, nil
}

// SoftDeleteOldSessions marks sessions deleted when they finished more
// than retentionDays ago. Returns the number of sessions affected.
func (s *SessionService) SoftDeleteOldSessions(ctx context.Context, retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, NewValidationError("retention_days", "must be positive")
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	n, err := s.client.Session.Update().
		Where(
			session.StatusIn(
				session.StatusCompleted,
				session.StatusCancelled,
				session.StatusError,
			),
			session.CompletedAtLT(cutoff),
			session.DeletedAtIsNil(),
		).
		SetDeletedAt(time.Now()).
		Save(writeCtx)
	if err != nil {
		return 0, fmt.Errorf("failed to soft-delete old sessions: %w", err)
	}
	return n, nil
}
