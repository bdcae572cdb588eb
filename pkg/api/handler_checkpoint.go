package api

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kiln-dev/kiln/ent"
	"github.com/kiln-dev/kiln/ent/checkpointfile"
	"github.com/kiln-dev/kiln/ent/session"
	"github.com/kiln-dev/kiln/pkg/host"
	"github.com/kiln-dev/kiln/pkg/services"
)

// listCheckpointsHandler handles GET /api/v1/sessions/:id/checkpoints.
func (s *Server) listCheckpointsHandler(c *gin.Context) {
	sessionID := c.Param("id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session id is required"})
		return
	}
	if s.checkpointService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "checkpoints are not available"})
		return
	}

	// Distinguish an unknown session from one with no checkpoints.
	if _, err := s.sessionService.GetSession(c.Request.Context(), sessionID); err != nil {
		respondServiceError(c, err)
		return
	}

	cps, err := s.checkpointService.ListCheckpoints(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, &CheckpointListResponse{
		SessionID:   sessionID,
		Checkpoints: cps,
	})
}

// restoreCheckpointHandler handles
// POST /api/v1/sessions/:id/checkpoints/:checkpoint_id/restore.
// Applies the checkpoint's pre-turn snapshots back onto the workspace.
func (s *Server) restoreCheckpointHandler(c *gin.Context) {
	// 1. Validate parameters
	sessionID := c.Param("id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session id is required"})
		return
	}
	checkpointID := c.Param("checkpoint_id")
	if checkpointID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checkpoint id is required"})
		return
	}
	if s.checkpointService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "checkpoints are not available"})
		return
	}

	// 2. Load the session; restoring under a live turn would race the
	// agent's own writes.
	sess, err := s.sessionService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	switch sess.Status {
	case session.StatusPending, session.StatusGenerating:
		respondServiceError(c, services.ErrSessionBusy)
		return
	}

	// 3. Load the checkpoint and verify ownership
	cp, err := s.checkpointService.GetCheckpoint(c.Request.Context(), checkpointID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if cp.SessionID != sessionID {
		c.JSON(http.StatusNotFound, gin.H{"error": "checkpoint does not belong to this session"})
		return
	}

	// 4. Replay the snapshots through the host
	restored, skipped, err := restoreFiles(c.Request.Context(), sess.Workspace, cp.Edges.Files)
	if err != nil {
		slog.Error("Checkpoint restore failed",
			"session_id", sessionID, "checkpoint_id", checkpointID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to restore checkpoint"})
		return
	}

	c.JSON(http.StatusOK, &RestoreResponse{
		SessionID:     sessionID,
		CheckpointID:  checkpointID,
		RestoredFiles: restored,
		SkippedFiles:  skipped,
	})
}

// restoreFiles applies snapshots through the host environment so path
// containment holds for restores exactly as it does for agent writes.
func restoreFiles(ctx context.Context, workspace string, files []*ent.CheckpointFile) (restored, skipped []string, err error) {
	h, err := host.NewLocalHost(workspace)
	if err != nil {
		return nil, nil, err
	}
	defer h.Close()

	for _, f := range files {
		switch f.Action {
		case checkpointfile.ActionCreated:
			// The turn created this file; restoring removes it. Already
			// gone counts as restored.
			if err := h.DeletePath(ctx, f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return restored, skipped, fmt.Errorf("deleting %s: %w", f.Path, err)
			}
			restored = append(restored, f.Path)
		case checkpointfile.ActionModified, checkpointfile.ActionDeleted:
			if f.OriginalContent == nil {
				skipped = append(skipped, f.Path)
				continue
			}
			if err := h.WriteFile(ctx, f.Path, *f.OriginalContent); err != nil {
				return restored, skipped, fmt.Errorf("writing %s: %w", f.Path, err)
			}
			restored = append(restored, f.Path)
		default:
			skipped = append(skipped, f.Path)
		}
	}
	return restored, skipped, nil
}
