package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kiln-dev/kiln/ent/session"
	"github.com/kiln-dev/kiln/pkg/config"
	"github.com/kiln-dev/kiln/pkg/services"
)

// createSessionHandler handles POST /api/v1/sessions.
// Creates a session in "pending" status; a worker claims it and runs
// the first turn asynchronously.
func (s *Server) createSessionHandler(c *gin.Context) {
	// 1. Bind and validate request body
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Task == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task is required"})
		return
	}
	if len(req.Task) > maxTaskBytes {
		c.JSON(http.StatusRequestEntityTooLarge,
			gin.H{"error": fmt.Sprintf("task exceeds maximum size of %d bytes", maxTaskBytes)})
		return
	}

	// 2. Fill omitted fields from configured defaults
	mode, model, workspace := req.Mode, req.Model, req.Workspace
	if s.cfg != nil && s.cfg.Defaults != nil {
		if mode == "" {
			mode = string(s.cfg.Defaults.Mode)
		}
		if model == "" {
			model = s.cfg.Defaults.Model
		}
		if workspace == "" {
			workspace = s.cfg.Defaults.Workspace
		}
	}

	// 3. Create the session (service validates mode/model/workspace)
	sess, err := s.sessionService.CreateSession(c.Request.Context(), services.CreateSessionInput{
		Task:                  req.Task,
		Mode:                  mode,
		Model:                 model,
		Workspace:             workspace,
		SensitiveFilePatterns: req.SensitiveFilePatterns,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// 4. Announce the queued turn
	s.publishStatus(c.Request.Context(), sess.ID, string(session.StatusPending))

	c.JSON(http.StatusCreated, sess)
}

// getSessionHandler handles GET /api/v1/sessions/:id.
func (s *Server) getSessionHandler(c *gin.Context) {
	sessionID := c.Param("id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session id is required"})
		return
	}

	sess, err := s.sessionService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

// listSessionsHandler handles GET /api/v1/sessions.
func (s *Server) listSessionsHandler(c *gin.Context) {
	var filters services.SessionFilters

	if v := c.Query("status"); v != "" {
		if err := session.StatusValidator(session.Status(v)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status: " + v})
			return
		}
		filters.Status = v
	}
	if v := c.Query("mode"); v != "" {
		if !config.Mode(v).IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mode: " + v})
			return
		}
		filters.Mode = v
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 200 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit: must be between 1 and 200"})
			return
		}
		filters.Limit = n
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset: must be 0 or greater"})
			return
		}
		filters.Offset = n
	}

	result, err := s.sessionService.ListSessions(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, &SessionListResponse{
		Sessions:   result.Sessions,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// updateApprovalPolicyHandler handles PATCH /api/v1/sessions/:id/approval-policy.
// The running loop re-reads the policy on its next approval decision,
// so a change applies mid-turn.
func (s *Server) updateApprovalPolicyHandler(c *gin.Context) {
	sessionID := c.Param("id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session id is required"})
		return
	}

	var req ApprovalPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.AutoApproveCommands == nil && req.AutoApproveSensitiveEdits == nil && req.SensitiveFilePatterns == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one policy field is required"})
		return
	}

	sess, err := s.sessionService.UpdateApprovalPolicy(c.Request.Context(), sessionID, services.ApprovalPolicyUpdate{
		AutoApproveCommands:       req.AutoApproveCommands,
		AutoApproveSensitiveEdits: req.AutoApproveSensitiveEdits,
		SensitiveFilePatterns:     req.SensitiveFilePatterns,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}
