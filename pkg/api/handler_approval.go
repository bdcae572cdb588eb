package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondApprovalHandler handles POST /api/v1/sessions/:id/approvals/:approval_id.
// Routes the user's decision to the gate the session's loop is blocked
// on. Stale or duplicate decisions return 404.
func (s *Server) respondApprovalHandler(c *gin.Context) {
	sessionID := c.Param("id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session id is required"})
		return
	}
	approvalID := c.Param("approval_id")
	if approvalID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approval id is required"})
		return
	}

	var req ApprovalDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Approved == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approved is required"})
		return
	}

	if s.gateRegistry == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "approvals are not available"})
		return
	}

	if !s.gateRegistry.Resolve(sessionID, approvalID, *req.Approved, req.RevisedCommand) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no pending approval with that id"})
		return
	}

	c.JSON(http.StatusOK, &ApprovalDecisionResponse{
		SessionID:  sessionID,
		ApprovalID: approvalID,
		Approved:   *req.Approved,
	})
}
