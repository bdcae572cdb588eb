package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kiln-dev/kiln/ent/session"
)

// postTurnHandler handles POST /api/v1/sessions/:id/turns.
// Stores the follow-up task and moves the session back to pending;
// returns 202 immediately while a worker picks the turn up.
func (s *Server) postTurnHandler(c *gin.Context) {
	// 1. Validate session ID
	sessionID := c.Param("id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session id is required"})
		return
	}

	// 2. Bind and validate request body
	var req PostTurnRequest
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

	// 3. Enqueue (rejected with 409 while a turn is pending or running)
	sess, err := s.sessionService.EnqueueTurn(c.Request.Context(), sessionID, req.Task)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// 4. Announce the queued turn
	s.publishStatus(c.Request.Context(), sess.ID, string(session.StatusPending))

	c.JSON(http.StatusAccepted, &TurnResponse{
		SessionID: sess.ID,
		Status:    string(session.StatusPending),
		Message:   "Turn queued for processing",
	})
}

// cancelSessionHandler handles POST /api/v1/sessions/:id/cancel.
func (s *Server) cancelSessionHandler(c *gin.Context) {
	sessionID := c.Param("id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session id is required"})
		return
	}

	// A running turn is cancelled through the worker that owns its
	// context; that worker also publishes the terminal status.
	if s.workerPool != nil && s.workerPool.CancelSession(sessionID) {
		c.JSON(http.StatusOK, &CancelResponse{
			SessionID: sessionID,
			Status:    "cancelling",
			Message:   "Cancellation requested",
		})
		return
	}

	// Not running on this pod: cancel a still-queued turn directly.
	if err := s.sessionService.CancelPending(c.Request.Context(), sessionID); err != nil {
		respondServiceError(c, err)
		return
	}
	s.publishStatus(c.Request.Context(), sessionID, string(session.StatusCancelled))

	c.JSON(http.StatusOK, &CancelResponse{
		SessionID: sessionID,
		Status:    string(session.StatusCancelled),
		Message:   "Queued turn cancelled",
	})
}
