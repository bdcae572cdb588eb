package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// sessionMessagesHandler handles GET /api/v1/sessions/:id/messages.
// Returns the persisted log including UI markers, in sequence order,
// from which the dashboard replays a session timeline.
func (s *Server) sessionMessagesHandler(c *gin.Context) {
	sessionID := c.Param("id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session id is required"})
		return
	}

	limit, offset := 0, 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 1000 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit: must be between 1 and 1000"})
			return
		}
		limit = n
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset: must be 0 or greater"})
			return
		}
		offset = n
	}

	// Distinguish an unknown session from an empty log.
	if _, err := s.sessionService.GetSession(c.Request.Context(), sessionID); err != nil {
		respondServiceError(c, err)
		return
	}

	msgs, totalCount, err := s.messageService.Timeline(c.Request.Context(), sessionID, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, &MessagesResponse{
		SessionID:  sessionID,
		Messages:   msgs,
		TotalCount: totalCount,
		Limit:      limit,
		Offset:     offset,
	})
}
