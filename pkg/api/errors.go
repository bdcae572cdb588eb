package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kiln-dev/kiln/pkg/services"
)

// respondServiceError maps service-layer errors to HTTP error responses.
func respondServiceError(c *gin.Context, err error) {
	var validErr *services.ValidationError
	switch {
	case errors.As(err, &validErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validErr.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
	case errors.Is(err, services.ErrSessionBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "session is busy with another turn"})
	case errors.Is(err, services.ErrNotCancellable):
		c.JSON(http.StatusConflict, gin.H{"error": "session has no queued or running turn"})
	case errors.Is(err, services.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "resource already exists"})
	default:
		// Unexpected error
		slog.Error("Unexpected service error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
