package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// listModelsHandler handles GET /api/v1/models: the cached registry of
// models detected on the Ollama host.
func (s *Server) listModelsHandler(c *gin.Context) {
	if s.modelService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "model registry is not available"})
		return
	}

	records, err := s.modelService.ListModels(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, &ModelListResponse{Models: records})
}

// refreshModelsHandler handles POST /api/v1/models/refresh.
// Re-probes the Ollama host and rewrites the capability cache and
// model registry from what it reports.
func (s *Server) refreshModelsHandler(c *gin.Context) {
	if s.modelSyncer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "model sync is not available"})
		return
	}

	count, err := s.modelSyncer.Sync(c.Request.Context())
	if err != nil {
		slog.Error("Model refresh failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to refresh models from the ollama host"})
		return
	}

	c.JSON(http.StatusOK, &RefreshModelsResponse{
		ModelCount: count,
		Message:    "Model registry refreshed",
	})
}
