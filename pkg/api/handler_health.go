package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kiln-dev/kiln/pkg/database"
	"github.com/kiln-dev/kiln/pkg/queue"
	"github.com/kiln-dev/kiln/pkg/services"
	"github.com/kiln-dev/kiln/pkg/version"
)

const (
	healthStatusHealthy   = "healthy"
	healthStatusDegraded  = "degraded"
	healthStatusUnhealthy = "unhealthy"
)

// healthHandler handles GET /health.
// Checks cover the daemon's own components only (database, worker
// pool); the Ollama host is not probed. A stopped model server surfaces
// per-session, not as daemon death.
func (s *Server) healthHandler(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := healthStatusHealthy

	var dbHealth *database.HealthStatus
	dbError := ""
	if s.dbClient != nil {
		h, err := s.dbClient.Health(reqCtx)
		if err != nil {
			status = healthStatusUnhealthy
			dbError = err.Error()
		}
		dbHealth = h
	}

	var poolHealth *queue.PoolHealth
	if s.workerPool != nil {
		poolHealth = s.workerPool.Health()
		if poolHealth != nil && !poolHealth.IsHealthy && status == healthStatusHealthy {
			status = healthStatusDegraded
		}
	}

	var warnings []*services.SystemWarning
	if s.warningsService != nil {
		warnings = s.warningsService.GetWarnings()
		if len(warnings) > 0 && status == healthStatusHealthy {
			status = healthStatusDegraded
		}
	}

	httpStatus := http.StatusOK
	if status == healthStatusUnhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, &HealthResponse{
		Status:        status,
		Version:       version.GitCommit,
		Database:      dbHealth,
		DatabaseError: dbError,
		WorkerPool:    poolHealth,
		Warnings:      warnings,
	})
}
