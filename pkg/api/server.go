// Package api exposes the daemon's HTTP surface: session lifecycle,
// turn submission, approvals, checkpoints, the model registry, health,
// and the WebSocket upgrade for dashboard event delivery.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kiln-dev/kiln/pkg/agent/dispatch"
	"github.com/kiln-dev/kiln/pkg/config"
	"github.com/kiln-dev/kiln/pkg/database"
	"github.com/kiln-dev/kiln/pkg/events"
	"github.com/kiln-dev/kiln/pkg/models"
	"github.com/kiln-dev/kiln/pkg/queue"
	"github.com/kiln-dev/kiln/pkg/services"
)

// Server hosts the HTTP API in front of the services layer and the
// worker pool. Handlers never run agent turns themselves; a user turn
// is enqueued and picked up by a worker.
type Server struct {
	cfg            *config.Config
	dbClient       *database.Client
	sessionService *services.SessionService
	messageService *services.MessageService
	workerPool     *queue.WorkerPool
	connManager    *events.ConnectionManager

	// Optional components, attached with setters before Start.
	gateRegistry      *dispatch.GateRegistry
	modelService      *services.ModelService
	checkpointService *services.CheckpointService
	warningsService   *services.SystemWarningsService
	modelSyncer       *models.Syncer

	router     *gin.Engine
	httpServer *http.Server
}

// NewServer creates the API server and registers all routes.
func NewServer(
	cfg *config.Config,
	dbClient *database.Client,
	sessionService *services.SessionService,
	messageService *services.MessageService,
	workerPool *queue.WorkerPool,
	connManager *events.ConnectionManager,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:            cfg,
		dbClient:       dbClient,
		sessionService: sessionService,
		messageService: messageService,
		workerPool:     workerPool,
		connManager:    connManager,
		router:         gin.New(),
	}

	s.router.Use(gin.Recovery())
	s.router.Use(securityHeaders())
	if cfg != nil {
		s.router.Use(corsFor(cfg.Server))
	}
	s.registerRoutes()
	return s
}

// SetGateRegistry attaches the approval gate registry so decision
// responses can reach blocked loops.
func (s *Server) SetGateRegistry(r *dispatch.GateRegistry) {
	s.gateRegistry = r
}

// SetModelService attaches the cached model registry.
func (s *Server) SetModelService(m *services.ModelService) {
	s.modelService = m
}

// SetCheckpointService attaches checkpoint listing and restore.
func (s *Server) SetCheckpointService(cp *services.CheckpointService) {
	s.checkpointService = cp
}

// SetWarningsService attaches system warnings for health reporting.
func (s *Server) SetWarningsService(w *services.SystemWarningsService) {
	s.warningsService = w
}

// SetModelSyncer attaches the Ollama registry syncer backing the
// on-demand refresh endpoint.
func (s *Server) SetModelSyncer(sync *models.Syncer) {
	s.modelSyncer = sync
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.healthHandler)
	s.router.GET("/ws", s.wsHandler)

	v1 := s.router.Group("/api/v1")
	v1.POST("/sessions", s.createSessionHandler)
	v1.GET("/sessions", s.listSessionsHandler)
	v1.GET("/sessions/:id", s.getSessionHandler)
	v1.GET("/sessions/:id/messages", s.sessionMessagesHandler)
	v1.POST("/sessions/:id/turns", s.postTurnHandler)
	v1.POST("/sessions/:id/cancel", s.cancelSessionHandler)
	v1.POST("/sessions/:id/approvals/:approval_id", s.respondApprovalHandler)
	v1.PATCH("/sessions/:id/approval-policy", s.updateApprovalPolicyHandler)
	v1.GET("/sessions/:id/checkpoints", s.listCheckpointsHandler)
	v1.POST("/sessions/:id/checkpoints/:checkpoint_id/restore", s.restoreCheckpointHandler)
	v1.GET("/models", s.listModelsHandler)
	v1.POST("/models/refresh", s.refreshModelsHandler)
}

// Start serves HTTP on addr and blocks until the server stops.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

// StartWithListener serves on an existing listener. Tests use it to
// bind a random port before the server goroutine starts.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.httpServer.Serve(ln)
}

// Shutdown stops accepting new connections and waits for in-flight
// requests, up to the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// publishStatus emits a session.status event for transitions the API
// makes itself (enqueue, pending-cancel). Transitions made by a worker
// are published by that worker.
func (s *Server) publishStatus(ctx context.Context, sessionID, status string) {
	if s.dbClient == nil {
		return
	}
	bus := events.NewSessionBus(s.dbClient.DB(), sessionID)
	if err := bus.EmitSessionStatus(ctx, status); err != nil {
		slog.Warn("Failed to publish session status",
			"session_id", sessionID, "status", status, "error", err)
	}
}
