// kiln daemon — provides the HTTP API, manages queue workers, and
// drives agent turns against a local Ollama host.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/agent/dispatch"
	"github.com/kiln-dev/kiln/pkg/api"
	"github.com/kiln-dev/kiln/pkg/cleanup"
	"github.com/kiln-dev/kiln/pkg/config"
	"github.com/kiln-dev/kiln/pkg/database"
	"github.com/kiln-dev/kiln/pkg/events"
	"github.com/kiln-dev/kiln/pkg/models"
	"github.com/kiln-dev/kiln/pkg/ollama"
	"github.com/kiln-dev/kiln/pkg/queue"
	"github.com/kiln-dev/kiln/pkg/services"
)

// modelSyncInterval is how often the registry re-probes the Ollama host
// for installed models. Pulls and deletes done through the ollama CLI
// show up within one interval; the dashboard's refresh button forces it.
const modelSyncInterval = 5 * time.Minute

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// resolvePodID determines the daemon identifier used for turn claiming
// and orphan recovery. A second daemon sharing the database (unusual,
// but supported) must carry a distinct POD_ID.
// Priority: POD_ID env > HOSTNAME env > "local"
func resolvePodID() string {
	if id := os.Getenv("POD_ID"); id != "" {
		return id
	}
	if hostname := os.Getenv("HOSTNAME"); hostname != "" {
		return hostname
	}
	return "local"
}

// defaultConfigDir is ~/.config/kiln (or the platform equivalent).
func defaultConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "kiln")
	}
	return "./config"
}

func main() {
	// Parse command-line flags
	configDir := flag.String("config-dir",
		getEnv("KILN_CONFIG_DIR", defaultConfigDir()),
		"Path to configuration directory")
	flag.Parse()

	// Load .env file from config directory
	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		slog.Debug("No .env file, continuing with existing environment",
			"path", envPath, "error", err)
	} else {
		slog.Info("Loaded environment", "path", envPath)
	}

	podID := resolvePodID()

	slog.Info("Starting kiln",
		"pod_id", podID,
		"config_dir", *configDir)

	ctx := context.Background()

	// 1. Initialize configuration
	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		slog.Error("Failed to initialize configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize database
	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		slog.Error("Failed to load database config", "error", err)
		os.Exit(1)
	}

	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			slog.Error("Error closing database client", "error", err)
		}
	}()
	slog.Info("Connected to PostgreSQL database")

	// 3. Initialize domain services
	sessionService := services.NewSessionService(dbClient.Client)
	messageService := services.NewMessageService(dbClient.Client)
	checkpointService := services.NewCheckpointService(dbClient.Client)
	memoryService := services.NewMemoryService(dbClient.Client)
	modelService := services.NewModelService(dbClient.Client)
	eventService := services.NewEventService(dbClient.Client)
	warningsService := services.NewSystemWarningsService()
	slog.Info("Services initialized")

	// 4. One-time startup orphan cleanup: sessions this pod left
	// generating when it last died go to error status immediately.
	if err := queue.CleanupStartupOrphans(ctx, sessionService, dbClient.DB(), podID); err != nil {
		slog.Error("Failed to cleanup startup orphans", "error", err)
		// Non-fatal — continue
	}

	// 5. Create the Ollama backend.
	// The client keeps no connection open; a stopped Ollama host surfaces
	// per-turn, so startup does not probe it.
	ollamaClient := ollama.NewClient(cfg.Ollama)
	slog.Info("Ollama backend initialized", "base_url", cfg.Ollama.BaseURL)

	// 5a. Initialize streaming infrastructure
	connManager := events.NewConnectionManager(eventService, 10*time.Second)

	// Start NotifyListener (dedicated pgx connection for LISTEN)
	notifyListener := events.NewNotifyListener(dbConfig.DSN(), connManager)
	if err := notifyListener.Start(ctx); err != nil {
		slog.Error("Failed to start NotifyListener", "error", err)
		os.Exit(1)
	}
	defer notifyListener.Stop(ctx)

	// Wire listener ↔ manager bidirectional link
	connManager.SetListener(notifyListener)
	slog.Info("Streaming infrastructure initialized")

	// 5b. Model registry sync: probe once at startup so the first session
	// create can validate its model, then re-probe in the background.
	syncer := models.NewSyncer(ollamaClient, modelService, warningsService)
	syncCtx, syncCancel := context.WithTimeout(ctx, 30*time.Second)
	if _, err := syncer.Sync(syncCtx); err != nil {
		slog.Warn("Initial model sync failed; registry will retry in the background", "error", err)
	}
	syncCancel()

	bgCtx, bgCancel := context.WithCancel(ctx)
	defer bgCancel()
	go syncer.Run(bgCtx, modelSyncInterval)

	// 6. Start worker pool (before HTTP server)
	bundle := &agent.ServiceBundle{
		Session:    sessionService,
		Message:    messageService,
		Checkpoint: checkpointService,
		Memory:     memoryService,
	}
	gates := dispatch.NewGateRegistry()
	runner := queue.NewRunner(cfg, ollamaClient, dbClient.DB(), bundle, gates)

	workerPool := queue.NewWorkerPool(podID, cfg.Queue, dbClient.DB(), sessionService, eventService, runner)
	if err := workerPool.Start(ctx); err != nil {
		slog.Error("Failed to start worker pool", "error", err)
		os.Exit(1)
	}

	// 6a. Retention loop (soft-delete old sessions, drop orphaned events)
	cleanupService := cleanup.NewService(cfg.Retention, sessionService, eventService)
	cleanupService.Start(ctx)

	// 7. Create HTTP server
	httpServer := api.NewServer(cfg, dbClient, sessionService, messageService, workerPool, connManager)
	httpServer.SetGateRegistry(gates)
	httpServer.SetModelService(modelService)
	httpServer.SetCheckpointService(checkpointService)
	httpServer.SetWarningsService(warningsService)
	httpServer.SetModelSyncer(syncer)

	// 8. Start HTTP server (non-blocking)
	errCh := make(chan error, 1)
	go func() {
		addr := cfg.Server.ListenAddr
		slog.Info("HTTP server listening", "addr", addr)
		if err := httpServer.Start(addr); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			errCh <- err
		}
	}()

	slog.Info("kiln started successfully",
		"pod_id", podID,
		"workers", cfg.Queue.WorkerCount,
		"default_model", cfg.Defaults.Model)

	// 9. Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig)
	case err := <-errCh:
		slog.Error("Server error triggered shutdown", "error", err)
	}

	// 10. Graceful shutdown
	bgCancel()
	cleanupService.Stop()

	// Stop worker pool (wait for active turns to complete)
	workerShutdownCtx, workerCancel := context.WithTimeout(ctx, cfg.Queue.GracefulShutdownTimeout)
	defer workerCancel()

	done := make(chan struct{})
	go func() {
		workerPool.Stop()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("Worker pool stopped gracefully")
	case <-workerShutdownCtx.Done():
		slog.Warn("Shutdown timeout exceeded — incomplete turns will be orphan-recovered")
	}

	// Stop HTTP server with its own timeout budget
	httpShutdownCtx, httpCancel := context.WithTimeout(ctx, 5*time.Second)
	defer httpCancel()
	if err := httpServer.Shutdown(httpShutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
