package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/agent/dispatch"
	"github.com/kiln-dev/kiln/pkg/api"
	"github.com/kiln-dev/kiln/pkg/config"
	"github.com/kiln-dev/kiln/pkg/database"
	"github.com/kiln-dev/kiln/pkg/events"
	"github.com/kiln-dev/kiln/pkg/queue"
	"github.com/kiln-dev/kiln/pkg/services"
	testdb "github.com/kiln-dev/kiln/test/database"
)

// TestApp is a fully wired daemon instance for end-to-end tests: real
// PostgreSQL schema, real worker pool, real HTTP and WebSocket servers.
// Only the Ollama backend is scripted.
type TestApp struct {
	t *testing.T

	Config  *config.Config
	Backend *ScriptedBackend
	DB      *database.Client

	// Workspace is the default directory sessions write into.
	Workspace string

	BaseURL string
	WSURL   string
}

type appConfig struct {
	backend        *ScriptedBackend
	workerCount    int
	maxConcurrent  int
	sessionTimeout time.Duration
}

// AppOption customizes NewTestApp.
type AppOption func(*appConfig)

// WithBackend installs a pre-scripted model backend.
func WithBackend(b *ScriptedBackend) AppOption {
	return func(tc *appConfig) { tc.backend = b }
}

// WithWorkerCount sets the number of pool workers. Zero means no
// worker ever claims a pending turn.
func WithWorkerCount(n int) AppOption {
	return func(tc *appConfig) { tc.workerCount = n }
}

// WithMaxConcurrentSessions caps how many sessions may generate at once.
func WithMaxConcurrentSessions(n int) AppOption {
	return func(tc *appConfig) { tc.maxConcurrent = n }
}

// WithSessionTimeout bounds a single agent turn.
func WithSessionTimeout(d time.Duration) AppOption {
	return func(tc *appConfig) { tc.sessionTimeout = d }
}

// NewTestApp wires a complete daemon against a fresh database schema
// and starts it on a random port. Everything is torn down via t.Cleanup
// in reverse start order.
func NewTestApp(t *testing.T, opts ...AppOption) *TestApp {
	t.Helper()
	ctx := context.Background()

	tc := &appConfig{
		workerCount:    1,
		maxConcurrent:  2,
		sessionTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(tc)
	}
	if tc.backend == nil {
		tc.backend = NewScriptedBackend()
	}

	// 1. Database: one schema per test, migrated once.
	shared := testdb.NewSharedTestDB(t)
	dbClient := shared.NewClient(t)

	// 2. Config with queue timings tuned for tests. The orphan and
	// heartbeat intervals are long enough to never fire mid-test.
	workspace := t.TempDir()
	cfg := &config.Config{
		Defaults: &config.Defaults{
			Mode:             config.ModeAgent,
			Model:            "scripted-coder",
			MaxIterations:    config.IntPtr(8),
			GlobalContextCap: config.DefaultGlobalContextCap,
			NumPredict:       config.DefaultNumPredict,
			Workspace:        workspace,
		},
		Queue: &config.QueueConfig{
			WorkerCount:             tc.workerCount,
			MaxConcurrentSessions:   tc.maxConcurrent,
			PollInterval:            100 * time.Millisecond,
			PollIntervalJitter:      50 * time.Millisecond,
			SessionTimeout:          tc.sessionTimeout,
			GracefulShutdownTimeout: 10 * time.Second,
			HeartbeatInterval:       5 * time.Second,
			OrphanDetectionInterval: time.Minute,
			OrphanThreshold:         time.Minute,
		},
		Server:     &config.ServerConfig{},
		ToolPolicy: &config.ToolPolicyConfig{},
		Models:     config.NewModelRegistry(nil),
	}

	// 3. Events: outbox catch-up queries, WS connections, NOTIFY fan-in.
	eventService := services.NewEventService(dbClient.Client)
	connManager := events.NewConnectionManager(eventService, 5*time.Second)
	notifyListener := events.NewNotifyListener(shared.ConnString(), connManager)
	require.NoError(t, notifyListener.Start(ctx))
	connManager.SetListener(notifyListener)

	// 4. Services and the loop engine's persistence bundle.
	sessionService := services.NewSessionService(dbClient.Client)
	messageService := services.NewMessageService(dbClient.Client)
	checkpointService := services.NewCheckpointService(dbClient.Client)
	memoryService := services.NewMemoryService(dbClient.Client)
	bundle := &agent.ServiceBundle{
		Session:    sessionService,
		Message:    messageService,
		Checkpoint: checkpointService,
		Memory:     memoryService,
	}

	// 5. Turn runner and worker pool.
	gates := dispatch.NewGateRegistry()
	runner := queue.NewRunner(cfg, tc.backend, dbClient.DB(), bundle, gates)
	podID := fmt.Sprintf("e2e-%s", t.Name())
	pool := queue.NewWorkerPool(podID, cfg.Queue, dbClient.DB(), sessionService, eventService, runner)
	require.NoError(t, pool.Start(ctx))

	// 6. HTTP server on a random port.
	server := api.NewServer(cfg, dbClient, sessionService, messageService, pool, connManager)
	server.SetGateRegistry(gates)
	server.SetCheckpointService(checkpointService)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	go func() {
		if serveErr := server.StartWithListener(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			t.Logf("test server stopped: %v", serveErr)
		}
	}()

	t.Cleanup(func() {
		pool.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		notifyListener.Stop(shutdownCtx)
	})

	app := &TestApp{
		t:         t,
		Config:    cfg,
		Backend:   tc.backend,
		DB:        dbClient,
		Workspace: workspace,
		BaseURL:   "http://" + addr,
		WSURL:     "ws://" + addr + "/ws",
	}
	app.waitForHealth(t)
	return app
}

// CreateSession posts a new session with the default mode and model and
// returns its ID. The worker pool picks the turn up on its own.
func (app *TestApp) CreateSession(t *testing.T, task string) string {
	t.Helper()
	body, err := json.Marshal(map[string]string{"task": task})
	require.NoError(t, err)

	resp, err := http.Post(app.BaseURL+"/api/v1/sessions", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

// PostTurn queues a follow-up task on an existing session.
func (app *TestApp) PostTurn(t *testing.T, sessionID, task string) {
	t.Helper()
	body, err := json.Marshal(map[string]string{"task": task})
	require.NoError(t, err)

	resp, err := http.Post(app.BaseURL+"/api/v1/sessions/"+sessionID+"/turns", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
}

// SessionStatus fetches the session's current status string.
func (app *TestApp) SessionStatus(t *testing.T, sessionID string) string {
	t.Helper()
	resp, err := http.Get(app.BaseURL + "/api/v1/sessions/" + sessionID)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sess struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sess))
	return sess.Status
}

// WaitForStatus polls until the session reaches the given status.
func (app *TestApp) WaitForStatus(t *testing.T, sessionID, status string, timeout time.Duration) {
	t.Helper()
	require.Eventually(t, func() bool {
		return app.SessionStatus(t, sessionID) == status
	}, timeout, 100*time.Millisecond, "session %s never reached status %q", sessionID, status)
}

// TimelineMessage is one row of the persisted session log, decoded from
// the messages endpoint.
type TimelineMessage struct {
	Role     string `json:"role"`
	Content  string `json:"content"`
	ToolName string `json:"tool_name"`
}

// Messages fetches the full persisted timeline in sequence order.
func (app *TestApp) Messages(t *testing.T, sessionID string) []TimelineMessage {
	t.Helper()
	resp, err := http.Get(app.BaseURL + "/api/v1/sessions/" + sessionID + "/messages")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page struct {
		Messages []TimelineMessage `json:"messages"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	return page.Messages
}

func (app *TestApp) waitForHealth(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool {
		resp, err := http.Get(app.BaseURL + "/health")
		if err != nil {
			return false
		}
		defer func() { _ = resp.Body.Close() }()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond, "API server never became healthy")
}
