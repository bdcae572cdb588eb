package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/config"
)

func testQueueConfig() *config.QueueConfig {
	return &config.QueueConfig{
		WorkerCount:             5,
		MaxConcurrentSessions:   5,
		PollInterval:            1 * time.Second,
		PollIntervalJitter:      500 * time.Millisecond,
		SessionTimeout:          15 * time.Minute,
		GracefulShutdownTimeout: 15 * time.Minute,
		HeartbeatInterval:       30 * time.Second,
		OrphanDetectionInterval: 5 * time.Minute,
		OrphanThreshold:         5 * time.Minute,
	}
}

func TestWorkerPollInterval(t *testing.T) {
	cfg := testQueueConfig()
	w := NewWorker("test-worker", "test-pod", cfg, nil, nil, nil, nil, nil)

	// Poll interval should be within [base - jitter, base + jitter]
	for i := 0; i < 100; i++ {
		d := w.pollInterval()
		assert.GreaterOrEqual(t, d, 500*time.Millisecond, "poll interval below minimum")
		assert.LessOrEqual(t, d, 1500*time.Millisecond, "poll interval above maximum")
	}
}

func TestWorkerPollIntervalNoJitter(t *testing.T) {
	cfg := testQueueConfig()
	cfg.PollIntervalJitter = 0
	w := NewWorker("test-worker", "test-pod", cfg, nil, nil, nil, nil, nil)

	for i := 0; i < 10; i++ {
		d := w.pollInterval()
		assert.Equal(t, 1*time.Second, d, "poll interval should equal base when jitter is 0")
	}
}

func TestWorkerHealth(t *testing.T) {
	cfg := testQueueConfig()
	w := NewWorker("worker-1", "pod-1", cfg, nil, nil, nil, nil, nil)

	h := w.Health()
	assert.Equal(t, "worker-1", h.ID)
	assert.Equal(t, "idle", h.Status)
	assert.Equal(t, "", h.CurrentSessionID)
	assert.Equal(t, 0, h.SessionsProcessed)

	// Simulate working state
	w.setStatus(WorkerStatusWorking, "session-abc")
	h = w.Health()
	assert.Equal(t, "working", h.Status)
	assert.Equal(t, "session-abc", h.CurrentSessionID)

	// Back to idle
	w.setStatus(WorkerStatusIdle, "")
	h = w.Health()
	assert.Equal(t, "idle", h.Status)
	assert.Equal(t, "", h.CurrentSessionID)
}

func TestResolveResultNilWithDeadline(t *testing.T) {
	w := NewWorker("w", "p", testQueueConfig(), nil, nil, nil, nil, nil)

	result := w.resolveResult(nil, context.DeadlineExceeded)
	require.NotNil(t, result)
	assert.Equal(t, agent.TurnStatusError, result.Status)
	assert.ErrorContains(t, result.Error, "timed out")
}

func TestResolveResultNilWithCancel(t *testing.T) {
	w := NewWorker("w", "p", testQueueConfig(), nil, nil, nil, nil, nil)

	result := w.resolveResult(nil, context.Canceled)
	require.NotNil(t, result)
	assert.Equal(t, agent.TurnStatusCancelled, result.Status)
	assert.True(t, errors.Is(result.Error, context.Canceled))
}

func TestResolveResultNilWithLiveContext(t *testing.T) {
	w := NewWorker("w", "p", testQueueConfig(), nil, nil, nil, nil, nil)

	result := w.resolveResult(nil, nil)
	require.NotNil(t, result)
	assert.Equal(t, agent.TurnStatusError, result.Status)
	assert.ErrorContains(t, result.Error, "nil result")
}

func TestResolveResultRelabelsDeadlineAsTimeout(t *testing.T) {
	w := NewWorker("w", "p", testQueueConfig(), nil, nil, nil, nil, nil)

	// The engine reports any context death as cancelled; when the deadline
	// fired, the worker turns that into an error with a timeout message.
	result := w.resolveResult(&agent.TurnResult{Status: agent.TurnStatusCancelled}, context.DeadlineExceeded)
	assert.Equal(t, agent.TurnStatusError, result.Status)
	assert.ErrorContains(t, result.Error, "timed out after 15m0s")
}

func TestResolveResultKeepsUserCancel(t *testing.T) {
	w := NewWorker("w", "p", testQueueConfig(), nil, nil, nil, nil, nil)

	result := w.resolveResult(&agent.TurnResult{Status: agent.TurnStatusCancelled}, context.Canceled)
	assert.Equal(t, agent.TurnStatusCancelled, result.Status)
	assert.NoError(t, result.Error)
}

func TestResolveResultPassesThroughCompletion(t *testing.T) {
	w := NewWorker("w", "p", testQueueConfig(), nil, nil, nil, nil, nil)

	in := &agent.TurnResult{
		Status:       agent.TurnStatusCompleted,
		FinalMessage: "done",
		Iterations:   3,
	}
	result := w.resolveResult(in, nil)
	assert.Same(t, in, result)
	assert.Equal(t, agent.TurnStatusCompleted, result.Status)
}
