package config

import "time"

// QueueConfig contains resolved queue and worker pool configuration.
// These values control how pending turns are polled, claimed, and processed.
// The YAML shape (with human-readable duration strings) lives in loader.go.
type QueueConfig struct {
	// WorkerCount is the number of worker goroutines per replica.
	// Each worker independently polls and processes session turns.
	WorkerCount int

	// MaxConcurrentSessions is the global limit of sessions generating at
	// the same time across ALL replicas. Enforced by database COUNT(*)
	// check. Local Ollama hosts serialize poorly, so the default is 1.
	MaxConcurrentSessions int

	// PollInterval is the base interval for checking pending turns.
	PollInterval time.Duration

	// PollIntervalJitter is the random jitter added to PollInterval.
	// Actual interval: PollInterval ± PollIntervalJitter.
	PollIntervalJitter time.Duration

	// SessionTimeout is the maximum time one agent turn can run.
	SessionTimeout time.Duration

	// GracefulShutdownTimeout is the max time to wait for active turns
	// to complete during shutdown. Should match SessionTimeout.
	GracefulShutdownTimeout time.Duration

	// HeartbeatInterval is how often an active worker refreshes the
	// session's last_interaction_at. Must be well under OrphanThreshold.
	HeartbeatInterval time.Duration

	// OrphanDetectionInterval is how often to scan for orphaned sessions.
	OrphanDetectionInterval time.Duration

	// OrphanThreshold is how long a generating session can go without a
	// heartbeat before it is considered orphaned.
	OrphanThreshold time.Duration
}

// DefaultQueueConfig returns the built-in queue defaults.
func DefaultQueueConfig() *QueueConfig {
	return &QueueConfig{
		WorkerCount:             1,
		MaxConcurrentSessions:   1,
		PollInterval:            1 * time.Second,
		PollIntervalJitter:      500 * time.Millisecond,
		SessionTimeout:          20 * time.Minute,
		GracefulShutdownTimeout: 20 * time.Minute,
		HeartbeatInterval:       30 * time.Second,
		OrphanDetectionInterval: 5 * time.Minute,
		OrphanThreshold:         5 * time.Minute,
	}
}
