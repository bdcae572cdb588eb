package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultQueueConfig(t *testing.T) {
	cfg := DefaultQueueConfig()

	assert.Equal(t, 1, cfg.WorkerCount)
	assert.Equal(t, 1, cfg.MaxConcurrentSessions)
	assert.Equal(t, 1*time.Second, cfg.PollInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.PollIntervalJitter)
	assert.Equal(t, 20*time.Minute, cfg.SessionTimeout)
	assert.Equal(t, 20*time.Minute, cfg.GracefulShutdownTimeout)
	assert.Equal(t, 30*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 5*time.Minute, cfg.OrphanDetectionInterval)
	assert.Equal(t, 5*time.Minute, cfg.OrphanThreshold)
}

func TestResolveQueueConfig(t *testing.T) {
	t.Run("nil yaml keeps defaults", func(t *testing.T) {
		cfg := resolveQueueConfig(nil)
		assert.Equal(t, DefaultQueueConfig(), cfg)
	})

	t.Run("set fields override, unset keep defaults", func(t *testing.T) {
		cfg := resolveQueueConfig(&QueueYAMLConfig{
			WorkerCount:    3,
			SessionTimeout: "5m",
		})
		assert.Equal(t, 3, cfg.WorkerCount)
		assert.Equal(t, 5*time.Minute, cfg.SessionTimeout)
		assert.Equal(t, 1, cfg.MaxConcurrentSessions)
		assert.Equal(t, 1*time.Second, cfg.PollInterval)
	})

	t.Run("malformed duration keeps default", func(t *testing.T) {
		cfg := resolveQueueConfig(&QueueYAMLConfig{
			PollInterval: "ten seconds",
		})
		assert.Equal(t, 1*time.Second, cfg.PollInterval)
	})
}

func TestValidateQueue(t *testing.T) {
	tests := []struct {
		name    string
		queue   *QueueConfig
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid defaults",
			queue:   DefaultQueueConfig(),
			wantErr: false,
		},
		{
			name:    "nil queue",
			queue:   nil,
			wantErr: true,
			errMsg:  "queue configuration is nil",
		},
		{
			name: "worker count too low",
			queue: func() *QueueConfig {
				q := DefaultQueueConfig()
				q.WorkerCount = 0
				return q
			}(),
			wantErr: true,
			errMsg:  "worker_count must be between 1 and 50",
		},
		{
			name: "worker count too high",
			queue: func() *QueueConfig {
				q := DefaultQueueConfig()
				q.WorkerCount = 51
				return q
			}(),
			wantErr: true,
			errMsg:  "worker_count must be between 1 and 50",
		},
		{
			name: "max concurrent sessions zero",
			queue: func() *QueueConfig {
				q := DefaultQueueConfig()
				q.MaxConcurrentSessions = 0
				return q
			}(),
			wantErr: true,
			errMsg:  "max_concurrent_sessions must be at least 1",
		},
		{
			name: "poll interval zero",
			queue: func() *QueueConfig {
				q := DefaultQueueConfig()
				q.PollInterval = 0
				return q
			}(),
			wantErr: true,
			errMsg:  "poll_interval must be positive",
		},
		{
			name: "negative jitter",
			queue: func() *QueueConfig {
				q := DefaultQueueConfig()
				q.PollIntervalJitter = -1 * time.Second
				return q
			}(),
			wantErr: true,
			errMsg:  "poll_interval_jitter must be non-negative",
		},
		{
			name: "jitter equal to poll interval",
			queue: func() *QueueConfig {
				q := DefaultQueueConfig()
				q.PollInterval = 1 * time.Second
				q.PollIntervalJitter = 1 * time.Second
				return q
			}(),
			wantErr: true,
			errMsg:  "poll_interval_jitter must be less than poll_interval",
		},
		{
			name: "session timeout zero",
			queue: func() *QueueConfig {
				q := DefaultQueueConfig()
				q.SessionTimeout = 0
				return q
			}(),
			wantErr: true,
			errMsg:  "session_timeout must be positive",
		},
		{
			name: "heartbeat interval zero",
			queue: func() *QueueConfig {
				q := DefaultQueueConfig()
				q.HeartbeatInterval = 0
				return q
			}(),
			wantErr: true,
			errMsg:  "heartbeat_interval must be positive",
		},
		{
			name: "heartbeat interval equal to orphan threshold",
			queue: func() *QueueConfig {
				q := DefaultQueueConfig()
				q.OrphanThreshold = 1 * time.Minute
				q.HeartbeatInterval = 1 * time.Minute
				return q
			}(),
			wantErr: true,
			errMsg:  "heartbeat_interval must be less than orphan_threshold",
		},
		{
			name: "zero jitter is valid",
			queue: func() *QueueConfig {
				q := DefaultQueueConfig()
				q.PollIntervalJitter = 0
				return q
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Queue: tt.queue}
			v := NewValidator(cfg)
			err := v.validateQueue()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
