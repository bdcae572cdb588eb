package config

import "time"

// RetentionConfig controls data retention and cleanup behavior.
type RetentionConfig struct {
	// SessionRetentionDays is how many days to keep completed sessions
	// before soft-deleting them (setting deleted_at).
	SessionRetentionDays int

	// EventTTL is the maximum age of orphaned event outbox rows before
	// deletion. Per-turn cleanup handles the normal case; this is a
	// safety net.
	EventTTL time.Duration

	// CleanupInterval is how often the cleanup loop runs.
	CleanupInterval time.Duration
}

// DefaultRetentionConfig returns the built-in retention defaults.
func DefaultRetentionConfig() *RetentionConfig {
	return &RetentionConfig{
		SessionRetentionDays: 365,
		EventTTL:             1 * time.Hour,
		CleanupInterval:      12 * time.Hour,
	}
}
