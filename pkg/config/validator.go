package config

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"time"
)

// ConfigValidator validates configuration comprehensively with clear error messages
type ConfigValidator struct {
	cfg *Config
}

// NewValidator creates a validator for the given configuration
func NewValidator(cfg *Config) *ConfigValidator {
	return &ConfigValidator{cfg: cfg}
}

// ValidateAll performs comprehensive validation (fail-fast - stops at first error)
func (v *ConfigValidator) ValidateAll() error {
	if err := v.validateDefaults(); err != nil {
		return fmt.Errorf("defaults validation failed: %w", err)
	}

	if err := v.validateModels(); err != nil {
		return fmt.Errorf("model validation failed: %w", err)
	}

	if err := v.validateToolPolicy(); err != nil {
		return fmt.Errorf("tool policy validation failed: %w", err)
	}

	if err := v.validateQueue(); err != nil {
		return fmt.Errorf("queue validation failed: %w", err)
	}

	if err := v.validateServer(); err != nil {
		return fmt.Errorf("server validation failed: %w", err)
	}

	return nil
}

func (v *ConfigValidator) validateDefaults() error {
	d := v.cfg.Defaults

	if !d.Mode.IsValid() {
		return NewValidationError("defaults", "defaults", "mode",
			fmt.Errorf("%w: %s (supported: %v)", ErrInvalidMode, d.Mode, AllModes()))
	}

	if d.Model == "" {
		return NewValidationError("defaults", "defaults", "model", fmt.Errorf("model required"))
	}

	if d.MaxIterations != nil && *d.MaxIterations < 1 {
		return NewValidationError("defaults", "defaults", "max_iterations", fmt.Errorf("must be at least 1"))
	}

	// The window resolution clamps to a floor of 8192; a global cap below
	// that floor would make every clamp degenerate.
	if d.GlobalContextCap < 8192 {
		return NewValidationError("defaults", "defaults", "global_context_cap",
			fmt.Errorf("must be at least 8192, got %d", d.GlobalContextCap))
	}

	if d.NumPredict < 128 {
		return NewValidationError("defaults", "defaults", "num_predict",
			fmt.Errorf("must be at least 128, got %d", d.NumPredict))
	}

	if d.Temperature != nil && (*d.Temperature < 0 || *d.Temperature > 2) {
		return NewValidationError("defaults", "defaults", "temperature",
			fmt.Errorf("must be between 0 and 2, got %v", *d.Temperature))
	}

	return nil
}

func (v *ConfigValidator) validateModels() error {
	for name, model := range v.cfg.Models.GetAll() {
		if model.ContextCap != 0 && model.ContextCap < 4096 {
			return NewValidationError("model", name, "context_cap",
				fmt.Errorf("must be 0 (uncapped) or at least 4096, got %d", model.ContextCap))
		}

		if model.Temperature != nil && (*model.Temperature < 0 || *model.Temperature > 2) {
			return NewValidationError("model", name, "temperature",
				fmt.Errorf("must be between 0 and 2, got %v", *model.Temperature))
		}

		if model.NumPredict != nil && *model.NumPredict < 1 {
			return NewValidationError("model", name, "num_predict", fmt.Errorf("must be at least 1"))
		}

		if model.KeepAlive != "" && !validKeepAlive(model.KeepAlive) {
			return NewValidationError("model", name, "keep_alive",
				fmt.Errorf("must be a duration string, 0, or -1, got %q", model.KeepAlive))
		}
	}

	return nil
}

// validKeepAlive accepts the forms the Ollama API accepts: a Go duration
// string ("30m"), 0 (unload immediately), or -1 (keep loaded forever).
func validKeepAlive(s string) bool {
	if _, err := time.ParseDuration(s); err == nil {
		return true
	}
	if n, err := strconv.Atoi(s); err == nil && (n == 0 || n == -1) {
		return true
	}
	return false
}

func (v *ConfigValidator) validateToolPolicy() error {
	p := v.cfg.ToolPolicy

	if p.PerToolTimeout <= 0 {
		return NewValidationError("tool_policy", "tool_policy", "per_tool_timeout",
			fmt.Errorf("must be positive, got %v", p.PerToolTimeout))
	}

	for i, prefix := range p.SafeCommandPrefixes {
		if prefix == "" {
			return NewValidationError("tool_policy", "tool_policy",
				fmt.Sprintf("safe_command_prefixes[%d]", i), fmt.Errorf("prefix must not be empty"))
		}
	}

	for i, pattern := range p.SensitiveFilePatterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return NewValidationError("tool_policy", "tool_policy",
				fmt.Sprintf("sensitive_file_patterns[%d]", i),
				fmt.Errorf("invalid regex %q: %v", pattern, err))
		}
	}

	for i, rp := range p.RedactionPatterns {
		if rp.Pattern == "" {
			return NewValidationError("tool_policy", "tool_policy",
				fmt.Sprintf("redaction_patterns[%d]", i), fmt.Errorf("pattern must not be empty"))
		}
		if _, err := regexp.Compile(rp.Pattern); err != nil {
			return NewValidationError("tool_policy", "tool_policy",
				fmt.Sprintf("redaction_patterns[%d]", i),
				fmt.Errorf("invalid regex %q: %v", rp.Pattern, err))
		}
	}

	return nil
}

func (v *ConfigValidator) validateQueue() error {
	q := v.cfg.Queue

	if q == nil {
		return fmt.Errorf("queue configuration is nil")
	}
	if q.WorkerCount < 1 || q.WorkerCount > 50 {
		return fmt.Errorf("worker_count must be between 1 and 50, got %d", q.WorkerCount)
	}
	if q.MaxConcurrentSessions < 1 {
		return fmt.Errorf("max_concurrent_sessions must be at least 1, got %d", q.MaxConcurrentSessions)
	}
	if q.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %v", q.PollInterval)
	}
	if q.PollIntervalJitter < 0 {
		return fmt.Errorf("poll_interval_jitter must be non-negative, got %v", q.PollIntervalJitter)
	}
	if q.PollIntervalJitter >= q.PollInterval {
		return fmt.Errorf("poll_interval_jitter must be less than poll_interval (%v >= %v)", q.PollIntervalJitter, q.PollInterval)
	}
	if q.SessionTimeout <= 0 {
		return fmt.Errorf("session_timeout must be positive, got %v", q.SessionTimeout)
	}
	if q.GracefulShutdownTimeout <= 0 {
		return fmt.Errorf("graceful_shutdown_timeout must be positive, got %v", q.GracefulShutdownTimeout)
	}
	if q.OrphanDetectionInterval <= 0 {
		return fmt.Errorf("orphan_detection_interval must be positive, got %v", q.OrphanDetectionInterval)
	}
	if q.OrphanThreshold <= 0 {
		return fmt.Errorf("orphan_threshold must be positive, got %v", q.OrphanThreshold)
	}
	if q.HeartbeatInterval <= 0 {
		return fmt.Errorf("heartbeat_interval must be positive, got %v", q.HeartbeatInterval)
	}
	if q.HeartbeatInterval >= q.OrphanThreshold {
		return fmt.Errorf("heartbeat_interval must be less than orphan_threshold (%v >= %v)", q.HeartbeatInterval, q.OrphanThreshold)
	}

	return nil
}

func (v *ConfigValidator) validateServer() error {
	s := v.cfg.Server

	if _, _, err := net.SplitHostPort(s.ListenAddr); err != nil {
		return NewValidationError("server", "server", "listen_addr",
			fmt.Errorf("must be host:port, got %q: %v", s.ListenAddr, err))
	}

	if u, err := url.Parse(s.DashboardURL); err != nil || u.Scheme == "" || u.Host == "" {
		return NewValidationError("server", "server", "dashboard_url",
			fmt.Errorf("must be an absolute URL, got %q", s.DashboardURL))
	}

	o := v.cfg.Ollama
	u, err := url.Parse(o.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return NewValidationError("server", "ollama", "base_url",
			fmt.Errorf("must be an http(s) URL, got %q", o.BaseURL))
	}

	if !validKeepAlive(o.KeepAlive) {
		return NewValidationError("server", "ollama", "keep_alive",
			fmt.Errorf("must be a duration string, 0, or -1, got %q", o.KeepAlive))
	}

	return nil
}
