package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// KilnYAMLConfig represents the complete kiln.yaml file structure
type KilnYAMLConfig struct {
	System     *SystemYAMLConfig     `yaml:"system"`
	Ollama     *OllamaYAMLConfig     `yaml:"ollama"`
	Defaults   *Defaults             `yaml:"defaults"`
	ToolPolicy *ToolPolicyYAMLConfig `yaml:"tool_policy"`
	Queue      *QueueYAMLConfig      `yaml:"queue"`
}

// SystemYAMLConfig groups system-wide infrastructure settings.
type SystemYAMLConfig struct {
	ListenAddr       string               `yaml:"listen_addr"`
	DashboardURL     string               `yaml:"dashboard_url"`
	AllowedWSOrigins []string             `yaml:"allowed_ws_origins"`
	Retention        *RetentionYAMLConfig `yaml:"retention"`
}

// OllamaYAMLConfig holds Ollama backend settings from YAML.
type OllamaYAMLConfig struct {
	BaseURL   string `yaml:"base_url,omitempty"`
	KeepAlive string `yaml:"keep_alive,omitempty"`
}

// ToolPolicyYAMLConfig holds tool policy settings from YAML. Booleans are
// pointers so "explicitly false" and "unset" are distinguishable; durations
// are strings ("45s") parsed during resolution.
type ToolPolicyYAMLConfig struct {
	AutoApproveCommands       *bool    `yaml:"auto_approve_commands,omitempty"`
	AutoApproveSensitiveEdits *bool    `yaml:"auto_approve_sensitive_edits,omitempty"`
	SafeCommandPrefixes       []string `yaml:"safe_command_prefixes,omitempty"`
	SensitiveFilePatterns     []string `yaml:"sensitive_file_patterns,omitempty"`
	PerToolTimeout            string   `yaml:"per_tool_timeout,omitempty"`

	RedactSecrets     *bool                  `yaml:"redact_secrets,omitempty"`
	RedactionPatterns []RedactionPatternYAML `yaml:"redaction_patterns,omitempty"`
}

// RedactionPatternYAML is one user-supplied redaction rule from kiln.yaml.
type RedactionPatternYAML struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// QueueYAMLConfig holds queue settings from YAML (durations as strings).
type QueueYAMLConfig struct {
	WorkerCount             int    `yaml:"worker_count,omitempty"`
	MaxConcurrentSessions   int    `yaml:"max_concurrent_sessions,omitempty"`
	PollInterval            string `yaml:"poll_interval,omitempty"`
	PollIntervalJitter      string `yaml:"poll_interval_jitter,omitempty"`
	SessionTimeout          string `yaml:"session_timeout,omitempty"`
	GracefulShutdownTimeout string `yaml:"graceful_shutdown_timeout,omitempty"`
	HeartbeatInterval       string `yaml:"heartbeat_interval,omitempty"`
	OrphanDetectionInterval string `yaml:"orphan_detection_interval,omitempty"`
	OrphanThreshold         string `yaml:"orphan_threshold,omitempty"`
}

// RetentionYAMLConfig holds retention settings from YAML.
type RetentionYAMLConfig struct {
	SessionRetentionDays int    `yaml:"session_retention_days,omitempty"`
	EventTTL             string `yaml:"event_ttl,omitempty"`
	CleanupInterval      string `yaml:"cleanup_interval,omitempty"`
}

// ModelsYAMLConfig represents the complete models.yaml file structure
type ModelsYAMLConfig struct {
	Models map[string]ModelConfig `yaml:"models"`
}

// Initialize loads, validates, and returns ready-to-use configuration.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Load YAML files from configDir (both optional — built-in defaults
//     cover a stock local setup)
//  2. Expand environment variables
//  3. Parse YAML into structs
//  4. Merge built-in + user-defined configuration
//  5. Build the model registry
//  6. Resolve defaults
//  7. Validate all configuration
//  8. Return Config ready for use
func Initialize(ctx context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("Initializing configuration")

	cfg, err := load(ctx, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	stats := cfg.Stats()
	log.Info("Configuration initialized successfully",
		"models", stats.Models,
		"safe_command_prefixes", stats.SafeCommandPrefixes,
		"sensitive_file_patterns", stats.SensitiveFilePatterns,
		"default_mode", cfg.Defaults.Mode,
		"default_model", cfg.Defaults.Model)

	return cfg, nil
}

// load is the internal loader (not exported)
func load(_ context.Context, configDir string) (*Config, error) {
	loader := &configLoader{
		configDir: configDir,
	}

	// 1. Load kiln.yaml (system, ollama, defaults, tool_policy, queue)
	kilnConfig, err := loader.loadKilnYAML()
	if err != nil {
		return nil, NewLoadError("kiln.yaml", err)
	}

	// 2. Load models.yaml
	userModels, err := loader.loadModelsYAML()
	if err != nil {
		return nil, NewLoadError("models.yaml", err)
	}

	// 3. Get built-in configuration
	builtin := GetBuiltinConfig()

	// 4. Merge built-in + user-defined models (field-level, user wins)
	models, err := mergeModels(builtin.Models, userModels)
	if err != nil {
		return nil, err
	}
	modelRegistry := NewModelRegistry(models)

	// 5. Resolve defaults (YAML overrides built-in)
	defaults := kilnConfig.Defaults
	if defaults == nil {
		defaults = &Defaults{}
	}
	if defaults.Mode == "" {
		defaults.Mode = builtin.DefaultMode
	}
	if defaults.Model == "" {
		defaults.Model = builtin.DefaultModel
	}
	if defaults.GlobalContextCap == 0 {
		defaults.GlobalContextCap = DefaultGlobalContextCap
	}
	if defaults.NumPredict == 0 {
		defaults.NumPredict = DefaultNumPredict
	}
	if defaults.Temperature == nil {
		defaults.Temperature = FloatPtr(DefaultTemperature)
	}

	// 6. Resolve sectioned configs, applying defaults for unset fields
	queueConfig := resolveQueueConfig(kilnConfig.Queue)
	toolPolicy := resolveToolPolicy(builtin, kilnConfig.ToolPolicy)
	serverCfg := resolveServerConfig(kilnConfig.System)
	retentionCfg := resolveRetentionConfig(kilnConfig.System)
	ollamaCfg := resolveOllamaConfig(kilnConfig.Ollama)

	return &Config{
		configDir:  configDir,
		Defaults:   defaults,
		Queue:      queueConfig,
		Retention:  retentionCfg,
		Server:     serverCfg,
		Ollama:     ollamaCfg,
		ToolPolicy: toolPolicy,
		Models:     modelRegistry,
	}, nil
}

// validate performs comprehensive validation on loaded configuration
func validate(cfg *Config) error {
	validator := NewValidator(cfg)
	return validator.ValidateAll()
}

type configLoader struct {
	configDir string
}

func (l *configLoader) loadYAML(filename string, target any) error {
	path := filepath.Join(l.configDir, filename)

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return err
	}

	// Expand environment variables using {{.VAR}} template syntax
	// Note: ExpandEnv passes through original data on parse/execution errors,
	// allowing YAML parser to handle the content (or fail with clearer error message)
	data = ExpandEnv(data)

	// Parse YAML
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return nil
}

// loadKilnYAML loads kiln.yaml. A missing file is not an error: every
// section has built-in defaults sufficient for a stock local setup.
func (l *configLoader) loadKilnYAML() (*KilnYAMLConfig, error) {
	var config KilnYAMLConfig

	if err := l.loadYAML("kiln.yaml", &config); err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			slog.Debug("kiln.yaml not found, using built-in defaults")
			return &KilnYAMLConfig{}, nil
		}
		return nil, err
	}

	return &config, nil
}

// loadModelsYAML loads models.yaml. Also optional: unlisted models run on
// detected capabilities.
func (l *configLoader) loadModelsYAML() (map[string]ModelConfig, error) {
	var config ModelsYAMLConfig
	config.Models = make(map[string]ModelConfig)

	if err := l.loadYAML("models.yaml", &config); err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			slog.Debug("models.yaml not found, using built-in model overrides only")
			return config.Models, nil
		}
		return nil, err
	}

	return config.Models, nil
}

// resolveQueueConfig resolves queue configuration from YAML, applying
// defaults for unset fields.
func resolveQueueConfig(q *QueueYAMLConfig) *QueueConfig {
	cfg := DefaultQueueConfig()

	if q == nil {
		return cfg
	}
	if q.WorkerCount > 0 {
		cfg.WorkerCount = q.WorkerCount
	}
	if q.MaxConcurrentSessions > 0 {
		cfg.MaxConcurrentSessions = q.MaxConcurrentSessions
	}
	cfg.PollInterval = parseDurationOrDefault("queue.poll_interval", q.PollInterval, cfg.PollInterval)
	cfg.PollIntervalJitter = parseDurationOrDefault("queue.poll_interval_jitter", q.PollIntervalJitter, cfg.PollIntervalJitter)
	cfg.SessionTimeout = parseDurationOrDefault("queue.session_timeout", q.SessionTimeout, cfg.SessionTimeout)
	cfg.GracefulShutdownTimeout = parseDurationOrDefault("queue.graceful_shutdown_timeout", q.GracefulShutdownTimeout, cfg.GracefulShutdownTimeout)
	cfg.HeartbeatInterval = parseDurationOrDefault("queue.heartbeat_interval", q.HeartbeatInterval, cfg.HeartbeatInterval)
	cfg.OrphanDetectionInterval = parseDurationOrDefault("queue.orphan_detection_interval", q.OrphanDetectionInterval, cfg.OrphanDetectionInterval)
	cfg.OrphanThreshold = parseDurationOrDefault("queue.orphan_threshold", q.OrphanThreshold, cfg.OrphanThreshold)

	return cfg
}

// resolveServerConfig resolves server configuration from system YAML, applying defaults.
func resolveServerConfig(sys *SystemYAMLConfig) *ServerConfig {
	cfg := &ServerConfig{
		ListenAddr:   "127.0.0.1:8765",
		DashboardURL: "http://localhost:5173",
	}

	if sys == nil {
		return cfg
	}
	if sys.ListenAddr != "" {
		cfg.ListenAddr = sys.ListenAddr
	}
	if sys.DashboardURL != "" {
		cfg.DashboardURL = sys.DashboardURL
	}
	cfg.AllowedWSOrigins = sys.AllowedWSOrigins

	return cfg
}

// resolveRetentionConfig resolves retention configuration from system YAML, applying defaults.
func resolveRetentionConfig(sys *SystemYAMLConfig) *RetentionConfig {
	cfg := DefaultRetentionConfig()

	if sys == nil || sys.Retention == nil {
		return cfg
	}

	r := sys.Retention
	if r.SessionRetentionDays > 0 {
		cfg.SessionRetentionDays = r.SessionRetentionDays
	}
	cfg.EventTTL = parseDurationOrDefault("retention.event_ttl", r.EventTTL, cfg.EventTTL)
	cfg.CleanupInterval = parseDurationOrDefault("retention.cleanup_interval", r.CleanupInterval, cfg.CleanupInterval)

	return cfg
}

// resolveOllamaConfig resolves Ollama backend configuration, applying
// defaults. Precedence for the base URL: kiln.yaml → OLLAMA_HOST env var →
// the standard local default.
func resolveOllamaConfig(o *OllamaYAMLConfig) *OllamaConfig {
	cfg := &OllamaConfig{
		BaseURL:   "http://localhost:11434",
		KeepAlive: "30m",
	}

	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		cfg.BaseURL = normalizeOllamaHost(host)
	}

	if o == nil {
		return cfg
	}
	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
	}
	if o.KeepAlive != "" {
		cfg.KeepAlive = o.KeepAlive
	}

	return cfg
}

// normalizeOllamaHost turns OLLAMA_HOST values like "0.0.0.0:11434" into a
// full URL, matching how the ollama CLI interprets the variable.
func normalizeOllamaHost(host string) string {
	if strings.Contains(host, "://") {
		return strings.TrimSuffix(host, "/")
	}
	return "http://" + strings.TrimSuffix(host, "/")
}
