// Package config provides configuration management for kiln: system
// defaults, the per-model registry, tool execution policy, and queue,
// retention, and server settings.
package config

// Config is the umbrella configuration object that encapsulates all
// registries, defaults, and configuration state.
// This is the primary object returned by Initialize() and used throughout the application.
type Config struct {
	configDir string // Configuration directory path (for reference)

	// System-wide defaults
	Defaults *Defaults

	// Queue and worker pool configuration
	Queue *QueueConfig

	// Data retention and cleanup configuration
	Retention *RetentionConfig

	// HTTP server configuration
	Server *ServerConfig

	// Ollama backend configuration
	Ollama *OllamaConfig

	// Tool execution policy (approvals, sensitive files, timeouts)
	ToolPolicy *ToolPolicyConfig

	// Per-model override registry
	Models *ModelRegistry
}

// Initialize is defined in loader.go

// Stats contains statistics about loaded configuration
type Stats struct {
	Models                int
	SafeCommandPrefixes   int
	SensitiveFilePatterns int
}

// Stats returns configuration statistics for logging/monitoring
func (c *Config) Stats() Stats {
	s := Stats{}
	if c.Models != nil {
		s.Models = c.Models.Len()
	}
	if c.ToolPolicy != nil {
		s.SafeCommandPrefixes = len(c.ToolPolicy.SafeCommandPrefixes)
		s.SensitiveFilePatterns = len(c.ToolPolicy.SensitiveFilePatterns)
	}
	return s
}

// ConfigDir returns the configuration directory path
func (c *Config) ConfigDir() string {
	return c.configDir
}

// GetModel retrieves a model configuration by name.
// This is a convenience method that wraps Models.Get().
func (c *Config) GetModel(name string) (*ModelConfig, error) {
	return c.Models.Get(name)
}

// ModelOverrides returns the override entry for a model, or an empty config
// when the model has no entry. Never errors.
func (c *Config) ModelOverrides(name string) *ModelConfig {
	return c.Models.Overrides(name)
}
