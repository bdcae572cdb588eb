package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfigFiles writes the given files into a temp config dir.
func writeConfigFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
		require.NoError(t, err)
	}
	return dir
}

func TestInitialize_EmptyConfigDir(t *testing.T) {
	// No YAML files at all: everything comes from built-in defaults.
	cfg, err := Initialize(context.Background(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ModeAgent, cfg.Defaults.Mode)
	assert.Equal(t, "qwen3:8b", cfg.Defaults.Model)
	assert.Equal(t, DefaultGlobalContextCap, cfg.Defaults.GlobalContextCap)
	assert.Equal(t, DefaultNumPredict, cfg.Defaults.NumPredict)
	require.NotNil(t, cfg.Defaults.Temperature)
	assert.InDelta(t, DefaultTemperature, *cfg.Defaults.Temperature, 0.001)

	assert.Equal(t, 1, cfg.Queue.WorkerCount)
	assert.Equal(t, 1, cfg.Queue.MaxConcurrentSessions)
	assert.Equal(t, "127.0.0.1:8765", cfg.Server.ListenAddr)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "30m", cfg.Ollama.KeepAlive)
	assert.Equal(t, 30*time.Second, cfg.ToolPolicy.PerToolTimeout)

	// Built-in model overrides are present.
	assert.True(t, cfg.Models.Has("qwen3:8b"))
	qwen, err := cfg.GetModel("qwen3:8b")
	require.NoError(t, err)
	assert.Equal(t, 40960, qwen.ContextCap)
	require.NotNil(t, qwen.Thinking)
	assert.True(t, *qwen.Thinking)

	// Built-in safety lists survive the merge.
	assert.NotEmpty(t, cfg.ToolPolicy.SafeCommandPrefixes)
	assert.NotEmpty(t, cfg.ToolPolicy.SensitiveFilePatterns)
}

func TestInitialize_FullConfig(t *testing.T) {
	dir := writeConfigFiles(t, map[string]string{
		"kiln.yaml": `
system:
  listen_addr: "0.0.0.0:9000"
  dashboard_url: "http://dash.local:3000"
  allowed_ws_origins:
    - "dash.local:3000"
  retention:
    session_retention_days: 30
    event_ttl: 2h
ollama:
  base_url: "http://gpu-box:11434"
  keep_alive: "1h"
defaults:
  mode: explore
  model: "qwen3:14b"
  max_iterations: 10
  global_context_cap: 65536
  num_predict: 2048
  temperature: 0.3
tool_policy:
  auto_approve_commands: true
  per_tool_timeout: 45s
  safe_command_prefixes:
    - "make test"
  sensitive_file_patterns:
    - '(^|/)deploy/prod\.ya?ml$'
queue:
  worker_count: 2
  max_concurrent_sessions: 2
  session_timeout: 10m
`,
		"models.yaml": `
models:
  "qwen3:14b":
    temperature: 0.5
  "custom-finetune:7b":
    context_cap: 16384
    thinking: false
    stop: "</done>"
`,
	})

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, ModeExplore, cfg.Defaults.Mode)
	assert.Equal(t, "qwen3:14b", cfg.Defaults.Model)
	require.NotNil(t, cfg.Defaults.MaxIterations)
	assert.Equal(t, 10, *cfg.Defaults.MaxIterations)
	assert.Equal(t, 65536, cfg.Defaults.GlobalContextCap)
	assert.Equal(t, 2048, cfg.Defaults.NumPredict)

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.ListenAddr)
	assert.Equal(t, "http://dash.local:3000", cfg.Server.DashboardURL)
	assert.Equal(t, []string{"dash.local:3000"}, cfg.Server.AllowedWSOrigins)
	assert.Equal(t, 30, cfg.Retention.SessionRetentionDays)
	assert.Equal(t, 2*time.Hour, cfg.Retention.EventTTL)
	// Unset retention field keeps its default.
	assert.Equal(t, 12*time.Hour, cfg.Retention.CleanupInterval)

	assert.Equal(t, "http://gpu-box:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "1h", cfg.Ollama.KeepAlive)

	assert.True(t, cfg.ToolPolicy.AutoApproveCommands)
	assert.Equal(t, 45*time.Second, cfg.ToolPolicy.PerToolTimeout)
	assert.Contains(t, cfg.ToolPolicy.SafeCommandPrefixes, "make test")
	// Built-in prefixes are additive, not replaced.
	assert.Contains(t, cfg.ToolPolicy.SafeCommandPrefixes, "git status")
	assert.Contains(t, cfg.ToolPolicy.SensitiveFilePatterns, `(^|/)deploy/prod\.ya?ml$`)

	assert.Equal(t, 2, cfg.Queue.WorkerCount)
	assert.Equal(t, 10*time.Minute, cfg.Queue.SessionTimeout)
	// Unset queue field keeps its default.
	assert.Equal(t, 1*time.Second, cfg.Queue.PollInterval)

	// User model entry merges field-level over the built-in entry.
	qwen14, err := cfg.GetModel("qwen3:14b")
	require.NoError(t, err)
	require.NotNil(t, qwen14.Temperature)
	assert.InDelta(t, 0.5, *qwen14.Temperature, 0.001)
	assert.Equal(t, 40960, qwen14.ContextCap, "built-in context cap inherited")
	require.NotNil(t, qwen14.Thinking)
	assert.True(t, *qwen14.Thinking, "built-in thinking flag inherited")

	// New model entry with scalar-form stop list.
	custom, err := cfg.GetModel("custom-finetune:7b")
	require.NoError(t, err)
	assert.Equal(t, 16384, custom.ContextCap)
	require.NotNil(t, custom.Thinking)
	assert.False(t, *custom.Thinking)
	assert.Equal(t, StopList{"</done>"}, custom.Stop)
}

func TestInitialize_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_OLLAMA_URL", "http://envhost:11434")

	dir := writeConfigFiles(t, map[string]string{
		"kiln.yaml": `
ollama:
  base_url: "{{.TEST_OLLAMA_URL}}"
`,
	})

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "http://envhost:11434", cfg.Ollama.BaseURL)
}

func TestInitialize_OllamaHostEnvFallback(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "0.0.0.0:11434")

	cfg, err := Initialize(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "http://0.0.0.0:11434", cfg.Ollama.BaseURL)
}

func TestInitialize_InvalidYAML(t *testing.T) {
	dir := writeConfigFiles(t, map[string]string{
		"kiln.yaml": "defaults:\n  mode: [unclosed",
	})

	_, err := Initialize(context.Background(), dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidYAML)
}

func TestInitialize_ValidationFailure(t *testing.T) {
	dir := writeConfigFiles(t, map[string]string{
		"kiln.yaml": `
defaults:
  mode: turbo
`,
	})

	_, err := Initialize(context.Background(), dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestInitialize_ModelsYAMLOnly(t *testing.T) {
	dir := writeConfigFiles(t, map[string]string{
		"models.yaml": `
models:
  "llama3.1:8b":
    context_cap: 16384
`,
	})

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)

	llama, err := cfg.GetModel("llama3.1:8b")
	require.NoError(t, err)
	assert.Equal(t, 16384, llama.ContextCap, "user cap overrides built-in")
}

func TestConfigStats(t *testing.T) {
	cfg, err := Initialize(context.Background(), t.TempDir())
	require.NoError(t, err)

	stats := cfg.Stats()
	assert.Equal(t, cfg.Models.Len(), stats.Models)
	assert.Equal(t, len(cfg.ToolPolicy.SafeCommandPrefixes), stats.SafeCommandPrefixes)
	assert.Equal(t, len(cfg.ToolPolicy.SensitiveFilePatterns), stats.SensitiveFilePatterns)
}

func TestModelRegistry_Overrides(t *testing.T) {
	registry := NewModelRegistry(map[string]*ModelConfig{
		"known:1b": {ContextCap: 8192},
	})

	known := registry.Overrides("known:1b")
	assert.Equal(t, 8192, known.ContextCap)

	// Unknown models get an empty override set, never an error.
	unknown := registry.Overrides("mystery:70b")
	require.NotNil(t, unknown)
	assert.Zero(t, unknown.ContextCap)
	assert.Nil(t, unknown.Thinking)

	_, err := registry.Get("mystery:70b")
	assert.ErrorIs(t, err, ErrModelNotFound)
}
