package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validTestConfig builds a minimal valid Config for validator tests.
func validTestConfig() *Config {
	return &Config{
		Defaults: &Defaults{
			Mode:             ModeAgent,
			Model:            "qwen3:8b",
			GlobalContextCap: DefaultGlobalContextCap,
			NumPredict:       DefaultNumPredict,
			Temperature:      FloatPtr(DefaultTemperature),
		},
		Queue:     DefaultQueueConfig(),
		Retention: DefaultRetentionConfig(),
		Server: &ServerConfig{
			ListenAddr:   "127.0.0.1:8765",
			DashboardURL: "http://localhost:5173",
		},
		Ollama: &OllamaConfig{
			BaseURL:   "http://localhost:11434",
			KeepAlive: "30m",
		},
		ToolPolicy: DefaultToolPolicyConfig(),
		Models:     NewModelRegistry(map[string]*ModelConfig{}),
	}
}

func TestValidateAll_ValidConfig(t *testing.T) {
	v := NewValidator(validTestConfig())
	require.NoError(t, v.ValidateAll())
}

func TestValidateDefaults(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{
			name:   "invalid mode",
			mutate: func(c *Config) { c.Defaults.Mode = "turbo" },
			errMsg: "invalid executor mode",
		},
		{
			name:   "empty model",
			mutate: func(c *Config) { c.Defaults.Model = "" },
			errMsg: "model required",
		},
		{
			name:   "max iterations below 1",
			mutate: func(c *Config) { c.Defaults.MaxIterations = IntPtr(0) },
			errMsg: "must be at least 1",
		},
		{
			name:   "global context cap below window floor",
			mutate: func(c *Config) { c.Defaults.GlobalContextCap = 4096 },
			errMsg: "must be at least 8192",
		},
		{
			name:   "num_predict too small",
			mutate: func(c *Config) { c.Defaults.NumPredict = 64 },
			errMsg: "must be at least 128",
		},
		{
			name:   "temperature out of range",
			mutate: func(c *Config) { c.Defaults.Temperature = FloatPtr(3.5) },
			errMsg: "between 0 and 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			err := NewValidator(cfg).validateDefaults()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateModels(t *testing.T) {
	tests := []struct {
		name   string
		model  *ModelConfig
		errMsg string
	}{
		{
			name:   "context cap between 1 and 4095",
			model:  &ModelConfig{ContextCap: 2048},
			errMsg: "must be 0 (uncapped) or at least 4096",
		},
		{
			name:   "temperature out of range",
			model:  &ModelConfig{Temperature: FloatPtr(-0.1)},
			errMsg: "between 0 and 2",
		},
		{
			name:   "num_predict below 1",
			model:  &ModelConfig{NumPredict: IntPtr(0)},
			errMsg: "must be at least 1",
		},
		{
			name:   "bad keep_alive",
			model:  &ModelConfig{KeepAlive: "forever"},
			errMsg: "keep_alive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			cfg.Models = NewModelRegistry(map[string]*ModelConfig{"m:1b": tt.model})
			err := NewValidator(cfg).validateModels()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("uncapped model is valid", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.Models = NewModelRegistry(map[string]*ModelConfig{
			"m:1b": {ContextCap: 0, KeepAlive: "-1"},
		})
		require.NoError(t, NewValidator(cfg).validateModels())
	})
}

func TestValidateToolPolicy(t *testing.T) {
	t.Run("bad regex pattern", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.ToolPolicy.SensitiveFilePatterns = []string{`(^|/)\.env`, `([unclosed`}
		err := NewValidator(cfg).validateToolPolicy()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid regex")
		assert.Contains(t, err.Error(), "sensitive_file_patterns[1]")
	})

	t.Run("empty prefix", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.ToolPolicy.SafeCommandPrefixes = []string{"ls", ""}
		err := NewValidator(cfg).validateToolPolicy()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "prefix must not be empty")
	})

	t.Run("zero timeout", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.ToolPolicy.PerToolTimeout = 0
		err := NewValidator(cfg).validateToolPolicy()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "per_tool_timeout")
	})

	t.Run("built-in patterns all compile", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.ToolPolicy = resolveToolPolicy(GetBuiltinConfig(), nil)
		require.NoError(t, NewValidator(cfg).validateToolPolicy())
	})
}

func TestValidateServer(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{
			name:   "listen addr without port",
			mutate: func(c *Config) { c.Server.ListenAddr = "localhost" },
			errMsg: "must be host:port",
		},
		{
			name:   "relative dashboard url",
			mutate: func(c *Config) { c.Server.DashboardURL = "/dashboard" },
			errMsg: "must be an absolute URL",
		},
		{
			name:   "ollama url without scheme",
			mutate: func(c *Config) { c.Ollama.BaseURL = "localhost:11434" },
			errMsg: "must be an http(s) URL",
		},
		{
			name:   "bad ollama keep_alive",
			mutate: func(c *Config) { c.Ollama.KeepAlive = "sometimes" },
			errMsg: "keep_alive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			err := NewValidator(cfg).validateServer()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidKeepAlive(t *testing.T) {
	assert.True(t, validKeepAlive("30m"))
	assert.True(t, validKeepAlive("1h30m"))
	assert.True(t, validKeepAlive("0"))
	assert.True(t, validKeepAlive("-1"))
	assert.False(t, validKeepAlive("forever"))
	assert.False(t, validKeepAlive("5"))
	assert.False(t, validKeepAlive(""))
}
