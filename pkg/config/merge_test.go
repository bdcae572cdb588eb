package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMergeModels(t *testing.T) {
	builtin := map[string]ModelConfig{
		"qwen3:8b": {
			ContextCap:  40960,
			Thinking:    BoolPtr(true),
			Temperature: FloatPtr(0.6),
		},
	}

	t.Run("user override inherits unset fields", func(t *testing.T) {
		user := map[string]ModelConfig{
			"qwen3:8b": {ContextCap: 16384},
		}
		merged, err := mergeModels(builtin, user)
		require.NoError(t, err)

		m := merged["qwen3:8b"]
		require.NotNil(t, m)
		assert.Equal(t, 16384, m.ContextCap, "user cap wins")
		require.NotNil(t, m.Thinking)
		assert.True(t, *m.Thinking, "thinking inherited from builtin")
		require.NotNil(t, m.Temperature)
		assert.InDelta(t, 0.6, *m.Temperature, 0.001, "temperature inherited from builtin")
	})

	t.Run("user-only model passes through", func(t *testing.T) {
		user := map[string]ModelConfig{
			"custom-finetune:7b": {ContextCap: 8192, KeepAlive: "10m"},
		}
		merged, err := mergeModels(builtin, user)
		require.NoError(t, err)

		require.Contains(t, merged, "custom-finetune:7b")
		assert.Equal(t, 8192, merged["custom-finetune:7b"].ContextCap)
		assert.Equal(t, "10m", merged["custom-finetune:7b"].KeepAlive)

		// Builtins without user overrides survive untouched.
		require.Contains(t, merged, "qwen3:8b")
		assert.Equal(t, 40960, merged["qwen3:8b"].ContextCap)
	})

	t.Run("nil user map keeps builtins", func(t *testing.T) {
		merged, err := mergeModels(builtin, nil)
		require.NoError(t, err)
		assert.Len(t, merged, 1)
		assert.Equal(t, 40960, merged["qwen3:8b"].ContextCap)
	})
}

func TestResolveToolPolicy(t *testing.T) {
	builtin := GetBuiltinConfig()

	t.Run("nil user yields defaults plus builtin lists", func(t *testing.T) {
		p := resolveToolPolicy(builtin, nil)
		assert.False(t, p.AutoApproveCommands)
		assert.False(t, p.AutoApproveSensitiveEdits)
		assert.Equal(t, 30*time.Second, p.PerToolTimeout)
		assert.Equal(t, builtin.SafeCommandPrefixes, p.SafeCommandPrefixes)
		assert.Equal(t, builtin.SensitiveFilePatterns, p.SensitiveFilePatterns)
	})

	t.Run("user booleans override", func(t *testing.T) {
		user := &ToolPolicyYAMLConfig{
			AutoApproveCommands: BoolPtr(true),
			PerToolTimeout:      "2m",
		}
		p := resolveToolPolicy(builtin, user)
		assert.True(t, p.AutoApproveCommands)
		assert.False(t, p.AutoApproveSensitiveEdits, "unset bool keeps default")
		assert.Equal(t, 2*time.Minute, p.PerToolTimeout)
	})

	t.Run("user lists are additive", func(t *testing.T) {
		user := &ToolPolicyYAMLConfig{
			SafeCommandPrefixes:   []string{"make test", "ls"},
			SensitiveFilePatterns: []string{`\.vault$`},
		}
		p := resolveToolPolicy(builtin, user)
		assert.Contains(t, p.SafeCommandPrefixes, "make test")
		assert.Contains(t, p.SafeCommandPrefixes, "git status")
		assert.Contains(t, p.SensitiveFilePatterns, `\.vault$`)

		// Builtin entries are not duplicated when the user repeats them.
		count := 0
		for _, prefix := range p.SafeCommandPrefixes {
			if prefix == "ls" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("redaction defaults and user additions", func(t *testing.T) {
		p := resolveToolPolicy(builtin, nil)
		assert.True(t, p.RedactSecrets, "sweep is on by default")
		assert.Empty(t, p.RedactionPatterns)

		user := &ToolPolicyYAMLConfig{
			RedactSecrets: BoolPtr(false),
			RedactionPatterns: []RedactionPatternYAML{
				{Pattern: `\bACME-[0-9]+\b`, Replacement: "__X__"},
			},
		}
		p = resolveToolPolicy(builtin, user)
		assert.False(t, p.RedactSecrets)
		require.Len(t, p.RedactionPatterns, 1)
		assert.Equal(t, `\bACME-[0-9]+\b`, p.RedactionPatterns[0].Pattern)
		assert.Equal(t, "__X__", p.RedactionPatterns[0].Replacement)
	})
}

func TestParseDurationOrDefault(t *testing.T) {
	assert.Equal(t, 5*time.Minute, parseDurationOrDefault("f", "5m", time.Second))
	assert.Equal(t, time.Second, parseDurationOrDefault("f", "", time.Second), "empty keeps default")
	assert.Equal(t, time.Second, parseDurationOrDefault("f", "soon", time.Second), "malformed keeps default")
}

func TestAppendUnique(t *testing.T) {
	base := []string{"a", "b"}
	got := appendUnique(base, []string{"b", "c", "c", "d"})
	assert.Equal(t, []string{"a", "b", "c", "d"}, got)

	assert.Equal(t, []string{"a", "b"}, appendUnique(base, nil))
}

func TestStopListUnmarshal(t *testing.T) {
	t.Run("scalar", func(t *testing.T) {
		var m ModelConfig
		require.NoError(t, yaml.Unmarshal([]byte(`stop: "</done>"`), &m))
		assert.Equal(t, StopList{"</done>"}, m.Stop)
	})

	t.Run("sequence", func(t *testing.T) {
		var m ModelConfig
		require.NoError(t, yaml.Unmarshal([]byte("stop:\n  - \"</done>\"\n  - \"<|eot|>\""), &m))
		assert.Equal(t, StopList{"</done>", "<|eot|>"}, m.Stop)
	})

	t.Run("mapping is rejected", func(t *testing.T) {
		var m ModelConfig
		err := yaml.Unmarshal([]byte("stop:\n  token: \"</done>\""), &m)
		require.Error(t, err)
	})
}
