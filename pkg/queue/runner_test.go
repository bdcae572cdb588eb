package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/pkg/config"
)

func testRunner(cfg *config.Config) *Runner {
	return &Runner{cfg: cfg}
}

func TestRunnerModelConfigLayersDefaultsUnderOverrides(t *testing.T) {
	cfg := &config.Config{
		Defaults: &config.Defaults{
			Temperature: config.FloatPtr(0.9),
			NumPredict:  2048,
		},
		Models: config.NewModelRegistry(map[string]*config.ModelConfig{
			"qwen3:8b": {Temperature: config.FloatPtr(0.1)},
		}),
	}
	r := testRunner(cfg)

	mc := r.modelConfig("qwen3:8b")
	require.NotNil(t, mc)

	// The per-model temperature wins; num_predict falls through to defaults.
	require.NotNil(t, mc.Temperature)
	assert.Equal(t, 0.1, *mc.Temperature)
	require.NotNil(t, mc.NumPredict)
	assert.Equal(t, 2048, *mc.NumPredict)
}

func TestRunnerModelConfigUnknownModel(t *testing.T) {
	cfg := &config.Config{
		Defaults: &config.Defaults{Temperature: config.FloatPtr(0.5)},
		Models:   config.NewModelRegistry(nil),
	}
	r := testRunner(cfg)

	mc := r.modelConfig("never-configured")
	require.NotNil(t, mc)
	require.NotNil(t, mc.Temperature)
	assert.Equal(t, 0.5, *mc.Temperature)
	assert.Nil(t, mc.NumPredict, "no default num_predict configured")
}

func TestRunnerModelConfigDoesNotMutateRegistry(t *testing.T) {
	shared := &config.ModelConfig{}
	cfg := &config.Config{
		Defaults: &config.Defaults{Temperature: config.FloatPtr(0.5)},
		Models:   config.NewModelRegistry(map[string]*config.ModelConfig{"m": shared}),
	}
	r := testRunner(cfg)

	mc := r.modelConfig("m")
	require.NotNil(t, mc.Temperature)
	assert.Nil(t, shared.Temperature, "registry entry must stay untouched")
}

func TestRunnerModelConfigNilEverything(t *testing.T) {
	r := testRunner(&config.Config{})

	mc := r.modelConfig("anything")
	require.NotNil(t, mc)
	assert.Nil(t, mc.Temperature)
	assert.Nil(t, mc.NumPredict)
}

func TestRunnerContextCap(t *testing.T) {
	r := testRunner(&config.Config{Defaults: &config.Defaults{GlobalContextCap: 16384}})
	assert.Equal(t, 16384, r.contextCap())

	r = testRunner(&config.Config{Defaults: &config.Defaults{}})
	assert.Equal(t, config.DefaultGlobalContextCap, r.contextCap())

	r = testRunner(&config.Config{})
	assert.Equal(t, config.DefaultGlobalContextCap, r.contextCap())
}
