package budget

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/config"
)

func TestNew_EffectiveWindow(t *testing.T) {
	tests := []struct {
		name      string
		detected  int
		modelCap  int
		globalCap int
		want      int
	}{
		{name: "detected under caps", detected: 40960, globalCap: 65536, want: 40960},
		{name: "global cap clamps", detected: 131072, globalCap: 32768, want: 32768},
		{name: "model cap clamps below global", detected: 131072, modelCap: 16384, globalCap: 32768, want: 16384},
		{name: "model cap above global is ignored", detected: 131072, modelCap: 65536, globalCap: 32768, want: 32768},
		{name: "unknown detection gets the floor", detected: 0, globalCap: 32768, want: MinContextWindow},
		{name: "tiny detection raised to the floor", detected: 2048, globalCap: 32768, want: MinContextWindow},
		{name: "zero global cap uses the default", detected: 131072, globalCap: 0, want: config.DefaultGlobalContextCap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capability := &agent.ModelCapability{ContextLength: tt.detected}
			modelCfg := &config.ModelConfig{ContextCap: tt.modelCap}
			b := New(capability, modelCfg, tt.globalCap, 4096)
			assert.Equal(t, tt.want, b.EffectiveWindow())
		})
	}
}

func TestEstimateTokens(t *testing.T) {
	msgs := []agent.ConversationMessage{
		{Role: agent.RoleSystem, Content: strings.Repeat("a", 394)}, // 394 + 6 role chars
	}
	assert.Equal(t, 100, EstimateTokens(msgs))

	withCall := []agent.ConversationMessage{
		{Role: agent.RoleAssistant, ToolCalls: []agent.ToolCall{
			{Name: "search", Args: map[string]any{"query": "x"}},
		}},
	}
	// 9 role + 6 name + 13 args JSON = 28 chars
	assert.Equal(t, 7, EstimateTokens(withCall))
}

func TestNumCtx(t *testing.T) {
	b := New(&agent.ModelCapability{ContextLength: 40960}, nil, 65536, 4096)

	t.Run("aligned up to 2048", func(t *testing.T) {
		// 1000 + 4096 + 512 = 5608 -> 6144
		assert.Equal(t, 6144, b.NumCtx(1000))
	})

	t.Run("floor at 4096", func(t *testing.T) {
		small := New(&agent.ModelCapability{ContextLength: 40960}, nil, 65536, 128)
		// 100 + 128 + 512 = 740 -> 2048, raised to the floor
		assert.Equal(t, 4096, small.NumCtx(100))
	})

	t.Run("capped at the effective window", func(t *testing.T) {
		assert.Equal(t, 40960, b.NumCtx(100000))
	})
}

func TestRecordActualPromptTokens(t *testing.T) {
	b := New(&agent.ModelCapability{ContextLength: 32768}, nil, 32768, 4096)

	t.Run("normal ratio", func(t *testing.T) {
		assert.False(t, b.RecordActualPromptTokens(1900, 2000))
		assert.Equal(t, 1900, b.PromptTokens(0))
	})

	t.Run("server silently dropped messages", func(t *testing.T) {
		assert.True(t, b.RecordActualPromptTokens(900, 2000))
	})

	t.Run("small estimates never alarm", func(t *testing.T) {
		assert.False(t, b.RecordActualPromptTokens(100, 900))
	})

	t.Run("missing count keeps the estimate", func(t *testing.T) {
		fresh := New(nil, nil, 32768, 4096)
		assert.False(t, fresh.RecordActualPromptTokens(0, 2000))
		assert.Equal(t, 2000, fresh.PromptTokens(2000))
	})
}

func TestShouldCompact(t *testing.T) {
	b := New(&agent.ModelCapability{ContextLength: 32768}, nil, 32768, 4096)
	threshold := int(0.75 * 32768)

	assert.False(t, b.ShouldCompact(threshold))
	assert.True(t, b.ShouldCompact(threshold+1))
}

func TestUsageNote(t *testing.T) {
	b := New(&agent.ModelCapability{ContextLength: 10000}, &config.ModelConfig{ContextCap: 10000}, 10000, 4096)

	_, inject := b.UsageNote(5000)
	assert.False(t, inject, "no note below 70%")

	note, inject := b.UsageNote(7200)
	assert.True(t, inject)
	assert.Contains(t, note, "72%")

	_, inject = b.UsageNote(7500)
	assert.False(t, inject, "70% note fires once")

	note, inject = b.UsageNote(8700)
	assert.True(t, inject, "85% threshold fires separately")
	assert.Contains(t, note, "87%")

	_, inject = b.UsageNote(9100)
	assert.False(t, inject, "85% note fires once")
}
