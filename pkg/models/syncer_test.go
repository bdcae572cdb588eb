package models

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/pkg/config"
	"github.com/kiln-dev/kiln/pkg/ollama"
	"github.com/kiln-dev/kiln/pkg/services"
)

func TestUpsertInputFullProbe(t *testing.T) {
	input := upsertInput(ollama.ModelProbe{
		Tag: ollama.TagModel{Name: "qwen3:8b"},
		Show: &ollama.ShowResponse{
			Capabilities: []string{"completion", "tools", "thinking"},
			ModelInfo:    map[string]any{"qwen3.context_length": float64(40960)},
			Parameters:   "temperature 0.6",
		},
	})

	assert.Equal(t, "qwen3:8b", input.Name)
	assert.Equal(t, []string{"completion", "tools", "thinking"}, input.Capabilities)
	require.NotNil(t, input.ContextLength)
	assert.Equal(t, 40960, *input.ContextLength)
	require.NotNil(t, input.Parameters)
	assert.Equal(t, "temperature 0.6", *input.Parameters)
}

func TestUpsertInputFailedProbe(t *testing.T) {
	input := upsertInput(ollama.ModelProbe{
		Tag: ollama.TagModel{Name: "llama3.2:3b"},
	})

	assert.Equal(t, "llama3.2:3b", input.Name)
	assert.Nil(t, input.ContextLength, "a failed probe must clear the stored window")
	assert.Nil(t, input.Capabilities)
	assert.Nil(t, input.Parameters)
}

func TestUpsertInputNoContextReported(t *testing.T) {
	input := upsertInput(ollama.ModelProbe{
		Tag: ollama.TagModel{Name: "tinyllama:1.1b"},
		Show: &ollama.ShowResponse{
			Capabilities: []string{"completion"},
			ModelInfo:    map[string]any{},
		},
	})

	assert.Equal(t, "tinyllama:1.1b", input.Name)
	assert.Nil(t, input.ContextLength)
	assert.Nil(t, input.Parameters)
}

func TestSyncRaisesWarningWhenHostUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	warnings := services.NewSystemWarningsService()
	syncer := NewSyncer(ollama.NewClient(&config.OllamaConfig{BaseURL: srv.URL}), nil, warnings)

	_, err := syncer.Sync(context.Background())
	require.Error(t, err)

	got := warnings.GetWarnings()
	require.Len(t, got, 1)
	assert.Equal(t, services.WarningCategoryModelSync, got[0].Category)
}

func TestSyncWithNilWarningsService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	syncer := NewSyncer(ollama.NewClient(&config.OllamaConfig{BaseURL: srv.URL}), nil, nil)

	_, err := syncer.Sync(context.Background())
	assert.Error(t, err)
}
