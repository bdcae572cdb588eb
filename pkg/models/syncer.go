// Package models keeps the persisted model registry in sync with what
// the Ollama host actually serves.
package models

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kiln-dev/kiln/pkg/ollama"
	"github.com/kiln-dev/kiln/pkg/services"
)

// Syncer probes the Ollama host and writes what it finds to the model
// registry. One probe pass refreshes both stores: the in-process
// capability cache inside the client, and the ModelRecord rows the
// dashboard lists.
type Syncer struct {
	client   *ollama.Client
	registry *services.ModelService
	warnings *services.SystemWarningsService
}

// NewSyncer creates a syncer. warnings may be nil; sync failures are
// then only logged.
func NewSyncer(client *ollama.Client, registry *services.ModelService, warnings *services.SystemWarningsService) *Syncer {
	return &Syncer{
		client:   client,
		registry: registry,
		warnings: warnings,
	}
}

// Sync re-probes every model on the host and upserts one ModelRecord
// per served model. Returns the number of models found. A failure
// raises a system warning; success clears it.
func (s *Syncer) Sync(ctx context.Context) (int, error) {
	probes, err := s.client.ProbeModels(ctx)
	if err != nil {
		s.warn(fmt.Sprintf("failed to list models: %v", err))
		return 0, fmt.Errorf("probing ollama models: %w", err)
	}

	inputs := make([]services.UpsertModelInput, 0, len(probes))
	for _, probe := range probes {
		inputs = append(inputs, upsertInput(probe))
	}
	if err := s.registry.UpsertModels(ctx, inputs); err != nil {
		s.warn(fmt.Sprintf("failed to store model records: %v", err))
		return 0, fmt.Errorf("storing model records: %w", err)
	}

	s.clearWarning()
	slog.Info("Model registry synced", "models", len(probes))
	return len(probes), nil
}

// Run syncs on the given interval until ctx is cancelled. Meant to run
// as a goroutine after the startup sync.
func (s *Syncer) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sync(ctx); err != nil {
				slog.Warn("Periodic model sync failed", "error", err)
			}
		}
	}
}

// upsertInput translates one probe into a registry row. A failed detail
// probe (nil Show) keeps the model listed but clears its context
// length, so a stale window never outlives a model update.
func upsertInput(probe ollama.ModelProbe) services.UpsertModelInput {
	input := services.UpsertModelInput{Name: probe.Tag.Name}
	if probe.Show == nil {
		return input
	}

	input.Capabilities = probe.Show.Capabilities
	if probe.Show.Parameters != "" {
		params := probe.Show.Parameters
		input.Parameters = &params
	}
	if n := ollama.ContextLengthFromShow(probe.Show); n > 0 {
		input.ContextLength = &n
	}
	return input
}

func (s *Syncer) warn(details string) {
	if s.warnings == nil {
		return
	}
	s.warnings.AddWarning(
		services.WarningCategoryModelSync,
		"Model registry sync failed; the model list may be stale",
		details,
		"model-syncer",
	)
}

func (s *Syncer) clearWarning() {
	if s.warnings == nil {
		return
	}
	s.warnings.ClearBySource(services.WarningCategoryModelSync, "model-syncer")
}
