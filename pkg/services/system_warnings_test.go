package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemWarnings(t *testing.T) {
	svc := NewSystemWarningsService()

	t.Run("records warnings", func(t *testing.T) {
		id := svc.AddWarning(WarningCategoryModelSync, "model sync failed", "connection refused", "ollama")
		require.NotEmpty(t, id)

		warnings := svc.GetWarnings()
		require.Len(t, warnings, 1)
		assert.Equal(t, WarningCategoryModelSync, warnings[0].Category)
		assert.Equal(t, "model sync failed", warnings[0].Message)
		assert.Equal(t, "ollama", warnings[0].Source)
		assert.False(t, warnings[0].Timestamp.IsZero())
	})

	t.Run("same category and source replaces", func(t *testing.T) {
		svc.AddWarning(WarningCategoryModelSync, "model sync failed again", "timeout", "ollama")

		warnings := svc.GetWarnings()
		require.Len(t, warnings, 1, "flapping subsystem shows one warning")
		assert.Equal(t, "model sync failed again", warnings[0].Message)
	})

	t.Run("different source accumulates", func(t *testing.T) {
		svc.AddWarning(WarningCategorySessionRecovery, "session failed over", "pod-2 stopped heartbeating", "pod-2")

		warnings := svc.GetWarnings()
		assert.Len(t, warnings, 2)
	})

	t.Run("clears by source", func(t *testing.T) {
		assert.True(t, svc.ClearBySource(WarningCategoryModelSync, "ollama"))
		assert.False(t, svc.ClearBySource(WarningCategoryModelSync, "ollama"), "already cleared")

		warnings := svc.GetWarnings()
		require.Len(t, warnings, 1)
		assert.Equal(t, WarningCategorySessionRecovery, warnings[0].Category)
	})
}
