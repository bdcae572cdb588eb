package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryDoc struct {
	Facts     []string `json:"facts"`
	Summaries []string `json:"summaries"`
	Turns     int      `json:"turns"`
}

func TestMemoryRoundtrip(t *testing.T) {
	client := setupClient(t)
	svc := NewMemoryService(client)
	ctx := context.Background()
	sess := createTestSession(t, client)

	saved := memoryDoc{
		Facts:     []string{"tests live under pkg/fetch", "uses table-driven style"},
		Summaries: []string{"iteration 1: read fetch.go and its tests"},
		Turns:     1,
	}
	require.NoError(t, svc.SaveMemory(ctx, sess.ID, saved))

	var loaded memoryDoc
	require.NoError(t, svc.LoadMemory(ctx, sess.ID, &loaded))
	assert.Equal(t, saved, loaded)

	// Saving again replaces the whole document.
	saved.Turns = 2
	saved.Facts = append(saved.Facts, "fetcher has no retry budget yet")
	require.NoError(t, svc.SaveMemory(ctx, sess.ID, saved))

	loaded = memoryDoc{}
	require.NoError(t, svc.LoadMemory(ctx, sess.ID, &loaded))
	assert.Equal(t, 2, loaded.Turns)
	assert.Len(t, loaded.Facts, 3)
}

func TestLoadMemoryEmpty(t *testing.T) {
	client := setupClient(t)
	svc := NewMemoryService(client)
	ctx := context.Background()
	sess := createTestSession(t, client)

	loaded := memoryDoc{Turns: 7}
	require.NoError(t, svc.LoadMemory(ctx, sess.ID, &loaded))
	assert.Equal(t, 7, loaded.Turns, "no stored memory leaves the target untouched")
}

func TestClearMemory(t *testing.T) {
	client := setupClient(t)
	svc := NewMemoryService(client)
	ctx := context.Background()
	sess := createTestSession(t, client)

	require.NoError(t, svc.SaveMemory(ctx, sess.ID, memoryDoc{Turns: 3}))
	require.NoError(t, svc.ClearMemory(ctx, sess.ID))

	var loaded memoryDoc
	require.NoError(t, svc.LoadMemory(ctx, sess.ID, &loaded))
	assert.Zero(t, loaded.Turns)
}

func TestMemoryErrors(t *testing.T) {
	client := setupClient(t)
	svc := NewMemoryService(client)
	ctx := context.Background()

	assert.ErrorIs(t, svc.SaveMemory(ctx, "nonexistent", memoryDoc{}), ErrNotFound)
	assert.ErrorIs(t, svc.LoadMemory(ctx, "nonexistent", &memoryDoc{}), ErrNotFound)
	assert.ErrorIs(t, svc.ClearMemory(ctx, "nonexistent"), ErrNotFound)

	sess := createTestSession(t, client)
	assert.ErrorIs(t, svc.SaveMemory(ctx, sess.ID, nil), ErrInvalidInput)
	assert.Error(t, svc.SaveMemory(ctx, sess.ID, []string{"not", "an", "object"}),
		"memory must serialize to a JSON object")
}
