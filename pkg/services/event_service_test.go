package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/ent"
	"github.com/kiln-dev/kiln/pkg/events"
)

func seedEvent(t *testing.T, client *ent.Client, sessionID, channel, payload string) *ent.Event {
	t.Helper()
	row, err := client.Event.Create().
		SetSessionID(sessionID).
		SetChannel(channel).
		SetPayload(json.RawMessage(payload)).
		Save(context.Background())
	require.NoError(t, err)
	return row
}

func TestGetCatchupEvents(t *testing.T) {
	client := setupClient(t)
	svc := NewEventService(client)
	ctx := context.Background()
	sess := createTestSession(t, client)
	channel := events.SessionChannel(sess.ID)

	first := seedEvent(t, client, sess.ID, channel, `{"type":"showToolAction","tool":"read_file"}`)
	seedEvent(t, client, sess.ID, channel, `{"type":"finalMessage","content":"done"}`)
	seedEvent(t, client, sess.ID, channel, `{"type":"sessionStatus","status":"completed"}`)

	t.Run("returns events after sinceID in order", func(t *testing.T) {
		got, err := svc.GetCatchupEvents(ctx, channel, first.ID, 0)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "finalMessage", got[0].Payload["type"])
		assert.Equal(t, "sessionStatus", got[1].Payload["type"])
		assert.Greater(t, got[1].ID, got[0].ID)
	})

	t.Run("sinceID zero returns everything", func(t *testing.T) {
		got, err := svc.GetCatchupEvents(ctx, channel, 0, 0)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("honors limit", func(t *testing.T) {
		got, err := svc.GetCatchupEvents(ctx, channel, 0, 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, first.ID, got[0].ID)
	})

	t.Run("unknown channel is empty", func(t *testing.T) {
		got, err := svc.GetCatchupEvents(ctx, "session:other", 0, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestCleanupSessionEvents(t *testing.T) {
	client := setupClient(t)
	svc := NewEventService(client)
	ctx := context.Background()

	sess := createTestSession(t, client)
	other := createTestSession(t, client)
	seedEvent(t, client, sess.ID, events.SessionChannel(sess.ID), `{"type":"a"}`)
	seedEvent(t, client, sess.ID, events.SessionChannel(sess.ID), `{"type":"b"}`)
	seedEvent(t, client, other.ID, events.SessionChannel(other.ID), `{"type":"c"}`)

	n, err := svc.CleanupSessionEvents(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	remaining, err := svc.GetCatchupEvents(ctx, events.SessionChannel(other.ID), 0, 0)
	require.NoError(t, err)
	assert.Len(t, remaining, 1, "other sessions keep their events")
}

func TestCleanupOldEvents(t *testing.T) {
	client := setupClient(t)
	svc := NewEventService(client)
	ctx := context.Background()
	sess := createTestSession(t, client)
	channel := events.SessionChannel(sess.ID)

	// One stale row, one fresh.
	_, err := client.Event.Create().
		SetSessionID(sess.ID).
		SetChannel(channel).
		SetPayload(json.RawMessage(`{"type":"stale"}`)).
		SetCreatedAt(time.Now().Add(-2 * time.Hour)).
		Save(ctx)
	require.NoError(t, err)
	seedEvent(t, client, sess.ID, channel, `{"type":"fresh"}`)

	n, err := svc.CleanupOldEvents(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := svc.GetCatchupEvents(ctx, channel, 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "fresh", got[0].Payload["type"])
}
