package cleanup

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/ent"
	"github.com/kiln-dev/kiln/ent/session"
	"github.com/kiln-dev/kiln/pkg/config"
	"github.com/kiln-dev/kiln/pkg/services"
	"github.com/kiln-dev/kiln/test/util"
)

func testRetentionConfig() *config.RetentionConfig {
	return &config.RetentionConfig{
		SessionRetentionDays: 365,
		EventTTL:             1 * time.Hour,
		CleanupInterval:      1 * time.Hour,
	}
}

func createSession(t *testing.T, client *ent.Client) *ent.Session {
	t.Helper()
	sess, err := services.NewSessionService(client).CreateSession(context.Background(), services.CreateSessionInput{
		Task:      "clean up the logging package",
		Mode:      "agent",
		Model:     "qwen3:14b",
		Workspace: "/home/dev/project",
	})
	require.NoError(t, err)
	return sess
}

func TestService_SoftDeletesOldCompletedSessions(t *testing.T) {
	client, _ := util.SetupTestDatabase(t)
	sessionService := services.NewSessionService(client)
	eventService := services.NewEventService(client)
	ctx := context.Background()

	sess := createSession(t, client)
	err := client.Session.UpdateOneID(sess.ID).
		SetStatus(session.StatusCompleted).
		SetCompletedAt(time.Now().Add(-400 * 24 * time.Hour)).
		Exec(ctx)
	require.NoError(t, err)

	svc := NewService(testRetentionConfig(), sessionService, eventService)
	svc.runAll(ctx)

	updated, err := client.Session.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.NotNil(t, updated.DeletedAt)
}

func TestService_PreservesRecentAndActiveSessions(t *testing.T) {
	client, _ := util.SetupTestDatabase(t)
	sessionService := services.NewSessionService(client)
	eventService := services.NewEventService(client)
	ctx := context.Background()

	recent := createSession(t, client)
	err := client.Session.UpdateOneID(recent.ID).
		SetStatus(session.StatusCompleted).
		SetCompletedAt(time.Now()).
		Exec(ctx)
	require.NoError(t, err)

	// Re-enqueued session whose previous turn finished long ago:
	// retention only touches terminal statuses.
	pending := createSession(t, client)
	err = client.Session.UpdateOneID(pending.ID).
		SetCompletedAt(time.Now().Add(-400 * 24 * time.Hour)).
		Exec(ctx)
	require.NoError(t, err)

	svc := NewService(testRetentionConfig(), sessionService, eventService)
	svc.runAll(ctx)

	for _, id := range []string{recent.ID, pending.ID} {
		updated, err := client.Session.Get(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, updated.DeletedAt)
	}
}

func TestService_CleansUpOldEvents(t *testing.T) {
	client, _ := util.SetupTestDatabase(t)
	sessionService := services.NewSessionService(client)
	eventService := services.NewEventService(client)
	ctx := context.Background()

	sess := createSession(t, client)

	// One event past the TTL, one fresh.
	_, err := client.Event.Create().
		SetSessionID(sess.ID).
		SetChannel("session:" + sess.ID).
		SetPayload(json.RawMessage(`{"type":"session.status"}`)).
		SetCreatedAt(time.Now().Add(-2 * time.Hour)).
		Save(ctx)
	require.NoError(t, err)

	_, err = client.Event.Create().
		SetSessionID(sess.ID).
		SetChannel("session:" + sess.ID).
		SetPayload(json.RawMessage(`{"type":"session.status"}`)).
		SetCreatedAt(time.Now()).
		Save(ctx)
	require.NoError(t, err)

	svc := NewService(testRetentionConfig(), sessionService, eventService)
	svc.runAll(ctx)

	events, err := eventService.GetCatchupEvents(ctx, "session:"+sess.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, events, 1, "old event should be deleted, recent event preserved")
}

func TestService_StartStopIdempotent(t *testing.T) {
	client, _ := util.SetupTestDatabase(t)
	svc := NewService(testRetentionConfig(), services.NewSessionService(client), services.NewEventService(client))

	ctx := context.Background()
	svc.Start(ctx)
	svc.Start(ctx) // second Start is a no-op
	svc.Stop()
	svc.Stop() // second Stop is a no-op
}
