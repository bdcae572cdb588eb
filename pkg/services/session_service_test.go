package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/ent/session"
)

func TestCreateSession(t *testing.T) {
	client := setupClient(t)
	svc := NewSessionService(client)
	ctx := context.Background()

	t.Run("creates pending session with generated ID", func(t *testing.T) {
		sess, err := svc.CreateSession(ctx, CreateSessionInput{
			Task:      "fix the failing import",
			Mode:      "agent",
			Model:     "qwen3:14b",
			Workspace: "/home/dev/project",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, sess.ID)
		assert.Equal(t, session.StatusPending, sess.Status)
		assert.Equal(t, "fix the failing import", sess.Task)
		assert.Equal(t, "agent", sess.Mode)
		assert.False(t, sess.AutoApproveCommands)
		assert.False(t, sess.AutoApproveSensitiveEdits)
		assert.False(t, sess.CreatedAt.IsZero())
	})

	t.Run("honors caller-provided ID and rejects duplicates", func(t *testing.T) {
		sess, err := svc.CreateSession(ctx, CreateSessionInput{
			ID:        "sess-fixed",
			Task:      "t",
			Mode:      "chat",
			Model:     "m",
			Workspace: "/w",
		})
		require.NoError(t, err)
		assert.Equal(t, "sess-fixed", sess.ID)

		_, err = svc.CreateSession(ctx, CreateSessionInput{
			ID:        "sess-fixed",
			Task:      "t",
			Mode:      "chat",
			Model:     "m",
			Workspace: "/w",
		})
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("stores sensitive file patterns", func(t *testing.T) {
		sess, err := svc.CreateSession(ctx, CreateSessionInput{
			Task:                  "t",
			Mode:                  "agent",
			Model:                 "m",
			Workspace:             "/w",
			SensitiveFilePatterns: []string{"**/.env*", "secrets/**"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"**/.env*", "secrets/**"}, sess.SensitiveFilePatterns)
	})

	t.Run("validates input", func(t *testing.T) {
		cases := []struct {
			name  string
			input CreateSessionInput
			field string
		}{
			{"missing task", CreateSessionInput{Mode: "agent", Model: "m", Workspace: "/w"}, "task"},
			{"missing mode", CreateSessionInput{Task: "t", Model: "m", Workspace: "/w"}, "mode"},
			{"unknown mode", CreateSessionInput{Task: "t", Mode: "turbo", Model: "m", Workspace: "/w"}, "mode"},
			{"missing model", CreateSessionInput{Task: "t", Mode: "agent", Workspace: "/w"}, "model"},
			{"missing workspace", CreateSessionInput{Task: "t", Mode: "agent", Model: "m"}, "workspace"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.CreateSession(ctx, tc.input)
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, tc.field, vErr.Field)
			})
		}
	})
}

func TestGetSession(t *testing.T) {
	client := setupClient(t)
	svc := NewSessionService(client)
	created := createTestSession(t, client)

	sess, err := svc.GetSession(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, sess.ID)

	_, err = svc.GetSession(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListSessions(t *testing.T) {
	client := setupClient(t)
	svc := NewSessionService(client)
	ctx := context.Background()

	mkSession := func(mode string) string {
		sess, err := svc.CreateSession(ctx, CreateSessionInput{
			Task:      "t",
			Mode:      mode,
			Model:     "m",
			Workspace: "/w",
		})
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
		return sess.ID
	}

	first := mkSession("agent")
	second := mkSession("explore")
	third := mkSession("agent")
	require.NoError(t, svc.UpdateSessionStatus(ctx, second, session.StatusCompleted, ""))

	t.Run("newest first with total", func(t *testing.T) {
		list, err := svc.ListSessions(ctx, SessionFilters{})
		require.NoError(t, err)
		require.Len(t, list.Sessions, 3)
		assert.Equal(t, 3, list.TotalCount)
		assert.Equal(t, third, list.Sessions[0].ID)
		assert.Equal(t, first, list.Sessions[2].ID)
	})

	t.Run("filters by status", func(t *testing.T) {
		list, err := svc.ListSessions(ctx, SessionFilters{Status: "completed"})
		require.NoError(t, err)
		require.Len(t, list.Sessions, 1)
		assert.Equal(t, second, list.Sessions[0].ID)
	})

	t.Run("filters by mode", func(t *testing.T) {
		list, err := svc.ListSessions(ctx, SessionFilters{Mode: "agent"})
		require.NoError(t, err)
		assert.Len(t, list.Sessions, 2)
		assert.Equal(t, 2, list.TotalCount)
	})

	t.Run("paginates", func(t *testing.T) {
		list, err := svc.ListSessions(ctx, SessionFilters{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, list.Sessions, 2)
		assert.Equal(t, 3, list.TotalCount)

		list, err = svc.ListSessions(ctx, SessionFilters{Limit: 2, Offset: 2})
		require.NoError(t, err)
		require.Len(t, list.Sessions, 1)
		assert.Equal(t, first, list.Sessions[0].ID)
	})
}

func TestEnqueueTurn(t *testing.T) {
	client := setupClient(t)
	svc := NewSessionService(client)
	ctx := context.Background()

	t.Run("requeues a finished session", func(t *testing.T) {
		sess := createTestSession(t, client)
		require.NoError(t, svc.UpdateSessionStatus(ctx, sess.ID, session.StatusError, "model unreachable"))

		updated, err := svc.EnqueueTurn(ctx, sess.ID, "try again with the local model")
		require.NoError(t, err)
		assert.Equal(t, session.StatusPending, updated.Status)
		assert.Equal(t, "try again with the local model", updated.Task)
		assert.Nil(t, updated.ErrorMessage)
		assert.Nil(t, updated.CompletedAt)
	})

	t.Run("rejects while pending or generating", func(t *testing.T) {
		sess := createTestSession(t, client)

		_, err := svc.EnqueueTurn(ctx, sess.ID, "another task")
		assert.ErrorIs(t, err, ErrSessionBusy)

		require.NoError(t, svc.UpdateSessionStatus(ctx, sess.ID, session.StatusGenerating, ""))
		_, err = svc.EnqueueTurn(ctx, sess.ID, "another task")
		assert.ErrorIs(t, err, ErrSessionBusy)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := svc.EnqueueTurn(ctx, "nonexistent", "task")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("validates task", func(t *testing.T) {
		sess := createTestSession(t, client)
		_, err := svc.EnqueueTurn(ctx, sess.ID, "")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestUpdateSessionStatus(t *testing.T) {
	client := setupClient(t)
	svc := NewSessionService(client)
	ctx := context.Background()

	t.Run("terminal status stamps completed_at", func(t *testing.T) {
		sess := createTestSession(t, client)
		require.NoError(t, svc.UpdateSessionStatus(ctx, sess.ID, session.StatusCompleted, ""))

		got, err := svc.GetSession(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, session.StatusCompleted, got.Status)
		require.NotNil(t, got.CompletedAt)
		require.NotNil(t, got.LastInteractionAt)
	})

	t.Run("error status records message", func(t *testing.T) {
		sess := createTestSession(t, client)
		require.NoError(t, svc.UpdateSessionStatus(ctx, sess.ID, session.StatusError, "ollama connection refused"))

		got, err := svc.GetSession(ctx, sess.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ErrorMessage)
		assert.Equal(t, "ollama connection refused", *got.ErrorMessage)
	})

	t.Run("non-terminal status leaves completed_at nil", func(t *testing.T) {
		sess := createTestSession(t, client)
		require.NoError(t, svc.UpdateSessionStatus(ctx, sess.ID, session.StatusGenerating, ""))

		got, err := svc.GetSession(ctx, sess.ID)
		require.NoError(t, err)
		assert.Nil(t, got.CompletedAt)
	})

	t.Run("unknown session", func(t *testing.T) {
		err := svc.UpdateSessionStatus(ctx, "nonexistent", session.StatusCompleted, "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestClaimNextPending(t *testing.T) {
	client := setupClient(t)
	svc := NewSessionService(client)
	ctx := context.Background()

	first := createTestSession(t, client)
	time.Sleep(5 * time.Millisecond)
	second := createTestSession(t, client)

	claimed, err := svc.ClaimNextPending(ctx, "pod-1")
	require.NoError(t, err)
	require.NotNil(t, claimed)
	assert.Equal(t, first.ID, claimed.ID, "oldest pending session claims first")
	assert.Equal(t, session.StatusGenerating, claimed.Status)
	require.NotNil(t, claimed.PodID)
	assert.Equal(t, "pod-1", *claimed.PodID)
	assert.NotNil(t, claimed.StartedAt)
	assert.NotNil(t, claimed.LastInteractionAt)

	claimed, err = svc.ClaimNextPending(ctx, "pod-2")
	require.NoError(t, err)
	require.NotNil(t, claimed)
	assert.Equal(t, second.ID, claimed.ID)

	claimed, err = svc.ClaimNextPending(ctx, "pod-1")
	require.NoError(t, err)
	assert.Nil(t, claimed, "no pending sessions left")
}

func TestHeartbeat(t *testing.T) {
	client := setupClient(t)
	svc := NewSessionService(client)
	ctx := context.Background()

	sess := createTestSession(t, client)
	before := time.Now().Add(-time.Second)

	require.NoError(t, svc.Heartbeat(ctx, sess.ID))

	got, err := svc.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastInteractionAt)
	assert.True(t, got.LastInteractionAt.After(before))

	assert.ErrorIs(t, svc.Heartbeat(ctx, "nonexistent"), ErrNotFound)
}

func TestFindOrphanedSessions(t *testing.T) {
	client := setupClient(t)
	svc := NewSessionService(client)
	ctx := context.Background()

	stale := createTestSession(t, client)
	fresh := createTestSession(t, client)
	_, err := svc.ClaimNextPending(ctx, "pod-1")
	require.NoError(t, err)
	_, err = svc.ClaimNextPending(ctx, "pod-1")
	require.NoError(t, err)

	// Backdate one worker's heartbeat past the timeout.
	require.NoError(t, client.Session.UpdateOneID(stale.ID).
		SetLastInteractionAt(time.Now().Add(-10*time.Minute)).
		Exec(ctx))

	orphans, err := svc.FindOrphanedSessions(ctx, 5*time.Minute)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, stale.ID, orphans[0].ID)
	assert.NotEqual(t, fresh.ID, orphans[0].ID)
}

func TestSetTitle(t *testing.T) {
	client := setupClient(t)
	svc := NewSessionService(client)
	ctx := context.Background()

	sess := createTestSession(t, client)
	require.NoError(t, svc.SetTitle(ctx, sess.ID, "Fetcher retry handling"))

	got, err := svc.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Title)
	assert.Equal(t, "Fetcher retry handling", *got.Title)

	assert.ErrorIs(t, svc.SetTitle(ctx, sess.ID, ""), ErrInvalidInput)
	assert.ErrorIs(t, svc.SetTitle(ctx, "nonexistent", "x"), ErrNotFound)
}

func TestSetFilesChanged(t *testing.T) {
	client := setupClient(t)
	svc := NewSessionService(client)
	ctx := context.Background()

	sess := createTestSession(t, client)
	require.NoError(t, svc.SetFilesChanged(ctx, sess.ID, []string{"pkg/fetch/fetch.go", "pkg/fetch/fetch_test.go"}))

	got, err := svc.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg/fetch/fetch.go", "pkg/fetch/fetch_test.go"}, got.FilesChanged)
}

func TestUpdateApprovalPolicy(t *testing.T) {
	client := setupClient(t)
	svc := NewSessionService(client)
	ctx := context.Background()

	sess := createTestSession(t, client)

	autoCommands := true
	updated, err := svc.UpdateApprovalPolicy(ctx, sess.ID, ApprovalPolicyUpdate{
		AutoApproveCommands: &autoCommands,
	})
	require.NoError(t, err)
	assert.True(t, updated.AutoApproveCommands)
	assert.False(t, updated.AutoApproveSensitiveEdits, "untouched field keeps its value")

	updated, err = svc.UpdateApprovalPolicy(ctx, sess.ID, ApprovalPolicyUpdate{
		SensitiveFilePatterns: []string{"deploy/**"},
	})
	require.NoError(t, err)
	assert.True(t, updated.AutoApproveCommands, "previous change survives")
	assert.Equal(t, []string{"deploy/**"}, updated.SensitiveFilePatterns)

	_, err = svc.UpdateApprovalPolicy(ctx, "nonexistent", ApprovalPolicyUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSoftDeleteOldSessions(t *testing.T) {
	client := setupClient(t)
	svc := NewSessionService(client)
	ctx := context.Background()

	old := createTestSession(t, client)
	recent := createTestSession(t, client)
	require.NoError(t, svc.UpdateSessionStatus(ctx, old.ID, session.StatusCompleted, ""))
	require.NoError(t, svc.UpdateSessionStatus(ctx, recent.ID, session.StatusCompleted, ""))

	// Push one completion past the retention window.
	require.NoError(t, client.Session.UpdateOneID(old.ID).
		SetCompletedAt(time.Now().AddDate(0, 0, -45)).
		Exec(ctx))

	n, err := svc.SoftDeleteOldSessions(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	list, err := svc.ListSessions(ctx, SessionFilters{})
	require.NoError(t, err)
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, recent.ID, list.Sessions[0].ID)

	list, err = svc.ListSessions(ctx, SessionFilters{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Len(t, list.Sessions, 2)

	_, err = svc.SoftDeleteOldSessions(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
