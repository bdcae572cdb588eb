package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/ent"
	"github.com/kiln-dev/kiln/test/util"
)

// setupClient provisions an isolated database schema for one test.
func setupClient(t *testing.T) *ent.Client {
	t.Helper()
	client, _ := util.SetupTestDatabase(t)
	return client
}

// createTestSession creates a pending session with sane defaults.
func createTestSession(t *testing.T, client *ent.Client) *ent.Session {
	t.Helper()
	sess, err := NewSessionService(client).CreateSession(context.Background(), CreateSessionInput{
		Task:      "add retry handling to the fetcher",
		Mode:      "agent",
		Model:     "qwen3:14b",
		Workspace: "/home/dev/project",
	})
	require.NoError(t, err)
	return sess
}
