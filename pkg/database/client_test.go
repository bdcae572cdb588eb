package database

import (
	"context"
	stdsql "database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/kiln-dev/kiln/ent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// newTestClient creates a test database client with CI/local environment detection.
// In CI (CI_DATABASE_URL set): connects to the external PostgreSQL service container.
// In local dev: spins up a testcontainer.
func newTestClient(t *testing.T) *Client {
	ctx := context.Background()

	var connStr string
	if ciDatabaseURL := os.Getenv("CI_DATABASE_URL"); ciDatabaseURL != "" {
		t.Log("Using external PostgreSQL from CI_DATABASE_URL")
		connStr = ciDatabaseURL
	} else {
		t.Log("Using testcontainers for PostgreSQL")
		pgContainer, err := postgres.Run(ctx,
			"postgres:17-alpine",
			postgres.WithDatabase("test"),
			postgres.WithUsername("test"),
			postgres.WithPassword("test"),
			postgres.WithInitScripts(filepath.Join("..", "..", "deploy", "postgres-init", "01-init.sql")),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		require.NoError(t, err)

		t.Cleanup(func() {
			if err := testcontainers.TerminateContainer(pgContainer); err != nil {
				t.Logf("failed to terminate container: %v", err)
			}
		})

		connStr, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)
	}

	db, err := stdsql.Open("pgx", connStr)
	require.NoError(t, err)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	drv := entsql.OpenDB(dialect.Postgres, db)
	entClient := ent.NewClient(ent.Driver(drv))

	// Auto-migration for tests instead of the embedded SQL files
	err = entClient.Schema.Create(ctx)
	require.NoError(t, err)

	err = CreateGINIndexes(ctx, drv)
	require.NoError(t, err)

	client := NewClientFromEnt(entClient, db)
	t.Cleanup(func() {
		client.Close()
	})

	return client
}

func TestDatabaseClient_ConnectionPool(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	err := client.DB().PingContext(ctx)
	require.NoError(t, err)

	health, err := client.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
	assert.Greater(t, health.MaxOpenConns, 0)
	assert.GreaterOrEqual(t, health.ResponseTime, int64(0))
	assert.Less(t, health.ResponseTime, int64(1000), "local ping should be fast")
}

func TestFullTextSearch(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	session1, err := client.Session.Create().
		SetID("fts-1").
		SetTask("Fix the race condition in the connection pool shutdown").
		SetMode("agent").
		SetModel("qwen3:8b").
		SetWorkspace("/tmp/ws1").
		Save(ctx)
	require.NoError(t, err)

	session2, err := client.Session.Create().
		SetID("fts-2").
		SetTask("Summarize the streaming decoder implementation").
		SetMode("explore").
		SetModel("qwen3:8b").
		SetWorkspace("/tmp/ws2").
		Save(ctx)
	require.NoError(t, err)

	query := func(tsquery string) []string {
		rows, err := client.DB().QueryContext(ctx,
			`SELECT session_id FROM sessions
			WHERE to_tsvector('english', task) @@ to_tsquery('english', $1)`,
			tsquery,
		)
		require.NoError(t, err)
		defer rows.Close()

		var results []string
		for rows.Next() {
			var id string
			require.NoError(t, rows.Scan(&id))
			results = append(results, id)
		}
		return results
	}

	results := query("race & condition")
	assert.Equal(t, []string{session1.ID}, results)

	results = query("streaming")
	assert.Equal(t, []string{session2.ID}, results)
}

func TestLoadConfigFromEnv(t *testing.T) {
	envKeys := []string{
		"DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD",
		"DB_NAME", "DB_SSLMODE", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS",
	}
	clearEnv := func(t *testing.T) {
		for _, key := range envKeys {
			os.Unsetenv(key)
		}
		t.Cleanup(func() {
			for _, key := range envKeys {
				os.Unsetenv(key)
			}
		})
	}

	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)
		os.Setenv("DB_PASSWORD", "secret")

		cfg, err := LoadConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, 5432, cfg.Port)
		assert.Equal(t, "kiln", cfg.User)
		assert.Equal(t, "kiln", cfg.Database)
		assert.Equal(t, "disable", cfg.SSLMode)
		assert.Equal(t, 10, cfg.MaxOpenConns)
		assert.Equal(t, 5, cfg.MaxIdleConns)
		assert.Contains(t, cfg.DSN(), "dbname=kiln")
	})

	t.Run("database url wins", func(t *testing.T) {
		clearEnv(t)
		os.Setenv("DATABASE_URL", "postgres://u:p@db.internal:5433/other")
		os.Setenv("DB_HOST", "ignored.example.com")

		cfg, err := LoadConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "postgres://u:p@db.internal:5433/other", cfg.DSN())
	})

	t.Run("invalid port", func(t *testing.T) {
		clearEnv(t)
		os.Setenv("DB_PORT", "not-a-port")

		_, err := LoadConfigFromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid DB_PORT")
	})
}
