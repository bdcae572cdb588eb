// Package util provides shared helpers for database-backed tests.
package util

import (
	"context"
	"crypto/rand"
	stdsql "database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/kiln-dev/kiln/ent"
	"github.com/kiln-dev/kiln/pkg/database"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	// Connection string shared by every test in the package when running
	// against the local testcontainer.
	sharedConnStr string
	containerOnce sync.Once
	containerErr  error
)

// SetupTestDatabase returns an ent client and raw DB handle bound to a
// fresh PostgreSQL schema that exists only for the duration of the test.
// Per-test schemas give isolation without paying container startup per test:
//   - CI: connects to the external PostgreSQL service (CI_DATABASE_URL)
//   - local: starts one shared testcontainer per package
func SetupTestDatabase(t *testing.T) (*ent.Client, *stdsql.DB) {
	ctx := context.Background()

	connStr := getOrCreateSharedDatabase(t)
	schemaName := GenerateSchemaName(t)

	// Create the schema over a throwaway connection.
	db, err := stdsql.Open("pgx", connStr)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, fmt.Sprintf("CREATE SCHEMA %s", schemaName))
	require.NoError(t, err)
	_ = db.Close()

	t.Logf("Created test schema: %s", schemaName)

	// Reconnect with search_path baked into the connection string so every
	// pooled connection resolves unqualified names into the test schema.
	db, err = stdsql.Open("pgx", AddSearchPathToConnString(connStr, schemaName))
	require.NoError(t, err)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	drv := entsql.OpenDB(dialect.Postgres, db)
	entClient := ent.NewClient(ent.Driver(drv))

	// Auto-migration inside the test schema, then the raw-SQL indexes the
	// ent schema cannot express.
	err = entClient.Schema.Create(ctx)
	require.NoError(t, err)
	err = database.CreateGINIndexes(ctx, drv)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, err := db.ExecContext(context.Background(), fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schemaName))
		if err != nil {
			t.Logf("Warning: failed to drop schema %s: %v", schemaName, err)
		}
		_ = entClient.Close()
		_ = db.Close()
	})

	return entClient, db
}

// GetBaseConnectionString returns the base PostgreSQL connection string
// without a schema search_path. Integration tests that open dedicated
// connections (e.g. the notify listener's pgx.Conn) use this directly.
func GetBaseConnectionString(t *testing.T) string {
	return getOrCreateSharedDatabase(t)
}

// getOrCreateSharedDatabase returns a connection string for the shared
// database, starting the local testcontainer on first use.
func getOrCreateSharedDatabase(t *testing.T) string {
	if ciDatabaseURL := os.Getenv("CI_DATABASE_URL"); ciDatabaseURL != "" {
		t.Log("Using external PostgreSQL from CI_DATABASE_URL")
		return ciDatabaseURL
	}

	containerOnce.Do(func() {
		ctx := context.Background()
		t.Log("Starting shared PostgreSQL testcontainer for all tests")

		pgContainer, err := postgres.Run(ctx,
			"postgres:17-alpine",
			postgres.WithDatabase("test"),
			postgres.WithUsername("test"),
			postgres.WithPassword("test"),
			postgres.WithInitScripts(resolveInitScriptPath()),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			containerErr = fmt.Errorf("failed to start postgres container: %w", err)
			return
		}

		connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			containerErr = fmt.Errorf("failed to get connection string: %w", err)
			return
		}

		sharedConnStr = connStr
		t.Logf("Shared container ready: %s", sharedConnStr)
	})

	require.NoError(t, containerErr, "Failed to setup shared test container")
	return sharedConnStr
}

// GenerateSchemaName builds a unique, PostgreSQL-safe schema name:
// test_<sanitized_test_name>_<random_hex>.
func GenerateSchemaName(t *testing.T) string {
	testName := strings.ToLower(t.Name())
	testName = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, testName)

	// Stay well under PostgreSQL's 63-char identifier limit.
	if len(testName) > 40 {
		testName = testName[:40]
	}

	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		t.Fatalf("failed to generate random bytes for schema name: %v", err)
	}

	return fmt.Sprintf("test_%s_%s", testName, hex.EncodeToString(randomBytes))
}

// AddSearchPathToConnString appends a search_path parameter so every pooled
// connection uses the given schema.
func AddSearchPathToConnString(connStr, schemaName string) string {
	separator := "?"
	if strings.Contains(connStr, "?") {
		separator = "&"
	}
	return fmt.Sprintf("%s%ssearch_path=%s", connStr, separator, schemaName)
}

// resolveInitScriptPath locates deploy/postgres-init/01-init.sql relative to
// this source file so tests in any package find it.
func resolveInitScriptPath() string {
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		panic("resolveInitScriptPath: runtime.Caller(0) failed")
	}
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
	return filepath.Join(projectRoot, "deploy", "postgres-init", "01-init.sql")
}
