// Package database provides the PostgreSQL client and migration utilities.
package database

import (
	"context"
	stdsql "database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver for database/sql
	"github.com/kiln-dev/kiln/ent"
)

//go:embed migrations
var migrationsFS embed.FS

// Client wraps the Ent client and keeps the underlying pool reachable for
// health checks, the event outbox, and the NOTIFY listener.
type Client struct {
	*ent.Client
	db *stdsql.DB
}

// DB returns the underlying database connection.
func (c *Client) DB() *stdsql.DB {
	return c.db
}

// NewClientFromEnt wraps an existing Ent client (useful for testing).
func NewClientFromEnt(entClient *ent.Client, db *stdsql.DB) *Client {
	return &Client{
		Client: entClient,
		db:     db,
	}
}

// NewClient opens the database, configures pooling, applies pending
// migrations, and returns a ready client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	db, err := stdsql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Ent rides on the pgx-backed pool; dialect.Postgres keeps Ent's SQL
	// generation correct while pgx handles the wire protocol.
	drv := entsql.OpenDB(dialect.Postgres, db)
	entClient := ent.NewClient(ent.Driver(drv))

	if err := runMigrations(ctx, db, cfg, drv); err != nil {
		_ = entClient.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Client{
		Client: entClient,
		db:     db,
	}, nil
}

// HealthStatus reports connectivity and connection pool statistics.
type HealthStatus struct {
	Status          string `json:"status"`
	ResponseTime    int64  `json:"response_time_ms"`
	OpenConnections int    `json:"open_connections"`
	InUse           int    `json:"in_use"`
	Idle            int    `json:"idle"`
	WaitCount       int64  `json:"wait_count"`
	WaitDuration    int64  `json:"wait_duration_ms"`
	MaxOpenConns    int    `json:"max_open_conns"`
}

// Health pings the database and returns pool statistics.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	start := time.Now()

	if err := c.db.PingContext(ctx); err != nil {
		return &HealthStatus{
			Status:       "unhealthy",
			ResponseTime: time.Since(start).Milliseconds(),
		}, err
	}

	stats := c.db.Stats()
	return &HealthStatus{
		Status:          "healthy",
		ResponseTime:    time.Since(start).Milliseconds(),
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
		Idle:            stats.Idle,
		WaitCount:       stats.WaitCount,
		WaitDuration:    stats.WaitDuration.Milliseconds(),
		MaxOpenConns:    stats.MaxOpenConnections,
	}, nil
}

// runMigrations applies embedded golang-migrate migrations.
//
// Workflow:
//  1. Edit ent/schema/*.go
//  2. Generate a migration: make migrate-create NAME=add_feature
//  3. Review the SQL under pkg/database/migrations/, commit
//  4. The binary embeds the files and applies pending ones on startup
func runMigrations(ctx context.Context, db *stdsql.DB, cfg Config, drv *entsql.Driver) error {
	hasMigrations, err := hasEmbeddedMigrations()
	if err != nil {
		return fmt.Errorf("failed to check embedded migrations: %w", err)
	}
	if !hasMigrations {
		return fmt.Errorf("no embedded migration files found — binary may be built incorrectly")
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, cfg.Database, driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Close only the migration source. m.Close() would also close the database
	// driver, which closes the shared *sql.DB and breaks the Ent client.
	if err := sourceDriver.Close(); err != nil {
		return fmt.Errorf("failed to close migration source: %w", err)
	}

	// Full-text indexes Ent cannot express.
	if err := CreateGINIndexes(ctx, drv); err != nil {
		return fmt.Errorf("failed to create GIN indexes: %w", err)
	}

	return nil
}

// hasEmbeddedMigrations checks if the embedded FS contains any .sql files.
func hasEmbeddedMigrations() (bool, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() && len(entry.Name()) > 4 && entry.Name()[len(entry.Name())-4:] == ".sql" {
			return true, nil
		}
	}
	return false, nil
}
