package database

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect/sql"
)

// CreateGINIndexes creates full-text search GIN indexes for PostgreSQL.
// These back the dashboard's session search (task text and message content)
// and cannot be expressed through Ent schema definitions.
func CreateGINIndexes(ctx context.Context, driver *sql.Driver) error {
	db := driver.DB()

	_, err := db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_sessions_task_gin
		ON sessions USING gin(to_tsvector('english', task))`)
	if err != nil {
		return fmt.Errorf("failed to create task GIN index: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_messages_content_gin
		ON messages USING gin(to_tsvector('english', content))`)
	if err != nil {
		return fmt.Errorf("failed to create content GIN index: %w", err)
	}

	// Trigram index for fuzzy title matching. Requires the pg_trgm
	// extension, installed by deploy/postgres-init/01-init.sql.
	_, err = db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_sessions_title_trgm
		ON sessions USING gin(title gin_trgm_ops)`)
	if err != nil {
		return fmt.Errorf("failed to create title trigram index: %w", err)
	}

	return nil
}
