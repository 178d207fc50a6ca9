package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_queue_messages",
		SQL: `CREATE TABLE IF NOT EXISTS queue_messages (
  id              UUID        PRIMARY KEY,
  queue_name      TEXT        NOT NULL CHECK (queue_name <> ''),
  body            TEXT        NOT NULL,
  pop_receipt     TEXT        NOT NULL,
  dequeue_count   INTEGER     NOT NULL DEFAULT 0 CHECK (dequeue_count >= 0),
  inserted_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  expires_at      TIMESTAMPTZ NOT NULL,
  next_visible_at TIMESTAMPTZ NOT NULL,
  CHECK (expires_at > inserted_at),
  CHECK (next_visible_at >= inserted_at)
);`,
	},
	{
		Name: "create_index_queue_messages_visible",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_queue_messages_visible ON queue_messages (queue_name, next_visible_at);`,
	},
	{
		Name: "create_index_queue_messages_expires_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_queue_messages_expires_at ON queue_messages (expires_at);`,
	},
}

// EnsureMigrated checks if the 'queue_messages' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *slog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With("component", "database", "db_host", dbHost)

	log.Info("db_migration_check", "status", "starting")

	var exists bool
	query := "SELECT to_regclass('public.queue_messages') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			"status", "error",
			"error_message", fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			"status", "success",
			"detail", "schema already exists, skipping migration",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	log.Info("db_migration_start", "status", "in_progress", "steps", len(steps))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.Info("db_migration_success", "status", "success", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
