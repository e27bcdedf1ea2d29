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
		Name: "create_table_enrollments",
		SQL: `CREATE TABLE IF NOT EXISTS enrollments (
  id              UUID        PRIMARY KEY,
  course_id       TEXT        NOT NULL,
  faculty_id      TEXT        NOT NULL,
  student_id      TEXT        NOT NULL,
  full_name       TEXT        NOT NULL,
  conclusion_year INTEGER     NOT NULL CHECK (conclusion_year BETWEEN 1000 AND 9999),
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_enrollments_course_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_enrollments_course_id ON enrollments (course_id);`,
	},
	{
		Name: "create_index_enrollments_faculty_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_enrollments_faculty_id ON enrollments (faculty_id);`,
	},
	{
		Name: "create_index_enrollments_student_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_enrollments_student_id ON enrollments (student_id);`,
	},
	{
		Name: "create_index_enrollments_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_enrollments_created_at ON enrollments (created_at);`,
	},
}

// EnsureMigrated checks whether the enrollments table exists and creates the schema if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *slog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With("component", "database", "db_host", dbHost)

	log.InfoContext(ctx, "db_migration_check", "status", "starting")

	var exists bool
	const query = "SELECT to_regclass('public.enrollments') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.ErrorContext(ctx, "db_migration_failed",
			"status", "error",
			"error_message", fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.InfoContext(ctx, "db_migration_skip",
			"status", "success",
			"reason", "schema already exists",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	log.InfoContext(ctx, "db_migration_start", "status", "in_progress", "steps", len(steps))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.ErrorContext(ctx, "db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.InfoContext(ctx, "db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.InfoContext(ctx, "db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
