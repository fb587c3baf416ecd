package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_packages",
		SQL: `CREATE TABLE IF NOT EXISTS packages (
  id         TEXT        PRIMARY KEY,
  client_id  TEXT        NOT NULL,
  name       TEXT        NOT NULL,
  position   INT         NOT NULL DEFAULT 0,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_packages_client_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_packages_client_id ON packages (client_id);`,
	},
	{
		Name: "create_table_components",
		SQL: `CREATE TABLE IF NOT EXISTS components (
  id         TEXT        PRIMARY KEY,
  package_id TEXT        NOT NULL REFERENCES packages (id) ON DELETE CASCADE,
  client_id  TEXT        NOT NULL,
  name       TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_components_client_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_components_client_id ON components (client_id);`,
	},
	{
		Name: "create_table_progress_steps",
		SQL: `CREATE TABLE IF NOT EXISTS progress_steps (
  id                          TEXT        PRIMARY KEY,
  client_id                   TEXT        NOT NULL,
  title                       TEXT        NOT NULL,
  description                 TEXT        NOT NULL DEFAULT '',
  deadline                    TIMESTAMPTZ NOT NULL,
  completed                   BOOLEAN     NOT NULL DEFAULT FALSE,
  completed_date              TIMESTAMPTZ,
  important                   BOOLEAN     NOT NULL DEFAULT FALSE,
  package_id                  TEXT        NOT NULL DEFAULT '',
  component_id                TEXT        NOT NULL DEFAULT '',
  onboarding_deadline         TIMESTAMPTZ,
  first_draft_deadline        TIMESTAMPTZ,
  second_draft_deadline       TIMESTAMPTZ,
  onboarding_completed        BOOLEAN     NOT NULL DEFAULT FALSE,
  first_draft_completed       BOOLEAN     NOT NULL DEFAULT FALSE,
  second_draft_completed      BOOLEAN     NOT NULL DEFAULT FALSE,
  onboarding_completed_date   TIMESTAMPTZ,
  first_draft_completed_date  TIMESTAMPTZ,
  second_draft_completed_date TIMESTAMPTZ,
  created_at                  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_progress_steps_client_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_progress_steps_client_id ON progress_steps (client_id);`,
	},
	{
		Name: "create_index_progress_steps_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_progress_steps_created_at ON progress_steps (created_at);`,
	},
	{
		Name: "create_table_step_comments",
		SQL: `CREATE TABLE IF NOT EXISTS step_comments (
  id              TEXT        PRIMARY KEY,
  step_id         TEXT        NOT NULL REFERENCES progress_steps (id) ON DELETE CASCADE,
  author          TEXT        NOT NULL,
  body            TEXT        NOT NULL DEFAULT '',
  attachment_url  TEXT        NOT NULL DEFAULT '',
  attachment_type TEXT        NOT NULL DEFAULT '',
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_step_comments_step_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_step_comments_step_id ON step_comments (step_id);`,
	},
	{
		Name: "create_table_client_files",
		SQL: `CREATE TABLE IF NOT EXISTS client_files (
  id           TEXT        PRIMARY KEY,
  client_id    TEXT        NOT NULL,
  name         TEXT        NOT NULL,
  url          TEXT        NOT NULL,
  storage_key  TEXT        NOT NULL DEFAULT '',
  size         BIGINT      NOT NULL DEFAULT 0 CHECK (size >= 0),
  content_type TEXT        NOT NULL DEFAULT '',
  uploaded_by  TEXT        NOT NULL DEFAULT 'admin',
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_client_files_client_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_client_files_client_id ON client_files (client_id);`,
	},
	{
		Name: "create_table_client_links",
		SQL: `CREATE TABLE IF NOT EXISTS client_links (
  id         TEXT        PRIMARY KEY,
  client_id  TEXT        NOT NULL,
  title      TEXT        NOT NULL,
  url        TEXT        NOT NULL,
  created_by TEXT        NOT NULL DEFAULT 'admin',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_client_links_client_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_client_links_client_id ON client_links (client_id);`,
	},
}

// EnsureMigrated checks whether the 'progress_steps' table exists and runs
// the migration steps if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.progress_steps') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
