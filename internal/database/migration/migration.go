package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  email         TEXT        NOT NULL UNIQUE,
  password_hash TEXT        NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_subjects",
		SQL: `CREATE TABLE IF NOT EXISTS subjects (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id    UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  name       TEXT        NOT NULL CHECK (btrim(name) <> ''),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_subjects_user_name",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_subjects_user_lower_name ON subjects (user_id, lower(name));`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id    UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  file_name  TEXT        NOT NULL CHECK (file_name <> ''),
  file_path  TEXT        NOT NULL UNIQUE,
  file_size  BIGINT      CHECK (file_size >= 0),
  file_type  TEXT,
  subject_id UUID        REFERENCES subjects (id) ON DELETE SET NULL,
  tags       TEXT[]      NOT NULL DEFAULT '{}',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_user_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_user_created_at ON documents (user_id, created_at DESC);`,
	},
	{
		Name: "create_index_documents_subject_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_subject_id ON documents (subject_id);`,
	},
}

// EnsureMigrated checks if the 'documents' table exists and runs migrations if it doesn't.
// The documents table is created last, so its presence means every step has been applied.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger logrus.FieldLogger, dbHost string) error {
	start := time.Now()
	log := logger.WithFields(logrus.Fields{
		"component": "database",
		"db_host":   dbHost,
	})

	log.WithField("status", "starting").Info("db_migration_check")

	var exists bool
	query := "SELECT to_regclass('public.documents') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.WithFields(logrus.Fields{
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms":   time.Since(start).Milliseconds(),
		}).Error("db_migration_failed")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.WithFields(logrus.Fields{
			"status":      "success",
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("db_migration_skip")
		return nil
	}

	log.WithField("status", "in_progress").Info("db_migration_start")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.WithFields(logrus.Fields{
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			}).Error("db_migration_failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.WithFields(logrus.Fields{
			"status":           "success",
			"migration_step":   step.Name,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		}).Info("db_migration_step")
	}

	log.WithFields(logrus.Fields{
		"status":      "success",
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("db_migration_success")

	return nil
}
