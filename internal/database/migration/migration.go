package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_contract_store",
		SQL: `CREATE TABLE IF NOT EXISTS contract_store (
  id         SMALLINT    PRIMARY KEY,
  body       JSONB       NOT NULL DEFAULT '[]'::jsonb CHECK (jsonb_typeof(body) = 'array'),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "seed_contract_store",
		SQL:  `INSERT INTO contract_store (id, body) VALUES (1, '[]'::jsonb) ON CONFLICT (id) DO NOTHING;`,
	},
}

// EnsureMigrated creates the contract_store table when it does not exist yet.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"))

	var exists bool
	const query = "SELECT to_regclass('public.contract_store') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("check contract_store table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip", zap.String("reason", "schema already exists"))
		return nil
	}

	log.Info("db_migration_start", zap.Int("steps", len(steps)))
	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("db_migration_step",
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success", zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}
