package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	"jobsearch-backend/internal/shared/telemetry"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

func prepareGoose() error {
	goose.SetBaseFS(migrationFiles)
	return goose.SetDialect("postgres")
}

// RunMigrations applies embedded SQL migrations via goose. A nil database is a no-op.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	if err := prepareGoose(); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, database, migrationsDir); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, database)
	if err != nil {
		return fmt.Errorf("migration version: %w", err)
	}
	telemetry.Info("db.migrated", map[string]any{"version": version})
	return nil
}

// RollbackMigration reverts the most recent migration.
func RollbackMigration(ctx context.Context, database *sql.DB) error {
	if err := prepareGoose(); err != nil {
		return err
	}
	if err := goose.DownContext(ctx, database, migrationsDir); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, database)
	if err != nil {
		return fmt.Errorf("migration version: %w", err)
	}
	telemetry.Info("db.rolled_back", map[string]any{"version": version})
	return nil
}
