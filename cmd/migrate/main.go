package main

// Run database migrations:
//   go run ./cmd/migrate
//   go run ./cmd/migrate --down

import (
	"os"

	"github.com/spf13/cobra"

	"jobsearch-backend/internal/shared/config"
	"jobsearch-backend/internal/shared/storage/db"
	"jobsearch-backend/internal/shared/telemetry"
)

func newMigrateCmd() *cobra.Command {
	var down bool
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply or roll back database migrations",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			telemetry.Init(cfg.LogLevel)
			ctx := cmd.Context()

			sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.WithOverrides(db.DefaultCLIOptions(), cfg.DB))
			if err != nil {
				telemetry.Error("migrate.connect_failed", map[string]any{"error": err})
				return err
			}
			defer sqlDB.Close()

			run := db.RunMigrations
			if down {
				run = db.RollbackMigration
			}
			if err := run(ctx, sqlDB); err != nil {
				telemetry.Error("migrate.failed", map[string]any{"error": err, "down": down})
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll back the most recent migration")
	return cmd
}

func main() {
	defer telemetry.Sync()
	if err := newMigrateCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
