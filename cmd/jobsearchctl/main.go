// Command jobsearchctl holds offline tooling for the job search backend:
//
//	jobsearchctl score --file input.json
//	jobsearchctl reindex [--seed]
package main

import (
	"os"

	"github.com/spf13/cobra"

	"jobsearch-backend/internal/shared/telemetry"
)

func newRootCmd() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:           "jobsearchctl",
		Short:         "Offline tooling for the job search backend",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			telemetry.Init(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.AddCommand(newScoreCmd(), newReindexCmd())
	return root
}

func main() {
	defer telemetry.Sync()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
