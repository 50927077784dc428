package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"jobsearch-backend/internal/jobs"
	"jobsearch-backend/internal/shared/config"
	"jobsearch-backend/internal/shared/storage/db"
	"jobsearch-backend/internal/shared/storage/search"
	"jobsearch-backend/internal/shared/telemetry"
)

type indexer interface {
	Index(ctx context.Context, p jobs.Posting) error
}

func newReindexCmd() *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Copy postings from Postgres into the Elasticsearch index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			ctx := cmd.Context()

			sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.WithOverrides(db.DefaultCLIOptions(), cfg.DB))
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			client, err := search.Connect(cfg.ElasticsearchAddresses)
			if err != nil {
				return err
			}
			if client == nil {
				return fmt.Errorf("ELASTICSEARCH_ADDRESSES is required")
			}

			repo := jobs.NewPGRepo(sqlDB)
			if seed {
				for _, p := range jobs.SamplePostings(time.Now().UTC()) {
					if err := repo.Upsert(ctx, p); err != nil {
						return fmt.Errorf("seed %s: %w", p.ID, err)
					}
				}
			}
			n, err := reindex(ctx, repo, jobs.NewESSearcher(client, cfg.ElasticsearchIndex))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d postings\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "upsert the sample postings before indexing")
	return cmd
}

// reindex pages through every posting and indexes it, returning the count.
func reindex(ctx context.Context, repo jobs.Repo, idx indexer) (int, error) {
	total := 0
	for offset := 0; ; offset += jobs.MaxLimit {
		page, err := repo.List(ctx, jobs.Filter{Limit: jobs.MaxLimit, Offset: offset})
		if err != nil {
			return total, fmt.Errorf("list postings: %w", err)
		}
		for _, p := range page {
			if err := idx.Index(ctx, p); err != nil {
				return total, fmt.Errorf("index %s: %w", p.ID, err)
			}
			total++
		}
		if len(page) < jobs.MaxLimit {
			break
		}
	}
	telemetry.Info("jobs.reindexed", map[string]any{"count": total})
	return total, nil
}
