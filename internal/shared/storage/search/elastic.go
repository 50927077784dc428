package search

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"jobsearch-backend/internal/shared/telemetry"
)

// Connect builds an Elasticsearch client for the given addresses. It returns nil when none are configured.
func Connect(addresses []string) (*elasticsearch.Client, error) {
	if len(addresses) == 0 {
		return nil, nil
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:  addresses,
		MaxRetries: 2,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 5 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	telemetry.Info("search.init", map[string]any{"addresses": addresses})
	return client, nil
}

// Ping reports whether the cluster answers.
func Ping(ctx context.Context, client *elasticsearch.Client) error {
	res, err := client.Ping(client.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: %s", res.Status())
	}
	return nil
}
