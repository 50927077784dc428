package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"jobsearch-backend/internal/shared/telemetry"
)

// Options configures the shared Redis client.
type Options struct {
	Addr        string
	Password    string
	DB          int
	PingTimeout time.Duration
}

// Connect returns a verified Redis client, or nil when no address is configured.
func Connect(ctx context.Context, opts Options) (*redis.Client, error) {
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	telemetry.Info("redis.init", map[string]any{"addr": addr, "db": opts.DB})
	return client, nil
}
