package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"jobsearch-backend/internal/shared/metrics"
	"jobsearch-backend/internal/shared/telemetry"
	"jobsearch-backend/internal/shared/util"
)

const (
	cacheKeyPrefix  = "jobs:"
	cacheGeneration = cacheKeyPrefix + "list:gen"
)

// CachedRepo is a read-through Redis cache in front of another Repo.
// Cache errors are logged and fall through to the backing repo.
type CachedRepo struct {
	next   Repo
	client redis.UniversalClient
	ttl    time.Duration
}

// NewCachedRepo wraps next with a Redis cache.
func NewCachedRepo(next Repo, client redis.UniversalClient, ttl time.Duration) *CachedRepo {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedRepo{next: next, client: client, ttl: ttl}
}

func (r *CachedRepo) Get(ctx context.Context, id string) (Posting, error) {
	key := cacheKeyPrefix + "posting:" + id
	var p Posting
	if r.load(ctx, key, &p) {
		return p, nil
	}
	p, err := r.next.Get(ctx, id)
	if err != nil {
		return Posting{}, err
	}
	r.store(ctx, key, p)
	return p, nil
}

func (r *CachedRepo) List(ctx context.Context, filter Filter) ([]Posting, error) {
	filter = filter.Normalize()
	key, err := r.listKey(ctx, filter)
	if err == nil {
		var out []Posting
		if r.load(ctx, key, &out) {
			return out, nil
		}
	}
	out, err := r.next.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if key != "" {
		r.store(ctx, key, out)
	}
	return out, nil
}

// Upsert writes through and invalidates the posting key and every cached listing.
func (r *CachedRepo) Upsert(ctx context.Context, p Posting) error {
	if err := r.next.Upsert(ctx, p); err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, cacheKeyPrefix+"posting:"+p.ID)
	pipe.Incr(ctx, cacheGeneration)
	if _, err := pipe.Exec(ctx); err != nil {
		metrics.IncJobCache("error")
		telemetry.Warn("jobs.cache_invalidate_failed", map[string]any{"job_id": p.ID, "err": err})
	}
	return nil
}

func (r *CachedRepo) listKey(ctx context.Context, filter Filter) (string, error) {
	gen, err := r.client.Get(ctx, cacheGeneration).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		metrics.IncJobCache("error")
		return "", err
	}
	raw, err := json.Marshal(filter)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%slist:%d:%s", cacheKeyPrefix, gen, util.Digest(string(raw))), nil
}

func (r *CachedRepo) load(ctx context.Context, key string, dst any) bool {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.IncJobCache("miss")
		} else {
			metrics.IncJobCache("error")
			telemetry.Warn("jobs.cache_get_failed", map[string]any{"key": key, "err": err})
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		metrics.IncJobCache("error")
		return false
	}
	metrics.IncJobCache("hit")
	return true
}

func (r *CachedRepo) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		metrics.IncJobCache("error")
		telemetry.Warn("jobs.cache_set_failed", map[string]any{"key": key, "err": err})
	}
}
