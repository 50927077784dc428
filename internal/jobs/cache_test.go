package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepo struct {
	Repo
	gets  atomic.Int32
	lists atomic.Int32
}

func (c *countingRepo) Get(ctx context.Context, id string) (Posting, error) {
	c.gets.Add(1)
	return c.Repo.Get(ctx, id)
}

func (c *countingRepo) List(ctx context.Context, f Filter) ([]Posting, error) {
	c.lists.Add(1)
	return c.Repo.List(ctx, f)
}

func newCached(t *testing.T) (*CachedRepo, *countingRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	backing := &countingRepo{Repo: NewMemoryRepo(SamplePostings(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))...)}
	return NewCachedRepo(backing, client, time.Minute), backing, mr
}

func TestCachedRepoGetReadsThrough(t *testing.T) {
	repo, backing, mr := newCached(t)
	ctx := context.Background()

	first, err := repo.Get(ctx, "job-backend-go")
	require.NoError(t, err)
	second, err := repo.Get(ctx, "job-backend-go")
	require.NoError(t, err)

	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, int32(1), backing.gets.Load())
	assert.True(t, mr.Exists("jobs:posting:job-backend-go"))
}

func TestCachedRepoGetNotFoundIsNotCached(t *testing.T) {
	repo, backing, _ := newCached(t)
	ctx := context.Background()

	_, err := repo.Get(ctx, "nope")
	require.True(t, errors.Is(err, ErrNotFound))
	_, err = repo.Get(ctx, "nope")
	require.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, int32(2), backing.gets.Load())
}

func TestCachedRepoUpsertInvalidatesListings(t *testing.T) {
	repo, backing, _ := newCached(t)
	ctx := context.Background()
	filter := Filter{Keywords: []string{"go"}}

	got, err := repo.List(ctx, filter)
	require.NoError(t, err)
	require.Len(t, got, 1)
	_, err = repo.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int32(1), backing.lists.Load())

	require.NoError(t, repo.Upsert(ctx, Posting{
		ID:       "job-go-2",
		Title:    "Platform Engineer",
		Company:  "Acme",
		Keywords: []string{"Go"},
		PostedAt: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
	}))

	got, err = repo.List(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "job-go-2", got[0].ID)
	assert.Equal(t, int32(2), backing.lists.Load())
}

func TestCachedRepoFallsThroughWhenRedisDown(t *testing.T) {
	repo, backing, mr := newCached(t)
	mr.Close()

	p, err := repo.Get(context.Background(), "job-data-analyst")
	require.NoError(t, err)
	assert.Equal(t, "Data Analyst", p.Title)
	assert.Equal(t, int32(1), backing.gets.Load())
}
