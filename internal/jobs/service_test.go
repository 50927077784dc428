package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	ids []string
	err error
}

func (s stubSearcher) Search(ctx context.Context, f Filter) ([]string, error) {
	return s.ids, s.err
}

func sampleRepo() *MemoryRepo {
	return NewMemoryRepo(SamplePostings(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))...)
}

func TestMemoryRepoListFilters(t *testing.T) {
	repo := sampleRepo()
	ctx := context.Background()

	all, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "job-backend-go", all[0].ID)

	byKeyword, err := repo.List(ctx, Filter{Keywords: []string{"SQL", "react"}})
	require.NoError(t, err)
	assert.Len(t, byKeyword, 2)

	byQuery, err := repo.List(ctx, Filter{Query: "northwind"})
	require.NoError(t, err)
	assert.Len(t, byQuery, 2)

	byLocation, err := repo.List(ctx, Filter{Location: "seoul", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, byLocation, 1)
	assert.Equal(t, "job-mobile-android", byLocation[0].ID)

	past, err := repo.List(ctx, Filter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestFilterNormalizeClampsLimit(t *testing.T) {
	f := Filter{Limit: 500, Offset: -3}.Normalize()
	assert.Equal(t, MaxLimit, f.Limit)
	assert.Equal(t, 0, f.Offset)
	assert.Equal(t, DefaultLimit, Filter{}.Normalize().Limit)
}

func TestServiceListUsesSearcherOrder(t *testing.T) {
	svc := NewService(sampleRepo(), stubSearcher{ids: []string{"job-data-analyst", "gone", "job-backend-go"}})

	got, err := svc.List(context.Background(), Filter{Query: "data"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "job-data-analyst", got[0].ID)
	assert.Equal(t, "job-backend-go", got[1].ID)
}

func TestServiceListFallsBackWhenSearchFails(t *testing.T) {
	svc := NewService(sampleRepo(), stubSearcher{err: errors.New("es down")})

	got, err := svc.List(context.Background(), Filter{Query: "android"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "job-mobile-android", got[0].ID)
}

func TestServiceGetRejectsBlankID(t *testing.T) {
	_, err := NewService(sampleRepo(), nil).Get(context.Background(), " ")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
