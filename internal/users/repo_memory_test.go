package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepoUpsertKeepsProfileFields(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	first := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return first }

	created, err := repo.Upsert(ctx, User{ID: "u1", Email: "a@example.com", FullName: "Kim Minji", PictureURL: "https://p/1"})
	require.NoError(t, err)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	later := first.Add(time.Hour)
	repo.clock = func() time.Time { return later }
	updated, err := repo.Upsert(ctx, User{ID: "u1", Email: "b@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "b@example.com", updated.Email)
	assert.Equal(t, "Kim Minji", updated.FullName)
	assert.Equal(t, "https://p/1", updated.PictureURL)
	assert.Equal(t, first, updated.CreatedAt)
	assert.Equal(t, later, updated.UpdatedAt)

	got, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestMemoryRepoGetMissing(t *testing.T) {
	_, err := NewMemoryRepo().GetByID(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
