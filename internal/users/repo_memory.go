package users

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo mirrors the Postgres upsert: blank profile fields never erase stored ones.
type MemoryRepo struct {
	mu    sync.RWMutex
	byID  map[string]User
	clock func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]User), clock: time.Now}
}

func (r *MemoryRepo) Upsert(ctx context.Context, in User) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	ts := r.clock().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()
	stored, exists := r.byID[in.ID]
	if !exists {
		in.CreatedAt, in.UpdatedAt = ts, ts
		r.byID[in.ID] = in
		return in, nil
	}

	stored.Email = in.Email
	keepNonEmpty(&stored.FullName, in.FullName)
	keepNonEmpty(&stored.GivenName, in.GivenName)
	keepNonEmpty(&stored.FamilyName, in.FamilyName)
	keepNonEmpty(&stored.PictureURL, in.PictureURL)
	stored.UpdatedAt = ts
	r.byID[in.ID] = stored
	return stored, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	u, ok := r.byID[userID]
	r.mu.RUnlock()
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func keepNonEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
