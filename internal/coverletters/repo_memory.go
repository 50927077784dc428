package coverletters

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo for dev and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]Letter
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: map[string]Letter{}}
}

func (r *MemoryRepo) Create(ctx context.Context, l Letter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[l.ID] = l
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, userID string) ([]Letter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Letter{}
	for _, l := range r.items {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, id string) (Letter, error) {
	if err := ctx.Err(); err != nil {
		return Letter{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.items[id]
	if !ok || l.UserID != userID {
		return Letter{}, ErrNotFound
	}
	return l, nil
}

func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	moved := 0
	for id, l := range r.items {
		if l.UserID == guestUserID {
			l.UserID = authedUserID
			r.items[id] = l
			moved++
		}
	}
	return moved, nil
}
