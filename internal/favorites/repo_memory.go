package favorites

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]map[string]Favorite // userId -> jobId -> favorite
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]map[string]Favorite)}
}

func (r *MemoryRepo) Add(ctx context.Context, fav Favorite) (Favorite, error) {
	if err := ctx.Err(); err != nil {
		return Favorite{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	byJob, ok := r.data[fav.UserID]
	if !ok {
		byJob = make(map[string]Favorite)
		r.data[fav.UserID] = byJob
	}
	if existing, ok := byJob[fav.JobID]; ok {
		return existing, nil
	}
	byJob[fav.JobID] = fav
	return fav, nil
}

func (r *MemoryRepo) Remove(ctx context.Context, userID, jobID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data[userID], jobID)
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, userID string) ([]Favorite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Favorite, 0, len(r.data[userID]))
	for _, fav := range r.data[userID] {
		out = append(out, fav)
	}
	r.mu.RUnlock()
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepo) Exists(ctx context.Context, userID, jobID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.data[userID][jobID]
	return ok, nil
}

// ClaimGuest moves guest favorites to the authed user. On overlap the older timestamp wins.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	guest := r.data[guestUserID]
	if len(guest) == 0 {
		return 0, nil
	}
	target, ok := r.data[authedUserID]
	if !ok {
		target = make(map[string]Favorite)
		r.data[authedUserID] = target
	}
	moved := 0
	for jobID, fav := range guest {
		fav.UserID = authedUserID
		if existing, ok := target[jobID]; ok && !fav.CreatedAt.Before(existing.CreatedAt) {
			continue
		}
		target[jobID] = fav
		moved++
	}
	delete(r.data, guestUserID)
	return moved, nil
}

func sortNewestFirst(favs []Favorite) {
	sort.Slice(favs, func(i, j int) bool {
		if favs[i].CreatedAt.Equal(favs[j].CreatedAt) {
			return favs[i].JobID < favs[j].JobID
		}
		return favs[i].CreatedAt.After(favs[j].CreatedAt)
	})
}
