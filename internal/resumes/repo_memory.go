package resumes

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Resume // userId -> resume
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Resume)}
}

func (r *MemoryRepo) Get(ctx context.Context, userID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.data[userID]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return cloneResume(res)
}

func (r *MemoryRepo) Save(ctx context.Context, res Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp, err := cloneResume(res)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.data[res.UserID] = cp
	r.mu.Unlock()
	return nil
}

// ClaimGuest moves the guest résumé unless the authed user already has one.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	guest, ok := r.data[guestUserID]
	if !ok {
		return 0, nil
	}
	if _, exists := r.data[authedUserID]; exists {
		return 0, nil
	}
	guest.UserID = authedUserID
	r.data[authedUserID] = guest
	delete(r.data, guestUserID)
	return 1, nil
}

// cloneResume deep-copies the step data so callers cannot mutate stored state.
func cloneResume(res Resume) (Resume, error) {
	raw, err := json.Marshal(res.Data)
	if err != nil {
		return Resume{}, err
	}
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return Resume{}, err
	}
	res.Data = data
	if res.SubmittedAt != nil {
		t := *res.SubmittedAt
		res.SubmittedAt = &t
	}
	return res, nil
}
