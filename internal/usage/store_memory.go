package usage

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string]Usage
	now  func() time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		data: make(map[string]Usage),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// current returns the user's usage with the window rolled over. Callers hold mu.
func (s *memoryStore) current(userID string) Usage {
	now := s.now()
	u, ok := s.data[userID]
	if !ok {
		u = defaultUsage(now)
	}
	u, _ = rollover(u, now)
	return u
}

func (s *memoryStore) EnsurePeriod(ctx context.Context, userID string) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.current(userID)
	s.data[userID] = u
	return u, nil
}

func (s *memoryStore) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.current(userID)
	if n > 0 && u.Used+n > u.Limit {
		s.data[userID] = u
		return Usage{}, ErrLimitReached
	}
	if n > 0 {
		u.Used += n
	}
	s.data[userID] = u
	return u, nil
}

func (s *memoryStore) Refund(ctx context.Context, userID string, n int) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.current(userID)
	if n > 0 {
		u.Used -= n
		if u.Used < 0 {
			u.Used = 0
		}
	}
	s.data[userID] = u
	return u, nil
}

func (s *memoryStore) Reset(ctx context.Context, userID string) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.current(userID)
	u.Used = 0
	u.ResetsAt = s.now().Add(window)
	s.data[userID] = u
	return u, nil
}
