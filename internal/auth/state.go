package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateStore holds OAuth state values between /start and /callback. The value carries the
// guest id that started the login so the UI can claim it afterwards.
type StateStore interface {
	Put(ctx context.Context, state, guestID string, ttl time.Duration) error
	// Consume returns the stored guest id and whether the state was valid. A state is usable once.
	Consume(ctx context.Context, state string) (string, bool, error)
}

type memoryState struct {
	guestID string
	expires time.Time
}

// MemoryStateStore keeps states in process. Only suitable for a single replica.
type MemoryStateStore struct {
	mu    sync.Mutex
	items map[string]memoryState
	now   func() time.Time
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{items: make(map[string]memoryState), now: time.Now}
}

func (s *MemoryStateStore) Put(_ context.Context, state, guestID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, v := range s.items {
		if now.After(v.expires) {
			delete(s.items, k)
		}
	}
	s.items[state] = memoryState{guestID: guestID, expires: now.Add(ttl)}
	return nil
}

func (s *MemoryStateStore) Consume(_ context.Context, state string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[state]
	delete(s.items, state)
	if !ok || s.now().After(item.expires) {
		return "", false, nil
	}
	return item.guestID, true, nil
}

// RedisStateStore shares states across API replicas.
type RedisStateStore struct {
	client redis.Cmdable
}

func NewRedisStateStore(client redis.Cmdable) *RedisStateStore {
	return &RedisStateStore{client: client}
}

func stateKey(state string) string { return "oauth:state:" + state }

func (s *RedisStateStore) Put(ctx context.Context, state, guestID string, ttl time.Duration) error {
	return s.client.Set(ctx, stateKey(state), guestID, ttl).Err()
}

func (s *RedisStateStore) Consume(ctx context.Context, state string) (string, bool, error) {
	guestID, err := s.client.GetDel(ctx, stateKey(state)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return guestID, true, nil
}
