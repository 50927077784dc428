package usage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobsearch-backend/internal/shared/telemetry"
)

// Store persists quota windows. Consume must be atomic per user.
type Store interface {
	EnsurePeriod(ctx context.Context, userID string) (Usage, error)
	Consume(ctx context.Context, userID string, n int) (Usage, error)
	Refund(ctx context.Context, userID string, n int) (Usage, error)
	Reset(ctx context.Context, userID string) (Usage, error)
}

// Service meters cover letter generations per user.
type Service struct {
	store Store
}

// NewService returns a Service backed by process memory.
func NewService() *Service {
	return &Service{store: newMemoryStore()}
}

// NewPostgresService returns a Service backed by the usage table.
func NewPostgresService(store Store) *Service {
	return &Service{store: store}
}

func checkUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return nil
}

// Get returns the user's usage, opening a fresh window when the last one ended.
func (s *Service) Get(ctx context.Context, userID string) (Usage, error) {
	if err := checkUser(userID); err != nil {
		return Usage{}, err
	}
	return s.store.EnsurePeriod(ctx, userID)
}

// Consume takes n units or fails with ErrLimitReached, leaving usage unchanged.
func (s *Service) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	if err := checkUser(userID); err != nil {
		return Usage{}, err
	}
	if n <= 0 {
		return Usage{}, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	u, err := s.store.Consume(ctx, userID, n)
	if errors.Is(err, ErrLimitReached) {
		telemetry.Warn("usage.limit_reached", map[string]any{"user_id": userID})
	}
	return u, err
}

// Refund returns n units after a failed generation. Used never drops below zero.
func (s *Service) Refund(ctx context.Context, userID string, n int) (Usage, error) {
	if err := checkUser(userID); err != nil {
		return Usage{}, err
	}
	if n <= 0 {
		return s.store.EnsurePeriod(ctx, userID)
	}
	return s.store.Refund(ctx, userID, n)
}

// Reset zeroes usage and restarts the window. Exposed on dev routes only.
func (s *Service) Reset(ctx context.Context, userID string) (Usage, error) {
	if err := checkUser(userID); err != nil {
		return Usage{}, err
	}
	return s.store.Reset(ctx, userID)
}
