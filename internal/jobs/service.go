package jobs

import (
	"context"
	"errors"
	"strings"

	"jobsearch-backend/internal/shared/telemetry"
)

// Service exposes posting queries.
type Service struct {
	Repo     Repo
	Searcher Searcher
}

// NewService constructs a Service. searcher may be nil.
func NewService(repo Repo, searcher Searcher) *Service {
	return &Service{Repo: repo, Searcher: searcher}
}

// List returns postings matching filter, newest first. Text queries go through the
// searcher when one is configured and fall back to the repository otherwise.
func (s *Service) List(ctx context.Context, filter Filter) ([]Posting, error) {
	filter = filter.Normalize()
	if filter.Query != "" && s.Searcher != nil {
		out, err := s.search(ctx, filter)
		if err == nil {
			return out, nil
		}
		telemetry.Warn("jobs.search_fallback", map[string]any{"query": filter.Query, "err": err})
	}
	return s.Repo.List(ctx, filter)
}

func (s *Service) search(ctx context.Context, filter Filter) ([]Posting, error) {
	ids, err := s.Searcher.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]Posting, 0, len(ids))
	for _, id := range ids {
		p, err := s.Repo.Get(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// index may lag behind deletes
				continue
			}
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Get returns a posting by id.
func (s *Service) Get(ctx context.Context, id string) (Posting, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Posting{}, ErrInvalidInput
	}
	return s.Repo.Get(ctx, id)
}
