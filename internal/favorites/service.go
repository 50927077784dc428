package favorites

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobsearch-backend/internal/jobs"
)

// Postings resolves job ids.
type Postings interface {
	Get(ctx context.Context, id string) (jobs.Posting, error)
}

// Service manages a user's saved postings.
type Service struct {
	Repo Repo
	Jobs Postings
	Now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, postings Postings) *Service {
	return &Service{Repo: repo, Jobs: postings, Now: time.Now}
}

// Add saves jobID for userID. Re-adding keeps the original timestamp.
func (s *Service) Add(ctx context.Context, userID, jobID string) (Favorite, error) {
	userID, jobID = strings.TrimSpace(userID), strings.TrimSpace(jobID)
	if userID == "" || jobID == "" {
		return Favorite{}, ErrInvalidInput
	}
	if _, err := s.Jobs.Get(ctx, jobID); err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return Favorite{}, ErrNotFound
		}
		return Favorite{}, fmt.Errorf("lookup job: %w", err)
	}
	return s.Repo.Add(ctx, Favorite{UserID: userID, JobID: jobID, CreatedAt: s.Now().UTC()})
}

// Remove deletes a favorite. Removing a missing favorite is not an error.
func (s *Service) Remove(ctx context.Context, userID, jobID string) error {
	userID, jobID = strings.TrimSpace(userID), strings.TrimSpace(jobID)
	if userID == "" || jobID == "" {
		return ErrInvalidInput
	}
	return s.Repo.Remove(ctx, userID, jobID)
}

// List returns the user's favorites newest first, skipping postings that no longer exist.
func (s *Service) List(ctx context.Context, userID string) ([]Entry, error) {
	favs, err := s.Repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(favs))
	for _, fav := range favs {
		p, err := s.Jobs.Get(ctx, fav.JobID)
		if err != nil {
			if errors.Is(err, jobs.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("lookup job %s: %w", fav.JobID, err)
		}
		out = append(out, Entry{Favorite: fav, Job: p})
	}
	return out, nil
}

// IsFavorite reports whether the user saved jobID.
func (s *Service) IsFavorite(ctx context.Context, userID, jobID string) (bool, error) {
	return s.Repo.Exists(ctx, userID, jobID)
}
