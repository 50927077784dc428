package users

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"jobsearch-backend/internal/shared/telemetry"
)

// ActivitySource reports one part of a user's job search activity.
type ActivitySource interface {
	Fill(ctx context.Context, userID string, a *Activity) error
}

type Service struct {
	Repo     Repo
	Activity []ActivitySource
}

func NewService(repo Repo, activity ...ActivitySource) *Service {
	return &Service{Repo: repo, Activity: activity}
}

// UpsertFromAuth persists the identity returned by the OAuth provider.
func (s *Service) UpsertFromAuth(ctx context.Context, user User) error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	user.ID = strings.TrimSpace(user.ID)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.ID == "" || user.Email == "" {
		return errors.New("user id and email are required")
	}
	saved, err := s.Repo.Upsert(ctx, user)
	if err != nil {
		return err
	}
	if saved.CreatedAt.Equal(saved.UpdatedAt) {
		telemetry.Info("users.created", map[string]any{"user_id": saved.ID})
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

// ActivityFor gathers favorites, cover letters and résumé progress. Sources run concurrently
// and each writes only its own fields.
func (s *Service) ActivityFor(ctx context.Context, userID string) (Activity, error) {
	parts := make([]Activity, len(s.Activity))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range s.Activity {
		i, src := i, src
		g.Go(func() error {
			return src.Fill(gctx, userID, &parts[i])
		})
	}
	if err := g.Wait(); err != nil {
		return Activity{}, err
	}
	out := Activity{ResumeStatus: "none"}
	for _, p := range parts {
		out.Favorites += p.Favorites
		out.CoverLetters += p.CoverLetters
		if p.ResumeStatus != "" {
			out.ResumeStatus = p.ResumeStatus
			out.ResumeStep = p.ResumeStep
		}
	}
	return out, nil
}
