package users

import (
	"context"
	"errors"

	"jobsearch-backend/internal/coverletters"
	"jobsearch-backend/internal/favorites"
	"jobsearch-backend/internal/resumes"
)

// FavoritesActivity counts saved postings.
type FavoritesActivity struct{ Repo favorites.Repo }

func (a FavoritesActivity) Fill(ctx context.Context, userID string, out *Activity) error {
	favs, err := a.Repo.List(ctx, userID)
	if err != nil {
		return err
	}
	out.Favorites = len(favs)
	return nil
}

// CoverLettersActivity counts generated letters.
type CoverLettersActivity struct{ Repo coverletters.Repo }

func (a CoverLettersActivity) Fill(ctx context.Context, userID string, out *Activity) error {
	letters, err := a.Repo.List(ctx, userID)
	if err != nil {
		return err
	}
	out.CoverLetters = len(letters)
	return nil
}

// ResumeActivity reports the résumé form status and the next step to fill in.
type ResumeActivity struct{ Repo resumes.Repo }

func (a ResumeActivity) Fill(ctx context.Context, userID string, out *Activity) error {
	res, err := a.Repo.Get(ctx, userID)
	if errors.Is(err, resumes.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	out.ResumeStatus = string(res.Status)
	if res.Status != resumes.StatusSubmitted {
		out.ResumeStep = string(res.Data.NextStep())
	}
	return nil
}
