package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"jobsearch-backend/internal/coverletters"
	"jobsearch-backend/internal/favorites"
	"jobsearch-backend/internal/resumes"
	"jobsearch-backend/internal/shared/telemetry"
)

var ErrInvalidInput = errors.New("invalid claim")

// Claimer moves rows owned by a guest identity to a logged-in user.
type Claimer interface {
	ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error)
}

// Service merges guest data into a user account. When DB is set the claim runs in one transaction.
type Service struct {
	DB           *sql.DB
	Favorites    Claimer
	Resumes      Claimer
	CoverLetters Claimer
}

type ClaimResult struct {
	MigratedFavorites    int `json:"migratedFavorites"`
	MigratedResumes      int `json:"migratedResumes"`
	MigratedCoverLetters int `json:"migratedCoverLetters"`
}

func NewService(favs, res, letters Claimer) *Service {
	return &Service{Favorites: favs, Resumes: res, CoverLetters: letters}
}

// NewPGService claims everything inside a single Postgres transaction.
func NewPGService(db *sql.DB) *Service {
	return &Service{DB: db}
}

func (s *Service) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (ClaimResult, error) {
	if strings.TrimSpace(guestUserID) == "" || strings.TrimSpace(authedUserID) == "" {
		return ClaimResult{}, fmt.Errorf("%w: guest and user ids are required", ErrInvalidInput)
	}
	if guestUserID == authedUserID {
		return ClaimResult{}, fmt.Errorf("%w: cannot claim into the same identity", ErrInvalidInput)
	}

	var (
		result ClaimResult
		err    error
	)
	if s.DB != nil {
		result, err = claimWithTx(ctx, s.DB, guestUserID, authedUserID)
	} else {
		result, err = s.claimEach(ctx, guestUserID, authedUserID)
	}
	if err != nil {
		return ClaimResult{}, err
	}
	telemetry.Info("account.claim_guest", map[string]any{
		"user_id":       authedUserID,
		"favorites":     result.MigratedFavorites,
		"resumes":       result.MigratedResumes,
		"cover_letters": result.MigratedCoverLetters,
	})
	return result, nil
}

func claimWithTx(ctx context.Context, db *sql.DB, guestUserID, authedUserID string) (ClaimResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ClaimResult{}, err
	}
	defer tx.Rollback()

	var result ClaimResult
	if result.MigratedFavorites, err = favorites.ClaimGuestTx(ctx, tx, guestUserID, authedUserID); err != nil {
		return ClaimResult{}, fmt.Errorf("claim favorites: %w", err)
	}
	if result.MigratedResumes, err = resumes.ClaimGuestTx(ctx, tx, guestUserID, authedUserID); err != nil {
		return ClaimResult{}, fmt.Errorf("claim resume: %w", err)
	}
	if result.MigratedCoverLetters, err = coverletters.ClaimGuestTx(ctx, tx, guestUserID, authedUserID); err != nil {
		return ClaimResult{}, fmt.Errorf("claim cover letters: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return ClaimResult{}, err
	}
	return result, nil
}

func (s *Service) claimEach(ctx context.Context, guestUserID, authedUserID string) (ClaimResult, error) {
	var (
		result ClaimResult
		err    error
	)
	if result.MigratedFavorites, err = claim(ctx, s.Favorites, guestUserID, authedUserID); err != nil {
		return ClaimResult{}, fmt.Errorf("claim favorites: %w", err)
	}
	if result.MigratedResumes, err = claim(ctx, s.Resumes, guestUserID, authedUserID); err != nil {
		return ClaimResult{}, fmt.Errorf("claim resume: %w", err)
	}
	if result.MigratedCoverLetters, err = claim(ctx, s.CoverLetters, guestUserID, authedUserID); err != nil {
		return ClaimResult{}, fmt.Errorf("claim cover letters: %w", err)
	}
	return result, nil
}

func claim(ctx context.Context, c Claimer, guestUserID, authedUserID string) (int, error) {
	if c == nil {
		return 0, nil
	}
	return c.ClaimGuest(ctx, guestUserID, authedUserID)
}
