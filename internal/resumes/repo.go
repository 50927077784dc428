package resumes

import "context"

// Repo persists one résumé per user.
type Repo interface {
	Get(ctx context.Context, userID string) (Resume, error)
	Save(ctx context.Context, r Resume) error
	ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error)
}
