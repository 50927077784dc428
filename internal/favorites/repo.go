package favorites

import "context"

// Repo persists favorites. Add and Remove are idempotent.
type Repo interface {
	Add(ctx context.Context, fav Favorite) (Favorite, error)
	Remove(ctx context.Context, userID, jobID string) error
	List(ctx context.Context, userID string) ([]Favorite, error)
	Exists(ctx context.Context, userID, jobID string) (bool, error)
	ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error)
}
