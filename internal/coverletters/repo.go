package coverletters

import "context"

// Repo stores cover letter records.
type Repo interface {
	Create(ctx context.Context, l Letter) error
	List(ctx context.Context, userID string) ([]Letter, error)
	Get(ctx context.Context, userID, id string) (Letter, error)
	ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error)
}
