package users

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("user not found")

// Repo stores login profiles. Upsert returns the stored row with its timestamps.
type Repo interface {
	Upsert(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, userID string) (User, error)
}
