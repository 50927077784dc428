package favorites

import (
	"errors"
	"time"

	"jobsearch-backend/internal/jobs"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Favorite marks a posting saved by a user.
type Favorite struct {
	UserID    string    `json:"-"`
	JobID     string    `json:"jobId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Entry is a favorite joined with its posting.
type Entry struct {
	Favorite
	Job jobs.Posting `json:"job"`
}
