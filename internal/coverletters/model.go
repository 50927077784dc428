package coverletters

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("cover letter not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrJobNotFound  = errors.New("job not found")
	ErrNoResume     = errors.New("no resume available")
)

const (
	previewChars = 280
	contentType  = "text/plain; charset=utf-8"
)

// Letter is the stored record of a generated cover letter. The text itself lives in object storage.
type Letter struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	JobID      string    `json:"jobId"`
	Tone       string    `json:"tone"`
	StorageKey string    `json:"-"`
	Preview    string    `json:"preview"`
	Model      string    `json:"model,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// GenerateRequest carries the caller's options for one letter.
type GenerateRequest struct {
	Tone       string   `json:"tone"`
	Highlights []string `json:"highlights"`
	// ResumeText overrides the saved résumé form when set.
	ResumeText string `json:"resumeText"`
}

// Generated is a new letter together with its full text.
type Generated struct {
	Letter
	Content string `json:"content"`
}

var tones = map[string]bool{
	"":             true,
	"professional": true,
	"friendly":     true,
	"confident":    true,
	"concise":      true,
}
