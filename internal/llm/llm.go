package llm

import (
	"context"
	"errors"

	"jobsearch-backend/internal/shared/util"
)

// Client abstracts LLM providers for text generation.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// Request is a single chat turn with an optional system instruction.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Response carries the generated text and token accounting when the provider reports it.
type Response struct {
	Text        string
	Model       string
	TotalTokens int64
}

// PromptHash returns a stable identifier for a request's prompt text.
func (r Request) PromptHash() string {
	return util.Digest(r.System, r.Prompt)
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// Complete returns ErrNotImplemented.
func (PlaceholderClient) Complete(ctx context.Context, req Request) (Response, error) {
	return Response{}, ErrNotImplemented
}
