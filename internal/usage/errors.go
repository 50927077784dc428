package usage

import "errors"

var (
	// ErrLimitReached means the generation would exceed the weekly quota.
	ErrLimitReached = errors.New("generation limit reached")
	ErrInvalidInput = errors.New("invalid usage request")
)
