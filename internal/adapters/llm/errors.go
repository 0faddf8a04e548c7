package llm

import "errors"

var (
	// ErrNotConfigured is returned by an absent capability.
	ErrNotConfigured = errors.New("language model not configured")
	// ErrEmptyCompletion is returned when a provider answers without text.
	ErrEmptyCompletion = errors.New("empty completion")
	// ErrUnknownProvider is returned for a provider name New does not know.
	ErrUnknownProvider = errors.New("unknown provider")
)
