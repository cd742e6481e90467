package generation

import "context"

// Client generates consultation text from a prepared prompt. Implementations
// must return sentinel.ErrUnavailable (wrapped) when the backend cannot be
// reached so callers can degrade gracefully.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}
