package generation

import (
	"context"
	"fmt"
)

// MockClient is a deterministic Client for tests and local development
// without a generation backend.
type MockClient struct {
	// GenerateFunc, when set, overrides the default canned response.
	GenerateFunc func(ctx context.Context, req Request) (string, error)

	Calls []Request
}

// Generate records the call and returns a canned response describing it.
func (m *MockClient) Generate(ctx context.Context, req Request) (string, error) {
	m.Calls = append(m.Calls, req)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return fmt.Sprintf("mock %s for calculation %s", req.ContentType, req.CalculationID), nil
}
