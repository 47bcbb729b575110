package timeparse

import (
	"context"
	"time"
)

// MockResolver is a mock implementation of Resolver for testing.
type MockResolver struct {
	// FixedToday can be set to anchor every Resolve call on a fixed date.
	FixedToday *time.Time

	parser *Parser
}

var _ Resolver = (*MockResolver)(nil)

// NewMockResolver creates a new MockResolver backed by the default parser.
func NewMockResolver() *MockResolver {
	return &MockResolver{parser: NewParser()}
}

func (m *MockResolver) Resolve(ctx context.Context, text string) (Predicate, error) {
	today := time.Now()
	if m.FixedToday != nil {
		today = *m.FixedToday
	}
	return m.ResolveAt(ctx, text, today)
}

func (m *MockResolver) ResolveAt(_ context.Context, text string, today time.Time) (Predicate, error) {
	return m.parser.Resolve(text, today)
}
