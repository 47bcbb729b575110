package timeparse

import (
	"context"
	"time"
)

// Service is the default Resolver backed by the rule parser. The clock is
// injectable for tests; it is consulted exactly once per Resolve call so a
// request never straddles a midnight boundary.
type Service struct {
	parser *Parser
	now    func() time.Time
}

var _ Resolver = (*Service)(nil)

// NewService creates a resolver service with the default configuration.
func NewService() *Service {
	return NewServiceWithConfig(DefaultConfig())
}

// NewServiceWithConfig creates a resolver service with the given
// configuration. It panics if the configuration is invalid.
func NewServiceWithConfig(cfg *Config) *Service {
	return &Service{
		parser: NewParserWithConfig(cfg),
		now:    time.Now,
	}
}

// WithClock overrides the clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Resolve(ctx context.Context, text string) (Predicate, error) {
	return s.ResolveAt(ctx, text, s.now())
}

func (s *Service) ResolveAt(_ context.Context, text string, today time.Time) (Predicate, error) {
	return s.parser.Resolve(text, today)
}
