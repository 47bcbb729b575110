package timeparse

import (
	"context"
	"time"
)

// Resolver turns natural language date expressions into date predicates.
type Resolver interface {
	// Resolve parses the expression relative to the current date.
	Resolve(ctx context.Context, text string) (Predicate, error)

	// ResolveAt parses the expression relative to the given date. Every
	// relative calculation in one call anchors on that single date.
	ResolveAt(ctx context.Context, text string, today time.Time) (Predicate, error)
}
