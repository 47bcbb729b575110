package queryengine

import (
	"context"
	"time"

	"github.com/replanhq/replan/plugin/timeparse"
	"github.com/replanhq/replan/store"
)

// Engine combines the time expression resolver with the keyword router and
// the order filters. It operates on order snapshots handed in by the caller
// and performs no storage access of its own.
type Engine struct {
	resolver timeparse.Resolver
	router   *Router
}

// QueryResult is the outcome of a natural language order query.
type QueryResult struct {
	// Params are the parameters the router extracted.
	Params QueryParams
	// Orders is the matching subset, capped at the configured maximum,
	// in the input order. Empty for count queries.
	Orders []*store.Order
	// Count is the number of matches before the cap.
	Count int
}

// NewEngine creates an engine with the given resolver and a default router.
func NewEngine(resolver timeparse.Resolver) *Engine {
	return NewEngineWithRouter(resolver, NewRouter())
}

// NewEngineWithRouter creates an engine with explicit collaborators.
func NewEngineWithRouter(resolver timeparse.Resolver, router *Router) *Engine {
	return &Engine{resolver: resolver, router: router}
}

// Router exposes the engine's router.
func (e *Engine) Router() *Router {
	return e.router
}

// ResolveAndFilter resolves a time expression relative to today and returns
// the orders whose due date satisfies it. An unparseable expression
// surfaces as a timeparse.ParseError.
func (e *Engine) ResolveAndFilter(ctx context.Context, orders []*store.Order, text string, today time.Time) ([]*store.Order, error) {
	pred, err := e.resolver.ResolveAt(ctx, text, today)
	if err != nil {
		return nil, err
	}
	return FilterOrdersByDate(orders, pred), nil
}

// Query runs a full natural language query against an order snapshot: the
// router extracts parameters, the resolver handles the time phrase, and the
// filters narrow the set. A query whose remainder is not a recognizable
// time phrase is treated as having no time component only when the
// remainder is empty; otherwise the parse failure propagates so the caller
// can ask for clarification.
func (e *Engine) Query(ctx context.Context, orders []*store.Order, query string, today time.Time) (*QueryResult, error) {
	decision := e.router.Route(ctx, query)
	params := decision.Params

	matched := orders
	if params.TimeExpression != "" {
		var err error
		matched, err = e.ResolveAndFilter(ctx, matched, params.TimeExpression, today)
		if err != nil {
			return nil, err
		}
	}
	matched = FilterOrdersByItemType(matched, params.ItemType)
	if params.RescheduleNeeded {
		matched = FilterOrdersNeedingReschedule(matched)
	}

	result := &QueryResult{Params: params, Count: len(matched)}
	if params.QueryType == QueryTypeCount {
		return result, nil
	}
	if max := e.router.GetConfig().QueryLimits.MaxResults; len(matched) > max {
		matched = matched[:max]
	}
	result.Orders = matched
	return result, nil
}
