// Package reschedule implements the order reschedule decision engine:
// eligibility analysis, request validation and plan building over planned
// orders.
//
// Key properties:
//   - "today" is captured once per top-level call and threaded through every
//     nested computation, so a batch spanning midnight stays consistent
//   - per-order failures are data in the result, never errors
//   - analysis, validation and planning are pure given the captured date
package reschedule

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/replanhq/replan/plugin/timeparse"
	planerrors "github.com/replanhq/replan/server/internal/errors"
	"github.com/replanhq/replan/server/internal/observability"
	"github.com/replanhq/replan/server/queryengine"
	"github.com/replanhq/replan/store"
)

// clarificationSuggestions is offered when a query's time phrase cannot be
// understood.
var clarificationSuggestions = []string{
	"Try specifying a date range like 'between Jan 1 and Jan 15'",
	"Use relative dates like 'next week' or 'in 30 days'",
	"Specify comparison dates like 'before December 25' or 'after next Friday'",
	"For overdue items, use words like 'overdue', 'late', or 'past due'",
	"Examples: 'make orders due tomorrow', 'buy orders overdue', 'orders this month'",
}

type service struct {
	store  Store
	engine *queryengine.Engine
	logger *slog.Logger
	now    Clock
}

// Store is the interface for store operations needed by the reschedule
// service.
type Store interface {
	ListOrders(ctx context.Context, find *store.FindOrder) ([]*store.Order, error)
	UpdateOrder(ctx context.Context, update *store.UpdateOrder) error
}

// NewService creates a new reschedule service.
func NewService(st Store, engine *queryengine.Engine, logger *slog.Logger) Service {
	return &service{
		store:  st,
		engine: engine,
		logger: logger,
		now:    time.Now,
	}
}

// NewServiceWithClock creates a service with an injected clock, for tests.
func NewServiceWithClock(st Store, engine *queryengine.Engine, logger *slog.Logger, now Clock) Service {
	return &service{
		store:  st,
		engine: engine,
		logger: logger,
		now:    now,
	}
}

// AnalyzeEligibility classifies orders by reschedule eligibility. The
// current date is captured once here and reused for the whole batch.
func (s *service) AnalyzeEligibility(ctx context.Context, ids []string) (*EligibilityReport, error) {
	opCtx := observability.NewOperationContext(s.logger, "analyze_eligibility", "")
	defer s.finish(opCtx)

	orders, err := s.loadOrders(ctx, ids)
	if err != nil {
		return nil, err
	}

	report := Analyze(orders, s.now())
	opCtx.Info("analyzed reschedule eligibility",
		slog.Int(observability.LogFieldOrderCount, report.Summary.TotalOrders),
		slog.Int("can_prepone", report.Summary.CanPrepone),
		slog.Int("postpone_only", report.Summary.PostponeOnly))
	return report, nil
}

// ValidateRequest checks a reschedule request without committing anything.
func (s *service) ValidateRequest(ctx context.Context, request *Request) (*ValidationReport, error) {
	opCtx := observability.NewOperationContext(s.logger, "validate_request", "")
	defer s.finish(opCtx)

	if err := checkRequest(request); err != nil {
		return nil, err
	}

	orders, err := s.loadOrders(ctx, request.OrderIDs)
	if err != nil {
		return nil, err
	}

	today := s.now()
	report := Validate(request, Analyze(orders, today).Analyses, today)
	opCtx.Info("validated reschedule request",
		slog.Int(observability.LogFieldOrderCount, len(report.Validations)),
		slog.Bool("can_proceed", report.CanProceed))
	return report, nil
}

// BuildPlan produces a partitioned reschedule plan for the requested orders.
func (s *service) BuildPlan(ctx context.Context, request *Request) (*Plan, error) {
	opCtx := observability.NewOperationContext(s.logger, "build_plan", "")
	defer s.finish(opCtx)

	if err := checkRequest(request); err != nil {
		return nil, err
	}

	orders, err := s.loadOrders(ctx, request.OrderIDs)
	if err != nil {
		return nil, err
	}

	now := s.now()
	plan := BuildPlan(Analyze(orders, now).Analyses, request, now)
	opCtx.Info("built reschedule plan",
		slog.String("plan_uid", plan.UID),
		slog.Int("valid_orders", len(plan.ValidOrders)),
		slog.Int("invalid_orders", len(plan.InvalidOrders)))
	return plan, nil
}

// ExecutePlan applies a plan's valid orders to storage. Update failures are
// reported in the result, keeping the batch partial-success contract.
func (s *service) ExecutePlan(ctx context.Context, plan *Plan) (*ExecutionResult, error) {
	opCtx := observability.NewOperationContext(s.logger, "execute_plan", "")
	defer s.finish(opCtx)

	if plan == nil || len(plan.ValidOrders) == 0 {
		return nil, planerrors.InvalidArgument("no valid orders to reschedule in the plan")
	}

	result := &ExecutionResult{PlanUID: plan.UID, TotalCount: len(plan.ValidOrders)}
	for _, entry := range plan.ValidOrders {
		newDate, err := time.Parse(timeparse.DateLayout, entry.NewDueDate)
		if err != nil {
			result.Failed = append(result.Failed, entry.OrderID)
			continue
		}
		update := &store.UpdateOrder{ID: entry.OrderID, DueDate: &newDate}
		if err := s.store.UpdateOrder(ctx, update); err != nil {
			opCtx.Warn("order update failed",
				slog.String("order_id", entry.OrderID),
				slog.String("error", err.Error()))
			result.Failed = append(result.Failed, entry.OrderID)
			continue
		}
		result.Applied = append(result.Applied, entry.OrderID)
	}

	observability.GlobalMetrics().RecordOrdersProcessed(len(result.Applied))
	opCtx.Info("executed reschedule plan",
		slog.String("plan_uid", plan.UID),
		slog.Int("applied", len(result.Applied)),
		slog.Int("failed", len(result.Failed)))
	return result, nil
}

// QueryOrders answers a natural language order query. An unintelligible time
// phrase does not fail the call; it returns clarification suggestions.
func (s *service) QueryOrders(ctx context.Context, query string) (*QueryResponse, error) {
	opCtx := observability.NewOperationContext(s.logger, "query_orders", "")
	defer s.finish(opCtx)

	orders, err := s.store.ListOrders(ctx, &store.FindOrder{})
	if err != nil {
		return nil, planerrors.DataLoadFailed("failed to load orders", err)
	}

	result, err := s.engine.Query(ctx, orders, query, s.now())
	if err != nil {
		if timeparse.IsParseError(err) {
			opCtx.Warn("query needs clarification",
				slog.String(observability.LogFieldQuery, query))
			return &QueryResponse{
				NeedsClarification: true,
				Suggestions:        clarificationSuggestions,
			}, nil
		}
		return nil, planerrors.PlanningFailed("query failed", err)
	}

	opCtx.Info("answered order query",
		slog.String(observability.LogFieldQuery, query),
		slog.Int(observability.LogFieldOrderCount, result.Count))
	return &QueryResponse{Orders: result.Orders, Count: result.Count}, nil
}

// loadOrders fetches the orders with the given ids, or every order when ids
// is empty. An empty result is an error: every exposed operation needs at
// least one order to act on.
func (s *service) loadOrders(ctx context.Context, ids []string) ([]*store.Order, error) {
	find := &store.FindOrder{}
	if len(ids) > 0 {
		find.IDs = ids
	}
	orders, err := s.store.ListOrders(ctx, find)
	if err != nil {
		return nil, planerrors.DataLoadFailed("failed to load orders", err)
	}
	if len(orders) == 0 {
		return nil, planerrors.OrderNotFound("No orders found matching the criteria")
	}
	return orders, nil
}

func checkRequest(request *Request) error {
	if request == nil {
		return planerrors.InvalidArgument("request is required")
	}
	if len(request.OrderIDs) == 0 {
		return planerrors.InvalidArgument("No order IDs provided for validation")
	}
	switch strings.ToLower(request.RescheduleType) {
	case TypePrepone, TypePostpone:
		return nil
	case "":
		return planerrors.InvalidArgument("No reschedule type specified")
	default:
		return planerrors.InvalidArgument("reschedule type must be 'prepone' or 'postpone'")
	}
}

func (s *service) finish(opCtx *observability.OperationContext) {
	observability.GlobalMetrics().RecordRequest(opCtx.Operation)
	observability.GlobalMetrics().RecordDuration(opCtx.Operation, opCtx.Duration())
}
