package reschedule

import (
	"context"
	"time"

	"github.com/replanhq/replan/store"
)

// Service defines the core business logic interface for order rescheduling.
// Orders are analyzed, validated and planned as a batch; a single ineligible
// order is reported inside the result, never as an error, so one bad order
// can never block the rest of the batch.
type Service interface {
	// AnalyzeEligibility classifies the given orders (all orders when ids
	// is empty) by how they may be rescheduled relative to today.
	AnalyzeEligibility(ctx context.Context, ids []string) (*EligibilityReport, error)

	// ValidateRequest checks a reschedule request against the orders'
	// eligibility without committing anything.
	ValidateRequest(ctx context.Context, request *Request) (*ValidationReport, error)

	// BuildPlan produces a reschedule plan partitioned into valid and
	// invalid orders. The plan is a value object; executing it is the
	// caller's concern.
	BuildPlan(ctx context.Context, request *Request) (*Plan, error)

	// ExecutePlan applies a plan's valid orders to storage. Orders that
	// fail to update are reported in the result, not raised.
	ExecutePlan(ctx context.Context, plan *Plan) (*ExecutionResult, error)

	// QueryOrders answers a natural language order query against current
	// data.
	QueryOrders(ctx context.Context, query string) (*QueryResponse, error)
}

// Analysis is the eligibility classification of one order.
type Analysis struct {
	OrderID        string `json:"planned_order_id"`
	Item           string `json:"item"`
	CurrentDate    string `json:"current_date"`
	DueDate        string `json:"suggested_due_date"`
	DaysFromToday  int    `json:"days_from_today"`
	CanPrepone     bool   `json:"can_prepone"`
	CanPostpone    bool   `json:"can_postpone"`
	MaxPreponeDays int    `json:"max_prepone_days"`
	Status         string `json:"status"`
	Recommendation string `json:"recommendation"`
}

// Summary aggregates an eligibility analysis.
type Summary struct {
	TotalOrders  int `json:"total_orders"`
	CanPrepone   int `json:"can_prepone"`
	PostponeOnly int `json:"postpone_only"`
}

// EligibilityReport is the result of analyzing a batch of orders.
type EligibilityReport struct {
	Analyses []*Analysis `json:"analysis"`
	Summary  Summary     `json:"summary"`
}

// Request is a reschedule request for a batch of orders. TargetDate and
// DaysOffset arrive as raw strings from the conversational layer; malformed
// values are validation outcomes, not transport errors.
type Request struct {
	OrderIDs       []string `json:"planned_order_ids"`
	RescheduleType string   `json:"reschedule_type"`
	TargetDate     string   `json:"target_date,omitempty"`
	DaysOffset     string   `json:"days_offset,omitempty"`
}

// ValidationResult is the validation outcome for one order.
type ValidationResult struct {
	OrderID  string   `json:"planned_order_id"`
	IsValid  bool     `json:"is_valid"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

// ValidationReport aggregates per-order validation results.
type ValidationReport struct {
	Validations []*ValidationResult `json:"validations"`
	CanProceed  bool                `json:"can_proceed"`
}

// PlanEntry is one order successfully planned for rescheduling.
type PlanEntry struct {
	OrderID        string `json:"planned_order_id"`
	Item           string `json:"item"`
	CurrentDueDate string `json:"current_suggested_date"`
	NewDueDate     string `json:"new_due_date"`
	RescheduleType string `json:"reschedule_type"`
	DaysChanged    int    `json:"days_changed"`
}

// RejectedEntry is one order excluded from a plan, with the reason.
type RejectedEntry struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

// Plan is the partitioned reschedule decision. The valid/invalid field
// names are a stable contract with the external executor.
type Plan struct {
	UID            string           `json:"uid"`
	ValidOrders    []*PlanEntry     `json:"valid_orders"`
	InvalidOrders  []*RejectedEntry `json:"invalid_orders"`
	RescheduleType string           `json:"reschedule_type"`
	CreatedAt      time.Time        `json:"created_at"`
}

// ExecutionResult reports a plan application.
type ExecutionResult struct {
	PlanUID    string   `json:"plan_uid"`
	Applied    []string `json:"applied"`
	Failed     []string `json:"failed"`
	TotalCount int      `json:"total_count"`
}

// QueryResponse is the answer to a natural language order query.
type QueryResponse struct {
	Orders []*store.Order `json:"orders,omitempty"`
	Count  int            `json:"count"`
	// NeedsClarification is set with suggestions when the time phrase in
	// the query could not be understood.
	NeedsClarification bool     `json:"needs_clarification,omitempty"`
	Suggestions        []string `json:"suggestions,omitempty"`
}

// Clock supplies the current moment; injectable for tests.
type Clock func() time.Time
