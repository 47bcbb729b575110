package queryengine

import (
	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"

	"github.com/replanhq/replan/store"
)

// AttributeFilter evaluates a CEL expression against order attributes, for
// power users who need more than the natural language router offers, e.g.
//
//	item_type == "purchase" && quantity >= 100.0
//
// The expression is compiled once; evaluation is per order.
type AttributeFilter struct {
	program cel.Program
}

// NewAttributeFilter compiles a CEL filter expression. The expression must
// evaluate to a boolean.
func NewAttributeFilter(expression string) (*AttributeFilter, error) {
	env, err := cel.NewEnv(
		cel.Variable("id", cel.StringType),
		cel.Variable("item", cel.StringType),
		cel.Variable("item_id", cel.StringType),
		cel.Variable("item_type", cel.StringType),
		cel.Variable("quantity", cel.DoubleType),
		cel.Variable("supplier", cel.StringType),
		cel.Variable("due_date", cel.StringType),
		cel.Variable("reschedule_out_days", cel.IntType),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create CEL environment")
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, errors.Wrapf(issues.Err(), "invalid filter expression %q", expression)
	}
	if ast.OutputType() != cel.BoolType {
		return nil, errors.Errorf("filter expression %q must evaluate to a boolean", expression)
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build CEL program")
	}
	return &AttributeFilter{program: program}, nil
}

// Match evaluates the filter against one order.
func (f *AttributeFilter) Match(order *store.Order) (bool, error) {
	out, _, err := f.program.Eval(map[string]any{
		"id":                  order.ID,
		"item":                order.Item,
		"item_id":             order.ItemID,
		"item_type":           order.ItemType,
		"quantity":            order.Quantity.InexactFloat64(),
		"supplier":            order.Supplier,
		"due_date":            order.DueDate.Format("2006-01-02"),
		"reschedule_out_days": int64(order.RescheduleOutDays),
	})
	if err != nil {
		return false, errors.Wrap(err, "filter evaluation failed")
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, errors.New("filter did not produce a boolean")
	}
	return matched, nil
}

// Apply returns the orders matching the filter. Evaluation errors abort the
// pass, so a filter either applies to the whole set or not at all.
func (f *AttributeFilter) Apply(orders []*store.Order) ([]*store.Order, error) {
	filtered := make([]*store.Order, 0, len(orders))
	for _, order := range orders {
		matched, err := f.Match(order)
		if err != nil {
			return nil, err
		}
		if matched {
			filtered = append(filtered, order)
		}
	}
	return filtered, nil
}
