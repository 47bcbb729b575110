package reschedule

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replanhq/replan/plugin/timeparse"
	planerrors "github.com/replanhq/replan/server/internal/errors"
	"github.com/replanhq/replan/server/queryengine"
	"github.com/replanhq/replan/store"
)

// memoryStore is an in-memory Store for tests.
type memoryStore struct {
	orders    []*store.Order
	listErr   error
	updateErr map[string]error
	updated   map[string]time.Time
}

func newMemoryStore(orders ...*store.Order) *memoryStore {
	return &memoryStore{
		orders:    orders,
		updateErr: map[string]error{},
		updated:   map[string]time.Time{},
	}
}

func (m *memoryStore) ListOrders(_ context.Context, find *store.FindOrder) ([]*store.Order, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if len(find.IDs) == 0 {
		return m.orders, nil
	}
	wanted := make(map[string]bool, len(find.IDs))
	for _, id := range find.IDs {
		wanted[id] = true
	}
	var matched []*store.Order
	for _, order := range m.orders {
		if wanted[order.ID] {
			matched = append(matched, order)
		}
	}
	return matched, nil
}

func (m *memoryStore) UpdateOrder(_ context.Context, update *store.UpdateOrder) error {
	if err := m.updateErr[update.ID]; err != nil {
		return err
	}
	if update.DueDate != nil {
		m.updated[update.ID] = *update.DueDate
	}
	return nil
}

func fixedClock() Clock {
	return func() time.Time { return testToday }
}

func newTestService(st Store) Service {
	engine := queryengine.NewEngine(timeparse.NewService())
	return NewServiceWithClock(st, engine, slog.Default(), fixedClock())
}

func sampleOrders() []*store.Order {
	return []*store.Order{
		{ID: "PO-1", Item: "[FURN-0001] Office Chair", ItemType: "purchase", Quantity: decimal.NewFromInt(10), DueDate: dueOn("2025-09-05")},
		{ID: "PO-2", Item: "[FURN-0002] Desk", ItemType: "purchase", Quantity: decimal.NewFromInt(5), DueDate: dueOn("2025-08-30")},
		{ID: "MO-1", Item: "[ASM-0001] Chair Assembly", ItemType: "manufacture", Quantity: decimal.NewFromInt(20), DueDate: dueOn("2025-08-25"), RescheduleOutDays: 4},
	}
}

func TestService_AnalyzeEligibility(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemoryStore(sampleOrders()...))

	t.Run("all orders", func(t *testing.T) {
		report, err := svc.AnalyzeEligibility(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, report.Summary.TotalOrders)
		assert.Equal(t, 1, report.Summary.CanPrepone)
		assert.Equal(t, 2, report.Summary.PostponeOnly)
	})

	t.Run("selected ids", func(t *testing.T) {
		report, err := svc.AnalyzeEligibility(ctx, []string{"PO-1"})
		require.NoError(t, err)
		require.Len(t, report.Analyses, 1)
		assert.Equal(t, 7, report.Analyses[0].DaysFromToday)
		assert.Equal(t, 6, report.Analyses[0].MaxPreponeDays)
	})

	t.Run("unknown ids", func(t *testing.T) {
		_, err := svc.AnalyzeEligibility(ctx, []string{"PO-404"})
		require.Error(t, err)
		var planErr *planerrors.PlanError
		require.ErrorAs(t, err, &planErr)
		assert.Equal(t, planerrors.ErrCodeOrderNotFound, planErr.GetCode())
	})

	t.Run("store failure", func(t *testing.T) {
		broken := newMemoryStore()
		broken.listErr = errors.New("csv gone")
		_, err := newTestService(broken).AnalyzeEligibility(ctx, nil)
		var planErr *planerrors.PlanError
		require.ErrorAs(t, err, &planErr)
		assert.Equal(t, planerrors.ErrCodeDataLoadFailed, planErr.GetCode())
	})
}

func TestService_ValidateRequest(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemoryStore(sampleOrders()...))

	t.Run("prepone offset past today", func(t *testing.T) {
		report, err := svc.ValidateRequest(ctx, &Request{
			OrderIDs:       []string{"PO-1"},
			RescheduleType: TypePrepone,
			DaysOffset:     "10",
		})
		require.NoError(t, err)
		require.Len(t, report.Validations, 1)
		assert.False(t, report.CanProceed)
		assert.Contains(t, report.Validations[0].Errors, "Preponing by 10 days would result in a past date")
	})

	t.Run("missing reschedule type", func(t *testing.T) {
		_, err := svc.ValidateRequest(ctx, &Request{OrderIDs: []string{"PO-1"}})
		var planErr *planerrors.PlanError
		require.ErrorAs(t, err, &planErr)
		assert.Equal(t, planerrors.ErrCodeInvalidArgument, planErr.GetCode())
	})

	t.Run("missing ids", func(t *testing.T) {
		_, err := svc.ValidateRequest(ctx, &Request{RescheduleType: TypePostpone})
		require.Error(t, err)
	})
}

func TestService_BuildPlan(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemoryStore(sampleOrders()...))

	plan, err := svc.BuildPlan(ctx, &Request{
		OrderIDs:       []string{"PO-1", "PO-2"},
		RescheduleType: TypePrepone,
		DaysOffset:     "2",
	})
	require.NoError(t, err)

	require.Len(t, plan.ValidOrders, 1)
	assert.Equal(t, "PO-1", plan.ValidOrders[0].OrderID)
	assert.Equal(t, "2025-09-03", plan.ValidOrders[0].NewDueDate)

	require.Len(t, plan.InvalidOrders, 1)
	assert.Equal(t, "PO-2", plan.InvalidOrders[0].OrderID)
	assert.Equal(t, testToday, plan.CreatedAt)
}

func TestService_ExecutePlan(t *testing.T) {
	ctx := context.Background()

	t.Run("applies valid orders", func(t *testing.T) {
		st := newMemoryStore(sampleOrders()...)
		svc := newTestService(st)

		plan, err := svc.BuildPlan(ctx, &Request{
			OrderIDs:       []string{"PO-1", "MO-1"},
			RescheduleType: TypePostpone,
			DaysOffset:     "7",
		})
		require.NoError(t, err)
		require.Len(t, plan.ValidOrders, 2)

		result, err := svc.ExecutePlan(ctx, plan)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"PO-1", "MO-1"}, result.Applied)
		assert.Empty(t, result.Failed)
		assert.Equal(t, dueOn("2025-09-12"), st.updated["PO-1"])
		assert.Equal(t, dueOn("2025-09-01"), st.updated["MO-1"])
	})

	t.Run("update failures are partial", func(t *testing.T) {
		st := newMemoryStore(sampleOrders()...)
		st.updateErr["PO-1"] = errors.New("row locked")
		svc := newTestService(st)

		plan, err := svc.BuildPlan(ctx, &Request{
			OrderIDs:       []string{"PO-1", "MO-1"},
			RescheduleType: TypePostpone,
			DaysOffset:     "7",
		})
		require.NoError(t, err)

		result, err := svc.ExecutePlan(ctx, plan)
		require.NoError(t, err)
		assert.Equal(t, []string{"MO-1"}, result.Applied)
		assert.Equal(t, []string{"PO-1"}, result.Failed)
	})

	t.Run("empty plan rejected", func(t *testing.T) {
		svc := newTestService(newMemoryStore(sampleOrders()...))
		_, err := svc.ExecutePlan(ctx, &Plan{})
		require.Error(t, err)
	})
}

func TestService_QueryOrders(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemoryStore(sampleOrders()...))

	t.Run("natural query", func(t *testing.T) {
		response, err := svc.QueryOrders(ctx, "purchase orders due next week")
		require.NoError(t, err)
		require.Len(t, response.Orders, 1)
		assert.Equal(t, "PO-1", response.Orders[0].ID)
		assert.False(t, response.NeedsClarification)
	})

	t.Run("count query", func(t *testing.T) {
		response, err := svc.QueryOrders(ctx, "how many orders are overdue")
		require.NoError(t, err)
		assert.Equal(t, 1, response.Count)
		assert.Empty(t, response.Orders)
	})

	t.Run("ambiguous time phrase asks for clarification", func(t *testing.T) {
		response, err := svc.QueryOrders(ctx, "orders whenever convenient")
		require.NoError(t, err)
		assert.True(t, response.NeedsClarification)
		assert.NotEmpty(t, response.Suggestions)
	})
}
