package test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/replanhq/replan/store"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func createTestingOrders(ctx context.Context, t *testing.T, ts *store.Store) {
	t.Helper()
	orders := []*store.Order{
		{
			ID:                "PO-001",
			Item:              "[FURN-0001] Office Chair",
			ItemType:          "purchase",
			Quantity:          decimal.NewFromInt(25),
			DueDate:           day(2025, time.August, 25),
			Supplier:          "Acme Seating",
			RescheduleOutDays: 4,
		},
		{
			ID:       "PO-002",
			Item:     "[FURN-0002] Standing Desk",
			ItemType: "purchase",
			Quantity: decimal.NewFromInt(10),
			DueDate:  day(2025, time.September, 5),
			Supplier: "Deskworks",
		},
		{
			ID:       "MO-001",
			Item:     "[FURN-0003] Bookshelf",
			ItemType: "manufacture",
			Quantity: decimal.NewFromInt(40),
			DueDate:  day(2025, time.August, 29),
		},
	}
	for _, order := range orders {
		_, err := ts.CreateOrder(ctx, order)
		require.NoError(t, err)
	}
}

func TestOrderStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	createTestingOrders(ctx, t, ts)

	t.Run("item id is extracted on create", func(t *testing.T) {
		order, err := ts.GetOrder(ctx, &store.FindOrder{IDs: []string{"PO-001"}})
		require.NoError(t, err)
		require.NotNil(t, order)
		require.Equal(t, "FURN-0001", order.ItemID)
		require.Equal(t, decimal.NewFromInt(25).String(), order.Quantity.String())
	})

	t.Run("list by item type", func(t *testing.T) {
		itemType := "purchase"
		orders, err := ts.ListOrders(ctx, &store.FindOrder{ItemType: &itemType})
		require.NoError(t, err)
		require.Len(t, orders, 2)
	})

	t.Run("list by due date window", func(t *testing.T) {
		from := day(2025, time.August, 29)
		to := day(2025, time.September, 5)
		orders, err := ts.ListOrders(ctx, &store.FindOrder{DueOnOrAfter: &from, DueOnOrBefore: &to})
		require.NoError(t, err)
		require.Len(t, orders, 2)
		require.Equal(t, "MO-001", orders[0].ID)
		require.Equal(t, "PO-002", orders[1].ID)
	})

	t.Run("list needing reschedule", func(t *testing.T) {
		needed := true
		orders, err := ts.ListOrders(ctx, &store.FindOrder{RescheduleNeeded: &needed})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		require.Equal(t, "PO-001", orders[0].ID)
	})

	t.Run("update due date", func(t *testing.T) {
		newDate := day(2025, time.September, 10)
		err := ts.UpdateOrder(ctx, &store.UpdateOrder{ID: "PO-002", DueDate: &newDate})
		require.NoError(t, err)

		order, err := ts.GetOrder(ctx, &store.FindOrder{IDs: []string{"PO-002"}})
		require.NoError(t, err)
		require.True(t, newDate.Equal(order.DueDate))
	})

	t.Run("update unknown order fails", func(t *testing.T) {
		newDate := day(2025, time.September, 10)
		err := ts.UpdateOrder(ctx, &store.UpdateOrder{ID: "PO-999", DueDate: &newDate})
		require.Error(t, err)
	})

	t.Run("delete order", func(t *testing.T) {
		err := ts.DeleteOrder(ctx, &store.DeleteOrder{ID: "MO-001"})
		require.NoError(t, err)

		order, err := ts.GetOrder(ctx, &store.FindOrder{IDs: []string{"MO-001"}})
		require.NoError(t, err)
		require.Nil(t, order)
	})
}

func TestBulkUpdateDueDates(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	createTestingOrders(ctx, t, ts)

	applied, failed, err := ts.BulkUpdateDueDates(ctx, []store.DueDateChange{
		{ID: "PO-001", DueDate: day(2025, time.September, 1)},
		{ID: "PO-999", DueDate: day(2025, time.September, 1)},
		{ID: "MO-001", DueDate: day(2025, time.September, 2)},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"PO-001", "MO-001"}, applied)
	require.Equal(t, []string{"PO-999"}, failed)

	order, err := ts.GetOrder(ctx, &store.FindOrder{IDs: []string{"MO-001"}})
	require.NoError(t, err)
	require.True(t, day(2025, time.September, 2).Equal(order.DueDate))
}

func TestRecomputeRescheduleOutDays(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	createTestingOrders(ctx, t, ts)

	today := day(2025, time.August, 29)
	changed, err := ts.RecomputeRescheduleOutDays(ctx, today)
	require.NoError(t, err)
	// PO-001 is 4 days overdue and already carries 4; nothing else is late.
	require.Equal(t, 0, changed)

	// A week later both PO-001 and MO-001 are overdue.
	changed, err = ts.RecomputeRescheduleOutDays(ctx, day(2025, time.September, 5))
	require.NoError(t, err)
	require.Equal(t, 2, changed)

	order, err := ts.GetOrder(ctx, &store.FindOrder{IDs: []string{"PO-001"}})
	require.NoError(t, err)
	require.Equal(t, 11, order.RescheduleOutDays)

	order, err = ts.GetOrder(ctx, &store.FindOrder{IDs: []string{"MO-001"}})
	require.NoError(t, err)
	require.Equal(t, 7, order.RescheduleOutDays)
}
