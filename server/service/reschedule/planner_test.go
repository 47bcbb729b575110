package reschedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPlan_TargetDate(t *testing.T) {
	analyses := analysesFor("2025-09-05", "2025-09-15")
	request := &Request{
		OrderIDs:       []string{"PO-1", "PO-2"},
		RescheduleType: TypePostpone,
		TargetDate:     "2025-09-20",
	}

	plan := BuildPlan(analyses, request, testToday)

	require.Len(t, plan.ValidOrders, 2)
	assert.Empty(t, plan.InvalidOrders)
	assert.NotEmpty(t, plan.UID)
	assert.Equal(t, TypePostpone, plan.RescheduleType)

	first := plan.ValidOrders[0]
	assert.Equal(t, "PO-1", first.OrderID)
	assert.Equal(t, "2025-09-05", first.CurrentDueDate)
	assert.Equal(t, "2025-09-20", first.NewDueDate)
	assert.Equal(t, 15, first.DaysChanged)

	assert.Equal(t, 5, plan.ValidOrders[1].DaysChanged)
}

func TestBuildPlan_DaysOffset(t *testing.T) {
	analyses := analysesFor("2025-09-05")

	t.Run("prepone subtracts", func(t *testing.T) {
		plan := BuildPlan(analyses, &Request{RescheduleType: TypePrepone, DaysOffset: "4"}, testToday)
		require.Len(t, plan.ValidOrders, 1)
		assert.Equal(t, "2025-09-01", plan.ValidOrders[0].NewDueDate)
		assert.Equal(t, -4, plan.ValidOrders[0].DaysChanged)
	})

	t.Run("postpone adds", func(t *testing.T) {
		plan := BuildPlan(analyses, &Request{RescheduleType: TypePostpone, DaysOffset: "10"}, testToday)
		require.Len(t, plan.ValidOrders, 1)
		assert.Equal(t, "2025-09-15", plan.ValidOrders[0].NewDueDate)
		assert.Equal(t, 10, plan.ValidOrders[0].DaysChanged)
	})

	t.Run("negative offset uses magnitude", func(t *testing.T) {
		plan := BuildPlan(analyses, &Request{RescheduleType: TypePostpone, DaysOffset: "-10"}, testToday)
		require.Len(t, plan.ValidOrders, 1)
		assert.Equal(t, "2025-09-15", plan.ValidOrders[0].NewDueDate)
	})
}

func TestBuildPlan_PartialFailure(t *testing.T) {
	// PO-1 overdue, PO-2 due tomorrow, PO-3 preponable.
	analyses := analysesFor("2025-08-25", "2025-08-30", "2025-09-15")
	request := &Request{RescheduleType: TypePrepone, DaysOffset: "5"}

	plan := BuildPlan(analyses, request, testToday)

	require.Len(t, plan.ValidOrders, 1)
	assert.Equal(t, "PO-3", plan.ValidOrders[0].OrderID)
	assert.Equal(t, "2025-09-10", plan.ValidOrders[0].NewDueDate)

	require.Len(t, plan.InvalidOrders, 2)
	assert.Equal(t, "PO-1", plan.InvalidOrders[0].OrderID)
	assert.Equal(t, "Cannot prepone - order is due in -4 day(s)", plan.InvalidOrders[0].Reason)
	assert.Equal(t, "PO-2", plan.InvalidOrders[1].OrderID)
	assert.Equal(t, "Cannot prepone - order is due in 1 day(s)", plan.InvalidOrders[1].Reason)
}

func TestBuildPlan_RejectionReasons(t *testing.T) {
	analyses := analysesFor("2025-09-05")

	tests := []struct {
		name       string
		request    *Request
		wantReason string
	}{
		{
			"past target date",
			&Request{RescheduleType: TypePostpone, TargetDate: "2025-08-20"},
			"Target date 2025-08-20 is in the past",
		},
		{
			"malformed target date",
			&Request{RescheduleType: TypePostpone, TargetDate: "not-a-date"},
			"Invalid target date format. Use YYYY-MM-DD",
		},
		{
			"prepone offset into the past",
			&Request{RescheduleType: TypePrepone, DaysOffset: "10"},
			"Cannot prepone by 10 days - would result in past date",
		},
		{
			"non numeric offset",
			&Request{RescheduleType: TypePostpone, DaysOffset: "soon"},
			"Invalid days offset - must be a number",
		},
		{
			"nothing specified",
			&Request{RescheduleType: TypePostpone},
			"No target date or days offset specified",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := BuildPlan(analyses, tt.request, testToday)
			assert.Empty(t, plan.ValidOrders)
			require.Len(t, plan.InvalidOrders, 1)
			assert.Equal(t, tt.wantReason, plan.InvalidOrders[0].Reason)
		})
	}
}

func TestBuildPlan_PostponeStillInPast(t *testing.T) {
	// Due four days ago; postponing by 2 still lands before today.
	analyses := analysesFor("2025-08-25")
	plan := BuildPlan(analyses, &Request{RescheduleType: TypePostpone, DaysOffset: "2"}, testToday)

	assert.Empty(t, plan.ValidOrders)
	require.Len(t, plan.InvalidOrders, 1)
	assert.Equal(t, "Postponing by 2 days would still result in a past date", plan.InvalidOrders[0].Reason)
}

func TestBuildPlan_NeverProducesPastDate(t *testing.T) {
	analyses := analysesFor("2025-08-25", "2025-08-30", "2025-09-01", "2025-09-05", "2025-12-31")

	requests := []*Request{
		{RescheduleType: TypePrepone, DaysOffset: "1"},
		{RescheduleType: TypePrepone, DaysOffset: "30"},
		{RescheduleType: TypePrepone, TargetDate: "2025-08-29"},
		{RescheduleType: TypePostpone, DaysOffset: "5"},
		{RescheduleType: TypePostpone, TargetDate: "2026-01-01"},
	}

	for _, request := range requests {
		plan := BuildPlan(analyses, request, testToday)
		for _, entry := range plan.ValidOrders {
			newDate, err := time.Parse("2006-01-02", entry.NewDueDate)
			require.NoError(t, err)
			assert.False(t, newDate.Before(testToday),
				"entry %s has past new due date %s", entry.OrderID, entry.NewDueDate)
		}
	}
}

func TestBuildPlan_PreservesInputOrder(t *testing.T) {
	analyses := analysesFor("2025-09-05", "2025-09-10", "2025-09-15")
	plan := BuildPlan(analyses, &Request{RescheduleType: TypePostpone, DaysOffset: "1"}, testToday)

	require.Len(t, plan.ValidOrders, 3)
	assert.Equal(t, "PO-1", plan.ValidOrders[0].OrderID)
	assert.Equal(t, "PO-2", plan.ValidOrders[1].OrderID)
	assert.Equal(t, "PO-3", plan.ValidOrders[2].OrderID)
}
