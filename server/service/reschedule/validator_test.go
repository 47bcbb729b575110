package reschedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replanhq/replan/store"
)

func analysesFor(dues ...string) []*Analysis {
	orders := make([]*store.Order, 0, len(dues))
	for i, due := range dues {
		orders = append(orders, &store.Order{ID: orderID(i), DueDate: dueOn(due)})
	}
	return Analyze(orders, testToday).Analyses
}

func orderID(i int) string {
	return "PO-" + string(rune('1'+i))
}

func TestValidate_PreponeEligibility(t *testing.T) {
	analyses := analysesFor("2025-08-30", "2025-09-05")

	report := Validate(&Request{RescheduleType: TypePrepone, DaysOffset: "2"}, analyses, testToday)

	require.Len(t, report.Validations, 2)
	tomorrow := report.Validations[0]
	assert.False(t, tomorrow.IsValid)
	assert.Contains(t, tomorrow.Errors, "Cannot prepone - order is due in 1 day(s)")

	future := report.Validations[1]
	assert.True(t, future.IsValid)
	assert.Empty(t, future.Errors)

	assert.False(t, report.CanProceed)
}

func TestValidate_TargetDate(t *testing.T) {
	analyses := analysesFor("2025-09-05")

	t.Run("past target date fails every order", func(t *testing.T) {
		report := Validate(&Request{RescheduleType: TypePostpone, TargetDate: "2025-08-20"}, analyses, testToday)
		require.Len(t, report.Validations, 1)
		assert.False(t, report.Validations[0].IsValid)
		assert.Contains(t, report.Validations[0].Errors, "Target date cannot be in the past")
		assert.False(t, report.CanProceed)
	})

	t.Run("malformed target date", func(t *testing.T) {
		report := Validate(&Request{RescheduleType: TypePostpone, TargetDate: "09/05/2025"}, analyses, testToday)
		assert.Contains(t, report.Validations[0].Errors, "Invalid target date format. Use YYYY-MM-DD")
		assert.False(t, report.CanProceed)
	})

	t.Run("prepone with later date warns but proceeds", func(t *testing.T) {
		report := Validate(&Request{RescheduleType: TypePrepone, TargetDate: "2025-09-10"}, analyses, testToday)
		v := report.Validations[0]
		assert.True(t, v.IsValid)
		assert.Contains(t, v.Warnings, "Target date is later than current date - this is postponing, not preponing")
		assert.True(t, report.CanProceed)
	})

	t.Run("postpone with earlier date warns but proceeds", func(t *testing.T) {
		report := Validate(&Request{RescheduleType: TypePostpone, TargetDate: "2025-09-01"}, analyses, testToday)
		v := report.Validations[0]
		assert.True(t, v.IsValid)
		assert.Contains(t, v.Warnings, "Target date is earlier than current date - this is preponing, not postponing")
	})

	t.Run("valid prepone target", func(t *testing.T) {
		report := Validate(&Request{RescheduleType: TypePrepone, TargetDate: "2025-09-01"}, analyses, testToday)
		v := report.Validations[0]
		assert.True(t, v.IsValid)
		assert.Empty(t, v.Warnings)
		assert.Empty(t, v.Errors)
		assert.True(t, report.CanProceed)
	})
}

func TestValidate_DaysOffset(t *testing.T) {
	analyses := analysesFor("2025-09-05")

	t.Run("prepone past today", func(t *testing.T) {
		// due in 7 days, offset 10 lands on 2025-08-26
		report := Validate(&Request{RescheduleType: TypePrepone, DaysOffset: "10"}, analyses, testToday)
		v := report.Validations[0]
		assert.False(t, v.IsValid)
		assert.Contains(t, v.Errors, "Preponing by 10 days would result in a past date")
	})

	t.Run("prepone within range", func(t *testing.T) {
		report := Validate(&Request{RescheduleType: TypePrepone, DaysOffset: "4"}, analyses, testToday)
		assert.True(t, report.Validations[0].IsValid)
		assert.True(t, report.CanProceed)
	})

	t.Run("postpone offset never past", func(t *testing.T) {
		report := Validate(&Request{RescheduleType: TypePostpone, DaysOffset: "100"}, analyses, testToday)
		assert.True(t, report.Validations[0].IsValid)
	})

	t.Run("non numeric offset", func(t *testing.T) {
		report := Validate(&Request{RescheduleType: TypePostpone, DaysOffset: "a week"}, analyses, testToday)
		v := report.Validations[0]
		assert.False(t, v.IsValid)
		assert.Contains(t, v.Errors, "Invalid days offset - must be a number")
	})
}

func TestValidate_TargetDateTakesPrecedenceOverOffset(t *testing.T) {
	analyses := analysesFor("2025-09-05")

	// The offset alone would prepone past today, but an explicit target
	// date is what the plan will use, so the offset rules must not run.
	request := &Request{RescheduleType: TypePrepone, TargetDate: "2025-09-01", DaysOffset: "10"}

	report := Validate(request, analyses, testToday)
	require.Len(t, report.Validations, 1)
	assert.True(t, report.Validations[0].IsValid)
	assert.Empty(t, report.Validations[0].Errors)
	assert.True(t, report.CanProceed)

	// Validation and planning agree on the same request.
	plan := BuildPlan(analyses, request, testToday)
	require.Len(t, plan.ValidOrders, 1)
	assert.Empty(t, plan.InvalidOrders)
	assert.Equal(t, "2025-09-01", plan.ValidOrders[0].NewDueDate)
}

func TestValidate_IndependentPerOrder(t *testing.T) {
	analyses := analysesFor("2025-08-30", "2025-09-05", "2025-09-15")

	report := Validate(&Request{RescheduleType: TypePrepone, DaysOffset: "8"}, analyses, testToday)

	require.Len(t, report.Validations, 3)
	// PO-1 is due tomorrow: ineligible for prepone at all.
	assert.False(t, report.Validations[0].IsValid)
	// PO-2 preponed by 8 days lands on 2025-08-28, in the past.
	assert.False(t, report.Validations[1].IsValid)
	// PO-3 preponed by 8 days lands on 2025-09-07, fine.
	assert.True(t, report.Validations[2].IsValid)
	assert.False(t, report.CanProceed)
}
