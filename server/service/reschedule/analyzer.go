package reschedule

import (
	"fmt"
	"time"

	"github.com/replanhq/replan/plugin/timeparse"
	"github.com/replanhq/replan/store"
)

// Analyze classifies orders by reschedule eligibility relative to today.
// Pure: results depend only on the inputs and must be recomputed whenever
// today or a due date changes, never cached or persisted.
func Analyze(orders []*store.Order, today time.Time) *EligibilityReport {
	today = timeparse.Midnight(today)

	analyses := make([]*Analysis, 0, len(orders))
	summary := Summary{TotalOrders: len(orders)}

	for _, order := range orders {
		days := timeparse.DaysBetween(today, order.DueDate)

		analysis := &Analysis{
			OrderID:       order.ID,
			Item:          order.Item,
			CurrentDate:   today.Format(timeparse.DateLayout),
			DueDate:       order.DueDate.Format(timeparse.DateLayout),
			DaysFromToday: days,
			CanPostpone:   true,
		}

		switch {
		case days <= 0:
			analysis.Status = StatusOverdueOrToday
			analysis.Recommendation = "Can only postpone - order is due today or overdue"
		case days == MinPreponeLeadDays:
			analysis.Status = StatusTomorrow
			analysis.Recommendation = "Can only postpone - order is due tomorrow"
		default:
			analysis.Status = StatusFuture
			analysis.CanPrepone = true
			analysis.MaxPreponeDays = days - MinPreponeLeadDays
			analysis.Recommendation = fmt.Sprintf("Can prepone up to %d days or postpone any number of days", analysis.MaxPreponeDays)
		}

		if analysis.CanPrepone {
			summary.CanPrepone++
		} else {
			summary.PostponeOnly++
		}
		analyses = append(analyses, analysis)
	}

	return &EligibilityReport{Analyses: analyses, Summary: summary}
}
