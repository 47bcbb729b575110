package reschedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/replanhq/replan/plugin/timeparse"
)

// BuildPlan derives the new due date for every analyzed order and partitions
// the batch into valid and invalid entries. An order failing eligibility or
// date rules lands in InvalidOrders with a human-readable reason; input
// order is preserved in both lists. Pure apart from the generated plan UID
// and the CreatedAt stamp taken from now.
func BuildPlan(analyses []*Analysis, request *Request, now time.Time) *Plan {
	today := timeparse.Midnight(now)
	rescheduleType := strings.ToLower(request.RescheduleType)

	plan := &Plan{
		UID:            shortuuid.New(),
		ValidOrders:    []*PlanEntry{},
		InvalidOrders:  []*RejectedEntry{},
		RescheduleType: rescheduleType,
		CreatedAt:      now,
	}

	for _, analysis := range analyses {
		if rescheduleType == TypePrepone && !analysis.CanPrepone {
			plan.InvalidOrders = append(plan.InvalidOrders, &RejectedEntry{
				OrderID: analysis.OrderID,
				Reason:  fmt.Sprintf("Cannot prepone - order is due in %d day(s)", analysis.DaysFromToday),
			})
			continue
		}

		due, err := time.Parse(timeparse.DateLayout, analysis.DueDate)
		if err != nil {
			plan.InvalidOrders = append(plan.InvalidOrders, &RejectedEntry{
				OrderID: analysis.OrderID,
				Reason:  fmt.Sprintf("Invalid due date %q on order", analysis.DueDate),
			})
			continue
		}

		newDate, reason := deriveNewDate(request, rescheduleType, due, today)
		if reason != "" {
			plan.InvalidOrders = append(plan.InvalidOrders, &RejectedEntry{
				OrderID: analysis.OrderID,
				Reason:  reason,
			})
			continue
		}

		plan.ValidOrders = append(plan.ValidOrders, &PlanEntry{
			OrderID:        analysis.OrderID,
			Item:           analysis.Item,
			CurrentDueDate: analysis.DueDate,
			NewDueDate:     newDate.Format(timeparse.DateLayout),
			RescheduleType: rescheduleType,
			DaysChanged:    timeparse.DaysBetween(due, newDate),
		})
	}

	return plan
}

// deriveNewDate computes the order's new due date, or a rejection reason.
func deriveNewDate(request *Request, rescheduleType string, due, today time.Time) (time.Time, string) {
	if request.TargetDate != "" {
		target, err := time.Parse(timeparse.DateLayout, request.TargetDate)
		if err != nil {
			return time.Time{}, "Invalid target date format. Use YYYY-MM-DD"
		}
		if target.Before(today) {
			return time.Time{}, fmt.Sprintf("Target date %s is in the past", request.TargetDate)
		}
		return target, ""
	}

	if request.DaysOffset != "" {
		offset, err := strconv.Atoi(strings.TrimSpace(request.DaysOffset))
		if err != nil {
			return time.Time{}, "Invalid days offset - must be a number"
		}
		if rescheduleType == TypePrepone {
			newDate := due.AddDate(0, 0, -abs(offset))
			if newDate.Before(today) {
				return time.Time{}, fmt.Sprintf("Cannot prepone by %d days - would result in past date", offset)
			}
			return newDate, ""
		}
		newDate := due.AddDate(0, 0, abs(offset))
		// A heavily overdue order can still land in the past after a
		// small postpone; a plan must never carry a past date.
		if newDate.Before(today) {
			return time.Time{}, fmt.Sprintf("Postponing by %d days would still result in a past date", offset)
		}
		return newDate, ""
	}

	return time.Time{}, "No target date or days offset specified"
}
