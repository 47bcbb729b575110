package reschedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/replanhq/replan/plugin/timeparse"
)

// Validate checks a reschedule request against each order's eligibility.
// Rules apply per order; the batch is never rejected atomically. CanProceed
// is the conjunction of every order's IsValid. Warnings flag direction
// mismatches that the caller may confirm past; they never block.
// Pure: nothing is mutated or committed.
func Validate(request *Request, analyses []*Analysis, today time.Time) *ValidationReport {
	today = timeparse.Midnight(today)
	rescheduleType := strings.ToLower(request.RescheduleType)

	report := &ValidationReport{CanProceed: true}
	for _, analysis := range analyses {
		validation := &ValidationResult{
			OrderID:  analysis.OrderID,
			IsValid:  true,
			Warnings: []string{},
			Errors:   []string{},
		}

		if rescheduleType == TypePrepone && !analysis.CanPrepone {
			validation.IsValid = false
			validation.Errors = append(validation.Errors,
				fmt.Sprintf("Cannot prepone - order is due in %d day(s)", analysis.DaysFromToday))
		}

		// A target date takes precedence over a days offset, so the offset
		// rules only apply when the offset is what the plan will use.
		if request.TargetDate != "" {
			validateTargetDate(validation, request.TargetDate, rescheduleType, analysis, today)
		} else if request.DaysOffset != "" {
			validateDaysOffset(validation, request.DaysOffset, rescheduleType, analysis, today)
		}

		report.Validations = append(report.Validations, validation)
		if !validation.IsValid {
			report.CanProceed = false
		}
	}
	return report
}

func validateTargetDate(validation *ValidationResult, targetDate, rescheduleType string, analysis *Analysis, today time.Time) {
	target, err := time.Parse(timeparse.DateLayout, targetDate)
	if err != nil {
		validation.IsValid = false
		validation.Errors = append(validation.Errors, "Invalid target date format. Use YYYY-MM-DD")
		return
	}

	if target.Before(today) {
		validation.IsValid = false
		validation.Errors = append(validation.Errors, "Target date cannot be in the past")
	}

	due, err := time.Parse(timeparse.DateLayout, analysis.DueDate)
	if err != nil {
		return
	}
	daysDiff := timeparse.DaysBetween(due, target)
	if rescheduleType == TypePrepone && daysDiff > 0 {
		validation.Warnings = append(validation.Warnings,
			"Target date is later than current date - this is postponing, not preponing")
	} else if rescheduleType == TypePostpone && daysDiff < 0 {
		validation.Warnings = append(validation.Warnings,
			"Target date is earlier than current date - this is preponing, not postponing")
	}
}

func validateDaysOffset(validation *ValidationResult, daysOffset, rescheduleType string, analysis *Analysis, today time.Time) {
	offset, err := strconv.Atoi(strings.TrimSpace(daysOffset))
	if err != nil {
		validation.IsValid = false
		validation.Errors = append(validation.Errors, "Invalid days offset - must be a number")
		return
	}

	if rescheduleType != TypePrepone {
		return
	}
	due, err := time.Parse(timeparse.DateLayout, analysis.DueDate)
	if err != nil {
		return
	}
	newDate := due.AddDate(0, 0, -abs(offset))
	if newDate.Before(today) {
		validation.IsValid = false
		validation.Errors = append(validation.Errors,
			fmt.Sprintf("Preponing by %d days would result in a past date", offset))
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
