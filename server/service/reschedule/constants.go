package reschedule

// Package-level constants for reschedule decisions.

const (
	// TypePrepone moves a due date earlier.
	TypePrepone = "prepone"
	// TypePostpone moves a due date later.
	TypePostpone = "postpone"

	// StatusOverdueOrToday marks orders due today or already overdue.
	StatusOverdueOrToday = "overdue_or_today"
	// StatusTomorrow marks orders due tomorrow.
	StatusTomorrow = "tomorrow"
	// StatusFuture marks orders due after tomorrow.
	StatusFuture = "future"

	// MinPreponeLeadDays is the minimum lead the due date must keep when
	// preponed: an order may never be moved to earlier than tomorrow, so
	// the maximum prepone distance is days_from_today minus this lead.
	MinPreponeLeadDays = 1
)
