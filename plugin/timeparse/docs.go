package timeparse

// ExpressionCategory documents one family of recognized time expressions.
type ExpressionCategory struct {
	Name     string   `json:"name"`
	Examples []string `json:"examples"`
}

// SupportedExpressions returns user-facing documentation of the expression
// families the resolver understands, with representative examples. The order
// mirrors the rule cascade.
func SupportedExpressions() []ExpressionCategory {
	return []ExpressionCategory{
		{
			Name:     "overdue patterns",
			Examples: []string{"overdue", "late", "past due", "behind schedule", "delayed"},
		},
		{
			Name:     "range queries",
			Examples: []string{"between dec 1 and dec 15", "from dec 1 to dec 15", "jan 1 to jan 31", "next week through month end"},
		},
		{
			Name:     "comparison queries",
			Examples: []string{"before december 25", "after next week", "on or before month end", "by 2025-12-15", "until next month", "since last month"},
		},
		{
			Name:     "basic references",
			Examples: []string{"today", "tomorrow", "yesterday", "day after tomorrow", "this week", "next month"},
		},
		{
			Name:     "relative periods",
			Examples: []string{"in 30 days", "2 weeks from now", "next 10 days"},
		},
		{
			Name:     "specific dates",
			Examples: []string{"december 25, 2025", "jan 1st", "2025-12-15", "25/12/2025", "25-12-2025"},
		},
		{
			Name:     "business periods",
			Examples: []string{"month end", "quarter end", "year end", "fiscal year end", "beginning of month", "end of quarter"},
		},
		{
			Name:     "fuzzy references",
			Examples: []string{"around next week", "roughly end of month", "sometime this month", "about 2 weeks from now"},
		},
	}
}
