package sqlite

import (
	"strings"
	"time"
)

// dueDateFormat is how due dates are stored in SQLite text columns.
const dueDateFormat = "2006-01-02 15:04:05"

// placeholder returns a placeholder for SQLite (uses ?)
func placeholder(_ int) string {
	return "?"
}

// placeholders returns n placeholders for SQLite
func placeholders(n int) string {
	list := []string{}
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}

func formatDueDate(t time.Time) string {
	return t.UTC().Format(dueDateFormat)
}

func parseDueDate(s string) (time.Time, error) {
	return time.ParseInLocation(dueDateFormat, s, time.UTC)
}
