package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Every documented example must actually resolve.
func TestSupportedExpressionsResolve(t *testing.T) {
	parser := NewParser()
	today := time.Date(2025, time.August, 29, 0, 0, 0, 0, time.UTC)

	for _, category := range SupportedExpressions() {
		for _, example := range category.Examples {
			t.Run(category.Name+"/"+example, func(t *testing.T) {
				pred, err := parser.Resolve(example, today)
				require.NoError(t, err)
				require.NotEqual(t, Predicate{}, pred)
			})
		}
	}
}
