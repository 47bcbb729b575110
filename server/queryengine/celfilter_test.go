package queryengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributeFilter(t *testing.T) {
	orders := testOrders()

	tests := []struct {
		name    string
		expr    string
		wantIDs []string
	}{
		{"item type equality", `item_type == "purchase"`, []string{"PO-001", "PO-002"}},
		{"quantity threshold", `quantity >= 10.0`, []string{"PO-001", "MO-001"}},
		{"combined", `item_type == "manufacture" && quantity < 10.0`, []string{"MO-002"}},
		{"reschedule pressure", `reschedule_out_days > 0`, []string{"PO-001"}},
		{"item code prefix", `item_id.startsWith("FURN")`, []string{"PO-001", "PO-002"}},
		{"due date string compare", `due_date < "2025-09-01"`, []string{"PO-001", "MO-001"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := NewAttributeFilter(tt.expr)
			require.NoError(t, err)
			got, err := filter.Apply(orders)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, orderIDs(got))
		})
	}
}

func TestNewAttributeFilter_Invalid(t *testing.T) {
	t.Run("syntax error", func(t *testing.T) {
		_, err := NewAttributeFilter(`item_type ==`)
		assert.Error(t, err)
	})

	t.Run("unknown variable", func(t *testing.T) {
		_, err := NewAttributeFilter(`warehouse == "east"`)
		assert.Error(t, err)
	})

	t.Run("non boolean result", func(t *testing.T) {
		_, err := NewAttributeFilter(`quantity + 1.0`)
		assert.Error(t, err)
	})
}
