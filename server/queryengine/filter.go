package queryengine

import (
	"strings"

	"github.com/replanhq/replan/plugin/timeparse"
	"github.com/replanhq/replan/store"
)

// FilterOrdersByDate returns the orders whose due date satisfies the
// predicate. The input slice is never modified.
func FilterOrdersByDate(orders []*store.Order, pred timeparse.Predicate) []*store.Order {
	filtered := make([]*store.Order, 0, len(orders))
	for _, order := range orders {
		if pred.Matches(order.DueDate) {
			filtered = append(filtered, order)
		}
	}
	return filtered
}

// FilterOrdersByItemType returns the orders of the given item type,
// compared case-insensitively. An empty type returns the input unchanged.
func FilterOrdersByItemType(orders []*store.Order, itemType string) []*store.Order {
	if itemType == "" {
		return orders
	}
	filtered := make([]*store.Order, 0, len(orders))
	for _, order := range orders {
		if strings.EqualFold(order.ItemType, itemType) {
			filtered = append(filtered, order)
		}
	}
	return filtered
}

// FilterOrdersNeedingReschedule returns the orders with rescheduling
// pressure, i.e. RescheduleOutDays > 0.
func FilterOrdersNeedingReschedule(orders []*store.Order) []*store.Order {
	filtered := make([]*store.Order, 0, len(orders))
	for _, order := range orders {
		if order.RescheduleOutDays > 0 {
			filtered = append(filtered, order)
		}
	}
	return filtered
}
