package store

import (
	"context"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// Order is the object representing a planned order awaiting execution.
type Order struct {
	ID string
	// Item is the display name, which may embed the item code in square
	// brackets, e.g. "[FURN-0001] Office Chair".
	Item     string
	ItemID   string
	ItemType string
	Quantity decimal.Decimal
	// DueDate is the suggested due date at midnight UTC.
	DueDate  time.Time
	Supplier string
	// RescheduleOutDays is how many days past its due date the order sits
	// relative to the snapshot date it was computed against. Zero means
	// no rescheduling pressure.
	RescheduleOutDays int
}

// FindOrder is the find condition for orders.
type FindOrder struct {
	IDs      []string
	ItemType *string

	// Due date window, inclusive on both sides.
	DueOnOrAfter  *time.Time
	DueOnOrBefore *time.Time

	// RescheduleNeeded selects orders with RescheduleOutDays > 0.
	RescheduleNeeded *bool

	// Pagination
	Limit  *int
	Offset *int
}

// UpdateOrder is the update request for an order.
type UpdateOrder struct {
	ID                string
	DueDate           *time.Time
	RescheduleOutDays *int
}

// DeleteOrder is the delete request for an order.
type DeleteOrder struct {
	ID string
}

// DueDateChange is one entry of a bulk due date update.
type DueDateChange struct {
	ID      string
	DueDate time.Time
}

var itemIDPattern = regexp.MustCompile(`\[(.*?)\]`)

// ExtractItemID pulls the bracketed item code out of an item display name.
// It returns the empty string when no code is embedded.
func ExtractItemID(item string) string {
	m := itemIDPattern.FindStringSubmatch(item)
	if m == nil {
		return ""
	}
	return m[1]
}

// CreateOrder creates a new order.
func (s *Store) CreateOrder(ctx context.Context, create *Order) (*Order, error) {
	if create.ItemID == "" {
		create.ItemID = ExtractItemID(create.Item)
	}
	create.DueDate = midnight(create.DueDate)
	return s.driver.CreateOrder(ctx, create)
}

// ListOrders lists orders with filter.
func (s *Store) ListOrders(ctx context.Context, find *FindOrder) ([]*Order, error) {
	return s.driver.ListOrders(ctx, find)
}

// GetOrder gets a single order, or nil when not found.
func (s *Store) GetOrder(ctx context.Context, find *FindOrder) (*Order, error) {
	if cacheKey, ok := singleOrderCacheKey(find); ok {
		if cached, found := s.orderCache.Get(cacheKey); found {
			if order, ok := cached.(*Order); ok {
				return order, nil
			}
		}
	}

	list, err := s.driver.ListOrders(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	order := list[0]
	s.orderCache.Set(order.ID, order)
	return order, nil
}

// UpdateOrder updates an order.
func (s *Store) UpdateOrder(ctx context.Context, update *UpdateOrder) error {
	if update.DueDate != nil {
		d := midnight(*update.DueDate)
		update.DueDate = &d
	}
	if err := s.driver.UpdateOrder(ctx, update); err != nil {
		return err
	}
	s.orderCache.Delete(update.ID)
	return nil
}

// DeleteOrder deletes an order.
func (s *Store) DeleteOrder(ctx context.Context, delete *DeleteOrder) error {
	if err := s.driver.DeleteOrder(ctx, delete); err != nil {
		return err
	}
	s.orderCache.Delete(delete.ID)
	return nil
}

// BulkUpdateDueDates applies a set of due date changes one by one. A change
// for an unknown order is reported in the failed list instead of aborting
// the batch; applied lists the ids that went through.
func (s *Store) BulkUpdateDueDates(ctx context.Context, changes []DueDateChange) (applied []string, failed []string, err error) {
	for _, change := range changes {
		d := midnight(change.DueDate)
		updateErr := s.driver.UpdateOrder(ctx, &UpdateOrder{ID: change.ID, DueDate: &d})
		if updateErr != nil {
			failed = append(failed, change.ID)
			continue
		}
		s.orderCache.Delete(change.ID)
		applied = append(applied, change.ID)
	}
	return applied, failed, nil
}

// RecomputeRescheduleOutDays refreshes RescheduleOutDays for every order
// against the given snapshot date: days overdue for past-due orders, zero
// otherwise. Returns the number of orders whose value changed.
func (s *Store) RecomputeRescheduleOutDays(ctx context.Context, today time.Time) (int, error) {
	orders, err := s.driver.ListOrders(ctx, &FindOrder{})
	if err != nil {
		return 0, err
	}

	day := midnight(today)
	changed := 0
	for _, order := range orders {
		out := 0
		if order.DueDate.Before(day) {
			out = int(day.Sub(order.DueDate).Hours() / 24)
		}
		if out == order.RescheduleOutDays {
			continue
		}
		if err := s.driver.UpdateOrder(ctx, &UpdateOrder{ID: order.ID, RescheduleOutDays: &out}); err != nil {
			return changed, err
		}
		s.orderCache.Delete(order.ID)
		changed++
	}
	return changed, nil
}

// OrderService is the interface for order-related operations.
type OrderService interface {
	CreateOrder(ctx context.Context, create *Order) (*Order, error)
	ListOrders(ctx context.Context, find *FindOrder) ([]*Order, error)
	UpdateOrder(ctx context.Context, update *UpdateOrder) error
	DeleteOrder(ctx context.Context, delete *DeleteOrder) error
}

// singleOrderCacheKey returns a cache key when the find condition selects
// exactly one order by id with no other filters.
func singleOrderCacheKey(find *FindOrder) (string, bool) {
	if len(find.IDs) != 1 {
		return "", false
	}
	if find.ItemType != nil || find.DueOnOrAfter != nil || find.DueOnOrBefore != nil || find.RescheduleNeeded != nil {
		return "", false
	}
	return find.IDs[0], true
}

func midnight(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	t = t.In(time.UTC)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
