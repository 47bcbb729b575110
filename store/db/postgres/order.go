package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/replanhq/replan/store"
)

func (d *DB) CreateOrder(ctx context.Context, create *store.Order) (*store.Order, error) {
	fields := []string{
		"id", "item", "item_id", "item_type",
		"quantity", "due_date", "supplier", "reschedule_out_days",
	}
	args := []any{
		create.ID, create.Item, create.ItemID, create.ItemType,
		create.Quantity.String(), create.DueDate, create.Supplier, create.RescheduleOutDays,
	}

	stmt := `INSERT INTO planned_order (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)`

	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return create, nil
}

func (d *DB) ListOrders(ctx context.Context, find *store.FindOrder) ([]*store.Order, error) {
	where, args := []string{"1 = 1"}, []any{}

	if len(find.IDs) > 0 {
		holders := make([]string, 0, len(find.IDs))
		for _, id := range find.IDs {
			args = append(args, id)
			holders = append(holders, placeholder(len(args)))
		}
		where = append(where, "planned_order.id IN ("+strings.Join(holders, ", ")+")")
	}
	if v := find.ItemType; v != nil {
		where, args = append(where, "planned_order.item_type = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.DueOnOrAfter; v != nil {
		where, args = append(where, "planned_order.due_date >= "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.DueOnOrBefore; v != nil {
		where, args = append(where, "planned_order.due_date <= "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.RescheduleNeeded; v != nil {
		if *v {
			where = append(where, "planned_order.reschedule_out_days > 0")
		} else {
			where = append(where, "planned_order.reschedule_out_days = 0")
		}
	}

	query := `
		SELECT
			id, item, item_id, item_type,
			quantity, due_date, supplier, reschedule_out_days
		FROM planned_order
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY planned_order.due_date ASC, planned_order.id ASC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Order, 0)
	for rows.Next() {
		var order store.Order
		var quantity string

		if err := rows.Scan(
			&order.ID,
			&order.Item,
			&order.ItemID,
			&order.ItemType,
			&quantity,
			&order.DueDate,
			&order.Supplier,
			&order.RescheduleOutDays,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		order.Quantity, err = decimal.NewFromString(quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to parse quantity of order %s: %w", order.ID, err)
		}
		order.DueDate = order.DueDate.UTC()

		list = append(list, &order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateOrder(ctx context.Context, update *store.UpdateOrder) error {
	set, args := []string{}, []any{}

	if v := update.DueDate; v != nil {
		set, args = append(set, "due_date = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.RescheduleOutDays; v != nil {
		set, args = append(set, "reschedule_out_days = "+placeholder(len(args)+1)), append(args, *v)
	}

	if len(set) == 0 {
		return nil
	}

	args = append(args, update.ID)

	stmt := `UPDATE planned_order SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	result, err := d.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("order not found")
	}

	return nil
}

func (d *DB) DeleteOrder(ctx context.Context, delete *store.DeleteOrder) error {
	stmt := `DELETE FROM planned_order WHERE id = ` + placeholder(1)
	result, err := d.db.ExecContext(ctx, stmt, delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("order not found")
	}

	return nil
}
