package store

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Header aliases seen in exported planning spreadsheets, mapped to the
// canonical column names.
var csvHeaderAliases = map[string]string{
	"planned_id": "planned_order_id",
	"item_name":  "item",
	"due_date":   "suggested_due_date",
}

// csvDateLayouts are tried in order; day-first comes before month-first to
// match the exports this data arrives from.
var csvDateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"2006-01-02 15:04:05",
}

// ImportOrdersCSV reads planned orders from r and inserts them. Column
// headers are normalized to lowercase_with_underscores before matching, and
// common aliases are accepted. Returns the number of orders imported.
func (s *Store) ImportOrdersCSV(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, errors.Wrap(err, "failed to read csv header")
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
		if canonical, ok := csvHeaderAliases[name]; ok {
			name = canonical
		}
		columns[name] = i
	}
	for _, required := range []string{"planned_order_id", "item", "suggested_due_date"} {
		if _, ok := columns[required]; !ok {
			return 0, errors.Errorf("missing required column: %s", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	imported := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, errors.Wrap(err, "failed to read csv record")
		}

		dueDate, err := parseCSVDate(field(record, "suggested_due_date"))
		if err != nil {
			return imported, errors.Wrapf(err, "order %s has an unreadable due date", field(record, "planned_order_id"))
		}

		quantity := decimal.Zero
		if raw := field(record, "quantity"); raw != "" {
			quantity, err = decimal.NewFromString(raw)
			if err != nil {
				return imported, errors.Wrapf(err, "order %s has an unreadable quantity", field(record, "planned_order_id"))
			}
		}

		order := &Order{
			ID:       field(record, "planned_order_id"),
			Item:     field(record, "item"),
			ItemID:   field(record, "item_id"),
			ItemType: strings.ToLower(field(record, "item_type")),
			Quantity: quantity,
			DueDate:  dueDate,
			Supplier: field(record, "supplier"),
		}
		if _, err := s.CreateOrder(ctx, order); err != nil {
			return imported, errors.Wrapf(err, "failed to import order %s", order.ID)
		}
		imported++
	}

	return imported, nil
}

// ImportOrdersCSVFile imports planned orders from a CSV file on disk.
func (s *Store) ImportOrdersCSVFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to open orders file: %s", path)
	}
	defer f.Close()
	return s.ImportOrdersCSV(ctx, f)
}

func parseCSVDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range csvDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized date format: %s", raw)
}
