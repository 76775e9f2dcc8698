package dataset

import (
	"fmt"
	"time"

	"spark-spread/internal/model"
)

// FloorDate is the business-relevant lower bound for date selection.
// Data before it exists in some dataset exports but is not offered to users.
var FloorDate = time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)

// Table is an immutable timestamped price table: one shared, strictly
// increasing timestamp axis and named numeric columns aligned to it.
// The process loads it once at startup and treats it as read-only.
type Table struct {
	Timestamps []time.Time
	Columns    map[string][]model.Value
}

// Rows returns the number of timestamps.
func (t *Table) Rows() int {
	return len(t.Timestamps)
}

// ColumnNames returns the column names present in the table, in no
// particular order.
func (t *Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for name := range t.Columns {
		names = append(names, name)
	}
	return names
}

// Series returns the column aligned to the table's timestamp axis.
// A selection naming a column the dataset does not carry is a
// configuration error, not a computation error.
func (t *Table) Series(name string) ([]model.Value, error) {
	col, ok := t.Columns[name]
	if !ok {
		return nil, fmt.Errorf("column %q not present in dataset", name)
	}
	return col, nil
}

// MinDate and MaxDate are the calendar-date bounds of the timestamp axis.
func (t *Table) MinDate() time.Time {
	if len(t.Timestamps) == 0 {
		return time.Time{}
	}
	return dateOnly(t.Timestamps[0])
}

func (t *Table) MaxDate() time.Time {
	if len(t.Timestamps) == 0 {
		return time.Time{}
	}
	return dateOnly(t.Timestamps[len(t.Timestamps)-1])
}

// EffectiveMinDate clamps the dataset minimum to the later of itself and
// floor. The selectable range starts here.
func (t *Table) EffectiveMinDate(floor time.Time) time.Time {
	min := t.MinDate()
	if floor.After(min) {
		return dateOnly(floor)
	}
	return min
}

// FilterDates restricts the table to timestamps whose calendar date falls
// within [start, end] inclusive, ignoring time-of-day. Filtering a table to
// its own resulting bounds is idempotent.
func (t *Table) FilterDates(start, end time.Time) *Table {
	startD := dateOnly(start)
	endD := dateOnly(end)

	lo := len(t.Timestamps)
	hi := 0
	for i, ts := range t.Timestamps {
		d := dateOnly(ts)
		if d.Before(startD) || d.After(endD) {
			continue
		}
		if i < lo {
			lo = i
		}
		hi = i + 1
	}

	out := &Table{Columns: make(map[string][]model.Value, len(t.Columns))}
	if lo >= hi {
		// Empty selection: keep the column set so Series stays answerable.
		for name := range t.Columns {
			out.Columns[name] = nil
		}
		return out
	}
	out.Timestamps = t.Timestamps[lo:hi]
	for name, col := range t.Columns {
		out.Columns[name] = col[lo:hi]
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
