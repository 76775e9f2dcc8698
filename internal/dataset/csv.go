package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"spark-spread/internal/model"
)

// Timestamp layouts accepted in the Datetime column.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02",
}

// Load reads the unified energy dataset CSV.
//
// The first row is a header containing a Datetime column plus named numeric
// columns. Empty cells (and "NaN") become missing values. Any other
// unparseable cell, a missing Datetime column, or a non-increasing timestamp
// axis is a load error; the dataset is unusable and the caller should treat
// this as fatal.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("dataset %s is empty", path)
	}

	header := records[0]
	tsCol := -1
	for i, name := range header {
		if strings.TrimSpace(name) == TimestampColumn {
			tsCol = i
			break
		}
	}
	if tsCol < 0 {
		return nil, fmt.Errorf("dataset %s has no %q column", path, TimestampColumn)
	}

	t := &Table{
		Timestamps: make([]time.Time, 0, len(records)-1),
		Columns:    make(map[string][]model.Value, len(header)-1),
	}
	for i, name := range header {
		if i == tsCol {
			continue
		}
		t.Columns[strings.TrimSpace(name)] = make([]model.Value, 0, len(records)-1)
	}

	var prev time.Time
	for rowIdx, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("row %d: %d fields, header has %d", rowIdx+2, len(rec), len(header))
		}

		ts, err := parseTimestamp(rec[tsCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowIdx+2, err)
		}
		if rowIdx > 0 && !ts.After(prev) {
			return nil, fmt.Errorf("row %d: timestamp %s is not strictly increasing", rowIdx+2, ts.Format(time.RFC3339))
		}
		prev = ts
		t.Timestamps = append(t.Timestamps, ts)

		for i, name := range header {
			if i == tsCol {
				continue
			}
			v, err := parseCell(rec[i])
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", rowIdx+2, name, err)
			}
			key := strings.TrimSpace(name)
			t.Columns[key] = append(t.Columns[key], v)
		}
	}

	return t, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

func parseCell(s string) (model.Value, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return model.Missing(), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return model.Value{}, fmt.Errorf("unparseable number %q", s)
	}
	return model.Num(f), nil
}
