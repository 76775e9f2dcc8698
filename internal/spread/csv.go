package spread

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"spark-spread/internal/model"
)

// TableRow is one row of raw-data output: the input prices that produced a
// spread value, alongside the value itself.
type TableRow struct {
	Index     int
	Timestamp time.Time

	Market   string
	GasIndex string

	MarketPrice model.Value
	GasPrice    model.Value
	CarbonPrice model.Value
	CSS         model.Value
}

// BuildTable zips the filtered input series with the computed spread.
// Series are assumed aligned; Compute has already rejected misaligned input.
func BuildTable(points []Point, market, gas, carbon []model.Value, marketCode, gasCode string) []TableRow {
	rows := make([]TableRow, len(points))
	for i, p := range points {
		rows[i] = TableRow{
			Index:       i,
			Timestamp:   p.Timestamp,
			Market:      marketCode,
			GasIndex:    gasCode,
			MarketPrice: market[i],
			GasPrice:    gas[i],
			CarbonPrice: carbon[i],
			CSS:         p.CSS,
		}
	}
	return rows
}

// WriteTableCSV writes the raw-data table to a CSV file. Missing values are
// written as empty cells.
func WriteTableCSV(path string, rows []TableRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"index",
		"datetime",
		"market",
		"gas_index",
		"market_price",
		"gas_price",
		"carbon_price",
		"css",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		row := []string{
			strconv.Itoa(r.Index),
			fmtTime(r.Timestamp),
			r.Market,
			r.GasIndex,
			fmtValue(r.MarketPrice),
			fmtValue(r.GasPrice),
			fmtValue(r.CarbonPrice),
			fmtValue(r.CSS),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func fmtValue(v model.Value) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float, 'f', 6, 64)
}
