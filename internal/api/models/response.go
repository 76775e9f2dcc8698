package models

import (
	"time"

	"spark-spread/internal/model"
)

// SpreadResponse represents the response from a spread run.
type SpreadResponse struct {
	ID      string        `json:"id,omitempty"`
	Status  string        `json:"status"`
	Summary SpreadSummary `json:"summary"`
	Series  []SeriesPoint `json:"series,omitempty"`
	Table   []TableRow    `json:"table,omitempty"`
}

// SpreadSummary contains the two scalar aggregates plus the selection that
// produced them. Means are null when the selection holds no data.
type SpreadSummary struct {
	AverageCSS     model.Value `json:"average_css"`
	AveragePeakCSS model.Value `json:"average_peak_css"`
	Count          int         `json:"count"`
	PeakCount      int         `json:"peak_count"`
	Market         string      `json:"market"`
	GasIndex       string      `json:"gas_index"`
	DateRange      DateRange   `json:"date_range"`
	Window         PeakWindow  `json:"window"`
}

// DateRange is an inclusive calendar-date interval.
type DateRange struct {
	Start string `json:"start"` // YYYY-MM-DD
	End   string `json:"end"`
}

// SeriesPoint is one point of the spread time series, the chart's data
// contract. CSS is null where any input price was missing.
type SeriesPoint struct {
	Timestamp time.Time   `json:"t"`
	CSS       model.Value `json:"css"`
}

// TableRow is one row of the raw-data table.
type TableRow struct {
	Timestamp   time.Time   `json:"t"`
	MarketPrice model.Value `json:"market_price"`
	GasPrice    model.Value `json:"gas_price"`
	CarbonPrice model.Value `json:"carbon_price"`
	CSS         model.Value `json:"css"`
}

// MarketsResponse lists supported codes and which of them the loaded
// dataset actually carries.
type MarketsResponse struct {
	Markets    []CodeInfo `json:"markets"`
	GasIndexes []CodeInfo `json:"gas_indexes"`
}

// CodeInfo describes one selectable column code.
type CodeInfo struct {
	Code    string `json:"code"`
	Present bool   `json:"present"`
}

// PlantInfo represents information about a plant preset.
type PlantInfo struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	File  string     `json:"file"`
	Specs PlantSpecs `json:"specs"`
}

// PlantSpecs contains the preset's parameter values.
type PlantSpecs struct {
	EfficiencyPercent     float64 `json:"efficiency_percent"`
	EmissionFactorThermal float64 `json:"emission_factor_th"`
	VariableCostPerMWh    float64 `json:"variable_cost_per_mwh"`
}

// DatasetInfo describes the loaded dataset's bounds.
type DatasetInfo struct {
	Rows             int      `json:"rows"`
	MinDate          string   `json:"min_date"`
	MaxDate          string   `json:"max_date"`
	EffectiveMinDate string   `json:"effective_min_date"`
	Columns          []string `json:"columns"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
