package models

// SpreadRequest represents the request body for computing a spread run.
type SpreadRequest struct {
	Market   string `json:"market" binding:"required"`
	GasIndex string `json:"gas_index" binding:"required"`

	// Either a plant preset by name (file under the plants dir, without
	// extension) or inline parameters. Inline values override the preset.
	PlantFile string      `json:"plant_file,omitempty"`
	Plant     PlantParams `json:"plant,omitempty"`

	// Inclusive calendar dates, YYYY-MM-DD. Defaults: the dataset's
	// floor-clamped minimum and its maximum.
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`

	Window  *PeakWindow   `json:"window,omitempty"`
	Options SpreadOptions `json:"options,omitempty"`
}

// PlantParams defines user-adjustable plant parameters.
// Bounds mirror the dashboard sliders; zero means "not set" so a preset
// value can shine through. VariableCostPerMWh is a pointer because zero
// is a valid cost; absence is nil.
type PlantParams struct {
	Name                  string   `json:"name,omitempty"`
	EfficiencyPercent     float64  `json:"efficiency_percent,omitempty" binding:"omitempty,gte=30,lte=65"`
	EmissionFactorThermal float64  `json:"emission_factor_th,omitempty" binding:"omitempty,gte=0.050,lte=0.250"`
	VariableCostPerMWh    *float64 `json:"variable_cost_per_mwh,omitempty"`
}

// PeakWindow overrides the default 08:00-20:00 peak window.
type PeakWindow struct {
	PeakStart string `json:"peak_start" binding:"required"`
	PeakEnd   string `json:"peak_end" binding:"required"`
}

// SpreadOptions contains optional response shaping flags.
type SpreadOptions struct {
	IncludeSeries bool `json:"include_series,omitempty"` // per-timestamp CSS, default: false
	IncludeTable  bool `json:"include_table,omitempty"`  // raw prices + CSS per row, default: false
}
