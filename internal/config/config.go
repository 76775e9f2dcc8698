package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"spark-spread/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk run configuration shape (YAML).
type Config struct {
	// Optional: load plant parameters from a separate YAML (e.g. examples/plants/*.yaml).
	// If both PlantFile and Plant are provided, Plant overrides PlantFile.
	PlantFile string       `yaml:"plant_file"`
	Plant     PlantConfig  `yaml:"plant"`
	Window    WindowConfig `yaml:"window"`
}

// PlantConfig mirrors the user-facing parameter surface: efficiency is a
// percentage here (slider range 30..65), a fraction in model.PlantParams.
// VariableCostPerMWh is a pointer because zero is a legitimate value; only
// nil means "not set".
type PlantConfig struct {
	Name                  string   `yaml:"name"`
	EfficiencyPercent     float64  `yaml:"efficiency_percent"`
	EmissionFactorThermal float64  `yaml:"emission_factor_th"`
	VariableCostPerMWh    *float64 `yaml:"variable_cost_per_mwh"`
}

// WindowConfig is the daily peak window, "HH:MM" bounds inclusive.
type WindowConfig struct {
	PeakStart string `yaml:"peak_start"`
	PeakEnd   string `yaml:"peak_end"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate or default it.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	// If plant_file is set, load it and merge in any explicit overrides from c.Plant.
	if c.PlantFile != "" {
		plantPath := c.PlantFile
		if !filepath.IsAbs(plantPath) {
			// Prefer interpreting relative paths as relative to the config file
			// directory, falling back to the path as given if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), plantPath)
			if _, err := os.Stat(cand); err == nil {
				plantPath = cand
			}
		}
		loaded, err := LoadPlantFile(plantPath)
		if err != nil {
			return nil, err
		}
		c.Plant = MergePlant(loaded, c.Plant)
	}
	return &c, nil
}

// ApplyDefaults fills unset fields with the dashboard defaults.
func (c *Config) ApplyDefaults() {
	if c.Plant.EfficiencyPercent == 0 {
		c.Plant.EfficiencyPercent = 50
	}
	if c.Plant.EmissionFactorThermal == 0 {
		c.Plant.EmissionFactorThermal = 0.090
	}
	if c.Plant.VariableCostPerMWh == nil {
		vc := 2.0
		c.Plant.VariableCostPerMWh = &vc
	}
	if c.Window.PeakStart == "" {
		c.Window.PeakStart = "08:00"
	}
	if c.Window.PeakEnd == "" {
		c.Window.PeakEnd = "20:00"
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	// Validate plant params by converting to the model type.
	if err := c.Plant.ToModelParams().Validate(); err != nil {
		return fmt.Errorf("plant config invalid: %w", err)
	}
	return nil
}

func (p PlantConfig) ToModelParams() model.PlantParams {
	var vc float64
	if p.VariableCostPerMWh != nil {
		vc = *p.VariableCostPerMWh
	}
	return model.PlantParams{
		Efficiency:            p.EfficiencyPercent / 100,
		EmissionFactorThermal: p.EmissionFactorThermal,
		VariableCostPerMWh:    vc,
	}
}

type plantFileWrapper struct {
	Plant PlantConfig `yaml:"plant"`
}

// LoadPlantFile reads a standalone plant preset YAML.
func LoadPlantFile(path string) (PlantConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return PlantConfig{}, err
	}
	var w plantFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return PlantConfig{}, err
	}
	return w.Plant, nil
}

// MergePlant overlays set fields from override onto base. For the
// pointer-typed variable cost "set" means non-nil, so an explicit zero
// override wins over the base value.
// This is used when loading a plant preset and then applying overrides from
// the request.
func MergePlant(base, override PlantConfig) PlantConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.EfficiencyPercent != 0 {
		out.EfficiencyPercent = override.EfficiencyPercent
	}
	if override.EmissionFactorThermal != 0 {
		out.EmissionFactorThermal = override.EmissionFactorThermal
	}
	if override.VariableCostPerMWh != nil {
		out.VariableCostPerMWh = override.VariableCostPerMWh
	}
	return out
}
