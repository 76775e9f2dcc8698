package model

import "errors"

// PlantParams defines the economic parameters of a gas-fired plant.
// Units:
// - Efficiency: fraction 0..1 (thermal-to-electric)
// - EmissionFactorThermal: tCO2 per MWh of thermal input
// - VariableCostPerMWh: EUR/MWh of electrical output
type PlantParams struct {
	Efficiency            float64
	EmissionFactorThermal float64
	VariableCostPerMWh    float64
}

// Validate rejects parameter sets the spread calculator must never see.
// Efficiency of zero would divide by zero; it is a caller error, caught here.
func (p PlantParams) Validate() error {
	if p.Efficiency <= 0 || p.Efficiency > 1 {
		return errors.New("Efficiency must be in (0, 1]")
	}
	if p.EmissionFactorThermal < 0 {
		return errors.New("EmissionFactorThermal must be >= 0")
	}
	// VariableCostPerMWh may be any sign.
	return nil
}
