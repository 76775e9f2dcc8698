package spread

import (
	"fmt"
	"time"

	"spark-spread/internal/model"
)

// Point is the clean spark spread at one timestamp. CSS is missing whenever
// any of the input prices was missing at that timestamp.
type Point struct {
	Timestamp time.Time
	CSS       model.Value
}

// Compute evaluates the clean spark spread for every timestamp:
//
//	CSS(t) = market(t) - gas(t)/efficiency
//	                   - carbon(t)*(emissionFactor/efficiency)
//	                   - variableCost
//
// The three price series must be aligned to ts. Values are returned as-is:
// no clamping, no rounding; negative spreads are meaningful. The computation
// is pure: same inputs always produce the same output.
func Compute(ts []time.Time, market, gas, carbon []model.Value, params model.PlantParams) ([]Point, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("plant params invalid: %w", err)
	}
	if len(market) != len(ts) || len(gas) != len(ts) || len(carbon) != len(ts) {
		return nil, fmt.Errorf("misaligned series: %d timestamps, market=%d gas=%d carbon=%d",
			len(ts), len(market), len(gas), len(carbon))
	}

	carbonPerMWh := params.EmissionFactorThermal / params.Efficiency

	points := make([]Point, len(ts))
	for i, t := range ts {
		points[i] = Point{Timestamp: t}
		if !market[i].Valid || !gas[i].Valid || !carbon[i].Valid {
			// A gap in any input propagates as a gap in the output.
			continue
		}
		css := market[i].Float -
			gas[i].Float/params.Efficiency -
			carbon[i].Float*carbonPerMWh -
			params.VariableCostPerMWh
		points[i].CSS = model.Num(css)
	}
	return points, nil
}
