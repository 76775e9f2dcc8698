package spread

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"spark-spread/internal/model"
)

// Window is a daily clock-time interval, inclusive on both ends.
// Bounds are "HH:MM" strings interpreted in the timestamps' own clock.
type Window struct {
	Start string
	End   string
}

// DefaultWindow is the conventional high-demand window.
func DefaultWindow() Window {
	return Window{Start: "08:00", End: "20:00"}
}

// Summary holds the two scalar aggregates, rounded to 2 decimals.
// An invalid mean signals "no data" for that selection; it is never 0 or NaN.
type Summary struct {
	MeanAll   model.Value
	MeanPeak  model.Value
	Count     int
	PeakCount int
}

// Summarize computes the all-hours mean and the peak-window mean of a spread
// series. Missing spread values do not contribute to either mean; a mean
// with zero contributing values is reported as missing.
func Summarize(points []Point, w Window) (Summary, error) {
	startMins, err := parseHHMM(w.Start)
	if err != nil {
		return Summary{}, fmt.Errorf("window start: %w", err)
	}
	endMins, err := parseHHMM(w.End)
	if err != nil {
		return Summary{}, fmt.Errorf("window end: %w", err)
	}

	var sumAll, sumPeak float64
	var nAll, nPeak int
	for _, p := range points {
		if !p.CSS.Valid {
			continue
		}
		sumAll += p.CSS.Float
		nAll++

		mins := p.Timestamp.Hour()*60 + p.Timestamp.Minute()
		if inWindow(mins, startMins, endMins) {
			sumPeak += p.CSS.Float
			nPeak++
		}
	}

	s := Summary{Count: nAll, PeakCount: nPeak}
	if nAll > 0 {
		s.MeanAll = model.Num(round2(sumAll / float64(nAll)))
	}
	if nPeak > 0 {
		s.MeanPeak = model.Num(round2(sumPeak / float64(nPeak)))
	}
	return s, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func parseHHMM(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}

// inWindow checks whether tMins is in [start, end] on a 24h clock,
// inclusive on both ends. If start > end the window wraps across midnight.
func inWindow(tMins, start, end int) bool {
	if start <= end {
		return tMins >= start && tMins <= end
	}
	return tMins >= start || tMins <= end
}
