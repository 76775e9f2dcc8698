package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"spark-spread/internal/config"
	"spark-spread/internal/dataset"
	"spark-spread/internal/model"
	"spark-spread/internal/spread"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "spread":
		cmdSpread(os.Args[2:], true)
	case "summary":
		cmdSpread(os.Args[2:], false)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli spread  --data data/unified_energy_dataset.csv --market FR --gas TTF --out results/css.csv")
	fmt.Println("  cli summary --data data/unified_energy_dataset.csv --market FR --gas TTF")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - spread writes the raw-data table (prices + CSS per timestamp) as CSV")
	fmt.Println("  - summary prints the all-hours and peak-window mean CSS")
	fmt.Println("  - plant parameters come from --config (YAML) with flag overrides")
}

func cmdSpread(args []string, writeCSV bool) {
	fs := flag.NewFlagSet("spread", flag.ExitOnError)
	dataPath := fs.String("data", "data/unified_energy_dataset.csv", "Path to the unified energy dataset CSV")
	cfgPath := fs.String("config", "", "Optional YAML config with plant parameters")
	market := fs.String("market", "FR", "Power market code (FR, BE)")
	gasIndex := fs.String("gas", "TTF", "Gas index code")
	startStr := fs.String("start", "", "Start date YYYY-MM-DD (default: floor-clamped dataset minimum)")
	endStr := fs.String("end", "", "End date YYYY-MM-DD (default: dataset maximum)")
	effPct := fs.Float64("efficiency", 0, "Efficiency percent override (30-65)")
	emission := fs.Float64("emission-factor", 0, "Emission factor override (tCO2/MWh_th)")
	varCost := fs.Float64("variable-cost", 0, "Variable cost override (EUR/MWh)")
	outPath := fs.String("out", "results/css.csv", "Output CSV path (spread subcommand)")
	_ = fs.Parse(args)

	table, err := dataset.Load(*dataPath)
	if err != nil {
		fatal(err)
	}

	cfg := &config.Config{}
	if *cfgPath != "" {
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			fatal(err)
		}
	}
	override := config.PlantConfig{
		EfficiencyPercent:     *effPct,
		EmissionFactorThermal: *emission,
	}
	// The flag zero value can't stand for "unset" here: --variable-cost 0
	// is a meaningful override. Only pass it through when the flag was given.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "variable-cost" {
			override.VariableCostPerMWh = varCost
		}
	})
	cfg.Plant = config.MergePlant(cfg.Plant, override)
	cfg.ApplyDefaults()
	params := cfg.Plant.ToModelParams()
	if err := params.Validate(); err != nil {
		fatal(err)
	}

	start := table.EffectiveMinDate(dataset.FloorDate)
	end := table.MaxDate()
	if *startStr != "" {
		if start, err = time.Parse("2006-01-02", *startStr); err != nil {
			fatal(err)
		}
	}
	if *endStr != "" {
		if end, err = time.Parse("2006-01-02", *endStr); err != nil {
			fatal(err)
		}
	}

	filtered := table.FilterDates(start, end)
	marketSeries, err := filtered.Series(*market)
	if err != nil {
		fatal(err)
	}
	gasSeries, err := filtered.Series(*gasIndex)
	if err != nil {
		fatal(err)
	}
	carbonSeries, err := filtered.Series(dataset.CarbonColumn)
	if err != nil {
		fatal(err)
	}

	points, err := spread.Compute(filtered.Timestamps, marketSeries, gasSeries, carbonSeries, params)
	if err != nil {
		fatal(err)
	}

	window := spread.Window{Start: cfg.Window.PeakStart, End: cfg.Window.PeakEnd}
	summary, err := spread.Summarize(points, window)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("rows=%d market=%s gas=%s range=[%s, %s]\n",
		len(points), *market, *gasIndex,
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	fmt.Printf("average CSS (EUR/MWh):      %s\n", fmtMean(summary.MeanAll))
	fmt.Printf("average peak CSS (EUR/MWh): %s  (window %s-%s, %d values)\n",
		fmtMean(summary.MeanPeak), window.Start, window.End, summary.PeakCount)

	if !writeCSV {
		return
	}

	rows := spread.BuildTable(points, marketSeries, gasSeries, carbonSeries, *market, *gasIndex)
	if dir := filepath.Dir(*outPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fatal(err)
		}
	}
	if err := spread.WriteTableCSV(*outPath, rows); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %s\n", *outPath)
}

func fmtMean(v model.Value) string {
	if !v.Valid {
		return "no data"
	}
	return strconv.FormatFloat(v.Float, 'f', 2, 64)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
