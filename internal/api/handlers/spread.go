package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"spark-spread/internal/api/models"
	"spark-spread/internal/config"
	"spark-spread/internal/dataset"
	"spark-spread/internal/logger"
	"spark-spread/internal/model"
	"spark-spread/internal/results"
	"spark-spread/internal/spread"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// SpreadHandler computes clean spark spread runs over the loaded dataset.
// The dataset is read-only for the lifetime of the process; every request
// is an independent, full recomputation over the filtered range.
type SpreadHandler struct {
	table     *dataset.Table
	floor     time.Time
	plantsDir string
	results   *results.Store
	log       *logger.Logger
}

// NewSpreadHandler creates a new spread handler.
func NewSpreadHandler(table *dataset.Table, floor time.Time, plantsDir string, store *results.Store, log *logger.Logger) *SpreadHandler {
	return &SpreadHandler{
		table:     table,
		floor:     floor,
		plantsDir: plantsDir,
		results:   store,
		log:       log,
	}
}

// ComputeSpread handles POST /api/v1/spread.
func (h *SpreadHandler) ComputeSpread(c *gin.Context) {
	var req models.SpreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	// Resolve the three price columns. An unsupported code or a column the
	// dataset doesn't carry is a configuration error; nothing is computed.
	if errResp := h.validateColumns(req.Market, req.GasIndex); errResp != nil {
		c.JSON(http.StatusBadRequest, *errResp)
		return
	}

	params, plantName, err := h.resolvePlant(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_PLANT",
				Message: err.Error(),
			},
		})
		return
	}

	start, end, errResp := h.resolveRange(req.StartDate, req.EndDate)
	if errResp != nil {
		c.JSON(http.StatusBadRequest, *errResp)
		return
	}

	window := spread.DefaultWindow()
	if req.Window != nil {
		window = spread.Window{Start: req.Window.PeakStart, End: req.Window.PeakEnd}
	}

	filtered := h.table.FilterDates(start, end)
	marketSeries, _ := filtered.Series(req.Market)
	gasSeries, _ := filtered.Series(req.GasIndex)
	carbonSeries, _ := filtered.Series(dataset.CarbonColumn)

	points, err := spread.Compute(filtered.Timestamps, marketSeries, gasSeries, carbonSeries, params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "COMPUTE_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	summary, err := spread.Summarize(points, window)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_WINDOW",
				Message: err.Error(),
			},
		})
		return
	}

	id := h.results.Put(&results.Run{
		Market:   req.Market,
		GasIndex: req.GasIndex,
		Points:   points,
		Summary:  summary,
	})

	h.log.Infow("spread computed",
		"id", id,
		"market", req.Market,
		"gas_index", req.GasIndex,
		"plant", plantName,
		"rows", len(points),
		"start", start.Format(dateLayout),
		"end", end.Format(dateLayout),
	)

	resp := models.SpreadResponse{
		ID:      id,
		Status:  "completed",
		Summary: buildSummary(summary, req, window, start, end),
	}
	if req.Options.IncludeSeries {
		resp.Series = convertSeries(points)
	}
	if req.Options.IncludeTable {
		resp.Table = convertTable(points, marketSeries, gasSeries, carbonSeries)
	}

	c.JSON(http.StatusOK, resp)
}

// GetSeries handles GET /api/v1/spread/:id/series.
// Runs are kept in memory with a TTL; after expiry the client recomputes.
func (h *SpreadHandler) GetSeries(c *gin.Context) {
	id := c.Param("id")
	run, ok := h.results.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "RESULT_NOT_FOUND",
				Message: fmt.Sprintf("no stored run with id %q; it may have expired", id),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         run.ID,
		"created_at": run.CreatedAt,
		"market":     run.Market,
		"gas_index":  run.GasIndex,
		"series":     convertSeries(run.Points),
	})
}

// Helper methods

func (h *SpreadHandler) validateColumns(market, gasIndex string) *models.ErrorResponse {
	if !dataset.IsMarket(market) {
		return columnError(fmt.Sprintf("unsupported market code %q", market), market)
	}
	if !dataset.IsGasIndex(gasIndex) {
		return columnError(fmt.Sprintf("unsupported gas index %q", gasIndex), gasIndex)
	}
	for _, name := range []string{market, gasIndex, dataset.CarbonColumn} {
		if _, err := h.table.Series(name); err != nil {
			return columnError(err.Error(), name)
		}
	}
	return nil
}

func columnError(msg, column string) *models.ErrorResponse {
	return &models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "UNKNOWN_COLUMN",
			Message: msg,
			Details: map[string]interface{}{"column": column},
		},
	}
}

func (h *SpreadHandler) resolvePlant(req models.SpreadRequest) (model.PlantParams, string, error) {
	plant := config.PlantConfig{
		Name:                  req.Plant.Name,
		EfficiencyPercent:     req.Plant.EfficiencyPercent,
		EmissionFactorThermal: req.Plant.EmissionFactorThermal,
		VariableCostPerMWh:    req.Plant.VariableCostPerMWh,
	}

	// plant_file is just the preset name (e.g. "ccgt_baseline"); presets are
	// always looked up in the plants directory. Names with path separators
	// or parent references would escape it, so they are rejected outright.
	if req.PlantFile != "" {
		if strings.ContainsAny(req.PlantFile, `/\`) || strings.Contains(req.PlantFile, "..") {
			return model.PlantParams{}, "", fmt.Errorf("invalid plant preset name %q", req.PlantFile)
		}
		path := filepath.Join(h.plantsDir, req.PlantFile+".yaml")
		loaded, err := config.LoadPlantFile(path)
		if err != nil {
			return model.PlantParams{}, "", fmt.Errorf("plant preset %q: %w", req.PlantFile, err)
		}
		plant = config.MergePlant(loaded, plant)
	}

	cfg := config.Config{Plant: plant}
	cfg.ApplyDefaults()
	params := cfg.Plant.ToModelParams()
	if err := params.Validate(); err != nil {
		return model.PlantParams{}, "", err
	}
	return params, cfg.Plant.Name, nil
}

func (h *SpreadHandler) resolveRange(startStr, endStr string) (start, end time.Time, errResp *models.ErrorResponse) {
	effectiveMin := h.table.EffectiveMinDate(h.floor)
	start = effectiveMin
	end = h.table.MaxDate()

	var err error
	if startStr != "" {
		start, err = time.Parse(dateLayout, startStr)
		if err != nil {
			return time.Time{}, time.Time{}, rangeError("start_date", startStr)
		}
	}
	if endStr != "" {
		end, err = time.Parse(dateLayout, endStr)
		if err != nil {
			return time.Time{}, time.Time{}, rangeError("end_date", endStr)
		}
	}

	// Lower bound is clamped to the floor-adjusted dataset minimum.
	if start.Before(effectiveMin) {
		start = effectiveMin
	}
	// start after end is not an error: the filtered range is simply empty
	// and the aggregates come back as no-data.
	return start, end, nil
}

func rangeError(field, value string) *models.ErrorResponse {
	return &models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INVALID_RANGE",
			Message: fmt.Sprintf("%s %q is not a valid YYYY-MM-DD date", field, value),
		},
	}
}

func buildSummary(s spread.Summary, req models.SpreadRequest, w spread.Window, start, end time.Time) models.SpreadSummary {
	return models.SpreadSummary{
		AverageCSS:     s.MeanAll,
		AveragePeakCSS: s.MeanPeak,
		Count:          s.Count,
		PeakCount:      s.PeakCount,
		Market:         req.Market,
		GasIndex:       req.GasIndex,
		DateRange: models.DateRange{
			Start: start.Format(dateLayout),
			End:   end.Format(dateLayout),
		},
		Window: models.PeakWindow{PeakStart: w.Start, PeakEnd: w.End},
	}
}

func convertSeries(points []spread.Point) []models.SeriesPoint {
	out := make([]models.SeriesPoint, len(points))
	for i, p := range points {
		out[i] = models.SeriesPoint{Timestamp: p.Timestamp, CSS: p.CSS}
	}
	return out
}

func convertTable(points []spread.Point, market, gas, carbon []model.Value) []models.TableRow {
	out := make([]models.TableRow, len(points))
	for i, p := range points {
		out[i] = models.TableRow{
			Timestamp:   p.Timestamp,
			MarketPrice: market[i],
			GasPrice:    gas[i],
			CarbonPrice: carbon[i],
			CSS:         p.CSS,
		}
	}
	return out
}
