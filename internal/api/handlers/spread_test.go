package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spark-spread/internal/dataset"
	"spark-spread/internal/logger"
	"spark-spread/internal/model"
	"spark-spread/internal/results"
)

// testTable holds one day of hourly data with constant prices, so every
// CSS value for the reference plant is exactly 23.6.
func testTable() *dataset.Table {
	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	n := 24
	ts := make([]time.Time, n)
	fr := make([]model.Value, n)
	ttf := make([]model.Value, n)
	eua := make([]model.Value, n)
	for i := 0; i < n; i++ {
		ts[i] = base.Add(time.Duration(i) * time.Hour)
		fr[i] = model.Num(100)
		ttf[i] = model.Num(30)
		eua[i] = model.Num(80)
	}
	return &dataset.Table{
		Timestamps: ts,
		Columns: map[string][]model.Value{
			"FR":                 fr,
			"TTF":                ttf,
			dataset.CarbonColumn: eua,
		},
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	plantsDir := t.TempDir()
	preset := "plant:\n  name: CCGT baseline\n  efficiency_percent: 50\n  emission_factor_th: 0.09\n  variable_cost_per_mwh: 2.0\n"
	require.NoError(t, os.WriteFile(filepath.Join(plantsDir, "ccgt_baseline.yaml"), []byte(preset), 0o644))

	floor := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	log := logger.Get(logger.ErrorLevel)
	store := results.NewStore(time.Minute)

	h := NewSpreadHandler(testTable(), floor, plantsDir, store, log)
	mh := NewMarketsHandler(testTable())
	ph := NewPlantsHandler(plantsDir, log)
	dh := NewDatasetHandler(testTable(), floor)

	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/spread", h.ComputeSpread)
	api.GET("/spread/:id/series", h.GetSeries)
	api.GET("/markets", mh.ListMarkets)
	api.GET("/plants", ph.ListPlants)
	api.GET("/dataset", dh.GetDataset)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestComputeSpreadInlineParams(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/spread", gin.H{
		"market":    "FR",
		"gas_index": "TTF",
		"plant": gin.H{
			"efficiency_percent":    50,
			"emission_factor_th":    0.09,
			"variable_cost_per_mwh": 2.0,
		},
		"options": gin.H{"include_series": true, "include_table": true},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		ID      string `json:"id"`
		Status  string `json:"status"`
		Summary struct {
			AverageCSS     *float64 `json:"average_css"`
			AveragePeakCSS *float64 `json:"average_peak_css"`
			Count          int      `json:"count"`
			PeakCount      int      `json:"peak_count"`
		} `json:"summary"`
		Series []json.RawMessage `json:"series"`
		Table  []json.RawMessage `json:"table"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "completed", resp.Status)
	assert.NotEmpty(t, resp.ID)
	require.NotNil(t, resp.Summary.AverageCSS)
	require.NotNil(t, resp.Summary.AveragePeakCSS)
	assert.InDelta(t, 23.6, *resp.Summary.AverageCSS, 1e-9)
	assert.InDelta(t, 23.6, *resp.Summary.AveragePeakCSS, 1e-9)
	assert.Equal(t, 24, resp.Summary.Count)
	assert.Equal(t, 13, resp.Summary.PeakCount) // 08:00..20:00 inclusive
	assert.Len(t, resp.Series, 24)
	assert.Len(t, resp.Table, 24)
}

func TestComputeSpreadWithPreset(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/spread", gin.H{
		"market":     "FR",
		"gas_index":  "TTF",
		"plant_file": "ccgt_baseline",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Summary struct {
			AverageCSS *float64 `json:"average_css"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Summary.AverageCSS)
	assert.InDelta(t, 23.6, *resp.Summary.AverageCSS, 1e-9)
}

// An explicit zero variable cost is a real parameter choice, not an unset
// field: the mean must come out 2.0 higher than with the default cost.
func TestComputeSpreadExplicitZeroVariableCost(t *testing.T) {
	r := newTestRouter(t)

	mean := func(body gin.H) float64 {
		w := doJSON(t, r, http.MethodPost, "/api/v1/spread", body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp struct {
			Summary struct {
				AverageCSS *float64 `json:"average_css"`
			} `json:"summary"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Summary.AverageCSS)
		return *resp.Summary.AverageCSS
	}

	t.Run("inline", func(t *testing.T) {
		got := mean(gin.H{
			"market": "FR", "gas_index": "TTF",
			"plant": gin.H{
				"efficiency_percent":    50,
				"emission_factor_th":    0.09,
				"variable_cost_per_mwh": 0,
			},
		})
		assert.InDelta(t, 25.6, got, 1e-9)
	})

	t.Run("zero overrides preset cost", func(t *testing.T) {
		got := mean(gin.H{
			"market": "FR", "gas_index": "TTF",
			"plant_file": "ccgt_baseline",
			"plant":      gin.H{"variable_cost_per_mwh": 0},
		})
		assert.InDelta(t, 25.6, got, 1e-9)
	})
}

func TestComputeSpreadErrors(t *testing.T) {
	r := newTestRouter(t)

	errCode := func(w *httptest.ResponseRecorder) string {
		var resp struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp.Error.Code
	}

	t.Run("unsupported market code", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/spread", gin.H{"market": "DE", "gas_index": "TTF"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "UNKNOWN_COLUMN", errCode(w))
	})

	t.Run("supported code absent from dataset", func(t *testing.T) {
		// BE is a valid market but the test table doesn't carry the column.
		w := doJSON(t, r, http.MethodPost, "/api/v1/spread", gin.H{"market": "BE", "gas_index": "TTF"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "UNKNOWN_COLUMN", errCode(w))
	})

	t.Run("efficiency below slider range", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/spread", gin.H{
			"market": "FR", "gas_index": "TTF",
			"plant": gin.H{"efficiency_percent": 10},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_REQUEST", errCode(w))
	})

	t.Run("unknown plant preset", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/spread", gin.H{
			"market": "FR", "gas_index": "TTF", "plant_file": "does_not_exist",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_PLANT", errCode(w))
	})

	t.Run("preset name escaping the plants dir", func(t *testing.T) {
		for _, name := range []string{"../../etc/passwd", "sub/ccgt", `..\..\ccgt`, "..ccgt"} {
			w := doJSON(t, r, http.MethodPost, "/api/v1/spread", gin.H{
				"market": "FR", "gas_index": "TTF", "plant_file": name,
			})
			assert.Equal(t, http.StatusBadRequest, w.Code, name)
			assert.Equal(t, "INVALID_PLANT", errCode(w), name)
		}
	})

	t.Run("malformed date", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/spread", gin.H{
			"market": "FR", "gas_index": "TTF", "start_date": "01/04/2025",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_RANGE", errCode(w))
	})

	t.Run("malformed window", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/spread", gin.H{
			"market": "FR", "gas_index": "TTF",
			"window": gin.H{"peak_start": "8am", "peak_end": "20:00"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_WINDOW", errCode(w))
	})
}

func TestComputeSpreadEmptyRangeIsNoData(t *testing.T) {
	r := newTestRouter(t)

	// Start beyond the dataset maximum: empty selection, not an error.
	w := doJSON(t, r, http.MethodPost, "/api/v1/spread", gin.H{
		"market": "FR", "gas_index": "TTF",
		"start_date": "2025-05-01", "end_date": "2025-05-02",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Summary struct {
			AverageCSS     *float64 `json:"average_css"`
			AveragePeakCSS *float64 `json:"average_peak_css"`
			Count          int      `json:"count"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Summary.AverageCSS, "no data must surface as null, not 0")
	assert.Nil(t, resp.Summary.AveragePeakCSS)
	assert.Equal(t, 0, resp.Summary.Count)
}

func TestGetSeries(t *testing.T) {
	r := newTestRouter(t)

	t.Run("unknown id", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/v1/spread/bogus/series", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("stored run round-trips", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/spread", gin.H{"market": "FR", "gas_index": "TTF"})
		require.Equal(t, http.StatusOK, w.Code)

		var created struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		require.NotEmpty(t, created.ID)

		w = doJSON(t, r, http.MethodGet, "/api/v1/spread/"+created.ID+"/series", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var fetched struct {
			ID     string            `json:"id"`
			Market string            `json:"market"`
			Series []json.RawMessage `json:"series"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
		assert.Equal(t, created.ID, fetched.ID)
		assert.Equal(t, "FR", fetched.Market)
		assert.Len(t, fetched.Series, 24)
	})
}

func TestListMarkets(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/markets", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Markets []struct {
			Code    string `json:"code"`
			Present bool   `json:"present"`
		} `json:"markets"`
		GasIndexes []struct {
			Code    string `json:"code"`
			Present bool   `json:"present"`
		} `json:"gas_indexes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	byCode := map[string]bool{}
	for _, m := range resp.Markets {
		byCode[m.Code] = m.Present
	}
	assert.True(t, byCode["FR"])
	assert.False(t, byCode["BE"], "BE is supported but absent from the test table")
	assert.Len(t, resp.GasIndexes, 9)
}

func TestListPlants(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/plants", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Plants []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"plants"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Plants, 1)
	assert.Equal(t, "ccgt_baseline", resp.Plants[0].ID)
	assert.Equal(t, "CCGT baseline", resp.Plants[0].Name)
}

func TestGetDataset(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/dataset", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Rows             int    `json:"rows"`
		MinDate          string `json:"min_date"`
		MaxDate          string `json:"max_date"`
		EffectiveMinDate string `json:"effective_min_date"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 24, resp.Rows)
	assert.Equal(t, "2025-04-01", resp.MinDate)
	assert.Equal(t, "2025-04-01", resp.EffectiveMinDate)
	assert.Equal(t, "2025-04-01", resp.MaxDate)
}
