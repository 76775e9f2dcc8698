package handlers

import (
	"net/http"

	"spark-spread/internal/api/models"
	"spark-spread/internal/dataset"

	"github.com/gin-gonic/gin"
)

// MarketsHandler reports the selectable market and gas-index codes.
type MarketsHandler struct {
	table *dataset.Table
}

// NewMarketsHandler creates a new markets handler.
func NewMarketsHandler(table *dataset.Table) *MarketsHandler {
	return &MarketsHandler{table: table}
}

// ListMarkets handles GET /api/v1/markets.
// Every supported code is listed; `present` tells the frontend which ones
// the loaded dataset actually carries, so missing columns surface in the
// selector instead of at compute time.
func (h *MarketsHandler) ListMarkets(c *gin.Context) {
	resp := models.MarketsResponse{
		Markets:    h.codeInfos(dataset.Markets),
		GasIndexes: h.codeInfos(dataset.GasIndexes),
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MarketsHandler) codeInfos(codes []string) []models.CodeInfo {
	out := make([]models.CodeInfo, len(codes))
	for i, code := range codes {
		_, err := h.table.Series(code)
		out[i] = models.CodeInfo{Code: code, Present: err == nil}
	}
	return out
}
