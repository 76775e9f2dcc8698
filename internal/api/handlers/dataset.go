package handlers

import (
	"net/http"
	"sort"
	"time"

	"spark-spread/internal/api/models"
	"spark-spread/internal/dataset"

	"github.com/gin-gonic/gin"
)

// DatasetHandler reports the loaded dataset's bounds.
type DatasetHandler struct {
	table *dataset.Table
	floor time.Time
}

// NewDatasetHandler creates a new dataset handler.
func NewDatasetHandler(table *dataset.Table, floor time.Time) *DatasetHandler {
	return &DatasetHandler{table: table, floor: floor}
}

// GetDataset handles GET /api/v1/dataset.
func (h *DatasetHandler) GetDataset(c *gin.Context) {
	columns := h.table.ColumnNames()
	sort.Strings(columns)

	c.JSON(http.StatusOK, models.DatasetInfo{
		Rows:             h.table.Rows(),
		MinDate:          h.table.MinDate().Format(dateLayout),
		MaxDate:          h.table.MaxDate().Format(dateLayout),
		EffectiveMinDate: h.table.EffectiveMinDate(h.floor).Format(dateLayout),
		Columns:          columns,
	})
}
