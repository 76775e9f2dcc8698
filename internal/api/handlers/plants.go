package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"spark-spread/internal/api/models"
	"spark-spread/internal/config"
	"spark-spread/internal/logger"

	"github.com/gin-gonic/gin"
)

// PlantsHandler lists the plant preset files.
type PlantsHandler struct {
	plantsDir string
	log       *logger.Logger
}

// NewPlantsHandler creates a new plants handler.
func NewPlantsHandler(plantsDir string, log *logger.Logger) *PlantsHandler {
	dir := plantsDir
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return &PlantsHandler{plantsDir: dir, log: log}
}

// ListPlants handles GET /api/v1/plants.
// A missing or empty presets directory yields an empty list, not an error;
// inline parameters always remain available.
func (h *PlantsHandler) ListPlants(c *gin.Context) {
	plants := []models.PlantInfo{}

	entries, err := os.ReadDir(h.plantsDir)
	if err != nil {
		h.log.Warnw("failed to read plants directory", "dir", h.plantsDir, "err", err)
		c.JSON(http.StatusOK, gin.H{"plants": plants})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(h.plantsDir, entry.Name())
		info, err := h.loadPlantInfo(path, entry.Name())
		if err != nil {
			h.log.Warnw("skipping invalid plant preset", "path", path, "err", err)
			continue
		}
		plants = append(plants, *info)
	}

	c.JSON(http.StatusOK, gin.H{"plants": plants})
}

func (h *PlantsHandler) loadPlantInfo(path, filename string) (*models.PlantInfo, error) {
	plant, err := config.LoadPlantFile(path)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSuffix(filename, ".yaml")
	name := plant.Name
	if name == "" {
		name = id
	}
	var varCost float64
	if plant.VariableCostPerMWh != nil {
		varCost = *plant.VariableCostPerMWh
	}

	return &models.PlantInfo{
		ID:   id,
		Name: name,
		File: path,
		Specs: models.PlantSpecs{
			EfficiencyPercent:     plant.EfficiencyPercent,
			EmissionFactorThermal: plant.EmissionFactorThermal,
			VariableCostPerMWh:    varCost,
		},
	}, nil
}
