package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spark-spread/internal/api/handlers"
	"spark-spread/internal/api/middleware"
	"spark-spread/internal/dataset"
	"spark-spread/internal/logger"
	"spark-spread/internal/results"
	"spark-spread/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

const shutdownTimeout = 5 * time.Second

func main() {
	loadConfig()
	log := logger.Get(viper.GetString("log_level"))

	// The dataset is loaded once and is read-only for the process lifetime.
	// Without it no computation is possible, so a load failure is fatal.
	table, err := dataset.Load(viper.GetString("dataset_path"))
	if err != nil {
		log.Fatalw("failed to load dataset", "path", viper.GetString("dataset_path"), "err", err)
	}
	log.Infow("dataset loaded",
		"path", viper.GetString("dataset_path"),
		"rows", table.Rows(),
		"min_date", table.MinDate().Format("2006-01-02"),
		"max_date", table.MaxDate().Format("2006-01-02"),
	)

	floor := dataset.FloorDate
	if s := viper.GetString("floor_date"); s != "" {
		f, err := time.Parse("2006-01-02", s)
		if err != nil {
			log.Fatalw("invalid floor_date in config", "floor_date", s, "err", err)
		}
		floor = f
	}

	store := results.NewStore(viper.GetDuration("result_ttl"))

	// Set up Gin router
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler(log))

	spreadHandler := handlers.NewSpreadHandler(table, floor, viper.GetString("plants_dir"), store, log)
	marketsHandler := handlers.NewMarketsHandler(table)
	plantsHandler := handlers.NewPlantsHandler(viper.GetString("plants_dir"), log)
	datasetHandler := handlers.NewDatasetHandler(table, floor)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/spread", spreadHandler.ComputeSpread)
		api.GET("/spread/:id/series", spreadHandler.GetSeries)

		api.GET("/markets", marketsHandler.ListMarkets)
		api.GET("/plants", plantsHandler.ListPlants)
		api.GET("/dataset", datasetHandler.GetDataset)
	}

	// Serve static files from web/dist (if it exists)
	staticDir := viper.GetString("static_dir")
	if _, err := os.Stat(staticDir); err == nil {
		router.Static("/assets", staticDir+"/assets")
		router.StaticFile("/favicon.ico", staticDir+"/favicon.ico")

		// Serve index.html for all non-API routes (SPA routing)
		router.NoRoute(func(c *gin.Context) {
			path := c.Request.URL.Path
			if len(path) >= 4 && path[:4] == "/api" {
				c.JSON(404, gin.H{"error": "Not found"})
			} else {
				c.File(staticDir + "/index.html")
			}
		})
		log.Infow("serving static files", "dir", staticDir)
	} else {
		log.Infow("static directory not found, skipping static file serving", "dir", staticDir)
	}

	srv := &server.Server{}
	go func() {
		port := viper.GetString("port")
		log.Infow("starting API server", "port", port)
		if err := srv.Run(port, router); err != nil {
			log.Errorw("server stopped", "err", err)
		}
	}()

	waitForShutdown(srv, log)
}

func loadConfig() {
	viper.SetDefault("port", "8080")
	viper.SetDefault("log_level", logger.InfoLevel)
	viper.SetDefault("dataset_path", "data/unified_energy_dataset.csv")
	viper.SetDefault("plants_dir", "examples/plants")
	viper.SetDefault("static_dir", "./web/dist")
	viper.SetDefault("result_ttl", time.Hour)

	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	// A missing config file is fine; defaults and env cover it.
	_ = viper.ReadInConfig()
	viper.SetEnvPrefix("css")
	viper.AutomaticEnv()
}

func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infow("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("shutdown error", "err", err)
	}
}
