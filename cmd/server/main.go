package main

import (
	"os"

	"github.com/luisdiher22/DetectorEstafaCR/internal/config"
	"github.com/luisdiher22/DetectorEstafaCR/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.DefaultConfig()
	if path := os.Getenv("DETECTOR_CONFIG"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			panic(err)
		}
		cfg = loaded
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Path); err != nil {
		panic(err)
	}
	defer logger.Info("Server shutting down")

	// Setup and start server
	srv, database, err := SetupServer(cfg)
	if err != nil {
		logger.Fatal("Failed to setup server", zap.Error(err))
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}()

	if err := StartServer(srv); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
