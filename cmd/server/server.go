package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/luisdiher22/DetectorEstafaCR/internal/config"
	"github.com/luisdiher22/DetectorEstafaCR/internal/db"
	"github.com/luisdiher22/DetectorEstafaCR/internal/handlers"
	"github.com/luisdiher22/DetectorEstafaCR/internal/services"
	"github.com/luisdiher22/DetectorEstafaCR/pkg/logger"
	"github.com/luisdiher22/DetectorEstafaCR/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var version = "dev"

// maxRequestBody limits form submissions; the form only carries a phone
// number and a short message.
const maxRequestBody = 64 * 1024

// SetupServer initializes and returns a configured HTTP server
func SetupServer(cfg *config.Config) (*http.Server, *db.Database, error) {
	if cfg == nil {
		return nil, nil, errors.New("configuration is required")
	}

	if cfg.Server.Port <= 0 {
		return nil, nil, errors.New("invalid server port")
	}

	matches, err := filepath.Glob(cfg.Web.TemplatesGlob)
	if err != nil || len(matches) == 0 {
		return nil, nil, fmt.Errorf("no templates found at %q", cfg.Web.TemplatesGlob)
	}

	// Initialize database
	database, err := db.NewDatabase(cfg.Database.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize repository and service
	reportRepo := db.NewReportRepository(database.GetDB())
	reportService := services.NewReportService(reportRepo)

	// Initialize router
	router := gin.Default()
	router.LoadHTMLGlob(cfg.Web.TemplatesGlob)

	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestSizeLimitMiddleware(maxRequestBody))
	router.Use(middleware.AuditLogMiddleware())

	// Setup routes
	setupRoutes(router, reportService)

	// Create server with security timeouts
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return srv, database, nil
}

// setupRoutes configures all the HTTP routes
func setupRoutes(router *gin.Engine, reportService *services.ReportService) {
	reportHandler := handlers.NewReportHandler(reportService)

	// Basic health check endpoint
	router.GET("/health", handleHealthCheck)

	// Web pages
	router.GET("/", reportHandler.Index)
	router.POST("/check_scam", reportHandler.CheckScam)
	router.POST("/confirm_scam/:id", reportHandler.ConfirmScam)

	// JSON API
	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/reports", reportHandler.ListReports)
	}
}

// handleHealthCheck handles the health check endpoint
func handleHealthCheck(c *gin.Context) {
	logger.Info("Health check endpoint called")
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"time":    time.Now().UTC(),
		"version": version,
		"service": "detector-estafa-cr",
	})
}

// StartServer starts the HTTP server and handles graceful shutdown
func StartServer(srv *http.Server) error {
	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create a timeout context for shutdown
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}

// StartServerWithContext starts the HTTP server with a context for shutdown control
func StartServerWithContext(ctx context.Context, srv *http.Server) error {
	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	logger.Info("Shutting down server...")

	// Create a timeout context for shutdown
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
