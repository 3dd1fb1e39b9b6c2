package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"pathlight-utils/internal/analyzer"
	"pathlight-utils/internal/api/middleware"
	"pathlight-utils/internal/api/routes"
	"pathlight-utils/internal/config"
	"pathlight-utils/internal/llm"
	"pathlight-utils/internal/logging"
	"pathlight-utils/internal/snapshot"
	"pathlight-utils/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting Pathlight Analyzer")

	// Initialize AI manager
	aiManager := llm.NewManager(cfg)
	if err := aiManager.Start(); err != nil {
		logger.Error("Failed to start AI manager", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	// Initialize Redis store
	store := storage.NewRedisStore(cfg)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), cfg.Redis.Timeout)
	if err := store.Ping(pingCtx); err != nil {
		// Storage failures degrade persistence but the analyzer still works
		logger.Warn("Redis is unreachable - analyses will not be persisted", map[string]interface{}{
			"error": err.Error(),
		})
	}
	cancelPing()

	// Initialize snapshot client and the analysis service
	snapshots := snapshot.NewClient(cfg)
	svc := analyzer.NewService(cfg, aiManager, snapshots, store)

	// Initialize per-user rate limiting
	rateLimiter := middleware.NewUserRateLimiter(cfg)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Setup routes
	routes.SetupRoutes(e, cfg, svc, store, aiManager, rateLimiter)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		logger.Info("Stopping rate limiter...")
		rateLimiter.Stop()

		logger.Info("Stopping AI manager...")
		if err := aiManager.Stop(); err != nil {
			logger.Error("Error stopping AI manager", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Closing Redis connection...")
		if err := store.Close(); err != nil {
			logger.Error("Error closing Redis connection", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Stopping HTTP server...")
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{"address": address})

	if err := e.Start(address); err != nil {
		logger.Error("Server stopped", map[string]interface{}{"error": err.Error()})
	}
}
