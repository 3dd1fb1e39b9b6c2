package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"pathlight-utils/internal/llm"
	"pathlight-utils/internal/logging"
	"pathlight-utils/internal/storage"
	"pathlight-utils/pkg/models"
	"pathlight-utils/pkg/utils"
)

var startTime = time.Now()

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	reqID := utils.GenerateRequestID()
	logger := logging.GetGlobalLogger()

	logger.Debug("Health check requested", map[string]interface{}{"request_id": reqID})

	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   "1.0.0", // TODO: Get from build info
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	}

	return c.JSON(http.StatusOK, response)
}

// ReadinessHandler handles readiness probe requests, checking storage and the
// AI provider
func ReadinessHandler(store *storage.RedisStore, aiManager *llm.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := utils.GenerateRequestID()
		logger := logging.GetGlobalLogger()

		logger.Debug("Readiness check requested", map[string]interface{}{"request_id": reqID})

		checks := map[string]string{"api": "ok"}
		status := "ready"
		httpStatus := http.StatusOK

		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		if err := store.IsHealthy(ctx); err != nil {
			checks["redis"] = "unavailable: " + err.Error()
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["redis"] = "ok"
		}

		// The AI manager reports its cached health state; a degraded
		// provider keeps the service up but fails readiness
		if err := aiManager.CheckHealth(ctx); err != nil {
			checks["llm"] = "unavailable: " + err.Error()
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["llm"] = "ok"
		}

		return c.JSON(httpStatus, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   "1.0.0",
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	reqID := utils.GenerateRequestID()
	logger := logging.GetGlobalLogger()

	logger.Debug("Liveness check requested", map[string]interface{}{"request_id": reqID})

	response := models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Uptime:    time.Since(startTime),
	}

	return c.JSON(http.StatusOK, response)
}

// StatusHandler provides detailed service status
func StatusHandler(aiManager *llm.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"service":     "Pathlight Analyzer",
			"version":     "1.0.0",
			"status":      "running",
			"uptime":      utils.FormatDuration(time.Since(startTime)),
			"ai_provider": aiManager.GetProviderName(),
			"ai_healthy":  aiManager.IsHealthy(),
			"timestamp":   time.Now(),
		})
	}
}
