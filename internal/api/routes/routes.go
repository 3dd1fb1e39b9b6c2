package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"pathlight-utils/internal/analyzer"
	"pathlight-utils/internal/api/handlers"
	"pathlight-utils/internal/api/middleware"
	"pathlight-utils/internal/config"
	"pathlight-utils/internal/llm"
	"pathlight-utils/internal/logging"
	"pathlight-utils/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, svc *analyzer.Service, store *storage.RedisStore, aiManager *llm.Manager, rateLimiter *middleware.UserRateLimiter) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestValidation())
	// Selective timeout: 30s for most endpoints, the configured AI timeout
	// for endpoints that call the provider
	e.Use(middleware.SelectiveTimeoutConfig(cfg.Server.ReadTimeout))
	e.Use(middleware.AITimeoutConfig(cfg.LLM.Timeout))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(store, aiManager))
		health.GET("/live", handlers.LivenessHandler)

		// Logging system monitoring
		health.GET("/logging", func(c echo.Context) error {
			logger := logging.GetGlobalLogger()
			logger.Info("Logging health check requested", map[string]interface{}{
				"request_id": c.Response().Header().Get("X-Request-ID"),
			})

			return c.JSON(http.StatusOK, map[string]interface{}{
				"status":   "ok",
				"message":  "Logging test completed",
				"adapters": "Logging system is active",
			})
		})
	}

	// Status route
	e.GET("/status", handlers.StatusHandler(aiManager))

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		// Job description analysis routes
		analyzerGroup := v1.Group("/analyzer")
		{
			analyzerGroup.POST("/analyze", handlers.AnalyzeHandler(svc), rateLimiter.Middleware())
			analyzerGroup.POST("/keywords", handlers.AddKeywordHandler(svc))
			analyzerGroup.GET("/analyses", handlers.ListAnalysesHandler(svc))
			analyzerGroup.GET("/analyses/:id", handlers.GetAnalysisHandler(svc))
		}

		// Resume tailoring routes
		resume := v1.Group("/resume")
		{
			resume.POST("/tailor", handlers.TailorHandler(svc))
			resume.GET("/tailored", handlers.ListTailoredHandler(svc))
			resume.GET("/tailored/:id", handlers.GetTailoredHandler(svc))
			resume.PATCH("/tailored/:id/status", handlers.StatusUpdateHandler(svc))
		}
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"service": "Pathlight Analyzer",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
