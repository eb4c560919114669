package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"applyflow/internal/api/handlers"
	"applyflow/internal/api/middleware"
	"applyflow/internal/automation"
	"applyflow/internal/batch"
	"applyflow/internal/config"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, runner *automation.Runner, manager *batch.Manager) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestValidation())
	// Browser-driving endpoints manage their own deadlines and skip this
	e.Use(middleware.SelectiveTimeoutConfig(cfg.Server.ReadTimeout))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(manager))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler(manager))

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		applications := v1.Group("/applications")
		{
			applications.POST("/preview", handlers.PreviewHandler(cfg, runner, manager))
			applications.POST("/fill", handlers.FillHandler(cfg, manager))
			applications.POST("/batch", handlers.BatchHandler(cfg, manager))
			applications.GET("/batch/status", handlers.BatchStatusHandler(manager))
		}

		tasks := v1.Group("/tasks")
		{
			tasks.GET("/:id", handlers.TaskStatusHandler(manager))
		}
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "applyflow",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
