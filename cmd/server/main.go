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

	"applyflow/internal/api/routes"
	"applyflow/internal/automation"
	"applyflow/internal/batch"
	"applyflow/internal/config"
	"applyflow/internal/logging"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging system
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting applyflow", map[string]interface{}{
		"headless":  cfg.Automation.Headless,
		"keep_open": cfg.Automation.KeepOpen,
	})

	// Pick the task store: Redis when configured, in-memory otherwise
	var store batch.TaskStore
	if cfg.Redis.Enabled {
		redisStore, err := batch.NewRedisTaskStore(cfg)
		if err != nil {
			logger.Error("Failed to connect to Redis, falling back to in-memory store", map[string]interface{}{
				"error": err.Error(),
			})
			store = batch.NewInMemoryTaskStore()
		} else {
			defer redisStore.Close()
			store = redisStore
			logger.Info("Using Redis task store", map[string]interface{}{})
		}
	} else {
		store = batch.NewInMemoryTaskStore()
	}

	// Initialize automation runner and batch manager
	runner := automation.NewRunner(cfg)
	manager := batch.NewManager(cfg, runner, store)

	ctx := context.Background()
	if err := manager.Start(ctx); err != nil {
		logger.Error("Failed to start batch manager", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Setup routes
	routes.SetupRoutes(e, cfg, runner, manager)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...", map[string]interface{}{})

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Stop the batch manager first so in-flight fills finish cleanly
		if err := manager.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping batch manager", map[string]interface{}{
				"error": err.Error(),
			})
		}

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Server shutdown complete", map[string]interface{}{})
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{
		"address": address,
	})

	if err := e.Start(address); err != nil {
		logger.Error("Server stopped", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
