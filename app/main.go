package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hanulkim/blog-discovery/app/api"
	"github.com/hanulkim/blog-discovery/app/cfg"
	"github.com/hanulkim/blog-discovery/app/database"
	"github.com/hanulkim/blog-discovery/app/discovery"
	"github.com/hanulkim/blog-discovery/app/docs"
	"github.com/hanulkim/blog-discovery/app/tasks"
)

func main() {
	appConfig, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appConfig.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Blog Discovery server", "version", appConfig.Version)

	// Database connection
	db, err := database.NewConnection(appConfig.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appConfig.DBPath, "migration_version", version, "dirty", dirty)

	// Load document configurations
	configCache := docs.NewConfigCache(appConfig.DocumentsDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load document configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Document configurations loaded", "count", configCache.GetConfigCount(), "dir", appConfig.DocumentsDir)

	// Initialize repositories
	contentRepo := database.NewContentRepository(db)
	statsRepo := database.NewStatsRepository(db)
	documentRepo := database.NewDocumentRepository(db)

	// Initialize core components
	engine := discovery.NewService(contentRepo, statsRepo)
	regenerator := docs.NewRegenerator(engine, contentRepo, documentRepo, configCache, appConfig.BaseUrl)

	// Initialize and start scheduler
	slog.Info("Starting background scheduler", "workers", appConfig.WorkerCount, "interval_seconds", appConfig.SchedulerInterval)
	scheduler := tasks.NewScheduler(configCache, documentRepo, statsRepo, regenerator)
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize HTTP server
	apiHandler := api.NewHandler(engine, regenerator, contentRepo, documentRepo, configCache, scheduler)
	server := api.NewServer(apiHandler, appConfig.APIAccessKey)

	// Create HTTP server with timeouts
	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start HTTP server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appConfig.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	slog.Info("Blog Discovery server started successfully")

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	// Graceful shutdown
	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	slog.Info("Blog Discovery server shutdown complete")
}
