package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/sportsched/internal/api"
	"github.com/mcoot/sportsched/internal/config"
	"github.com/mcoot/sportsched/internal/factory"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Read settings from the environment, with an optional .env file
	settings, err := config.Load(".env")
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := settings.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	level, _ := settings.Level()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Create application factory
	app, err := factory.New(ctx, factory.ConfigFromSettings(settings, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close application", slog.String("error", err.Error()))
		}
	}()

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		Version:     version,
		Clock:       app.Clock,
		Storage:     app.Storage,
		Metrics:     app.Metrics,
		AuthService: app.Auth,
		Locations:   app.Locations,
		Officials:   app.Officials,
		Games:       app.Games,
		Users:       app.Users,
		Assignments: app.Assignments,
		Reports:     app.Reports,
		Exports:     app.Exports,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = settings.Host
	serverConfig.Port = settings.Port
	server := api.NewServer(router, serverConfig, logger)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", settings.StorageType),
		slog.String("version", version),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			return
		}
	}

	logger.Info("server stopped")
}
