package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"weatherbot.app/internal/app"
	"weatherbot.app/internal/config"
	"weatherbot.app/pkg/logger"
)

func main() {
	logger.New("info").SetDefault()

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found or error loading it")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	log, closeLogger, err := app.NewLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to create logger", "error", err)
		os.Exit(1)
	}

	application, err := app.NewApplication(cfg, log)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		_ = closeLogger()
		os.Exit(1)
	}

	slog.Info("Configuration loaded successfully",
		"storage", cfg.Storage.Type.String(),
		"cache", cfg.Cache.Type.String(),
		"server_enabled", cfg.Server.Enabled,
		"scheduler_enabled", cfg.Scheduler.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Starting weather bot...")
	runErr := application.Run(ctx)
	if runErr != nil {
		slog.Error("Application stopped with error", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := application.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error during graceful shutdown", "error", err)
	}

	_ = closeLogger()
	if runErr != nil {
		os.Exit(1)
	}
}
