package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fleet-tracker/internal/config"
	"fleet-tracker/internal/database"
	"fleet-tracker/internal/event"
	"fleet-tracker/internal/logger"
	"fleet-tracker/internal/repository"
	"fleet-tracker/internal/sync"
	"fleet-tracker/internal/telematics"
	"fleet-tracker/internal/telematics/cat"
	"fleet-tracker/internal/telematics/samsara"
)

func main() {
	logHandler := logger.NewPrettyHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(logHandler))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateSync(); err != nil {
		slog.Error("invalid sync configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		slog.Error("failed to ensure database schema", "error", err)
		os.Exit(1)
	}

	var sources []telematics.Source
	if cfg.SamsaraAPIToken != "" {
		sources = append(sources, samsara.New(cfg.SamsaraBaseURL, cfg.SamsaraAPIToken))
		slog.Info("samsara source enabled", "base_url", cfg.SamsaraBaseURL)
	}
	if cfg.CATClientID != "" && cfg.CATClientSecret != "" {
		sources = append(sources, cat.New(cfg.CATBaseURL, cfg.CATTokenURL, cfg.CATClientID, cfg.CATClientSecret))
		slog.Info("cat source enabled", "base_url", cfg.CATBaseURL)
	}

	pool := db.Pool
	syncer := sync.New(
		cfg.SyncOrganizationID,
		sources,
		repository.NewVehicleRepository(pool),
		repository.NewPositionRepository(pool),
		repository.NewJobRepository(pool),
		event.NewBus(),
		slog.Default(),
	)

	if err := syncer.Run(ctx, cfg.SyncInterval); err != nil && ctx.Err() == nil {
		slog.Error("sync failed", "error", err)
		os.Exit(1)
	}

	slog.Info("sync stopped")
}
