package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/datetable/internal/config"
	"github.com/JonMunkholm/datetable/internal/core"
	"github.com/JonMunkholm/datetable/internal/dataset"
	"github.com/JonMunkholm/datetable/internal/locale"
	"github.com/JonMunkholm/datetable/internal/logging"
	"github.com/JonMunkholm/datetable/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"dataset_source", cfg.Dataset.Source,
		"locale", cfg.Table.Locale,
		"page_size", cfg.Table.PageSize,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, err := dataset.Open(cfg.Dataset)
	if err != nil {
		slog.Error("failed to open dataset", "error", err)
		os.Exit(1)
	}
	records, err := dataset.Load(ctx, src, cfg.Dataset.LoadTimeout)
	if err != nil {
		slog.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}

	labels, err := locale.Load(cfg.Table.Locale, cfg.Table.LabelsFile)
	if err != nil {
		slog.Error("failed to load labels", "error", err)
		os.Exit(1)
	}

	service, err := core.NewService(records, labels, core.Options{
		PageSize:       cfg.Table.PageSize,
		PageSizes:      cfg.Table.PageSizes,
		MaxMultiSort:   cfg.Table.MaxMultiSort,
		SearchDebounce: cfg.Table.SearchDebounce,
		KeepDiacritics: cfg.Table.SearchKeepAccents,
		SessionTTL:     cfg.Session.TTL,
		MaxSessions:    cfg.Session.MaxSessions,
		MaxExports:     cfg.Rate.ExportMaxConcurrent,
		ExportWait:     cfg.Rate.ExportWait,
	})
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(service, cfg)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		return service.StartSessionSweeper(gctx, cfg.Session.SweepInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
