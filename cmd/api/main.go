package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/seeder/legie-metadata/internal/config"
	"github.com/seeder/legie-metadata/internal/covercache"
	apihttp "github.com/seeder/legie-metadata/internal/http"
	"github.com/seeder/legie-metadata/internal/legie"
	"github.com/seeder/legie-metadata/internal/prefs"
	"github.com/seeder/legie-metadata/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	p, err := prefs.Load(cfg.PrefsPath)
	if err != nil {
		slog.Warn("failed to load preferences, using defaults", "path", cfg.PrefsPath, "error", err)
	}

	covers, err := covercache.Open(cfg.CoverCachePath)
	if err != nil {
		slog.Error("failed to open cover cache", "path", cfg.CoverCachePath, "error", err)
		os.Exit(1)
	}
	defer covers.Close()

	client := transport.NewClient(cfg.HTTPTimeout, cfg.Throttle, logger)
	resolver := legie.NewResolver(cfg.BaseURL, client, p, logger).WithCoverCache(covers)

	app := apihttp.NewServer(cfg, resolver, covers)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server stopped", "error", err)
		}
	}()

	slog.Info("api started", "port", cfg.Port, "env", cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
