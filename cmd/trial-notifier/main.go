package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/commacards/card-subscriptions/internal/app/trialnotifier"
	"github.com/commacards/card-subscriptions/internal/config"
	"github.com/commacards/card-subscriptions/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	if cfg.Env != "local" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	logger.Info("starting trial-notifier", slog.String("env", cfg.Env),
		slog.Duration("interval", cfg.Interval), slog.Duration("window", cfg.Window))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := trialnotifier.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize trial-notifier", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("trial-notifier stopped with error", sl.Err(err))
		os.Exit(1)
	}
	logger.Info("trial-notifier stopped")
}
