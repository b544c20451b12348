package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/henryt56/expense-tracker/internal/bridge"
	"github.com/henryt56/expense-tracker/internal/cli"
	"github.com/henryt56/expense-tracker/internal/config"
	"github.com/henryt56/expense-tracker/internal/log"
	"github.com/henryt56/expense-tracker/internal/services"
)

func main() {
	cli.LoadEnvFile()

	cfg := config.Load()
	logger := cli.SetupLogger(cfg.SlogLevel())
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	store := cli.OpenStore(logger, cfg.DBPath)
	tracker := services.NewTracker(store, logger)
	srv := bridge.NewServer(cfg.Addr, tracker, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Bridge listening", "addr", cfg.Addr, "db_path", cfg.DBPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Bridge server error", log.FieldError, err)
	}

	if err := tracker.Close(); err != nil {
		logger.Error("Close error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Stopped gracefully")
}
