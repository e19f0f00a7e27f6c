package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/five82/keeper/internal/zooapi"
)

func main() {
	cfg, err := zooapi.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Level())

	store, err := zooapi.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	seed, err := zooapi.LoadSeed(cfg.SeedFile)
	if err != nil {
		logger.Error("failed to load seed", "file", cfg.SeedFile, "error", err)
		os.Exit(1)
	}
	seeded, err := store.Seed(context.Background(), seed)
	if err != nil {
		logger.Error("failed to seed database", "error", err)
		os.Exit(1)
	}
	if seeded {
		logger.Info("seeded empty database", "path", cfg.DBPath, "animals", len(seed.Animals))
	}

	router := zooapi.NewRouter(zooapi.RouterDeps{
		Repo:    store,
		Logger:  logger,
		Metrics: zooapi.NewMetrics(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting keeper-api", "addr", cfg.Addr, "db", cfg.DBPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		logger.Error("server error", "error", err)
		store.Close()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}

	logger.Info("server stopped gracefully")
}

func setupLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
