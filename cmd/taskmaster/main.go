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

	"taskmaster/internal/api"
	"taskmaster/internal/config"
	"taskmaster/internal/logging"
	"taskmaster/internal/repository"
	"taskmaster/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	logger := logging.Init(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.Error("db", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	server := api.NewServer(api.Services{
		Tasks:      service.NewTaskService(taskRepo, categoryRepo),
		Categories: service.NewCategoryService(categoryRepo, taskRepo),
		Settings:   service.NewSettingsService(settingsRepo),
		Reports:    service.NewReportService(taskRepo, categoryRepo),
		Data:       service.NewDataService(taskRepo, categoryRepo, settingsRepo),
	}, logger)

	if cfg.DigestEnabled() {
		scheduler, err := startDigest(cfg, logger, taskRepo, categoryRepo, settingsRepo)
		if err != nil {
			logger.Error("digest", "error", err)
			os.Exit(1)
		}
		defer scheduler.Stop()
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("taskmaster listening", "addr", cfg.HTTPAddr, "database", cfg.DatabaseURL)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped with error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace())
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown", "error", err)
		}
	}
	logger.Info("shutdown complete")
}
