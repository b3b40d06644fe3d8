package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"taskmaster/internal/config"
	"taskmaster/internal/notify"
	"taskmaster/internal/repository"
	"taskmaster/internal/service"
)

const digestTimeout = 30 * time.Second

// startDigest schedules the daily Telegram summary and starts the scheduler.
func startDigest(
	cfg config.Config,
	logger *slog.Logger,
	taskRepo *repository.TaskRepository,
	categoryRepo *repository.CategoryRepository,
	settingsRepo *repository.SettingsRepository,
) (*service.SchedulerService, error) {
	telegram, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		return nil, err
	}
	digest := service.NewDigestService(taskRepo, categoryRepo, settingsRepo, telegram)

	scheduler := service.NewSchedulerService(time.UTC, logger)
	id, err := scheduler.ScheduleDaily(cfg.DigestTime, func() {
		ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
		defer cancel()
		sent, err := digest.Send(ctx)
		if err != nil {
			logger.Error("daily digest failed", "error", err)
			return
		}
		logger.Info("daily digest run", "sent", sent)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule digest: %w", err)
	}
	scheduler.Start()
	logger.Info("daily digest scheduled", "time", cfg.DigestTime, "next", scheduler.Next(id))
	return scheduler, nil
}
