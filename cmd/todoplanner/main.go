package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"

	"todo-planner/internal/config"
	"todo-planner/internal/model"
	"todo-planner/internal/notify"
	"todo-planner/internal/repository"
	"todo-planner/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "todoplanner",
		Level: hclog.LevelFromString(os.Getenv("PLANNER_LOG_LEVEL")),
	})

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config", "error", err)
		os.Exit(1)
	}

	db, err := repository.NewDB(cfg.DatabasePath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	taskStore := repository.NewTaskStore(db, logger.Named("store"))
	settings := repository.NewSettingsStore(db, logger.Named("settings"))
	repo := repository.NewTaskRepository(taskStore)

	var notifier notify.Notifier = notify.NewLogNotifier(logger.Named("notify"))
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			logger.Error("telegram delivery unavailable, falling back to log", "error", err)
		} else {
			notifier = tg
		}
	}

	pipeline := service.NewTaskQueryPipeline(
		repo,
		settings.ShowCompleted(),
		settings.SelectedCategories(),
		logger.Named("pipeline"),
	)
	defer pipeline.Close()
	cancelTasks := pipeline.Tasks().Subscribe(func(tasks []model.Task) {
		logger.Debug("task list updated", "count", len(tasks))
	})
	defer cancelTasks()

	reminders := service.NewNotificationScheduler(notifier, logger.Named("reminders"))
	defer reminders.Stop()

	// Restore pending reminders from a fresh process.
	if tasks, err := taskStore.ListSorted(ctx); err != nil {
		logger.Error("restore reminders", "error", err)
	} else {
		reminders.ScheduleAll(tasks)
	}

	if cfg.SummaryTime != "" {
		reminderSvc := service.NewReminderService(repo)
		scheduler := service.NewSchedulerService(time.Local)
		if _, err := scheduler.ScheduleDaily(cfg.SummaryTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			summary, err := reminderSvc.DailySummary(jobCtx, time.Now())
			if err != nil {
				logger.Error("build daily digest", "error", err)
				return
			}
			if err := notifier.Send(jobCtx, summary); err != nil {
				logger.Error("send daily digest", "error", err)
			}
		}); err != nil {
			logger.Error("schedule daily digest", "error", err)
			os.Exit(1)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	logger.Info("todo planner started", "db", cfg.DatabasePath)
	<-ctx.Done()
	logger.Info("shutdown complete")
}
