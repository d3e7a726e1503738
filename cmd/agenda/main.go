package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"agenda/internal/config"
	"agenda/internal/logger"
	"agenda/internal/notify"
	"agenda/internal/storage"
	"agenda/internal/task"
	"agenda/internal/ui"
)

func main() {
	cfg, err := config.LoadOrCreate(config.ResolveConfigPath())
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogPath, cfg.LogLevel); err != nil {
		fmt.Printf("failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := storage.Open(cfg.DataPath)
	if err != nil {
		fmt.Printf("failed to open data store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	registrar := notify.NewTimerRegistrar(cfg.NotifyCommand)
	defer registrar.Close()
	scheduler := notify.NewScheduler(registrar)

	repo := task.NewRepository(store, scheduler, store.Load())

	log := logger.Named("main")
	repo.Subscribe(func(tasks []task.Task) {
		log.Debug("collection changed", zap.Int("tasks", len(tasks)))
	})

	rearmReminders(repo, scheduler)

	if err := ui.Run(repo, cfg); err != nil {
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}

// rearmReminders re-registers reminders for pending dated tasks whose
// due time is still ahead. In-process timers do not survive a restart.
func rearmReminders(repo *task.Repository, scheduler *notify.Scheduler) {
	now := time.Now()
	for _, t := range repo.Tasks() {
		if t.IsCompleted || t.DueDate == nil {
			continue
		}
		if t.DueDate.After(now) {
			scheduler.Schedule(t)
		}
	}
}
