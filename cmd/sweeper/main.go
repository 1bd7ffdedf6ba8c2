package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"
	"github.com/mroshb/duo_finder/internal/config"
	"github.com/mroshb/duo_finder/internal/database"
	"github.com/mroshb/duo_finder/internal/repositories"
	"github.com/mroshb/duo_finder/internal/services"
	"github.com/mroshb/duo_finder/pkg/logger"
	"github.com/mroshb/duo_finder/pkg/metrics"
)

// The sweeper deletes expired queue tickets on a fixed interval, so dead
// tickets disappear even when nobody is matchmaking.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.AppEnv)
	defer logger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	queue := services.NewQueueService(
		repositories.NewQueueRepository(db),
		repositories.NewProfileRepository(db),
		metrics.NewManager(),
		cfg.GetQueueTTL(),
		nil,
	)

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal("Failed to create scheduler", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.GetSweepInterval()),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := queue.SweepExpired(ctx); err != nil {
				logger.Error("Queue sweep failed", "error", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		logger.Fatal("Failed to schedule sweep", err)
	}

	scheduler.Start()
	logger.Info("Sweeper started", "interval", cfg.GetSweepInterval())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")
	if err := scheduler.Shutdown(); err != nil {
		logger.Error("Scheduler shutdown failed", "error", err)
	}
	logger.Info("Sweeper stopped")
}
