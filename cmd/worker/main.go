package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cliptube/cliptube/internal/config"
	"github.com/cliptube/cliptube/internal/repository"
	"github.com/cliptube/cliptube/internal/services"
	"github.com/cliptube/cliptube/internal/workers"
	"github.com/cliptube/cliptube/pkg/cache"
	"github.com/cliptube/cliptube/pkg/logger"
	"github.com/cliptube/cliptube/pkg/queue"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.New(cfg.LogLevel)
	logger.Info("Starting ClipTube stats worker...")

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	engagementConsumer := queue.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.EngagementEvents, "stats-worker-group")

	videoRepo := repository.NewVideoRepository(db.DB)
	commentRepo := repository.NewCommentRepository(db.DB)
	likeRepo := repository.NewLikeRepository(db.DB)
	subRepo := repository.NewSubscriptionRepository(db.DB)

	dashboardService := services.NewDashboardService(videoRepo, commentRepo, likeRepo, subRepo, redisClient, cfg.Dashboard.StatsCacheTTL, logger)

	statsWorker := workers.NewStatsWorker(dashboardService, engagementConsumer, logger)

	go func() {
		if err := statsWorker.Start(ctx); err != nil && err != context.Canceled {
			logger.WithError(err).Error("Stats worker stopped with error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")

	if err := statsWorker.Stop(); err != nil {
		logger.WithError(err).Error("Failed to stop stats worker")
	}

	logger.Info("Worker exited")
}
