package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cliptube/cliptube/internal/config"
	"github.com/cliptube/cliptube/internal/handlers"
	"github.com/cliptube/cliptube/internal/middleware"
	"github.com/cliptube/cliptube/internal/repository"
	"github.com/cliptube/cliptube/internal/services"
	"github.com/cliptube/cliptube/internal/workers"
	"github.com/cliptube/cliptube/pkg/cache"
	"github.com/cliptube/cliptube/pkg/logger"
	"github.com/cliptube/cliptube/pkg/queue"
	"github.com/cliptube/cliptube/pkg/storage"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.New(cfg.LogLevel)
	logger.Info("Starting ClipTube API server...")

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

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

	mediaStore, err := storage.NewS3Store(ctx, storage.Config{
		Bucket:        cfg.Media.Bucket,
		Region:        cfg.Media.Region,
		Endpoint:      cfg.Media.Endpoint,
		PublicBaseURL: cfg.Media.PublicBaseURL,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize media store")
	}

	engagementProducer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.EngagementEvents)
	defer engagementProducer.Close()

	// Closed by statsWorker.Stop() during shutdown.
	engagementConsumer := queue.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.EngagementEvents, "stats-worker-group")

	userRepo := repository.NewUserRepository(db.DB)
	videoRepo := repository.NewVideoRepository(db.DB)
	commentRepo := repository.NewCommentRepository(db.DB)
	likeRepo := repository.NewLikeRepository(db.DB)
	subRepo := repository.NewSubscriptionRepository(db.DB)
	tweetRepo := repository.NewTweetRepository(db.DB)
	playlistRepo := repository.NewPlaylistRepository(db.DB)
	watchRepo := repository.NewWatchHistoryRepository(db.DB)

	tokenManager := services.NewTokenManager(&cfg.JWT)

	userService := services.NewUserService(userRepo, subRepo, watchRepo, tokenManager, mediaStore, engagementProducer, logger)
	videoService := services.NewVideoService(videoRepo, commentRepo, likeRepo, subRepo, watchRepo, mediaStore, engagementProducer, logger)
	commentService := services.NewCommentService(commentRepo, videoRepo, likeRepo, engagementProducer, logger)
	likeService := services.NewLikeService(likeRepo, videoRepo, commentRepo, tweetRepo, engagementProducer, logger)
	subscriptionService := services.NewSubscriptionService(subRepo, userRepo, engagementProducer, logger)
	tweetService := services.NewTweetService(tweetRepo, userRepo, likeRepo, logger)
	playlistService := services.NewPlaylistService(playlistRepo, videoRepo, userRepo, logger)
	dashboardService := services.NewDashboardService(videoRepo, commentRepo, likeRepo, subRepo, redisClient, cfg.Dashboard.StatsCacheTTL, logger)

	statsWorker := workers.NewStatsWorker(dashboardService, engagementConsumer, logger)
	go func() {
		if err := statsWorker.Start(ctx); err != nil && err != context.Canceled {
			logger.WithError(err).Error("Stats worker stopped with error")
		}
	}()

	userHandler := handlers.NewUserHandler(userService)
	videoHandler := handlers.NewVideoHandler(videoService)
	commentHandler := handlers.NewCommentHandler(commentService)
	likeHandler := handlers.NewLikeHandler(likeService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	tweetHandler := handlers.NewTweetHandler(tweetService)
	playlistHandler := handlers.NewPlaylistHandler(playlistService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	requireAuth := middleware.RequireAuth(tokenManager)
	optionalAuth := middleware.OptionalAuth(tokenManager)

	api := router.Group("/api/v1")
	{
		users := api.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/refresh-token", userHandler.RefreshToken)
			users.POST("/logout", requireAuth, userHandler.Logout)
			users.GET("/current-user", requireAuth, userHandler.CurrentUser)
			users.POST("/change-password", requireAuth, userHandler.ChangePassword)
			users.PATCH("/update-account-details", requireAuth, userHandler.UpdateAccountDetails)
			users.PATCH("/update-avatar", requireAuth, userHandler.UpdateAvatar)
			users.PATCH("/update-cover-image", requireAuth, userHandler.UpdateCoverImage)
			users.GET("/channel/:username", optionalAuth, userHandler.ChannelProfile)
			users.GET("/watch-history", requireAuth, userHandler.WatchHistory)
		}

		videos := api.Group("/videos")
		{
			videos.GET("", videoHandler.List)
			videos.POST("", requireAuth, videoHandler.Publish)
			videos.GET("/:videoId", optionalAuth, videoHandler.Get)
			videos.PATCH("/:videoId", requireAuth, videoHandler.Update)
			videos.DELETE("/:videoId", requireAuth, videoHandler.Delete)
			videos.PATCH("/:videoId/toggle-publish", requireAuth, videoHandler.TogglePublish)
		}

		comments := api.Group("/comments")
		{
			comments.GET("/:videoId", optionalAuth, commentHandler.List)
			comments.POST("/:videoId", requireAuth, commentHandler.Add)
			comments.PATCH("/c/:commentId", requireAuth, commentHandler.Update)
			comments.DELETE("/c/:commentId", requireAuth, commentHandler.Delete)
		}

		likes := api.Group("/likes", requireAuth)
		{
			likes.POST("/toggle/v/:videoId", likeHandler.ToggleVideoLike)
			likes.POST("/toggle/c/:commentId", likeHandler.ToggleCommentLike)
			likes.POST("/toggle/t/:tweetId", likeHandler.ToggleTweetLike)
			likes.GET("/videos", likeHandler.LikedVideos)
		}

		subscriptions := api.Group("/subscriptions")
		{
			subscriptions.POST("/c/:channelId", requireAuth, subscriptionHandler.Toggle)
			subscriptions.GET("/c/:channelId", subscriptionHandler.Subscribers)
			subscriptions.GET("/u/:subscriberId", subscriptionHandler.SubscribedChannels)
		}

		tweets := api.Group("/tweets")
		{
			tweets.POST("", requireAuth, tweetHandler.Create)
			tweets.GET("/user/:userId", optionalAuth, tweetHandler.ListByUser)
			tweets.PATCH("/:tweetId", requireAuth, tweetHandler.Update)
			tweets.DELETE("/:tweetId", requireAuth, tweetHandler.Delete)
		}

		playlists := api.Group("/playlists")
		{
			playlists.POST("", requireAuth, playlistHandler.Create)
			playlists.GET("/p/:playlistId", playlistHandler.Get)
			playlists.PATCH("/p/:playlistId", requireAuth, playlistHandler.Update)
			playlists.DELETE("/p/:playlistId", requireAuth, playlistHandler.Delete)
			playlists.PATCH("/add/:videoId/:playlistId", requireAuth, playlistHandler.AddVideo)
			playlists.PATCH("/remove/:videoId/:playlistId", requireAuth, playlistHandler.RemoveVideo)
			playlists.GET("/user/:userId", playlistHandler.ListByUser)
		}

		dashboard := api.Group("/dashboard", requireAuth)
		{
			dashboard.GET("/stats", dashboardHandler.Stats)
			dashboard.GET("/videos", dashboardHandler.Videos)
		}
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	if err := statsWorker.Stop(); err != nil {
		logger.WithError(err).Error("Failed to stop stats worker")
	}

	logger.Info("Server exited")
}

func init() {
	dirs := []string{"logs", "configs"}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Printf("Failed to create directory %s: %v", dir, err)
		}
	}

	configPath := "configs/config.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := createDefaultConfig(configPath); err != nil {
			log.Printf("Failed to create default config: %v", err)
		}
	}
}

func createDefaultConfig(path string) error {
	defaultConfig := `server:
  port: ":8080"
  mode: "debug"
  read_timeout: 30s
  write_timeout: 30s

database:
  host: "localhost"
  port: 5432
  user: "cliptube"
  password: "cliptube"
  dbname: "cliptube"
  sslmode: "disable"
  max_open_conns: 100
  max_idle_conns: 10

redis:
  host: "localhost"
  port: 6379
  password: ""
  db: 0
  pool_size: 100
  min_idle_conns: 10

kafka:
  brokers:
    - "localhost:9092"
  topics:
    engagement_events: "engagement-events"

jwt:
  access_secret: "change-me-access-secret"
  refresh_secret: "change-me-refresh-secret"
  access_ttl: 24h
  refresh_ttl: 240h

media:
  bucket: "cliptube-media"
  region: "us-east-1"
  endpoint: ""
  public_base_url: ""

dashboard:
  stats_cache_ttl: 5m

log_level: "info"`

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
