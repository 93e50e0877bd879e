package main

// @title           FitBattle Service API
// @version         1.0
// @description     Body measurements, friends and fitness battles.
// @host            localhost:8080
// @BasePath        /api/v1
// @schemes         http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitbattle-service/internal/adapters/kafka"
	"fitbattle-service/internal/adapters/storage"
	"fitbattle-service/internal/api/routes"
	"fitbattle-service/internal/auth"
	"fitbattle-service/internal/config"
	"fitbattle-service/internal/database"
	"fitbattle-service/internal/events"
	"fitbattle-service/internal/repository"
	"fitbattle-service/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if cfg.Server.Mode == gin.ReleaseMode {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}
	gin.SetMode(cfg.Server.Mode)
	slog.Info("Starting fitbattle server", "mode", cfg.Server.Mode)

	ctx := context.Background()

	db, err := database.NewConnection(ctx, cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		slog.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Redis backs token revocation and rate limiting when configured.
	var (
		blacklist repository.TokenBlacklist = repository.NewMemoryBlacklist()
		limiter   repository.RateLimiter
	)
	if cfg.Redis.URL != "" {
		redisClient, err := database.NewRedisConnection(ctx, cfg.Redis)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		redisRepo := repository.NewRedisRepository(redisClient)
		blacklist = redisRepo
		limiter = redisRepo
	} else {
		slog.Warn("REDIS_URL not set, using in-memory token blacklist and no rate limiting")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.InitKafkaProducer(cfg.Kafka)
		if err != nil {
			slog.Error("Failed to create Kafka producer", "error", err)
			os.Exit(1)
		}
		kafkaPublisher := events.NewKafkaPublisher(producer, cfg.Kafka.Topic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		slog.Info("Publishing battle events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	var avatars service.AvatarStore
	if cfg.MinIO.Endpoint != "" {
		minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO)
		if err != nil {
			slog.Error("Failed to connect to MinIO", "error", err)
			os.Exit(1)
		}
		avatars = minioClient
	}

	store := repository.NewStore(db)
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpirationTime)

	// Initialize router with all dependencies
	router := routes.NewRouter(routes.Dependencies{
		Config:        cfg,
		DB:            db,
		Tokens:        tokens,
		Blacklist:     blacklist,
		Limiter:       limiter,
		UserService:   service.NewUserService(store, tokens, blacklist, avatars),
		FriendService: service.NewFriendService(store),
		WeightService: service.NewWeightService(store, publisher),
		BattleService: service.NewBattleService(store, publisher),
	})
	router.SetupRoutes()

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server stopped")
}
