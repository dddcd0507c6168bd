package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/stream-new/clip-moderation-go/internal/config"
	"github.com/stream-new/clip-moderation-go/internal/db"
	"github.com/stream-new/clip-moderation-go/internal/db/repository"
	"github.com/stream-new/clip-moderation-go/internal/handler"
	"github.com/stream-new/clip-moderation-go/internal/provider"
	"github.com/stream-new/clip-moderation-go/internal/queue"
	"github.com/stream-new/clip-moderation-go/internal/service"
	"github.com/stream-new/clip-moderation-go/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()
	logger.Log.Info("database connection established",
		zap.String("host", cfg.Database.Host),
		zap.Int("max_conns", cfg.Database.MaxConnections),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	blocklistRepo := repository.NewBlocklistRepository(pool)

	cache := service.NewBlocklistCache(redisClient, blocklistRepo)
	if err := cache.LoadFromDB(ctx); err != nil {
		// The playback gate falls back to Postgres, so a cold cache only
		// costs latency.
		logger.Log.Warn("failed to warm blocklist cache", zap.Error(err))
	} else {
		count, _ := cache.Count(ctx)
		logger.Log.Info("blocklist cache warmed", zap.Int64("entries", count))
	}

	var publisher *service.MessagePublisher
	if cfg.RabbitMQ.Enabled {
		publisher, err = service.NewMessagePublisher(&cfg.RabbitMQ)
		if err != nil {
			logger.Log.Fatal("failed to connect to RabbitMQ", zap.Error(err))
		}
		defer publisher.Close()
	} else {
		logger.Log.Info("RabbitMQ disabled, moderation events will not be published")
	}

	providerClient, err := provider.NewClient(
		cfg.Provider.BaseURL,
		cfg.Provider.TokenID,
		cfg.Provider.TokenSecret,
		cfg.Provider.Timeout,
	)
	if err != nil {
		logger.Log.Fatal("failed to create provider client", zap.Error(err))
	}

	queueClient := queue.NewClient(cfg.Redis)
	defer queueClient.Close()

	pipeline := service.NewModerationPipeline(providerClient, blocklistRepo, cache, publisher)
	orchestrator := service.NewClipOrchestrator(providerClient, queueClient, publisher)
	gate := service.NewPlaybackGate(blocklistRepo, cache)

	router := handler.NewRouter(handler.Routes{
		Assets:          handler.NewAssetHandler(pipeline, providerClient),
		Clips:           handler.NewClipHandler(orchestrator),
		Playback:        handler.NewPlaybackHandler(pipeline, gate, blocklistRepo),
		Health:          handler.NewHealthHandler(pool, redisClient, publisher),
		ModeratorSecret: cfg.Auth.ModeratorSecret,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Log.Info("server starting", zap.Int("port", cfg.Server.Port))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	case sig := <-shutdown:
		logger.Log.Info("shutdown signal received", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("graceful shutdown failed", zap.Error(err))
			if err := server.Close(); err != nil {
				logger.Log.Error("failed to close server", zap.Error(err))
			}
			os.Exit(1)
		}

		logger.Log.Info("server stopped gracefully")
	}
}
