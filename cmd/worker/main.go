package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/stream-new/clip-moderation-go/internal/config"
	"github.com/stream-new/clip-moderation-go/internal/db"
	"github.com/stream-new/clip-moderation-go/internal/db/repository"
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

	blocklistRepo := repository.NewBlocklistRepository(pool)

	var publisher *service.MessagePublisher
	if cfg.RabbitMQ.Enabled {
		publisher, err = service.NewMessagePublisher(&cfg.RabbitMQ)
		if err != nil {
			logger.Log.Fatal("failed to connect to RabbitMQ", zap.Error(err))
		}
		defer publisher.Close()
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

	// The worker writes blocks straight to Postgres; server instances pick
	// them up through the database fallback even before the cache syncs.
	pipeline := service.NewModerationPipeline(providerClient, blocklistRepo, nil, publisher)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.Handle(queue.TypeEvaluateAsset, queue.NewModerationHandler(pipeline))

	go func() {
		logger.Log.Info("worker starting", zap.String("redis", cfg.Redis.Addr))
		if err := srv.Run(mux); err != nil {
			logger.Log.Fatal("worker failed", zap.Error(err))
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	sig := <-shutdown
	logger.Log.Info("shutdown signal received", zap.String("signal", sig.String()))

	srv.Shutdown()
	logger.Log.Info("worker stopped gracefully")
}
