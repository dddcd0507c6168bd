//go:build integration
// +build integration

package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/stream-new/clip-moderation-go/internal/config"
)

func setupTestRabbitMQ(t *testing.T) (*config.RabbitMQConfig, func()) {
	ctx := context.Background()

	rabbitmqContainer, err := rabbitmq.Run(ctx,
		"rabbitmq:3.13-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start rabbitmq container: %v", err)
	}

	host, err := rabbitmqContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get host: %v", err)
	}

	port, err := rabbitmqContainer.MappedPort(ctx, "5672/tcp")
	if err != nil {
		t.Fatalf("Failed to get port: %v", err)
	}

	cfg := &config.RabbitMQConfig{
		Host:     host,
		Port:     port.Int(),
		User:     "guest",
		Password: "guest",
		Exchange: "test.moderation",
		Enabled:  true,
	}

	cleanup := func() {
		if err := rabbitmqContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return cfg, cleanup
}

func TestNewMessagePublisher(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	cfg, cleanup := setupTestRabbitMQ(t)
	defer cleanup()

	mp, err := NewMessagePublisher(cfg)
	if err != nil {
		t.Fatalf("NewMessagePublisher() error = %v", err)
	}
	defer mp.Close()

	if !mp.IsHealthy() {
		t.Error("IsHealthy() = false, want true")
	}
}

// Every publish in a long sequence must be confirmed promptly; a stuck
// confirm path would surface here as timeouts from the third event on.
func TestMessagePublisher_PublishSequence(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	cfg, cleanup := setupTestRabbitMQ(t)
	defer cleanup()

	mp, err := NewMessagePublisher(cfg)
	if err != nil {
		t.Fatalf("NewMessagePublisher() error = %v", err)
	}
	defer mp.Close()

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		assetID := fmt.Sprintf("asset-%d", i)
		playbackID := fmt.Sprintf("pb-%d", i)

		start := time.Now()
		if i%2 == 0 {
			err = mp.PublishBlocked(ctx, assetID, playbackID)
		} else {
			err = mp.PublishClipCreated(ctx, playbackID, assetID)
		}
		if err != nil {
			t.Fatalf("publish %d error = %v", i, err)
		}
		if elapsed := time.Since(start); elapsed > 3*time.Second {
			t.Fatalf("publish %d took %v, confirms are stalling", i, elapsed)
		}
	}
}

func TestMessagePublisher_IsHealthyAfterClose(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	cfg, cleanup := setupTestRabbitMQ(t)
	defer cleanup()

	mp, err := NewMessagePublisher(cfg)
	if err != nil {
		t.Fatalf("NewMessagePublisher() error = %v", err)
	}

	if err := mp.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if mp.IsHealthy() {
		t.Error("IsHealthy() after Close() = true, want false")
	}
}

func TestMessagePublisher_PublishOnClosedConnection(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	cfg, cleanup := setupTestRabbitMQ(t)
	defer cleanup()

	mp, err := NewMessagePublisher(cfg)
	if err != nil {
		t.Fatalf("NewMessagePublisher() error = %v", err)
	}
	defer mp.Close()

	mp.conn.Close()

	// Must fail cleanly, never panic or hang.
	if err := mp.PublishBlocked(context.Background(), "asset-1", "pb-1"); err == nil {
		t.Error("PublishBlocked() on closed connection = nil, want error")
	}
}
