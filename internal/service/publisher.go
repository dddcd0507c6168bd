package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/stream-new/clip-moderation-go/internal/config"
	"github.com/stream-new/clip-moderation-go/pkg/logger"
)

// Routing keys for moderation events on the topic exchange.
const (
	RoutingKeyBlocked     = "moderation.blocked"
	RoutingKeyClipCreated = "clip.created"
)

// confirmTimeout bounds how long a publish waits for the broker ack.
const confirmTimeout = 5 * time.Second

// ModerationEvent is the envelope published for downstream consumers
// (moderator tooling, notification glue).
type ModerationEvent struct {
	ID         uuid.UUID `json:"id"`
	Kind       string    `json:"kind"`
	AssetID    string    `json:"asset_id,omitempty"`
	PlaybackID string    `json:"playback_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher publishes moderation lifecycle events. Implementations must
// be safe for concurrent use. A nil *MessagePublisher is a valid no-op
// publisher, so event plumbing stays optional.
type EventPublisher interface {
	PublishBlocked(ctx context.Context, assetID, playbackID string) error
	PublishClipCreated(ctx context.Context, sourcePlaybackID, newAssetID string) error
}

// MessagePublisher publishes events to a RabbitMQ topic exchange with
// publisher confirms.
type MessagePublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	config  *config.RabbitMQConfig
	mu      sync.RWMutex
}

// NewMessagePublisher connects to RabbitMQ and declares the exchange.
func NewMessagePublisher(cfg *config.RabbitMQConfig) (*MessagePublisher, error) {
	mp := &MessagePublisher{config: cfg}
	if err := mp.connect(); err != nil {
		return nil, err
	}
	return mp, nil
}

func (mp *MessagePublisher) connect() error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	connURL := fmt.Sprintf("amqp://%s:%s@%s:%d/",
		mp.config.User, mp.config.Password, mp.config.Host, mp.config.Port)

	conn, err := amqp.Dial(connURL)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	if err := ch.ExchangeDeclare(
		mp.config.Exchange, // name
		"topic",            // type
		true,               // durable
		false,              // auto-deleted
		false,              // internal
		false,              // no-wait
		nil,                // arguments
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	mp.conn = conn
	mp.channel = ch

	logger.Log.Info("connected to RabbitMQ",
		zap.String("exchange", mp.config.Exchange),
	)
	return nil
}

// PublishBlocked emits a moderation.blocked event. Nil receiver is a no-op.
func (mp *MessagePublisher) PublishBlocked(ctx context.Context, assetID, playbackID string) error {
	if mp == nil {
		return nil
	}
	return mp.publish(ctx, RoutingKeyBlocked, ModerationEvent{
		ID:         uuid.New(),
		Kind:       RoutingKeyBlocked,
		AssetID:    assetID,
		PlaybackID: playbackID,
		OccurredAt: time.Now().UTC(),
	})
}

// PublishClipCreated emits a clip.created event. Nil receiver is a no-op.
func (mp *MessagePublisher) PublishClipCreated(ctx context.Context, sourcePlaybackID, newAssetID string) error {
	if mp == nil {
		return nil
	}
	return mp.publish(ctx, RoutingKeyClipCreated, ModerationEvent{
		ID:         uuid.New(),
		Kind:       RoutingKeyClipCreated,
		AssetID:    newAssetID,
		PlaybackID: sourcePlaybackID,
		OccurredAt: time.Now().UTC(),
	})
}

func (mp *MessagePublisher) publish(ctx context.Context, routingKey string, event ModerationEvent) error {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	if mp.channel == nil {
		return fmt.Errorf("channel is not initialized")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// A deferred confirmation is scoped to this publish. NotifyPublish is
	// unsuitable here: listeners can never be deregistered, and an abandoned
	// one eventually wedges the channel's confirm dispatch.
	confirmation, err := mp.channel.PublishWithDeferredConfirmWithContext(
		ctx,
		mp.config.Exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			MessageId:    event.ID.String(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, confirmTimeout)
	defer cancel()

	acked, err := confirmation.WaitContext(waitCtx)
	if err != nil {
		return fmt.Errorf("timeout waiting for publish confirmation: %w", err)
	}
	if !acked {
		return fmt.Errorf("message was not acknowledged by broker")
	}

	logger.Log.Debug("published moderation event",
		zap.String("event_id", event.ID.String()),
		zap.String("routing_key", routingKey),
	)
	return nil
}

// IsHealthy reports whether the broker connection is open. A nil publisher
// is healthy: events are optional plumbing.
func (mp *MessagePublisher) IsHealthy() bool {
	if mp == nil {
		return true
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.conn != nil && !mp.conn.IsClosed()
}

// Close shuts down the channel and connection.
func (mp *MessagePublisher) Close() error {
	if mp == nil {
		return nil
	}
	mp.mu.Lock()
	defer mp.mu.Unlock()

	var errs []error
	if mp.channel != nil {
		if err := mp.channel.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if mp.conn != nil {
		if err := mp.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing publisher: %v", errs)
	}
	return nil
}
