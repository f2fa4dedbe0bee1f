// Package notify holds Notifier implementations.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SamerElhamdo/stockly/internal/application/notification"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisNotifier publishes messages as JSON on a Redis pub/sub channel.
// The per-company channel is "<channel>:<company_id>"; the base channel
// carries every message.
type RedisNotifier struct {
	client  redis.UniversalClient
	channel string
	logger  *zap.Logger
}

// NewRedisNotifier creates a notifier on a shared client
func NewRedisNotifier(client redis.UniversalClient, channel string, logger *zap.Logger) *RedisNotifier {
	return &RedisNotifier{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

// Notify implements notification.Notifier
func (n *RedisNotifier) Notify(ctx context.Context, msg notification.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	pipe := n.client.Pipeline()
	pipe.Publish(ctx, n.channel, data)
	pipe.Publish(ctx, n.CompanyChannel(msg.CompanyID.String()), data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	n.logger.Debug("Published notification",
		zap.String("kind", msg.Kind),
		zap.String("message_id", msg.ID.String()),
		zap.String("channel", n.channel),
	)
	return nil
}

// CompanyChannel returns the channel carrying one company's messages
func (n *RedisNotifier) CompanyChannel(companyID string) string {
	return n.channel + ":" + companyID
}

var _ notification.Notifier = (*RedisNotifier)(nil)
