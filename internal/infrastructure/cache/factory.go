package cache

import (
	"fmt"

	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewIdempotencyStore picks the idempotency backend named in cfg.
// The redis backend needs a client; without one it falls back to memory.
func NewIdempotencyStore(cfg config.NotificationConfig, client redis.UniversalClient, logger *zap.Logger) (shared.IdempotencyStore, error) {
	switch cfg.IdempotencyBackend {
	case "", "memory":
		return NewInMemoryIdempotencyStore(), nil
	case "redis":
		if client == nil {
			logger.Warn("redis idempotency backend requested without redis, using in-memory store; " +
				"duplicate deliveries across instances will not be detected")
			return NewInMemoryIdempotencyStore(), nil
		}
		logger.Info("using redis idempotency store")
		return NewRedisIdempotencyStore(client, ""), nil
	default:
		return nil, fmt.Errorf("unknown idempotency backend %q", cfg.IdempotencyBackend)
	}
}
