package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which event IDs a handler has already consumed
type IdempotencyStore interface {
	// MarkProcessed records the event ID for ttl.
	// Returns true if the ID was newly recorded, false if it was already present
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed checks whether the event ID has been recorded
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Close releases resources held by the store
	Close() error
}

// IdempotencyConfig holds configuration for idempotent event handling
type IdempotencyConfig struct {
	// TTL bounds how long a consumed event ID is remembered
	TTL time.Duration
	// Enabled toggles deduplication
	Enabled bool
}

// DefaultIdempotencyConfig returns a 24h, enabled configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
