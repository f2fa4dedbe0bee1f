// Package event holds application-level helpers for domain event delivery.
package event

import (
	"context"

	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// PublishAggregateEvents hands the aggregate's pending events to publisher
// and clears them. Call it after the owning transaction has committed.
// A failed publish is logged and never fails the caller.
func PublishAggregateEvents(ctx context.Context, publisher shared.EventPublisher, aggregate shared.AggregateRoot) {
	events := aggregate.GetDomainEvents()
	aggregate.ClearDomainEvents()
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.FromContext(ctx).Error("failed to publish domain events",
			zap.String("aggregate_id", aggregate.GetID().String()),
			zap.Int("count", len(events)),
			zap.Error(err),
		)
	}
}
