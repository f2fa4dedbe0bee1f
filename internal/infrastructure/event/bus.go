package event

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// DeliveryRecorder observes every handler invocation made by the bus
type DeliveryRecorder interface {
	RecordEventDelivery(ctx context.Context, eventType string, err error)
}

// SyncEventBus delivers events to subscribed handlers in the publisher's
// goroutine, after the publisher's transaction has committed. A failing or
// panicking handler is logged and never affects other handlers or the
// publisher.
type SyncEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	recorder DeliveryRecorder
	running  atomic.Bool
}

// NewSyncEventBus creates a new synchronous event bus
func NewSyncEventBus(logger *zap.Logger) *SyncEventBus {
	return &SyncEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger.Named("eventbus"),
	}
}

// SetDeliveryRecorder attaches a recorder for delivery metrics
func (b *SyncEventBus) SetDeliveryRecorder(recorder DeliveryRecorder) {
	b.recorder = recorder
}

// Publish delivers each event to its handlers in registration order.
// Events published after Stop are dropped with a warning.
func (b *SyncEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if !b.running.Load() {
		for _, event := range events {
			b.logger.Warn("event bus stopped, dropping event",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
			)
		}
		return nil
	}

	for _, event := range events {
		for _, handler := range b.registry.GetHandlers(event.EventType()) {
			err := b.deliver(ctx, handler, event)
			if b.recorder != nil {
				b.recorder.RecordEventDelivery(ctx, event.EventType(), err)
			}
			if err != nil {
				b.logFor(ctx).Error("handler failed to process event",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.String("aggregate_id", event.AggregateID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers a handler for the given event types, or for the
// handler's own EventTypes when none are given
func (b *SyncEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *SyncEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
	b.logger.Debug("handler unsubscribed")
}

// Start starts accepting events
func (b *SyncEventBus) Start(_ context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started")
	return nil
}

// Stop stops accepting events
func (b *SyncEventBus) Stop(_ context.Context) error {
	b.running.Store(false)
	b.logger.Info("event bus stopped")
	return nil
}

// deliver calls the handler and turns a panic into an error
func (b *SyncEventBus) deliver(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, event)
}

func (b *SyncEventBus) logFor(ctx context.Context) *zap.Logger {
	if l := logger.FromContext(ctx); l.Core().Enabled(zap.ErrorLevel) {
		return l
	}
	return b.logger
}

var _ shared.EventBus = (*SyncEventBus)(nil)
