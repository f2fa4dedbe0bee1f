package shared

import "context"

// EventHandler reacts to committed changes, for example by folding an
// invoice confirmation or an approved return into the customer balance.
// A handler error is logged by the bus; the change that raised the event
// is already durable.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the types the handler wants. Empty means every type.
	EventTypes() []string
}

// EventPublisher is what application services hand their aggregates'
// pending events to once the transaction has committed
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber wires handlers at startup
type EventSubscriber interface {
	// Subscribe falls back to handler.EventTypes when eventTypes is empty
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is owned by the server process: started before the first
// request is served and stopped after the listener drains
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
