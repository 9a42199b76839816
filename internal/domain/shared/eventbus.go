package shared

import "context"

// EventHandler reacts to published domain events. A nil or empty
// EventTypes subscribes the handler to every event.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher is what application services publish through
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus routes published events to subscribed handlers. Subscribe
// returns a function that removes the subscription.
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string) (unsubscribe func())
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
