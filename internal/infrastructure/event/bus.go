// Package event delivers domain events to in-process handlers.
package event

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/foodorder/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var _ shared.EventBus = (*InMemoryEventBus)(nil)

// InMemoryEventBus calls subscribed handlers synchronously in the
// publishing goroutine. A failing or panicking handler is logged and never
// stops delivery to the handlers after it, and Publish itself never fails.
type InMemoryEventBus struct {
	subs    subscriptionTable
	logger  *zap.Logger
	running atomic.Bool
}

// NewInMemoryEventBus creates a stopped bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{logger: logger.Named("event_bus")}
}

// Publish delivers each event to its handlers in subscription order. While
// the bus is stopped events are dropped.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if !b.running.Load() {
		b.logger.Warn("Event bus stopped, dropping events", zap.Int("count", len(events)))
		return nil
	}

	for _, e := range events {
		for _, h := range b.subs.handlersFor(e.EventType()) {
			if err := deliver(ctx, h, e); err != nil {
				b.logger.Error("Event handler failed",
					zap.String("event_type", e.EventType()),
					zap.String("event_id", e.EventID().String()),
					zap.String("aggregate_id", e.AggregateID().String()),
					zap.Error(err))
			}
		}
	}
	return nil
}

// Subscribe registers handler for eventTypes, falling back to the types the
// handler declares. Calling the returned function more than once is safe.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) func() {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	id := b.subs.add(handler, eventTypes)
	b.logger.Debug("Event handler subscribed", zap.Strings("event_types", eventTypes))

	var once sync.Once
	return func() {
		once.Do(func() { b.subs.remove(id) })
	}
}

// Start begins delivering events
func (b *InMemoryEventBus) Start(context.Context) error {
	b.running.Store(true)
	b.logger.Info("Event bus started", zap.Int("subscriptions", b.subs.len()))
	return nil
}

// Stop stops delivering events
func (b *InMemoryEventBus) Stop(context.Context) error {
	b.running.Store(false)
	b.logger.Info("Event bus stopped")
	return nil
}

func deliver(ctx context.Context, h shared.EventHandler, e shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panic: %v", r)
		}
	}()
	return h.Handle(ctx, e)
}
