package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/foodorder/backend/internal/domain/ordering"
	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func orderEvent(eventType string) *shared.BaseDomainEvent {
	e := shared.NewBaseDomainEvent(eventType, ordering.AggregateTypeOrder, uuid.New())
	return &e
}

type stubHandler struct {
	mu     sync.Mutex
	types  []string
	seen   []string
	err    error
	panics bool
}

func (h *stubHandler) Handle(_ context.Context, e shared.DomainEvent) error {
	if h.panics {
		panic("kitchen on fire")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, e.EventType())
	return h.err
}

func (h *stubHandler) EventTypes() []string { return h.types }

func (h *stubHandler) got() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.seen...)
}

func runningBus(t *testing.T, logger *zap.Logger) *InMemoryEventBus {
	t.Helper()
	bus := NewInMemoryEventBus(logger)
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })
	return bus
}

func TestInMemoryEventBus_RoutesByType(t *testing.T) {
	bus := runningBus(t, zap.NewNop())

	kitchen := &stubHandler{types: []string{ordering.EventTypeOrderPlaced}}
	audit := &stubHandler{}
	bus.Subscribe(kitchen)
	bus.Subscribe(audit)

	require.NoError(t, bus.Publish(context.Background(),
		orderEvent(ordering.EventTypeOrderPlaced),
		orderEvent(ordering.EventTypeOrderCancelled)))

	assert.Equal(t, []string{ordering.EventTypeOrderPlaced}, kitchen.got())
	assert.Equal(t, []string{ordering.EventTypeOrderPlaced, ordering.EventTypeOrderCancelled}, audit.got())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := runningBus(t, zap.NewNop())
	h := &stubHandler{}
	unsubscribe := bus.Subscribe(h)
	other := &stubHandler{}
	bus.Subscribe(other)

	require.NoError(t, bus.Publish(context.Background(), orderEvent(ordering.EventTypeOrderCreated)))
	unsubscribe()
	unsubscribe()
	require.NoError(t, bus.Publish(context.Background(), orderEvent(ordering.EventTypeOrderCreated)))

	assert.Len(t, h.got(), 1)
	assert.Len(t, other.got(), 2)
	assert.Equal(t, 1, bus.subs.len())
}

func TestInMemoryEventBus_SubscribeTypesOverrideHandler(t *testing.T) {
	bus := runningBus(t, zap.NewNop())
	h := &stubHandler{types: []string{ordering.EventTypeOrderPlaced}}
	bus.Subscribe(h, ordering.EventTypeOrderCancelled)

	require.NoError(t, bus.Publish(context.Background(),
		orderEvent(ordering.EventTypeOrderPlaced),
		orderEvent(ordering.EventTypeOrderCancelled)))
	assert.Equal(t, []string{ordering.EventTypeOrderCancelled}, h.got())
}

func TestInMemoryEventBus_IsolatesFailingHandlers(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	bus := runningBus(t, zap.New(core))

	bus.Subscribe(&stubHandler{err: errors.New("printer jammed")})
	bus.Subscribe(&stubHandler{panics: true})
	last := &stubHandler{}
	bus.Subscribe(last)

	require.NoError(t, bus.Publish(context.Background(), orderEvent(ordering.EventTypeOrderPlaced)))
	assert.Equal(t, []string{ordering.EventTypeOrderPlaced}, last.got())

	failures := logs.FilterMessage("Event handler failed").All()
	require.Len(t, failures, 2)
	assert.Contains(t, failures[1].ContextMap()["error"], "kitchen on fire")
}

func TestInMemoryEventBus_DropsWhileStopped(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	bus := NewInMemoryEventBus(zap.New(core))
	h := &stubHandler{}
	bus.Subscribe(h)

	require.NoError(t, bus.Publish(context.Background(), orderEvent(ordering.EventTypeOrderPlaced)))
	assert.Empty(t, h.got())
	assert.Equal(t, 1, logs.FilterMessage("Event bus stopped, dropping events").Len())
}
