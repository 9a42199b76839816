package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foodorder/backend/internal/domain/ordering"
	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mapStore struct {
	seen map[string]bool
	err  error
}

func newMapStore() *mapStore {
	return &mapStore{seen: make(map[string]bool)}
}

func (s *mapStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.seen[key] {
		return false, nil
	}
	s.seen[key] = true
	return true, nil
}

func (s *mapStore) IsProcessed(_ context.Context, key string) (bool, error) {
	return s.seen[key], s.err
}

func (s *mapStore) Close() error { return nil }

func TestIdempotentHandler_SkipsDuplicates(t *testing.T) {
	inner := &stubHandler{types: []string{ordering.EventTypeOrderPlaced}}
	h := NewIdempotentHandler("metrics", inner, newMapStore(), zap.NewNop())

	evt := orderEvent(ordering.EventTypeOrderPlaced)
	require.NoError(t, h.Handle(context.Background(), evt))
	require.NoError(t, h.Handle(context.Background(), evt))
	require.NoError(t, h.Handle(context.Background(), orderEvent(ordering.EventTypeOrderPlaced)))

	assert.Len(t, inner.seen, 2)
	assert.Equal(t, IdempotencyStats{Processed: 2, Duplicate: 1}, h.Stats())
	assert.Equal(t, []string{ordering.EventTypeOrderPlaced}, h.EventTypes())
}

func TestIdempotentHandler_NamesShareStore(t *testing.T) {
	store := newMapStore()
	first := &stubHandler{}
	second := &stubHandler{}
	a := NewIdempotentHandler("a", first, store, zap.NewNop())
	b := NewIdempotentHandler("b", second, store, zap.NewNop())

	evt := orderEvent(ordering.EventTypeOrderCreated)
	require.NoError(t, a.Handle(context.Background(), evt))
	require.NoError(t, b.Handle(context.Background(), evt))

	assert.Len(t, first.seen, 1)
	assert.Len(t, second.seen, 1)
}

func TestIdempotentHandler_StoreFailureProcessesAnyway(t *testing.T) {
	store := newMapStore()
	store.err = errors.New("redis down")
	inner := &stubHandler{}
	h := NewIdempotentHandler("metrics", inner, store, zap.NewNop())

	evt := orderEvent(ordering.EventTypeOrderCreated)
	require.NoError(t, h.Handle(context.Background(), evt))
	require.NoError(t, h.Handle(context.Background(), evt))

	assert.Len(t, inner.seen, 2)
}

func TestIdempotentHandler_HandlerError(t *testing.T) {
	inner := &stubHandler{err: errors.New("boom")}
	h := NewIdempotentHandler("metrics", inner, newMapStore(), zap.NewNop())

	assert.Error(t, h.Handle(context.Background(), orderEvent(ordering.EventTypeOrderCreated)))
	assert.Equal(t, int64(1), h.Stats().Failed)
}

func TestIdempotentHandler_Disabled(t *testing.T) {
	inner := &stubHandler{}
	h := NewIdempotentHandler("metrics", inner, newMapStore(), zap.NewNop(),
		WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: false}))

	evt := orderEvent(ordering.EventTypeOrderCreated)
	require.NoError(t, h.Handle(context.Background(), evt))
	require.NoError(t, h.Handle(context.Background(), evt))

	assert.Len(t, inner.seen, 2)
	assert.Equal(t, IdempotencyStats{}, h.Stats())
}
