package event

import (
	"context"
	"errors"
	"testing"

	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testAggregate struct {
	shared.Aggregate
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func newAggregate(eventTypes ...string) *testAggregate {
	agg := &testAggregate{Aggregate: shared.NewAggregate()}
	for _, et := range eventTypes {
		e := shared.NewBaseDomainEvent(et, "Test", agg.ID)
		agg.AddDomainEvent(&e)
	}
	return agg
}

func TestPublishPending(t *testing.T) {
	t.Run("publishes and clears", func(t *testing.T) {
		agg := newAggregate("A", "B")
		pub := new(mockPublisher)
		pub.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 2 && events[0].EventType() == "A"
		})).Return(nil)

		PublishPending(context.Background(), pub, zap.NewNop(), agg)

		pub.AssertExpectations(t)
		assert.Empty(t, agg.GetDomainEvents())
	})

	t.Run("nothing to publish", func(t *testing.T) {
		pub := new(mockPublisher)
		PublishPending(context.Background(), pub, zap.NewNop(), newAggregate())
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("nil publisher still clears", func(t *testing.T) {
		agg := newAggregate("A")
		PublishPending(context.Background(), nil, zap.NewNop(), agg)
		assert.Empty(t, agg.GetDomainEvents())
	})

	t.Run("failure is logged", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		pub := new(mockPublisher)
		pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("bus down"))

		PublishPending(context.Background(), pub, zap.New(core), newAggregate("A"))

		entries := logs.FilterMessage("Failed to publish domain events").All()
		if assert.Len(t, entries, 1) {
			assert.Equal(t, int64(1), entries[0].ContextMap()["count"])
		}
	})
}
