// Package event holds application-level helpers for dispatching the domain
// events recorded on aggregates.
package event

import (
	"context"

	"github.com/foodorder/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PublishPending drains the aggregate's recorded events and hands them to
// publisher. It runs after the aggregate has been persisted; a publishing
// failure is logged and never returned.
func PublishPending(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, aggregate shared.EventSource) {
	events := aggregate.PullDomainEvents()
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("Failed to publish domain events",
			zap.String("aggregate_id", aggregate.GetID().String()),
			zap.Int("count", len(events)),
			zap.Error(err))
	}
}
