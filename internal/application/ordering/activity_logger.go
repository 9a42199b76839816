package ordering

import (
	"context"

	"github.com/foodorder/backend/internal/domain/ordering"
	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/foodorder/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// OrderActivityLogger writes an audit line for every order event
type OrderActivityLogger struct {
	logger *zap.Logger
}

// NewOrderActivityLogger creates a new order activity logger
func NewOrderActivityLogger(logger *zap.Logger) *OrderActivityLogger {
	return &OrderActivityLogger{logger: logger.Named("order_activity")}
}

// EventTypes implements shared.EventHandler
func (h *OrderActivityLogger) EventTypes() []string {
	return []string{
		ordering.EventTypeOrderCreated,
		ordering.EventTypeOrderItemAdded,
		ordering.EventTypeOrderItemUpdated,
		ordering.EventTypeOrderItemRemoved,
		ordering.EventTypeOrderPlaced,
		ordering.EventTypeOrderStatusChanged,
		ordering.EventTypeOrderCancelled,
	}
}

// Handle implements shared.EventHandler
func (h *OrderActivityLogger) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("order_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}
	if requestID := logger.GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}

	switch e := event.(type) {
	case *ordering.OrderCreatedEvent:
		fields = append(fields,
			zap.String("user_id", e.UserID.String()),
			zap.String("restaurant_id", e.RestaurantID.String()),
			zap.String("country", string(e.Country)))
	case *ordering.OrderItemAddedEvent:
		fields = append(fields,
			zap.String("menu_item_id", e.MenuItemID.String()),
			zap.Int("added", e.AddedQuantity),
			zap.Int("quantity", e.Quantity),
			zap.String("total", e.TotalAmount.StringFixed(2)))
	case *ordering.OrderItemUpdatedEvent:
		fields = append(fields,
			zap.String("item_id", e.ItemID.String()),
			zap.Int("old_quantity", e.OldQuantity),
			zap.Int("new_quantity", e.NewQuantity),
			zap.String("total", e.TotalAmount.StringFixed(2)))
	case *ordering.OrderItemRemovedEvent:
		fields = append(fields,
			zap.String("item_id", e.ItemID.String()),
			zap.String("total", e.TotalAmount.StringFixed(2)))
	case *ordering.OrderPlacedEvent:
		fields = append(fields,
			zap.String("user_id", e.UserID.String()),
			zap.String("country", string(e.Country)),
			zap.Int("item_count", e.ItemCount),
			zap.String("total", e.TotalAmount.StringFixed(2)))
	case *ordering.OrderStatusChangedEvent:
		fields = append(fields,
			zap.String("from", string(e.OldStatus)),
			zap.String("to", string(e.NewStatus)))
	case *ordering.OrderCancelledEvent:
		fields = append(fields, zap.String("from", string(e.PreviousStatus)))
	}

	h.logger.Info("Order activity", fields...)
	return nil
}
