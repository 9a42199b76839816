package ordering

import (
	"context"
	"fmt"

	"github.com/foodorder/backend/internal/domain/ordering"
	"github.com/foodorder/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation name for order metrics
const MeterName = "github.com/foodorder/backend/ordering"

// OrderMetrics records order lifecycle counters from domain events
type OrderMetrics struct {
	created       metric.Int64Counter
	placed        metric.Int64Counter
	statusChanged metric.Int64Counter
	cancelled     metric.Int64Counter
	orderTotal    metric.Float64Histogram
}

// NewOrderMetrics registers the order instruments on meter
func NewOrderMetrics(meter metric.Meter) (*OrderMetrics, error) {
	m := &OrderMetrics{}
	var err error

	if m.created, err = meter.Int64Counter("orders.created",
		metric.WithDescription("Carts opened"),
		metric.WithUnit("{order}")); err != nil {
		return nil, fmt.Errorf("failed to create orders.created counter: %w", err)
	}
	if m.placed, err = meter.Int64Counter("orders.placed",
		metric.WithDescription("Orders checked out"),
		metric.WithUnit("{order}")); err != nil {
		return nil, fmt.Errorf("failed to create orders.placed counter: %w", err)
	}
	if m.statusChanged, err = meter.Int64Counter("orders.status_changed",
		metric.WithDescription("Operator status transitions"),
		metric.WithUnit("{transition}")); err != nil {
		return nil, fmt.Errorf("failed to create orders.status_changed counter: %w", err)
	}
	if m.cancelled, err = meter.Int64Counter("orders.cancelled",
		metric.WithDescription("Orders cancelled"),
		metric.WithUnit("{order}")); err != nil {
		return nil, fmt.Errorf("failed to create orders.cancelled counter: %w", err)
	}
	if m.orderTotal, err = meter.Float64Histogram("orders.total_amount",
		metric.WithDescription("Total amount of placed orders")); err != nil {
		return nil, fmt.Errorf("failed to create orders.total_amount histogram: %w", err)
	}
	return m, nil
}

// EventTypes implements shared.EventHandler
func (m *OrderMetrics) EventTypes() []string {
	return []string{
		ordering.EventTypeOrderCreated,
		ordering.EventTypeOrderPlaced,
		ordering.EventTypeOrderStatusChanged,
		ordering.EventTypeOrderCancelled,
	}
}

// Handle implements shared.EventHandler
func (m *OrderMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *ordering.OrderCreatedEvent:
		m.created.Add(ctx, 1, metric.WithAttributes(attribute.String("country", string(e.Country))))
	case *ordering.OrderPlacedEvent:
		attrs := metric.WithAttributes(attribute.String("country", string(e.Country)))
		m.placed.Add(ctx, 1, attrs)
		total, _ := e.TotalAmount.Float64()
		m.orderTotal.Record(ctx, total, attrs)
	case *ordering.OrderStatusChangedEvent:
		m.statusChanged.Add(ctx, 1, metric.WithAttributes(
			attribute.String("from", string(e.OldStatus)),
			attribute.String("to", string(e.NewStatus))))
	case *ordering.OrderCancelledEvent:
		m.cancelled.Add(ctx, 1, metric.WithAttributes(attribute.String("from", string(e.PreviousStatus))))
	}
	return nil
}
