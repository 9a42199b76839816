package ordering

import (
	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order domain event types
const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderItemAdded     = "OrderItemAdded"
	EventTypeOrderItemUpdated   = "OrderItemUpdated"
	EventTypeOrderItemRemoved   = "OrderItemRemoved"
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypeOrderCancelled     = "OrderCancelled"
)

// OrderCreatedEvent is raised when a cart is opened
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	UserID       uuid.UUID      `json:"user_id"`
	RestaurantID uuid.UUID      `json:"restaurant_id"`
	Country      access.Country `json:"country"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID),
		UserID:          o.UserID,
		RestaurantID:    o.RestaurantID,
		Country:         o.Country,
	}
}

// OrderItemAddedEvent is raised when quantity of a menu item is added
type OrderItemAddedEvent struct {
	shared.BaseDomainEvent
	ItemID        uuid.UUID       `json:"item_id"`
	MenuItemID    uuid.UUID       `json:"menu_item_id"`
	AddedQuantity int             `json:"added_quantity"`
	Quantity      int             `json:"quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewOrderItemAddedEvent creates a new OrderItemAddedEvent
func NewOrderItemAddedEvent(o *Order, item *OrderItem, added int) *OrderItemAddedEvent {
	return &OrderItemAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderItemAdded, AggregateTypeOrder, o.ID),
		ItemID:          item.ID,
		MenuItemID:      item.MenuItemID,
		AddedQuantity:   added,
		Quantity:        item.Quantity,
		TotalAmount:     o.TotalAmount,
	}
}

// OrderItemUpdatedEvent is raised when a line's quantity is replaced
type OrderItemUpdatedEvent struct {
	shared.BaseDomainEvent
	ItemID      uuid.UUID       `json:"item_id"`
	OldQuantity int             `json:"old_quantity"`
	NewQuantity int             `json:"new_quantity"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewOrderItemUpdatedEvent creates a new OrderItemUpdatedEvent
func NewOrderItemUpdatedEvent(o *Order, item *OrderItem, oldQuantity int) *OrderItemUpdatedEvent {
	return &OrderItemUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderItemUpdated, AggregateTypeOrder, o.ID),
		ItemID:          item.ID,
		OldQuantity:     oldQuantity,
		NewQuantity:     item.Quantity,
		TotalAmount:     o.TotalAmount,
	}
}

// OrderItemRemovedEvent is raised when a line is deleted
type OrderItemRemovedEvent struct {
	shared.BaseDomainEvent
	ItemID      uuid.UUID       `json:"item_id"`
	MenuItemID  uuid.UUID       `json:"menu_item_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewOrderItemRemovedEvent creates a new OrderItemRemovedEvent
func NewOrderItemRemovedEvent(o *Order, item *OrderItem) *OrderItemRemovedEvent {
	return &OrderItemRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderItemRemoved, AggregateTypeOrder, o.ID),
		ItemID:          item.ID,
		MenuItemID:      item.MenuItemID,
		TotalAmount:     o.TotalAmount,
	}
}

// OrderPlacedEvent is raised on checkout
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	UserID      uuid.UUID       `json:"user_id"`
	Country     access.Country  `json:"country"`
	ItemCount   int             `json:"item_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		UserID:          o.UserID,
		Country:         o.Country,
		ItemCount:       len(o.Items),
		TotalAmount:     o.TotalAmount,
	}
}

// OrderStatusChangedEvent is raised when an operator sets a status
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, old OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OldStatus:       old,
		NewStatus:       o.Status,
	}
}

// OrderCancelledEvent is raised on cancellation
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	PreviousStatus OrderStatus `json:"previous_status"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order, previous OrderStatus) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID),
		PreviousStatus:  previous,
	}
}
