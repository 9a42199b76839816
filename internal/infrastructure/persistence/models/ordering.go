package models

import (
	"time"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/domain/ordering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	AggregateModel
	UserID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	RestaurantID uuid.UUID            `gorm:"type:uuid;not null;index"`
	Country      access.Country       `gorm:"type:varchar(20);not null;index"`
	Status       ordering.OrderStatus `gorm:"type:varchar(20);not null;default:'CART';index"`
	TotalAmount  decimal.Decimal      `gorm:"type:decimal(10,2);not null;default:0"`
	Items        []OrderItemModel     `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *ordering.Order {
	order := &ordering.Order{
		Aggregate:    m.aggregate(),
		UserID:       m.UserID,
		RestaurantID: m.RestaurantID,
		Country:      m.Country,
		Status:       m.Status,
		TotalAmount:  m.TotalAmount,
		Items:        make([]ordering.OrderItem, 0, len(m.Items)),
	}
	for i := range m.Items {
		order.Items = append(order.Items, *m.Items[i].ToDomain())
	}
	return order
}

// FromDomain populates the persistence model from a domain Order.
func (m *OrderModel) FromDomain(o *ordering.Order) {
	m.setAggregate(o.Aggregate)
	m.UserID = o.UserID
	m.RestaurantID = o.RestaurantID
	m.Country = o.Country
	m.Status = o.Status
	m.TotalAmount = o.TotalAmount
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i].FromDomain(&o.Items[i])
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *ordering.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for an order line.
type OrderItemModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	MenuItemID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	MenuItemName string          `gorm:"type:varchar(200);not null"`
	Quantity     int             `gorm:"not null"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem.
func (m *OrderItemModel) ToDomain() *ordering.OrderItem {
	return &ordering.OrderItem{
		ID:           m.ID,
		OrderID:      m.OrderID,
		MenuItemID:   m.MenuItemID,
		MenuItemName: m.MenuItemName,
		Quantity:     m.Quantity,
		Price:        m.Price,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain OrderItem.
func (m *OrderItemModel) FromDomain(i *ordering.OrderItem) {
	m.ID = i.ID
	m.OrderID = i.OrderID
	m.MenuItemID = i.MenuItemID
	m.MenuItemName = i.MenuItemName
	m.Quantity = i.Quantity
	m.Price = i.Price
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
}
