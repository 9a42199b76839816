package models

import (
	"time"

	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateModel holds the columns every aggregate table shares. Version
// backs optimistic locking on orders and is carried on the other tables.
type AggregateModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Version   int       `gorm:"not null;default:1"`
}

func (m *AggregateModel) aggregate() shared.Aggregate {
	return shared.RestoreAggregate(m.ID, m.CreatedAt, m.UpdatedAt, m.Version)
}

func (m *AggregateModel) setAggregate(a shared.Aggregate) {
	m.ID = a.ID
	m.CreatedAt = a.CreatedAt
	m.UpdatedAt = a.UpdatedAt
	m.Version = a.Version
}

// AllModels lists every persistence model, parents before children, for
// AutoMigrate.
func AllModels() []any {
	return []any{
		&UserModel{},
		&RestaurantModel{},
		&MenuItemModel{},
		&OrderModel{},
		&OrderItemModel{},
		&PaymentMethodModel{},
	}
}
