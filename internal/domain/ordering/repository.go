package ordering

import (
	"context"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/google/uuid"
)

// OrderRepository defines persistence for orders and their items
type OrderRepository interface {
	// FindByID loads an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByUser lists a user's orders, newest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Order, error)

	// FindAll lists orders matching the filter, newest first. The country
	// restriction is applied in the query.
	FindAll(ctx context.Context, filter OrderFilter) ([]*Order, error)

	// Save inserts a new order with its items
	Save(ctx context.Context, order *Order) error

	// SaveWithLock persists header and items in one transaction, failing
	// with CONCURRENCY_CONFLICT when the stored version differs from
	// order.Version. On success order.Version is bumped.
	SaveWithLock(ctx context.Context, order *Order) error
}

// OrderFilter restricts order listings
type OrderFilter struct {
	Country *access.Country
	Status  *OrderStatus
}
