package catalog

import (
	"context"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/google/uuid"
)

// RestaurantRepository defines persistence for restaurants
type RestaurantRepository interface {
	// FindByID loads a restaurant with its available menu items
	FindByID(ctx context.Context, id uuid.UUID) (*Restaurant, error)
	// FindAll lists restaurants with their available menu items,
	// restricted to country when it is not nil
	FindAll(ctx context.Context, country *access.Country) ([]*Restaurant, error)
	// FindByName finds a restaurant by exact name
	FindByName(ctx context.Context, name string) (*Restaurant, error)
	Save(ctx context.Context, restaurant *Restaurant) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MenuItemRepository defines persistence for menu items
type MenuItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MenuItem, error)
	// FindAvailable lists available menu items, optionally for one restaurant
	FindAvailable(ctx context.Context, restaurantID *uuid.UUID) ([]*MenuItem, error)
	// FindByRestaurant lists every menu item of a restaurant, available or not
	FindByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*MenuItem, error)
	Save(ctx context.Context, item *MenuItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderReferenceChecker reports whether catalog entries are referenced by
// orders, which blocks their deletion.
type OrderReferenceChecker interface {
	RestaurantHasOrders(ctx context.Context, restaurantID uuid.UUID) (bool, error)
	MenuItemHasOrders(ctx context.Context, menuItemID uuid.UUID) (bool, error)
}
