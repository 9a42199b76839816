package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/foodorder/backend/internal/domain/ordering"
	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/foodorder/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// itemsInCreationOrder preloads order items in the order they were added
func itemsInCreationOrder(db *gorm.DB) *gorm.DB {
	return db.Order("created_at").Order("id")
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items", itemsInCreationOrder).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Order")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser lists a user's orders, newest first
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*ordering.Order, error) {
	return r.find(ctx, r.db.WithContext(ctx).Scopes(OwnerScope(userID)))
}

// FindAll lists orders matching the filter, newest first
func (r *GormOrderRepository) FindAll(ctx context.Context, filter ordering.OrderFilter) ([]*ordering.Order, error) {
	query := r.db.WithContext(ctx).Scopes(CountryScope(filter.Country))
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return r.find(ctx, query)
}

func (r *GormOrderRepository) find(_ context.Context, query *gorm.DB) ([]*ordering.Order, error) {
	var orderModels []models.OrderModel
	if err := query.
		Scopes(NewestFirst).
		Preload("Items", itemsInCreationOrder).
		Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]*ordering.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = orderModels[i].ToDomain()
	}
	return orders, nil
}

// Save inserts a new order together with its items
func (r *GormOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	model := models.OrderModelFromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		for i := range model.Items {
			model.Items[i].OrderID = model.ID
			if err := tx.Create(&model.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveWithLock saves the order header and rewrites its items with optimistic
// locking. The header update only matches the row when the stored version
// equals order.Version, so the status guard read by the caller and the write
// cannot be split by a concurrent writer.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *ordering.Order) error {
	nextVersion := order.Version + 1
	updatedAt := time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND version = ?", order.ID, order.Version).
			Updates(map[string]any{
				"status":       order.Status,
				"total_amount": order.TotalAmount,
				"version":      nextVersion,
				"updated_at":   updatedAt,
			})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.OrderModel{}).Where("id = ?", order.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return shared.NewNotFoundError("Order")
			}
			return shared.NewDomainError(shared.CodeConcurrencyConflict, "The order has been modified by another request")
		}

		// Handle items
		currentItemIDs := make([]uuid.UUID, len(order.Items))
		for i, item := range order.Items {
			currentItemIDs[i] = item.ID
		}

		// Delete items not in the current list
		if len(currentItemIDs) > 0 {
			if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, currentItemIDs).
				Delete(&models.OrderItemModel{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("order_id = ?", order.ID).
				Delete(&models.OrderItemModel{}).Error; err != nil {
				return err
			}
		}

		// Save/update remaining items
		for i := range order.Items {
			var item models.OrderItemModel
			item.FromDomain(&order.Items[i])
			item.OrderID = order.ID
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	order.Version = nextVersion
	order.UpdatedAt = updatedAt
	return nil
}

// Ensure GormOrderRepository implements OrderRepository
var _ ordering.OrderRepository = (*GormOrderRepository)(nil)

// GormOrderReferenceChecker answers whether catalog entries or users are
// referenced by any order
type GormOrderReferenceChecker struct {
	db *gorm.DB
}

// NewGormOrderReferenceChecker creates a new GormOrderReferenceChecker
func NewGormOrderReferenceChecker(db *gorm.DB) *GormOrderReferenceChecker {
	return &GormOrderReferenceChecker{db: db}
}

// RestaurantHasOrders reports whether any order was placed with the restaurant
func (c *GormOrderReferenceChecker) RestaurantHasOrders(ctx context.Context, restaurantID uuid.UUID) (bool, error) {
	return c.exists(ctx, &models.OrderModel{}, "restaurant_id = ?", restaurantID)
}

// MenuItemHasOrders reports whether any order line references the menu item
func (c *GormOrderReferenceChecker) MenuItemHasOrders(ctx context.Context, menuItemID uuid.UUID) (bool, error) {
	return c.exists(ctx, &models.OrderItemModel{}, "menu_item_id = ?", menuItemID)
}

// UserHasOrders reports whether the user owns any order
func (c *GormOrderReferenceChecker) UserHasOrders(ctx context.Context, userID uuid.UUID) (bool, error) {
	return c.exists(ctx, &models.OrderModel{}, "user_id = ?", userID)
}

func (c *GormOrderReferenceChecker) exists(ctx context.Context, model any, query string, args ...any) (bool, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(model).Where(query, args...).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
