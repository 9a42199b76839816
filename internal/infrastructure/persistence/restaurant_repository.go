package persistence

import (
	"context"
	"errors"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/domain/catalog"
	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/foodorder/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRestaurantRepository implements RestaurantRepository using GORM
type GormRestaurantRepository struct {
	db *gorm.DB
}

// NewGormRestaurantRepository creates a new GormRestaurantRepository
func NewGormRestaurantRepository(db *gorm.DB) *GormRestaurantRepository {
	return &GormRestaurantRepository{db: db}
}

// availableMenuItems preloads only the menu items that can be ordered
func availableMenuItems(db *gorm.DB) *gorm.DB {
	return db.Where("is_available = ?", true).Order("category").Order("name")
}

// FindByID loads a restaurant with its available menu items
func (r *GormRestaurantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Restaurant, error) {
	var model models.RestaurantModel
	if err := r.db.WithContext(ctx).
		Preload("MenuItems", availableMenuItems).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Restaurant")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists restaurants ordered by name, restricted to country when set
func (r *GormRestaurantRepository) FindAll(ctx context.Context, country *access.Country) ([]*catalog.Restaurant, error) {
	var restaurantModels []models.RestaurantModel
	if err := r.db.WithContext(ctx).
		Scopes(CountryScope(country)).
		Preload("MenuItems", availableMenuItems).
		Order("name").
		Find(&restaurantModels).Error; err != nil {
		return nil, err
	}

	restaurants := make([]*catalog.Restaurant, len(restaurantModels))
	for i := range restaurantModels {
		restaurants[i] = restaurantModels[i].ToDomain()
	}
	return restaurants, nil
}

// FindByName finds a restaurant by exact name
func (r *GormRestaurantRepository) FindByName(ctx context.Context, name string) (*catalog.Restaurant, error) {
	var model models.RestaurantModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Restaurant")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a restaurant header. Menu items are not touched.
func (r *GormRestaurantRepository) Save(ctx context.Context, restaurant *catalog.Restaurant) error {
	model := models.RestaurantModelFromDomain(restaurant)
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error
}

// Delete deletes a restaurant and its menu items
func (r *GormRestaurantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.MenuItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.RestaurantModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError("Restaurant")
		}
		return nil
	})
}

// Ensure GormRestaurantRepository implements RestaurantRepository
var _ catalog.RestaurantRepository = (*GormRestaurantRepository)(nil)

// GormMenuItemRepository implements MenuItemRepository using GORM
type GormMenuItemRepository struct {
	db *gorm.DB
}

// NewGormMenuItemRepository creates a new GormMenuItemRepository
func NewGormMenuItemRepository(db *gorm.DB) *GormMenuItemRepository {
	return &GormMenuItemRepository{db: db}
}

// FindByID finds a menu item by ID regardless of availability
func (r *GormMenuItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.MenuItem, error) {
	var model models.MenuItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Menu item")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAvailable lists available menu items, optionally for one restaurant
func (r *GormMenuItemRepository) FindAvailable(ctx context.Context, restaurantID *uuid.UUID) ([]*catalog.MenuItem, error) {
	query := r.db.WithContext(ctx).Scopes(availableMenuItems)
	if restaurantID != nil {
		query = query.Where("restaurant_id = ?", *restaurantID)
	}

	var itemModels []models.MenuItemModel
	if err := query.Find(&itemModels).Error; err != nil {
		return nil, err
	}

	items := make([]*catalog.MenuItem, len(itemModels))
	for i := range itemModels {
		items[i] = itemModels[i].ToDomain()
	}
	return items, nil
}

// FindByRestaurant lists all menu items of a restaurant ordered by name
func (r *GormMenuItemRepository) FindByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*catalog.MenuItem, error) {
	var itemModels []models.MenuItemModel
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("name ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}

	items := make([]*catalog.MenuItem, len(itemModels))
	for i := range itemModels {
		items[i] = itemModels[i].ToDomain()
	}
	return items, nil
}

// Save creates or updates a menu item
func (r *GormMenuItemRepository) Save(ctx context.Context, item *catalog.MenuItem) error {
	model := models.MenuItemModelFromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a menu item by ID
func (r *GormMenuItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MenuItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Menu item")
	}
	return nil
}

// Ensure GormMenuItemRepository implements MenuItemRepository
var _ catalog.MenuItemRepository = (*GormMenuItemRepository)(nil)
