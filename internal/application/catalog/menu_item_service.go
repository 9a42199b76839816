package catalog

import (
	"context"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/domain/catalog"
	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MenuItemService handles menu item use cases
type MenuItemService struct {
	menuItemRepo   catalog.MenuItemRepository
	restaurantRepo catalog.RestaurantRepository
	references     catalog.OrderReferenceChecker
	logger         *zap.Logger
}

// NewMenuItemService creates a new menu item service
func NewMenuItemService(
	menuItemRepo catalog.MenuItemRepository,
	restaurantRepo catalog.RestaurantRepository,
	references catalog.OrderReferenceChecker,
	logger *zap.Logger,
) *MenuItemService {
	return &MenuItemService{
		menuItemRepo:   menuItemRepo,
		restaurantRepo: restaurantRepo,
		references:     references,
		logger:         logger,
	}
}

// Create adds a menu item to an existing restaurant
func (s *MenuItemService) Create(ctx context.Context, p access.Principal, req CreateMenuItemRequest) (*MenuItemResponse, error) {
	if err := access.Authorize(p, access.OpMenuItemCreate); err != nil {
		return nil, err
	}

	restaurant, err := s.restaurantRepo.FindByID(ctx, req.RestaurantID)
	if err != nil {
		return nil, err
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	item, err := catalog.NewMenuItem(restaurant.ID, req.Name, req.Description, *req.Price, req.Category, req.ImageURL, available)
	if err != nil {
		return nil, err
	}
	if err := s.menuItemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Menu item created",
		zap.String("menu_item_id", item.ID.String()),
		zap.String("restaurant_id", restaurant.ID.String()))

	resp := ToMenuItemResponse(item, restaurant)
	return &resp, nil
}

// List returns available menu items, optionally for a single restaurant
func (s *MenuItemService) List(ctx context.Context, p access.Principal, restaurantID *uuid.UUID) ([]MenuItemResponse, error) {
	if err := access.Authorize(p, access.OpMenuItemList); err != nil {
		return nil, err
	}

	items, err := s.menuItemRepo.FindAvailable(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	restaurants := make(map[uuid.UUID]*catalog.Restaurant)
	out := make([]MenuItemResponse, len(items))
	for i, item := range items {
		restaurant, err := s.restaurant(ctx, restaurants, item.RestaurantID)
		if err != nil {
			return nil, err
		}
		out[i] = ToMenuItemResponse(item, restaurant)
	}
	return out, nil
}

// Get returns one menu item with its restaurant
func (s *MenuItemService) Get(ctx context.Context, p access.Principal, id uuid.UUID) (*MenuItemResponse, error) {
	if err := access.Authorize(p, access.OpMenuItemRead); err != nil {
		return nil, err
	}

	item, err := s.menuItemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	restaurant, err := s.restaurant(ctx, nil, item.RestaurantID)
	if err != nil {
		return nil, err
	}

	resp := ToMenuItemResponse(item, restaurant)
	return &resp, nil
}

// Update applies a partial update. Prices already captured on order lines
// are unaffected.
func (s *MenuItemService) Update(ctx context.Context, p access.Principal, id uuid.UUID, req UpdateMenuItemRequest) (*MenuItemResponse, error) {
	if err := access.Authorize(p, access.OpMenuItemUpdate); err != nil {
		return nil, err
	}

	item, err := s.menuItemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := item.Update(catalog.MenuItemUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
	}); err != nil {
		return nil, err
	}
	if err := s.menuItemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Menu item updated",
		zap.String("menu_item_id", id.String()),
		zap.Bool("available", item.IsAvailable))

	restaurant, err := s.restaurant(ctx, nil, item.RestaurantID)
	if err != nil {
		return nil, err
	}
	resp := ToMenuItemResponse(item, restaurant)
	return &resp, nil
}

// Delete removes a menu item that no order references
func (s *MenuItemService) Delete(ctx context.Context, p access.Principal, id uuid.UUID) error {
	if err := access.Authorize(p, access.OpMenuItemDelete); err != nil {
		return err
	}

	if _, err := s.menuItemRepo.FindByID(ctx, id); err != nil {
		return err
	}

	referenced, err := s.references.MenuItemHasOrders(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return shared.NewInvalidStateError("menu item is part of existing orders, mark it unavailable instead")
	}

	if err := s.menuItemRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Menu item deleted", zap.String("menu_item_id", id.String()))
	return nil
}

// restaurant loads a restaurant, memoizing into cache when it is not nil
func (s *MenuItemService) restaurant(ctx context.Context, cache map[uuid.UUID]*catalog.Restaurant, id uuid.UUID) (*catalog.Restaurant, error) {
	if r, ok := cache[id]; ok {
		return r, nil
	}
	r, err := s.restaurantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		cache[id] = r
	}
	return r, nil
}
