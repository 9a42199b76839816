// Package catalog implements the restaurant and menu item use cases.
package catalog

import (
	"context"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/domain/catalog"
	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RestaurantService handles restaurant use cases
type RestaurantService struct {
	restaurantRepo catalog.RestaurantRepository
	references     catalog.OrderReferenceChecker
	logger         *zap.Logger
}

// NewRestaurantService creates a new restaurant service
func NewRestaurantService(
	restaurantRepo catalog.RestaurantRepository,
	references catalog.OrderReferenceChecker,
	logger *zap.Logger,
) *RestaurantService {
	return &RestaurantService{
		restaurantRepo: restaurantRepo,
		references:     references,
		logger:         logger,
	}
}

// Create creates a new restaurant
func (s *RestaurantService) Create(ctx context.Context, p access.Principal, req CreateRestaurantRequest) (*RestaurantResponse, error) {
	if err := access.Authorize(p, access.OpRestaurantCreate); err != nil {
		return nil, err
	}

	country, ok := access.ParseCountry(req.Country)
	if !ok {
		return nil, shared.NewValidationError("Country must be one of INDIA, AMERICA")
	}

	restaurant, err := catalog.NewRestaurant(req.Name, req.Description, country, req.ImageURL)
	if err != nil {
		return nil, err
	}
	if err := s.restaurantRepo.Save(ctx, restaurant); err != nil {
		return nil, err
	}

	s.logger.Info("Restaurant created",
		zap.String("restaurant_id", restaurant.ID.String()),
		zap.String("country", string(country)))

	resp := ToRestaurantResponse(restaurant)
	return &resp, nil
}

// List returns every restaurant for ADMIN and the caller's country otherwise
func (s *RestaurantService) List(ctx context.Context, p access.Principal) ([]RestaurantResponse, error) {
	if err := access.Authorize(p, access.OpRestaurantList); err != nil {
		return nil, err
	}

	restaurants, err := s.restaurantRepo.FindAll(ctx, access.CountryFilter(p))
	if err != nil {
		return nil, err
	}

	out := make([]RestaurantResponse, len(restaurants))
	for i, r := range restaurants {
		out[i] = ToRestaurantResponse(r)
	}
	return out, nil
}

// Get returns one restaurant, subject to country isolation
func (s *RestaurantService) Get(ctx context.Context, p access.Principal, id uuid.UUID) (*RestaurantResponse, error) {
	if err := access.Authorize(p, access.OpRestaurantRead); err != nil {
		return nil, err
	}

	restaurant, err := s.restaurantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Evaluate(p, restaurant.Country).Err(); err != nil {
		return nil, err
	}

	resp := ToRestaurantResponse(restaurant)
	return &resp, nil
}

// Update applies a partial update. Orders already placed keep the country
// they were created with.
func (s *RestaurantService) Update(ctx context.Context, p access.Principal, id uuid.UUID, req UpdateRestaurantRequest) (*RestaurantResponse, error) {
	if err := access.Authorize(p, access.OpRestaurantUpdate); err != nil {
		return nil, err
	}

	restaurant, err := s.restaurantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update := catalog.RestaurantUpdate{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if req.Country != nil {
		country, ok := access.ParseCountry(*req.Country)
		if !ok {
			return nil, shared.NewValidationError("Country must be one of INDIA, AMERICA")
		}
		update.Country = &country
	}

	if err := restaurant.Update(update); err != nil {
		return nil, err
	}
	if err := s.restaurantRepo.Save(ctx, restaurant); err != nil {
		return nil, err
	}

	s.logger.Info("Restaurant updated", zap.String("restaurant_id", id.String()))

	resp := ToRestaurantResponse(restaurant)
	return &resp, nil
}

// Delete removes a restaurant and its menu. Restaurants referenced by
// orders cannot be deleted.
func (s *RestaurantService) Delete(ctx context.Context, p access.Principal, id uuid.UUID) error {
	if err := access.Authorize(p, access.OpRestaurantDelete); err != nil {
		return err
	}

	if _, err := s.restaurantRepo.FindByID(ctx, id); err != nil {
		return err
	}

	referenced, err := s.references.RestaurantHasOrders(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return shared.NewInvalidStateError("restaurant has orders and cannot be deleted")
	}

	if err := s.restaurantRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Restaurant deleted", zap.String("restaurant_id", id.String()))
	return nil
}
