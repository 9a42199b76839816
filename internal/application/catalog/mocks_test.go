package catalog

import (
	"context"
	"time"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRestaurantRepository is a mock implementation of catalog.RestaurantRepository
type MockRestaurantRepository struct {
	mock.Mock
}

func (m *MockRestaurantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) FindAll(ctx context.Context, country *access.Country) ([]*catalog.Restaurant, error) {
	args := m.Called(ctx, country)
	return args.Get(0).([]*catalog.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) FindByName(ctx context.Context, name string) (*catalog.Restaurant, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) Save(ctx context.Context, restaurant *catalog.Restaurant) error {
	args := m.Called(ctx, restaurant)
	return args.Error(0)
}

func (m *MockRestaurantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMenuItemRepository is a mock implementation of catalog.MenuItemRepository
type MockMenuItemRepository struct {
	mock.Mock
}

func (m *MockMenuItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.MenuItem), args.Error(1)
}

func (m *MockMenuItemRepository) FindAvailable(ctx context.Context, restaurantID *uuid.UUID) ([]*catalog.MenuItem, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).([]*catalog.MenuItem), args.Error(1)
}

func (m *MockMenuItemRepository) FindByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*catalog.MenuItem, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.MenuItem), args.Error(1)
}

func (m *MockMenuItemRepository) Save(ctx context.Context, item *catalog.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockMenuItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOrderReferenceChecker is a mock implementation of catalog.OrderReferenceChecker
type MockOrderReferenceChecker struct {
	mock.Mock
}

func (m *MockOrderReferenceChecker) RestaurantHasOrders(ctx context.Context, restaurantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, restaurantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderReferenceChecker) MenuItemHasOrders(ctx context.Context, menuItemID uuid.UUID) (bool, error) {
	args := m.Called(ctx, menuItemID)
	return args.Bool(0), args.Error(1)
}

// MockImageStorage is a mock implementation of ImageStorage
type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) GenerateUploadURL(ctx context.Context, key, contentType string, size int64, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, contentType, size, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockImageStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockImageStorage) DeleteObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockImageStorage) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}
