package catalog

import (
	"context"
	"testing"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/domain/catalog"
	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func principal(role access.Role, country access.Country) access.Principal {
	return access.NewPrincipal(uuid.New(), role, country)
}

func newRestaurant(t *testing.T, name string, country access.Country) *catalog.Restaurant {
	t.Helper()
	r, err := catalog.NewRestaurant(name, "", country, "")
	require.NoError(t, err)
	return r
}

func TestRestaurantService_Create(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRestaurantRepository)
	svc := NewRestaurantService(repo, new(MockOrderReferenceChecker), zap.NewNop())

	t.Run("admin", func(t *testing.T) {
		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Restaurant")).Return(nil).Once()

		resp, err := svc.Create(ctx, principal(access.RoleAdmin, access.CountryAmerica), CreateRestaurantRequest{
			Name:    "Taj Kitchen",
			Country: "INDIA",
		})

		require.NoError(t, err)
		assert.Equal(t, "INDIA", resp.Country)
		assert.Empty(t, resp.MenuItems)
	})

	t.Run("manager forbidden", func(t *testing.T) {
		_, err := svc.Create(ctx, principal(access.RoleManager, access.CountryIndia), CreateRestaurantRequest{
			Name:    "Nope",
			Country: "INDIA",
		})
		assert.True(t, shared.IsForbidden(err))
	})

	repo.AssertExpectations(t)
}

func TestRestaurantService_ListScopesByCountry(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRestaurantRepository)
	svc := NewRestaurantService(repo, new(MockOrderReferenceChecker), zap.NewNop())

	india := newRestaurant(t, "Spice Route", access.CountryIndia)
	america := newRestaurant(t, "Burger House", access.CountryAmerica)

	repo.On("FindAll", ctx, (*access.Country)(nil)).Return([]*catalog.Restaurant{india, america}, nil)
	repo.On("FindAll", ctx, mock.MatchedBy(func(c *access.Country) bool {
		return c != nil && *c == access.CountryIndia
	})).Return([]*catalog.Restaurant{india}, nil)

	all, err := svc.List(ctx, principal(access.RoleAdmin, access.CountryAmerica))
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.List(ctx, principal(access.RoleMember, access.CountryIndia))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Spice Route", mine[0].Name)
}

func TestRestaurantService_GetCountryIsolation(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRestaurantRepository)
	svc := NewRestaurantService(repo, new(MockOrderReferenceChecker), zap.NewNop())

	r := newRestaurant(t, "American Diner", access.CountryAmerica)
	item, err := catalog.NewMenuItem(r.ID, "Pancakes", "", decimal.NewFromInt(8), "breakfast", "", true)
	require.NoError(t, err)
	r.MenuItems = []catalog.MenuItem{*item}
	repo.On("FindByID", ctx, r.ID).Return(r, nil)

	resp, err := svc.Get(ctx, principal(access.RoleMember, access.CountryAmerica), r.ID)
	require.NoError(t, err)
	require.Len(t, resp.MenuItems, 1)
	assert.Equal(t, "Breakfast", resp.MenuItems[0].Category)

	_, err = svc.Get(ctx, principal(access.RoleManager, access.CountryIndia), r.ID)
	assert.True(t, shared.IsForbidden(err))

	_, err = svc.Get(ctx, principal(access.RoleAdmin, access.CountryIndia), r.ID)
	assert.NoError(t, err)
}

func TestRestaurantService_Update(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRestaurantRepository)
	svc := NewRestaurantService(repo, new(MockOrderReferenceChecker), zap.NewNop())

	r := newRestaurant(t, "Moving Diner", access.CountryAmerica)
	repo.On("FindByID", ctx, r.ID).Return(r, nil)
	repo.On("Save", ctx, r).Return(nil)

	country := "INDIA"
	resp, err := svc.Update(ctx, principal(access.RoleAdmin, access.CountryAmerica), r.ID, UpdateRestaurantRequest{Country: &country})
	require.NoError(t, err)
	assert.Equal(t, "INDIA", resp.Country)
	assert.Equal(t, 2, r.Version)
}

func TestRestaurantService_Delete(t *testing.T) {
	ctx := context.Background()
	admin := principal(access.RoleAdmin, access.CountryAmerica)

	t.Run("unreferenced", func(t *testing.T) {
		repo := new(MockRestaurantRepository)
		refs := new(MockOrderReferenceChecker)
		svc := NewRestaurantService(repo, refs, zap.NewNop())
		r := newRestaurant(t, "Empty", access.CountryIndia)

		repo.On("FindByID", ctx, r.ID).Return(r, nil)
		refs.On("RestaurantHasOrders", ctx, r.ID).Return(false, nil)
		repo.On("Delete", ctx, r.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, admin, r.ID))
		repo.AssertExpectations(t)
	})

	t.Run("referenced by orders", func(t *testing.T) {
		repo := new(MockRestaurantRepository)
		refs := new(MockOrderReferenceChecker)
		svc := NewRestaurantService(repo, refs, zap.NewNop())
		r := newRestaurant(t, "Busy", access.CountryIndia)

		repo.On("FindByID", ctx, r.ID).Return(r, nil)
		refs.On("RestaurantHasOrders", ctx, r.ID).Return(true, nil)

		err := svc.Delete(ctx, admin, r.ID)
		assert.True(t, shared.IsInvalidState(err))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing", func(t *testing.T) {
		repo := new(MockRestaurantRepository)
		svc := NewRestaurantService(repo, new(MockOrderReferenceChecker), zap.NewNop())
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, shared.NewNotFoundError("Restaurant"))

		assert.True(t, shared.IsNotFound(svc.Delete(ctx, admin, id)))
	})
}
