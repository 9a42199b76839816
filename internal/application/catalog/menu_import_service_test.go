package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/domain/catalog"
	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/foodorder/backend/internal/infrastructure/csvimport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type importFixture struct {
	restaurants *MockRestaurantRepository
	menuItems   *MockMenuItemRepository
	svc         *MenuImportService
}

func newImportFixture() *importFixture {
	f := &importFixture{
		restaurants: new(MockRestaurantRepository),
		menuItems:   new(MockMenuItemRepository),
	}
	f.svc = NewMenuImportService(f.restaurants, f.menuItems, zap.NewNop())
	return f
}

const menuCSV = `name,description,price,category,image_url,is_available
Butter Chicken,Creamy tomato curry,15.99,curries,https://img.example.com/bc.jpg,yes
Garlic Naan,,2.5,breads,,
Mango Lassi,Sweet yogurt drink,3.75,drinks,,no
`

func TestMenuImportService_Import(t *testing.T) {
	ctx := context.Background()
	admin := principal(access.RoleAdmin, access.CountryAmerica)

	t.Run("creates every row", func(t *testing.T) {
		f := newImportFixture()
		r := newRestaurant(t, "Taj Kitchen", access.CountryIndia)
		f.restaurants.On("FindByID", ctx, r.ID).Return(r, nil)
		f.menuItems.On("FindByRestaurant", ctx, r.ID).Return([]*catalog.MenuItem{}, nil)

		var saved []*catalog.MenuItem
		f.menuItems.On("Save", ctx, mock.AnythingOfType("*catalog.MenuItem")).
			Run(func(args mock.Arguments) { saved = append(saved, args.Get(1).(*catalog.MenuItem)) }).
			Return(nil)

		resp, err := f.svc.Import(ctx, admin, r.ID, strings.NewReader(menuCSV), MenuImportRequest{})

		require.NoError(t, err)
		assert.True(t, resp.Applied)
		assert.Equal(t, 3, resp.TotalRows)
		assert.Equal(t, 3, resp.Created)
		assert.Zero(t, resp.ErrorRows)
		require.Len(t, saved, 3)
		assert.Equal(t, "Butter Chicken", saved[0].Name)
		assert.Equal(t, "Curries", saved[0].Category)
		assert.True(t, saved[1].IsAvailable)
		assert.Equal(t, "2.5", saved[1].Price.String())
		assert.False(t, saved[2].IsAvailable)
		assert.Equal(t, r.ID, saved[2].RestaurantID)
	})

	t.Run("row errors block the whole file", func(t *testing.T) {
		f := newImportFixture()
		r := newRestaurant(t, "Taj Kitchen", access.CountryIndia)
		f.restaurants.On("FindByID", ctx, r.ID).Return(r, nil)
		f.menuItems.On("FindByRestaurant", ctx, r.ID).Return([]*catalog.MenuItem{}, nil)

		csv := "name,price,category,image_url\n" +
			"Samosa,1.50,snacks,\n" +
			"Pakora,cheap,snacks,\n" +
			"samosa,1.00,snacks,\n" +
			"Chai,1.00,drinks,ftp://img/chai.png\n"

		resp, err := f.svc.Import(ctx, admin, r.ID, strings.NewReader(csv), MenuImportRequest{})

		require.NoError(t, err)
		assert.False(t, resp.Applied)
		assert.Equal(t, 3, resp.ErrorRows)
		require.Len(t, resp.Errors, 3)
		assert.Equal(t, 3, resp.Errors[0].Row)
		assert.Equal(t, csvimport.ErrCodeInvalidType, resp.Errors[0].Code)
		assert.Equal(t, csvimport.ErrCodeDuplicateInFile, resp.Errors[1].Code)
		assert.Equal(t, "image_url", resp.Errors[2].Column)
		f.menuItems.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		f := newImportFixture()
		r := newRestaurant(t, "Taj Kitchen", access.CountryIndia)
		f.restaurants.On("FindByID", ctx, r.ID).Return(r, nil)
		f.menuItems.On("FindByRestaurant", ctx, r.ID).Return([]*catalog.MenuItem{}, nil)

		resp, err := f.svc.Import(ctx, admin, r.ID, strings.NewReader(menuCSV), MenuImportRequest{DryRun: true})

		require.NoError(t, err)
		assert.True(t, resp.DryRun)
		assert.False(t, resp.Applied)
		assert.Equal(t, 3, resp.Created)
		f.menuItems.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("non admin is forbidden", func(t *testing.T) {
		f := newImportFixture()
		_, err := f.svc.Import(ctx, principal(access.RoleManager, access.CountryIndia), newRestaurant(t, "X", access.CountryIndia).ID,
			strings.NewReader(menuCSV), MenuImportRequest{})
		assert.True(t, shared.IsForbidden(err))
		f.restaurants.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("missing restaurant", func(t *testing.T) {
		f := newImportFixture()
		r := newRestaurant(t, "Gone", access.CountryIndia)
		f.restaurants.On("FindByID", ctx, r.ID).Return(nil, shared.NewNotFoundError("Restaurant"))

		_, err := f.svc.Import(ctx, admin, r.ID, strings.NewReader(menuCSV), MenuImportRequest{})
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("save failure is returned", func(t *testing.T) {
		f := newImportFixture()
		r := newRestaurant(t, "Taj Kitchen", access.CountryIndia)
		f.restaurants.On("FindByID", ctx, r.ID).Return(r, nil)
		f.menuItems.On("FindByRestaurant", ctx, r.ID).Return([]*catalog.MenuItem{}, nil)
		f.menuItems.On("Save", ctx, mock.Anything).Return(errors.New("db down"))

		_, err := f.svc.Import(ctx, admin, r.ID, strings.NewReader(menuCSV), MenuImportRequest{})
		assert.EqualError(t, err, "db down")
	})
}

func TestMenuImportService_ConflictModes(t *testing.T) {
	ctx := context.Background()
	admin := principal(access.RoleAdmin, access.CountryAmerica)
	csv := "name,price,category,is_available\nbutter chicken,17.00,Curries,no\nPaneer Tikka,12.00,Starters,\n"

	setup := func(t *testing.T) (*importFixture, *catalog.Restaurant, *catalog.MenuItem) {
		f := newImportFixture()
		r := newRestaurant(t, "Taj Kitchen", access.CountryIndia)
		existing := newMenuItem(t, r.ID, "Butter Chicken", 15)
		f.restaurants.On("FindByID", ctx, r.ID).Return(r, nil)
		f.menuItems.On("FindByRestaurant", ctx, r.ID).Return([]*catalog.MenuItem{existing}, nil)
		return f, r, existing
	}

	t.Run("skip", func(t *testing.T) {
		f, r, existing := setup(t)
		f.menuItems.On("Save", ctx, mock.Anything).Return(nil).Once()

		resp, err := f.svc.Import(ctx, admin, r.ID, strings.NewReader(csv), MenuImportRequest{ConflictMode: ConflictSkip})

		require.NoError(t, err)
		assert.Equal(t, 1, resp.Created)
		assert.Equal(t, 1, resp.Skipped)
		assert.Equal(t, "15", existing.Price.String())
		f.menuItems.AssertExpectations(t)
	})

	t.Run("update", func(t *testing.T) {
		f, r, existing := setup(t)
		f.menuItems.On("Save", ctx, mock.Anything).Return(nil).Twice()

		resp, err := f.svc.Import(ctx, admin, r.ID, strings.NewReader(csv), MenuImportRequest{ConflictMode: ConflictUpdate})

		require.NoError(t, err)
		assert.True(t, resp.Applied)
		assert.Equal(t, 1, resp.Created)
		assert.Equal(t, 1, resp.Updated)
		assert.Equal(t, "17", existing.Price.String())
		assert.False(t, existing.IsAvailable)
		assert.Equal(t, "Butter Chicken", existing.Name)
		f.menuItems.AssertExpectations(t)
	})

	t.Run("fail", func(t *testing.T) {
		f, r, _ := setup(t)

		resp, err := f.svc.Import(ctx, admin, r.ID, strings.NewReader(csv), MenuImportRequest{ConflictMode: ConflictFail})

		require.NoError(t, err)
		assert.False(t, resp.Applied)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, csvimport.ErrCodeDuplicateInDB, resp.Errors[0].Code)
		assert.Equal(t, 2, resp.Errors[0].Row)
		f.menuItems.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestMenuImportService_InvalidFiles(t *testing.T) {
	ctx := context.Background()
	admin := principal(access.RoleAdmin, access.CountryAmerica)

	tests := []struct {
		name    string
		csv     string
		wantMsg string
	}{
		{"empty", "", "empty"},
		{"missing columns", "name,description\nNaan,Bread\n", "missing required columns: price, category"},
		{"header only", "name,price,category\n", "no data rows"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newImportFixture()
			r := newRestaurant(t, "Taj Kitchen", access.CountryIndia)
			f.restaurants.On("FindByID", ctx, r.ID).Return(r, nil)

			_, err := f.svc.Import(ctx, admin, r.ID, strings.NewReader(tt.csv), MenuImportRequest{})

			require.Error(t, err)
			assert.Equal(t, "INVALID_CSV", shared.ErrorCode(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
			f.menuItems.AssertNotCalled(t, "FindByRestaurant", mock.Anything, mock.Anything)
		})
	}
}
