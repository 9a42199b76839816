package catalog

import (
	"strings"

	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	maxMenuItemNameLength = 200
	maxCategoryLength     = 100
)

var categoryCaser = cases.Title(language.English)

// MenuItem is a dish offered by a restaurant. Availability only gates new
// cart additions; order lines already captured are never rewritten.
type MenuItem struct {
	shared.Aggregate
	RestaurantID uuid.UUID
	Name         string
	Description  string
	Price        decimal.Decimal
	Category     string
	ImageURL     string
	IsAvailable  bool
}

// NewMenuItem creates a new menu item for a restaurant
func NewMenuItem(restaurantID uuid.UUID, name, description string, price decimal.Decimal, category, imageURL string, available bool) (*MenuItem, error) {
	if restaurantID == uuid.Nil {
		return nil, shared.NewValidationError("Restaurant ID cannot be empty")
	}
	m := &MenuItem{
		Aggregate:    shared.NewAggregate(),
		RestaurantID: restaurantID,
		IsAvailable:  available,
	}
	if err := m.setName(name); err != nil {
		return nil, err
	}
	if err := m.setPrice(price); err != nil {
		return nil, err
	}
	if err := m.setCategory(category); err != nil {
		return nil, err
	}
	if len(description) > maxDescriptionLength {
		return nil, shared.NewValidationError("Description cannot exceed 2000 characters")
	}
	if len(imageURL) > maxImageURLLength {
		return nil, shared.NewValidationError("Image URL cannot exceed 500 characters")
	}
	m.Description = strings.TrimSpace(description)
	m.ImageURL = strings.TrimSpace(imageURL)
	return m, nil
}

// MenuItemUpdate carries the optional fields of a menu item update
type MenuItemUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	ImageURL    *string
	IsAvailable *bool
}

// Update applies a partial update
func (m *MenuItem) Update(u MenuItemUpdate) error {
	if u.Name != nil {
		if err := m.setName(*u.Name); err != nil {
			return err
		}
	}
	if u.Price != nil {
		if err := m.setPrice(*u.Price); err != nil {
			return err
		}
	}
	if u.Category != nil {
		if err := m.setCategory(*u.Category); err != nil {
			return err
		}
	}
	if u.Description != nil {
		if len(*u.Description) > maxDescriptionLength {
			return shared.NewValidationError("Description cannot exceed 2000 characters")
		}
		m.Description = strings.TrimSpace(*u.Description)
	}
	if u.ImageURL != nil {
		if len(*u.ImageURL) > maxImageURLLength {
			return shared.NewValidationError("Image URL cannot exceed 500 characters")
		}
		m.ImageURL = strings.TrimSpace(*u.ImageURL)
	}
	if u.IsAvailable != nil {
		m.IsAvailable = *u.IsAvailable
	}
	m.MarkModified()
	return nil
}

func (m *MenuItem) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Menu item name cannot be empty")
	}
	if len(name) > maxMenuItemNameLength {
		return shared.NewValidationError("Menu item name cannot exceed 200 characters")
	}
	m.Name = name
	return nil
}

func (m *MenuItem) setPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewValidationError("Price cannot be negative")
	}
	m.Price = price.Round(2)
	return nil
}

func (m *MenuItem) setCategory(category string) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return shared.NewValidationError("Category cannot be empty")
	}
	if len(category) > maxCategoryLength {
		return shared.NewValidationError("Category cannot exceed 100 characters")
	}
	m.Category = categoryCaser.String(category)
	return nil
}
