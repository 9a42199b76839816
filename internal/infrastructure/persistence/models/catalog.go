package models

import (
	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RestaurantModel is the persistence model for the Restaurant aggregate.
type RestaurantModel struct {
	AggregateModel
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Country     access.Country  `gorm:"type:varchar(20);not null;index"`
	ImageURL    string          `gorm:"type:varchar(500)"`
	MenuItems   []MenuItemModel `gorm:"foreignKey:RestaurantID;references:ID"`
}

// TableName returns the table name for GORM
func (RestaurantModel) TableName() string {
	return "restaurants"
}

// ToDomain converts the persistence model to a domain Restaurant, including
// whichever menu items were preloaded.
func (m *RestaurantModel) ToDomain() *catalog.Restaurant {
	r := &catalog.Restaurant{
		Aggregate:   m.aggregate(),
		Name:        m.Name,
		Description: m.Description,
		Country:     m.Country,
		ImageURL:    m.ImageURL,
		MenuItems:   make([]catalog.MenuItem, 0, len(m.MenuItems)),
	}
	for i := range m.MenuItems {
		r.MenuItems = append(r.MenuItems, *m.MenuItems[i].ToDomain())
	}
	return r
}

// FromDomain populates the persistence model from a domain Restaurant.
// Menu items are persisted through their own repository.
func (m *RestaurantModel) FromDomain(r *catalog.Restaurant) {
	m.setAggregate(r.Aggregate)
	m.Name = r.Name
	m.Description = r.Description
	m.Country = r.Country
	m.ImageURL = r.ImageURL
}

// RestaurantModelFromDomain creates a new persistence model from a domain Restaurant.
func RestaurantModelFromDomain(r *catalog.Restaurant) *RestaurantModel {
	m := &RestaurantModel{}
	m.FromDomain(r)
	return m
}

// MenuItemModel is the persistence model for the MenuItem aggregate.
type MenuItemModel struct {
	AggregateModel
	RestaurantID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Description  string          `gorm:"type:text"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Category     string          `gorm:"type:varchar(100);not null"`
	ImageURL     string          `gorm:"type:varchar(500)"`
	// No gorm default: GORM omits zero fields that have one, so false
	// would be stored as the column default.
	IsAvailable  bool            `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (MenuItemModel) TableName() string {
	return "menu_items"
}

// ToDomain converts the persistence model to a domain MenuItem.
func (m *MenuItemModel) ToDomain() *catalog.MenuItem {
	return &catalog.MenuItem{
		Aggregate:    m.aggregate(),
		RestaurantID: m.RestaurantID,
		Name:         m.Name,
		Description:  m.Description,
		Price:        m.Price,
		Category:     m.Category,
		ImageURL:     m.ImageURL,
		IsAvailable:  m.IsAvailable,
	}
}

// FromDomain populates the persistence model from a domain MenuItem.
func (m *MenuItemModel) FromDomain(item *catalog.MenuItem) {
	m.setAggregate(item.Aggregate)
	m.RestaurantID = item.RestaurantID
	m.Name = item.Name
	m.Description = item.Description
	m.Price = item.Price
	m.Category = item.Category
	m.ImageURL = item.ImageURL
	m.IsAvailable = item.IsAvailable
}

// MenuItemModelFromDomain creates a new persistence model from a domain MenuItem.
func MenuItemModelFromDomain(item *catalog.MenuItem) *MenuItemModel {
	m := &MenuItemModel{}
	m.FromDomain(item)
	return m
}
