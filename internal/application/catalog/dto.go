package catalog

import (
	"time"

	"github.com/foodorder/backend/internal/domain/catalog"
	"github.com/foodorder/backend/internal/infrastructure/csvimport"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateRestaurantRequest represents a request to create a restaurant
type CreateRestaurantRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
	Country     string `json:"country" binding:"required,country" enums:"INDIA,AMERICA"`
	ImageURL    string `json:"imageUrl" binding:"omitempty,max=500"`
}

// UpdateRestaurantRequest represents a partial restaurant update
type UpdateRestaurantRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Country     *string `json:"country" binding:"omitempty,country" enums:"INDIA,AMERICA"`
	ImageURL    *string `json:"imageUrl" binding:"omitempty,max=500"`
}

// CreateMenuItemRequest represents a request to create a menu item
type CreateMenuItemRequest struct {
	RestaurantID uuid.UUID        `json:"restaurantId" binding:"required"`
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	Description  string           `json:"description" binding:"max=2000"`
	Price        *decimal.Decimal `json:"price" binding:"required"`
	Category     string           `json:"category" binding:"required,min=1,max=100"`
	ImageURL     string           `json:"imageUrl" binding:"omitempty,max=500"`
	IsAvailable  *bool            `json:"isAvailable"`
}

// UpdateMenuItemRequest represents a partial menu item update
type UpdateMenuItemRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category" binding:"omitempty,min=1,max=100"`
	ImageURL    *string          `json:"imageUrl" binding:"omitempty,max=500"`
	IsAvailable *bool            `json:"isAvailable"`
}

// RestaurantSummary is the short restaurant form embedded in other responses
type RestaurantSummary struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Country string    `json:"country"`
}

// MenuItemResponse represents a menu item in API responses
type MenuItemResponse struct {
	ID           uuid.UUID          `json:"id"`
	RestaurantID uuid.UUID          `json:"restaurantId"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Price        decimal.Decimal    `json:"price"`
	Category     string             `json:"category"`
	ImageURL     string             `json:"imageUrl"`
	IsAvailable  bool               `json:"isAvailable"`
	Restaurant   *RestaurantSummary `json:"restaurant,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// RestaurantResponse represents a restaurant with its available menu
type RestaurantResponse struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Country     string             `json:"country"`
	ImageURL    string             `json:"imageUrl"`
	MenuItems   []MenuItemResponse `json:"menuItems"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// ToRestaurantSummary converts a domain restaurant to its short form
func ToRestaurantSummary(r *catalog.Restaurant) *RestaurantSummary {
	return &RestaurantSummary{
		ID:      r.ID,
		Name:    r.Name,
		Country: string(r.Country),
	}
}

// ToRestaurantResponse converts a domain restaurant
func ToRestaurantResponse(r *catalog.Restaurant) RestaurantResponse {
	items := make([]MenuItemResponse, len(r.MenuItems))
	for i := range r.MenuItems {
		items[i] = ToMenuItemResponse(&r.MenuItems[i], nil)
	}
	return RestaurantResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Country:     string(r.Country),
		ImageURL:    r.ImageURL,
		MenuItems:   items,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ToMenuItemResponse converts a domain menu item, embedding restaurant when given
func ToMenuItemResponse(m *catalog.MenuItem, restaurant *catalog.Restaurant) MenuItemResponse {
	resp := MenuItemResponse{
		ID:           m.ID,
		RestaurantID: m.RestaurantID,
		Name:         m.Name,
		Description:  m.Description,
		Price:        m.Price,
		Category:     m.Category,
		ImageURL:     m.ImageURL,
		IsAvailable:  m.IsAvailable,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if restaurant != nil {
		resp.Restaurant = ToRestaurantSummary(restaurant)
	}
	return resp
}

// ImageUploadRequest asks for a presigned image upload URL
type ImageUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required,min=1"`
}

// ImageConfirmRequest attaches an uploaded image
type ImageConfirmRequest struct {
	StorageKey string `json:"storageKey" binding:"required,max=300"`
}

// ImageUploadResponse carries the presigned upload target. The client PUTs
// the file to UploadURL with the same Content-Type, then confirms StorageKey.
type ImageUploadResponse struct {
	StorageKey  string    `json:"storageKey"`
	UploadURL   string    `json:"uploadUrl"`
	Method      string    `json:"method"`
	ContentType string    `json:"contentType"`
	ExpiresAt   time.Time `json:"expiresAt"`
	ImageURL    string    `json:"imageUrl"`
}

// MenuImportRequest holds the query options of a menu CSV import
type MenuImportRequest struct {
	ConflictMode ConflictMode `form:"conflictMode" binding:"omitempty,oneof=skip update fail"`
	DryRun       bool         `form:"dryRun"`
}

// MenuImportResponse summarizes a menu CSV import. Created and Updated
// count what was written, or would have been when Applied is false.
type MenuImportResponse struct {
	RestaurantID uuid.UUID            `json:"restaurantId"`
	DryRun       bool                 `json:"dryRun"`
	Applied      bool                 `json:"applied"`
	TotalRows    int                  `json:"totalRows"`
	Created      int                  `json:"created"`
	Updated      int                  `json:"updated"`
	Skipped      int                  `json:"skipped"`
	ErrorRows    int                  `json:"errorRows"`
	TotalErrors  int                  `json:"totalErrors"`
	Truncated    bool                 `json:"truncated"`
	Errors       []csvimport.RowError `json:"errors"`
}
