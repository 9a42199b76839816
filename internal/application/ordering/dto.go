package ordering

import (
	"time"

	appcatalog "github.com/foodorder/backend/internal/application/catalog"
	"github.com/foodorder/backend/internal/domain/catalog"
	"github.com/foodorder/backend/internal/domain/ordering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest opens a cart at a restaurant
type CreateOrderRequest struct {
	RestaurantID uuid.UUID `json:"restaurantId" binding:"required"`
}

// AddItemRequest adds quantity of a menu item to a cart
type AddItemRequest struct {
	MenuItemID uuid.UUID `json:"menuItemId" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest replaces the quantity of a cart line
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// UpdateStatusRequest moves a placed order to a new status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=CONFIRMED PREPARING DELIVERED"`
}

// OrderListFilter narrows the operator order listing
type OrderListFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=CART PLACED CONFIRMED PREPARING DELIVERED CANCELLED"`
}

// OrderItemResponse represents an order line
type OrderItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	MenuItemID   uuid.UUID       `json:"menuItemId"`
	MenuItemName string          `json:"menuItemName"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	Amount       decimal.Decimal `json:"amount"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID           uuid.UUID                     `json:"id"`
	UserID       uuid.UUID                     `json:"userId"`
	RestaurantID uuid.UUID                     `json:"restaurantId"`
	Restaurant   *appcatalog.RestaurantSummary `json:"restaurant,omitempty"`
	Country      string                        `json:"country"`
	Status       string                        `json:"status"`
	TotalAmount  decimal.Decimal               `json:"totalAmount"`
	Items        []OrderItemResponse           `json:"items"`
	Version      int                           `json:"version"`
	CreatedAt    time.Time                     `json:"createdAt"`
	UpdatedAt    time.Time                     `json:"updatedAt"`
}

// ToOrderResponse converts a domain order, embedding restaurant when given
func ToOrderResponse(o *ordering.Order, restaurant *catalog.Restaurant) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items[i] = OrderItemResponse{
			ID:           item.ID,
			MenuItemID:   item.MenuItemID,
			MenuItemName: item.MenuItemName,
			Quantity:     item.Quantity,
			Price:        item.Price,
			Amount:       item.Amount(),
		}
	}

	resp := OrderResponse{
		ID:           o.ID,
		UserID:       o.UserID,
		RestaurantID: o.RestaurantID,
		Country:      string(o.Country),
		Status:       string(o.Status),
		TotalAmount:  o.TotalAmount,
		Items:        items,
		Version:      o.Version,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
	if restaurant != nil {
		resp.Restaurant = appcatalog.ToRestaurantSummary(restaurant)
	}
	return resp
}
