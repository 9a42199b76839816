// Package ordering implements the order use cases: cart editing, checkout,
// cancellation, status updates and the country-scoped order reads.
package ordering

import (
	"context"

	appevent "github.com/foodorder/backend/internal/application/event"
	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/domain/catalog"
	"github.com/foodorder/backend/internal/domain/ordering"
	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/foodorder/backend/internal/infrastructure/logger"
	"github.com/foodorder/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// PaymentMethodChecker reports whether a user has a payment method on file
type PaymentMethodChecker interface {
	ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error)
}

// OrderService handles order use cases. Every mutation loads the aggregate,
// applies the change in memory and persists header and items with
// SaveWithLock, so the total and the item rows commit together and a
// concurrent writer fails with CONCURRENCY_CONFLICT.
type OrderService struct {
	orderRepo      ordering.OrderRepository
	restaurantRepo catalog.RestaurantRepository
	menuItemRepo   catalog.MenuItemRepository
	payments       PaymentMethodChecker
	events         shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo ordering.OrderRepository,
	restaurantRepo catalog.RestaurantRepository,
	menuItemRepo catalog.MenuItemRepository,
	payments PaymentMethodChecker,
	events shared.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		restaurantRepo: restaurantRepo,
		menuItemRepo:   menuItemRepo,
		payments:       payments,
		events:         events,
		logger:         logger,
	}
}

// CreateOrder opens an empty cart at a restaurant. The order copies the
// restaurant's country and keeps it for its whole life.
func (s *OrderService) CreateOrder(ctx context.Context, p access.Principal, req CreateOrderRequest) (_ *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "create",
		attribute.String("restaurant.id", req.RestaurantID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := access.Authorize(p, access.OpOrderCreate); err != nil {
		return nil, err
	}

	restaurant, err := s.restaurantRepo.FindByID(ctx, req.RestaurantID)
	if err != nil {
		return nil, err
	}

	order, err := ordering.NewOrder(p.ID, restaurant.ID, restaurant.Country)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	appevent.PublishPending(ctx, s.events, s.logger, order)

	logger.L(ctx).Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", p.ID.String()),
		zap.String("country", string(order.Country)))

	resp := ToOrderResponse(order, restaurant)
	return &resp, nil
}

// AddItem adds quantity of an available menu item to the caller's cart. A
// line for the same menu item has its quantity increased.
func (s *OrderService) AddItem(ctx context.Context, p access.Principal, orderID uuid.UUID, req AddItemRequest) (_ *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "add_item",
		attribute.String("order.id", orderID.String()),
		attribute.String("menu_item.id", req.MenuItemID.String()),
		attribute.Int("quantity", req.Quantity))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := access.Authorize(p, access.OpOrderAddItem); err != nil {
		return nil, err
	}
	if req.Quantity < 1 {
		return nil, shared.NewValidationError("Quantity must be at least 1")
	}

	order, err := s.loadOwnedCart(ctx, p, orderID)
	if err != nil {
		return nil, err
	}

	menuItem, err := s.menuItemRepo.FindByID(ctx, req.MenuItemID)
	if err != nil {
		return nil, err
	}
	if menuItem.RestaurantID != order.RestaurantID {
		return nil, shared.NewValidationError("menu item does not belong to this order's restaurant")
	}
	if !menuItem.IsAvailable {
		return nil, shared.NewInvalidStateError("menu item is not available")
	}

	if _, err := order.AddItem(menuItem.ID, menuItem.Name, menuItem.Price, req.Quantity); err != nil {
		return nil, err
	}
	return s.save(ctx, order)
}

// UpdateItem replaces the quantity of a line in the caller's cart
func (s *OrderService) UpdateItem(ctx context.Context, p access.Principal, orderID, itemID uuid.UUID, req UpdateItemRequest) (_ *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "update_item",
		attribute.String("order.id", orderID.String()),
		attribute.String("item.id", itemID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := access.Authorize(p, access.OpOrderUpdateItem); err != nil {
		return nil, err
	}
	if req.Quantity < 1 {
		return nil, shared.NewValidationError("Quantity must be at least 1")
	}

	order, err := s.loadOwnedCart(ctx, p, orderID)
	if err != nil {
		return nil, err
	}
	if _, err := order.UpdateItemQuantity(itemID, req.Quantity); err != nil {
		return nil, err
	}
	return s.save(ctx, order)
}

// RemoveItem deletes a line from the caller's cart
func (s *OrderService) RemoveItem(ctx context.Context, p access.Principal, orderID, itemID uuid.UUID) (_ *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "remove_item",
		attribute.String("order.id", orderID.String()),
		attribute.String("item.id", itemID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := access.Authorize(p, access.OpOrderRemoveItem); err != nil {
		return nil, err
	}

	order, err := s.loadOwnedCart(ctx, p, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.RemoveItem(itemID); err != nil {
		return nil, err
	}
	return s.save(ctx, order)
}

// Checkout places the caller's cart. The owner must have a payment method
// on file; no payment is captured.
func (s *OrderService) Checkout(ctx context.Context, p access.Principal, orderID uuid.UUID) (_ *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "checkout",
		attribute.String("order.id", orderID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := access.Authorize(p, access.OpOrderCheckout); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.AuthorizeOwner(p); err != nil {
		return nil, err
	}

	hasPayment, err := s.payments.ExistsByUserID(ctx, order.UserID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if err := order.Checkout(hasPayment); err != nil {
		return nil, err
	}

	resp, err := s.save(ctx, order)
	if err != nil {
		return nil, err
	}
	s.logTransition(ctx, p, order, from)
	return resp, nil
}

// Cancel cancels a placed or confirmed order in the caller's country
func (s *OrderService) Cancel(ctx context.Context, p access.Principal, orderID uuid.UUID) (_ *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "cancel",
		attribute.String("order.id", orderID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := access.Authorize(p, access.OpOrderCancel); err != nil {
		return nil, err
	}

	order, err := s.loadInCountry(ctx, p, orderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if err := order.Cancel(); err != nil {
		return nil, err
	}

	resp, err := s.save(ctx, order)
	if err != nil {
		return nil, err
	}
	s.logTransition(ctx, p, order, from)
	return resp, nil
}

// UpdateStatus moves an order in the caller's country to CONFIRMED,
// PREPARING or DELIVERED
func (s *OrderService) UpdateStatus(ctx context.Context, p access.Principal, orderID uuid.UUID, req UpdateStatusRequest) (_ *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "update_status",
		attribute.String("order.id", orderID.String()),
		attribute.String("order.requested_status", req.Status))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := access.Authorize(p, access.OpOrderUpdateStatus); err != nil {
		return nil, err
	}

	status, ok := ordering.ParseOrderStatus(req.Status)
	if !ok || !status.IsOperatorTarget() {
		return nil, shared.NewValidationError("status must be one of CONFIRMED, PREPARING, DELIVERED")
	}

	order, err := s.loadInCountry(ctx, p, orderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if err := order.SetStatus(status); err != nil {
		return nil, err
	}

	resp, err := s.save(ctx, order)
	if err != nil {
		return nil, err
	}
	s.logTransition(ctx, p, order, from)
	return resp, nil
}

// GetMyOrders returns the caller's orders, newest first
func (s *OrderService) GetMyOrders(ctx context.Context, p access.Principal) ([]OrderResponse, error) {
	if err := access.Authorize(p, access.OpOrderListMine); err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.FindByUser(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, orders), nil
}

// ListOrders returns every order for ADMIN and the caller's country for
// MANAGER. The country restriction is part of the query.
func (s *OrderService) ListOrders(ctx context.Context, p access.Principal, filter OrderListFilter) ([]OrderResponse, error) {
	if err := access.Authorize(p, access.OpOrderList); err != nil {
		return nil, err
	}

	f := ordering.OrderFilter{Country: access.CountryFilter(p)}
	if filter.Status != "" {
		status, ok := ordering.ParseOrderStatus(filter.Status)
		if !ok {
			return nil, shared.NewValidationError("unknown order status")
		}
		f.Status = &status
	}

	orders, err := s.orderRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, orders), nil
}

// GetOrder returns one order. Members may only read their own orders and
// managers only orders of their country.
func (s *OrderService) GetOrder(ctx context.Context, p access.Principal, orderID uuid.UUID) (*OrderResponse, error) {
	if err := access.Authorize(p, access.OpOrderRead); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch p.Role {
	case access.RoleMember:
		if err := order.AuthorizeOwner(p); err != nil {
			return nil, err
		}
	case access.RoleManager:
		if err := order.AuthorizeCountry(p); err != nil {
			return nil, err
		}
	}

	resp := ToOrderResponse(order, s.restaurant(ctx, nil, order.RestaurantID))
	return &resp, nil
}

// loadOwnedCart loads an order for item editing: the caller must own it and
// it must still be a cart.
func (s *OrderService) loadOwnedCart(ctx context.Context, p access.Principal, orderID uuid.UUID) (*ordering.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.AuthorizeOwner(p); err != nil {
		return nil, err
	}
	if !order.IsCart() {
		return nil, shared.NewInvalidStateError(ordering.MsgNotModifiable)
	}
	return order, nil
}

// loadInCountry loads an order for an operator action, applying country
// isolation unless the caller is ADMIN
func (s *OrderService) loadInCountry(ctx context.Context, p access.Principal, orderID uuid.UUID) (*ordering.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.AuthorizeCountry(p); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) save(ctx context.Context, order *ordering.Order) (*OrderResponse, error) {
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		if shared.ErrorCode(err) == shared.CodeConcurrencyConflict {
			logger.L(ctx).Warn("Order modified concurrently",
				zap.String("order_id", order.ID.String()),
				zap.Int("version", order.Version))
		}
		return nil, err
	}
	appevent.PublishPending(ctx, s.events, s.logger, order)

	resp := ToOrderResponse(order, s.restaurant(ctx, nil, order.RestaurantID))
	return &resp, nil
}

func (s *OrderService) logTransition(ctx context.Context, p access.Principal, order *ordering.Order, from ordering.OrderStatus) {
	logger.L(ctx).Info("Order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", p.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(order.Status)))
}

func (s *OrderService) toResponses(ctx context.Context, orders []*ordering.Order) []OrderResponse {
	cache := make(map[uuid.UUID]*catalog.Restaurant)
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = ToOrderResponse(o, s.restaurant(ctx, cache, o.RestaurantID))
	}
	return out
}

// restaurant resolves the restaurant embedded in order responses. A lookup
// failure only drops the embed.
func (s *OrderService) restaurant(ctx context.Context, cache map[uuid.UUID]*catalog.Restaurant, id uuid.UUID) *catalog.Restaurant {
	if r, ok := cache[id]; ok {
		return r
	}
	r, err := s.restaurantRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("Failed to load restaurant for order response",
			zap.String("restaurant_id", id.String()),
			zap.Error(err))
		r = nil
	}
	if cache != nil {
		cache[id] = r
	}
	return r
}
