package ordering

import (
	"time"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeOrder is the aggregate type for orders
const AggregateTypeOrder = "Order"

// MsgNotModifiable is returned for item mutations outside CART
const MsgNotModifiable = "cannot modify a placed order"

// OrderItem is a line of an order. Price is captured from the menu item
// when the line is first added and never re-read afterwards.
type OrderItem struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	MenuItemID   uuid.UUID
	MenuItemName string
	Quantity     int
	Price        decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Amount returns price × quantity
func (i *OrderItem) Amount() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is the aggregate root for a customer's order. Items are mutable
// only while the order is a CART; the total always equals the sum of item
// amounts.
type Order struct {
	shared.Aggregate
	UserID       uuid.UUID
	RestaurantID uuid.UUID
	Country      access.Country
	Status       OrderStatus
	TotalAmount  decimal.Decimal
	Items        []OrderItem
}

// NewOrder creates an empty cart for userID at restaurantID. The country
// must be the restaurant's country at creation time.
func NewOrder(userID, restaurantID uuid.UUID, country access.Country) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewValidationError("User ID cannot be empty")
	}
	if restaurantID == uuid.Nil {
		return nil, shared.NewValidationError("Restaurant ID cannot be empty")
	}
	if !country.IsValid() {
		return nil, shared.NewValidationError("Country must be one of INDIA, AMERICA")
	}

	order := &Order{
		Aggregate:    shared.NewAggregate(),
		UserID:       userID,
		RestaurantID: restaurantID,
		Country:      country,
		Status:       OrderStatusCart,
		TotalAmount:  decimal.Zero,
		Items:        make([]OrderItem, 0),
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// AuthorizeOwner denies principals other than the order owner
func (o *Order) AuthorizeOwner(p access.Principal) error {
	return access.OwnerCheck(p, o.UserID).Err()
}

// AuthorizeCountry applies country isolation to the order's snapshot country
func (o *Order) AuthorizeCountry(p access.Principal) error {
	return access.Evaluate(p, o.Country).Err()
}

// AddItem adds quantity of a menu item. An existing line for the same menu
// item has its quantity increased and keeps its original price.
func (o *Order) AddItem(menuItemID uuid.UUID, menuItemName string, price decimal.Decimal, quantity int) (*OrderItem, error) {
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	if menuItemID == uuid.Nil {
		return nil, shared.NewValidationError("Menu item ID cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("Price cannot be negative")
	}
	if err := o.ensureCart(); err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range o.Items {
		if o.Items[i].MenuItemID == menuItemID {
			o.Items[i].Quantity += quantity
			o.Items[i].UpdatedAt = now
			o.RecalculateTotal()
			o.touch()
			o.AddDomainEvent(NewOrderItemAddedEvent(o, &o.Items[i], quantity))
			return &o.Items[i], nil
		}
	}

	o.Items = append(o.Items, OrderItem{
		ID:           uuid.New(),
		OrderID:      o.ID,
		MenuItemID:   menuItemID,
		MenuItemName: menuItemName,
		Quantity:     quantity,
		Price:        price,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	item := &o.Items[len(o.Items)-1]

	o.RecalculateTotal()
	o.touch()
	o.AddDomainEvent(NewOrderItemAddedEvent(o, item, quantity))

	return item, nil
}

// UpdateItemQuantity replaces the quantity of a line belonging to this order
func (o *Order) UpdateItemQuantity(itemID uuid.UUID, quantity int) (*OrderItem, error) {
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	if err := o.ensureCart(); err != nil {
		return nil, err
	}

	item := o.GetItem(itemID)
	if item == nil {
		return nil, shared.NewNotFoundError("Order item")
	}

	old := item.Quantity
	item.Quantity = quantity
	item.UpdatedAt = time.Now()

	o.RecalculateTotal()
	o.touch()
	o.AddDomainEvent(NewOrderItemUpdatedEvent(o, item, old))

	return item, nil
}

// RemoveItem deletes a line belonging to this order
func (o *Order) RemoveItem(itemID uuid.UUID) error {
	if err := o.ensureCart(); err != nil {
		return err
	}

	for i := range o.Items {
		if o.Items[i].ID == itemID {
			removed := o.Items[i]
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.RecalculateTotal()
			o.touch()
			o.AddDomainEvent(NewOrderItemRemovedEvent(o, &removed))
			return nil
		}
	}

	return shared.NewNotFoundError("Order item")
}

// Checkout places the cart. The caller supplies whether the owner has a
// payment method on file; settlement itself is not performed.
func (o *Order) Checkout(hasPaymentMethod bool) error {
	next, err := NextStatus(o.Status, EventCheckout, "")
	if err != nil {
		return err
	}
	if len(o.Items) == 0 {
		return shared.NewInvalidStateError("cart is empty")
	}
	if !hasPaymentMethod {
		return shared.NewInvalidStateError("no payment method found, add a payment method first")
	}

	o.transition(next)
	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return nil
}

// SetStatus moves a placed order to an operator-chosen status
func (o *Order) SetStatus(status OrderStatus) error {
	next, err := NextStatus(o.Status, EventSetStatus, status)
	if err != nil {
		return err
	}

	old := o.Status
	o.transition(next)
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, old))
	return nil
}

// Cancel moves the order to CANCELLED
func (o *Order) Cancel() error {
	next, err := NextStatus(o.Status, EventCancel, "")
	if err != nil {
		return err
	}

	old := o.Status
	o.transition(next)
	o.AddDomainEvent(NewOrderCancelledEvent(o, old))
	return nil
}

// RecalculateTotal sets TotalAmount to the sum of item amounts
func (o *Order) RecalculateTotal() {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Amount())
	}
	o.TotalAmount = total.Round(2)
}

// GetItem returns the line with itemID, or nil
func (o *Order) GetItem(itemID uuid.UUID) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// FindItemByMenuItem returns the line for menuItemID, or nil
func (o *Order) FindItemByMenuItem(menuItemID uuid.UUID) *OrderItem {
	for i := range o.Items {
		if o.Items[i].MenuItemID == menuItemID {
			return &o.Items[i]
		}
	}
	return nil
}

// ItemCount returns the number of lines
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// IsCart reports whether the order is still a cart
func (o *Order) IsCart() bool {
	return o.Status == OrderStatusCart
}

func (o *Order) ensureCart() error {
	if o.Status != OrderStatusCart {
		return shared.NewInvalidStateError(MsgNotModifiable)
	}
	return nil
}

func (o *Order) transition(next OrderStatus) {
	o.Status = next
	o.touch()
}

// touch leaves Version alone: it holds the loaded version until the
// repository's SaveWithLock compares and bumps it.
func (o *Order) touch() {
	o.UpdatedAt = time.Now()
}

func validateQuantity(quantity int) error {
	if quantity < 1 {
		return shared.NewValidationError("Quantity must be at least 1")
	}
	return nil
}
