package ordering

import (
	"fmt"
	"strings"

	"github.com/foodorder/backend/internal/domain/shared"
)

// OrderStatus is the lifecycle phase of an order
type OrderStatus string

// Order statuses
const (
	OrderStatusCart      OrderStatus = "CART"
	OrderStatusPlaced    OrderStatus = "PLACED"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// AllStatuses lists every status in lifecycle order
var AllStatuses = []OrderStatus{
	OrderStatusCart,
	OrderStatusPlaced,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// operatorTargets are the statuses an operator may set explicitly
var operatorTargets = []OrderStatus{
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusDelivered,
}

// IsValid reports whether s is a known status
func (s OrderStatus) IsValid() bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// String returns the string representation
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusDelivered
}

// IsOperatorTarget reports whether s can be requested through a status update
func (s OrderStatus) IsOperatorTarget() bool {
	for _, v := range operatorTargets {
		if v == s {
			return true
		}
	}
	return false
}

// ParseOrderStatus parses a status case-insensitively
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.IsValid()
}

// Event is a lifecycle trigger
type Event string

// Lifecycle events
const (
	EventCheckout  Event = "checkout"
	EventSetStatus Event = "set_status"
	EventCancel    Event = "cancel"
)

// Transition error messages
const (
	MsgCartNotUpdatable = "cannot update cart orders, checkout first"
	MsgAlreadyPlaced    = "order already placed"
)

// NextStatus computes the status reached from current by event. For
// EventSetStatus, requested is the status asked for; it is ignored for the
// other events. The function is role-agnostic: who may fire which event is
// decided by the access policy.
//
//	CART                          --checkout-->  PLACED
//	PLACED|CONFIRMED|PREPARING    --set(x)-->    x in {CONFIRMED, PREPARING, DELIVERED}
//	PLACED|CONFIRMED              --cancel-->    CANCELLED
func NextStatus(current OrderStatus, event Event, requested OrderStatus) (OrderStatus, error) {
	switch event {
	case EventCheckout:
		if current.IsTerminal() {
			return "", terminalError(current)
		}
		if current != OrderStatusCart {
			return "", shared.NewInvalidStateError(MsgAlreadyPlaced)
		}
		return OrderStatusPlaced, nil

	case EventSetStatus:
		if !requested.IsOperatorTarget() {
			return "", shared.NewValidationError("status must be one of CONFIRMED, PREPARING, DELIVERED")
		}
		if current.IsTerminal() {
			return "", terminalError(current)
		}
		if current == OrderStatusCart {
			return "", shared.NewInvalidStateError(MsgCartNotUpdatable)
		}
		return requested, nil

	case EventCancel:
		switch current {
		case OrderStatusPlaced, OrderStatusConfirmed:
			return OrderStatusCancelled, nil
		case OrderStatusCancelled:
			return "", shared.NewInvalidStateError("order already cancelled")
		case OrderStatusDelivered:
			return "", terminalError(current)
		case OrderStatusCart:
			return "", shared.NewInvalidStateError("cannot cancel cart orders, checkout first")
		default:
			return "", shared.NewInvalidStateError(fmt.Sprintf("cannot cancel order in %s status", current))
		}
	}

	return "", shared.NewValidationError(fmt.Sprintf("unknown order event %q", event))
}

func terminalError(s OrderStatus) error {
	return shared.NewInvalidStateError(fmt.Sprintf("order is %s: terminal state", s))
}
