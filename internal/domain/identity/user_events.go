package identity

import (
	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/domain/shared"
)

// AggregateTypeUser is the aggregate type for users
const AggregateTypeUser = "User"

// User domain event types
const (
	EventTypeUserCreated     = "UserCreated"
	EventTypeUserRoleChanged = "UserRoleChanged"
)

// UserCreatedEvent is published when a user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Email   string         `json:"email"`
	Role    access.Role    `json:"role"`
	Country access.Country `json:"country"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, user.ID),
		Email:           user.Email,
		Role:            user.Role,
		Country:         user.Country,
	}
}

// UserRoleChangedEvent is published when an administrator changes a user's role
type UserRoleChangedEvent struct {
	shared.BaseDomainEvent
	OldRole access.Role `json:"old_role"`
	NewRole access.Role `json:"new_role"`
}

// NewUserRoleChangedEvent creates a new UserRoleChangedEvent
func NewUserRoleChangedEvent(user *User, old access.Role) *UserRoleChangedEvent {
	return &UserRoleChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRoleChanged, AggregateTypeUser, user.ID),
		OldRole:         old,
		NewRole:         user.Role,
	}
}
