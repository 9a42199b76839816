package shared

import (
	"time"

	"github.com/google/uuid"
)

// Aggregate is embedded by aggregate roots. It carries identity,
// timestamps, the optimistic lock version and the events recorded since
// the aggregate was created or loaded.
type Aggregate struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int

	events []DomainEvent
}

// NewAggregate starts a fresh aggregate at version 1
func NewAggregate() Aggregate {
	now := time.Now()
	return Aggregate{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
}

// RestoreAggregate rebuilds the state of a persisted aggregate. Restored
// aggregates have no pending events.
func RestoreAggregate(id uuid.UUID, createdAt, updatedAt time.Time, version int) Aggregate {
	return Aggregate{ID: id, CreatedAt: createdAt, UpdatedAt: updatedAt, Version: version}
}

// GetID returns the aggregate ID
func (a *Aggregate) GetID() uuid.UUID {
	return a.ID
}

// MarkModified stamps UpdatedAt and moves to the next version
func (a *Aggregate) MarkModified() {
	a.UpdatedAt = time.Now()
	a.Version++
}

// AddDomainEvent records event for publishing after save
func (a *Aggregate) AddDomainEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// GetDomainEvents returns the recorded events without draining them
func (a *Aggregate) GetDomainEvents() []DomainEvent {
	return a.events
}

// ClearDomainEvents drops the recorded events
func (a *Aggregate) ClearDomainEvents() {
	a.events = nil
}

// PullDomainEvents returns the recorded events and forgets them
func (a *Aggregate) PullDomainEvents() []DomainEvent {
	events := a.events
	a.events = nil
	return events
}

// EventSource is an aggregate whose recorded events can be drained
type EventSource interface {
	GetID() uuid.UUID
	PullDomainEvents() []DomainEvent
}
