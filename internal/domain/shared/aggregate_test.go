package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAggregate_Lifecycle(t *testing.T) {
	a := NewAggregate()
	assert.NotEqual(t, uuid.Nil, a.GetID())
	assert.Equal(t, 1, a.Version)
	assert.Equal(t, a.CreatedAt, a.UpdatedAt)

	before := a.UpdatedAt
	time.Sleep(time.Millisecond)
	a.MarkModified()
	assert.Equal(t, 2, a.Version)
	assert.True(t, a.UpdatedAt.After(before))
}

func TestAggregate_Events(t *testing.T) {
	a := NewAggregate()
	created := NewBaseDomainEvent("OrderCreated", "Order", a.ID)
	placed := NewBaseDomainEvent("OrderPlaced", "Order", a.ID)
	a.AddDomainEvent(&created)
	a.AddDomainEvent(&placed)

	assert.Len(t, a.GetDomainEvents(), 2)
	pulled := a.PullDomainEvents()
	assert.Equal(t, []DomainEvent{&created, &placed}, pulled)
	assert.Empty(t, a.PullDomainEvents())

	var src EventSource = &a
	assert.Equal(t, a.ID, src.GetID())
}

func TestRestoreAggregate(t *testing.T) {
	id := uuid.New()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a := RestoreAggregate(id, created, created.Add(time.Hour), 7)

	assert.Equal(t, id, a.ID)
	assert.Equal(t, 7, a.Version)
	assert.Empty(t, a.GetDomainEvents())
}

func TestBaseDomainEvent(t *testing.T) {
	orderID := uuid.New()
	e := NewBaseDomainEvent("OrderCancelled", "Order", orderID)

	assert.NotEqual(t, uuid.Nil, e.EventID())
	assert.Equal(t, "OrderCancelled", e.EventType())
	assert.Equal(t, orderID, e.AggregateID())
	assert.Equal(t, "Order", e.AggregateType())
	assert.Equal(t, time.UTC, e.OccurredAt().Location())
}
