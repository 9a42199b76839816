package event

import (
	"sync"

	"github.com/foodorder/backend/internal/domain/shared"
)

type subscription struct {
	id      uint64
	handler shared.EventHandler
	types   map[string]struct{} // empty means every event
}

func (s subscription) wants(eventType string) bool {
	if len(s.types) == 0 {
		return true
	}
	_, ok := s.types[eventType]
	return ok
}

// subscriptionTable keeps subscriptions in registration order, which is
// also the delivery order.
type subscriptionTable struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

func (t *subscriptionTable) add(handler shared.EventHandler, eventTypes []string) uint64 {
	types := make(map[string]struct{}, len(eventTypes))
	for _, et := range eventTypes {
		types[et] = struct{}{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	t.subs = append(t.subs, subscription{id: t.nextID, handler: handler, types: types})
	return t.nextID
}

func (t *subscriptionTable) remove(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, s := range t.subs {
		if s.id == id {
			t.subs = append(t.subs[:i:i], t.subs[i+1:]...)
			return
		}
	}
}

func (t *subscriptionTable) handlersFor(eventType string) []shared.EventHandler {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []shared.EventHandler
	for _, s := range t.subs {
		if s.wants(eventType) {
			out = append(out, s.handler)
		}
	}
	return out
}

func (t *subscriptionTable) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.subs)
}
