package event

import (
	"sync"

	"github.com/bethropolis/folio/internal/logger"
)

// Handler defines the function signature for event subscribers. Returning
// true consumes the event: later handlers of the same type are skipped.
type Handler func(e Event) bool

type subscription struct {
	id      int
	handler Handler
}

// Manager handles event subscriptions and dispatching.
type Manager struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[Type][]subscription
}

// NewManager creates a new event manager.
func NewManager() *Manager {
	return &Manager{handlers: make(map[Type][]subscription)}
}

// Subscribe adds a handler for an event type and returns a function that
// removes it again.
func (m *Manager) Subscribe(eventType Type, handler Handler) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.handlers[eventType] = append(m.handlers[eventType], subscription{id: id, handler: handler})
	logger.DebugTagf("event", "Event Manager: handler %d subscribed to %v", id, eventType)

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		subs := m.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				m.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Dispatch sends an event to the handlers of its type, in subscription
// order, on the calling goroutine.
func (m *Manager) Dispatch(eventType Type, data interface{}) {
	m.mu.RLock()
	subs := append([]subscription(nil), m.handlers[eventType]...)
	m.mu.RUnlock()

	if len(subs) == 0 {
		return
	}
	logger.DebugTagf("event", "Event Manager: dispatching %v to %d handler(s)", eventType, len(subs))

	e := Event{Type: eventType, Data: data}
	for _, s := range subs {
		if s.handler(e) {
			return
		}
	}
}
