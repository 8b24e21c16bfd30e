package eventbus

import (
	"log"
	"runtime/debug"
	"sync"

	"scrollkit/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus.
// Delivery is synchronous and in subscription order, so a gesture's events reach
// every handler in the order the engine emitted them.
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Once(eventType EventType, handler EventHandler) func()
	HasSubscribers(eventType EventType) bool
	Clear()
}

type subscription struct {
	id      uint64
	handler EventHandler
	once    bool
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]subscription
	nextID   uint64
}

// New creates a new event bus
func New() EventBus {
	return &bus{
		handlers: make(map[EventType][]subscription),
	}
}

// Publish delivers an event to all current subscribers before returning.
// Handlers may publish, subscribe or unsubscribe re-entrantly.
func (b *bus) Publish(event DomainEvent) {
	b.mu.Lock()
	subs := b.handlers[event.Type()]
	// Make a copy to avoid holding lock during handler execution
	subsCopy := make([]subscription, len(subs))
	copy(subsCopy, subs)
	// Once-handlers are removed before they run so a nested publish cannot fire them twice
	kept := subs[:0:0]
	for _, s := range subs {
		if !s.once {
			kept = append(kept, s)
		}
	}
	b.handlers[event.Type()] = kept
	b.mu.Unlock()

	for _, s := range subsCopy {
		if !s.once && !b.subscribed(event.Type(), s.id) {
			// unsubscribed by an earlier handler of this same publish
			continue
		}
		b.call(s.handler, event)
	}
}

func (b *bus) call(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Event handler panic for %s: %v\nStack: %s", event.Type(), r, debug.Stack())
		}
	}()
	h(event)
}

func (b *bus) subscribed(eventType EventType, id uint64) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.handlers[eventType] {
		if s.id == id {
			return true
		}
	}
	return false
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	return b.add(eventType, handler, false)
}

// Once subscribes a handler that is removed after its first delivery
func (b *bus) Once(eventType EventType, handler EventHandler) func() {
	return b.add(eventType, handler, true)
}

func (b *bus) add(eventType EventType, handler EventHandler, once bool) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler, once: once})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		handlers := b.handlers[eventType]
		for i, s := range handlers {
			if s.id == id {
				b.handlers[eventType] = append(handlers[:i:i], handlers[i+1:]...)
				break
			}
		}
	}
}

// HasSubscribers reports whether anything listens for eventType
func (b *bus) HasSubscribers(eventType EventType) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType]) > 0
}

// Clear drops every subscription
func (b *bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[EventType][]subscription)
}
