package services

import (
	"log"
	"sync"
)

// SettingsHandler is a callback invoked when a settings topic fires
type SettingsHandler func(topic string, payload interface{})

// SettingsNotifier is the in-process publish/subscribe mechanism for
// cross-component settings propagation. Components agree only on the
// storage key schema and on the event's occurrence, never on shared
// mutable memory: subscribers re-read the store on receipt. Delivery is
// synchronous and best-effort — missed events are not replayed, a
// component that subscribes later picks up the latest value on its own
// next read.
type SettingsNotifier struct {
	mu       sync.RWMutex
	handlers map[string]map[int]SettingsHandler
	nextID   int
}

// NewSettingsNotifier creates a new notifier
func NewSettingsNotifier() *SettingsNotifier {
	return &SettingsNotifier{
		handlers: make(map[string]map[int]SettingsHandler),
	}
}

// Subscribe registers a handler for a topic and returns an unsubscribe
// function, enabling deterministic teardown
func (n *SettingsNotifier) Subscribe(topic string, handler SettingsHandler) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.handlers[topic] == nil {
		n.handlers[topic] = make(map[int]SettingsHandler)
	}
	id := n.nextID
	n.nextID++
	n.handlers[topic][id] = handler

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.handlers[topic], id)
	}
}

// Publish delivers the payload to every subscriber of the topic,
// synchronously and in-process. A panicking handler is isolated so one bad
// subscriber cannot take down the publisher.
func (n *SettingsNotifier) Publish(topic string, payload interface{}) {
	n.mu.RLock()
	handlers := make([]SettingsHandler, 0, len(n.handlers[topic]))
	for _, handler := range n.handlers[topic] {
		handlers = append(handlers, handler)
	}
	n.mu.RUnlock()

	for _, handler := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("⚠️  [NOTIFIER] Handler panic on %s: %v", topic, r)
				}
			}()
			handler(topic, payload)
		}()
	}
}

// SubscriberCount reports how many handlers are registered on a topic
func (n *SettingsNotifier) SubscriberCount(topic string) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.handlers[topic])
}
