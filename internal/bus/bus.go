// Package bus provides the in-process publish/subscribe channel used for
// state-changed notifications.
//
// Events carry no payload: subscribers re-query the relevant store after a
// notification, which (combined with persist-before-publish ordering in the
// stores) guarantees they never observe a stale value. Two topics exist:
// TopicCartChanged, fired on every cart mutation, and TopicCatalogChanged,
// fired when a hotel owner updates their registration.
package bus

import (
	"sync"

	"github.com/google/uuid"
)

// Topics broadcast by the storefront core.
const (
	TopicCartChanged    = "cart-changed"
	TopicCatalogChanged = "catalog-changed"
)

// Handler is invoked synchronously when its topic is published.
type Handler func()

// Bus is an in-process publish/subscribe channel.
//
// Publish notifies subscribers in registration order. Execution is
// single-threaded cooperative in the client, but the bus carries its own
// mutex so a subscriber list torn down from a deferred cleanup cannot race
// a publish in tests.
type Bus struct {
	mu   sync.Mutex
	subs map[string][]*Subscription
}

// Subscription is the handle returned by Subscribe.
// Unsubscribe is idempotent and safe to call after the publisher side has
// gone away, so a torn-down view never receives a stale notification.
type Subscription struct {
	id      string
	topic   string
	handler Handler

	bus    *Bus
	active bool
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{subs: make(map[string][]*Subscription)}
}

// Subscribe registers handler for topic and returns its subscription handle.
// Handlers for a topic fire in the order they were registered.
func (b *Bus) Subscribe(topic string, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &Subscription{
		id:      uuid.NewString(),
		topic:   topic,
		handler: handler,
		bus:     b,
		active:  true,
	}
	b.subs[topic] = append(b.subs[topic], sub)
	return sub
}

// Publish synchronously notifies all currently registered subscribers for
// topic, in registration order. A handler that unsubscribes a later
// subscription during delivery prevents that subscription from firing.
func (b *Bus) Publish(topic string) {
	b.mu.Lock()
	pending := make([]*Subscription, len(b.subs[topic]))
	copy(pending, b.subs[topic])
	b.mu.Unlock()

	for _, sub := range pending {
		b.mu.Lock()
		active := sub.active
		b.mu.Unlock()
		if active {
			sub.handler()
		}
	}
}

// Unsubscribe removes the subscription from its topic.
// Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	if !s.active {
		return
	}
	s.active = false

	subs := s.bus.subs[s.topic]
	for i, sub := range subs {
		if sub.id == s.id {
			s.bus.subs[s.topic] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
}
