package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish_NotifiesInRegistrationOrder(t *testing.T) {
	b := New()

	var order []string
	b.Subscribe(TopicCartChanged, func() { order = append(order, "first") })
	b.Subscribe(TopicCartChanged, func() { order = append(order, "second") })
	b.Subscribe(TopicCartChanged, func() { order = append(order, "third") })

	b.Publish(TopicCartChanged)

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestPublish_NoSubscribers(t *testing.T) {
	b := New()
	// Must not panic
	b.Publish(TopicCatalogChanged)
}

func TestPublish_TopicsAreIsolated(t *testing.T) {
	b := New()

	cartFired := 0
	catalogFired := 0
	b.Subscribe(TopicCartChanged, func() { cartFired++ })
	b.Subscribe(TopicCatalogChanged, func() { catalogFired++ })

	b.Publish(TopicCartChanged)

	assert.Equal(t, 1, cartFired)
	assert.Zero(t, catalogFired, "cart-changed must not reach catalog subscribers")
}

func TestUnsubscribe_StopsDelivery(t *testing.T) {
	b := New()

	fired := 0
	sub := b.Subscribe(TopicCartChanged, func() { fired++ })

	b.Publish(TopicCartChanged)
	sub.Unsubscribe()
	b.Publish(TopicCartChanged)

	assert.Equal(t, 1, fired, "unsubscribed handler must not fire again")
}

func TestUnsubscribe_Idempotent(t *testing.T) {
	b := New()

	sub := b.Subscribe(TopicCartChanged, func() {})
	sub.Unsubscribe()
	// Second call must be a no-op, not a panic
	sub.Unsubscribe()

	b.Publish(TopicCartChanged)
}

func TestUnsubscribe_DuringPublish(t *testing.T) {
	b := New()

	var laterFired bool
	var later *Subscription
	b.Subscribe(TopicCartChanged, func() { later.Unsubscribe() })
	later = b.Subscribe(TopicCartChanged, func() { laterFired = true })

	b.Publish(TopicCartChanged)

	assert.False(t, laterFired, "subscription removed mid-publish must not fire")
}

func TestUnsubscribe_MiddleOfThree(t *testing.T) {
	b := New()

	var order []string
	b.Subscribe(TopicCartChanged, func() { order = append(order, "a") })
	middle := b.Subscribe(TopicCartChanged, func() { order = append(order, "b") })
	b.Subscribe(TopicCartChanged, func() { order = append(order, "c") })

	middle.Unsubscribe()
	b.Publish(TopicCartChanged)

	require.Equal(t, []string{"a", "c"}, order)
}
