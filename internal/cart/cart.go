// Package cart owns the guest-scoped list of prospective order line items.
//
// The cart is keyed by food ID: at most one line per food, adding an
// already-present food increments its quantity instead of duplicating.
// Every mutation persists before publishing cart-changed, so a badge that
// re-reads the count on notification always sees the new value.
package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/biteroute/storefront/internal/bus"
	"github.com/biteroute/storefront/internal/store"
)

// LineItem is one cart line. Price and names are trusted from the first
// add; quantity is always at least 1 - a line driven to 0 is removed,
// never stored.
type LineItem struct {
	FoodID    int64   `json:"food_id"`
	HotelName string  `json:"hotel_name"`
	FoodName  string  `json:"food_name"`
	Location  string  `json:"location,omitempty"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
}

// Store owns the cart lines for the current client instance.
// Mutations are total: increment/decrement/remove on an unknown food ID
// is a no-op, not an error.
type Store struct {
	kv  *store.Store
	bus *bus.Bus

	items []LineItem
}

// New creates a cart store. Call Load before first use.
func New(kv *store.Store, b *bus.Bus) *Store {
	return &Store{kv: kv, bus: b}
}

// Load reads the cart from the persistent store.
// An absent key yields an empty cart, never an error. A value that fails
// to parse also yields an empty cart, matching the original client.
func (s *Store) Load(ctx context.Context) error {
	raw, ok, err := s.kv.Get(ctx, store.KeyCart)
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	if !ok {
		s.items = nil
		return nil
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.items = nil
		return nil
	}
	s.items = items
	return nil
}

// Add appends item with quantity 1, or increments the existing line for
// the same food ID by 1. An existing line keeps its first-seen price,
// name, and hotel; the incoming fields are ignored.
func (s *Store) Add(ctx context.Context, item LineItem) error {
	updated := make([]LineItem, len(s.items))
	copy(updated, s.items)

	found := false
	for i := range updated {
		if updated[i].FoodID == item.FoodID {
			updated[i].Qty++
			found = true
			break
		}
	}
	if !found {
		item.Qty = 1
		updated = append(updated, item)
	}

	return s.commit(ctx, updated)
}

// Increment raises the quantity of the line for foodID by 1.
// Unknown food IDs are a no-op.
func (s *Store) Increment(ctx context.Context, foodID int64) error {
	updated := make([]LineItem, len(s.items))
	copy(updated, s.items)

	for i := range updated {
		if updated[i].FoodID == foodID {
			updated[i].Qty++
			return s.commit(ctx, updated)
		}
	}
	return nil
}

// Decrement lowers the quantity of the line for foodID by 1, removing the
// line entirely when it reaches 0. Unknown food IDs are a no-op.
func (s *Store) Decrement(ctx context.Context, foodID int64) error {
	updated := make([]LineItem, 0, len(s.items))

	found := false
	for _, item := range s.items {
		if item.FoodID == foodID {
			found = true
			item.Qty--
			if item.Qty <= 0 {
				continue
			}
		}
		updated = append(updated, item)
	}
	if !found {
		return nil
	}
	return s.commit(ctx, updated)
}

// Remove deletes the line for foodID unconditionally.
// Unknown food IDs are a no-op.
func (s *Store) Remove(ctx context.Context, foodID int64) error {
	updated := make([]LineItem, 0, len(s.items))

	found := false
	for _, item := range s.items {
		if item.FoodID == foodID {
			found = true
			continue
		}
		updated = append(updated, item)
	}
	if !found {
		return nil
	}
	return s.commit(ctx, updated)
}

// Clear empties the cart. Used after successful order placement.
func (s *Store) Clear(ctx context.Context) error {
	return s.commit(ctx, nil)
}

// Items returns a copy of the current lines in insertion order.
func (s *Store) Items() []LineItem {
	items := make([]LineItem, len(s.items))
	copy(items, s.items)
	return items
}

// TotalCount is the sum of quantities across all lines, consumed by the
// navigation badge.
func (s *Store) TotalCount() int {
	total := 0
	for _, item := range s.items {
		total += item.Qty
	}
	return total
}

// Subtotal is the sum of price x quantity over current lines, in full
// precision. Rounding happens at presentation and submission boundaries,
// not here.
func (s *Store) Subtotal() float64 {
	var sum float64
	for _, item := range s.items {
		sum += item.Price * float64(item.Qty)
	}
	return sum
}

// commit persists updated, then swaps it in and publishes cart-changed.
// On persistence failure the in-memory cart is left unchanged and nothing
// is published.
func (s *Store) commit(ctx context.Context, updated []LineItem) error {
	if updated == nil {
		updated = []LineItem{}
	}

	raw, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	if err := s.kv.Put(ctx, store.KeyCart, string(raw)); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}

	s.items = updated
	s.bus.Publish(bus.TopicCartChanged)
	return nil
}
