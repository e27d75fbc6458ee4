// Package store provides SQLite-backed durable key-value storage for the
// storefront client.
//
// One Store corresponds to one client instance. Session state (identity,
// token, role) and the guest cart all persist through it and survive
// process restarts. The store is node-local: two client instances sharing
// the same database file are last-write-wins with no merge or conflict
// detection.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//
// Structured values (identity, cart lines) are stored as JSON strings and
// must round-trip exactly; the token and role are opaque strings.
package store
