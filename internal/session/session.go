package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/biteroute/storefront/internal/store"
)

// Role gates which views and operations are permitted.
type Role string

// Roles as persisted and as returned by the unified login endpoint.
const (
	RoleUser  Role = "user"  // customer
	RoleHotel Role = "hotel" // hotel owner
	RoleAdmin Role = "admin" // administrator
)

// IsValid reports whether r is one of the three known roles.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleHotel || r == RoleAdmin
}

// Identity is the authenticated principal. The backend returns different
// field sets per role (customers carry name, hotel owners carry username),
// so both are kept and DisplayName picks the right one.
type Identity struct {
	ID       int64  `json:"id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Contact  string `json:"contact,omitempty"`
	Role     Role   `json:"role,omitempty"`
}

// DisplayName returns the user-facing name for the identity.
func (id Identity) DisplayName() string {
	switch id.Role {
	case RoleHotel:
		if id.Username != "" {
			return id.Username
		}
		return "Hotel Owner"
	case RoleAdmin:
		return "Admin"
	default:
		if id.Name != "" {
			return id.Name
		}
		return "User"
	}
}

// Store owns the session: current identity, credential token, and role.
// All state changes go through the persistent store first, so a restart
// at any point observes either the old or the new session, never a mix.
type Store struct {
	kv *store.Store

	identity *Identity
	token    string
}

// New creates a session store backed by kv. Call Restore before first use.
func New(kv *store.Store) *Store {
	return &Store{kv: kv}
}

// Restore loads the persisted session at startup.
//
// A token without an identity, or an identity without a token, is treated
// as no session at all - the client never half-authenticates.
func (s *Store) Restore(ctx context.Context) error {
	token, hasToken, err := s.kv.Get(ctx, store.KeyToken)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	rawIdentity, hasIdentity, err := s.kv.Get(ctx, store.KeyIdentity)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	if !hasToken || !hasIdentity {
		s.identity = nil
		s.token = ""
		return nil
	}

	var identity Identity
	if err := json.Unmarshal([]byte(rawIdentity), &identity); err != nil {
		// Corrupt identity record: same defensive stance as half state.
		s.identity = nil
		s.token = ""
		return nil
	}

	if role, ok, err := s.kv.Get(ctx, store.KeyRole); err == nil && ok {
		identity.Role = Role(role)
	}

	s.identity = &identity
	s.token = token
	return nil
}

// Login records the result of a credential exchange performed by the
// caller. Identity and token are set together, in memory and persisted;
// no network call happens here.
func (s *Store) Login(ctx context.Context, identity Identity, token string) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if err := s.kv.Put(ctx, store.KeyIdentity, string(raw)); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := s.kv.Put(ctx, store.KeyToken, token); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := s.kv.Put(ctx, store.KeyRole, string(identity.Role)); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	s.identity = &identity
	s.token = token
	return nil
}

// Logout clears the in-memory session and wipes the persistent store
// entirely, matching the original client's behavior of dropping every
// locally persisted key on logout.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.kv.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.identity = nil
	s.token = ""
	return nil
}

// Identity returns the current identity, if any. Pure read.
func (s *Store) Identity() (Identity, bool) {
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

// Token returns the credential token, or "" when anonymous. Pure read.
func (s *Store) Token() string {
	return s.token
}

// CurrentRole returns the role derived from the current identity.
// The second return is false when no session exists.
func (s *Store) CurrentRole() (Role, bool) {
	if s.identity == nil {
		return "", false
	}
	return s.identity.Role, true
}

// Authenticated reports whether a session is present.
func (s *Store) Authenticated() bool {
	return s.token != ""
}
