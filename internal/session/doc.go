// Package session owns the client's authentication state: the current
// identity, its opaque credential token, and the derived role.
//
// The session is an explicit service instance injected into consumers,
// never ambient global state. It restores itself from the persistent store
// at startup and upholds one invariant throughout: token present if and
// only if identity present. A half-persisted session (token without
// identity, or the reverse) restores as absent - the client never
// half-authenticates.
//
// Authorize is the pure decision function gating role-restricted views.
// Anonymous visitors and authenticated users with the wrong role both
// receive the same redirect verdict; the client deliberately does not
// distinguish the two cases to the user.
package session
