package session

// Verdict is the authorization decision for a role-restricted view.
// The caller (view layer) acts on it; Authorize itself has no side effects.
type Verdict int

const (
	// VerdictAllow admits the caller to the view.
	VerdictAllow Verdict = iota
	// VerdictRedirect sends the caller to the unauthenticated entry point.
	// Both anonymous visitors and authenticated users with the wrong role
	// receive this verdict; the two cases are not distinguished.
	VerdictRedirect
)

func (v Verdict) String() string {
	if v == VerdictAllow {
		return "allow"
	}
	return "redirect"
}

// Authorize decides whether the current session may enter a view
// restricted to allowedRoles. An empty allowedRoles means any
// authenticated role is acceptable.
func Authorize(s *Store, allowedRoles ...Role) Verdict {
	if !s.Authenticated() {
		return VerdictRedirect
	}
	if len(allowedRoles) == 0 {
		return VerdictAllow
	}

	role, ok := s.CurrentRole()
	if !ok {
		return VerdictRedirect
	}
	for _, allowed := range allowedRoles {
		if role == allowed {
			return VerdictAllow
		}
	}
	return VerdictRedirect
}
