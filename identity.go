package chatbot

import (
	"encoding/hex"
	"sync"

	"github.com/google/uuid"
)

// Session is the explicit per-session context object passed into the
// core. The external identity layer fills AccountID (and Email) after
// a successful login; the core never authenticates anyone itself.
type Session struct {
	// AccountID is the external identity provider's stable account id.
	// Empty for anonymous sessions. Once the session is shared across
	// goroutines, set it through Authenticate only.
	AccountID string

	// Email is informational, used only for the admin allowlist check.
	Email string

	// mu guards AccountID, Email and anonymousID.
	mu          sync.Mutex
	anonymousID string
}

// Authenticate attaches the external account reference to the session.
// Safe to call while other goroutines resolve the same session.
func (s *Session) Authenticate(accountID, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.AccountID = accountID
	s.Email = email
}

// IdentityResolver maps a session to the stable identity key used as
// the store partition key. Resolution always succeeds: the anonymous
// fallback is generated locally.
type IdentityResolver struct{}

// NewIdentityResolver creates an identity resolver.
func NewIdentityResolver() *IdentityResolver {
	return &IdentityResolver{}
}

// Resolve returns the session's identity. Authenticated sessions keep
// their account id across sessions; anonymous sessions get a random
// key generated once and reused for the session lifetime, so a user
// accumulates history before ever logging in. Repeated calls return
// the identical key.
//
// Anonymous and authenticated histories are never merged here; a
// migration on login is the external identity layer's job.
func (r *IdentityResolver) Resolve(s *Session) Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.AccountID != "" {
		return Identity{Kind: KindAuthenticated, Key: s.AccountID}
	}

	if s.anonymousID == "" {
		s.anonymousID = newAnonymousKey()
	}
	return Identity{Kind: KindAnonymous, Key: s.anonymousID}
}

// newAnonymousKey generates an "anon_" key with 8 hex characters of
// randomness, never reused across sessions.
func newAnonymousKey() string {
	id := uuid.New()
	return AnonymousKeyPrefix + hex.EncodeToString(id[:4])
}
