package chatbot

import (
	"strings"
	"sync"
	"testing"
)

func TestResolveAuthenticated(t *testing.T) {
	r := NewIdentityResolver()

	identity := r.Resolve(&Session{AccountID: "acct-123", Email: "a@b.c"})
	if identity.Kind != KindAuthenticated {
		t.Errorf("kind = %q, want authenticated", identity.Kind)
	}
	if identity.Key != "acct-123" {
		t.Errorf("key = %q, want account id", identity.Key)
	}
	if IsAnonymousKey(identity.Key) {
		t.Error("authenticated key must not look anonymous")
	}
}

func TestResolveAnonymous(t *testing.T) {
	r := NewIdentityResolver()

	t.Run("generates a prefixed key", func(t *testing.T) {
		identity := r.Resolve(&Session{})
		if identity.Kind != KindAnonymous {
			t.Errorf("kind = %q, want anonymous", identity.Kind)
		}
		if !strings.HasPrefix(identity.Key, AnonymousKeyPrefix) {
			t.Errorf("key = %q, want %q prefix", identity.Key, AnonymousKeyPrefix)
		}
		if len(identity.Key) != len(AnonymousKeyPrefix)+8 {
			t.Errorf("key = %q, want 8 random hex characters", identity.Key)
		}
		if !IsAnonymousKey(identity.Key) {
			t.Error("anonymous key must be detectable")
		}
	})

	t.Run("is idempotent within a session", func(t *testing.T) {
		session := &Session{}
		first := r.Resolve(session)
		for i := 0; i < 5; i++ {
			if got := r.Resolve(session); got != first {
				t.Fatalf("resolve %d returned %+v, want %+v", i, got, first)
			}
		}
	})

	t.Run("distinct sessions get distinct keys", func(t *testing.T) {
		a := r.Resolve(&Session{})
		b := r.Resolve(&Session{})
		if a.Key == b.Key {
			t.Errorf("two sessions share key %q", a.Key)
		}
	})
}

func TestResolveConcurrentWithAuthenticate(t *testing.T) {
	r := NewIdentityResolver()
	session := &Session{}

	const n = 50
	var wg sync.WaitGroup
	results := make(chan Identity, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i == n/2 {
				session.Authenticate("acct-7", "a@b.c")
			}
			results <- r.Resolve(session)
		}(i)
	}
	wg.Wait()
	close(results)

	// Every resolution lands on one of the two valid keys, never a
	// torn mix of both.
	var anonKey string
	for identity := range results {
		switch identity.Kind {
		case KindAuthenticated:
			if identity.Key != "acct-7" {
				t.Errorf("authenticated key = %q", identity.Key)
			}
		case KindAnonymous:
			if !strings.HasPrefix(identity.Key, AnonymousKeyPrefix) {
				t.Errorf("anonymous key = %q", identity.Key)
			}
			if anonKey == "" {
				anonKey = identity.Key
			} else if identity.Key != anonKey {
				t.Errorf("anonymous key changed: %q then %q", anonKey, identity.Key)
			}
		default:
			t.Errorf("unexpected kind %q", identity.Kind)
		}
	}

	if got := r.Resolve(session); got.Kind != KindAuthenticated || got.Key != "acct-7" {
		t.Errorf("final resolve = %+v, want authenticated acct-7", got)
	}
}
