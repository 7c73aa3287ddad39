package chatbot

import (
	"sync"
	"testing"
)

func TestSessionRegistry(t *testing.T) {
	t.Run("reuses the session for a known id", func(t *testing.T) {
		reg := newSessionRegistry()
		_, first := reg.getOrCreate("s1", "", "")
		_, second := reg.getOrCreate("s1", "", "")
		if first != second {
			t.Error("same id returned distinct sessions")
		}
	})

	t.Run("mints an id when none is given", func(t *testing.T) {
		reg := newSessionRegistry()
		id, _ := reg.getOrCreate("", "", "")
		if id == "" {
			t.Fatal("expected a generated id")
		}
		if _, ok := reg.lookup(id); !ok {
			t.Error("generated session not registered")
		}
	})

	t.Run("lookup never creates", func(t *testing.T) {
		reg := newSessionRegistry()
		if _, ok := reg.lookup("missing"); ok {
			t.Error("lookup returned a session for an unknown id")
		}
		if len(reg.sessions) != 0 {
			t.Errorf("registry grew to %d entries on lookup", len(reg.sessions))
		}
	})

	t.Run("concurrent requests on one session keep a consistent identity", func(t *testing.T) {
		reg := newSessionRegistry()
		resolver := NewIdentityResolver()

		const n = 40
		var wg sync.WaitGroup
		results := make(chan Identity, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				accountID := ""
				if i%2 == 0 {
					accountID = "acct-1"
				}
				_, session := reg.getOrCreate("s1", accountID, "")
				results <- resolver.Resolve(session)
			}(i)
		}
		wg.Wait()
		close(results)

		for identity := range results {
			if identity.Kind == KindAuthenticated && identity.Key != "acct-1" {
				t.Errorf("authenticated key = %q", identity.Key)
			}
			if identity.Kind == KindAnonymous && !IsAnonymousKey(identity.Key) {
				t.Errorf("anonymous key = %q", identity.Key)
			}
		}

		_, session := reg.getOrCreate("s1", "", "")
		if got := resolver.Resolve(session); got.Key != "acct-1" {
			t.Errorf("settled key = %q, want acct-1", got.Key)
		}
	})
}
