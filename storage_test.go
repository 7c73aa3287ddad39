package chatbot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestMemoryStoreAppend(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	turn, err := store.Append(ctx, "anon_deadbeef", "halo", "Halo! Ada yang bisa dibantu?")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if turn.ID == 0 {
		t.Error("expected an assigned id")
	}
	if turn.CreatedAt.IsZero() {
		t.Error("expected an assigned timestamp")
	}
	if !turn.IsAnonymousOwner {
		t.Error("anon_ owner must be flagged anonymous")
	}

	page, err := store.Page(ctx, "anon_deadbeef", 1, 10)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != turn.ID {
		t.Errorf("unexpected page: %+v", page)
	}
	if page.TotalItems != 1 || page.TotalPages != 1 {
		t.Errorf("totals = %d/%d, want 1/1", page.TotalItems, page.TotalPages)
	}
}

func TestMemoryStorePagination(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := 0; i < 25; i++ {
		if _, err := store.Append(ctx, "owner", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	t.Run("full pages", func(t *testing.T) {
		page, err := store.Page(ctx, "owner", 1, 10)
		if err != nil {
			t.Fatalf("page: %v", err)
		}
		if len(page.Items) != 10 || page.TotalItems != 25 || page.TotalPages != 3 {
			t.Errorf("page 1: items=%d total=%d pages=%d", len(page.Items), page.TotalItems, page.TotalPages)
		}
	})

	t.Run("newest first with id tie-break", func(t *testing.T) {
		page, _ := store.Page(ctx, "owner", 1, 25)
		for i := 1; i < len(page.Items); i++ {
			prev, cur := page.Items[i-1], page.Items[i]
			if cur.CreatedAt.After(prev.CreatedAt) {
				t.Fatalf("item %d newer than item %d", i, i-1)
			}
			if cur.CreatedAt.Equal(prev.CreatedAt) && cur.ID <= prev.ID {
				t.Fatalf("tie at %d not broken by ascending id: %d then %d", i, prev.ID, cur.ID)
			}
		}
	})

	t.Run("short final page", func(t *testing.T) {
		page, _ := store.Page(ctx, "owner", 3, 10)
		if len(page.Items) != 5 || page.TotalPages != 3 {
			t.Errorf("page 3: items=%d pages=%d, want 5 items 3 pages", len(page.Items), page.TotalPages)
		}
	})

	t.Run("page past the end is empty with real totals", func(t *testing.T) {
		page, err := store.Page(ctx, "owner", 4, 10)
		if err != nil {
			t.Fatalf("page: %v", err)
		}
		if len(page.Items) != 0 || page.TotalItems != 25 || page.TotalPages != 3 {
			t.Errorf("page 4: items=%d total=%d pages=%d", len(page.Items), page.TotalItems, page.TotalPages)
		}
	})

	t.Run("unknown owner sees nothing", func(t *testing.T) {
		page, err := store.Page(ctx, "someone-else", 1, 10)
		if err != nil {
			t.Fatalf("page: %v", err)
		}
		if len(page.Items) != 0 || page.TotalItems != 0 || page.TotalPages != 0 {
			t.Errorf("unexpected page for unknown owner: %+v", page)
		}
	})
}

func TestMemoryStoreInvalidPageArgs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	cases := []struct{ pageNumber, pageSize int }{
		{0, 10},
		{-1, 10},
		{1, 0},
		{1, -5},
	}
	for _, tc := range cases {
		_, err := store.Page(ctx, "owner", tc.pageNumber, tc.pageSize)
		if !errors.Is(err, ErrInvalidPage) {
			t.Errorf("Page(%d, %d) error = %v, want ErrInvalidPage", tc.pageNumber, tc.pageSize, err)
		}
		if ErrorCode(err) != ErrCodeValidation {
			t.Errorf("Page(%d, %d) code = %q, want validation", tc.pageNumber, tc.pageSize, ErrorCode(err))
		}
	}
}

func TestMemoryStoreConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	const n = 50
	var wg sync.WaitGroup
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			turn, err := store.Append(ctx, "owner", "q", "a")
			if err != nil {
				t.Errorf("append: %v", err)
				return
			}
			ids <- turn.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Errorf("got %d distinct ids, want %d", len(seen), n)
	}
}

func TestMemoryStoreScanAll(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	store.Append(ctx, "anon_11111111", "q1", "a1")
	store.Append(ctx, "acct-1", "q2", "a2")
	store.Append(ctx, "acct-1", "q3", "a3")

	all, err := store.ScanAll(ctx)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d turns, want 3", len(all))
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct{ total, size, want int }{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{25, 20, 2},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.total, tc.size); got != tc.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tc.total, tc.size, got, tc.want)
		}
	}
}
