package cache

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/recsys/core"
)

func TestMemoryStoreSetGetDelete(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Fatalf("expected store NOT_FOUND, got %v", err)
	}

	if err := s.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v" {
		t.Fatalf("Get = %q, want %q", got, "v")
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Fatalf("expected store NOT_FOUND after delete, got %v", err)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v"), time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := s.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Fatalf("expected expired key to be gone, got %v", err)
	}
}

func TestResultCacheRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	c := &ResultCache{Store: s, TTL: time.Minute}
	ctx := context.Background()

	it, err := core.NewItem(42, core.CategoryMovie, nil)
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	items := []*core.ScoredItem{{Item: it, Score: 0.7}}

	if _, hit, err := c.Get(ctx, 1, "content", 10, 3); err != nil || hit {
		t.Fatalf("expected clean miss, got hit=%v err=%v", hit, err)
	}

	if err := c.Put(ctx, 1, "content", 10, 3, items); err != nil {
		t.Fatalf("Put: %v", err)
	}

	entries, hit, err := c.Get(ctx, 1, "content", 10, 3)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit || len(entries) != 1 {
		t.Fatalf("expected hit with 1 entry, got hit=%v entries=%v", hit, entries)
	}
	if entries[0].ItemID != 42 || entries[0].Score != 0.7 {
		t.Fatalf("entry = %+v", entries[0])
	}

	// a different dataset version is a different key
	if _, hit, _ := c.Get(ctx, 1, "content", 10, 4); hit {
		t.Fatal("stale version must not hit")
	}
	// so is a different strategy or topN
	if _, hit, _ := c.Get(ctx, 1, "hybrid", 10, 3); hit {
		t.Fatal("other strategy must not hit")
	}
	if _, hit, _ := c.Get(ctx, 1, "content", 5, 3); hit {
		t.Fatal("other topN must not hit")
	}
}

func TestResultCacheNilIsNoop(t *testing.T) {
	var c *ResultCache
	if err := c.Put(context.Background(), 1, "content", 10, 0, nil); err != nil {
		t.Fatalf("nil cache Put: %v", err)
	}
	if _, hit, err := c.Get(context.Background(), 1, "content", 10, 0); err != nil || hit {
		t.Fatalf("nil cache Get: hit=%v err=%v", hit, err)
	}
}
