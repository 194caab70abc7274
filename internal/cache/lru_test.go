package cache

import (
	"testing"
	"time"
)

func TestLRUGetSet(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("expected a=1, got %q %v", v, ok)
	}
	c.Set("c", "3") // evicts b, a was used more recently
	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b evicted")
	}
	if c.Size() != 2 {
		t.Fatalf("expected size 2, got %d", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[int](10, time.Second)
	c.now = func() time.Time { return now }

	c.Set("a", 1, "t")
	c.Set("b", 2)
	now = now.Add(2 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected a expired")
	}
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("expected 1 cleaned, got %d", n)
	}
	if c.Size() != 0 || len(c.tags) != 0 {
		t.Fatalf("expected empty cache, size=%d tags=%d", c.Size(), len(c.tags))
	}
}

func TestLRUInvalidateTag(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)
	c.Set("dash:u1", 1, "dashboard", "accounts")
	c.Set("acc:u1", 2, "accounts")
	c.Set("cat:u1", 3, "categories")

	if n := c.InvalidateTag("accounts"); n != 2 {
		t.Fatalf("expected 2 invalidated, got %d", n)
	}
	if _, ok := c.Get("dash:u1"); ok {
		t.Fatalf("dashboard entry should be gone")
	}
	if _, ok := c.Get("cat:u1"); !ok {
		t.Fatalf("categories entry should remain")
	}
	if n := c.InvalidateTag("dashboard"); n != 0 {
		t.Fatalf("tag index should have been cleaned, got %d", n)
	}
}

func TestLRUSetReplacesTags(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)
	c.Set("k", 1, "old")
	c.Set("k", 2, "new")
	if n := c.InvalidateTag("old"); n != 0 {
		t.Fatalf("old tag should not reach replaced entry, got %d", n)
	}
	if n := c.InvalidateTag("new"); n != 1 {
		t.Fatalf("expected 1, got %d", n)
	}
}

func TestManagerCleanOnce(t *testing.T) {
	now := time.Now()
	c := NewLRUCache[int](10, time.Millisecond)
	c.now = func() time.Time { return now }
	c.Set("a", 1)
	now = now.Add(time.Second)

	m := NewManager(nil)
	m.Register(c)
	if n := m.CleanOnce(); n != 1 {
		t.Fatalf("expected 1, got %d", n)
	}
	m.StartCleanup(time.Hour)
	m.Stop()
	m.Stop()
}

func TestLRUSetAtSkipsInvalidatedTags(t *testing.T) {
	c := NewLRUCache[string](10, time.Minute)

	gen := c.Generation("accounts", "dashboard")
	c.InvalidateTag("accounts") // lands while the value is being built
	if c.SetAt(gen, "view", "stale", "accounts", "dashboard") {
		t.Fatalf("expected SetAt to refuse a value built before invalidation")
	}
	if _, ok := c.Get("view"); ok {
		t.Fatalf("stale value was stored")
	}

	gen = c.Generation("accounts", "dashboard")
	c.InvalidateTag("budgets")
	if !c.SetAt(gen, "view", "fresh", "accounts", "dashboard") {
		t.Fatalf("unrelated tags must not block SetAt")
	}
	if v, ok := c.Get("view"); !ok || v != "fresh" {
		t.Fatalf("expected fresh, got %q %v", v, ok)
	}
}
