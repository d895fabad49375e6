package registry

import (
	"testing"
	"time"
)

func TestTTLCacheStoreAndGet(t *testing.T) {
	c := newTTLCache(50*time.Millisecond, nil)
	rec := Record{ID: 1, Name: "acme"}
	c.store(rec)

	got, ok := c.getByName("acme")
	if !ok || got.ID != 1 {
		t.Fatalf("expected cached hit for acme, got %#v ok=%v", got, ok)
	}
	got, ok = c.getByID(1)
	if !ok || got.Name != "acme" {
		t.Fatalf("expected cached hit for id 1, got %#v ok=%v", got, ok)
	}
}

func TestTTLCacheExpires(t *testing.T) {
	c := newTTLCache(10*time.Millisecond, nil)
	c.store(Record{ID: 1, Name: "acme"})
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.getByName("acme"); ok {
		t.Fatalf("expected cache entry to have expired")
	}
}

func TestTTLCacheInvalidate(t *testing.T) {
	c := newTTLCache(time.Minute, nil)
	c.store(Record{ID: 1, Name: "acme"})
	c.invalidate("acme", 1)

	if _, ok := c.getByName("acme"); ok {
		t.Fatalf("expected cache entry to be gone after invalidate")
	}
	if _, ok := c.getByID(1); ok {
		t.Fatalf("expected cache entry to be gone after invalidate")
	}
}
