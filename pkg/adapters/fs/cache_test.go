package fs

import (
	"testing"
	"time"
)

func TestCache(t *testing.T) {
	c := newCache()
	now := time.Now()

	if _, ok := c.Get("a.md", now, 1); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set("a.md", now, 3, []byte("abc"))

	got, ok := c.Get("a.md", now, 3)
	if !ok || string(got) != "abc" {
		t.Fatalf("expected hit with abc, got %q %v", got, ok)
	}
	got[0] = 'X'
	if again, _ := c.Get("a.md", now, 3); string(again) != "abc" {
		t.Errorf("cache returned shared buffer")
	}

	if _, ok := c.Get("a.md", now.Add(time.Second), 3); ok {
		t.Error("expected miss after mtime change")
	}
	if _, ok := c.Get("a.md", now, 4); ok {
		t.Error("expected miss after size change")
	}
	if c.Hits() != 2 {
		t.Errorf("expected 2 hits, got %d", c.Hits())
	}

	c.Set("b.md", now, 1, []byte("b"))
	c.Prune(map[string]bool{"b.md": true})
	if c.Len() != 1 {
		t.Errorf("expected 1 entry after prune, got %d", c.Len())
	}
	c.Delete("b.md")
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d", c.Len())
	}
}
