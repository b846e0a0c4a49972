package rgraph

import "testing"

func TestBindGroupCacheDedupesEqualKeys(t *testing.T) {
	c := NewBindGroupCache()
	bufA := BufferSlice{Handle: 0, Offset: 0, Size: 16}.Bind()
	bindingsOne := []slotBinding{{Slot: 0, Binding: bufA}}
	bindingsTwo := []slotBinding{{Slot: 0, Binding: bufA}}

	h1 := c.GetHandle(1, bindingsOne)
	h2 := c.GetHandle(1, bindingsTwo)
	if h1 != h2 {
		t.Fatalf("expected equal (layout, bindings) requests to collide, got %d and %d", h1, h2)
	}
	if c.Len() != 1 {
		t.Fatalf("expected exactly one cache entry, got %d", c.Len())
	}
}

func TestBindGroupCacheOrderIndependent(t *testing.T) {
	c := NewBindGroupCache()
	a := BufferSlice{Handle: 0, Offset: 0, Size: 16}.Bind()
	b := BufferSlice{Handle: 1, Offset: 0, Size: 16}.Bind()

	h1 := c.GetHandle(1, []slotBinding{{Slot: 0, Binding: a}, {Slot: 1, Binding: b}})
	h2 := c.GetHandle(1, []slotBinding{{Slot: 1, Binding: b}, {Slot: 0, Binding: a}})
	if h1 != h2 {
		t.Fatalf("expected slot order to not affect the cache key, got %d and %d", h1, h2)
	}
}

func TestBindGroupCacheDistinctLayoutsDoNotCollide(t *testing.T) {
	c := NewBindGroupCache()
	a := BufferSlice{Handle: 0, Offset: 0, Size: 16}.Bind()
	bindings := []slotBinding{{Slot: 0, Binding: a}}

	h1 := c.GetHandle(1, bindings)
	h2 := c.GetHandle(2, bindings)
	if h1 == h2 {
		t.Fatalf("expected different layout handles to produce distinct bind groups")
	}
}

func TestBindGroupCacheClear(t *testing.T) {
	c := NewBindGroupCache()
	a := BufferSlice{Handle: 0, Offset: 0, Size: 16}.Bind()
	c.GetHandle(1, []slotBinding{{Slot: 0, Binding: a}})
	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("expected cache to be empty after Clear, got %d entries", c.Len())
	}
	h := c.GetHandle(1, []slotBinding{{Slot: 0, Binding: a}})
	if h != 0 {
		t.Fatalf("expected handle numbering to restart from 0 after Clear, got %d", h)
	}
}
