package rgraph

import (
	"fmt"
	"sort"
	"strings"
)

// cacheEntry is one resolved bind-group cache record: the layout it was
// built against and the ordered (slot, binding) list materialization will
// resolve into driver bind-group entries.
type cacheEntry struct {
	Layout   BindGroupLayoutHandle
	Bindings []slotBinding
}

type slotBinding struct {
	Slot    uint32
	Binding ResourceBinding
}

// BindGroupCache is the content-addressed (layout, ordered binding list) →
// BindGroupHandle store from spec Invariant #2, grounded on
// original_source/src/resources/bindgroup.rs's BindGroupCache.
type BindGroupCache struct {
	byKey   map[string]BindGroupHandle
	entries map[BindGroupHandle]cacheEntry
	next    BindGroupHandle
}

// NewBindGroupCache returns an empty BindGroupCache.
func NewBindGroupCache() *BindGroupCache {
	return &BindGroupCache{
		byKey:   make(map[string]BindGroupHandle),
		entries: make(map[BindGroupHandle]cacheEntry),
	}
}

// cacheKey canonicalizes (layout, bindings) into a stable string: bindings
// are sorted by slot (they are supplied as a single group's binding set, so
// slots are unique) before encoding, so that two record-time requests with
// the same multiset of (slot, binding) pairs — regardless of call order —
// collide onto the same cache entry, per spec's testable property.
func cacheKey(layout BindGroupLayoutHandle, bindings []slotBinding) string {
	sorted := make([]slotBinding, len(bindings))
	copy(sorted, bindings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Slot < sorted[j].Slot })

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d|", layout)
	for _, sbind := range sorted {
		fmt.Fprintf(&sb, "%d:%+v;", sbind.Slot, sbind.Binding)
	}
	return sb.String()
}

// GetHandle returns the existing BindGroupHandle for (layout, bindings) if
// one was already requested with an equal key, or allocates and records a
// new one. This is the operation spec's testable property "two record-time
// requests with equal (layout, binding list) return the same handle"
// describes.
func (c *BindGroupCache) GetHandle(layout BindGroupLayoutHandle, bindings []slotBinding) BindGroupHandle {
	key := cacheKey(layout, bindings)
	if h, ok := c.byKey[key]; ok {
		return h
	}
	h := c.next
	c.next++
	stored := make([]slotBinding, len(bindings))
	copy(stored, bindings)
	c.entries[h] = cacheEntry{Layout: layout, Bindings: stored}
	c.byKey[key] = h
	return h
}

// Entry returns the resolved (layout, bindings) for a cache handle, for use
// by the materializer's bind-group creation pass (spec §4.4.2).
func (c *BindGroupCache) Entry(h BindGroupHandle) (BindGroupLayoutHandle, []slotBinding, bool) {
	e, ok := c.entries[h]
	if !ok {
		return 0, nil, false
	}
	return e.Layout, e.Bindings, true
}

// Len returns the number of distinct bind groups recorded.
func (c *BindGroupCache) Len() int { return len(c.entries) }

// Clear resets the cache to empty while retaining backing map capacity, for
// artifact recycling (spec §4.5).
func (c *BindGroupCache) Clear() {
	for k := range c.byKey {
		delete(c.byKey, k)
	}
	for k := range c.entries {
		delete(c.entries, k)
	}
	c.next = 0
}
