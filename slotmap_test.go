package rgraph

import "testing"

func TestNamedSlotMapInsertAndGet(t *testing.T) {
	m := NewNamedSlotMap[BufferHandle, string]()
	k := m.Insert("foo", "foo-value")

	v, ok := m.Get(k)
	if !ok || v != "foo-value" {
		t.Fatalf("expected to get back foo-value, got %v, %v", v, ok)
	}

	gotKey, ok := m.GetKey("foo")
	if !ok || gotKey != k {
		t.Fatalf("expected GetKey to return the same key, got %v, %v", gotKey, ok)
	}
}

func TestNamedSlotMapInsertSameNameReusesKey(t *testing.T) {
	m := NewNamedSlotMap[BufferHandle, string]()
	k1 := m.Insert("foo", "v1")
	k2 := m.Insert("foo", "v2")

	if k1 != k2 {
		t.Fatalf("expected re-insertion under the same name to reuse the key")
	}
	v, _ := m.Get(k1)
	if v != "v2" {
		t.Fatalf("expected the value to be replaced, got %v", v)
	}
	if m.Len() != 1 {
		t.Fatalf("expected exactly one entry, got %d", m.Len())
	}
}

func TestNamedSlotMapGetName(t *testing.T) {
	m := NewNamedSlotMap[BufferHandle, string]()
	k := m.Insert("foo", "v")
	name, ok := m.GetName(k)
	if !ok || name != "foo" {
		t.Fatalf("expected reverse lookup to find \"foo\", got %v, %v", name, ok)
	}
	if _, ok := m.GetName(999); ok {
		t.Fatalf("expected reverse lookup of an unknown key to fail")
	}
}

func TestNamedSlotMapIterKeyValueOrdered(t *testing.T) {
	m := NewNamedSlotMap[BufferHandle, int]()
	m.Insert("c", 3)
	m.Insert("a", 1)
	m.Insert("b", 2)

	var keys []BufferHandle
	m.IterKeyValue(func(key BufferHandle, value int) {
		keys = append(keys, key)
	})
	for i := 1; i < len(keys); i++ {
		if keys[i] <= keys[i-1] {
			t.Fatalf("expected ascending key order, got %v", keys)
		}
	}
}
