package rgraph

import "sort"

// NamedSlotMap maps stable integer keys to values, with a bijective
// side-map from human-readable, case-sensitive names to keys. Key and name
// lookups are Go map lookups; reverse (key-to-name) lookup is a cold-path
// linear scan.
type NamedSlotMap[K ~uint32, V any] struct {
	values  map[K]V
	names   map[string]K
	nextKey K
}

// NewNamedSlotMap returns an empty NamedSlotMap.
func NewNamedSlotMap[K ~uint32, V any]() *NamedSlotMap[K, V] {
	return &NamedSlotMap[K, V]{
		values: make(map[K]V),
		names:  make(map[string]K),
	}
}

// Insert stores value under name, returning its newly allocated key. If name
// was already present, its existing key is reused and the value replaced.
func (m *NamedSlotMap[K, V]) Insert(name string, value V) K {
	if key, ok := m.names[name]; ok {
		m.values[key] = value
		return key
	}
	key := m.nextKey
	m.nextKey++
	m.values[key] = value
	m.names[name] = key
	return key
}

// Get looks up the value stored at key.
func (m *NamedSlotMap[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// GetKey looks up the key registered under name.
func (m *NamedSlotMap[K, V]) GetKey(name string) (K, bool) {
	k, ok := m.names[name]
	return k, ok
}

// GetNamed looks up the value registered under name directly.
func (m *NamedSlotMap[K, V]) GetNamed(name string) (V, bool) {
	key, ok := m.names[name]
	if !ok {
		var zero V
		return zero, false
	}
	v, ok := m.values[key]
	return v, ok
}

// GetName performs the cold-path reverse lookup of the name registered for
// key. Linear in the number of entries.
func (m *NamedSlotMap[K, V]) GetName(key K) (string, bool) {
	for name, k := range m.names {
		if k == key {
			return name, true
		}
	}
	return "", false
}

// Len returns the number of entries.
func (m *NamedSlotMap[K, V]) Len() int {
	return len(m.values)
}

// IterKeyValue calls fn for every (key, value) pair. Iteration order is by
// ascending key for determinism.
func (m *NamedSlotMap[K, V]) IterKeyValue(fn func(key K, value V)) {
	keys := make([]K, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		fn(k, m.values[k])
	}
}

// IterNames calls fn for every (name, key) pair, sorted by name.
func (m *NamedSlotMap[K, V]) IterNames(fn func(name string, key K)) {
	names := make([]string, 0, len(m.names))
	for n := range m.names {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fn(n, m.names[n])
	}
}
