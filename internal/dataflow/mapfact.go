package dataflow

// Value constrains MapFact's value type: values must know how to compare
// themselves for equality. Plain Go == is not enough for constant
// propagation's CPValue, whose CONST case compares by bit pattern, width
// and signedness rather than by interface identity (spec.md §3).
type Value[V any] interface {
	Equal(V) bool
}

// MapFact is an identity-keyed mapping, the fact type constant propagation
// uses (constprop.Fact is a plain alias of MapFact[*ir.Variable, CPValue];
// constprop reads a missing key as UNDEF, but an UNDEF passed to Update is
// stored like any other value rather than removing the key).
type MapFact[K Identity, V Value[V]] struct {
	keys map[uint64]K
	vals map[uint64]V
}

// NewMapFact returns an empty mapping.
func NewMapFact[K Identity, V Value[V]]() *MapFact[K, V] {
	return &MapFact[K, V]{keys: make(map[uint64]K), vals: make(map[uint64]V)}
}

// Get returns the stored value and whether k is present. The zero value of
// V is returned when absent — for constprop's CPValue struct, that is a
// value of kind Undef.
func (m *MapFact[K, V]) Get(k K) (V, bool) {
	v, ok := m.vals[k.ID()]
	return v, ok
}

// Update stores v at k, reporting whether the stored value changed. A
// missing key counts as changed whenever v is stored, whatever v is: storing
// a value a caller reads as equivalent to absence (constprop's UNDEF) still
// adds the key and reports a change.
func (m *MapFact[K, V]) Update(k K, v V) bool {
	id := k.ID()
	if old, ok := m.vals[id]; ok && old.Equal(v) {
		return false
	}
	m.keys[id] = k
	m.vals[id] = v
	return true
}

// Remove deletes k, reporting whether it was present.
func (m *MapFact[K, V]) Remove(k K) bool {
	id := k.ID()
	if _, ok := m.vals[id]; !ok {
		return false
	}
	delete(m.vals, id)
	delete(m.keys, id)
	return true
}

// CopyFrom pointwise-updates m from other's entries, per spec.md §4.1: the
// aggregate changed flag is the OR of the per-entry Update changes.
func (m *MapFact[K, V]) CopyFrom(other *MapFact[K, V]) bool {
	changed := false
	other.ForEach(func(k K, v V) {
		if m.Update(k, v) {
			changed = true
		}
	})
	return changed
}

// Equals reports whether m and other hold the same key/value pairs.
func (m *MapFact[K, V]) Equals(other *MapFact[K, V]) bool {
	if len(m.vals) != len(other.vals) {
		return false
	}
	for id, v := range m.vals {
		ov, ok := other.vals[id]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Size returns the number of entries.
func (m *MapFact[K, V]) Size() int { return len(m.vals) }

// ForEach calls fn once per entry, in map iteration order (spec.md §5: no
// guaranteed order).
func (m *MapFact[K, V]) ForEach(fn func(K, V)) {
	for id, k := range m.keys {
		fn(k, m.vals[id])
	}
}

// Copy returns an independent copy of m.
func (m *MapFact[K, V]) Copy() *MapFact[K, V] {
	cp := NewMapFact[K, V]()
	for id, k := range m.keys {
		cp.keys[id] = k
		cp.vals[id] = m.vals[id]
	}
	return cp
}
