package dataflow

import "github.com/bits-and-blooms/bitset"

// SetFact is a set of identity-keyed elements, backed by a bitset.BitSet the
// way the teacher's live-variables and reaching-definitions builders encode
// their IN/OUT sets (analysis/dataflow/live.go, analysis/dataflow/reaching.go).
// It is the concrete fact type for live variables (SetFact[*ir.Variable])
// and reaching definitions (SetFact[*ir.Statement]).
type SetFact[E Identity] struct {
	domain *Domain[E]
	bits   *bitset.BitSet
}

// NewSetFact returns an empty set over the given domain.
func NewSetFact[E Identity](domain *Domain[E]) *SetFact[E] {
	return &SetFact[E]{domain: domain, bits: new(bitset.BitSet)}
}

// Contains reports whether e is a member.
func (s *SetFact[E]) Contains(e E) bool {
	return s.bits.Test(s.domain.indexOf(e))
}

// Add inserts e, reporting whether the set changed.
func (s *SetFact[E]) Add(e E) bool {
	i := s.domain.indexOf(e)
	if s.bits.Test(i) {
		return false
	}
	s.bits.Set(i)
	return true
}

// Remove deletes e, reporting whether the set changed.
func (s *SetFact[E]) Remove(e E) bool {
	i := s.domain.indexOf(e)
	if !s.bits.Test(i) {
		return false
	}
	s.bits.Clear(i)
	return true
}

// RemoveIf deletes every element satisfying pred, reporting whether any
// removal occurred. Per spec.md §4.1, the to-remove elements are snapshotted
// before any mutation, since a bitset (like most containers) does not
// tolerate being mutated mid-iteration.
func (s *SetFact[E]) RemoveIf(pred func(E) bool) bool {
	var toRemove []uint
	for i, ok := uint(0), true; ok; i++ {
		if i, ok = s.bits.NextSet(i); ok {
			if pred(s.domain.at(i)) {
				toRemove = append(toRemove, i)
			}
		}
	}
	if len(toRemove) == 0 {
		return false
	}
	for _, i := range toRemove {
		s.bits.Clear(i)
	}
	return true
}

// RemoveAll deletes every element also present in other, reporting whether
// the set changed.
func (s *SetFact[E]) RemoveAll(other *SetFact[E]) bool {
	if other == nil || other.bits.None() {
		return false
	}
	old := s.bits.Clone()
	s.bits = s.bits.Difference(other.bits)
	return !old.Equal(s.bits)
}

// Union returns a fresh set holding the union of s and other, mutating
// neither (spec.md §4.1: "unionWith/intersectWith return a fresh fact
// without mutating either operand").
func (s *SetFact[E]) Union(other *SetFact[E]) *SetFact[E] {
	return &SetFact[E]{domain: s.domain, bits: s.bits.Union(other.bits)}
}

// Intersect returns a fresh set holding the intersection of s and other.
func (s *SetFact[E]) Intersect(other *SetFact[E]) *SetFact[E] {
	return &SetFact[E]{domain: s.domain, bits: s.bits.Intersection(other.bits)}
}

// MeetInto merges other into s in place — the union-meet used by reaching
// definitions and live variables — reporting whether s changed. This is
// what the worklist solver calls once per CFG edge.
func (s *SetFact[E]) MeetInto(other *SetFact[E]) bool {
	if other == nil || other.bits.None() {
		return false
	}
	old := s.bits.Clone()
	s.bits.InPlaceUnion(other.bits)
	return !old.Equal(s.bits)
}

// Copy returns an independent copy of s.
func (s *SetFact[E]) Copy() *SetFact[E] {
	return &SetFact[E]{domain: s.domain, bits: s.bits.Clone()}
}

// CopyFrom overwrites s's membership with other's, reporting whether s
// changed.
func (s *SetFact[E]) CopyFrom(other *SetFact[E]) bool {
	if s.bits.Equal(other.bits) {
		return false
	}
	s.bits = other.bits.Clone()
	return true
}

// Equals reports whether s and other hold the same elements.
func (s *SetFact[E]) Equals(other *SetFact[E]) bool {
	if other == nil {
		return s.bits.None()
	}
	return s.bits.Equal(other.bits)
}

// Size returns the number of members.
func (s *SetFact[E]) Size() uint { return s.bits.Count() }

// ForEach calls fn once per member, in bitset order (spec.md §5: callers
// must not depend on this order being meaningful).
func (s *SetFact[E]) ForEach(fn func(E)) {
	for i, ok := uint(0), true; ok; i++ {
		if i, ok = s.bits.NextSet(i); ok {
			fn(s.domain.at(i))
		}
	}
}

// Clear empties the set.
func (s *SetFact[E]) Clear() { s.bits.ClearAll() }

// Slice materializes the set's members. Convenience for tests and the
// report package; not part of the spec'd contract.
func (s *SetFact[E]) Slice() []E {
	out := make([]E, 0, s.Size())
	s.ForEach(func(e E) { out = append(out, e) })
	return out
}
