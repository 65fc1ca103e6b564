package dataflow

// Domain assigns a stable bit index to every Identity it has seen, the same
// trick the teacher's live/reaching builders use (varIndices/lv.vars in
// analysis/dataflow/live.go, okills/oind in analysis/dataflow/reaching.go):
// an element's identity maps to a bitset.BitSet position, so SetFact values
// built against the same Domain can be unioned/intersected with plain bit
// operations instead of map merges.
//
// One Domain is shared by every SetFact produced for a single analysis run;
// mixing SetFacts from different Domains is a programming error (their bit
// positions don't correspond to the same elements).
type Domain[E Identity] struct {
	index   map[uint64]uint
	members []E
}

// NewDomain returns an empty domain, growing lazily as elements are seen.
func NewDomain[E Identity]() *Domain[E] {
	return &Domain[E]{index: make(map[uint64]uint)}
}

// indexOf returns e's bit index, assigning a fresh one the first time e's
// identity is seen.
func (d *Domain[E]) indexOf(e E) uint {
	if i, ok := d.index[e.ID()]; ok {
		return i
	}
	i := uint(len(d.members))
	d.index[e.ID()] = i
	d.members = append(d.members, e)
	return i
}

func (d *Domain[E]) at(i uint) E { return d.members[i] }

// Len returns the number of distinct elements the domain has assigned an
// index to so far.
func (d *Domain[E]) Len() int { return len(d.members) }
