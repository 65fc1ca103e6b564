package dataflow

import "testing"

// elem is a minimal Identity for exercising SetFact/MapFact independent of
// the ir package, the way the teacher's dataflow_test.go builds throwaway
// ast.Stmt literals rather than a full parsed program.
type elem struct{ id uint64 }

func (e elem) ID() uint64 { return e.id }

func TestSetFactAddContainsRemove(t *testing.T) {
	d := NewDomain[elem]()
	s := NewSetFact(d)
	a, b := elem{1}, elem{2}

	if s.Contains(a) {
		t.Fatal("empty set should not contain a")
	}
	if !s.Add(a) {
		t.Fatal("first add of a should report changed")
	}
	if s.Add(a) {
		t.Fatal("second add of a should report unchanged")
	}
	if !s.Contains(a) || s.Contains(b) {
		t.Fatal("membership wrong after add")
	}
	if !s.Remove(a) {
		t.Fatal("remove of present element should report changed")
	}
	if s.Remove(a) {
		t.Fatal("remove of absent element should report unchanged")
	}
}

func TestSetFactRemoveIfSnapshotsBeforeMutating(t *testing.T) {
	d := NewDomain[elem]()
	s := NewSetFact(d)
	for i := uint64(1); i <= 5; i++ {
		s.Add(elem{i})
	}

	changed := s.RemoveIf(func(e elem) bool { return e.id%2 == 0 })
	if !changed {
		t.Fatal("expected a change")
	}
	if s.Size() != 3 {
		t.Fatalf("expected 3 odd survivors, got %d", s.Size())
	}
	s.ForEach(func(e elem) {
		if e.id%2 == 0 {
			t.Fatalf("even element %d survived RemoveIf", e.id)
		}
	})
}

func TestSetFactUnionIntersectDoNotMutateOperands(t *testing.T) {
	d := NewDomain[elem]()
	a := NewSetFact(d)
	b := NewSetFact(d)
	a.Add(elem{1})
	a.Add(elem{2})
	b.Add(elem{2})
	b.Add(elem{3})

	u := a.Union(b)
	if u.Size() != 3 {
		t.Fatalf("union size = %d, want 3", u.Size())
	}
	if a.Size() != 2 || b.Size() != 2 {
		t.Fatal("union mutated an operand")
	}

	i := a.Intersect(b)
	if i.Size() != 1 || !i.Contains(elem{2}) {
		t.Fatal("intersect wrong")
	}
}

func TestSetFactMeetIntoIsUnion(t *testing.T) {
	d := NewDomain[elem]()
	out := NewSetFact(d)
	in := NewSetFact(d)
	in.Add(elem{1})

	if !out.MeetInto(in) {
		t.Fatal("meet of non-empty into empty should change")
	}
	if !out.Contains(elem{1}) {
		t.Fatal("meet should have unioned in's member into out")
	}
	if out.MeetInto(in) {
		t.Fatal("second meet of the same fact should not change anything")
	}
}

func TestSetFactCopyFromAndEquals(t *testing.T) {
	d := NewDomain[elem]()
	a := NewSetFact(d)
	a.Add(elem{1})
	b := NewSetFact(d)

	if !b.CopyFrom(a) {
		t.Fatal("copyFrom onto an empty set should report changed")
	}
	if !a.Equals(b) {
		t.Fatal("a and b should be equal after copyFrom")
	}
	if b.CopyFrom(a) {
		t.Fatal("copyFrom of an identical fact should report unchanged")
	}
}

func TestSetFactClear(t *testing.T) {
	d := NewDomain[elem]()
	s := NewSetFact(d)
	s.Add(elem{1})
	s.Add(elem{2})
	s.Clear()
	if s.Size() != 0 {
		t.Fatalf("size after Clear = %d, want 0", s.Size())
	}
}
