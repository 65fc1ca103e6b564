package dataflow

import (
	"github.com/flowc-dev/flowc/internal/errs"
	"github.com/flowc-dev/flowc/internal/ir"
)

// Result holds the in/out fact of every statement in a method, keyed by
// statement id, after a Solve run has reached its fixed point.
type Result[F any] struct {
	In  map[uint64]F
	Out map[uint64]F
}

// InOf/OutOf return the in/out fact for a statement, for callers that would
// rather not key a map by hand.
func (r *Result[F]) InOf(s *ir.Statement) F  { return r.In[s.ID()] }
func (r *Result[F]) OutOf(s *ir.Statement) F { return r.Out[s.ID()] }

// Solve runs a FIFO worklist iteration of a to a fixed point over a's CFG
// (spec.md §4.5, C8). The algorithm is direction-agnostic: a forward
// analysis (a.IsForward() == true) propagates entry -> exit, meeting a
// statement's predecessors' out facts into its in fact before transferring;
// a backward analysis propagates exit -> entry, meeting successors' in
// facts into a statement's out fact. Both directions share the same driver,
// generalizing the teacher's single hard-coded forward loop
// (analysis/dataflow/dataflow.go iterates reaching definitions only) to the
// bidirectional contract spec.md §4.4 calls for.
//
// Termination is guaranteed because every fact lattice used by the concrete
// analyses in this package's subpackages has finite height and every
// transfer function is monotonic (spec.md §9); Solve itself does not bound
// the iteration count.
func Solve[F any](a Analysis[F]) *Result[F] {
	if r, ok := a.(EdgeTransferRequester); ok && r.RequiresEdgeTransfer() {
		panic(errs.NewUnsupported("analysis requires edge-transfer, which the default solver never invokes"))
	}

	cfg := a.CFG()
	stmts := cfg.GetIR().Stmts()
	forward := a.IsForward()
	boundary := boundaryOf(cfg, forward)

	in := make(map[uint64]F, len(stmts))
	out := make(map[uint64]F, len(stmts))
	for _, s := range stmts {
		in[s.ID()] = a.NewInitialFact()
		out[s.ID()] = a.NewInitialFact()
	}
	if forward {
		in[boundary.ID()] = a.NewBoundaryFact()
	} else {
		out[boundary.ID()] = a.NewBoundaryFact()
	}

	queue := newFIFO(stmts)
	for !queue.empty() {
		s := queue.pop()

		if forward {
			if s != boundary {
				merged := a.NewInitialFact()
				for _, pred := range cfg.PredsOf(s) {
					a.MeetInto(out[pred.ID()], merged)
				}
				in[s.ID()] = merged
			}
			// TransferNode mutates out[s.ID()] in place (the fact types in
			// this package's subpackages are all reference types) and
			// reports whether that mutation actually changed it; that is
			// the worklist's sole change signal.
			if a.TransferNode(s, in[s.ID()], out[s.ID()]) {
				for _, succ := range cfg.SuccsOf(s) {
					queue.push(succ)
				}
			}
		} else {
			if s != boundary {
				merged := a.NewInitialFact()
				for _, succ := range cfg.SuccsOf(s) {
					a.MeetInto(in[succ.ID()], merged)
				}
				out[s.ID()] = merged
			}
			if a.TransferNode(s, in[s.ID()], out[s.ID()]) {
				for _, pred := range cfg.PredsOf(s) {
					queue.push(pred)
				}
			}
		}
	}

	return &Result[F]{In: in, Out: out}
}

func boundaryOf(cfg *ir.CFG, forward bool) *ir.Statement {
	if forward {
		return cfg.GetEntry()
	}
	return cfg.GetExit()
}

// fifo is a simple FIFO work queue over statements, deduplicated by id so a
// statement already pending isn't queued twice.
type fifo struct {
	items  []*ir.Statement
	queued map[uint64]bool
}

func newFIFO(seed []*ir.Statement) *fifo {
	q := &fifo{queued: make(map[uint64]bool, len(seed))}
	for _, s := range seed {
		q.push(s)
	}
	return q
}

func (q *fifo) push(s *ir.Statement) {
	if q.queued[s.ID()] {
		return
	}
	q.queued[s.ID()] = true
	q.items = append(q.items, s)
}

func (q *fifo) pop() *ir.Statement {
	s := q.items[0]
	q.items = q.items[1:]
	delete(q.queued, s.ID())
	return s
}

func (q *fifo) empty() bool { return len(q.items) == 0 }
