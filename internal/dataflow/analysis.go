package dataflow

import "github.com/flowc-dev/flowc/internal/ir"

// EdgeTransferRequester is an optional interface an Analysis can implement
// to ask the solver for per-edge-kind transfer (FALL_THROUGH vs JUMP vs
// ENTRY/EXIT handled differently), instead of the uniform per-node transfer
// the default Solve loop performs. The bundled solver has no edge-transfer
// dispatch of its own (spec.md §9: "declares edge-transfer unsupported by
// the default solver; re-introducing it is a future extension"), so an
// analysis that asks for it without the solver actually overriding the
// default gets a fatal errs.Unsupported rather than silently running with
// edge semantics it never received.
type EdgeTransferRequester interface {
	RequiresEdgeTransfer() bool
}

// Analysis is the contract a dataflow problem implements (spec.md §4.4).
// F is the fact type at each program point (SetFact[*ir.Variable] for live
// variables, SetFact[*ir.Statement] for reaching definitions, a CPFact for
// constant propagation).
type Analysis[F any] interface {
	// IsForward reports the propagation direction: true for forward
	// analyses (reaching definitions, constant propagation), false for
	// backward ones (live variables).
	IsForward() bool

	// NewBoundaryFact is the fact installed at the CFG's entry (forward)
	// or exit (backward) node before iteration begins.
	NewBoundaryFact() F

	// NewInitialFact is the fact installed at every other node.
	NewInitialFact() F

	// MeetInto merges src into dst in place — the lattice's join — and
	// must be monotonic for the solver to terminate (spec.md §9).
	MeetInto(src, dst F)

	// TransferNode updates out (forward) or in (backward) from the other
	// side, reporting whether the updated side changed.
	TransferNode(stmt *ir.Statement, in, out F) bool

	// CFG is the graph the solver iterates.
	CFG() *ir.CFG
}
