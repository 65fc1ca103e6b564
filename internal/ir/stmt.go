package ir

import "github.com/flowc-dev/flowc/internal/frontend"

// StmtKind classifies a Statement for reporting purposes; the analyses
// themselves only ever look at a statement's def/use sets, never its kind.
type StmtKind int

const (
	KindNop StmtKind = iota
	KindDecl
	KindAssign
	KindCompoundAssign
	KindIncDec
	KindExpr
	KindOther
)

// Statement is one unit of computation (spec.md §3): a source span, the
// owning method, its def/use sets, a human-readable rendering, and a
// pointer-like handle back to the underlying front-end node. The IR builder
// constructs exactly one Statement per front-end statement (or per
// synthetic nop); every CFG edge and every def/use set refers to that same
// pointer, which is what makes Statement.ID() a valid fact-container key.
type Statement struct {
	id     uint64
	method string
	span   frontend.Span
	kind   StmtKind
	str    string
	handle any
	front  frontend.Stmt

	def []*Variable
	use []*Variable
}

// newStatement constructs a Statement wrapping a front-end node. Only
// called from builder.go.
func newStatement(gen *StmtGen, method string, kind StmtKind, span frontend.Span, str string, handle any, front frontend.Stmt, def, use []*Variable) *Statement {
	return &Statement{
		id:     gen.ids.take(),
		method: method,
		span:   span,
		kind:   kind,
		str:    str,
		handle: handle,
		front:  front,
		def:    def,
		use:    use,
	}
}

// newNop returns a synthetic nop: empty def/use, span (-1,-1), nil handle
// (spec.md §3).
func newNop(gen *StmtGen, method, str string) *Statement {
	return &Statement{id: gen.ids.take(), method: method, span: frontend.Unknown, kind: KindNop, str: str}
}

// ID implements dataflow.Identity.
func (s *Statement) ID() uint64 { return s.id }

// Span returns the statement's source range.
func (s *Statement) Span() frontend.Span { return s.span }

// Kind reports the statement's classification.
func (s *Statement) Kind() StmtKind { return s.kind }

// String returns the statement's human-readable rendering.
func (s *Statement) String() string { return s.str }

// Handle returns the opaque front-end node underlying this statement, or
// nil for synthetic statements.
func (s *Statement) Handle() any { return s.handle }

// FrontendStmt returns the front-end Stmt this Statement was built from, or
// nil for synthetic entry/exit/empty-block nops. Concrete analyses that
// need to re-evaluate a statement's governing expression (constant
// propagation's transfer function) use this; the generic core itself never
// does.
func (s *Statement) FrontendStmt() frontend.Stmt { return s.front }

// Method returns the signature of the owning method.
func (s *Statement) Method() string { return s.method }

// Defs returns the variables this statement may assign to.
func (s *Statement) Defs() []*Variable { return s.def }

// Uses returns the variables whose value this statement reads at rvalue
// position.
func (s *Statement) Uses() []*Variable { return s.use }

// IsNop reports whether this is a synthetic entry/exit/empty-block
// placeholder.
func (s *Statement) IsNop() bool { return s.kind == KindNop }

// StmtGen assigns stable per-IR ids to statements, the "per-IR counter"
// spec.md §9 calls for as an identity source in a language without pointer
// identity.
type StmtGen struct {
	ids idGen
}

// NewStmtGen returns a fresh per-IR statement id generator.
func NewStmtGen() *StmtGen { return &StmtGen{} }
