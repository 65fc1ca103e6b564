package ir

// IR is the per-method bundle spec.md §3 describes: the method signature,
// its ordered parameter list, its variable universe (unique by identity),
// its statement list (ordered by source start-line, ties broken by
// start-column), and its owning CFG. An IR is immutable once built and is
// retained by the program index for the lifetime of a run (spec.md §3, §5).
type IR struct {
	signature string
	params    []*Variable
	vars      []*Variable
	stmts     []*Statement
	cfg       *CFG
}

func newIR(signature string, params, vars []*Variable, stmts []*Statement, cfg *CFG) *IR {
	m := &IR{signature: signature, params: params, vars: vars, stmts: stmts, cfg: cfg}
	cfg.setIR(m)
	return m
}

// Signature returns the owning method's program-wide key.
func (m *IR) Signature() string { return m.signature }

// Params returns the method's parameters, in declaration order.
func (m *IR) Params() []*Variable { return m.params }

// Vars returns every variable in the method's universe, each appearing
// exactly once regardless of how many statements reference it.
func (m *IR) Vars() []*Variable { return m.vars }

// Stmts returns the method's statements, ordered by source position.
func (m *IR) Stmts() []*Statement { return m.stmts }

// CFG returns the method's control flow graph.
func (m *IR) CFG() *CFG { return m.cfg }
