package ir

import (
	"fmt"
	"sort"

	"github.com/flowc-dev/flowc/internal/frontend"
)

// Build translates a front-end method (its parameters, body and its own
// statement-level block graph) into this analyzer's per-method IR, per the
// six-step algorithm in spec.md §4.3. It is the sole entry point for
// constructing an IR or a CFG; everything in cfg.go/ir.go/stmt.go/
// variable.go that looks like a setter is only ever called from here.
//
// This generalizes the teacher's defs()/uses()/idents() AST walk
// (analysis/dataflow/dataflow.go) from go/ast node kinds to the front-end
// expression contract (internal/frontend), and its statement-level CFG
// construction (extras/cfg/cfg.go's builder) from a single ad hoc
// recursive-descent-over-go/ast builder to a translation from an
// already-built front-end block graph.
func Build(method *frontend.Method) (*IR, error) {
	b := &builder{
		signature: method.Signature,
		varGen:    NewVarGen(),
		stmtGen:   NewStmtGen(),
		declVars:  make(map[any]*Variable),
		wrapped:   make(map[frontend.Stmt]*Statement),
		empties:   make(map[*frontend.BasicBlock]*Statement),
	}
	return b.build(method)
}

type builder struct {
	signature string
	varGen    *VarGen
	stmtGen   *StmtGen
	declVars  map[any]*Variable // frontend Decl.DeclKey() -> Variable
	vars      []*Variable

	wrapped map[frontend.Stmt]*Statement       // front-end stmt -> analyzer Statement
	empties map[*frontend.BasicBlock]*Statement // empty block -> its synthetic nop

	stmts []*Statement
	cfg   *CFG
}

func (b *builder) build(method *frontend.Method) (*IR, error) {
	if method.Blocks == nil || method.Blocks.Entry == nil || method.Blocks.Exit == nil {
		return nil, fmt.Errorf("ir: method %q has no block graph", method.Signature)
	}

	// Step 1: parameter variables, in order, seeding the universe.
	params := make([]*Variable, 0, len(method.Params))
	for _, p := range method.Params {
		v := b.varFor(p.Decl)
		params = append(params, v)
	}

	// Step 2: wrap every front-end statement, populating the universe.
	for _, blk := range method.Blocks.Blocks {
		for _, s := range blk.Stmts {
			b.wrapStmt(s)
		}
	}

	// Step 3: synthetic entry/exit.
	b.cfg = newCFG()
	entry := newNop(b.stmtGen, b.signature, "ENTRY")
	exit := newNop(b.stmtGen, b.signature, "EXIT")
	b.cfg.setEntry(entry)
	b.cfg.setExit(exit)
	b.stmts = append(b.stmts, entry, exit)

	// Step 4: translate each front-end block's internal and inter-block
	// flow into edges over analyzer statements.
	for _, blk := range method.Blocks.Blocks {
		b.wireBlock(method.Blocks, blk, entry, exit)
	}

	// Step 5: sort by (start-line, start-col). Synthetic nops sort first
	// (span (-1,-1)) but that has no observable effect: callers reach them
	// via CFG.GetEntry/GetExit, never by scanning IR.Stmts() order.
	sort.SliceStable(b.stmts, func(i, j int) bool {
		si, sj := b.stmts[i].Span(), b.stmts[j].Span()
		if si.StartLine != sj.StartLine {
			return si.StartLine < sj.StartLine
		}
		return si.StartCol < sj.StartCol
	})

	return newIR(b.signature, params, b.vars, b.stmts, b.cfg), nil
}

func (b *builder) varFor(decl frontend.Decl) *Variable {
	k := decl.DeclKey()
	if v, ok := b.declVars[k]; ok {
		return v
	}
	v := NewVariable(b.varGen, b.signature, decl.Name(), decl.Type(), k)
	b.declVars[k] = v
	b.vars = append(b.vars, v)
	return v
}

// wrapStmt builds (and memoizes) the analyzer Statement for one front-end
// statement, extracting its def/use sets and registering any variables it
// introduces or references.
func (b *builder) wrapStmt(s frontend.Stmt) *Statement {
	if existing, ok := b.wrapped[s]; ok {
		return existing
	}

	def, use := newDeclSet(), newDeclSet()
	var kind StmtKind

	switch s.Kind() {
	case frontend.StmtDecl:
		kind = KindDecl
		for _, dv := range s.DeclVars() {
			if dv.Init == nil {
				// A declaration without an initializer assigns nothing: its
				// variable joins the universe but is not a def.
				b.varFor(dv.Decl)
				continue
			}
			def.add(dv.Decl)
			extractExprUseDef(dv.Init, def, use)
		}
	default:
		kind = KindOther
		if e := s.Expr(); e != nil {
			kind = exprStmtKind(e.Kind())
			extractExprUseDef(e, def, use)
		}
	}

	defVars := make([]*Variable, 0, len(def.order))
	for _, d := range def.order {
		defVars = append(defVars, b.varFor(d))
	}
	useVars := make([]*Variable, 0, len(use.order))
	for _, d := range use.order {
		useVars = append(useVars, b.varFor(d))
	}

	stmt := newStatement(b.stmtGen, b.signature, kind, s.Span(), s.Render(), s.Handle(), s, defVars, useVars)
	b.wrapped[s] = stmt
	b.stmts = append(b.stmts, stmt)
	return stmt
}

func exprStmtKind(k frontend.ExprKind) StmtKind {
	switch k {
	case frontend.ExprAssign:
		return KindAssign
	case frontend.ExprCompoundAssign:
		return KindCompoundAssign
	case frontend.ExprPreInc, frontend.ExprPreDec, frontend.ExprPostInc, frontend.ExprPostDec:
		return KindIncDec
	default:
		return KindExpr
	}
}

// firstStmtOf returns the analyzer Statement flow should enter B through: B's
// first wrapped statement, or a synthetic nop created at most once for an
// empty B (spec.md §4.3 step 4).
func (b *builder) firstStmtOf(blk *frontend.BasicBlock) *Statement {
	if len(blk.Stmts) > 0 {
		return b.wrapped[blk.Stmts[0]]
	}
	return b.emptyNop(blk)
}

// lastStmtOf returns the analyzer Statement flow should leave B through.
func (b *builder) lastStmtOf(blk *frontend.BasicBlock) *Statement {
	if len(blk.Stmts) > 0 {
		return b.wrapped[blk.Stmts[len(blk.Stmts)-1]]
	}
	return b.emptyNop(blk)
}

func (b *builder) emptyNop(blk *frontend.BasicBlock) *Statement {
	if s, ok := b.empties[blk]; ok {
		return s
	}
	s := newNop(b.stmtGen, b.signature, "<empty block>")
	b.empties[blk] = s
	b.stmts = append(b.stmts, s)
	return s
}

// wireBlock emits FALL_THROUGH edges within blk, then ENTRY/JUMP/EXIT edges
// to its neighbors, per the edge-kind disambiguation rule in spec.md §4.3:
// intra-block sequential control is always FALL_THROUGH; every inter-block
// transition is JUMP, even with no literal jump in the source (this is what
// models loop back-edges and join points uniformly); the transition to the
// synthetic exit nop is always EXIT, emitted once by the block graph's exit
// block itself rather than by each of its predecessors, so that real
// statements living in the exit block stay reachable through a normal JUMP
// edge instead of being bypassed.
func (b *builder) wireBlock(bg *frontend.BlockGraph, blk *frontend.BasicBlock, entry, exit *Statement) {
	for i := 0; i+1 < len(blk.Stmts); i++ {
		b.cfg.addEdge(b.wrapped[blk.Stmts[i]], b.wrapped[blk.Stmts[i+1]], EdgeFallThrough)
	}

	if blk == bg.Entry {
		b.cfg.addEdge(entry, b.firstStmtOf(blk), EdgeEntry)
	}

	src := b.lastStmtOf(blk)
	if blk == bg.Exit {
		b.cfg.addEdge(src, exit, EdgeExit)
	}
	for _, succ := range blk.Succs {
		b.cfg.addEdge(src, b.firstStmtOf(succ), EdgeJump)
	}
}
