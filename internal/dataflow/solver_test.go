package dataflow_test

import (
	"testing"

	"github.com/flowc-dev/flowc/internal/dataflow"
	"github.com/flowc-dev/flowc/internal/frontend"
	"github.com/flowc-dev/flowc/internal/ir"
)

// A tiny hand-rolled forward analysis over *ir.Statement identity: out(s) =
// in(s) union {s} for any non-nop statement, in(s) = union of preds' out.
// This is exactly reaching definitions restricted to "defines itself",
// enough to exercise Solve's forward direction, meet, and fixed-point
// termination over a diamond CFG without depending on the real reaching
// definitions package.
type selfDefAnalysis struct {
	cfg    *ir.CFG
	domain *dataflow.Domain[*ir.Statement]
}

func (a *selfDefAnalysis) IsForward() bool                   { return true }
func (a *selfDefAnalysis) NewBoundaryFact() *dataflow.SetFact[*ir.Statement] {
	return dataflow.NewSetFact(a.domain)
}
func (a *selfDefAnalysis) NewInitialFact() *dataflow.SetFact[*ir.Statement] {
	return dataflow.NewSetFact(a.domain)
}
func (a *selfDefAnalysis) MeetInto(src, dst *dataflow.SetFact[*ir.Statement]) {
	dst.MeetInto(src)
}
func (a *selfDefAnalysis) TransferNode(stmt *ir.Statement, in, out *dataflow.SetFact[*ir.Statement]) bool {
	changed := out.CopyFrom(in)
	if !stmt.IsNop() {
		if out.Add(stmt) {
			changed = true
		}
	}
	return changed
}
func (a *selfDefAnalysis) CFG() *ir.CFG { return a.cfg }

func at(line int) frontend.Span { return frontend.Span{StartLine: line, StartCol: 1, EndLine: line, EndCol: 1} }

func buildDiamond(t *testing.T) *ir.IR {
	t.Helper()
	entryBlk := &frontend.BasicBlock{}
	thenBlk := &frontend.BasicBlock{Stmts: []frontend.Stmt{&fakeLeafStmt{span: at(2), render: "then;"}}}
	elseBlk := &frontend.BasicBlock{Stmts: []frontend.Stmt{&fakeLeafStmt{span: at(3), render: "else;"}}}
	joinBlk := &frontend.BasicBlock{Stmts: []frontend.Stmt{&fakeLeafStmt{span: at(4), render: "join;"}}}
	entryBlk.Succs = []*frontend.BasicBlock{thenBlk, elseBlk}
	thenBlk.Succs = []*frontend.BasicBlock{joinBlk}
	elseBlk.Succs = []*frontend.BasicBlock{joinBlk}

	method := &frontend.Method{
		Signature: "void diamond()",
		Blocks: &frontend.BlockGraph{
			Blocks: []*frontend.BasicBlock{entryBlk, thenBlk, elseBlk, joinBlk},
			Entry:  entryBlk,
			Exit:   joinBlk,
		},
	}
	m, err := ir.Build(method)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

// fakeLeafStmt is a frontend.Stmt with no sub-expressions at all, for tests
// that only care about CFG shape, not def/use extraction.
type fakeLeafStmt struct {
	span   frontend.Span
	render string
}

func (s *fakeLeafStmt) Kind() frontend.StmtKind     { return frontend.StmtOther }
func (s *fakeLeafStmt) Span() frontend.Span         { return s.span }
func (s *fakeLeafStmt) Render() string              { return s.render }
func (s *fakeLeafStmt) Handle() any                 { return s }
func (s *fakeLeafStmt) DeclVars() []frontend.DeclVar { return nil }
func (s *fakeLeafStmt) Expr() frontend.Expr         { return nil }

func TestSolveForwardDiamondUnionsBothBranchesAtJoin(t *testing.T) {
	m := buildDiamond(t)
	domain := dataflow.NewDomain[*ir.Statement]()
	a := &selfDefAnalysis{cfg: m.CFG(), domain: domain}

	result := dataflow.Solve[*dataflow.SetFact[*ir.Statement]](a)

	var then, els, join *ir.Statement
	for _, s := range m.Stmts() {
		switch s.String() {
		case "then;":
			then = s
		case "else;":
			els = s
		case "join;":
			join = s
		}
	}

	joinIn := result.InOf(join)
	if !joinIn.Contains(then) || !joinIn.Contains(els) {
		t.Errorf("join's in-fact should contain both branch statements, got size %d", joinIn.Size())
	}

	joinOut := result.OutOf(join)
	if !joinOut.Contains(join) {
		t.Error("join's out-fact should contain join itself")
	}
}

func TestSolveForwardEntryHasEmptyInFact(t *testing.T) {
	m := buildDiamond(t)
	domain := dataflow.NewDomain[*ir.Statement]()
	a := &selfDefAnalysis{cfg: m.CFG(), domain: domain}

	result := dataflow.Solve[*dataflow.SetFact[*ir.Statement]](a)

	entryIn := result.InOf(m.CFG().GetEntry())
	if entryIn.Size() != 0 {
		t.Errorf("entry in-fact size = %d, want 0 (boundary fact)", entryIn.Size())
	}
}
