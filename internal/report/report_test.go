package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/flowc-dev/flowc/internal/dataflow"
	"github.com/flowc-dev/flowc/internal/dataflow/reaching"
	"github.com/flowc-dev/flowc/internal/frontend"
	"github.com/flowc-dev/flowc/internal/ir"
	"github.com/flowc-dev/flowc/internal/report"
)

type fakeType struct{}

func (fakeType) Name() string          { return "int" }
func (fakeType) IsInteger() bool       { return true }
func (fakeType) IsSignedInteger() bool { return true }

type fakeDecl struct{ name string }

func (d *fakeDecl) DeclKey() any        { return d.name }
func (d *fakeDecl) Name() string        { return d.name }
func (d *fakeDecl) Type() frontend.Type { return fakeType{} }

type fakeExpr struct {
	kind     frontend.ExprKind
	decl     frontend.Decl
	operands []frontend.Expr
}

func (e *fakeExpr) Kind() frontend.ExprKind        { return e.kind }
func (e *fakeExpr) Span() frontend.Span             { return frontend.Span{} }
func (e *fakeExpr) Type() frontend.Type             { return fakeType{} }
func (e *fakeExpr) Operator() string                { return "" }
func (e *fakeExpr) NumOperands() int                { return len(e.operands) }
func (e *fakeExpr) Operand(i int) frontend.Expr     { return e.operands[i] }
func (e *fakeExpr) Decl() frontend.Decl             { return e.decl }
func (e *fakeExpr) IntLiteral() (int, bool, int64)  { return 32, true, 1 }
func (e *fakeExpr) CastKind() frontend.CastKind     { return frontend.CastNone }
func (e *fakeExpr) CastTargetType() frontend.Type   { return nil }

type fakeStmt struct {
	span   frontend.Span
	render string
	expr   frontend.Expr
}

func (s *fakeStmt) Kind() frontend.StmtKind        { return frontend.StmtExpr }
func (s *fakeStmt) Span() frontend.Span             { return s.span }
func (s *fakeStmt) Render() string                  { return s.render }
func (s *fakeStmt) Handle() any                     { return s }
func (s *fakeStmt) DeclVars() []frontend.DeclVar    { return nil }
func (s *fakeStmt) Expr() frontend.Expr             { return s.expr }

func TestWritePlainTextRendersStatementAndFacts(t *testing.T) {
	x := &fakeDecl{name: "x"}
	s1 := &fakeStmt{span: frontend.Span{StartLine: 1}, render: "x = 1;", expr: &fakeExpr{kind: frontend.ExprAssign, operands: []frontend.Expr{&fakeExpr{kind: frontend.ExprVarRef, decl: x}, &fakeExpr{kind: frontend.ExprIntLiteral}}}}

	blk := &frontend.BasicBlock{Stmts: []frontend.Stmt{s1}}
	method := &frontend.Method{Signature: "void f()", Blocks: &frontend.BlockGraph{Blocks: []*frontend.BasicBlock{blk}, Entry: blk, Exit: blk}}
	m, err := ir.Build(method)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	a := reaching.New(m)
	result := dataflow.Solve[*reaching.Fact](a)

	b := report.NewBuilder("f.c", m)
	b.AddReaching(result)

	var buf bytes.Buffer
	if err := report.Write(&buf, b.Rows(), report.FormatText); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "* f.c 1: x = 1;") {
		t.Errorf("output missing statement header, got:\n%s", out)
	}
	if !strings.Contains(out, "ReachingOut:") {
		t.Errorf("output missing ReachingOut section, got:\n%s", out)
	}
}
