package reaching_test

import (
	"testing"

	"github.com/flowc-dev/flowc/internal/dataflow"
	"github.com/flowc-dev/flowc/internal/dataflow/reaching"
	"github.com/flowc-dev/flowc/internal/frontend"
	"github.com/flowc-dev/flowc/internal/ir"
)

type fakeType struct{ name string }

func (t fakeType) Name() string          { return t.name }
func (t fakeType) IsInteger() bool       { return true }
func (t fakeType) IsSignedInteger() bool { return true }

type fakeDecl struct{ name string }

func (d *fakeDecl) DeclKey() any        { return d.name }
func (d *fakeDecl) Name() string        { return d.name }
func (d *fakeDecl) Type() frontend.Type { return fakeType{name: "int"} }

type fakeExpr struct {
	kind     frontend.ExprKind
	decl     frontend.Decl
	operands []frontend.Expr
}

func (e *fakeExpr) Kind() frontend.ExprKind        { return e.kind }
func (e *fakeExpr) Span() frontend.Span            { return frontend.Span{} }
func (e *fakeExpr) Type() frontend.Type            { return fakeType{name: "int"} }
func (e *fakeExpr) Operator() string               { return "" }
func (e *fakeExpr) NumOperands() int                { return len(e.operands) }
func (e *fakeExpr) Operand(i int) frontend.Expr     { return e.operands[i] }
func (e *fakeExpr) Decl() frontend.Decl             { return e.decl }
func (e *fakeExpr) IntLiteral() (int, bool, int64)  { return 32, true, 0 }
func (e *fakeExpr) CastKind() frontend.CastKind     { return frontend.CastNone }
func (e *fakeExpr) CastTargetType() frontend.Type   { return nil }

func varRef(d frontend.Decl) *fakeExpr { return &fakeExpr{kind: frontend.ExprVarRef, decl: d} }
func use(d frontend.Decl) *fakeExpr     { return &fakeExpr{kind: frontend.ExprLValueToRValue, decl: d} }

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

func at(line int) frontend.Span { return frontend.Span{StartLine: line, StartCol: 1} }

// x = 1; x = 2; y = x;
// The second assignment to x kills the first; y = x sees only the second.
func TestReachingDefinitionsKillsEarlierDefiner(t *testing.T) {
	x := &fakeDecl{name: "x"}
	y := &fakeDecl{name: "y"}

	s1 := &fakeStmt{span: at(1), render: "x = 1;", expr: &fakeExpr{kind: frontend.ExprAssign, operands: []frontend.Expr{varRef(x), &fakeExpr{kind: frontend.ExprIntLiteral}}}}
	s2 := &fakeStmt{span: at(2), render: "x = 2;", expr: &fakeExpr{kind: frontend.ExprAssign, operands: []frontend.Expr{varRef(x), &fakeExpr{kind: frontend.ExprIntLiteral}}}}
	s3 := &fakeStmt{span: at(3), render: "y = x;", expr: &fakeExpr{kind: frontend.ExprAssign, operands: []frontend.Expr{varRef(y), use(x)}}}

	blk := &frontend.BasicBlock{Stmts: []frontend.Stmt{s1, s2, s3}}
	method := &frontend.Method{
		Signature: "void f()",
		Blocks:    &frontend.BlockGraph{Blocks: []*frontend.BasicBlock{blk}, Entry: blk, Exit: blk},
	}

	m, err := ir.Build(method)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	a := reaching.New(m)
	result := dataflow.Solve[*reaching.Fact](a)

	var def1, def2, def3 *ir.Statement
	for _, s := range m.Stmts() {
		switch s.String() {
		case "x = 1;":
			def1 = s
		case "x = 2;":
			def2 = s
		case "y = x;":
			def3 = s
		}
	}

	in3 := result.InOf(def3)
	if in3.Contains(def1) {
		t.Error("y = x; should not see the killed x = 1; definition")
	}
	if !in3.Contains(def2) {
		t.Error("y = x; should see the surviving x = 2; definition")
	}
}
