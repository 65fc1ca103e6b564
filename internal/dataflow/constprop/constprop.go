package constprop

import (
	"github.com/flowc-dev/flowc/internal/dataflow"
	"github.com/flowc-dev/flowc/internal/frontend"
	"github.com/flowc-dev/flowc/internal/ir"
)

// Fact is the constant-propagation fact at one program point: every
// variable's current CPValue, keyed by identity (spec.md §4.8).
type Fact = dataflow.MapFact[*ir.Variable, CPValue]

// Analysis is a forward dataflow problem over CPValue (spec.md §4.8, §8).
// Unlike reaching definitions and live variables, its fact is a
// total-ish map rather than a set: a variable with no entry is UNDEF.
type Analysis struct {
	cfg    *ir.CFG
	byDecl map[any]*ir.Variable
	params map[uint64]bool
}

// New builds a constant-propagation analysis over m's CFG. Parameters are
// seeded as NAC at the method's boundary (spec.md §4.8: a method's
// parameters arrive from an unknown caller, so they can never be folded to
// a compile-time constant).
func New(m *ir.IR) *Analysis {
	byDecl := make(map[any]*ir.Variable, len(m.Vars()))
	for _, v := range m.Vars() {
		byDecl[v.DeclKey()] = v
	}
	params := make(map[uint64]bool, len(m.Params()))
	for _, p := range m.Params() {
		params[p.ID()] = true
	}
	return &Analysis{cfg: m.CFG(), byDecl: byDecl, params: params}
}

// Describe names this analysis for logging; see reaching.Analysis.Describe.
func (a *Analysis) Describe() string { return "constant propagation analysis" }

func (a *Analysis) IsForward() bool { return true }

// NewBoundaryFact seeds every parameter as NAC; every other variable is
// implicitly UNDEF (a MapFact lookup miss).
func (a *Analysis) NewBoundaryFact() *Fact {
	f := dataflow.NewMapFact[*ir.Variable, CPValue]()
	for _, v := range a.byDecl {
		if a.params[v.ID()] {
			f.Update(v, NACValue)
		}
	}
	return f
}

func (a *Analysis) NewInitialFact() *Fact {
	return dataflow.NewMapFact[*ir.Variable, CPValue]()
}

func (a *Analysis) MeetInto(src, dst *Fact) {
	src.ForEach(func(v *ir.Variable, sv CPValue) {
		if dv, ok := dst.Get(v); ok {
			dst.Update(v, Meet(dv, sv))
		} else {
			dst.Update(v, sv)
		}
	})
}

// TransferNode computes OUT from IN: it copies IN, then folds the governing
// expression's eval across it (spec.md §4.8: "fold eval across the
// expression tree, updating out as a side effect of assignment-shaped
// sub-expressions"). A declaration's initializer is evaluated the same way;
// a bare declaration with no initializer defines its variable as UNDEF.
func (a *Analysis) TransferNode(stmt *ir.Statement, in, out *Fact) bool {
	changed := out.CopyFrom(in)

	front := stmt.FrontendStmt()
	if front == nil {
		return changed
	}

	resolve := func(d frontend.Decl) *ir.Variable {
		if d == nil {
			return nil
		}
		return a.byDecl[d.DeclKey()]
	}

	switch front.Kind() {
	case frontend.StmtDecl:
		for _, dv := range front.DeclVars() {
			v := resolve(dv.Decl)
			if v == nil {
				continue
			}
			val := UndefValue
			if dv.Init != nil {
				val = evalExpr(dv.Init, out, resolve, &changed)
			}
			if out.Update(v, val) {
				changed = true
			}
		}

	default:
		if e := front.Expr(); e != nil {
			evalExpr(e, out, resolve, &changed)
		}
	}

	return changed
}

// declOf returns the declaration a bare variable reference or
// lvalue-to-rvalue conversion names, mirroring internal/ir's own declOf; it
// is duplicated here rather than exported from internal/ir to keep that
// package's use/def extraction private to the builder.
func declOf(e frontend.Expr) frontend.Decl {
	switch e.Kind() {
	case frontend.ExprVarRef, frontend.ExprLValueToRValue:
		return e.Decl()
	default:
		return nil
	}
}

// baseOp strips a compound assignment operator's trailing '=' (e.g. "+="
// becomes "+"), the arithmetic evalBinary applies to the variable's old
// value and the right-hand side.
func baseOp(op string) string {
	if len(op) > 1 && op[len(op)-1] == '=' {
		return op[:len(op)-1]
	}
	return op
}

func (a *Analysis) CFG() *ir.CFG { return a.cfg }
