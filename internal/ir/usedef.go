package ir

import "github.com/flowc-dev/flowc/internal/frontend"

// declSet is an insertion-ordered, dedup-by-DeclKey set of front-end
// declarations. Insertion order is preserved purely so Defs()/Uses() come
// out in a deterministic, source-ish order; nothing depends on the order
// for correctness.
type declSet struct {
	order []frontend.Decl
	seen  map[any]struct{}
}

func newDeclSet() *declSet {
	return &declSet{seen: make(map[any]struct{})}
}

func (s *declSet) add(d frontend.Decl) {
	if d == nil {
		return
	}
	k := d.DeclKey()
	if _, ok := s.seen[k]; ok {
		return
	}
	s.seen[k] = struct{}{}
	s.order = append(s.order, d)
}

// declOf returns the declaration a bare variable reference or an
// lvalue-to-rvalue conversion names, or nil for anything else.
func declOf(e frontend.Expr) frontend.Decl {
	switch e.Kind() {
	case frontend.ExprVarRef, frontend.ExprLValueToRValue:
		return e.Decl()
	default:
		return nil
	}
}

// collectDecls walks e's entire subtree, adding every declaration any node
// in it names into out. Used for increment/decrement operands, where the
// teacher's idents(stmt.X) walk (analysis/dataflow/dataflow.go) treats
// *every* identifier under X as both def and use — so `a[i]++` marks both
// a and i.
func collectDecls(e frontend.Expr, out *declSet) {
	if e == nil {
		return
	}
	if d := declOf(e); d != nil {
		out.add(d)
	}
	for i := 0; i < e.NumOperands(); i++ {
		collectDecls(e.Operand(i), out)
	}
}

// extractExprUseDef extracts e's contribution to a statement's def and use
// sets, per spec.md §3's rules generalized from the teacher's
// defs()/uses() pair:
//
//   - a bare variable reference (ExprVarRef) is a def
//   - an lvalue-to-rvalue conversion (ExprLValueToRValue) is a use
//   - increment/decrement add every declaration in the operand to both
//     def and use
//   - assignment and compound assignment special-case an index-expression
//     lhs (a[i] = ..., a[i] += ...) as use-only: the index computation
//     reads a and i, it does not define either
//   - everything else recurses over operands
func extractExprUseDef(e frontend.Expr, def, use *declSet) {
	if e == nil {
		return
	}

	switch e.Kind() {
	case frontend.ExprVarRef:
		def.add(e.Decl())

	case frontend.ExprLValueToRValue:
		use.add(e.Decl())

	case frontend.ExprPreInc, frontend.ExprPreDec, frontend.ExprPostInc, frontend.ExprPostDec:
		operand := e.Operand(0)
		collectDecls(operand, def)
		collectDecls(operand, use)

	case frontend.ExprCompoundAssign:
		lhs, rhs := e.Operand(0), e.Operand(1)
		if lhs.Kind() == frontend.ExprIndex {
			collectIntoUse(lhs, use)
		} else {
			extractExprUseDef(lhs, def, use)
		}
		extractExprUseDef(rhs, def, use)

	case frontend.ExprAssign:
		lhs, rhs := e.Operand(0), e.Operand(1)
		if lhs.Kind() == frontend.ExprIndex {
			collectIntoUse(lhs, use)
		} else {
			extractExprUseDef(lhs, def, use)
		}
		extractExprUseDef(rhs, def, use)

	default:
		for i := 0; i < e.NumOperands(); i++ {
			extractExprUseDef(e.Operand(i), def, use)
		}
	}
}

// collectIntoUse walks e's subtree the way extractExprUseDef would, but
// folds every def it would have produced into use instead: an index-expr
// lvalue (a[i]) is read in full to compute the address, never defined
// itself.
func collectIntoUse(e frontend.Expr, use *declSet) {
	if e == nil {
		return
	}
	if d := declOf(e); d != nil {
		use.add(d)
		return
	}
	for i := 0; i < e.NumOperands(); i++ {
		collectIntoUse(e.Operand(i), use)
	}
}
