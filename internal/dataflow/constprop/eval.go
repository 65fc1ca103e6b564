package constprop

import (
	"github.com/flowc-dev/flowc/internal/frontend"
	"github.com/flowc-dev/flowc/internal/ir"
)

// castWidth maps a recognised CastKind to its bit width, per the table
// spec.md §8 fixes exactly: Bool -> 1, Char -> 8, Short/Char16 -> 16,
// Int/Char32 -> 32, Long/LongLong -> 64. CastOther (and anything else) has
// no recognised width, so a cast to it always yields NAC (spec.md §4.8: an
// unrecognised target type is conservative, not an error).
func castWidth(k frontend.CastKind) (width int, ok bool) {
	switch k {
	case frontend.CastBool:
		return 1, true
	case frontend.CastChar:
		return 8, true
	case frontend.CastShortOrChar16:
		return 16, true
	case frontend.CastIntOrChar32:
		return 32, true
	case frontend.CastLongOrLongLong:
		return 64, true
	default:
		return 0, false
	}
}

// resolver maps a front-end declaration reference found in an expression
// back to the analyzer Variable the environment is keyed by.
type resolver func(frontend.Decl) *ir.Variable

// evalExpr evaluates a front-end expression tree against the current
// environment, implementing spec.md §4.8's table. Most shapes are a pure
// read: literals are their own constant, a used variable reads the
// environment, unary plus/minus negate or pass through, casts truncate to
// the target width's table entry or fall back to NAC, binary operators
// combine two CONSTs arithmetically. Assignment, compound assignment and
// increment/decrement are not pure, though: per the table's own rows
// ("val := eval(b); σ[a-as-var] := val; return val"), folding one of these
// as a sub-expression of a larger expression (e.g. "y = x = 1") must update
// env in place and changed is set whenever that update actually changes
// env, exactly the way the top-level per-statement transfer does — there is
// no separate "transfer" step for these shapes, only this one eval. Array
// subscript, conditional and call evaluate every operand (for whatever
// side effects they contain) and report NAC, the table's catch-all for
// forms the analysis doesn't fold.
func evalExpr(e frontend.Expr, env *Fact, resolve resolver, changed *bool) CPValue {
	switch e.Kind() {
	case frontend.ExprIntLiteral, frontend.ExprCharLiteral:
		width, signed, v := e.IntLiteral()
		return NewConst(width, signed, v)

	case frontend.ExprLValueToRValue:
		return lookup(env, resolve(e.Decl()))

	case frontend.ExprParen:
		return evalExpr(e.Operand(0), env, resolve, changed)

	case frontend.ExprUnaryPlus:
		return evalExpr(e.Operand(0), env, resolve, changed)

	case frontend.ExprUnaryMinus:
		v := evalExpr(e.Operand(0), env, resolve, changed)
		if !v.IsConst() {
			return v
		}
		return NewConst(v.bitWidth, v.signed, -v.value)

	case frontend.ExprCast:
		v := evalExpr(e.Operand(0), env, resolve, changed)
		if !v.IsConst() {
			return v
		}
		width, ok := castWidth(e.CastKind())
		if !ok {
			return NACValue
		}
		return NewConst(width, v.signed, v.value)

	case frontend.ExprBinary:
		lhs := evalExpr(e.Operand(0), env, resolve, changed)
		rhs := evalExpr(e.Operand(1), env, resolve, changed)
		return evalBinary(e.Operator(), lhs, rhs)

	case frontend.ExprAssign:
		lhs := e.Operand(0)
		val := evalExpr(e.Operand(1), env, resolve, changed)
		if lhs.Kind() != frontend.ExprIndex {
			if v := resolve(declOf(lhs)); v != nil && env.Update(v, val) {
				*changed = true
			}
		}
		return val

	case frontend.ExprCompoundAssign:
		lhs := e.Operand(0)
		if lhs.Kind() == frontend.ExprIndex {
			evalExpr(e.Operand(1), env, resolve, changed)
			return NACValue
		}
		v := resolve(declOf(lhs))
		if v == nil {
			evalExpr(e.Operand(1), env, resolve, changed)
			return NACValue
		}
		old := lookup(env, v)
		rhs := evalExpr(e.Operand(1), env, resolve, changed)
		val := evalBinary(baseOp(e.Operator()), old, rhs)
		if env.Update(v, val) {
			*changed = true
		}
		return val

	case frontend.ExprPreInc, frontend.ExprPostInc, frontend.ExprPreDec, frontend.ExprPostDec:
		operand := e.Operand(0)
		v := resolve(declOf(operand))
		if v == nil {
			return NACValue
		}
		old := lookup(env, v)
		newVal := old
		if old.IsConst() {
			delta := int64(1)
			if e.Kind() == frontend.ExprPreDec || e.Kind() == frontend.ExprPostDec {
				delta = -1
			}
			newVal = NewConst(old.bitWidth, old.signed, old.value+delta)
		}
		if env.Update(v, newVal) {
			*changed = true
		}
		if e.Kind() == frontend.ExprPreInc || e.Kind() == frontend.ExprPreDec {
			return newVal
		}
		return old

	case frontend.ExprIndex, frontend.ExprConditional, frontend.ExprCall:
		for i := 0; i < e.NumOperands(); i++ {
			evalExpr(e.Operand(i), env, resolve, changed)
		}
		return NACValue

	default:
		return NACValue
	}
}

func lookup(env *Fact, v *ir.Variable) CPValue {
	if v == nil {
		return NACValue
	}
	val, ok := env.Get(v)
	if !ok {
		return UndefValue
	}
	return val
}

// evalBinary folds a binary operator over two constants. Division/modulus by
// a known-zero divisor is checked first, before either operand's CONST-ness
// is examined, and yields UNDEF unconditionally — even when the other side
// is NAC (a NAC dividend with a CONST(0) divisor is still undefined runtime
// behaviour, not a missing value). For every other operator, either operand
// being UNDEF makes the whole expression UNDEF: an expression can never be
// more precise than its least-known input. Only once both of those are
// ruled out does a non-CONST operand, or an operator this table doesn't
// recognise, fall back to NAC.
func evalBinary(op string, lhs, rhs CPValue) CPValue {
	divOrMod := op == "/" || op == "%"
	if divOrMod && rhs.IsConst() && rhs.value == 0 {
		return UndefValue
	}
	if !divOrMod && (lhs.IsUndef() || rhs.IsUndef()) {
		return UndefValue
	}
	if !lhs.IsConst() || !rhs.IsConst() {
		return NACValue
	}

	width := lhs.bitWidth
	if rhs.bitWidth > width {
		width = rhs.bitWidth
	}
	signed := lhs.signed && rhs.signed

	a, b := lhs.value, rhs.value
	switch op {
	case "+":
		return NewConst(width, signed, a+b)
	case "-":
		return NewConst(width, signed, a-b)
	case "*":
		return NewConst(width, signed, a*b)
	case "/":
		return NewConst(width, signed, a/b)
	case "%":
		return NewConst(width, signed, a%b)
	case "&":
		return NewConst(width, signed, a&b)
	case "|":
		return NewConst(width, signed, a|b)
	case "^":
		return NewConst(width, signed, a^b)
	case "<<":
		return NewConst(width, signed, a<<uint(b))
	case ">>":
		return NewConst(width, signed, a>>uint(b))
	case "==":
		return boolConst(a == b)
	case "!=":
		return boolConst(a != b)
	case "<":
		return boolConst(a < b)
	case "<=":
		return boolConst(a <= b)
	case ">":
		return boolConst(a > b)
	case ">=":
		return boolConst(a >= b)
	default:
		return NACValue
	}
}

func boolConst(b bool) CPValue {
	if b {
		return NewConst(1, false, 1)
	}
	return NewConst(1, false, 0)
}
