package treesitter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/flowc-dev/flowc/internal/frontend"
)

// exprCtx records whether a sub-expression is being translated at a
// position that binds a variable (the top-level left-hand side of an
// assignment or declarator) or merely reads one. This decides whether a
// bare identifier node becomes frontend.ExprVarRef or
// frontend.ExprLValueToRValue, matching the use/def rule in spec.md §3:
// only the variable literally assigned gets ExprVarRef, everything else
// reachable from an expression's subtree is a use.
type exprCtx int

const (
	ctxUse exprCtx = iota
	ctxDef
)

// translateExpr walks one tree-sitter expression node into a frontend.Expr.
// It recognises the subset of C/C++ expression grammar spec.md §4.8's eval
// table cares about; anything else degrades gracefully to ExprOther, which
// constant propagation and the use/def walk both treat conservatively (NAC,
// no tracked decls).
func (w *walker) translateExpr(n *sitter.Node, ctx exprCtx) frontend.Expr {
	if n == nil {
		return &tsExpr{kind: frontend.ExprOther}
	}
	span := w.span(n)

	switch n.Type() {
	case "number_literal":
		width, signed, value, ok := parseIntLiteral(w.text(n))
		if !ok {
			return &tsExpr{kind: frontend.ExprOther, span: span}
		}
		return &tsExpr{kind: frontend.ExprIntLiteral, span: span, bitWidth: width, signed: signed, intValue: value}

	case "char_literal":
		return &tsExpr{kind: frontend.ExprCharLiteral, span: span, bitWidth: 8, signed: true, intValue: charLiteralValue(w.text(n))}

	case "true", "false":
		v := int64(0)
		if n.Type() == "true" {
			v = 1
		}
		return &tsExpr{kind: frontend.ExprIntLiteral, span: span, bitWidth: 1, signed: false, intValue: v}

	case "identifier":
		d := w.declFor(w.text(n))
		kind := frontend.ExprLValueToRValue
		if ctx == ctxDef {
			kind = frontend.ExprVarRef
		}
		return &tsExpr{kind: kind, span: span, decl: d, typ: d.Type()}

	case "parenthesized_expression":
		inner := firstNamedChild(n)
		return &tsExpr{kind: frontend.ExprParen, span: span, operands: []frontend.Expr{w.translateExpr(inner, ctx)}}

	case "unary_expression":
		op := w.text(n.ChildByFieldName("operator"))
		operand := w.translateExpr(n.ChildByFieldName("argument"), ctxUse)
		kind := frontend.ExprUnaryPlus
		if op == "-" {
			kind = frontend.ExprUnaryMinus
		}
		return &tsExpr{kind: kind, span: span, operator: op, operands: []frontend.Expr{operand}}

	case "update_expression":
		return w.translateUpdate(n, span)

	case "cast_expression":
		target := n.ChildByFieldName("type")
		operand := w.translateExpr(n.ChildByFieldName("value"), ctxUse)
		width, ck := castWidthFor(w.text(target))
		return &tsExpr{
			kind: frontend.ExprCast, span: span, operands: []frontend.Expr{operand},
			castKind: ck, castType: namedType{name: w.text(target), integer: width > 0, signed: true},
		}

	case "binary_expression":
		left := w.translateExpr(n.ChildByFieldName("left"), ctxUse)
		right := w.translateExpr(n.ChildByFieldName("right"), ctxUse)
		op := w.text(n.ChildByFieldName("operator"))
		return &tsExpr{kind: frontend.ExprBinary, span: span, operator: op, operands: []frontend.Expr{left, right}}

	case "assignment_expression":
		lhsNode := n.ChildByFieldName("left")
		rhsNode := n.ChildByFieldName("right")
		op := w.text(n.ChildByFieldName("operator"))
		defCtx := ctxDef
		if lhsNode != nil && lhsNode.Type() == "subscript_expression" {
			// a[i] = ... uses both a and i rather than defining anything
			// (spec.md §3's index-lhs rule); translateExpr on a
			// subscript_expression never returns ExprVarRef regardless of
			// ctx, so ctxDef here is inert, kept only for symmetry.
			defCtx = ctxUse
		}
		left := w.translateExpr(lhsNode, defCtx)
		right := w.translateExpr(rhsNode, ctxUse)
		kind := frontend.ExprAssign
		if op != "=" {
			kind = frontend.ExprCompoundAssign
		}
		return &tsExpr{kind: kind, span: span, operator: op, operands: []frontend.Expr{left, right}}

	case "subscript_expression":
		base := w.translateExpr(n.ChildByFieldName("argument"), ctxUse)
		index := w.translateExpr(n.ChildByFieldName("index"), ctxUse)
		return &tsExpr{kind: frontend.ExprIndex, span: span, operands: []frontend.Expr{base, index}}

	case "call_expression":
		args := n.ChildByFieldName("arguments")
		var operands []frontend.Expr
		if args != nil {
			for i := 0; i < int(args.NamedChildCount()); i++ {
				operands = append(operands, w.translateExpr(args.NamedChild(i), ctxUse))
			}
		}
		return &tsExpr{kind: frontend.ExprCall, span: span, operator: w.text(n.ChildByFieldName("function")), operands: operands}

	case "conditional_expression":
		cond := w.translateExpr(n.ChildByFieldName("condition"), ctxUse)
		cons := w.translateExpr(n.ChildByFieldName("consequence"), ctxUse)
		alt := w.translateExpr(n.ChildByFieldName("alternative"), ctxUse)
		return &tsExpr{kind: frontend.ExprConditional, span: span, operands: []frontend.Expr{cond, cons, alt}}

	default:
		var operands []frontend.Expr
		for i := 0; i < int(n.NamedChildCount()); i++ {
			operands = append(operands, w.translateExpr(n.NamedChild(i), ctxUse))
		}
		return &tsExpr{kind: frontend.ExprOther, span: span, operands: operands}
	}
}

// translateUpdate classifies x++/++x/x--/--x by comparing the operator
// token's byte offset to the operand's, since tree-sitter's C grammar
// update_expression doesn't expose a named "prefix" field.
func (w *walker) translateUpdate(n *sitter.Node, span frontend.Span) frontend.Expr {
	operand := n.ChildByFieldName("argument")
	opNode := operatorToken(n, operand)
	op := w.text(opNode)
	prefix := opNode != nil && operand != nil && opNode.StartByte() < operand.StartByte()

	inc := op == "++"
	var kind frontend.ExprKind
	switch {
	case inc && prefix:
		kind = frontend.ExprPreInc
	case inc && !prefix:
		kind = frontend.ExprPostInc
	case !inc && prefix:
		kind = frontend.ExprPreDec
	default:
		kind = frontend.ExprPostDec
	}
	return &tsExpr{kind: kind, span: span, operator: op, operands: []frontend.Expr{w.translateExpr(operand, ctxUse)}}
}

// operatorToken finds the update_expression's operator child: whichever
// direct child isn't the named "argument" field.
func operatorToken(n, argument *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if argument != nil && c.StartByte() == argument.StartByte() && c.EndByte() == argument.EndByte() {
			continue
		}
		if !c.IsNamed() {
			return c
		}
	}
	return nil
}

func firstNamedChild(n *sitter.Node) *sitter.Node {
	if n == nil || n.NamedChildCount() == 0 {
		return nil
	}
	return n.NamedChild(0)
}

// castWidthFor maps a cast target's type-specifier text to the recognised-
// width table in spec.md §8, the same table internal/dataflow/constprop
// consumes via frontend.CastKind.
func castWidthFor(typeText string) (width int, kind frontend.CastKind) {
	switch strings.TrimSpace(typeText) {
	case "_Bool", "bool":
		return 1, frontend.CastBool
	case "char", "signed char", "unsigned char":
		return 8, frontend.CastChar
	case "short", "short int", "unsigned short", "unsigned short int":
		return 16, frontend.CastShortOrChar16
	case "int", "unsigned", "unsigned int":
		return 32, frontend.CastIntOrChar32
	case "long", "long int", "unsigned long", "long long", "unsigned long long":
		return 64, frontend.CastLongOrLongLong
	default:
		return 0, frontend.CastOther
	}
}
