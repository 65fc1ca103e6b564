package treesitter

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/flowc-dev/flowc/internal/frontend"
)

// buildMethod translates one function_definition node into a
// frontend.Method, splitting its body into a frontend.BlockGraph at every
// if/while/for/return boundary (spec.md §6's basic-block contract). A
// function with no compound_statement body (a prototype tree-sitter
// mis-parsed as a definition, or a K&R-style definition this front end
// doesn't handle) is skipped, matching program.Build's tolerance for
// per-method front-end gaps.
func (w *walker) buildMethod(n *sitter.Node) *frontend.Method {
	// Each function gets its own declaration scope: w.decls keys purely by
	// spelling (see walker.decls's doc comment), so without this reset a
	// local named the same in two functions of the same file would share
	// one *tsDecl and the second function's type would clobber the
	// first's by the time internal/program builds its IR.
	w.decls = make(map[string]*tsDecl)

	declarator := n.ChildByFieldName("declarator")
	body := n.ChildByFieldName("body")
	if declarator == nil || body == nil || body.Type() != "compound_statement" {
		return nil
	}

	sig := oneLine(w.text(n)[:declarator.EndByte()-n.StartByte()])
	name, params := w.parseDeclarator(declarator)
	if name == "" {
		return nil
	}

	exit := &frontend.BasicBlock{}
	bb := &blockBuilder{w: w, exit: exit}
	head, tail := bb.build(namedChildren(body))
	if tail != nil {
		tail.Succs = append(tail.Succs, exit)
	}

	blocks := append(bb.blocks, exit)
	return &frontend.Method{
		Signature: sig,
		Params:    params,
		Blocks:    &frontend.BlockGraph{Blocks: blocks, Entry: head, Exit: exit},
	}
}

// parseDeclarator extracts a function's name and parameters from its
// declarator subtree. function_declarator wraps an identifier (or, for a
// pointer return type, a pointer_declarator wrapping the identifier) plus a
// parameter_list; this front end doesn't track pointer/array declarator
// wrapping beyond unwrapping it to find the name, since parameter types
// beyond integer-ness don't affect any of the three analyses spec.md §4
// names.
func (w *walker) parseDeclarator(n *sitter.Node) (string, []frontend.Param) {
	for n != nil && n.Type() != "function_declarator" {
		switch n.Type() {
		case "pointer_declarator", "parenthesized_declarator":
			n = n.ChildByFieldName("declarator")
		default:
			return "", nil
		}
	}
	if n == nil {
		return "", nil
	}

	nameNode := n.ChildByFieldName("declarator")
	name := w.text(nameNode)

	var params []frontend.Param
	paramList := n.ChildByFieldName("parameters")
	if paramList != nil {
		for i := 0; i < int(paramList.NamedChildCount()); i++ {
			p := paramList.NamedChild(i)
			if p.Type() != "parameter_declaration" {
				continue
			}
			params = append(params, w.parseParam(p))
		}
	}
	return name, params
}

func (w *walker) parseParam(n *sitter.Node) frontend.Param {
	declNode := n.ChildByFieldName("declarator")
	for declNode != nil && declNode.Type() == "pointer_declarator" {
		declNode = declNode.ChildByFieldName("declarator")
	}
	name := w.text(declNode)

	typeNode := n.ChildByFieldName("type")
	typ := declaredType(w.text(typeNode))

	d := w.declFor(name)
	d.typ = typ
	return frontend.Param{Decl: d}
}

// namedChildren returns n's named children, the tree-sitter convention for
// "the statements inside these braces" (a compound_statement's anonymous
// children are just the brace tokens).
func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

// statementsOf returns the statement list a control-flow header's branch
// or body should translate: a compound_statement's own children if it's
// braced, or the single statement node itself otherwise (C permits
// unbraced single-statement bodies).
func statementsOf(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	if n.Type() == "compound_statement" {
		return namedChildren(n)
	}
	return []*sitter.Node{n}
}

// blockBuilder translates a flat or nested list of tree-sitter statement
// nodes into frontend.BasicBlocks, splitting at every control-flow header
// the way spec.md §6 calls for. exit is the function's single synthetic
// exit block; every path that falls off the end of a return statement
// connects to it directly.
type blockBuilder struct {
	w      *walker
	exit   *frontend.BasicBlock
	blocks []*frontend.BasicBlock
}

func (bb *blockBuilder) newBlock() *frontend.BasicBlock {
	b := &frontend.BasicBlock{}
	bb.blocks = append(bb.blocks, b)
	return b
}

// build translates nodes into a chain of basic blocks, returning its entry
// block and its open tail (the block later statements should be appended
// to, or nil if control can never fall off the end of nodes because every
// path through it ends in a return).
func (bb *blockBuilder) build(nodes []*sitter.Node) (head, tail *frontend.BasicBlock) {
	head = bb.newBlock()
	cur := head

	for _, n := range nodes {
		switch n.Type() {
		case "if_statement":
			cur.Stmts = append(cur.Stmts, bb.w.condStmt(n))

			thenHead, thenTail := bb.build(statementsOf(n.ChildByFieldName("consequence")))
			var elseHead, elseTail *frontend.BasicBlock
			if alt := n.ChildByFieldName("alternative"); alt != nil {
				elseHead, elseTail = bb.build(statementsOf(alt))
			}

			join := bb.newBlock()
			cur.Succs = append(cur.Succs, thenHead)
			if elseHead != nil {
				cur.Succs = append(cur.Succs, elseHead)
			} else {
				cur.Succs = append(cur.Succs, join)
			}
			if thenTail != nil {
				thenTail.Succs = append(thenTail.Succs, join)
			}
			if elseTail != nil {
				elseTail.Succs = append(elseTail.Succs, join)
			}
			cur = join

		case "while_statement", "for_statement":
			cond := bb.newBlock()
			cur.Succs = append(cur.Succs, cond)
			cond.Stmts = append(cond.Stmts, bb.w.condStmt(n))

			bodyHead, bodyTail := bb.build(statementsOf(n.ChildByFieldName("body")))
			cond.Succs = append(cond.Succs, bodyHead)
			if bodyTail != nil {
				bodyTail.Succs = append(bodyTail.Succs, cond)
			}

			after := bb.newBlock()
			cond.Succs = append(cond.Succs, after)
			cur = after

		case "return_statement":
			cur.Stmts = append(cur.Stmts, bb.w.leafStmt(n))
			cur.Succs = append(cur.Succs, bb.exit)
			return head, nil

		case "compound_statement":
			innerHead, innerTail := bb.build(namedChildren(n))
			cur.Succs = append(cur.Succs, innerHead)
			if innerTail == nil {
				return head, nil
			}
			cur = innerTail

		case "break_statement", "continue_statement":
			// Neither has a CFG target this builder tracks (no enclosing
			// loop/switch context is threaded through); render the
			// statement for reporting but otherwise treat it as a no-op
			// fall-through. A nested loop's back edge already gives the
			// dataflow analyses a sound (if imprecise) merge at the loop
			// header regardless.
			cur.Stmts = append(cur.Stmts, bb.w.leafStmt(n))

		default:
			cur.Stmts = append(cur.Stmts, bb.w.leafStmt(n))
		}
	}

	return head, cur
}

// condStmt wraps an if/while/for header as a StmtOther statement whose
// Expr is the header's controlling condition, so constant propagation can
// still evaluate it even though it produces no def/use on its own (no
// assignment happens in a bare condition).
func (w *walker) condStmt(n *sitter.Node) frontend.Stmt {
	cond := n.ChildByFieldName("condition")
	var expr frontend.Expr
	if cond != nil {
		expr = w.translateExpr(firstNamedChild(cond), ctxUse)
		if expr == nil {
			expr = w.translateExpr(cond, ctxUse)
		}
	}
	return &tsStmt{kind: frontend.StmtOther, span: w.span(n), text: headerText(w, n), node: n, expr: expr}
}

// headerText renders just a control statement's header line (up to its
// first brace or single-statement body), so the report doesn't dump an
// entire loop body as one statement's text.
func headerText(w *walker, n *sitter.Node) string {
	cond := n.ChildByFieldName("condition")
	if cond == nil {
		return oneLine(w.text(n))
	}
	start := n.StartByte()
	end := cond.EndByte()
	if end <= start || int(end) > len(w.src) {
		return oneLine(w.text(n))
	}
	return oneLine(string(w.src[start:end])) + ")"
}

// leafStmt translates a statement with no nested control flow: a
// declaration, an expression statement, or a return.
func (w *walker) leafStmt(n *sitter.Node) frontend.Stmt {
	span := w.span(n)
	text := oneLine(w.text(n))

	switch n.Type() {
	case "declaration":
		return &tsStmt{kind: frontend.StmtDecl, span: span, text: text, node: n, declVars: w.parseDeclaration(n)}

	case "return_statement":
		var expr frontend.Expr
		if v := firstNamedChild(n); v != nil {
			expr = w.translateExpr(v, ctxUse)
		}
		return &tsStmt{kind: frontend.StmtOther, span: span, text: text, node: n, expr: expr}

	case "expression_statement":
		// ctxUse here, not ctxDef: assignment_expression and
		// update_expression each decide their own lhs/operand context
		// internally regardless of what's passed in, so ctxUse only
		// changes the (rare) case of a bare "x;" statement, correctly
		// treating it as a read rather than a definition.
		var expr frontend.Expr
		if inner := firstNamedChild(n); inner != nil {
			expr = w.translateExpr(inner, ctxUse)
		}
		return &tsStmt{kind: frontend.StmtExpr, span: span, text: text, node: n, expr: expr}

	default:
		return &tsStmt{kind: frontend.StmtOther, span: span, text: text, node: n}
	}
}

// parseDeclaration handles "int a = 1, b;" style declarations, one
// DeclVar per init_declarator (or per bare identifier declarator with no
// initializer).
func (w *walker) parseDeclaration(n *sitter.Node) []frontend.DeclVar {
	typeNode := n.ChildByFieldName("type")
	typ := declaredType(w.text(typeNode))

	var out []frontend.DeclVar
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "init_declarator":
			declarator := c.ChildByFieldName("declarator")
			value := c.ChildByFieldName("value")
			d := w.declFor(w.text(declarator))
			d.typ = typ
			var init frontend.Expr
			if value != nil {
				init = w.translateExpr(value, ctxUse)
			}
			out = append(out, frontend.DeclVar{Decl: d, Init: init})
		case "identifier":
			d := w.declFor(w.text(c))
			d.typ = typ
			out = append(out, frontend.DeclVar{Decl: d})
		}
	}
	return out
}
