// Package frontend declares the narrow contract the analysis core consumes
// from a C/C++ compiler front end (spec.md §6.1). The core never imports a
// concrete parser; it only ever sees these interfaces, so any front end —
// the tree-sitter-backed one in internal/frontend/treesitter, or a real
// Clang-based driver — can stand in for it.
package frontend

// Span is a 1-based source range, inclusive of both endpoints' lines.
type Span struct {
	StartLine, StartCol int
	EndLine, EndCol      int
}

// Unknown is the span of a synthetic statement that has no front-end
// counterpart (spec.md §3: nop statements have span (-1,-1)).
var Unknown = Span{StartLine: -1, StartCol: -1, EndLine: -1, EndCol: -1}

// Type is a front-end-reported type with the integer predicates the core
// needs for constant propagation's parameter boundary fact and cast rules.
type Type interface {
	Name() string
	IsInteger() bool
	IsSignedInteger() bool
}

// Decl is the stable handle a front end hands out for a single variable
// declaration. Every reference to that declaration (every *ast.Ident
// resolving to the same decl, in go/types terms) must return an equal Decl,
// as judged by DeclKey — the IR builder uses that key purely as a map key.
type Decl interface {
	// DeclKey is an opaque comparable key, stable for the lifetime of the
	// translation unit, equal for two Decls iff they name the same
	// declaration.
	DeclKey() any
	Name() string
	Type() Type
}

// Param is a single function parameter.
type Param struct {
	Decl Decl
}

// ExprKind classifies an expression node enough for both use/def extraction
// (spec.md §3) and constant propagation's eval table (spec.md §4.8).
type ExprKind int

const (
	ExprInvalid ExprKind = iota
	ExprIntLiteral
	ExprCharLiteral
	ExprVarRef         // a bare reference to a declared variable
	ExprLValueToRValue // a reference to a variable used at rvalue position
	ExprParen
	ExprUnaryPlus
	ExprUnaryMinus
	ExprPreInc
	ExprPreDec
	ExprPostInc
	ExprPostDec
	ExprCast
	ExprBinary
	ExprAssign
	ExprCompoundAssign
	ExprIndex
	ExprConditional
	ExprCall
	ExprOther
)

// CastKind classifies a cast's target width per the recognised-width table
// in spec.md §8. CastOther covers any target the table doesn't name.
type CastKind int

const (
	CastNone CastKind = iota
	CastBool
	CastChar
	CastShortOrChar16
	CastIntOrChar32
	CastLongOrLongLong
	CastOther
)

// Expr is one node of a front-end expression tree. The core walks it
// generically via NumOperands/Operand; it never type-switches on a
// front-end-specific concrete type.
type Expr interface {
	Kind() ExprKind
	Span() Span

	// Type is the expression's static type, as judged by the front end.
	Type() Type

	// Operator is the operator token for ExprBinary/ExprCompoundAssign
	// (e.g. "+", "&="). The core reads it only for those two kinds; a front
	// end may fill it for other kinds as well.
	Operator() string

	// NumOperands/Operand give generic access to sub-expressions:
	// unary/inc-dec/paren/cast have one operand (index 0); binary and
	// assignment-shaped expressions have two (0 = lhs, 1 = rhs); call has
	// one per argument; index has two (base, subscript); conditional has
	// three.
	NumOperands() int
	Operand(i int) Expr

	// Decl is non-nil iff Kind() is ExprVarRef or ExprLValueToRValue.
	Decl() Decl

	// IntLiteral is valid iff Kind() is ExprIntLiteral or ExprCharLiteral.
	IntLiteral() (bitWidth int, signed bool, value int64)

	// CastKind/CastTargetType are valid iff Kind() == ExprCast.
	CastKind() CastKind
	CastTargetType() Type
}

// StmtKind classifies a statement for the IR builder's use/def extraction.
type StmtKind int

const (
	StmtDecl StmtKind = iota
	StmtExpr
	StmtOther
)

// DeclVar is one variable introduced by a declaration statement.
type DeclVar struct {
	Decl Decl
	Init Expr // nil when the declaration has no initializer
}

// Stmt is one front-end statement: a node of whatever tree the front end
// builds, classified enough for the core to extract use/def sets and render
// a one-line description.
type Stmt interface {
	Kind() StmtKind
	Span() Span
	Render() string

	// Handle is the opaque front-end node underlying this statement, used
	// as the core Statement's back-reference (spec.md §3). Nil for
	// synthetic statements.
	Handle() any

	// DeclVars is non-empty iff Kind() == StmtDecl.
	DeclVars() []DeclVar

	// Expr is the governing expression of an expression statement
	// (assignment, compound assignment, increment/decrement, call, ...),
	// or the controlling condition of an if/while/for/switch header. Nil
	// for statements with no associated expression.
	Expr() Expr
}

// BasicBlock is one front-end basic block: straight-line code with no
// internal branch, and explicit successors (spec.md §4.3 input).
type BasicBlock struct {
	Stmts []Stmt
	Succs []*BasicBlock
}

// BlockGraph is a front end's own CFG over its basic blocks, the raw
// material the IR builder (internal/ir's Build) translates into the core's
// statement-level CFG.
type BlockGraph struct {
	Blocks []*BasicBlock
	Entry  *BasicBlock
	Exit   *BasicBlock
}

// Method is one function definition as the front end presents it.
type Method struct {
	// Signature is the program-wide key: return type + qualified name +
	// parameter types (spec.md §6.1).
	Signature string
	Params    []Param
	Blocks    *BlockGraph
}

// TranslationUnit is everything a front end extracts from one source file.
type TranslationUnit struct {
	Path    string
	Methods []*Method
}

// Diagnostic is a single front-end error or warning attached to a
// translation unit (spec.md §7, FrontEndError).
type Diagnostic struct {
	File    string
	Line    int
	Message string
}

// FrontEnd parses a source tree and yields translation units. Concrete
// implementations (e.g. internal/frontend/treesitter) live entirely outside
// the analysis core.
type FrontEnd interface {
	// Parse ingests one file's source bytes and returns its translation
	// unit, or a non-fatal slice of Diagnostics if parsing failed.
	Parse(path string, src []byte) (*TranslationUnit, []Diagnostic, error)
}
