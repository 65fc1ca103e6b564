package ir

import "github.com/flowc-dev/flowc/internal/frontend"

// Type is an opaque type name obtained from the front end, plus the
// integer/signedness predicates the front end contract (spec.md §6.1)
// promises are available for every expression type. Equality is by name.
type Type struct {
	name            string
	integer, signed bool
}

// NewType wraps a front-end type, freezing its name and integer predicates.
func NewType(t frontend.Type) Type {
	return Type{name: t.Name(), integer: t.IsInteger(), signed: t.IsSignedInteger()}
}

// Name returns the type's front-end-reported name.
func (t Type) Name() string { return t.name }

// Equal reports whether two types share a name.
func (t Type) Equal(other Type) bool { return t.name == other.name }

// IsInteger reports whether this type denotes some C/C++ integer type.
func (t Type) IsInteger() bool { return t.integer }

// IsSignedInteger reports whether an integer type is signed.
func (t Type) IsSignedInteger() bool { return t.integer && t.signed }

// Variable represents one named local or parameter declaration. Two
// occurrences of the same declaration within a method carry the same id,
// which is what makes them equal for fact-container purposes (spec.md §3).
// Variable is immutable once constructed.
type Variable struct {
	id      uint64
	method  string // owning method's signature, for diagnostics only
	name    string
	typ     Type
	declKey any // the front-end Decl.DeclKey() this Variable was built from
}

// NewVariable constructs a Variable. The caller (the IR builder) is
// responsible for calling this exactly once per underlying declaration and
// reusing the result for every reference to that declaration.
func NewVariable(gen *VarGen, method, name string, typ frontend.Type, declKey any) *Variable {
	return &Variable{
		id:      gen.ids.take(),
		method:  method,
		name:    name,
		typ:     NewType(typ),
		declKey: declKey,
	}
}

// ID implements Identity.
func (v *Variable) ID() uint64 { return v.id }

// Name returns the variable's declared name.
func (v *Variable) Name() string { return v.name }

// Type returns the variable's declared type.
func (v *Variable) Type() Type { return v.typ }

// IsInteger reports whether the variable has an integer type.
func (v *Variable) IsInteger() bool { return v.typ.IsInteger() }

// IsSignedInteger reports whether the variable has a signed integer type.
func (v *Variable) IsSignedInteger() bool { return v.typ.IsSignedInteger() }

// Method returns the signature of the method that owns this variable.
func (v *Variable) Method() string { return v.method }

// DeclKey returns the front-end Decl.DeclKey() this Variable was built
// from, for code (constprop's expression evaluator) that needs to map a
// frontend.Decl seen in an expression back to its analyzer Variable.
func (v *Variable) DeclKey() any { return v.declKey }

// VarGen assigns stable per-method ids to variables. One VarGen is created
// per IR build and discarded once the variable universe is frozen.
type VarGen struct {
	ids idGen
}

// NewVarGen returns a fresh per-method variable id generator.
func NewVarGen() *VarGen { return &VarGen{} }
