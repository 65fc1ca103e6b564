// Package constprop implements constant propagation (spec.md §4.8, C9c): a
// forward analysis tracking, per variable per program point, whether its
// value is known to be a specific constant, definitely not a compile-time
// constant (NAC, "not a constant"), or not yet known (UNDEF). It generalizes
// the teacher's analysis/dataflow pattern (a MapFact-shaped per-variable
// fact, built and meet-ed the same way reaching/live build SetFacts) to a
// three-point lattice with width- and signedness-aware integer arithmetic.
package constprop

import (
	"fmt"

	"github.com/flowc-dev/flowc/internal/errs"
)

// Kind classifies a CPValue's lattice position.
type Kind int

const (
	// Undef is the lattice's bottom: no information yet. Meeting Undef with
	// anything yields that other value unchanged.
	Undef Kind = iota
	// Const holds a specific known constant value.
	Const
	// NAC ("not a constant") is the lattice's top: the variable's value
	// is known to vary and can never be folded to a constant. Meeting NAC
	// with anything yields NAC.
	NAC
)

func (k Kind) String() string {
	switch k {
	case Undef:
		return "UNDEF"
	case Const:
		return "CONST"
	default:
		return "NAC"
	}
}

// CPValue is one element of the constant-propagation lattice. A Const value
// additionally carries a bit width and signedness so that arithmetic and
// casts mirror C/C++ integer promotion and truncation (spec.md §4.8, §8).
type CPValue struct {
	kind     Kind
	bitWidth int
	signed   bool
	value    int64 // raw bit pattern, sign-extended/truncated to bitWidth
}

// UndefValue is the UNDEF singleton.
var UndefValue = CPValue{kind: Undef}

// NACValue is the NAC singleton.
var NACValue = CPValue{kind: NAC}

// NewConst builds a CONST value, truncating and sign/zero-extending value to
// bitWidth per truncate.
func NewConst(bitWidth int, signed bool, value int64) CPValue {
	return CPValue{kind: Const, bitWidth: bitWidth, signed: signed, value: truncate(bitWidth, signed, value)}
}

func (v CPValue) Kind() Kind       { return v.kind }
func (v CPValue) IsUndef() bool    { return v.kind == Undef }
func (v CPValue) IsConst() bool    { return v.kind == Const }
func (v CPValue) IsNAC() bool      { return v.kind == NAC }
func (v CPValue) BitWidth() int    { return v.bitWidth }
func (v CPValue) Signed() bool     { return v.signed }
// Int64 returns a CONST's integer payload (spec.md's getConstantValue()).
// Calling it on an UNDEF or NAC value is a programming error, not a
// property of the analyzed source (spec.md §4.8: "the analysis never
// throws except when getConstantValue() is called on a non-CONST value"),
// so it panics with a ContractViolation rather than returning a zero value
// a caller could mistake for a real constant.
func (v CPValue) Int64() int64 {
	if v.kind != Const {
		panic(errs.NewContractViolation(fmt.Sprintf("Int64 called on a %s value", v.kind)))
	}
	return v.value
}

// Equal implements dataflow.Value, so CPValue can be a MapFact value type.
// Two CONST values are equal only if their bit pattern, width, and
// signedness all match (spec.md §8): the same mathematical integer at a
// different width is a different CPValue.
func (v CPValue) Equal(other CPValue) bool {
	if v.kind != other.kind {
		return false
	}
	if v.kind != Const {
		return true
	}
	return v.bitWidth == other.bitWidth && v.signed == other.signed && v.value == other.value
}

// String renders a CPValue the way spec.md §6.3 requires of a report row:
// "UNDEF", "NAC", or the bare decimal representation of a CONST (its width
// and signedness stay internal bookkeeping, not part of the rendering).
func (v CPValue) String() string {
	if v.kind == Const {
		return fmt.Sprintf("%d", v.value)
	}
	return v.kind.String()
}

// Meet computes the lattice join of a and b (spec.md §4.8): UNDEF is the
// identity element, NAC absorbs everything, two unequal CONSTs collapse to
// NAC.
func Meet(a, b CPValue) CPValue {
	if a.kind == Undef {
		return b
	}
	if b.kind == Undef {
		return a
	}
	if a.kind == NAC || b.kind == NAC {
		return NACValue
	}
	if a.Equal(b) {
		return a
	}
	return NACValue
}

// truncate reinterprets value's low bitWidth bits, sign-extending if signed
// and bitWidth < 64.
func truncate(bitWidth int, signed bool, value int64) int64 {
	if bitWidth <= 0 || bitWidth >= 64 {
		return value
	}
	mask := int64(1)<<uint(bitWidth) - 1
	v := value & mask
	if signed && v&(int64(1)<<uint(bitWidth-1)) != 0 {
		v |= ^mask
	}
	return v
}
