// Package reaching implements reaching definitions (spec.md §4.6, C9a): for
// each program point, which assignment statements may have last defined each
// variable. It generalizes the teacher's analysis/dataflow/reaching.go,
// which computes the same fact over go/ast assignments and *ast.Ident
// objects, to this analyzer's ir.Statement/ir.Variable pair.
package reaching

import (
	"github.com/flowc-dev/flowc/internal/dataflow"
	"github.com/flowc-dev/flowc/internal/ir"
)

// Fact is the reaching-definitions fact at one program point: the set of
// statements whose assignment may still be live without an intervening
// redefinition of the variable it assigned.
type Fact = dataflow.SetFact[*ir.Statement]

// Analysis is a forward dataflow problem: OUT(s) = GEN(s) ∪ (IN(s) −
// KILL(s)), where GEN(s) = {s} if s defines a variable, and KILL(s) is every
// other statement in the method that defines any variable s also defines
// (spec.md §4.6).
type Analysis struct {
	cfg    *ir.CFG
	domain *dataflow.Domain[*ir.Statement]

	// definers maps a variable id to every statement that defines it, the
	// same per-variable definer index the teacher's reaching.go builds
	// (oind/okills) before the fixed-point loop starts.
	definers map[uint64][]*ir.Statement
}

// New builds a reaching-definitions analysis over m's CFG, indexing every
// statement's defined variables up front.
func New(m *ir.IR) *Analysis {
	domain := dataflow.NewDomain[*ir.Statement]()
	definers := make(map[uint64][]*ir.Statement)
	for _, s := range m.Stmts() {
		for _, v := range s.Defs() {
			definers[v.ID()] = append(definers[v.ID()], s)
		}
	}
	return &Analysis{cfg: m.CFG(), domain: domain, definers: definers}
}

// Describe names this analysis for logging, the same role the original
// implementation's AnalysisConfig.getDescription() played when passed into
// each analysis' constructor (DefaultAnalysisConfig("...")).
func (a *Analysis) Describe() string { return "reaching definitions analysis" }

func (a *Analysis) IsForward() bool { return true }

func (a *Analysis) NewBoundaryFact() *Fact { return dataflow.NewSetFact(a.domain) }

func (a *Analysis) NewInitialFact() *Fact { return dataflow.NewSetFact(a.domain) }

func (a *Analysis) MeetInto(src, dst *Fact) { dst.MeetInto(src) }

// TransferNode computes OUT = GEN ∪ (IN − KILL). A statement with no defs
// passes IN through unchanged (GEN and KILL are both empty).
func (a *Analysis) TransferNode(stmt *ir.Statement, in, out *Fact) bool {
	changed := out.CopyFrom(in)
	if len(stmt.Defs()) == 0 {
		return changed
	}
	if out.RemoveIf(func(other *ir.Statement) bool { return a.kills(stmt, other) }) {
		changed = true
	}
	if out.Add(stmt) {
		changed = true
	}
	return changed
}

// kills reports whether def redefines a variable other also defines — the
// KILL relation, symmetric over a shared variable and false for def itself
// (a statement never kills its own GEN).
func (a *Analysis) kills(def, other *ir.Statement) bool {
	if other == def {
		return false
	}
	for _, v := range def.Defs() {
		for _, s := range a.definers[v.ID()] {
			if s == other {
				return true
			}
		}
	}
	return false
}

func (a *Analysis) CFG() *ir.CFG { return a.cfg }
