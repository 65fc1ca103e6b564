// Package live implements live variables (spec.md §4.7, C9b): for each
// program point, which variables may be read before their next write. It
// generalizes the teacher's analysis/dataflow/live.go, computed there over
// go/ast assignments and *ast.Ident objects, to ir.Statement/ir.Variable.
package live

import (
	"github.com/flowc-dev/flowc/internal/dataflow"
	"github.com/flowc-dev/flowc/internal/ir"
)

// Fact is the live-variables fact at one program point.
type Fact = dataflow.SetFact[*ir.Variable]

// Analysis is a backward dataflow problem: IN(s) = USE(s) ∪ (OUT(s) −
// DEF(s)) (spec.md §4.7).
type Analysis struct {
	cfg    *ir.CFG
	domain *dataflow.Domain[*ir.Variable]
}

// New builds a live-variables analysis over m's CFG.
func New(m *ir.IR) *Analysis {
	return &Analysis{cfg: m.CFG(), domain: dataflow.NewDomain[*ir.Variable]()}
}

// Describe names this analysis for logging; see reaching.Analysis.Describe.
func (a *Analysis) Describe() string { return "live variable analysis" }

func (a *Analysis) IsForward() bool { return false }

func (a *Analysis) NewBoundaryFact() *Fact { return dataflow.NewSetFact(a.domain) }

func (a *Analysis) NewInitialFact() *Fact { return dataflow.NewSetFact(a.domain) }

func (a *Analysis) MeetInto(src, dst *Fact) { dst.MeetInto(src) }

// TransferNode computes IN = USE ∪ (OUT − DEF).
func (a *Analysis) TransferNode(stmt *ir.Statement, in, out *Fact) bool {
	changed := in.CopyFrom(out)
	for _, v := range stmt.Defs() {
		if in.Remove(v) {
			changed = true
		}
	}
	for _, v := range stmt.Uses() {
		if in.Add(v) {
			changed = true
		}
	}
	return changed
}

func (a *Analysis) CFG() *ir.CFG { return a.cfg }
