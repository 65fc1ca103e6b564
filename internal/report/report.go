// Package report renders per-statement dataflow results the way spec.md
// §6.3 describes: one block per statement, its source position and
// rendering, then its In/Out facts. It gives a concrete body to the result
// pretty-printing the distilled spec calls an external collaborator (as
// internal/frontend/treesitter does for the front end), in the teacher's
// own plain-text reporting
// idiom rather than inventing a structured format wholesale; a JSON
// encoding is offered alongside it for tooling that wants one.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/flowc-dev/flowc/internal/dataflow"
	"github.com/flowc-dev/flowc/internal/dataflow/constprop"
	"github.com/flowc-dev/flowc/internal/ir"
)

// Format selects the pretty-printer's output shape.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// ParseFormat maps a --format flag value to a Format, defaulting to text.
func ParseFormat(s string) Format {
	if s == "json" {
		return FormatJSON
	}
	return FormatText
}

// StatementRow is one statement's rendering plus whichever fact strings
// apply to it; analyses not run leave their slice nil.
type StatementRow struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Text string `json:"text"`

	ReachingIn  []string `json:"reaching_in,omitempty"`
	ReachingOut []string `json:"reaching_out,omitempty"`
	LiveIn      []string `json:"live_in,omitempty"`
	LiveOut     []string `json:"live_out,omitempty"`
	ConstIn     []string `json:"const_in,omitempty"`
	ConstOut    []string `json:"const_out,omitempty"`
}

// Builder accumulates rows for one method from whichever analyses were run
// against it, then writes them out in source order.
type Builder struct {
	file string
	m    *ir.IR
	rows map[uint64]*StatementRow
}

// NewBuilder starts a report for m's statements, sourced from file.
func NewBuilder(file string, m *ir.IR) *Builder {
	b := &Builder{file: file, m: m, rows: make(map[uint64]*StatementRow, len(m.Stmts()))}
	for _, s := range m.Stmts() {
		if s.IsNop() {
			continue
		}
		b.rows[s.ID()] = &StatementRow{File: file, Line: s.Span().StartLine, Text: s.String()}
	}
	return b
}

// AddReaching folds a reaching-definitions result's in/out facts into the
// report, rendering each reaching statement as "line <line>: <text>".
func (b *Builder) AddReaching(result *dataflow.Result[*dataflow.SetFact[*ir.Statement]]) {
	for id, row := range b.rows {
		s := findStatement(b.m, id)
		row.ReachingIn = renderStmtSet(result.InOf(s))
		row.ReachingOut = renderStmtSet(result.OutOf(s))
	}
}

// AddLive folds a live-variables result's in/out facts into the report.
func (b *Builder) AddLive(result *dataflow.Result[*dataflow.SetFact[*ir.Variable]]) {
	for id, row := range b.rows {
		s := findStatement(b.m, id)
		row.LiveIn = renderVarSet(result.InOf(s))
		row.LiveOut = renderVarSet(result.OutOf(s))
	}
}

// AddConstProp folds a constant-propagation result's in/out facts into the
// report.
func (b *Builder) AddConstProp(result *dataflow.Result[*constprop.Fact]) {
	for id, row := range b.rows {
		s := findStatement(b.m, id)
		row.ConstIn = renderCPFact(result.InOf(s))
		row.ConstOut = renderCPFact(result.OutOf(s))
	}
}

// Rows returns the accumulated rows, sorted by line.
func (b *Builder) Rows() []*StatementRow {
	out := make([]*StatementRow, 0, len(b.rows))
	for _, r := range b.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out
}

func findStatement(m *ir.IR, id uint64) *ir.Statement {
	for _, s := range m.Stmts() {
		if s.ID() == id {
			return s
		}
	}
	return nil
}

func renderStmtSet(f *dataflow.SetFact[*ir.Statement]) []string {
	var out []string
	f.ForEach(func(s *ir.Statement) {
		out = append(out, fmt.Sprintf("line %d: %s", s.Span().StartLine, s.String()))
	})
	sort.Strings(out)
	return out
}

func renderVarSet(f *dataflow.SetFact[*ir.Variable]) []string {
	var out []string
	f.ForEach(func(v *ir.Variable) { out = append(out, v.Name()) })
	sort.Strings(out)
	return out
}

func renderCPFact(f *constprop.Fact) []string {
	var out []string
	f.ForEach(func(v *ir.Variable, val constprop.CPValue) {
		out = append(out, fmt.Sprintf("%s=%s", v.Name(), val.String()))
	})
	sort.Strings(out)
	return out
}

// Write renders rows to w in the given format (spec.md §6.3: a plain-text
// rendering, with a JSON option alongside it).
func Write(w io.Writer, rows []*StatementRow, format Format) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	for _, row := range rows {
		fmt.Fprintf(w, "* %s %d: %s\n", row.File, row.Line, row.Text)
		writeSection(w, "ReachingIn", row.ReachingIn)
		writeSection(w, "ReachingOut", row.ReachingOut)
		writeSection(w, "LiveIn", row.LiveIn)
		writeSection(w, "LiveOut", row.LiveOut)
		writeSection(w, "ConstIn", row.ConstIn)
		writeSection(w, "ConstOut", row.ConstOut)
	}
	return nil
}

func writeSection(w io.Writer, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s:\n", label)
	for _, it := range items {
		fmt.Fprintf(w, "    %s\n", it)
	}
}
