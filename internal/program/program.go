// Package program implements the program index (spec.md §3, §5, C10): the
// "world" a run builds once by parsing every translation unit in a source
// tree, keyed by method signature, that the dataflow analyses then run
// against one method at a time. It generalizes the teacher's single-package
// top-level driver (cmd/godoctor/main.go builds one doctor.Refactoring per
// invocation) to an index over many methods built from many files.
package program

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/flowc-dev/flowc/internal/errs"
	"github.com/flowc-dev/flowc/internal/frontend"
	"github.com/flowc-dev/flowc/internal/ir"
)

// Program is the built index: every method's IR, keyed by its program-wide
// signature (spec.md §6.1), plus the front-end diagnostics collected along
// the way. One Program is built per run and is read-only once Build
// returns; nothing in this package mutates it afterward (spec.md §5: one
// analysis runs at a time against a shared, already-built index).
type Program struct {
	methods     map[string]*ir.IR
	order       []string // signatures, sorted, for deterministic reporting
	diagnostics []frontend.Diagnostic
}

// Method looks up a method's IR by its program-wide signature.
func (p *Program) Method(signature string) (*ir.IR, bool) {
	m, ok := p.methods[signature]
	return m, ok
}

// Methods returns every method's IR, sorted by signature for deterministic
// output across runs.
func (p *Program) Methods() []*ir.IR {
	out := make([]*ir.IR, 0, len(p.order))
	for _, sig := range p.order {
		out = append(out, p.methods[sig])
	}
	return out
}

// Diagnostics returns every front-end diagnostic collected while building
// the index, across all translation units.
func (p *Program) Diagnostics() []frontend.Diagnostic { return p.diagnostics }

// File describes one source file to feed to the front end.
type File struct {
	Path string
	Src  []byte
}

// Build parses every file with fe, builds each recognised method's IR, and
// assembles the resulting Program. A file the front end fails to parse
// produces a logged, non-fatal errs.FrontEndError and is skipped (spec.md
// §7); Build only returns an error for something that makes the whole run
// meaningless, such as a duplicate method signature (spec.md §6.1: method
// signatures are the program-wide key, so a collision is a misconfigured
// run, not a per-file failure — errs.ConfigurationError, not a contract
// violation, since nothing about the IR builder or an analysis is broken).
func Build(fe frontend.FrontEnd, files []File, logger hclog.Logger) (*Program, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	p := &Program{methods: make(map[string]*ir.IR)}

	for _, f := range files {
		tu, diags, err := fe.Parse(f.Path, f.Src)
		p.diagnostics = append(p.diagnostics, diags...)
		for _, d := range diags {
			logger.Warn("front end diagnostic", "file", d.File, "line", d.Line, "message", d.Message)
		}
		if err != nil {
			feErr := errs.NewFrontEndError(f.Path, "parse failed", err)
			logger.Error("skipping translation unit", "file", f.Path, "error", feErr)
			continue
		}
		if tu == nil {
			continue
		}

		for _, method := range tu.Methods {
			m, err := ir.Build(method)
			if err != nil {
				logger.Error("skipping method", "signature", method.Signature, "error", err)
				continue
			}
			if _, exists := p.methods[m.Signature()]; exists {
				return nil, errs.NewConfigurationError(fmt.Sprintf("duplicate method signature %q", m.Signature()), nil)
			}
			p.methods[m.Signature()] = m
			p.order = append(p.order, m.Signature())
		}
	}

	sort.Strings(p.order)
	return p, nil
}
