package ir

// EdgeKind classifies a CFG edge (spec.md §3).
type EdgeKind int

const (
	EdgeEntry EdgeKind = iota
	EdgeExit
	EdgeFallThrough
	EdgeJump
	EdgeUnknown
)

// String renders the edge kind the way reports want it (spec.md §3 names).
func (k EdgeKind) String() string {
	switch k {
	case EdgeEntry:
		return "ENTRY"
	case EdgeExit:
		return "EXIT"
	case EdgeFallThrough:
		return "FALL_THROUGH"
	case EdgeJump:
		return "JUMP"
	default:
		return "UNKNOWN"
	}
}

// Edge is one directed, labelled CFG edge.
type Edge struct {
	Src, Dst *Statement
	Kind     EdgeKind
}

// CFG is a directed multigraph over a method's statements with a
// distinguished entry and exit nop (spec.md §3, §4.2). internal/ir's builder
// does not prune unreachable code: a front-end block with no predecessors
// (for example the empty join block after an if whose branches both return)
// still becomes a node, and that node is not reachable from entry.
//
// Construction (addEdge/setEntry/setExit/setIR) is performed exclusively by
// builder.go; CFG itself exposes only the read-only operations spec.md §4.2
// names, plus GetIR, which holds a non-owning reference back to the IR —
// the IR owns the CFG, not vice versa (spec.md §9), so that the two never
// form a Go reference cycle a garbage collector would need finalizers for.
type CFG struct {
	entry, exit *Statement
	out, in     map[uint64][]Edge
	ir          *IR
	edgeCount   int
}

func newCFG() *CFG {
	return &CFG{out: make(map[uint64][]Edge), in: make(map[uint64][]Edge)}
}

func (c *CFG) setEntry(s *Statement) { c.entry = s }
func (c *CFG) setExit(s *Statement)  { c.exit = s }
func (c *CFG) setIR(owner *IR)       { c.ir = owner }

func (c *CFG) addEdge(src, dst *Statement, kind EdgeKind) {
	e := Edge{Src: src, Dst: dst, Kind: kind}
	c.out[src.ID()] = append(c.out[src.ID()], e)
	c.in[dst.ID()] = append(c.in[dst.ID()], e)
	c.edgeCount++
}

// GetEntry returns the synthetic entry nop; it has no predecessors.
func (c *CFG) GetEntry() *Statement { return c.entry }

// GetExit returns the synthetic exit nop; it has no successors.
func (c *CFG) GetExit() *Statement { return c.exit }

// HasEdge reports whether some edge from src targets dst, regardless of
// kind.
func (c *CFG) HasEdge(src, dst *Statement) bool {
	for _, e := range c.out[src.ID()] {
		if e.Dst == dst {
			return true
		}
	}
	return false
}

// PredsOf returns the distinct immediate predecessors of s.
func (c *CFG) PredsOf(s *Statement) []*Statement {
	return distinctTargets(c.in[s.ID()], func(e Edge) *Statement { return e.Src })
}

// SuccsOf returns the distinct immediate successors of s.
func (c *CFG) SuccsOf(s *Statement) []*Statement {
	return distinctTargets(c.out[s.ID()], func(e Edge) *Statement { return e.Dst })
}

// InEdgesOf returns every incoming edge of s; a multigraph may hold more
// than one edge between the same pair of statements.
func (c *CFG) InEdgesOf(s *Statement) []Edge { return c.in[s.ID()] }

// OutEdgesOf returns every outgoing edge of s.
func (c *CFG) OutEdgesOf(s *Statement) []Edge { return c.out[s.ID()] }

// EdgeCount returns the total number of edges in the graph, counting
// parallel edges separately.
func (c *CFG) EdgeCount() int { return c.edgeCount }

// GetIR returns the owning IR.
func (c *CFG) GetIR() *IR { return c.ir }

func distinctTargets(edges []Edge, pick func(Edge) *Statement) []*Statement {
	if len(edges) == 0 {
		return nil
	}
	seen := make(map[uint64]struct{}, len(edges))
	out := make([]*Statement, 0, len(edges))
	for _, e := range edges {
		n := pick(e)
		if _, ok := seen[n.ID()]; ok {
			continue
		}
		seen[n.ID()] = struct{}{}
		out = append(out, n)
	}
	return out
}
