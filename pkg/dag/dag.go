package dag

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the same
	// ID already exists. Each person appears once per graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrSelfLoop is returned by [DAG.AddEdge] when From equals To.
	ErrSelfLoop = errors.New("edge endpoints must differ")

	// ErrInvalidEdgeEndpoint is returned by [DAG.Validate] when an edge
	// references a node that doesn't exist.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrRowOrder is returned by [DAG.Validate] when a parent edge does not
	// point to a strictly lower row.
	ErrRowOrder = errors.New("parent edges must point to a later row")

	// ErrGraphHasCycle is returned by [DAG.Validate] when the parent edges
	// contain a cycle.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to nodes, edges or the
// graph (birth date, sex, family id, union status). Metadata maps are never
// nil after insertion.
type Metadata map[string]any

// EdgeKind distinguishes descent edges from union edges.
type EdgeKind int

const (
	// EdgeParent points from a parent to a child. Only parent edges take part
	// in layering and cycle detection.
	EdgeParent EdgeKind = iota
	// EdgeSpouse joins two partners. Direction is husband to wife by convention
	// and carries no meaning.
	EdgeSpouse
)

func (k EdgeKind) String() string {
	if k == EdgeSpouse {
		return "spouse"
	}
	return "parent"
}

// Node is a person in the graph with an assigned row (generation).
type Node struct {
	ID    string   // Canonical individual identifier
	Label string   // Display label; ID is used when empty
	Row   int      // Generation row (0 = oldest)
	Meta  Metadata // Never nil after AddNode
}

// DisplayLabel returns Label if set, otherwise ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a typed connection between two nodes.
type Edge struct {
	From string
	To   string
	Kind EdgeKind
	Meta Metadata // Never nil after AddEdge
}

// DAG is an arena of canonical person nodes with parent and spouse edges,
// indexed by generation row. Parent edges are expected to be acyclic once
// [transform.BreakCycles] has run; spouse edges are unconstrained.
//
// The zero value is not usable - use New. DAG is not safe for concurrent
// mutation.
type DAG struct {
	nodes    map[string]*Node
	order    []string
	edges    []Edge
	outgoing map[string][]string // parent id -> child ids
	incoming map[string][]string // child id -> parent ids
	partners map[string][]string
	rows     map[int][]*Node
	meta     Metadata
}

// New creates an empty graph with optional graph-level metadata.
func New(meta Metadata) *DAG {
	if meta == nil {
		meta = Metadata{}
	}
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		partners: make(map[string][]string),
		rows:     make(map[int][]*Node),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
func (d *DAG) Meta() Metadata { return d.meta }

// AddNode adds a node and indexes it by Row.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	d.nodes[node.ID] = node
	d.order = append(d.order, node.ID)
	d.rows[node.Row] = append(d.rows[node.Row], node)
	return nil
}

// AddEdge adds a typed edge between two existing, distinct nodes.
// Adding an edge that already exists with the same kind is a no-op.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if e.From == e.To {
		return ErrSelfLoop
	}
	if d.HasEdge(e.From, e.To, e.Kind) {
		return nil
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	d.edges = append(d.edges, e)
	switch e.Kind {
	case EdgeSpouse:
		d.partners[e.From] = append(d.partners[e.From], e.To)
		d.partners[e.To] = append(d.partners[e.To], e.From)
	default:
		d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
		d.incoming[e.To] = append(d.incoming[e.To], e.From)
	}
	return nil
}

// HasEdge reports whether an edge of the given kind exists. Spouse edges
// match in either direction.
func (d *DAG) HasEdge(from, to string, kind EdgeKind) bool {
	if kind == EdgeSpouse {
		return slices.Contains(d.partners[from], to)
	}
	return slices.Contains(d.outgoing[from], to)
}

// RemoveEdge removes the parent edge from→to if it exists.
func (d *DAG) RemoveEdge(from, to string) {
	d.edges = slices.DeleteFunc(d.edges, func(e Edge) bool {
		return e.Kind == EdgeParent && e.From == from && e.To == to
	})
	d.outgoing[from] = slices.DeleteFunc(d.outgoing[from], func(s string) bool { return s == to })
	d.incoming[to] = slices.DeleteFunc(d.incoming[to], func(s string) bool { return s == from })
}

// SetRows updates row assignments and rebuilds the row index. Nodes not in
// rows keep their current row.
func (d *DAG) SetRows(rows map[string]int) {
	d.rows = make(map[int][]*Node)
	for _, id := range d.order {
		n := d.nodes[id]
		if r, ok := rows[id]; ok {
			n.Row = r
		}
		d.rows[n.Row] = append(d.rows[n.Row], n)
	}
}

// Nodes returns all nodes in insertion order. The pointers refer to the
// graph's own nodes.
func (d *DAG) Nodes() []*Node {
	out := make([]*Node, len(d.order))
	for i, id := range d.order {
		out[i] = d.nodes[id]
	}
	return out
}

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges of both kinds.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Node returns the node with the given ID.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Children returns child IDs reached through parent edges. Read-only view.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns parent IDs reached through parent edges. Read-only view.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// Partners returns IDs joined to id by spouse edges. Read-only view.
func (d *DAG) Partners(id string) []string { return d.partners[id] }

// InDegree returns the number of parent edges into id.
func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// OutDegree returns the number of parent edges out of id.
func (d *DAG) OutDegree(id string) int { return len(d.outgoing[id]) }

// NodesInRow returns the nodes assigned to row, in insertion order.
func (d *DAG) NodesInRow(row int) []*Node { return d.rows[row] }

// RowCount returns the number of distinct rows.
func (d *DAG) RowCount() int { return len(d.rows) }

// RowIDs returns all row indices in ascending order.
func (d *DAG) RowIDs() []int { return slices.Sorted(maps.Keys(d.rows)) }

// MaxRow returns the highest row index, or 0 for an empty graph.
func (d *DAG) MaxRow() int {
	ids := d.RowIDs()
	if len(ids) == 0 {
		return 0
	}
	return ids[len(ids)-1]
}

// Sources returns nodes without parents in insertion order: the oldest
// known generation and everyone who married into the graph.
func (d *DAG) Sources() []*Node {
	var out []*Node
	for _, id := range d.order {
		if len(d.incoming[id]) == 0 {
			out = append(out, d.nodes[id])
		}
	}
	return out
}

// Validate checks that every edge references existing nodes, that parent
// edges point to a strictly later row, and that parent edges are acyclic.
func (d *DAG) Validate() error {
	for _, e := range d.edges {
		src, okS := d.nodes[e.From]
		dst, okD := d.nodes[e.To]
		if !okS || !okD {
			return ErrInvalidEdgeEndpoint
		}
		if e.Kind == EdgeParent && dst.Row <= src.Row {
			return ErrRowOrder
		}
	}
	return d.detectCycles()
}

func (d *DAG) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.nodes))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range d.outgoing[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
			}
			if hasCycle {
				return
			}
		}
		color[id] = black
	}

	for _, id := range d.order {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}
