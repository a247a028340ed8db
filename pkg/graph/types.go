package graph

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/matzehuels/lineage/pkg/dag"
)

// Edge kinds on the wire.
const (
	EdgeParent = "parent"
	EdgeSpouse = "spouse"
)

// =============================================================================
// Graph - Person Graph Serialization
// =============================================================================

// Graph is the serialization format for a person graph.
type Graph struct {
	DocumentID string `json:"document_id,omitempty"`
	Nodes      []Node `json:"nodes"`
	Edges      []Edge `json:"edges"`
}

// Node is one person in a serialized graph.
type Node struct {
	ID    string         `json:"id"`
	Label string         `json:"label,omitempty"`
	Row   int            `json:"row"`
	Meta  map[string]any `json:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a parent or spouse edge.
type Edge struct {
	From string         `json:"from"`
	To   string         `json:"to"`
	Kind string         `json:"kind"`
	Meta map[string]any `json:"meta,omitempty"`
}

// FromDAG converts a DAG to its serialization format. Nodes and edges keep
// insertion order, which follows document order for graphs built by
// kinship.PersonGraph.
func FromDAG(g *dag.DAG) Graph {
	nodes := g.Nodes()
	edges := g.Edges()
	out := Graph{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(edges)),
	}
	if id, ok := g.Meta()[MetaDocumentID].(string); ok {
		out.DocumentID = id
	}
	for i, n := range nodes {
		out.Nodes[i] = Node{ID: n.ID, Label: n.Label, Row: n.Row, Meta: copyMeta(n.Meta)}
	}
	for i, e := range edges {
		out.Edges[i] = Edge{From: e.From, To: e.To, Kind: e.Kind.String(), Meta: copyMeta(e.Meta)}
	}
	return out
}

// ToDAG converts a Graph back to a DAG. Rows are taken as given.
func ToDAG(gj Graph) (*dag.DAG, error) {
	meta := dag.Metadata{}
	if gj.DocumentID != "" {
		meta[MetaDocumentID] = gj.DocumentID
	}
	d := dag.New(meta)

	for _, nj := range gj.Nodes {
		n := dag.Node{ID: nj.ID, Label: nj.Label, Row: nj.Row, Meta: copyMeta(nj.Meta)}
		if err := d.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", nj.ID, err)
		}
	}

	for _, ej := range gj.Edges {
		kind := dag.EdgeParent
		switch ej.Kind {
		case EdgeParent, "":
		case EdgeSpouse:
			kind = dag.EdgeSpouse
		default:
			return nil, fmt.Errorf("edge %s→%s: unknown kind %q", ej.From, ej.To, ej.Kind)
		}
		if err := d.AddEdge(dag.Edge{From: ej.From, To: ej.To, Kind: kind, Meta: copyMeta(ej.Meta)}); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", ej.From, ej.To, err)
		}
	}

	return d, nil
}

// MetaDocumentID is the graph-level metadata key holding the document id.
const MetaDocumentID = "document_id"

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// copyMeta creates a shallow copy of metadata to avoid mutation.
// Empty maps become nil so they are omitted from JSON.
func copyMeta(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return maps.Clone(m)
}
