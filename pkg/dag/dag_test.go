package dag

import (
	"errors"
	"testing"
)

func TestAddNode(t *testing.T) {
	g := New(nil)
	if err := g.AddNode(Node{ID: ""}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want %v", err, ErrInvalidNodeID)
	}
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode(a) = %v", err)
	}
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(a) again = %v, want %v", err, ErrDuplicateNodeID)
	}
	n, _ := g.Node("a")
	if n.Meta == nil {
		t.Error("Meta is nil after AddNode")
	}
}

func TestAddEdge(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})

	tests := []struct {
		name string
		edge Edge
		want error
	}{
		{"unknown source", Edge{From: "x", To: "b"}, ErrUnknownSourceNode},
		{"unknown target", Edge{From: "a", To: "x"}, ErrUnknownTargetNode},
		{"self loop", Edge{From: "a", To: "a"}, ErrSelfLoop},
		{"parent", Edge{From: "a", To: "b"}, nil},
		{"parent again", Edge{From: "a", To: "b"}, nil},
		{"spouse", Edge{From: "a", To: "b", Kind: EdgeSpouse}, nil},
		{"spouse reversed", Edge{From: "b", To: "a", Kind: EdgeSpouse}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddEdge(tt.edge); !errors.Is(err, tt.want) {
				t.Errorf("AddEdge() = %v, want %v", err, tt.want)
			}
		})
	}

	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
	if got := g.InDegree("b"); got != 1 {
		t.Errorf("InDegree(b) = %d, want 1", got)
	}
	if got := g.Partners("b"); len(got) != 1 || got[0] != "a" {
		t.Errorf("Partners(b) = %v, want [a]", got)
	}
}

func TestRemoveEdge(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	_ = g.AddEdge(Edge{From: "a", To: "b", Kind: EdgeSpouse})

	g.RemoveEdge("a", "b")

	if g.HasEdge("a", "b", EdgeParent) {
		t.Error("parent edge still present")
	}
	if !g.HasEdge("a", "b", EdgeSpouse) {
		t.Error("spouse edge removed with parent edge")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
}

func TestSetRows(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})
	_ = g.AddNode(Node{ID: "c", Row: 5})

	g.SetRows(map[string]int{"b": 2})

	if got := g.RowIDs(); len(got) != 3 || got[0] != 0 || got[1] != 2 || got[2] != 5 {
		t.Errorf("RowIDs() = %v, want [0 2 5]", got)
	}
	if g.MaxRow() != 5 {
		t.Errorf("MaxRow() = %d, want 5", g.MaxRow())
	}
	if got := g.NodesInRow(2); len(got) != 1 || got[0].ID != "b" {
		t.Errorf("NodesInRow(2) = %v, want [b]", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		rows  map[string]int
		edges []Edge
		want  error
	}{
		{
			name:  "ordered",
			rows:  map[string]int{"a": 0, "b": 1},
			edges: []Edge{{From: "a", To: "b"}},
		},
		{
			name:  "spouses share a row",
			rows:  map[string]int{"a": 0, "b": 0},
			edges: []Edge{{From: "a", To: "b", Kind: EdgeSpouse}},
		},
		{
			name:  "same row parent",
			rows:  map[string]int{"a": 0, "b": 0},
			edges: []Edge{{From: "a", To: "b"}},
			want:  ErrRowOrder,
		},
		{
			name:  "cycle",
			rows:  map[string]int{"a": 0, "b": 1, "c": 2},
			edges: []Edge{{From: "a", To: "b"}, {From: "b", To: "c"}, {From: "c", To: "a"}},
			want:  ErrRowOrder,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(nil)
			for _, id := range []string{"a", "b", "c"} {
				_ = g.AddNode(Node{ID: id, Row: tt.rows[id]})
			}
			for _, e := range tt.edges {
				_ = g.AddEdge(e)
			}
			if err := g.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDetectCycles(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	_ = g.AddEdge(Edge{From: "b", To: "a"})

	if err := g.detectCycles(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("detectCycles() = %v, want %v", err, ErrGraphHasCycle)
	}
}
