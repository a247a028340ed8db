package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/lineage/pkg/dag"
)

func family() *dag.DAG {
	g := dag.New(nil)
	g.AddNode(dag.Node{ID: "@I1@", Label: "Abe", Row: 0, Meta: dag.Metadata{"sex": "M", "birth": "1900"}})
	g.AddNode(dag.Node{ID: "@I2@", Label: "Bea", Row: 0, Meta: dag.Metadata{"sex": "F"}})
	g.AddNode(dag.Node{ID: "@I3@", Label: "Cid", Row: 1})
	g.AddEdge(dag.Edge{From: "@I1@", To: "@I2@", Kind: dag.EdgeSpouse, Meta: dag.Metadata{"ended": true}})
	g.AddEdge(dag.Edge{From: "@I1@", To: "@I3@"})
	g.AddEdge(dag.Edge{From: "@I2@", To: "@I3@", Meta: dag.Metadata{"step": true}})
	return g
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(family(), Options{})

	for _, want := range []string{
		"digraph G",
		`"@I1@" [label="Abe\nb. 1900", shape=box`,
		`"@I2@" [label="Bea", shape=ellipse`,
		`"@I3@" [label="Cid", shape=octagon]`,
		`{ rank=same; "@I1@"; "@I2@"; }`,
		`"@I1@" -> "@I3@";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q\n%s", want, dot)
		}
	}
}

func TestToDOT_Edges(t *testing.T) {
	dot := ToDOT(family(), Options{})

	if !strings.Contains(dot, `"@I1@" -> "@I2@" [dir=none, constraint=false, color="#888888", style=dashed];`) {
		t.Errorf("ended spouse edge not dashed and undirected:\n%s", dot)
	}
	if !strings.Contains(dot, `"@I2@" -> "@I3@" [style=dotted];`) {
		t.Errorf("step edge not dotted:\n%s", dot)
	}
}

func TestFmtLabel(t *testing.T) {
	tests := []struct {
		name     string
		node     dag.Node
		detailed bool
		want     []string
	}{
		{"name only", dag.Node{ID: "@I1@", Label: "Ann"}, false, []string{"Ann"}},
		{"no label", dag.Node{ID: "@I1@"}, false, []string{"@I1@"}},
		{"both dates", dag.Node{ID: "x", Label: "Ann", Meta: dag.Metadata{"birth": "1900", "death": "1980"}}, false, []string{"Ann\n1900 - 1980"}},
		{"death only", dag.Node{ID: "x", Label: "Ann", Meta: dag.Metadata{"death": "1980"}}, false, []string{"Ann\nd. 1980"}},
		{"detailed", dag.Node{ID: "@I1@", Label: "Ann", Row: 2, Meta: dag.Metadata{"key": "value"}}, true, []string{"Ann\n@I1@", "row: 2", "key: value"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label := fmtLabel(tt.node, tt.detailed)
			if !tt.detailed && label != tt.want[0] {
				t.Errorf("fmtLabel() = %q, want %q", label, tt.want[0])
			}
			for _, w := range tt.want {
				if !strings.Contains(label, w) {
					t.Errorf("fmtLabel() = %q, missing %q", label, w)
				}
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(family(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(`not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
