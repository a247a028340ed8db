package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/lineage/pkg/dag"
	"github.com/matzehuels/lineage/pkg/render"
)

// Metadata keys read from nodes and edges. They match those written by
// kinship.PersonGraph.
const (
	metaSex   = "sex"
	metaBirth = "birth"
	metaDeath = "death"
	metaEnded = "ended"
	metaStep  = "step"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the identifier, row and all metadata in node labels.
	// When false, labels show the name and life dates only.
	Detailed bool
}

// ToDOT converts a person graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(g *dag.DAG, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=\"filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		label := fmtLabel(*n, opts.Detailed)
		attrs := fmtAttrs(*n, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, row := range g.RowIDs() {
		nodes := g.NodesInRow(row)
		if len(nodes) < 2 {
			continue
		}
		ids := make([]string, len(nodes))
		for i, n := range nodes {
			ids[i] = strconv.Quote(n.ID)
		}
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(ids, "; "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q%s;\n", e.From, e.To, fmtEdgeAttrs(e))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n dag.Node, detailed bool) string {
	name := n.DisplayLabel()
	if !detailed {
		if dates := lifeDates(n.Meta); dates != "" {
			return name + "\n" + dates
		}
		return name
	}

	parts := []string{n.ID, fmt.Sprintf("row: %d", n.Row)}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	return name + "\n" + strings.Join(parts, "\n")
}

func lifeDates(meta dag.Metadata) string {
	birth, _ := meta[metaBirth].(string)
	death, _ := meta[metaDeath].(string)
	switch {
	case birth == "" && death == "":
		return ""
	case death == "":
		return "b. " + birth
	case birth == "":
		return "d. " + death
	}
	return birth + " - " + death
}

func fmtAttrs(n dag.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch sex, _ := n.Meta[metaSex].(string); strings.ToUpper(sex) {
	case "M":
		attrs = append(attrs, "shape=box", "fillcolor=\"#dbe9f6\"")
	case "F":
		attrs = append(attrs, "shape=ellipse", "fillcolor=\"#f6dbe4\"")
	default:
		attrs = append(attrs, "shape=octagon")
	}
	return attrs
}

func fmtEdgeAttrs(e dag.Edge) string {
	var attrs []string
	switch e.Kind {
	case dag.EdgeSpouse:
		attrs = append(attrs, "dir=none", "constraint=false", "color=\"#888888\"")
		if ended, _ := e.Meta[metaEnded].(bool); ended {
			attrs = append(attrs, "style=dashed")
		}
	default:
		if step, _ := e.Meta[metaStep].(bool); step {
			attrs = append(attrs, "style=dotted")
		}
	}
	if len(attrs) == 0 {
		return ""
	}
	return " [" + strings.Join(attrs, ", ") + "]"
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
