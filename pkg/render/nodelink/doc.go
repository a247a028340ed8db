// Package nodelink renders family graphs as node-link diagrams.
//
// # Overview
//
// People become nodes shaped by sex (box for male, ellipse for female,
// octagon otherwise). Parent edges are arrows from parent to child. Spouse
// edges are undirected and drawn dashed once the union has ended. Each
// generation row is pinned to one Graphviz rank so partners sit side by side.
//
// # Usage
//
//	g, _ := kinship.PersonGraph(doc, nil)
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)
//
// # Options
//
//   - Detailed: labels carry the identifier, row, and every metadata key
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
