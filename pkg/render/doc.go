// Package render provides output formats for family graphs.
//
// # Overview
//
// Rendering takes a generation-layered person graph (see pkg/kinship and
// pkg/dag) and produces a drawing:
//
//   - Node-link diagrams via Graphviz (in the [nodelink] subpackage)
//   - Generic format conversion (SVG to PDF/PNG)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg, err := nodelink.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [nodelink]: github.com/matzehuels/lineage/pkg/render/nodelink
package render
