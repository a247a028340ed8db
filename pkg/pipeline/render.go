package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/lineage/pkg/dag"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/observability"
	"github.com/matzehuels/lineage/pkg/render/nodelink"
)

// Render generates artifacts for every format in opts.Formats, calling the
// render hooks around each one.
func (r *Runner) Render(ctx context.Context, g *dag.DAG, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})
	hooks := observability.Pipeline()
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hooks.OnRenderStart(ctx, format, g.NodeCount())
		start := time.Now()
		data, err := renderFormat(g, dot, format, opts)
		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		r.Logger.Debug("rendered", "format", format, "bytes", len(data))
		artifacts[format] = data
	}

	return artifacts, nil
}

// RenderFormat generates a single artifact without hooks or logging.
func RenderFormat(g *dag.DAG, format string, opts Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	format = strings.ToLower(format)
	opts.SetRenderDefaults()
	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})
	return renderFormat(g, dot, format, opts)
}

func renderFormat(g *dag.DAG, dot, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return nodelink.RenderSVG(dot)
	case FormatDOT:
		return []byte(dot), nil
	case FormatJSON:
		return graph.MarshalGraph(g)
	case FormatPDF:
		return nodelink.RenderPDF(dot)
	case FormatPNG:
		return nodelink.RenderPNG(dot, opts.Scale)
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}
