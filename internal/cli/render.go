package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // output file path (or base path for multiple outputs); "-" writes to stdout
	formats  string  // comma-separated output formats
	detailed bool    // show identifier, row and metadata in node labels
	scale    float64 // PNG scale factor
}

// renderCommand creates the render command for drawing person graphs.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <file> [id]",
		Short: "Render a generation-layered person graph",
		Long: `Render a generation-layered person graph.

With an id only the individuals connected to it are drawn; otherwise the
whole file is. A .json input is read as a person graph exported earlier with
-f json and redrawn without re-running the layout. Formats: svg, dot, json,
pdf, png. PDF and PNG need rsvg-convert (librsvg) on the PATH.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts := c.baseOptions()
			if cmd.Flags().Changed("format") {
				popts.Formats = parseFormats(opts.formats)
			}
			if cmd.Flags().Changed("detailed") {
				popts.Detailed = opts.detailed
			}
			popts.Scale = opts.scale
			if err := popts.ValidateForRender(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], optionalArg(args, 1), popts, opts.output)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple); - for stdout")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), dot, json, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show identifiers, rows and metadata in labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")

	return cmd
}

// runRender executes the pipeline and writes each artifact.
func (c *CLI) runRender(ctx context.Context, input, rootID string, opts pipeline.Options, output string) error {
	prog := newProgress(c.Logger)

	spinner := newSpinnerWithContext(ctx, "Rendering person graph...")
	spinner.Start()

	var result *pipeline.Result
	var err error
	if isGraphFile(input) {
		if rootID != "" {
			spinner.Stop()
			return fmt.Errorf("a JSON person graph is drawn whole; drop the id %q", rootID)
		}
		result, err = c.newRunner().RenderGraphFile(ctx, input, opts)
	} else {
		result, err = c.newRunner().Execute(ctx, input, rootID, opts)
	}
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}
	prog.donef("Rendered %d people", result.Stats.NodeCount)
	if len(paths) > 0 {
		printSuccess("Wrote %d file(s)", len(paths))
		for _, p := range paths {
			printFile(p)
		}
	}
	return nil
}

// isGraphFile reports whether input is an exported JSON person graph.
func isGraphFile(input string) bool {
	return strings.EqualFold(filepath.Ext(input), "."+pipeline.FormatJSON)
}

// writeArtifacts writes rendered artifacts in format order and returns the
// paths written. output "-" streams a single artifact to stdout.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	if output == "-" {
		if len(formats) != 1 {
			return nil, fmt.Errorf("stdout output needs exactly one format, got %d", len(formats))
		}
		_, err := os.Stdout.Write(artifacts[formats[0]])
		return nil, err
	}

	var paths []string
	for _, format := range formats {
		path := outputPath(output, input, format, len(formats) > 1)
		if err := writeFile(path, artifacts[format]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath picks the file for one format. A single format uses output
// verbatim when given; otherwise the format extension is appended to
// basePath.
func outputPath(output, input, format string, multiple bool) string {
	if output != "" && !multiple {
		return output
	}
	return basePath(output, input) + "." + format
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(pipeline.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// parseFormats parses a comma-separated format string into a slice.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return []string{pipeline.FormatSVG}
	}
	return out
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
