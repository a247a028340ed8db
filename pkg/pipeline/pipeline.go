// Package pipeline provides the load → query → render pipeline for lineage.
//
// This package implements the orchestration shared by the CLI commands and
// the JSON API server. By centralizing it, every entry point resolves
// individuals, validates bounds, and maps errors the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Parse a GEDCOM source, build its registries, and link them
//  2. Query: Run a kinship query (hierarchy, hourglass, connections) or
//     lay out a generation-layered person graph
//  3. Render: Generate output in various formats (SVG, DOT, JSON, PDF, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{Formats: []string{"svg"}}
//	result, err := runner.Execute(ctx, "family.ged", "@I1@", opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Load only
//	src, err := runner.Load(ctx, "family.ged", opts)
//
//	// Query a loaded source
//	hg, err := runner.Hourglass(ctx, src, "@I1@", opts)
//
//	// Render a person graph
//	artifacts, err := runner.Render(ctx, g, opts)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineage/pkg/dag"
	perrors "github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/gedcom"
	"github.com/matzehuels/lineage/pkg/kinship"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultUp is the default number of ancestor generations in an hourglass.
	DefaultUp = kinship.DefaultUp

	// DefaultDown is the default number of descendant generations in an hourglass.
	DefaultDown = kinship.DefaultDown

	// DefaultMode is the default connection dedup mode.
	DefaultMode = "strict"

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
)

// Formats lists the supported output formats in display order.
var Formats = []string{FormatSVG, FormatDOT, FormatJSON, FormatPDF, FormatPNG}

// Modes lists the supported connection dedup modes.
var Modes = []string{"strict", "permissive"}

// Lineage tree directions.
const (
	DirectionAncestors   = "ancestors"
	DirectionDescendants = "descendants"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Strict bool `json:"strict,omitempty"` // Fail when the document has diagnostics

	// Query options
	Up   int    `json:"up,omitempty"`
	Down int    `json:"down,omitempty"`
	Mode string `json:"mode,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Scale    float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Source is a loaded and linked document.
type Source struct {
	// ID identifies this load. It is stamped on every JSON export.
	ID string

	// Name is the path or label the document was read from.
	Name string

	// Doc holds the linked registries.
	Doc *gedcom.Document
}

// Result contains the outputs of a full pipeline run.
type Result struct {
	// Source is the loaded document.
	Source *Source

	// Graph is the laid-out person graph.
	Graph *dag.DAG

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Lines       int
	Individuals int
	Families    int
	Diagnostics int
	NodeCount   int
	EdgeCount   int
	LoadTime    time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return perrors.ValidateFormat(format, Formats...)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMode checks that a connection dedup mode is valid.
func ValidateMode(mode string) error {
	if _, err := kinship.ParseDedupMode(mode); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "invalid mode %q (must be one of: strict, permissive)", mode)
	}
	return nil
}

// ValidateDirection checks that a lineage tree direction is valid.
func ValidateDirection(direction string) error {
	switch strings.ToLower(direction) {
	case DirectionAncestors, DirectionDescendants:
		return nil
	}
	return perrors.New(perrors.ErrCodeInvalidInput, "invalid direction %q (must be one of: %s, %s)", direction, DirectionAncestors, DirectionDescendants)
}

// ValidateDepth checks a lineage tree depth. Zero means unbounded.
func ValidateDepth(depth int) error {
	if depth == 0 {
		return nil
	}
	return perrors.ValidateLimit("depth", depth)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForQuery(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetQueryDefaults sets default values for kinship queries.
func (o *Options) SetQueryDefaults() {
	if o.Up == 0 {
		o.Up = DefaultUp
	}
	if o.Down == 0 {
		o.Down = DefaultDown
	}
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	o.setLogger()
}

// ValidateForQuery validates and sets defaults for kinship queries.
func (o *Options) ValidateForQuery() error {
	o.SetQueryDefaults()
	if err := perrors.ValidateLimit("up", o.Up); err != nil {
		return err
	}
	if err := perrors.ValidateLimit("down", o.Down); err != nil {
		return err
	}
	return ValidateMode(o.Mode)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	formats := make([]string, len(o.Formats))
	for i, f := range o.Formats {
		formats[i] = strings.ToLower(f)
	}
	o.Formats = formats
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Scale < 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// DedupMode returns the parsed connection dedup mode.
// It assumes the options were validated.
func (o *Options) DedupMode() kinship.DedupMode {
	m, _ := kinship.ParseDedupMode(o.Mode)
	return m
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
