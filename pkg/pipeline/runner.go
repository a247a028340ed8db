package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineage/pkg/dag"
	perrors "github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/gedcom"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/kinship"
	"github.com/matzehuels/lineage/pkg/observability"
)

// Runner encapsulates pipeline execution with logging and hooks.
// Both CLI and API use this to avoid duplicating query logic.
//
// The Runner is stateless except for the logger - it doesn't store loaded
// sources. Multiple goroutines can safely use the same Runner on the same
// Source, since queries only read the linked document.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete load → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, path, rootID string, opts Options) (*Result, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	src, err := r.Load(ctx, path, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Source = src
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Lines = src.Doc.Lines
	result.Stats.Individuals = src.Doc.NumIndividuals()
	result.Stats.Families = src.Doc.NumFamilies()
	result.Stats.Diagnostics = len(src.Doc.Diagnostics)

	// Stage 2: Layout
	layoutStart := time.Now()
	g, err := r.Layout(ctx, src, rootID)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Graph = g
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	r.Logger.Info("computed layout",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"rows", g.RowCount(),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := r.Render(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderGraphFile renders a person graph previously exported as JSON,
// skipping load and layout. The rows stored in the file are kept as is.
func (r *Runner) RenderGraphFile(ctx context.Context, path string, opts Options) (*Result, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := perrors.ValidatePath(path); err != nil {
		return nil, err
	}

	result := &Result{}
	loadStart := time.Now()
	g, err := graph.ReadGraphFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "file not found: %s", path)
		}
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "read graph %s", path)
	}
	result.Graph = g
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	r.Logger.Info("loaded graph", "source", path, "nodes", g.NodeCount(), "edges", g.EdgeCount())

	renderStart := time.Now()
	artifacts, err := r.Render(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	return result, nil
}

// =============================================================================
// Load
// =============================================================================

// Load reads, parses and links the document at path, logging a summary and
// each diagnostic at debug level.
func (r *Runner) Load(ctx context.Context, path string, opts Options) (*Source, error) {
	start := time.Now()
	src, err := LoadFile(ctx, path, opts)
	if src != nil {
		r.logLoad(src, time.Since(start))
	}
	return src, err
}

func (r *Runner) logLoad(src *Source, d time.Duration) {
	doc := src.Doc
	r.Logger.Info("loaded document",
		"source", src.Name,
		"individuals", doc.NumIndividuals(),
		"families", doc.NumFamilies(),
		"duration", d)
	if n := len(doc.Diagnostics); n > 0 {
		r.Logger.Warn("document has diagnostics", "count", n)
		for _, diag := range doc.Diagnostics {
			r.Logger.Debug(diag.String())
		}
	}
}

// =============================================================================
// Queries
// =============================================================================

// Resolve returns the individual for id, or the document's first individual
// when id is empty.
func (r *Runner) Resolve(src *Source, id string) (*gedcom.Individual, error) {
	if id == "" {
		if first := src.Doc.First(); first != nil {
			return first, nil
		}
		return nil, perrors.New(perrors.ErrCodeNotFound, "document has no individuals")
	}
	if err := perrors.ValidateIdentifier(id); err != nil {
		return nil, err
	}
	ind, ok := src.Doc.Individual(id)
	if !ok {
		return nil, translate(fmt.Errorf("%w: %s", kinship.ErrNotFound, id), id)
	}
	return ind, nil
}

// Person returns the read-only view of one individual.
func (r *Runner) Person(src *Source, id string) (graph.Person, error) {
	ind, err := r.Resolve(src, id)
	if err != nil {
		return graph.Person{}, err
	}
	return graph.FromIndividual(src.Doc, ind), nil
}

// Family returns the read-only view of one family unit.
func (r *Runner) Family(src *Source, id string) (graph.Family, error) {
	if err := perrors.ValidateIdentifier(id); err != nil {
		return graph.Family{}, err
	}
	f, ok := src.Doc.Family(id)
	if !ok {
		return graph.Family{}, perrors.New(perrors.ErrCodeFamilyNotFound, "family not found: %s", id)
	}
	return graph.FromFamily(f), nil
}

// Hierarchy builds the canonical tree rooted at id.
func (r *Runner) Hierarchy(ctx context.Context, src *Source, id string) (graph.Hierarchy, error) {
	var out graph.Hierarchy
	err := r.query(ctx, "hierarchy", src, id, func(root string) (int, error) {
		h, err := kinship.BuildHierarchy(src.Doc, root)
		if err != nil {
			return 0, err
		}
		out = graph.FromHierarchy(h)
		return h.Len(), nil
	})
	out.DocumentID = src.ID
	return out, err
}

// Hourglass builds the generation layers around id, bounded by opts.Up and
// opts.Down.
func (r *Runner) Hourglass(ctx context.Context, src *Source, id string, opts Options) (graph.Hourglass, error) {
	if err := opts.ValidateForQuery(); err != nil {
		return graph.Hourglass{}, err
	}
	var out graph.Hourglass
	err := r.query(ctx, "hourglass", src, id, func(root string) (int, error) {
		hg, err := kinship.BuildHourglass(src.Doc, root, opts.Up, opts.Down)
		if err != nil {
			return 0, err
		}
		out = graph.FromHourglass(hg)
		return len(hg.Members()), nil
	})
	out.DocumentID = src.ID
	return out, err
}

// Connections lists the typed connections inside the node set reachable from
// id, deduplicated according to opts.Mode.
func (r *Runner) Connections(ctx context.Context, src *Source, id string, opts Options) (graph.Connections, error) {
	if err := opts.ValidateForQuery(); err != nil {
		return graph.Connections{}, err
	}
	mode := opts.DedupMode()
	out := graph.Connections{DocumentID: src.ID, Mode: mode.String(), Connections: []kinship.Connection{}}
	err := r.query(ctx, "connections", src, id, func(root string) (int, error) {
		h, err := kinship.BuildHierarchy(src.Doc, root)
		if err != nil {
			return 0, err
		}
		out.Connections = kinship.Connections(h.Individuals(), nil, mode)
		return len(out.Connections), nil
	})
	return out, err
}

// Tree returns the ancestor or descendant lineage tree of id, limited to
// depth generations (0 means unbounded).
func (r *Runner) Tree(ctx context.Context, src *Source, id, direction string, depth int) (graph.Tree, error) {
	if err := ValidateDirection(direction); err != nil {
		return graph.Tree{}, err
	}
	if err := ValidateDepth(depth); err != nil {
		return graph.Tree{}, err
	}
	direction = strings.ToLower(direction)
	build := kinship.DescendantTree
	if direction == DirectionAncestors {
		build = kinship.AncestorTree
	}

	out := graph.Tree{DocumentID: src.ID, Direction: direction, Depth: depth}
	err := r.query(ctx, direction, src, id, func(root string) (int, error) {
		n, err := build(src.Doc, root, depth)
		if err != nil {
			return 0, err
		}
		out.Root = graph.FromTree(n)
		return countTree(n), nil
	})
	return out, err
}

// FamilyDiagram classifies every individual relative to id and lists the
// spouse and parent links of every family.
func (r *Runner) FamilyDiagram(ctx context.Context, src *Source, id string) (graph.FamilyDiagram, error) {
	out := graph.FamilyDiagram{DocumentID: src.ID, Members: []graph.Member{}, Links: []kinship.Connection{}}
	err := r.query(ctx, "roles", src, id, func(root string) (int, error) {
		members, err := kinship.Roles(src.Doc, root)
		if err != nil {
			return 0, err
		}
		out.Central = root
		out.Members = graph.FromRoles(members)
		if links := kinship.FamilyLinks(src.Doc); links != nil {
			out.Links = links
		}
		return len(out.Members), nil
	})
	return out, err
}

func countTree(n *kinship.TreeNode) int {
	size := 1
	for _, c := range n.Children {
		size += countTree(c)
	}
	return size
}

// Layout builds the generation-layered person graph around rootID, or over
// the whole document when rootID is empty.
func (r *Runner) Layout(ctx context.Context, src *Source, rootID string) (g *dag.DAG, err error) {
	run := func(root string) (int, error) {
		g, err = Layout(src, root)
		if err != nil {
			return 0, err
		}
		if removed, ok := g.Meta()["cycles_removed"].(int); ok && removed > 0 {
			r.Logger.Warn("broke descent loops", "edges", removed)
		}
		return g.NodeCount(), nil
	}
	if rootID == "" {
		err = r.track(ctx, "layout", "", func() (int, error) { return run("") })
		return g, err
	}
	err = r.query(ctx, "layout", src, rootID, run)
	return g, err
}

// query resolves id, then runs fn under the query hooks. fn receives the
// canonical identifier.
func (r *Runner) query(ctx context.Context, name string, src *Source, id string, fn func(root string) (int, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ind, err := r.Resolve(src, id)
	if err != nil {
		return err
	}
	return r.track(ctx, name, ind.ID, func() (int, error) {
		size, err := fn(ind.ID)
		return size, translate(err, ind.ID)
	})
}

func (r *Runner) track(ctx context.Context, name, root string, fn func() (int, error)) error {
	hooks := observability.Pipeline()
	hooks.OnQueryStart(ctx, name, root)
	start := time.Now()
	size, err := fn()
	d := time.Since(start)
	hooks.OnQueryComplete(ctx, name, root, size, d, err)
	r.Logger.Debug("query complete", "query", name, "root", root, "size", size, "duration", d)
	return err
}

// translate maps kinship sentinels onto coded errors.
func translate(err error, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, kinship.ErrNotFound):
		return perrors.Wrap(perrors.ErrCodeIndividualNotFound, err, "individual not found: %s", id)
	case errors.Is(err, kinship.ErrInvalidLimit):
		return perrors.Wrap(perrors.ErrCodeInvalidLimit, err, "invalid generation bound")
	case errors.Is(err, kinship.ErrUnknownDedupMode):
		return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "invalid mode")
	}
	return err
}
