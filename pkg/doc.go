// Package pkg provides the core libraries for Lineage family tree exploration.
//
// # Overview
//
// Lineage reads GEDCOM genealogy files into a linked relationship graph and
// derives the structures family tree viewers draw: a deduplicated hierarchy,
// an hourglass of ancestor and descendant generations, and typed connections.
// The pkg directory is organized into these areas:
//
//  1. [gedcom] - Tokenizer, record builder and relationship linker
//  2. [kinship] - Queries over a linked document
//  3. [dag] - Generation-layered person graph with its [dag/transform] passes
//  4. [render] - DOT, SVG, PDF and PNG output
//  5. [graph] - JSON wire types for queries and person graphs
//  6. [pipeline] - Orchestration (load → query → layout → render)
//
// # Architecture
//
// The typical data flow through Lineage:
//
//	GEDCOM file
//	     ↓
//	[gedcom] package (tokenize, build records, link relations)
//	     ↓
//	[kinship] package (hierarchy, hourglass, connections)
//	     ↓
//	[graph] package (JSON)  or  [dag] + [render] (diagrams)
//
// # Quick Start
//
// Parse a document and query the generations around one person:
//
//	import (
//	    "github.com/matzehuels/lineage/pkg/gedcom"
//	    "github.com/matzehuels/lineage/pkg/kinship"
//	)
//
//	doc, err := gedcom.Parse(f)
//	if err != nil {
//	    return err
//	}
//	for _, d := range doc.Diagnostics {
//	    log.Println(d)
//	}
//
//	hg, err := kinship.BuildHourglass(doc, "@I1@", 4, 4)
//
// Or let [pipeline] do the loading, error translation and rendering:
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, "family.ged", "@I1@", pipeline.Options{
//	    Formats: []string{"svg", "json"},
//	})
//
// # Supporting Packages
//
// [errors] - Coded errors shared by the CLI and HTTP API, with validation
// helpers for identifiers, paths, formats and generation limits.
//
// [observability] - Hooks for load, query, render and HTTP events. No-op by
// default; the CLI installs logging hooks.
//
// [cache] - Artifact cache used by the HTTP API for rendered graphs.
//
// [buildinfo] - Version information injected at build time.
//
// [gedcom]: github.com/matzehuels/lineage/pkg/gedcom
// [kinship]: github.com/matzehuels/lineage/pkg/kinship
// [dag]: github.com/matzehuels/lineage/pkg/dag
// [dag/transform]: github.com/matzehuels/lineage/pkg/dag/transform
// [render]: github.com/matzehuels/lineage/pkg/render
// [graph]: github.com/matzehuels/lineage/pkg/graph
// [pipeline]: github.com/matzehuels/lineage/pkg/pipeline
// [errors]: github.com/matzehuels/lineage/pkg/errors
// [observability]: github.com/matzehuels/lineage/pkg/observability
// [cache]: github.com/matzehuels/lineage/pkg/cache
// [buildinfo]: github.com/matzehuels/lineage/pkg/buildinfo
package pkg
