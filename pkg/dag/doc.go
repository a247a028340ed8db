// Package dag provides an arena of canonical person nodes organized into
// generation rows, used to export and draw family graphs.
//
// # Overview
//
// Each individual appears exactly once as a [Node]. Two edge kinds connect
// nodes:
//
//   - [EdgeParent]: parent to child. These drive layering and must be
//     acyclic before rendering.
//   - [EdgeSpouse]: partner to partner. Undirected in meaning, ignored by
//     layering and cycle detection.
//
// Genealogical data is not guaranteed to be acyclic (bad merges, reused
// identifiers), so the graph accepts any parent edge and leaves cycle
// removal to [transform.BreakCycles].
//
// # Basic Usage
//
//	g := dag.New(nil)
//	_ = g.AddNode(dag.Node{ID: "@I1@", Label: "Ann"})
//	_ = g.AddNode(dag.Node{ID: "@I3@", Label: "Cid"})
//	_ = g.AddEdge(dag.Edge{From: "@I1@", To: "@I3@"})
//
// Rows are usually assigned by [transform.AssignLayers] rather than by hand.
//
// # Concurrency
//
// DAG instances are not safe for concurrent mutation. A fully built graph may
// be read from several goroutines.
//
// [transform.BreakCycles]: github.com/matzehuels/lineage/pkg/dag/transform
// [transform.AssignLayers]: github.com/matzehuels/lineage/pkg/dag/transform
package dag
