// Package graph provides the JSON wire format for parsed genealogy data.
//
// This package sits at the serialization boundary between the in-memory
// model (pkg/gedcom, pkg/kinship, pkg/dag) and external consumers: the
// `lineage` CLI, the HTTP API, and browser renderers that draw hierarchies,
// hourglasses and relationship bundles.
//
// # Core Types
//
//   - [Person], [Family]: read-only views of one record with relations
//     flattened to identifiers
//   - [HierarchyNode]: a canonical tree from [kinship.BuildHierarchy]
//   - [Hourglass]: generation layers from [kinship.BuildHourglass]
//   - [Graph], [Node], [Edge]: node-link format for a person graph
//
// Relations are always identifiers, never nested people, so every document
// can be encoded without cycles.
//
// # Graph Serialization
//
// Person graphs use a node-link JSON format:
//
//	{
//	  "nodes": [{"id": "@I1@", "label": "Ann", "row": 0}],
//	  "edges": [{"from": "@I1@", "to": "@I3@", "kind": "parent"}]
//	}
//
// Common operations:
//
//	data, _ := graph.MarshalGraph(g)        // DAG → []byte
//	g, _ := graph.ReadGraphFile("out.json") // File → DAG
//
// # Document Identity
//
// Every loaded document carries a random identifier (see [NewDocumentID]).
// Exports stamp it so a renderer can tell whether two payloads came from the
// same load.
//
// [kinship.BuildHierarchy]: github.com/matzehuels/lineage/pkg/kinship
// [kinship.BuildHourglass]: github.com/matzehuels/lineage/pkg/kinship
package graph
