// Package kinship derives traversal structures from a linked
// [gedcom.Document]: canonical hierarchies, hourglass generation layers,
// typed connection lists, role classifications, and person graphs.
//
// # Canonical Nodes
//
// Every structure built here holds references to the document's own
// [gedcom.Individual] values and never copies them. Within one structure an
// identifier maps to exactly one node, and each traversal carries its own
// visited set so pedigree collapse, remarriage inside the family, and
// outright reference loops terminate instead of recursing forever.
//
// # Queries
//
//   - [BuildHierarchy]: a single-rooted descent tree over the connected
//     component of the root.
//   - [BuildHourglass]: bounded ancestor and descendant layers around a
//     central person.
//   - [Connections]: deduplicated {source, target, type} edges for
//     relationship-bundling views.
//   - [Roles] and [FamilyLinks]: node roles and links for force diagrams.
//   - [AncestorTree] and [DescendantTree]: single-direction lineage trees.
//   - [PersonGraph]: a generation-layered [dag.DAG] for export.
//
// All queries are read-only with respect to the document and may run
// concurrently once parsing and linking have finished.
//
// # Missing Roots
//
// A query rooted at an unknown identifier returns [ErrNotFound] together with
// an empty, non-nil result. Callers decide whether that is worth reporting.
package kinship
