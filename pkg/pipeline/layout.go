package pipeline

import (
	"github.com/matzehuels/lineage/pkg/dag"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/kinship"
)

// =============================================================================
// Layout Generation
// =============================================================================

// Layout builds the generation-layered person graph for a source.
//
// With an empty rootID every individual is included; otherwise the graph
// covers the connected component of rootID. The graph metadata carries the
// source's document id.
func Layout(src *Source, rootID string) (*dag.DAG, error) {
	var ids []string
	if rootID != "" {
		h, err := kinship.BuildHierarchy(src.Doc, rootID)
		if err != nil {
			return nil, translate(err, rootID)
		}
		ids = h.IDs()
	}

	g, err := kinship.PersonGraph(src.Doc, ids)
	if err != nil {
		return nil, translate(err, rootID)
	}
	g.Meta()[graph.MetaDocumentID] = src.ID
	return g, nil
}
