package kinship

import (
	"fmt"

	"github.com/matzehuels/lineage/pkg/dag"
	"github.com/matzehuels/lineage/pkg/dag/transform"
	"github.com/matzehuels/lineage/pkg/gedcom"
)

// Node metadata keys set by [PersonGraph].
const (
	MetaSex    = "sex"
	MetaBirth  = "birth"
	MetaDeath  = "death"
	MetaFamily = "family"
	MetaEnded  = "ended"
	MetaStep   = "step"
)

// PersonGraph builds a generation-layered graph over the given individuals.
// A nil ids slice selects every individual in the document.
//
// Each person becomes one node. A parent edge joins every parent to a child
// when both are selected, marked step when the link is a step relation. A
// spouse edge joins the husband and wife of every family whose two partners
// are selected, marked ended when the union has ended. Descent loops are
// broken before rows are assigned, and married-in partners share their
// spouse's row.
func PersonGraph(doc *gedcom.Document, ids []string) (*dag.DAG, error) {
	var people []*gedcom.Individual
	if ids == nil {
		people = doc.Individuals()
	} else {
		for _, id := range ids {
			ind, ok := doc.Individual(id)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			people = append(people, ind)
		}
	}

	g := dag.New(nil)
	for _, p := range people {
		meta := dag.Metadata{}
		if p.Sex != "" {
			meta[MetaSex] = p.Sex
		}
		if d := p.Birth().Value("date"); d != "" {
			meta[MetaBirth] = d
		}
		if d := p.Death().Value("date"); d != "" {
			meta[MetaDeath] = d
		}
		// Duplicate ids in the selection are harmless.
		_ = g.AddNode(dag.Node{ID: p.ID, Label: p.DisplayName(), Meta: meta})
	}

	for _, child := range people {
		for _, parent := range child.Parents {
			if _, ok := g.Node(parent.ID); !ok {
				continue
			}
			meta := dag.Metadata{}
			if child.IsStepChildOf(parent.ID) {
				meta[MetaStep] = true
			}
			_ = g.AddEdge(dag.Edge{From: parent.ID, To: child.ID, Kind: dag.EdgeParent, Meta: meta})
		}
	}

	for _, f := range doc.Families() {
		if f.HusbandRef == nil || f.WifeRef == nil {
			continue
		}
		_, okH := g.Node(f.HusbandRef.ID)
		_, okW := g.Node(f.WifeRef.ID)
		if !okH || !okW {
			continue
		}
		_ = g.AddEdge(dag.Edge{
			From: f.HusbandRef.ID,
			To:   f.WifeRef.ID,
			Kind: dag.EdgeSpouse,
			Meta: dag.Metadata{MetaFamily: f.ID, MetaEnded: f.Status == gedcom.StatusEnded},
		})
	}

	if removed := transform.BreakCycles(g); removed > 0 {
		g.Meta()["cycles_removed"] = removed
	}
	transform.AssignLayers(g)
	transform.AlignSpouses(g)
	return g, nil
}
