package kinship

import (
	"fmt"

	"github.com/matzehuels/lineage/pkg/gedcom"
)

// Default generation bounds for [BuildHourglass].
const (
	DefaultUp   = 4
	DefaultDown = 4
)

// Hourglass holds the generation layers around a central individual.
type Hourglass struct {
	Central *gedcom.Individual

	// Ancestors lists parent generations oldest-first: the last layer holds
	// the central individual's parents.
	Ancestors [][]*gedcom.Individual

	// Descendants lists child generations nearest-first.
	Descendants [][]*gedcom.Individual

	// Siblings are the other children of the central individual's child-of
	// family.
	Siblings []*gedcom.Individual

	// Spouses are current partners followed by ended ones.
	Spouses []*gedcom.Individual

	generation map[string]int
}

// Generation returns the signed generation stamped on id: negative for
// ancestors, positive for descendants, zero for the center and its peers.
// The second result is false if id is not part of the hourglass.
func (h *Hourglass) Generation(id string) (int, bool) {
	g, ok := h.generation[gedcom.NormalizeID(id)]
	return g, ok
}

// Members returns every individual in the hourglass once, in stamp order:
// central, siblings, spouses, ancestors (oldest layer first), descendants.
func (h *Hourglass) Members() []*gedcom.Individual {
	if h.Central == nil {
		return nil
	}
	seen := make(map[string]bool, len(h.generation))
	var out []*gedcom.Individual
	add := func(people ...*gedcom.Individual) {
		for _, p := range people {
			if !seen[p.ID] {
				seen[p.ID] = true
				out = append(out, p)
			}
		}
	}
	add(h.Central)
	add(h.Siblings...)
	add(h.Spouses...)
	for _, layer := range h.Ancestors {
		add(layer...)
	}
	for _, layer := range h.Descendants {
		add(layer...)
	}
	return out
}

func (h *Hourglass) stamp(gen int, people ...*gedcom.Individual) {
	for _, p := range people {
		if _, ok := h.generation[p.ID]; !ok {
			h.generation[p.ID] = gen
		}
	}
}

// BuildHourglass expands up to up ancestor generations and down descendant
// generations from centralID.
//
// Each direction is a breadth-first walk with its own visited set seeded with
// the center, so repeated ancestors under pedigree collapse are expanded once
// and a document with a parent/child loop still terminates. Expansion stops
// early when a frontier comes up empty. A zero bound skips that direction.
func BuildHourglass(doc *gedcom.Document, centralID string, up, down int) (*Hourglass, error) {
	h := &Hourglass{generation: make(map[string]int)}
	if up < 0 || down < 0 {
		return h, fmt.Errorf("%w: up=%d down=%d", ErrInvalidLimit, up, down)
	}
	central, ok := doc.Individual(centralID)
	if !ok {
		return h, fmt.Errorf("%w: %s", ErrNotFound, centralID)
	}
	h.Central = central

	if fam := central.ChildFamily; fam != nil {
		for _, c := range fam.ChildRefs {
			if c.ID != central.ID {
				h.Siblings = append(h.Siblings, c)
			}
		}
	}
	h.Spouses = make([]*gedcom.Individual, 0, len(central.Spouses)+len(central.ExSpouses))
	h.Spouses = append(h.Spouses, central.Spouses...)
	h.Spouses = append(h.Spouses, central.ExSpouses...)

	ancestors := expand(central, up, func(i *gedcom.Individual) []*gedcom.Individual { return i.Parents })
	for l, r := 0, len(ancestors)-1; l < r; l, r = l+1, r-1 {
		ancestors[l], ancestors[r] = ancestors[r], ancestors[l]
	}
	h.Ancestors = ancestors
	h.Descendants = expand(central, down, func(i *gedcom.Individual) []*gedcom.Individual { return i.Children })

	h.stamp(0, central)
	h.stamp(0, h.Siblings...)
	h.stamp(0, h.Spouses...)
	for i, layer := range h.Ancestors {
		h.stamp(-(len(h.Ancestors) - i), layer...)
	}
	for i, layer := range h.Descendants {
		h.stamp(i+1, layer...)
	}
	return h, nil
}

// expand returns up to limit layers, nearest first.
func expand(center *gedcom.Individual, limit int, next func(*gedcom.Individual) []*gedcom.Individual) [][]*gedcom.Individual {
	visited := map[string]bool{center.ID: true}
	frontier := []*gedcom.Individual{center}
	var layers [][]*gedcom.Individual

	for gen := 1; gen <= limit; gen++ {
		var layer []*gedcom.Individual
		for _, person := range frontier {
			for _, rel := range next(person) {
				if visited[rel.ID] {
					continue
				}
				visited[rel.ID] = true
				layer = append(layer, rel)
			}
		}
		if len(layer) == 0 {
			break
		}
		layers = append(layers, layer)
		frontier = layer
	}
	return layers
}
