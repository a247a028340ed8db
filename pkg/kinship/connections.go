package kinship

import (
	"fmt"
	"strings"

	"github.com/matzehuels/lineage/pkg/gedcom"
)

// RelationType labels a [Connection].
type RelationType string

const (
	// RelationParent: Target is a parent of Source.
	RelationParent RelationType = "parent"
	// RelationChild: Target is a child of Source.
	RelationChild  RelationType = "child"
	RelationSpouse RelationType = "spouse"
	RelationOther  RelationType = "other"
)

// Connection is a typed edge between two individuals of a node set.
type Connection struct {
	Source string       `json:"source"`
	Target string       `json:"target"`
	Type   RelationType `json:"type"`
}

// key identifies a connection regardless of direction.
func (c Connection) key() string {
	a, b := c.Source, c.Target
	if b < a {
		a, b = b, a
	}
	return a + "-" + b + "-" + string(c.Type)
}

// DedupMode selects how [Connections] filters duplicates.
type DedupMode int

const (
	// DedupStrict collapses connections with the same unordered endpoint
	// pair and type, so A→B and B→A of one type become a single entry.
	DedupStrict DedupMode = iota
	// DedupPermissive keeps directionally distinct edges and rejects only
	// invalid ones.
	DedupPermissive
)

func (m DedupMode) String() string {
	if m == DedupPermissive {
		return "permissive"
	}
	return "strict"
}

// ParseDedupMode parses "strict" or "permissive" (case-insensitive). An empty
// string selects strict.
func ParseDedupMode(s string) (DedupMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return DedupStrict, nil
	case "permissive":
		return DedupPermissive, nil
	}
	return DedupStrict, fmt.Errorf("%w: %q", ErrUnknownDedupMode, s)
}

// Connections builds typed connections between the individuals in nodes.
//
// When edges is nil, connections are derived from each node's relations:
// every child yields a child edge, every parent yields a parent edge plus the
// reverse child edge, and every partner (current or ended) yields a spouse
// edge in both directions. When edges is non-nil only those edges are used,
// and an empty Type becomes [RelationOther].
//
// Both modes drop edges whose endpoints are missing from nodes and self
// loops. Output order follows derivation or input order.
func Connections(nodes []*gedcom.Individual, edges []Connection, mode DedupMode) []Connection {
	members := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if n != nil && n.ID != "" {
			members[n.ID] = true
		}
	}

	if edges == nil {
		edges = derive(nodes)
	}

	seen := make(map[string]bool)
	out := make([]Connection, 0, len(edges))
	for _, e := range edges {
		if e.Type == "" {
			e.Type = RelationOther
		}
		if e.Source == e.Target || !members[e.Source] || !members[e.Target] {
			continue
		}
		if mode == DedupStrict {
			k := e.key()
			if seen[k] {
				continue
			}
			seen[k] = true
		}
		out = append(out, e)
	}
	return out
}

func derive(nodes []*gedcom.Individual) []Connection {
	var out []Connection
	for _, n := range nodes {
		if n == nil {
			continue
		}
		for _, c := range n.Children {
			out = append(out, Connection{Source: n.ID, Target: c.ID, Type: RelationChild})
		}
		for _, p := range n.Parents {
			out = append(out,
				Connection{Source: n.ID, Target: p.ID, Type: RelationParent},
				Connection{Source: p.ID, Target: n.ID, Type: RelationChild},
			)
		}
		for _, s := range n.Spouses {
			out = append(out,
				Connection{Source: n.ID, Target: s.ID, Type: RelationSpouse},
				Connection{Source: s.ID, Target: n.ID, Type: RelationSpouse},
			)
		}
		for _, s := range n.ExSpouses {
			out = append(out,
				Connection{Source: n.ID, Target: s.ID, Type: RelationSpouse},
				Connection{Source: s.ID, Target: n.ID, Type: RelationSpouse},
			)
		}
	}
	return out
}
