package kinship

import (
	"fmt"

	"github.com/matzehuels/lineage/pkg/gedcom"
)

// Role classifies an individual relative to a central person.
type Role string

const (
	RoleCentral  Role = "central"
	RoleSpouse   Role = "spouse"
	RoleExSpouse Role = "ex-spouse"
	RoleChild    Role = "child"
	RoleAncestor Role = "ancestor" // direct parent
	RoleOther    Role = "other"
)

// Member pairs an individual with its role.
type Member struct {
	Person *gedcom.Individual
	Role   Role
}

// Roles classifies every individual in doc, in document order, relative to
// centralID. A person matching several roles takes the first of central,
// spouse, ex-spouse, child, ancestor.
func Roles(doc *gedcom.Document, centralID string) ([]Member, error) {
	central, ok := doc.Individual(centralID)
	if !ok {
		return []Member{}, fmt.Errorf("%w: %s", ErrNotFound, centralID)
	}

	role := make(map[string]Role)
	// Lowest priority first; later assignments overwrite.
	for _, p := range central.Parents {
		role[p.ID] = RoleAncestor
	}
	for _, c := range central.Children {
		role[c.ID] = RoleChild
	}
	for _, s := range central.ExSpouses {
		role[s.ID] = RoleExSpouse
	}
	for _, s := range central.Spouses {
		role[s.ID] = RoleSpouse
	}
	role[central.ID] = RoleCentral

	people := doc.Individuals()
	out := make([]Member, len(people))
	for i, p := range people {
		r, ok := role[p.ID]
		if !ok {
			r = RoleOther
		}
		out[i] = Member{Person: p, Role: r}
	}
	return out, nil
}

// FamilyLinks lists, for every family in document order, a spouse link
// between husband and wife and a parent link from each resolved parent to
// each resolved child. Unresolved endpoints are dropped.
func FamilyLinks(doc *gedcom.Document) []Connection {
	var out []Connection
	for _, f := range doc.Families() {
		if f.HusbandRef != nil && f.WifeRef != nil {
			out = append(out, Connection{Source: f.HusbandRef.ID, Target: f.WifeRef.ID, Type: RelationSpouse})
		}
		for _, c := range f.ChildRefs {
			for _, p := range []*gedcom.Individual{f.HusbandRef, f.WifeRef} {
				if p != nil && p.ID != c.ID {
					out = append(out, Connection{Source: p.ID, Target: c.ID, Type: RelationParent})
				}
			}
		}
	}
	return out
}
