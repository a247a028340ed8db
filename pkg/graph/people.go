package graph

import (
	"github.com/matzehuels/lineage/pkg/gedcom"
	"github.com/matzehuels/lineage/pkg/kinship"
)

// =============================================================================
// Person and Family Views
// =============================================================================

// Attr is one event attribute such as date or place.
type Attr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Attrs lists event attributes in source order.
type Attrs []Attr

// Value returns the first value recorded for key, or "".
func (a Attrs) Value(key string) string {
	for _, kv := range a {
		if kv.Key == key {
			return kv.Value
		}
	}
	return ""
}

func fromAttrs(a gedcom.Attrs) Attrs {
	if len(a) == 0 {
		return nil
	}
	out := make(Attrs, len(a))
	for i, kv := range a {
		out[i] = Attr{Key: kv.Key, Value: kv.Value}
	}
	return out
}

// Event is one life or union event.
type Event struct {
	Kind  string `json:"kind"`
	Attrs Attrs  `json:"attrs,omitempty"`
}

// StepRelation is a parent/child pairing flagged as non-biological.
type StepRelation struct {
	Parent string `json:"parent"`
	Child  string `json:"child"`
	Family string `json:"family"`
}

// Media is a resolved multimedia reference.
type Media struct {
	ID   string `json:"id"`
	File string `json:"file,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Person is the read-only view of one individual with relations flattened to
// identifiers.
type Person struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Sex           string            `json:"sex,omitempty"`
	Birth         Attrs             `json:"birth,omitempty"`
	Death         Attrs             `json:"death,omitempty"`
	Events        []Event           `json:"events,omitempty"`
	ChildOf       string            `json:"child_of,omitempty"`
	SpouseIn      []string          `json:"spouse_in,omitempty"`
	Parents       []string          `json:"parents"`
	Children      []string          `json:"children"`
	Spouses       []string          `json:"spouses"`
	ExSpouses     []string          `json:"ex_spouses"`
	StepChildren  []string          `json:"step_children"`
	StepRelations []StepRelation    `json:"step_relations,omitempty"`
	Media         []Media           `json:"media,omitempty"`
}

// PersonSummary is the short form used inside lists and layers.
type PersonSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Sex        string `json:"sex,omitempty"`
	Birth      string `json:"birth,omitempty"`
	Death      string `json:"death,omitempty"`
	Generation *int   `json:"generation,omitempty"`
}

// Family is the read-only view of one family unit.
type Family struct {
	ID            string         `json:"id"`
	Husband       string         `json:"husband,omitempty"`
	Wife          string         `json:"wife,omitempty"`
	Children      []string       `json:"children"`
	Status        string         `json:"status"`
	Events        []Event        `json:"events,omitempty"`
	StepRelations []StepRelation `json:"step_relations,omitempty"`
}

// FromIndividual builds the Person view. doc resolves media references and
// may be nil.
func FromIndividual(doc *gedcom.Document, i *gedcom.Individual) Person {
	p := Person{
		ID:            i.ID,
		Name:          i.DisplayName(),
		Sex:           i.Sex,
		Birth:         fromAttrs(i.Birth()),
		Death:         fromAttrs(i.Death()),
		Events:        events(i.Events),
		ChildOf:       i.ChildOf,
		SpouseIn:      i.SpouseIn,
		Parents:       idList(i.Parents),
		Children:      idList(i.Children),
		Spouses:       idList(i.Spouses),
		ExSpouses:     idList(i.ExSpouses),
		StepChildren:  idList(i.StepChildren),
		StepRelations: steps(i.StepRelations),
	}
	if doc != nil {
		for _, m := range doc.MediaFor(i) {
			p.Media = append(p.Media, Media{ID: m.ID, File: m.File, URL: m.URL})
		}
	}
	return p
}

// Summarize builds the short form of an individual.
func Summarize(i *gedcom.Individual) PersonSummary {
	return PersonSummary{
		ID:    i.ID,
		Name:  i.DisplayName(),
		Sex:   i.Sex,
		Birth: i.Birth().Value("date"),
		Death: i.Death().Value("date"),
	}
}

// FromFamily builds the Family view.
func FromFamily(f *gedcom.Family) Family {
	out := Family{
		ID:            f.ID,
		Children:      idList(f.ChildRefs),
		Status:        string(f.Status),
		Events:        events(f.Events),
		StepRelations: steps(f.StepRelations),
	}
	if f.HusbandRef != nil {
		out.Husband = f.HusbandRef.ID
	}
	if f.WifeRef != nil {
		out.Wife = f.WifeRef.ID
	}
	return out
}

// =============================================================================
// Traversal Views
// =============================================================================

// HierarchyNode is one node of a serialized canonical tree.
type HierarchyNode struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Sex      string          `json:"sex,omitempty"`
	Parents  []string        `json:"parents,omitempty"`
	Spouses  []string        `json:"spouses,omitempty"`
	Children []HierarchyNode `json:"children"`
}

// Hierarchy is a serialized canonical tree plus its flat node set.
type Hierarchy struct {
	DocumentID string          `json:"document_id,omitempty"`
	Root       HierarchyNode   `json:"root"`
	Nodes      []PersonSummary `json:"nodes"`
}

// FromHierarchy serializes a canonical hierarchy. The tree has no repeated
// identifiers, so the nested encoding is finite.
func FromHierarchy(h *kinship.Hierarchy) Hierarchy {
	out := Hierarchy{Nodes: make([]PersonSummary, 0, h.Len())}
	for _, p := range h.Individuals() {
		out.Nodes = append(out.Nodes, Summarize(p))
	}
	if h.Root != nil {
		out.Root = FromTree(h.Root)
	}
	return out
}

// FromTree serializes a tree node and its descendants.
func FromTree(n *kinship.TreeNode) HierarchyNode {
	out := HierarchyNode{
		ID:       n.ID,
		Parents:  n.Parents,
		Spouses:  n.Spouses,
		Children: make([]HierarchyNode, 0, len(n.Children)),
	}
	if n.Person != nil {
		out.Name = n.Person.DisplayName()
		out.Sex = n.Person.Sex
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, FromTree(c))
	}
	return out
}

// Hourglass is the serialized form of generation layers around a center.
type Hourglass struct {
	DocumentID  string            `json:"document_id,omitempty"`
	Central     PersonSummary     `json:"central"`
	Ancestors   [][]PersonSummary `json:"ancestors"`
	Descendants [][]PersonSummary `json:"descendants"`
	Siblings    []PersonSummary   `json:"siblings"`
	Spouses     []PersonSummary   `json:"spouses"`
}

// FromHourglass serializes an hourglass, stamping each entry with its
// generation.
func FromHourglass(h *kinship.Hourglass) Hourglass {
	stamp := func(p *gedcom.Individual) PersonSummary {
		s := Summarize(p)
		if g, ok := h.Generation(p.ID); ok {
			s.Generation = &g
		}
		return s
	}
	list := func(people []*gedcom.Individual) []PersonSummary {
		out := make([]PersonSummary, len(people))
		for i, p := range people {
			out[i] = stamp(p)
		}
		return out
	}
	layers := func(ls [][]*gedcom.Individual) [][]PersonSummary {
		out := make([][]PersonSummary, len(ls))
		for i, l := range ls {
			out[i] = list(l)
		}
		return out
	}

	out := Hourglass{
		Ancestors:   layers(h.Ancestors),
		Descendants: layers(h.Descendants),
		Siblings:    list(h.Siblings),
		Spouses:     list(h.Spouses),
	}
	if h.Central != nil {
		out.Central = stamp(h.Central)
	}
	return out
}

// Connections is the serialized connection list.
type Connections struct {
	DocumentID  string               `json:"document_id,omitempty"`
	Mode        string               `json:"mode"`
	Connections []kinship.Connection `json:"connections"`
}

// Tree is a single-direction lineage tree. Each node's children are its
// parents when Direction is "ancestors" and its children otherwise.
type Tree struct {
	DocumentID string        `json:"document_id,omitempty"`
	Direction  string        `json:"direction"`
	Depth      int           `json:"depth"`
	Root       HierarchyNode `json:"root"`
}

// =============================================================================
// Family Diagram
// =============================================================================

// Member is an individual tagged with its role relative to a center.
type Member struct {
	PersonSummary
	Role string `json:"role"`
}

// FamilyDiagram is the input of a force-directed family diagram: every
// individual with its role and the spouse/parent links of every family.
type FamilyDiagram struct {
	DocumentID string               `json:"document_id,omitempty"`
	Central    string               `json:"central"`
	Members    []Member             `json:"members"`
	Links      []kinship.Connection `json:"links"`
}

// FromRoles serializes classified members.
func FromRoles(members []kinship.Member) []Member {
	out := make([]Member, len(members))
	for i, m := range members {
		out[i] = Member{PersonSummary: Summarize(m.Person), Role: string(m.Role)}
	}
	return out
}

func idList(people []*gedcom.Individual) []string {
	out := make([]string, len(people))
	for i, p := range people {
		out[i] = p.ID
	}
	return out
}

func events(evs []*gedcom.Event) []Event {
	if len(evs) == 0 {
		return nil
	}
	out := make([]Event, len(evs))
	for i, ev := range evs {
		out[i] = Event{Kind: string(ev.Kind), Attrs: fromAttrs(ev.Attrs)}
	}
	return out
}

func steps(rels []gedcom.StepRelation) []StepRelation {
	if len(rels) == 0 {
		return nil
	}
	out := make([]StepRelation, len(rels))
	for i, r := range rels {
		out[i] = StepRelation{Parent: r.ParentID, Child: r.ChildID, Family: r.FamilyID}
	}
	return out
}
