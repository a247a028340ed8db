package gedcom

import "strings"

// EventKind is the tag that opened an event sub-record.
type EventKind string

// Individual event kinds.
const (
	EventBirth     EventKind = "BIRT"
	EventDeath     EventKind = "DEAT"
	EventGeneric   EventKind = "EVEN"
	EventResidence EventKind = "RESI"
	EventFact      EventKind = "FACT"
	EventChange    EventKind = "CHAN"
	EventBaptism   EventKind = "BAPM"
	EventBurial    EventKind = "BURI"
)

// Family (union) event kinds. DIV/DIVORCE and SEP/SEPARATION are both seen in
// the wild and treated as synonyms.
const (
	EventMarriage       EventKind = "MARR"
	EventDivorce        EventKind = "DIV"
	EventDivorceLong    EventKind = "DIVORCE"
	EventSeparation     EventKind = "SEP"
	EventSeparationLong EventKind = "SEPARATION"
	EventEngagement     EventKind = "ENGA"
)

var individualEvents = map[string]EventKind{
	"BIRT": EventBirth,
	"DEAT": EventDeath,
	"EVEN": EventGeneric,
	"RESI": EventResidence,
	"FACT": EventFact,
	"CHAN": EventChange,
	"BAPM": EventBaptism,
	"BURI": EventBurial,
}

var familyEvents = map[string]EventKind{
	"MARR":       EventMarriage,
	"DIV":        EventDivorce,
	"DIVORCE":    EventDivorceLong,
	"SEP":        EventSeparation,
	"SEPARATION": EventSeparationLong,
	"ENGA":       EventEngagement,
	"EVEN":       EventGeneric,
}

// EndsUnion reports whether an event of this kind terminates a union on its own,
// regardless of attributes.
func (k EventKind) EndsUnion() bool {
	switch EventKind(strings.ToUpper(string(k))) {
	case EventDivorce, EventDivorceLong, EventSeparation, EventSeparationLong:
		return true
	}
	return false
}

// Attr is a single event attribute. Keys are lower-cased tags ("date", "place").
type Attr struct {
	Key   string
	Value string
}

// Attrs is an ordered attribute list. Insertion order is preserved so renderers
// can show attributes in source order.
type Attrs []Attr

// Get returns the value for key and whether it was present.
func (a Attrs) Get(key string) (string, bool) {
	for _, kv := range a {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Value returns the value for key, or "" when absent.
func (a Attrs) Value(key string) string {
	v, _ := a.Get(key)
	return v
}

func (a *Attrs) set(key, value string) {
	for i := range *a {
		if (*a)[i].Key == key {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attr{Key: key, Value: value})
}

// setDefault stores value unless key already holds a non-empty value.
func (a *Attrs) setDefault(key, value string) {
	if cur, ok := a.Get(key); ok && cur != "" {
		return
	}
	a.set(key, value)
}

// Event is a dated occurrence attached to an individual or a family.
type Event struct {
	Kind  EventKind
	Attrs Attrs
	Lines []string // Source lines the event was built from, header first
}

// Date is shorthand for the "date" attribute.
func (e *Event) Date() string { return e.Attrs.Value("date") }

// Place is shorthand for the "plac" attribute.
func (e *Event) Place() string { return e.Attrs.Value("plac") }

// Type is shorthand for the "type" attribute.
func (e *Event) Type() string { return e.Attrs.Value("type") }

// EndsUnion reports whether the event marks a divorce or separation: either
// its kind does, or it is a generic event whose type names a separation.
func (e *Event) EndsUnion() bool {
	if e.Kind.EndsUnion() {
		return true
	}
	if e.Kind == EventGeneric {
		return strings.Contains(strings.ToLower(e.Type()), "separ")
	}
	return false
}

// ChildRelation holds the father/mother relation qualifiers (_FREL/_MREL)
// recorded for a child within one family unit.
type ChildRelation struct {
	Father string
	Mother string
}

// FatherIsStep reports whether the father relation is "step".
func (r ChildRelation) FatherIsStep() bool { return strings.EqualFold(r.Father, "step") }

// MotherIsStep reports whether the mother relation is "step".
func (r ChildRelation) MotherIsStep() bool { return strings.EqualFold(r.Mother, "step") }

func (r ChildRelation) merge(o ChildRelation) ChildRelation {
	if o.Father != "" {
		r.Father = o.Father
	}
	if o.Mother != "" {
		r.Mother = o.Mother
	}
	return r
}

// StepRelation is a parent/child pair flagged as non-biological within a family.
type StepRelation struct {
	ParentID string
	ChildID  string
	FamilyID string
}

// Key returns the "parent-child" key used by renderers.
func (s StepRelation) Key() string { return s.ParentID + "-" + s.ChildID }

// Individual is a person record. Fields below the Derived marker are filled by
// [Link] and must be treated as read-only.
type Individual struct {
	ID       string
	Name     string // Display name with surname slashes stripped
	Sex      string // M, F, U or whatever the source carried
	Events   []*Event
	ChildOf  string                   // Family id in which the individual is a child
	SpouseIn []string                 // Family ids in which the individual is a spouse
	Media    []string                 // OBJE references
	Relation map[string]ChildRelation // Per child-of family relation qualifiers

	// Derived.
	Parents       []*Individual
	Children      []*Individual
	Spouses       []*Individual
	ExSpouses     []*Individual
	StepChildren  []*Individual
	StepRelations []StepRelation
	ChildFamily   *Family
	Families      []*Family // Families as spouse, document order
}

func newIndividual(id string) *Individual {
	return &Individual{ID: id, Relation: make(map[string]ChildRelation)}
}

// DisplayName returns Name, or "Unknown" when the record carries none.
func (i *Individual) DisplayName() string {
	if i.Name == "" {
		return "Unknown"
	}
	return i.Name
}

// Event returns the first event of the given kind.
func (i *Individual) Event(kind EventKind) (*Event, bool) {
	return firstEvent(i.Events, kind)
}

// Birth returns the attributes of the first birth event, or nil.
func (i *Individual) Birth() Attrs { return eventAttrs(i.Events, EventBirth) }

// Death returns the attributes of the first death event, or nil.
func (i *Individual) Death() Attrs { return eventAttrs(i.Events, EventDeath) }

// IsStepChildOf reports whether a step relation links parentID to this individual.
func (i *Individual) IsStepChildOf(parentID string) bool {
	for _, s := range i.StepRelations {
		if s.ParentID == parentID && s.ChildID == i.ID {
			return true
		}
	}
	return false
}

// UnionStatus describes whether a family's union is still in place.
type UnionStatus string

const (
	StatusActive UnionStatus = "active"
	StatusEnded  UnionStatus = "ended"
)

// Family is a union record: at most one husband, one wife, and their children.
type Family struct {
	ID       string
	Husband  string
	Wife     string
	Children []string
	Events   []*Event

	// Derived.
	Status        UnionStatus
	StepRelations []StepRelation
	HusbandRef    *Individual
	WifeRef       *Individual
	ChildRefs     []*Individual

	// Qualifiers captured under CHIL lines, keyed by child id.
	childRelation map[string]ChildRelation
}

func newFamily(id string) *Family {
	return &Family{ID: id, Status: StatusActive, childRelation: make(map[string]ChildRelation)}
}

// Marriage returns the attributes of the first marriage event, or nil.
func (f *Family) Marriage() Attrs { return eventAttrs(f.Events, EventMarriage) }

// Ended reports whether any event on the family ends the union.
func (f *Family) Ended() bool {
	for _, ev := range f.Events {
		if ev.EndsUnion() {
			return true
		}
	}
	return false
}

// Spouse returns the id filling the opposite role to id, or "" if none.
// An id that fills neither role is paired with the husband.
func (f *Family) Spouse(id string) string {
	if f.Husband == id {
		return f.Wife
	}
	return f.Husband
}

// HasSpouse reports whether id is the husband or wife.
func (f *Family) HasSpouse(id string) bool {
	return id != "" && (f.Husband == id || f.Wife == id)
}

// Media is a multimedia object record.
type Media struct {
	ID   string
	File string
	URL  string
}

// Record is a level-0 record of a kind the builder does not interpret
// (SOUR, REPO, NOTE, SUBM, ...). It is retained for completeness.
type Record struct {
	ID   string
	Kind string
	Line int
}

func firstEvent(events []*Event, kind EventKind) (*Event, bool) {
	for _, ev := range events {
		if ev.Kind == kind {
			return ev, true
		}
	}
	return nil, false
}

func eventAttrs(events []*Event, kind EventKind) Attrs {
	if ev, ok := firstEvent(events, kind); ok {
		return ev.Attrs
	}
	return nil
}
