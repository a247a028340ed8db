package gedcom

import "fmt"

// Reason classifies a non-fatal parsing or linking issue.
type Reason string

const (
	ReasonMalformedLine    Reason = "malformed line"
	ReasonUnknownRecord    Reason = "unknown record kind"
	ReasonDuplicateRecord  Reason = "duplicate record"
	ReasonUnresolvedFamily Reason = "unresolved family reference"
	ReasonUnresolvedPerson Reason = "unresolved individual reference"
	ReasonMultipleChildOf  Reason = "multiple child-of references"
)

// Diagnostic is a recoverable issue found while parsing or linking.
type Diagnostic struct {
	Line   int    // Source line, 0 when raised by the linker
	Reason Reason
	Detail string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", d.Line, d.Reason, d.Detail)
	}
	return fmt.Sprintf("%s: %s", d.Reason, d.Detail)
}

// Document holds the registries built from one parsed source.
// The zero value is not usable; documents come from [Parse].
type Document struct {
	individuals map[string]*Individual
	families    map[string]*Family
	media       map[string]*Media

	indiOrder []string
	famOrder  []string

	// Other lists level-0 records of uninterpreted kinds.
	Other []Record
	// Diagnostics accumulates non-fatal issues in the order they were found.
	Diagnostics []Diagnostic
	// Lines is the number of source lines read.
	Lines int

	linked bool
}

func newDocument() *Document {
	return &Document{
		individuals: make(map[string]*Individual),
		families:    make(map[string]*Family),
		media:       make(map[string]*Media),
	}
}

// Individual returns the canonical individual for id. Both "@I1@" and "I1" are accepted.
func (d *Document) Individual(id string) (*Individual, bool) {
	i, ok := d.individuals[NormalizeID(id)]
	return i, ok
}

// Family returns the canonical family unit for id.
func (d *Document) Family(id string) (*Family, bool) {
	f, ok := d.families[NormalizeID(id)]
	return f, ok
}

// Media returns the multimedia object for id.
func (d *Document) Media(id string) (*Media, bool) {
	m, ok := d.media[NormalizeID(id)]
	return m, ok
}

// MediaFor resolves an individual's OBJE references, skipping unknown ids.
func (d *Document) MediaFor(i *Individual) []*Media {
	var out []*Media
	for _, ref := range i.Media {
		if m, ok := d.media[ref]; ok {
			out = append(out, m)
		}
	}
	return out
}

// Individuals returns all individuals in document order.
func (d *Document) Individuals() []*Individual {
	out := make([]*Individual, len(d.indiOrder))
	for i, id := range d.indiOrder {
		out[i] = d.individuals[id]
	}
	return out
}

// Families returns all family units in document order.
func (d *Document) Families() []*Family {
	out := make([]*Family, len(d.famOrder))
	for i, id := range d.famOrder {
		out[i] = d.families[id]
	}
	return out
}

// First returns the first individual in document order, or nil for an empty document.
func (d *Document) First() *Individual {
	if len(d.indiOrder) == 0 {
		return nil
	}
	return d.individuals[d.indiOrder[0]]
}

// NumIndividuals returns the number of individuals.
func (d *Document) NumIndividuals() int { return len(d.individuals) }

// NumFamilies returns the number of family units.
func (d *Document) NumFamilies() int { return len(d.families) }

// NumMedia returns the number of multimedia objects.
func (d *Document) NumMedia() int { return len(d.media) }

func (d *Document) warn(line int, reason Reason, format string, args ...any) {
	d.Diagnostics = append(d.Diagnostics, Diagnostic{
		Line:   line,
		Reason: reason,
		Detail: fmt.Sprintf(format, args...),
	})
}

// individualFor returns the canonical individual for id, creating it on first mention.
func (d *Document) individualFor(id string) (*Individual, bool) {
	if i, ok := d.individuals[id]; ok {
		return i, false
	}
	i := newIndividual(id)
	d.individuals[id] = i
	d.indiOrder = append(d.indiOrder, id)
	return i, true
}

func (d *Document) familyFor(id string) (*Family, bool) {
	if f, ok := d.families[id]; ok {
		return f, false
	}
	f := newFamily(id)
	d.families[id] = f
	d.famOrder = append(d.famOrder, id)
	return f, true
}

func (d *Document) mediaFor(id string) (*Media, bool) {
	if m, ok := d.media[id]; ok {
		return m, false
	}
	m := &Media{ID: id}
	d.media[id] = m
	return m, true
}
