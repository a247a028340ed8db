package gedcom

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"unicode/utf8"
)

// maxLineSize bounds a single source line. Longer lines are skipped with a
// diagnostic and parsing continues on the next line.
const maxLineSize = 1 << 20

const (
	tagFatherRel = "_FREL"
	tagMotherRel = "_MREL"
)

// Parse reads a document from r, builds its registries and links them.
//
// Content problems never fail the parse; they are recorded in
// [Document.Diagnostics]. A non-nil error is returned only when reading r
// fails, in which case the document built from the lines read so far is
// returned alongside it.
func Parse(r io.Reader) (*Document, error) {
	b := newBuilder()
	br := bufio.NewReaderSize(r, 64*1024)
	var buf []byte
	oversized := false
	for {
		chunk, more, err := br.ReadLine()
		if err != nil {
			doc := b.finish()
			if err == io.EOF {
				return doc, nil
			}
			return doc, fmt.Errorf("read line %d: %w", b.lineNo+1, err)
		}
		if !oversized && len(buf)+len(chunk) > maxLineSize {
			oversized = true
			buf = buf[:0]
		}
		if !oversized {
			buf = append(buf, chunk...)
		}
		if more {
			continue
		}
		if oversized {
			b.skipLine()
		} else {
			b.line(string(buf))
		}
		buf = buf[:0]
		oversized = false
	}
}

// ParseString parses an in-memory document.
func ParseString(s string) *Document {
	doc, _ := Parse(strings.NewReader(s))
	return doc
}

// ParseFile parses the document stored at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// state is the builder's cursor: which record and sub-record incoming
// tokens belong to. It is reset at every level-0 line.
type state struct {
	indi  *Individual
	fam   *Family
	media *Media
	event *Event
	famc  string // child-of reference open at level 1 (individual)
	child string // CHIL reference open at level 1 (family)
}

type builder struct {
	doc    *Document
	st     state
	lineNo int
}

func newBuilder() *builder {
	return &builder{doc: newDocument()}
}

func (b *builder) line(text string) {
	b.lineNo++
	if b.lineNo == 1 {
		text = strings.TrimPrefix(text, "\ufeff")
	}
	if strings.TrimSpace(text) == "" {
		return
	}
	tok, ok := Tokenize(text)
	if !ok {
		b.doc.warn(b.lineNo, ReasonMalformedLine, "%q", truncate(text, 60))
		return
	}
	tok.Line = b.lineNo
	b.add(tok)
}

// skipLine accounts for a line longer than maxLineSize.
func (b *builder) skipLine() {
	b.lineNo++
	b.doc.warn(b.lineNo, ReasonMalformedLine, "line exceeds %d bytes", maxLineSize)
}

func (b *builder) finish() *Document {
	b.doc.Lines = b.lineNo
	Link(b.doc)
	return b.doc
}

func (b *builder) add(tok Token) {
	if tok.Level == 0 {
		b.open(tok)
		return
	}
	switch {
	case b.st.indi != nil:
		b.individualLine(tok)
	case b.st.fam != nil:
		b.familyLine(tok)
	case b.st.media != nil:
		b.mediaLine(tok)
	}
}

func (b *builder) open(tok Token) {
	b.st = state{}
	if !tok.IsPointer() {
		// HEAD, TRLR and other bare level-0 tags carry no records we use.
		return
	}
	kind := ""
	if f := strings.Fields(tok.Value); len(f) > 0 {
		kind = f[0]
	}
	switch kind {
	case "INDI":
		i, created := b.doc.individualFor(tok.Tag)
		if !created {
			b.doc.warn(tok.Line, ReasonDuplicateRecord, "individual %s", tok.Tag)
		}
		b.st.indi = i
	case "FAM":
		f, created := b.doc.familyFor(tok.Tag)
		if !created {
			b.doc.warn(tok.Line, ReasonDuplicateRecord, "family %s", tok.Tag)
		}
		b.st.fam = f
	case "OBJE":
		m, created := b.doc.mediaFor(tok.Tag)
		if !created {
			b.doc.warn(tok.Line, ReasonDuplicateRecord, "media %s", tok.Tag)
		}
		b.st.media = m
	case "":
		b.doc.warn(tok.Line, ReasonUnknownRecord, "record %s has no kind", tok.Tag)
	default:
		b.doc.Other = append(b.doc.Other, Record{ID: tok.Tag, Kind: kind, Line: tok.Line})
	}
}

func (b *builder) individualLine(tok Token) {
	i := b.st.indi
	if tok.Level == 1 {
		b.st.event = nil
		b.st.famc = ""
		switch tok.Tag {
		case "NAME":
			// the first NAME is the primary one; later ones are aliases
			if i.Name == "" {
				i.Name = cleanName(tok.Value)
			}
		case "SEX":
			i.Sex = tok.Value
			if i.Sex == "" {
				i.Sex = "U"
			}
		case "FAMC":
			if !IsXref(tok.Value) {
				return
			}
			switch i.ChildOf {
			case "":
				i.ChildOf = tok.Value
			case tok.Value:
			default:
				b.doc.warn(tok.Line, ReasonMultipleChildOf, "%s: keeping %s, ignoring %s", i.ID, i.ChildOf, tok.Value)
			}
			b.st.famc = tok.Value
		case "FAMS":
			if IsXref(tok.Value) && !slices.Contains(i.SpouseIn, tok.Value) {
				i.SpouseIn = append(i.SpouseIn, tok.Value)
			}
		case "OBJE":
			if IsXref(tok.Value) {
				i.Media = append(i.Media, tok.Value)
			}
		default:
			if kind, ok := individualEvents[tok.Tag]; ok {
				b.st.event = &Event{Kind: kind, Lines: []string{tok.Raw}}
				i.Events = append(i.Events, b.st.event)
			}
		}
		return
	}

	if tok.Level == 2 && b.st.famc != "" && isRelationTag(tok.Tag) {
		i.Relation[b.st.famc] = i.Relation[b.st.famc].merge(relationFrom(tok))
		return
	}
	b.eventLine(tok)
}

func (b *builder) familyLine(tok Token) {
	f := b.st.fam
	if tok.Level == 1 {
		b.st.event = nil
		b.st.child = ""
		switch tok.Tag {
		case "HUSB":
			if IsXref(tok.Value) {
				f.Husband = tok.Value
			}
		case "WIFE":
			if IsXref(tok.Value) {
				f.Wife = tok.Value
			}
		case "CHIL":
			if !IsXref(tok.Value) {
				return
			}
			if !slices.Contains(f.Children, tok.Value) {
				f.Children = append(f.Children, tok.Value)
			}
			b.st.child = tok.Value
		default:
			if kind, ok := familyEvents[tok.Tag]; ok {
				b.st.event = &Event{Kind: kind, Lines: []string{tok.Raw}}
				f.Events = append(f.Events, b.st.event)
			}
		}
		return
	}

	if tok.Level == 2 && b.st.child != "" && isRelationTag(tok.Tag) {
		f.childRelation[b.st.child] = f.childRelation[b.st.child].merge(relationFrom(tok))
		return
	}
	b.eventLine(tok)
}

// eventLine stores a sub-attribute of the open event. Direct children
// (level 2) overwrite; deeper lines only fill keys not yet set.
func (b *builder) eventLine(tok Token) {
	ev := b.st.event
	if ev == nil {
		return
	}
	ev.Lines = append(ev.Lines, tok.Raw)
	key := strings.ToLower(tok.Tag)
	if tok.Level == 2 {
		ev.Attrs.set(key, tok.Value)
	} else {
		ev.Attrs.setDefault(key, tok.Value)
	}
}

func (b *builder) mediaLine(tok Token) {
	m := b.st.media
	switch tok.Tag {
	case "FILE":
		m.File = tok.Value
	case "TITL":
		if strings.HasPrefix(tok.Value, "http") {
			m.URL = tok.Value
		}
	case "CONC":
		if m.URL != "" {
			m.URL += tok.Value
		}
	}
}

func isRelationTag(tag string) bool { return tag == tagFatherRel || tag == tagMotherRel }

func relationFrom(tok Token) ChildRelation {
	if tok.Tag == tagFatherRel {
		return ChildRelation{Father: tok.Value}
	}
	return ChildRelation{Mother: tok.Value}
}

// cleanName strips surname slashes and collapses the whitespace they leave.
func cleanName(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "/", " ")), " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
