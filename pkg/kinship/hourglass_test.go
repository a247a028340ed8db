package kinship

import (
	"errors"
	"testing"

	"github.com/matzehuels/lineage/pkg/gedcom"
)

func layerIDs(layers [][]*gedcom.Individual) [][]string {
	out := make([][]string, len(layers))
	for i, l := range layers {
		out[i] = ids(l)
	}
	return out
}

func equalLayers(got, want [][]string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if !equalIDs(got[i], want[i]) {
			return false
		}
	}
	return true
}

func TestBuildHourglass(t *testing.T) {
	doc := parse(t, familyFixture)

	tests := []struct {
		name        string
		up, down    int
		ancestors   [][]string
		descendants [][]string
	}{
		{
			name:        "defaults",
			up:          DefaultUp,
			down:        DefaultDown,
			ancestors:   [][]string{{"@I9@"}, {"@I1@", "@I2@"}},
			descendants: [][]string{{"@I5@", "@I7@"}},
		},
		{
			name:        "one up",
			up:          1,
			down:        DefaultDown,
			ancestors:   [][]string{{"@I1@", "@I2@"}},
			descendants: [][]string{{"@I5@", "@I7@"}},
		},
		{
			name:        "no descendants",
			up:          2,
			down:        0,
			ancestors:   [][]string{{"@I9@"}, {"@I1@", "@I2@"}},
			descendants: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := BuildHourglass(doc, "@I3@", tt.up, tt.down)
			if err != nil {
				t.Fatalf("BuildHourglass() error = %v", err)
			}
			if got := layerIDs(h.Ancestors); !equalLayers(got, tt.ancestors) {
				t.Errorf("Ancestors = %v, want %v", got, tt.ancestors)
			}
			if got := layerIDs(h.Descendants); !equalLayers(got, tt.descendants) {
				t.Errorf("Descendants = %v, want %v", got, tt.descendants)
			}
		})
	}
}

func TestBuildHourglass_Peers(t *testing.T) {
	doc := parse(t, familyFixture)

	h, err := BuildHourglass(doc, "@I3@", DefaultUp, DefaultDown)
	if err != nil {
		t.Fatalf("BuildHourglass() error = %v", err)
	}
	if got, want := ids(h.Siblings), []string{"@I10@"}; !equalIDs(got, want) {
		t.Errorf("Siblings = %v, want %v", got, want)
	}
	if got, want := ids(h.Spouses), []string{"@I6@"}; !equalIDs(got, want) {
		t.Errorf("Spouses = %v, want %v", got, want)
	}

	// Current unions first.
	abe, _ := BuildHourglass(doc, "@I1@", 1, 1)
	if got, want := ids(abe.Spouses), []string{"@I2@", "@I4@"}; !equalIDs(got, want) {
		t.Errorf("Abe.Spouses = %v, want %v", got, want)
	}
}

func TestBuildHourglass_Generation(t *testing.T) {
	doc := parse(t, familyFixture)
	h, _ := BuildHourglass(doc, "@I3@", DefaultUp, DefaultDown)

	tests := []struct {
		id   string
		want int
		ok   bool
	}{
		{"@I3@", 0, true},
		{"@I10@", 0, true},
		{"@I6@", 0, true},
		{"@I1@", -1, true},
		{"@I2@", -1, true},
		{"@I9@", -2, true},
		{"@I5@", 1, true},
		{"I7", 1, true},
		{"@I4@", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, ok := h.Generation(tt.id)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Generation(%s) = %d, %v, want %d, %v", tt.id, got, ok, tt.want, tt.ok)
			}
		})
	}

	if got := len(h.Members()); got != 8 {
		t.Errorf("len(Members()) = %d, want 8", got)
	}
}

func TestBuildHourglass_Bounded(t *testing.T) {
	doc := parse(t, loopFixture)

	h, err := BuildHourglass(doc, "@I1@", 10, 10)
	if err != nil {
		t.Fatalf("BuildHourglass() error = %v", err)
	}
	if len(h.Ancestors) != 1 || len(h.Descendants) != 1 {
		t.Errorf("layers = %d up, %d down, want 1 each", len(h.Ancestors), len(h.Descendants))
	}
}

func TestBuildHourglass_Errors(t *testing.T) {
	doc := parse(t, familyFixture)

	h, err := BuildHourglass(doc, "@I404@", 1, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing central error = %v, want %v", err, ErrNotFound)
	}
	if h == nil || h.Central != nil || h.Members() != nil {
		t.Errorf("missing central result = %+v, want empty", h)
	}

	if _, err := BuildHourglass(doc, "@I3@", -1, 1); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("negative bound error = %v, want %v", err, ErrInvalidLimit)
	}
}
