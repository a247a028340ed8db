package kinship

import (
	"slices"
	"testing"

	"github.com/matzehuels/lineage/pkg/gedcom"
)

// Four generations:
//
//	Hal
//	 └ Abe ═ Bea      Abe ═ Dot (divorced)
//	    ├ Cid ═ Fay
//	    │  ├ Eve
//	    │  └ Gil
//	    └ Ivy
const familyFixture = `0 HEAD
0 @I9@ INDI
1 NAME Hal
1 SEX M
1 FAMS @F4@
0 @I1@ INDI
1 NAME Abe /Stone/
1 SEX M
1 FAMC @F4@
1 FAMS @F1@
1 FAMS @F2@
0 @I2@ INDI
1 NAME Bea
1 SEX F
1 FAMS @F1@
0 @I4@ INDI
1 NAME Dot
1 SEX F
1 FAMS @F2@
0 @I3@ INDI
1 NAME Cid /Stone/
1 SEX M
1 BIRT
2 DATE 1 JAN 1950
1 FAMC @F1@
1 FAMS @F3@
0 @I10@ INDI
1 NAME Ivy
1 SEX F
1 FAMC @F1@
0 @I6@ INDI
1 NAME Fay
1 SEX F
1 FAMS @F3@
0 @I5@ INDI
1 NAME Eve
1 SEX F
1 FAMC @F3@
0 @I7@ INDI
1 NAME Gil
1 SEX M
1 FAMC @F3@
0 @F4@ FAM
1 HUSB @I9@
1 CHIL @I1@
0 @F1@ FAM
1 HUSB @I1@
1 WIFE @I2@
1 CHIL @I3@
1 CHIL @I10@
0 @F2@ FAM
1 HUSB @I1@
1 WIFE @I4@
1 DIV
2 DATE 1970
0 @F3@ FAM
1 HUSB @I3@
1 WIFE @I6@
1 CHIL @I5@
1 CHIL @I7@
0 TRLR
`

// The three-person family from the linker scenarios.
const smallFixture = `0 @I1@ INDI
1 NAME Ann
0 @I2@ INDI
1 NAME Bob
0 @I3@ INDI
1 NAME Cid
1 FAMC @F1@
0 @F1@ FAM
1 HUSB @I1@
1 WIFE @I2@
1 CHIL @I3@
`

// Each is recorded as the other's parent.
const loopFixture = `0 @I1@ INDI
1 NAME Ann
1 FAMC @F2@
0 @I2@ INDI
1 NAME Bob
1 FAMC @F1@
0 @F1@ FAM
1 HUSB @I1@
1 CHIL @I2@
0 @F2@ FAM
1 HUSB @I2@
1 CHIL @I1@
`

func parse(t *testing.T, src string) *gedcom.Document {
	t.Helper()
	return gedcom.ParseString(src)
}

func person(t *testing.T, doc *gedcom.Document, id string) *gedcom.Individual {
	t.Helper()
	i, ok := doc.Individual(id)
	if !ok {
		t.Fatalf("Individual(%q) not found", id)
	}
	return i
}

func ids(people []*gedcom.Individual) []string {
	out := make([]string, len(people))
	for i, p := range people {
		out[i] = p.ID
	}
	return out
}

func nodeIDs(nodes []*TreeNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func equalIDs(got, want []string) bool {
	if len(got) == 0 && len(want) == 0 {
		return true
	}
	return slices.Equal(got, want)
}
