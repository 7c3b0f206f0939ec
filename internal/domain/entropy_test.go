package domain

import (
	"math"
	"testing"
)

func TestEntropy(t *testing.T) {
	cases := []struct {
		name   string
		counts VoteCounts
		want   float64
	}{
		{"no votes", VoteCounts{}, 0},
		{"unanimous", VoteCounts{Assumes: 4}, 0},
		{"unanimous other category", VoteCounts{Unrelated: 9}, 0},
		{"uniform", VoteCounts{Assumes: 1, Extends: 1, Matches: 1, Unrelated: 1}, 2},
		{"two way split", VoteCounts{Matches: 3, Unrelated: 3}, 1},
		{"skewed", VoteCounts{Assumes: 3, Extends: 1}, 0.8112781244591328},
	}
	for _, tc := range cases {
		got := Entropy(tc.counts)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("%s: want=%v got=%v", tc.name, tc.want, got)
		}
	}
}

func TestEntropyBounds(t *testing.T) {
	for a := 0; a <= 6; a++ {
		for b := 0; b <= 6; b++ {
			for c := 0; c <= 6; c++ {
				for d := 0; d <= 6; d++ {
					counts := VoteCounts{Assumes: a, Extends: b, Matches: c, Unrelated: d}
					h := Entropy(counts)
					if h < 0 || h > MaxEntropy+1e-12 {
						t.Fatalf("Entropy(%+v) out of bounds: %v", counts, h)
					}
					nonZero := 0
					for _, v := range counts.Slice() {
						if v > 0 {
							nonZero++
						}
					}
					if nonZero <= 1 && h != 0 {
						t.Fatalf("Entropy(%+v): want=0 got=%v", counts, h)
					}
					if nonZero > 1 && h == 0 {
						t.Fatalf("Entropy(%+v): want>0 got=0", counts)
					}
				}
			}
		}
	}
}

func TestApplyVoteKeepsDerivedFieldsInSync(t *testing.T) {
	rel := &CompetencyRelationship{}
	seq := []RelationshipType{RelationshipAssumes, RelationshipExtends, RelationshipMatches, RelationshipUnrelated, RelationshipAssumes}
	for i, vt := range seq {
		if !rel.ApplyVote(vt) {
			t.Fatalf("ApplyVote(%s): want true", vt)
		}
		if rel.TotalVotes != i+1 {
			t.Fatalf("TotalVotes: want=%d got=%d", i+1, rel.TotalVotes)
		}
		if rel.TotalVotes != rel.Counts().Total() {
			t.Fatalf("TotalVotes drifted from counters: %d vs %d", rel.TotalVotes, rel.Counts().Total())
		}
		if rel.Entropy != Entropy(rel.Counts()) {
			t.Fatalf("Entropy drifted: %v vs %v", rel.Entropy, Entropy(rel.Counts()))
		}
	}
	if rel.VoteAssumes != 2 {
		t.Fatalf("VoteAssumes: want=2 got=%d", rel.VoteAssumes)
	}
	if rel.ApplyVote(RelationshipType("SOMETIMES")) {
		t.Fatalf("ApplyVote(unknown): want false")
	}
	if rel.TotalVotes != len(seq) {
		t.Fatalf("unknown type changed counters: %d", rel.TotalVotes)
	}
}
