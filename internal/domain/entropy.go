package domain

import "math"

// MaxEntropy is log2 of the number of vote categories.
const MaxEntropy = 2.0

// VoteCounts holds one counter per relationship type.
type VoteCounts struct {
	Assumes   int `json:"assumes"`
	Extends   int `json:"extends"`
	Matches   int `json:"matches"`
	Unrelated int `json:"unrelated"`
}

func (v VoteCounts) Total() int {
	return v.Assumes + v.Extends + v.Matches + v.Unrelated
}

func (v VoteCounts) Slice() []int {
	return []int{v.Assumes, v.Extends, v.Matches, v.Unrelated}
}

// Get returns the counter for t, zero for unknown types.
func (v VoteCounts) Get(t RelationshipType) int {
	switch t {
	case RelationshipAssumes:
		return v.Assumes
	case RelationshipExtends:
		return v.Extends
	case RelationshipMatches:
		return v.Matches
	case RelationshipUnrelated:
		return v.Unrelated
	default:
		return 0
	}
}

// Entropy is the Shannon entropy (base 2) of the empirical vote distribution.
// Zero when there are no votes or all votes share a category.
func Entropy(counts VoteCounts) float64 {
	total := counts.Total()
	if total <= 0 {
		return 0
	}
	h := 0.0
	for _, c := range counts.Slice() {
		if c <= 0 {
			continue
		}
		p := float64(c) / float64(total)
		h -= p * math.Log2(p)
	}
	if h < 0 {
		return 0
	}
	return h
}
