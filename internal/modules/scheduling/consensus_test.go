package scheduling

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/memo-backend/internal/domain"
)

func candidate(entropy float64, votes int) *domain.CompetencyRelationship {
	return &domain.CompetencyRelationship{ID: uuid.New(), Entropy: entropy, TotalVotes: votes}
}

func TestPickWeightedFavoursAmbiguousLightlyVoted(t *testing.T) {
	high := candidate(1.8, 5)
	low := candidate(0.6, 19)
	cands := []*domain.CompetencyRelationship{high, low}

	rng := NewRand(7)
	counts := map[uuid.UUID]int{}
	for i := 0; i < 20000; i++ {
		counts[pickWeighted(cands, rng.Float64()).ID]++
	}
	if counts[high.ID] <= counts[low.ID] {
		t.Fatalf("want high-weight candidate picked more: high=%d low=%d", counts[high.ID], counts[low.ID])
	}
	// weights 0.3 and 0.03: expect roughly 10:1
	if ratio := float64(counts[high.ID]) / float64(counts[low.ID]+1); ratio < 7 || ratio > 14 {
		t.Fatalf("selection ratio out of range: %v", ratio)
	}
}

func TestPickWeightedBoundaries(t *testing.T) {
	a := candidate(1.0, 1) // 0.5
	b := candidate(1.0, 1) // 0.5
	cands := []*domain.CompetencyRelationship{a, b}

	if got := pickWeighted(cands, 0); got != a {
		t.Fatalf("roll 0: want first")
	}
	if got := pickWeighted(cands, 0.5); got != a {
		t.Fatalf("roll on boundary: want first (cumulative >= roll)")
	}
	if got := pickWeighted(cands, 0.9999); got != b {
		t.Fatalf("roll near 1: want second")
	}
	zero := []*domain.CompetencyRelationship{candidate(0, 3), candidate(0, 4)}
	if got := pickWeighted(zero, 0.7); got != zero[0] {
		t.Fatalf("zero weights: want first")
	}
	if pickWeighted(nil, 0.3) != nil {
		t.Fatalf("no candidates: want nil")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig: %v", err)
	}
	bad := []func(*Config){
		func(c *Config) { c.CoverageWeight = 1.2 },
		func(c *Config) { c.CoverageWeight = -0.1 },
		func(c *Config) { c.PoolSize = 1 },
		func(c *Config) { c.CandidateLimit = 0 },
		func(c *Config) { c.MinVotes, c.MaxVotes = 10, 5 },
		func(c *Config) { c.MinEntropy = 2 },
	}
	for i, mutate := range bad {
		c := DefaultConfig()
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d: expected error for %+v", i, c)
		}
	}
}

func TestNewRandIsReproducible(t *testing.T) {
	r1, r2 := NewRand(99), NewRand(99)
	for i := 0; i < 10; i++ {
		if a, b := r1.Float64(), r2.Float64(); a != b {
			t.Fatalf("draw %d: %v != %v", i, a, b)
		}
	}
}
