package scheduling

import (
	"fmt"

	"github.com/yungbote/memo-backend/internal/domain"
)

// Config tunes task selection. Zero is a meaningful CoverageWeight, so start
// from DefaultConfig rather than a zero value.
type Config struct {
	CoverageWeight float64 `yaml:"coverage_weight"`
	PoolSize       int     `yaml:"pool_size"`
	CandidateLimit int     `yaml:"candidate_limit"`
	MinVotes       int     `yaml:"min_votes"`
	MaxVotes       int     `yaml:"max_votes"`
	MinEntropy     float64 `yaml:"min_entropy"`
	// Seed fixes the random source; 0 seeds from the clock.
	Seed int64 `yaml:"seed"`
}

func DefaultConfig() Config {
	return Config{
		CoverageWeight: 0.7,
		PoolSize:       20,
		CandidateLimit: 20,
		MinVotes:       5,
		MaxVotes:       20,
		MinEntropy:     0.5,
	}
}

func (c Config) Validate() error {
	if c.CoverageWeight < 0 || c.CoverageWeight > 1 {
		return fmt.Errorf("scheduling: coverage_weight must be within [0,1], got %v", c.CoverageWeight)
	}
	if c.PoolSize < 2 {
		return fmt.Errorf("scheduling: pool_size must be at least 2, got %d", c.PoolSize)
	}
	if c.CandidateLimit < 1 {
		return fmt.Errorf("scheduling: candidate_limit must be positive, got %d", c.CandidateLimit)
	}
	if c.MinVotes < 0 || c.MaxVotes < c.MinVotes {
		return fmt.Errorf("scheduling: vote bounds [%d,%d] are invalid", c.MinVotes, c.MaxVotes)
	}
	if c.MinEntropy < 0 || c.MinEntropy >= domain.MaxEntropy {
		return fmt.Errorf("scheduling: min_entropy must be within [0,%v), got %v", domain.MaxEntropy, c.MinEntropy)
	}
	return nil
}
