package scheduling

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/memo-backend/internal/data/repos"
	"github.com/yungbote/memo-backend/internal/domain"
	"github.com/yungbote/memo-backend/internal/platform/dbctx"
)

// consensus picks an ambiguous relationship the user has not voted on yet.
func (u Usecases) consensus(dbc dbctx.Context, userID uuid.UUID) (*domain.CompetencyRelationship, error) {
	candidates, err := u.deps.Relationships.ListHighEntropyUnvotedByUser(dbc, repos.HighEntropyQuery{
		UserID:     userID,
		MinVotes:   u.cfg.MinVotes,
		MaxVotes:   u.cfg.MaxVotes,
		MinEntropy: u.cfg.MinEntropy,
		Limit:      u.cfg.CandidateLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("load consensus candidates: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	return pickWeighted(candidates, u.rng.Float64()), nil
}

// consensusWeight favours relationships that are both ambiguous and lightly voted.
func consensusWeight(rel *domain.CompetencyRelationship) float64 {
	return rel.Entropy / float64(rel.TotalVotes+1)
}

// pickWeighted walks the cumulative weights with roll = u * total, u in [0,1).
// The first candidate is returned if rounding leaves the walk without a hit.
func pickWeighted(candidates []*domain.CompetencyRelationship, u float64) *domain.CompetencyRelationship {
	if len(candidates) == 0 {
		return nil
	}
	total := 0.0
	for _, c := range candidates {
		total += consensusWeight(c)
	}
	roll := u * total
	cumulative := 0.0
	for _, c := range candidates {
		cumulative += consensusWeight(c)
		if cumulative >= roll {
			return c
		}
	}
	return candidates[0]
}
