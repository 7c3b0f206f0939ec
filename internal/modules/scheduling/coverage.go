package scheduling

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/memo-backend/internal/domain"
	"github.com/yungbote/memo-backend/internal/platform/dbctx"
)

// coverage connects the first unlinked pair in a shuffled pool of the
// lowest-degree competencies. When the pool is saturated it falls back to any
// relationship the user has not voted on. A nil relationship means no task.
func (u Usecases) coverage(dbc dbctx.Context, ob *outbox, userID uuid.UUID) (*domain.CompetencyRelationship, error) {
	pool, err := u.deps.Competencies.LowestDegreeIDs(dbc, u.cfg.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("load lowest degree competencies: %w", err)
	}
	if len(pool) == 0 {
		pool, err = u.deps.Competencies.RandomIDs(dbc, u.cfg.PoolSize)
		if err != nil {
			return nil, fmt.Errorf("load random competencies: %w", err)
		}
	}
	if len(pool) < 2 {
		return nil, nil
	}

	existing, err := u.deps.Relationships.ListWithinPool(dbc, pool)
	if err != nil {
		return nil, fmt.Errorf("load pool relationships: %w", err)
	}
	connected := make(map[domain.PairKey]struct{}, len(existing)*2)
	for _, rel := range existing {
		connected[domain.PairKey{From: rel.OriginID, To: rel.DestinationID}] = struct{}{}
		connected[domain.PairKey{From: rel.DestinationID, To: rel.OriginID}] = struct{}{}
	}

	if a, b, ok := u.firstUnconnectedPair(pool, connected); ok {
		rel, _, err := u.ensureRelationship(dbc, ob, a, b, sourceCoverage)
		return rel, err
	}

	rel, err := u.deps.Relationships.FirstUnvotedByUser(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load unvoted relationship: %w", err)
	}
	return rel, nil
}

func (u Usecases) firstUnconnectedPair(pool []uuid.UUID, connected map[domain.PairKey]struct{}) (uuid.UUID, uuid.UUID, bool) {
	shuffled := append([]uuid.UUID(nil), pool...)
	u.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	for i := 0; i < len(shuffled); i++ {
		for j := i + 1; j < len(shuffled); j++ {
			if _, ok := connected[domain.PairKey{From: shuffled[i], To: shuffled[j]}]; ok {
				continue
			}
			return shuffled[i], shuffled[j], true
		}
	}
	return uuid.Nil, uuid.Nil, false
}
