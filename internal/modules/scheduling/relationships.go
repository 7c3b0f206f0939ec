package scheduling

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/memo-backend/internal/domain"
	"github.com/yungbote/memo-backend/internal/events/bus"
	"github.com/yungbote/memo-backend/internal/observability"
	"github.com/yungbote/memo-backend/internal/platform/apierr"
	"github.com/yungbote/memo-backend/internal/platform/dbctx"
)

// ensureRelationship returns the origin→destination row, inserting it with
// zero counters when absent. Both endpoint degrees move only when this call
// inserted the row. The returned row is locked for the rest of the transaction.
func (u Usecases) ensureRelationship(dbc dbctx.Context, ob *outbox, originID, destinationID uuid.UUID, source string) (*domain.CompetencyRelationship, bool, error) {
	if originID == destinationID {
		return nil, false, apierr.InvalidOperation("competency %s cannot be related to itself", originID)
	}
	rel := domain.NewRelationship(originID, destinationID)
	inserted, err := u.deps.Relationships.CreateIfAbsent(dbc, rel)
	if err != nil {
		return nil, false, fmt.Errorf("create relationship: %w", err)
	}
	if inserted {
		if err := u.deps.Competencies.IncrementDegree(dbc, []uuid.UUID{originID, destinationID}); err != nil {
			return nil, false, fmt.Errorf("increment degree: %w", err)
		}
		observability.RelationshipsCreatedTotal.WithLabelValues(source).Inc()
		ob.add(bus.Event{
			Kind:           bus.KindRelationshipCreated,
			RelationshipID: rel.ID,
			OriginID:       originID,
			DestinationID:  destinationID,
			Source:         source,
		})
		u.log.Debug("relationship created", "relationship_id", rel.ID, "source", source)
		return rel, true, nil
	}

	existing, err := u.deps.Relationships.GetByEndpointsForUpdate(dbc, originID, destinationID)
	if err != nil {
		return nil, false, fmt.Errorf("load relationship: %w", err)
	}
	if existing == nil {
		return nil, false, fmt.Errorf("relationship %s->%s missing after conflicting insert", originID, destinationID)
	}
	return existing, false, nil
}
