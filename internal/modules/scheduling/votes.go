package scheduling

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/yungbote/memo-backend/internal/domain"
	"github.com/yungbote/memo-backend/internal/events/bus"
	"github.com/yungbote/memo-backend/internal/observability"
	"github.com/yungbote/memo-backend/internal/platform/apierr"
	"github.com/yungbote/memo-backend/internal/platform/dbctx"
)

// SubmitVote records the user's vote once. Repeat submissions return the
// current counters unchanged. Symmetric types are mirrored onto the reverse
// relationship, which is created when missing.
func (u Usecases) SubmitVote(ctx context.Context, in SubmitVoteInput) (*VoteResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "scheduling.SubmitVote")
	defer span.End()
	span.SetAttributes(
		attribute.String("scheduling.relationship_id", in.RelationshipID.String()),
		attribute.String("scheduling.relationship_type", string(in.RelationshipType)),
	)

	if err := validateVoter(in.UserID, in.RelationshipType); err != nil {
		return nil, err
	}
	if in.RelationshipID == uuid.Nil {
		return nil, apierr.BadRequest("invalid_relationship_id", fmt.Errorf("missing relationship_id"))
	}

	var (
		result *VoteResult
		ob     outbox
	)
	err := u.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		rel, err := u.deps.Relationships.GetByID(inner, in.RelationshipID)
		if err != nil {
			return fmt.Errorf("load relationship: %w", err)
		}
		if rel == nil {
			return apierr.NotFound("relationship_not_found", "relationship %s not found", in.RelationshipID)
		}
		if err := u.lockMirrorFirst(inner, &ob, rel, rel.OriginID, rel.DestinationID, in.UserID, in.RelationshipType); err != nil {
			return err
		}
		rel, err = u.deps.Relationships.GetByIDForUpdate(inner, in.RelationshipID)
		if err != nil {
			return fmt.Errorf("lock relationship: %w", err)
		}
		if rel == nil {
			return apierr.NotFound("relationship_not_found", "relationship %s not found", in.RelationshipID)
		}
		result, err = u.recordVote(inner, &ob, rel, in.UserID, in.RelationshipType)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	u.flush(ctx, &ob)
	return result, nil
}

// Relate finds or creates origin→destination and records the user's vote on it
// in the same transaction.
func (u Usecases) Relate(ctx context.Context, in RelateInput) (*RelateResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "scheduling.Relate")
	defer span.End()

	if err := validateVoter(in.UserID, in.RelationshipType); err != nil {
		return nil, err
	}
	if in.OriginID == uuid.Nil || in.DestinationID == uuid.Nil {
		return nil, apierr.BadRequest("invalid_competency_id", fmt.Errorf("origin_id and destination_id are required"))
	}
	if in.OriginID == in.DestinationID {
		return nil, apierr.InvalidOperation("competency %s cannot be related to itself", in.OriginID)
	}

	var (
		out *RelateResult
		ob  outbox
	)
	err := u.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		rows, err := u.deps.Competencies.GetByIDs(inner, []uuid.UUID{in.OriginID, in.DestinationID})
		if err != nil {
			return fmt.Errorf("load competencies: %w", err)
		}
		found := map[uuid.UUID]bool{}
		for _, c := range rows {
			found[c.ID] = true
		}
		for _, id := range []uuid.UUID{in.OriginID, in.DestinationID} {
			if !found[id] {
				return apierr.NotFound("competency_not_found", "competency %s not found", id)
			}
		}

		forward, err := u.deps.Relationships.GetByEndpoints(inner, in.OriginID, in.DestinationID)
		if err != nil {
			return fmt.Errorf("load relationship: %w", err)
		}
		if err := u.lockMirrorFirst(inner, &ob, forward, in.OriginID, in.DestinationID, in.UserID, in.RelationshipType); err != nil {
			return err
		}
		rel, created, err := u.ensureRelationship(inner, &ob, in.OriginID, in.DestinationID, sourceAPI)
		if err != nil {
			return err
		}
		vote, err := u.recordVote(inner, &ob, rel, in.UserID, in.RelationshipType)
		if err != nil {
			return err
		}
		out = &RelateResult{Relationship: rel, Created: created, Vote: *vote}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	u.flush(ctx, &ob)
	return out, nil
}

func validateVoter(userID uuid.UUID, t domain.RelationshipType) error {
	if userID == uuid.Nil {
		return apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if !t.Valid() {
		return apierr.BadRequest("invalid_relationship_type", fmt.Errorf("unknown relationship type %q", t))
	}
	return nil
}

// lockMirrorFirst takes the reverse row ahead of origin→destination when the
// reverse pair sorts first. Symmetric votes then always lock the two rows of a
// pair in the same order. forward may be nil when the row does not exist yet;
// a user who already voted on it gets no mirror row.
func (u Usecases) lockMirrorFirst(dbc dbctx.Context, ob *outbox, forward *domain.CompetencyRelationship, originID, destinationID, userID uuid.UUID, t domain.RelationshipType) error {
	if !t.Symmetric() || lockFirst(originID, destinationID) {
		return nil
	}
	if forward != nil {
		voted, err := u.deps.Votes.Exists(dbc, forward.ID, userID)
		if err != nil {
			return fmt.Errorf("check vote: %w", err)
		}
		if voted {
			return nil
		}
	}
	_, _, err := u.ensureRelationship(dbc, ob, destinationID, originID, sourceMirror)
	return err
}

// lockFirst reports whether origin→destination is locked before its reverse.
func lockFirst(originID, destinationID uuid.UUID) bool {
	return bytes.Compare(originID[:], destinationID[:]) < 0
}

// recordVote applies the vote to rel, which the caller holds locked.
func (u Usecases) recordVote(dbc dbctx.Context, ob *outbox, rel *domain.CompetencyRelationship, userID uuid.UUID, t domain.RelationshipType) (*VoteResult, error) {
	applied, err := u.applyVote(dbc, ob, rel, userID, t, false)
	if err != nil {
		return nil, err
	}
	if !applied {
		observability.VotesTotal.WithLabelValues(string(t), "duplicate").Inc()
		return &VoteResult{Success: true, UpdatedVotes: rel.Counts(), NewEntropy: rel.Entropy}, nil
	}
	observability.VotesTotal.WithLabelValues(string(t), "applied").Inc()

	if t.Symmetric() {
		reverse, _, err := u.ensureRelationship(dbc, ob, rel.DestinationID, rel.OriginID, sourceMirror)
		if err != nil {
			return nil, err
		}
		mirrored, err := u.applyVote(dbc, ob, reverse, userID, t, true)
		if err != nil {
			return nil, err
		}
		if mirrored {
			observability.MirroredVotesTotal.Inc()
		}
	}
	return &VoteResult{Success: true, UpdatedVotes: rel.Counts(), NewEntropy: rel.Entropy}, nil
}

// applyVote inserts the ledger row and, only if it was new, bumps the counter
// and persists the relationship. It reports whether the vote was applied.
func (u Usecases) applyVote(dbc dbctx.Context, ob *outbox, rel *domain.CompetencyRelationship, userID uuid.UUID, t domain.RelationshipType, mirrored bool) (bool, error) {
	inserted, err := u.deps.Votes.InsertIfAbsent(dbc, domain.NewVote(rel.ID, userID, t))
	if err != nil {
		return false, fmt.Errorf("insert vote: %w", err)
	}
	if !inserted {
		return false, nil
	}
	rel.ApplyVote(t)
	if err := u.deps.Relationships.Save(dbc, rel); err != nil {
		return false, fmt.Errorf("save relationship: %w", err)
	}
	ob.add(bus.Event{
		Kind:             bus.KindRelationshipVoted,
		RelationshipID:   rel.ID,
		OriginID:         rel.OriginID,
		DestinationID:    rel.DestinationID,
		UserID:           userID,
		RelationshipType: string(t),
		Mirrored:         mirrored,
		TotalVotes:       rel.TotalVotes,
		Entropy:          rel.Entropy,
	})
	u.log.Debug("vote applied", "relationship_id", rel.ID, "user_id", userID, "type", t, "mirrored", mirrored)
	return true, nil
}
