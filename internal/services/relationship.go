package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/memo-backend/internal/data/repos"
	types "github.com/yungbote/memo-backend/internal/domain"
	"github.com/yungbote/memo-backend/internal/events/bus"
	"github.com/yungbote/memo-backend/internal/platform/apierr"
	"github.com/yungbote/memo-backend/internal/platform/dbctx"
	"github.com/yungbote/memo-backend/internal/platform/logger"
)

type RelationshipService interface {
	Get(ctx context.Context, id uuid.UUID) (*types.CompetencyRelationship, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type relationshipService struct {
	db    *gorm.DB
	log   *logger.Logger
	comps repos.CompetencyRepo
	rels  repos.RelationshipRepo
	votes repos.VoteRepo
	bus   bus.Bus
}

func NewRelationshipService(db *gorm.DB, log *logger.Logger, r repos.Repos, b bus.Bus) RelationshipService {
	return &relationshipService{
		db:    db,
		log:   log.With("service", "RelationshipService"),
		comps: r.Competency,
		rels:  r.Relationship,
		votes: r.Vote,
		bus:   b,
	}
}

func (s *relationshipService) Get(ctx context.Context, id uuid.UUID) (*types.CompetencyRelationship, error) {
	row, err := s.rels.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, fmt.Errorf("load relationship: %w", err)
	}
	if row == nil {
		return nil, apierr.NotFound("relationship_not_found", "relationship %s not found", id)
	}
	return row, nil
}

// Delete drops the relationship and its ledger rows and releases one degree on
// each endpoint.
func (s *relationshipService) Delete(ctx context.Context, id uuid.UUID) error {
	var ev bus.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		rel, err := s.rels.GetByIDForUpdate(inner, id)
		if err != nil {
			return fmt.Errorf("load relationship: %w", err)
		}
		if rel == nil {
			return apierr.NotFound("relationship_not_found", "relationship %s not found", id)
		}
		if err := s.votes.DeleteByRelationshipIDs(inner, []uuid.UUID{id}); err != nil {
			return fmt.Errorf("delete votes: %w", err)
		}
		if err := s.rels.DeleteByIDs(inner, []uuid.UUID{id}); err != nil {
			return fmt.Errorf("delete relationship: %w", err)
		}
		if err := s.comps.DecrementDegree(inner, []uuid.UUID{rel.OriginID, rel.DestinationID}); err != nil {
			return fmt.Errorf("decrement degree: %w", err)
		}
		ev = bus.Event{
			Kind:           bus.KindRelationshipDeleted,
			RelationshipID: rel.ID,
			OriginID:       rel.OriginID,
			DestinationID:  rel.DestinationID,
			At:             time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		return err
	}
	publishAll(ctx, s.bus, s.log, []bus.Event{ev})
	return nil
}
