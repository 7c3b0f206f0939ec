package graph

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/memo-backend/internal/data/repos"
	types "github.com/yungbote/memo-backend/internal/domain"
	"github.com/yungbote/memo-backend/internal/events/bus"
	"github.com/yungbote/memo-backend/internal/platform/dbctx"
	"github.com/yungbote/memo-backend/internal/platform/logger"
	"github.com/yungbote/memo-backend/internal/platform/neo4jdb"
)

// Projector keeps a Neo4j copy of the competency graph in step with bus events.
// The relational store stays authoritative: every event re-reads current state.
type Projector struct {
	client  *neo4jdb.Client
	rels    repos.RelationshipRepo
	comps   repos.CompetencyRepo
	log     *logger.Logger
	timeout time.Duration
}

func NewProjector(client *neo4jdb.Client, rels repos.RelationshipRepo, comps repos.CompetencyRepo, baseLog *logger.Logger) *Projector {
	return &Projector{
		client:  client,
		rels:    rels,
		comps:   comps,
		log:     baseLog.With("service", "GraphProjector"),
		timeout: 10 * time.Second,
	}
}

func (p *Projector) Enabled() bool {
	return p != nil && p.client != nil && p.client.Driver != nil
}

// Start subscribes the projector to b. It is a no-op without a neo4j client.
func (p *Projector) Start(ctx context.Context, b bus.Bus) error {
	if !p.Enabled() || b == nil {
		return nil
	}
	EnsureCompetencySchema(ctx, p.client, p.log)
	return b.StartForwarder(ctx, func(ev bus.Event) {
		hctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		if err := p.Handle(hctx, ev); err != nil {
			p.log.Warn("graph projection failed", "kind", ev.Kind, "relationship_id", ev.RelationshipID, "error", err)
		}
	})
}

func (p *Projector) Handle(ctx context.Context, ev bus.Event) error {
	if !p.Enabled() {
		return nil
	}
	switch ev.Kind {
	case bus.KindRelationshipCreated, bus.KindRelationshipVoted:
		return p.projectRelationship(ctx, ev.RelationshipID)
	case bus.KindRelationshipDeleted:
		if err := DeleteRelationship(ctx, p.client, ev.RelationshipID); err != nil {
			return err
		}
		return p.projectCompetencies(ctx, ev.OriginID, ev.DestinationID)
	case bus.KindCompetencyDeleted:
		return DeleteCompetency(ctx, p.client, ev.CompetencyID)
	default:
		return nil
	}
}

func (p *Projector) projectRelationship(ctx context.Context, id uuid.UUID) error {
	dbc := dbctx.Context{Ctx: ctx}
	rel, err := p.rels.GetByID(dbc, id)
	if err != nil {
		return err
	}
	if rel == nil {
		return nil
	}
	comps, err := p.comps.GetByIDs(dbc, []uuid.UUID{rel.OriginID, rel.DestinationID})
	if err != nil {
		return err
	}
	return UpsertCompetencyGraph(ctx, p.client, comps, []*types.CompetencyRelationship{rel})
}

func (p *Projector) projectCompetencies(ctx context.Context, ids ...uuid.UUID) error {
	comps, err := p.comps.GetByIDs(dbctx.Context{Ctx: ctx}, ids)
	if err != nil {
		return err
	}
	return UpsertCompetencyGraph(ctx, p.client, comps, nil)
}
