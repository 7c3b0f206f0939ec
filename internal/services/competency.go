package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/memo-backend/internal/data/repos"
	"github.com/yungbote/memo-backend/internal/data/repos/resource"
	types "github.com/yungbote/memo-backend/internal/domain"
	"github.com/yungbote/memo-backend/internal/events/bus"
	"github.com/yungbote/memo-backend/internal/platform/apierr"
	"github.com/yungbote/memo-backend/internal/platform/dbctx"
	"github.com/yungbote/memo-backend/internal/platform/logger"
)

const (
	DefaultRandomCount = 10
	MaxRandomCount     = 100
	maxTitleLen        = 200
)

type CreateCompetencyInput struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// UpdateCompetencyInput leaves nil fields unchanged.
type UpdateCompetencyInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type CompetencyService interface {
	Create(ctx context.Context, in CreateCompetencyInput) (*types.Competency, error)
	EnsureByTitle(ctx context.Context, in CreateCompetencyInput) (*types.Competency, bool, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Competency, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateCompetencyInput) (*types.Competency, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Random(ctx context.Context, count int) ([]*types.Competency, error)
}

type competencyService struct {
	db    *gorm.DB
	log   *logger.Logger
	comps repos.CompetencyRepo
	rels  repos.RelationshipRepo
	votes repos.VoteRepo
	links repos.ResourceLinkRepo
	bus   bus.Bus
}

func NewCompetencyService(db *gorm.DB, log *logger.Logger, r repos.Repos, b bus.Bus) CompetencyService {
	return &competencyService{
		db:    db,
		log:   log.With("service", "CompetencyService"),
		comps: r.Competency,
		rels:  r.Relationship,
		votes: r.Vote,
		links: r.ResourceLink,
		bus:   b,
	}
}

func normalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", apierr.BadRequest("invalid_title", fmt.Errorf("title is required"))
	}
	if len(title) > maxTitleLen {
		return "", apierr.BadRequest("invalid_title", fmt.Errorf("title exceeds %d characters", maxTitleLen))
	}
	return title, nil
}

func (s *competencyService) Create(ctx context.Context, in CreateCompetencyInput) (*types.Competency, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}
	row := &types.Competency{ID: uuid.New(), Title: title, Description: strings.TrimSpace(in.Description)}
	inserted, err := s.comps.CreateIfAbsent(dbctx.Context{Ctx: ctx}, row)
	if err != nil {
		return nil, fmt.Errorf("create competency: %w", err)
	}
	if !inserted {
		return nil, apierr.Conflict("competency_exists", "competency %q already exists", title)
	}
	return row, nil
}

// EnsureByTitle creates the competency unless one with the same title exists.
func (s *competencyService) EnsureByTitle(ctx context.Context, in CreateCompetencyInput) (*types.Competency, bool, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, false, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	row := &types.Competency{ID: uuid.New(), Title: title, Description: strings.TrimSpace(in.Description)}
	inserted, err := s.comps.CreateIfAbsent(dbc, row)
	if err != nil {
		return nil, false, fmt.Errorf("ensure competency %q: %w", title, err)
	}
	if inserted {
		return row, true, nil
	}
	existing, err := s.comps.GetByTitle(dbc, title)
	if err != nil {
		return nil, false, fmt.Errorf("ensure competency %q: %w", title, err)
	}
	if existing == nil {
		return nil, false, fmt.Errorf("competency %q missing after conflicting insert", title)
	}
	return existing, false, nil
}

func (s *competencyService) Get(ctx context.Context, id uuid.UUID) (*types.Competency, error) {
	row, err := s.comps.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, fmt.Errorf("load competency: %w", err)
	}
	if row == nil {
		return nil, apierr.NotFound("competency_not_found", "competency %s not found", id)
	}
	return row, nil
}

func (s *competencyService) Update(ctx context.Context, id uuid.UUID, in UpdateCompetencyInput) (*types.Competency, error) {
	var out *types.Competency
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := s.comps.GetByID(inner, id)
		if err != nil {
			return fmt.Errorf("load competency: %w", err)
		}
		if row == nil {
			return apierr.NotFound("competency_not_found", "competency %s not found", id)
		}
		if in.Title != nil {
			title, err := normalizeTitle(*in.Title)
			if err != nil {
				return err
			}
			taken, err := s.comps.GetByTitle(inner, title)
			if err != nil {
				return fmt.Errorf("load competency: %w", err)
			}
			if taken != nil && taken.ID != row.ID {
				return apierr.Conflict("competency_exists", "competency %q already exists", title)
			}
			row.Title = title
		}
		if in.Description != nil {
			row.Description = strings.TrimSpace(*in.Description)
		}
		if err := s.comps.Update(inner, row); err != nil {
			return fmt.Errorf("update competency: %w", err)
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the competency with every relationship touching it, their
// votes and its resource links. Each removed relationship releases one degree
// on its other endpoint.
func (s *competencyService) Delete(ctx context.Context, id uuid.UUID) error {
	var events []bus.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := s.comps.GetByID(inner, id)
		if err != nil {
			return fmt.Errorf("load competency: %w", err)
		}
		if row == nil {
			return apierr.NotFound("competency_not_found", "competency %s not found", id)
		}
		touching, err := s.rels.ListTouching(inner, []uuid.UUID{id})
		if err != nil {
			return fmt.Errorf("load relationships: %w", err)
		}
		relIDs := make([]uuid.UUID, 0, len(touching))
		now := time.Now().UTC()
		for _, rel := range touching {
			relIDs = append(relIDs, rel.ID)
			other := rel.DestinationID
			if other == id {
				other = rel.OriginID
			}
			if err := s.comps.DecrementDegree(inner, []uuid.UUID{other}); err != nil {
				return fmt.Errorf("decrement degree: %w", err)
			}
			events = append(events, bus.Event{
				Kind:           bus.KindRelationshipDeleted,
				RelationshipID: rel.ID,
				OriginID:       rel.OriginID,
				DestinationID:  rel.DestinationID,
				At:             now,
			})
		}
		if err := s.votes.DeleteByRelationshipIDs(inner, relIDs); err != nil {
			return fmt.Errorf("delete votes: %w", err)
		}
		if err := s.rels.DeleteByIDs(inner, relIDs); err != nil {
			return fmt.Errorf("delete relationships: %w", err)
		}
		if _, err := s.links.DeleteBy(inner, resource.LinkOwnerCompetency, id); err != nil {
			return fmt.Errorf("delete links: %w", err)
		}
		if err := s.comps.Delete(inner, id); err != nil {
			return fmt.Errorf("delete competency: %w", err)
		}
		events = append(events, bus.Event{Kind: bus.KindCompetencyDeleted, CompetencyID: id, At: now})
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("competency deleted", "competency_id", id, "relationships", len(events)-1)
	publishAll(ctx, s.bus, s.log, events)
	return nil
}

func (s *competencyService) Random(ctx context.Context, count int) ([]*types.Competency, error) {
	if count <= 0 {
		count = DefaultRandomCount
	}
	if count > MaxRandomCount {
		count = MaxRandomCount
	}
	rows, err := s.comps.Random(dbctx.Context{Ctx: ctx}, count)
	if err != nil {
		return nil, fmt.Errorf("load random competencies: %w", err)
	}
	return rows, nil
}

func publishAll(ctx context.Context, b bus.Bus, log *logger.Logger, events []bus.Event) {
	if b == nil {
		return
	}
	for _, ev := range events {
		if err := b.Publish(ctx, ev); err != nil {
			log.Warn("event publish failed", "kind", ev.Kind, "error", err)
		}
	}
}
