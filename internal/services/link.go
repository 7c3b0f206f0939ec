package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/memo-backend/internal/data/repos"
	types "github.com/yungbote/memo-backend/internal/domain"
	"github.com/yungbote/memo-backend/internal/platform/apierr"
	"github.com/yungbote/memo-backend/internal/platform/dbctx"
	"github.com/yungbote/memo-backend/internal/platform/logger"
)

type CreateResourceLinkInput struct {
	CompetencyID uuid.UUID `json:"competency_id"`
	ResourceID   uuid.UUID `json:"resource_id"`
	UserID       uuid.UUID `json:"user_id"`
	MatchType    string    `json:"match_type"`
}

type ResourceLinkService interface {
	Create(ctx context.Context, in CreateResourceLinkInput) (*types.CompetencyResourceLink, error)
	Get(ctx context.Context, id uuid.UUID) (*types.CompetencyResourceLink, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type resourceLinkService struct {
	db        *gorm.DB
	log       *logger.Logger
	comps     repos.CompetencyRepo
	resources repos.LearningResourceRepo
	users     repos.UserRepo
	links     repos.ResourceLinkRepo
}

func NewResourceLinkService(db *gorm.DB, log *logger.Logger, r repos.Repos) ResourceLinkService {
	return &resourceLinkService{
		db:        db,
		log:       log.With("service", "ResourceLinkService"),
		comps:     r.Competency,
		resources: r.Resource,
		users:     r.User,
		links:     r.ResourceLink,
	}
}

// Create records the link once its competency, resource and user all exist.
func (s *resourceLinkService) Create(ctx context.Context, in CreateResourceLinkInput) (*types.CompetencyResourceLink, error) {
	if in.CompetencyID == uuid.Nil || in.ResourceID == uuid.Nil || in.UserID == uuid.Nil {
		return nil, apierr.BadRequest("invalid_request", fmt.Errorf("competency_id, resource_id and user_id are required"))
	}
	match, err := types.ParseResourceMatchType(in.MatchType)
	if err != nil {
		return nil, apierr.BadRequest("invalid_match_type", err)
	}

	row := &types.CompetencyResourceLink{
		ID:           uuid.New(),
		CompetencyID: in.CompetencyID,
		ResourceID:   in.ResourceID,
		UserID:       in.UserID,
		MatchType:    match,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		comp, err := s.comps.GetByID(inner, in.CompetencyID)
		if err != nil {
			return fmt.Errorf("load competency: %w", err)
		}
		if comp == nil {
			return apierr.NotFound("competency_not_found", "competency %s not found", in.CompetencyID)
		}
		res, err := s.resources.GetByID(inner, in.ResourceID)
		if err != nil {
			return fmt.Errorf("load learning resource: %w", err)
		}
		if res == nil {
			return apierr.NotFound("resource_not_found", "learning resource %s not found", in.ResourceID)
		}
		u, err := s.users.GetByID(inner, in.UserID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if u == nil {
			return apierr.NotFound("user_not_found", "user %s not found", in.UserID)
		}
		if err := s.links.Create(inner, row); err != nil {
			return fmt.Errorf("create link: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (s *resourceLinkService) Get(ctx context.Context, id uuid.UUID) (*types.CompetencyResourceLink, error) {
	row, err := s.links.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, fmt.Errorf("load link: %w", err)
	}
	if row == nil {
		return nil, apierr.NotFound("link_not_found", "competency resource link %s not found", id)
	}
	return row, nil
}

func (s *resourceLinkService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := s.links.GetByID(inner, id)
		if err != nil {
			return fmt.Errorf("load link: %w", err)
		}
		if row == nil {
			return apierr.NotFound("link_not_found", "competency resource link %s not found", id)
		}
		return s.links.Delete(inner, id)
	})
}
