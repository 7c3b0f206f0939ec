package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/memo-backend/internal/data/repos"
	"github.com/yungbote/memo-backend/internal/data/repos/resource"
	types "github.com/yungbote/memo-backend/internal/domain"
	"github.com/yungbote/memo-backend/internal/platform/apierr"
	"github.com/yungbote/memo-backend/internal/platform/dbctx"
	"github.com/yungbote/memo-backend/internal/platform/logger"
)

const DefaultRandomResourceCount = 1

type CreateLearningResourceInput struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// UpdateLearningResourceInput leaves nil fields unchanged.
type UpdateLearningResourceInput struct {
	Title *string `json:"title"`
	URL   *string `json:"url"`
}

type LearningResourceService interface {
	Create(ctx context.Context, in CreateLearningResourceInput) (*types.LearningResource, error)
	Get(ctx context.Context, id uuid.UUID) (*types.LearningResource, error)
	GetByURL(ctx context.Context, url string) (*types.LearningResource, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateLearningResourceInput) (*types.LearningResource, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Random(ctx context.Context, count int) ([]*types.LearningResource, error)
}

type learningResourceService struct {
	db        *gorm.DB
	log       *logger.Logger
	resources repos.LearningResourceRepo
	links     repos.ResourceLinkRepo
}

func NewLearningResourceService(db *gorm.DB, log *logger.Logger, r repos.Repos) LearningResourceService {
	return &learningResourceService{
		db:        db,
		log:       log.With("service", "LearningResourceService"),
		resources: r.Resource,
		links:     r.ResourceLink,
	}
}

func normalizeURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", apierr.BadRequest("invalid_url", fmt.Errorf("url is required"))
	}
	u, err := url.ParseRequestURI(s)
	if err != nil || u.Host == "" {
		return "", apierr.BadRequest("invalid_url", fmt.Errorf("url %q is not absolute", s))
	}
	return s, nil
}

func (s *learningResourceService) Create(ctx context.Context, in CreateLearningResourceInput) (*types.LearningResource, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}
	link, err := normalizeURL(in.URL)
	if err != nil {
		return nil, err
	}
	row := &types.LearningResource{ID: uuid.New(), Title: title, URL: link}
	inserted, err := s.resources.CreateIfAbsent(dbctx.Context{Ctx: ctx}, row)
	if err != nil {
		return nil, fmt.Errorf("create learning resource: %w", err)
	}
	if !inserted {
		return nil, apierr.Conflict("resource_exists", "learning resource with url %q already exists", link)
	}
	return row, nil
}

func (s *learningResourceService) Get(ctx context.Context, id uuid.UUID) (*types.LearningResource, error) {
	row, err := s.resources.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, fmt.Errorf("load learning resource: %w", err)
	}
	if row == nil {
		return nil, apierr.NotFound("resource_not_found", "learning resource %s not found", id)
	}
	return row, nil
}

func (s *learningResourceService) GetByURL(ctx context.Context, raw string) (*types.LearningResource, error) {
	link := strings.TrimSpace(raw)
	if link == "" {
		return nil, apierr.BadRequest("invalid_url", fmt.Errorf("url is required"))
	}
	row, err := s.resources.GetByURL(dbctx.Context{Ctx: ctx}, link)
	if err != nil {
		return nil, fmt.Errorf("load learning resource: %w", err)
	}
	if row == nil {
		return nil, apierr.NotFound("resource_not_found", "learning resource with url %q not found", link)
	}
	return row, nil
}

func (s *learningResourceService) Update(ctx context.Context, id uuid.UUID, in UpdateLearningResourceInput) (*types.LearningResource, error) {
	var out *types.LearningResource
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := s.resources.GetByID(inner, id)
		if err != nil {
			return fmt.Errorf("load learning resource: %w", err)
		}
		if row == nil {
			return apierr.NotFound("resource_not_found", "learning resource %s not found", id)
		}
		if in.Title != nil {
			title, err := normalizeTitle(*in.Title)
			if err != nil {
				return err
			}
			row.Title = title
		}
		if in.URL != nil {
			link, err := normalizeURL(*in.URL)
			if err != nil {
				return err
			}
			taken, err := s.resources.GetByURL(inner, link)
			if err != nil {
				return fmt.Errorf("load learning resource: %w", err)
			}
			if taken != nil && taken.ID != row.ID {
				return apierr.Conflict("resource_exists", "learning resource with url %q already exists", link)
			}
			row.URL = link
		}
		if err := s.resources.Update(inner, row); err != nil {
			return fmt.Errorf("update learning resource: %w", err)
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the resource and every link to it.
func (s *learningResourceService) Delete(ctx context.Context, id uuid.UUID) error {
	var dropped int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := s.resources.GetByID(inner, id)
		if err != nil {
			return fmt.Errorf("load learning resource: %w", err)
		}
		if row == nil {
			return apierr.NotFound("resource_not_found", "learning resource %s not found", id)
		}
		if dropped, err = s.links.DeleteBy(inner, resource.LinkOwnerResource, id); err != nil {
			return fmt.Errorf("delete links: %w", err)
		}
		if err := s.resources.Delete(inner, id); err != nil {
			return fmt.Errorf("delete learning resource: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("learning resource deleted", "resource_id", id, "links", dropped)
	return nil
}

func (s *learningResourceService) Random(ctx context.Context, count int) ([]*types.LearningResource, error) {
	if count <= 0 {
		count = DefaultRandomResourceCount
	}
	if count > MaxRandomCount {
		count = MaxRandomCount
	}
	rows, err := s.resources.Random(dbctx.Context{Ctx: ctx}, count)
	if err != nil {
		return nil, fmt.Errorf("load random learning resources: %w", err)
	}
	return rows, nil
}
