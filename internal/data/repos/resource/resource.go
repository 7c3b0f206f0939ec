package resource

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/memo-backend/internal/domain"
	"github.com/yungbote/memo-backend/internal/platform/dbctx"
	"github.com/yungbote/memo-backend/internal/platform/logger"
)

type LearningResourceRepo interface {
	CreateIfAbsent(dbc dbctx.Context, row *types.LearningResource) (bool, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LearningResource, error)
	GetByURL(dbc dbctx.Context, url string) (*types.LearningResource, error)
	Random(dbc dbctx.Context, n int) ([]*types.LearningResource, error)
	Update(dbc dbctx.Context, row *types.LearningResource) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type learningResourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningResourceRepo(db *gorm.DB, baseLog *logger.Logger) LearningResourceRepo {
	return &learningResourceRepo{db: db, log: baseLog.With("repo", "LearningResourceRepo")}
}

// CreateIfAbsent inserts row unless its URL is taken and reports whether this
// call inserted it.
func (r *learningResourceRepo) CreateIfAbsent(dbc dbctx.Context, row *types.LearningResource) (bool, error) {
	if row == nil {
		return false, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.URL = strings.TrimSpace(row.URL)
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "url"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *learningResourceRepo) first(t *gorm.DB) (*types.LearningResource, error) {
	var out []*types.LearningResource
	if err := t.Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *learningResourceRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LearningResource, error) {
	return r.first(dbc.DB(r.db).Where("id = ?", id))
}

func (r *learningResourceRepo) GetByURL(dbc dbctx.Context, url string) (*types.LearningResource, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, nil
	}
	return r.first(dbc.DB(r.db).Where("url = ?", url))
}

func (r *learningResourceRepo) Random(dbc dbctx.Context, n int) ([]*types.LearningResource, error) {
	var out []*types.LearningResource
	if n <= 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Order("RANDOM()").Limit(n).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *learningResourceRepo) Update(dbc dbctx.Context, row *types.LearningResource) error {
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	row.UpdatedAt = time.Now().UTC()
	return dbc.DB(r.db).
		Model(&types.LearningResource{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"title":      row.Title,
			"url":        strings.TrimSpace(row.URL),
			"updated_at": row.UpdatedAt,
		}).Error
}

func (r *learningResourceRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.DB(r.db).Where("id = ?", id).Delete(&types.LearningResource{}).Error
}
