package competency

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/memo-backend/internal/domain"
	"github.com/yungbote/memo-backend/internal/platform/dbctx"
	"github.com/yungbote/memo-backend/internal/platform/logger"
)

type CompetencyRepo interface {
	CreateIfAbsent(dbc dbctx.Context, row *types.Competency) (bool, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Competency, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Competency, error)
	GetByTitle(dbc dbctx.Context, title string) (*types.Competency, error)
	Update(dbc dbctx.Context, row *types.Competency) error
	Delete(dbc dbctx.Context, id uuid.UUID) error

	LowestDegreeIDs(dbc dbctx.Context, n int) ([]uuid.UUID, error)
	RandomIDs(dbc dbctx.Context, n int) ([]uuid.UUID, error)
	Random(dbc dbctx.Context, n int) ([]*types.Competency, error)

	IncrementDegree(dbc dbctx.Context, ids []uuid.UUID) error
	DecrementDegree(dbc dbctx.Context, ids []uuid.UUID) error
	SumDegree(dbc dbctx.Context) (int64, error)
}

type competencyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompetencyRepo(db *gorm.DB, baseLog *logger.Logger) CompetencyRepo {
	return &competencyRepo{db: db, log: baseLog.With("repo", "CompetencyRepo")}
}

// CreateIfAbsent inserts row unless its title is taken. It reports whether this
// call inserted the row.
func (r *competencyRepo) CreateIfAbsent(dbc dbctx.Context, row *types.Competency) (bool, error) {
	if row == nil {
		return false, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.Title = strings.TrimSpace(row.Title)
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "title"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *competencyRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Competency, error) {
	var row types.Competency
	err := dbc.DB(r.db).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *competencyRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Competency, error) {
	var out []*types.Competency
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *competencyRepo) GetByTitle(dbc dbctx.Context, title string) (*types.Competency, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}
	var out []*types.Competency
	if err := dbc.DB(r.db).Where("title = ?", title).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

// Update writes title and description only; degree belongs to the engine.
func (r *competencyRepo) Update(dbc dbctx.Context, row *types.Competency) error {
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	row.UpdatedAt = time.Now().UTC()
	return dbc.DB(r.db).
		Model(&types.Competency{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"title":       strings.TrimSpace(row.Title),
			"description": row.Description,
			"updated_at":  row.UpdatedAt,
		}).Error
}

func (r *competencyRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.DB(r.db).Where("id = ?", id).Delete(&types.Competency{}).Error
}

func (r *competencyRepo) LowestDegreeIDs(dbc dbctx.Context, n int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if n <= 0 {
		return ids, nil
	}
	if err := dbc.DB(r.db).
		Model(&types.Competency{}).
		Order("degree ASC, created_at ASC").
		Limit(n).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *competencyRepo) RandomIDs(dbc dbctx.Context, n int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if n <= 0 {
		return ids, nil
	}
	if err := dbc.DB(r.db).
		Model(&types.Competency{}).
		Order("RANDOM()").
		Limit(n).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *competencyRepo) Random(dbc dbctx.Context, n int) ([]*types.Competency, error) {
	var out []*types.Competency
	if n <= 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Order("RANDOM()").Limit(n).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *competencyRepo) IncrementDegree(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.Competency{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"degree":     gorm.Expr("degree + 1"),
			"updated_at": time.Now().UTC(),
		}).Error
}

// DecrementDegree never takes a degree below zero.
func (r *competencyRepo) DecrementDegree(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.Competency{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"degree":     gorm.Expr("CASE WHEN degree > 0 THEN degree - 1 ELSE 0 END"),
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *competencyRepo) SumDegree(dbc dbctx.Context) (int64, error) {
	var sum int64
	if err := dbc.DB(r.db).
		Model(&types.Competency{}).
		Select("COALESCE(SUM(degree), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}
