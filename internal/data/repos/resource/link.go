package resource

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/memo-backend/internal/domain"
	"github.com/yungbote/memo-backend/internal/platform/dbctx"
	"github.com/yungbote/memo-backend/internal/platform/logger"
)

// LinkOwner names the column a link is swept by when its owner is deleted.
type LinkOwner string

const (
	LinkOwnerCompetency LinkOwner = "competency_id"
	LinkOwnerResource   LinkOwner = "resource_id"
	LinkOwnerUser       LinkOwner = "user_id"
)

type ResourceLinkRepo interface {
	Create(dbc dbctx.Context, row *types.CompetencyResourceLink) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CompetencyResourceLink, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
	DeleteBy(dbc dbctx.Context, owner LinkOwner, id uuid.UUID) (int64, error)
}

type resourceLinkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResourceLinkRepo(db *gorm.DB, baseLog *logger.Logger) ResourceLinkRepo {
	return &resourceLinkRepo{db: db, log: baseLog.With("repo", "ResourceLinkRepo")}
}

func (r *resourceLinkRepo) Create(dbc dbctx.Context, row *types.CompetencyResourceLink) error {
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return dbc.DB(r.db).Create(row).Error
}

func (r *resourceLinkRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CompetencyResourceLink, error) {
	var out []*types.CompetencyResourceLink
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *resourceLinkRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.DB(r.db).Where("id = ?", id).Delete(&types.CompetencyResourceLink{}).Error
}

// DeleteBy removes every link owned by id and returns how many went.
func (r *resourceLinkRepo) DeleteBy(dbc dbctx.Context, owner LinkOwner, id uuid.UUID) (int64, error) {
	if id == uuid.Nil {
		return 0, nil
	}
	res := dbc.DB(r.db).Where(string(owner)+" = ?", id).Delete(&types.CompetencyResourceLink{})
	return res.RowsAffected, res.Error
}
