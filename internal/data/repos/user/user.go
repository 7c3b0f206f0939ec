package user

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

type UserRepo interface {
	CreateIfAbsent(dbc dbctx.Context, row *types.User) (bool, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
	Update(dbc dbctx.Context, row *types.User) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

// CreateIfAbsent inserts row unless its email is taken and reports whether
// this call inserted it.
func (r *userRepo) CreateIfAbsent(dbc dbctx.Context, row *types.User) (bool, error) {
	if row == nil {
		return false, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.Role == "" {
		row.Role = types.RoleUser
	}
	row.Email = strings.TrimSpace(row.Email)
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *userRepo) first(t *gorm.DB) (*types.User, error) {
	var out []*types.User
	if err := t.Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *userRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	return r.first(dbc.DB(r.db).Where("id = ?", id))
}

func (r *userRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}
	return r.first(dbc.DB(r.db).Where("email = ?", email))
}

func (r *userRepo) Update(dbc dbctx.Context, row *types.User) error {
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	row.UpdatedAt = time.Now().UTC()
	return dbc.DB(r.db).
		Model(&types.User{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"name":       row.Name,
			"email":      strings.TrimSpace(row.Email),
			"role":       row.Role,
			"updated_at": row.UpdatedAt,
		}).Error
}

func (r *userRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.DB(r.db).Where("id = ?", id).Delete(&types.User{}).Error
}
