package competency

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/memo-backend/internal/domain"
	"github.com/yungbote/memo-backend/internal/platform/dbctx"
	"github.com/yungbote/memo-backend/internal/platform/logger"
)

type VoteRepo interface {
	Exists(dbc dbctx.Context, relationshipID, userID uuid.UUID) (bool, error)
	InsertIfAbsent(dbc dbctx.Context, row *types.RelationshipVote) (bool, error)
	CountByRelationship(dbc dbctx.Context, relationshipID uuid.UUID) (int64, error)
	DeleteByRelationshipIDs(dbc dbctx.Context, relationshipIDs []uuid.UUID) error
}

type voteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVoteRepo(db *gorm.DB, baseLog *logger.Logger) VoteRepo {
	return &voteRepo{db: db, log: baseLog.With("repo", "VoteRepo")}
}

func (r *voteRepo) Exists(dbc dbctx.Context, relationshipID, userID uuid.UUID) (bool, error) {
	var n int64
	if err := dbc.DB(r.db).
		Model(&types.RelationshipVote{}).
		Where("relationship_id = ? AND user_id = ?", relationshipID, userID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// InsertIfAbsent appends a ledger row unless (relationship, user) already has one.
// It reports whether this call inserted the row.
func (r *voteRepo) InsertIfAbsent(dbc dbctx.Context, row *types.RelationshipVote) (bool, error) {
	if row == nil || row.RelationshipID == uuid.Nil || row.UserID == uuid.Nil {
		return false, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "relationship_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *voteRepo) CountByRelationship(dbc dbctx.Context, relationshipID uuid.UUID) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).
		Model(&types.RelationshipVote{}).
		Where("relationship_id = ?", relationshipID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *voteRepo) DeleteByRelationshipIDs(dbc dbctx.Context, relationshipIDs []uuid.UUID) error {
	if len(relationshipIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Where("relationship_id IN ?", relationshipIDs).
		Delete(&types.RelationshipVote{}).Error
}
