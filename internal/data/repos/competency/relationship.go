package competency

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/memo-backend/internal/domain"
	"github.com/yungbote/memo-backend/internal/platform/dbctx"
	"github.com/yungbote/memo-backend/internal/platform/logger"
)

// HighEntropyQuery bounds the consensus candidate search.
type HighEntropyQuery struct {
	UserID     uuid.UUID
	MinVotes   int
	MaxVotes   int
	MinEntropy float64
	Limit      int
}

type RelationshipRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CompetencyRelationship, error)
	GetByIDForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.CompetencyRelationship, error)
	GetByEndpoints(dbc dbctx.Context, originID, destinationID uuid.UUID) (*types.CompetencyRelationship, error)
	GetByEndpointsForUpdate(dbc dbctx.Context, originID, destinationID uuid.UUID) (*types.CompetencyRelationship, error)

	ListWithinPool(dbc dbctx.Context, ids []uuid.UUID) ([]*types.CompetencyRelationship, error)
	ListTouching(dbc dbctx.Context, ids []uuid.UUID) ([]*types.CompetencyRelationship, error)
	ListHighEntropyUnvotedByUser(dbc dbctx.Context, q HighEntropyQuery) ([]*types.CompetencyRelationship, error)
	FirstUnvotedByUser(dbc dbctx.Context, userID uuid.UUID) (*types.CompetencyRelationship, error)
	Count(dbc dbctx.Context) (int64, error)

	CreateIfAbsent(dbc dbctx.Context, row *types.CompetencyRelationship) (bool, error)
	Save(dbc dbctx.Context, row *types.CompetencyRelationship) error
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type relationshipRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRelationshipRepo(db *gorm.DB, baseLog *logger.Logger) RelationshipRepo {
	return &relationshipRepo{db: db, log: baseLog.With("repo", "RelationshipRepo")}
}

const unvotedByUser = "NOT EXISTS (SELECT 1 FROM competency_relationship_votes v " +
	"WHERE v.relationship_id = competency_relationships.id AND v.user_id = ?)"

func (r *relationshipRepo) first(t *gorm.DB) (*types.CompetencyRelationship, error) {
	var out []*types.CompetencyRelationship
	if err := t.Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *relationshipRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CompetencyRelationship, error) {
	return r.first(dbc.DB(r.db).Where("id = ?", id))
}

// GetByIDForUpdate locks the row until the surrounding transaction ends.
func (r *relationshipRepo) GetByIDForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.CompetencyRelationship, error) {
	return r.first(dbc.DB(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

func (r *relationshipRepo) GetByEndpoints(dbc dbctx.Context, originID, destinationID uuid.UUID) (*types.CompetencyRelationship, error) {
	return r.first(dbc.DB(r.db).Where("origin_id = ? AND destination_id = ?", originID, destinationID))
}

func (r *relationshipRepo) GetByEndpointsForUpdate(dbc dbctx.Context, originID, destinationID uuid.UUID) (*types.CompetencyRelationship, error) {
	return r.first(dbc.DB(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("origin_id = ? AND destination_id = ?", originID, destinationID))
}

func (r *relationshipRepo) ListWithinPool(dbc dbctx.Context, ids []uuid.UUID) ([]*types.CompetencyRelationship, error) {
	var out []*types.CompetencyRelationship
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("origin_id IN ? AND destination_id IN ?", ids, ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *relationshipRepo) ListTouching(dbc dbctx.Context, ids []uuid.UUID) ([]*types.CompetencyRelationship, error) {
	var out []*types.CompetencyRelationship
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("origin_id IN ? OR destination_id IN ?", ids, ids).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *relationshipRepo) ListHighEntropyUnvotedByUser(dbc dbctx.Context, q HighEntropyQuery) ([]*types.CompetencyRelationship, error) {
	var out []*types.CompetencyRelationship
	if q.Limit <= 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("total_votes >= ? AND total_votes <= ?", q.MinVotes, q.MaxVotes).
		Where("entropy > ?", q.MinEntropy).
		Where(unvotedByUser, q.UserID).
		Order("entropy DESC, total_votes ASC").
		Limit(q.Limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *relationshipRepo) FirstUnvotedByUser(dbc dbctx.Context, userID uuid.UUID) (*types.CompetencyRelationship, error) {
	return r.first(dbc.DB(r.db).
		Where(unvotedByUser, userID).
		Order("total_votes ASC, created_at ASC"))
}

func (r *relationshipRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&types.CompetencyRelationship{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// CreateIfAbsent inserts row unless the ordered endpoint pair already exists.
// It reports whether this call inserted the row.
func (r *relationshipRepo) CreateIfAbsent(dbc dbctx.Context, row *types.CompetencyRelationship) (bool, error) {
	if row == nil || row.OriginID == uuid.Nil || row.DestinationID == uuid.Nil {
		return false, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.RecalculateEntropy()
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "origin_id"}, {Name: "destination_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Save persists the vote counters and derived fields of an existing row.
func (r *relationshipRepo) Save(dbc dbctx.Context, row *types.CompetencyRelationship) error {
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	row.RecalculateEntropy()
	row.UpdatedAt = time.Now().UTC()
	return dbc.DB(r.db).
		Model(&types.CompetencyRelationship{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"vote_assumes":   row.VoteAssumes,
			"vote_extends":   row.VoteExtends,
			"vote_matches":   row.VoteMatches,
			"vote_unrelated": row.VoteUnrelated,
			"total_votes":    row.TotalVotes,
			"entropy":        row.Entropy,
			"updated_at":     row.UpdatedAt,
		}).Error
}

func (r *relationshipRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("id IN ?", ids).Delete(&types.CompetencyRelationship{}).Error
}
