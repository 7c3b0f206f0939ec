package domain

import (
	"time"

	"github.com/google/uuid"
)

// RelationshipVote is one ledger row. At most one row exists per
// (relationship, user); rows are never updated.
type RelationshipVote struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	RelationshipID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_vote_relationship_user,priority:1" json:"relationship_id"`
	UserID           uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_vote_relationship_user,priority:2;index" json:"user_id"`
	RelationshipType RelationshipType `gorm:"column:relationship_type;type:varchar(16);not null" json:"relationship_type"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (RelationshipVote) TableName() string { return "competency_relationship_votes" }

func NewVote(relationshipID, userID uuid.UUID, t RelationshipType) *RelationshipVote {
	return &RelationshipVote{
		ID:               uuid.New(),
		RelationshipID:   relationshipID,
		UserID:           userID,
		RelationshipType: t,
	}
}
