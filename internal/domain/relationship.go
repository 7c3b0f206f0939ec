package domain

import (
	"time"

	"github.com/google/uuid"
)

// CompetencyRelationship is a directed relationship slot between two
// competencies. The vote counters, TotalVotes and Entropy are a cache derived
// from the vote ledger; they are only changed through ApplyVote.
type CompetencyRelationship struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OriginID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_relationship_endpoints,priority:1" json:"origin_id"`
	DestinationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_relationship_endpoints,priority:2;index" json:"destination_id"`

	VoteAssumes   int `gorm:"column:vote_assumes;not null;default:0" json:"vote_assumes"`
	VoteExtends   int `gorm:"column:vote_extends;not null;default:0" json:"vote_extends"`
	VoteMatches   int `gorm:"column:vote_matches;not null;default:0" json:"vote_matches"`
	VoteUnrelated int `gorm:"column:vote_unrelated;not null;default:0" json:"vote_unrelated"`

	TotalVotes int     `gorm:"column:total_votes;not null;default:0;index" json:"total_votes"`
	Entropy    float64 `gorm:"column:entropy;not null;default:0;index" json:"entropy"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (CompetencyRelationship) TableName() string { return "competency_relationships" }

func NewRelationship(originID, destinationID uuid.UUID) *CompetencyRelationship {
	return &CompetencyRelationship{
		ID:            uuid.New(),
		OriginID:      originID,
		DestinationID: destinationID,
	}
}

func (r *CompetencyRelationship) Counts() VoteCounts {
	return VoteCounts{
		Assumes:   r.VoteAssumes,
		Extends:   r.VoteExtends,
		Matches:   r.VoteMatches,
		Unrelated: r.VoteUnrelated,
	}
}

// ApplyVote bumps the counter for t and refreshes TotalVotes and Entropy.
// Unknown types leave the relationship untouched and return false.
func (r *CompetencyRelationship) ApplyVote(t RelationshipType) bool {
	switch t {
	case RelationshipAssumes:
		r.VoteAssumes++
	case RelationshipExtends:
		r.VoteExtends++
	case RelationshipMatches:
		r.VoteMatches++
	case RelationshipUnrelated:
		r.VoteUnrelated++
	default:
		return false
	}
	r.RecalculateEntropy()
	return true
}

func (r *CompetencyRelationship) RecalculateEntropy() {
	counts := r.Counts()
	r.TotalVotes = counts.Total()
	r.Entropy = Entropy(counts)
}

// PairKey identifies an ordered endpoint pair.
type PairKey struct {
	From uuid.UUID
	To   uuid.UUID
}
