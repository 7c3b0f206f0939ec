package scheduling

import (
	"github.com/google/uuid"

	"github.com/yungbote/memo-backend/internal/domain"
)

type Pipeline string

const (
	PipelineCoverage  Pipeline = "coverage"
	PipelineConsensus Pipeline = "consensus"
)

// Task is a relationship presented to a user for a vote.
type Task struct {
	RelationshipID uuid.UUID                `json:"relationship_id"`
	Pipeline       Pipeline                 `json:"pipeline"`
	Origin         domain.CompetencySummary `json:"origin"`
	Destination    domain.CompetencySummary `json:"destination"`
	CurrentVotes   domain.VoteCounts        `json:"current_votes"`
}

type VoteResult struct {
	Success      bool              `json:"success"`
	UpdatedVotes domain.VoteCounts `json:"updated_votes"`
	NewEntropy   float64           `json:"new_entropy"`
}

type SubmitVoteInput struct {
	UserID           uuid.UUID
	RelationshipID   uuid.UUID
	RelationshipType domain.RelationshipType
}

type RelateInput struct {
	UserID           uuid.UUID
	OriginID         uuid.UUID
	DestinationID    uuid.UUID
	RelationshipType domain.RelationshipType
}

// RelateResult is the relationship after the submitting user's vote landed.
type RelateResult struct {
	Relationship *domain.CompetencyRelationship `json:"relationship"`
	Created      bool                           `json:"created"`
	Vote         VoteResult                     `json:"vote"`
}

// relationship sources, used for metrics and events
const (
	sourceCoverage = "coverage"
	sourceMirror   = "mirror"
	sourceAPI      = "api"
)
