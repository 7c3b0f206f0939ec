package bus

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindRelationshipCreated Kind = "relationship.created"
	KindRelationshipVoted   Kind = "relationship.voted"
	KindRelationshipDeleted Kind = "relationship.deleted"
	KindCompetencyDeleted   Kind = "competency.deleted"
)

// Event describes a committed change to the competency graph.
type Event struct {
	Kind             Kind      `json:"kind"`
	RelationshipID   uuid.UUID `json:"relationship_id"`
	OriginID         uuid.UUID `json:"origin_id"`
	DestinationID    uuid.UUID `json:"destination_id"`
	CompetencyID     uuid.UUID `json:"competency_id"`
	UserID           uuid.UUID `json:"user_id"`
	RelationshipType string    `json:"relationship_type,omitempty"`
	Source           string    `json:"source,omitempty"`
	Mirrored         bool      `json:"mirrored,omitempty"`
	TotalVotes       int       `json:"total_votes,omitempty"`
	Entropy          float64   `json:"entropy,omitempty"`
	At               time.Time `json:"at"`
}

type Bus interface {
	Publish(ctx context.Context, ev Event) error
	StartForwarder(ctx context.Context, onEvent func(ev Event)) error
	Close() error
}
