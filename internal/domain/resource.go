package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LearningResource is external material identified by its URL.
type LearningResource struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title string    `gorm:"column:title;not null" json:"title"`
	URL   string    `gorm:"column:url;not null;uniqueIndex" json:"url"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (LearningResource) TableName() string { return "learning_resources" }

// ResourceMatchType grades how well a resource covers a competency.
type ResourceMatchType string

const (
	MatchUnrelated    ResourceMatchType = "UNRELATED"
	MatchWeak         ResourceMatchType = "WEAK"
	MatchGoodFit      ResourceMatchType = "GOOD_FIT"
	MatchPerfectMatch ResourceMatchType = "PERFECT_MATCH"
)

func ParseResourceMatchType(raw string) (ResourceMatchType, error) {
	t := ResourceMatchType(strings.ToUpper(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown match type %q", raw)
	}
	return t, nil
}

func (t ResourceMatchType) Valid() bool {
	switch t {
	case MatchUnrelated, MatchWeak, MatchGoodFit, MatchPerfectMatch:
		return true
	default:
		return false
	}
}

// CompetencyResourceLink records one user's judgement of a resource against a
// competency. Links go away with their competency, resource or user.
type CompetencyResourceLink struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	CompetencyID uuid.UUID         `gorm:"type:uuid;not null;index" json:"competency_id"`
	ResourceID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"resource_id"`
	UserID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	MatchType    ResourceMatchType `gorm:"column:match_type;type:varchar(20);not null" json:"match_type"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (CompetencyResourceLink) TableName() string { return "competency_resource_links" }
