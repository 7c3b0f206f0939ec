package domain

import (
	"time"

	"github.com/google/uuid"
)

// Competency is a node of the relationship graph. Titles are unique. Degree counts the
// relationships touching it and is only mutated alongside relationship
// inserts and deletes.
type Competency struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"column:title;not null;uniqueIndex" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Degree      int       `gorm:"column:degree;not null;default:0;index" json:"degree"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Competency) TableName() string { return "competencies" }

// CompetencySummary is the slice of a competency shown alongside a task.
type CompetencySummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

func (c *Competency) Summary() CompetencySummary {
	if c == nil {
		return CompetencySummary{}
	}
	return CompetencySummary{ID: c.ID, Title: c.Title, Description: c.Description}
}
