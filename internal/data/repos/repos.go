package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/memo-backend/internal/data/repos/competency"
	"github.com/yungbote/memo-backend/internal/data/repos/resource"
	"github.com/yungbote/memo-backend/internal/data/repos/user"
	"github.com/yungbote/memo-backend/internal/platform/logger"
)

type CompetencyRepo = competency.CompetencyRepo
type RelationshipRepo = competency.RelationshipRepo
type VoteRepo = competency.VoteRepo
type HighEntropyQuery = competency.HighEntropyQuery
type LearningResourceRepo = resource.LearningResourceRepo
type ResourceLinkRepo = resource.ResourceLinkRepo
type UserRepo = user.UserRepo

// Repos is the graph store (competencies, their relationships and the vote
// ledger) plus the catalog records that hang off it.
type Repos struct {
	Competency   CompetencyRepo
	Relationship RelationshipRepo
	Vote         VoteRepo

	Resource     LearningResourceRepo
	ResourceLink ResourceLinkRepo
	User         UserRepo
}

func New(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Competency:   competency.NewCompetencyRepo(db, log),
		Relationship: competency.NewRelationshipRepo(db, log),
		Vote:         competency.NewVoteRepo(db, log),

		Resource:     resource.NewLearningResourceRepo(db, log),
		ResourceLink: resource.NewResourceLinkRepo(db, log),
		User:         user.NewUserRepo(db, log),
	}
}
