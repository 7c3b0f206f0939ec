package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/memo-backend/internal/domain"
)

func SeedCompetency(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *types.Competency {
	tb.Helper()
	c := &types.Competency{
		ID:          uuid.New(),
		Title:       title,
		Description: "about " + title,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed competency: %v", err)
	}
	return c
}

func SeedCompetencies(tb testing.TB, ctx context.Context, tx *gorm.DB, n int) []*types.Competency {
	tb.Helper()
	out := make([]*types.Competency, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, SeedCompetency(tb, ctx, tx, fmt.Sprintf("competency-%02d", i)))
	}
	return out
}

// SeedRelationship inserts origin→destination with the given counters and
// bumps both endpoint degrees, the way the engine would.
func SeedRelationship(tb testing.TB, ctx context.Context, tx *gorm.DB, origin, destination uuid.UUID, counts types.VoteCounts) *types.CompetencyRelationship {
	tb.Helper()
	rel := types.NewRelationship(origin, destination)
	rel.VoteAssumes = counts.Assumes
	rel.VoteExtends = counts.Extends
	rel.VoteMatches = counts.Matches
	rel.VoteUnrelated = counts.Unrelated
	rel.RecalculateEntropy()
	if err := tx.WithContext(ctx).Create(rel).Error; err != nil {
		tb.Fatalf("seed relationship: %v", err)
	}
	if err := tx.WithContext(ctx).
		Model(&types.Competency{}).
		Where("id IN ?", []uuid.UUID{origin, destination}).
		Update("degree", gorm.Expr("degree + 1")).Error; err != nil {
		tb.Fatalf("seed relationship degree: %v", err)
	}
	return rel
}

func SeedVote(tb testing.TB, ctx context.Context, tx *gorm.DB, relationshipID, userID uuid.UUID, t types.RelationshipType) *types.RelationshipVote {
	tb.Helper()
	v := types.NewVote(relationshipID, userID, t)
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed vote: %v", err)
	}
	return v
}

func Degree(tb testing.TB, ctx context.Context, tx *gorm.DB, id uuid.UUID) int {
	tb.Helper()
	var c types.Competency
	if err := tx.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		tb.Fatalf("load competency %s: %v", id, err)
	}
	return c.Degree
}

func PtrUUID(id uuid.UUID) *uuid.UUID { return &id }

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{ID: uuid.New(), Name: "user " + email, Email: email, Role: types.RoleUser}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedResource(tb testing.TB, ctx context.Context, tx *gorm.DB, url string) *types.LearningResource {
	tb.Helper()
	r := &types.LearningResource{ID: uuid.New(), Title: "resource " + url, URL: url}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed resource: %v", err)
	}
	return r
}
