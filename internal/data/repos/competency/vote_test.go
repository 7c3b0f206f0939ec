package competency

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/memo-backend/internal/data/repos/testutil"
	types "github.com/yungbote/memo-backend/internal/domain"
	"github.com/yungbote/memo-backend/internal/platform/dbctx"
)

func TestVoteRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewVoteRepo(db, testutil.Logger(t))

	nodes := testutil.SeedCompetencies(t, ctx, tx, 2)
	rel := testutil.SeedRelationship(t, ctx, tx, nodes[0].ID, nodes[1].ID, types.VoteCounts{})
	u1, u2 := uuid.New(), uuid.New()

	if ok, err := repo.Exists(dbc, rel.ID, u1); err != nil || ok {
		t.Fatalf("Exists(before): ok=%v err=%v", ok, err)
	}
	if ok, err := repo.InsertIfAbsent(dbc, types.NewVote(rel.ID, u1, types.RelationshipExtends)); err != nil || !ok {
		t.Fatalf("InsertIfAbsent: ok=%v err=%v", ok, err)
	}
	if ok, err := repo.InsertIfAbsent(dbc, types.NewVote(rel.ID, u1, types.RelationshipMatches)); err != nil || ok {
		t.Fatalf("InsertIfAbsent(dup): ok=%v err=%v", ok, err)
	}
	if ok, err := repo.InsertIfAbsent(dbc, types.NewVote(rel.ID, u2, types.RelationshipMatches)); err != nil || !ok {
		t.Fatalf("InsertIfAbsent(other user): ok=%v err=%v", ok, err)
	}
	if ok, err := repo.Exists(dbc, rel.ID, u1); err != nil || !ok {
		t.Fatalf("Exists(after): ok=%v err=%v", ok, err)
	}
	if n, err := repo.CountByRelationship(dbc, rel.ID); err != nil || n != 2 {
		t.Fatalf("CountByRelationship: want=2 got=%d err=%v", n, err)
	}
	if err := repo.DeleteByRelationshipIDs(dbc, []uuid.UUID{rel.ID}); err != nil {
		t.Fatalf("DeleteByRelationshipIDs: %v", err)
	}
	if n, err := repo.CountByRelationship(dbc, rel.ID); err != nil || n != 0 {
		t.Fatalf("CountByRelationship(after delete): want=0 got=%d err=%v", n, err)
	}
}
