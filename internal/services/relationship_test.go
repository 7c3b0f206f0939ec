package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/memo-backend/internal/data/repos"
	"github.com/yungbote/memo-backend/internal/data/repos/testutil"
	types "github.com/yungbote/memo-backend/internal/domain"
	"github.com/yungbote/memo-backend/internal/events/bus"
	"github.com/yungbote/memo-backend/internal/platform/dbctx"
	"github.com/yungbote/memo-backend/internal/platform/logger"
)

func TestRelationshipServiceDelete(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := repos.New(db, log)

	b := bus.NewInProcBus(logger.Nop(), 4)
	defer b.Close()
	events := make(chan bus.Event, 4)
	if err := b.StartForwarder(ctx, func(ev bus.Event) { events <- ev }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	svc := NewRelationshipService(db, log, r, b)

	nodes := testutil.SeedCompetencies(t, ctx, db, 2)
	rel := testutil.SeedRelationship(t, ctx, db, nodes[0].ID, nodes[1].ID, types.VoteCounts{Extends: 1})
	testutil.SeedVote(t, ctx, db, rel.ID, uuid.New(), types.RelationshipExtends)

	got, err := svc.Get(ctx, rel.ID)
	if err != nil || got.TotalVotes != 1 {
		t.Fatalf("Get: got=%v err=%v", got, err)
	}
	if err := svc.Delete(ctx, rel.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	for _, n := range nodes {
		if d := testutil.Degree(t, ctx, db, n.ID); d != 0 {
			t.Fatalf("degree(%s): want=0 got=%d", n.Title, d)
		}
	}
	if n, _ := r.Vote.CountByRelationship(dbctx.Context{Ctx: ctx}, rel.ID); n != 0 {
		t.Fatalf("ledger rows left: %d", n)
	}
	select {
	case ev := <-events:
		if ev.Kind != bus.KindRelationshipDeleted || ev.RelationshipID != rel.ID {
			t.Fatalf("event: %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no relationship.deleted event")
	}

	_, err = svc.Get(ctx, rel.ID)
	wantStatus(t, err, http.StatusNotFound, "relationship_not_found")
	err = svc.Delete(ctx, rel.ID)
	wantStatus(t, err, http.StatusNotFound, "relationship_not_found")
}
