package scheduling

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/memo-backend/internal/data/repos/testutil"
	"github.com/yungbote/memo-backend/internal/domain"
)

func TestGetNextTaskGrowsCompleteGraph(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.CoverageWeight = 1 }, nil)
	nodes := testutil.SeedCompetencies(t, f.ctx, f.db, 20)
	user := uuid.New()

	seen := map[domain.PairKey]uuid.UUID{}
	for i := 0; i < 190; i++ {
		task, err := f.uc.GetNextTask(f.ctx, user)
		if err != nil {
			t.Fatalf("GetNextTask #%d: %v", i, err)
		}
		if task == nil {
			t.Fatalf("GetNextTask #%d: want task, got none", i)
		}
		if task.Pipeline != PipelineCoverage {
			t.Fatalf("GetNextTask #%d: want=coverage got=%s", i, task.Pipeline)
		}
		if task.CurrentVotes.Total() != 0 {
			t.Fatalf("GetNextTask #%d: new relationship has votes %+v", i, task.CurrentVotes)
		}
		if task.Origin.ID == task.Destination.ID {
			t.Fatalf("GetNextTask #%d: self pair %s", i, task.Origin.ID)
		}
		key := unordered(task.Origin.ID, task.Destination.ID)
		if prev, dup := seen[key]; dup {
			t.Fatalf("GetNextTask #%d: pair already connected by %s", i, prev)
		}
		seen[key] = task.RelationshipID
	}

	if n, err := f.repos.Relationship.Count(f.dbc()); err != nil || n != 190 {
		t.Fatalf("relationships: want=190 got=%d err=%v", n, err)
	}
	for _, c := range nodes {
		if d := testutil.Degree(t, f.ctx, f.db, c.ID); d != 19 {
			t.Fatalf("degree(%s): want=19 got=%d", c.Title, d)
		}
	}
	f.assertDegreeSum(t)

	// saturated pool: falls back to an unvoted relationship
	task, err := f.uc.GetNextTask(f.ctx, user)
	if err != nil || task == nil {
		t.Fatalf("GetNextTask(saturated): task=%v err=%v", task, err)
	}
	if _, ok := seen[unordered(task.Origin.ID, task.Destination.ID)]; !ok {
		t.Fatalf("GetNextTask(saturated): returned an unknown pair")
	}
	if n, _ := f.repos.Relationship.Count(f.dbc()); n != 190 {
		t.Fatalf("saturated pool created a relationship: count=%d", n)
	}

	for _, relID := range seen {
		if _, err := f.uc.SubmitVote(f.ctx, SubmitVoteInput{UserID: user, RelationshipID: relID, RelationshipType: domain.RelationshipAssumes}); err != nil {
			t.Fatalf("SubmitVote: %v", err)
		}
	}
	task, err = f.uc.GetNextTask(f.ctx, user)
	if err != nil || task != nil {
		t.Fatalf("GetNextTask(all voted): want none, got task=%v err=%v", task, err)
	}

	// another user still has work
	task, err = f.uc.GetNextTask(f.ctx, uuid.New())
	if err != nil || task == nil {
		t.Fatalf("GetNextTask(other user): task=%v err=%v", task, err)
	}
}

func TestGetNextTaskNeedsTwoCompetencies(t *testing.T) {
	f := newFixture(t, nil, nil)
	user := uuid.New()

	if task, err := f.uc.GetNextTask(f.ctx, user); err != nil || task != nil {
		t.Fatalf("empty graph: task=%v err=%v", task, err)
	}
	testutil.SeedCompetency(t, f.ctx, f.db, "lonely")
	if task, err := f.uc.GetNextTask(f.ctx, user); err != nil || task != nil {
		t.Fatalf("single competency: task=%v err=%v", task, err)
	}
}

func TestGetNextTaskPrefersLowDegree(t *testing.T) {
	f := newFixture(t, func(c *Config) {
		c.CoverageWeight = 1
		c.PoolSize = 2
	}, nil)
	nodes := testutil.SeedCompetencies(t, f.ctx, f.db, 5)
	hub := nodes[0].ID
	for _, n := range nodes[1:3] {
		testutil.SeedRelationship(t, f.ctx, f.db, hub, n.ID, domain.VoteCounts{})
	}
	// degrees: hub=2, n1=1, n2=1, n3=0, n4=0

	task, err := f.uc.GetNextTask(f.ctx, uuid.New())
	if err != nil || task == nil {
		t.Fatalf("GetNextTask: task=%v err=%v", task, err)
	}
	got := unordered(task.Origin.ID, task.Destination.ID)
	if got != unordered(nodes[3].ID, nodes[4].ID) {
		t.Fatalf("GetNextTask: want the two degree-0 competencies, got %s/%s", task.Origin.Title, task.Destination.Title)
	}
}

func TestGetNextTaskConsensusFirst(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.CoverageWeight = 0 }, nil)
	nodes := testutil.SeedCompetencies(t, f.ctx, f.db, 4)
	user := uuid.New()

	hot := testutil.SeedRelationship(t, f.ctx, f.db, nodes[0].ID, nodes[1].ID, domain.VoteCounts{Assumes: 2, Extends: 2, Matches: 2})
	testutil.SeedRelationship(t, f.ctx, f.db, nodes[2].ID, nodes[3].ID, domain.VoteCounts{Assumes: 6})

	task, err := f.uc.GetNextTask(f.ctx, user)
	if err != nil || task == nil {
		t.Fatalf("GetNextTask: task=%v err=%v", task, err)
	}
	if task.Pipeline != PipelineConsensus || task.RelationshipID != hot.ID {
		t.Fatalf("GetNextTask: want consensus/%s got %s/%s", hot.ID, task.Pipeline, task.RelationshipID)
	}
	if task.CurrentVotes != hot.Counts() {
		t.Fatalf("CurrentVotes: want=%+v got=%+v", hot.Counts(), task.CurrentVotes)
	}

	if _, err := f.uc.SubmitVote(f.ctx, SubmitVoteInput{UserID: user, RelationshipID: hot.ID, RelationshipType: domain.RelationshipExtends}); err != nil {
		t.Fatalf("SubmitVote: %v", err)
	}
	task, err = f.uc.GetNextTask(f.ctx, user)
	if err != nil || task == nil {
		t.Fatalf("GetNextTask(after vote): task=%v err=%v", task, err)
	}
	if task.Pipeline != PipelineCoverage {
		t.Fatalf("GetNextTask(after vote): want coverage fallback, got %s", task.Pipeline)
	}
	if task.RelationshipID == hot.ID {
		t.Fatalf("GetNextTask(after vote): re-served a voted relationship")
	}
}

func TestGetNextTaskMissingCompetency(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.CoverageWeight = 0 }, nil)
	orphan := domain.NewRelationship(uuid.New(), uuid.New())
	orphan.VoteAssumes, orphan.VoteExtends, orphan.VoteMatches = 2, 2, 2
	orphan.RecalculateEntropy()
	if err := f.db.Create(orphan).Error; err != nil {
		t.Fatalf("seed orphan: %v", err)
	}
	_, err := f.uc.GetNextTask(f.ctx, uuid.New())
	wantAPIError(t, err, http.StatusNotFound, "competency_not_found")
}

func TestGetNextTaskRequiresUser(t *testing.T) {
	f := newFixture(t, nil, nil)
	_, err := f.uc.GetNextTask(f.ctx, uuid.Nil)
	wantAPIError(t, err, http.StatusUnauthorized, "unauthorized")
}
