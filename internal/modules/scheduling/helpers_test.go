package scheduling

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/memo-backend/internal/data/repos"
	"github.com/yungbote/memo-backend/internal/data/repos/testutil"
	"github.com/yungbote/memo-backend/internal/domain"
	"github.com/yungbote/memo-backend/internal/events/bus"
	"github.com/yungbote/memo-backend/internal/platform/apierr"
	"github.com/yungbote/memo-backend/internal/platform/dbctx"
)

type fixture struct {
	ctx   context.Context
	db    *gorm.DB
	repos repos.Repos
	uc    Usecases
}

func newFixture(t *testing.T, mutate func(*Config), b bus.Bus) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	r := repos.New(db, log)
	cfg := DefaultConfig()
	cfg.Seed = 42
	if mutate != nil {
		mutate(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}
	uc := New(UsecasesDeps{
		DB:            db,
		Log:           log,
		Competencies:  r.Competency,
		Relationships: r.Relationship,
		Votes:         r.Vote,
		Bus:           b,
		Config:        cfg,
	})
	return &fixture{ctx: context.Background(), db: db, repos: r, uc: uc}
}

func (f *fixture) dbc() dbctx.Context { return dbctx.Context{Ctx: f.ctx} }

func (f *fixture) relationship(t *testing.T, origin, destination uuid.UUID) *domain.CompetencyRelationship {
	t.Helper()
	rel, err := f.repos.Relationship.GetByEndpoints(f.dbc(), origin, destination)
	if err != nil {
		t.Fatalf("GetByEndpoints: %v", err)
	}
	return rel
}

func (f *fixture) votesOn(t *testing.T, relationshipID uuid.UUID) int64 {
	t.Helper()
	n, err := f.repos.Vote.CountByRelationship(f.dbc(), relationshipID)
	if err != nil {
		t.Fatalf("CountByRelationship: %v", err)
	}
	return n
}

func (f *fixture) assertDegreeSum(t *testing.T) {
	t.Helper()
	sum, err := f.repos.Competency.SumDegree(f.dbc())
	if err != nil {
		t.Fatalf("SumDegree: %v", err)
	}
	n, err := f.repos.Relationship.Count(f.dbc())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if sum != 2*n {
		t.Fatalf("degree sum: want=%d got=%d", 2*n, sum)
	}
}

func wantAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("want apierr %d/%s, got %v", status, code, err)
	}
	if ae.Status != status || ae.Code != code {
		t.Fatalf("apierr: want=%d/%s got=%d/%s", status, code, ae.Status, ae.Code)
	}
}

func unordered(a, b uuid.UUID) domain.PairKey {
	if a.String() > b.String() {
		a, b = b, a
	}
	return domain.PairKey{From: a, To: b}
}
