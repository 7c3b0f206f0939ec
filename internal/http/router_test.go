package http

import (
	"bytes"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/memo-backend/internal/data/repos"
	"github.com/yungbote/memo-backend/internal/data/repos/testutil"
	"github.com/yungbote/memo-backend/internal/domain"
	httpH "github.com/yungbote/memo-backend/internal/http/handlers"
	"github.com/yungbote/memo-backend/internal/http/response"
	"github.com/yungbote/memo-backend/internal/modules/scheduling"
	"github.com/yungbote/memo-backend/internal/services"
)

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	r := repos.New(db, log)

	cfg := scheduling.DefaultConfig()
	cfg.Seed = 7
	uc := scheduling.New(scheduling.UsecasesDeps{
		DB:            db,
		Log:           log,
		Competencies:  r.Competency,
		Relationships: r.Relationship,
		Votes:         r.Vote,
		Config:        cfg,
	})
	engine := NewRouter(RouterConfig{
		Log:                 log,
		MetricsEnabled:      true,
		HealthHandler:       httpH.NewHealthHandler(db),
		SchedulingHandler:   httpH.NewSchedulingHandler(uc),
		CompetencyHandler:   httpH.NewCompetencyHandler(services.NewCompetencyService(db, log, r, nil)),
		RelationshipHandler: httpH.NewRelationshipHandler(services.NewRelationshipService(db, log, r, nil), uc),
		ResourceHandler:     httpH.NewLearningResourceHandler(services.NewLearningResourceService(db, log, r)),
		UserHandler:         httpH.NewUserHandler(services.NewUserService(db, log, r)),
		LinkHandler:         httpH.NewResourceLinkHandler(services.NewResourceLinkService(db, log, r)),
	})
	return &testServer{t: t, db: db, engine: engine}
}

func (s *testServer) do(method, path string, user uuid.UUID, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != uuid.Nil {
		req.Header.Set("X-User-Id", user.String())
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func wantCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status: want=%d got=%d body=%s", status, rec.Code, rec.Body.String())
	}
	if code == "" {
		return
	}
	env := decode[response.ErrorEnvelope](t, rec)
	if env.Error.Code != code {
		t.Fatalf("code: want=%s got=%s", code, env.Error.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	if rec := s.do(nethttp.MethodGet, "/healthcheck", uuid.Nil, nil); rec.Code != nethttp.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: %d %q", rec.Code, rec.Body.String())
	}
	rec := s.do(nethttp.MethodGet, "/metrics", uuid.Nil, nil)
	if rec.Code != nethttp.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte("memo_http_requests_total")) {
		t.Fatalf("metrics: %d", rec.Code)
	}
}

func TestSchedulingRoundTrip(t *testing.T) {
	s := newTestServer(t)
	user := uuid.New()

	wantCode(t, s.do(nethttp.MethodGet, "/api/scheduling/next-relationship", uuid.Nil, nil), nethttp.StatusUnauthorized, "missing_user_id")

	// Nothing to schedule on an empty graph.
	wantCode(t, s.do(nethttp.MethodGet, "/api/scheduling/next-relationship", user, nil), nethttp.StatusNoContent, "")

	for _, title := range []string{"Recursion", "Induction"} {
		wantCode(t, s.do(nethttp.MethodPost, "/api/competencies", uuid.Nil, gin.H{"title": title}), nethttp.StatusCreated, "")
	}

	rec := s.do(nethttp.MethodGet, "/api/scheduling/next-relationship", user, nil)
	wantCode(t, rec, nethttp.StatusOK, "")
	task := decode[scheduling.Task](t, rec)
	if task.RelationshipID == uuid.Nil || task.Pipeline != scheduling.PipelineCoverage {
		t.Fatalf("task: %+v", task)
	}
	if task.Origin.ID == task.Destination.ID {
		t.Fatalf("task endpoints must differ: %+v", task)
	}

	vote := gin.H{"relationship_id": task.RelationshipID.String(), "relationship_type": "assumes"}
	rec = s.do(nethttp.MethodPost, "/api/scheduling/vote", user, vote)
	wantCode(t, rec, nethttp.StatusOK, "")
	res := decode[scheduling.VoteResult](t, rec)
	if !res.Success || res.UpdatedVotes != (domain.VoteCounts{Assumes: 1}) || res.NewEntropy != 0 {
		t.Fatalf("vote: %+v", res)
	}

	// Replaying the vote changes nothing.
	rec = s.do(nethttp.MethodPost, "/api/scheduling/vote", user, vote)
	wantCode(t, rec, nethttp.StatusOK, "")
	if again := decode[scheduling.VoteResult](t, rec); again.UpdatedVotes != res.UpdatedVotes {
		t.Fatalf("replay: %+v", again)
	}

	// The only pair is connected and voted on.
	wantCode(t, s.do(nethttp.MethodGet, "/api/scheduling/next-relationship", user, nil), nethttp.StatusNoContent, "")
}

func TestSubmitVoteValidation(t *testing.T) {
	s := newTestServer(t)
	user := uuid.New()

	cases := []struct {
		name string
		body any
		code string
	}{
		{"bad id", gin.H{"relationship_id": "nope", "relationship_type": "assumes"}, "invalid_relationship_id"},
		{"bad type", gin.H{"relationship_id": uuid.NewString(), "relationship_type": "contradicts"}, "invalid_relationship_type"},
		{"not json", "[", "invalid_request"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wantCode(t, s.do(nethttp.MethodPost, "/api/scheduling/vote", user, tc.body), nethttp.StatusBadRequest, tc.code)
		})
	}

	body := gin.H{"relationship_id": uuid.NewString(), "relationship_type": "matches"}
	wantCode(t, s.do(nethttp.MethodPost, "/api/scheduling/vote", user, body), nethttp.StatusNotFound, "relationship_not_found")
}

func TestCompetencyAndRelationshipRoutes(t *testing.T) {
	s := newTestServer(t)
	user := uuid.New()

	type compEnvelope struct {
		Competency domain.Competency `json:"competency"`
	}
	a := decode[compEnvelope](t, s.do(nethttp.MethodPost, "/api/competencies", uuid.Nil, gin.H{"title": "Closures"})).Competency
	b := decode[compEnvelope](t, s.do(nethttp.MethodPost, "/api/competencies", uuid.Nil, gin.H{"title": "Scope"})).Competency

	wantCode(t, s.do(nethttp.MethodPost, "/api/competencies", uuid.Nil, gin.H{"title": ""}), nethttp.StatusBadRequest, "invalid_title")
	wantCode(t, s.do(nethttp.MethodPost, "/api/competencies", uuid.Nil, gin.H{"title": " Closures"}), nethttp.StatusConflict, "competency_exists")
	wantCode(t, s.do(nethttp.MethodGet, "/api/competencies/"+uuid.NewString(), uuid.Nil, nil), nethttp.StatusNotFound, "competency_not_found")
	wantCode(t, s.do(nethttp.MethodGet, "/api/competencies/xyz", uuid.Nil, nil), nethttp.StatusBadRequest, "invalid_competency_id")
	wantCode(t, s.do(nethttp.MethodGet, "/api/competencies/random?count=-1", uuid.Nil, nil), nethttp.StatusBadRequest, "invalid_count")

	rec := s.do(nethttp.MethodPatch, "/api/competencies/"+a.ID.String(), uuid.Nil, gin.H{"description": "captured environment"})
	wantCode(t, rec, nethttp.StatusOK, "")
	if got := decode[compEnvelope](t, rec).Competency; got.Description != "captured environment" || got.Title != "Closures" {
		t.Fatalf("patch: %+v", got)
	}

	type randomEnvelope struct {
		Competencies []domain.Competency `json:"competencies"`
	}
	if got := decode[randomEnvelope](t, s.do(nethttp.MethodGet, "/api/competencies/random?count=5", uuid.Nil, nil)); len(got.Competencies) != 2 {
		t.Fatalf("random: %+v", got)
	}

	relate := gin.H{"origin_id": a.ID.String(), "destination_id": b.ID.String(), "relationship_type": "matches"}
	wantCode(t, s.do(nethttp.MethodPost, "/api/competency-relationships", uuid.Nil, relate), nethttp.StatusUnauthorized, "missing_user_id")
	rec = s.do(nethttp.MethodPost, "/api/competency-relationships", user, relate)
	wantCode(t, rec, nethttp.StatusCreated, "")
	out := decode[scheduling.RelateResult](t, rec)
	if !out.Created || out.Relationship == nil {
		t.Fatalf("relate: %+v", out)
	}

	self := gin.H{"origin_id": a.ID.String(), "destination_id": a.ID.String(), "relationship_type": "matches"}
	wantCode(t, s.do(nethttp.MethodPost, "/api/competency-relationships", user, self), nethttp.StatusBadRequest, "invalid_operation")

	relPath := "/api/competency-relationships/" + out.Relationship.ID.String()
	wantCode(t, s.do(nethttp.MethodGet, relPath, uuid.Nil, nil), nethttp.StatusOK, "")
	wantCode(t, s.do(nethttp.MethodDelete, relPath, uuid.Nil, nil), nethttp.StatusNoContent, "")
	wantCode(t, s.do(nethttp.MethodGet, relPath, uuid.Nil, nil), nethttp.StatusNotFound, "relationship_not_found")

	wantCode(t, s.do(nethttp.MethodDelete, "/api/competencies/"+b.ID.String(), uuid.Nil, nil), nethttp.StatusNoContent, "")
	wantCode(t, s.do(nethttp.MethodGet, "/api/competencies/"+b.ID.String(), uuid.Nil, nil), nethttp.StatusNotFound, "competency_not_found")

	// Relate still reports missing endpoints after a delete.
	wantCode(t, s.do(nethttp.MethodPost, "/api/competency-relationships", user, relate), nethttp.StatusNotFound, "competency_not_found")
}

func TestResourceUserAndLinkRoutes(t *testing.T) {
	s := newTestServer(t)

	type userEnvelope struct {
		User domain.User `json:"user"`
	}
	rec := s.do(nethttp.MethodPost, "/api/users", uuid.Nil, gin.H{"name": "Barbara", "email": "liskov@example.com"})
	wantCode(t, rec, nethttp.StatusCreated, "")
	u := decode[userEnvelope](t, rec).User
	if u.Role != domain.RoleUser {
		t.Fatalf("user: %+v", u)
	}
	wantCode(t, s.do(nethttp.MethodPost, "/api/users", uuid.Nil, gin.H{"name": "Again", "email": "liskov@example.com"}), nethttp.StatusConflict, "user_exists")
	wantCode(t, s.do(nethttp.MethodGet, "/api/users/by-email?email=liskov@example.com", uuid.Nil, nil), nethttp.StatusOK, "")
	wantCode(t, s.do(nethttp.MethodGet, "/api/users/by-email?email=nobody@example.com", uuid.Nil, nil), nethttp.StatusNotFound, "user_not_found")
	rec = s.do(nethttp.MethodPut, "/api/users/"+u.ID.String(), uuid.Nil, gin.H{"role": "ADMIN"})
	wantCode(t, rec, nethttp.StatusOK, "")
	if got := decode[userEnvelope](t, rec).User; got.Role != domain.RoleAdmin || got.Name != "Barbara" {
		t.Fatalf("update user: %+v", got)
	}

	type resourceEnvelope struct {
		Resource domain.LearningResource `json:"learning_resource"`
	}
	rec = s.do(nethttp.MethodPost, "/api/learning-resources", uuid.Nil, gin.H{"title": "Data Abstraction", "url": "https://example.com/adt"})
	wantCode(t, rec, nethttp.StatusCreated, "")
	res := decode[resourceEnvelope](t, rec).Resource
	wantCode(t, s.do(nethttp.MethodPost, "/api/learning-resources", uuid.Nil, gin.H{"title": "Dup", "url": "https://example.com/adt"}), nethttp.StatusConflict, "resource_exists")
	wantCode(t, s.do(nethttp.MethodGet, "/api/learning-resources/by-url?url=https://example.com/adt", uuid.Nil, nil), nethttp.StatusOK, "")
	wantCode(t, s.do(nethttp.MethodGet, "/api/learning-resources/random?count=0", uuid.Nil, nil), nethttp.StatusBadRequest, "invalid_count")
	type randomResources struct {
		Resources []domain.LearningResource `json:"learning_resources"`
	}
	if got := decode[randomResources](t, s.do(nethttp.MethodGet, "/api/learning-resources/random", uuid.Nil, nil)); len(got.Resources) != 1 {
		t.Fatalf("random resources: %+v", got)
	}
	wantCode(t, s.do(nethttp.MethodPatch, "/api/learning-resources/"+res.ID.String(), uuid.Nil, gin.H{"title": "ADTs"}), nethttp.StatusOK, "")
	wantCode(t, s.do(nethttp.MethodGet, "/api/learning-resources/xyz", uuid.Nil, nil), nethttp.StatusBadRequest, "invalid_resource_id")

	type compEnvelope struct {
		Competency domain.Competency `json:"competency"`
	}
	comp := decode[compEnvelope](t, s.do(nethttp.MethodPost, "/api/competencies", uuid.Nil, gin.H{"title": "Abstraction"})).Competency

	type linkEnvelope struct {
		Link domain.CompetencyResourceLink `json:"link"`
	}
	body := gin.H{"competency_id": comp.ID.String(), "resource_id": res.ID.String(), "match_type": "PERFECT_MATCH"}
	wantCode(t, s.do(nethttp.MethodPost, "/api/competency-resource-links", uuid.Nil, body), nethttp.StatusUnauthorized, "missing_user_id")
	wantCode(t, s.do(nethttp.MethodPost, "/api/competency-resource-links", uuid.New(), body), nethttp.StatusNotFound, "user_not_found")
	rec = s.do(nethttp.MethodPost, "/api/competency-resource-links", u.ID, body)
	wantCode(t, rec, nethttp.StatusCreated, "")
	link := decode[linkEnvelope](t, rec).Link
	if link.UserID != u.ID || link.MatchType != domain.MatchPerfectMatch {
		t.Fatalf("link: %+v", link)
	}
	bad := gin.H{"competency_id": comp.ID.String(), "resource_id": "nope", "match_type": "WEAK"}
	wantCode(t, s.do(nethttp.MethodPost, "/api/competency-resource-links", u.ID, bad), nethttp.StatusBadRequest, "invalid_resource_id")

	linkPath := "/api/competency-resource-links/" + link.ID.String()
	wantCode(t, s.do(nethttp.MethodGet, linkPath, uuid.Nil, nil), nethttp.StatusOK, "")

	// Deleting the resource takes its links along.
	wantCode(t, s.do(nethttp.MethodDelete, "/api/learning-resources/"+res.ID.String(), uuid.Nil, nil), nethttp.StatusNoContent, "")
	wantCode(t, s.do(nethttp.MethodGet, linkPath, uuid.Nil, nil), nethttp.StatusNotFound, "link_not_found")
	wantCode(t, s.do(nethttp.MethodDelete, linkPath, uuid.Nil, nil), nethttp.StatusNotFound, "link_not_found")

	wantCode(t, s.do(nethttp.MethodDelete, "/api/users/"+u.ID.String(), uuid.Nil, nil), nethttp.StatusNoContent, "")
	wantCode(t, s.do(nethttp.MethodGet, "/api/users/"+u.ID.String(), uuid.Nil, nil), nethttp.StatusNotFound, "user_not_found")
}
