package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	types "github.com/yungbote/memo-backend/internal/domain"
	"github.com/yungbote/memo-backend/internal/platform/logger"
	"github.com/yungbote/memo-backend/internal/platform/neo4jdb"
)

func competencyRecords(comps []*types.Competency, now string) []map[string]any {
	out := make([]map[string]any, 0, len(comps))
	for _, c := range comps {
		if c == nil || c.ID == uuid.Nil {
			continue
		}
		out = append(out, map[string]any{
			"id":          c.ID.String(),
			"title":       c.Title,
			"description": c.Description,
			"degree":      int64(c.Degree),
			"synced_at":   now,
		})
	}
	return out
}

func relationshipRecords(rels []*types.CompetencyRelationship, now string) []map[string]any {
	out := make([]map[string]any, 0, len(rels))
	for _, r := range rels {
		if r == nil || r.ID == uuid.Nil || r.OriginID == uuid.Nil || r.DestinationID == uuid.Nil {
			continue
		}
		out = append(out, map[string]any{
			"id":             r.ID.String(),
			"from_id":        r.OriginID.String(),
			"to_id":          r.DestinationID.String(),
			"vote_assumes":   int64(r.VoteAssumes),
			"vote_extends":   int64(r.VoteExtends),
			"vote_matches":   int64(r.VoteMatches),
			"vote_unrelated": int64(r.VoteUnrelated),
			"total_votes":    int64(r.TotalVotes),
			"entropy":        r.Entropy,
			"dominant":       string(dominantType(r.Counts())),
			"synced_at":      now,
		})
	}
	return out
}

// dominantType is the category with the most votes, empty when there are none.
// Ties go to the earlier category.
func dominantType(counts types.VoteCounts) types.RelationshipType {
	best := types.RelationshipType("")
	bestN := 0
	for _, t := range types.RelationshipTypes {
		if n := counts.Get(t); n > bestN {
			best, bestN = t, n
		}
	}
	return best
}

func EnsureCompetencySchema(ctx context.Context, client *neo4jdb.Client, log *logger.Logger) {
	if client == nil || client.Driver == nil {
		return
	}
	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	for _, stmt := range []string{
		`CREATE CONSTRAINT competency_id_unique IF NOT EXISTS FOR (c:Competency) REQUIRE c.id IS UNIQUE`,
		`CREATE INDEX relates_entropy_idx IF NOT EXISTS FOR ()-[r:RELATES]-() ON (r.entropy)`,
	} {
		res, err := session.Run(ctx, stmt, nil)
		if err != nil {
			if log != nil {
				log.Warn("neo4j schema init failed (continuing)", "error", err)
			}
			continue
		}
		_, _ = res.Consume(ctx)
	}
}

// UpsertCompetencyGraph merges competencies and their relationships, replacing
// the vote counters on every RELATES edge it touches.
func UpsertCompetencyGraph(ctx context.Context, client *neo4jdb.Client, comps []*types.Competency, rels []*types.CompetencyRelationship) error {
	if client == nil || client.Driver == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	nodes := competencyRecords(comps, now)
	edges := relationshipRecords(rels, now)
	if len(nodes) == 0 && len(edges) == 0 {
		return nil
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if len(nodes) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $nodes AS n
MERGE (c:Competency {id: n.id})
SET c += n
`, map[string]any{"nodes": nodes})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		if len(edges) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $rels AS r
MATCH (a:Competency {id: r.from_id})
MATCH (b:Competency {id: r.to_id})
MERGE (a)-[e:RELATES {id: r.id}]->(b)
SET e += r
`, map[string]any{"rels": edges})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("neo4j competency graph upsert: %w", err)
	}
	return nil
}

func DeleteRelationship(ctx context.Context, client *neo4jdb.Client, relationshipID uuid.UUID) error {
	if client == nil || client.Driver == nil || relationshipID == uuid.Nil {
		return nil
	}
	return runWrite(ctx, client, `MATCH ()-[e:RELATES {id: $id}]->() DELETE e`, map[string]any{"id": relationshipID.String()})
}

func DeleteCompetency(ctx context.Context, client *neo4jdb.Client, competencyID uuid.UUID) error {
	if client == nil || client.Driver == nil || competencyID == uuid.Nil {
		return nil
	}
	return runWrite(ctx, client, `MATCH (c:Competency {id: $id}) DETACH DELETE c`, map[string]any{"id": competencyID.String()})
}

func runWrite(ctx context.Context, client *neo4jdb.Client, cypher string, params map[string]any) error {
	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	return err
}
