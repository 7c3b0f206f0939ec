package scheduling

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/yungbote/memo-backend/internal/domain"
	"github.com/yungbote/memo-backend/internal/observability"
	"github.com/yungbote/memo-backend/internal/platform/apierr"
	"github.com/yungbote/memo-backend/internal/platform/dbctx"
)

// GetNextTask chooses the next relationship for userID to vote on. A nil task
// with a nil error means there is nothing left to do.
func (u Usecases) GetNextTask(ctx context.Context, userID uuid.UUID) (*Task, error) {
	ctx, span := observability.Tracer().Start(ctx, "scheduling.GetNextTask")
	defer span.End()

	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}

	var (
		task *Task
		ob   outbox
	)
	err := u.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		rel, pipeline, err := u.selectRelationship(inner, &ob, userID)
		if err != nil {
			return err
		}
		if rel == nil {
			return nil
		}
		task, err = u.toTask(inner, rel, pipeline)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		observability.TasksTotal.WithLabelValues("none", "error").Inc()
		return nil, err
	}
	u.flush(ctx, &ob)

	if task == nil {
		span.SetAttributes(attribute.String("scheduling.pipeline", "none"))
		observability.TasksTotal.WithLabelValues("none", "empty").Inc()
		u.log.Debug("no task available", "user_id", userID)
		return nil, nil
	}
	span.SetAttributes(
		attribute.String("scheduling.pipeline", string(task.Pipeline)),
		attribute.String("scheduling.relationship_id", task.RelationshipID.String()),
	)
	observability.TasksTotal.WithLabelValues(string(task.Pipeline), "served").Inc()
	return task, nil
}

func (u Usecases) selectRelationship(dbc dbctx.Context, ob *outbox, userID uuid.UUID) (*domain.CompetencyRelationship, Pipeline, error) {
	if u.rng.Float64() >= u.cfg.CoverageWeight {
		rel, err := u.consensus(dbc, userID)
		if err != nil {
			return nil, "", err
		}
		if rel != nil {
			return rel, PipelineConsensus, nil
		}
	}
	rel, err := u.coverage(dbc, ob, userID)
	if err != nil {
		return nil, "", err
	}
	return rel, PipelineCoverage, nil
}

func (u Usecases) toTask(dbc dbctx.Context, rel *domain.CompetencyRelationship, pipeline Pipeline) (*Task, error) {
	rows, err := u.deps.Competencies.GetByIDs(dbc, []uuid.UUID{rel.OriginID, rel.DestinationID})
	if err != nil {
		return nil, fmt.Errorf("load task competencies: %w", err)
	}
	byID := make(map[uuid.UUID]*domain.Competency, len(rows))
	for _, c := range rows {
		byID[c.ID] = c
	}
	origin, ok := byID[rel.OriginID]
	if !ok {
		return nil, apierr.NotFound("competency_not_found", "competency %s not found", rel.OriginID)
	}
	destination, ok := byID[rel.DestinationID]
	if !ok {
		return nil, apierr.NotFound("competency_not_found", "competency %s not found", rel.DestinationID)
	}
	return &Task{
		RelationshipID: rel.ID,
		Pipeline:       pipeline,
		Origin:         origin.Summary(),
		Destination:    destination.Summary(),
		CurrentVotes:   rel.Counts(),
	}, nil
}
