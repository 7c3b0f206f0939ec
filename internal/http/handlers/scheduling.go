package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/memo-backend/internal/domain"
	"github.com/yungbote/memo-backend/internal/http/response"
	"github.com/yungbote/memo-backend/internal/modules/scheduling"
	"github.com/yungbote/memo-backend/internal/platform/ctxutil"
)

// TaskAPI is the scheduling surface the handlers need.
type TaskAPI interface {
	GetNextTask(ctx context.Context, userID uuid.UUID) (*scheduling.Task, error)
	SubmitVote(ctx context.Context, in scheduling.SubmitVoteInput) (*scheduling.VoteResult, error)
	Relate(ctx context.Context, in scheduling.RelateInput) (*scheduling.RelateResult, error)
}

type SchedulingHandler struct {
	tasks TaskAPI
}

func NewSchedulingHandler(tasks TaskAPI) *SchedulingHandler {
	return &SchedulingHandler{tasks: tasks}
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, false
	}
	return rd.UserID, true
}

// GET /api/scheduling/next-relationship
func (h *SchedulingHandler) GetNextRelationship(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	task, err := h.tasks.GetNextTask(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err, "next_task_failed")
		return
	}
	if task == nil {
		response.RespondNoContent(c)
		return
	}
	response.RespondOK(c, task)
}

type voteRequest struct {
	RelationshipID   string `json:"relationship_id"`
	RelationshipType string `json:"relationship_type"`
}

// POST /api/scheduling/vote
func (h *SchedulingHandler) SubmitVote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	relID, err := uuid.Parse(req.RelationshipID)
	if err != nil || relID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_relationship_id", err)
		return
	}
	relType, err := domain.ParseRelationshipType(req.RelationshipType)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_relationship_type", err)
		return
	}

	res, err := h.tasks.SubmitVote(c.Request.Context(), scheduling.SubmitVoteInput{
		UserID:           userID,
		RelationshipID:   relID,
		RelationshipType: relType,
	})
	if err != nil {
		respondErr(c, err, "submit_vote_failed")
		return
	}
	response.RespondOK(c, res)
}
