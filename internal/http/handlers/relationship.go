package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/memo-backend/internal/domain"
	"github.com/yungbote/memo-backend/internal/http/response"
	"github.com/yungbote/memo-backend/internal/modules/scheduling"
)

type RelationshipStore interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.CompetencyRelationship, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type RelationshipHandler struct {
	rels  RelationshipStore
	tasks TaskAPI
}

func NewRelationshipHandler(rels RelationshipStore, tasks TaskAPI) *RelationshipHandler {
	return &RelationshipHandler{rels: rels, tasks: tasks}
}

type relateRequest struct {
	OriginID         string `json:"origin_id"`
	DestinationID    string `json:"destination_id"`
	RelationshipType string `json:"relationship_type"`
}

// POST /api/competency-relationships
func (h *RelationshipHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req relateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	originID, err := uuid.Parse(req.OriginID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_origin_id", err)
		return
	}
	destinationID, err := uuid.Parse(req.DestinationID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_destination_id", err)
		return
	}
	relType, err := domain.ParseRelationshipType(req.RelationshipType)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_relationship_type", err)
		return
	}

	out, err := h.tasks.Relate(c.Request.Context(), scheduling.RelateInput{
		UserID:           userID,
		OriginID:         originID,
		DestinationID:    destinationID,
		RelationshipType: relType,
	})
	if err != nil {
		respondErr(c, err, "create_relationship_failed")
		return
	}
	if out.Created {
		response.RespondCreated(c, out)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/competency-relationships/:id
func (h *RelationshipHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "invalid_relationship_id")
	if !ok {
		return
	}
	rel, err := h.rels.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err, "load_relationship_failed")
		return
	}
	response.RespondOK(c, gin.H{"relationship": rel})
}

// DELETE /api/competency-relationships/:id
func (h *RelationshipHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "invalid_relationship_id")
	if !ok {
		return
	}
	if err := h.rels.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err, "delete_relationship_failed")
		return
	}
	response.RespondNoContent(c)
}
