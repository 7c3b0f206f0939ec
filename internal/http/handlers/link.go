package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/memo-backend/internal/http/response"
	"github.com/yungbote/memo-backend/internal/services"
)

type ResourceLinkHandler struct {
	links services.ResourceLinkService
}

func NewResourceLinkHandler(links services.ResourceLinkService) *ResourceLinkHandler {
	return &ResourceLinkHandler{links: links}
}

type linkRequest struct {
	CompetencyID string `json:"competency_id"`
	ResourceID   string `json:"resource_id"`
	MatchType    string `json:"match_type"`
}

// POST /api/competency-resource-links
// The link is recorded for the calling user.
func (h *ResourceLinkHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	competencyID, err := uuid.Parse(req.CompetencyID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_competency_id", err)
		return
	}
	resourceID, err := uuid.Parse(req.ResourceID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_resource_id", err)
		return
	}
	row, err := h.links.Create(c.Request.Context(), services.CreateResourceLinkInput{
		CompetencyID: competencyID,
		ResourceID:   resourceID,
		UserID:       userID,
		MatchType:    req.MatchType,
	})
	if err != nil {
		respondErr(c, err, "create_link_failed")
		return
	}
	response.RespondCreated(c, gin.H{"link": row})
}

// GET /api/competency-resource-links/:id
func (h *ResourceLinkHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "invalid_link_id")
	if !ok {
		return
	}
	row, err := h.links.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err, "load_link_failed")
		return
	}
	response.RespondOK(c, gin.H{"link": row})
}

// DELETE /api/competency-resource-links/:id
func (h *ResourceLinkHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "invalid_link_id")
	if !ok {
		return
	}
	if err := h.links.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err, "delete_link_failed")
		return
	}
	response.RespondNoContent(c)
}
