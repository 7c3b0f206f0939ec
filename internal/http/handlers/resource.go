package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/memo-backend/internal/http/response"
	"github.com/yungbote/memo-backend/internal/services"
)

type LearningResourceHandler struct {
	resources services.LearningResourceService
}

func NewLearningResourceHandler(resources services.LearningResourceService) *LearningResourceHandler {
	return &LearningResourceHandler{resources: resources}
}

// POST /api/learning-resources
func (h *LearningResourceHandler) Create(c *gin.Context) {
	var req services.CreateLearningResourceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := h.resources.Create(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err, "create_resource_failed")
		return
	}
	response.RespondCreated(c, gin.H{"learning_resource": row})
}

// GET /api/learning-resources/:id
func (h *LearningResourceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "invalid_resource_id")
	if !ok {
		return
	}
	row, err := h.resources.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err, "load_resource_failed")
		return
	}
	response.RespondOK(c, gin.H{"learning_resource": row})
}

// GET /api/learning-resources/by-url?url=...
func (h *LearningResourceHandler) GetByURL(c *gin.Context) {
	row, err := h.resources.GetByURL(c.Request.Context(), c.Query("url"))
	if err != nil {
		respondErr(c, err, "load_resource_failed")
		return
	}
	response.RespondOK(c, gin.H{"learning_resource": row})
}

// GET /api/learning-resources/random?count=N
func (h *LearningResourceHandler) Random(c *gin.Context) {
	count, ok := queryCount(c)
	if !ok {
		return
	}
	rows, err := h.resources.Random(c.Request.Context(), count)
	if err != nil {
		respondErr(c, err, "random_resources_failed")
		return
	}
	response.RespondOK(c, gin.H{"learning_resources": rows})
}

// PUT|PATCH /api/learning-resources/:id
func (h *LearningResourceHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "invalid_resource_id")
	if !ok {
		return
	}
	var req services.UpdateLearningResourceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := h.resources.Update(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err, "update_resource_failed")
		return
	}
	response.RespondOK(c, gin.H{"learning_resource": row})
}

// DELETE /api/learning-resources/:id
func (h *LearningResourceHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "invalid_resource_id")
	if !ok {
		return
	}
	if err := h.resources.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err, "delete_resource_failed")
		return
	}
	response.RespondNoContent(c)
}
