package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/memo-backend/internal/http/response"
	"github.com/yungbote/memo-backend/internal/services"
)

type CompetencyHandler struct {
	comps services.CompetencyService
}

func NewCompetencyHandler(comps services.CompetencyService) *CompetencyHandler {
	return &CompetencyHandler{comps: comps}
}

// POST /api/competencies
func (h *CompetencyHandler) Create(c *gin.Context) {
	var req services.CreateCompetencyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := h.comps.Create(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err, "create_competency_failed")
		return
	}
	response.RespondCreated(c, gin.H{"competency": row})
}

// GET /api/competencies/random?count=N
func (h *CompetencyHandler) Random(c *gin.Context) {
	count, ok := queryCount(c)
	if !ok {
		return
	}
	rows, err := h.comps.Random(c.Request.Context(), count)
	if err != nil {
		respondErr(c, err, "random_competencies_failed")
		return
	}
	response.RespondOK(c, gin.H{"competencies": rows})
}

// pathID parses the :id segment, answering 400 with code when it is not a uuid.
func pathID(c *gin.Context, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, code, err)
		return uuid.Nil, false
	}
	return id, true
}

func competencyID(c *gin.Context) (uuid.UUID, bool) { return pathID(c, "invalid_competency_id") }

func queryCount(c *gin.Context) (int, bool) {
	raw := c.Query("count")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_count", err)
		return 0, false
	}
	return n, true
}

// GET /api/competencies/:id
func (h *CompetencyHandler) Get(c *gin.Context) {
	id, ok := competencyID(c)
	if !ok {
		return
	}
	row, err := h.comps.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err, "load_competency_failed")
		return
	}
	response.RespondOK(c, gin.H{"competency": row})
}

// PATCH /api/competencies/:id
func (h *CompetencyHandler) Update(c *gin.Context) {
	id, ok := competencyID(c)
	if !ok {
		return
	}
	var req services.UpdateCompetencyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := h.comps.Update(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err, "update_competency_failed")
		return
	}
	response.RespondOK(c, gin.H{"competency": row})
}

// DELETE /api/competencies/:id
func (h *CompetencyHandler) Delete(c *gin.Context) {
	id, ok := competencyID(c)
	if !ok {
		return
	}
	if err := h.comps.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err, "delete_competency_failed")
		return
	}
	response.RespondNoContent(c)
}
