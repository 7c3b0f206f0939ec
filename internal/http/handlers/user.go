package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/memo-backend/internal/http/response"
	"github.com/yungbote/memo-backend/internal/services"
)

type UserHandler struct {
	users services.UserService
}

func NewUserHandler(users services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req services.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err, "create_user_failed")
		return
	}
	response.RespondCreated(c, gin.H{"user": row})
}

// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "invalid_user_id")
	if !ok {
		return
	}
	row, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err, "load_user_failed")
		return
	}
	response.RespondOK(c, gin.H{"user": row})
}

// GET /api/users/by-email?email=...
func (h *UserHandler) GetByEmail(c *gin.Context) {
	row, err := h.users.GetByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		respondErr(c, err, "load_user_failed")
		return
	}
	response.RespondOK(c, gin.H{"user": row})
}

// PUT|PATCH /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "invalid_user_id")
	if !ok {
		return
	}
	var req services.UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := h.users.Update(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err, "update_user_failed")
		return
	}
	response.RespondOK(c, gin.H{"user": row})
}

// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "invalid_user_id")
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err, "delete_user_failed")
		return
	}
	response.RespondNoContent(c)
}
