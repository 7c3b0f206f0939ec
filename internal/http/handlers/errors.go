package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/memo-backend/internal/http/response"
	"github.com/yungbote/memo-backend/internal/platform/apierr"
)

// respondErr maps an *apierr.Error to its status; anything else is a 500 with fallbackCode.
func respondErr(c *gin.Context, err error, fallbackCode string) {
	if ae, ok := apierr.As(err); ok {
		response.RespondError(c, ae.Status, ae.Code, ae.Err)
		return
	}
	_ = c.Error(err)
	response.RespondError(c, http.StatusInternalServerError, fallbackCode, err)
}
