package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/memo-backend/internal/http/response"
	"github.com/yungbote/memo-backend/internal/platform/ctxutil"
)

const headerUserID = "X-User-Id"

// RequireUser resolves the caller from the X-User-Id header. Identity is
// trusted as given; an upstream gateway is expected to authenticate it.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(headerUserID))
		if raw == "" {
			response.RespondError(c, http.StatusUnauthorized, "missing_user_id", fmt.Errorf("%s header is required", headerUserID))
			c.Abort()
			return
		}
		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			response.RespondError(c, http.StatusUnauthorized, "invalid_user_id", fmt.Errorf("%s must be a uuid", headerUserID))
			c.Abort()
			return
		}
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: userID})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
