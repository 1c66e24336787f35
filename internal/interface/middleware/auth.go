package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/teamhm/matrimony-backend/pkg/helpers"
	"github.com/teamhm/matrimony-backend/pkg/response"
)

const (
	ctxUserID  = "userID"
	ctxIsAdmin = "isAdmin"
)

// Auth validates the Bearer access token and sets userID and isAdmin in the
// Gin context on success.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxIsAdmin, claims.IsAdmin)
		c.Next()
	}
}

// AdminOnly requires a token carrying the admin claim. Must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ctxIsAdmin) {
			response.AbortError(c, http.StatusForbidden, "admin access required", nil)
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// UserID returns the authenticated user id set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
