package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamhm/matrimony-backend/pkg/helpers"
)

func authRouter(jwt *helpers.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Auth(jwt), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c)})
	})
	r.GET("/admin", Auth(jwt), AdminOnly(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	jwt := helpers.NewJWTManager("acc", "ref", time.Minute, time.Hour)
	r := authRouter(jwt)

	tok, _, err := jwt.GenerateAccessToken("u1", false)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u1")
}

func TestAuthRejectsMissingOrBadTokens(t *testing.T) {
	jwt := helpers.NewJWTManager("acc", "ref", time.Minute, time.Hour)
	r := authRouter(jwt)

	refresh, _, err := jwt.GenerateRefreshToken("u1")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer garbage"},
		{"refresh token as access", "Bearer " + refresh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	jwt := helpers.NewJWTManager("acc", "ref", time.Minute, time.Hour)
	r := authRouter(jwt)

	adminTok, _, err := jwt.GenerateAccessToken("admin1", true)
	require.NoError(t, err)
	userTok, _, err := jwt.GenerateAccessToken("user1", false)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminTok)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userTok)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRemainingQuotaClampsAtZero(t *testing.T) {
	assert.Equal(t, 4, remainingQuota(5, 1))
	assert.Equal(t, 0, remainingQuota(5, 5))
	assert.Equal(t, 0, remainingQuota(5, 7), "header must not go negative past the limit")
}

func TestRateLimitKeyFuncs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/login", nil)
	c.Set("real_ip", "203.0.113.9")

	assert.Equal(t, "rl:ip:203.0.113.9", KeyByIP()(c))
	assert.Equal(t, "rl:path:/api/login:ip:203.0.113.9", KeyByIPAndPath()(c))
}
