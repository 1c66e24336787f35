package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/teamhm/matrimony-backend/internal/container"
	handlers "github.com/teamhm/matrimony-backend/internal/interface/http"
	"github.com/teamhm/matrimony-backend/internal/interface/middleware"
)

// AuthModule wires the account lifecycle routes under /api/auth.
// Login carries the brute-force limiter; the reset endpoints share a softer
// per-IP-and-path one.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	cfg := container.GetConfig()
	loginLimiter := middleware.RateLimit(container.GetRedis(), cfg.LoginRateMax, cfg.LoginRateWindow, middleware.KeyByIP(), nil)
	resetLimiter := middleware.RateLimit(container.GetRedis(), cfg.LoginRateMax, cfg.LoginRateWindow, middleware.KeyByIPAndPath(), nil)

	auth := rg.Group("/auth")
	auth.POST("/register", m.Handler.Register)
	auth.POST("/login", loginLimiter, m.Handler.Login)
	auth.POST("/logout", m.Handler.Logout)
	auth.POST("/refresh-token", m.Handler.Refresh)
	auth.POST("/request-password-reset", resetLimiter, m.Handler.ForgotPassword)
	auth.POST("/reset-password/:token", resetLimiter, m.Handler.ResetPassword)
}
