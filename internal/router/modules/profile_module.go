package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/teamhm/matrimony-backend/internal/container"
	handlers "github.com/teamhm/matrimony-backend/internal/interface/http"
	"github.com/teamhm/matrimony-backend/internal/interface/middleware"
	"github.com/teamhm/matrimony-backend/pkg/helpers"
)

// ProfileModule wires the member-facing profile routes. The browse list is
// public; everything else requires a valid access token.
type ProfileModule struct {
	Handler *handlers.ProfileHandler
	JWT     *helpers.JWTManager
}

func NewProfileModule(h *handlers.ProfileHandler, jwt *helpers.JWTManager) *ProfileModule {
	return &ProfileModule{Handler: h, JWT: jwt}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	// Browse stays public; the card serialization leaves contact details out.
	rg.GET("/profiles", m.Handler.List)

	auth := rg.Group("/profiles")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 300, container.GetConfig().LoginRateWindow, middleware.KeyByIP(), middleware.AllowPrivateIP()))
	{
		auth.GET("/search", m.Handler.Search)
		auth.GET("/me", m.Handler.Me)
		auth.PUT("/me", m.Handler.UpdateMe)
		auth.POST("/me/profile-photo", m.Handler.UploadProfilePhoto)
		auth.POST("/me/additional-photos", m.Handler.UploadAdditionalPhoto)
		auth.DELETE("/me/photos", m.Handler.RemovePhoto)
		auth.GET("/favorites", m.Handler.ListFavorites)
		auth.POST("/:id/favorite", m.Handler.Favorite)
		auth.DELETE("/:id/favorite", m.Handler.Unfavorite)
		auth.GET("/:id", m.Handler.Get)
	}
}
