package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/teamhm/matrimony-backend/internal/interface/http"
	"github.com/teamhm/matrimony-backend/internal/interface/middleware"
	"github.com/teamhm/matrimony-backend/pkg/helpers"
)

// AdminModule wires the administrative surface under /api/admin. All routes
// require a token with the admin claim.
type AdminModule struct {
	Handler *handlers.AdminHandler
	JWT     *helpers.JWTManager
}

func NewAdminModule(h *handlers.AdminHandler, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Handler: h, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(m.JWT), middleware.AdminOnly())
	{
		admin.GET("/profiles", m.Handler.ListAll)
		admin.GET("/profiles/pending", m.Handler.ListPending)
		admin.GET("/profiles/approved", m.Handler.ListApproved)
		admin.POST("/profiles/:id/approve", m.Handler.Approve)
		admin.PUT("/profiles/:id", m.Handler.Update)
		admin.DELETE("/profiles/:id", m.Handler.Delete)
		admin.POST("/users/:userId/suspend", m.Handler.Suspend)
	}
}
