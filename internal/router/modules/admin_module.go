package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/portfoliopro/portfoliopro/internal/container"
	handlers "github.com/portfoliopro/portfoliopro/internal/interface/http"
	"github.com/portfoliopro/portfoliopro/internal/interface/middleware"
	"github.com/portfoliopro/portfoliopro/pkg/helpers"
)

// AdminModule wires the superadmin panel under /api/admin/*.
type AdminModule struct {
	Handler *handlers.AdminHandler
	JWT     *helpers.JWTManager
}

func NewAdminModule(h *handlers.AdminHandler, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Handler: h, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	a := rg.Group("/admin")
	a.Use(middleware.Auth(container.GetRedis(), m.JWT))
	a.Use(middleware.RequireSuperadmin())
	a.Use(middleware.RateLimit(container.GetRedis(), 240, time.Minute, middleware.KeyByUserID(), nil))

	a.GET("/stats", m.Handler.Stats)

	a.GET("/users", m.Handler.ListUsers)
	a.GET("/users/:id", m.Handler.GetUser)
	a.POST("/users/:id/ban", m.Handler.Ban)
	a.POST("/users/:id/unban", m.Handler.Unban)
	a.POST("/users/:id/toggle-active", m.Handler.ToggleActive)
	a.POST("/users/:id/reset-password", m.Handler.ResetPassword)
	a.POST("/users/:id/impersonate", m.Handler.Impersonate)
	a.PUT("/users/:id/role", m.Handler.ChangeRole)
	a.PUT("/users/:id/subdomain", m.Handler.ChangeSubdomain)

	a.GET("/presets", m.Handler.ListPresets)
	a.PUT("/presets", m.Handler.UpsertPreset)
}
