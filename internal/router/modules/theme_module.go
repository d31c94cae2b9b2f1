package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/portfoliopro/portfoliopro/internal/container"
	handlers "github.com/portfoliopro/portfoliopro/internal/interface/http"
	"github.com/portfoliopro/portfoliopro/internal/interface/middleware"
	"github.com/portfoliopro/portfoliopro/pkg/helpers"
)

// ThemeModule wires appearance settings, saved themes and the preset
// catalogue under /api/theme/*.
type ThemeModule struct {
	Handler *handlers.ThemeHandler
	JWT     *helpers.JWTManager
}

func NewThemeModule(h *handlers.ThemeHandler, jwt *helpers.JWTManager) *ThemeModule {
	return &ThemeModule{Handler: h, JWT: jwt}
}

func (m *ThemeModule) Register(rg *gin.RouterGroup) {
	// The preset catalogue is global, so listing it needs no session.
	presetLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/theme/presets", presetLimiter, m.Handler.ListPresets)

	t := rg.Group("/theme")
	t.Use(middleware.Auth(container.GetRedis(), m.JWT))
	t.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))

	t.GET("/settings", m.Handler.GetSettings)
	t.PUT("/settings", m.Handler.SaveSettings)
	t.POST("/settings/reset", m.Handler.ResetSettings)

	t.GET("/saved", m.Handler.ListSavedThemes)
	t.POST("/saved", m.Handler.SaveTheme)
	t.POST("/saved/:id/apply", m.Handler.ApplySavedTheme)
	t.DELETE("/saved/:id", m.Handler.DeleteSavedTheme)

	t.POST("/presets/:slug/apply", m.Handler.ApplyPreset)
}
