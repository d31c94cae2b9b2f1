package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/portfoliopro/portfoliopro/internal/container"
	handlers "github.com/portfoliopro/portfoliopro/internal/interface/http"
	"github.com/portfoliopro/portfoliopro/internal/interface/middleware"
	"github.com/portfoliopro/portfoliopro/pkg/helpers"
)

// AuthModule wires registration, login and account routes.
// Public: POST /api/register, /api/login, /api/refresh, GET /api/subdomain/check
// Protected: POST /api/logout, GET/PUT /api/me, PUT /api/me/password,
// POST /api/me/stop-impersonation
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Per-path keys so a refresh burst cannot exhaust the register budget.
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	checkLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)
	rg.GET("/subdomain/check", checkLimiter, m.Handler.CheckSubdomain)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.Me)
		auth.PUT("/me", m.Handler.UpdateAccount)
		auth.PUT("/me/password", m.Handler.ChangePassword)
		auth.POST("/me/stop-impersonation", m.Handler.StopImpersonation)
	}
}
