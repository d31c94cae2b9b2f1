package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/portfoliopro/portfoliopro/internal/container"
	handlers "github.com/portfoliopro/portfoliopro/internal/interface/http"
	"github.com/portfoliopro/portfoliopro/internal/interface/middleware"
)

// SiteModule wires the public surface: the portfolio page, health checks
// and the dev-only debug routes.
type SiteModule struct {
	Handler *handlers.SiteHandler
}

func NewSiteModule(h *handlers.SiteHandler) *SiteModule {
	return &SiteModule{Handler: h}
}

func (m *SiteModule) pageLimiter() gin.HandlerFunc {
	return middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
}

func (m *SiteModule) Register(rg *gin.RouterGroup) {
	rg.GET("/portfolio", m.pageLimiter(), m.Handler.GetPortfolio)
	rg.GET("/healthz", m.Handler.Healthz)

	if container.GetConfig().DebugEndpointsEnabled {
		rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)
		rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
		rg.GET("/debug/subdomain", rl, m.Handler.DebugSubdomain)
	}
}

// RegisterRoot serves the portfolio page at / so visiting a tenant
// host without a path renders the resolved tenant's site.
func (m *SiteModule) RegisterRoot(rg *gin.RouterGroup) {
	rg.GET("/", m.pageLimiter(), m.Handler.GetPortfolio)
}
