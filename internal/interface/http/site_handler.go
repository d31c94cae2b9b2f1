package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	app "github.com/portfoliopro/portfoliopro/internal/application"
	"github.com/portfoliopro/portfoliopro/internal/interface/middleware"
	"github.com/portfoliopro/portfoliopro/internal/tenancy"
	"github.com/portfoliopro/portfoliopro/pkg/response"
)

// SiteHandler serves the public, unauthenticated surface: the portfolio
// page itself, health checks and the dev-only resolution probe.
type SiteHandler struct {
	Portfolio  *app.PortfolioService
	Logger     *logrus.Logger
	DB         *pgxpool.Pool
	Redis      *redis.Client
	AppName    string
	BaseDomain string
}

func NewSiteHandler(portfolio *app.PortfolioService, logger *logrus.Logger, db *pgxpool.Pool, rdb *redis.Client, appName, baseDomain string) *SiteHandler {
	return &SiteHandler{Portfolio: portfolio, Logger: logger, DB: db, Redis: rdb, AppName: appName, BaseDomain: baseDomain}
}

// GetPortfolio renders a tenant's portfolio. Requests on the bare base
// domain get the landing payload; unknown subdomains get a 404 that
// does not say whether the account exists.
func (h *SiteHandler) GetPortfolio(c *gin.Context) {
	res := middleware.ResolutionFromGin(c)
	switch res.Outcome {
	case tenancy.OutcomeTenant:
		view, err := h.Portfolio.BuildView(c.Request.Context(), res.Tenant.UserID)
		if err != nil {
			h.Logger.WithError(err).WithField("subdomain", res.Subdomain).Error("portfolio build failed")
			response.Error[any](c, http.StatusInternalServerError, "portfolio unavailable", nil)
			return
		}
		response.Success(c, http.StatusOK, view, "portfolio", map[string]any{
			"subdomain": res.Tenant.Subdomain,
			"username":  res.Tenant.Username,
		})
	case tenancy.OutcomeNotFound:
		response.Error[any](c, http.StatusNotFound, "portfolio not found", nil)
	default:
		response.Success[any](c, http.StatusOK, gin.H{
			"name":        h.AppName,
			"base_domain": h.BaseDomain,
		}, "landing", nil)
	}
}

// Healthz reports process liveness plus backing store reachability.
func (h *SiteHandler) Healthz(c *gin.Context) {
	status := http.StatusOK
	checks := gin.H{"db": "ok", "redis": "ok"}
	ctx := c.Request.Context()
	if h.DB != nil {
		if err := h.DB.Ping(ctx); err != nil {
			checks["db"] = "down"
			status = http.StatusServiceUnavailable
		}
	}
	if h.Redis != nil {
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = "down"
			status = http.StatusServiceUnavailable
		}
	}
	c.JSON(status, checks)
}

// DebugSubdomain exposes the raw resolution for the current request.
// Registered only when debug endpoints are enabled.
func (h *SiteHandler) DebugSubdomain(c *gin.Context) {
	res := middleware.ResolutionFromGin(c)
	body := gin.H{
		"host":      c.Request.Host,
		"outcome":   res.Outcome.String(),
		"subdomain": res.Subdomain,
	}
	if res.TenantPresent() {
		body["tenant"] = res.Tenant
	}
	response.Success[any](c, http.StatusOK, body, "resolution", nil)
}
