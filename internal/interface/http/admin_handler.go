package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/portfoliopro/portfoliopro/internal/application"
	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
	"github.com/portfoliopro/portfoliopro/internal/domain/repository"
	"github.com/portfoliopro/portfoliopro/pkg/helpers"
	"github.com/portfoliopro/portfoliopro/pkg/response"
	"github.com/portfoliopro/portfoliopro/pkg/validation"
)

// AdminHandler is the superadmin panel surface. Every route runs behind
// Auth plus RequireSuperadmin.
type AdminHandler struct {
	Svc     *app.AdminService
	Themes  *app.ThemeService
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewAdminHandler(svc *app.AdminService, themes *app.ThemeService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AdminHandler {
	return &AdminHandler{Svc: svc, Themes: themes, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

func adminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, app.ErrSelfTarget):
		response.Error[any](c, http.StatusConflict, "cannot target own account", nil)
	case errors.Is(err, app.ErrSuperadminTarget):
		response.Error[any](c, http.StatusForbidden, "cannot ban a superadmin", nil)
	case errors.Is(err, app.ErrInvalidRole):
		response.Error[any](c, http.StatusBadRequest, "unknown role", nil)
	case errors.Is(err, app.ErrAccountSuspended):
		response.Error[any](c, http.StatusConflict, "account suspended", nil)
	case errors.Is(err, app.ErrSubdomainInvalid):
		response.Error[any](c, http.StatusBadRequest, "subdomain invalid", nil)
	case errors.Is(err, app.ErrSubdomainReserved):
		response.Error[any](c, http.StatusConflict, "subdomain reserved", nil)
	case errors.Is(err, app.ErrSubdomainTaken):
		response.Error[any](c, http.StatusConflict, "subdomain taken", nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "operation failed", nil)
	}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		adminError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats, "dashboard stats", nil)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	f := repository.UserFilter{
		Role:   entity.Role(c.Query("role")),
		Status: c.Query("status"),
		Search: c.Query("q"),
		Page:   page,
		Size:   size,
	}
	users, total, err := h.Svc.ListUsers(c.Request.Context(), f)
	if err != nil {
		adminError(c, err)
		return
	}
	views := make([]gin.H, 0, len(users))
	for _, u := range users {
		views = append(views, userView(u))
	}
	response.Success(c, http.StatusOK, views, "users", map[string]any{
		"total": total,
		"page":  page,
		"size":  size,
	})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	u, err := h.Svc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		adminError(c, err)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "user", nil)
}

func (h *AdminHandler) Ban(c *gin.Context) {
	u, err := h.Svc.Ban(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		adminError(c, err)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "user banned", nil)
}

func (h *AdminHandler) Unban(c *gin.Context) {
	u, err := h.Svc.Unban(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		adminError(c, err)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "user unbanned", nil)
}

func (h *AdminHandler) ToggleActive(c *gin.Context) {
	u, err := h.Svc.ToggleActive(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		adminError(c, err)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "user status changed", nil)
}

type changeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=USER SUPERADMIN"`
}

func (h *AdminHandler) ChangeRole(c *gin.Context) {
	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.ChangeRole(c.Request.Context(), c.GetString("userID"), c.Param("id"), entity.Role(req.Role))
	if err != nil {
		adminError(c, err)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "role changed", nil)
}

type changeSubdomainRequest struct {
	Subdomain string `json:"subdomain" binding:"required,subdomain"`
}

func (h *AdminHandler) ChangeSubdomain(c *gin.Context) {
	var req changeSubdomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.ChangeSubdomain(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Subdomain)
	if err != nil {
		adminError(c, err)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "subdomain changed", nil)
}

func (h *AdminHandler) ResetPassword(c *gin.Context) {
	u, err := h.Svc.ResetPassword(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		adminError(c, err)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "temporary password sent", nil)
}

// Impersonate swaps the caller's cookies for a short-lived session as
// the target user.
func (h *AdminHandler) Impersonate(c *gin.Context) {
	u, pair, err := h.Svc.Impersonate(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		adminError(c, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, userView(u), "impersonation started", tokenMeta(pair))
}

// ListPresets shows the full catalogue, inactive presets included.
func (h *AdminHandler) ListPresets(c *gin.Context) {
	presets, err := h.Themes.ListPresets(c.Request.Context(), false)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "operation failed", nil)
		return
	}
	response.Success(c, http.StatusOK, presets, "presets", nil)
}

type presetRequest struct {
	Name          string         `json:"name" binding:"required,max=100"`
	Slug          string         `json:"slug" binding:"required,subdomain"`
	Description   string         `json:"description" binding:"max=500"`
	PreviewImage  string         `json:"preview_image" binding:"omitempty,url"`
	IsPremium     bool           `json:"is_premium"`
	IsActive      *bool          `json:"is_active"`
	DefaultConfig map[string]any `json:"default_config"`
	CSSFile       string         `json:"css_file" binding:"max=200"`
	JSFile        string         `json:"js_file" binding:"max=200"`
	Position      int            `json:"position" binding:"gte=0"`
}

func (h *AdminHandler) UpsertPreset(c *gin.Context) {
	var req presetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	p := &entity.ThemePreset{
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		PreviewImage:  req.PreviewImage,
		IsPremium:     req.IsPremium,
		IsActive:      active,
		DefaultConfig: req.DefaultConfig,
		CSSFile:       req.CSSFile,
		JSFile:        req.JSFile,
		Position:      req.Position,
	}
	if err := h.Themes.UpsertPreset(c.Request.Context(), p); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "operation failed", nil)
		return
	}
	response.Success(c, http.StatusOK, p, "preset saved", nil)
}
