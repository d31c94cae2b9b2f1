package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/portfoliopro/portfoliopro/internal/application"
	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
	"github.com/portfoliopro/portfoliopro/pkg/helpers"
	"github.com/portfoliopro/portfoliopro/pkg/response"
	"github.com/portfoliopro/portfoliopro/pkg/validation"
)

type AuthHandler struct {
	Svc     *app.AccountService
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewAuthHandler(svc *app.AccountService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,pwd"`
	Subdomain string `json:"subdomain" binding:"required,subdomain"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userView(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"subdomain":  u.Subdomain,
		"role":       u.Role,
		"is_active":  u.IsActive,
		"is_banned":  u.IsBanned,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

func tokenMeta(pair app.TokenPair) map[string]any {
	return map[string]any{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	}
}

// registerError maps the service's sentinel errors onto API responses.
func registerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrSubdomainInvalid):
		response.Error[any](c, http.StatusBadRequest, "subdomain invalid", nil)
	case errors.Is(err, app.ErrSubdomainReserved):
		response.Error[any](c, http.StatusConflict, "subdomain reserved", nil)
	case errors.Is(err, app.ErrSubdomainTaken):
		response.Error[any](c, http.StatusConflict, "subdomain taken", nil)
	case errors.Is(err, app.ErrEmailTaken):
		response.Error[any](c, http.StatusConflict, "email already registered", nil)
	case errors.Is(err, app.ErrUsernameTaken):
		response.Error[any](c, http.StatusConflict, "username taken", nil)
	case errors.Is(err, app.ErrWeakPassword):
		response.Error[any](c, http.StatusBadRequest, "password too weak", nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), app.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Subdomain: req.Subdomain,
	})
	if err != nil {
		registerError(c, err)
		return
	}
	pair, err := h.Svc.IssueTokens(c.Request.Context(), u)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusCreated, userView(u), "account created", tokenMeta(pair))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, app.ErrAccountSuspended) {
			response.Error[any](c, http.StatusForbidden, "account suspended", nil)
			return
		}
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, userView(u), "login successful", tokenMeta(pair))
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	_, pair, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed", tokenMeta(pair))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.Svc.Logout(c.Request.Context(), c.GetString("userID"))
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.Svc.GetAccount(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	view := userView(u)
	if imp := c.GetString("impersonatorID"); imp != "" {
		view["impersonated_by"] = imp
	}
	response.Success(c, http.StatusOK, view, "account", nil)
}

type updateAccountRequest struct {
	Username string `json:"username" binding:"omitempty,min=3,max=50"`
	Email    string `json:"email" binding:"omitempty,email"`
}

func (h *AuthHandler) UpdateAccount(c *gin.Context) {
	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateAccount(c.Request.Context(), c.GetString("userID"), app.UpdateAccountInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrEmailTaken):
			response.Error[any](c, http.StatusConflict, "email already registered", nil)
		case errors.Is(err, app.ErrUsernameTaken):
			response.Error[any](c, http.StatusConflict, "username taken", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "update failed", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, userView(u), "account updated", nil)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,pwd"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Svc.ChangePassword(c.Request.Context(), c.GetString("userID"), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidCredentials):
			response.Error[any](c, http.StatusUnauthorized, "current password incorrect", nil)
		case errors.Is(err, app.ErrWeakPassword):
			response.Error[any](c, http.StatusBadRequest, "password too weak", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "password change failed", nil)
		}
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"changed": true}, "password changed", nil)
}

// CheckSubdomain is the public signup-form availability probe.
func (h *AuthHandler) CheckSubdomain(c *gin.Context) {
	sub := c.Query("subdomain")
	if sub == "" {
		response.Error[any](c, http.StatusBadRequest, "subdomain query parameter required", nil)
		return
	}
	status, err := h.Svc.CheckSubdomain(c.Request.Context(), sub)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "availability check failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{
		"subdomain": sub,
		"status":    status,
		"available": status == "available",
	}, "subdomain availability", nil)
}

// StopImpersonation returns an impersonating superadmin to their own
// session.
func (h *AuthHandler) StopImpersonation(c *gin.Context) {
	adminID := c.GetString("impersonatorID")
	if adminID == "" {
		response.Error[any](c, http.StatusBadRequest, "not impersonating", nil)
		return
	}
	admin, pair, err := h.Svc.EndImpersonation(c.Request.Context(), adminID)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "could not end impersonation", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, userView(admin), "impersonation ended", tokenMeta(pair))
}
