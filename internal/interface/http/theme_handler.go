package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/portfoliopro/portfoliopro/internal/application"
	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
	"github.com/portfoliopro/portfoliopro/pkg/response"
	"github.com/portfoliopro/portfoliopro/pkg/validation"
)

type ThemeHandler struct {
	Svc    *app.ThemeService
	Logger *logrus.Logger
}

func NewThemeHandler(svc *app.ThemeService, logger *logrus.Logger) *ThemeHandler {
	return &ThemeHandler{Svc: svc, Logger: logger}
}

func themeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrThemeNotFound):
		response.Error[any](c, http.StatusNotFound, "theme not found", nil)
	case errors.Is(err, app.ErrPresetNotFound):
		response.Error[any](c, http.StatusNotFound, "preset not found", nil)
	case errors.Is(err, app.ErrPresetInactive):
		response.Error[any](c, http.StatusConflict, "preset inactive", nil)
	case errors.Is(err, app.ErrInvalidTheme):
		response.Error[any](c, http.StatusBadRequest, "unknown theme value", nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "operation failed", nil)
	}
}

func (h *ThemeHandler) GetSettings(c *gin.Context) {
	st, err := h.Svc.GetSettings(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		themeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st, "settings", nil)
}

type settingsRequest struct {
	PrimaryColor       string `json:"primary_color" binding:"required,hexcolor7"`
	SecondaryColor     string `json:"secondary_color" binding:"required,hexcolor7"`
	BackgroundColor    string `json:"background_color" binding:"required,hexcolor7"`
	HeroAboutTextColor string `json:"hero_about_text_color" binding:"required,hexcolor7"`
	GeneralTextColor   string `json:"general_text_color" binding:"required,hexcolor7"`

	NameFontSize           float64 `json:"name_font_size" binding:"gt=0,lte=40"`
	GreetingFontSize       float64 `json:"greeting_font_size" binding:"gt=0,lte=40"`
	NameFontSizeMobile     float64 `json:"name_font_size_mobile" binding:"gt=0,lte=40"`
	GreetingFontSizeMobile float64 `json:"greeting_font_size_mobile" binding:"gt=0,lte=40"`
	HeadingFont            string  `json:"heading_font" binding:"required"`
	BodyFont               string  `json:"body_font" binding:"required"`

	SectionHeadingColor          string  `json:"section_heading_color" binding:"required,hexcolor7"`
	SectionHeadingFontSize       float64 `json:"section_heading_font_size" binding:"gt=0,lte=40"`
	SectionHeadingFontSizeMobile float64 `json:"section_heading_font_size_mobile" binding:"gt=0,lte=40"`

	ShowIntroSection   *bool `json:"show_intro_section" binding:"required"`
	ShowAboutSection   *bool `json:"show_about_section" binding:"required"`
	ShowSkillsSection  *bool `json:"show_skills_section" binding:"required"`
	ShowWorksSection   *bool `json:"show_works_section" binding:"required"`
	ShowContactSection *bool `json:"show_contact_section" binding:"required"`

	BackgroundStyle string `json:"background_style" binding:"required"`
	CircleColor     string `json:"circle_color" binding:"required,hexcolor7"`

	ActiveTheme string         `json:"active_theme" binding:"required"`
	ThemeConfig map[string]any `json:"theme_config"`

	ButtonStyle string `json:"button_style" binding:"required"`
}

func (h *ThemeHandler) SaveSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	st := &entity.SiteSettings{
		UserID:                       c.GetString("userID"),
		PrimaryColor:                 req.PrimaryColor,
		SecondaryColor:               req.SecondaryColor,
		BackgroundColor:              req.BackgroundColor,
		HeroAboutTextColor:           req.HeroAboutTextColor,
		GeneralTextColor:             req.GeneralTextColor,
		NameFontSize:                 req.NameFontSize,
		GreetingFontSize:             req.GreetingFontSize,
		NameFontSizeMobile:           req.NameFontSizeMobile,
		GreetingFontSizeMobile:       req.GreetingFontSizeMobile,
		HeadingFont:                  req.HeadingFont,
		BodyFont:                     req.BodyFont,
		SectionHeadingColor:          req.SectionHeadingColor,
		SectionHeadingFontSize:       req.SectionHeadingFontSize,
		SectionHeadingFontSizeMobile: req.SectionHeadingFontSizeMobile,
		ShowIntroSection:             *req.ShowIntroSection,
		ShowAboutSection:             *req.ShowAboutSection,
		ShowSkillsSection:            *req.ShowSkillsSection,
		ShowWorksSection:             *req.ShowWorksSection,
		ShowContactSection:           *req.ShowContactSection,
		BackgroundStyle:              req.BackgroundStyle,
		CircleColor:                  req.CircleColor,
		ActiveTheme:                  req.ActiveTheme,
		ThemeConfig:                  req.ThemeConfig,
		ButtonStyle:                  req.ButtonStyle,
	}
	if err := h.Svc.SaveSettings(c.Request.Context(), st); err != nil {
		themeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st, "settings saved", nil)
}

func (h *ThemeHandler) ResetSettings(c *gin.Context) {
	st, err := h.Svc.ResetSettings(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		themeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st, "settings reset", nil)
}

func (h *ThemeHandler) ListSavedThemes(c *gin.Context) {
	themes, err := h.Svc.ListSavedThemes(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		themeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, themes, "saved themes", nil)
}

type saveThemeRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

func (h *ThemeHandler) SaveTheme(c *gin.Context) {
	var req saveThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	t, err := h.Svc.SaveTheme(c.Request.Context(), c.GetString("userID"), req.Name)
	if err != nil {
		themeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, t, "theme saved", nil)
}

func (h *ThemeHandler) ApplySavedTheme(c *gin.Context) {
	st, err := h.Svc.ApplySavedTheme(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		themeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st, "theme applied", nil)
}

func (h *ThemeHandler) DeleteSavedTheme(c *gin.Context) {
	if err := h.Svc.DeleteSavedTheme(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		themeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "theme deleted", nil)
}

func (h *ThemeHandler) ListPresets(c *gin.Context) {
	presets, err := h.Svc.ListPresets(c.Request.Context(), true)
	if err != nil {
		themeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, presets, "presets", nil)
}

func (h *ThemeHandler) ApplyPreset(c *gin.Context) {
	st, err := h.Svc.ApplyPreset(c.Request.Context(), c.GetString("userID"), c.Param("slug"))
	if err != nil {
		themeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st, "preset applied", nil)
}
