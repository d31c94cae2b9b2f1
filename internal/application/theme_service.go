package application

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
	repo "github.com/portfoliopro/portfoliopro/internal/domain/repository"
	"github.com/portfoliopro/portfoliopro/pkg/helpers"
)

var (
	ErrThemeNotFound  = errors.New("theme not found")
	ErrInvalidTheme   = errors.New("unknown theme value")
	ErrPresetNotFound = errors.New("preset not found")
	ErrPresetInactive = errors.New("preset inactive")
)

// ThemeService owns per-tenant appearance settings, saved theme snapshots
// and the platform preset catalogue.
type ThemeService struct {
	Repo    repo.ThemeRepository
	Redis   *redis.Client
	Logger  *logrus.Logger
	PageTTL time.Duration
}

func NewThemeService(r repo.ThemeRepository, rdb *redis.Client, logger *logrus.Logger, pageTTL time.Duration) *ThemeService {
	return &ThemeService{Repo: r, Redis: rdb, Logger: logger, PageTTL: pageTTL}
}

func (s *ThemeService) invalidatePage(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, pageKey(userID)); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("page cache delete failed")
	}
}

// GetSettings returns the tenant's appearance settings, falling back to
// defaults when none have been saved yet.
func (s *ThemeService) GetSettings(ctx context.Context, userID string) (*entity.SiteSettings, error) {
	st, err := s.Repo.GetSettings(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return entity.DefaultSiteSettings(userID), nil
	}
	return st, err
}

// SaveSettings validates the enumerated fields and persists the settings.
func (s *ThemeService) SaveSettings(ctx context.Context, st *entity.SiteSettings) error {
	if !slices.Contains(entity.Themes, st.ActiveTheme) ||
		!slices.Contains(entity.BackgroundStyles, st.BackgroundStyle) ||
		!slices.Contains(entity.ButtonStyles, st.ButtonStyle) ||
		!slices.Contains(entity.Fonts, st.HeadingFont) ||
		!slices.Contains(entity.Fonts, st.BodyFont) {
		return ErrInvalidTheme
	}
	if st.ThemeConfig == nil {
		st.ThemeConfig = map[string]any{}
	}
	if err := s.Repo.UpsertSettings(ctx, st); err != nil {
		return err
	}
	s.invalidatePage(ctx, st.UserID)
	return nil
}

// ResetSettings restores the defaults for a tenant.
func (s *ThemeService) ResetSettings(ctx context.Context, userID string) (*entity.SiteSettings, error) {
	st := entity.DefaultSiteSettings(userID)
	if err := s.Repo.UpsertSettings(ctx, st); err != nil {
		return nil, err
	}
	s.invalidatePage(ctx, userID)
	return st, nil
}

func (s *ThemeService) ListSavedThemes(ctx context.Context, userID string) ([]entity.SavedTheme, error) {
	return s.Repo.ListSavedThemes(ctx, userID)
}

// SaveTheme snapshots the tenant's current settings under a name.
func (s *ThemeService) SaveTheme(ctx context.Context, userID, name string) (*entity.SavedTheme, error) {
	st, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	t := &entity.SavedTheme{
		UserID:                 userID,
		Name:                   name,
		PrimaryColor:           st.PrimaryColor,
		SecondaryColor:         st.SecondaryColor,
		BackgroundColor:        st.BackgroundColor,
		TextColor:              st.GeneralTextColor,
		HeadingFont:            st.HeadingFont,
		BodyFont:               st.BodyFont,
		BackgroundStyle:        st.BackgroundStyle,
		CircleColor:            st.CircleColor,
		ButtonStyle:            st.ButtonStyle,
		NameFontSize:           st.NameFontSize,
		GreetingFontSize:       st.GreetingFontSize,
		SectionHeadingFontSize: st.SectionHeadingFontSize,
	}
	if err := s.Repo.CreateSavedTheme(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ApplySavedTheme copies a snapshot back onto the live settings.
func (s *ThemeService) ApplySavedTheme(ctx context.Context, userID, themeID string) (*entity.SiteSettings, error) {
	t, err := s.Repo.GetSavedTheme(ctx, userID, themeID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrThemeNotFound
	}
	if err != nil {
		return nil, err
	}
	st, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	st.PrimaryColor = t.PrimaryColor
	st.SecondaryColor = t.SecondaryColor
	st.BackgroundColor = t.BackgroundColor
	st.GeneralTextColor = t.TextColor
	st.HeadingFont = t.HeadingFont
	st.BodyFont = t.BodyFont
	st.BackgroundStyle = t.BackgroundStyle
	st.CircleColor = t.CircleColor
	st.ButtonStyle = t.ButtonStyle
	st.NameFontSize = t.NameFontSize
	st.GreetingFontSize = t.GreetingFontSize
	st.SectionHeadingFontSize = t.SectionHeadingFontSize
	if err := s.Repo.UpsertSettings(ctx, st); err != nil {
		return nil, err
	}
	s.invalidatePage(ctx, userID)
	return st, nil
}

func (s *ThemeService) DeleteSavedTheme(ctx context.Context, userID, themeID string) error {
	err := s.Repo.DeleteSavedTheme(ctx, userID, themeID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrThemeNotFound
	}
	return err
}

// ListPresets returns the preset catalogue. Tenants only see active
// presets; superadmins pass activeOnly=false.
func (s *ThemeService) ListPresets(ctx context.Context, activeOnly bool) ([]entity.ThemePreset, error) {
	return s.Repo.ListPresets(ctx, activeOnly)
}

// ApplyPreset switches the tenant's active theme to a preset and merges
// the preset's default config into the theme config.
func (s *ThemeService) ApplyPreset(ctx context.Context, userID, slug string) (*entity.SiteSettings, error) {
	p, err := s.Repo.GetPresetBySlug(ctx, slug)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrPresetNotFound
	}
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, ErrPresetInactive
	}
	st, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if slices.Contains(entity.Themes, p.Slug) {
		st.ActiveTheme = p.Slug
	}
	if st.ThemeConfig == nil {
		st.ThemeConfig = map[string]any{}
	}
	for k, v := range p.DefaultConfig {
		st.ThemeConfig[k] = v
	}
	if err := s.Repo.UpsertSettings(ctx, st); err != nil {
		return nil, err
	}
	s.invalidatePage(ctx, userID)
	return st, nil
}

// UpsertPreset is the superadmin catalogue editor entry point.
func (s *ThemeService) UpsertPreset(ctx context.Context, p *entity.ThemePreset) error {
	return s.Repo.UpsertPreset(ctx, p)
}
